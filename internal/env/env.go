// Package env resolves the deployment environment from ENV.
package env

import (
	"os"
	"strings"
)

type Environment string

const (
	Local      Environment = "local"
	Production Environment = "production"

	Key string = "ENV"
)

func (e Environment) Valid() bool {
	switch e {
	case Local, Production:
		return true
	}
	return false
}

// Parse maps a raw ENV value to an Environment, falling back to Local.
func Parse(v string) Environment {
	e := Environment(strings.ToLower(strings.TrimSpace(v)))
	if !e.Valid() {
		return Local
	}
	return e
}

// Load reads ENV from the process environment. Call it after any .env file
// has been applied, not from package initialization.
func Load() Environment {
	return Parse(os.Getenv(Key))
}
