package env

import "testing"

func TestParse(t *testing.T) {
	tests := map[string]Environment{
		"":             Local,
		"local":        Local,
		"production":   Production,
		" Production ": Production,
		"staging":      Local,
	}
	for input, want := range tests {
		if got := Parse(input); got != want {
			t.Fatalf("Parse(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestLoadReadsCurrentProcessEnv(t *testing.T) {
	t.Setenv(Key, "local")
	if got := Load(); got != Local {
		t.Fatalf("expected local, got %q", got)
	}
	t.Setenv(Key, "PRODUCTION")
	if got := Load(); got != Production {
		t.Fatalf("expected production after change, got %q", got)
	}
}
