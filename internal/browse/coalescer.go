package browse

import (
	"strings"
	"time"
)

// DebounceWindow is how long input must stay quiet before a query is issued.
const DebounceWindow = 400 * time.Millisecond

type EventKind int

const (
	EventQuery EventKind = iota
	EventCleared
)

type Event struct {
	Kind  EventKind
	Query string
}

// Coalescer turns raw keystroke values into stable queries. It owns no timer:
// the caller schedules Settle(token) once Window() has elapsed after Input,
// which keeps it usable from a single-threaded event loop.
type Coalescer struct {
	window  time.Duration
	token   uint64
	pending string
	last    string
	hasLast bool
}

func NewCoalescer(window time.Duration) *Coalescer {
	if window <= 0 {
		window = DebounceWindow
	}
	return &Coalescer{window: window}
}

func (c *Coalescer) Window() time.Duration { return c.window }

// Input records raw as the latest value and returns the token to settle.
// Every call supersedes all earlier tokens.
func (c *Coalescer) Input(raw string) uint64 {
	c.token++
	c.pending = raw
	return c.token
}

// Settle emits the pending value if token is still the latest one and the
// trimmed value differs from the last emission.
func (c *Coalescer) Settle(token uint64) (Event, bool) {
	if token != c.token {
		return Event{}, false
	}
	value := strings.TrimSpace(c.pending)
	if c.hasLast && value == c.last {
		return Event{}, false
	}
	c.last = value
	c.hasLast = true
	if value == "" {
		return Event{Kind: EventCleared}, true
	}
	return Event{Kind: EventQuery, Query: value}, true
}

// Clear emits EventCleared immediately, drops any pending value and forgets
// the last emission so the same text can be searched again.
func (c *Coalescer) Clear() Event {
	c.token++
	c.pending = ""
	c.last = ""
	c.hasLast = false
	return Event{Kind: EventCleared}
}
