package cli

import (
	"errors"
	"sync"
)

// ErrInFlight is returned when the same action is already running.
var ErrInFlight = errors.New("action already in progress")

// Trigger refuses a second run of an action until the first one returns.
type Trigger struct {
	mu      sync.Mutex
	running map[string]bool
}

func NewTrigger() *Trigger {
	return &Trigger{running: make(map[string]bool)}
}

// Do runs fn unless action is already running.
func (t *Trigger) Do(action string, fn func() error) error {
	t.mu.Lock()
	if t.running[action] {
		t.mu.Unlock()
		return ErrInFlight
	}
	t.running[action] = true
	t.mu.Unlock()

	defer func() {
		t.mu.Lock()
		delete(t.running, action)
		t.mu.Unlock()
	}()

	return fn()
}
