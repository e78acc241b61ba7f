// Package session keeps the client's view of who is signed in.
//
// State changes are serialized and persisted so that the token and the user
// snapshot are always written or cleared together.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrIncompletePayload is returned when a login result lacks a token or a user.
var ErrIncompletePayload = errors.New("login payload must carry both token and user")

// User is the client-side snapshot of the signed-in user.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// IsAdmin reports whether the snapshot carries the admin role.
func (u User) IsAdmin() bool {
	return u.Role == "admin"
}

// State is an immutable view of the session.
type State struct {
	Token         string
	User          *User
	Authenticated bool
}

func (s State) clone() State {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

// Persister stores the token and user as one unit.
type Persister interface {
	SaveSession(ctx context.Context, token string, user User) error
	ClearSession(ctx context.Context) error
	// LoadSession returns an empty token or a nil user for missing keys.
	LoadSession(ctx context.Context) (string, *User, error)
}

// Listener is notified with the new state after every transition.
type Listener func(State)

// Store holds the session state.
type Store struct {
	mu        sync.Mutex
	state     State
	persister Persister
	listeners map[int]Listener
	nextID    int
}

// NewStore creates an empty, unauthenticated store.
func NewStore(persister Persister) *Store {
	return &Store{
		persister: persister,
		listeners: make(map[int]Listener),
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// LoginSuccess replaces the state with an authenticated session.
func (s *Store) LoginSuccess(ctx context.Context, token string, user *User) error {
	if token == "" || user == nil {
		return ErrIncompletePayload
	}

	s.mu.Lock()
	if err := s.persister.SaveSession(ctx, token, *user); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("persist session: %w", err)
	}
	u := *user
	s.state = State{Token: token, User: &u, Authenticated: true}
	s.mu.Unlock()

	s.notify()
	return nil
}

// Logout clears the durable copy and then the state. The state is kept when
// the durable copy cannot be cleared.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	if err := s.persister.ClearSession(ctx); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("clear session: %w", err)
	}
	s.state = State{}
	s.mu.Unlock()

	s.notify()
	return nil
}

// UpdateProfileSuccess merges the non-empty fields of partial into the user
// snapshot. It is a no-op when nobody is signed in.
func (s *Store) UpdateProfileSuccess(ctx context.Context, partial User) error {
	s.mu.Lock()
	if !s.state.Authenticated || s.state.User == nil {
		s.mu.Unlock()
		return nil
	}

	merged := *s.state.User
	if partial.ID != "" {
		merged.ID = partial.ID
	}
	if partial.Name != "" {
		merged.Name = partial.Name
	}
	if partial.Email != "" {
		merged.Email = partial.Email
	}
	if partial.Role != "" {
		merged.Role = partial.Role
	}

	if err := s.persister.SaveSession(ctx, s.state.Token, merged); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("persist session: %w", err)
	}
	s.state.User = &merged
	s.mu.Unlock()

	s.notify()
	return nil
}

// Hydrate restores the session from durable storage. A token without a user
// or a user without a token is treated as corrupt and wiped.
func (s *Store) Hydrate(ctx context.Context) error {
	token, user, err := s.persister.LoadSession(ctx)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}

	s.mu.Lock()
	switch {
	case token != "" && user != nil:
		s.state = State{Token: token, User: user, Authenticated: true}
	case token == "" && user == nil:
		s.state = State{}
	default:
		s.state = State{}
		if err := s.persister.ClearSession(ctx); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("clear partial session: %w", err)
		}
	}
	s.mu.Unlock()

	s.notify()
	return nil
}

func (s *Store) notify() {
	s.mu.Lock()
	state := s.state.clone()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(state.clone())
	}
}
