package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memPersister struct {
	mu       sync.Mutex
	token    string
	user     *User
	saveErr  error
	clearErr error
	loadErr  error
	saves    int
	clears   int
}

func (m *memPersister) SaveSession(_ context.Context, token string, user User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.token, m.user = token, &user
	return nil
}

func (m *memPersister) ClearSession(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.clearErr != nil {
		return m.clearErr
	}
	m.clears++
	m.token, m.user = "", nil
	return nil
}

func (m *memPersister) LoadSession(context.Context) (string, *User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return "", nil, m.loadErr
	}
	if m.user == nil {
		return m.token, nil, nil
	}
	u := *m.user
	return m.token, &u, nil
}

func ann() *User {
	return &User{ID: "1", Name: "Ann", Email: "ann@example.com", Role: "user"}
}

func TestStore_LoginSuccess(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		token    string
		user     *User
		wantErr  error
		wantAuth bool
	}{
		{name: "complete payload", token: "tok", user: ann(), wantAuth: true},
		{name: "missing token", token: "", user: ann(), wantErr: ErrIncompletePayload},
		{name: "missing user", token: "tok", user: nil, wantErr: ErrIncompletePayload},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := &memPersister{}
			s := NewStore(p)

			err := s.LoginSuccess(context.Background(), tt.token, tt.user)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, State{}, s.Snapshot())
				assert.Zero(t, p.saves)
				return
			}

			require.NoError(t, err)
			st := s.Snapshot()
			assert.True(t, st.Authenticated)
			assert.Equal(t, "tok", st.Token)
			assert.Equal(t, *tt.user, *st.User)
			assert.Equal(t, "tok", p.token)
			assert.Equal(t, tt.user.Email, p.user.Email)
		})
	}
}

func TestStore_LoginSuccess_PersistFailureKeepsState(t *testing.T) {
	t.Parallel()

	p := &memPersister{saveErr: errors.New("disk full")}
	s := NewStore(p)

	err := s.LoginSuccess(context.Background(), "tok", ann())

	assert.ErrorContains(t, err, "disk full")
	assert.False(t, s.Snapshot().Authenticated)
}

func TestStore_Logout(t *testing.T) {
	t.Parallel()

	p := &memPersister{}
	s := NewStore(p)
	require.NoError(t, s.LoginSuccess(context.Background(), "tok", ann()))

	require.NoError(t, s.Logout(context.Background()))

	assert.Equal(t, State{}, s.Snapshot())
	assert.Empty(t, p.token)
	assert.Nil(t, p.user)
}

func TestStore_Logout_ClearFailureKeepsState(t *testing.T) {
	t.Parallel()

	p := &memPersister{}
	s := NewStore(p)
	require.NoError(t, s.LoginSuccess(context.Background(), "tok", ann()))

	notified := 0
	s.Subscribe(func(State) { notified++ })

	p.clearErr = errors.New("disk full")
	err := s.Logout(context.Background())
	require.ErrorIs(t, err, p.clearErr)

	assert.True(t, s.Snapshot().Authenticated)
	assert.Equal(t, "tok", s.Snapshot().Token)
	assert.Equal(t, 0, notified)

	p.clearErr = nil
	require.NoError(t, s.Logout(context.Background()))
	assert.Equal(t, State{}, s.Snapshot())
	assert.Equal(t, 1, notified)
}

func TestStore_UpdateProfileSuccess(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		partial User
		want    User
	}{
		{
			name:    "name only keeps role",
			partial: User{Name: "Anna"},
			want:    User{ID: "1", Name: "Anna", Email: "ann@example.com", Role: "user"},
		},
		{
			name:    "email and role",
			partial: User{Email: "anna@example.com", Role: "admin"},
			want:    User{ID: "1", Name: "Ann", Email: "anna@example.com", Role: "admin"},
		},
		{
			name:    "empty patch",
			partial: User{},
			want:    *ann(),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := &memPersister{}
			s := NewStore(p)
			require.NoError(t, s.LoginSuccess(context.Background(), "tok", ann()))

			require.NoError(t, s.UpdateProfileSuccess(context.Background(), tt.partial))

			st := s.Snapshot()
			assert.Equal(t, tt.want, *st.User)
			assert.Equal(t, "tok", st.Token)
			assert.Equal(t, tt.want, *p.user)
		})
	}
}

func TestStore_UpdateProfileSuccess_Anonymous(t *testing.T) {
	t.Parallel()

	p := &memPersister{}
	s := NewStore(p)

	require.NoError(t, s.UpdateProfileSuccess(context.Background(), User{Name: "x"}))

	assert.False(t, s.Snapshot().Authenticated)
	assert.Zero(t, p.saves)
}

func TestStore_Hydrate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		token      string
		user       *User
		wantAuth   bool
		wantClears int
	}{
		{name: "both present", token: "tok", user: ann(), wantAuth: true},
		{name: "nothing stored", wantAuth: false},
		{name: "token without user", token: "tok", wantAuth: false, wantClears: 1},
		{name: "user without token", user: ann(), wantAuth: false, wantClears: 1},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := &memPersister{token: tt.token, user: tt.user}
			s := NewStore(p)

			require.NoError(t, s.Hydrate(context.Background()))

			st := s.Snapshot()
			assert.Equal(t, tt.wantAuth, st.Authenticated)
			assert.Equal(t, tt.wantClears, p.clears)
			if !tt.wantAuth {
				assert.Empty(t, st.Token)
				assert.Nil(t, st.User)
			}
		})
	}
}

func TestStore_Hydrate_LoadError(t *testing.T) {
	t.Parallel()

	s := NewStore(&memPersister{loadErr: errors.New("locked")})

	err := s.Hydrate(context.Background())

	assert.ErrorContains(t, err, "load session")
}

func TestStore_Subscribe(t *testing.T) {
	t.Parallel()

	s := NewStore(&memPersister{})

	var seen []bool
	unsubscribe := s.Subscribe(func(st State) {
		seen = append(seen, st.Authenticated)
	})

	require.NoError(t, s.LoginSuccess(context.Background(), "tok", ann()))
	require.NoError(t, s.Logout(context.Background()))
	unsubscribe()
	require.NoError(t, s.LoginSuccess(context.Background(), "tok", ann()))

	assert.Equal(t, []bool{true, false}, seen)
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	t.Parallel()

	s := NewStore(&memPersister{})
	require.NoError(t, s.LoginSuccess(context.Background(), "tok", ann()))

	st := s.Snapshot()
	st.User.Name = "mutated"

	assert.Equal(t, "Ann", s.Snapshot().User.Name)
}
