package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	// Create inserts a new user. Email uniqueness is enforced by the store
	// and reported as ErrDuplicateEmail.
	Create(ctx context.Context, user User) (User, error)
	// Save replaces mutable fields of an existing user.
	Save(ctx context.Context, user User) (User, error)
	Ping(ctx context.Context) error
}

// Role is a closed set of user roles.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole converts raw input into a Role. Empty input yields RoleUser.
func ParseRole(raw string) (Role, bool) {
	switch Role(raw) {
	case "":
		return RoleUser, true
	case RoleUser:
		return RoleUser, true
	case RoleAdmin:
		return RoleAdmin, true
	default:
		return "", false
	}
}

// User represents a stored user with authentication material.
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// View projects the user into the shape returned to callers.
func (u User) View() UserView {
	return UserView{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}

// IsAdmin reports whether the user holds the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserView is the public projection of a user. It never carries the hash.
type UserView struct {
	ID    uuid.UUID
	Name  string
	Email string
	Role  Role
}

// AuthResult is returned by register and login.
type AuthResult struct {
	Token string
	User  UserView
}

// RegisterParams contains raw registration input.
type RegisterParams struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// ProfileUpdate lists fields to change. Nil means not supplied.
type ProfileUpdate struct {
	Name     *string
	Email    *string
	Password *string
	Role     *string
}

// Empty reports whether no field was supplied.
func (p ProfileUpdate) Empty() bool {
	return p.Name == nil && p.Email == nil && p.Password == nil && p.Role == nil
}
