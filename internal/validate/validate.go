// Package validate holds input rules shared by the server and the CLI client.
package validate

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// MinPasswordLength is the shortest accepted password in characters.
	MinPasswordLength = 8
	// MaxPasswordBytes is the bcrypt input limit.
	MaxPasswordBytes = 72
)

var (
	emailPattern   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	upperPattern   = regexp.MustCompile(`[A-Z]`)
	specialPattern = regexp.MustCompile(`[!@#$%^&*]`)
)

var (
	ErrNameRequired    = errors.New("name is required")
	ErrEmailRequired   = errors.New("email is required")
	ErrEmailFormat     = errors.New("invalid email format")
	ErrPasswordShort   = errors.New("password must be at least 8 characters long")
	ErrPasswordLong    = errors.New("password must be at most 72 bytes long")
	ErrPasswordUpper   = errors.New("password must contain at least one uppercase letter")
	ErrPasswordSpecial = errors.New("password must contain at least one special character (!@#$%^&*)")
)

// Name checks that a display name is present.
func Name(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameRequired
	}
	return nil
}

// Email checks presence and shape of an email address.
func Email(email string) error {
	if email == "" {
		return ErrEmailRequired
	}
	if !emailPattern.MatchString(email) {
		return ErrEmailFormat
	}
	return nil
}

// Password checks length, an uppercase letter and a special character.
func Password(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return ErrPasswordShort
	}
	if len(password) > MaxPasswordBytes {
		return ErrPasswordLong
	}
	if !upperPattern.MatchString(password) {
		return ErrPasswordUpper
	}
	if !specialPattern.MatchString(password) {
		return ErrPasswordSpecial
	}
	return nil
}
