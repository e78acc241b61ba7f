// Package password hashes and verifies user passwords.
package password

import (
	"fmt"

	"github.com/samber/oops"
)

// ErrEmptyPassword is returned when attempting to hash an empty password.
var ErrEmptyPassword = oops.Code("PASSWORD_EMPTY").Errorf("password cannot be empty")

// Hasher provides password hashing and verification.
type Hasher interface {
	// Hash produces a salted digest of the password.
	Hash(password string) (string, error)

	// Verify checks if the password matches the digest.
	// Returns (true, nil) on match, (false, nil) on mismatch, or error on a malformed digest.
	Verify(password, digest string) (bool, error)

	// NeedsUpgrade reports whether the digest should be recomputed with current settings.
	NeedsUpgrade(digest string) bool
}

// scheme is a Hasher that can recognise its own digests.
type scheme interface {
	Hasher
	owns(digest string) bool
}

// Chain hashes with the primary scheme and verifies digests produced by any known scheme.
type Chain struct {
	primary scheme
	known   []scheme
}

var _ Hasher = (*Chain)(nil)

// New builds a Chain for the named algorithm ("bcrypt" or "argon2id").
func New(algorithm string, bcryptCost int) (*Chain, error) {
	bc, err := NewBcrypt(bcryptCost)
	if err != nil {
		return nil, err
	}
	a2 := NewArgon2id()

	switch algorithm {
	case "bcrypt":
		return &Chain{primary: bc, known: []scheme{bc, a2}}, nil
	case "argon2id":
		return &Chain{primary: a2, known: []scheme{a2, bc}}, nil
	default:
		return nil, fmt.Errorf("unknown hash algorithm %q", algorithm)
	}
}

func (c *Chain) Hash(password string) (string, error) {
	return c.primary.Hash(password)
}

func (c *Chain) Verify(password, digest string) (bool, error) {
	for _, s := range c.known {
		if s.owns(digest) {
			return s.Verify(password, digest)
		}
	}
	return false, oops.Code("PASSWORD_INVALID_HASH").Errorf("unrecognised digest format")
}

func (c *Chain) NeedsUpgrade(digest string) bool {
	if !c.primary.owns(digest) {
		return true
	}
	return c.primary.NeedsUpgrade(digest)
}
