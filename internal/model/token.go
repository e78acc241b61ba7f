package model

import "github.com/google/uuid"

// TokenManager issues and validates signed session tokens.
type TokenManager interface {
	Issue(userID uuid.UUID) (string, error)
	Parse(token string) (uuid.UUID, error)
}
