package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dtroode/roleauth/internal/logger"
	"github.com/dtroode/roleauth/internal/model"
)

// TokenService issues session tokens and resolves them back to stored users.
// It composes the TokenManager and UserStore.
type TokenService struct {
	manager model.TokenManager
	store   model.UserStore
	logger  *logger.Logger
}

func NewTokenService(manager model.TokenManager, store model.UserStore, logger *logger.Logger) *TokenService {
	return &TokenService{manager: manager, store: store, logger: logger}
}

func (s *TokenService) Issue(userID uuid.UUID) (string, error) {
	token, err := s.manager.Issue(userID)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// Verify returns the user ID carried by a token. Malformed, forged and
// expired tokens all yield model.ErrInvalidToken.
func (s *TokenService) Verify(ctx context.Context, token string) (uuid.UUID, error) {
	if token == "" {
		return uuid.Nil, model.ErrInvalidToken
	}

	userID, err := s.manager.Parse(token)
	if err != nil {
		s.logger.Debug("Token service: token rejected", "reason", err.Error())
		return uuid.Nil, model.ErrInvalidToken
	}

	return userID, nil
}

// Resolve verifies the token and loads the current state of its user.
func (s *TokenService) Resolve(ctx context.Context, token string) (model.User, error) {
	userID, err := s.Verify(ctx, token)
	if err != nil {
		return model.User{}, err
	}

	user, err := s.store.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			s.logger.Debug("Token service: token subject no longer exists", "user_id", userID)
			return model.User{}, model.ErrInvalidToken
		}
		return model.User{}, fmt.Errorf("failed to load token subject: %w", err)
	}

	return user, nil
}
