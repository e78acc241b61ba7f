package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/dtroode/roleauth/internal/apierror"
	"github.com/dtroode/roleauth/internal/logger"
	"github.com/dtroode/roleauth/internal/model"
)

// TokenService resolves bearer tokens to stored users.
type TokenService interface {
	Resolve(ctx context.Context, token string) (model.User, error)
}

// Authenticate resolves the bearer token and injects the user into the
// request context. Requests without a valid token pass through anonymously.
// A token that cannot be checked because the store failed ends the request
// with an INTERNAL error.
type Authenticate struct {
	tokenService   TokenService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokenService TokenService, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokenService: tokenService, contextManager: contextManager, logger: logger}
}

// Handle wraps next with token resolution.
func (m *Authenticate) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := bearerToken(r.Header.Get("Authorization"))
		if tokenString == "" {
			next.ServeHTTP(w, r)
			return
		}

		user, err := m.tokenService.Resolve(r.Context(), tokenString)
		if err != nil {
			if errors.Is(err, model.ErrInvalidToken) {
				m.logger.Debug("Authenticate: proceeding without identity",
					"reason", err.Error())
				next.ServeHTTP(w, r)
				return
			}
			m.logger.LogError("Authenticate: failed to resolve token", err)
			writeError(w, http.StatusInternalServerError, apierror.NewErrInternal())
			return
		}

		next.ServeHTTP(w, r.WithContext(m.contextManager.SetUserToContext(r.Context(), user)))
	})
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// writeError answers with a GraphQL shaped error body.
func writeError(w http.ResponseWriter, status int, apiErr *apierror.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"errors": []map[string]any{{
			"message":    apiErr.Message,
			"extensions": apiErr.Extensions(),
		}},
	})
}
