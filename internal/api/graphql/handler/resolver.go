package handler

import (
	"context"

	"github.com/dtroode/roleauth/internal/apierror"
	"github.com/dtroode/roleauth/internal/logger"
	"github.com/dtroode/roleauth/internal/model"
	"github.com/google/uuid"
)

// AuthService defines registration, login and profile operations.
type AuthService interface {
	Register(ctx context.Context, params model.RegisterParams) (model.AuthResult, error)
	Login(ctx context.Context, email, password string) (model.AuthResult, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, update model.ProfileUpdate) (model.UserView, error)
}

// Resolver is the root GraphQL resolver.
type Resolver struct {
	authService    AuthService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewResolver creates a new root resolver.
func NewResolver(authService AuthService, contextManager model.ContextManager, logger *logger.Logger) *Resolver {
	return &Resolver{
		authService:    authService,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Me returns the caller resolved from the bearer token, or null.
func (r *Resolver) Me(ctx context.Context) *userResolver {
	user, ok := r.contextManager.GetUserFromContext(ctx)
	if !ok {
		return nil
	}
	return &userResolver{view: user.View()}
}

type registerArgs struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// Register creates an account and returns a token for it.
func (r *Resolver) Register(ctx context.Context, args registerArgs) (*authPayloadResolver, error) {
	r.logger.Debug("Auth handler: processing register request",
		"email", args.Email,
		"role", args.Role)

	result, err := r.authService.Register(ctx, model.RegisterParams{
		Name:     args.Name,
		Email:    args.Email,
		Password: args.Password,
		Role:     args.Role,
	})
	if err != nil {
		r.logger.Debug("Auth handler: register failed",
			"email", args.Email,
			"error", err.Error())
		return nil, r.handleError(err)
	}

	r.logger.Info("Auth handler: register completed",
		"user_id", result.User.ID)

	return &authPayloadResolver{result: result}, nil
}

type loginArgs struct {
	Email    string
	Password string
}

// Login exchanges credentials for a token.
func (r *Resolver) Login(ctx context.Context, args loginArgs) (*authPayloadResolver, error) {
	r.logger.Debug("Auth handler: processing login request",
		"email", args.Email)

	result, err := r.authService.Login(ctx, args.Email, args.Password)
	if err != nil {
		r.logger.Debug("Auth handler: login failed",
			"email", args.Email,
			"error", err.Error())
		return nil, r.handleError(err)
	}

	r.logger.Info("Auth handler: login completed",
		"user_id", result.User.ID)

	return &authPayloadResolver{result: result}, nil
}

type updateProfileArgs struct {
	Name     *string
	Email    *string
	Password *string
	Role     *string
}

// UpdateProfile changes the supplied fields of the caller's profile.
func (r *Resolver) UpdateProfile(ctx context.Context, args updateProfileArgs) (*userResolver, error) {
	caller, ok := r.contextManager.GetUserFromContext(ctx)
	if !ok {
		return nil, apierror.NewErrUnauthenticated()
	}

	r.logger.Debug("Auth handler: processing profile update request",
		"user_id", caller.ID)

	view, err := r.authService.UpdateProfile(ctx, caller.ID, model.ProfileUpdate{
		Name:     args.Name,
		Email:    args.Email,
		Password: args.Password,
		Role:     args.Role,
	})
	if err != nil {
		r.logger.Debug("Auth handler: profile update failed",
			"user_id", caller.ID,
			"error", err.Error())
		return nil, r.handleError(err)
	}

	r.logger.Info("Auth handler: profile update completed",
		"user_id", view.ID)

	return &userResolver{view: view}, nil
}
