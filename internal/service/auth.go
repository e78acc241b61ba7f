package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/roleauth/internal/apierror"
	"github.com/dtroode/roleauth/internal/logger"
	"github.com/dtroode/roleauth/internal/model"
	"github.com/dtroode/roleauth/internal/password"
	"github.com/dtroode/roleauth/internal/validate"
)

// Outcome labels reported to the Recorder.
const (
	OutcomeSuccess   = "success"
	OutcomeRejected  = "rejected"
	OutcomeForbidden = "forbidden"
	OutcomeError     = "error"
)

// Recorder observes auth operation outcomes.
type Recorder interface {
	AuthAttempt(operation, outcome string)
}

type nopRecorder struct{}

func (nopRecorder) AuthAttempt(string, string) {}

type nopLimiter struct{}

func (nopLimiter) Allow(context.Context, string) (bool, error) { return true, nil }
func (nopLimiter) RecordFailure(context.Context, string) error { return nil }
func (nopLimiter) Reset(context.Context, string) error         { return nil }

// Policy holds role and login switches.
type Policy struct {
	AllowAdminSignup    bool
	DistinctLoginErrors bool
}

// AuthOption configures Auth.
type AuthOption func(*Auth)

func WithPolicy(p Policy) AuthOption {
	return func(a *Auth) { a.policy = p }
}

func WithLimiter(l model.AttemptLimiter) AuthOption {
	return func(a *Auth) {
		if l != nil {
			a.limiter = l
		}
	}
}

func WithRecorder(r Recorder) AuthOption {
	return func(a *Auth) {
		if r != nil {
			a.recorder = r
		}
	}
}

func WithClock(now func() time.Time) AuthOption {
	return func(a *Auth) { a.now = now }
}

type Auth struct {
	userStore    model.UserStore
	hasher       password.Hasher
	tokenService *TokenService
	limiter      model.AttemptLimiter
	recorder     Recorder
	policy       Policy
	dummyHash    string
	now          func() time.Time
	logger       *logger.Logger
}

func NewAuth(
	userStore model.UserStore,
	hasher password.Hasher,
	tokenManager model.TokenManager,
	logger *logger.Logger,
	opts ...AuthOption,
) (*Auth, error) {
	a := &Auth{
		userStore:    userStore,
		hasher:       hasher,
		tokenService: NewTokenService(tokenManager, userStore, logger),
		limiter:      nopLimiter{},
		recorder:     nopRecorder{},
		now:          time.Now,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(a)
	}

	// Unknown emails are verified against this digest so login takes
	// comparable time whether or not the account exists.
	seed := make([]byte, 16)
	if _, err := rand.Read(seed); err != nil {
		return nil, fmt.Errorf("failed to seed dummy hash: %w", err)
	}
	dummy, err := hasher.Hash(hex.EncodeToString(seed))
	if err != nil {
		return nil, fmt.Errorf("failed to compute dummy hash: %w", err)
	}
	a.dummyHash = dummy

	return a, nil
}

// Register creates an account and returns a session token for it.
func (a *Auth) Register(ctx context.Context, params model.RegisterParams) (model.AuthResult, error) {
	a.logger.Debug("Auth service: starting user registration",
		"email", params.Email)

	role, err := a.validateRegistration(params)
	if err != nil {
		a.recorder.AuthAttempt("register", rejection(err))
		return model.AuthResult{}, err
	}

	hash, err := a.hasher.Hash(params.Password)
	if err != nil {
		a.logger.LogError("Auth service: failed to hash password", err,
			"email", params.Email)
		a.recorder.AuthAttempt("register", OutcomeError)
		return model.AuthResult{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := a.now().UTC()
	user, err := a.userStore.Create(ctx, model.User{
		ID:           uuid.New(),
		Name:         params.Name,
		Email:        params.Email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, model.ErrDuplicateEmail) {
			a.logger.Info("Auth service: user already exists",
				"email", params.Email)
			a.recorder.AuthAttempt("register", OutcomeRejected)
			return model.AuthResult{}, apierror.NewErrEmailTaken()
		}
		a.logger.LogError("Auth service: failed to create user", err,
			"email", params.Email)
		a.recorder.AuthAttempt("register", OutcomeError)
		return model.AuthResult{}, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := a.tokenService.Issue(user.ID)
	if err != nil {
		a.logger.Error("Auth service: failed to issue token",
			"user_id", user.ID,
			"error", err.Error())
		a.recorder.AuthAttempt("register", OutcomeError)
		return model.AuthResult{}, err
	}

	a.logger.Info("Auth service: user registered",
		"user_id", user.ID,
		"role", user.Role)
	a.recorder.AuthAttempt("register", OutcomeSuccess)

	return model.AuthResult{Token: token, User: user.View()}, nil
}

func (a *Auth) validateRegistration(params model.RegisterParams) (model.Role, error) {
	if err := validate.Name(params.Name); err != nil {
		return "", apierror.NewErrValidation("%s", err.Error())
	}
	if err := validate.Email(params.Email); err != nil {
		return "", apierror.NewErrValidation("%s", err.Error())
	}
	if err := validate.Password(params.Password); err != nil {
		return "", apierror.NewErrValidation("%s", err.Error())
	}

	role, ok := model.ParseRole(params.Role)
	if !ok {
		return "", apierror.NewErrValidation("role must be one of: user, admin")
	}
	if role == model.RoleAdmin && !a.policy.AllowAdminSignup {
		a.logger.Warn("Auth service: admin self-registration refused",
			"email", params.Email)
		return "", apierror.NewErrForbidden("admin role cannot be self-assigned")
	}

	return role, nil
}

// Login checks credentials and returns a session token.
func (a *Auth) Login(ctx context.Context, email, pass string) (model.AuthResult, error) {
	a.logger.Debug("Auth service: starting login",
		"email", email)

	if email == "" || pass == "" {
		a.recorder.AuthAttempt("login", OutcomeRejected)
		return model.AuthResult{}, apierror.NewErrValidation("email and password are required")
	}

	key := limiterKey(email)
	allowed, err := a.limiter.Allow(ctx, key)
	if err != nil {
		a.logger.Warn("Auth service: attempt limiter unavailable",
			"error", err.Error())
	} else if !allowed {
		a.logger.Info("Auth service: login throttled",
			"email", email)
		a.recorder.AuthAttempt("login", OutcomeRejected)
		return model.AuthResult{}, apierror.NewErrTooManyAttempts()
	}

	user, err := a.userStore.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		a.logger.LogError("Auth service: failed to get user by email", err,
			"email", email)
		a.recorder.AuthAttempt("login", OutcomeError)
		return model.AuthResult{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if errors.Is(err, model.ErrNotFound) {
		_, _ = a.hasher.Verify(pass, a.dummyHash)
		a.recordFailure(ctx, key)
		a.logger.Info("Auth service: login for unknown email",
			"email", email)
		a.recorder.AuthAttempt("login", OutcomeRejected)
		if a.policy.DistinctLoginErrors {
			return model.AuthResult{}, apierror.NewErrUserNotFound()
		}
		return model.AuthResult{}, apierror.NewErrInvalidCredentials()
	}

	ok, err := a.hasher.Verify(pass, user.PasswordHash)
	if err != nil {
		a.logger.LogError("Auth service: failed to verify password", err,
			"user_id", user.ID)
		a.recorder.AuthAttempt("login", OutcomeError)
		return model.AuthResult{}, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		a.recordFailure(ctx, key)
		a.logger.Info("Auth service: wrong password",
			"user_id", user.ID)
		a.recorder.AuthAttempt("login", OutcomeRejected)
		if a.policy.DistinctLoginErrors {
			return model.AuthResult{}, apierror.NewErrInvalidPassword()
		}
		return model.AuthResult{}, apierror.NewErrInvalidCredentials()
	}

	if err := a.limiter.Reset(ctx, key); err != nil {
		a.logger.Warn("Auth service: failed to reset attempt limiter",
			"error", err.Error())
	}

	if a.hasher.NeedsUpgrade(user.PasswordHash) {
		a.upgradeHash(ctx, user, pass)
	}

	token, err := a.tokenService.Issue(user.ID)
	if err != nil {
		a.logger.Error("Auth service: failed to issue token",
			"user_id", user.ID,
			"error", err.Error())
		a.recorder.AuthAttempt("login", OutcomeError)
		return model.AuthResult{}, err
	}

	a.logger.Info("Auth service: user logged in",
		"user_id", user.ID)
	a.recorder.AuthAttempt("login", OutcomeSuccess)

	return model.AuthResult{Token: token, User: user.View()}, nil
}

// upgradeHash re-hashes the password with current settings. Failures are
// logged and never fail the login.
func (a *Auth) upgradeHash(ctx context.Context, user model.User, pass string) {
	hash, err := a.hasher.Hash(pass)
	if err != nil {
		a.logger.LogError("Auth service: failed to upgrade password hash", err,
			"user_id", user.ID)
		return
	}

	user.PasswordHash = hash
	user.UpdatedAt = a.now().UTC()
	if _, err := a.userStore.Save(ctx, user); err != nil {
		a.logger.LogError("Auth service: failed to store upgraded password hash", err,
			"user_id", user.ID)
		return
	}

	a.logger.Info("Auth service: password hash upgraded",
		"user_id", user.ID)
}

func (a *Auth) recordFailure(ctx context.Context, key string) {
	if err := a.limiter.RecordFailure(ctx, key); err != nil {
		a.logger.Warn("Auth service: failed to record login failure",
			"error", err.Error())
	}
}

// rejection separates policy denials from other client errors.
func rejection(err error) string {
	if apierror.HasCode(err, apierror.CodeForbidden) {
		return OutcomeForbidden
	}
	return OutcomeRejected
}

func limiterKey(email string) string {
	return "login:" + strings.ToLower(strings.TrimSpace(email))
}

// UpdateProfile applies the supplied fields to the user identified by userID.
func (a *Auth) UpdateProfile(ctx context.Context, userID uuid.UUID, update model.ProfileUpdate) (model.UserView, error) {
	if userID == uuid.Nil {
		return model.UserView{}, apierror.NewErrUnauthenticated()
	}

	a.logger.Debug("Auth service: updating profile",
		"user_id", userID)

	user, err := a.userStore.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			a.recorder.AuthAttempt("update_profile", OutcomeRejected)
			return model.UserView{}, apierror.NewErrUserNotFound()
		}
		a.logger.LogError("Auth service: failed to get user by id", err,
			"user_id", userID)
		a.recorder.AuthAttempt("update_profile", OutcomeError)
		return model.UserView{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	if update.Empty() {
		return user.View(), nil
	}

	updated, err := a.applyUpdate(user, update)
	if err != nil {
		if _, ok := apierror.As(err); ok {
			a.recorder.AuthAttempt("update_profile", rejection(err))
		} else {
			a.logger.LogError("Auth service: failed to apply profile update", err,
				"user_id", userID)
			a.recorder.AuthAttempt("update_profile", OutcomeError)
		}
		return model.UserView{}, err
	}

	saved, err := a.userStore.Save(ctx, updated)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrDuplicateEmail):
			a.recorder.AuthAttempt("update_profile", OutcomeRejected)
			return model.UserView{}, apierror.NewErrEmailTaken()
		case errors.Is(err, model.ErrNotFound):
			a.recorder.AuthAttempt("update_profile", OutcomeRejected)
			return model.UserView{}, apierror.NewErrUserNotFound()
		}
		a.logger.LogError("Auth service: failed to save user", err,
			"user_id", userID)
		a.recorder.AuthAttempt("update_profile", OutcomeError)
		return model.UserView{}, fmt.Errorf("failed to save user: %w", err)
	}

	a.logger.Info("Auth service: profile updated",
		"user_id", saved.ID)
	a.recorder.AuthAttempt("update_profile", OutcomeSuccess)

	return saved.View(), nil
}

func (a *Auth) applyUpdate(user model.User, update model.ProfileUpdate) (model.User, error) {
	if update.Name != nil {
		if err := validate.Name(*update.Name); err != nil {
			return model.User{}, apierror.NewErrValidation("%s", err.Error())
		}
		user.Name = *update.Name
	}

	if update.Email != nil {
		if err := validate.Email(*update.Email); err != nil {
			return model.User{}, apierror.NewErrValidation("%s", err.Error())
		}
		user.Email = *update.Email
	}

	if update.Role != nil {
		role, ok := model.ParseRole(*update.Role)
		if !ok || *update.Role == "" {
			return model.User{}, apierror.NewErrValidation("role must be one of: user, admin")
		}
		if role != user.Role && !user.IsAdmin() {
			a.logger.Warn("Auth service: role change refused",
				"user_id", user.ID,
				"requested_role", role)
			return model.User{}, apierror.NewErrForbidden("only admins can change roles")
		}
		user.Role = role
	}

	if update.Password != nil {
		if err := validate.Password(*update.Password); err != nil {
			return model.User{}, apierror.NewErrValidation("%s", err.Error())
		}
		hash, err := a.hasher.Hash(*update.Password)
		if err != nil {
			return model.User{}, fmt.Errorf("failed to hash password: %w", err)
		}
		user.PasswordHash = hash
	}

	user.UpdatedAt = a.now().UTC()

	return user, nil
}
