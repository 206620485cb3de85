package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/places-api/internal/domain"
	"github.com/phrazzld/places-api/internal/platform/logger"
	"github.com/phrazzld/places-api/internal/service/auth"
	"github.com/phrazzld/places-api/internal/store"
)

// SignUpInput carries the fields of a new account.
type SignUpInput struct {
	Name     string
	Email    string
	Password string
	ImageRef string
}

// AuthResult is returned by sign-up and login.
type AuthResult struct {
	UserID uuid.UUID
	Email  string
	Token  string
}

// UserService provides account operations.
type UserService interface {
	// SignUp creates an account and issues a token.
	// An already registered email is a conflict.
	SignUp(ctx context.Context, input SignUpInput) (*AuthResult, error)

	// Login checks credentials and issues a token. Unknown email and wrong
	// password produce the same error.
	Login(ctx context.Context, email, password string) (*AuthResult, error)

	// ListUsers returns every account.
	ListUsers(ctx context.Context) ([]*domain.User, error)
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	userStore   store.UserStore
	credentials auth.CredentialService
	tokens      auth.TokenService
	db          *sql.DB
	logger      *slog.Logger
}

// NewUserService creates a new UserService
func NewUserService(
	userStore store.UserStore,
	credentials auth.CredentialService,
	tokens auth.TokenService,
	db *sql.DB,
	logger *slog.Logger,
) (UserService, error) {
	if userStore == nil {
		return nil, fmt.Errorf("userStore cannot be nil")
	}
	if credentials == nil {
		return nil, fmt.Errorf("credentials cannot be nil")
	}
	if tokens == nil {
		return nil, fmt.Errorf("tokens cannot be nil")
	}
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &UserServiceImpl{
		userStore:   userStore,
		credentials: credentials,
		tokens:      tokens,
		db:          db,
		logger:      logger.With("component", "user_service"),
	}, nil
}

// SignUp implements UserService.SignUp
// Uses a transaction to ensure atomicity of the operation
func (s *UserServiceImpl) SignUp(ctx context.Context, input SignUpInput) (*AuthResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := domain.ValidatePassword(input.Password); err != nil {
		return nil, domain.NewValidationError(msgInvalidInputs, err)
	}

	_, err := s.userStore.GetByEmail(ctx, input.Email)
	switch {
	case err == nil:
		log.Debug("attempted to sign up with existing email")
		return nil, domain.NewConflictError(msgUserExists, store.ErrEmailExists)
	case !errors.Is(err, store.ErrUserNotFound):
		log.Error("failed to check for existing user", "error", err)
		return nil, domain.NewInternalError(msgSignupFailed, err)
	}

	digest, err := s.credentials.Hash(ctx, input.Password)
	if err != nil {
		log.Error("failed to hash password", "error", err)
		return nil, domain.NewInternalError(msgSignupFailed, err)
	}

	user, err := domain.NewUser(input.Name, input.Email, digest, input.ImageRef)
	if err != nil {
		return nil, domain.NewValidationError(msgInvalidInputs, err)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.userStore.WithTx(tx).Create(ctx, user)
	})
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("email registered concurrently", "email_taken", true)
			return nil, domain.NewConflictError(msgUserExists, err)
		}
		log.Error("failed to save user to database", "error", err)
		return nil, domain.NewInternalError(msgSignupFailed, err)
	}

	token, err := s.tokens.GenerateToken(ctx, user.ID, user.Email)
	if err != nil {
		log.Error("failed to issue token after sign-up", "error", err, "user_id", user.ID)
		return nil, domain.NewInternalError(msgSignupFailed, err)
	}

	log.Info("user signed up", "user_id", user.ID)
	return &AuthResult{UserID: user.ID, Email: user.Email, Token: token}, nil
}

// Login implements UserService.Login
func (s *UserServiceImpl) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("login for unknown email")
			return nil, domain.NewAuthenticationError(msgInvalidCredentials, domain.ErrInvalidCredentials)
		}
		log.Error("failed to load user for login", "error", err)
		return nil, domain.NewInternalError(msgLoginFailed, err)
	}

	ok, err := s.credentials.Verify(ctx, password, user.HashedPassword)
	if err != nil {
		log.Error("failed to verify password", "error", err, "user_id", user.ID)
		return nil, domain.NewInternalError(msgLoginFailed, err)
	}
	if !ok {
		log.Debug("login with wrong password", "user_id", user.ID)
		return nil, domain.NewAuthenticationError(msgInvalidCredentials, domain.ErrInvalidCredentials)
	}

	token, err := s.tokens.GenerateToken(ctx, user.ID, user.Email)
	if err != nil {
		log.Error("failed to issue token after login", "error", err, "user_id", user.ID)
		return nil, domain.NewInternalError(msgLoginFailed, err)
	}

	log.Info("user logged in", "user_id", user.ID)
	return &AuthResult{UserID: user.ID, Email: user.Email, Token: token}, nil
}

// ListUsers implements UserService.ListUsers
func (s *UserServiceImpl) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.userStore.List(ctx)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list users", "error", err)
		return nil, domain.NewInternalError(msgFetchUsersFailed, err)
	}
	return users, nil
}
