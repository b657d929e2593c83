package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/frahmantamala/crm-management/internal"
	"github.com/frahmantamala/crm-management/internal/core/common/validation"
	"github.com/frahmantamala/crm-management/internal/user"
)

type RepositoryAPI interface {
	GetCredentialsByEmail(ctx context.Context, email string) (*Credentials, error)
	StoreToken(ctx context.Context, userID int64, tokenHash, name string, expiresAt *time.Time) error
	FindToken(ctx context.Context, tokenHash string) (*TokenRecord, error)
	TouchToken(ctx context.Context, id int64, at time.Time) error
	RevokeAllTokens(ctx context.Context, userID int64) (int64, error)
	GetUserWithRoles(ctx context.Context, userID int64) (*internal.User, error)
}

// UserService is the slice of the user service that registration and login use.
type UserService interface {
	Create(ctx context.Context, dto user.CreateUserDTO) (*user.Response, error)
	GetByID(ctx context.Context, id int64) (*user.Response, error)
}

// Service is the main auth service with dependencies
type Service struct {
	repo           RepositoryAPI
	users          UserService
	tokenGenerator TokenGenerator
	hasher         Hasher
	logger         *slog.Logger
	now            func() time.Time
}

// NewService creates a new auth service
func NewService(repo RepositoryAPI, users UserService, tokenGen TokenGenerator, hasher Hasher, logger *slog.Logger) *Service {
	return &Service{
		repo:           repo,
		users:          users,
		tokenGenerator: tokenGen,
		hasher:         hasher,
		logger:         logger,
		now:            time.Now,
	}
}

// Register creates the account. The default role is attached by the
// user.registered subscribers.
func (s *Service) Register(ctx context.Context, dto user.CreateUserDTO) (*user.Response, error) {
	return s.users.Create(ctx, dto)
}

// Login verifies the credentials and issues a new token. An unknown email and
// a wrong password are reported differently.
func (s *Service) Login(ctx context.Context, dto LoginDTO) (*LoginResponse, error) {
	if appErr := validation.NewValidator().Struct(dto, LoginMessages).Validate(); appErr != nil {
		return nil, appErr
	}

	creds, err := s.repo.GetCredentialsByEmail(ctx, dto.Email)
	if err != nil {
		return nil, err
	}
	if creds == nil {
		return nil, internal.ErrCredentialsNotFound
	}

	if !s.hasher.Verify(creds.PasswordHash, dto.Password) {
		s.logger.Warn("login rejected: wrong password", "user_id", creds.ID)
		return nil, internal.ErrInvalidCredentials
	}

	issued, err := s.tokenGenerator.GenerateAccessToken(creds.ID, creds.Email)
	if err != nil {
		return nil, internal.NewInternalError("failed to sign token", err)
	}
	if err := s.repo.StoreToken(ctx, creds.ID, HashTokenID(issued.ID), TokenName, issued.ExpiresAt); err != nil {
		s.logger.Error("failed to store token", "error", err, "user_id", creds.ID)
		return nil, err
	}

	u, err := s.users.GetByID(ctx, creds.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", "user_id", creds.ID)
	return &LoginResponse{User: u, Token: issued.Token}, nil
}

// Logout revokes every token the user holds, not only the one in use.
func (s *Service) Logout(ctx context.Context, userID int64) error {
	revoked, err := s.repo.RevokeAllTokens(ctx, userID)
	if err != nil {
		s.logger.Error("failed to revoke tokens", "error", err, "user_id", userID)
		return err
	}

	s.logger.Info("user logged out", "user_id", userID, "revoked_tokens", revoked)
	return nil
}

// Authenticate resolves a bearer token to the identity it was issued for,
// with role and permission names loaded.
func (s *Service) Authenticate(ctx context.Context, token string) (*internal.User, error) {
	claims, err := s.tokenGenerator.ValidateToken(token)
	if err != nil {
		return nil, internal.NewUnauthorizedError("Unauthenticated.", internal.ErrCodeUnauthenticated).WithCause(err)
	}

	record, err := s.repo.FindToken(ctx, HashTokenID(claims.ID))
	if err != nil {
		return nil, err
	}
	now := s.now()
	switch {
	case record == nil:
		return nil, internal.NewUnauthorizedError("Unauthenticated.", internal.ErrCodeUnauthenticated).WithCause(ErrTokenRevoked)
	case record.UserID != claims.UserID:
		return nil, internal.NewUnauthorizedError("Unauthenticated.", internal.ErrCodeUnauthenticated).WithCause(ErrInvalidToken)
	case record.Expired(now):
		return nil, internal.NewUnauthorizedError("Unauthenticated.", internal.ErrCodeUnauthenticated).WithCause(ErrTokenExpired)
	}

	u, err := s.repo.GetUserWithRoles(ctx, record.UserID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, internal.ErrUnauthenticated
	}

	if err := s.repo.TouchToken(ctx, record.ID, now); err != nil {
		s.logger.Warn("failed to update token last_used_at", "error", err, "token_id", record.ID)
	}

	return u, nil
}

// IsUnauthenticated reports whether err should be answered with 401.
func IsUnauthenticated(err error) bool {
	var appErr *internal.AppError
	return errors.As(err, &appErr) && appErr.Type == internal.ErrorTypeUnauthorized
}
