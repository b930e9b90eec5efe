// Package service — authentication business logic.
//
// AuthService is the business logic layer for credentials. It sits between
// the HTTP handlers and the repository/auth utilities:
//
//	UserHandler (HTTP) → AuthService (business rules) → UserRepository (DB)
//	                   ↘ Hasher (digest)  ↘ TokenService (JWT)
//
// KEY RESPONSIBILITIES:
//   - Register: reject taken logins, store the digest, issue a token
//   - Login: compare digests, issue a token, never reveal which half failed
//   - Be easily testable with fake dependencies
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sakif/forum-backend/internal/apperror"
	"github.com/sakif/forum-backend/internal/auth"
	"github.com/sakif/forum-backend/internal/model"
	"github.com/sakif/forum-backend/internal/repository"
)

// MessageBadCredentials is shared by the unknown-login and wrong-password
// paths of Login. Clients must not be able to tell them apart.
const MessageBadCredentials = "login or password is incorrect"

// MessageLoginTaken is the conflict message for Register.
const MessageLoginTaken = "user with this login already registered"

// AuthService handles registration and login.
//
// DEPENDENCIES (injected via NewAuthService):
//   - users   repository.UserRepository → read/write credential records
//   - tokens  *auth.TokenService        → issue JWTs
//   - hasher  auth.Hasher               → password digests
//   - logger  *slog.Logger              → structured logging
type AuthService struct {
	users  repository.UserRepository
	tokens *auth.TokenService
	hasher auth.Hasher
	logger *slog.Logger
}

func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	hasher auth.Hasher,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		hasher: hasher,
		logger: logger,
	}
}

// AuthResult is what register and login hand back to the client.
type AuthResult struct {
	UserID int64  `json:"id"`
	Token  string `json:"token"`
}

// Register creates an account and signs the new user in.
//
// WHY CHECK, THEN INSERT, THEN CHECK AGAIN?
// The lookup gives the common case a clean Conflict without touching the
// write path. It cannot close the race between two concurrent registrations
// of the same login, so the UNIQUE(login) constraint is the real guard: the
// repository reports its violation as ErrConflict and we treat that exactly
// like the lookup hit. Exactly one of the racing requests gets an account.
func (s *AuthService) Register(ctx context.Context, login, password string) (*AuthResult, error) {
	_, err := s.users.FindCredentialByLogin(ctx, login)
	switch {
	case err == nil:
		auth.RecordCredentialAttempt("register", auth.ResultConflict)
		return nil, apperror.Conflict(MessageLoginTaken)
	case !errors.Is(err, apperror.ErrNotFound):
		auth.RecordCredentialAttempt("register", auth.ResultError)
		return nil, fmt.Errorf("service/auth: looking up login: %w", err)
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		// BcryptHasher rejects over-long passwords with a validation error.
		if errors.Is(err, apperror.ErrValidation) {
			auth.RecordCredentialAttempt("register", auth.ResultRejected)
			return nil, err
		}
		auth.RecordCredentialAttempt("register", auth.ResultError)
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	id, err := s.users.InsertCredential(ctx, login, digest)
	if err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			auth.RecordCredentialAttempt("register", auth.ResultConflict)
			return nil, apperror.Conflict(MessageLoginTaken)
		}
		auth.RecordCredentialAttempt("register", auth.ResultError)
		return nil, fmt.Errorf("service/auth: inserting credential: %w", err)
	}

	token, err := s.tokens.Issue(id, login)
	if err != nil {
		auth.RecordCredentialAttempt("register", auth.ResultError)
		return nil, fmt.Errorf("service/auth: issuing token for user %d: %w", id, err)
	}

	auth.RecordCredentialAttempt("register", auth.ResultSuccess)
	s.logger.Info("user registered",
		slog.Int64("user_id", id),
		slog.String("login", login),
	)

	return &AuthResult{UserID: id, Token: token}, nil
}

// Login verifies a login/password pair and issues a fresh token.
//
// Unknown login and wrong password return the same Unauthorized error. The
// unknown-login path still hashes the attempt so both paths do the same work.
func (s *AuthService) Login(ctx context.Context, login, password string) (*AuthResult, error) {
	user, err := s.users.FindCredentialByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			_, _ = s.hasher.Hash(password)
			auth.RecordCredentialAttempt("login", auth.ResultRejected)
			return nil, apperror.Unauthorized(MessageBadCredentials)
		}
		auth.RecordCredentialAttempt("login", auth.ResultError)
		return nil, fmt.Errorf("service/auth: looking up login: %w", err)
	}

	if !s.hasher.Matches(user.PasswordDigest, password) {
		auth.RecordCredentialAttempt("login", auth.ResultRejected)
		s.logger.Debug("login rejected", slog.Int64("user_id", user.ID))
		return nil, apperror.Unauthorized(MessageBadCredentials)
	}

	token, err := s.tokens.Issue(user.ID, user.Login)
	if err != nil {
		auth.RecordCredentialAttempt("login", auth.ResultError)
		return nil, fmt.Errorf("service/auth: issuing token for user %d: %w", user.ID, err)
	}

	auth.RecordCredentialAttempt("login", auth.ResultSuccess)
	return &AuthResult{UserID: user.ID, Token: token}, nil
}

// GetUser returns the public projection of a user. Used by /api/users/me
// (with the id from the identity context) and /api/users/{id}.
func (s *AuthService) GetUser(ctx context.Context, id int64) (*model.UserRef, error) {
	if id <= 0 {
		return nil, apperror.ValidationFailed("id", "user id must be positive")
	}

	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ref := user.Ref()
	return &ref, nil
}
