// Copyright 2026 Lucas Mercado
// SPDX-License-Identifier: Apache-2.0

// Package accounts handles signup and login. It issues the session tokens
// the sync core later resolves to a user id; the core itself never sees a
// password.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Lucasmercado101/Brief/changes"
)

var (
	ErrEmailRequired      = errors.New("email is required")
	ErrPasswordRequired   = errors.New("password is required")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// User is an account row. Password holds the encoded argon2id hash, never
// the plaintext.
type User struct {
	ID        int64
	Email     string
	Password  string
	CreatedAt time.Time
}

// UserStore is the account persistence collaborator.
type UserStore interface {
	// Create inserts a user. Returns ErrEmailTaken when the email is
	// already registered.
	Create(ctx context.Context, email, passwordHash string) (User, error)

	// GetByEmail returns ErrInvalidCredentials when no such user exists.
	GetByEmail(ctx context.Context, email string) (User, error)
}

// Service implements registration and signin on top of a UserStore.
type Service struct {
	store      UserStore
	sessions   *changes.SessionAuth
	sessionTTL time.Duration
	logger     *slog.Logger
}

// NewService creates an accounts service issuing sessions with the given
// TTL.
func NewService(store UserStore, sessions *changes.SessionAuth, sessionTTL time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, sessions: sessions, sessionTTL: sessionTTL, logger: logger}
}

// Register creates an account and returns a fresh session token.
func (s *Service) Register(ctx context.Context, email, password string) (string, error) {
	if email == "" {
		return "", ErrEmailRequired
	}
	if password == "" {
		return "", ErrPasswordRequired
	}

	hash, err := HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	user, err := s.store.Create(ctx, email, hash)
	if err != nil {
		return "", err
	}

	s.logger.Info("user registered", "user_id", user.ID)
	return s.sessions.IssueToken(user.ID, s.sessionTTL)
}

// Login verifies the credentials and returns a session token. Unknown email
// and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", ErrInvalidCredentials
	}

	user, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	ok, err := VerifyPassword(password, user.Password)
	if err != nil {
		return "", fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return "", ErrInvalidCredentials
	}

	return s.sessions.IssueToken(user.ID, s.sessionTTL)
}
