// Copyright 2026 Lucas Mercado
// SPDX-License-Identifier: Apache-2.0

package pgstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Lucasmercado101/Brief/internal/accounts"
)

// Users implements accounts.UserStore on PostgreSQL.
type Users struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func (s *Users) Create(ctx context.Context, email, passwordHash string) (accounts.User, error) {
	var u accounts.User
	err := s.pool.QueryRow(ctx, `
		INSERT INTO users (email, password)
		VALUES (@email, @password)
		RETURNING id, email, password, created_at`,
		pgx.NamedArgs{"email": email, "password": passwordHash},
	).Scan(&u.ID, &u.Email, &u.Password, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.SQLState() == "23505" {
			return accounts.User{}, accounts.ErrEmailTaken
		}
		return accounts.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

func (s *Users) GetByEmail(ctx context.Context, email string) (accounts.User, error) {
	var u accounts.User
	err := s.pool.QueryRow(ctx, `
		SELECT id, email, password, created_at
		FROM users
		WHERE email = @email`,
		pgx.NamedArgs{"email": email},
	).Scan(&u.ID, &u.Email, &u.Password, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return accounts.User{}, accounts.ErrInvalidCredentials
		}
		return accounts.User{}, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}
