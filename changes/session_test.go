// Copyright 2026 Lucas Mercado
// SPDX-License-Identifier: Apache-2.0

package changes

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Lucasmercado101/Brief/internal/auth"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	sa := NewSessionAuth("test-secret")

	token, err := sa.IssueToken(42, time.Hour)
	require.NoError(t, err)

	claims, err := sa.ValidateToken(token)
	require.NoError(t, err)
	require.EqualValues(t, 42, claims.UserID)
	require.Equal(t, "brief", claims.Issuer)
}

func TestSessionTokenExpired(t *testing.T) {
	sa := NewSessionAuth("test-secret")

	token, err := sa.IssueToken(42, -time.Minute)
	require.NoError(t, err)

	_, err = sa.ValidateToken(token)
	require.Error(t, err)
}

func TestSessionTokenWrongSecret(t *testing.T) {
	token, err := NewSessionAuth("secret-a").IssueToken(42, time.Hour)
	require.NoError(t, err)

	_, err = NewSessionAuth("secret-b").ValidateToken(token)
	require.Error(t, err)
}

func TestSessionUserIDFromRequest(t *testing.T) {
	sa := NewSessionAuth("test-secret")
	token, err := sa.IssueToken(7, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/changes", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	userID, err := sa.UserID(req)
	require.NoError(t, err)
	require.EqualValues(t, 7, userID)
}

func TestSessionUserIDHeaderErrors(t *testing.T) {
	sa := NewSessionAuth("test-secret")

	req := httptest.NewRequest(http.MethodPost, "/changes", nil)
	_, err := sa.UserID(req)
	require.ErrorContains(t, err, "authorization header required")

	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	_, err = sa.UserID(req)
	require.ErrorContains(t, err, "bearer token required")

	req.Header.Set("Authorization", "Bearer not.a.jwt")
	_, err = sa.UserID(req)
	require.ErrorContains(t, err, "invalid token")
}

func TestSessionMiddleware(t *testing.T) {
	sa := NewSessionAuth("test-secret")
	token, err := sa.IssueToken(9, time.Hour)
	require.NoError(t, err)

	var gotUserID int64
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.GetUserID(r.Context())
		require.True(t, ok)
		gotUserID = id
	})

	req := httptest.NewRequest(http.MethodPost, "/changes", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	sa.Middleware(next).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.EqualValues(t, 9, gotUserID)

	rec = httptest.NewRecorder()
	sa.Middleware(next).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/changes", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
