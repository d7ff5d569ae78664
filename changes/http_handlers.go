// Copyright 2026 Lucas Mercado
// SPDX-License-Identifier: Apache-2.0

package changes

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

// Authenticator resolves the authenticated user from an HTTP request.
// Implementations validate the session credential (e.g. a JWT); the sync
// core itself never authenticates.
type Authenticator interface {
	UserID(r *http.Request) (int64, error)
}

// HTTPHandlers provides the HTTP surface of the sync core.
type HTTPHandlers struct {
	service *SyncService
	auth    Authenticator
	logger  *slog.Logger
}

// NewHTTPHandlers creates handlers backed by the given service.
func NewHTTPHandlers(service *SyncService, auth Authenticator, logger *slog.Logger) *HTTPHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPHandlers{service: service, auth: auth, logger: logger}
}

// HandleChanges processes a POST /changes reconciliation request.
func (h *HTTPHandlers) HandleChanges(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Only POST method is allowed")
		return
	}

	userID, err := h.auth.UserID(r)
	if err != nil {
		h.writeError(w, http.StatusUnauthorized, "authentication_failed", err.Error())
		return
	}

	var req ChangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON.")
		return
	}

	resp, err := h.service.ProcessChanges(r.Context(), userID, &req)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			h.writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
			return
		}
		h.logger.Error("Failed to process changes", "error", err, "user_id", userID)
		h.writeError(w, http.StatusInternalServerError, "changes_failed", "An unexpected error has occurred.")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("Failed to encode changes response", "error", err, "user_id", userID)
	}
}

// writeError writes the standardized JSON error envelope.
func (h *HTTPHandlers) writeError(w http.ResponseWriter, statusCode int, errorCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: errorCode, Message: message})

	h.logger.Debug("HTTP error response",
		"status_code", statusCode, "error_code", errorCode, "message", message)
}
