// Copyright 2026 Lucas Mercado
// SPDX-License-Identifier: Apache-2.0

package accounts

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

// Handler exposes the signup and login endpoints.
type Handler struct {
	service *Service
	logger  *slog.Logger
}

// NewHandler creates a Handler backed by the given service.
func NewHandler(service *Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token string `json:"token"`
}

// HandleSignup handles POST /signup.
func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON.")
		return
	}

	token, err := h.service.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailRequired), errors.Is(err, ErrPasswordRequired):
			h.writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		case errors.Is(err, ErrEmailTaken):
			h.writeError(w, http.StatusConflict, "email_taken", err.Error())
		default:
			h.logger.Error("Failed to register user", "error", err)
			h.writeError(w, http.StatusInternalServerError, "signup_failed", "An unexpected error has occurred.")
		}
		return
	}

	h.writeJSON(w, http.StatusCreated, sessionResponse{Token: token})
}

// HandleLogin handles POST /login.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON.")
		return
	}

	token, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			h.writeError(w, http.StatusUnauthorized, "invalid_credentials", err.Error())
			return
		}
		h.logger.Error("Failed to log user in", "error", err)
		h.writeError(w, http.StatusInternalServerError, "login_failed", "An unexpected error has occurred.")
		return
	}

	h.writeJSON(w, http.StatusOK, sessionResponse{Token: token})
}

func (h *Handler) writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

func (h *Handler) writeError(w http.ResponseWriter, statusCode int, errorCode, message string) {
	h.writeJSON(w, statusCode, map[string]string{"error": errorCode, "message": message})
}
