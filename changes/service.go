// Copyright 2026 Lucas Mercado
// SPDX-License-Identifier: Apache-2.0

package changes

import (
	"context"
	"fmt"
	"log/slog"
)

// ServiceConfig holds configuration for the sync service.
type ServiceConfig struct {
	MaxBatchOperations int   // Maximum operations per request (0 = unlimited)
	Clock              Clock // Watermark clock; defaults to the system clock
}

// SyncService reconciles client mutation batches against the store and
// computes the down-sync delta. One instance serves all users; per-request
// state lives on the stack.
type SyncService struct {
	labels LabelStore
	notes  NoteStore
	clock  Clock
	logger *slog.Logger
	config *ServiceConfig
}

// NewSyncService creates a sync service on top of the given stores.
func NewSyncService(labels LabelStore, notes NoteStore, config *ServiceConfig, logger *slog.Logger) *SyncService {
	if config == nil {
		config = &ServiceConfig{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	clock := config.Clock
	if clock == nil {
		clock = systemClock{}
	}
	return &SyncService{
		labels: labels,
		notes:  notes,
		clock:  clock,
		logger: logger,
		config: config,
	}
}

// ProcessChanges runs the full reconciliation: validate, classify, apply in
// dependency order, then compute the delta the client needs. Validation
// failures reject the whole batch before anything is applied; per-item apply
// failures are folded into the response instead of aborting.
func (s *SyncService) ProcessChanges(ctx context.Context, userID int64, req *ChangeRequest) (*ChangeResponse, error) {
	batch, err := s.validateRequest(req)
	if err != nil {
		return nil, err
	}

	outcome, err := s.applyBatch(ctx, userID, batch)
	if err != nil {
		// The batch may be partially applied up to the failing phase;
		// there is no compensating rollback.
		return nil, fmt.Errorf("apply batch for user %d: %w", userID, err)
	}

	resp, err := s.buildResponse(ctx, userID, req, outcome)
	if err != nil {
		return nil, fmt.Errorf("build delta for user %d: %w", userID, err)
	}
	return resp, nil
}

// validateRequest checks the request envelope and types the operation array.
func (s *SyncService) validateRequest(req *ChangeRequest) (Batch, error) {
	if req.LastSyncedAt == nil {
		return Batch{}, fmt.Errorf("%w: lastSyncedAt is required", ErrValidation)
	}
	if req.CurrentData == nil {
		return Batch{}, fmt.Errorf("%w: currentData is required", ErrValidation)
	}
	if len(req.Operations) == 0 {
		return Batch{}, fmt.Errorf("%w: operations must contain at least one element", ErrValidation)
	}
	if s.config.MaxBatchOperations > 0 && len(req.Operations) > s.config.MaxBatchOperations {
		return Batch{}, fmt.Errorf("%w: batch too large: operations=%d limit=%d",
			ErrValidation, len(req.Operations), s.config.MaxBatchOperations)
	}

	ops, err := decodeOperations(req.Operations)
	if err != nil {
		return Batch{}, err
	}
	return Classify(ops), nil
}
