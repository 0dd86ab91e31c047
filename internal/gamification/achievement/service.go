// Copyright (c) 2026 Tatami. All rights reserved.
// Author: dev@tatami-reader.app

package achievement

import (
	"context"
	"log/slog"
)

// Service fronts the achievement catalogue and the evaluator.
type Service struct {
	repo      Repository
	evaluator *Evaluator
	logger    *slog.Logger
}

// NewService constructs a new achievement [Service].
func NewService(repo Repository, evaluator *Evaluator, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		evaluator: evaluator,
		logger:    logger,
	}
}

// ListCatalog returns the active achievement catalogue in catalogue order.
func (service *Service) ListCatalog(context context.Context) ([]*Achievement, error) {
	return service.repo.ListActive(context)
}

// ListMine returns the caller's completed achievements, newest first.
func (service *Service) ListMine(context context.Context, userID string) ([]*UserAchievement, error) {
	return service.repo.ListMine(context, userID)
}

// Check runs one evaluator pass for the caller (see [Evaluator.Evaluate]).
func (service *Service) Check(context context.Context, userID string) (*EvaluationResult, error) {
	return service.evaluator.Evaluate(context, userID)
}
