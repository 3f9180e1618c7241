package services

import (
	"context"

	"github.com/fambudget/family_budget_app/internal/core/domain"
)

// StatisticsSvcFacade computes dashboard statistics over a trailing window of
// the caller's visible expenses.
type StatisticsSvcFacade interface {
	// GetStatistics builds the report for the period ending today. familyID is
	// optional; when set it must be a family the caller actively belongs to.
	GetStatistics(ctx context.Context, requestingUserID, familyID string, period domain.StatsPeriod) (*domain.StatsReport, error)
}
