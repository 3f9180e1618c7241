package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/fambudget/family_budget_app/internal/core/domain"
	portsrepo "github.com/fambudget/family_budget_app/internal/core/ports/repositories"
	portssvc "github.com/fambudget/family_budget_app/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

type statisticsService struct {
	BaseService
	statsRepo portsrepo.StatisticsRepository
}

// NewStatisticsService creates the dashboard statistics service.
func NewStatisticsService(statsRepo portsrepo.StatisticsRepository, authorizer portssvc.FamilyAuthorizerSvc) portssvc.StatisticsSvcFacade {
	svc := &statisticsService{
		statsRepo: statsRepo,
	}
	svc.FamilyAuthorizer = authorizer
	return svc
}

var _ portssvc.StatisticsSvcFacade = (*statisticsService)(nil)

// GetStatistics builds the report for the trailing window ending today.
// Windows are fixed day counts (7/30/365), inclusive at both ends.
func (s *statisticsService) GetStatistics(ctx context.Context, requestingUserID, familyID string, period domain.StatsPeriod) (*domain.StatsReport, error) {
	var familyIDs []string
	if familyID != "" {
		if err := s.AuthorizeUser(ctx, requestingUserID, familyID, domain.RoleViewer); err != nil {
			return nil, err
		}
		familyIDs = []string{familyID}
	} else {
		ids, err := s.FamilyAuthorizer.ActiveFamilyIDs(ctx, requestingUserID)
		if err != nil {
			return nil, err
		}
		familyIDs = ids
	}

	endDate := time.Now().Truncate(24 * time.Hour)
	startDate := endDate.AddDate(0, 0, -period.Days())

	report := &domain.StatsReport{
		Period:        period,
		StartDate:     startDate,
		EndDate:       endDate,
		TotalExpenses: decimal.Zero,
		ByCategory:    []domain.CategoryTotal{},
		ByPayment:     []domain.PaymentMethodTotal{},
		Daily:         []domain.DailyTotal{},
	}
	if len(familyIDs) == 0 {
		return report, nil
	}

	total, count, err := s.statsRepo.GetExpenseTotals(ctx, familyIDs, startDate, endDate)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute expense totals", slog.String("user_id", requestingUserID))
		return nil, err
	}
	report.TotalExpenses = total
	report.ExpenseCount = count

	byCategory, err := s.statsRepo.GetTotalsByCategory(ctx, familyIDs, startDate, endDate)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute totals by category", slog.String("user_id", requestingUserID))
		return nil, err
	}
	report.ByCategory = byCategory

	byPayment, err := s.statsRepo.GetTotalsByPaymentMethod(ctx, familyIDs, startDate, endDate)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute totals by payment method", slog.String("user_id", requestingUserID))
		return nil, err
	}
	report.ByPayment = byPayment

	daily, err := s.statsRepo.GetDailyTotals(ctx, familyIDs, startDate, endDate)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute daily totals", slog.String("user_id", requestingUserID))
		return nil, err
	}
	report.Daily = daily

	return report, nil
}
