package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/segyhp/microloan-engine/internal/cache"
	"github.com/segyhp/microloan-engine/internal/clock"
	"github.com/segyhp/microloan-engine/internal/config"
	"github.com/segyhp/microloan-engine/internal/domain"
	"github.com/segyhp/microloan-engine/internal/repository"
	customError "github.com/segyhp/microloan-engine/pkg/errors"
	"github.com/segyhp/microloan-engine/pkg/utils"

	"go.uber.org/zap"
)

const recentTransactionsLimit = 5

// AnalyticsService computes the dashboard and profit reports. Reports are
// cached when a cache is configured; cache failures never fail a request.
type AnalyticsService struct {
	Repo   repository.AnalyticsRepository
	cache  cache.Cache
	clock  clock.Clock
	config *config.Config
	logger *zap.Logger
}

func NewAnalyticsService(
	repo repository.AnalyticsRepository,
	cache cache.Cache,
	clk clock.Clock,
	config *config.Config,
	logger *zap.Logger,
) *AnalyticsService {
	return &AnalyticsService{
		Repo:   repo,
		cache:  cache,
		clock:  clk,
		config: config,
		logger: logger,
	}
}

// DashboardOverview computes portfolio counters as of now. With the cache
// enabled the report is keyed by UTC day, so counters may lag loan and payment
// transitions by up to AnalyticsCacheTTL.
func (s *AnalyticsService) DashboardOverview(ctx context.Context) (*domain.DashboardOverview, error) {
	now := s.clock.Now()
	today := utils.StartOfDay(now)
	key := "dashboard:overview:" + today.Format("2006-01-02")

	var cached domain.DashboardOverview
	if s.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	overview := &domain.DashboardOverview{GeneratedAt: now}
	var err error

	if overview.TotalLoans, err = s.Repo.CountLoans(ctx); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	if overview.PendingApprovals, err = s.Repo.CountLoansByStatus(ctx, domain.LoanStatusPending); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	if overview.ActiveLoans, err = s.Repo.CountLoansByStatus(ctx, domain.LoanStatusApproved); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	if overview.OverdueLoans, err = s.Repo.CountOverdueInstallments(ctx, now); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	if overview.TotalCustomers, err = s.Repo.CountCustomers(ctx); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	dueToday, err := s.Repo.SumPendingDueBetween(ctx, today, today.AddDate(0, 0, 1))
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	overview.DuePaymentsToday = dueToday.Total

	portions, err := s.Repo.SumPortions(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	overview.TotalPrincipal = portions.Principal
	overview.TotalInterest = portions.Interest

	months, err := s.Repo.LoanCountsByMonth(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}
	for i := range months {
		months[i].Label = time.Date(months[i].Year, time.Month(months[i].Month), 1, 0, 0, 0, 0, time.UTC).Format("Jan 2006")
	}
	overview.LoanAnalytics = months

	if overview.RecentTransactions, err = s.Repo.RecentApprovedLoans(ctx, recentTransactionsLimit); err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	s.toCache(ctx, key, overview)
	return overview, nil
}

// ProfitAnalytics aggregates disbursement, earned interest and defaults over
// the window described by request
func (s *AnalyticsService) ProfitAnalytics(ctx context.Context, request *domain.ProfitAnalyticsRequest) (*domain.ProfitReport, error) {
	start, end, err := ResolveProfitWindow(request)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("analytics:profit:%s:%s", start.Format("2006-01-02"), end.Format("2006-01-02"))
	var cached domain.ProfitReport
	if s.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	// the window's last day is included in full
	until := end.AddDate(0, 0, 1)

	disbursed, err := s.Repo.DisbursementTotals(ctx, start, until)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	earned, err := s.Repo.EarnedInterest(ctx, start, until)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	defaults, err := s.Repo.DefaultSummary(ctx, start, until)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	report := &domain.ProfitReport{
		Period:                utils.FormatPeriod(start, end),
		RangeStart:            start,
		RangeEnd:              end,
		TotalDisbursement:     disbursed.TotalDisbursement,
		TotalRepayment:        disbursed.TotalRepayment,
		TotalExpectedInterest: disbursed.TotalExpectedInterest,
		DefaultedLoans:        defaults.DefaultedLoans,
		TotalDefaultedAmount:  defaults.TotalDefaultedAmount,
		ProfitEarned:          earned.Interest,
	}

	s.toCache(ctx, key, report)
	return report, nil
}

// ResolveProfitWindow turns a filter into a [start, end] pair of UTC dates,
// both days inclusive.
func ResolveProfitWindow(request *domain.ProfitAnalyticsRequest) (time.Time, time.Time, error) {
	var zero time.Time
	if request == nil {
		return zero, zero, customError.WrapInvalidArgument("filter is required")
	}

	if request.Year != nil && (*request.Year < 1 || *request.Year > 9999) {
		return zero, zero, customError.WrapInvalidArgument("year must be between 1 and 9999")
	}

	switch domain.ProfitFilterType(strings.ToLower(strings.TrimSpace(request.FilterType))) {
	case domain.ProfitFilterMonthly:
		if request.Year == nil || request.Month == nil {
			return zero, zero, customError.WrapInvalidArgument("Year and month are required for monthly filter.")
		}
		if *request.Month < 1 || *request.Month > 12 {
			return zero, zero, customError.WrapInvalidArgument("month must be between 1 and 12")
		}
		start, end := utils.MonthWindow(*request.Year, time.Month(*request.Month))
		return start, end, nil

	case domain.ProfitFilterQuarterly:
		if request.Year == nil || request.Quarter == nil {
			return zero, zero, customError.WrapInvalidArgument("Year and quarter are required for quarterly filter.")
		}
		if *request.Quarter < 1 || *request.Quarter > 4 {
			return zero, zero, customError.WrapInvalidArgument("quarter must be between 1 and 4")
		}
		start, end := utils.QuarterWindow(*request.Year, *request.Quarter)
		return start, end, nil

	case domain.ProfitFilterYearly:
		if request.Year == nil {
			return zero, zero, customError.WrapInvalidArgument("Year is required for yearly filter.")
		}
		start, end := utils.YearWindow(*request.Year)
		return start, end, nil

	case domain.ProfitFilterCustom:
		if request.StartDate == nil || request.EndDate == nil {
			return zero, zero, customError.WrapInvalidArgument("Start and end dates are required for custom filter.")
		}
		start, end := utils.StartOfDay(*request.StartDate), utils.StartOfDay(*request.EndDate)
		if end.Before(start) {
			return zero, zero, customError.WrapInvalidArgument("end date must not be before start date")
		}
		return start, end, nil
	}

	return zero, zero, customError.WrapInvalidArgument("Invalid filter type. Use monthly, quarterly, yearly, or custom.")
}

func (s *AnalyticsService) fromCache(ctx context.Context, key string, dest any) bool {
	if s.cache == nil || s.config.Business.AnalyticsCacheTTL <= 0 {
		return false
	}

	found, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		s.logger.Warn("Analytics cache read failed", zap.String("key", key), zap.Error(customError.WrapCacheError(err)))
		return false
	}

	return found
}

func (s *AnalyticsService) toCache(ctx context.Context, key string, value any) {
	if s.cache == nil || s.config.Business.AnalyticsCacheTTL <= 0 {
		return
	}

	if err := s.cache.Set(ctx, key, value, s.config.Business.AnalyticsCacheTTL); err != nil {
		s.logger.Warn("Analytics cache write failed", zap.String("key", key), zap.Error(customError.WrapCacheError(err)))
	}
}
