package services

import (
	"context"
	"time"

	"github.com/SscSPs/shop_ledger/internal/core/domain"
)

// Granularity buckets a sales series.
type Granularity string

const (
	ByDay   Granularity = "day"
	ByMonth Granularity = "month"
)

// ReportingService defines the summary reports.
type ReportingService interface {
	// Dashboard evaluates "today" and "this month" relative to now in the report time zone.
	Dashboard(ctx context.Context, shopID string, now time.Time) (*domain.Dashboard, error)

	ProfitAndLoss(ctx context.Context, shopID string, rng domain.DateRange) (*domain.ProfitAndLoss, error)
	SalesSeries(ctx context.Context, shopID string, granularity Granularity, rng domain.DateRange) ([]domain.SeriesPoint, error)
}
