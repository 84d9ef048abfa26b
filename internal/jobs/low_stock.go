package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	portsrepo "github.com/SscSPs/shop_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/shop_ledger/internal/core/ports/services"
	"github.com/robfig/cron/v3"
)

// DefaultLowStockSchedule runs the scan at 08:00:00 every day.
const DefaultLowStockSchedule = "0 0 8 * * *"

// shopLister is the part of the store the scanner needs.
type shopLister interface {
	ListShopIDs(ctx context.Context) ([]string, error)
}

var _ shopLister = (portsrepo.ProductReader)(nil)

// LowStockScanner periodically logs every shop's products at or below their minimum stock.
type LowStockScanner struct {
	cronScheduler *cron.Cron
	shops         shopLister
	catalog       portssvc.CatalogSvcFacade
	logger        *slog.Logger
	schedule      string
	timeout       time.Duration
	jobID         cron.EntryID
}

// NewLowStockScanner creates a scanner. An empty schedule falls back to DefaultLowStockSchedule;
// schedules carry a seconds field.
func NewLowStockScanner(shops shopLister, catalog portssvc.CatalogSvcFacade, logger *slog.Logger, schedule string, loc *time.Location) *LowStockScanner {
	if schedule == "" {
		schedule = DefaultLowStockSchedule
	}
	if loc == nil {
		loc = time.UTC
	}
	return &LowStockScanner{
		cronScheduler: cron.New(cron.WithSeconds(), cron.WithLocation(loc)),
		shops:         shops,
		catalog:       catalog,
		logger:        logger.With(slog.String("job", "low_stock_scan")),
		schedule:      schedule,
		timeout:       time.Minute,
	}
}

// Start registers the scan and starts the scheduler.
func (s *LowStockScanner) Start() error {
	var err error
	s.jobID, err = s.cronScheduler.AddFunc(s.schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if _, err := s.Scan(ctx); err != nil {
			s.logger.Error("Low stock scan failed", slog.String("error", err.Error()))
		}
	})
	if err != nil {
		return fmt.Errorf("error scheduling low stock scan: %w", err)
	}

	s.cronScheduler.Start()
	s.logger.Info("Low stock scanner started", slog.String("schedule", s.schedule))
	return nil
}

// Stop stops the scheduler and waits for a running scan to finish or ctx to expire.
func (s *LowStockScanner) Stop(ctx context.Context) {
	if s.cronScheduler == nil {
		return
	}
	select {
	case <-s.cronScheduler.Stop().Done():
		s.logger.Info("Low stock scanner stopped")
	case <-ctx.Done():
		s.logger.Warn("Low stock scanner stop timed out")
	}
}

// Scan runs one pass over every shop and returns the number of low-stock products per shop.
// A failing shop is logged and skipped.
func (s *LowStockScanner) Scan(ctx context.Context) (map[string]int, error) {
	shopIDs, err := s.shops.ListShopIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list shops: %w", err)
	}

	counts := make(map[string]int, len(shopIDs))
	for _, shopID := range shopIDs {
		products, err := s.catalog.ListLowStock(ctx, shopID)
		if err != nil {
			s.logger.Error("Failed to list low stock products", slog.String("shop_id", shopID), slog.String("error", err.Error()))
			continue
		}
		counts[shopID] = len(products)
		if len(products) == 0 {
			continue
		}

		names := make([]string, len(products))
		for i, p := range products {
			names[i] = p.Name
		}
		s.logger.Warn("Products at or below minimum stock",
			slog.String("shop_id", shopID),
			slog.Int("count", len(products)),
			slog.Any("products", names),
		)
	}
	return counts, nil
}
