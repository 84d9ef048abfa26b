package services

import (
	portsrepo "github.com/SscSPs/shop_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/shop_ledger/internal/core/ports/services"
	"github.com/SscSPs/shop_ledger/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
func NewServiceContainer(cfg *config.Config, store portsrepo.LedgerStore, opts ...ServiceOption) *portssvc.ServiceContainer {
	// Report clock and calendar day follow the configured timezone
	base := append([]ServiceOption{WithLocation(cfg.ReportLocation)}, opts...)

	return &portssvc.ServiceContainer{
		Party:      NewPartyService(store, base...),
		Catalog:    NewCatalogService(store, base...),
		Ledger:     NewLedgerService(store, base...),
		Settlement: NewSettlementService(store, base...),
		Balance:    NewBalanceService(store, base...),
		Reporting: NewReportingService(store,
			WithReportingBase(base...),
			WithDashboardLimits(cfg.LowStockLimit, cfg.RecentLimit),
		),
	}
}
