package services

// ServiceContainer holds instances of all the application services and is what the handlers
// are built from.
type ServiceContainer struct {
	Party      PartySvcFacade
	Catalog    CatalogSvcFacade
	Ledger     LedgerSvcFacade
	Settlement SettlementSvcFacade
	Balance    BalanceSvc
	Reporting  ReportingService
}
