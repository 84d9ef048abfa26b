package services

import (
	"context"

	"github.com/SscSPs/shop_ledger/internal/core/domain"
	"github.com/SscSPs/shop_ledger/internal/dto"
)

// SettlementReaderSvc defines read operations for receipts and payments.
type SettlementReaderSvc interface {
	GetSettlementByID(ctx context.Context, shopID string, kind domain.SettlementKind, settlementID string) (*domain.Settlement, error)
	ListSettlements(ctx context.Context, shopID string, kind domain.SettlementKind, params dto.ListSettlementsParams) (*dto.ListSettlementsResponse, error)

	// ListOpenBills returns the party's bills with a pending amount, oldest first.
	ListOpenBills(ctx context.Context, shopID string, partyID string) ([]domain.Bill, error)

	// PlanAllocation computes allocations without writing anything.
	PlanAllocation(ctx context.Context, shopID string, req dto.PlanAllocationRequest) ([]domain.Allocation, error)
}

// SettlementWriterSvc posts, edits and reverses receipts and payments atomically.
type SettlementWriterSvc interface {
	PostSettlement(ctx context.Context, shopID string, kind domain.SettlementKind, req dto.SettlementRequest, userID string) (*domain.Settlement, error)
	UpdateSettlement(ctx context.Context, shopID string, kind domain.SettlementKind, settlementID string, req dto.SettlementRequest, userID string) (*domain.Settlement, error)
	DeleteSettlement(ctx context.Context, shopID string, kind domain.SettlementKind, settlementID string, userID string) error
}

// SettlementSvcFacade combines the settlement interfaces.
type SettlementSvcFacade interface {
	SettlementReaderSvc
	SettlementWriterSvc
}
