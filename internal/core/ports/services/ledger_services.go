package services

import (
	"context"

	"github.com/SscSPs/shop_ledger/internal/core/domain"
	"github.com/SscSPs/shop_ledger/internal/dto"
)

// BillReaderSvc defines read operations for sales and purchases.
type BillReaderSvc interface {
	GetBillByID(ctx context.Context, shopID string, kind domain.BillKind, billID string) (*domain.Bill, error)
	ListBills(ctx context.Context, shopID string, kind domain.BillKind, params dto.ListBillsParams) (*dto.ListBillsResponse, error)
}

// BillWriterSvc posts, edits and reverses sales and purchases. Every call is one atomic unit.
type BillWriterSvc interface {
	PostSale(ctx context.Context, shopID string, req dto.BillRequest, userID string) (*domain.Bill, error)
	PostPurchase(ctx context.Context, shopID string, req dto.BillRequest, userID string) (*domain.Bill, error)

	// UpdateBill reverses the bill's party and settlement effects and re-posts it with req
	// applied. Stock moves by the net difference between the old and new lines.
	UpdateBill(ctx context.Context, shopID string, kind domain.BillKind, billID string, req dto.UpdateBillRequest, userID string) (*domain.Bill, error)

	// DeleteBill reverses and removes the bill. Manual settlements against it block the delete
	// unless cascade is set, in which case those settlements are reversed and deleted too.
	DeleteBill(ctx context.Context, shopID string, kind domain.BillKind, billID string, cascade bool, userID string) error
}

// LedgerSvcFacade combines the bill interfaces.
type LedgerSvcFacade interface {
	BillReaderSvc
	BillWriterSvc
}
