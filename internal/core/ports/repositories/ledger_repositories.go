package repositories

import (
	"context"

	"github.com/SscSPs/shop_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BillFilter narrows ListBills. Limit 0 returns every match (used by reports).
type BillFilter struct {
	Kind      domain.BillKind
	PartyID   string
	Mode      domain.PaymentMode
	Range     domain.DateRange
	OpenOnly  bool
	Limit     int
	NextToken *string
}

// SettlementFilter narrows ListSettlements. Limit 0 returns every match.
type SettlementFilter struct {
	Kind        domain.SettlementKind
	PartyID     string
	Mode        domain.PaymentMode
	Type        domain.SettlementType
	Range       domain.DateRange
	ExcludeAuto bool
	Limit       int
	NextToken   *string
}

// BillReader defines read operations for bills.
type BillReader interface {
	// FindBillByID returns apperrors.ErrBillNotFound when no bill has the id.
	FindBillByID(ctx context.Context, billID string) (*domain.Bill, error)

	// ListBills returns bills ordered by date then sequence, newest first, and a token for the
	// next page when more rows exist.
	ListBills(ctx context.Context, shopID string, filter BillFilter) ([]domain.Bill, *string, error)
}

// SettlementReader defines read operations for receipts and payments.
type SettlementReader interface {
	// FindSettlementByID returns apperrors.ErrSettlementNotFound when no settlement has the id.
	FindSettlementByID(ctx context.Context, settlementID string) (*domain.Settlement, error)

	// ListSettlements is ordered like ListBills.
	ListSettlements(ctx context.Context, shopID string, filter SettlementFilter) ([]domain.Settlement, *string, error)
}

// BillWriter defines transactional writes for bills.
type BillWriter interface {
	// SaveBill inserts the bill with its lines and returns the insertion sequence assigned to it.
	SaveBill(ctx context.Context, bill domain.Bill) (int64, error)

	// LockBills reads and locks the given bills. Missing ids are absent from the map.
	LockBills(ctx context.Context, billIDs []string) (map[string]domain.Bill, error)

	// AdjustSettled adds delta to settledAmount only if the result stays within
	// [0, totalAmount]; otherwise it returns apperrors.ErrOverSettlement and changes nothing.
	AdjustSettled(ctx context.Context, billID string, delta decimal.Decimal) error

	// ReplaceBill overwrites the header and lines of an existing bill.
	ReplaceBill(ctx context.Context, bill domain.Bill) error

	DeleteBill(ctx context.Context, billID string) error
}

// SettlementWriter defines transactional writes for settlements.
type SettlementWriter interface {
	// SaveSettlement inserts the settlement with its allocations and returns its sequence.
	SaveSettlement(ctx context.Context, settlement domain.Settlement) (int64, error)

	LockSettlement(ctx context.Context, settlementID string) (*domain.Settlement, error)

	// ListSettlementsByBill returns every settlement with an allocation against the bill.
	ListSettlementsByBill(ctx context.Context, billID string) ([]domain.Settlement, error)

	// ReplaceSettlement overwrites the header and allocations of an existing settlement.
	ReplaceSettlement(ctx context.Context, settlement domain.Settlement) error

	DeleteSettlement(ctx context.Context, settlementID string) error
}
