package repositories

import (
	"context"
)

// TransactionManager runs a unit of work atomically. If fn returns an error every write made
// through tx is rolled back; otherwise the writes are committed together.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(tx LedgerTx) error) error
}

// LedgerTx is the write surface available inside a transaction. Lock* methods take row locks
// that are held until the transaction ends; callers lock the party first, then products in id
// order, then bills in id order.
type LedgerTx interface {
	PartyWriter
	ProductWriter
	BillWriter
	SettlementWriter
	SequenceWriter
}

// SequenceWriter hands out per-shop document numbers.
type SequenceWriter interface {
	// NextNumber increments and returns the counter for (shopID, series). The first value is 1.
	NextNumber(ctx context.Context, shopID string, series string) (int64, error)
}
