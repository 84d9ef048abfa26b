package pgsql

import (
	portsrepo "github.com/SscSPs/shop_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewLedgerStore returns the Postgres-backed store used by every service.
func NewLedgerStore(dbPool *pgxpool.Pool) portsrepo.LedgerStore {
	return &PgxLedgerStore{BaseRepository: BaseRepository{Pool: dbPool}}
}
