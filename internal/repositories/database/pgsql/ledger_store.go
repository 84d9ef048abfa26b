package pgsql

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/SscSPs/shop_ledger/internal/apperrors"
	"github.com/SscSPs/shop_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/shop_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/shop_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
)

// PgxLedgerStore implements portsrepo.LedgerStore on Postgres.
type PgxLedgerStore struct {
	BaseRepository
}

// pgxLedgerTx is the write surface handed to a unit of work.
type pgxLedgerTx struct {
	tx pgx.Tx
}

// Ensure PgxLedgerStore implements portsrepo.LedgerStore
var _ portsrepo.LedgerStore = (*PgxLedgerStore)(nil)

// Ensure pgxLedgerTx implements portsrepo.LedgerTx
var _ portsrepo.LedgerTx = (*pgxLedgerTx)(nil)

func (s *PgxLedgerStore) WithTransaction(ctx context.Context, fn func(tx portsrepo.LedgerTx) error) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		return fn(&pgxLedgerTx{tx: tx})
	})
}

func (s *PgxLedgerStore) FindPartyByID(ctx context.Context, partyID string) (*domain.Party, error) {
	return findPartyByID(ctx, s.Pool, partyID, false)
}

func (s *PgxLedgerStore) FindPartyByName(ctx context.Context, shopID string, partyType domain.PartyType, normalizedName string) (*domain.Party, error) {
	return findPartyByName(ctx, s.Pool, shopID, partyType, normalizedName)
}

func (s *PgxLedgerStore) ListParties(ctx context.Context, shopID string, filter portsrepo.PartyFilter) ([]domain.Party, error) {
	return listParties(ctx, s.Pool, shopID, filter)
}

func (s *PgxLedgerStore) FindProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	return findProductByID(ctx, s.Pool, productID)
}

func (s *PgxLedgerStore) ListProducts(ctx context.Context, shopID string, filter portsrepo.ProductFilter) ([]domain.Product, error) {
	return listProducts(ctx, s.Pool, shopID, filter)
}

func (s *PgxLedgerStore) ListShopIDs(ctx context.Context) ([]string, error) {
	return listShopIDs(ctx, s.Pool)
}

func (s *PgxLedgerStore) FindBillByID(ctx context.Context, billID string) (*domain.Bill, error) {
	return findBillByID(ctx, s.Pool, billID)
}

func (s *PgxLedgerStore) ListBills(ctx context.Context, shopID string, filter portsrepo.BillFilter) ([]domain.Bill, *string, error) {
	return listBills(ctx, s.Pool, shopID, filter)
}

func (s *PgxLedgerStore) FindSettlementByID(ctx context.Context, settlementID string) (*domain.Settlement, error) {
	return findSettlementByID(ctx, s.Pool, settlementID, false)
}

func (s *PgxLedgerStore) ListSettlements(ctx context.Context, shopID string, filter portsrepo.SettlementFilter) ([]domain.Settlement, *string, error) {
	return listSettlements(ctx, s.Pool, shopID, filter)
}

// where collects AND-ed conditions and their positional arguments.
type where struct {
	conds []string
	args  []any
}

func newWhere(column string, value any) *where {
	w := &where{}
	w.eq(column, value)
	return w
}

func (w *where) placeholder(v any) string {
	w.args = append(w.args, v)
	return "$" + strconv.Itoa(len(w.args))
}

func (w *where) eq(column string, value any) {
	w.conds = append(w.conds, column+" = "+w.placeholder(value))
}

// add appends a condition; each %s in format becomes the placeholder for the matching value.
func (w *where) add(format string, values ...any) {
	ph := make([]any, len(values))
	for i, v := range values {
		ph[i] = w.placeholder(v)
	}
	w.conds = append(w.conds, fmt.Sprintf(format, ph...))
}

func (w *where) dateRange(column string, r domain.DateRange) {
	if r.From != nil {
		w.add(column+" >= %s", *r.From)
	}
	if r.To != nil {
		w.add(column+" <= %s", *r.To)
	}
}

// cursor restricts rows to those after the page token in (date, seq) descending order.
func (w *where) cursor(dateColumn string, token *string) error {
	if token == nil || *token == "" {
		return nil
	}
	c, err := pagination.DecodeToken(*token)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	w.add("("+dateColumn+", seq) < (%s, %s)", c.Date, c.Seq)
	return nil
}

// limit fetches one extra row so the caller can tell whether another page exists.
func (w *where) limit(n int) string {
	if n <= 0 {
		return ""
	}
	return " LIMIT " + w.placeholder(n+1)
}

func (w *where) clause() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// trimPage cuts the look-ahead row and returns the token for the next page, if any.
func trimPage[T any](rows []T, limit int, tokenOf func(T) string) ([]T, *string) {
	if limit <= 0 || len(rows) <= limit {
		return rows, nil
	}
	rows = rows[:limit]
	token := tokenOf(rows[len(rows)-1])
	return rows, &token
}
