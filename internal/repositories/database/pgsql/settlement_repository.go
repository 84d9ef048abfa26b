package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/shop_ledger/internal/apperrors"
	"github.com/SscSPs/shop_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/shop_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/shop_ledger/internal/models"
	"github.com/SscSPs/shop_ledger/internal/utils/mapping"
	"github.com/SscSPs/shop_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
)

const settlementColumns = `settlement_id, shop_id, kind, party_id, party_name, voucher_number, settlement_date,
	mode, settlement_type, amount, narration, auto, seq,
	created_at, created_by, last_updated_at, last_updated_by`

func scanSettlementHeader(row pgx.Row) (models.Settlement, error) {
	var m models.Settlement
	err := row.Scan(
		&m.SettlementID,
		&m.ShopID,
		&m.Kind,
		&m.PartyID,
		&m.PartyName,
		&m.VoucherNumber,
		&m.SettlementDate,
		&m.Mode,
		&m.SettlementType,
		&m.Amount,
		&m.Narration,
		&m.Auto,
		&m.Seq,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func loadAllocations(ctx context.Context, q querier, settlementIDs []string) (map[string][]models.Allocation, error) {
	out := make(map[string][]models.Allocation, len(settlementIDs))
	if len(settlementIDs) == 0 {
		return out, nil
	}
	query := `
		SELECT settlement_id, bill_id, invoice_number, amount
		FROM settlement_allocations
		WHERE settlement_id = ANY($1)
		ORDER BY settlement_id, position`
	rows, err := q.Query(ctx, query, settlementIDs)
	if err != nil {
		return nil, dbError("failed to query allocations", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a models.Allocation
		if err := rows.Scan(&a.SettlementID, &a.BillID, &a.InvoiceNumber, &a.Amount); err != nil {
			return nil, dbError("failed to scan allocation", err)
		}
		out[a.SettlementID] = append(out[a.SettlementID], a)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("error iterating allocations", err)
	}
	return out, nil
}

func querySettlements(ctx context.Context, q querier, query string, args ...any) ([]domain.Settlement, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, dbError("failed to query settlements", err)
	}
	headers := make([]models.Settlement, 0)
	for rows.Next() {
		m, err := scanSettlementHeader(rows)
		if err != nil {
			rows.Close()
			return nil, dbError("failed to scan settlement row", err)
		}
		headers = append(headers, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, dbError("error iterating settlement rows", err)
	}

	ids := make([]string, len(headers))
	for i, h := range headers {
		ids[i] = h.SettlementID
	}
	allocs, err := loadAllocations(ctx, q, ids)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Settlement, len(headers))
	for i, h := range headers {
		out[i] = mapping.ToDomainSettlement(h, allocs[h.SettlementID])
	}
	return out, nil
}

func findSettlementByID(ctx context.Context, q querier, settlementID string, forUpdate bool) (*domain.Settlement, error) {
	query := `SELECT ` + settlementColumns + ` FROM settlements WHERE settlement_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	found, err := querySettlements(ctx, q, query, settlementID)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, apperrors.ErrSettlementNotFound
	}
	return &found[0], nil
}

func listSettlements(ctx context.Context, q querier, shopID string, filter portsrepo.SettlementFilter) ([]domain.Settlement, *string, error) {
	w := newWhere("shop_id", shopID)
	if filter.Kind != "" {
		w.eq("kind", string(filter.Kind))
	}
	if filter.PartyID != "" {
		w.eq("party_id", filter.PartyID)
	}
	if filter.Mode != "" {
		w.eq("mode", string(filter.Mode))
	}
	if filter.Type != "" {
		w.eq("settlement_type", string(filter.Type))
	}
	if filter.ExcludeAuto {
		w.conds = append(w.conds, "NOT auto")
	}
	w.dateRange("settlement_date", filter.Range)
	if err := w.cursor("settlement_date", filter.NextToken); err != nil {
		return nil, nil, err
	}

	query := `SELECT ` + settlementColumns + ` FROM settlements` + w.clause() +
		` ORDER BY settlement_date DESC, seq DESC` + w.limit(filter.Limit)
	found, err := querySettlements(ctx, q, query, w.args...)
	if err != nil {
		return nil, nil, err
	}
	page, next := trimPage(found, filter.Limit, func(s domain.Settlement) string {
		return pagination.EncodeToken(s.Date, s.Seq)
	})
	return page, next, nil
}

// --- transactional writes ---

func queueAllocations(batch *pgx.Batch, allocs []models.Allocation) {
	query := `
		INSERT INTO settlement_allocations (settlement_id, bill_id, invoice_number, amount, position)
		VALUES ($1, $2, $3, $4, $5)`
	for i, a := range allocs {
		batch.Queue(query, a.SettlementID, a.BillID, a.InvoiceNumber, a.Amount, i)
	}
}

func (t *pgxLedgerTx) SaveSettlement(ctx context.Context, settlement domain.Settlement) (int64, error) {
	m, allocs := mapping.ToModelSettlement(settlement)
	query := `
		INSERT INTO settlements (
			settlement_id, shop_id, kind, party_id, party_name, voucher_number, settlement_date,
			mode, settlement_type, amount, narration, auto, seq,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, nextval('ledger_seq'), $13, $14, $15, $16)
		RETURNING seq`
	var seq int64
	err := t.tx.QueryRow(ctx, query,
		m.SettlementID,
		m.ShopID,
		m.Kind,
		m.PartyID,
		m.PartyName,
		m.VoucherNumber,
		m.SettlementDate,
		m.Mode,
		m.SettlementType,
		m.Amount,
		m.Narration,
		m.Auto,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	).Scan(&seq)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: settlement %s", apperrors.ErrDuplicate, settlement.SettlementID)
		}
		return 0, dbError("failed to insert settlement "+settlement.SettlementID, err)
	}

	batch := &pgx.Batch{}
	queueAllocations(batch, allocs)
	if err := t.tx.SendBatch(ctx, batch).Close(); err != nil {
		return 0, dbError("failed to insert allocations for settlement "+settlement.SettlementID, err)
	}
	return seq, nil
}

func (t *pgxLedgerTx) LockSettlement(ctx context.Context, settlementID string) (*domain.Settlement, error) {
	return findSettlementByID(ctx, t.tx, settlementID, true)
}

func (t *pgxLedgerTx) ListSettlementsByBill(ctx context.Context, billID string) ([]domain.Settlement, error) {
	query := `
		SELECT ` + settlementColumns + `
		FROM settlements s
		WHERE EXISTS (
			SELECT 1 FROM settlement_allocations a
			WHERE a.settlement_id = s.settlement_id AND a.bill_id = $1
		)
		ORDER BY seq
		FOR UPDATE`
	return querySettlements(ctx, t.tx, query, billID)
}

// ReplaceSettlement rewrites the header and swaps the allocations. seq and the creation audit
// columns stay.
func (t *pgxLedgerTx) ReplaceSettlement(ctx context.Context, settlement domain.Settlement) error {
	m, allocs := mapping.ToModelSettlement(settlement)
	query := `
		UPDATE settlements
		SET party_id = $2, party_name = $3, settlement_date = $4, mode = $5, settlement_type = $6,
		    amount = $7, narration = $8, last_updated_at = $9, last_updated_by = $10
		WHERE settlement_id = $1`
	tag, err := t.tx.Exec(ctx, query,
		m.SettlementID,
		m.PartyID,
		m.PartyName,
		m.SettlementDate,
		m.Mode,
		m.SettlementType,
		m.Amount,
		m.Narration,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return dbError("failed to update settlement "+settlement.SettlementID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrSettlementNotFound
	}

	batch := &pgx.Batch{}
	batch.Queue(`DELETE FROM settlement_allocations WHERE settlement_id = $1`, settlement.SettlementID)
	queueAllocations(batch, allocs)
	if err := t.tx.SendBatch(ctx, batch).Close(); err != nil {
		return dbError("failed to replace allocations for settlement "+settlement.SettlementID, err)
	}
	return nil
}

func (t *pgxLedgerTx) DeleteSettlement(ctx context.Context, settlementID string) error {
	tag, err := t.tx.Exec(ctx, `DELETE FROM settlements WHERE settlement_id = $1`, settlementID)
	if err != nil {
		return dbError("failed to delete settlement "+settlementID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrSettlementNotFound
	}
	return nil
}

// --- sequences ---

// NextNumber upserts the (shop, series) counter and returns the new value under the row lock
// the upsert takes.
func (t *pgxLedgerTx) NextNumber(ctx context.Context, shopID string, series string) (int64, error) {
	query := `
		INSERT INTO document_sequences (shop_id, series, last_value)
		VALUES ($1, $2, 1)
		ON CONFLICT (shop_id, series) DO UPDATE SET last_value = document_sequences.last_value + 1
		RETURNING last_value`
	var n int64
	if err := t.tx.QueryRow(ctx, query, shopID, series).Scan(&n); err != nil {
		return 0, dbError("failed to allocate number for series "+series, err)
	}
	return n, nil
}
