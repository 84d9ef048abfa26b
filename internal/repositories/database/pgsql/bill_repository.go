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
	"github.com/shopspring/decimal"
)

const billColumns = `bill_id, shop_id, kind, party_id, party_name, invoice_number, bill_date, mode,
	subtotal, tax_amount, total_amount, total_profit, settled_amount, narration, seq,
	created_at, created_by, last_updated_at, last_updated_by`

const billLineColumns = `bill_id, line_no, product_id, product_name, quantity, unit_price, tax_rate,
	line_subtotal, tax_amount, line_total, unit_cost, line_profit`

func scanBillHeader(row pgx.Row) (models.Bill, error) {
	var m models.Bill
	err := row.Scan(
		&m.BillID,
		&m.ShopID,
		&m.Kind,
		&m.PartyID,
		&m.PartyName,
		&m.InvoiceNumber,
		&m.BillDate,
		&m.Mode,
		&m.Subtotal,
		&m.TaxAmount,
		&m.TotalAmount,
		&m.TotalProfit,
		&m.SettledAmount,
		&m.Narration,
		&m.Seq,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// loadBillLines fetches the lines of every given bill, keyed by bill id and ordered by line number.
func loadBillLines(ctx context.Context, q querier, billIDs []string) (map[string][]models.BillLine, error) {
	out := make(map[string][]models.BillLine, len(billIDs))
	if len(billIDs) == 0 {
		return out, nil
	}
	query := `SELECT ` + billLineColumns + ` FROM bill_lines WHERE bill_id = ANY($1) ORDER BY bill_id, line_no`
	rows, err := q.Query(ctx, query, billIDs)
	if err != nil {
		return nil, dbError("failed to query bill lines", err)
	}
	defer rows.Close()

	for rows.Next() {
		var l models.BillLine
		if err := rows.Scan(
			&l.BillID,
			&l.LineNo,
			&l.ProductID,
			&l.ProductName,
			&l.Quantity,
			&l.UnitPrice,
			&l.TaxRate,
			&l.LineSubtotal,
			&l.TaxAmount,
			&l.LineTotal,
			&l.UnitCost,
			&l.LineProfit,
		); err != nil {
			return nil, dbError("failed to scan bill line", err)
		}
		out[l.BillID] = append(out[l.BillID], l)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("error iterating bill lines", err)
	}
	return out, nil
}

// queryBills runs a header query and attaches lines, preserving the header order.
func queryBills(ctx context.Context, q querier, query string, args ...any) ([]domain.Bill, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, dbError("failed to query bills", err)
	}
	headers := make([]models.Bill, 0)
	for rows.Next() {
		m, err := scanBillHeader(rows)
		if err != nil {
			rows.Close()
			return nil, dbError("failed to scan bill row", err)
		}
		headers = append(headers, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, dbError("error iterating bill rows", err)
	}

	ids := make([]string, len(headers))
	for i, h := range headers {
		ids[i] = h.BillID
	}
	lines, err := loadBillLines(ctx, q, ids)
	if err != nil {
		return nil, err
	}

	bills := make([]domain.Bill, len(headers))
	for i, h := range headers {
		bills[i] = mapping.ToDomainBill(h, lines[h.BillID])
	}
	return bills, nil
}

func findBillByID(ctx context.Context, q querier, billID string) (*domain.Bill, error) {
	bills, err := queryBills(ctx, q, `SELECT `+billColumns+` FROM bills WHERE bill_id = $1`, billID)
	if err != nil {
		return nil, err
	}
	if len(bills) == 0 {
		return nil, apperrors.ErrBillNotFound
	}
	return &bills[0], nil
}

func listBills(ctx context.Context, q querier, shopID string, filter portsrepo.BillFilter) ([]domain.Bill, *string, error) {
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
	if filter.OpenOnly {
		w.conds = append(w.conds, "settled_amount < total_amount")
	}
	w.dateRange("bill_date", filter.Range)
	if err := w.cursor("bill_date", filter.NextToken); err != nil {
		return nil, nil, err
	}

	query := `SELECT ` + billColumns + ` FROM bills` + w.clause() + ` ORDER BY bill_date DESC, seq DESC` + w.limit(filter.Limit)
	bills, err := queryBills(ctx, q, query, w.args...)
	if err != nil {
		return nil, nil, err
	}
	page, next := trimPage(bills, filter.Limit, func(b domain.Bill) string {
		return pagination.EncodeToken(b.Date, b.Seq)
	})
	return page, next, nil
}

// --- transactional writes ---

func queueBillLines(batch *pgx.Batch, lines []models.BillLine) {
	query := `INSERT INTO bill_lines (` + billLineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	for _, l := range lines {
		batch.Queue(query,
			l.BillID,
			l.LineNo,
			l.ProductID,
			l.ProductName,
			l.Quantity,
			l.UnitPrice,
			l.TaxRate,
			l.LineSubtotal,
			l.TaxAmount,
			l.LineTotal,
			l.UnitCost,
			l.LineProfit,
		)
	}
}

// SaveBill inserts the header, drawing seq from the shared ledger sequence, then batches the lines.
func (t *pgxLedgerTx) SaveBill(ctx context.Context, bill domain.Bill) (int64, error) {
	m, lines := mapping.ToModelBill(bill)
	query := `
		INSERT INTO bills (
			bill_id, shop_id, kind, party_id, party_name, invoice_number, bill_date, mode,
			subtotal, tax_amount, total_amount, total_profit, settled_amount, narration, seq,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, nextval('ledger_seq'), $15, $16, $17, $18)
		RETURNING seq`
	var seq int64
	err := t.tx.QueryRow(ctx, query,
		m.BillID,
		m.ShopID,
		m.Kind,
		m.PartyID,
		m.PartyName,
		m.InvoiceNumber,
		m.BillDate,
		m.Mode,
		m.Subtotal,
		m.TaxAmount,
		m.TotalAmount,
		m.TotalProfit,
		m.SettledAmount,
		m.Narration,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	).Scan(&seq)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: bill %s", apperrors.ErrDuplicate, bill.BillID)
		}
		return 0, dbError("failed to insert bill "+bill.BillID, err)
	}

	batch := &pgx.Batch{}
	queueBillLines(batch, lines)
	if err := t.tx.SendBatch(ctx, batch).Close(); err != nil {
		return 0, dbError("failed to insert lines for bill "+bill.BillID, err)
	}
	return seq, nil
}

func (t *pgxLedgerTx) LockBills(ctx context.Context, billIDs []string) (map[string]domain.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills WHERE bill_id = ANY($1) ORDER BY bill_id FOR UPDATE`
	bills, err := queryBills(ctx, t.tx, query, billIDs)
	if err != nil {
		return nil, err
	}
	out := make(map[string]domain.Bill, len(bills))
	for _, b := range bills {
		out[b.BillID] = b
	}
	return out, nil
}

// AdjustSettled applies delta in one conditional UPDATE that keeps settled_amount inside
// [0, total_amount].
func (t *pgxLedgerTx) AdjustSettled(ctx context.Context, billID string, delta decimal.Decimal) error {
	query := `
		UPDATE bills
		SET settled_amount = settled_amount + $2
		WHERE bill_id = $1
		  AND settled_amount + $2 >= 0
		  AND settled_amount + $2 <= total_amount`
	tag, err := t.tx.Exec(ctx, query, billID, delta)
	if err != nil {
		return dbError("failed to adjust settled amount for bill "+billID, err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	b, err := findBillByID(ctx, t.tx, billID)
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: bill %s pending %s, change %s", apperrors.ErrOverSettlement, b.InvoiceNumber, b.Pending(), delta)
}

// ReplaceBill rewrites the header and swaps the lines. seq and the creation audit columns stay.
func (t *pgxLedgerTx) ReplaceBill(ctx context.Context, bill domain.Bill) error {
	m, lines := mapping.ToModelBill(bill)
	query := `
		UPDATE bills
		SET party_id = $2, party_name = $3, invoice_number = $4, bill_date = $5, mode = $6,
		    subtotal = $7, tax_amount = $8, total_amount = $9, total_profit = $10,
		    settled_amount = $11, narration = $12, last_updated_at = $13, last_updated_by = $14
		WHERE bill_id = $1`
	tag, err := t.tx.Exec(ctx, query,
		m.BillID,
		m.PartyID,
		m.PartyName,
		m.InvoiceNumber,
		m.BillDate,
		m.Mode,
		m.Subtotal,
		m.TaxAmount,
		m.TotalAmount,
		m.TotalProfit,
		m.SettledAmount,
		m.Narration,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return dbError("failed to update bill "+bill.BillID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrBillNotFound
	}

	batch := &pgx.Batch{}
	batch.Queue(`DELETE FROM bill_lines WHERE bill_id = $1`, bill.BillID)
	queueBillLines(batch, lines)
	if err := t.tx.SendBatch(ctx, batch).Close(); err != nil {
		return dbError("failed to replace lines for bill "+bill.BillID, err)
	}
	return nil
}

func (t *pgxLedgerTx) DeleteBill(ctx context.Context, billID string) error {
	// bill_lines go with the bill through ON DELETE CASCADE.
	tag, err := t.tx.Exec(ctx, `DELETE FROM bills WHERE bill_id = $1`, billID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: bill %s is still allocated", apperrors.ErrConsistencyViolation, billID)
		}
		return dbError("failed to delete bill "+billID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrBillNotFound
	}
	return nil
}
