package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/shop_ledger/internal/apperrors"
	"github.com/SscSPs/shop_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/shop_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/shop_ledger/internal/models"
	"github.com/SscSPs/shop_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const partyColumns = `party_id, shop_id, party_type, name, normalized_name, phone, address,
	total_billed, total_settled, created_at, created_by, last_updated_at, last_updated_by`

func scanParty(row pgx.Row) (domain.Party, error) {
	var m models.Party
	err := row.Scan(
		&m.PartyID,
		&m.ShopID,
		&m.PartyType,
		&m.Name,
		&m.NormalizedName,
		&m.Phone,
		&m.Address,
		&m.TotalBilled,
		&m.TotalSettled,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.Party{}, err
	}
	return mapping.ToDomainParty(m), nil
}

func findParty(ctx context.Context, q querier, query string, args ...any) (*domain.Party, error) {
	p, err := scanParty(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPartyNotFound
		}
		return nil, dbError("failed to query party", err)
	}
	return &p, nil
}

func findPartyByID(ctx context.Context, q querier, partyID string, forUpdate bool) (*domain.Party, error) {
	query := `SELECT ` + partyColumns + ` FROM parties WHERE party_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	return findParty(ctx, q, query, partyID)
}

func findPartyByName(ctx context.Context, q querier, shopID string, partyType domain.PartyType, normalizedName string) (*domain.Party, error) {
	query := `SELECT ` + partyColumns + ` FROM parties WHERE shop_id = $1 AND party_type = $2 AND normalized_name = $3`
	return findParty(ctx, q, query, shopID, string(partyType), normalizedName)
}

func listParties(ctx context.Context, q querier, shopID string, filter portsrepo.PartyFilter) ([]domain.Party, error) {
	w := newWhere("shop_id", shopID)
	if filter.Type != "" {
		w.eq("party_type", string(filter.Type))
	}
	if filter.Search != "" {
		w.add("normalized_name LIKE '%%' || %s || '%%'", filter.Search)
	}
	query := `SELECT ` + partyColumns + ` FROM parties` + w.clause() + ` ORDER BY normalized_name, party_id`

	rows, err := q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, dbError("failed to list parties for shop "+shopID, err)
	}
	defer rows.Close()

	parties := make([]domain.Party, 0)
	for rows.Next() {
		p, err := scanParty(rows)
		if err != nil {
			return nil, dbError("failed to scan party row", err)
		}
		parties = append(parties, p)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("error iterating party rows", err)
	}
	return parties, nil
}

// --- transactional writes ---

func (t *pgxLedgerTx) LockParty(ctx context.Context, partyID string) (*domain.Party, error) {
	return findPartyByID(ctx, t.tx, partyID, true)
}

func (t *pgxLedgerTx) FindPartyByName(ctx context.Context, shopID string, partyType domain.PartyType, normalizedName string) (*domain.Party, error) {
	return findPartyByName(ctx, t.tx, shopID, partyType, normalizedName)
}

func (t *pgxLedgerTx) SaveParty(ctx context.Context, party domain.Party) error {
	m := mapping.ToModelParty(party)
	query := `INSERT INTO parties (` + partyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := t.tx.Exec(ctx, query,
		m.PartyID,
		m.ShopID,
		m.PartyType,
		m.Name,
		m.NormalizedName,
		m.Phone,
		m.Address,
		m.TotalBilled,
		m.TotalSettled,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: party %q", apperrors.ErrDuplicate, party.Name)
		}
		return dbError("failed to insert party "+party.PartyID, err)
	}
	return nil
}

func (t *pgxLedgerTx) AdjustPartyTotals(ctx context.Context, partyID string, billedDelta, settledDelta decimal.Decimal, userID string, at time.Time) error {
	query := `
		UPDATE parties
		SET total_billed = total_billed + $2, total_settled = total_settled + $3,
		    last_updated_at = $4, last_updated_by = $5
		WHERE party_id = $1`
	tag, err := t.tx.Exec(ctx, query, partyID, billedDelta, settledDelta, at, userID)
	if err != nil {
		return dbError("failed to adjust totals for party "+partyID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrPartyNotFound
	}
	return nil
}

func (t *pgxLedgerTx) CountPartyReferences(ctx context.Context, partyID string) (int, error) {
	query := `
		SELECT (SELECT count(*) FROM bills WHERE party_id = $1)
		     + (SELECT count(*) FROM settlements WHERE party_id = $1)`
	var n int
	if err := t.tx.QueryRow(ctx, query, partyID).Scan(&n); err != nil {
		return 0, dbError("failed to count references to party "+partyID, err)
	}
	return n, nil
}

func (t *pgxLedgerTx) DeleteParty(ctx context.Context, partyID string) error {
	tag, err := t.tx.Exec(ctx, `DELETE FROM parties WHERE party_id = $1`, partyID)
	if err != nil {
		return dbError("failed to delete party "+partyID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrPartyNotFound
	}
	return nil
}
