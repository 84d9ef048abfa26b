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

const productColumns = `product_id, shop_id, name, category, unit, unit_cost, selling_price, tax_rate,
	stock, min_stock, created_at, created_by, last_updated_at, last_updated_by`

func scanProduct(row pgx.Row) (domain.Product, error) {
	var m models.Product
	err := row.Scan(
		&m.ProductID,
		&m.ShopID,
		&m.Name,
		&m.Category,
		&m.Unit,
		&m.UnitCost,
		&m.SellingPrice,
		&m.TaxRate,
		&m.Stock,
		&m.MinStock,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.Product{}, err
	}
	return mapping.ToDomainProduct(m), nil
}

func findProductByID(ctx context.Context, q querier, productID string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE product_id = $1`
	p, err := scanProduct(q.QueryRow(ctx, query, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProductNotFound
		}
		return nil, dbError("failed to query product "+productID, err)
	}
	return &p, nil
}

func queryProducts(ctx context.Context, q querier, query string, args ...any) ([]domain.Product, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, dbError("failed to query products", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, dbError("failed to scan product row", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("error iterating product rows", err)
	}
	return products, nil
}

func listProducts(ctx context.Context, q querier, shopID string, filter portsrepo.ProductFilter) ([]domain.Product, error) {
	w := newWhere("shop_id", shopID)
	if filter.Category != "" {
		w.add("lower(category) = lower(%s)", filter.Category)
	}
	if filter.Search != "" {
		w.add("name ILIKE '%%' || %s || '%%'", filter.Search)
	}
	if filter.LowStockOnly {
		w.conds = append(w.conds, "stock <= min_stock")
	}
	query := `SELECT ` + productColumns + ` FROM products` + w.clause() + ` ORDER BY name, product_id`
	return queryProducts(ctx, q, query, w.args...)
}

func listShopIDs(ctx context.Context, q querier) ([]string, error) {
	rows, err := q.Query(ctx, `SELECT DISTINCT shop_id FROM products ORDER BY shop_id`)
	if err != nil {
		return nil, dbError("failed to list shops", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, dbError("failed to scan shop ids", err)
	}
	return ids, nil
}

// --- transactional writes ---

// LockProducts locks rows in id order so concurrent postings over the same products cannot deadlock.
func (t *pgxLedgerTx) LockProducts(ctx context.Context, productIDs []string) (map[string]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE product_id = ANY($1) ORDER BY product_id FOR UPDATE`
	products, err := queryProducts(ctx, t.tx, query, productIDs)
	if err != nil {
		return nil, err
	}
	out := make(map[string]domain.Product, len(products))
	for _, p := range products {
		out[p.ProductID] = p
	}
	return out, nil
}

func (t *pgxLedgerTx) SaveProduct(ctx context.Context, product domain.Product) error {
	m := mapping.ToModelProduct(product)
	query := `INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := t.tx.Exec(ctx, query,
		m.ProductID,
		m.ShopID,
		m.Name,
		m.Category,
		m.Unit,
		m.UnitCost,
		m.SellingPrice,
		m.TaxRate,
		m.Stock,
		m.MinStock,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: product %s", apperrors.ErrDuplicate, product.ProductID)
		}
		return dbError("failed to insert product "+product.ProductID, err)
	}
	return nil
}

func (t *pgxLedgerTx) UpdateProductDetails(ctx context.Context, product domain.Product) error {
	m := mapping.ToModelProduct(product)
	query := `
		UPDATE products
		SET name = $2, category = $3, unit = $4, selling_price = $5, tax_rate = $6, min_stock = $7,
		    last_updated_at = $8, last_updated_by = $9
		WHERE product_id = $1`
	tag, err := t.tx.Exec(ctx, query,
		m.ProductID, m.Name, m.Category, m.Unit, m.SellingPrice, m.TaxRate, m.MinStock,
		m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return dbError("failed to update product "+product.ProductID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrProductNotFound
	}
	return nil
}

// DecrementStock is a single conditional UPDATE; zero affected rows means the product is
// missing or holds too little.
func (t *pgxLedgerTx) DecrementStock(ctx context.Context, productID string, qty decimal.Decimal, userID string, at time.Time) error {
	query := `
		UPDATE products
		SET stock = stock - $2, last_updated_at = $3, last_updated_by = $4
		WHERE product_id = $1 AND stock >= $2`
	tag, err := t.tx.Exec(ctx, query, productID, qty, at, userID)
	if err != nil {
		return dbError("failed to decrement stock for product "+productID, err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	p, err := findProductByID(ctx, t.tx, productID)
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: product %s has %s, requested %s", apperrors.ErrInsufficientStock, p.Name, p.Stock, qty)
}

func (t *pgxLedgerTx) IncrementStock(ctx context.Context, productID string, qty decimal.Decimal, userID string, at time.Time) error {
	query := `
		UPDATE products
		SET stock = stock + $2, last_updated_at = $3, last_updated_by = $4
		WHERE product_id = $1`
	tag, err := t.tx.Exec(ctx, query, productID, qty, at, userID)
	if err != nil {
		return dbError("failed to increment stock for product "+productID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrProductNotFound
	}
	return nil
}

func (t *pgxLedgerTx) SetUnitCost(ctx context.Context, productID string, unitCost decimal.Decimal, userID string, at time.Time) error {
	query := `
		UPDATE products
		SET unit_cost = $2, last_updated_at = $3, last_updated_by = $4
		WHERE product_id = $1`
	tag, err := t.tx.Exec(ctx, query, productID, unitCost, at, userID)
	if err != nil {
		return dbError("failed to set unit cost for product "+productID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrProductNotFound
	}
	return nil
}
