package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/shop_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ProductFilter narrows ListProducts.
type ProductFilter struct {
	Search       string
	Category     string
	LowStockOnly bool
}

// ProductReader defines read operations for the catalog.
type ProductReader interface {
	// FindProductByID returns apperrors.ErrProductNotFound when no product has the id.
	FindProductByID(ctx context.Context, productID string) (*domain.Product, error)

	ListProducts(ctx context.Context, shopID string, filter ProductFilter) ([]domain.Product, error)

	// ListShopIDs returns every shop that owns at least one product.
	ListShopIDs(ctx context.Context) ([]string, error)
}

// ProductWriter defines transactional writes for the catalog.
type ProductWriter interface {
	// LockProducts reads and locks the given products. Missing ids are simply absent from the map.
	LockProducts(ctx context.Context, productIDs []string) (map[string]domain.Product, error)

	SaveProduct(ctx context.Context, product domain.Product) error

	// UpdateProductDetails writes descriptive fields only. Stock and unit cost are untouched.
	UpdateProductDetails(ctx context.Context, product domain.Product) error

	// DecrementStock subtracts qty only if the product holds at least qty, as one conditional
	// write. Otherwise it returns apperrors.ErrInsufficientStock and changes nothing.
	DecrementStock(ctx context.Context, productID string, qty decimal.Decimal, userID string, at time.Time) error

	IncrementStock(ctx context.Context, productID string, qty decimal.Decimal, userID string, at time.Time) error

	// SetUnitCost records the latest purchase price.
	SetUnitCost(ctx context.Context, productID string, unitCost decimal.Decimal, userID string, at time.Time) error
}
