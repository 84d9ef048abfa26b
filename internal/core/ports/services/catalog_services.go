package services

import (
	"context"

	"github.com/SscSPs/shop_ledger/internal/core/domain"
	"github.com/SscSPs/shop_ledger/internal/dto"
)

// CatalogSvcFacade covers the product operations the ledger depends on.
type CatalogSvcFacade interface {
	CreateProduct(ctx context.Context, shopID string, req dto.CreateProductRequest, userID string) (*domain.Product, error)
	UpdateProduct(ctx context.Context, shopID string, productID string, req dto.UpdateProductRequest, userID string) (*domain.Product, error)
	GetProductByID(ctx context.Context, shopID string, productID string) (*domain.Product, error)
	ListProducts(ctx context.Context, shopID string, params dto.ListProductsParams) ([]domain.Product, error)

	// ListLowStock returns products whose stock is at or below their minimum.
	ListLowStock(ctx context.Context, shopID string) ([]domain.Product, error)
}
