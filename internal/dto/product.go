package dto

import (
	"github.com/SscSPs/shop_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateProductRequest adds a product to the catalog. Stock is the opening quantity.
type CreateProductRequest struct {
	Name         string          `json:"name" binding:"required,max=120"`
	Category     string          `json:"category" binding:"max=60"`
	Unit         string          `json:"unit" binding:"max=20"`
	UnitCost     decimal.Decimal `json:"unitCost"`
	SellingPrice decimal.Decimal `json:"sellingPrice"`
	TaxRate      decimal.Decimal `json:"taxRate"`
	Stock        decimal.Decimal `json:"stock"`
	MinStock     decimal.Decimal `json:"minStock"`
}

// UpdateProductRequest changes descriptive fields. Stock and unit cost move only through postings.
type UpdateProductRequest struct {
	Name         *string          `json:"name,omitempty" binding:"omitempty,min=1,max=120"`
	Category     *string          `json:"category,omitempty" binding:"omitempty,max=60"`
	Unit         *string          `json:"unit,omitempty" binding:"omitempty,max=20"`
	SellingPrice *decimal.Decimal `json:"sellingPrice,omitempty"`
	TaxRate      *decimal.Decimal `json:"taxRate,omitempty"`
	MinStock     *decimal.Decimal `json:"minStock,omitempty"`
}

// ListProductsParams filters the catalog list.
type ListProductsParams struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	LowStock bool   `form:"lowStock"`
}

// ProductResponse is a product with its low-stock flag.
type ProductResponse struct {
	domain.Product
	LowStock bool `json:"lowStock"`
}

// ToProductResponse converts a domain.Product to its response.
func ToProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{Product: *p, LowStock: p.IsLowStock()}
}

// ToProductResponses converts a slice of products.
func ToProductResponses(products []domain.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i := range products {
		out[i] = ToProductResponse(&products[i])
	}
	return out
}
