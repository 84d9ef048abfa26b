package domain

import "github.com/shopspring/decimal"

// Product is a catalog record. Stock and UnitCost only move through postings.
type Product struct {
	ProductID    string          `json:"productID"`
	ShopID       string          `json:"shopID"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Unit         string          `json:"unit"`
	UnitCost     decimal.Decimal `json:"unitCost"`     // last purchase price
	SellingPrice decimal.Decimal `json:"sellingPrice"` // default sale price
	TaxRate      decimal.Decimal `json:"taxRate"`      // percent
	Stock        decimal.Decimal `json:"stock"`
	MinStock     decimal.Decimal `json:"minStock"`
	AuditFields
}

// IsLowStock reports whether stock has reached the reorder threshold.
func (p Product) IsLowStock() bool {
	return p.Stock.LessThanOrEqual(p.MinStock)
}
