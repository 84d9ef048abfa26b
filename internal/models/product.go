package models

import "github.com/shopspring/decimal"

// Product is a row of the products table.
type Product struct {
	ProductID    string          `db:"product_id"`
	ShopID       string          `db:"shop_id"`
	Name         string          `db:"name"`
	Category     string          `db:"category"`
	Unit         string          `db:"unit"`
	UnitCost     decimal.Decimal `db:"unit_cost"`
	SellingPrice decimal.Decimal `db:"selling_price"`
	TaxRate      decimal.Decimal `db:"tax_rate"`
	Stock        decimal.Decimal `db:"stock"` // CHECK (stock >= 0)
	MinStock     decimal.Decimal `db:"min_stock"`
	AuditFields
}
