package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bill is a row of the bills table. Lines live in bill_lines.
type Bill struct {
	BillID        string          `db:"bill_id"`
	ShopID        string          `db:"shop_id"`
	Kind          string          `db:"kind"`
	PartyID       string          `db:"party_id"`
	PartyName     string          `db:"party_name"`
	InvoiceNumber string          `db:"invoice_number"`
	BillDate      time.Time       `db:"bill_date"`
	Mode          string          `db:"mode"`
	Subtotal      decimal.Decimal `db:"subtotal"`
	TaxAmount     decimal.Decimal `db:"tax_amount"`
	TotalAmount   decimal.Decimal `db:"total_amount"`
	TotalProfit   decimal.Decimal `db:"total_profit"`
	SettledAmount decimal.Decimal `db:"settled_amount"`
	Narration     string          `db:"narration"`
	Seq           int64           `db:"seq"`
	AuditFields
}

// BillLine is a row of the bill_lines table.
type BillLine struct {
	BillID       string          `db:"bill_id"`
	LineNo       int             `db:"line_no"`
	ProductID    string          `db:"product_id"`
	ProductName  string          `db:"product_name"`
	Quantity     decimal.Decimal `db:"quantity"`
	UnitPrice    decimal.Decimal `db:"unit_price"`
	TaxRate      decimal.Decimal `db:"tax_rate"`
	LineSubtotal decimal.Decimal `db:"line_subtotal"`
	TaxAmount    decimal.Decimal `db:"tax_amount"`
	LineTotal    decimal.Decimal `db:"line_total"`
	UnitCost     decimal.Decimal `db:"unit_cost"`
	LineProfit   decimal.Decimal `db:"line_profit"`
}
