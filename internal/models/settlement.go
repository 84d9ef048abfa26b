package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Settlement is a row of the settlements table.
type Settlement struct {
	SettlementID   string          `db:"settlement_id"`
	ShopID         string          `db:"shop_id"`
	Kind           string          `db:"kind"`
	PartyID        *string         `db:"party_id"` // NULL for expense payments
	PartyName      string          `db:"party_name"`
	VoucherNumber  string          `db:"voucher_number"`
	SettlementDate time.Time       `db:"settlement_date"`
	Mode           string          `db:"mode"`
	SettlementType string          `db:"settlement_type"`
	Amount         decimal.Decimal `db:"amount"`
	Narration      string          `db:"narration"`
	Auto           bool            `db:"auto"`
	Seq            int64           `db:"seq"`
	AuditFields
}

// Allocation is a row of the settlement_allocations table.
type Allocation struct {
	SettlementID  string          `db:"settlement_id"`
	BillID        string          `db:"bill_id"`
	InvoiceNumber string          `db:"invoice_number"`
	Amount        decimal.Decimal `db:"amount"`
}
