package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SettlementKind tells a receipt (customer pays shop) from a payment (shop pays supplier).
type SettlementKind string

const (
	Receipt SettlementKind = "RECEIPT"
	Payment SettlementKind = "PAYMENT"
)

// BillKind returns the kind of bill this settlement kind pays down.
func (k SettlementKind) BillKind() BillKind {
	if k == Payment {
		return PurchaseBill
	}
	return SaleBill
}

// SettlementType tags what a settlement is for.
type SettlementType string

const (
	SettlementBill    SettlementType = "bill"
	SettlementAdvance SettlementType = "advance"
	SettlementOther   SettlementType = "other"
	SettlementExpense SettlementType = "expense" // payments only
)

// IsValidFor reports whether the type is allowed on the given settlement kind.
func (t SettlementType) IsValidFor(kind SettlementKind) bool {
	switch t {
	case SettlementBill, SettlementAdvance, SettlementOther:
		return true
	case SettlementExpense:
		return kind == Payment
	default:
		return false
	}
}

// Allocation is the part of a settlement applied to one bill.
type Allocation struct {
	BillID        string          `json:"billID"`
	InvoiceNumber string          `json:"invoiceNumber"`
	Amount        decimal.Decimal `json:"amount"`
}

// Settlement is a posted receipt or payment.
type Settlement struct {
	SettlementID  string          `json:"settlementID"`
	ShopID        string          `json:"shopID"`
	Kind          SettlementKind  `json:"kind"`
	PartyID       string          `json:"partyID"` // empty only for expense payments
	PartyName     string          `json:"partyName"`
	VoucherNumber string          `json:"voucherNumber"`
	Date          time.Time       `json:"date"`
	Mode          PaymentMode     `json:"mode"`
	Type          SettlementType  `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Allocations   []Allocation    `json:"allocations"`
	Narration     string          `json:"narration"`
	Auto          bool            `json:"auto"` // created by a cash/online bill
	Seq           int64           `json:"seq"`
	AuditFields
}

// AllocatedTotal sums the allocation amounts.
func (s Settlement) AllocatedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, a := range s.Allocations {
		total = total.Add(a.Amount)
	}
	return total
}

// AllocationFor returns the allocation against billID, if any.
func (s Settlement) AllocationFor(billID string) (Allocation, bool) {
	for _, a := range s.Allocations {
		if a.BillID == billID {
			return a, true
		}
	}
	return Allocation{}, false
}
