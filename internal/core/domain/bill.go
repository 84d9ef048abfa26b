package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// BillKind tells a sale from a purchase.
type BillKind string

const (
	SaleBill     BillKind = "SALE"
	PurchaseBill BillKind = "PURCHASE"
)

// PartyType returns the type of party a bill of this kind is raised against.
func (k BillKind) PartyType() PartyType {
	if k == PurchaseBill {
		return Supplier
	}
	return Customer
}

// SettlementKind returns the settlement kind that pays bills of this kind down.
func (k BillKind) SettlementKind() SettlementKind {
	if k == PurchaseBill {
		return Payment
	}
	return Receipt
}

// PaymentMode is how money moved (or will move) for a bill or settlement.
type PaymentMode string

const (
	ModeCash   PaymentMode = "cash"
	ModeOnline PaymentMode = "online"
	ModeCredit PaymentMode = "credit"
	ModeCheque PaymentMode = "cheque"
)

// IsChannel reports whether the mode feeds a channel float (cash or online).
func (m PaymentMode) IsChannel() bool {
	return m == ModeCash || m == ModeOnline
}

// ValidForBill reports whether a bill may carry this mode.
func (m PaymentMode) ValidForBill() bool {
	return m == ModeCash || m == ModeOnline || m == ModeCredit
}

// ValidForSettlement reports whether a settlement may carry this mode.
func (m PaymentMode) ValidForSettlement() bool {
	return m == ModeCash || m == ModeOnline || m == ModeCheque
}

// LineItem is one product line of a bill. For purchases UnitPrice is the purchase
// price and UnitCost/LineProfit stay zero.
type LineItem struct {
	LineNo       int             `json:"lineNo"`
	ProductID    string          `json:"productID"`
	ProductName  string          `json:"productName"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	TaxRate      decimal.Decimal `json:"taxRate"`
	LineSubtotal decimal.Decimal `json:"lineSubtotal"`
	TaxAmount    decimal.Decimal `json:"taxAmount"`
	LineTotal    decimal.Decimal `json:"lineTotal"`
	UnitCost     decimal.Decimal `json:"unitCost"`
	LineProfit   decimal.Decimal `json:"lineProfit"`
}

// Bill is a posted sale or purchase.
type Bill struct {
	BillID        string          `json:"billID"`
	ShopID        string          `json:"shopID"`
	Kind          BillKind        `json:"kind"`
	PartyID       string          `json:"partyID"`
	PartyName     string          `json:"partyName"`
	InvoiceNumber string          `json:"invoiceNumber"`
	Date          time.Time       `json:"date"`
	Mode          PaymentMode     `json:"mode"`
	Items         []LineItem      `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxAmount     decimal.Decimal `json:"taxAmount"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	TotalProfit   decimal.Decimal `json:"totalProfit"`
	SettledAmount decimal.Decimal `json:"settledAmount"`
	Narration     string          `json:"narration"`
	Seq           int64           `json:"seq"` // insertion order, tie-break for equal dates
	AuditFields
}

// Pending is the amount still to be settled.
func (b Bill) Pending() decimal.Decimal {
	return b.TotalAmount.Sub(b.SettledAmount)
}

// IsOpen reports whether the bill still has a pending amount.
func (b Bill) IsOpen() bool {
	return b.Pending().IsPositive()
}

// CheckSettlementBound verifies 0 <= settledAmount <= totalAmount.
func (b Bill) CheckSettlementBound() error {
	if b.SettledAmount.IsNegative() || b.SettledAmount.GreaterThan(b.TotalAmount) {
		return fmt.Errorf("bill %s settled %s outside [0, %s]", b.BillID, b.SettledAmount, b.TotalAmount)
	}
	return nil
}
