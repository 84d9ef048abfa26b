package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// PartyType distinguishes customers (receivable side) from suppliers (payable side).
type PartyType string

const (
	Customer PartyType = "CUSTOMER"
	Supplier PartyType = "SUPPLIER"
)

// WalkInCustomerName is used when a sale names no customer.
const WalkInCustomerName = "Walk-in Customer"

// IsValid reports whether t is a known party type.
func (t PartyType) IsValid() bool {
	return t == Customer || t == Supplier
}

// Party is a customer or supplier with running aggregate totals.
type Party struct {
	PartyID        string          `json:"partyID"`
	ShopID         string          `json:"shopID"`
	Type           PartyType       `json:"type"`
	Name           string          `json:"name"`
	NormalizedName string          `json:"-"`
	Phone          string          `json:"phone"`
	Address        string          `json:"address"`
	TotalBilled    decimal.Decimal `json:"totalBilled"`
	TotalSettled   decimal.Decimal `json:"totalSettled"`
	AuditFields
}

// Balance is totalBilled - totalSettled. Positive means the customer owes the shop (Dr)
// or the shop owes the supplier (Cr).
func (p Party) Balance() decimal.Decimal {
	return p.TotalBilled.Sub(p.TotalSettled)
}

// NormalizePartyName lower-cases, trims and collapses inner whitespace so that
// "  Ravi  Kumar" and "ravi kumar" resolve to the same party.
func NormalizePartyName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
