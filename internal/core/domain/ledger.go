package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateRange is an optional inclusive [From, To] filter. Either bound may be nil.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// Before reports whether t falls strictly before the range start.
func (r DateRange) Before(t time.Time) bool {
	return r.From != nil && t.Before(*r.From)
}

// After reports whether t falls strictly after the range end.
func (r DateRange) After(t time.Time) bool {
	return r.To != nil && t.After(*r.To)
}

// Contains reports whether t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	return !r.Before(t) && !r.After(t)
}

// BalanceSide labels a balance from the shop's point of view.
type BalanceSide string

const (
	SideDr BalanceSide = "Dr" // receivable
	SideCr BalanceSide = "Cr" // payable
)

// LedgerEntry is a derived row of a party ledger.
type LedgerEntry struct {
	Date      time.Time       `json:"date"`
	Kind      string          `json:"kind"` // SALE, PURCHASE, RECEIPT, PAYMENT
	RefID     string          `json:"refID"`
	Number    string          `json:"number"`
	Mode      PaymentMode     `json:"mode"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
	Effect    decimal.Decimal `json:"effect"`  // signed change to the party balance
	Balance   decimal.Decimal `json:"balance"` // running balance after this entry
	Seq       int64           `json:"-"`
	Narration string          `json:"narration"`
}

// PartyLedger is a party statement for a date range.
type PartyLedger struct {
	Party          Party           `json:"party"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
	Side           BalanceSide     `json:"side"`
	Entries        []LedgerEntry   `json:"entries"`
	TotalBilled    decimal.Decimal `json:"totalBilled"`  // within range
	TotalSettled   decimal.Decimal `json:"totalSettled"` // within range
}
