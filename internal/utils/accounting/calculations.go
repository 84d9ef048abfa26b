package accounting

import (
	"github.com/SscSPs/shop_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// RoundCurrency rounds an amount to whole currency units, half away from zero.
func RoundCurrency(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(0)
}

// IsWholeUnits reports whether amount carries no fractional currency.
func IsWholeUnits(amount decimal.Decimal) bool {
	return amount.Equal(amount.Truncate(0))
}

// ComputeLine fills the derived amounts of a line from quantity, price and tax rate.
// unitCost is only meaningful for sale lines; pass decimal.Zero for purchases.
// Line values keep full precision; rounding happens on the bill total.
func ComputeLine(line domain.LineItem, kind domain.BillKind, unitCost decimal.Decimal) domain.LineItem {
	line.LineSubtotal = line.Quantity.Mul(line.UnitPrice)
	line.TaxAmount = line.LineSubtotal.Mul(line.TaxRate).Div(hundred)
	line.LineTotal = line.LineSubtotal.Add(line.TaxAmount)
	if kind == domain.SaleBill {
		line.UnitCost = unitCost
		line.LineProfit = line.UnitPrice.Sub(unitCost).Mul(line.Quantity)
	} else {
		line.UnitCost = decimal.Zero
		line.LineProfit = decimal.Zero
	}
	return line
}

// BillTotals are the summed amounts of a bill's lines.
type BillTotals struct {
	Subtotal    decimal.Decimal
	TaxAmount   decimal.Decimal
	TotalAmount decimal.Decimal // rounded to whole units
	TotalProfit decimal.Decimal
}

// SumLines totals computed lines. Only TotalAmount is rounded.
func SumLines(items []domain.LineItem) BillTotals {
	t := BillTotals{
		Subtotal:    decimal.Zero,
		TaxAmount:   decimal.Zero,
		TotalProfit: decimal.Zero,
	}
	for _, it := range items {
		t.Subtotal = t.Subtotal.Add(it.LineSubtotal)
		t.TaxAmount = t.TaxAmount.Add(it.TaxAmount)
		t.TotalProfit = t.TotalProfit.Add(it.LineProfit)
	}
	t.TotalAmount = RoundCurrency(t.Subtotal.Add(t.TaxAmount))
	return t
}

// PriceWithTax returns round(price * (1 + rate/100)), the per-unit valuation used for stock value.
func PriceWithTax(price, taxRate decimal.Decimal) decimal.Decimal {
	return RoundCurrency(price.Mul(hundred.Add(taxRate)).Div(hundred))
}

// BillEffect is the signed change a bill makes to its party's balance.
// Both sales and purchases increase the balance in the party's natural direction.
func BillEffect(b domain.Bill) decimal.Decimal {
	return b.TotalAmount
}

// SettlementEffect is the signed change a settlement makes to its party's balance.
func SettlementEffect(s domain.Settlement) decimal.Decimal {
	return s.Amount.Neg()
}

// DebitCredit splits a signed effect into ledger columns using the party-type convention:
// for a customer a sale is a debit and a receipt a credit; for a supplier a purchase is a
// credit and a payment a debit.
func DebitCredit(partyType domain.PartyType, effect decimal.Decimal) (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	increases := effect.IsPositive()
	magnitude := effect.Abs()
	switch partyType {
	case domain.Supplier:
		if increases {
			credit = magnitude
		} else {
			debit = magnitude
		}
	default:
		if increases {
			debit = magnitude
		} else {
			credit = magnitude
		}
	}
	return debit, credit
}

// Side labels a party balance. A customer with a positive balance is Dr (receivable);
// a supplier with a positive balance is Cr (payable). Negative balances flip the side.
func Side(partyType domain.PartyType, balance decimal.Decimal) domain.BalanceSide {
	natural, other := domain.SideDr, domain.SideCr
	if partyType == domain.Supplier {
		natural, other = domain.SideCr, domain.SideDr
	}
	if balance.IsNegative() {
		return other
	}
	return natural
}
