package accounting

import (
	"fmt"

	"github.com/SscSPs/shop_ledger/internal/apperrors"
	"github.com/SscSPs/shop_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AllocateExplicit validates caller supplied per-bill amounts against the selected bills.
// Every amount must be positive, whole, at most the bill's pending amount, and the sum
// must equal total exactly.
func AllocateExplicit(bills []domain.Bill, requested []domain.Allocation, total decimal.Decimal) ([]domain.Allocation, error) {
	if len(requested) == 0 {
		return nil, fmt.Errorf("%w: at least one allocation is required", apperrors.ErrValidation)
	}
	byID := make(map[string]domain.Bill, len(bills))
	for _, b := range bills {
		byID[b.BillID] = b
	}

	seen := make(map[string]struct{}, len(requested))
	out := make([]domain.Allocation, 0, len(requested))
	sum := decimal.Zero
	for i, req := range requested {
		if _, dup := seen[req.BillID]; dup {
			return nil, fmt.Errorf("%w: bill %s allocated more than once", apperrors.ErrValidation, req.BillID)
		}
		seen[req.BillID] = struct{}{}

		if !req.Amount.IsPositive() {
			return nil, fmt.Errorf("%w: allocation %d amount must be positive", apperrors.ErrValidation, i+1)
		}
		if !IsWholeUnits(req.Amount) {
			return nil, fmt.Errorf("%w: allocation %d amount %s is not in whole currency units", apperrors.ErrValidation, i+1, req.Amount)
		}
		bill, ok := byID[req.BillID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrBillNotFound, req.BillID)
		}
		if req.Amount.GreaterThan(bill.Pending()) {
			return nil, fmt.Errorf("%w: bill %s (%s) pending %s, allocation %s",
				apperrors.ErrOverSettlement, bill.BillID, bill.InvoiceNumber, bill.Pending(), req.Amount)
		}
		sum = sum.Add(req.Amount)
		out = append(out, domain.Allocation{
			BillID:        bill.BillID,
			InvoiceNumber: bill.InvoiceNumber,
			Amount:        req.Amount,
		})
	}

	if !sum.Equal(total) {
		return nil, fmt.Errorf("%w: allocations sum to %s but settlement amount is %s", apperrors.ErrValidation, sum, total)
	}
	return out, nil
}

// AllocateProportional spreads total over the bills in proportion to each bill's pending
// amount: allocation[i] = round(total * pending[i] / Σpending). The last bill in iteration
// order absorbs the rounding remainder so the sum equals total exactly. If the remainder
// would push the last allocation below zero or above its pending amount, the excess is
// walked backwards over the earlier bills. Bills with nothing pending receive nothing.
func AllocateProportional(bills []domain.Bill, total decimal.Decimal) ([]domain.Allocation, error) {
	if !total.IsPositive() {
		return nil, fmt.Errorf("%w: settlement amount must be positive", apperrors.ErrValidation)
	}
	if !IsWholeUnits(total) {
		return nil, fmt.Errorf("%w: settlement amount %s is not in whole currency units", apperrors.ErrValidation, total)
	}

	open := make([]domain.Bill, 0, len(bills))
	pendingSum := decimal.Zero
	for _, b := range bills {
		if b.IsOpen() {
			open = append(open, b)
			pendingSum = pendingSum.Add(b.Pending())
		}
	}
	if len(open) == 0 {
		return nil, fmt.Errorf("%w: no pending amount on the selected bills", apperrors.ErrOverSettlement)
	}
	if total.GreaterThan(pendingSum) {
		return nil, fmt.Errorf("%w: amount %s exceeds total pending %s", apperrors.ErrOverSettlement, total, pendingSum)
	}

	amounts := make([]decimal.Decimal, len(open))
	assigned := decimal.Zero
	last := len(open) - 1
	for i := 0; i < last; i++ {
		amounts[i] = RoundCurrency(total.Mul(open[i].Pending()).Div(pendingSum))
		assigned = assigned.Add(amounts[i])
	}
	amounts[last] = total.Sub(assigned)

	switch {
	case amounts[last].IsNegative():
		excess := amounts[last].Neg()
		amounts[last] = decimal.Zero
		for i := last - 1; i >= 0 && excess.IsPositive(); i-- {
			take := decimal.Min(amounts[i], excess)
			amounts[i] = amounts[i].Sub(take)
			excess = excess.Sub(take)
		}
	case amounts[last].GreaterThan(open[last].Pending()):
		excess := amounts[last].Sub(open[last].Pending())
		amounts[last] = open[last].Pending()
		for i := last - 1; i >= 0 && excess.IsPositive(); i-- {
			room := open[i].Pending().Sub(amounts[i])
			give := decimal.Min(room, excess)
			amounts[i] = amounts[i].Add(give)
			excess = excess.Sub(give)
		}
	}

	out := make([]domain.Allocation, 0, len(open))
	for i, b := range open {
		if amounts[i].IsZero() {
			continue
		}
		out = append(out, domain.Allocation{
			BillID:        b.BillID,
			InvoiceNumber: b.InvoiceNumber,
			Amount:        amounts[i],
		})
	}
	return out, nil
}
