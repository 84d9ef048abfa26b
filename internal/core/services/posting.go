package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/SscSPs/shop_ledger/internal/apperrors"
	"github.com/SscSPs/shop_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/shop_ledger/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

var numberPrefix = map[string]string{
	string(domain.SaleBill):     "INV",
	string(domain.PurchaseBill): "PUR",
	string(domain.Receipt):      "RCP",
	string(domain.Payment):      "PAY",
}

// documentNumber draws the next per-shop number of a series, e.g. INV-000042.
func documentNumber(ctx context.Context, tx portsrepo.SequenceWriter, shopID, series string) (string, error) {
	n, err := tx.NextNumber(ctx, shopID, series)
	if err != nil {
		return "", fmt.Errorf("next %s number: %w", series, err)
	}
	return fmt.Sprintf("%s-%06d", numberPrefix[series], n), nil
}

func sortedUnique(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// lockPartyBills locks the bills (in id order) and returns them in the caller's order after
// checking that each one belongs to the party and is of the expected kind.
func lockPartyBills(ctx context.Context, tx portsrepo.BillWriter, party domain.Party, kind domain.BillKind, ids []string) ([]domain.Bill, error) {
	locked, err := tx.LockBills(ctx, sortedUnique(ids))
	if err != nil {
		return nil, fmt.Errorf("lock bills: %w", err)
	}
	out := make([]domain.Bill, 0, len(ids))
	for _, id := range ids {
		b, ok := locked[id]
		if !ok || b.ShopID != party.ShopID {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrBillNotFound, id)
		}
		if b.PartyID != party.PartyID {
			return nil, validationError("bill %s belongs to another party", b.InvoiceNumber)
		}
		if b.Kind != kind {
			return nil, validationError("bill %s is a %s, expected %s", b.InvoiceNumber, b.Kind, kind)
		}
		out = append(out, b)
	}
	return out, nil
}

// applyAllocations raises each bill's settled amount. The store rejects any step that would
// over-settle, which aborts the whole unit.
func applyAllocations(ctx context.Context, tx portsrepo.BillWriter, allocs []domain.Allocation) error {
	for _, a := range allocs {
		if err := tx.AdjustSettled(ctx, a.BillID, a.Amount); err != nil {
			return fmt.Errorf("allocate %s to %s: %w", a.Amount, a.InvoiceNumber, err)
		}
	}
	return nil
}

func reverseAllocations(ctx context.Context, tx portsrepo.BillWriter, allocs []domain.Allocation) error {
	for _, a := range allocs {
		if err := tx.AdjustSettled(ctx, a.BillID, a.Amount.Neg()); err != nil {
			if errors.Is(err, apperrors.ErrOverSettlement) {
				return consistencyError("reversing %s from %s: %v", a.Amount, a.InvoiceNumber, err)
			}
			return fmt.Errorf("reverse allocation on %s: %w", a.InvoiceNumber, err)
		}
	}
	return nil
}

// verifyBills re-reads the bills inside the transaction and checks 0 <= settled <= total.
func verifyBills(ctx context.Context, tx portsrepo.BillWriter, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	bills, err := tx.LockBills(ctx, sortedUnique(ids))
	if err != nil {
		return fmt.Errorf("verify bills: %w", err)
	}
	for _, b := range bills {
		if err := b.CheckSettlementBound(); err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrConsistencyViolation, err)
		}
	}
	return nil
}

// verifySettlement checks that an allocated settlement is fully allocated.
func verifySettlement(s domain.Settlement) error {
	if len(s.Allocations) == 0 {
		return nil
	}
	if got := s.AllocatedTotal(); !got.Equal(s.Amount) {
		return consistencyError("settlement %s allocates %s of %s", s.VoucherNumber, got, s.Amount)
	}
	return nil
}

func allocationBillIDs(allocs []domain.Allocation) []string {
	ids := make([]string, len(allocs))
	for i, a := range allocs {
		ids[i] = a.BillID
	}
	return ids
}

func sumAllocations(allocs []domain.Allocation) decimal.Decimal {
	total := decimal.Zero
	for _, a := range allocs {
		total = total.Add(a.Amount)
	}
	return total
}
