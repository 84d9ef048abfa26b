package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/shop_ledger/internal/apperrors"
	"github.com/SscSPs/shop_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/shop_ledger/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// memTx mutates the working copy owned by one WithTransaction call.
type memTx struct {
	st *state
}

var _ portsrepo.LedgerTx = (*memTx)(nil)

func (t *memTx) nextSeq() int64 {
	t.st.lastSeq++
	return t.st.lastSeq
}

// --- parties ---

func (t *memTx) LockParty(ctx context.Context, partyID string) (*domain.Party, error) {
	p, ok := t.st.parties[partyID]
	if !ok {
		return nil, apperrors.ErrPartyNotFound
	}
	return &p, nil
}

func (t *memTx) FindPartyByName(ctx context.Context, shopID string, partyType domain.PartyType, normalizedName string) (*domain.Party, error) {
	return findPartyByName(t.st, shopID, partyType, normalizedName)
}

func (t *memTx) SaveParty(ctx context.Context, party domain.Party) error {
	if _, err := findPartyByName(t.st, party.ShopID, party.Type, party.NormalizedName); err == nil {
		return fmt.Errorf("%w: party %q", apperrors.ErrDuplicate, party.Name)
	}
	t.st.parties[party.PartyID] = party
	return nil
}

func (t *memTx) AdjustPartyTotals(ctx context.Context, partyID string, billedDelta, settledDelta decimal.Decimal, userID string, at time.Time) error {
	p, ok := t.st.parties[partyID]
	if !ok {
		return apperrors.ErrPartyNotFound
	}
	p.TotalBilled = p.TotalBilled.Add(billedDelta)
	p.TotalSettled = p.TotalSettled.Add(settledDelta)
	p.Touch(userID, at)
	t.st.parties[partyID] = p
	return nil
}

func (t *memTx) CountPartyReferences(ctx context.Context, partyID string) (int, error) {
	n := 0
	for _, b := range t.st.bills {
		if b.PartyID == partyID {
			n++
		}
	}
	for _, s := range t.st.settlements {
		if s.PartyID == partyID {
			n++
		}
	}
	return n, nil
}

func (t *memTx) DeleteParty(ctx context.Context, partyID string) error {
	if _, ok := t.st.parties[partyID]; !ok {
		return apperrors.ErrPartyNotFound
	}
	delete(t.st.parties, partyID)
	return nil
}

// --- products ---

func (t *memTx) LockProducts(ctx context.Context, productIDs []string) (map[string]domain.Product, error) {
	out := make(map[string]domain.Product, len(productIDs))
	for _, id := range productIDs {
		if p, ok := t.st.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (t *memTx) SaveProduct(ctx context.Context, product domain.Product) error {
	if _, exists := t.st.products[product.ProductID]; exists {
		return fmt.Errorf("%w: product %s", apperrors.ErrDuplicate, product.ProductID)
	}
	t.st.products[product.ProductID] = product
	return nil
}

func (t *memTx) UpdateProductDetails(ctx context.Context, product domain.Product) error {
	cur, ok := t.st.products[product.ProductID]
	if !ok {
		return apperrors.ErrProductNotFound
	}
	cur.Name = product.Name
	cur.Category = product.Category
	cur.Unit = product.Unit
	cur.SellingPrice = product.SellingPrice
	cur.TaxRate = product.TaxRate
	cur.MinStock = product.MinStock
	cur.AuditFields.LastUpdatedAt = product.LastUpdatedAt
	cur.AuditFields.LastUpdatedBy = product.LastUpdatedBy
	t.st.products[product.ProductID] = cur
	return nil
}

func (t *memTx) DecrementStock(ctx context.Context, productID string, qty decimal.Decimal, userID string, at time.Time) error {
	p, ok := t.st.products[productID]
	if !ok {
		return apperrors.ErrProductNotFound
	}
	if p.Stock.LessThan(qty) {
		return fmt.Errorf("%w: product %s has %s, requested %s", apperrors.ErrInsufficientStock, p.Name, p.Stock, qty)
	}
	p.Stock = p.Stock.Sub(qty)
	p.Touch(userID, at)
	t.st.products[productID] = p
	return nil
}

func (t *memTx) IncrementStock(ctx context.Context, productID string, qty decimal.Decimal, userID string, at time.Time) error {
	p, ok := t.st.products[productID]
	if !ok {
		return apperrors.ErrProductNotFound
	}
	p.Stock = p.Stock.Add(qty)
	p.Touch(userID, at)
	t.st.products[productID] = p
	return nil
}

func (t *memTx) SetUnitCost(ctx context.Context, productID string, unitCost decimal.Decimal, userID string, at time.Time) error {
	p, ok := t.st.products[productID]
	if !ok {
		return apperrors.ErrProductNotFound
	}
	p.UnitCost = unitCost
	p.Touch(userID, at)
	t.st.products[productID] = p
	return nil
}

// --- bills ---

func (t *memTx) SaveBill(ctx context.Context, bill domain.Bill) (int64, error) {
	if _, exists := t.st.bills[bill.BillID]; exists {
		return 0, fmt.Errorf("%w: bill %s", apperrors.ErrDuplicate, bill.BillID)
	}
	bill.Seq = t.nextSeq()
	t.st.bills[bill.BillID] = copyBill(bill)
	return bill.Seq, nil
}

func (t *memTx) LockBills(ctx context.Context, billIDs []string) (map[string]domain.Bill, error) {
	out := make(map[string]domain.Bill, len(billIDs))
	for _, id := range billIDs {
		if b, ok := t.st.bills[id]; ok {
			out[id] = copyBill(b)
		}
	}
	return out, nil
}

func (t *memTx) AdjustSettled(ctx context.Context, billID string, delta decimal.Decimal) error {
	b, ok := t.st.bills[billID]
	if !ok {
		return apperrors.ErrBillNotFound
	}
	next := b.SettledAmount.Add(delta)
	if next.IsNegative() || next.GreaterThan(b.TotalAmount) {
		return fmt.Errorf("%w: bill %s pending %s, change %s", apperrors.ErrOverSettlement, b.InvoiceNumber, b.Pending(), delta)
	}
	b.SettledAmount = next
	t.st.bills[billID] = b
	return nil
}

func (t *memTx) ReplaceBill(ctx context.Context, bill domain.Bill) error {
	cur, ok := t.st.bills[bill.BillID]
	if !ok {
		return apperrors.ErrBillNotFound
	}
	bill.Seq = cur.Seq
	bill.CreatedAt = cur.CreatedAt
	bill.CreatedBy = cur.CreatedBy
	t.st.bills[bill.BillID] = copyBill(bill)
	return nil
}

func (t *memTx) DeleteBill(ctx context.Context, billID string) error {
	if _, ok := t.st.bills[billID]; !ok {
		return apperrors.ErrBillNotFound
	}
	delete(t.st.bills, billID)
	return nil
}

// --- settlements ---

func (t *memTx) SaveSettlement(ctx context.Context, settlement domain.Settlement) (int64, error) {
	if _, exists := t.st.settlements[settlement.SettlementID]; exists {
		return 0, fmt.Errorf("%w: settlement %s", apperrors.ErrDuplicate, settlement.SettlementID)
	}
	settlement.Seq = t.nextSeq()
	t.st.settlements[settlement.SettlementID] = copySettlement(settlement)
	return settlement.Seq, nil
}

func (t *memTx) LockSettlement(ctx context.Context, settlementID string) (*domain.Settlement, error) {
	s, ok := t.st.settlements[settlementID]
	if !ok {
		return nil, apperrors.ErrSettlementNotFound
	}
	s = copySettlement(s)
	return &s, nil
}

func (t *memTx) ListSettlementsByBill(ctx context.Context, billID string) ([]domain.Settlement, error) {
	out := make([]domain.Settlement, 0)
	for _, s := range t.st.settlements {
		if _, ok := s.AllocationFor(billID); ok {
			out = append(out, copySettlement(s))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}

func (t *memTx) ReplaceSettlement(ctx context.Context, settlement domain.Settlement) error {
	cur, ok := t.st.settlements[settlement.SettlementID]
	if !ok {
		return apperrors.ErrSettlementNotFound
	}
	settlement.Seq = cur.Seq
	settlement.CreatedAt = cur.CreatedAt
	settlement.CreatedBy = cur.CreatedBy
	t.st.settlements[settlement.SettlementID] = copySettlement(settlement)
	return nil
}

func (t *memTx) DeleteSettlement(ctx context.Context, settlementID string) error {
	if _, ok := t.st.settlements[settlementID]; !ok {
		return apperrors.ErrSettlementNotFound
	}
	delete(t.st.settlements, settlementID)
	return nil
}

// --- sequences ---

func (t *memTx) NextNumber(ctx context.Context, shopID string, series string) (int64, error) {
	key := shopID + "|" + series
	t.st.sequences[key]++
	return t.st.sequences[key], nil
}
