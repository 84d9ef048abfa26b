package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/shop_ledger/internal/apperrors"
	"github.com/SscSPs/shop_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/shop_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/shop_ledger/internal/core/ports/services"
	"github.com/SscSPs/shop_ledger/internal/dto"
	"github.com/SscSPs/shop_ledger/internal/utils/accounting"
	"github.com/SscSPs/shop_ledger/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

type ledgerService struct {
	BaseService
	store portsrepo.LedgerStore
}

// NewLedgerService creates the service that posts, edits and reverses sales and purchases.
func NewLedgerService(store portsrepo.LedgerStore, opts ...ServiceOption) portssvc.LedgerSvcFacade {
	return &ledgerService{BaseService: applyOptions(opts), store: store}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

func (s *ledgerService) PostSale(ctx context.Context, shopID string, req dto.BillRequest, userID string) (*domain.Bill, error) {
	return s.post(ctx, shopID, domain.SaleBill, req, userID)
}

func (s *ledgerService) PostPurchase(ctx context.Context, shopID string, req dto.BillRequest, userID string) (*domain.Bill, error) {
	return s.post(ctx, shopID, domain.PurchaseBill, req, userID)
}

func (s *ledgerService) post(ctx context.Context, shopID string, kind domain.BillKind, req dto.BillRequest, userID string) (*domain.Bill, error) {
	if err := validateBillRequest(kind, req); err != nil {
		s.LogFailure(ctx, err, "post_bill", slog.String("kind", string(kind)))
		return nil, err
	}
	now := s.Now()

	var posted domain.Bill
	err := s.store.WithTransaction(ctx, func(tx portsrepo.LedgerTx) error {
		party, err := s.resolveBillParty(ctx, tx, shopID, kind, req, userID)
		if err != nil {
			return err
		}
		if req.PartyID == "" {
			// Resolved by name; take the lock the id path already holds.
			if party, err = tx.LockParty(ctx, party.PartyID); err != nil {
				return err
			}
		}

		items, err := s.applyLines(ctx, tx, shopID, kind, req.Items, userID, now)
		if err != nil {
			return err
		}
		totals := accounting.SumLines(items)

		invoice := strings.TrimSpace(req.InvoiceNumber)
		if invoice == "" {
			if invoice, err = documentNumber(ctx, tx, shopID, string(kind)); err != nil {
				return err
			}
		}

		bill := domain.Bill{
			BillID:        s.NewID(),
			ShopID:        shopID,
			Kind:          kind,
			PartyID:       party.PartyID,
			PartyName:     party.Name,
			InvoiceNumber: invoice,
			Date:          billDate(req.Date, now),
			Mode:          req.Mode,
			Items:         items,
			Subtotal:      totals.Subtotal,
			TaxAmount:     totals.TaxAmount,
			TotalAmount:   totals.TotalAmount,
			TotalProfit:   totals.TotalProfit,
			SettledAmount: decimal.Zero,
			Narration:     strings.TrimSpace(req.Narration),
			AuditFields:   domain.NewAuditFields(userID, now),
		}
		if bill.Seq, err = tx.SaveBill(ctx, bill); err != nil {
			return fmt.Errorf("save bill: %w", err)
		}
		if err := tx.AdjustPartyTotals(ctx, party.PartyID, bill.TotalAmount, decimal.Zero, userID, now); err != nil {
			return fmt.Errorf("party totals: %w", err)
		}
		if bill.Mode.IsChannel() {
			if err := s.autoSettle(ctx, tx, &bill, userID, now); err != nil {
				return err
			}
		}
		if err := verifyBills(ctx, tx, []string{bill.BillID}); err != nil {
			return err
		}
		posted = bill
		return nil
	})
	if err != nil {
		s.LogFailure(ctx, err, "post_bill", slog.String("kind", string(kind)))
		return nil, err
	}

	s.LogInfo(ctx, "bill posted",
		slog.String("bill_id", posted.BillID),
		slog.String("kind", string(kind)),
		slog.String("invoice", posted.InvoiceNumber),
		slog.String("total", posted.TotalAmount.String()),
		slog.String("mode", string(posted.Mode)))
	return &posted, nil
}

func (s *ledgerService) UpdateBill(ctx context.Context, shopID string, kind domain.BillKind, billID string, req dto.UpdateBillRequest, userID string) (*domain.Bill, error) {
	if req.Mode != nil && !req.Mode.ValidForBill() {
		return nil, validationError("mode %q is not valid for a bill", *req.Mode)
	}
	if req.Items != nil {
		if err := validateItems(kind, req.Items); err != nil {
			return nil, err
		}
	}
	pre, err := s.ownedBill(ctx, shopID, kind, billID)
	if err != nil {
		return nil, err
	}
	if req.PartyID != "" && req.PartyID != pre.PartyID {
		return nil, validationError("the party of a posted bill cannot be changed")
	}
	now := s.Now()

	var updated domain.Bill
	err = s.store.WithTransaction(ctx, func(tx portsrepo.LedgerTx) error {
		if _, err := tx.LockParty(ctx, pre.PartyID); err != nil {
			return err
		}
		bill, err := s.lockBill(ctx, tx, billID, pre.PartyID)
		if err != nil {
			return err
		}

		manualSettled, auto, err := s.splitSettlements(ctx, tx, billID)
		if err != nil {
			return err
		}

		// Reverse.
		if auto != nil {
			if err := s.removeAutoSettlement(ctx, tx, &bill, *auto, userID, now); err != nil {
				return err
			}
		}
		if err := tx.AdjustPartyTotals(ctx, bill.PartyID, bill.TotalAmount.Neg(), decimal.Zero, userID, now); err != nil {
			return err
		}

		// Re-apply.
		reqs := req.Items
		if reqs == nil {
			reqs = itemRequests(bill.Items)
		}
		items, err := s.reapplyLines(ctx, tx, shopID, bill, reqs, userID, now)
		if err != nil {
			return err
		}
		totals := accounting.SumLines(items)
		if totals.TotalAmount.LessThan(manualSettled) {
			return consistencyError("new total %s is below the %s already settled on %s", totals.TotalAmount, manualSettled, bill.InvoiceNumber)
		}

		bill.Items = items
		bill.Subtotal = totals.Subtotal
		bill.TaxAmount = totals.TaxAmount
		bill.TotalAmount = totals.TotalAmount
		bill.TotalProfit = totals.TotalProfit
		if req.Mode != nil {
			bill.Mode = *req.Mode
		}
		if req.Date != nil && !req.Date.IsZero() {
			bill.Date = *req.Date
		}
		if inv := strings.TrimSpace(req.InvoiceNumber); inv != "" {
			bill.InvoiceNumber = inv
		}
		if req.Narration != nil {
			bill.Narration = strings.TrimSpace(*req.Narration)
		}
		bill.Touch(userID, now)
		if err := tx.ReplaceBill(ctx, bill); err != nil {
			return fmt.Errorf("replace bill: %w", err)
		}
		if err := tx.AdjustPartyTotals(ctx, bill.PartyID, bill.TotalAmount, decimal.Zero, userID, now); err != nil {
			return err
		}
		if bill.Mode.IsChannel() {
			if err := s.autoSettle(ctx, tx, &bill, userID, now); err != nil {
				return err
			}
		}
		if err := verifyBills(ctx, tx, []string{billID}); err != nil {
			return err
		}
		updated = bill
		return nil
	})
	if err != nil {
		s.LogFailure(ctx, err, "update_bill", slog.String("bill_id", billID))
		return nil, err
	}
	s.LogInfo(ctx, "bill updated", slog.String("bill_id", billID), slog.String("total", updated.TotalAmount.String()))
	return &updated, nil
}

func (s *ledgerService) DeleteBill(ctx context.Context, shopID string, kind domain.BillKind, billID string, cascade bool, userID string) error {
	pre, err := s.ownedBill(ctx, shopID, kind, billID)
	if err != nil {
		return err
	}
	now := s.Now()

	err = s.store.WithTransaction(ctx, func(tx portsrepo.LedgerTx) error {
		if _, err := tx.LockParty(ctx, pre.PartyID); err != nil {
			return err
		}
		bill, err := s.lockBill(ctx, tx, billID, pre.PartyID)
		if err != nil {
			return err
		}
		settlements, err := tx.ListSettlementsByBill(ctx, billID)
		if err != nil {
			return err
		}

		var manual []domain.Settlement
		for _, st := range settlements {
			if st.Auto {
				if err := s.removeAutoSettlement(ctx, tx, &bill, st, userID, now); err != nil {
					return err
				}
				continue
			}
			manual = append(manual, st)
		}
		if len(manual) > 0 && !cascade {
			return consistencyError("bill %s has %d settlement(s) allocated against it; delete them first or cascade", bill.InvoiceNumber, len(manual))
		}

		touched := make([]string, 0)
		for _, st := range manual {
			if err := reverseAllocations(ctx, tx, st.Allocations); err != nil {
				return err
			}
			if err := s.adjustSettlementParty(ctx, tx, st, st.Amount.Neg(), userID, now); err != nil {
				return err
			}
			if err := tx.DeleteSettlement(ctx, st.SettlementID); err != nil {
				return err
			}
			for _, a := range st.Allocations {
				if a.BillID != billID {
					touched = append(touched, a.BillID)
				}
			}
			s.LogInfo(ctx, "settlement reversed by cascade", slog.String("settlement_id", st.SettlementID), slog.String("bill_id", billID))
		}

		if err := s.reverseLines(ctx, tx, bill, userID, now); err != nil {
			return err
		}
		if err := tx.AdjustPartyTotals(ctx, bill.PartyID, bill.TotalAmount.Neg(), decimal.Zero, userID, now); err != nil {
			return err
		}
		if err := tx.DeleteBill(ctx, billID); err != nil {
			return err
		}
		return verifyBills(ctx, tx, touched)
	})
	if err != nil {
		s.LogFailure(ctx, err, "delete_bill", slog.String("bill_id", billID), slog.Bool("cascade", cascade))
		return err
	}
	s.LogInfo(ctx, "bill deleted", slog.String("bill_id", billID), slog.Bool("cascade", cascade))
	return nil
}

func (s *ledgerService) GetBillByID(ctx context.Context, shopID string, kind domain.BillKind, billID string) (*domain.Bill, error) {
	return s.ownedBill(ctx, shopID, kind, billID)
}

func (s *ledgerService) ListBills(ctx context.Context, shopID string, kind domain.BillKind, params dto.ListBillsParams) (*dto.ListBillsResponse, error) {
	rng, err := params.Range(s.Location)
	if err != nil {
		return nil, err
	}
	bills, next, err := s.store.ListBills(ctx, shopID, portsrepo.BillFilter{
		Kind:      kind,
		PartyID:   params.PartyID,
		Mode:      domain.PaymentMode(params.Mode),
		Range:     rng,
		OpenOnly:  params.Status == "open",
		Limit:     pagination.ClampLimit(params.Limit),
		NextToken: params.NextToken,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list bills", slog.String("kind", string(kind)))
		return nil, err
	}
	return &dto.ListBillsResponse{Bills: dto.ToBillResponses(bills), NextToken: next}, nil
}

// ownedBill reads a bill outside any transaction and checks shop and kind.
func (s *ledgerService) ownedBill(ctx context.Context, shopID string, kind domain.BillKind, billID string) (*domain.Bill, error) {
	bill, err := s.store.FindBillByID(ctx, billID)
	if err != nil {
		return nil, err
	}
	if err := s.AuthorizeShop(ctx, shopID, bill.ShopID, "bill", billID); err != nil {
		return nil, err
	}
	if bill.Kind != kind {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrBillNotFound, billID)
	}
	return bill, nil
}

func (s *ledgerService) lockBill(ctx context.Context, tx portsrepo.BillWriter, billID, partyID string) (domain.Bill, error) {
	locked, err := tx.LockBills(ctx, []string{billID})
	if err != nil {
		return domain.Bill{}, err
	}
	bill, ok := locked[billID]
	if !ok {
		return domain.Bill{}, fmt.Errorf("%w: %s", apperrors.ErrBillNotFound, billID)
	}
	if bill.PartyID != partyID {
		return domain.Bill{}, consistencyError("bill %s changed party while waiting for its lock", bill.InvoiceNumber)
	}
	return bill, nil
}

// splitSettlements returns the amount manual settlements have allocated to the bill and the
// bill's auto settlement, if any.
func (s *ledgerService) splitSettlements(ctx context.Context, tx portsrepo.SettlementWriter, billID string) (decimal.Decimal, *domain.Settlement, error) {
	settlements, err := tx.ListSettlementsByBill(ctx, billID)
	if err != nil {
		return decimal.Zero, nil, err
	}
	manual := decimal.Zero
	var auto *domain.Settlement
	for i := range settlements {
		st := settlements[i]
		if st.Auto {
			auto = &st
			continue
		}
		a, _ := st.AllocationFor(billID)
		manual = manual.Add(a.Amount)
	}
	return manual, auto, nil
}

// applyLines locks the referenced products, prices each line and moves stock line by line. A
// sale line that asks for more than the product holds aborts the whole unit.
func (s *ledgerService) applyLines(ctx context.Context, tx portsrepo.ProductWriter, shopID string, kind domain.BillKind, reqs []dto.BillItemRequest, userID string, now time.Time) ([]domain.LineItem, error) {
	ids := make([]string, len(reqs))
	for i, r := range reqs {
		ids[i] = r.ProductID
	}
	products, err := tx.LockProducts(ctx, sortedUnique(ids))
	if err != nil {
		return nil, fmt.Errorf("lock products: %w", err)
	}
	items, err := buildLines(shopID, kind, reqs, products, nil)
	if err != nil {
		return nil, err
	}

	for _, it := range items {
		switch kind {
		case domain.SaleBill:
			if err := tx.DecrementStock(ctx, it.ProductID, it.Quantity, userID, now); err != nil {
				return nil, fmt.Errorf("line %d: %w", it.LineNo, err)
			}
		case domain.PurchaseBill:
			if err := tx.IncrementStock(ctx, it.ProductID, it.Quantity, userID, now); err != nil {
				return nil, fmt.Errorf("line %d: %w", it.LineNo, err)
			}
			if err := tx.SetUnitCost(ctx, it.ProductID, it.UnitPrice, userID, now); err != nil {
				return nil, fmt.Errorf("line %d: %w", it.LineNo, err)
			}
		}
	}
	return items, nil
}

// reapplyLines prices the edited lines of bill and moves each product's stock once, by the
// net difference between the old and new quantities. Sale lines keep the cost basis they were
// posted with; only products new to the bill take the current unit cost. A purchase price
// that changed becomes the product's unit cost again.
func (s *ledgerService) reapplyLines(ctx context.Context, tx portsrepo.ProductWriter, shopID string, bill domain.Bill, reqs []dto.BillItemRequest, userID string, now time.Time) ([]domain.LineItem, error) {
	ids := make([]string, 0, len(bill.Items)+len(reqs))
	for _, it := range bill.Items {
		ids = append(ids, it.ProductID)
	}
	for _, r := range reqs {
		ids = append(ids, r.ProductID)
	}
	ids = sortedUnique(ids)
	products, err := tx.LockProducts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("lock products: %w", err)
	}

	postedCost := make(map[string]decimal.Decimal, len(bill.Items))
	postedPrice := make(map[string]decimal.Decimal, len(bill.Items))
	for _, it := range bill.Items {
		if _, seen := postedCost[it.ProductID]; !seen {
			postedCost[it.ProductID] = it.UnitCost
		}
		postedPrice[it.ProductID] = it.UnitPrice
	}
	var costs map[string]decimal.Decimal
	if bill.Kind == domain.SaleBill {
		costs = postedCost
	}
	items, err := buildLines(shopID, bill.Kind, reqs, products, costs)
	if err != nil {
		return nil, err
	}

	// Stock change per product: purchases add their quantity, sales remove it.
	net := make(map[string]decimal.Decimal, len(ids))
	for _, it := range bill.Items {
		net[it.ProductID] = net[it.ProductID].Sub(stockEffect(bill.Kind, it.Quantity))
	}
	for _, it := range items {
		net[it.ProductID] = net[it.ProductID].Add(stockEffect(bill.Kind, it.Quantity))
	}
	for _, id := range ids {
		delta := net[id]
		switch {
		case delta.IsPositive():
			if err := tx.IncrementStock(ctx, id, delta, userID, now); err != nil {
				return nil, fmt.Errorf("restock %s: %w", products[id].Name, err)
			}
		case delta.IsNegative():
			err := tx.DecrementStock(ctx, id, delta.Neg(), userID, now)
			if errors.Is(err, apperrors.ErrInsufficientStock) && bill.Kind == domain.PurchaseBill {
				return nil, fmt.Errorf("%w: %s on %s", apperrors.ErrNegativeStockGuard, products[id].Name, bill.InvoiceNumber)
			}
			if err != nil {
				return nil, err
			}
		}
	}

	if bill.Kind == domain.PurchaseBill {
		for _, it := range items {
			if prev, ok := postedPrice[it.ProductID]; ok && prev.Equal(it.UnitPrice) {
				continue
			}
			if err := tx.SetUnitCost(ctx, it.ProductID, it.UnitPrice, userID, now); err != nil {
				return nil, fmt.Errorf("line %d: %w", it.LineNo, err)
			}
		}
	}
	return items, nil
}

// buildLines prices each requested line against the locked products. Sale lines take their
// cost basis from costs when the product is listed there, else from the product.
func buildLines(shopID string, kind domain.BillKind, reqs []dto.BillItemRequest, products map[string]domain.Product, costs map[string]decimal.Decimal) ([]domain.LineItem, error) {
	items := make([]domain.LineItem, 0, len(reqs))
	for i, r := range reqs {
		lineNo := i + 1
		p, ok := products[r.ProductID]
		if !ok || p.ShopID != shopID {
			return nil, fmt.Errorf("line %d: %w: %s", lineNo, apperrors.ErrProductNotFound, r.ProductID)
		}

		line := domain.LineItem{
			LineNo:      lineNo,
			ProductID:   p.ProductID,
			ProductName: p.Name,
			Quantity:    r.Quantity,
			UnitPrice:   p.SellingPrice,
			TaxRate:     p.TaxRate,
		}
		if r.UnitPrice != nil {
			line.UnitPrice = *r.UnitPrice
		}
		if r.TaxRate != nil {
			line.TaxRate = *r.TaxRate
		}

		cost := decimal.Zero
		if kind == domain.SaleBill {
			cost = p.UnitCost
			if posted, ok := costs[p.ProductID]; ok {
				cost = posted
			}
		}
		items = append(items, accounting.ComputeLine(line, kind, cost))
	}
	return items, nil
}

func stockEffect(kind domain.BillKind, qty decimal.Decimal) decimal.Decimal {
	if kind == domain.SaleBill {
		return qty.Neg()
	}
	return qty
}

// itemRequests turns posted lines back into requests that reproduce them exactly.
func itemRequests(items []domain.LineItem) []dto.BillItemRequest {
	reqs := make([]dto.BillItemRequest, len(items))
	for i, it := range items {
		price, rate := it.UnitPrice, it.TaxRate
		reqs[i] = dto.BillItemRequest{ProductID: it.ProductID, Quantity: it.Quantity, UnitPrice: &price, TaxRate: &rate}
	}
	return reqs
}

// reverseLines undoes a bill's stock movement. Taking back a purchase must not drive stock
// below zero. Unit cost is not rolled back.
func (s *ledgerService) reverseLines(ctx context.Context, tx portsrepo.ProductWriter, bill domain.Bill, userID string, now time.Time) error {
	ids := make([]string, len(bill.Items))
	for i, it := range bill.Items {
		ids[i] = it.ProductID
	}
	if _, err := tx.LockProducts(ctx, sortedUnique(ids)); err != nil {
		return fmt.Errorf("lock products: %w", err)
	}
	for _, it := range bill.Items {
		switch bill.Kind {
		case domain.SaleBill:
			if err := tx.IncrementStock(ctx, it.ProductID, it.Quantity, userID, now); err != nil {
				return fmt.Errorf("restore line %d: %w", it.LineNo, err)
			}
		case domain.PurchaseBill:
			err := tx.DecrementStock(ctx, it.ProductID, it.Quantity, userID, now)
			if errors.Is(err, apperrors.ErrInsufficientStock) {
				return fmt.Errorf("%w: line %d (%s) of %s", apperrors.ErrNegativeStockGuard, it.LineNo, it.ProductName, bill.InvoiceNumber)
			}
			if err != nil {
				return fmt.Errorf("reverse line %d: %w", it.LineNo, err)
			}
		}
	}
	return nil
}

// autoSettle records the matching receipt or payment for whatever is still pending on a
// cash or online bill.
func (s *ledgerService) autoSettle(ctx context.Context, tx portsrepo.LedgerTx, bill *domain.Bill, userID string, now time.Time) error {
	pending := bill.Pending()
	if !pending.IsPositive() {
		return nil
	}
	kind := bill.Kind.SettlementKind()
	voucher, err := documentNumber(ctx, tx, bill.ShopID, string(kind))
	if err != nil {
		return err
	}
	st := domain.Settlement{
		SettlementID:  s.NewID(),
		ShopID:        bill.ShopID,
		Kind:          kind,
		PartyID:       bill.PartyID,
		PartyName:     bill.PartyName,
		VoucherNumber: voucher,
		Date:          bill.Date,
		Mode:          bill.Mode,
		Type:          domain.SettlementBill,
		Amount:        pending,
		Allocations:   []domain.Allocation{{BillID: bill.BillID, InvoiceNumber: bill.InvoiceNumber, Amount: pending}},
		Narration:     "Auto settlement for " + bill.InvoiceNumber,
		Auto:          true,
		AuditFields:   domain.NewAuditFields(userID, now),
	}
	if err := applyAllocations(ctx, tx, st.Allocations); err != nil {
		return err
	}
	if _, err := tx.SaveSettlement(ctx, st); err != nil {
		return fmt.Errorf("save auto settlement: %w", err)
	}
	if err := tx.AdjustPartyTotals(ctx, bill.PartyID, decimal.Zero, pending, userID, now); err != nil {
		return err
	}
	bill.SettledAmount = bill.SettledAmount.Add(pending)
	return nil
}

func (s *ledgerService) removeAutoSettlement(ctx context.Context, tx portsrepo.LedgerTx, bill *domain.Bill, st domain.Settlement, userID string, now time.Time) error {
	if err := reverseAllocations(ctx, tx, st.Allocations); err != nil {
		return err
	}
	if err := tx.AdjustPartyTotals(ctx, st.PartyID, decimal.Zero, st.Amount.Neg(), userID, now); err != nil {
		return err
	}
	if err := tx.DeleteSettlement(ctx, st.SettlementID); err != nil {
		return err
	}
	bill.SettledAmount = bill.SettledAmount.Sub(sumAllocations(st.Allocations))
	return nil
}

func (s *ledgerService) adjustSettlementParty(ctx context.Context, tx portsrepo.PartyWriter, st domain.Settlement, delta decimal.Decimal, userID string, now time.Time) error {
	if st.PartyID == "" {
		return nil
	}
	return tx.AdjustPartyTotals(ctx, st.PartyID, decimal.Zero, delta, userID, now)
}

// resolveBillParty finds the bill's party by id, or for sales by name through find-or-create.
func (s *ledgerService) resolveBillParty(ctx context.Context, tx portsrepo.PartyWriter, shopID string, kind domain.BillKind, req dto.BillRequest, userID string) (*domain.Party, error) {
	want := kind.PartyType()
	if req.PartyID != "" {
		party, err := tx.LockParty(ctx, req.PartyID)
		if err != nil {
			return nil, err
		}
		if err := s.AuthorizeShop(ctx, shopID, party.ShopID, "party", req.PartyID); err != nil {
			return nil, err
		}
		if party.Type != want {
			return nil, validationError("a %s needs a %s, %s is a %s", strings.ToLower(string(kind)), strings.ToLower(string(want)), party.Name, strings.ToLower(string(party.Type)))
		}
		return party, nil
	}
	if kind == domain.PurchaseBill {
		return nil, validationError("partyID is required for purchases")
	}
	return findOrCreateParty(ctx, tx, &s.BaseService, shopID, dto.CreatePartyRequest{Type: want, Name: req.PartyName}, userID)
}

func validateBillRequest(kind domain.BillKind, req dto.BillRequest) error {
	if !req.Mode.ValidForBill() {
		return validationError("mode %q is not valid for a bill", req.Mode)
	}
	return validateItems(kind, req.Items)
}

func validateItems(kind domain.BillKind, items []dto.BillItemRequest) error {
	if len(items) == 0 {
		return validationError("at least one line item is required")
	}
	for i, it := range items {
		lineNo := i + 1
		if strings.TrimSpace(it.ProductID) == "" {
			return validationError("line %d: productID is required", lineNo)
		}
		if !it.Quantity.IsPositive() {
			return validationError("line %d: quantity must be positive", lineNo)
		}
		if it.UnitPrice == nil && kind == domain.PurchaseBill {
			return validationError("line %d: unitPrice is required on purchases", lineNo)
		}
		if it.UnitPrice != nil && it.UnitPrice.IsNegative() {
			return validationError("line %d: unitPrice must not be negative", lineNo)
		}
		if it.TaxRate != nil {
			if err := checkTaxRate(*it.TaxRate); err != nil {
				return fmt.Errorf("line %d: %w", lineNo, err)
			}
		}
	}
	return nil
}

func billDate(requested *time.Time, now time.Time) time.Time {
	if requested == nil || requested.IsZero() {
		return now
	}
	return *requested
}

// sortBillsAscending orders bills oldest first with insertion order as the tie-break.
func sortBillsAscending(bills []domain.Bill) {
	sort.SliceStable(bills, func(i, j int) bool {
		if bills[i].Date.Equal(bills[j].Date) {
			return bills[i].Seq < bills[j].Seq
		}
		return bills[i].Date.Before(bills[j].Date)
	})
}
