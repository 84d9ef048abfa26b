package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/shop_ledger/internal/apperrors"
	"github.com/SscSPs/shop_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/shop_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/shop_ledger/internal/core/ports/services"
	"github.com/SscSPs/shop_ledger/internal/dto"
	"github.com/SscSPs/shop_ledger/internal/utils/accounting"
	"github.com/SscSPs/shop_ledger/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

type settlementService struct {
	BaseService
	store portsrepo.LedgerStore
}

// NewSettlementService creates the service that allocates receipts and payments to bills.
func NewSettlementService(store portsrepo.LedgerStore, opts ...ServiceOption) portssvc.SettlementSvcFacade {
	return &settlementService{BaseService: applyOptions(opts), store: store}
}

var _ portssvc.SettlementSvcFacade = (*settlementService)(nil)

func (s *settlementService) PostSettlement(ctx context.Context, shopID string, kind domain.SettlementKind, req dto.SettlementRequest, userID string) (*domain.Settlement, error) {
	if err := validateSettlementRequest(kind, req, false); err != nil {
		s.LogFailure(ctx, err, "post_settlement", slog.String("kind", string(kind)))
		return nil, err
	}
	now := s.Now()

	var posted domain.Settlement
	err := s.store.WithTransaction(ctx, func(tx portsrepo.LedgerTx) error {
		party, err := s.lockSettlementParty(ctx, tx, shopID, kind, req.PartyID)
		if err != nil {
			return err
		}

		allocs, err := s.allocate(ctx, tx, party, kind, req.Amount, req.Allocations, req.BillIDs)
		if err != nil {
			return err
		}
		if err := applyAllocations(ctx, tx, allocs); err != nil {
			return err
		}

		voucher := strings.TrimSpace(req.VoucherNumber)
		if voucher == "" {
			if voucher, err = documentNumber(ctx, tx, shopID, string(kind)); err != nil {
				return err
			}
		}
		st := domain.Settlement{
			SettlementID:  s.NewID(),
			ShopID:        shopID,
			Kind:          kind,
			VoucherNumber: voucher,
			Date:          billDate(req.Date, now),
			Mode:          req.Mode,
			Type:          req.Type,
			Amount:        req.Amount,
			Allocations:   allocs,
			Narration:     strings.TrimSpace(req.Narration),
			AuditFields:   domain.NewAuditFields(userID, now),
		}
		if party != nil {
			st.PartyID = party.PartyID
			st.PartyName = party.Name
		}
		if st.Seq, err = tx.SaveSettlement(ctx, st); err != nil {
			return fmt.Errorf("save settlement: %w", err)
		}
		if party != nil {
			if err := tx.AdjustPartyTotals(ctx, party.PartyID, decimal.Zero, st.Amount, userID, now); err != nil {
				return err
			}
		}
		if err := verifySettlement(st); err != nil {
			return err
		}
		if err := verifyBills(ctx, tx, allocationBillIDs(allocs)); err != nil {
			return err
		}
		posted = st
		return nil
	})
	if err != nil {
		s.LogFailure(ctx, err, "post_settlement", slog.String("kind", string(kind)), slog.String("party_id", req.PartyID))
		return nil, err
	}
	s.LogInfo(ctx, "settlement posted",
		slog.String("settlement_id", posted.SettlementID),
		slog.String("kind", string(kind)),
		slog.String("amount", posted.Amount.String()),
		slog.Int("allocations", len(posted.Allocations)))
	return &posted, nil
}

func (s *settlementService) UpdateSettlement(ctx context.Context, shopID string, kind domain.SettlementKind, settlementID string, req dto.SettlementRequest, userID string) (*domain.Settlement, error) {
	if err := validateSettlementRequest(kind, req, true); err != nil {
		return nil, err
	}
	pre, err := s.ownedSettlement(ctx, shopID, kind, settlementID)
	if err != nil {
		return nil, err
	}
	if pre.Auto {
		return nil, consistencyError("%s was created by a cash or online bill; edit the bill instead", pre.VoucherNumber)
	}
	if req.PartyID != "" && req.PartyID != pre.PartyID {
		return nil, validationError("the party of a posted settlement cannot be changed")
	}
	now := s.Now()

	var updated domain.Settlement
	err = s.store.WithTransaction(ctx, func(tx portsrepo.LedgerTx) error {
		party, err := s.lockSettlementParty(ctx, tx, shopID, kind, pre.PartyID)
		if err != nil {
			return err
		}
		cur, err := tx.LockSettlement(ctx, settlementID)
		if err != nil {
			return err
		}

		// Reverse.
		if err := reverseAllocations(ctx, tx, cur.Allocations); err != nil {
			return err
		}
		if party != nil {
			if err := tx.AdjustPartyTotals(ctx, party.PartyID, decimal.Zero, cur.Amount.Neg(), userID, now); err != nil {
				return err
			}
		}

		// Re-apply.
		var allocs []domain.Allocation
		switch {
		case len(req.Allocations) > 0 || len(req.BillIDs) > 0:
			allocs, err = s.allocate(ctx, tx, party, kind, req.Amount, req.Allocations, req.BillIDs)
		case req.Type == domain.SettlementBill && len(cur.Allocations) > 0 && req.Amount.Equal(cur.Amount):
			allocs, err = s.reuseAllocations(ctx, tx, party, kind, cur.Allocations)
		case req.Type == domain.SettlementBill && len(cur.Allocations) > 0:
			allocs, err = s.allocate(ctx, tx, party, kind, req.Amount, nil, allocationBillIDs(cur.Allocations))
		case req.Type == domain.SettlementBill:
			err = validationError("a bill settlement needs allocations or billIDs")
		}
		if err != nil {
			return err
		}
		if err := applyAllocations(ctx, tx, allocs); err != nil {
			return err
		}

		touched := append(allocationBillIDs(cur.Allocations), allocationBillIDs(allocs)...)
		cur.Amount = req.Amount
		cur.Mode = req.Mode
		cur.Type = req.Type
		cur.Allocations = allocs
		if req.Date != nil {
			cur.Date = *req.Date
		}
		if v := strings.TrimSpace(req.VoucherNumber); v != "" {
			cur.VoucherNumber = v
		}
		cur.Narration = strings.TrimSpace(req.Narration)
		cur.Touch(userID, now)
		if err := tx.ReplaceSettlement(ctx, *cur); err != nil {
			return fmt.Errorf("replace settlement: %w", err)
		}
		if party != nil {
			if err := tx.AdjustPartyTotals(ctx, party.PartyID, decimal.Zero, cur.Amount, userID, now); err != nil {
				return err
			}
		}
		if err := verifySettlement(*cur); err != nil {
			return err
		}
		if err := verifyBills(ctx, tx, touched); err != nil {
			return err
		}
		updated = *cur
		return nil
	})
	if err != nil {
		s.LogFailure(ctx, err, "update_settlement", slog.String("settlement_id", settlementID))
		return nil, err
	}
	s.LogInfo(ctx, "settlement updated", slog.String("settlement_id", settlementID), slog.String("amount", updated.Amount.String()))
	return &updated, nil
}

func (s *settlementService) DeleteSettlement(ctx context.Context, shopID string, kind domain.SettlementKind, settlementID string, userID string) error {
	pre, err := s.ownedSettlement(ctx, shopID, kind, settlementID)
	if err != nil {
		return err
	}
	if pre.Auto {
		return consistencyError("%s was created by a cash or online bill; delete or edit the bill instead", pre.VoucherNumber)
	}
	now := s.Now()

	err = s.store.WithTransaction(ctx, func(tx portsrepo.LedgerTx) error {
		party, err := s.lockSettlementParty(ctx, tx, shopID, kind, pre.PartyID)
		if err != nil {
			return err
		}
		cur, err := tx.LockSettlement(ctx, settlementID)
		if err != nil {
			return err
		}
		if err := reverseAllocations(ctx, tx, cur.Allocations); err != nil {
			return err
		}
		if party != nil {
			if err := tx.AdjustPartyTotals(ctx, party.PartyID, decimal.Zero, cur.Amount.Neg(), userID, now); err != nil {
				return err
			}
		}
		if err := tx.DeleteSettlement(ctx, settlementID); err != nil {
			return err
		}
		return verifyBills(ctx, tx, allocationBillIDs(cur.Allocations))
	})
	if err != nil {
		s.LogFailure(ctx, err, "delete_settlement", slog.String("settlement_id", settlementID))
		return err
	}
	s.LogInfo(ctx, "settlement deleted", slog.String("settlement_id", settlementID))
	return nil
}

func (s *settlementService) GetSettlementByID(ctx context.Context, shopID string, kind domain.SettlementKind, settlementID string) (*domain.Settlement, error) {
	return s.ownedSettlement(ctx, shopID, kind, settlementID)
}

func (s *settlementService) ListSettlements(ctx context.Context, shopID string, kind domain.SettlementKind, params dto.ListSettlementsParams) (*dto.ListSettlementsResponse, error) {
	rng, err := params.Range(s.Location)
	if err != nil {
		return nil, err
	}
	list, next, err := s.store.ListSettlements(ctx, shopID, portsrepo.SettlementFilter{
		Kind:        kind,
		PartyID:     params.PartyID,
		Mode:        domain.PaymentMode(params.Mode),
		Type:        domain.SettlementType(params.Type),
		Range:       rng,
		ExcludeAuto: params.ExcludeAuto,
		Limit:       pagination.ClampLimit(params.Limit),
		NextToken:   params.NextToken,
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to list settlements", slog.String("kind", string(kind)))
		return nil, err
	}
	return &dto.ListSettlementsResponse{Settlements: list, NextToken: next}, nil
}

func (s *settlementService) ListOpenBills(ctx context.Context, shopID string, partyID string) ([]domain.Bill, error) {
	party, err := s.ownedParty(ctx, shopID, partyID)
	if err != nil {
		return nil, err
	}
	bills, _, err := s.store.ListBills(ctx, shopID, portsrepo.BillFilter{
		Kind:     billKindFor(party.Type),
		PartyID:  partyID,
		OpenOnly: true,
	})
	if err != nil {
		return nil, err
	}
	sortBillsAscending(bills)
	return bills, nil
}

func (s *settlementService) PlanAllocation(ctx context.Context, shopID string, req dto.PlanAllocationRequest) ([]domain.Allocation, error) {
	party, err := s.ownedParty(ctx, shopID, req.PartyID)
	if err != nil {
		return nil, err
	}
	kind := billKindFor(party.Type)

	var bills []domain.Bill
	switch {
	case len(req.Allocations) > 0:
		bills, err = s.readPartyBills(ctx, *party, kind, allocationBillIDs(dto.ToAllocations(req.Allocations)))
	case len(req.BillIDs) > 0:
		bills, err = s.readPartyBills(ctx, *party, kind, req.BillIDs)
	default:
		bills, err = s.ListOpenBills(ctx, shopID, party.PartyID)
	}
	if err != nil {
		return nil, err
	}

	if len(req.Allocations) > 0 {
		explicit := dto.ToAllocations(req.Allocations)
		total := req.Amount
		if total.IsZero() {
			total = sumAllocations(explicit)
		}
		return accounting.AllocateExplicit(bills, explicit, total)
	}
	return accounting.AllocateProportional(bills, req.Amount)
}

// allocate resolves the allocations for a settlement: explicit when the caller gave per-bill
// amounts, proportional when it gave only bill ids, none otherwise.
func (s *settlementService) allocate(ctx context.Context, tx portsrepo.BillWriter, party *domain.Party, kind domain.SettlementKind, amount decimal.Decimal, explicit []dto.AllocationRequest, billIDs []string) ([]domain.Allocation, error) {
	if len(explicit) == 0 && len(billIDs) == 0 {
		return nil, nil
	}
	if party == nil {
		return nil, validationError("allocations need a party")
	}
	if len(explicit) > 0 {
		requested := dto.ToAllocations(explicit)
		bills, err := lockPartyBills(ctx, tx, *party, kind.BillKind(), sortedUnique(allocationBillIDs(requested)))
		if err != nil {
			return nil, err
		}
		return accounting.AllocateExplicit(bills, requested, amount)
	}
	if hasDuplicates(billIDs) {
		return nil, validationError("billIDs contains duplicates")
	}
	bills, err := lockPartyBills(ctx, tx, *party, kind.BillKind(), billIDs)
	if err != nil {
		return nil, err
	}
	return accounting.AllocateProportional(bills, amount)
}

// reuseAllocations re-validates the previous split against the restored pending amounts.
func (s *settlementService) reuseAllocations(ctx context.Context, tx portsrepo.BillWriter, party *domain.Party, kind domain.SettlementKind, prev []domain.Allocation) ([]domain.Allocation, error) {
	bills, err := lockPartyBills(ctx, tx, *party, kind.BillKind(), allocationBillIDs(prev))
	if err != nil {
		return nil, err
	}
	requested := make([]domain.Allocation, len(prev))
	copy(requested, prev)
	return accounting.AllocateExplicit(bills, requested, sumAllocations(prev))
}

func (s *settlementService) lockSettlementParty(ctx context.Context, tx portsrepo.PartyWriter, shopID string, kind domain.SettlementKind, partyID string) (*domain.Party, error) {
	if partyID == "" {
		return nil, nil
	}
	party, err := tx.LockParty(ctx, partyID)
	if err != nil {
		return nil, err
	}
	if err := s.AuthorizeShop(ctx, shopID, party.ShopID, "party", partyID); err != nil {
		return nil, err
	}
	if party.Type != kind.BillKind().PartyType() {
		return nil, validationError("a %s cannot be posted for %s (%s)", strings.ToLower(string(kind)), party.Name, strings.ToLower(string(party.Type)))
	}
	return party, nil
}

func (s *settlementService) ownedSettlement(ctx context.Context, shopID string, kind domain.SettlementKind, settlementID string) (*domain.Settlement, error) {
	st, err := s.store.FindSettlementByID(ctx, settlementID)
	if err != nil {
		return nil, err
	}
	if err := s.AuthorizeShop(ctx, shopID, st.ShopID, "settlement", settlementID); err != nil {
		return nil, err
	}
	if st.Kind != kind {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrSettlementNotFound, settlementID)
	}
	return st, nil
}

func (s *settlementService) ownedParty(ctx context.Context, shopID, partyID string) (*domain.Party, error) {
	party, err := s.store.FindPartyByID(ctx, partyID)
	if err != nil {
		return nil, err
	}
	if err := s.AuthorizeShop(ctx, shopID, party.ShopID, "party", partyID); err != nil {
		return nil, err
	}
	return party, nil
}

func (s *settlementService) readPartyBills(ctx context.Context, party domain.Party, kind domain.BillKind, ids []string) ([]domain.Bill, error) {
	out := make([]domain.Bill, 0, len(ids))
	for _, id := range ids {
		b, err := s.store.FindBillByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if b.ShopID != party.ShopID {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrBillNotFound, id)
		}
		if b.PartyID != party.PartyID || b.Kind != kind {
			return nil, validationError("bill %s does not belong to %s", b.InvoiceNumber, party.Name)
		}
		out = append(out, *b)
	}
	return out, nil
}

func validateSettlementRequest(kind domain.SettlementKind, req dto.SettlementRequest, updating bool) error {
	if !req.Mode.ValidForSettlement() {
		return validationError("mode %q is not valid for a settlement", req.Mode)
	}
	if !req.Type.IsValidFor(kind) {
		return validationError("type %q is not valid for a %s", req.Type, strings.ToLower(string(kind)))
	}
	if !req.Amount.IsPositive() {
		return validationError("amount must be positive")
	}
	if !accounting.IsWholeUnits(req.Amount) {
		return validationError("amount %s is not in whole currency units", req.Amount)
	}
	if req.PartyID == "" && req.Type != domain.SettlementExpense && !updating {
		return validationError("partyID is required")
	}
	hasAllocs := len(req.Allocations) > 0 || len(req.BillIDs) > 0
	if req.Type != domain.SettlementBill && hasAllocs {
		return validationError("only bill settlements carry allocations")
	}
	if req.Type == domain.SettlementBill && !hasAllocs && !updating {
		return validationError("a bill settlement needs allocations or billIDs")
	}
	if len(req.Allocations) > 0 && len(req.BillIDs) > 0 {
		return validationError("give either allocations or billIDs, not both")
	}
	return nil
}

func billKindFor(t domain.PartyType) domain.BillKind {
	if t == domain.Supplier {
		return domain.PurchaseBill
	}
	return domain.SaleBill
}

func hasDuplicates(ids []string) bool {
	return len(sortedUnique(ids)) != len(ids)
}
