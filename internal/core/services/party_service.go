package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/shop_ledger/internal/apperrors"
	"github.com/SscSPs/shop_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/shop_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/shop_ledger/internal/core/ports/services"
	"github.com/SscSPs/shop_ledger/internal/dto"
	"github.com/shopspring/decimal"
)

type partyService struct {
	BaseService
	store portsrepo.LedgerStore
}

// NewPartyService creates the customer/supplier service.
func NewPartyService(store portsrepo.LedgerStore, opts ...ServiceOption) portssvc.PartySvcFacade {
	return &partyService{BaseService: applyOptions(opts), store: store}
}

var _ portssvc.PartySvcFacade = (*partyService)(nil)

func (s *partyService) CreateParty(ctx context.Context, shopID string, req dto.CreatePartyRequest, userID string) (*domain.Party, error) {
	party, err := s.newParty(shopID, req, userID)
	if err != nil {
		return nil, err
	}
	err = s.store.WithTransaction(ctx, func(tx portsrepo.LedgerTx) error {
		return tx.SaveParty(ctx, *party)
	})
	if err != nil {
		s.LogFailure(ctx, err, "create_party", slog.String("name", party.Name))
		return nil, err
	}
	s.LogInfo(ctx, "party created", slog.String("party_id", party.PartyID), slog.String("type", string(party.Type)))
	return party, nil
}

func (s *partyService) ResolveParty(ctx context.Context, shopID string, req dto.CreatePartyRequest, userID string) (*domain.Party, error) {
	if !req.Type.IsValid() {
		return nil, validationError("unknown party type %q", req.Type)
	}
	var resolved *domain.Party
	err := s.store.WithTransaction(ctx, func(tx portsrepo.LedgerTx) error {
		p, err := findOrCreateParty(ctx, tx, &s.BaseService, shopID, req, userID)
		resolved = p
		return err
	})
	if err != nil {
		s.LogFailure(ctx, err, "resolve_party", slog.String("name", req.Name))
		return nil, err
	}
	return resolved, nil
}

func (s *partyService) GetPartyByID(ctx context.Context, shopID string, partyID string) (*domain.Party, error) {
	party, err := s.store.FindPartyByID(ctx, partyID)
	if err != nil {
		return nil, err
	}
	if err := s.AuthorizeShop(ctx, shopID, party.ShopID, "party", partyID); err != nil {
		return nil, err
	}
	return party, nil
}

func (s *partyService) ListParties(ctx context.Context, shopID string, params dto.ListPartiesParams) ([]domain.Party, error) {
	filter := portsrepo.PartyFilter{Type: domain.PartyType(params.Type), Search: domain.NormalizePartyName(params.Search)}
	if filter.Type != "" && !filter.Type.IsValid() {
		return nil, validationError("unknown party type %q", params.Type)
	}
	parties, err := s.store.ListParties(ctx, shopID, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list parties", slog.String("shop_id", shopID))
		return nil, err
	}
	return parties, nil
}

func (s *partyService) DeleteParty(ctx context.Context, shopID string, partyID string, userID string) error {
	err := s.store.WithTransaction(ctx, func(tx portsrepo.LedgerTx) error {
		party, err := tx.LockParty(ctx, partyID)
		if err != nil {
			return err
		}
		if err := s.AuthorizeShop(ctx, shopID, party.ShopID, "party", partyID); err != nil {
			return err
		}
		refs, err := tx.CountPartyReferences(ctx, partyID)
		if err != nil {
			return err
		}
		if refs > 0 {
			return consistencyError("party %s is referenced by %d bill(s) or settlement(s)", party.Name, refs)
		}
		return tx.DeleteParty(ctx, partyID)
	})
	if err != nil {
		s.LogFailure(ctx, err, "delete_party", slog.String("party_id", partyID))
		return err
	}
	s.LogInfo(ctx, "party deleted", slog.String("party_id", partyID), slog.String("user_id", userID))
	return nil
}

func (s *partyService) newParty(shopID string, req dto.CreatePartyRequest, userID string) (*domain.Party, error) {
	if !req.Type.IsValid() {
		return nil, validationError("unknown party type %q", req.Type)
	}
	name := strings.Join(strings.Fields(req.Name), " ")
	if name == "" {
		return nil, validationError("party name is required")
	}
	return buildParty(&s.BaseService, shopID, req.Type, name, req.Phone, req.Address, userID, s.Now()), nil
}

func buildParty(base *BaseService, shopID string, partyType domain.PartyType, name, phone, address, userID string, now time.Time) *domain.Party {
	return &domain.Party{
		PartyID:        base.NewID(),
		ShopID:         shopID,
		Type:           partyType,
		Name:           name,
		NormalizedName: domain.NormalizePartyName(name),
		Phone:          strings.TrimSpace(phone),
		Address:        strings.TrimSpace(address),
		TotalBilled:    decimal.Zero,
		TotalSettled:   decimal.Zero,
		AuditFields:    domain.NewAuditFields(userID, now),
	}
}

// findOrCreateParty resolves a party by normalized name inside tx. An empty customer name
// resolves to the shared walk-in customer.
func findOrCreateParty(ctx context.Context, tx portsrepo.PartyWriter, base *BaseService, shopID string, req dto.CreatePartyRequest, userID string) (*domain.Party, error) {
	name := strings.Join(strings.Fields(req.Name), " ")
	if name == "" {
		if req.Type != domain.Customer {
			return nil, validationError("supplier name is required")
		}
		name = domain.WalkInCustomerName
	}
	normalized := domain.NormalizePartyName(name)

	existing, err := tx.FindPartyByName(ctx, shopID, req.Type, normalized)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("find party by name: %w", err)
	}

	party := buildParty(base, shopID, req.Type, name, req.Phone, req.Address, userID, base.Now())
	if err := tx.SaveParty(ctx, *party); err != nil {
		return nil, fmt.Errorf("save party: %w", err)
	}
	base.LogInfo(ctx, "party created on first reference", slog.String("party_id", party.PartyID), slog.String("name", name))
	return party, nil
}
