package services

import (
	"context"

	"github.com/SscSPs/shop_ledger/internal/core/domain"
	"github.com/SscSPs/shop_ledger/internal/dto"
)

// PartyReaderSvc defines read operations for customers and suppliers.
type PartyReaderSvc interface {
	GetPartyByID(ctx context.Context, shopID string, partyID string) (*domain.Party, error)
	ListParties(ctx context.Context, shopID string, params dto.ListPartiesParams) ([]domain.Party, error)
}

// PartyWriterSvc defines write operations for customers and suppliers.
type PartyWriterSvc interface {
	// CreateParty always inserts; a clash on the normalized name is ErrDuplicate.
	CreateParty(ctx context.Context, shopID string, req dto.CreatePartyRequest, userID string) (*domain.Party, error)

	// ResolveParty returns the party with the same normalized name, creating it if needed.
	ResolveParty(ctx context.Context, shopID string, req dto.CreatePartyRequest, userID string) (*domain.Party, error)

	// DeleteParty fails with ErrConsistencyViolation while any bill or settlement names the party.
	DeleteParty(ctx context.Context, shopID string, partyID string, userID string) error
}

// PartySvcFacade combines the party interfaces.
type PartySvcFacade interface {
	PartyReaderSvc
	PartyWriterSvc
}
