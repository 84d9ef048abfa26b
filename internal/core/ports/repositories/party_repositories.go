package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/shop_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PartyFilter narrows ListParties. Zero values mean "any".
type PartyFilter struct {
	Type   domain.PartyType
	Search string // case-insensitive substring of the name
}

// PartyReader defines read operations for parties.
type PartyReader interface {
	// FindPartyByID returns apperrors.ErrPartyNotFound when no party has the id.
	FindPartyByID(ctx context.Context, partyID string) (*domain.Party, error)

	// FindPartyByName matches on the normalized name within a shop and party type.
	FindPartyByName(ctx context.Context, shopID string, partyType domain.PartyType, normalizedName string) (*domain.Party, error)

	ListParties(ctx context.Context, shopID string, filter PartyFilter) ([]domain.Party, error)
}

// PartyWriter defines transactional writes for parties.
type PartyWriter interface {
	// LockParty reads the party and holds it until the transaction ends.
	LockParty(ctx context.Context, partyID string) (*domain.Party, error)

	FindPartyByName(ctx context.Context, shopID string, partyType domain.PartyType, normalizedName string) (*domain.Party, error)

	// SaveParty inserts a new party. A second party with the same normalized name in the same
	// shop and type yields apperrors.ErrDuplicate.
	SaveParty(ctx context.Context, party domain.Party) error

	// AdjustPartyTotals adds the deltas to totalBilled and totalSettled.
	AdjustPartyTotals(ctx context.Context, partyID string, billedDelta, settledDelta decimal.Decimal, userID string, at time.Time) error

	// CountPartyReferences counts bills and settlements that name the party.
	CountPartyReferences(ctx context.Context, partyID string) (int, error)

	DeleteParty(ctx context.Context, partyID string) error
}
