package services

import (
	"context"

	"github.com/SscSPs/shop_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BalanceSvc derives balances from posted bills and settlements. It never writes.
type BalanceSvc interface {
	// PartyLedger returns the party statement for rng with opening and closing balances.
	PartyLedger(ctx context.Context, shopID string, partyID string, rng domain.DateRange) (*domain.PartyLedger, error)

	// PartyBalance is the unfiltered balance and its side.
	PartyBalance(ctx context.Context, shopID string, partyID string) (decimal.Decimal, domain.BalanceSide, error)

	ChannelFloat(ctx context.Context, shopID string, rng domain.DateRange) (*domain.ChannelFloat, error)
	Outstanding(ctx context.Context, shopID string) (*domain.OutstandingReport, error)
}
