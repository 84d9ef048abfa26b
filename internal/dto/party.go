package dto

import (
	"github.com/SscSPs/shop_ledger/internal/core/domain"
	"github.com/SscSPs/shop_ledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// CreatePartyRequest creates a customer or supplier. The same body drives find-or-create.
type CreatePartyRequest struct {
	Type    domain.PartyType `json:"type" binding:"required,partytype"`
	Name    string           `json:"name" binding:"max=120"`
	Phone   string           `json:"phone" binding:"max=20"`
	Address string           `json:"address" binding:"max=300"`
}

// ListPartiesParams filters the party list.
type ListPartiesParams struct {
	Type   string `form:"type" binding:"omitempty,partytype"`
	Search string `form:"search"`
}

// PartyResponse is a party with its current balance.
type PartyResponse struct {
	domain.Party
	Balance decimal.Decimal    `json:"balance"`
	Side    domain.BalanceSide `json:"side"`
}

// ToPartyResponse converts a domain.Party to its response.
func ToPartyResponse(p *domain.Party) PartyResponse {
	balance := p.Balance()
	return PartyResponse{
		Party:   *p,
		Balance: balance,
		Side:    accounting.Side(p.Type, balance),
	}
}

// ToPartyResponses converts a slice of parties.
func ToPartyResponses(parties []domain.Party) []PartyResponse {
	out := make([]PartyResponse, len(parties))
	for i := range parties {
		out[i] = ToPartyResponse(&parties[i])
	}
	return out
}

// PartyBalanceResponse is the unfiltered balance of one party.
type PartyBalanceResponse struct {
	PartyID string             `json:"partyID"`
	Balance decimal.Decimal    `json:"balance"`
	Side    domain.BalanceSide `json:"side"`
}
