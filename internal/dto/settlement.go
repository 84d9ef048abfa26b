package dto

import (
	"time"

	"github.com/SscSPs/shop_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AllocationRequest assigns part of a settlement to one bill.
type AllocationRequest struct {
	BillID string          `json:"billID" binding:"required"`
	Amount decimal.Decimal `json:"amount"`
}

// SettlementRequest creates a receipt or payment, or replaces one on update.
//
// Allocations selects the explicit policy. BillIDs with no Allocations spreads Amount over those
// bills in proportion to what each still owes. With neither the settlement stays unallocated.
type SettlementRequest struct {
	PartyID       string                `json:"partyID"`
	VoucherNumber string                `json:"voucherNumber" binding:"max=40"`
	Date          *time.Time            `json:"date,omitempty"`
	Mode          domain.PaymentMode    `json:"mode" binding:"required,settlementmode"`
	Type          domain.SettlementType `json:"type" binding:"required,oneof=bill advance other expense"`
	Amount        decimal.Decimal       `json:"amount"`
	BillIDs       []string              `json:"billIDs,omitempty"`
	Allocations   []AllocationRequest   `json:"allocations,omitempty" binding:"omitempty,dive"`
	Narration     string                `json:"narration" binding:"max=500"`
}

// PlanAllocationRequest previews allocations without posting anything.
type PlanAllocationRequest struct {
	PartyID     string              `json:"partyID" binding:"required"`
	Amount      decimal.Decimal     `json:"amount"`
	BillIDs     []string            `json:"billIDs,omitempty"`
	Allocations []AllocationRequest `json:"allocations,omitempty" binding:"omitempty,dive"`
}

// PlanAllocationResponse is the preview result.
type PlanAllocationResponse struct {
	Allocations []domain.Allocation `json:"allocations"`
	Total       decimal.Decimal     `json:"total"`
}

// ListSettlementsParams are the query parameters of the receipt and payment lists.
type ListSettlementsParams struct {
	DateRangeParams
	PartyID     string  `form:"partyID"`
	Mode        string  `form:"mode" binding:"omitempty,settlementmode"`
	Type        string  `form:"type" binding:"omitempty,oneof=bill advance other expense"`
	ExcludeAuto bool    `form:"excludeAuto"`
	Limit       int     `form:"limit,default=20"`
	NextToken   *string `form:"nextToken"`
}

// ListSettlementsResponse is one page of settlements.
type ListSettlementsResponse struct {
	Settlements []domain.Settlement `json:"settlements"`
	NextToken   *string             `json:"nextToken,omitempty"`
}

// ToAllocations converts request allocations to domain values.
func ToAllocations(reqs []AllocationRequest) []domain.Allocation {
	if len(reqs) == 0 {
		return nil
	}
	out := make([]domain.Allocation, len(reqs))
	for i, r := range reqs {
		out[i] = domain.Allocation{BillID: r.BillID, Amount: r.Amount}
	}
	return out
}

// ToPlanAllocationResponse totals a previewed allocation.
func ToPlanAllocationResponse(allocs []domain.Allocation) PlanAllocationResponse {
	total := decimal.Zero
	for _, a := range allocs {
		total = total.Add(a.Amount)
	}
	if allocs == nil {
		allocs = []domain.Allocation{}
	}
	return PlanAllocationResponse{Allocations: allocs, Total: total}
}
