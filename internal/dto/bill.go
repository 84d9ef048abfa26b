package dto

import (
	"time"

	"github.com/SscSPs/shop_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BillItemRequest is one line of a sale or purchase. UnitPrice and TaxRate fall back to the
// product's selling price and tax rate on sales when omitted. Purchases must carry UnitPrice.
type BillItemRequest struct {
	ProductID string           `json:"productID" binding:"required"`
	Quantity  decimal.Decimal  `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unitPrice,omitempty"`
	TaxRate   *decimal.Decimal `json:"taxRate,omitempty"`
}

// BillRequest creates a bill.
type BillRequest struct {
	PartyID       string             `json:"partyID"`
	PartyName     string             `json:"partyName" binding:"max=120"` // sales only: resolved through find-or-create
	InvoiceNumber string             `json:"invoiceNumber" binding:"max=40"`
	Date          *time.Time         `json:"date,omitempty"`
	Mode          domain.PaymentMode `json:"mode" binding:"required,billmode"`
	Items         []BillItemRequest  `json:"items" binding:"required,min=1,dive"`
	Narration     string             `json:"narration" binding:"max=500"`
}

// UpdateBillRequest edits a posted bill. Omitted fields keep their stored values; Items, when
// present, replaces every line.
type UpdateBillRequest struct {
	PartyID       string              `json:"partyID"` // must match the bill's party when set
	InvoiceNumber string              `json:"invoiceNumber" binding:"max=40"`
	Date          *time.Time          `json:"date,omitempty"`
	Mode          *domain.PaymentMode `json:"mode,omitempty" binding:"omitempty,billmode"`
	Items         []BillItemRequest   `json:"items,omitempty" binding:"omitempty,min=1,dive"`
	Narration     *string             `json:"narration,omitempty" binding:"omitempty,max=500"`
}

// ListBillsParams are the query parameters of the sale and purchase lists.
type ListBillsParams struct {
	DateRangeParams
	PartyID   string  `form:"partyID"`
	Mode      string  `form:"mode" binding:"omitempty,billmode"`
	Status    string  `form:"status" binding:"omitempty,oneof=open all"`
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// DeleteBillParams controls cascade behaviour on delete.
type DeleteBillParams struct {
	Cascade bool `form:"cascade"`
}

// BillResponse is a posted bill with its pending amount.
type BillResponse struct {
	domain.Bill
	PendingAmount decimal.Decimal `json:"pendingAmount"`
}

// ListBillsResponse is one page of bills.
type ListBillsResponse struct {
	Bills     []BillResponse `json:"bills"`
	NextToken *string        `json:"nextToken,omitempty"`
}

// ToBillResponse converts a domain.Bill to its response.
func ToBillResponse(b *domain.Bill) BillResponse {
	return BillResponse{Bill: *b, PendingAmount: b.Pending()}
}

// ToBillResponses converts a slice of bills.
func ToBillResponses(bills []domain.Bill) []BillResponse {
	out := make([]BillResponse, len(bills))
	for i := range bills {
		out[i] = ToBillResponse(&bills[i])
	}
	return out
}
