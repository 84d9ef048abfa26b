package mapping

import (
	"github.com/SscSPs/shop_ledger/internal/core/domain"
	"github.com/SscSPs/shop_ledger/internal/models"
)

// ToModelSettlement converts a domain Settlement to its header row and allocation rows.
// An empty party id becomes NULL.
func ToModelSettlement(d domain.Settlement) (models.Settlement, []models.Allocation) {
	var partyID *string
	if d.PartyID != "" {
		id := d.PartyID
		partyID = &id
	}
	header := models.Settlement{
		SettlementID:   d.SettlementID,
		ShopID:         d.ShopID,
		Kind:           string(d.Kind),
		PartyID:        partyID,
		PartyName:      d.PartyName,
		VoucherNumber:  d.VoucherNumber,
		SettlementDate: d.Date,
		Mode:           string(d.Mode),
		SettlementType: string(d.Type),
		Amount:         d.Amount,
		Narration:      d.Narration,
		Auto:           d.Auto,
		Seq:            d.Seq,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
	allocs := make([]models.Allocation, len(d.Allocations))
	for i, a := range d.Allocations {
		allocs[i] = models.Allocation{
			SettlementID:  d.SettlementID,
			BillID:        a.BillID,
			InvoiceNumber: a.InvoiceNumber,
			Amount:        a.Amount,
		}
	}
	return header, allocs
}

// ToDomainSettlement converts a header row and its allocations to a domain Settlement.
func ToDomainSettlement(m models.Settlement, allocs []models.Allocation) domain.Settlement {
	d := domain.Settlement{
		SettlementID:  m.SettlementID,
		ShopID:        m.ShopID,
		Kind:          domain.SettlementKind(m.Kind),
		PartyName:     m.PartyName,
		VoucherNumber: m.VoucherNumber,
		Date:          m.SettlementDate,
		Mode:          domain.PaymentMode(m.Mode),
		Type:          domain.SettlementType(m.SettlementType),
		Amount:        m.Amount,
		Allocations:   make([]domain.Allocation, len(allocs)),
		Narration:     m.Narration,
		Auto:          m.Auto,
		Seq:           m.Seq,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
	if m.PartyID != nil {
		d.PartyID = *m.PartyID
	}
	for i, a := range allocs {
		d.Allocations[i] = domain.Allocation{BillID: a.BillID, InvoiceNumber: a.InvoiceNumber, Amount: a.Amount}
	}
	return d
}
