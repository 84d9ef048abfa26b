package mapping

import (
	"github.com/SscSPs/shop_ledger/internal/core/domain"
	"github.com/SscSPs/shop_ledger/internal/models"
)

// ToModelParty converts a domain Party to a model Party
func ToModelParty(d domain.Party) models.Party {
	return models.Party{
		PartyID:        d.PartyID,
		ShopID:         d.ShopID,
		PartyType:      models.PartyType(d.Type),
		Name:           d.Name,
		NormalizedName: d.NormalizedName,
		Phone:          d.Phone,
		Address:        d.Address,
		TotalBilled:    d.TotalBilled,
		TotalSettled:   d.TotalSettled,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainParty converts a model Party to a domain Party
func ToDomainParty(m models.Party) domain.Party {
	return domain.Party{
		PartyID:        m.PartyID,
		ShopID:         m.ShopID,
		Type:           domain.PartyType(m.PartyType),
		Name:           m.Name,
		NormalizedName: m.NormalizedName,
		Phone:          m.Phone,
		Address:        m.Address,
		TotalBilled:    m.TotalBilled,
		TotalSettled:   m.TotalSettled,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainPartySlice converts a slice of model Parties
func ToDomainPartySlice(ms []models.Party) []domain.Party {
	ds := make([]domain.Party, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainParty(m)
	}
	return ds
}
