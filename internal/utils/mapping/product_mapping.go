package mapping

import (
	"github.com/SscSPs/shop_ledger/internal/core/domain"
	"github.com/SscSPs/shop_ledger/internal/models"
)

// ToModelProduct converts a domain Product to a model Product
func ToModelProduct(d domain.Product) models.Product {
	return models.Product{
		ProductID:    d.ProductID,
		ShopID:       d.ShopID,
		Name:         d.Name,
		Category:     d.Category,
		Unit:         d.Unit,
		UnitCost:     d.UnitCost,
		SellingPrice: d.SellingPrice,
		TaxRate:      d.TaxRate,
		Stock:        d.Stock,
		MinStock:     d.MinStock,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainProduct converts a model Product to a domain Product
func ToDomainProduct(m models.Product) domain.Product {
	return domain.Product{
		ProductID:    m.ProductID,
		ShopID:       m.ShopID,
		Name:         m.Name,
		Category:     m.Category,
		Unit:         m.Unit,
		UnitCost:     m.UnitCost,
		SellingPrice: m.SellingPrice,
		TaxRate:      m.TaxRate,
		Stock:        m.Stock,
		MinStock:     m.MinStock,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainProductSlice converts a slice of model Products
func ToDomainProductSlice(ms []models.Product) []domain.Product {
	ds := make([]domain.Product, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainProduct(m)
	}
	return ds
}
