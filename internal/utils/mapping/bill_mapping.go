package mapping

import (
	"github.com/SscSPs/shop_ledger/internal/core/domain"
	"github.com/SscSPs/shop_ledger/internal/models"
)

// ToModelBill converts a domain Bill to its header row and line rows.
func ToModelBill(d domain.Bill) (models.Bill, []models.BillLine) {
	header := models.Bill{
		BillID:        d.BillID,
		ShopID:        d.ShopID,
		Kind:          string(d.Kind),
		PartyID:       d.PartyID,
		PartyName:     d.PartyName,
		InvoiceNumber: d.InvoiceNumber,
		BillDate:      d.Date,
		Mode:          string(d.Mode),
		Subtotal:      d.Subtotal,
		TaxAmount:     d.TaxAmount,
		TotalAmount:   d.TotalAmount,
		TotalProfit:   d.TotalProfit,
		SettledAmount: d.SettledAmount,
		Narration:     d.Narration,
		Seq:           d.Seq,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
	lines := make([]models.BillLine, len(d.Items))
	for i, it := range d.Items {
		lines[i] = models.BillLine{
			BillID:       d.BillID,
			LineNo:       it.LineNo,
			ProductID:    it.ProductID,
			ProductName:  it.ProductName,
			Quantity:     it.Quantity,
			UnitPrice:    it.UnitPrice,
			TaxRate:      it.TaxRate,
			LineSubtotal: it.LineSubtotal,
			TaxAmount:    it.TaxAmount,
			LineTotal:    it.LineTotal,
			UnitCost:     it.UnitCost,
			LineProfit:   it.LineProfit,
		}
	}
	return header, lines
}

// ToDomainBill converts a header row and its lines to a domain Bill.
func ToDomainBill(m models.Bill, lines []models.BillLine) domain.Bill {
	items := make([]domain.LineItem, len(lines))
	for i, l := range lines {
		items[i] = domain.LineItem{
			LineNo:       l.LineNo,
			ProductID:    l.ProductID,
			ProductName:  l.ProductName,
			Quantity:     l.Quantity,
			UnitPrice:    l.UnitPrice,
			TaxRate:      l.TaxRate,
			LineSubtotal: l.LineSubtotal,
			TaxAmount:    l.TaxAmount,
			LineTotal:    l.LineTotal,
			UnitCost:     l.UnitCost,
			LineProfit:   l.LineProfit,
		}
	}
	return domain.Bill{
		BillID:        m.BillID,
		ShopID:        m.ShopID,
		Kind:          domain.BillKind(m.Kind),
		PartyID:       m.PartyID,
		PartyName:     m.PartyName,
		InvoiceNumber: m.InvoiceNumber,
		Date:          m.BillDate,
		Mode:          domain.PaymentMode(m.Mode),
		Items:         items,
		Subtotal:      m.Subtotal,
		TaxAmount:     m.TaxAmount,
		TotalAmount:   m.TotalAmount,
		TotalProfit:   m.TotalProfit,
		SettledAmount: m.SettledAmount,
		Narration:     m.Narration,
		Seq:           m.Seq,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}
