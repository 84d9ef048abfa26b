package services_test

import (
	"testing"

	"github.com/SscSPs/shop_ledger/internal/apperrors"
	"github.com/SscSPs/shop_ledger/internal/core/domain"
	"github.com/SscSPs/shop_ledger/internal/dto"
	"github.com/stretchr/testify/suite"
)

type PartyServiceTestSuite struct {
	engineSuite
}

func TestPartyServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PartyServiceTestSuite))
}

func (s *PartyServiceTestSuite) TestCreateParty_NormalizesAndRejectsDuplicates() {
	p, err := s.svc.Party.CreateParty(s.ctx, shopA, dto.CreatePartyRequest{
		Type: domain.Customer, Name: "  Ravi   Kumar ", Phone: " 98450 ",
	}, userID)
	s.Require().NoError(err)
	s.Equal("Ravi Kumar", p.Name)
	s.Equal("ravi kumar", p.NormalizedName)
	s.Equal("98450", p.Phone)
	s.True(p.Balance().IsZero())

	_, err = s.svc.Party.CreateParty(s.ctx, shopA, dto.CreatePartyRequest{Type: domain.Customer, Name: "RAVI kumar"}, userID)
	s.ErrorIs(err, apperrors.ErrDuplicate)

	// Same name is fine as a supplier or in another shop.
	_, err = s.svc.Party.CreateParty(s.ctx, shopA, dto.CreatePartyRequest{Type: domain.Supplier, Name: "Ravi Kumar"}, userID)
	s.NoError(err)
	_, err = s.svc.Party.CreateParty(s.ctx, shopB, dto.CreatePartyRequest{Type: domain.Customer, Name: "Ravi Kumar"}, userID)
	s.NoError(err)
}

func (s *PartyServiceTestSuite) TestCreateParty_Validation() {
	_, err := s.svc.Party.CreateParty(s.ctx, shopA, dto.CreatePartyRequest{Type: "vendor", Name: "X"}, userID)
	s.ErrorIs(err, apperrors.ErrValidation)
	_, err = s.svc.Party.CreateParty(s.ctx, shopA, dto.CreatePartyRequest{Type: domain.Customer, Name: "   "}, userID)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *PartyServiceTestSuite) TestResolveParty() {
	first, err := s.svc.Party.ResolveParty(s.ctx, shopA, dto.CreatePartyRequest{Type: domain.Customer, Name: "Sita"}, userID)
	s.Require().NoError(err)
	again, err := s.svc.Party.ResolveParty(s.ctx, shopA, dto.CreatePartyRequest{Type: domain.Customer, Name: " sita "}, userID)
	s.Require().NoError(err)
	s.Equal(first.PartyID, again.PartyID)

	walkIn, err := s.svc.Party.ResolveParty(s.ctx, shopA, dto.CreatePartyRequest{Type: domain.Customer}, userID)
	s.Require().NoError(err)
	s.Equal(domain.WalkInCustomerName, walkIn.Name)

	_, err = s.svc.Party.ResolveParty(s.ctx, shopA, dto.CreatePartyRequest{Type: domain.Supplier}, userID)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *PartyServiceTestSuite) TestListParties() {
	s.customer("Ravi")
	s.customer("Anil")
	s.supplier("Acme Traders")

	all, err := s.svc.Party.ListParties(s.ctx, shopA, dto.ListPartiesParams{})
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal("Acme Traders", all[0].Name)

	customers, err := s.svc.Party.ListParties(s.ctx, shopA, dto.ListPartiesParams{Type: string(domain.Customer)})
	s.Require().NoError(err)
	s.Len(customers, 2)

	found, err := s.svc.Party.ListParties(s.ctx, shopA, dto.ListPartiesParams{Search: "ACME"})
	s.Require().NoError(err)
	s.Len(found, 1)

	_, err = s.svc.Party.ListParties(s.ctx, shopA, dto.ListPartiesParams{Type: "vendor"})
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *PartyServiceTestSuite) TestDeleteParty_GuardsReferencedParties() {
	tea := s.product("Tea", "60", "100", "0", "10")
	ravi := s.customer("Ravi")
	idle := s.customer("Idle")
	s.sale(ravi.PartyID, domain.ModeCredit, nil, line(tea.ProductID, "1"))

	err := s.svc.Party.DeleteParty(s.ctx, shopA, ravi.PartyID, userID)
	s.ErrorIs(err, apperrors.ErrConsistencyViolation)

	err = s.svc.Party.DeleteParty(s.ctx, shopB, idle.PartyID, userID)
	s.ErrorIs(err, apperrors.ErrForbidden)

	s.Require().NoError(s.svc.Party.DeleteParty(s.ctx, shopA, idle.PartyID, userID))
	_, err = s.svc.Party.GetPartyByID(s.ctx, shopA, idle.PartyID)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

type CatalogServiceTestSuite struct {
	engineSuite
}

func TestCatalogServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CatalogServiceTestSuite))
}

func (s *CatalogServiceTestSuite) TestCreateProduct_Validation() {
	cases := map[string]dto.CreateProductRequest{
		"blank name":    {Name: " "},
		"negative cost": {Name: "A", UnitCost: dec("-1")},
		"negative min":  {Name: "A", MinStock: dec("-1")},
		"tax above 100": {Name: "A", TaxRate: dec("101")},
		"negative tax":  {Name: "A", TaxRate: dec("-5")},
	}
	for name, req := range cases {
		s.Run(name, func() {
			_, err := s.svc.Catalog.CreateProduct(s.ctx, shopA, req, userID)
			s.ErrorIs(err, apperrors.ErrValidation)
		})
	}
}

func (s *CatalogServiceTestSuite) TestUpdateProduct_LeavesStockAndCostAlone() {
	p := s.product("Tea", "60", "100", "5", "10")
	name := "Masala Tea"
	price := dec("120")

	updated, err := s.svc.Catalog.UpdateProduct(s.ctx, shopA, p.ProductID, dto.UpdateProductRequest{
		Name: &name, SellingPrice: &price, MinStock: decPtr("12"),
	}, userID)
	s.Require().NoError(err)
	s.Equal("Masala Tea", updated.Name)

	stored, err := s.svc.Catalog.GetProductByID(s.ctx, shopA, p.ProductID)
	s.Require().NoError(err)
	s.assertDec("120", stored.SellingPrice)
	s.assertDec("60", stored.UnitCost)
	s.assertDec("10", stored.Stock)
	s.assertDec("5", stored.TaxRate)
	s.True(stored.IsLowStock())

	_, err = s.svc.Catalog.UpdateProduct(s.ctx, shopA, p.ProductID, dto.UpdateProductRequest{TaxRate: decPtr("150")}, userID)
	s.ErrorIs(err, apperrors.ErrValidation)
	_, err = s.svc.Catalog.UpdateProduct(s.ctx, shopB, p.ProductID, dto.UpdateProductRequest{Name: &name}, userID)
	s.ErrorIs(err, apperrors.ErrForbidden)
	_, err = s.svc.Catalog.UpdateProduct(s.ctx, shopA, "missing", dto.UpdateProductRequest{Name: &name}, userID)
	s.ErrorIs(err, apperrors.ErrProductNotFound)
}

func (s *CatalogServiceTestSuite) TestListProductsAndLowStock() {
	s.product("Tea", "60", "100", "0", "10")
	s.product("Soap", "20", "30", "18", "2")
	s.product("Salt", "10", "15", "0", "0")
	s.productIn(shopB, "Sugar", "40", "45", "0", "0")

	all, err := s.svc.Catalog.ListProducts(s.ctx, shopA, dto.ListProductsParams{})
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal("Salt", all[0].Name)

	low, err := s.svc.Catalog.ListLowStock(s.ctx, shopA)
	s.Require().NoError(err)
	s.Require().Len(low, 2)
	s.Equal("Salt", low[0].Name)
	s.Equal("Soap", low[1].Name)

	found, err := s.svc.Catalog.ListProducts(s.ctx, shopA, dto.ListProductsParams{Search: "so"})
	s.Require().NoError(err)
	s.Len(found, 1)
}
