package services_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/SscSPs/shop_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/shop_ledger/internal/core/ports/services"
	"github.com/SscSPs/shop_ledger/internal/core/services"
	"github.com/SscSPs/shop_ledger/internal/dto"
	"github.com/SscSPs/shop_ledger/internal/platform/config"
	"github.com/SscSPs/shop_ledger/internal/repositories/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

const (
	shopA  = "shop-a"
	shopB  = "shop-b"
	userID = "user-1"
)

// engineSuite wires every service to one in-memory store with a fixed clock and
// predictable ids. Concrete suites embed it.
type engineSuite struct {
	suite.Suite
	ctx   context.Context
	store *memory.Store
	svc   *portssvc.ServiceContainer
	now   time.Time
	ids   atomic.Int64
}

func (s *engineSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.NewStore()
	s.now = time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)
	s.ids.Store(0)

	cfg := &config.Config{ReportLocation: time.UTC, LowStockLimit: 10, RecentLimit: 5}
	s.svc = services.NewServiceContainer(cfg, s.store,
		services.WithClock(func() time.Time { return s.now }),
		services.WithIDGenerator(func() string { return fmt.Sprintf("id-%04d", s.ids.Add(1)) }),
	)
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func decPtr(v string) *decimal.Decimal {
	d := dec(v)
	return &d
}

func modePtr(m domain.PaymentMode) *domain.PaymentMode {
	return &m
}

func strPtr(v string) *string {
	return &v
}

func day(month time.Month, d int) *time.Time {
	t := time.Date(2025, month, d, 12, 0, 0, 0, time.UTC)
	return &t
}

// assertDec compares decimals by value so 1180 and 1180.00 are equal.
func (s *engineSuite) assertDec(expected string, actual decimal.Decimal, msgAndArgs ...any) {
	s.T().Helper()
	if !dec(expected).Equal(actual) {
		s.Failf("decimal mismatch", "expected %s, got %s %v", expected, actual.String(), msgAndArgs)
	}
}

func (s *engineSuite) productIn(shopID, name, cost, price, tax, stock string) *domain.Product {
	s.T().Helper()
	p, err := s.svc.Catalog.CreateProduct(s.ctx, shopID, dto.CreateProductRequest{
		Name:         name,
		Unit:         "pcs",
		UnitCost:     dec(cost),
		SellingPrice: dec(price),
		TaxRate:      dec(tax),
		Stock:        dec(stock),
		MinStock:     dec("2"),
	}, userID)
	s.Require().NoError(err)
	return p
}

func (s *engineSuite) product(name, cost, price, tax, stock string) *domain.Product {
	return s.productIn(shopA, name, cost, price, tax, stock)
}

func (s *engineSuite) customer(name string) *domain.Party {
	s.T().Helper()
	p, err := s.svc.Party.CreateParty(s.ctx, shopA, dto.CreatePartyRequest{Type: domain.Customer, Name: name}, userID)
	s.Require().NoError(err)
	return p
}

func (s *engineSuite) supplier(name string) *domain.Party {
	s.T().Helper()
	p, err := s.svc.Party.CreateParty(s.ctx, shopA, dto.CreatePartyRequest{Type: domain.Supplier, Name: name}, userID)
	s.Require().NoError(err)
	return p
}

// line uses the product's selling price and tax rate.
func line(productID, qty string) dto.BillItemRequest {
	return dto.BillItemRequest{ProductID: productID, Quantity: dec(qty)}
}

func pricedLine(productID, qty, price, tax string) dto.BillItemRequest {
	return dto.BillItemRequest{ProductID: productID, Quantity: dec(qty), UnitPrice: decPtr(price), TaxRate: decPtr(tax)}
}

func (s *engineSuite) sale(partyID string, mode domain.PaymentMode, date *time.Time, items ...dto.BillItemRequest) *domain.Bill {
	s.T().Helper()
	b, err := s.svc.Ledger.PostSale(s.ctx, shopA, dto.BillRequest{PartyID: partyID, Mode: mode, Date: date, Items: items}, userID)
	s.Require().NoError(err)
	return b
}

func (s *engineSuite) purchase(partyID string, mode domain.PaymentMode, date *time.Time, items ...dto.BillItemRequest) *domain.Bill {
	s.T().Helper()
	b, err := s.svc.Ledger.PostPurchase(s.ctx, shopA, dto.BillRequest{PartyID: partyID, Mode: mode, Date: date, Items: items}, userID)
	s.Require().NoError(err)
	return b
}

func (s *engineSuite) receipt(req dto.SettlementRequest) *domain.Settlement {
	s.T().Helper()
	st, err := s.svc.Settlement.PostSettlement(s.ctx, shopA, domain.Receipt, req, userID)
	s.Require().NoError(err)
	return st
}

func (s *engineSuite) payment(req dto.SettlementRequest) *domain.Settlement {
	s.T().Helper()
	st, err := s.svc.Settlement.PostSettlement(s.ctx, shopA, domain.Payment, req, userID)
	s.Require().NoError(err)
	return st
}

func (s *engineSuite) stockOf(productID string) decimal.Decimal {
	s.T().Helper()
	p, err := s.store.FindProductByID(s.ctx, productID)
	s.Require().NoError(err)
	return p.Stock
}

func (s *engineSuite) reloadBill(billID string) *domain.Bill {
	s.T().Helper()
	b, err := s.store.FindBillByID(s.ctx, billID)
	s.Require().NoError(err)
	return b
}

func (s *engineSuite) reloadParty(partyID string) *domain.Party {
	s.T().Helper()
	p, err := s.store.FindPartyByID(s.ctx, partyID)
	s.Require().NoError(err)
	return p
}

func (s *engineSuite) settlements(kind domain.SettlementKind) []domain.Settlement {
	s.T().Helper()
	res, err := s.svc.Settlement.ListSettlements(s.ctx, shopA, kind, dto.ListSettlementsParams{Limit: 100})
	s.Require().NoError(err)
	return res.Settlements
}
