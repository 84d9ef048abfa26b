package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/shop_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/shop_ledger/internal/core/ports/services"
	"github.com/SscSPs/shop_ledger/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) GetBillByID(ctx context.Context, shopID string, kind domain.BillKind, billID string) (*domain.Bill, error) {
	args := m.Called(ctx, shopID, kind, billID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bill), args.Error(1)
}
func (m *MockLedgerService) ListBills(ctx context.Context, shopID string, kind domain.BillKind, params dto.ListBillsParams) (*dto.ListBillsResponse, error) {
	args := m.Called(ctx, shopID, kind, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListBillsResponse), args.Error(1)
}
func (m *MockLedgerService) PostSale(ctx context.Context, shopID string, req dto.BillRequest, userID string) (*domain.Bill, error) {
	args := m.Called(ctx, shopID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bill), args.Error(1)
}
func (m *MockLedgerService) PostPurchase(ctx context.Context, shopID string, req dto.BillRequest, userID string) (*domain.Bill, error) {
	args := m.Called(ctx, shopID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bill), args.Error(1)
}
func (m *MockLedgerService) UpdateBill(ctx context.Context, shopID string, kind domain.BillKind, billID string, req dto.UpdateBillRequest, userID string) (*domain.Bill, error) {
	args := m.Called(ctx, shopID, kind, billID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bill), args.Error(1)
}
func (m *MockLedgerService) DeleteBill(ctx context.Context, shopID string, kind domain.BillKind, billID string, cascade bool, userID string) error {
	args := m.Called(ctx, shopID, kind, billID, cascade, userID)
	return args.Error(0)
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

// --- Mock SettlementService ---
type MockSettlementService struct {
	mock.Mock
}

func (m *MockSettlementService) GetSettlementByID(ctx context.Context, shopID string, kind domain.SettlementKind, settlementID string) (*domain.Settlement, error) {
	args := m.Called(ctx, shopID, kind, settlementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Settlement), args.Error(1)
}
func (m *MockSettlementService) ListSettlements(ctx context.Context, shopID string, kind domain.SettlementKind, params dto.ListSettlementsParams) (*dto.ListSettlementsResponse, error) {
	args := m.Called(ctx, shopID, kind, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListSettlementsResponse), args.Error(1)
}
func (m *MockSettlementService) ListOpenBills(ctx context.Context, shopID string, partyID string) ([]domain.Bill, error) {
	args := m.Called(ctx, shopID, partyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Bill), args.Error(1)
}
func (m *MockSettlementService) PlanAllocation(ctx context.Context, shopID string, req dto.PlanAllocationRequest) ([]domain.Allocation, error) {
	args := m.Called(ctx, shopID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Allocation), args.Error(1)
}
func (m *MockSettlementService) PostSettlement(ctx context.Context, shopID string, kind domain.SettlementKind, req dto.SettlementRequest, userID string) (*domain.Settlement, error) {
	args := m.Called(ctx, shopID, kind, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Settlement), args.Error(1)
}
func (m *MockSettlementService) UpdateSettlement(ctx context.Context, shopID string, kind domain.SettlementKind, settlementID string, req dto.SettlementRequest, userID string) (*domain.Settlement, error) {
	args := m.Called(ctx, shopID, kind, settlementID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Settlement), args.Error(1)
}
func (m *MockSettlementService) DeleteSettlement(ctx context.Context, shopID string, kind domain.SettlementKind, settlementID string, userID string) error {
	args := m.Called(ctx, shopID, kind, settlementID, userID)
	return args.Error(0)
}

var _ portssvc.SettlementSvcFacade = (*MockSettlementService)(nil)

// --- Mock PartyService ---
type MockPartyService struct {
	mock.Mock
}

func (m *MockPartyService) GetPartyByID(ctx context.Context, shopID string, partyID string) (*domain.Party, error) {
	args := m.Called(ctx, shopID, partyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Party), args.Error(1)
}
func (m *MockPartyService) ListParties(ctx context.Context, shopID string, params dto.ListPartiesParams) ([]domain.Party, error) {
	args := m.Called(ctx, shopID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Party), args.Error(1)
}
func (m *MockPartyService) CreateParty(ctx context.Context, shopID string, req dto.CreatePartyRequest, userID string) (*domain.Party, error) {
	args := m.Called(ctx, shopID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Party), args.Error(1)
}
func (m *MockPartyService) ResolveParty(ctx context.Context, shopID string, req dto.CreatePartyRequest, userID string) (*domain.Party, error) {
	args := m.Called(ctx, shopID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Party), args.Error(1)
}
func (m *MockPartyService) DeleteParty(ctx context.Context, shopID string, partyID string, userID string) error {
	args := m.Called(ctx, shopID, partyID, userID)
	return args.Error(0)
}

var _ portssvc.PartySvcFacade = (*MockPartyService)(nil)

// --- Mock BalanceService ---
type MockBalanceService struct {
	mock.Mock
}

func (m *MockBalanceService) PartyLedger(ctx context.Context, shopID string, partyID string, rng domain.DateRange) (*domain.PartyLedger, error) {
	args := m.Called(ctx, shopID, partyID, rng)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PartyLedger), args.Error(1)
}
func (m *MockBalanceService) PartyBalance(ctx context.Context, shopID string, partyID string) (decimal.Decimal, domain.BalanceSide, error) {
	args := m.Called(ctx, shopID, partyID)
	return args.Get(0).(decimal.Decimal), args.Get(1).(domain.BalanceSide), args.Error(2)
}
func (m *MockBalanceService) ChannelFloat(ctx context.Context, shopID string, rng domain.DateRange) (*domain.ChannelFloat, error) {
	args := m.Called(ctx, shopID, rng)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChannelFloat), args.Error(1)
}
func (m *MockBalanceService) Outstanding(ctx context.Context, shopID string) (*domain.OutstandingReport, error) {
	args := m.Called(ctx, shopID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OutstandingReport), args.Error(1)
}

var _ portssvc.BalanceSvc = (*MockBalanceService)(nil)

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

func (m *MockReportingService) Dashboard(ctx context.Context, shopID string, now time.Time) (*domain.Dashboard, error) {
	args := m.Called(ctx, shopID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dashboard), args.Error(1)
}
func (m *MockReportingService) ProfitAndLoss(ctx context.Context, shopID string, rng domain.DateRange) (*domain.ProfitAndLoss, error) {
	args := m.Called(ctx, shopID, rng)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProfitAndLoss), args.Error(1)
}
func (m *MockReportingService) SalesSeries(ctx context.Context, shopID string, granularity portssvc.Granularity, rng domain.DateRange) ([]domain.SeriesPoint, error) {
	args := m.Called(ctx, shopID, granularity, rng)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SeriesPoint), args.Error(1)
}

var _ portssvc.ReportingService = (*MockReportingService)(nil)

// --- Mock CatalogService ---
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) CreateProduct(ctx context.Context, shopID string, req dto.CreateProductRequest, userID string) (*domain.Product, error) {
	args := m.Called(ctx, shopID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}
func (m *MockCatalogService) UpdateProduct(ctx context.Context, shopID string, productID string, req dto.UpdateProductRequest, userID string) (*domain.Product, error) {
	args := m.Called(ctx, shopID, productID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}
func (m *MockCatalogService) GetProductByID(ctx context.Context, shopID string, productID string) (*domain.Product, error) {
	args := m.Called(ctx, shopID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}
func (m *MockCatalogService) ListProducts(ctx context.Context, shopID string, params dto.ListProductsParams) ([]domain.Product, error) {
	args := m.Called(ctx, shopID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}
func (m *MockCatalogService) ListLowStock(ctx context.Context, shopID string) ([]domain.Product, error) {
	args := m.Called(ctx, shopID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

var _ portssvc.CatalogSvcFacade = (*MockCatalogService)(nil)
