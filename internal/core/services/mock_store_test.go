package services_test

import (
	"context"

	"github.com/SscSPs/shop_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/shop_ledger/internal/core/ports/repositories"
	"github.com/stretchr/testify/mock"
)

// --- Mock LedgerStore ---
type MockLedgerStore struct {
	mock.Mock
}

// Ensure MockLedgerStore implements portsrepo.LedgerStore
var _ portsrepo.LedgerStore = (*MockLedgerStore)(nil)

func (m *MockLedgerStore) WithTransaction(ctx context.Context, fn func(tx portsrepo.LedgerTx) error) error {
	args := m.Called(ctx, fn)
	return args.Error(0)
}

func (m *MockLedgerStore) FindPartyByID(ctx context.Context, partyID string) (*domain.Party, error) {
	args := m.Called(ctx, partyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Party), args.Error(1)
}

func (m *MockLedgerStore) FindPartyByName(ctx context.Context, shopID string, partyType domain.PartyType, normalizedName string) (*domain.Party, error) {
	args := m.Called(ctx, shopID, partyType, normalizedName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Party), args.Error(1)
}

func (m *MockLedgerStore) ListParties(ctx context.Context, shopID string, filter portsrepo.PartyFilter) ([]domain.Party, error) {
	args := m.Called(ctx, shopID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Party), args.Error(1)
}

func (m *MockLedgerStore) FindProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockLedgerStore) ListProducts(ctx context.Context, shopID string, filter portsrepo.ProductFilter) ([]domain.Product, error) {
	args := m.Called(ctx, shopID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockLedgerStore) ListShopIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockLedgerStore) FindBillByID(ctx context.Context, billID string) (*domain.Bill, error) {
	args := m.Called(ctx, billID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bill), args.Error(1)
}

func (m *MockLedgerStore) ListBills(ctx context.Context, shopID string, filter portsrepo.BillFilter) ([]domain.Bill, *string, error) {
	args := m.Called(ctx, shopID, filter)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var next *string
	if args.Get(1) != nil {
		token := args.Get(1).(string)
		next = &token
	}
	return args.Get(0).([]domain.Bill), next, args.Error(2)
}

func (m *MockLedgerStore) FindSettlementByID(ctx context.Context, settlementID string) (*domain.Settlement, error) {
	args := m.Called(ctx, settlementID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Settlement), args.Error(1)
}

func (m *MockLedgerStore) ListSettlements(ctx context.Context, shopID string, filter portsrepo.SettlementFilter) ([]domain.Settlement, *string, error) {
	args := m.Called(ctx, shopID, filter)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var next *string
	if args.Get(1) != nil {
		token := args.Get(1).(string)
		next = &token
	}
	return args.Get(0).([]domain.Settlement), next, args.Error(2)
}
