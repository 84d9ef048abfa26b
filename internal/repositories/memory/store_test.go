package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/shop_ledger/internal/apperrors"
	"github.com/SscSPs/shop_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/shop_ledger/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var at = time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)

func seedProduct(t *testing.T, s *Store, id string, stock int64) {
	t.Helper()
	err := s.WithTransaction(context.Background(), func(tx portsrepo.LedgerTx) error {
		return tx.SaveProduct(context.Background(), domain.Product{
			ProductID: id, ShopID: "shop-1", Name: id,
			Stock: decimal.NewFromInt(stock), MinStock: decimal.NewFromInt(2),
		})
	})
	require.NoError(t, err)
}

func seedBill(t *testing.T, s *Store, id string, date time.Time, total int64) {
	t.Helper()
	err := s.WithTransaction(context.Background(), func(tx portsrepo.LedgerTx) error {
		_, err := tx.SaveBill(context.Background(), domain.Bill{
			BillID: id, ShopID: "shop-1", Kind: domain.SaleBill, InvoiceNumber: id, Date: date,
			TotalAmount: decimal.NewFromInt(total), SettledAmount: decimal.Zero,
			Items: []domain.LineItem{{ProductID: "p", Quantity: decimal.NewFromInt(1)}},
		})
		return err
	})
	require.NoError(t, err)
}

func TestWithTransaction_DiscardsFailedUnit(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedProduct(t, s, "tea", 10)
	boom := errors.New("boom")

	err := s.WithTransaction(ctx, func(tx portsrepo.LedgerTx) error {
		require.NoError(t, tx.DecrementStock(ctx, "tea", decimal.NewFromInt(4), "u", at))
		require.NoError(t, tx.SaveParty(ctx, domain.Party{PartyID: "p1", ShopID: "shop-1", Type: domain.Customer, Name: "Ravi", NormalizedName: "ravi"}))
		_, err := tx.NextNumber(ctx, "shop-1", "sale")
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	p, err := s.FindProductByID(ctx, "tea")
	require.NoError(t, err)
	assert.True(t, p.Stock.Equal(decimal.NewFromInt(10)))
	_, err = s.FindPartyByID(ctx, "p1")
	assert.ErrorIs(t, err, apperrors.ErrPartyNotFound)

	err = s.WithTransaction(ctx, func(tx portsrepo.LedgerTx) error {
		n, err := tx.NextNumber(ctx, "shop-1", "sale")
		assert.Equal(t, int64(1), n)
		return err
	})
	require.NoError(t, err)
}

func TestDecrementStock_IsConditional(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedProduct(t, s, "tea", 3)

	err := s.WithTransaction(ctx, func(tx portsrepo.LedgerTx) error {
		return tx.DecrementStock(ctx, "tea", decimal.NewFromInt(4), "u", at)
	})
	assert.ErrorIs(t, err, apperrors.ErrInsufficientStock)

	err = s.WithTransaction(ctx, func(tx portsrepo.LedgerTx) error {
		return tx.DecrementStock(ctx, "tea", decimal.NewFromInt(3), "u", at)
	})
	require.NoError(t, err)
	p, _ := s.FindProductByID(ctx, "tea")
	assert.True(t, p.Stock.IsZero())
	assert.True(t, p.IsLowStock())
}

func TestAdjustSettled_StaysWithinBounds(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedBill(t, s, "b1", at, 100)

	adjust := func(delta int64) error {
		return s.WithTransaction(ctx, func(tx portsrepo.LedgerTx) error {
			return tx.AdjustSettled(ctx, "b1", decimal.NewFromInt(delta))
		})
	}
	require.NoError(t, adjust(60))
	assert.ErrorIs(t, adjust(41), apperrors.ErrOverSettlement)
	assert.ErrorIs(t, adjust(-61), apperrors.ErrOverSettlement)
	require.NoError(t, adjust(40))

	b, err := s.FindBillByID(ctx, "b1")
	require.NoError(t, err)
	assert.True(t, b.SettledAmount.Equal(decimal.NewFromInt(100)))
	assert.False(t, b.IsOpen())
}

func TestSaveParty_RejectsSameNormalizedName(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	save := func(id, shop string) error {
		return s.WithTransaction(ctx, func(tx portsrepo.LedgerTx) error {
			return tx.SaveParty(ctx, domain.Party{PartyID: id, ShopID: shop, Type: domain.Customer, Name: "Ravi", NormalizedName: "ravi"})
		})
	}
	require.NoError(t, save("p1", "shop-1"))
	assert.ErrorIs(t, save("p2", "shop-1"), apperrors.ErrDuplicate)
	assert.NoError(t, save("p3", "shop-2"))
}

func TestListBills_PagesNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	for i := 1; i <= 5; i++ {
		seedBill(t, s, fmt.Sprintf("b%d", i), at.AddDate(0, 0, i%3), int64(i*10))
	}

	var seen []string
	var token *string
	for page := 0; page < 5; page++ {
		bills, next, err := s.ListBills(ctx, "shop-1", portsrepo.BillFilter{Limit: 2, NextToken: token})
		require.NoError(t, err)
		for _, b := range bills {
			seen = append(seen, b.BillID)
		}
		if next == nil {
			break
		}
		token = next
	}
	// b2 and b5 fall two days out, b1 and b4 one day, b3 on the day; ties go to the later insert.
	assert.Equal(t, []string{"b5", "b2", "b4", "b1", "b3"}, seen)

	bad := "%%%"
	_, _, err := s.ListBills(ctx, "shop-1", portsrepo.BillFilter{NextToken: &bad})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	other, _, err := s.ListBills(ctx, "shop-2", portsrepo.BillFilter{})
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestReadsReturnCopies(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedBill(t, s, "b1", at, 100)

	b, err := s.FindBillByID(ctx, "b1")
	require.NoError(t, err)
	b.Items[0].ProductID = "changed"

	again, err := s.FindBillByID(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, "p", again.Items[0].ProductID)
}
