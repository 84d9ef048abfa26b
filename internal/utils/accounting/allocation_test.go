package accounting

import (
	"testing"

	"github.com/SscSPs/shop_ledger/internal/apperrors"
	"github.com/SscSPs/shop_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openBill(id string, total, settled string) domain.Bill {
	return domain.Bill{BillID: id, InvoiceNumber: "INV-" + id, TotalAmount: d(total), SettledAmount: d(settled)}
}

func sumOf(allocs []domain.Allocation) decimal.Decimal {
	s := decimal.Zero
	for _, a := range allocs {
		s = s.Add(a.Amount)
	}
	return s
}

func TestAllocateProportional_SplitsByPending(t *testing.T) {
	bills := []domain.Bill{openBill("a", "300", "0"), openBill("b", "700", "0")}

	allocs, err := AllocateProportional(bills, d("500"))

	require.NoError(t, err)
	require.Len(t, allocs, 2)
	assert.Equal(t, "a", allocs[0].BillID)
	assert.True(t, allocs[0].Amount.Equal(d("150")))
	assert.Equal(t, "INV-a", allocs[0].InvoiceNumber)
	assert.True(t, allocs[1].Amount.Equal(d("350")))
}

func TestAllocateProportional_LastTakesRemainder(t *testing.T) {
	bills := []domain.Bill{openBill("a", "100", "0"), openBill("b", "100", "0"), openBill("c", "100", "0")}

	allocs, err := AllocateProportional(bills, d("100"))

	require.NoError(t, err)
	require.Len(t, allocs, 3)
	// round(33.33)=33, round(33.33)=33, remainder 34
	assert.True(t, allocs[0].Amount.Equal(d("33")))
	assert.True(t, allocs[1].Amount.Equal(d("33")))
	assert.True(t, allocs[2].Amount.Equal(d("34")))
	assert.True(t, sumOf(allocs).Equal(d("100")))
}

func TestAllocateProportional_NegativeRemainderWalksBack(t *testing.T) {
	bills := []domain.Bill{openBill("a", "1", "0"), openBill("b", "1", "0"), openBill("c", "1", "0"), openBill("d", "1", "0")}

	allocs, err := AllocateProportional(bills, d("2"))

	require.NoError(t, err)
	assert.True(t, sumOf(allocs).Equal(d("2")))
	for _, a := range allocs {
		assert.True(t, a.Amount.IsPositive())
		assert.True(t, a.Amount.LessThanOrEqual(d("1")))
	}
}

func TestAllocateProportional_RemainderAbovePendingWalksBack(t *testing.T) {
	bills := []domain.Bill{openBill("a", "3", "0"), openBill("b", "3", "0"), openBill("c", "3", "0"), openBill("d", "1", "0")}

	allocs, err := AllocateProportional(bills, d("8"))

	// round(2.4)=2 three times leaves 2 for a bill with 1 pending; the extra 1 moves to c.
	require.NoError(t, err)
	require.Len(t, allocs, 4)
	assert.True(t, allocs[0].Amount.Equal(d("2")))
	assert.True(t, allocs[1].Amount.Equal(d("2")))
	assert.True(t, allocs[2].Amount.Equal(d("3")))
	assert.True(t, allocs[3].Amount.Equal(d("1")))
}

func TestAllocateProportional_SkipsClosedBillsAndUsesPending(t *testing.T) {
	bills := []domain.Bill{openBill("a", "500", "500"), openBill("b", "1000", "600"), openBill("c", "200", "0")}

	allocs, err := AllocateProportional(bills, d("300"))

	require.NoError(t, err)
	require.Len(t, allocs, 2)
	assert.Equal(t, "b", allocs[0].BillID)
	assert.True(t, allocs[0].Amount.Equal(d("200")))
	assert.True(t, allocs[1].Amount.Equal(d("100")))
}

func TestAllocateProportional_Rejects(t *testing.T) {
	bills := []domain.Bill{openBill("a", "300", "0"), openBill("b", "700", "0")}

	_, err := AllocateProportional(bills, d("1001"))
	assert.ErrorIs(t, err, apperrors.ErrOverSettlement)

	_, err = AllocateProportional(bills, decimal.Zero)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = AllocateProportional(bills, d("10.5"))
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = AllocateProportional([]domain.Bill{openBill("x", "100", "100")}, d("1"))
	assert.ErrorIs(t, err, apperrors.ErrOverSettlement)
}

func TestAllocateExplicit(t *testing.T) {
	bills := []domain.Bill{openBill("a", "300", "0"), openBill("b", "700", "100")}

	allocs, err := AllocateExplicit(bills, []domain.Allocation{
		{BillID: "b", Amount: d("600")},
		{BillID: "a", Amount: d("50")},
	}, d("650"))

	require.NoError(t, err)
	require.Len(t, allocs, 2)
	assert.Equal(t, "INV-b", allocs[0].InvoiceNumber)
	assert.True(t, allocs[0].Amount.Equal(d("600")))
}

func TestAllocateExplicit_Rejects(t *testing.T) {
	bills := []domain.Bill{openBill("a", "300", "0"), openBill("b", "700", "100")}

	tests := []struct {
		name    string
		allocs  []domain.Allocation
		total   string
		wantErr error
	}{
		{"empty", nil, "10", apperrors.ErrValidation},
		{"over pending", []domain.Allocation{{BillID: "b", Amount: d("601")}}, "601", apperrors.ErrOverSettlement},
		{"unknown bill", []domain.Allocation{{BillID: "zz", Amount: d("1")}}, "1", apperrors.ErrBillNotFound},
		{"sum mismatch", []domain.Allocation{{BillID: "a", Amount: d("100")}}, "150", apperrors.ErrValidation},
		{"duplicate", []domain.Allocation{{BillID: "a", Amount: d("1")}, {BillID: "a", Amount: d("1")}}, "2", apperrors.ErrValidation},
		{"zero", []domain.Allocation{{BillID: "a", Amount: decimal.Zero}}, "0", apperrors.ErrValidation},
		{"fractional", []domain.Allocation{{BillID: "a", Amount: d("1.5")}}, "1.5", apperrors.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := AllocateExplicit(bills, tt.allocs, d(tt.total))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
