package services_test

import (
	"testing"

	"github.com/SscSPs/shop_ledger/internal/apperrors"
	"github.com/SscSPs/shop_ledger/internal/core/domain"
	"github.com/SscSPs/shop_ledger/internal/dto"
	"github.com/stretchr/testify/suite"
)

type BalanceServiceTestSuite struct {
	engineSuite
	tea *domain.Product
}

func TestBalanceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(BalanceServiceTestSuite))
}

func (s *BalanceServiceTestSuite) SetupTest() {
	s.engineSuite.SetupTest()
	s.tea = s.product("Tea", "60", "100", "0", "100")
}

func (s *BalanceServiceTestSuite) TestPartyBalance_CustomerIsDr() {
	ravi := s.customer("Ravi")
	bill := s.sale(ravi.PartyID, domain.ModeCredit, nil, line(s.tea.ProductID, "10"))
	s.receipt(dto.SettlementRequest{
		PartyID: ravi.PartyID, Mode: domain.ModeCash, Type: domain.SettlementBill, Amount: dec("400"),
		Allocations: []dto.AllocationRequest{{BillID: bill.BillID, Amount: dec("400")}},
	})

	balance, side, err := s.svc.Balance.PartyBalance(s.ctx, shopA, ravi.PartyID)
	s.Require().NoError(err)
	s.assertDec("600", balance)
	s.Equal(domain.SideDr, side)
}

func (s *BalanceServiceTestSuite) TestPartyBalance_SupplierIsCr() {
	acme := s.supplier("Acme")
	bill := s.purchase(acme.PartyID, domain.ModeCredit, nil, pricedLine(s.tea.ProductID, "10", "100", "0"))
	s.payment(dto.SettlementRequest{
		PartyID: acme.PartyID, Mode: domain.ModeOnline, Type: domain.SettlementBill, Amount: dec("400"),
		BillIDs: []string{bill.BillID},
	})

	balance, side, err := s.svc.Balance.PartyBalance(s.ctx, shopA, acme.PartyID)
	s.Require().NoError(err)
	s.assertDec("600", balance)
	s.Equal(domain.SideCr, side)

	ledger, err := s.svc.Balance.PartyLedger(s.ctx, shopA, acme.PartyID, domain.DateRange{})
	s.Require().NoError(err)
	s.Require().Len(ledger.Entries, 2)
	s.assertDec("1000", ledger.Entries[0].Credit, "purchases credit the supplier")
	s.assertDec("0", ledger.Entries[0].Debit)
	s.assertDec("400", ledger.Entries[1].Debit, "payments debit the supplier")
	s.Equal(string(domain.Payment), ledger.Entries[1].Kind)
	s.assertDec("600", ledger.ClosingBalance)
	s.Equal(domain.SideCr, ledger.Side)
}

func (s *BalanceServiceTestSuite) TestPartyLedger_OpeningPlusMovementIsClosing() {
	ravi := s.customer("Ravi")
	first := s.sale(ravi.PartyID, domain.ModeCredit, day(3, 1), line(s.tea.ProductID, "10"))
	s.receipt(dto.SettlementRequest{
		PartyID: ravi.PartyID, Mode: domain.ModeCash, Type: domain.SettlementBill, Amount: dec("400"), Date: day(3, 5),
		Allocations: []dto.AllocationRequest{{BillID: first.BillID, Amount: dec("400")}},
	})
	s.sale(ravi.PartyID, domain.ModeCredit, day(3, 10), line(s.tea.ProductID, "2"))
	s.receipt(dto.SettlementRequest{
		PartyID: ravi.PartyID, Mode: domain.ModeCash, Type: domain.SettlementAdvance, Amount: dec("100"), Date: day(3, 20),
	})

	rng, err := dto.DateRangeParams{FromDate: "2025-03-03", ToDate: "2025-03-12"}.Range(nil)
	s.Require().NoError(err)
	ledger, err := s.svc.Balance.PartyLedger(s.ctx, shopA, ravi.PartyID, rng)
	s.Require().NoError(err)

	s.assertDec("1000", ledger.OpeningBalance)
	s.Require().Len(ledger.Entries, 2)
	s.Equal(string(domain.Receipt), ledger.Entries[0].Kind)
	s.assertDec("400", ledger.Entries[0].Credit)
	s.assertDec("600", ledger.Entries[0].Balance)
	s.Equal(string(domain.SaleBill), ledger.Entries[1].Kind)
	s.assertDec("200", ledger.Entries[1].Debit)
	s.assertDec("800", ledger.Entries[1].Balance)
	s.assertDec("200", ledger.TotalBilled)
	s.assertDec("400", ledger.TotalSettled)
	s.assertDec("800", ledger.ClosingBalance)
	s.True(ledger.OpeningBalance.Add(ledger.TotalBilled).Sub(ledger.TotalSettled).Equal(ledger.ClosingBalance))

	full, err := s.svc.Balance.PartyLedger(s.ctx, shopA, ravi.PartyID, domain.DateRange{})
	s.Require().NoError(err)
	s.assertDec("0", full.OpeningBalance)
	s.assertDec("700", full.ClosingBalance)
	balance, _, err := s.svc.Balance.PartyBalance(s.ctx, shopA, ravi.PartyID)
	s.Require().NoError(err)
	s.True(balance.Equal(full.ClosingBalance), "unfiltered ledger closes at the stored balance")
}

func (s *BalanceServiceTestSuite) TestPartyLedger_SameDayUsesInsertionOrder() {
	ravi := s.customer("Ravi")
	bill := s.sale(ravi.PartyID, domain.ModeCredit, day(3, 1), line(s.tea.ProductID, "1"))
	s.receipt(dto.SettlementRequest{
		PartyID: ravi.PartyID, Mode: domain.ModeCash, Type: domain.SettlementBill, Amount: dec("100"), Date: day(3, 1),
		Allocations: []dto.AllocationRequest{{BillID: bill.BillID, Amount: dec("100")}},
	})

	ledger, err := s.svc.Balance.PartyLedger(s.ctx, shopA, ravi.PartyID, domain.DateRange{})
	s.Require().NoError(err)
	s.Require().Len(ledger.Entries, 2)
	s.assertDec("100", ledger.Entries[0].Balance)
	s.assertDec("0", ledger.Entries[1].Balance)
}

func (s *BalanceServiceTestSuite) TestChannelFloat() {
	ravi := s.customer("Ravi")
	acme := s.supplier("Acme")
	s.sale(ravi.PartyID, domain.ModeCash, day(3, 1), line(s.tea.ProductID, "5"))
	s.purchase(acme.PartyID, domain.ModeOnline, day(3, 2), pricedLine(s.tea.ProductID, "2", "100", "0"))
	credit := s.sale(ravi.PartyID, domain.ModeCredit, day(3, 3), line(s.tea.ProductID, "3"))
	s.receipt(dto.SettlementRequest{
		PartyID: ravi.PartyID, Mode: domain.ModeCheque, Type: domain.SettlementBill, Amount: dec("200"), Date: day(3, 4),
		BillIDs: []string{credit.BillID},
	})
	s.receipt(dto.SettlementRequest{
		PartyID: ravi.PartyID, Mode: domain.ModeCash, Type: domain.SettlementBill, Amount: dec("100"), Date: day(3, 5),
		BillIDs: []string{credit.BillID},
	})
	s.payment(dto.SettlementRequest{Mode: domain.ModeCash, Type: domain.SettlementExpense, Amount: dec("50"), Date: day(3, 6)})

	float, err := s.svc.Balance.ChannelFloat(s.ctx, shopA, domain.DateRange{})
	s.Require().NoError(err)
	s.assertDec("550", float.Cash)
	s.assertDec("-200", float.Online)

	rng, err := dto.DateRangeParams{FromDate: "2025-03-04"}.Range(nil)
	s.Require().NoError(err)
	later, err := s.svc.Balance.ChannelFloat(s.ctx, shopA, rng)
	s.Require().NoError(err)
	s.assertDec("50", later.Cash)
	s.assertDec("0", later.Online)
}

func (s *BalanceServiceTestSuite) TestOutstanding() {
	ravi := s.customer("Ravi")
	sita := s.customer("Sita")
	acme := s.supplier("Acme")
	s.sale(ravi.PartyID, domain.ModeCredit, nil, line(s.tea.ProductID, "6"))
	s.sale(sita.PartyID, domain.ModeCash, nil, line(s.tea.ProductID, "2"))
	s.purchase(acme.PartyID, domain.ModeCredit, nil, pricedLine(s.tea.ProductID, "10", "50", "0"))

	report, err := s.svc.Balance.Outstanding(s.ctx, shopA)
	s.Require().NoError(err)

	s.Require().Len(report.Receivables, 1)
	s.Equal(ravi.PartyID, report.Receivables[0].PartyID)
	s.Require().Len(report.Payables, 1)
	s.Equal(acme.PartyID, report.Payables[0].PartyID)
	s.assertDec("600", report.TotalReceivable)
	s.assertDec("500", report.TotalPayable)
	s.assertDec("100", report.NetOutstanding)
}

func (s *BalanceServiceTestSuite) TestCrossShopLedgerIsRejected() {
	ravi := s.customer("Ravi")

	_, err := s.svc.Balance.PartyLedger(s.ctx, shopB, ravi.PartyID, domain.DateRange{})
	s.ErrorIs(err, apperrors.ErrUnauthorizedModification)
	_, _, err = s.svc.Balance.PartyBalance(s.ctx, shopB, ravi.PartyID)
	s.ErrorIs(err, apperrors.ErrUnauthorizedModification)
	_, _, err = s.svc.Balance.PartyBalance(s.ctx, shopA, "nope")
	s.ErrorIs(err, apperrors.ErrPartyNotFound)
}
