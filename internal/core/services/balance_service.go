package services

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/shop_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/shop_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/shop_ledger/internal/core/ports/services"
	"github.com/SscSPs/shop_ledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

type balanceService struct {
	BaseService
	store portsrepo.LedgerStore
}

// NewBalanceService creates the read-only balance calculator.
func NewBalanceService(store portsrepo.LedgerStore, opts ...ServiceOption) portssvc.BalanceSvc {
	return &balanceService{BaseService: applyOptions(opts), store: store}
}

var _ portssvc.BalanceSvc = (*balanceService)(nil)

func (s *balanceService) PartyLedger(ctx context.Context, shopID string, partyID string, rng domain.DateRange) (*domain.PartyLedger, error) {
	party, err := s.store.FindPartyByID(ctx, partyID)
	if err != nil {
		return nil, err
	}
	if err := s.AuthorizeShop(ctx, shopID, party.ShopID, "party", partyID); err != nil {
		return nil, err
	}

	bills, _, err := s.store.ListBills(ctx, shopID, portsrepo.BillFilter{PartyID: partyID})
	if err != nil {
		s.LogError(ctx, err, "Failed to load bills for party ledger", slog.String("party_id", partyID))
		return nil, err
	}
	settlements, _, err := s.store.ListSettlements(ctx, shopID, portsrepo.SettlementFilter{PartyID: partyID})
	if err != nil {
		s.LogError(ctx, err, "Failed to load settlements for party ledger", slog.String("party_id", partyID))
		return nil, err
	}

	entries := ledgerEntries(party.Type, bills, settlements)
	ledger := buildLedger(*party, entries, rng)
	return &ledger, nil
}

func (s *balanceService) PartyBalance(ctx context.Context, shopID string, partyID string) (decimal.Decimal, domain.BalanceSide, error) {
	party, err := s.store.FindPartyByID(ctx, partyID)
	if err != nil {
		return decimal.Zero, "", err
	}
	if err := s.AuthorizeShop(ctx, shopID, party.ShopID, "party", partyID); err != nil {
		return decimal.Zero, "", err
	}
	balance := party.Balance()
	return balance, accounting.Side(party.Type, balance), nil
}

func (s *balanceService) ChannelFloat(ctx context.Context, shopID string, rng domain.DateRange) (*domain.ChannelFloat, error) {
	bills, _, err := s.store.ListBills(ctx, shopID, portsrepo.BillFilter{Range: rng})
	if err != nil {
		return nil, err
	}
	settlements, _, err := s.store.ListSettlements(ctx, shopID, portsrepo.SettlementFilter{Range: rng, ExcludeAuto: true})
	if err != nil {
		return nil, err
	}
	f := channelFloat(bills, settlements)
	return &f, nil
}

func (s *balanceService) Outstanding(ctx context.Context, shopID string) (*domain.OutstandingReport, error) {
	parties, err := s.store.ListParties(ctx, shopID, portsrepo.PartyFilter{})
	if err != nil {
		return nil, err
	}
	r := outstanding(parties)
	return &r, nil
}

// ledgerEntries turns bills and settlements into ledger rows ordered by date, then insertion.
func ledgerEntries(partyType domain.PartyType, bills []domain.Bill, settlements []domain.Settlement) []domain.LedgerEntry {
	entries := make([]domain.LedgerEntry, 0, len(bills)+len(settlements))
	for _, b := range bills {
		effect := accounting.BillEffect(b)
		dr, cr := accounting.DebitCredit(partyType, effect)
		entries = append(entries, domain.LedgerEntry{
			Date: b.Date, Kind: string(b.Kind), RefID: b.BillID, Number: b.InvoiceNumber, Mode: b.Mode,
			Debit: dr, Credit: cr, Effect: effect, Seq: b.Seq, Narration: b.Narration,
		})
	}
	for _, st := range settlements {
		effect := accounting.SettlementEffect(st)
		dr, cr := accounting.DebitCredit(partyType, effect)
		entries = append(entries, domain.LedgerEntry{
			Date: st.Date, Kind: string(st.Kind), RefID: st.SettlementID, Number: st.VoucherNumber, Mode: st.Mode,
			Debit: dr, Credit: cr, Effect: effect, Seq: st.Seq, Narration: st.Narration,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Seq < entries[j].Seq
		}
		return entries[i].Date.Before(entries[j].Date)
	})
	return entries
}

// buildLedger accumulates entries before the range into the opening balance and entries inside
// it into the running and closing balance. Entries after the range are ignored.
func buildLedger(party domain.Party, entries []domain.LedgerEntry, rng domain.DateRange) domain.PartyLedger {
	l := domain.PartyLedger{
		Party:          party,
		OpeningBalance: decimal.Zero,
		Entries:        make([]domain.LedgerEntry, 0),
		TotalBilled:    decimal.Zero,
		TotalSettled:   decimal.Zero,
	}
	for _, e := range entries {
		if rng.Before(e.Date) {
			l.OpeningBalance = l.OpeningBalance.Add(e.Effect)
		}
	}
	running := l.OpeningBalance
	for _, e := range entries {
		if !rng.Contains(e.Date) {
			continue
		}
		running = running.Add(e.Effect)
		e.Balance = running
		if e.Effect.IsPositive() {
			l.TotalBilled = l.TotalBilled.Add(e.Effect)
		} else {
			l.TotalSettled = l.TotalSettled.Add(e.Effect.Neg())
		}
		l.Entries = append(l.Entries, e)
	}
	l.ClosingBalance = running
	l.Side = accounting.Side(party.Type, running)
	return l
}

// channelFloat sums cash and online money movement. Bills count by their own mode; auto
// settlements must already be excluded so a cash sale counts once. Cheques count in neither.
func channelFloat(bills []domain.Bill, settlements []domain.Settlement) domain.ChannelFloat {
	f := domain.ChannelFloat{Cash: decimal.Zero, Online: decimal.Zero}
	add := func(mode domain.PaymentMode, amount decimal.Decimal) {
		switch mode {
		case domain.ModeCash:
			f.Cash = f.Cash.Add(amount)
		case domain.ModeOnline:
			f.Online = f.Online.Add(amount)
		}
	}
	for _, b := range bills {
		if b.Kind == domain.SaleBill {
			add(b.Mode, b.TotalAmount)
		} else {
			add(b.Mode, b.TotalAmount.Neg())
		}
	}
	for _, st := range settlements {
		if st.Auto {
			continue
		}
		if st.Kind == domain.Receipt {
			add(st.Mode, st.Amount)
		} else {
			add(st.Mode, st.Amount.Neg())
		}
	}
	return f
}

func outstanding(parties []domain.Party) domain.OutstandingReport {
	r := domain.OutstandingReport{
		Receivables:     make([]domain.OutstandingRow, 0),
		Payables:        make([]domain.OutstandingRow, 0),
		TotalReceivable: decimal.Zero,
		TotalPayable:    decimal.Zero,
	}
	for _, p := range parties {
		balance := p.Balance()
		if !balance.IsPositive() {
			continue
		}
		row := domain.OutstandingRow{PartyID: p.PartyID, PartyName: p.Name, Type: p.Type, Balance: balance}
		if p.Type == domain.Supplier {
			r.Payables = append(r.Payables, row)
			r.TotalPayable = r.TotalPayable.Add(balance)
		} else {
			r.Receivables = append(r.Receivables, row)
			r.TotalReceivable = r.TotalReceivable.Add(balance)
		}
	}
	r.NetOutstanding = r.TotalReceivable.Sub(r.TotalPayable)
	return r
}

// startOfDay returns midnight of t's calendar day in loc.
func startOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
