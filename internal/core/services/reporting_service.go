package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/shop_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/shop_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/shop_ledger/internal/core/ports/services"
	"github.com/SscSPs/shop_ledger/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	store         portsrepo.LedgerStore
	lowStockLimit int
	recentLimit   int
}

// ReportingServiceOption is a functional option for configuring the reporting service
type ReportingServiceOption func(*reportingService)

// WithDashboardLimits caps the low-stock and recent-bill lists on the dashboard.
func WithDashboardLimits(lowStock, recent int) ReportingServiceOption {
	return func(s *reportingService) {
		if lowStock > 0 {
			s.lowStockLimit = lowStock
		}
		if recent > 0 {
			s.recentLimit = recent
		}
	}
}

// WithReportingBase applies shared service options such as the report time zone.
func WithReportingBase(opts ...ServiceOption) ReportingServiceOption {
	return func(s *reportingService) {
		for _, opt := range opts {
			opt(&s.BaseService)
		}
	}
}

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(store portsrepo.LedgerStore, options ...ReportingServiceOption) portssvc.ReportingService {
	svc := &reportingService{
		BaseService:   newBaseService(),
		store:         store,
		lowStockLimit: 10,
		recentLimit:   5,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

func (s *reportingService) Dashboard(ctx context.Context, shopID string, now time.Time) (*domain.Dashboard, error) {
	bills, _, err := s.store.ListBills(ctx, shopID, portsrepo.BillFilter{})
	if err != nil {
		s.LogError(ctx, err, "Failed to load bills for dashboard", slog.String("shop_id", shopID))
		return nil, err
	}
	settlements, _, err := s.store.ListSettlements(ctx, shopID, portsrepo.SettlementFilter{})
	if err != nil {
		s.LogError(ctx, err, "Failed to load settlements for dashboard", slog.String("shop_id", shopID))
		return nil, err
	}
	parties, err := s.store.ListParties(ctx, shopID, portsrepo.PartyFilter{})
	if err != nil {
		return nil, err
	}
	products, err := s.store.ListProducts(ctx, shopID, portsrepo.ProductFilter{})
	if err != nil {
		return nil, err
	}

	today := startOfDay(now, s.Location)
	tomorrow := today.AddDate(0, 0, 1)
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, s.Location)
	weekStart := today.AddDate(0, 0, -6)

	d := &domain.Dashboard{
		TodaySales:       decimal.Zero,
		MonthlySales:     decimal.Zero,
		TotalSales:       decimal.Zero,
		TotalPurchases:   decimal.Zero,
		TotalProfit:      decimal.Zero,
		TotalExpenses:    decimal.Zero,
		TotalReceipts:    decimal.Zero,
		TotalPayments:    decimal.Zero,
		StockValue:       decimal.Zero,
		LowStockProducts: make([]domain.Product, 0),
		RecentSales:      make([]domain.RecentBill, 0),
		RecentPurchases:  make([]domain.RecentBill, 0),
	}

	trend := make([]decimal.Decimal, 7)
	trendIdx := make(map[string]int, len(trend))
	for i := range trend {
		trend[i] = decimal.Zero
		trendIdx[weekStart.AddDate(0, 0, i).Format("2006-01-02")] = i
	}

	// The store returns bills newest first, so the first few of each kind are the recent ones.
	for _, b := range bills {
		switch b.Kind {
		case domain.SaleBill:
			d.TotalSales = d.TotalSales.Add(b.TotalAmount)
			d.TotalProfit = d.TotalProfit.Add(b.TotalProfit)
			if !b.Date.Before(today) && b.Date.Before(tomorrow) {
				d.TodaySales = d.TodaySales.Add(b.TotalAmount)
			}
			if !b.Date.Before(monthStart) && b.Date.Before(tomorrow) {
				d.MonthlySales = d.MonthlySales.Add(b.TotalAmount)
			}
			if idx, ok := trendIdx[b.Date.In(s.Location).Format("2006-01-02")]; ok {
				trend[idx] = trend[idx].Add(b.TotalAmount)
			}
			if len(d.RecentSales) < s.recentLimit {
				d.RecentSales = append(d.RecentSales, toRecentBill(b))
			}
		case domain.PurchaseBill:
			d.TotalPurchases = d.TotalPurchases.Add(b.TotalAmount)
			if len(d.RecentPurchases) < s.recentLimit {
				d.RecentPurchases = append(d.RecentPurchases, toRecentBill(b))
			}
		}
	}

	for _, st := range settlements {
		switch {
		case st.Kind == domain.Receipt:
			d.TotalReceipts = d.TotalReceipts.Add(st.Amount)
		case st.Type == domain.SettlementExpense:
			d.TotalExpenses = d.TotalExpenses.Add(st.Amount)
		default:
			d.TotalPayments = d.TotalPayments.Add(st.Amount)
		}
	}

	out := outstanding(parties)
	d.TotalReceivable = out.TotalReceivable
	d.TotalPayable = out.TotalPayable

	float := channelFloat(bills, settlements)
	d.CashBalance = float.Cash
	d.OnlineBalance = float.Online

	for _, p := range products {
		d.StockValue = d.StockValue.Add(p.Stock.Mul(accounting.PriceWithTax(p.UnitCost, p.TaxRate)))
		if p.IsLowStock() {
			d.LowStockCount++
			if len(d.LowStockProducts) < s.lowStockLimit {
				d.LowStockProducts = append(d.LowStockProducts, p)
			}
		}
	}
	d.StockValue = accounting.RoundCurrency(d.StockValue)

	d.WeeklySalesTrend = make([]domain.TrendPoint, len(trend))
	for i := range trend {
		day := weekStart.AddDate(0, 0, i)
		d.WeeklySalesTrend[i] = domain.TrendPoint{Day: day.Weekday().String()[:3], Date: day, Sales: trend[i]}
	}

	d.TotalProfit = accounting.RoundCurrency(d.TotalProfit)
	d.NetProfit = d.TotalProfit.Sub(d.TotalExpenses)
	return d, nil
}

func (s *reportingService) ProfitAndLoss(ctx context.Context, shopID string, rng domain.DateRange) (*domain.ProfitAndLoss, error) {
	bills, _, err := s.store.ListBills(ctx, shopID, portsrepo.BillFilter{Range: rng})
	if err != nil {
		s.LogError(ctx, err, "Failed to load bills for profit and loss", slog.String("shop_id", shopID))
		return nil, err
	}
	expenses, _, err := s.store.ListSettlements(ctx, shopID, portsrepo.SettlementFilter{
		Kind:  domain.Payment,
		Type:  domain.SettlementExpense,
		Range: rng,
	})
	if err != nil {
		return nil, err
	}

	r := &domain.ProfitAndLoss{
		SalesTotal: decimal.Zero, SalesSubtotal: decimal.Zero, TaxCollected: decimal.Zero,
		CostOfGoodsSold: decimal.Zero, GrossProfit: decimal.Zero, PurchasesTotal: decimal.Zero,
		TaxPaid: decimal.Zero, Expenses: decimal.Zero,
	}
	for _, b := range bills {
		if b.Kind == domain.PurchaseBill {
			r.PurchasesTotal = r.PurchasesTotal.Add(b.TotalAmount)
			r.TaxPaid = r.TaxPaid.Add(b.TaxAmount)
			continue
		}
		r.SalesTotal = r.SalesTotal.Add(b.TotalAmount)
		r.SalesSubtotal = r.SalesSubtotal.Add(b.Subtotal)
		r.TaxCollected = r.TaxCollected.Add(b.TaxAmount)
		r.GrossProfit = r.GrossProfit.Add(b.TotalProfit)
		for _, it := range b.Items {
			r.CostOfGoodsSold = r.CostOfGoodsSold.Add(it.UnitCost.Mul(it.Quantity))
		}
	}
	for _, e := range expenses {
		r.Expenses = r.Expenses.Add(e.Amount)
	}

	for _, v := range []*decimal.Decimal{&r.SalesSubtotal, &r.TaxCollected, &r.CostOfGoodsSold, &r.GrossProfit, &r.TaxPaid} {
		*v = accounting.RoundCurrency(*v)
	}
	r.NetProfit = r.GrossProfit.Sub(r.Expenses)
	return r, nil
}

func (s *reportingService) SalesSeries(ctx context.Context, shopID string, granularity portssvc.Granularity, rng domain.DateRange) ([]domain.SeriesPoint, error) {
	var layout string
	switch granularity {
	case portssvc.ByDay, "":
		layout = "2006-01-02"
	case portssvc.ByMonth:
		layout = "2006-01"
	default:
		return nil, validationError("unknown granularity %q", granularity)
	}

	bills, _, err := s.store.ListBills(ctx, shopID, portsrepo.BillFilter{Kind: domain.SaleBill, Range: rng})
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}

	buckets := make(map[string]*domain.SeriesPoint)
	for _, b := range bills {
		key := b.Date.In(s.Location).Format(layout)
		p, ok := buckets[key]
		if !ok {
			p = &domain.SeriesPoint{Period: key, TotalSales: decimal.Zero, TotalProfit: decimal.Zero}
			buckets[key] = p
		}
		p.TotalSales = p.TotalSales.Add(b.TotalAmount)
		p.TotalProfit = p.TotalProfit.Add(b.TotalProfit)
		p.Bills++
	}

	out := make([]domain.SeriesPoint, 0, len(buckets))
	for _, p := range buckets {
		p.TotalProfit = accounting.RoundCurrency(p.TotalProfit)
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out, nil
}

func toRecentBill(b domain.Bill) domain.RecentBill {
	return domain.RecentBill{
		BillID:        b.BillID,
		InvoiceNumber: b.InvoiceNumber,
		PartyName:     b.PartyName,
		TotalAmount:   b.TotalAmount,
		Date:          b.Date,
	}
}
