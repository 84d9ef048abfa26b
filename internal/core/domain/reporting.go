package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ChannelFloat is the cash and online balance across all transactions.
type ChannelFloat struct {
	Cash   decimal.Decimal `json:"cash"`
	Online decimal.Decimal `json:"online"`
}

// OutstandingRow is one party's open balance.
type OutstandingRow struct {
	PartyID   string          `json:"partyID"`
	PartyName string          `json:"partyName"`
	Type      PartyType       `json:"type"`
	Balance   decimal.Decimal `json:"balance"`
}

// OutstandingReport aggregates receivables and payables.
type OutstandingReport struct {
	Receivables     []OutstandingRow `json:"receivables"`
	Payables        []OutstandingRow `json:"payables"`
	TotalReceivable decimal.Decimal  `json:"totalReceivable"`
	TotalPayable    decimal.Decimal  `json:"totalPayable"`
	NetOutstanding  decimal.Decimal  `json:"netOutstanding"`
}

// ProfitAndLoss summarises trading results for a period.
type ProfitAndLoss struct {
	SalesTotal      decimal.Decimal `json:"salesTotal"`
	SalesSubtotal   decimal.Decimal `json:"salesSubtotal"`
	TaxCollected    decimal.Decimal `json:"taxCollected"`
	CostOfGoodsSold decimal.Decimal `json:"costOfGoodsSold"`
	GrossProfit     decimal.Decimal `json:"grossProfit"`
	PurchasesTotal  decimal.Decimal `json:"purchasesTotal"`
	TaxPaid         decimal.Decimal `json:"taxPaid"`
	Expenses        decimal.Decimal `json:"expenses"`
	NetProfit       decimal.Decimal `json:"netProfit"`
}

// TrendPoint is one day of the weekly sales trend.
type TrendPoint struct {
	Day   string          `json:"day"`
	Date  time.Time       `json:"date"`
	Sales decimal.Decimal `json:"sales"`
}

// SeriesPoint is one period of the sales series report.
type SeriesPoint struct {
	Period      string          `json:"period"` // 2006-01-02 or 2006-01
	TotalSales  decimal.Decimal `json:"totalSales"`
	TotalProfit decimal.Decimal `json:"totalProfit"`
	Bills       int             `json:"bills"`
}

// RecentBill is a compact bill row for the dashboard.
type RecentBill struct {
	BillID        string          `json:"billID"`
	InvoiceNumber string          `json:"invoiceNumber"`
	PartyName     string          `json:"partyName"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	Date          time.Time       `json:"date"`
}

// Dashboard is the shop summary shown on the home screen.
type Dashboard struct {
	TodaySales       decimal.Decimal `json:"todaySales"`
	MonthlySales     decimal.Decimal `json:"monthlySales"`
	TotalSales       decimal.Decimal `json:"totalSales"`
	TotalPurchases   decimal.Decimal `json:"totalPurchases"`
	TotalProfit      decimal.Decimal `json:"totalProfit"`
	TotalExpenses    decimal.Decimal `json:"totalExpenses"`
	TotalReceipts    decimal.Decimal `json:"totalReceipts"`
	TotalPayments    decimal.Decimal `json:"totalPayments"`
	TotalReceivable  decimal.Decimal `json:"totalReceivable"`
	TotalPayable     decimal.Decimal `json:"totalPayable"`
	CashBalance      decimal.Decimal `json:"cashBalance"`
	OnlineBalance    decimal.Decimal `json:"onlineBalance"`
	StockValue       decimal.Decimal `json:"stockValue"`
	NetProfit        decimal.Decimal `json:"netProfit"`
	LowStockCount    int             `json:"lowStockCount"`
	LowStockProducts []Product       `json:"lowStockProducts"`
	RecentSales      []RecentBill    `json:"recentSales"`
	RecentPurchases  []RecentBill    `json:"recentPurchases"`
	WeeklySalesTrend []TrendPoint    `json:"weeklySalesTrend"`
}
