package dto

// SalesSeriesParams selects the bucket size and range of the sales series.
type SalesSeriesParams struct {
	DateRangeParams
	Granularity string `form:"granularity,default=day" binding:"omitempty,oneof=day month"`
}

// ChannelFloatParams limits the float to a date range.
type ChannelFloatParams struct {
	DateRangeParams
}

// ProfitAndLossParams limits the P&L to a date range.
type ProfitAndLossParams struct {
	DateRangeParams
}

// PartyLedgerParams limits a party statement to a date range.
type PartyLedgerParams struct {
	DateRangeParams
}
