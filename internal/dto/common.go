package dto

import (
	"fmt"
	"time"

	"github.com/SscSPs/shop_ledger/internal/apperrors"
	"github.com/SscSPs/shop_ledger/internal/core/domain"
)

// DateLayout is the query-string date format.
const DateLayout = "2006-01-02"

// DateRangeParams are the optional fromDate/toDate query parameters shared by lists and reports.
type DateRangeParams struct {
	FromDate string `form:"fromDate" binding:"omitempty,datetime=2006-01-02"`
	ToDate   string `form:"toDate" binding:"omitempty,datetime=2006-01-02"`
}

// Range converts the parameters into an inclusive range in loc. toDate covers the whole day.
func (p DateRangeParams) Range(loc *time.Location) (domain.DateRange, error) {
	var r domain.DateRange
	if loc == nil {
		loc = time.UTC
	}
	if p.FromDate != "" {
		from, err := time.ParseInLocation(DateLayout, p.FromDate, loc)
		if err != nil {
			return r, fmt.Errorf("%w: fromDate: %v", apperrors.ErrValidation, err)
		}
		r.From = &from
	}
	if p.ToDate != "" {
		to, err := time.ParseInLocation(DateLayout, p.ToDate, loc)
		if err != nil {
			return r, fmt.Errorf("%w: toDate: %v", apperrors.ErrValidation, err)
		}
		end := to.AddDate(0, 0, 1).Add(-time.Nanosecond)
		r.To = &end
	}
	if r.From != nil && r.To != nil && r.From.After(*r.To) {
		return r, fmt.Errorf("%w: fromDate is after toDate", apperrors.ErrValidation)
	}
	return r, nil
}

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}
