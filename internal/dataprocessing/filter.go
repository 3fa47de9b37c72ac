package dataprocessing

import (
	"errors"
	"time"

	"github.com/KwachuQ/trading-dashboard/pkg/contracts/domain"
)

// ErrInvalidDateRange is returned when From is after To
var ErrInvalidDateRange = errors.New("date range start is after its end")

// DateRange is an inclusive range of trading days. Zero bounds are open.
type DateRange struct {
	From time.Time
	To   time.Time
}

// ParseDateRange parses YYYY-MM-DD bounds; empty strings leave a bound open.
func ParseDateRange(from, to string) (DateRange, error) {
	var r DateRange
	var err error
	if from != "" {
		if r.From, err = time.Parse(domain.DateLayout, from); err != nil {
			return DateRange{}, err
		}
	}
	if to != "" {
		if r.To, err = time.Parse(domain.DateLayout, to); err != nil {
			return DateRange{}, err
		}
	}
	if err := r.Validate(); err != nil {
		return DateRange{}, err
	}
	return r, nil
}

// IsZero reports whether both bounds are open
func (r DateRange) IsZero() bool {
	return r.From.IsZero() && r.To.IsZero()
}

// Validate checks the bounds are ordered
func (r DateRange) Validate() error {
	if !r.From.IsZero() && !r.To.IsZero() && r.From.After(r.To) {
		return ErrInvalidDateRange
	}
	return nil
}

// Contains reports whether the day falls inside the range
func (r DateRange) Contains(day time.Time) bool {
	if !r.From.IsZero() && day.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && day.After(r.To) {
		return false
	}
	return true
}

// FilterByDate keeps the records whose trading day is in the range.
func FilterByDate(records []domain.TradeRecord, r DateRange) []domain.TradeRecord {
	if r.IsZero() {
		return records
	}
	out := make([]domain.TradeRecord, 0, len(records))
	for _, rec := range records {
		if r.Contains(rec.Date) {
			out = append(out, rec)
		}
	}
	return out
}
