package dataprocessing

import (
	"fmt"
	"time"

	"github.com/KwachuQ/trading-dashboard/pkg/contracts/domain"
)

// MonthLayout is the YYYY-MM form of a calendar month
const MonthLayout = "2006-01"

// ParseMonth parses a YYYY-MM month
func ParseMonth(s string) (time.Time, error) {
	t, err := time.Parse(MonthLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q: %w", s, err)
	}
	return t, nil
}

// LatestMonth returns the month of the last trading day, or the zero time
// when there are no trades.
func LatestMonth(daily []domain.DailyPnLPoint) time.Time {
	if len(daily) == 0 {
		return time.Time{}
	}
	last, err := time.Parse(domain.DateLayout, daily[len(daily)-1].Date)
	if err != nil {
		return time.Time{}
	}
	return time.Date(last.Year(), last.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// BuildCalendar lays out one month of daily results as Sunday-first weeks.
func BuildCalendar(daily []domain.DailyPnLPoint, month time.Time) domain.CalendarMonth {
	byDate := make(map[string]domain.DailyPnLPoint, len(daily))
	for _, d := range daily {
		byDate[d.Date] = d
	}

	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()
	offset := int(first.Weekday())

	cal := domain.CalendarMonth{Month: first.Format(MonthLayout)}
	var week domain.CalendarWeek
	for day := 1; day <= daysInMonth; day++ {
		date := first.AddDate(0, 0, day-1)
		cell := &domain.CalendarDay{Day: day, Date: date.Format(domain.DateLayout)}
		if d, ok := byDate[cell.Date]; ok {
			cell.DailyPnL = d.DailyPnL
			cell.TradeCount = d.TradeCount
			cell.Traded = true
			week.PnL += d.DailyPnL
			week.Trades += d.TradeCount
		}

		slot := (offset + day - 1) % 7
		week.Days[slot] = cell
		if slot == 6 || day == daysInMonth {
			week.PnL = Round2(week.PnL)
			cal.PnL += week.PnL
			cal.Trades += week.Trades
			cal.Weeks = append(cal.Weeks, week)
			week = domain.CalendarWeek{}
		}
	}
	cal.PnL = Round2(cal.PnL)
	return cal
}
