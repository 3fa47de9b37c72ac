package dataprocessing

import (
	"math"

	"github.com/KwachuQ/trading-dashboard/pkg/contracts/domain"
)

// maxScatterDuration excludes trades held a day or longer from the scatter
const maxScatterDuration = 86400

type durationRange struct {
	min, max float64
	label    string
}

// DurationBuckets are contiguous half-open ranges [min, max) in seconds.
var DurationBuckets = []durationRange{
	{0, 15, "Under 15 sec"},
	{15, 45, "15-45 sec"},
	{45, 60, "45 sec - 1 min"},
	{60, 120, "1 min - 2 min"},
	{120, 300, "2 min - 5 min"},
	{300, 600, "5 min - 10 min"},
	{600, 1800, "10 min - 30 min"},
	{1800, 3600, "30 min - 1 hour"},
	{3600, 7200, "1 hour - 2 hours"},
	{7200, 14400, "2 hours - 4 hours"},
	{14400, math.Inf(1), "4 hours and up"},
}

// BuildCharts derives the chart series from coerced records.
func BuildCharts(records []domain.TradeRecord) domain.Charts {
	return domain.Charts{
		DailyPnL:             dailyPnLSeries(records),
		DurationScatter:      durationScatter(records),
		DurationDistribution: durationDistribution(records),
	}
}

func dailyPnLSeries(records []domain.TradeRecord) []domain.DailyPnLPoint {
	days := AggregateDaily(records)
	points := make([]domain.DailyPnLPoint, len(days))
	for i, day := range days {
		points[i] = domain.DailyPnLPoint{
			Date:          day.Date,
			DailyPnL:      day.DailyPnL,
			CumulativePnL: day.CumulativePnL,
			TradeCount:    day.TradeCount,
		}
	}
	return points
}

func durationScatter(records []domain.TradeRecord) []domain.ScatterPoint {
	points := make([]domain.ScatterPoint, 0, len(records))
	for _, r := range records {
		if r.Duration > 0 && r.Duration < maxScatterDuration {
			points = append(points, domain.ScatterPoint{Duration: r.Duration, NetPnL: r.NetPnL})
		}
	}
	return points
}

// durationDistribution counts trades per bucket; win rate uses NetPnL.
func durationDistribution(records []domain.TradeRecord) []domain.DurationBucket {
	counts := make([]int, len(DurationBuckets))
	wins := make([]int, len(DurationBuckets))
	for _, r := range records {
		idx := bucketIndex(r.Duration)
		if idx < 0 {
			continue
		}
		counts[idx]++
		if r.NetPnL > 0 {
			wins[idx]++
		}
	}

	buckets := make([]domain.DurationBucket, len(DurationBuckets))
	for i, b := range DurationBuckets {
		buckets[i] = domain.DurationBucket{
			Range:   b.label,
			Count:   counts[i],
			WinRate: Round1(ratio(float64(wins[i]), float64(counts[i])) * 100),
		}
	}
	return buckets
}

func bucketIndex(seconds float64) int {
	for i, b := range DurationBuckets {
		if seconds >= b.min && seconds < b.max {
			return i
		}
	}
	return -1
}
