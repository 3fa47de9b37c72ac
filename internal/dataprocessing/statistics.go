package dataprocessing

import (
	"math"
	"math/big"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/KwachuQ/trading-dashboard/pkg/contracts/domain"
)

// DailyAggregate is one trading day of NetPnL
type DailyAggregate struct {
	Date          string
	DailyPnL      float64
	CumulativePnL float64
	TradeCount    int
	WinCount      int
}

// AggregateDaily groups trades by trading day in ascending date order and
// accumulates NetPnL across days.
func AggregateDaily(records []domain.TradeRecord) []DailyAggregate {
	byDate := make(map[string]*DailyAggregate)
	for _, r := range records {
		key := r.DateString()
		day, ok := byDate[key]
		if !ok {
			day = &DailyAggregate{Date: key}
			byDate[key] = day
		}
		day.DailyPnL += r.NetPnL
		day.TradeCount++
		if r.IsWin() {
			day.WinCount++
		}
	}

	days := make([]DailyAggregate, 0, len(byDate))
	for _, day := range byDate {
		days = append(days, *day)
	}
	sort.Slice(days, func(i, j int) bool {
		return days[i].Date < days[j].Date
	})

	var running float64
	for i := range days {
		running += days[i].DailyPnL
		days[i].CumulativePnL = running
	}
	return days
}

// ComputeStats derives every aggregate metric block. Empty partitions and zero
// denominators yield 0, never NaN or Inf.
func ComputeStats(records []domain.TradeRecord) domain.Stats {
	return domain.Stats{
		Summary:   summaryStats(records),
		Duration:  durationStats(records),
		Daily:     dailyStats(records),
		Direction: directionStats(records),
	}
}

func summaryStats(records []domain.TradeRecord) domain.SummaryStats {
	n := len(records)
	s := domain.SummaryStats{TotalTrades: n}
	if n == 0 {
		return s
	}

	var totalPnL, grossPnL, totalFees float64
	var grossProfit, grossLoss float64
	var wins, losses int
	bestTrade, worstTrade := records[0].PnL, records[0].PnL
	bestNet, worstNet := records[0].NetPnL, records[0].NetPnL

	for _, r := range records {
		totalPnL += r.NetPnL
		grossPnL += r.PnL
		totalFees += r.Fees
		if r.IsWin() {
			wins++
			grossProfit += r.PnL
		} else {
			losses++
			grossLoss += r.PnL
		}
		bestTrade = math.Max(bestTrade, r.PnL)
		worstTrade = math.Min(worstTrade, r.PnL)
		bestNet = math.Max(bestNet, r.NetPnL)
		worstNet = math.Min(worstNet, r.NetPnL)
	}

	s.TotalPnL = Round2(totalPnL)
	s.GrossPnL = Round2(grossPnL)
	s.TotalFees = Round2(totalFees)
	s.WinRate = Round2(ratio(float64(wins), float64(n)) * 100)
	s.AvgWin = Round2(ratio(grossProfit, float64(wins)))
	s.AvgLoss = Round2(ratio(grossLoss, float64(losses)))
	s.ProfitFactor = Round2(ratio(grossProfit, math.Abs(grossLoss)))
	s.ExpectedValue = Round2(grossPnL / float64(n))
	s.BestTrade = Round2(bestTrade)
	s.WorstTrade = Round2(worstTrade)
	s.BestTradeNet = Round2(bestNet)
	s.WorstTradeNet = Round2(worstNet)
	return s
}

func durationStats(records []domain.TradeRecord) domain.DurationStats {
	var all, win, loss float64
	var wins, losses int
	for _, r := range records {
		all += r.Duration
		if r.IsWin() {
			win += r.Duration
			wins++
		} else {
			loss += r.Duration
			losses++
		}
	}
	return domain.DurationStats{
		AvgDuration:     Round2(ratio(all, float64(len(records)))),
		AvgWinDuration:  Round2(ratio(win, float64(wins))),
		AvgLossDuration: Round2(ratio(loss, float64(losses))),
	}
}

func dailyStats(records []domain.TradeRecord) domain.DailyStats {
	days := AggregateDaily(records)
	if len(days) == 0 {
		return domain.DailyStats{}
	}

	var totalPnL float64
	for _, r := range records {
		totalPnL += r.NetPnL
	}

	best, worst := days[0].DailyPnL, days[0].DailyPnL
	mostActive := 0
	winningDays := 0
	for _, day := range days {
		best = math.Max(best, day.DailyPnL)
		worst = math.Min(worst, day.DailyPnL)
		if day.TradeCount > mostActive {
			mostActive = day.TradeCount
		}
		if day.DailyPnL > 0 {
			winningDays++
		}
	}

	var bestPct float64
	if totalPnL > 0 {
		bestPct = best / totalPnL * 100
	}

	return domain.DailyStats{
		DayWinRate:          Round2(float64(winningDays) / float64(len(days)) * 100),
		BestDay:             Round2(best),
		WorstDay:            Round2(worst),
		MostActiveDayTrades: mostActive,
		BestDayPctTotal:     Round2(bestPct),
	}
}

// directionStats classifies sides by substring. A value can count towards
// both buckets, e.g. "long/short".
func directionStats(records []domain.TradeRecord) domain.DirectionStats {
	var longs, shorts int
	for _, r := range records {
		side := strings.ToLower(r.Direction)
		if strings.Contains(side, "long") || strings.Contains(side, "buy") {
			longs++
		}
		if strings.Contains(side, "short") || strings.Contains(side, "sell") {
			shorts++
		}
	}
	n := float64(len(records))
	return domain.DirectionStats{
		LongPct:  Round2(ratio(float64(longs), n) * 100),
		ShortPct: Round2(ratio(float64(shorts), n) * 100),
	}
}

// ratio returns num/den, or 0 when den is 0
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// Round2 rounds to 2 decimal places, half to even on the exact binary value.
func Round2(v float64) float64 {
	return roundPlaces(v, 2)
}

// Round1 rounds to 1 decimal place, half to even on the exact binary value.
func Round1(v float64) float64 {
	return roundPlaces(v, 1)
}

func roundPlaces(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return exactDecimal(v).RoundBank(places).InexactFloat64()
}

// exactDecimal returns the exact value of v. NewFromFloat would use the
// shortest round-trip string, turning 2.67499999... into 2.675.
func exactDecimal(v float64) decimal.Decimal {
	frac, exp := math.Frexp(v)
	mant := big.NewInt(int64(frac * (1 << 53)))
	exp -= 53
	if exp >= 0 {
		return decimal.NewFromBigInt(mant.Lsh(mant, uint(exp)), 0)
	}
	// m * 2^-k == m * 5^k * 10^-k
	pow := new(big.Int).Exp(big.NewInt(5), big.NewInt(int64(-exp)), nil)
	return decimal.NewFromBigInt(mant.Mul(mant, pow), int32(exp))
}
