package domain

// SuccessMessage is returned with every processed upload
const SuccessMessage = "File processed successfully"

// AnalysisResult is the payload produced for one uploaded journal
type AnalysisResult struct {
	Stats   Stats         `json:"stats"`
	Charts  Charts        `json:"charts"`
	Data    []TradeRecord `json:"data"`
	Message string        `json:"message"`
}

// Stats groups every aggregate metric block
type Stats struct {
	Summary   SummaryStats   `json:"summary"`
	Duration  DurationStats  `json:"duration"`
	Daily     DailyStats     `json:"daily"`
	Direction DirectionStats `json:"direction"`
}

// SummaryStats holds trade-level performance figures
type SummaryStats struct {
	TotalPnL      float64 `json:"total_pnl"`
	GrossPnL      float64 `json:"gross_pnl"`
	TotalFees     float64 `json:"total_fees"`
	WinRate       float64 `json:"win_rate"`
	TotalTrades   int     `json:"total_trades"`
	ProfitFactor  float64 `json:"profit_factor"`
	ExpectedValue float64 `json:"expected_value"`
	AvgWin        float64 `json:"avg_win"`
	AvgLoss       float64 `json:"avg_loss"`
	BestTrade     float64 `json:"best_trade"`
	WorstTrade    float64 `json:"worst_trade"`
	BestTradeNet  float64 `json:"best_trade_net"`
	WorstTradeNet float64 `json:"worst_trade_net"`
}

// DurationStats holds average holding times in seconds
type DurationStats struct {
	AvgDuration     float64 `json:"avg_duration"`
	AvgWinDuration  float64 `json:"avg_win_duration"`
	AvgLossDuration float64 `json:"avg_loss_duration"`
}

// DailyStats holds day-level performance figures
type DailyStats struct {
	DayWinRate          float64 `json:"day_win_rate"`
	BestDay             float64 `json:"best_day"`
	WorstDay            float64 `json:"worst_day"`
	MostActiveDayTrades int     `json:"most_active_day_trades"`
	BestDayPctTotal     float64 `json:"best_day_pct_total"`
}

// DirectionStats holds the long/short split as percentages of all trades
type DirectionStats struct {
	LongPct  float64 `json:"long_pct"`
	ShortPct float64 `json:"short_pct"`
}

// Charts groups the chart-ready series
type Charts struct {
	DailyPnL             []DailyPnLPoint  `json:"daily_pnl"`
	DurationScatter      []ScatterPoint   `json:"duration_scatter"`
	DurationDistribution []DurationBucket `json:"duration_distribution"`
}

// DailyPnLPoint is one trading day on the PnL curve
type DailyPnLPoint struct {
	Date          string  `json:"Date"`
	DailyPnL      float64 `json:"DailyPnL"`
	CumulativePnL float64 `json:"CumulativePnL"`
	TradeCount    int     `json:"TradeCount"`
}

// ScatterPoint pairs a holding time with its net result
type ScatterPoint struct {
	Duration float64 `json:"Duration"`
	NetPnL   float64 `json:"NetPnL"`
}

// DurationBucket is one holding-time range of the distribution chart
type DurationBucket struct {
	Range   string  `json:"range"`
	Count   int     `json:"count"`
	WinRate float64 `json:"win_rate"`
}
