package domain

// CalendarMonth is a month grid of trading results, weeks starting on Sunday.
type CalendarMonth struct {
	Month  string         `json:"month"` // YYYY-MM
	Weeks  []CalendarWeek `json:"weeks"`
	PnL    float64        `json:"pnl"`
	Trades int            `json:"trades"`
}

// CalendarWeek holds seven cells; padding cells outside the month are nil.
type CalendarWeek struct {
	Days   [7]*CalendarDay `json:"days"`
	PnL    float64         `json:"pnl"`
	Trades int             `json:"trades"`
}

// CalendarDay is one day of the month
type CalendarDay struct {
	Day        int     `json:"day"`
	Date       string  `json:"date"`
	DailyPnL   float64 `json:"daily_pnl"`
	TradeCount int     `json:"trade_count"`
	Traded     bool    `json:"traded"`
}
