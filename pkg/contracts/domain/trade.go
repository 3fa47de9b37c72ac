package domain

import (
	"encoding/json"
	"time"
)

// DateLayout is the calendar-date format used in every payload.
const DateLayout = "2006-01-02"

// Canonical field names
const (
	FieldDate      = "Date"
	FieldSymbol    = "Symbol"
	FieldPnL       = "PnL"
	FieldFees      = "Fees"
	FieldNetPnL    = "NetPnL"
	FieldDuration  = "Duration"
	FieldDirection = "Direction"
)

// UnknownDirection is used when no direction column was found
const UnknownDirection = "Unknown"

// TradeRecord is the canonical form of one row of a trading-platform export.
type TradeRecord struct {
	Date      time.Time
	Symbol    string
	HasSymbol bool
	PnL       float64
	Fees      float64
	NetPnL    float64
	Duration  float64 // seconds
	Direction string

	// Extra carries the unmatched raw columns in header order.
	Extra []ExtraField
}

// ExtraField is a raw column preserved through normalization.
// Value is a float64, a string or nil.
type ExtraField struct {
	Name  string
	Value interface{}
}

// IsWin reports whether the trade made money before fees.
func (t TradeRecord) IsWin() bool {
	return t.PnL > 0
}

// DateString returns the trading day as YYYY-MM-DD
func (t TradeRecord) DateString() string {
	return t.Date.Format(DateLayout)
}

// MarshalJSON flattens the canonical fields and the preserved raw columns
// into a single object. Canonical fields win over raw columns of the same name.
func (t TradeRecord) MarshalJSON() ([]byte, error) {
	obj := make(map[string]interface{}, len(t.Extra)+7)
	for _, f := range t.Extra {
		obj[f.Name] = f.Value
	}
	obj[FieldDate] = t.DateString()
	if t.HasSymbol {
		obj[FieldSymbol] = t.Symbol
	}
	obj[FieldPnL] = t.PnL
	obj[FieldFees] = t.Fees
	obj[FieldNetPnL] = t.NetPnL
	obj[FieldDuration] = t.Duration
	obj[FieldDirection] = t.Direction
	return json.Marshal(obj)
}
