package dataprocessing

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/KwachuQ/trading-dashboard/pkg/contracts/domain"
)

// CoercionReport counts the lossy fallbacks applied while building records.
type CoercionReport struct {
	RowsRead      int
	RowsRetained  int
	DroppedDates  int
	DefaultedPnL  int
	DefaultedFees int
}

// Coerce builds canonical trade records from a validated table. Rows whose
// date did not parse are dropped; PnL and fee cells that are not numbers
// become 0.
func Coerce(n *NormalizedTable, dates []time.Time, dateOK []bool, durations []float64) ([]domain.TradeRecord, CoercionReport) {
	report := CoercionReport{RowsRead: len(n.Rows)}

	pnl := n.Column(domain.FieldPnL)
	fees := n.Column(domain.FieldFees)
	symbols := n.Column(domain.FieldSymbol)
	directions := n.Column(domain.FieldDirection)
	extras := n.typedExtras()

	records := make([]domain.TradeRecord, 0, len(n.Rows))
	for i := range n.Rows {
		if !dateOK[i] {
			report.DroppedDates++
			continue
		}

		record := domain.TradeRecord{
			Date:      dates[i],
			Duration:  durations[i],
			Direction: domain.UnknownDirection,
		}

		var ok bool
		if record.PnL, ok = parseNumber(pnl[i]); !ok {
			report.DefaultedPnL++
		}
		if fees != nil {
			if record.Fees, ok = parseNumber(fees[i]); !ok {
				report.DefaultedFees++
			}
		}
		record.NetPnL = record.PnL - record.Fees

		if symbols != nil {
			record.Symbol = symbols[i]
			record.HasSymbol = true
		}
		if directions != nil {
			record.Direction = directions[i]
		}

		if len(extras) > 0 {
			record.Extra = make([]domain.ExtraField, len(extras))
			for j, col := range extras {
				record.Extra[j] = domain.ExtraField{Name: col.name, Value: col.values[i]}
			}
		}

		records = append(records, record)
	}

	report.RowsRetained = len(records)
	return records, report
}

// parseNumber parses a finite float. Anything else is reported as not ok with 0.
func parseNumber(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// isNumericColumn reports whether every non-blank cell is a number
func isNumericColumn(column []string) bool {
	for _, raw := range column {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		if _, ok := parseNumber(raw); !ok {
			return false
		}
	}
	return true
}

type extraColumn struct {
	name   string
	values []interface{}
}

// typedExtras types each unmatched column: numeric columns become float64,
// others stay strings, blank cells become nil.
func (n *NormalizedTable) typedExtras() []extraColumn {
	indexes := n.extraColumns()
	columns := make([]extraColumn, 0, len(indexes))
	for _, idx := range indexes {
		raw := n.columnAt(idx)
		numeric := isNumericColumn(raw)

		values := make([]interface{}, len(raw))
		for i, cell := range raw {
			switch {
			case strings.TrimSpace(cell) == "":
				values[i] = nil
			case numeric:
				values[i], _ = parseNumber(cell)
			default:
				values[i] = cell
			}
		}
		columns = append(columns, extraColumn{name: n.Headers[idx], values: values})
	}
	return columns
}
