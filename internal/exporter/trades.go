package exporter

import (
	"io"
	"log/slog"
	"strconv"

	"github.com/KwachuQ/trading-dashboard/pkg/contracts/domain"
)

// TradeCSVWriter exports normalized trade records as CSV
type TradeCSVWriter struct {
	logger *slog.Logger
}

// NewTradeCSVWriter creates a new trade CSV writer
func NewTradeCSVWriter(logger *slog.Logger) *TradeCSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &TradeCSVWriter{logger: logger.With(slog.String("component", "trade_csv_writer"))}
}

// TradeHeaders returns the export columns for records: the canonical fields
// followed by extra columns in first-seen order. Symbol is only included when
// the source carried one.
func TradeHeaders(records []domain.TradeRecord) []string {
	headers := []string{domain.FieldDate}
	if len(records) > 0 && records[0].HasSymbol {
		headers = append(headers, domain.FieldSymbol)
	}
	headers = append(headers,
		domain.FieldDirection,
		domain.FieldDuration,
		domain.FieldPnL,
		domain.FieldFees,
		domain.FieldNetPnL,
	)

	seen := make(map[string]bool, len(headers))
	for _, h := range headers {
		seen[h] = true
	}
	for _, r := range records {
		for _, f := range r.Extra {
			if !seen[f.Name] {
				seen[f.Name] = true
				headers = append(headers, f.Name)
			}
		}
	}
	return headers
}

// TradeRow flattens one record in the column order given by headers
func TradeRow(headers []string, r domain.TradeRecord) []string {
	extra := make(map[string]interface{}, len(r.Extra))
	for _, f := range r.Extra {
		extra[f.Name] = f.Value
	}

	row := make([]string, len(headers))
	for i, h := range headers {
		switch h {
		case domain.FieldDate:
			row[i] = r.DateString()
		case domain.FieldSymbol:
			row[i] = r.Symbol
		case domain.FieldDirection:
			row[i] = r.Direction
		case domain.FieldDuration:
			row[i] = formatNumber(r.Duration)
		case domain.FieldPnL:
			row[i] = formatFloat(r.PnL)
		case domain.FieldFees:
			row[i] = formatFloat(r.Fees)
		case domain.FieldNetPnL:
			row[i] = formatFloat(r.NetPnL)
		default:
			row[i] = formatValue(extra[h])
		}
	}
	return row
}

// WriteTrades writes records to w with a UTF-8 BOM for Excel
func (t *TradeCSVWriter) WriteTrades(w io.Writer, records []domain.TradeRecord) error {
	headers := TradeHeaders(records)
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, TradeRow(headers, r))
	}

	t.logger.Debug("writing trade CSV",
		slog.Int("record_count", len(records)),
		slog.Int("column_count", len(headers)))

	return WriteCSV(w, WriteOptions{
		Headers:   headers,
		Records:   rows,
		BOMPrefix: true,
	})
}

// WriteDaily writes the daily PnL series to w
func (t *TradeCSVWriter) WriteDaily(w io.Writer, points []domain.DailyPnLPoint) error {
	rows := make([][]string, 0, len(points))
	for _, p := range points {
		rows = append(rows, []string{
			p.Date,
			formatFloat(p.DailyPnL),
			formatFloat(p.CumulativePnL),
			strconv.Itoa(p.TradeCount),
		})
	}

	return WriteCSV(w, WriteOptions{
		Headers:   []string{"Date", "DailyPnL", "CumulativePnL", "TradeCount"},
		Records:   rows,
		BOMPrefix: true,
	})
}
