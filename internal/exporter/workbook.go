package exporter

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/KwachuQ/trading-dashboard/pkg/contracts/domain"
)

// Sheet names of the exported workbook
const (
	SheetSummary  = "Summary"
	SheetTrades   = "Trades"
	SheetDaily    = "Daily"
	SheetDuration = "Duration"
)

// WorkbookExporter writes an analysis result as an Excel workbook
type WorkbookExporter struct {
	logger *slog.Logger
}

// NewWorkbookExporter creates a new workbook exporter
func NewWorkbookExporter(logger *slog.Logger) *WorkbookExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookExporter{logger: logger.With(slog.String("component", "workbook_exporter"))}
}

// Write renders result into an xlsx document on w
func (e *WorkbookExporter) Write(w io.Writer, result *domain.AnalysisResult) error {
	if result == nil {
		return fmt.Errorf("no analysis result to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return fmt.Errorf("failed to rename default sheet: %w", err)
	}
	for _, name := range []string{SheetTrades, SheetDaily, SheetDuration} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
	}

	if err := writeSummarySheet(f, result.Stats); err != nil {
		return err
	}
	if err := writeTradesSheet(f, result.Data); err != nil {
		return err
	}
	if err := writeDailySheet(f, result.Charts.DailyPnL); err != nil {
		return err
	}
	if err := writeDurationSheet(f, result.Charts.DurationDistribution); err != nil {
		return err
	}

	e.logger.Debug("writing workbook",
		slog.Int("trades", len(result.Data)),
		slog.Int("days", len(result.Charts.DailyPnL)))

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, s domain.Stats) error {
	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Total PnL", s.Summary.TotalPnL},
		{"Gross PnL", s.Summary.GrossPnL},
		{"Total Fees", s.Summary.TotalFees},
		{"Total Trades", s.Summary.TotalTrades},
		{"Win Rate %", s.Summary.WinRate},
		{"Profit Factor", s.Summary.ProfitFactor},
		{"Expected Value", s.Summary.ExpectedValue},
		{"Avg Win", s.Summary.AvgWin},
		{"Avg Loss", s.Summary.AvgLoss},
		{"Best Trade", s.Summary.BestTrade},
		{"Worst Trade", s.Summary.WorstTrade},
		{"Avg Duration (s)", s.Duration.AvgDuration},
		{"Day Win Rate %", s.Daily.DayWinRate},
		{"Best Day", s.Daily.BestDay},
		{"Worst Day", s.Daily.WorstDay},
		{"Long %", s.Direction.LongPct},
		{"Short %", s.Direction.ShortPct},
	}
	return writeRows(f, SheetSummary, rows)
}

func writeTradesSheet(f *excelize.File, records []domain.TradeRecord) error {
	headers := TradeHeaders(records)
	rows := make([][]interface{}, 0, len(records)+1)
	rows = append(rows, toRow(headers))

	for _, r := range records {
		extra := make(map[string]interface{}, len(r.Extra))
		for _, x := range r.Extra {
			extra[x.Name] = x.Value
		}
		row := make([]interface{}, len(headers))
		for i, h := range headers {
			switch h {
			case domain.FieldDate:
				row[i] = r.DateString()
			case domain.FieldSymbol:
				row[i] = r.Symbol
			case domain.FieldDirection:
				row[i] = r.Direction
			case domain.FieldDuration:
				row[i] = r.Duration
			case domain.FieldPnL:
				row[i] = r.PnL
			case domain.FieldFees:
				row[i] = r.Fees
			case domain.FieldNetPnL:
				row[i] = r.NetPnL
			default:
				row[i] = extra[h]
			}
		}
		rows = append(rows, row)
	}
	return writeRows(f, SheetTrades, rows)
}

func writeDailySheet(f *excelize.File, points []domain.DailyPnLPoint) error {
	rows := [][]interface{}{{"Date", "DailyPnL", "CumulativePnL", "TradeCount"}}
	for _, p := range points {
		rows = append(rows, []interface{}{p.Date, p.DailyPnL, p.CumulativePnL, p.TradeCount})
	}
	return writeRows(f, SheetDaily, rows)
}

func writeDurationSheet(f *excelize.File, buckets []domain.DurationBucket) error {
	rows := [][]interface{}{{"Range", "Count", "WinRate"}}
	for _, b := range buckets {
		rows = append(rows, []interface{}{b.Range, b.Count, b.WinRate})
	}
	return writeRows(f, SheetDuration, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

func toRow(values []string) []interface{} {
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	return row
}
