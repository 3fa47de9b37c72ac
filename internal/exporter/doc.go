// Package exporter writes analysed trading journals back out as files.
//
// TradeCSVWriter renders the normalized trade records, or the daily PnL
// series, as CSV with a UTF-8 BOM so Excel detects the encoding.
// WorkbookExporter renders a full analysis result as an xlsx workbook with
// Summary, Trades, Daily and Duration sheets.
//
// Example usage:
//
//	w := exporter.NewTradeCSVWriter(logger)
//	err := w.WriteTrades(rw, result.Data)
//
//	x := exporter.NewWorkbookExporter(logger)
//	err = x.Write(rw, result)
package exporter
