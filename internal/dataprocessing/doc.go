// Package dataprocessing turns trading-journal CSV exports from different
// platforms into canonical trade records and derives performance statistics
// and chart series from them.
//
// # Architecture
//
// The pipeline runs strictly forward:
//
//	CSV bytes → ReadTable → Normalize → Validate → ResolveDates/ResolveDurations → Coerce → ComputeStats/BuildCharts
//
//  1. Reader: decodes UTF-8 (falling back to Latin-1) and reads the header row and data rows
//  2. Normalizer: maps free-form headers onto the canonical fields using ordered candidate lists
//  3. Temporal resolver: parses the trading day and the holding time with ordered fallback strategies
//  4. Coercion: builds domain.TradeRecord values, defaulting unparseable numbers to 0
//  5. Statistics and charts: whole-table aggregates over the coerced records
//
// # Usage
//
//	processor := dataprocessing.NewProcessor(logger)
//	result, err := processor.Process(ctx, file)
//	if errors.Is(err, dataprocessing.ErrSchema) {
//	    // the export has no usable Date or PnL column
//	}
//
// # Error Handling
//
// A *SchemaError is the only error the pipeline returns. It is raised when the
// input cannot be read as CSV or lacks a Date or PnL column. Everything else
// degrades silently: rows with an unparseable date are dropped, unparseable
// PnL, fee and duration cells become 0. The counts are reported in
// CoercionReport.
//
// # Determinism
//
// The same bytes always produce the same result. Nothing depends on the wall
// clock, map iteration order or randomness.
package dataprocessing
