package dataprocessing

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/KwachuQ/trading-dashboard/pkg/contracts/domain"
)

// TracerName identifies spans emitted by the pipeline
const TracerName = "trading-dashboard.dataprocessing"

// Journal is a parsed export: its canonical records and the fallbacks applied.
type Journal struct {
	Records []domain.TradeRecord
	Report  CoercionReport
}

// Processor runs the ingestion pipeline. It holds no per-call state and is
// safe for concurrent use.
type Processor struct {
	logger     *slog.Logger
	candidates ColumnCandidates
	tracer     trace.Tracer
}

// ProcessorOption configures a Processor
type ProcessorOption func(*Processor)

// WithCandidates replaces the column candidate table
func WithCandidates(c ColumnCandidates) ProcessorOption {
	return func(p *Processor) {
		p.candidates = c
	}
}

// NewProcessor creates a pipeline processor
func NewProcessor(logger *slog.Logger, opts ...ProcessorOption) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Processor{
		logger:     logger.With(slog.String("component", "journal_processor")),
		candidates: DefaultCandidates,
		tracer:     otel.Tracer(TracerName),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process reads a CSV export and returns the full analysis payload.
func (p *Processor) Process(ctx context.Context, r io.Reader) (*domain.AnalysisResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	journal, err := p.Parse(ctx, data)
	if err != nil {
		return nil, err
	}
	return Analyze(journal.Records), nil
}

// Parse turns raw CSV bytes into canonical records. The only error it
// returns is a *SchemaError.
func (p *Processor) Parse(ctx context.Context, data []byte) (*Journal, error) {
	ctx, span := p.tracer.Start(ctx, "journal.parse",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.Int("journal.bytes", len(data))),
	)
	defer span.End()

	table, err := ReadTable(data)
	if err != nil {
		return nil, p.fail(ctx, span, err)
	}

	normalized := Normalize(table, p.candidates)
	if err := normalized.Validate(); err != nil {
		return nil, p.fail(ctx, span, err)
	}

	dates, dateOK := ResolveDates(normalized.Column(domain.FieldDate))
	durations := ResolveDurations(normalized)
	records, report := Coerce(normalized, dates, dateOK, durations)

	span.SetAttributes(
		attribute.Int("journal.rows_read", report.RowsRead),
		attribute.Int("journal.rows_retained", report.RowsRetained),
		attribute.Int("journal.dropped_dates", report.DroppedDates),
	)

	if report.DroppedDates > 0 || report.DefaultedPnL > 0 || report.DefaultedFees > 0 {
		p.logger.WarnContext(ctx, "Journal rows degraded during coercion",
			slog.Int("dropped_dates", report.DroppedDates),
			slog.Int("defaulted_pnl", report.DefaultedPnL),
			slog.Int("defaulted_fees", report.DefaultedFees))
	}
	p.logger.InfoContext(ctx, "Journal parsed",
		slog.Int("rows_read", report.RowsRead),
		slog.Int("rows_retained", report.RowsRetained),
		slog.Int("columns", len(table.Headers)))

	return &Journal{Records: records, Report: report}, nil
}

func (p *Processor) fail(ctx context.Context, span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	p.logger.WarnContext(ctx, "Journal rejected", slog.String("error", err.Error()))
	return err
}

// Analyze computes statistics and chart series for a set of records.
func Analyze(records []domain.TradeRecord) *domain.AnalysisResult {
	data := records
	if data == nil {
		data = []domain.TradeRecord{}
	}
	return &domain.AnalysisResult{
		Stats:   ComputeStats(records),
		Charts:  BuildCharts(records),
		Data:    data,
		Message: domain.SuccessMessage,
	}
}
