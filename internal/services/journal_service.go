package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/KwachuQ/trading-dashboard/internal/config"
	apierrors "github.com/KwachuQ/trading-dashboard/internal/errors"
	"github.com/KwachuQ/trading-dashboard/internal/dataprocessing"
	"github.com/KwachuQ/trading-dashboard/internal/exporter"
	"github.com/KwachuQ/trading-dashboard/internal/infrastructure"
	"github.com/KwachuQ/trading-dashboard/pkg/contracts/domain"
)

// Export formats understood by Export
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// JournalService runs uploads through the pipeline and keeps the parsed
// journals in a TTL cache keyed by the SHA-256 of the uploaded bytes.
// Concurrent uploads of the same bytes are parsed once.
type JournalService struct {
	processor *dataprocessing.Processor
	cache     *cache.Cache
	group     singleflight.Group
	metrics   *infrastructure.BusinessMetrics
	csv       *exporter.TradeCSVWriter
	workbook  *exporter.WorkbookExporter
	logger    *slog.Logger
	now       func() time.Time
}

// JournalServiceOption configures a JournalService
type JournalServiceOption func(*JournalService)

// WithMetrics records upload and export metrics
func WithMetrics(m *infrastructure.BusinessMetrics) JournalServiceOption {
	return func(s *JournalService) {
		s.metrics = m
	}
}

// NewJournalService creates a journal service. A disabled cache config turns
// off lookups by upload id; uploads still work.
func NewJournalService(processor *dataprocessing.Processor, cfg config.CacheConfig, logger *slog.Logger, opts ...JournalServiceOption) *JournalService {
	if logger == nil {
		logger = slog.Default()
	}
	if processor == nil {
		processor = dataprocessing.NewProcessor(logger)
	}

	s := &JournalService{
		processor: processor,
		csv:       exporter.NewTradeCSVWriter(logger),
		workbook:  exporter.NewWorkbookExporter(logger),
		logger:    logger.With(slog.String("component", "journal_service")),
		now:       time.Now,
	}
	if cfg.Enabled {
		cleanup := cfg.CleanupInterval
		if cleanup <= 0 {
			cleanup = config.ResultCacheCleanup
		}
		s.cache = cache.New(cfg.TTL, cleanup)
	}
	for _, opt := range opts {
		opt(s)
	}

	s.logger.Info("JournalService initialized",
		slog.Bool("cache_enabled", cfg.Enabled),
		slog.Duration("cache_ttl", cfg.TTL))
	return s
}

// UploadID returns the content hash that identifies an upload
func UploadID(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Analyze parses data, caches the journal and returns the analysis of the
// records inside rng. hit reports whether the journal came from the cache.
func (s *JournalService) Analyze(ctx context.Context, data []byte, rng dataprocessing.DateRange) (id string, result *domain.AnalysisResult, hit bool, err error) {
	if len(data) == 0 {
		return "", nil, false, ErrEmptyFile
	}
	if err := rng.Validate(); err != nil {
		return "", nil, false, err
	}

	id = UploadID(data)
	ctx = infrastructure.WithUploadID(ctx, id)
	start := s.now()

	journal, hit := s.lookup(id)
	if !hit {
		v, err, shared := s.group.Do(id, func() (interface{}, error) {
			j, err := s.processor.Parse(ctx, data)
			if err != nil {
				return nil, err
			}
			s.store(id, j)
			return j, nil
		})
		if err != nil {
			infrastructure.RecordSchemaError(ctx, s.metrics)
			infrastructure.RecordUploadMetrics(ctx, s.metrics, infrastructure.UploadOutcome{
				Bytes:    len(data),
				Duration: s.now().Sub(start),
				Err:      err,
			})
			return "", nil, false, err
		}
		journal = v.(*dataprocessing.Journal)
		if shared {
			s.logger.DebugContext(ctx, "Upload parse shared with concurrent request")
		}
	}

	result = dataprocessing.Analyze(dataprocessing.FilterByDate(journal.Records, rng))

	infrastructure.RecordUploadMetrics(ctx, s.metrics, infrastructure.UploadOutcome{
		Bytes:         len(data),
		RowsRead:      journal.Report.RowsRead,
		RowsDropped:   journal.Report.DroppedDates,
		RowsDefaulted: journal.Report.DefaultedPnL + journal.Report.DefaultedFees,
		Duration:      s.now().Sub(start),
		CacheHit:      hit,
	})

	s.logger.InfoContext(ctx, "Upload analyzed",
		slog.Bool("cache_hit", hit),
		slog.Int("bytes", len(data)),
		slog.Int("trades", len(result.Data)))

	return id, result, hit, nil
}

// Get returns the analysis of a cached upload restricted to rng
func (s *JournalService) Get(ctx context.Context, id string, rng dataprocessing.DateRange) (*domain.AnalysisResult, error) {
	if err := rng.Validate(); err != nil {
		return nil, err
	}
	journal, ok := s.lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrResultNotFound, id)
	}
	return dataprocessing.Analyze(dataprocessing.FilterByDate(journal.Records, rng)), nil
}

// Calendar returns the month grid of a cached upload. An empty month selects
// the month of the last trading day.
func (s *JournalService) Calendar(ctx context.Context, id, month string) (domain.CalendarMonth, error) {
	journal, ok := s.lookup(id)
	if !ok {
		return domain.CalendarMonth{}, fmt.Errorf("%w: %s", ErrResultNotFound, id)
	}

	daily := dataprocessing.BuildCharts(journal.Records).DailyPnL

	var m time.Time
	if month != "" {
		parsed, err := dataprocessing.ParseMonth(month)
		if err != nil {
			return domain.CalendarMonth{}, fmt.Errorf("%w: %v", ErrInvalidMonth, err)
		}
		m = parsed
	} else if m = dataprocessing.LatestMonth(daily); m.IsZero() {
		now := s.now().UTC()
		m = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	}

	return dataprocessing.BuildCalendar(daily, m), nil
}

// Export writes the records of a cached upload inside rng to w as CSV or xlsx
func (s *JournalService) Export(ctx context.Context, id string, rng dataprocessing.DateRange, format string, w io.Writer) error {
	if format != FormatCSV && format != FormatXLSX {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	result, err := s.Get(ctx, id, rng)
	if err != nil {
		return err
	}
	return s.Write(ctx, result, format, w)
}

// Write renders an analysis result to w in the given format
func (s *JournalService) Write(ctx context.Context, result *domain.AnalysisResult, format string, w io.Writer) error {
	var err error
	switch format {
	case FormatCSV:
		err = s.csv.WriteTrades(w, result.Data)
	case FormatXLSX:
		err = s.workbook.Write(w, result)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "Export failed",
			slog.String("format", format),
			slog.String("error", err.Error()))
		return apierrors.NewExportError(fmt.Sprintf("export %s", format), err)
	}

	infrastructure.RecordExport(ctx, s.metrics, format)
	return nil
}

// CachedUploads returns the number of journals currently cached
func (s *JournalService) CachedUploads() int {
	if s.cache == nil {
		return 0
	}
	return s.cache.ItemCount()
}

func (s *JournalService) lookup(id string) (*dataprocessing.Journal, bool) {
	if s.cache == nil {
		return nil, false
	}
	v, ok := s.cache.Get(id)
	if !ok {
		return nil, false
	}
	j, ok := v.(*dataprocessing.Journal)
	return j, ok
}

func (s *JournalService) store(id string, j *dataprocessing.Journal) {
	if s.cache != nil {
		s.cache.Set(id, j, cache.DefaultExpiration)
	}
}
