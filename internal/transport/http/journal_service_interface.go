package http

import (
	"context"
	"io"

	"github.com/KwachuQ/trading-dashboard/internal/dataprocessing"
	"github.com/KwachuQ/trading-dashboard/pkg/contracts/domain"
)

// JournalServiceInterface defines the journal operations the upload routes need
type JournalServiceInterface interface {
	Analyze(ctx context.Context, data []byte, rng dataprocessing.DateRange) (string, *domain.AnalysisResult, bool, error)
	Get(ctx context.Context, id string, rng dataprocessing.DateRange) (*domain.AnalysisResult, error)
	Calendar(ctx context.Context, id, month string) (domain.CalendarMonth, error)
	Export(ctx context.Context, id string, rng dataprocessing.DateRange, format string, w io.Writer) error
}
