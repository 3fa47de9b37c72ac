package http

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/KwachuQ/trading-dashboard/internal/config"
	"github.com/KwachuQ/trading-dashboard/internal/dataprocessing"
	apierrors "github.com/KwachuQ/trading-dashboard/internal/errors"
	"github.com/KwachuQ/trading-dashboard/internal/middleware"
	"github.com/KwachuQ/trading-dashboard/internal/services"
	"github.com/KwachuQ/trading-dashboard/internal/validation"
	api "github.com/KwachuQ/trading-dashboard/pkg/contracts/api/v1"
	"github.com/KwachuQ/trading-dashboard/pkg/contracts/domain"
)

// Content types of the export endpoint
const (
	ContentTypeCSV  = "text/csv; charset=utf-8"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// UploadHandler serves journal uploads and the views of processed uploads
type UploadHandler struct {
	service      JournalServiceInterface
	files        *validation.FileValidator
	validator    *middleware.RequestValidator
	errorHandler *apierrors.ErrorHandler
	cfg          config.UploadConfig
	logger       *slog.Logger
}

// NewUploadHandler creates a new upload handler
func NewUploadHandler(service JournalServiceInterface, cfg config.UploadConfig, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *UploadHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.FormField == "" {
		cfg.FormField = "file"
	}
	return &UploadHandler{
		service:      service,
		files:        validation.NewFileValidator(logger, cfg.AllowedExtensions, cfg.MaxSizeBytes),
		validator:    middleware.NewRequestValidator(logger),
		errorHandler: errorHandler,
		cfg:          cfg,
		logger:       logger.With(slog.String("component", "upload_handler")),
	}
}

// Routes returns the routes for processed uploads, mounted under /uploads
func (h *UploadHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.GetUpload)
		r.Get("/calendar", h.GetCalendar)
		r.Get("/export", h.Export)
	})

	return r
}

// Upload handles POST /upload
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxSizeBytes)

	var req api.UploadRequest
	if err := h.validator.Bind(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	rng, err := parseRange(req.DateRangeRequest)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	if err := r.ParseMultipartForm(config.MultipartMemoryBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(h.cfg.FormField)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrMissingFile)
		return
	}
	defer file.Close()

	if err := h.files.ValidateName(header.Filename); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrInvalidFileType)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.errorHandler.HandleError(w, r, fmt.Errorf("failed to read upload: %w", err))
		return
	}

	id, result, hit, err := h.service.Analyze(r.Context(), data, rng)
	if err != nil {
		h.errorHandler.HandleError(w, r, toAPIError(err))
		return
	}

	h.logger.InfoContext(r.Context(), "Upload processed",
		slog.String("file", header.Filename),
		slog.Int("bytes", len(data)),
		slog.String("upload_id", id),
		slog.Bool("cache_hit", hit))

	h.respond(w, r, id, result)
}

// GetUpload handles GET /uploads/{id}
func (h *UploadHandler) GetUpload(w http.ResponseWriter, r *http.Request) {
	var req api.UploadLookupRequest
	if err := h.validator.Bind(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	rng, err := parseRange(req.DateRangeRequest)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	result, err := h.service.Get(r.Context(), req.UploadID, rng)
	if err != nil {
		h.errorHandler.HandleError(w, r, toAPIError(err))
		return
	}

	h.respond(w, r, req.UploadID, result)
}

// GetCalendar handles GET /uploads/{id}/calendar
func (h *UploadHandler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	var req api.CalendarRequest
	if err := h.validator.Bind(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	cal, err := h.service.Calendar(r.Context(), req.UploadID, req.Month)
	if err != nil {
		h.errorHandler.HandleError(w, r, toAPIError(err))
		return
	}

	render.JSON(w, r, cal)
}

// Export handles GET /uploads/{id}/export
func (h *UploadHandler) Export(w http.ResponseWriter, r *http.Request) {
	var req api.ExportRequest
	if err := h.validator.Bind(r, &req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	rng, err := parseRange(req.DateRangeRequest)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	format := req.Format
	if format == "" {
		format = api.ExportFormatCSV
	}

	// Buffer so a failed export still gets a problem response
	var buf bytes.Buffer
	if err := h.service.Export(r.Context(), req.UploadID, rng, format, &buf); err != nil {
		mapped := toAPIError(err)
		var apiErr *apierrors.APIError
		if !errors.As(mapped, &apiErr) {
			h.logger.ErrorContext(r.Context(), "Export failed",
				slog.String("upload_id", req.UploadID),
				slog.String("error", err.Error()))
			mapped = apierrors.ErrExportFailed
		}
		h.errorHandler.HandleError(w, r, mapped)
		return
	}

	contentType := ContentTypeCSV
	if format == api.ExportFormatXLSX {
		contentType = ContentTypeXLSX
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="trades-%s.%s"`, req.UploadID[:12], format))
	w.Header().Set(api.HeaderUploadID, req.UploadID)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to write export body",
			slog.String("error", err.Error()))
	}
}

func (h *UploadHandler) respond(w http.ResponseWriter, r *http.Request, id string, result *domain.AnalysisResult) {
	w.Header().Set(api.HeaderUploadID, id)
	w.Header().Set(api.HeaderETag, `"`+id+`"`)
	render.JSON(w, r, result)
}

func parseRange(req api.DateRangeRequest) (dataprocessing.DateRange, error) {
	rng, err := dataprocessing.ParseDateRange(req.From, req.To)
	if errors.Is(err, dataprocessing.ErrInvalidDateRange) {
		return rng, apierrors.ErrInvalidDateRange
	}
	if err != nil {
		return rng, apierrors.InvalidRequestWithError(err)
	}
	return rng, nil
}

// toAPIError maps service sentinels to API errors. Anything else is returned
// unchanged for the error handler to classify.
func toAPIError(err error) error {
	switch {
	case errors.Is(err, services.ErrEmptyFile):
		return apierrors.ErrEmptyFile
	case errors.Is(err, services.ErrInvalidFileType):
		return apierrors.ErrInvalidFileType
	case errors.Is(err, services.ErrFileTooLarge):
		return apierrors.ErrFileTooLarge
	case errors.Is(err, services.ErrInvalidDateRange):
		return apierrors.ErrInvalidDateRange
	case errors.Is(err, services.ErrResultNotFound):
		return apierrors.ErrUploadNotFound
	case errors.Is(err, services.ErrInvalidMonth):
		return apierrors.ErrValidation("month", "month must be formatted as YYYY-MM")
	case errors.Is(err, services.ErrUnsupportedFormat):
		return apierrors.ErrValidation("format", "format must be one of: csv xlsx")
	}
	return err
}
