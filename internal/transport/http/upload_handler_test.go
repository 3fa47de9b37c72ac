package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/KwachuQ/trading-dashboard/internal/config"
	"github.com/KwachuQ/trading-dashboard/internal/dataprocessing"
	apierrors "github.com/KwachuQ/trading-dashboard/internal/errors"
	"github.com/KwachuQ/trading-dashboard/internal/services"
	api "github.com/KwachuQ/trading-dashboard/pkg/contracts/api/v1"
	"github.com/KwachuQ/trading-dashboard/pkg/contracts/domain"
)

var testID = strings.Repeat("ab", 32)

// MockJournalService is a mock implementation of JournalServiceInterface
type MockJournalService struct {
	mock.Mock
}

func (m *MockJournalService) Analyze(ctx context.Context, data []byte, rng dataprocessing.DateRange) (string, *domain.AnalysisResult, bool, error) {
	args := m.Called(ctx, data, rng)
	result, _ := args.Get(1).(*domain.AnalysisResult)
	return args.String(0), result, args.Bool(2), args.Error(3)
}

func (m *MockJournalService) Get(ctx context.Context, id string, rng dataprocessing.DateRange) (*domain.AnalysisResult, error) {
	args := m.Called(ctx, id, rng)
	result, _ := args.Get(0).(*domain.AnalysisResult)
	return result, args.Error(1)
}

func (m *MockJournalService) Calendar(ctx context.Context, id, month string) (domain.CalendarMonth, error) {
	args := m.Called(ctx, id, month)
	return args.Get(0).(domain.CalendarMonth), args.Error(1)
}

func (m *MockJournalService) Export(ctx context.Context, id string, rng dataprocessing.DateRange, format string, w io.Writer) error {
	args := m.Called(ctx, id, rng, format, w)
	if body := args.String(0); body != "" {
		_, _ = io.WriteString(w, body)
	}
	return args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRouter(svc JournalServiceInterface, cfg config.UploadConfig) http.Handler {
	logger := testLogger()
	h := NewUploadHandler(svc, cfg, logger, apierrors.NewErrorHandler(logger, false))
	r := chi.NewRouter()
	r.Post("/upload", h.Upload)
	r.Mount("/uploads", h.Routes())
	return r
}

func multipartBody(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename != "" {
		fw, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	} else {
		require.NoError(t, mw.WriteField("note", "no file"))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func TestUploadHandler_Upload(t *testing.T) {
	csv := "Date,PnL\n2024-01-02,5\n"
	result := dataprocessing.Analyze(nil)

	tests := []struct {
		name       string
		filename   string
		query      string
		setup      func(*MockJournalService)
		wantStatus int
		wantCode   string
	}{
		{
			name:     "processes csv",
			filename: "trades.csv",
			setup: func(m *MockJournalService) {
				m.On("Analyze", mock.Anything, []byte(csv), dataprocessing.DateRange{}).
					Return(testID, result, false, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "rejects non csv",
			filename:   "trades.xlsx",
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_FILE_TYPE",
		},
		{
			name:       "missing file",
			wantStatus: http.StatusBadRequest,
			wantCode:   "MISSING_FILE",
		},
		{
			name:       "malformed from",
			filename:   "trades.csv",
			query:      "?from=01-02-2024",
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_FAILED",
		},
		{
			name:       "from after to",
			filename:   "trades.csv",
			query:      "?from=2024-02-01&to=2024-01-01",
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_DATE_RANGE",
		},
		{
			name:     "schema error",
			filename: "trades.csv",
			setup: func(m *MockJournalService) {
				m.On("Analyze", mock.Anything, mock.Anything, mock.Anything).
					Return("", nil, false, &dataprocessing.SchemaError{Message: dataprocessing.MissingColumnsMessage})
			},
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "INVALID_SCHEMA",
		},
		{
			name:     "empty file",
			filename: "trades.csv",
			setup: func(m *MockJournalService) {
				m.On("Analyze", mock.Anything, mock.Anything, mock.Anything).
					Return("", nil, false, services.ErrEmptyFile)
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "EMPTY_FILE",
		},
		{
			name:     "unexpected failure",
			filename: "trades.csv",
			setup: func(m *MockJournalService) {
				m.On("Analyze", mock.Anything, mock.Anything, mock.Anything).
					Return("", nil, false, errors.New("boom"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockJournalService)
			if tt.setup != nil {
				tt.setup(svc)
			}
			router := newTestRouter(svc, config.Default().Upload)

			body, contentType := multipartBody(t, "file", tt.filename, csv)
			req := httptest.NewRequest(http.MethodPost, "/upload"+tt.query, body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			payload := decodeJSON(t, rec)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, testID, rec.Header().Get(api.HeaderUploadID))
				assert.Equal(t, `"`+testID+`"`, rec.Header().Get(api.HeaderETag))
				assert.Equal(t, domain.SuccessMessage, payload["message"])
			} else if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, payload["error_code"])
				assert.Equal(t, float64(tt.wantStatus), payload["status"])
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestUploadHandler_Upload_DateRangeForwarded(t *testing.T) {
	svc := new(MockJournalService)
	svc.On("Analyze", mock.Anything, mock.Anything, mock.MatchedBy(func(r dataprocessing.DateRange) bool {
		return r.From.Format(domain.DateLayout) == "2024-01-01" && r.To.IsZero()
	})).Return(testID, dataprocessing.Analyze(nil), true, nil)

	router := newTestRouter(svc, config.Default().Upload)
	body, contentType := multipartBody(t, "file", "t.csv", "Date,PnL\n2024-01-02,5\n")
	req := httptest.NewRequest(http.MethodPost, "/upload?from=2024-01-01", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestUploadHandler_Upload_TooLarge(t *testing.T) {
	cfg := config.Default().Upload
	cfg.MaxSizeBytes = 64
	router := newTestRouter(new(MockJournalService), cfg)

	body, contentType := multipartBody(t, "file", "big.csv", strings.Repeat("x", 1024))
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, apierrors.TypePayloadTooLarge, decodeJSON(t, rec)["type"])
}

func TestUploadHandler_Upload_NotMultipart(t *testing.T) {
	router := newTestRouter(new(MockJournalService), config.Default().Upload)

	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader("Date,PnL\n"))
	req.Header.Set("Content-Type", "text/csv")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_REQUEST", decodeJSON(t, rec)["error_code"])
}

func TestUploadHandler_GetUpload(t *testing.T) {
	result := dataprocessing.Analyze(nil)

	tests := []struct {
		name       string
		path       string
		setup      func(*MockJournalService)
		wantStatus int
		wantCode   string
	}{
		{
			name: "cached upload",
			path: "/uploads/" + testID,
			setup: func(m *MockJournalService) {
				m.On("Get", mock.Anything, testID, dataprocessing.DateRange{}).Return(result, nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "expired upload",
			path: "/uploads/" + testID + "?to=2024-01-31",
			setup: func(m *MockJournalService) {
				m.On("Get", mock.Anything, testID, mock.Anything).
					Return(nil, services.ErrResultNotFound)
			},
			wantStatus: http.StatusNotFound,
			wantCode:   "UPLOAD_NOT_FOUND",
		},
		{
			name:       "malformed id",
			path:       "/uploads/not-a-hash",
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_FAILED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockJournalService)
			if tt.setup != nil {
				tt.setup(svc)
			}
			rec := httptest.NewRecorder()
			newTestRouter(svc, config.Default().Upload).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeJSON(t, rec)["error_code"])
			} else {
				assert.Equal(t, testID, rec.Header().Get(api.HeaderUploadID))
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestUploadHandler_GetCalendar(t *testing.T) {
	svc := new(MockJournalService)
	svc.On("Calendar", mock.Anything, testID, "2024-02").
		Return(domain.CalendarMonth{Month: "2024-02", PnL: 12.5, Trades: 3}, nil)
	router := newTestRouter(svc, config.Default().Upload)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/uploads/"+testID+"/calendar?month=2024-02", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeJSON(t, rec)
	assert.Equal(t, "2024-02", body["month"])
	assert.Equal(t, 12.5, body["pnl"])

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/uploads/"+testID+"/calendar?month=Feb", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/uploads/"+testID+"/calendar?month=2024-13", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadHandler_Export(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		setup       func(*MockJournalService)
		wantStatus  int
		wantType    string
		wantBody    string
		wantProblem string
	}{
		{
			name: "csv by default",
			setup: func(m *MockJournalService) {
				m.On("Export", mock.Anything, testID, dataprocessing.DateRange{}, "csv", mock.Anything).
					Return("Date,PnL\n", nil)
			},
			wantStatus: http.StatusOK,
			wantType:   ContentTypeCSV,
			wantBody:   "Date,PnL\n",
		},
		{
			name:  "xlsx",
			query: "?format=xlsx",
			setup: func(m *MockJournalService) {
				m.On("Export", mock.Anything, testID, mock.Anything, "xlsx", mock.Anything).
					Return("PK", nil)
			},
			wantStatus: http.StatusOK,
			wantType:   ContentTypeXLSX,
			wantBody:   "PK",
		},
		{
			name:        "unknown format",
			query:       "?format=pdf",
			wantStatus:  http.StatusBadRequest,
			wantProblem: "VALIDATION_FAILED",
		},
		{
			name: "writer failure",
			setup: func(m *MockJournalService) {
				m.On("Export", mock.Anything, testID, mock.Anything, "csv", mock.Anything).
					Return("partial", errors.New("disk full"))
			},
			wantStatus:  http.StatusInternalServerError,
			wantProblem: "EXPORT_FAILED",
		},
		{
			name: "expired upload",
			setup: func(m *MockJournalService) {
				m.On("Export", mock.Anything, testID, mock.Anything, "csv", mock.Anything).
					Return("", services.ErrResultNotFound)
			},
			wantStatus:  http.StatusNotFound,
			wantProblem: "UPLOAD_NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockJournalService)
			if tt.setup != nil {
				tt.setup(svc)
			}
			rec := httptest.NewRecorder()
			newTestRouter(svc, config.Default().Upload).
				ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/uploads/"+testID+"/export"+tt.query, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantProblem != "" {
				assert.Equal(t, tt.wantProblem, decodeJSON(t, rec)["error_code"])
				return
			}
			assert.Equal(t, tt.wantType, rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
			assert.Equal(t, tt.wantBody, rec.Body.String())
			svc.AssertExpectations(t)
		})
	}
}

func TestUploadHandler_EndToEnd(t *testing.T) {
	journal := services.NewJournalService(nil, config.Default().Cache, testLogger())
	router := newTestRouter(journal, config.Default().Upload)

	csv := "Date,Symbol,PnL,Fees\n01/02/2024,ES,10,1\n01/03/2024,NQ,-4,1\nnot a date,ES,100,0\n"
	body, contentType := multipartBody(t, "file", "journal.csv", csv)
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	id := rec.Header().Get(api.HeaderUploadID)
	assert.Equal(t, services.UploadID([]byte(csv)), id)

	var result domain.AnalysisResult
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	require.NoError(t, json.Unmarshal(raw["stats"], &result.Stats))
	assert.Equal(t, 2, result.Stats.Summary.TotalTrades)
	assert.Equal(t, 4.0, result.Stats.Summary.TotalPnL)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/uploads/"+id+"?from=2024-01-03", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	require.NoError(t, json.Unmarshal(raw["stats"], &result.Stats))
	assert.Equal(t, -5.0, result.Stats.Summary.TotalPnL)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/uploads/"+id+"/calendar", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2024-01", decodeJSON(t, rec)["month"])

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/uploads/"+id+"/export", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "\xEF\xBB\xBFDate,Symbol,"))
}
