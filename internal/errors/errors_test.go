package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError(t *testing.T) {
	tests := []struct {
		name       string
		err        *APIError
		wantStatus int
		wantCode   string
	}{
		{"invalid file type", ErrInvalidFileType, http.StatusBadRequest, "INVALID_FILE_TYPE"},
		{"file too large", ErrFileTooLarge, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"},
		{"upload not found", ErrUploadNotFound, http.StatusNotFound, "UPLOAD_NOT_FOUND"},
		{"schema", SchemaError("Error processing CSV: bad"), http.StatusUnprocessableEntity, "INVALID_SCHEMA"},
		{"validation", ErrValidation("from", "bad date"), http.StatusBadRequest, "VALIDATION_FAILED"},
		{"not found helper", NotFoundError("upload"), http.StatusNotFound, "NOT_FOUND"},
		{"invalid request", InvalidRequestWithError(stderrors.New("boom")), http.StatusBadRequest, "INVALID_REQUEST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, tt.err.StatusCode)
			assert.Equal(t, tt.wantCode, tt.err.ErrorCode)
			assert.Equal(t, tt.err.Message, tt.err.Error())
		})
	}
}

func TestNewValidationErrors(t *testing.T) {
	err := NewValidationErrors([]ValidationError{{Field: "month", Message: "must be YYYY-MM"}})
	details, ok := err.Details.(ValidationErrors)
	require.True(t, ok)
	assert.Len(t, details.Errors, 1)
	assert.Equal(t, "month", details.Errors[0].Field)
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, ErrRateLimitExceeded)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", body.Error.ErrorCode)
}

func TestProblemDetailsMarshal(t *testing.T) {
	problem := NewProblemDetails(http.StatusUnprocessableEntity, TypeInvalidSchema, "Invalid CSV", "missing columns", "/upload").
		WithExtension("trace_id", "abc").
		WithExtension("status", 999)

	raw, err := json.Marshal(problem)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, TypeInvalidSchema, got["type"])
	assert.Equal(t, "Invalid CSV", got["title"])
	assert.Equal(t, float64(http.StatusUnprocessableEntity), got["status"])
	assert.Equal(t, "missing columns", got["detail"])
	assert.Equal(t, "/upload", got["instance"])
	assert.Equal(t, "abc", got["trace_id"])

	bare, err := json.Marshal(&ProblemDetails{Type: TypeInternal, Title: "x", Status: 500})
	require.NoError(t, err)
	assert.NotContains(t, string(bare), "detail")
	assert.NotContains(t, string(bare), "instance")
}

func TestAppError(t *testing.T) {
	cause := stderrors.New("disk full")
	err := NewStorageError("write export", cause).WithContext("path", "/tmp/x.csv")

	assert.Equal(t, "[STORAGE] write export: disk full", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "/tmp/x.csv", err.Context["path"])

	assert.Equal(t, "[NOT_FOUND] journal.csv not found", NewNotFoundError("journal.csv").Error())
	assert.Equal(t, ErrTypeValidation, NewAppValidationError("bad").Type)
	assert.Equal(t, ErrTypePermission, NewPermissionError("denied").Type)
	assert.Equal(t, ErrTypeExport, NewExportError("xlsx", nil).Type)
}

func TestAPIError_WithDetails(t *testing.T) {
	err := InvalidRequestWithError(stderrors.New("no multipart boundary"))
	assert.Equal(t, ErrInvalidRequest.ErrorCode, err.ErrorCode)
	assert.Equal(t, "no multipart boundary", err.Details)
	assert.Nil(t, ErrInvalidRequest.Details)

	v := ErrValidation("month", "must be YYYY-MM")
	assert.Equal(t, ErrValidationFailed.StatusCode, v.StatusCode)
	assert.Nil(t, ErrValidationFailed.Details)
}
