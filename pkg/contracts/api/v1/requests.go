// Package api contains the HTTP contract of the trading dashboard.
// Version v1 represents the current stable API version.
package api

// DateRangeRequest restricts analysis to trades inside an inclusive date range
type DateRangeRequest struct {
	From string `json:"from" query:"from" validate:"omitempty,datetime=2006-01-02"`
	To   string `json:"to" query:"to" validate:"omitempty,datetime=2006-01-02"`
}

// UploadRequest carries the query parameters of POST /upload
type UploadRequest struct {
	DateRangeRequest
}

// UploadLookupRequest identifies a previously processed upload
type UploadLookupRequest struct {
	DateRangeRequest
	UploadID string `json:"upload_id" param:"id" validate:"required,hexadecimal,len=64"`
}

// CalendarRequest selects the month of the calendar view
type CalendarRequest struct {
	UploadID string `json:"upload_id" param:"id" validate:"required,hexadecimal,len=64"`
	Month    string `json:"month" query:"month" validate:"omitempty,datetime=2006-01"`
}

// ExportRequest selects the export format
type ExportRequest struct {
	DateRangeRequest
	UploadID string `json:"upload_id" param:"id" validate:"required,hexadecimal,len=64"`
	Format   string `json:"format" query:"format" validate:"omitempty,oneof=csv xlsx"`
}

// Export formats
const (
	ExportFormatCSV  = "csv"
	ExportFormatXLSX = "xlsx"
)
