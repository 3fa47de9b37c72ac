package api

import "time"

// Response headers set on analysis responses
const (
	HeaderUploadID = "X-Upload-ID"
	HeaderETag     = "ETag"
)

// RootResponse is returned by GET /
type RootResponse struct {
	Message string `json:"message"`
}

// RootMessage is the liveness banner served at the root path
const RootMessage = "Trading Dashboard API is running"

// HealthResponse is returned by GET /healthz
type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Uptime    string            `json:"uptime"`
	Timestamp time.Time         `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}
