package config

import "time"

// Application constants
const (
	// Application Info
	AppName     = "Trading Dashboard"
	AppVersion  = "1.0.0"
	ServiceName = "trading-dashboard"

	// EnvPrefix namespaces every environment variable, e.g. JOURNAL_SERVER_PORT
	EnvPrefix = "JOURNAL"

	// Rate Limiting
	DefaultRateLimit = 20 // requests per second per client
	DefaultBurstSize = 40

	// Timeouts
	DefaultRequestTimeout = 60 * time.Second

	// Uploads
	DefaultMaxUploadBytes = 32 << 20 // 32MB
	MultipartMemoryBytes  = 8 << 20

	// Cache Settings
	ResultCacheDuration = 30 * time.Minute
	ResultCacheCleanup  = 10 * time.Minute

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
	DefaultLogFile   = "logs/app.log"
)
