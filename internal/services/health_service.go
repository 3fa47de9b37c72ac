package services

import (
	"context"
	"log/slog"
	"runtime"
	"strconv"
	"time"

	api "github.com/KwachuQ/trading-dashboard/pkg/contracts/api/v1"
)

// CacheReporter exposes the size of the result cache
type CacheReporter interface {
	CachedUploads() int
}

// HealthService provides health check functionality
type HealthService struct {
	version   string
	buildTime string
	gitCommit string
	cache     CacheReporter
	startTime time.Time
	logger    *slog.Logger
}

// NewHealthService creates a new health service
func NewHealthService(version string, cache CacheReporter, logger *slog.Logger) *HealthService {
	return NewHealthServiceWithBuildInfo(version, "", "", cache, logger)
}

// NewHealthServiceWithBuildInfo creates a new health service with build information
func NewHealthServiceWithBuildInfo(version, buildTime, gitCommit string, cache CacheReporter, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("HealthService initialized",
		slog.String("version", version),
		slog.String("build_time", buildTime),
		slog.String("git_commit", gitCommit))

	return &HealthService{
		version:   version,
		buildTime: buildTime,
		gitCommit: gitCommit,
		cache:     cache,
		startTime: time.Now(),
		logger:    logger,
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) api.HealthResponse {
	checks := map[string]string{"pipeline": "ok"}
	if hs.cache != nil {
		checks["cached_uploads"] = strconv.Itoa(hs.cache.CachedUploads())
	}

	status := api.HealthResponse{
		Status:    "ok",
		Version:   hs.version,
		Uptime:    time.Since(hs.startTime).Round(time.Second).String(),
		Timestamp: time.Now().UTC(),
		Checks:    checks,
	}

	hs.logger.DebugContext(ctx, "HealthCheck: completed",
		slog.String("status", status.Status),
		slog.String("uptime", status.Uptime))

	return status
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	result := map[string]interface{}{
		"version":    hs.version,
		"go_version": runtime.Version(),
		"os":         runtime.GOOS,
		"arch":       runtime.GOARCH,
		"uptime":     time.Since(hs.startTime).Seconds(),
		"start_time": hs.startTime.Format(time.RFC3339),
	}

	if hs.buildTime != "" {
		result["build_time"] = hs.buildTime
	}
	if hs.gitCommit != "" {
		result["git_commit"] = hs.gitCommit
	}

	return result
}
