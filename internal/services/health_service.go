package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	buildTime string
	recon     *ReconService
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Data      DataHealth             `json:"data"`
}

// DataHealth describes the state of the loaded register data.
type DataHealth struct {
	RegistersLoaded bool       `json:"registers_loaded"`
	LoadedAt        *time.Time `json:"loaded_at,omitempty"`
}

// NewHealthService creates a new health service
func NewHealthService(version, buildTime string, recon *ReconService, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		buildTime: buildTime,
		recon:     recon,
		startTime: time.Now(),
		logger:    logger.With(slog.String("component", "health_service")),
	}
}

// Check returns the current health status.
func (h *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   h.version,
		Runtime: map[string]interface{}{
			"go_version":     runtime.Version(),
			"goroutines":     runtime.NumGoroutine(),
			"uptime_seconds": time.Since(h.startTime).Seconds(),
			"build_time":     h.buildTime,
		},
	}

	if h.recon != nil && h.recon.Loaded() {
		status.Data.RegistersLoaded = true
		loadedAt := h.recon.LoadedAt()
		status.Data.LoadedAt = &loadedAt
	} else {
		// The server is up but cannot answer analysis queries yet.
		status.Status = "degraded"
	}

	return status
}
