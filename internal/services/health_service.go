package services

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"localtaxdash/internal/dataprocessing"
	"localtaxdash/internal/infrastructure"
	"localtaxdash/pkg/contracts"
)

// Health states reported by the probes.
const (
	StatusOK       = "ok"
	StatusReady    = "ready"
	StatusNotReady = "not_ready"
	StatusDegraded = "degraded"
	StatusAlive    = "alive"
)

// HealthService provides health check functionality
type HealthService struct {
	dataset    *Dataset
	summarizer *dataprocessing.Summarizer
	startTime  time.Time
	logger     *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Runtime   map[string]interface{}   `json:"runtime,omitempty"`
	Services  map[string]ServiceHealth `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// DatasetStatus describes the loaded dataset for the health endpoint.
type DatasetStatus struct {
	Source     string                        `json:"source"`
	LoadedAt   time.Time                     `json:"loaded_at"`
	Boundaries bool                          `json:"boundaries"`
	Summary    dataprocessing.DatasetSummary `json:"summary"`
}

// NewHealthService creates a new health service over ds, which may be nil
// when the load has not happened.
func NewHealthService(ds *Dataset, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		dataset:    ds,
		summarizer: dataprocessing.NewSummarizer(logger),
		startTime:  time.Now(),
		logger:     infrastructure.WithComponent(logger, "health_service"),
	}
}

// HealthCheck returns overall health status. The dashboard degrades, rather
// than fails, when only the boundaries are missing.
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	status := hs.ReadinessCheck(ctx)
	switch {
	case status.Status == StatusNotReady:
	case status.Services["boundaries"].Status != StatusReady:
		status.Status = StatusDegraded
	default:
		status.Status = StatusOK
	}

	hs.logger.DebugContext(ctx, "health check completed",
		slog.String("status", status.Status))
	return status
}

// ReadinessCheck returns readiness status. Readiness requires the long table.
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    StatusReady,
		Timestamp: time.Now(),
		Version:   contracts.Version,
		Services: map[string]ServiceHealth{
			"dataset":    hs.checkDataset(),
			"boundaries": hs.checkBoundaries(),
		},
	}
	if status.Services["dataset"].Status != StatusReady {
		status.Status = StatusNotReady
	}
	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    StatusAlive,
		Timestamp: time.Now(),
		Version:   contracts.Version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	info := contracts.GetVersionInfo()
	return map[string]interface{}{
		"version":      info.Version,
		"api_version":  info.APIVersion,
		"build_time":   info.BuildTime,
		"git_commit":   info.GitCommit,
		"go_version":   info.GoVersion,
		"os":           info.OS,
		"arch":         info.Architecture,
		"uptime":       time.Since(hs.startTime).Seconds(),
		"start_time":   hs.startTime.Format(time.RFC3339),
		"current_time": time.Now().Format(time.RFC3339),
	}
}

// DatasetStatus summarizes the loaded dataset.
func (hs *HealthService) DatasetStatus(ctx context.Context) (DatasetStatus, error) {
	if hs.dataset == nil || hs.dataset.Table == nil {
		return DatasetStatus{}, ErrDatasetUnavailable
	}
	return DatasetStatus{
		Source:     hs.dataset.Source,
		LoadedAt:   hs.dataset.LoadedAt,
		Boundaries: hs.dataset.Boundaries != nil,
		Summary:    hs.summarizer.Summarize(ctx, hs.dataset.Table),
	}, nil
}

func (hs *HealthService) checkDataset() ServiceHealth {
	if hs.dataset == nil || hs.dataset.Table == nil {
		return ServiceHealth{Status: StatusNotReady, Message: ErrDatasetUnavailable.Error()}
	}
	if hs.dataset.Table.Len() == 0 {
		return ServiceHealth{Status: StatusNotReady, Message: "dataset is empty"}
	}
	return ServiceHealth{
		Status:  StatusReady,
		Message: fmt.Sprintf("%d rows loaded", hs.dataset.Table.Len()),
	}
}

func (hs *HealthService) checkBoundaries() ServiceHealth {
	switch {
	case hs.dataset != nil && hs.dataset.Boundaries != nil:
		return ServiceHealth{
			Status:  StatusReady,
			Message: fmt.Sprintf("%d regions", len(hs.dataset.Boundaries.Features)),
		}
	case hs.dataset != nil && hs.dataset.BoundaryError != nil:
		return ServiceHealth{Status: StatusNotReady, Message: hs.dataset.BoundaryError.Error()}
	default:
		return ServiceHealth{Status: StatusNotReady, Message: ErrBoundariesUnavailable.Error()}
	}
}
