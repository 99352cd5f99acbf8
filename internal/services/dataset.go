package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"localtaxdash/internal/config"
	"localtaxdash/internal/dataprocessing"
	"localtaxdash/internal/files"
	"localtaxdash/internal/infrastructure"
	"localtaxdash/pkg/contracts/domain"
)

// Dataset is everything loaded at start: the immutable long table and,
// when available, the region boundaries.
type Dataset struct {
	Source     string
	LoadedAt   time.Time
	Table      *domain.Table
	Boundaries *domain.FeatureCollection
	// BoundaryError records why Boundaries is nil.
	BoundaryError error
}

// DatasetLoader performs the one-time load: read, reshape, then boundaries.
type DatasetLoader struct {
	cfg     config.DashboardConfig
	metrics *infrastructure.BusinessMetrics
	tracer  trace.Tracer
	logger  *slog.Logger
}

// NewDatasetLoader creates a loader. metrics and tracer may be nil.
func NewDatasetLoader(cfg config.DashboardConfig, metrics *infrastructure.BusinessMetrics, tracer trace.Tracer, logger *slog.Logger) *DatasetLoader {
	if logger == nil {
		logger = slog.Default()
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer(infrastructure.ServiceName)
	}
	return &DatasetLoader{
		cfg:     cfg,
		metrics: metrics,
		tracer:  tracer,
		logger:  infrastructure.WithComponent(logger, "dataset_loader"),
	}
}

// Load reads the source table at sourcePath and reshapes it. Any parse,
// format or reshape error aborts the load. A missing or invalid boundary
// file only disables the choropleth unless RequireBoundaries is set.
func (l *DatasetLoader) Load(ctx context.Context, sourcePath, boundaryPath string) (*Dataset, error) {
	ctx, span := l.tracer.Start(ctx, "dataset.load",
		trace.WithAttributes(attribute.String("dataset.source", sourcePath)))
	defer span.End()

	start := time.Now()
	table, err := l.LoadTable(ctx, sourcePath)
	if err != nil {
		l.recordLoadError(ctx, err)
		infrastructure.RecordError(ctx, err)
		return nil, err
	}

	ds := &Dataset{
		Source:   sourcePath,
		LoadedAt: time.Now(),
		Table:    table,
	}

	if boundaryPath != "" {
		fc, err := files.LoadBoundaries(boundaryPath, l.cfg.BoundaryKey)
		switch {
		case err == nil:
			ds.Boundaries = &fc
		case l.cfg.RequireBoundaries:
			l.recordLoadError(ctx, err)
			infrastructure.RecordError(ctx, err)
			return nil, fmt.Errorf("load boundaries: %w", err)
		default:
			ds.BoundaryError = err
			l.logger.WarnContext(ctx, "boundaries unavailable, choropleth disabled",
				slog.String("path", boundaryPath),
				slog.String("error", err.Error()))
		}
	}

	duration := time.Since(start)
	if l.metrics != nil {
		l.metrics.DatasetRowsLoaded.Add(ctx, int64(table.Len()))
		l.metrics.DatasetLoadDuration.Record(ctx, duration.Seconds())
	}
	span.SetAttributes(
		attribute.Int("dataset.rows", table.Len()),
		attribute.Bool("dataset.boundaries", ds.Boundaries != nil),
	)

	l.logger.InfoContext(ctx, "dataset loaded",
		slog.String("source", sourcePath),
		slog.Int("rows", table.Len()),
		slog.Int("entities", len(table.Entities())),
		slog.Any("years", table.Years()),
		slog.Bool("boundaries", ds.Boundaries != nil),
		slog.Duration("duration", duration))

	return ds, nil
}

// LoadTable reads and reshapes the source table only.
func (l *DatasetLoader) LoadTable(ctx context.Context, sourcePath string) (*domain.Table, error) {
	opts := []files.LoaderOption{files.WithLogger(l.logger)}
	if l.cfg.SourceSheet != "" {
		opts = append(opts, files.WithSheet(l.cfg.SourceSheet))
	}
	raw, err := files.NewLoader(l.cfg.EntityColumn, opts...).Load(ctx, sourcePath)
	if err != nil {
		return nil, fmt.Errorf("load source: %w", err)
	}

	return l.reshape(raw, sourcePath)
}

// ReshapeRaw reshapes an already-read raw table, e.g. one streamed from stdin.
func (l *DatasetLoader) ReshapeRaw(raw domain.RawTable, source string) (*domain.Table, error) {
	return l.reshape(raw, source)
}

func (l *DatasetLoader) reshape(raw domain.RawTable, source string) (*domain.Table, error) {
	reshapeOpts := dataprocessing.DefaultReshapeOptions()
	if l.cfg.ExcludedEntities != nil {
		reshapeOpts.ExcludeEntities = l.cfg.ExcludedEntities
	}
	reshapeOpts.Logger = l.logger

	table, err := dataprocessing.Reshape(raw, reshapeOpts)
	if err != nil {
		return nil, fmt.Errorf("reshape %s: %w", source, err)
	}
	return table, nil
}

func (l *DatasetLoader) recordLoadError(ctx context.Context, err error) {
	if l.metrics == nil {
		return
	}
	kind := "io"
	switch {
	case errors.Is(err, dataprocessing.ErrParse):
		kind = "parse"
	case errors.Is(err, dataprocessing.ErrFormat):
		kind = "format"
	case errors.Is(err, dataprocessing.ErrReshape):
		kind = "reshape"
	}
	l.metrics.DatasetLoadErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("error.kind", kind)))
}
