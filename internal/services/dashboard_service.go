package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"localtaxdash/internal/config"
	"localtaxdash/internal/dataprocessing"
	"localtaxdash/internal/exporter"
	"localtaxdash/internal/infrastructure"
	"localtaxdash/pkg/contracts/domain"
)

// Sort orders accepted by Selection.
const (
	SortByValue  = "value"
	SortByEntity = "entity"
)

// DashboardService answers every dashboard query from the long table loaded
// at start. The table is never modified after construction, so the service
// is safe for concurrent use without locking.
type DashboardService struct {
	table      *domain.Table
	boundaries *domain.FeatureCollection
	cfg        config.DashboardConfig
	summarizer *dataprocessing.Summarizer
	metrics    *infrastructure.BusinessMetrics
	tracer     trace.Tracer
	logger     *slog.Logger
}

// NewDashboardService creates the service over ds. A nil ds yields a service
// that answers ErrDatasetUnavailable. metrics and tracer may be nil.
func NewDashboardService(ds *Dataset, cfg config.DashboardConfig, metrics *infrastructure.BusinessMetrics, tracer trace.Tracer, logger *slog.Logger) *DashboardService {
	if logger == nil {
		logger = slog.Default()
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer(infrastructure.ServiceName)
	}
	if cfg.MigrationThreshold <= 0 {
		cfg.MigrationThreshold = config.DefaultMigrationThreshold
	}
	if cfg.BoundaryKey == "" {
		cfg.BoundaryKey = dataprocessing.DefaultBoundaryKey
	}

	s := &DashboardService{
		cfg:        cfg,
		summarizer: dataprocessing.NewSummarizer(logger),
		metrics:    metrics,
		tracer:     tracer,
		logger:     infrastructure.WithComponent(logger, "dashboard_service"),
	}
	if ds != nil {
		s.table = ds.Table
		s.boundaries = ds.Boundaries
	}
	return s
}

// DefaultCategory is the category used when a query omits one.
func (s *DashboardService) DefaultCategory() domain.Category {
	if c, err := domain.ParseCategory(s.cfg.DefaultCategory); err == nil {
		return c
	}
	return domain.CategoryAmount
}

// DefaultTheme is the color theme used when a query omits one.
func (s *DashboardService) DefaultTheme() domain.ColorTheme {
	if t := domain.ColorTheme(s.cfg.DefaultTheme); t.Valid() {
		return t
	}
	return domain.ThemeBlues
}

// ResolveQuery fills in the defaults for an omitted year (latest year in the
// data) and an omitted category.
func (s *DashboardService) ResolveQuery(year int, category domain.Category) (int, domain.Category) {
	if year == 0 && s.table != nil {
		if years := s.table.Years(); len(years) > 0 {
			year = years[len(years)-1]
		}
	}
	if category == "" {
		category = s.DefaultCategory()
	}
	return year, category
}

// Options lists the selector values: years newest first, categories, themes
// and the defaults.
func (s *DashboardService) Options(ctx context.Context) (domain.Options, error) {
	ctx, span, err := s.begin(ctx, "options")
	defer span.End()
	if err != nil {
		return domain.Options{}, err
	}

	years := s.table.Years()
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	defaultYear, defaultCategory := s.ResolveQuery(0, "")

	opts := domain.Options{
		Years:           years,
		Categories:      domain.Categories(),
		ColorThemes:     domain.ColorThemes(),
		DefaultYear:     defaultYear,
		DefaultCategory: defaultCategory,
		DefaultTheme:    s.DefaultTheme(),
	}
	s.metrics.RecordQuery(ctx, "options", len(years) == 0)
	return opts, nil
}

// Selection returns the rows for year and, when category is non-nil, one
// category. Rows are ordered by value descending, or by entity when order
// is SortByEntity.
func (s *DashboardService) Selection(ctx context.Context, year int, category *domain.Category, order string) (domain.Selection, error) {
	ctx, span, err := s.begin(ctx, "selection")
	defer span.End()
	if err != nil {
		return domain.Selection{}, err
	}

	switch order {
	case "", SortByValue, SortByEntity:
	default:
		return domain.Selection{}, fmt.Errorf("%w: sort %q", ErrInvalidInput, order)
	}

	year, _ = s.ResolveQuery(year, "")
	sel := dataprocessing.Select(s.table, dataprocessing.Filter{Year: year, Category: category})
	if order == SortByEntity {
		sel.Rows = dataprocessing.SortByEntity(sel.Rows)
	} else {
		sel.Rows = dataprocessing.SortByValue(sel.Rows, true)
	}

	s.finish(ctx, span, "selection", year, sel.NoData, len(sel.Rows))
	return sel, nil
}

// Deltas computes the year-over-year delta set for (year, category).
func (s *DashboardService) Deltas(ctx context.Context, year int, category domain.Category) (domain.DeltaSet, error) {
	ctx, span, err := s.begin(ctx, "deltas")
	defer span.End()
	if err != nil {
		return domain.DeltaSet{}, err
	}

	set := s.deltas(ctx, year, category)
	span.SetAttributes(attribute.Bool("deltas.degenerate", set.Degenerate))
	s.finish(ctx, span, "deltas", set.Year, set.NoData, len(set.Rows))
	return set, nil
}

// Movers returns the largest increase and decrease for (year, category).
func (s *DashboardService) Movers(ctx context.Context, year int, category domain.Category) (domain.Movers, error) {
	ctx, span, err := s.begin(ctx, "movers")
	defer span.End()
	if err != nil {
		return domain.Movers{}, err
	}

	movers := dataprocessing.TopMovers(s.deltas(ctx, year, category))
	s.finish(ctx, span, "movers", movers.Year, movers.NoData, 2)
	return movers, nil
}

// Migration partitions the delta set for (year, category) by the configured
// threshold.
func (s *DashboardService) Migration(ctx context.Context, year int, category domain.Category) (domain.Migration, error) {
	ctx, span, err := s.begin(ctx, "migration")
	defer span.End()
	if err != nil {
		return domain.Migration{}, err
	}

	m := dataprocessing.PartitionMigration(s.deltas(ctx, year, category), s.cfg.MigrationThreshold)
	span.SetAttributes(
		attribute.Int("migration.increased", len(m.Increased)),
		attribute.Int("migration.decreased", len(m.Decreased)),
	)
	s.finish(ctx, span, "migration", m.Year, m.NoData, len(m.Increased)+len(m.Decreased))
	return m, nil
}

// Heatmap returns the entity by year grid for category.
func (s *DashboardService) Heatmap(ctx context.Context, category domain.Category) (domain.Heatmap, error) {
	ctx, span, err := s.begin(ctx, "heatmap")
	defer span.End()
	if err != nil {
		return domain.Heatmap{}, err
	}

	_, category = s.ResolveQuery(0, category)
	hm := dataprocessing.Heatmap(s.table, category)
	s.finish(ctx, span, "heatmap", 0, hm.NoData, len(hm.Cells))
	return hm, nil
}

// TimeSeries returns one series per entity for category.
func (s *DashboardService) TimeSeries(ctx context.Context, category domain.Category) (domain.TimeSeries, error) {
	ctx, span, err := s.begin(ctx, "timeseries")
	defer span.End()
	if err != nil {
		return domain.TimeSeries{}, err
	}

	_, category = s.ResolveQuery(0, category)
	ts := dataprocessing.TimeSeries(s.table, category)
	s.finish(ctx, span, "timeseries", 0, ts.NoData, len(ts.Series))
	return ts, nil
}

// Pie returns each entity's share of the (year, category) total.
func (s *DashboardService) Pie(ctx context.Context, year int, category domain.Category) (domain.Pie, error) {
	ctx, span, err := s.begin(ctx, "pie")
	defer span.End()
	if err != nil {
		return domain.Pie{}, err
	}

	year, category = s.ResolveQuery(year, category)
	pie := dataprocessing.PieShares(s.table, year, category)
	s.finish(ctx, span, "pie", year, pie.NoData, len(pie.Slices))
	return pie, nil
}

// Bar returns the (year, category) selection ordered by value descending.
func (s *DashboardService) Bar(ctx context.Context, year int, category domain.Category) (domain.Selection, error) {
	ctx, span, err := s.begin(ctx, "bar")
	defer span.End()
	if err != nil {
		return domain.Selection{}, err
	}

	year, category = s.ResolveQuery(year, category)
	sel := dataprocessing.Select(s.table, dataprocessing.Filter{Year: year, Category: &category})
	sel.Rows = dataprocessing.SortByValue(sel.Rows, true)
	s.finish(ctx, span, "bar", year, sel.NoData, len(sel.Rows))
	return sel, nil
}

// Choropleth joins the (year, category) selection to the region boundaries.
func (s *DashboardService) Choropleth(ctx context.Context, year int, category domain.Category, theme domain.ColorTheme) (domain.Choropleth, error) {
	ctx, span, err := s.begin(ctx, "choropleth")
	defer span.End()
	if err != nil {
		return domain.Choropleth{}, err
	}
	if s.boundaries == nil {
		span.SetStatus(codes.Error, ErrBoundariesUnavailable.Error())
		return domain.Choropleth{}, ErrBoundariesUnavailable
	}
	if theme == "" {
		theme = s.DefaultTheme()
	}
	if !theme.Valid() {
		return domain.Choropleth{}, fmt.Errorf("%w: theme %q", ErrInvalidInput, theme)
	}

	year, category = s.ResolveQuery(year, category)
	sel := dataprocessing.Select(s.table, dataprocessing.Filter{Year: year, Category: &category})
	ch := dataprocessing.Choropleth(sel, *s.boundaries, s.cfg.BoundaryKey, theme)
	if len(ch.Unmatched) > 0 {
		s.logger.DebugContext(ctx, "entities without boundary",
			slog.Any("entities", ch.Unmatched))
	}
	s.finish(ctx, span, "choropleth", year, ch.NoData, len(ch.Features.Features))
	return ch, nil
}

// LongRows returns the whole long table ordered by entity, year and category.
func (s *DashboardService) LongRows(ctx context.Context) ([]domain.LongRow, error) {
	ctx, span, err := s.begin(ctx, "long")
	defer span.End()
	if err != nil {
		return nil, err
	}

	rows := dataprocessing.SortByEntity(s.table.Rows())
	s.finish(ctx, span, "long", 0, len(rows) == 0, len(rows))
	return rows, nil
}

// Summary describes the loaded table.
func (s *DashboardService) Summary(ctx context.Context) (dataprocessing.DatasetSummary, error) {
	ctx, span, err := s.begin(ctx, "summary")
	defer span.End()
	if err != nil {
		return dataprocessing.DatasetSummary{}, err
	}
	return s.summarizer.Summarize(ctx, s.table), nil
}

// ExportLong writes the long table to w in format f.
func (s *DashboardService) ExportLong(ctx context.Context, w io.Writer, f exporter.Format) (int, error) {
	rows, err := s.LongRows(ctx)
	if err != nil {
		return 0, err
	}
	n, err := exporter.WriteLong(w, rows, f)
	if err != nil {
		return n, fmt.Errorf("export long table: %w", err)
	}
	s.recordExport(ctx, "long", f, n)
	return n, nil
}

// ExportDeltas writes the delta set for (year, category) to w in format f.
func (s *DashboardService) ExportDeltas(ctx context.Context, w io.Writer, year int, category domain.Category, f exporter.Format) (int, error) {
	set, err := s.Deltas(ctx, year, category)
	if err != nil {
		return 0, err
	}
	n, err := exporter.WriteDeltas(w, set, f)
	if err != nil {
		return n, fmt.Errorf("export deltas %d %s: %w", set.Year, set.Category, err)
	}
	s.recordExport(ctx, "deltas", f, n)
	return n, nil
}

func (s *DashboardService) deltas(ctx context.Context, year int, category domain.Category) domain.DeltaSet {
	year, category = s.ResolveQuery(year, category)
	set := dataprocessing.CalculateDeltas(s.table, year, category)
	if s.metrics != nil {
		s.metrics.DeltaComputations.Add(ctx, 1, metric.WithAttributes(
			attribute.String("category", string(category)),
			attribute.Bool("degenerate", set.Degenerate)))
	}
	return set
}

func (s *DashboardService) begin(ctx context.Context, kind string) (context.Context, trace.Span, error) {
	ctx, span := s.tracer.Start(ctx, "dashboard."+kind)
	if err := ctx.Err(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return ctx, span, err
	}
	if s.table == nil {
		span.SetStatus(codes.Error, ErrDatasetUnavailable.Error())
		return ctx, span, ErrDatasetUnavailable
	}
	return ctx, span, nil
}

func (s *DashboardService) finish(ctx context.Context, span trace.Span, kind string, year int, noData bool, size int) {
	span.SetAttributes(
		attribute.Int("query.year", year),
		attribute.Int("result.size", size),
		attribute.Bool("result.no_data", noData),
	)
	s.metrics.RecordQuery(ctx, kind, noData)

	if noData {
		s.logger.DebugContext(ctx, "query matched no data",
			slog.String("kind", kind),
			slog.Int("year", year))
	}
}

func (s *DashboardService) recordExport(ctx context.Context, kind string, f exporter.Format, n int) {
	if s.metrics != nil {
		s.metrics.ExportRowsWritten.Add(ctx, int64(n), metric.WithAttributes(
			attribute.String("export.kind", kind),
			attribute.String("export.format", string(f))))
	}
	s.logger.InfoContext(ctx, "export written",
		slog.String("kind", kind),
		slog.String("format", string(f)),
		slog.Int("rows", n))
}
