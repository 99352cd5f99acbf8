package http

import (
	"context"
	"io"

	"localtaxdash/internal/exporter"
	"localtaxdash/pkg/contracts/domain"
)

// DashboardServiceInterface defines the dashboard queries served over HTTP.
// A zero year or empty category asks the service for its default.
type DashboardServiceInterface interface {
	ResolveQuery(year int, category domain.Category) (int, domain.Category)

	Options(ctx context.Context) (domain.Options, error)
	Selection(ctx context.Context, year int, category *domain.Category, order string) (domain.Selection, error)
	Deltas(ctx context.Context, year int, category domain.Category) (domain.DeltaSet, error)
	Movers(ctx context.Context, year int, category domain.Category) (domain.Movers, error)
	Migration(ctx context.Context, year int, category domain.Category) (domain.Migration, error)

	// Chart data
	Heatmap(ctx context.Context, category domain.Category) (domain.Heatmap, error)
	TimeSeries(ctx context.Context, category domain.Category) (domain.TimeSeries, error)
	Pie(ctx context.Context, year int, category domain.Category) (domain.Pie, error)
	Bar(ctx context.Context, year int, category domain.Category) (domain.Selection, error)
	Choropleth(ctx context.Context, year int, category domain.Category, theme domain.ColorTheme) (domain.Choropleth, error)

	ExportLong(ctx context.Context, w io.Writer, f exporter.Format) (int, error)
	ExportDeltas(ctx context.Context, w io.Writer, year int, category domain.Category, f exporter.Format) (int, error)
}
