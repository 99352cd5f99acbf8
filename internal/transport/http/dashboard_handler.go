package http

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "localtaxdash/internal/errors"
	"localtaxdash/internal/exporter"
	"localtaxdash/internal/middleware"
	"localtaxdash/internal/services"
	"localtaxdash/pkg/contracts/domain"
)

// Export resources served under /export/{file}.
const (
	exportLong   = "long"
	exportDeltas = "deltas"
)

// DashboardHandler serves the dashboard JSON API with RFC 7807 errors
type DashboardHandler struct {
	service      DashboardServiceInterface
	validator    *middleware.QueryValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service DashboardServiceInterface, validator *middleware.QueryValidator, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if validator == nil {
		validator = middleware.NewQueryValidator(logger)
	}
	return &DashboardHandler{
		service:      service,
		validator:    validator,
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the dashboard routes, mounted at /api/dashboard
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Get("/options", h.GetOptions)
		r.Get("/selection", h.GetSelection)
		r.Get("/deltas", h.GetDeltas)
		r.Get("/movers", h.GetMovers)
		r.Get("/migration", h.GetMigration)

		r.Route("/charts", func(r chi.Router) {
			r.Get("/heatmap", h.GetHeatmap)
			r.Get("/timeseries", h.GetTimeSeries)
			r.Get("/pie", h.GetPie)
			r.Get("/bar", h.GetBar)
			r.Get("/choropleth", h.GetChoropleth)
		})
	})

	r.Get("/export/{file}", h.Export)

	return r
}

// GetOptions handles GET /api/dashboard/options
func (h *DashboardHandler) GetOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := h.service.Options(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, opts)
}

// GetSelection handles GET /api/dashboard/selection
func (h *DashboardHandler) GetSelection(w http.ResponseWriter, r *http.Request) {
	q, ok := h.query(w, r)
	if !ok {
		return
	}

	var category *domain.Category
	if q.Category != "" {
		c := q.CategoryValue("")
		category = &c
	}
	sel, err := h.service.Selection(r.Context(), q.Year, category, q.Sort)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, sel)
}

// GetDeltas handles GET /api/dashboard/deltas
func (h *DashboardHandler) GetDeltas(w http.ResponseWriter, r *http.Request) {
	q, ok := h.query(w, r)
	if !ok {
		return
	}
	set, err := h.service.Deltas(r.Context(), q.Year, q.CategoryValue(""))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, set)
}

// GetMovers handles GET /api/dashboard/movers
func (h *DashboardHandler) GetMovers(w http.ResponseWriter, r *http.Request) {
	q, ok := h.query(w, r)
	if !ok {
		return
	}
	movers, err := h.service.Movers(r.Context(), q.Year, q.CategoryValue(""))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, movers)
}

// GetMigration handles GET /api/dashboard/migration
func (h *DashboardHandler) GetMigration(w http.ResponseWriter, r *http.Request) {
	q, ok := h.query(w, r)
	if !ok {
		return
	}
	m, err := h.service.Migration(r.Context(), q.Year, q.CategoryValue(""))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, m)
}

// GetHeatmap handles GET /api/dashboard/charts/heatmap
func (h *DashboardHandler) GetHeatmap(w http.ResponseWriter, r *http.Request) {
	q, ok := h.query(w, r)
	if !ok {
		return
	}
	hm, err := h.service.Heatmap(r.Context(), q.CategoryValue(""))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, hm)
}

// GetTimeSeries handles GET /api/dashboard/charts/timeseries
func (h *DashboardHandler) GetTimeSeries(w http.ResponseWriter, r *http.Request) {
	q, ok := h.query(w, r)
	if !ok {
		return
	}
	ts, err := h.service.TimeSeries(r.Context(), q.CategoryValue(""))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, ts)
}

// GetPie handles GET /api/dashboard/charts/pie
func (h *DashboardHandler) GetPie(w http.ResponseWriter, r *http.Request) {
	q, ok := h.query(w, r)
	if !ok {
		return
	}
	pie, err := h.service.Pie(r.Context(), q.Year, q.CategoryValue(""))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, pie)
}

// GetBar handles GET /api/dashboard/charts/bar
func (h *DashboardHandler) GetBar(w http.ResponseWriter, r *http.Request) {
	q, ok := h.query(w, r)
	if !ok {
		return
	}
	sel, err := h.service.Bar(r.Context(), q.Year, q.CategoryValue(""))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, sel)
}

// GetChoropleth handles GET /api/dashboard/charts/choropleth
func (h *DashboardHandler) GetChoropleth(w http.ResponseWriter, r *http.Request) {
	q, ok := h.query(w, r)
	if !ok {
		return
	}
	ch, err := h.service.Choropleth(r.Context(), q.Year, q.CategoryValue(""), q.ThemeValue(""))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	render.JSON(w, r, ch)
}

// Export handles GET /api/dashboard/export/{file}, where file is
// long.csv, long.xlsx, deltas.csv or deltas.xlsx.
func (h *DashboardHandler) Export(w http.ResponseWriter, r *http.Request) {
	file := chi.URLParam(r, "file")
	resource, ext, found := strings.Cut(file, ".")
	if !found || (resource != exportLong && resource != exportDeltas) {
		h.errorHandler.HandleError(w, r, apierrors.NotFoundError("export "+file))
		return
	}
	format, err := exporter.ParseFormat(ext)
	if err != nil || ext == "" {
		h.errorHandler.HandleError(w, r, apierrors.NotFoundError("export "+file))
		return
	}

	q, ok := h.query(w, r)
	if !ok {
		return
	}

	var (
		buf  bytes.Buffer
		name string
		n    int
	)
	if resource == exportLong {
		name = exporter.LongFileName(format)
		n, err = h.service.ExportLong(r.Context(), &buf, format)
	} else {
		year, category := h.service.ResolveQuery(q.Year, q.CategoryValue(""))
		name = exporter.DeltasFileName(year, category, format)
		n, err = h.service.ExportDeltas(r.Context(), &buf, year, category, format)
	}
	if err != nil {
		if !errors.Is(err, services.ErrDatasetUnavailable) && r.Context().Err() == nil {
			err = apierrors.ExportError(err)
		}
		h.fail(w, r, err)
		return
	}

	h.logger.DebugContext(r.Context(), "serving export",
		slog.String("file", name),
		slog.Int("rows", n),
		slog.Int("bytes", buf.Len()))

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

func (h *DashboardHandler) query(w http.ResponseWriter, r *http.Request) (middleware.DashboardQuery, bool) {
	q, err := h.validator.ParseDashboardQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return q, false
	}
	return q, true
}

// fail maps service errors onto API errors before responding.
func (h *DashboardHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrDatasetUnavailable):
		err = apierrors.ErrDatasetUnavailable
	case errors.Is(err, services.ErrBoundariesUnavailable):
		err = apierrors.ErrBoundaryUnavailable
	case errors.Is(err, services.ErrInvalidInput):
		err = apierrors.NewValidationError(err.Error())
	}
	h.errorHandler.HandleError(w, r, err)
}
