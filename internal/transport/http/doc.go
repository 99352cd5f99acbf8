// Package http implements the HTTP handlers of the dashboard. Handlers stay
// thin: they parse and validate the query, call the service, and render the
// result as JSON with go-chi/render.
//
// # Routes
//
//	GET /api/dashboard/options
//	GET /api/dashboard/selection?year=&category=&sort=value|entity
//	GET /api/dashboard/deltas?year=&category=
//	GET /api/dashboard/movers?year=&category=
//	GET /api/dashboard/migration?year=&category=
//	GET /api/dashboard/charts/{heatmap,timeseries,pie,bar,choropleth}
//	GET /api/dashboard/export/{long,deltas}.{csv,xlsx}
//	GET /api/health, /api/health/ready, /api/health/live, /api/health/dataset
//	GET /api/version
//	GET /metrics
//
// A query that matches nothing is answered with 200 and "no_data": true.
//
// # Error Handling
//
// All errors follow RFC 7807 Problem Details:
//
//	{
//	    "type": "/errors/validation",
//	    "title": "Bad Request",
//	    "status": 400,
//	    "detail": "Request validation failed",
//	    "instance": "/api/dashboard/deltas",
//	    "errors": [{"field": "year", "message": "year must be a valid integer"}]
//	}
//
// Service sentinels are mapped before rendering: a missing dataset or
// missing boundaries become 503, invalid input becomes 400.
package http
