// Package services implements the business layer of the dashboard. It sits
// between the HTTP handlers and the pure reshape and delta functions in
// dataprocessing.
//
// DatasetLoader performs the single load at start: the wide source file is
// read, reshaped into the long table, and the region boundaries are decoded.
// Any parse, format or reshape error aborts the load. Missing boundaries only
// disable the choropleth unless they are configured as required.
//
// DashboardService holds the resulting table and answers every query by
// recomputing from it. Nothing is cached and nothing is mutated, so handlers
// may call it concurrently. A query that matches nothing is answered with
// NoData set, never with an error.
//
// HealthService backs the liveness, readiness and version probes.
package services
