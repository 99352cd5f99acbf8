package services

import "errors"

// Dashboard service errors
var (
	// ErrDatasetUnavailable is returned by every query when no table is loaded.
	ErrDatasetUnavailable = errors.New("dataset not loaded")

	// ErrBoundariesUnavailable is returned by the choropleth when the
	// boundary file could not be loaded.
	ErrBoundariesUnavailable = errors.New("region boundaries not loaded")

	// ErrInvalidInput reports a query argument outside the accepted set.
	ErrInvalidInput = errors.New("invalid input")
)
