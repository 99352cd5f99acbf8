package config

import "time"

// Application constants
const (
	AppName    = "localtaxdash"
	AppVersion = "1.0.0"

	// File Paths (relative to the base directory)
	DefaultDataDir      = "data"
	DefaultLogsDir      = "logs"
	DefaultExportDir    = "exports"
	DefaultSourceFile   = "2023_시도별_지방세_구성비율_처리x.csv"
	DefaultBoundaryFile = "시도 경계.json"

	// Dataset conventions
	DefaultEntityColumn       = "시도별"
	DefaultTotalEntity        = "합계"
	DefaultBoundaryKey        = "NAME"
	DefaultMigrationThreshold = 500.0

	// Rate Limiting
	DefaultRateLimit = 100 // requests per second
	DefaultBurstSize = 50

	// Network Timeouts
	DefaultHTTPTimeout = 30 * time.Second
)

// Query bounds accepted by the API.
const (
	MinYear = 1900
	MaxYear = 2100
)
