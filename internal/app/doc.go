// Package app wires the dashboard server together and manages its lifecycle.
//
// # Initialization Flow
//
// NewApplication performs, in order:
//
//	1. Load configuration from environment and files
//	2. Initialize logging
//	3. Resolve and create the data, export and log directories
//	4. Initialize OpenTelemetry tracing and the Prometheus exporter
//	5. Load the wide source file and reshape it into the long table
//	6. Build the dashboard and health services over the loaded dataset
//	7. Set up middleware and routes
//	8. Create the HTTP server
//
// The dataset is loaded exactly once. A parse, format or reshape failure
// aborts start-up; missing boundaries only disable the choropleth unless
// boundaries are configured as required.
//
// # Usage
//
//	application, err := app.NewApplication(nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := application.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Graceful Shutdown
//
// Run returns after SIGINT, SIGTERM or cancellation of its context. In-flight
// requests are drained within the configured shutdown timeout and telemetry
// providers are flushed.
//
// # Error Handling
//
// All initialization errors are returned to the caller. The package never
// calls os.Exit, leaving exit codes to main.
package app
