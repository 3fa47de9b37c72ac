// Package services implements the business logic layer of the trading
// dashboard. It sits between the HTTP handlers and the ingestion pipeline.
//
// # Available Services
//
//	- JournalService: processes uploads, caches parsed journals by content
//	  hash and serves filtered analyses, calendars and exports
//	- HealthService: reports liveness and build information
//
// # Error Handling
//
// Services return sentinel errors from errors.go, wrapped with context.
// Handlers match them with errors.Is. Schema failures from the pipeline are
// passed through unchanged as *dataprocessing.SchemaError.
//
// # Testing
//
// Services are constructed directly with config.Default() values and an
// in-memory OpenTelemetry reader where metrics are asserted.
package services
