// Package app wires the trading dashboard HTTP service together and manages
// its lifecycle.
//
// # Initialization Flow
//
//	1. Load configuration (defaults, YAML file, environment)
//	2. Initialize logging and OpenTelemetry
//	3. Build the pipeline processor with the configured column candidates
//	4. Create the journal and health services
//	5. Set up middleware and routes on a chi router
//	6. Configure the HTTP server
//
// # Usage
//
//	application, err := app.NewApplication()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := application.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Graceful Shutdown
//
// Run blocks until SIGINT or SIGTERM, then drains in-flight requests within
// server.shutdown_timeout and flushes the telemetry providers. The package
// never calls os.Exit.
package app
