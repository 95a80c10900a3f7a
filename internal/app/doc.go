// Package app wires the dataclean web service together and runs it.
//
// # Initialization Flow
//
//	1. Initialize OpenTelemetry and the business metrics
//	2. Create the dataset store, cleaner and profiler
//	3. Initialize the dataset and health services
//	4. Set up handlers and the middleware chain
//	5. Configure the HTTP server
//
// # Usage
//
//	application, err := app.NewApplication(cfg, logger)
//	if err != nil {
//	    return err
//	}
//	return application.Run(ctx)
//
// # Graceful Shutdown
//
// Run returns once ctx is cancelled (the binaries cancel it on SIGINT and
// SIGTERM). In-flight requests get Server.ShutdownTimeout to finish, the
// store cleanup loop stops, and telemetry is flushed.
//
// # Error Handling
//
// Initialization errors are returned to the caller; the package never
// calls os.Exit.
package app
