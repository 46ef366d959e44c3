// Package app wires the score analysis service together and runs it.
//
// # Initialization Flow
//
//	1. Resolve paths and create the upload and log directories
//	2. Initialize logging and telemetry
//	3. Create the upload store and the analysis and health services
//	4. Build the chi router and its middleware chain
//	5. Configure the HTTP server
//
// # Usage
//
//	application, err := app.NewApplication(frontendFS)
//	if err != nil {
//	    return err
//	}
//	return application.Run(ctx)
//
// # Graceful Shutdown
//
// Run stops on SIGINT, SIGTERM or context cancellation. In-flight requests
// get Server.ShutdownTimeout to finish, then telemetry is flushed and the
// log file closed.
//
// Initialization errors are returned to the caller; the package never calls
// os.Exit.
package app
