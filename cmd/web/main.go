// Command web serves the score analysis HTTP API.
package main

import (
	"context"
	"log/slog"
	"os"

	"scoreline/internal/app"
)

func main() {
	// The web client is served from Paths.StaticDir when configured.
	application, err := app.NewApplication(nil)
	if err != nil {
		slog.Error("Failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := application.Run(context.Background()); err != nil {
		application.Logger.Error("Application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
