package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"golang.org/x/sync/errgroup"

	"scoreline/internal/config"
	apierrors "scoreline/internal/errors"
	"scoreline/internal/exporter"
	"scoreline/internal/files"
	"scoreline/internal/infrastructure"
	customMiddleware "scoreline/internal/middleware"
	"scoreline/internal/services"
	handlers "scoreline/internal/transport/http"
	"scoreline/internal/validation"
	"scoreline/pkg/contracts"
)

// AppName is logged at startup.
const AppName = "Scoreline - exam score analysis"

// multipartOverhead is added to the upload limit for form boundaries and
// the optional school workbook header.
const multipartOverhead = 1 << 20

// Application represents the main application container
type Application struct {
	Config    *config.Config
	Router    *chi.Mux
	Server    *http.Server
	Logger    *slog.Logger
	Telemetry *infrastructure.Telemetry
	Uploads   *files.Manager

	AnalysisService *services.AnalysisService
	HealthService   *services.HealthService

	// FrontendFS serves the web client at /. Nil disables it.
	FrontendFS fs.FS

	closeLog func() error
}

// NewApplication loads configuration from the environment and builds the
// application.
func NewApplication(frontendFS fs.FS) (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return New(cfg, frontendFS)
}

// New wires every component from cfg.
func New(cfg *config.Config, frontendFS fs.FS) (*Application, error) {
	paths, err := cfg.Paths.Resolve()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}
	cfg.Paths = paths
	if fp := cfg.Logging.FilePath; fp != "" && !filepath.IsAbs(fp) {
		cfg.Logging.FilePath = filepath.Join(paths.BaseDir, fp)
	}

	logger, closeLog, err := infrastructure.NewLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Application starting",
		slog.String("name", AppName),
		slog.String("version", contracts.Version),
		slog.String("upload_dir", paths.UploadDir),
		slog.String("logs_dir", paths.LogsDir))

	if frontendFS == nil && paths.StaticDir != "" {
		frontendFS = os.DirFS(paths.StaticDir)
	}

	tel, err := infrastructure.NewTelemetry(cfg.Telemetry, logger)
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	app := &Application{
		Config:     cfg,
		Logger:     logger,
		Telemetry:  tel,
		FrontendFS: frontendFS,
		closeLog:   closeLog,
	}

	if err := app.initializeServices(); err != nil {
		app.release(context.Background())
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	if err := app.setupRouter(); err != nil {
		app.release(context.Background())
		return nil, fmt.Errorf("failed to set up router: %w", err)
	}

	app.createServer()
	return app, nil
}

func (a *Application) initializeServices() error {
	uploads, err := files.NewManager(a.Config.Paths.UploadDir, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize upload store: %w", err)
	}
	a.Uploads = uploads

	analysis, err := services.NewAnalysisService(services.NewExcelLoader(a.Logger), a.Telemetry, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize analysis service: %w", err)
	}
	a.AnalysisService = analysis

	a.HealthService = services.NewHealthService(a.Config.Paths.UploadDir, a.Logger)
	return nil
}

// setupRouter builds the middleware chain and mounts every handler.
// Order: RequestID → RealIP → observability → logger → recoverer → headers.
func (a *Application) setupRouter() error {
	cfg := a.Config
	errorHandler := apierrors.NewErrorHandler(a.Logger, cfg.Logging.Development)

	observability, err := customMiddleware.NewHTTPObservability(a.Telemetry, a.Logger)
	if err != nil {
		return err
	}

	r := chi.NewRouter()
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(observability.Handler)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(errorHandler))

	secure := customMiddleware.DefaultSecureHeaders()
	secure.DevMode = cfg.Logging.Development
	r.Use(secure.Handler)

	if cfg.Security.EnableCORS {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: cfg.Security.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", customMiddleware.RequestIDHeader},
			ExposedHeaders: []string{customMiddleware.RequestIDHeader, "Content-Disposition"},
			MaxAge:         300,
		}))
	}

	if cfg.Security.RateLimit.Enabled {
		r.Use(customMiddleware.NewRateLimiter(
			cfg.Security.RateLimit.RPS,
			cfg.Security.RateLimit.Burst,
			errorHandler,
			a.Logger,
		).Handler)
	}

	// Must precede Mount so subrouters inherit them.
	r.NotFound(customMiddleware.NotFound(errorHandler))
	r.MethodNotAllowed(customMiddleware.MethodNotAllowed(errorHandler))

	r.Handle("/metrics", a.Telemetry.MetricsHandler())

	healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
	analysisHandler := handlers.NewAnalysisHandler(
		a.AnalysisService,
		a.Uploads,
		validation.NewFileValidator(cfg.Upload.AllowedExtensions, cfg.Upload.MaxBytes, a.Logger),
		exporter.NewWorkbookExporter(a.Logger),
		customMiddleware.NewValidator(a.Logger),
		a.Logger,
		errorHandler,
	)

	r.Route("/api", func(r chi.Router) {
		r.Use(customMiddleware.BodyLimit(cfg.Upload.MaxBytes + multipartOverhead))

		r.Mount("/health", healthHandler.Routes())
		r.Get("/version", healthHandler.Version)

		r.With(customMiddleware.Timeout(cfg.Server.AnalysisTimeout)).Mount("/", analysisHandler.Routes())
	})

	if a.FrontendFS != nil {
		r.Handle("/*", http.FileServerFS(a.FrontendFS))
	}

	a.Router = r
	return nil
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:              a.Config.Server.Addr(),
		Handler:           a.Router,
		ReadTimeout:       a.Config.Server.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      a.Config.Server.WriteTimeout,
		IdleTimeout:       a.Config.Server.IdleTimeout,
		MaxHeaderBytes:    a.Config.Server.MaxHeaderBytes,
		ErrorLog:          slog.NewLogLogger(a.Logger.Handler(), slog.LevelError),
	}
}

// Run listens on the configured address and serves until ctx is cancelled
// or SIGINT/SIGTERM arrives.
func (a *Application) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		a.release(ctx)
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully.
func (a *Application) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.InfoContext(gctx, "Server listening",
			slog.String("address", ln.Addr().String()),
			slog.String("version", contracts.Version))
		if err := a.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		a.Logger.InfoContext(context.Background(), "Shutdown requested")
		return a.Stop(context.Background())
	})

	return g.Wait()
}

// Stop drains in-flight requests, then flushes telemetry and closes the log.
func (a *Application) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
	}
	a.Logger.InfoContext(ctx, "Application shutdown complete")

	if err := a.release(shutdownCtx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (a *Application) release(ctx context.Context) error {
	var errs []error
	if a.Telemetry != nil {
		if err := a.Telemetry.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("telemetry shutdown error: %w", err))
		}
	}
	if a.closeLog != nil {
		if err := a.closeLog(); err != nil {
			errs = append(errs, fmt.Errorf("log close error: %w", err))
		}
		a.closeLog = nil
	}
	return errors.Join(errs...)
}
