package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/game-store-service/internal/app/games"
	"github.com/preston-bernstein/game-store-service/internal/app/genres"
	"github.com/preston-bernstein/game-store-service/internal/config"
	httpserver "github.com/preston-bernstein/game-store-service/internal/http"
	"github.com/preston-bernstein/game-store-service/internal/http/handlers"
	"github.com/preston-bernstein/game-store-service/internal/logging"
	"github.com/preston-bernstein/game-store-service/internal/metrics"
	"github.com/preston-bernstein/game-store-service/internal/seed"
	"github.com/preston-bernstein/game-store-service/internal/store"
	"github.com/preston-bernstein/game-store-service/internal/validation"
)

var (
	metricsSetup = metrics.Setup
	openCatalog  = store.Open
)

type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	catalog       store.Catalog
	httpServer    httpServer
	metricsServer httpServer
	metricsStop   func(context.Context) error
}

// New opens the configured store, applies the schema and seed data, and wires
// the HTTP stack on top of it.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	return newServerWithMetrics(ctx, cfg, logger, nil)
}

func newServerWithMetrics(ctx context.Context, cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*Server, error) {
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger, recorder)

	catalog, err := prepareCatalog(ctx, cfg.Database, logger, recorder)
	if err != nil {
		if metricsShutdown != nil {
			_ = metricsShutdown(context.Background())
		}
		return nil, err
	}

	httpSrv := buildHTTPServer(cfg, catalog, games.NewService(catalog), genres.NewService(catalog), logger, recorder)

	return &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		catalog:       catalog,
		httpServer:    httpSrv,
		metricsServer: metricsSrv,
		metricsStop:   metricsShutdown,
	}, nil
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, catalog store.Catalog, httpSrv httpServer) *Server {
	return &Server{
		cfg:        cfg,
		logger:     logger,
		catalog:    catalog,
		httpServer: httpSrv,
	}
}

// prepareCatalog opens the store and brings its schema up to date. A failed
// migration closes the store and is returned to the caller.
func prepareCatalog(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger, recorder *metrics.Recorder) (store.Catalog, error) {
	catalog, err := openCatalog(cfg, logger, recorder)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	if err := catalog.Migrate(ctx); err != nil {
		_ = catalog.Close()
		return nil, fmt.Errorf("migrate store: %w", err)
	}
	logging.Info(logger, "store ready", "driver", cfg.Driver)

	if cfg.Seed {
		if _, err := seed.Apply(ctx, catalog, logger); err != nil {
			_ = catalog.Close()
			return nil, fmt.Errorf("seed store: %w", err)
		}
	}
	return catalog, nil
}

func buildHTTPServer(cfg config.Config, catalog store.Catalog, gameSvc *games.Service, genreSvc *genres.Service, logger *slog.Logger, recorder *metrics.Recorder) httpServer {
	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}

	v := validation.New()
	router := httpserver.NewRouter(httpserver.Handlers{
		Health: handlers.NewHealthHandler(catalog, logger),
		Games:  handlers.NewGamesHandler(gameSvc, v, logger),
		Genres: handlers.NewGenresHandler(genreSvc, v, logger),
	}, logger, recorder)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	return netHTTPServer{srv: srv}
}

// Run starts the HTTP servers, then waits for context cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)

	<-ctx.Done()
	logging.Info(s.logger, "shutdown signal received")

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	logging.Info(s.logger, "http server starting", slog.String("addr", s.httpServer.Addr()))
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	logging.Info(s.logger, "metrics server starting", slog.String("addr", s.metricsServer.Addr()))
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		logging.Error(s.logger, "graceful shutdown failed", err)
	}

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics shutdown failed", "error", err)
		}
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics server shutdown failed", "error", err)
		}
	}

	// In-flight requests are drained above, so the store can go.
	if s.catalog != nil {
		if err := s.catalog.Close(); err != nil {
			logging.Error(s.logger, "failed to close store", err)
		}
	}

	logging.Info(s.logger, "shutdown complete")
}

func buildMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*metrics.Recorder, httpServer, func(context.Context) error) {
	if recorder != nil {
		return recorder, nil, nil
	}

	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		logging.Warn(logger, "metrics setup failed, continuing without telemetry", "err", err)
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = netHTTPServer{
			srv: &http.Server{
				Addr:              ":" + recCfg.Port,
				Handler:           handler,
				ReadHeaderTimeout: readHeaderTimeout,
			},
		}
	}

	return rec, metricsSrv, shutdown
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		logging.Info(logger, "starting "+name+" server", slog.String("addr", srv.Addr()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Warn(logger, name+" server failed", "error", err)
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}
