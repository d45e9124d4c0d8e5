package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"climate-api/internal/config"
	db "climate-api/internal/db"
	httpapi "climate-api/internal/httpapi"
	climate "climate-api/internal/modules/climate"
	"climate-api/internal/modules/climate/repository"
	climateviews "climate-api/internal/modules/climate/views"
)

func Run(ctx context.Context, cfg config.Config) error {
	slog.Info("config loaded",
		"appEnv", cfg.AppEnv,
		"logLevel", cfg.LogLevel.String(),
		"httpAddr", cfg.HTTPAddr,
		"shutdownTimeout", cfg.ShutdownTimeout,
		"dbDriver", cfg.Driver,
		"sqlitePath", cfg.Path,
		"dbMaxOpenConns", cfg.MaxOpenConns,
		"dbMaxIdleConns", cfg.MaxIdleConns,
		"dbConnMaxLifetime", cfg.ConnMaxLifetime,
		"dbLogSQL", cfg.LogSQL,
	)

	dbConn, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(dbConn); closeErr != nil {
			slog.Error("db close", "error", closeErr)
		}
	}()

	if err := climateviews.LoadTemplates(); err != nil {
		return fmt.Errorf("load templates: %w", err)
	}

	srv := NewServer(cfg, dbConn, prometheus.NewRegistry(), clockwork.NewRealClock())

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http listening", "addr", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	slog.Info("http shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	err = <-errCh
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return ctx.Err()
}

// Check opens the store and verifies the climate schema without serving.
func Check(cfg config.Config) error {
	dbConn, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(dbConn); closeErr != nil {
			slog.Error("db close", "error", closeErr)
		}
	}()
	slog.Info("climate schema ok", "sqlitePath", cfg.Path)
	return nil
}

// NewServer assembles the operational endpoints, the climate routes and
// the instrumentation middleware around an already opened store.
func NewServer(cfg config.Config, dbConn *sql.DB, reg *prometheus.Registry, clock clockwork.Clock) *http.Server {
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := httpapi.NewMetrics(reg)

	climateRepository := repository.NewRepository(dbConn)
	mux := httpapi.NewMux(dbConn, climateRepository, reg)
	climate.RegisterFeature(mux, climateRepository)

	return httpapi.NewServer(cfg, mux, metrics, clock)
}

func openStore(cfg config.Config) (*sql.DB, error) {
	dbConn, err := db.Open(cfg, slog.Default())
	if err != nil {
		return nil, err
	}

	if err := repository.NewRepository(dbConn).CheckSchema(); err != nil {
		_ = db.Close(dbConn)
		return nil, err
	}
	slog.Info("database connection successful", "sqlitePath", cfg.Path)
	return dbConn, nil
}
