package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/money_tracker/internal/adapters/nlparser"
	"github.com/SscSPs/money_tracker/internal/core/services"
	"github.com/SscSPs/money_tracker/internal/handlers"
	"github.com/SscSPs/money_tracker/internal/platform/config"
	"github.com/SscSPs/money_tracker/internal/platform/logging"
	"github.com/SscSPs/money_tracker/internal/platform/metrics"
	"github.com/SscSPs/money_tracker/migrations"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

// bootstrap loads configuration and installs the process logger.
func bootstrap() (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		return nil, nil, err
	}
	logger := logging.New(cfg.LogLevel, cfg.IsProduction)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "money_tracker",
		Short:        "Income, expense and debt tracking API",
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newMigrateCmd())
	return root
}

func newServeCmd() *cobra.Command {
	var skipMigrations bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := bootstrap()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, logger, !skipMigrations)
		},
	}
	cmd.Flags().BoolVar(&skipMigrations, "skip-migrations", false, "do not apply pending migrations on startup")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back the database schema",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withStore(cmd.Context(), func(s *store, logger *slog.Logger) error {
					applied, err := migrations.Up(s.sqlDB, s.driver)
					if err != nil {
						return err
					}
					logMigrationResult(logger, applied)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back every migration",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withStore(cmd.Context(), func(s *store, logger *slog.Logger) error {
					if err := migrations.Down(s.sqlDB, s.driver); err != nil {
						return err
					}
					logger.Info("Database migrations rolled back.")
					return nil
				})
			},
		},
	)
	return cmd
}

func withStore(ctx context.Context, fn func(*store, *slog.Logger) error) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	s, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to open store", slog.String("error", err.Error()))
		return err
	}
	defer s.Close()
	return fn(s, logger)
}

func logMigrationResult(logger *slog.Logger, applied bool) {
	if applied {
		logger.Info("Database migrations applied successfully.")
	} else {
		logger.Info("No new migrations to apply.")
	}
}

func serve(ctx context.Context, cfg *config.Config, logger *slog.Logger, migrate bool) error {
	s, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to open store", slog.String("error", err.Error()))
		return err
	}
	defer s.Close()

	if migrate {
		logger.Info("Running database migrations...")
		applied, err := migrations.Up(s.sqlDB, s.driver)
		if err != nil {
			logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
			return err
		}
		logMigrationResult(logger, applied)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	containerOpts := []services.ContainerOption{services.WithMetrics(m)}
	if cfg.GeminiAPIKey != "" {
		parser, err := nlparser.NewGeminiParser(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			logger.Error("Failed to initialize transaction parser", slog.String("error", err.Error()))
			return err
		}
		defer parser.Close()
		containerOpts = append(containerOpts, services.WithParser(parser))
		logger.Info("Free text transaction input enabled", slog.String("model", cfg.GeminiModel))
	}

	container := services.NewServiceContainer(cfg, s.repos, containerOpts...)

	router, err := handlers.NewRouter(cfg, logger, container, handlers.Observability{Metrics: m, Gatherer: reg})
	if err != nil {
		logger.Error("Failed to build router", slog.String("error", err.Error()))
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("driver", cfg.DBDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			return err
		}
		return nil
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", slog.String("error", err.Error()))
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("Server stopped gracefully")
	return nil
}
