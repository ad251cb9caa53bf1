// Package main is the entry point for the permitmap server: the business
// permit compliance map for the municipality of Leganes.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	businesshandler "permitmap/internal/business/handler"
	"permitmap/internal/business/service"
	"permitmap/internal/business/store"
	"permitmap/internal/compliance"
	httpapi "permitmap/internal/http"
	"permitmap/internal/mapview"
	mapviewhandler "permitmap/internal/mapview/handler"
	"permitmap/internal/mapview/loader"
	mapviewmetrics "permitmap/internal/mapview/metrics"
	"permitmap/internal/mapview/provider"
	"permitmap/internal/mapview/session"
	"permitmap/internal/platform/config"
	"permitmap/internal/platform/httpserver"
	"permitmap/internal/platform/logger"
	businessmetrics "permitmap/internal/platform/metrics"
	platformredis "permitmap/internal/platform/redis"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "permitmap",
		Short:         "Business permit compliance map server",
		Long:          "Serves the Leganes business permit map: compliance classification, marker projection, and interactive map sessions over HTTP.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Missing .env is fine; environment variables still apply.
			if envFile != "" {
				_ = godotenv.Load(envFile)
			} else {
				_ = godotenv.Load()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}

	root.PersistentFlags().StringVar(&envFile, "env-file", "", "path to a .env file (default: ./.env)")
	root.AddCommand(newServeCmd(), newVersionCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

var version = "dev"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the server version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	}
}

// runServe wires the dependency graph and runs the server until a shutdown
// signal arrives. Business logic lives in the internal services packages.
func runServe() error {
	cfg := config.FromEnv()
	log := logger.New(cfg.DevMode)

	records := store.NewInMemory()
	if err := store.SeedLeganesFixture(records); err != nil {
		return fmt.Errorf("seeding business fixture: %w", err)
	}

	var recordSource store.Store = records
	checks := map[string]httpapi.HealthChecker{}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
		recordSource = store.NewCachedDetails(records, redisClient.Client, cfg.Details.CacheTTL, log)
		checks["redis"] = redisClient
		log.Info("redis details cache enabled", "ttl", cfg.Details.CacheTTL.String())
	}

	businesses := service.New(recordSource, log, businessmetrics.New())

	// The headless provider backs every session; swapping in a remote
	// provider only needs a different bootstrapper here.
	boot := loader.BootstrapperFunc(func(ctx context.Context, apiKey string) (provider.Provider, error) {
		return provider.NewHeadless(log), nil
	})
	if cfg.DevMode && cfg.Maps.APIKey == "" {
		// Dev mode runs without provider credentials.
		cfg.Maps.APIKey = "dev"
	}
	ld := loader.New(boot, cfg.Maps.APIKey,
		loader.WithTimeout(cfg.Maps.LoadTimeout),
		loader.WithLogger(log),
	)

	mapMetrics := mapviewmetrics.New()
	sessions := session.NewManager(func(filter compliance.Filter) *mapview.Controller {
		return mapview.NewController(businesses, ld,
			mapview.WithLogger(log),
			mapview.WithMetrics(mapMetrics),
			mapview.WithInitialFilter(filter),
			mapview.WithDetailsTimeout(cfg.Details.FetchTimeout),
		)
	}, log)

	router := httpapi.NewRouter(httpapi.Deps{
		Logger:     log,
		Businesses: businesshandler.New(businesses, log),
		MapView:    mapviewhandler.New(sessions, log),
		Checks:     checks,
	})

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting permitmap server", "addr", cfg.Addr, "dev_mode", cfg.DevMode)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		log.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	// Tear down live map sessions after in-flight requests drain.
	sessions.DisposeAll()
	log.Info("server stopped")
	return nil
}
