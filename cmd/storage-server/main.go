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

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	cfgpkg "github.com/aetheric-oss/svc-storage/internal/config"
	"github.com/aetheric-oss/svc-storage/internal/engine"
	"github.com/aetheric-oss/svc-storage/internal/logging"
	"github.com/aetheric-oss/svc-storage/internal/store"
	api "github.com/aetheric-oss/svc-storage/internal/transport/http"
)

var (
	version = "dev"
	commit  = "none"
)

type flags struct {
	httpAddr    string
	postgresDSN string
	logLevel    string
	inMemory    bool
	configPath  string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:   "storage-server",
		Short: "storage-server — schema-driven resource storage RPC service",
		Long: `storage-server exposes create/get/update/archive/search operations
over a fixed catalog of typed, schema-described entities (vehicles,
pilots, vertiports, flight plans, and the rest of the network
topology) as JSON-over-HTTP.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), f)
		},
	}

	root.AddCommand(newVersionCmd())

	root.PersistentFlags().StringVar(&f.configPath, "config", envOrDefault("STORAGE_CONFIG", ""), "Path to a TOML config file")
	root.PersistentFlags().StringVar(&f.httpAddr, "http-addr", "", "HTTP listen address (overrides config file)")
	root.PersistentFlags().StringVar(&f.postgresDSN, "postgres-dsn", "", "Postgres DSN (overrides config file)")
	root.PersistentFlags().StringVar(&f.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config file)")
	root.PersistentFlags().BoolVar(&f.inMemory, "in-memory", false, "Run against the in-memory store instead of Postgres")

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("storage-server %s (commit: %s)\n", version, commit)
		},
	}
}

func run(ctx context.Context, f *flags) error {
	cfg, err := cfgpkg.Load(f.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFlagOverrides(&cfg, f)

	logger, err := logging.New(cfg.LogLevel, cfg.LogLevel == "debug")
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	logger.Info("starting storage server",
		zap.String("version", version),
		zap.String("http_addr", cfg.HTTPAddr),
		zap.Bool("in_memory", cfg.InMemory),
		zap.String("log_level", cfg.LogLevel),
	)

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var backend engine.Store
	if cfg.InMemory {
		logger.Warn("running against the in-memory store, data will not survive a restart")
		backend = engine.NewMemoryStore()
	} else {
		db, err := store.New(store.Config{DSN: cfg.Postgres.DSN, Logger: logger})
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
		backend = engine.NewSQLStore(db)
	}

	router := api.NewRouter(backend, logger)

	httpSrv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", zap.Error(err))
			cancel()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down storage server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http server graceful shutdown error", zap.Error(err))
	}

	logger.Info("storage server stopped")
	return nil
}

func applyFlagOverrides(cfg *cfgpkg.Config, f *flags) {
	if f.httpAddr != "" {
		cfg.HTTPAddr = f.httpAddr
	}
	if f.postgresDSN != "" {
		cfg.Postgres.DSN = f.postgresDSN
		cfg.InMemory = false
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	if f.inMemory {
		cfg.InMemory = true
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
