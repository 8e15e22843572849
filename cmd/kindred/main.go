// Command kindred runs the batch recommendation pipeline and serves the
// produced JSON through a small read-only viewer API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kindredhq/kindred/internal/config"
	logpkg "github.com/kindredhq/kindred/internal/logger"
	"github.com/kindredhq/kindred/internal/metrics"
	"github.com/kindredhq/kindred/internal/repository/dataset"
	"github.com/kindredhq/kindred/internal/repository/output"
	chiTransport "github.com/kindredhq/kindred/internal/transport/chi"
	"github.com/kindredhq/kindred/internal/usecase/pipeline"
	"github.com/kindredhq/kindred/internal/version"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "run":
		runCmd(os.Args[2:])
	case "serve":
		serveCmd(os.Args[2:])
	case "init":
		initCmd(os.Args[2:])
	case "version":
		fmt.Printf("kindred %s (commit %s, built %s)\n", version.Version, version.Commit, version.Date)
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `usage: kindred <command> [flags]

commands:
  run      run the batch recommendation pipeline
  serve    serve the produced recommendation JSON over HTTP
  init     write a default configuration file
  version  print build information
`)
}

func runCmd(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", "", "explicit config file path (default: config/<ENV>.yaml)")
	dataDir := fs.String("data", "", "override pipeline.data_dir")
	outDir := fs.String("out", "", "override pipeline.output_dir")
	seed := fs.Int64("seed", 0, "override feedback.seed (0 is a valid seed)")
	_ = fs.Parse(args)

	cfg, env := loadConfig(*configPath)
	if *dataDir != "" {
		cfg.Pipeline.DataDir = *dataDir
	}
	if *outDir != "" {
		cfg.Pipeline.OutputDir = *outDir
	}
	if flagWasSet(fs, "seed") {
		cfg.Feedback.Seed = *seed
	}

	logger := newLogger(env, cfg)
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting kindred pipeline run",
		zap.String("version", version.Version),
		zap.String("env", env),
		zap.String("data_dir", cfg.Pipeline.DataDir),
		zap.String("output_dir", cfg.Pipeline.OutputDir),
		zap.Bool("feedback", cfg.Feedback.Enabled),
	)

	metrics.RegisterPipelineMetrics()

	svc := pipeline.New(dataset.New(cfg.Pipeline.DataDir), output.New(cfg.Pipeline.OutputDir), cfg)
	ctx := logpkg.ContextWithLogger(context.Background(), logger)

	summary, err := svc.Run(ctx)
	if err != nil {
		logger.Fatal("Pipeline run failed", zap.Error(err))
	}
	logger.Info("Output written",
		zap.String("run_id", summary.RunID),
		zap.String("output_dir", cfg.Pipeline.OutputDir),
		zap.Int("recommendations", summary.Recommendations),
	)
}

func serveCmd(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "explicit config file path (default: config/<ENV>.yaml)")
	outDir := fs.String("out", "", "override pipeline.output_dir")
	port := fs.Int("port", 0, "override http.port")
	_ = fs.Parse(args)

	cfg, env := loadConfig(*configPath)
	if *outDir != "" {
		cfg.Pipeline.OutputDir = *outDir
	}
	if *port != 0 {
		cfg.HTTP.Port = *port
	}

	logger := newLogger(env, cfg)
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting kindred viewer",
		zap.String("version", version.Version),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("output_dir", cfg.Pipeline.OutputDir),
	)

	server := chiTransport.NewServer(output.New(cfg.Pipeline.OutputDir), logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Router(),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

func initCmd(args []string) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	path := fs.String("path", "config/local.yaml", "where to write the default config")
	_ = fs.Parse(args)

	if _, err := os.Stat(*path); err == nil {
		fmt.Fprintf(os.Stderr, "refusing to overwrite existing %s\n", *path)
		os.Exit(1)
	}
	if err := config.Save(*path, config.Default()); err != nil {
		fmt.Fprintf(os.Stderr, "write config: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s\n", *path)
}

// loadConfig loads the explicit path when given, otherwise the
// config/<ENV>.yaml convention. Only a missing convention file falls back to
// built-in defaults; a file that fails to parse or validate is fatal.
func loadConfig(path string) (config.Config, string) {
	env := config.GetEnv()
	cfg, err := resolveConfig(path, env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	return cfg, env
}

func resolveConfig(path, env string) (config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	cfg, err := config.Load(env)
	if errors.Is(err, os.ErrNotExist) {
		return config.Default(), nil
	}
	return cfg, err
}

// flagWasSet reports whether a flag was explicitly provided, so zero values
// like -seed 0 still count as overrides.
func flagWasSet(fs *flag.FlagSet, name string) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

func newLogger(env string, cfg config.Config) *zap.Logger {
	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	return logger
}
