package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/CaioPinho9/space-planner/internal/config"
	"github.com/CaioPinho9/space-planner/internal/server"
	"github.com/CaioPinho9/space-planner/internal/simulation"
	"github.com/CaioPinho9/space-planner/internal/store"
	"github.com/CaioPinho9/space-planner/pkg/adapters"
	"github.com/CaioPinho9/space-planner/pkg/constants"
	"github.com/CaioPinho9/space-planner/pkg/output"
	"github.com/CaioPinho9/space-planner/pkg/validation"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	// Determine log level (CLI override takes precedence)
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info"
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	format := loggingConfig.Format
	if format == "" {
		format = "json"
	}

	var cfg zap.Config
	switch format {
	case "console":
		cfg = zap.NewDevelopmentConfig()
	case "json":
		cfg = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)

	if loggingConfig.OutputFile != "" {
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %v", dir, err)
			}
		}
		cfg.OutputPaths = []string{loggingConfig.OutputFile}
		cfg.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return cfg.Build()
}

func main() {
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	serverConfigLocation := flag.String("server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override for headless runs: pretty, csv")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	headless := flag.Duration("headless", 0, "search for this long without serving HTTP, then print the best plan")
	flag.Parse()

	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	serverConf, err := server.LoadConfig(*serverConfigLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load server configuration at %s\", \"error\": \"%v\"}\n", *serverConfigLocation, err)
		os.Exit(1)
	}

	// Server logging settings apply when serving, unless left empty.
	loggingConfig := conf.Logging
	if *headless == 0 && serverConf.Logging != (config.LoggingConfig{}) {
		loggingConfig = serverConf.Logging
	}
	logger, err := initializeLogger(loggingConfig, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	cat, pred, err := adapters.BuildCatalog(conf)
	if err != nil {
		logger.Fatal("failed to build catalog",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	saves := store.NewFileStore(conf.Persistence.SaveFile)
	logger.Debug("using save file",
		zap.String("op", "main"),
		zap.String("path", saves.Path()),
	)

	engine, err := simulation.NewEngine(logger, cat, saves, adapters.SimulationToSettings(conf.Simulation))
	if err != nil {
		logger.Fatal("failed to create simulation engine",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *headless > 0 {
		outputFormat := conf.Output.Format
		if *outputFormatFlag != "" {
			outputFormat = *outputFormatFlag
		}
		if outputFormat == "" {
			outputFormat = constants.OutputFormatPretty
		}
		if err := validation.ValidateOutputFormat(outputFormat); err != nil {
			logger.Fatal(err.Error(),
				zap.String("op", "main"),
			)
		}
		if err := runHeadless(ctx, engine, *headless); err != nil {
			logger.Fatal("headless run failed",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}

		status := engine.Status()
		switch outputFormat {
		case constants.OutputFormatPretty:
			output.PrettyFormat(os.Stdout, status)
		case constants.OutputFormatCSV:
			output.CsvFormat(os.Stdout, status)
		}
		return
	}

	handler := server.NewHandler(logger, engine, server.Options{
		MaxRequestSize: serverConf.RequestSizeBytes(),
		StatusInterval: serverConf.StatusIntervalDuration(),
		Version:        version,
		Parameters:     pred,
	})
	if err := serve(ctx, logger, serverConf.Address, handler); err != nil {
		logger.Fatal("server failed",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	engine.Stop()
}

// runHeadless searches for d or until ctx is cancelled.
func runHeadless(ctx context.Context, engine *simulation.Engine, d time.Duration) error {
	if _, err := engine.Start(simulation.StartRequest{}); err != nil {
		return err
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
	engine.Stop()
	return nil
}

// serve runs the HTTP server until ctx is cancelled, then shuts it down.
func serve(ctx context.Context, logger *zap.Logger, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening",
			zap.String("op", "main.serve"),
			zap.String("address", addr),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	logger.Info("shutting down", zap.String("op", "main.serve"))
	return srv.Shutdown(shutdownCtx)
}
