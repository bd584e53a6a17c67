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
	"go.uber.org/zap"

	"github.com/verte-zerg/calcdeck/internal/config"
	"github.com/verte-zerg/calcdeck/internal/logging"
	"github.com/verte-zerg/calcdeck/internal/mcpserver"
	"github.com/verte-zerg/calcdeck/internal/server"
	"github.com/verte-zerg/calcdeck/internal/store"
	"github.com/verte-zerg/calcdeck/internal/tools"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

var (
	serveAddr     string
	serveNoRecord bool
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculators and tools over HTTP",
		Long: "Serve a JSON API, a websocket keypad per calculator, /health and /metrics.\n" +
			"Variables in ./.env are loaded first; set OTEL_EXPORTER_OTLP_ENDPOINT to export traces.",
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}
	cmd.Flags().StringVar(&serveAddr, "addr", defaultAddr, "listen address")
	cmd.Flags().BoolVar(&serveNoRecord, "no-record", false, "do not save evaluations and tool runs")
	return cmd
}

// loadDotEnv loads .env when present. Existing variables are not overridden.
func loadDotEnv() error {
	err := godotenv.Load()
	if err == nil || errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load .env: %w", err)
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	if err := loadDotEnv(); err != nil {
		return err
	}
	fileCfg, err := loadFileConfig(cmd)
	if err != nil {
		return err
	}
	applyStringConfig(cmd, "addr", &serveAddr, fileCfg.Server.Addr)

	logger, err := logging.New(logging.Options{Level: logLevel})
	if err != nil {
		return err
	}
	defer logging.Sync(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if server.TracingEnabled() {
		shutdownTracing, err := server.InitTracing(ctx)
		if err != nil {
			return fmt.Errorf("failed to init tracing: %w", err)
		}
		defer func() {
			if err := shutdownTracing(context.Background()); err != nil {
				logger.Warn("failed to flush traces", zap.Error(err))
			}
		}()
		logger.Info("tracing enabled", zap.String("service", server.ServiceName()))
	}

	opts := server.Options{Registry: tools.NewRegistry(), Logger: logger}
	if !serveNoRecord {
		st, err := store.Open(config.DefaultDBPath())
		if err != nil {
			logger.Warn("history disabled", zap.String("path", config.DefaultDBPath()), zap.Error(err))
		} else {
			defer closeStore(st, logger)
			opts.Recorder = st
		}
	}

	srv := &http.Server{
		Addr:              serveAddr,
		Handler:           server.New(opts).Router(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server started", zap.String("addr", serveAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the calculators and tools over MCP (stdio)",
		Args:  cobra.NoArgs,
		RunE:  runMCPCmd,
	}
}

func runMCPCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := fileLogger(fileCfg)
	if err != nil {
		return err
	}
	defer logging.Sync(logger)

	var recorder mcpserver.Recorder
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		logger.Warn("history disabled", zap.String("path", config.DefaultDBPath()), zap.Error(err))
	} else {
		defer closeStore(st, logger)
		recorder = st
	}

	s := mcpserver.New(mcpserver.NewHandlers(tools.NewRegistry(), recorder, logger), version)
	logger.Info("mcp server started", zap.String("version", version))
	if err := mcpserver.ServeStdio(s); err != nil {
		return fmt.Errorf("mcp server failed: %w", err)
	}
	return nil
}
