// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

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

	"github.com/spf13/cobra"

	"rivaas.dev/multipart"
	"rivaas.dev/multipart/config"
	"rivaas.dev/multipart/logging"
)

const serviceName = "uploadd"

type options struct {
	addr            string
	configFile      string
	envPrefix       string
	consulKey       string
	maxUploadSize   int64
	maxParts        int
	defaultEncoding string
	lazy            bool
	logFormat       string
	logLevel        string
	metrics         string
	otlpEndpoint    string
	trace           string
	shutdownTimeout time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           serviceName,
		Short:         "Serve in-memory multipart uploads",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return run(ctx, cmd, opts)
		},
	}

	bindFlags(cmd, opts)

	return cmd
}

func bindFlags(cmd *cobra.Command, opts *options) {
	f := cmd.Flags()
	f.StringVar(&opts.addr, "addr", ":8080", "listen address")
	f.StringVar(&opts.configFile, "config", "", "settings file (.yaml, .toml or .json)")
	f.StringVar(&opts.envPrefix, "env-prefix", "UPLOADD_", "prefix of environment variables holding settings")
	f.StringVar(&opts.consulKey, "consul-key", "", "Consul KV key holding settings")
	f.Int64Var(&opts.maxUploadSize, "max-upload-size", -1, "maximum request size in bytes, -1 for unlimited")
	f.IntVar(&opts.maxParts, "max-parts", multipart.DefaultMaxParts, "maximum number of parts per request")
	f.StringVar(&opts.defaultEncoding, "default-encoding", multipart.DefaultEncoding, "charset for requests that name none")
	f.BoolVar(&opts.lazy, "lazy", false, "parse uploads on first access instead of up front")
	f.StringVar(&opts.logFormat, "log-format", string(logging.JSONHandler), "log format: json, text or console")
	f.StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	f.StringVar(&opts.metrics, "metrics", "prometheus", "metrics exporter: prometheus, otlp, stdout or none")
	f.StringVar(&opts.otlpEndpoint, "otlp-endpoint", "", "OTLP HTTP endpoint for metrics and traces")
	f.StringVar(&opts.trace, "trace", "none", "trace exporter: stdout, otlp or none")
	f.DurationVar(&opts.shutdownTimeout, "shutdown-timeout", 10*time.Second, "graceful shutdown timeout")
}

// loadSettings merges the configured sources and applies flags the user set
// explicitly on top.
func loadSettings(ctx context.Context, cmd *cobra.Command, opts *options) (config.Settings, error) {
	var loaderOpts []config.Option
	if opts.configFile != "" {
		loaderOpts = append(loaderOpts, config.WithFile(opts.configFile))
	}
	if opts.envPrefix != "" {
		loaderOpts = append(loaderOpts, config.WithEnv(opts.envPrefix))
	}
	if opts.consulKey != "" {
		loaderOpts = append(loaderOpts, config.WithConsul(opts.consulKey))
	}

	loader, err := config.New(loaderOpts...)
	if err != nil {
		return config.Settings{}, err
	}
	s, err := loader.Load(ctx)
	if err != nil {
		return config.Settings{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("max-upload-size") {
		s.MaxUploadSize = opts.maxUploadSize
	}
	if flags.Changed("max-parts") {
		s.MaxParts = opts.maxParts
	}
	if flags.Changed("default-encoding") {
		s.DefaultEncoding = opts.defaultEncoding
	}
	if flags.Changed("lazy") {
		s.ResolveLazily = opts.lazy
	}

	return s, s.Validate()
}

func newLogger(opts *options) (*slog.Logger, error) {
	level, err := logging.ParseLevel(opts.logLevel)
	if err != nil {
		return nil, err
	}

	return logging.New(
		logging.WithHandlerType(logging.HandlerType(opts.logFormat)),
		logging.WithLevel(level),
		logging.WithServiceName(serviceName),
		logging.WithServiceVersion(version),
	)
}

func run(ctx context.Context, cmd *cobra.Command, opts *options) error {
	logger, err := newLogger(opts)
	if err != nil {
		return err
	}

	settings, err := loadSettings(ctx, cmd, opts)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	recorder, err := newRecorder(opts, logger)
	if err != nil {
		return err
	}
	tp, err := newTracerProvider(ctx, opts.trace, opts.otlpEndpoint, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	resolverOpts := []multipart.Option{
		multipart.WithLogger(logger),
		multipart.WithRecorder(recorder),
	}
	if tp != nil {
		resolverOpts = append(resolverOpts, multipart.WithTracerProvider(tp))
	}
	res, err := multipart.NewFromSettings(settings, resolverOpts...)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              opts.addr,
		Handler:           newRouter(res, recorder, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			"address", opts.addr,
			"max_upload_size", res.MaxUploadSize(),
			"resolve_lazily", res.ResolveLazily(),
			"metrics", string(recorder.Provider()),
			"trace", opts.trace,
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- fmt.Errorf("server failed to start: %w", err)
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		logger.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), opts.shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("server shutdown failed", "error", err)
	}
	if err := recorder.Shutdown(shutdownCtx); err != nil {
		logger.Warn("metrics shutdown failed", "error", err)
	}
	if tp != nil {
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Warn("tracing shutdown failed", "error", err)
		}
	}

	return nil
}
