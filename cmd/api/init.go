package main

import (
	"context"

	"circuit-calculator/internal/circuit"
	"circuit-calculator/internal/config"
	"circuit-calculator/internal/observability"
)

// initTelemetry installs the tracing, metrics and (optionally) log
// providers. With OTEL_SDK_DISABLED the global no-op providers stay in
// place and only the domain instruments are created.
func initTelemetry(ctx context.Context, cfg config.Config) (func(context.Context) error, error) {
	var shutdowns []func(context.Context) error

	shutdown := func(ctx context.Context) error {
		var firstErr error
		for i := len(shutdowns) - 1; i >= 0; i-- {
			if err := shutdowns[i](ctx); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	}

	if !cfg.TelemetryOff {
		traceShutdown, err := observability.InitTracing(ctx, cfg.ServiceName)
		if err != nil {
			return nil, err
		}
		shutdowns = append(shutdowns, traceShutdown)

		metricShutdown, err := observability.InitMetrics(ctx, cfg.ServiceName)
		if err != nil {
			_ = shutdown(ctx)
			return nil, err
		}
		shutdowns = append(shutdowns, metricShutdown)

		if cfg.ExportLogs {
			logShutdown, err := observability.InitLogging(ctx, cfg.ServiceName)
			if err != nil {
				_ = shutdown(ctx)
				return nil, err
			}
			shutdowns = append(shutdowns, logShutdown)
		}
	}

	// Domain instruments bind to whichever meter provider is installed.
	if err := circuit.InitMetrics(); err != nil {
		_ = shutdown(ctx)
		return nil, err
	}

	return shutdown, nil
}
