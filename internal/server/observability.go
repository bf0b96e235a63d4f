package server

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/tripmate/tripmate/internal/app/observability/metrics"
	"github.com/tripmate/tripmate/internal/app/observability/tracer"
	"github.com/tripmate/tripmate/internal/pkg/config"
)

// ObservabilityShutdownFunc is returned by InitObservability.
type ObservabilityShutdownFunc func(context.Context) error

// InitObservability initializes OpenTelemetry and application metrics.
func InitObservability(serviceName string, cfg config.ObservabilityConfig, logger *zap.Logger) (ObservabilityShutdownFunc, error) {
	otelShutdown, err := tracer.InitOtelProviders(serviceName, cfg.OTLPEndpoint, cfg.MetricsAddr, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics.InitAppMetrics()
	logger.Info("observability initialized",
		zap.String("otlp_endpoint", cfg.OTLPEndpoint),
		zap.String("metrics_endpoint", cfg.MetricsAddr+"/metrics"))

	return otelShutdown, nil
}
