package instrumentation

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// DefaultMetricsReadTimeout is the default read timeout for the metrics server.
	DefaultMetricsReadTimeout = 10 * time.Second

	// DefaultMetricsWriteTimeout is the default write timeout for the metrics server.
	DefaultMetricsWriteTimeout = 10 * time.Second
)

// MetricsServer serves the Prometheus /metrics endpoint on a dedicated
// address during a run. Useful for long runs scraped by Prometheus; short
// runs typically use the otlp or stdout exporters instead.
type MetricsServer struct {
	httpServer *http.Server
}

// NewMetricsServer creates a metrics server bound to addr.
// The OpenTelemetry prometheus exporter registers metrics with the global
// Prometheus registry, which promhttp.Handler() exposes.
func NewMetricsServer(addr string) *MetricsServer {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	return &MetricsServer{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  DefaultMetricsReadTimeout,
			WriteTimeout: DefaultMetricsWriteTimeout,
		},
	}
}

// Start serves the metrics endpoint in a background goroutine.
func (s *MetricsServer) Start(logger *slog.Logger) {
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server failed", "addr", s.httpServer.Addr, "error", err.Error())
		}
	}()
}

// Shutdown stops the metrics server gracefully.
func (s *MetricsServer) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
