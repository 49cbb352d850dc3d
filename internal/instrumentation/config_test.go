package instrumentation

import (
	"os"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	// Clear environment to get defaults
	os.Unsetenv("OTEL_SERVICE_NAME")
	os.Unsetenv("INSTRUMENTATION_ENABLED")
	os.Unsetenv("METRICS_EXPORTER")
	os.Unsetenv("TRACING_EXPORTER")
	os.Unsetenv("OTEL_TRACES_SAMPLER_ARG")

	config := DefaultConfig()

	if config.ServiceName != "mailsift" {
		t.Errorf("expected ServiceName 'mailsift', got %q", config.ServiceName)
	}

	if !config.Enabled {
		t.Error("expected Enabled to be true by default")
	}

	if config.MetricsExporter != ExporterPrometheus {
		t.Errorf("expected MetricsExporter 'prometheus', got %q", config.MetricsExporter)
	}

	if config.TracingExporter != ExporterNone {
		t.Errorf("expected TracingExporter 'none', got %q", config.TracingExporter)
	}

	if config.TraceSamplingRate != 1.0 {
		t.Errorf("expected TraceSamplingRate 1.0, got %f", config.TraceSamplingRate)
	}
}

func TestDefaultConfig_FromEnv(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "test-service")
	t.Setenv("INSTRUMENTATION_ENABLED", "false")
	t.Setenv("METRICS_EXPORTER", "stdout")
	t.Setenv("TRACING_EXPORTER", "stdout")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.5")

	config := DefaultConfig()

	if config.ServiceName != "test-service" {
		t.Errorf("expected ServiceName 'test-service', got %q", config.ServiceName)
	}

	if config.Enabled {
		t.Error("expected Enabled to be false")
	}

	if config.MetricsExporter != ExporterStdout {
		t.Errorf("expected MetricsExporter 'stdout', got %q", config.MetricsExporter)
	}

	if config.TraceSamplingRate != 0.5 {
		t.Errorf("expected TraceSamplingRate 0.5, got %f", config.TraceSamplingRate)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name: "valid defaults",
			config: Config{
				MetricsExporter: ExporterPrometheus,
				TracingExporter: ExporterNone,
			},
		},
		{
			name: "sampling rate out of range",
			config: Config{
				MetricsExporter:   ExporterPrometheus,
				TracingExporter:   ExporterNone,
				TraceSamplingRate: 1.5,
			},
			wantErr: true,
		},
		{
			name: "unknown metrics exporter",
			config: Config{
				MetricsExporter: "statsd",
				TracingExporter: ExporterNone,
			},
			wantErr: true,
		},
		{
			name: "otlp tracing without endpoint",
			config: Config{
				MetricsExporter: ExporterPrometheus,
				TracingExporter: ExporterOTLP,
			},
			wantErr: true,
		},
		{
			name: "otlp with endpoint",
			config: Config{
				MetricsExporter: ExporterOTLP,
				TracingExporter: ExporterOTLP,
				OTLPEndpoint:    "localhost:4318",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
