package circuit

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Metric instruments, initialized once via InitMetrics().
var (
	solveCounter     metric.Int64Counter
	solveHistogram   metric.Float64Histogram
	errorCounter     metric.Int64Counter
	componentsHist   metric.Int64Histogram
	resistanceGauge  metric.Float64Gauge
	schematicCounter metric.Int64Counter
)

// InitMetrics registers the OTel instruments for the circuit domain.
// Call this once at startup (after observability.InitMetrics).
func InitMetrics() error {
	meter := otel.Meter("circuit")

	var err error

	solveCounter, err = meter.Int64Counter("circuit.solves.total",
		metric.WithDescription("Total number of circuits solved"),
		metric.WithUnit("{circuit}"),
	)
	if err != nil {
		return fmt.Errorf("creating solve counter: %w", err)
	}

	solveHistogram, err = meter.Float64Histogram("circuit.solve.duration",
		metric.WithDescription("Duration of circuit solves in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1),
	)
	if err != nil {
		return fmt.Errorf("creating solve histogram: %w", err)
	}

	errorCounter, err = meter.Int64Counter("circuit.errors.total",
		metric.WithDescription("Total number of rejected circuits and failed requests"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return fmt.Errorf("creating error counter: %w", err)
	}

	componentsHist, err = meter.Int64Histogram("circuit.components",
		metric.WithDescription("Number of resistors per solved circuit"),
		metric.WithUnit("{resistor}"),
		metric.WithExplicitBucketBoundaries(1, 2, 3, 4, 5, 6, 7, 8, 9, 10),
	)
	if err != nil {
		return fmt.Errorf("creating components histogram: %w", err)
	}

	resistanceGauge, err = meter.Float64Gauge("circuit.last_total_resistance",
		metric.WithDescription("Total resistance of the last solved circuit"),
		metric.WithUnit("Ohm"),
	)
	if err != nil {
		return fmt.Errorf("creating resistance gauge: %w", err)
	}

	schematicCounter, err = meter.Int64Counter("circuit.schematics.total",
		metric.WithDescription("Total number of rendered schematics"),
		metric.WithUnit("{image}"),
	)
	if err != nil {
		return fmt.Errorf("creating schematic counter: %w", err)
	}

	return nil
}
