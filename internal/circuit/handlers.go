package circuit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"circuit-calculator/internal/handlers"
	"circuit-calculator/internal/observability"
	"circuit-calculator/internal/solver"
	"circuit-calculator/internal/units"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// tracer is the circuit domain's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("circuit")

// ---------------------------------------------------------------------------
// Handler: single circuit
// ---------------------------------------------------------------------------

// Solve handles POST /circuit/solve
func Solve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "circuit.solve",
		trace.WithAttributes(
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	var req SolveRequest
	if err := decodeBody(r, &req); err != nil {
		failRequest(ctx, span, logger, w, "solve", err)
		return
	}

	res, err := solveTraced(ctx, span, req)
	if err != nil {
		failCircuit(ctx, span, logger, w, "solve", err)
		return
	}

	logger.Info("circuit solved",
		zap.String("topology", string(res.Topology)),
		zap.Int("components", len(res.Components)),
		zap.Float64("source_voltage", res.SourceVoltage),
		zap.Float64("total_resistance", res.TotalResistance),
		zap.Float64("total_current", res.TotalCurrent),
		zap.String("request_id", requestID),
	)

	handlers.WriteJSON(w, http.StatusOK, newSolveResponse(res))
}

// solveTraced parses req, runs the solver and records metrics and span
// details for the outcome. Failures are returned untouched.
func solveTraced(ctx context.Context, span trace.Span, req SolveRequest) (solver.Result, error) {
	in := solver.ParseInput(req.Raw())

	span.SetAttributes(
		attribute.String("circuit.topology", string(in.Topology)),
		attribute.Int("circuit.components", len(in.Resistances)),
	)

	start := time.Now()
	res, err := solver.Solve(in)
	elapsed := float64(time.Since(start).Nanoseconds()) / 1e6 // ms

	if err != nil {
		return solver.Result{}, err
	}

	attrs := metric.WithAttributes(attribute.String("topology", string(res.Topology)))
	solveCounter.Add(ctx, 1, attrs)
	solveHistogram.Record(ctx, elapsed, attrs)
	componentsHist.Record(ctx, int64(len(res.Components)), attrs)
	resistanceGauge.Record(ctx, res.TotalResistance, attrs)

	span.AddEvent("solve.complete", trace.WithAttributes(
		attribute.Float64("total_resistance", res.TotalResistance),
		attribute.Float64("total_current", res.TotalCurrent),
		attribute.Float64("duration_ms", elapsed),
	))
	span.SetAttributes(
		attribute.Float64("circuit.total_resistance", res.TotalResistance),
		attribute.Float64("circuit.total_current", res.TotalCurrent),
	)
	span.SetStatus(codes.Ok, "")

	return res, nil
}

// Limits handles GET /circuit/limits
func Limits(w http.ResponseWriter, r *http.Request) {
	handlers.WriteJSON(w, http.StatusOK, LimitsResponse{
		MaxComponents: solver.MaxComponents,
		MinResistance: solver.MinResistance,
		Topologies:    []string{string(solver.Series), string(solver.Parallel)},
	})
}

// ---------------------------------------------------------------------------
// Response building
// ---------------------------------------------------------------------------

func newSolveResponse(res solver.Result) SolveResponse {
	components := make([]ComponentResponse, len(res.Components))
	for i, c := range res.Components {
		components[i] = ComponentResponse{
			Index:      c.Index,
			Resistance: c.Resistance,
			Voltage:    c.Voltage,
			Current:    c.Current,
			Power:      c.Power,
			Display: ComponentDisplay{
				Resistance: units.Detail(units.Resistance, c.Resistance),
				Voltage:    units.Detail(units.Voltage, c.Voltage),
				Current:    units.Detail(units.Current, c.Current),
				Power:      units.Detail(units.Power, c.Power),
			},
		}
	}

	return SolveResponse{
		Topology:        string(res.Topology),
		SourceVoltage:   res.SourceVoltage,
		TotalResistance: res.TotalResistance,
		TotalCurrent:    res.TotalCurrent,
		TotalPower:      res.TotalPower,
		Components:      components,
		Display: TotalsDisplay{
			TotalResistance: units.Total(units.Resistance, res.TotalResistance),
			TotalCurrent:    units.Total(units.Current, res.TotalCurrent),
			TotalPower:      units.Total(units.Power, res.TotalPower),
		},
	}
}

// newErrorResponse maps a solver failure to its JSON body and HTTP status.
// Anything that is not a *solver.CircuitError is an internal fault.
func newErrorResponse(err error) (ErrorResponse, int) {
	var cerr *solver.CircuitError
	if errors.As(err, &cerr) {
		return ErrorResponse{
			Error: cerr.Message,
			Code:  cerr.Code(),
			Index: cerr.Index,
		}, http.StatusUnprocessableEntity
	}
	return ErrorResponse{
		Error: "internal error",
		Code:  "internal",
	}, http.StatusInternalServerError
}

// ---------------------------------------------------------------------------
// Request decoding and failures
// ---------------------------------------------------------------------------

func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// failRequest reports a body that could not be decoded.
func failRequest(ctx context.Context, span trace.Span, logger *zap.Logger, w http.ResponseWriter, opName string, err error) {
	status, code, msg := http.StatusBadRequest, "invalid_request_body", "invalid request body"

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		status, code, msg = http.StatusRequestEntityTooLarge, "body_too_large", "request body too large"
	}

	observability.RecordError(ctx, span, logger, errorCounter, observability.ErrorEvent{
		Operation: opName,
		Code:      code,
		Message:   msg,
		Status:    status,
		Err:       err,
	})
	handlers.WriteJSON(w, status, ErrorResponse{Error: msg, Code: code})
}

// failCircuit reports a circuit the solver rejected.
func failCircuit(ctx context.Context, span trace.Span, logger *zap.Logger, w http.ResponseWriter, opName string, err error) {
	body, status := newErrorResponse(err)

	observability.RecordError(ctx, span, logger, errorCounter, observability.ErrorEvent{
		Operation: opName,
		Code:      body.Code,
		Message:   body.Error,
		Status:    status,
		Err:       err,
	})
	handlers.WriteJSON(w, status, body)
}
