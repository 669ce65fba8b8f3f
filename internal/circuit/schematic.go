package circuit

import (
	"bytes"
	"fmt"
	"net/http"

	"circuit-calculator/internal/handlers"
	"circuit-calculator/internal/observability"
	"circuit-calculator/internal/schematic"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Schematic handles POST /circuit/schematic?format=svg|png. It solves the
// circuit and returns its diagram. PNGs are sent as a download.
func Schematic(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "circuit.schematic",
		trace.WithAttributes(
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	format, err := schematic.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		msg := "format must be svg or png"
		observability.RecordError(ctx, span, logger, errorCounter, observability.ErrorEvent{
			Operation: "schematic",
			Code:      "invalid_format",
			Message:   msg,
			Status:    http.StatusBadRequest,
			Err:       err,
		})
		handlers.WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: msg, Code: "invalid_format"})
		return
	}
	span.SetAttributes(attribute.String("schematic.format", string(format)))

	var req SolveRequest
	if err := decodeBody(r, &req); err != nil {
		failRequest(ctx, span, logger, w, "schematic", err)
		return
	}

	res, err := solveTraced(ctx, span, req)
	if err != nil {
		failCircuit(ctx, span, logger, w, "schematic", err)
		return
	}

	var buf bytes.Buffer
	if err := schematic.Render(&buf, schematic.FromResult(res), format); err != nil {
		msg := "rendering schematic failed"
		observability.RecordError(ctx, span, logger, errorCounter, observability.ErrorEvent{
			Operation: "schematic",
			Code:      "render_failed",
			Message:   msg,
			Status:    http.StatusInternalServerError,
			Err:       err,
		})
		handlers.WriteJSON(w, http.StatusInternalServerError, ErrorResponse{Error: msg, Code: "render_failed"})
		return
	}

	schematicCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("format", string(format))))

	logger.Info("schematic rendered",
		zap.String("topology", string(res.Topology)),
		zap.String("format", string(format)),
		zap.Int("bytes", buf.Len()),
		zap.String("request_id", requestID),
	)

	w.Header().Set("Content-Type", format.ContentType())
	if format == schematic.FormatPNG {
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", schematic.Filename(res.Topology, format)))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		logger.Warn("writing schematic failed",
			zap.String("format", string(format)),
			zap.Error(err),
			zap.String("request_id", requestID),
		)
	}
}
