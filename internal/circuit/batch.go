package circuit

import (
	"fmt"
	"net/http"

	"circuit-calculator/internal/handlers"
	"circuit-calculator/internal/observability"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// MaxBatchSize caps the number of circuits accepted by POST /circuit/batch.
const MaxBatchSize = 20

// Batch handles POST /circuit/batch. It solves several independent circuits,
// creating a child span for every item. One rejected circuit does not fail
// the others; each item carries either its result or its error.
func Batch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	// Parent span for the whole batch
	ctx, span := tracer.Start(ctx, "circuit.batch",
		trace.WithAttributes(
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	var req BatchRequest
	if err := decodeBody(r, &req); err != nil {
		failRequest(ctx, span, logger, w, "batch", err)
		return
	}

	if n := len(req.Circuits); n == 0 || n > MaxBatchSize {
		msg := fmt.Sprintf("a batch must hold between 1 and %d circuits", MaxBatchSize)
		observability.RecordError(ctx, span, logger, errorCounter, observability.ErrorEvent{
			Operation: "batch",
			Code:      "invalid_batch_size",
			Message:   msg,
			Status:    http.StatusBadRequest,
			Err:       fmt.Errorf("batch size %d", n),
		})
		handlers.WriteJSON(w, http.StatusBadRequest, ErrorResponse{Error: msg, Code: "invalid_batch_size"})
		return
	}

	span.SetAttributes(attribute.Int("batch.size", len(req.Circuits)))

	resp := BatchResponse{Items: make([]BatchItem, 0, len(req.Circuits))}

	for i, c := range req.Circuits {
		itemCtx, itemSpan := tracer.Start(ctx, fmt.Sprintf("circuit.batch.item.%d", i),
			trace.WithAttributes(
				attribute.Int("batch.item.index", i),
			),
		)

		res, err := solveTraced(itemCtx, itemSpan, c)
		if err != nil {
			body, _ := newErrorResponse(err)

			itemSpan.RecordError(err)
			itemSpan.SetStatus(codes.Error, body.Error)
			errorCounter.Add(itemCtx, 1, metric.WithAttributes(
				attribute.String("operation", "batch"),
				attribute.String("code", body.Code),
			))

			logger.Warn("batch item rejected",
				zap.Int("item", i),
				zap.String("code", body.Code),
				zap.Error(err),
				zap.String("request_id", requestID),
			)

			resp.Items = append(resp.Items, BatchItem{Index: i, Error: &body})
			resp.Failed++
			itemSpan.End()
			continue
		}

		out := newSolveResponse(res)
		resp.Items = append(resp.Items, BatchItem{Index: i, Result: &out})
		resp.Succeeded++
		itemSpan.End()
	}

	span.AddEvent("batch.complete", trace.WithAttributes(
		attribute.Int("succeeded", resp.Succeeded),
		attribute.Int("failed", resp.Failed),
	))
	span.SetStatus(codes.Ok, "")

	logger.Info("batch solved",
		zap.Int("circuits", len(req.Circuits)),
		zap.Int("succeeded", resp.Succeeded),
		zap.Int("failed", resp.Failed),
		zap.String("request_id", requestID),
	)

	handlers.WriteJSON(w, http.StatusOK, resp)
}
