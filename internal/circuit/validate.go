package circuit

import (
	"errors"
	"net/http"

	"circuit-calculator/internal/handlers"
	"circuit-calculator/internal/observability"
	"circuit-calculator/internal/solver"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Validate handles POST /circuit/validate. Unlike solving, which stops at
// the first violated rule, it flags every offending field so a form can
// mark them all at once.
func Validate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "circuit.validate",
		trace.WithAttributes(
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	var req SolveRequest
	if err := decodeBody(r, &req); err != nil {
		failRequest(ctx, span, logger, w, "validate", err)
		return
	}

	errs := fieldErrors(req)
	span.SetAttributes(attribute.Int("validate.errors", len(errs)))

	logger.Debug("circuit validated",
		zap.Int("errors", len(errs)),
		zap.String("request_id", requestID),
	)

	handlers.WriteJSON(w, http.StatusOK, ValidateResponse{
		Valid:  len(errs) == 0,
		Errors: errs,
	})
}

// fieldErrors runs every solver check independently. Resistance fields are
// numbered from 1, like R1..RN.
func fieldErrors(req SolveRequest) []FieldError {
	in := solver.ParseInput(req.Raw())
	errs := []FieldError{}

	add := func(field string, err error) {
		if err == nil {
			return
		}
		var cerr *solver.CircuitError
		if errors.As(err, &cerr) {
			errs = append(errs, FieldError{Field: field, Code: cerr.Code(), Message: cerr.Message})
		}
	}

	add("topology", solver.CheckTopology(in.Topology))
	add("resistances", solver.CheckCount(len(in.Resistances)))
	for i, v := range in.Resistances {
		add(resistanceField(i+1), solver.CheckResistance(i+1, v))
	}
	add("source_voltage", solver.CheckSourceVoltage(in.SourceVoltage))

	return errs
}
