package solver

import "fmt"

const internalFaultMessage = "internal calculation error: check the submitted data"

// Solve validates in and computes the circuit's operating point.
//
// Validation is fail-fast and reports only the first violated rule (see
// Validate). On success every component satisfies Power == Current*Voltage
// and TotalCurrent == SourceVoltage/TotalResistance exactly. On failure the
// error is a *CircuitError and the Result is the zero value.
func Solve(in Input) (Result, error) {
	return recovered(func() (Result, error) {
		if err := Validate(in); err != nil {
			return Result{}, err
		}

		var (
			res Result
			err error
		)
		switch in.Topology {
		case Series:
			res, err = solveSeries(in)
		case Parallel:
			res, err = solveParallel(in)
		}
		if err != nil {
			return Result{}, err
		}

		if err := checkOutputs(res); err != nil {
			return Result{}, err
		}
		return res, nil
	})
}

// recovered runs fn and turns a panic into an ErrComputation outcome, so
// callers only ever see a result or a *CircuitError.
func recovered(fn func() (Result, error)) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = Result{}, computationError(internalFaultMessage)
		}
	}()
	return fn()
}

func solveSeries(in Input) (Result, error) {
	var rt float64
	for _, r := range in.Resistances {
		rt += r
	}
	if err := checkTotalResistance(rt); err != nil {
		return Result{}, err
	}

	it := in.SourceVoltage / rt
	components := make([]Component, len(in.Resistances))
	for i, r := range in.Resistances {
		current := it
		voltage := current * r
		components[i] = Component{
			Index:      i + 1,
			Resistance: r,
			Voltage:    voltage,
			Current:    current,
			Power:      current * voltage,
		}
	}

	return newResult(in, rt, it, components), nil
}

func solveParallel(in Input) (Result, error) {
	var sumOfInverses float64
	for i, r := range in.Resistances {
		if r == 0 {
			return Result{}, divisionByZero(i + 1)
		}
		sumOfInverses += 1 / r
	}
	if sumOfInverses == 0 {
		return Result{}, degenerateCircuit()
	}

	rt := 1 / sumOfInverses
	if err := checkTotalResistance(rt); err != nil {
		return Result{}, err
	}

	it := in.SourceVoltage / rt
	components := make([]Component, len(in.Resistances))
	for i, r := range in.Resistances {
		voltage := in.SourceVoltage
		current := voltage / r
		components[i] = Component{
			Index:      i + 1,
			Resistance: r,
			Voltage:    voltage,
			Current:    current,
			Power:      current * voltage,
		}
	}

	return newResult(in, rt, it, components), nil
}

func newResult(in Input, rt, it float64, components []Component) Result {
	var pt float64
	for _, c := range components {
		pt += c.Power
	}
	return Result{
		Topology:        in.Topology,
		SourceVoltage:   in.SourceVoltage,
		TotalResistance: rt,
		TotalCurrent:    it,
		TotalPower:      pt,
		Components:      components,
	}
}

func checkTotalResistance(rt float64) error {
	if !isFinite(rt) || rt <= 0 {
		return computationError("invalid total resistance computed")
	}
	return nil
}

// checkOutputs rejects results that overflowed past the total resistance,
// e.g. a huge source voltage across a tiny resistance.
func checkOutputs(res Result) error {
	if !isFinite(res.TotalCurrent) || !isFinite(res.TotalPower) {
		return computationError("computed totals are not finite numbers")
	}
	for _, c := range res.Components {
		if !isFinite(c.Voltage) || !isFinite(c.Current) || !isFinite(c.Power) {
			return computationError(fmt.Sprintf("computed values for resistor R%d are not finite numbers", c.Index))
		}
	}
	return nil
}
