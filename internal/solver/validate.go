package solver

import "math"

// CheckTopology fails with ErrInvalidTopology unless t is Series or Parallel.
func CheckTopology(t Topology) error {
	if !t.Valid() {
		return invalidTopology(t)
	}
	return nil
}

// CheckCount validates the number of resistors in a circuit.
func CheckCount(n int) error {
	if n <= 0 {
		return emptyResistanceList()
	}
	if n > MaxComponents {
		return tooManyComponents(n)
	}
	return nil
}

// CheckResistance validates the resistor at 1-based position index.
func CheckResistance(index int, r float64) error {
	if !isFinite(r) || r < MinResistance {
		return invalidResistance(index)
	}
	return nil
}

// CheckSourceVoltage validates the source voltage.
func CheckSourceVoltage(v float64) error {
	if !isFinite(v) || v <= 0 {
		return invalidSourceVoltage()
	}
	return nil
}

// Validate applies every rule in precedence order and returns the first
// violation: topology, list shape, count, each resistance, source voltage.
func Validate(in Input) error {
	if err := CheckTopology(in.Topology); err != nil {
		return err
	}
	if err := CheckCount(len(in.Resistances)); err != nil {
		return err
	}
	for i, r := range in.Resistances {
		if err := CheckResistance(i+1, r); err != nil {
			return err
		}
	}
	return CheckSourceVoltage(in.SourceVoltage)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
