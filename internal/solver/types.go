// Package solver computes pure series and pure parallel resistor networks
// driven by a single DC source.
//
// The package is a leaf: no I/O, no logging, no shared state. Every call to
// Solve builds its result from scratch, so callers may use it from any number
// of goroutines without coordination.
package solver

const (
	// MaxComponents is the largest number of resistors a circuit may hold.
	MaxComponents = 10

	// MinResistance is the smallest accepted resistance, in ohms.
	MinResistance = 0.01
)

// Topology selects how the resistors are connected to the source.
type Topology string

const (
	Series   Topology = "series"
	Parallel Topology = "parallel"
)

// Valid reports whether t is one of the supported topologies.
func (t Topology) Valid() bool {
	return t == Series || t == Parallel
}

// Input is a solve request. Order of Resistances defines component indexes
// 1..N in the result and carries no electrical meaning.
type Input struct {
	Topology      Topology
	SourceVoltage float64
	Resistances   []float64
}

// Component holds the operating point of one resistor.
type Component struct {
	Index      int     // 1-based, matches the position in Input.Resistances
	Resistance float64 // ohms, echoed from the input
	Voltage    float64 // volts across the resistor
	Current    float64 // amperes through the resistor
	Power      float64 // watts, always Current * Voltage
}

// Result is the full-precision solution of a circuit. Values are not rounded.
type Result struct {
	Topology        Topology
	SourceVoltage   float64
	TotalResistance float64
	TotalCurrent    float64
	TotalPower      float64
	Components      []Component
}
