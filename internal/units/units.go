// Package units formats electrical quantities for display with SI prefixes.
package units

import (
	"fmt"
	"math"
)

// Quantity identifies the physical quantity being formatted.
type Quantity int

const (
	Resistance Quantity = iota
	Voltage
	Current
	Power
)

// Symbol returns the base unit symbol for q.
func (q Quantity) Symbol() string {
	switch q {
	case Resistance:
		return "Ω"
	case Voltage:
		return "V"
	case Current:
		return "A"
	case Power:
		return "W"
	default:
		return ""
	}
}

// decimals picks the number of decimals from the magnitude of an already
// scaled value.
func decimals(abs float64) int {
	switch {
	case abs < 10:
		return 3
	case abs < 100:
		return 2
	default:
		return 1
	}
}

// Fixed formats v with 3, 2 or 1 decimals depending on its magnitude,
// followed by unit. Non-finite values render as "-".
func Fixed(v float64, unit string) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	return fmt.Sprintf("%.*f %s", decimals(math.Abs(v)), v, unit)
}

func zeroOrInvalid(v float64) bool {
	return v == 0 || math.IsNaN(v) || math.IsInf(v, 0)
}

// Detail formats a per-component value.
func Detail(q Quantity, v float64) string {
	if zeroOrInvalid(v) {
		return "0 " + q.Symbol()
	}
	abs := math.Abs(v)

	switch q {
	case Resistance:
		switch {
		case abs < 1e3:
			return Fixed(v, "Ω")
		case abs < 1e6:
			return Fixed(v/1e3, "kΩ")
		default:
			return Fixed(v/1e6, "MΩ")
		}
	case Voltage:
		switch {
		case abs < 1:
			return Fixed(v*1e3, "mV")
		case abs >= 1e3:
			return Fixed(v/1e3, "kV")
		default:
			return Fixed(v, "V")
		}
	case Current, Power:
		unit := q.Symbol()
		switch {
		case abs < 1e-3:
			return Fixed(v*1e6, "µ"+unit)
		case abs < 1:
			return Fixed(v*1e3, "m"+unit)
		default:
			return Fixed(v, unit)
		}
	}
	return Fixed(v, q.Symbol())
}

// Total formats a circuit total. Resistance always stays in ohms; current
// and power switch between the milli and base units.
func Total(q Quantity, v float64) string {
	if q == Resistance {
		return Fixed(v, "Ω")
	}
	if zeroOrInvalid(v) {
		return "0 " + q.Symbol()
	}
	if math.Abs(v) < 1 {
		return Fixed(v*1e3, "m"+q.Symbol())
	}
	return Fixed(v, q.Symbol())
}

// Label formats a compact schematic label: two decimals, no space.
func Label(q Quantity, v float64) string {
	abs := math.Abs(v)
	switch q {
	case Resistance:
		switch {
		case abs >= 1e6:
			return fmt.Sprintf("%.2fMΩ", v/1e6)
		case abs >= 1e3:
			return fmt.Sprintf("%.2fkΩ", v/1e3)
		}
	case Voltage:
		switch {
		case abs < 1:
			return fmt.Sprintf("%.2fmV", v*1e3)
		case abs >= 1e3:
			return fmt.Sprintf("%.2fkV", v/1e3)
		}
	}
	return fmt.Sprintf("%.2f%s", v, q.Symbol())
}
