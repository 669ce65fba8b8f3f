package circuit

import (
	"bytes"
	"encoding/json"
	"strconv"

	"circuit-calculator/internal/solver"
)

// Quantity is a form field. It accepts any JSON scalar and keeps the text,
// so that parsing stays explicit and bad values reach validation.
type Quantity string

// UnmarshalJSON implements json.Unmarshaler.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*q = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*q = Quantity(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			// Booleans, objects and arrays are kept as text and rejected
			// by validation like any other non-numeric input.
			*q = Quantity(data)
			return nil
		}
		*q = Quantity(n.String())
	}
	return nil
}

// QuantityList is the resistances field. A value that is not a JSON array
// decodes to nil and is reported as an empty resistance list.
type QuantityList []Quantity

// UnmarshalJSON implements json.Unmarshaler.
func (l *QuantityList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		*l = nil
		return nil
	}
	var items []Quantity
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*l = items
	return nil
}

// SolveRequest is the JSON body for POST /circuit/solve.
type SolveRequest struct {
	Topology      Quantity     `json:"topology"`       // "series" or "parallel"
	SourceVoltage Quantity     `json:"source_voltage"` // volts
	Resistances   QuantityList `json:"resistances"`    // ohms, 1..10 values
}

// Raw converts the request into the solver's text form.
func (r SolveRequest) Raw() solver.RawInput {
	raw := solver.RawInput{
		Topology:      string(r.Topology),
		SourceVoltage: string(r.SourceVoltage),
	}
	if r.Resistances != nil {
		raw.Resistances = make([]string, len(r.Resistances))
		for i, q := range r.Resistances {
			raw.Resistances[i] = string(q)
		}
	}
	return raw
}

// ComponentDisplay holds the formatted values of one resistor.
type ComponentDisplay struct {
	Resistance string `json:"resistance"`
	Voltage    string `json:"voltage"`
	Current    string `json:"current"`
	Power      string `json:"power"`
}

// ComponentResponse is one row of the per-resistor detail.
type ComponentResponse struct {
	Index      int              `json:"index"`
	Resistance float64          `json:"resistance"`
	Voltage    float64          `json:"voltage"`
	Current    float64          `json:"current"`
	Power      float64          `json:"power"`
	Display    ComponentDisplay `json:"display"`
}

// TotalsDisplay holds the formatted circuit totals.
type TotalsDisplay struct {
	TotalResistance string `json:"total_resistance"`
	TotalCurrent    string `json:"total_current"`
	TotalPower      string `json:"total_power"`
}

// SolveResponse is the JSON response for POST /circuit/solve.
type SolveResponse struct {
	Topology        string              `json:"topology"`
	SourceVoltage   float64             `json:"source_voltage"`
	TotalResistance float64             `json:"total_resistance"`
	TotalCurrent    float64             `json:"total_current"`
	TotalPower      float64             `json:"total_power"`
	Components      []ComponentResponse `json:"components"`
	Display         TotalsDisplay       `json:"display"`
}

// ErrorResponse is the JSON body written for a failed solve.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	Index int    `json:"index,omitempty"` // 1-based resistor, when relevant
}

// BatchRequest is the JSON body for POST /circuit/batch.
type BatchRequest struct {
	Circuits []SolveRequest `json:"circuits"`
}

// BatchItem is the outcome of one circuit in a batch: exactly one of
// Result and Error is set.
type BatchItem struct {
	Index  int            `json:"index"`
	Result *SolveResponse `json:"result,omitempty"`
	Error  *ErrorResponse `json:"error,omitempty"`
}

// BatchResponse is the JSON response for POST /circuit/batch.
type BatchResponse struct {
	Items     []BatchItem `json:"items"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
}

// FieldError flags a single offending form field.
type FieldError struct {
	Field   string `json:"field"` // "topology", "resistances", "resistances[2]", "source_voltage"
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidateResponse is the JSON response for POST /circuit/validate.
type ValidateResponse struct {
	Valid  bool         `json:"valid"`
	Errors []FieldError `json:"errors"`
}

// LimitsResponse is the JSON response for GET /circuit/limits.
type LimitsResponse struct {
	MaxComponents int      `json:"max_components"`
	MinResistance float64  `json:"min_resistance"`
	Topologies    []string `json:"topologies"`
}

func resistanceField(index int) string {
	return "resistances[" + strconv.Itoa(index) + "]"
}
