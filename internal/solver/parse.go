package solver

import (
	"math"
	"strconv"
	"strings"
)

// RawInput carries a circuit as typed into a form: every value is text.
type RawInput struct {
	Topology      string
	SourceVoltage string
	Resistances   []string
}

// ParseQuantity parses s as a finite number. The whole string (after
// trimming spaces) must be a decimal or scientific literal: "12abc", "",
// "NaN", "Inf" and hex floats such as "0x1p4" are all rejected.
func ParseQuantity(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || hexPrefixed(s) {
		return 0, false
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func hexPrefixed(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")
}

// ParseTopology maps form text to a Topology. Matching is case-insensitive
// and also accepts the legacy form values "serie" and "paralelo". Unknown
// text is returned as-is so that validation can reject it.
func ParseTopology(s string) Topology {
	norm := strings.ToLower(strings.TrimSpace(s))
	switch norm {
	case "series", "serie":
		return Series
	case "parallel", "paralelo":
		return Parallel
	}
	return Topology(s)
}

// ParseInput converts raw form values into an Input. Numbers that do not
// parse become NaN so that Solve rejects them in its usual order and the
// first offending field is still the one reported.
func ParseInput(raw RawInput) Input {
	in := Input{
		Topology:      ParseTopology(raw.Topology),
		SourceVoltage: parseOrNaN(raw.SourceVoltage),
	}
	if raw.Resistances != nil {
		in.Resistances = make([]float64, len(raw.Resistances))
		for i, s := range raw.Resistances {
			in.Resistances[i] = parseOrNaN(s)
		}
	}
	return in
}

func parseOrNaN(s string) float64 {
	v, ok := ParseQuantity(s)
	if !ok {
		return math.NaN()
	}
	return v
}
