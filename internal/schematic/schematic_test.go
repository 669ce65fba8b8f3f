package schematic

import (
	"bytes"
	"errors"
	"image/png"
	"strings"
	"testing"

	"circuit-calculator/internal/solver"
)

func solved(t *testing.T, in solver.Input) Diagram {
	t.Helper()
	res, err := solver.Solve(in)
	if err != nil {
		t.Fatalf("solving circuit: %v", err)
	}
	return FromResult(res)
}

func TestRenderSVG(t *testing.T) {
	tests := []struct {
		name string
		in   solver.Input
		want []string
	}{
		{
			name: "series",
			in:   solver.Input{Topology: solver.Series, SourceVoltage: 12, Resistances: []float64{100, 200}},
			want: []string{"<svg", "V1=4.00V", "V2=8.00V", "Vf=12.00V"},
		},
		{
			name: "parallel",
			in:   solver.Input{Topology: solver.Parallel, SourceVoltage: 10, Resistances: []float64{10, 10, 10}},
			want: []string{"<svg", "V1=10.00V", "V3=10.00V", "Vf=10.00V"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Render(&buf, solved(t, tc.in), FormatSVG); err != nil {
				t.Fatalf("rendering: %v", err)
			}

			out := buf.String()
			for _, w := range tc.want {
				if !strings.Contains(out, w) {
					t.Fatalf("expected SVG to contain %q", w)
				}
			}
		})
	}
}

func TestRenderPNGIsDoubleScale(t *testing.T) {
	d := solved(t, solver.Input{Topology: solver.Series, SourceVoltage: 12, Resistances: []float64{100, 200}})

	var buf bytes.Buffer
	if err := Render(&buf, d, FormatPNG); err != nil {
		t.Fatalf("rendering: %v", err)
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("decoding png: %v", err)
	}

	width, height := d.size()
	if diff := cfg.Width - int(2*width); diff < -1 || diff > 1 {
		t.Fatalf("expected width about %d, got %d", int(2*width), cfg.Width)
	}
	if diff := cfg.Height - int(2*height); diff < -1 || diff > 1 {
		t.Fatalf("expected height about %d, got %d", int(2*height), cfg.Height)
	}
}

func TestDiagramSize(t *testing.T) {
	tests := []struct {
		name       string
		topology   solver.Topology
		n          int
		wantWidth  float64
		wantHeight float64
	}{
		{name: "series two", topology: solver.Series, n: 2, wantWidth: 270, wantHeight: 180},
		{name: "parallel one uses min width", topology: solver.Parallel, n: 1, wantWidth: 260, wantHeight: 190},
		{name: "parallel ten", topology: solver.Parallel, n: 10, wantWidth: 20 + 30 + 9*90 + 60 + 20, wantHeight: 190},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := Diagram{Topology: tc.topology, Components: make([]solver.Component, tc.n)}
			w, h := d.size()
			if w != tc.wantWidth || h != tc.wantHeight {
				t.Fatalf("expected %gx%g, got %gx%g", tc.wantWidth, tc.wantHeight, w, h)
			}
		})
	}
}

func TestRenderErrors(t *testing.T) {
	var buf bytes.Buffer

	err := Render(&buf, Diagram{Topology: solver.Series}, FormatSVG)
	if !errors.Is(err, ErrEmptyDiagram) {
		t.Fatalf("expected %v, got %v", ErrEmptyDiagram, err)
	}

	one := []solver.Component{{Index: 1, Resistance: 1, Voltage: 1, Current: 1, Power: 1}}
	err = Render(&buf, Diagram{Topology: "star", Components: one}, FormatSVG)
	if !errors.Is(err, ErrTopology) {
		t.Fatalf("expected %v, got %v", ErrTopology, err)
	}

	err = Render(&buf, Diagram{Topology: solver.Series, Components: one}, Format("gif"))
	if !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected %v, got %v", ErrUnknownFormat, err)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "", want: FormatSVG},
		{in: "svg", want: FormatSVG},
		{in: "PNG", want: FormatPNG},
		{in: "gif", wantErr: true},
	}

	for _, tc := range tests {
		got, err := ParseFormat(tc.in)
		if tc.wantErr {
			if !errors.Is(err, ErrUnknownFormat) {
				t.Fatalf("ParseFormat(%q): expected %v, got %v", tc.in, ErrUnknownFormat, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("ParseFormat(%q): expected %q, got %q (%v)", tc.in, tc.want, got, err)
		}
	}
}

func TestFilename(t *testing.T) {
	if got := Filename(solver.Parallel, FormatPNG); got != "schematic_parallel.png" {
		t.Fatalf("expected %q, got %q", "schematic_parallel.png", got)
	}
}
