// Package schematic draws series and parallel resistor circuits as SVG or
// PNG images. It only lays out values that were already computed; nothing
// here re-derives electrical quantities.
package schematic

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"strings"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgsvg"

	"circuit-calculator/internal/solver"
)

// Format is an output image encoding.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// pngDPI renders PNGs at twice the SVG point size.
const pngDPI = 144

var (
	ErrUnknownFormat = errors.New("schematic: unknown image format")
	ErrEmptyDiagram  = errors.New("schematic: diagram has no components")
	ErrTopology      = errors.New("schematic: unsupported topology")
)

// ParseFormat maps a query value to a Format. An empty value selects SVG.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatSVG:
		return FormatSVG, nil
	case FormatPNG:
		return FormatPNG, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// ContentType returns the MIME type of images encoded with f.
func (f Format) ContentType() string {
	if f == FormatPNG {
		return "image/png"
	}
	return "image/svg+xml"
}

// Diagram is everything the renderer needs to draw a solved circuit.
type Diagram struct {
	Topology      solver.Topology
	SourceVoltage float64
	Components    []solver.Component
}

// FromResult builds a Diagram from a solver result.
func FromResult(res solver.Result) Diagram {
	return Diagram{
		Topology:      res.Topology,
		SourceVoltage: res.SourceVoltage,
		Components:    res.Components,
	}
}

// Render draws d and writes it to w encoded as f.
func Render(w io.Writer, d Diagram, f Format) error {
	if len(d.Components) == 0 {
		return ErrEmptyDiagram
	}
	if !d.Topology.Valid() {
		return fmt.Errorf("%w: %q", ErrTopology, string(d.Topology))
	}

	width, height := d.size()
	wl, hl := vg.Points(width), vg.Points(height)

	switch f {
	case FormatSVG:
		c := vgsvg.New(wl, hl)
		d.draw(newPen(draw.New(c), width, height))
		if _, err := c.WriteTo(w); err != nil {
			return fmt.Errorf("schematic: writing svg: %w", err)
		}
		return nil

	case FormatPNG:
		c := vgimg.NewWith(
			vgimg.UseWH(wl, hl),
			vgimg.UseDPI(pngDPI),
			vgimg.UseBackgroundColor(color.White),
		)
		d.draw(newPen(draw.New(c), width, height))
		if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(w); err != nil {
			return fmt.Errorf("schematic: writing png: %w", err)
		}
		return nil
	}

	return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
}

// Filename suggests a download name for a rendered diagram.
func Filename(t solver.Topology, f Format) string {
	return fmt.Sprintf("schematic_%s.%s", t, f)
}

func (d Diagram) size() (width, height float64) {
	n := float64(len(d.Components))
	if d.Topology == solver.Series {
		return margin + 30 + n*(seriesResistorWidth+seriesGap) + margin, seriesHeight
	}
	width = margin + 30 + (n-1)*branchSpacing + branchResistorWidth + margin
	if width < minParallelWidth {
		width = minParallelWidth
	}
	return width, parallelHeight
}

func (d Diagram) draw(p pen) {
	p.rect(color.White, 0, 0, p.width, p.height)
	if d.Topology == solver.Series {
		d.drawSeries(p)
		return
	}
	d.drawParallel(p)
}
