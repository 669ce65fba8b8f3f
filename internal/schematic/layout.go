package schematic

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"circuit-calculator/internal/units"
)

// Layout in points, y growing downwards.
const (
	margin        = 20.0
	batteryTop    = 30.0
	batteryHeight = 60.0
	plateGap      = 10.0

	seriesRowY          = 80.0
	seriesBottomY       = 140.0
	seriesResistorWidth = 70.0
	seriesGap           = 30.0
	seriesHeight        = 180.0

	parallelRailTop     = 60.0
	parallelRailBottom  = 140.0
	branchSpacing       = 90.0
	branchResistorWidth = 60.0
	branchScale         = 0.64
	minParallelWidth    = 260.0
	parallelHeight      = 190.0

	zigzagTeeth = 6
	zigzagAmp   = 8.0
)

var (
	wireColor     = color.RGBA{R: 0x22, G: 0x22, B: 0x22, A: 0xff}
	plateColor    = color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}
	shortColor    = color.RGBA{R: 0x77, G: 0x77, B: 0x77, A: 0xff}
	resistorColor = color.RGBA{R: 0xd1, G: 0x9a, B: 0x2a, A: 0xff}
	labelColor    = color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}
	valueColor    = color.RGBA{R: 0x44, G: 0x44, B: 0x44, A: 0xff}
	sourceColor   = color.RGBA{R: 0x11, G: 0x11, B: 0x11, A: 0xff}
)

// pen draws on a draw.Canvas using top-down coordinates in points.
type pen struct {
	c      *draw.Canvas
	width  float64
	height float64
}

func newPen(c draw.Canvas, width, height float64) pen {
	return pen{c: &c, width: width, height: height}
}

func (p pen) pt(x, y float64) vg.Point {
	return vg.Point{X: vg.Points(x), Y: vg.Points(p.height - y)}
}

func (p pen) line(clr color.Color, w, x1, y1, x2, y2 float64) {
	sty := draw.LineStyle{Color: clr, Width: vg.Points(w)}
	p.c.StrokeLines(sty, []vg.Point{p.pt(x1, y1), p.pt(x2, y2)})
}

func (p pen) wire(x1, y1, x2, y2 float64) {
	p.line(wireColor, 2, x1, y1, x2, y2)
}

func (p pen) rect(clr color.Color, x, y, w, h float64) {
	p.c.FillPolygon(clr, []vg.Point{
		p.pt(x, y), p.pt(x+w, y), p.pt(x+w, y+h), p.pt(x, y+h),
	})
}

func (p pen) text(x, y, size float64, clr color.Color, align text.XAlignment, s string) {
	fnt := plot.DefaultFont
	fnt.Size = vg.Points(size)
	sty := text.Style{
		Color:   clr,
		Font:    fnt,
		XAlign:  align,
		YAlign:  text.YBottom,
		Handler: plot.DefaultTextHandler,
	}
	p.c.FillText(sty, p.pt(x, y), s)
}

// textWithBackground writes a centered label over a white box so that wires
// behind it stay hidden. The box width is estimated from the rune count.
func (p pen) textWithBackground(x, y, size float64, clr color.Color, s string) {
	const padX, padY = 4.0, 2.0
	w := float64(len([]rune(s)))*size*0.55 + 2*padX
	h := size + 2*padY
	p.rect(color.White, x-w/2, y-size-padY, w, h)
	p.text(x, y, size, clr, text.XCenter, s)
}

// battery draws the long and short plates and returns the x of the short one.
func (p pen) battery(x, top, height float64) float64 {
	long := height * 0.8
	short := height * 0.5
	p.line(plateColor, 2, x, top, x, top+long)
	p.line(shortColor, 4, x+plateGap, top+(long-short)/2, x+plateGap, top+(long+short)/2)
	return x + plateGap
}

func (p pen) resistor(x, y, width, amp float64, label string) {
	step := width / (zigzagTeeth * 2)
	pts := make([]vg.Point, 0, zigzagTeeth*2+2)
	pts = append(pts, p.pt(x, y))
	for i := 0; i < zigzagTeeth*2; i++ {
		ny := y + amp
		if i%2 == 0 {
			ny = y - amp
		}
		pts = append(pts, p.pt(x+float64(i)*step+step/2, ny))
	}
	pts = append(pts, p.pt(x+width, y))
	p.c.StrokeLines(draw.LineStyle{Color: resistorColor, Width: vg.Points(2)}, pts)

	p.text(x+width/2, y-amp-6, 11, labelColor, text.XCenter, label)
}

func resistorLabel(i int, r float64) string {
	return fmt.Sprintf("R%d (%s)", i, units.Label(units.Resistance, r))
}

func voltageLabel(i int, v float64) string {
	return fmt.Sprintf("V%d=%s", i, units.Label(units.Voltage, v))
}

func (d Diagram) sourceLabel(p pen) {
	p.text(margin+5, 20, 12, sourceColor, text.XLeft, "Vf="+units.Label(units.Voltage, d.SourceVoltage))
}

func (d Diagram) drawSeries(p pen) {
	right := p.battery(margin, batteryTop, batteryHeight)

	p.wire(right, batteryTop, right+20, batteryTop)
	p.wire(right+20, batteryTop, right+20, seriesRowY)

	x := right + 20
	for _, c := range d.Components {
		p.wire(x, seriesRowY, x+10, seriesRowY)
		p.resistor(x+10, seriesRowY, seriesResistorWidth, zigzagAmp, resistorLabel(c.Index, c.Resistance))
		p.text(x+10+seriesResistorWidth/2, seriesRowY+22, 11, valueColor, text.XCenter, voltageLabel(c.Index, c.Voltage))
		p.wire(x+10+seriesResistorWidth, seriesRowY, x+seriesResistorWidth+seriesGap, seriesRowY)
		x += seriesResistorWidth + seriesGap
	}

	// Return path to the negative plate.
	p.wire(x, seriesRowY, x, seriesBottomY)
	p.wire(x, seriesBottomY, margin, seriesBottomY)
	p.wire(margin, seriesBottomY, margin, batteryTop)

	d.sourceLabel(p)
}

func (d Diagram) drawParallel(p pen) {
	right := p.battery(margin, batteryTop, batteryHeight)
	railStart := right + 20
	railEnd := p.width - margin

	// Wires first so that symbols and labels sit on top.
	p.wire(railStart, parallelRailTop, railEnd, parallelRailTop)
	p.wire(railStart, parallelRailBottom, railEnd, parallelRailBottom)
	p.wire(right, batteryTop, railStart, batteryTop)
	p.wire(railStart, batteryTop, railStart, parallelRailTop)
	p.wire(margin, batteryTop+batteryHeight*0.8, margin, parallelRailBottom)
	p.wire(margin, parallelRailBottom, railStart, parallelRailBottom)

	centerY := (parallelRailTop + parallelRailBottom) / 2
	for i := range d.Components {
		x := railStart + float64(i)*branchSpacing
		p.wire(x, parallelRailTop, x, parallelRailBottom)
	}

	rWidth := branchResistorWidth * branchScale
	amp := zigzagAmp * branchScale
	for i, c := range d.Components {
		x := railStart + float64(i)*branchSpacing
		bgW := rWidth + 18
		bgH := amp*2 + 28
		p.rect(color.White, x-bgW/2, centerY-bgH/2, bgW, bgH)
		p.resistor(x-rWidth/2, centerY, rWidth, amp, resistorLabel(c.Index, c.Resistance))
		p.textWithBackground(x, centerY+amp+16, 11, valueColor, voltageLabel(c.Index, c.Voltage))
	}

	d.sourceLabel(p)
}
