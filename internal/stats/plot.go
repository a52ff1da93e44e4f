package stats

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Line is a named series plotted against its index.
type Line struct {
	Name   string
	Values []float64
}

// PlotOptions controls PlotLines output.
type PlotOptions struct {
	Width    int
	Height   int
	UseColor bool
}

type dashPattern struct {
	name   string
	period int
	on     int
}

const (
	defaultPlotHeight = 8
	minPlotWidth      = 10
	axisSeparator     = " │ "
)

var dashPatterns = []dashPattern{
	{name: "solid", period: 1, on: 1},
	{name: "dashed", period: 6, on: 3},
	{name: "dotted", period: 4, on: 1},
}

var lineColors = []string{
	"\x1b[36m",
	"\x1b[35m",
	"\x1b[33m",
	"\x1b[32m",
}

// PlotLines draws every non-empty line on one shared vertical scale using
// braille dots. Width is the total width including the axis.
func PlotLines(w io.Writer, title string, lines []Line, opts PlotOptions) error {
	lines = nonEmptyLines(lines)
	if len(lines) == 0 {
		return nil
	}
	height := opts.Height
	if height <= 0 {
		height = defaultPlotHeight
	}
	lo, hi := valueRange(lines)
	labels := axisLabels(lo, hi, height)
	labelWidth := 0
	for _, l := range labels {
		labelWidth = max(labelWidth, len(l))
	}
	width := PlotWidthFor(opts.Width, labelWidth)

	dotsX := width * 2
	dotsY := height * 4
	layers := make([][][]uint8, len(lines))
	for i, line := range lines {
		layers[i] = makeCells(height, width)
		pattern := dashPatterns[i%len(dashPatterns)]
		values := Resample(line.Values, dotsX)
		prevX, prevY := -1, -1
		for j, v := range values {
			x := 0
			if len(values) > 1 {
				x = j * (dotsX - 1) / (len(values) - 1)
			}
			y := valueToDotRow(v, lo, hi, dotsY)
			plot := func(px, py int) {
				if pattern.visible(px) {
					setBrailleDot(layers[i], px, py)
				}
			}
			if prevX >= 0 {
				drawLine(prevX, prevY, x, y, plot)
			} else {
				plot(x, y)
			}
			prevX, prevY = x, y
		}
	}

	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	for y := 0; y < height; y++ {
		var row strings.Builder
		row.WriteString(fmt.Sprintf("%*s%s", labelWidth, labels[y], axisSeparator))
		for x := 0; x < width; x++ {
			mask, layer := composeCell(layers, x, y)
			ch := brailleFromMask(mask)
			if opts.UseColor && layer >= 0 {
				row.WriteString(lineColors[layer%len(lineColors)])
				row.WriteRune(ch)
				row.WriteString(colorReset)
			} else {
				row.WriteRune(ch)
			}
		}
		if _, err := fmt.Fprintln(w, row.String()); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, legend(lines, opts.UseColor))
	return err
}

// PlotWidthFor returns the number of plot cells that fit in totalWidth next
// to an axis whose labels are labelWidth wide.
func PlotWidthFor(totalWidth, labelWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	plotWidth := totalWidth - labelWidth - utf8.RuneCountInString(axisSeparator)
	return max(plotWidth, minPlotWidth)
}

func nonEmptyLines(lines []Line) []Line {
	out := make([]Line, 0, len(lines))
	for _, l := range lines {
		if len(l.Values) > 0 {
			out = append(out, l)
		}
	}
	return out
}

func valueRange(lines []Line) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, l := range lines {
		for _, v := range l.Values {
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if hi-lo < 1e-9 {
		lo--
		hi++
	}
	return lo, hi
}

func axisLabels(lo, hi float64, height int) []string {
	labels := make([]string, height)
	format := func(v float64) string {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	labels[0] = format(hi)
	if height > 2 {
		labels[height/2] = format((lo + hi) / 2)
	}
	if height > 1 {
		labels[height-1] = format(lo)
	}
	return labels
}

func legend(lines []Line, useColor bool) string {
	parts := make([]string, 0, len(lines))
	for i, l := range lines {
		label := fmt.Sprintf("%s (%s)", l.Name, dashPatterns[i%len(dashPatterns)].name)
		if useColor {
			label = lineColors[i%len(lineColors)] + label + colorReset
		}
		parts = append(parts, label)
	}
	return "Legend: " + strings.Join(parts, "  ")
}

func (p dashPattern) visible(x int) bool {
	if p.period <= 1 {
		return true
	}
	return x%p.period < p.on
}

func valueToDotRow(v, lo, hi float64, rows int) int {
	if rows <= 1 {
		return 0
	}
	pos := (v - lo) / (hi - lo)
	row := int(math.Round((1 - pos) * float64(rows-1)))
	return min(max(row, 0), rows-1)
}

func makeCells(height, width int) [][]uint8 {
	cells := make([][]uint8, height)
	for y := range cells {
		cells[y] = make([]uint8, width)
	}
	return cells
}

// composeCell merges the dots of every layer; the color follows the first
// layer with a dot in the cell.
func composeCell(layers [][][]uint8, x, y int) (uint8, int) {
	var mask uint8
	first := -1
	for i, cells := range layers {
		if y >= len(cells) || x >= len(cells[y]) || cells[y][x] == 0 {
			continue
		}
		if first == -1 {
			first = i
		}
		mask |= cells[y][x]
	}
	return mask, first
}

// drawLine walks the segment with Bresenham's algorithm.
func drawLine(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Braille cells are 2 dots wide and 4 dots tall.
var brailleDots = [4][2]uint8{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

func setBrailleDot(cells [][]uint8, x, y int) {
	if x < 0 || y < 0 {
		return
	}
	cy, cx := y/4, x/2
	if cy >= len(cells) || cx >= len(cells[cy]) {
		return
	}
	cells[cy][cx] |= brailleDots[y%4][x%2]
}

func brailleFromMask(mask uint8) rune {
	return rune(0x2800 + int(mask))
}
