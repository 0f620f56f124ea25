package tui

import (
	"math"
	"strings"

	"github.com/balkashynov/liftlog/internal/parser"
	"github.com/balkashynov/liftlog/internal/progress"
)

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// Sparkline draws one block per point, scaled between the padded min and max
// of the non-nil values. Nil points are drawn as gaps.
func Sparkline(points []progress.Point) string {
	lo, hi, ok := chartRange(points)
	if !ok {
		return strings.Repeat(" ", len(points))
	}

	var b strings.Builder
	top := float64(len(sparkBlocks) - 1)
	for _, p := range points {
		if p.Y == nil {
			b.WriteRune(' ')
			continue
		}
		// midpoints round up even with float error
		i := int(math.Round((*p.Y-lo)*top/(hi-lo) + 1e-9))
		if i < 0 {
			i = 0
		}
		if i > len(sparkBlocks)-1 {
			i = len(sparkBlocks) - 1
		}
		b.WriteRune(sparkBlocks[i])
	}
	return b.String()
}

// chartRange pads the value range by 12% so lines never sit on the edge.
// A flat series gets a range of ±1.
func chartRange(points []progress.Point) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, p := range points {
		if p.Y == nil {
			continue
		}
		ok = true
		lo = math.Min(lo, *p.Y)
		hi = math.Max(hi, *p.Y)
	}
	if !ok {
		return 0, 1, false
	}
	if lo == hi {
		return lo - 1, hi + 1, true
	}
	pad := (hi - lo) * 0.12
	return lo - pad, hi + pad, true
}

// LastValue returns the most recent non-nil point, formatted to two decimals at most
func LastValue(points []progress.Point) string {
	for i := len(points) - 1; i >= 0; i-- {
		if points[i].Y != nil {
			v := math.Round(*points[i].Y*100) / 100
			return parser.FormatNumber(v)
		}
	}
	return "—"
}

// ChartCard renders a labelled sparkline with its latest value and the first
// and last date labels underneath
func ChartCard(label, suffix string, points []progress.Point) string {
	var b strings.Builder
	last := LastValue(points)
	if last != "—" {
		last += suffix
	}
	b.WriteString(label + "  " + last + "\n")
	b.WriteString(Sparkline(points))
	if len(points) > 0 {
		first, end := points[0].Label, points[len(points)-1].Label
		b.WriteString("\n" + first)
		if len(points) > 1 {
			gap := len(points) - len(first) - len(end)
			if gap < 1 {
				gap = 1
			}
			b.WriteString(strings.Repeat(" ", gap) + end)
		}
	}
	return b.String()
}
