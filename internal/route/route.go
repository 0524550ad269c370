// Package route draws finish-to-start dependency arrows between positioned
// task bars as SVG path data.
package route

import (
	"math"
	"strconv"
	"strings"

	"github.com/nissyi-gh/gantt/internal/timeline"
)

// Point is a pixel coordinate. Anchors sit on half rows, so it is fractional.
type Point struct {
	X, Y float64
}

// Rect is a bar rectangle as produced by timeline.TaskPosition.
type Rect struct {
	Left  int
	Width int
	Top   int
}

// RectOf converts a timeline position.
func RectOf(p timeline.Position) Rect {
	return Rect{Left: p.Left, Width: p.Width, Top: p.Top}
}

// Shape names the routing branch chosen for an arrow.
type Shape int

const (
	// ShapeCurve is a single cubic S-curve, used when the target is far enough
	// to the right.
	ShapeCurve Shape = iota
	// ShapeDetour leaves the source row, runs back along the row boundary and
	// re-enters the target row, for targets behind the source on the same row.
	ShapeDetour
	// ShapeElbow turns once to the target row and once into the target.
	ShapeElbow
)

func (s Shape) String() string {
	switch s {
	case ShapeCurve:
		return "curve"
	case ShapeDetour:
		return "detour"
	case ShapeElbow:
		return "elbow"
	}
	return "unknown"
}

// Options tunes the router. All values are pixels.
type Options struct {
	RowHeight int
	// CurveGap is the horizontal gap an S-curve needs.
	CurveGap float64
	// SameRowTolerance is the largest vertical offset still treated as one row.
	SameRowTolerance float64
	// Offset is the horizontal stub leaving the source and entering the target.
	Offset float64
	// Escape is how far a detour leaves the source row.
	Escape float64
	// Radius rounds the corners of routed paths.
	Radius float64
}

// DefaultOptions returns the router settings for the given row height.
func DefaultOptions(rowHeight int) Options {
	return Options{
		RowHeight:        rowHeight,
		CurveGap:         24,
		SameRowTolerance: 4,
		Offset:           12,
		Escape:           float64(rowHeight) / 2,
		Radius:           4,
	}
}

// Anchors returns the source's right-centre and the target's left-centre.
func Anchors(from, to Rect, opts Options) (Point, Point) {
	half := float64(opts.RowHeight) / 2
	return Point{X: float64(from.Left + from.Width), Y: float64(from.Top) + half},
		Point{X: float64(to.Left), Y: float64(to.Top) + half}
}

// Classify picks the routing branch for two anchors, in priority order.
func Classify(from, to Point, opts Options) Shape {
	dx := to.X - from.X
	dy := to.Y - from.Y
	switch {
	case dx > opts.CurveGap:
		return ShapeCurve
	case math.Abs(dy) <= opts.SameRowTolerance:
		return ShapeDetour
	default:
		return ShapeElbow
	}
}

// Path returns SVG path data from the source's finish edge to the target's
// start edge. Whatever the branch, the path ends exactly on the target anchor.
func Path(from, to Rect, opts Options) string {
	a, b := Anchors(from, to, opts)
	switch Classify(a, b, opts) {
	case ShapeCurve:
		return curve(a, b)
	case ShapeDetour:
		return detour(a, b, opts)
	default:
		return elbow(a, b, opts)
	}
}

func curve(a, b Point) string {
	midX := a.X + (b.X-a.X)/2
	var p pathData
	p.move(a.X, a.Y)
	p.cubic(midX, a.Y, midX, b.Y, b.X, b.Y)
	return p.String()
}

func detour(a, b Point, opts Options) string {
	down := sign(b.Y - a.Y)
	if down == 0 {
		down = 1
	}
	exitX := a.X + opts.Offset
	entryX := b.X - opts.Offset
	midY := a.Y + down*opts.Escape

	across := sign(entryX - exitX)
	if across == 0 {
		across = -1
	}
	back := sign(b.Y - midY)
	if back == 0 {
		back = -down
	}
	r := minOf(opts.Radius, opts.Offset/2, opts.Escape/2,
		math.Abs(entryX-exitX)/2, math.Abs(b.Y-midY)/2)

	var p pathData
	p.move(a.X, a.Y)
	p.line(exitX-r, a.Y)
	p.quad(exitX, a.Y, exitX, a.Y+down*r)
	p.line(exitX, midY-down*r)
	p.quad(exitX, midY, exitX+across*r, midY)
	p.line(entryX-across*r, midY)
	p.quad(entryX, midY, entryX, midY+back*r)
	p.line(entryX, b.Y-back*r)
	p.quad(entryX, b.Y, entryX+r, b.Y)
	p.line(b.X, b.Y)
	return p.String()
}

func elbow(a, b Point, opts Options) string {
	vert := sign(b.Y - a.Y)
	exitX := a.X + opts.Offset
	across := sign(b.X - exitX)
	r := minOf(opts.Radius, opts.Offset/2, math.Abs(b.Y-a.Y)/2, math.Abs(b.X-exitX)/2)

	var p pathData
	p.move(a.X, a.Y)
	p.line(exitX-r, a.Y)
	p.quad(exitX, a.Y, exitX, a.Y+vert*r)
	p.line(exitX, b.Y-vert*r)
	p.quad(exitX, b.Y, exitX+across*r, b.Y)
	p.line(b.X, b.Y)
	return p.String()
}

type pathData struct {
	strings.Builder
}

func (p *pathData) cmd(c byte, coords ...float64) {
	if p.Len() > 0 {
		p.WriteByte(' ')
	}
	p.WriteByte(c)
	for i, v := range coords {
		if i > 0 && i%2 == 0 {
			p.WriteByte(',')
		}
		p.WriteByte(' ')
		p.WriteString(num(v))
	}
}

func (p *pathData) move(x, y float64)         { p.cmd('M', x, y) }
func (p *pathData) line(x, y float64)         { p.cmd('L', x, y) }
func (p *pathData) quad(cx, cy, x, y float64) { p.cmd('Q', cx, cy, x, y) }

func (p *pathData) cubic(c1x, c1y, c2x, c2y, x, y float64) {
	p.cmd('C', c1x, c1y, c2x, c2y, x, y)
}

func num(v float64) string {
	if v == 0 {
		v = 0 // drop negative zero
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func minOf(first float64, rest ...float64) float64 {
	m := first
	for _, v := range rest {
		m = math.Min(m, v)
	}
	return math.Max(m, 0)
}
