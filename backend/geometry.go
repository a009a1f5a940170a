// SPDX-License-Identifier: MIT
package backend

import (
	"math"

	"github.com/kfactory-go/kfactory/units"
)

// Box is an axis-aligned integer (dbu) bounding box. An empty Box (the
// zero value after NewEmptyBox) participates in no overlap.
type Box struct {
	Left, Bottom, Right, Top int64
	empty                    bool
}

// NewEmptyBox returns the canonical empty box.
func NewEmptyBox() Box { return Box{empty: true} }

// NewBox constructs a normalized box from two opposite corners.
func NewBox(x0, y0, x1, y1 int64) Box {
	if x0 > x1 {
		x0, x1 = x1, x0
	}
	if y0 > y1 {
		y0, y1 = y1, y0
	}
	return Box{Left: x0, Bottom: y0, Right: x1, Top: y1}
}

// IsEmpty reports whether b carries no area.
func (b Box) IsEmpty() bool { return b.empty }

// Overlaps reports whether b and o share any interior area.
func (b Box) Overlaps(o Box) bool {
	if b.empty || o.empty {
		return false
	}
	return b.Left < o.Right && o.Left < b.Right && b.Bottom < o.Top && o.Bottom < b.Top
}

// Union returns the smallest box containing both b and o.
func (b Box) Union(o Box) Box {
	if b.empty {
		return o
	}
	if o.empty {
		return b
	}
	return NewBox(min64(b.Left, o.Left), min64(b.Bottom, o.Bottom), max64(b.Right, o.Right), max64(b.Top, o.Top))
}

// Transformed applies t to both corners of b and re-normalizes.
func (b Box) Transformed(t units.Trans) Box {
	if b.empty {
		return b
	}
	p0 := t.Apply(units.Point{X: b.Left, Y: b.Bottom})
	p1 := t.Apply(units.Point{X: b.Right, Y: b.Top})
	return NewBox(p0.X, p0.Y, p1.X, p1.Y)
}

// TransformedCplx applies a dbu-scaled similarity transform to both
// corners of b and re-normalizes, for instances placed with a genuinely
// non-Manhattan transform.
func (b Box) TransformedCplx(t units.CplxTrans) Box {
	if b.empty {
		return b
	}
	p0 := t.Apply(units.Point{X: b.Left, Y: b.Bottom})
	p1 := t.Apply(units.Point{X: b.Right, Y: b.Top})
	return NewBox(p0.X, p0.Y, p1.X, p1.Y)
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

// Polygon is an ordered vertex list on a single layer; closure (last point
// connects back to the first) is implicit.
type Polygon struct {
	Points []units.Point
}

// Bbox returns the bounding box of p.
func (p Polygon) Bbox() Box {
	if len(p.Points) == 0 {
		return NewEmptyBox()
	}
	b := NewBox(p.Points[0].X, p.Points[0].Y, p.Points[0].X, p.Points[0].Y)
	for _, pt := range p.Points[1:] {
		b = b.Union(NewBox(pt.X, pt.Y, pt.X, pt.Y))
	}
	return b
}

// Transformed applies t to every vertex of p.
func (p Polygon) Transformed(t units.Trans) Polygon {
	out := make([]units.Point, len(p.Points))
	for i, pt := range p.Points {
		out[i] = t.Apply(pt)
	}
	return Polygon{Points: out}
}

// TransformedCplx applies a dbu-scaled similarity transform to every
// vertex of p.
func (p Polygon) TransformedCplx(t units.CplxTrans) Polygon {
	out := make([]units.Point, len(p.Points))
	for i, pt := range p.Points {
		out[i] = t.Apply(pt)
	}
	return Polygon{Points: out}
}

// Path is a centerline polyline with a uniform width, as used to realize a
// Manhattan route backbone into a single polygon.
type Path struct {
	Pts   []units.Point
	Width int64
}

// Polygon materializes the path's outline as a simple rectilinear polygon,
// offsetting Width/2 to either side of each segment. Only axis-aligned
// (Manhattan) segments are supported, matching the router's guarantee that
// backbones contain no diagonal segments.
func (p Path) Polygon() Polygon {
	if len(p.Pts) < 2 {
		return Polygon{}
	}
	half := p.Width / 2
	left := make([]units.Point, 0, len(p.Pts))
	right := make([]units.Point, 0, len(p.Pts))
	for i, pt := range p.Pts {
		var dx, dy int64
		switch {
		case i == 0:
			dx, dy = p.Pts[1].X-pt.X, p.Pts[1].Y-pt.Y
		case i == len(p.Pts)-1:
			dx, dy = pt.X-p.Pts[i-1].X, pt.Y-p.Pts[i-1].Y
		default:
			// Use the incoming segment direction; Manhattan routes turn
			// only at vertices, so outline correctness at interior points
			// relies on this being one of the two adjoining directions.
			dx, dy = pt.X-p.Pts[i-1].X, pt.Y-p.Pts[i-1].Y
		}
		// Perpendicular offset: rotate (dx,dy) by +/-90 deg and normalize.
		nx, ny := normalizePerp(dx, dy)
		left = append(left, units.Point{X: pt.X + nx*half, Y: pt.Y + ny*half})
		right = append(right, units.Point{X: pt.X - nx*half, Y: pt.Y - ny*half})
	}
	pts := make([]units.Point, 0, 2*len(p.Pts))
	pts = append(pts, left...)
	for i := len(right) - 1; i >= 0; i-- {
		pts = append(pts, right[i])
	}
	return Polygon{Points: pts}
}

// Length returns the sum of consecutive point distances (spec.md §8
// single-wire length property).
func (p Path) Length() float64 {
	var total float64
	for i := 1; i < len(p.Pts); i++ {
		dx := float64(p.Pts[i].X - p.Pts[i-1].X)
		dy := float64(p.Pts[i].Y - p.Pts[i-1].Y)
		total += math.Sqrt(dx*dx + dy*dy)
	}
	return total
}

func normalizePerp(dx, dy int64) (int64, int64) {
	// Perpendicular of an axis-aligned unit vector: (dx,dy) is one of
	// (±1,0) or (0,±1) after sign reduction.
	switch {
	case dx > 0:
		return 0, 1
	case dx < 0:
		return 0, -1
	case dy > 0:
		return -1, 0
	case dy < 0:
		return 1, 0
	default:
		return 0, 0
	}
}
