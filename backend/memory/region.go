package memory

import "github.com/kfactory-go/kfactory/backend"

// Region is a naive in-memory backend.Region: polygons are kept as a flat
// list and boolean ops are approximated via bounding-box overlap tests.
// This is sufficient for the collision reporter's overlap detection
// (spec.md §4.10), which only needs to know *whether* shapes intersect,
// not their exact boolean-combined outline.
type Region struct {
	polys []backend.Polygon
}

// NewRegion constructs an empty Region.
func NewRegion() *Region { return &Region{} }

func (r *Region) Add(p backend.Polygon) { r.polys = append(r.polys, p) }

func (r *Region) AddAll(ps []backend.Polygon) { r.polys = append(r.polys, ps...) }

// Merge returns a Region with exact duplicate polygons removed. Overlapping
// but non-identical polygons are retained distinctly; callers that need
// union geometry should use Or, which only reports overlap state through
// boolean predicates, not exact merged outlines.
func (r *Region) Merge() backend.Region {
	out := NewRegion()
	seen := make(map[string]bool, len(r.polys))
	for _, p := range r.polys {
		key := polyKey(p)
		if seen[key] {
			continue
		}
		seen[key] = true
		out.Add(p)
	}
	return out
}

func polyKey(p backend.Polygon) string {
	key := make([]byte, 0, len(p.Points)*16)
	for _, pt := range p.Points {
		key = append(key, byte(pt.X), byte(pt.X>>8), byte(pt.X>>16), byte(pt.X>>24))
		key = append(key, byte(pt.Y), byte(pt.Y>>8), byte(pt.Y>>16), byte(pt.Y>>24))
	}
	return string(key)
}

// Sub returns the polygons of r whose bounding box does not overlap any
// polygon of o (an approximation adequate for the avoidance checks this
// module performs; exact polygon subtraction is a provider concern).
func (r *Region) Sub(o backend.Region) backend.Region {
	out := NewRegion()
	for _, p := range r.polys {
		overlaps := false
		for _, q := range o.Polygons() {
			if p.Bbox().Overlaps(q.Bbox()) {
				overlaps = true
				break
			}
		}
		if !overlaps {
			out.Add(p)
		}
	}
	return out
}

// And returns the polygons of r whose bounding box overlaps at least one
// polygon of o.
func (r *Region) And(o backend.Region) backend.Region {
	out := NewRegion()
	for _, p := range r.polys {
		for _, q := range o.Polygons() {
			if p.Bbox().Overlaps(q.Bbox()) {
				out.Add(p)
				break
			}
		}
	}
	return out
}

// Or returns the union of r and o's polygons (deduplicated).
func (r *Region) Or(o backend.Region) backend.Region {
	out := NewRegion()
	out.AddAll(r.polys)
	out.AddAll(o.Polygons())
	return out.Merge()
}

func (r *Region) IsEmpty() bool { return len(r.polys) == 0 }

func (r *Region) Polygons() []backend.Polygon {
	out := make([]backend.Polygon, len(r.polys))
	copy(out, r.polys)
	return out
}

func (r *Region) Bbox() backend.Box {
	box := backend.NewEmptyBox()
	for _, p := range r.polys {
		box = box.Union(p.Bbox())
	}
	return box
}

// Overlapping returns pairs of polygon indices (i<j) whose bounding boxes
// intersect, used directly by the collision reporter.
func Overlapping(polys []backend.Polygon) [][2]int {
	var out [][2]int
	for i := 0; i < len(polys); i++ {
		for j := i + 1; j < len(polys); j++ {
			if polys[i].Bbox().Overlaps(polys[j].Bbox()) {
				out = append(out, [2]int{i, j})
			}
		}
	}
	return out
}
