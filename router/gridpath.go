// SPDX-License-Identifier: MIT
package router

import (
	"fmt"

	"github.com/kfactory-go/kfactory/backend"
	"github.com/kfactory-go/kfactory/graph"
	"github.com/kfactory-go/kfactory/units"
)

// gridPath finds a Manhattan-only obstacle-free path from start to end by
// laying a coarse grid (spacing step dbu) over their bounding region plus
// every box in bboxes, dropping grid nodes that fall inside an obstacle,
// and running Dijkstra's shortest path over the resulting axis-neighbor
// graph. It is Full bbox-routing mode's fallback when the direct
// elbow/zig-zag route cannot clear every obstacle: a maze router, not just
// a clearance-growing heuristic.
func gridPath(start, end units.Point, bboxes []backend.Box, step int64) ([]units.Point, bool) {
	if step <= 0 {
		step = 1000
	}
	bounds := backend.NewBox(start.X, start.Y, start.X, start.Y).
		Union(backend.NewBox(end.X, end.Y, end.X, end.Y))
	for _, b := range bboxes {
		bounds = bounds.Union(b)
	}
	margin := 2 * step
	x0, y0 := snapDown(bounds.Left-margin, step), snapDown(bounds.Bottom-margin, step)
	x1, y1 := snapUp(bounds.Right+margin, step), snapUp(bounds.Top+margin, step)

	nx := int((x1-x0)/step) + 1
	ny := int((y1-y0)/step) + 1
	if nx <= 1 || ny <= 1 || nx*ny > 200000 {
		return nil, false
	}

	blocked := func(x, y int64) bool {
		p := backend.NewBox(x, y, x, y)
		for _, b := range bboxes {
			if p.Overlaps(b) {
				return true
			}
		}
		return false
	}

	id := func(i, j int) string { return fmt.Sprintf("%d,%d", i, j) }
	coord := func(i, j int) (int64, int64) { return x0 + int64(i)*step, y0 + int64(j)*step }

	g := graph.NewGraph(false, true)
	present := make(map[string]bool, nx*ny)
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			x, y := coord(i, j)
			if blocked(x, y) {
				continue
			}
			v := id(i, j)
			g.AddVertex(&graph.Vertex{ID: v})
			present[v] = true
		}
	}
	for i := 0; i < nx; i++ {
		for j := 0; j < ny; j++ {
			v := id(i, j)
			if !present[v] {
				continue
			}
			if i+1 < nx {
				if r := id(i+1, j); present[r] {
					g.AddEdge(v, r, step)
				}
			}
			if j+1 < ny {
				if u := id(i, j+1); present[u] {
					g.AddEdge(v, u, step)
				}
			}
		}
	}

	startID := id(int((start.X-x0)/step), int((start.Y-y0)/step))
	endID := id(int((end.X-x0)/step), int((end.Y-y0)/step))
	if !present[startID] || !present[endID] {
		return nil, false
	}

	_, parent, err := g.Dijkstra(startID)
	if err != nil {
		return nil, false
	}
	if _, reached := parent[endID]; !reached && startID != endID {
		return nil, false
	}

	var ids []string
	for cur := endID; ; {
		ids = append(ids, cur)
		if cur == startID {
			break
		}
		prev, ok := parent[cur]
		if !ok {
			return nil, false
		}
		cur = prev
	}
	pts := make([]units.Point, 0, len(ids))
	for i := len(ids) - 1; i >= 0; i-- {
		var vi, vj int
		fmt.Sscanf(ids[i], "%d,%d", &vi, &vj)
		x, y := coord(vi, vj)
		pts = append(pts, units.Point{X: x, Y: y})
	}
	return compressCollinear(pts), true
}

func snapDown(v, step int64) int64 {
	q := v / step
	if v%step != 0 && v < 0 {
		q--
	}
	return q * step
}

func snapUp(v, step int64) int64 {
	q := v / step
	if v%step != 0 && v > 0 {
		q++
	}
	return q * step
}

// compressCollinear drops interior points that don't change direction.
func compressCollinear(pts []units.Point) []units.Point {
	if len(pts) < 3 {
		return pts
	}
	out := []units.Point{pts[0]}
	for i := 1; i < len(pts)-1; i++ {
		dx1, dy1 := pts[i].X-out[len(out)-1].X, pts[i].Y-out[len(out)-1].Y
		dx2, dy2 := pts[i+1].X-pts[i].X, pts[i+1].Y-pts[i].Y
		if dx1*dy2-dy1*dx2 != 0 {
			out = append(out, pts[i])
		}
	}
	out = append(out, pts[len(pts)-1])
	return out
}
