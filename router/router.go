// SPDX-License-Identifier: MIT
package router

import (
	"fmt"
	"sort"

	"github.com/kfactory-go/kfactory/backend"
	"github.com/kfactory-go/kfactory/kerrors"
	"github.com/kfactory-go/kfactory/units"
)

// BboxRouting selects how aggressively bbox avoidance clears obstacles.
type BboxRouting int

const (
	// Minimal clears just enough for a bend to sit outside the obstacle.
	Minimal BboxRouting = iota
	// Full additionally requires bend corners themselves to clear obstacles.
	Full
)

// Input is route_smart's parameter set (spec.md §4.8).
type Input struct {
	StartTrans   []units.Trans
	EndTrans     []units.Trans
	Widths       []int64
	Separation   int64
	// Waypoint, if set, is a transform every router must pass through: the
	// front offset is established there instead of at each leg's own start
	// pose, and each leg is planned as two elbows (start->waypoint,
	// waypoint->end) sharing one transverse lane assignment.
	Waypoint *units.Trans
	Bboxes       []backend.Box
	BboxRouting  BboxRouting
	SortPorts    bool
	Bend90Radius int64
	Starts       [][]Step // per-port prefix steps, nil entries allowed
	Ends         [][]Step // per-port suffix steps, walked from the end port outward
}

// Router is one planned bundle member: its backbone point sequence plus
// the exact start/end transforms it was anchored to.
type Router struct {
	Pts        []units.Point
	StartTrans units.Trans
	EndTrans   units.Trans
	Width      int64
}

// Length returns the sum of consecutive point distances along the
// backbone.
func (r Router) Length() float64 {
	return (backend.Path{Pts: r.Pts, Width: r.Width}).Length()
}

// dirVec returns the unit forward direction of a Manhattan pose.
func dirVec(angle int) (int64, int64) {
	switch ((angle % 4) + 4) % 4 {
	case 0:
		return 1, 0
	case 1:
		return 0, 1
	case 2:
		return -1, 0
	default:
		return 0, -1
	}
}

// RouteSmart plans a bundle of non-crossing Manhattan backbones, one per
// (start,end) port-transform pair. Every emitted Router starts exactly at
// its StartTrans position and ends exactly at its EndTrans position
// (spec.md §4.8's core invariant), after each port-relative start/end
// Step sequence has been walked.
func RouteSmart(in Input) ([]Router, error) {
	n := len(in.StartTrans)
	if n != len(in.EndTrans) || n != len(in.Widths) {
		return nil, kerrors.ErrBundleLengthMismatch
	}

	type prepared struct {
		idx                int
		startPose, endPose units.Trans
		prefix, suffix     []units.Point
		width              int64
	}
	prep := make([]prepared, n)
	for i := 0; i < n; i++ {
		startPose := in.StartTrans[i]
		prefixPts := []units.Point{{X: startPose.DX, Y: startPose.DY}}
		if i < len(in.Starts) && in.Starts[i] != nil {
			var pts []units.Point
			startPose, pts = walk(startPose, in.Starts[i])
			prefixPts = append(prefixPts, pts...)
		}

		endPose := in.EndTrans[i]
		suffixPts := []units.Point{{X: endPose.DX, Y: endPose.DY}}
		if i < len(in.Ends) && in.Ends[i] != nil {
			var pts []units.Point
			endPose, pts = walk(endPose, in.Ends[i])
			suffixPts = append(suffixPts, pts...)
		}

		prep[i] = prepared{idx: i, startPose: startPose, endPose: endPose, prefix: prefixPts, suffix: suffixPts, width: in.Widths[i]}
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	if in.SortPorts {
		sort.SliceStable(order, func(a, b int) bool {
			pa, pb := prep[order[a]].startPose, prep[order[b]].startPose
			if pa.DY != pb.DY {
				return pa.DY < pb.DY
			}
			return pa.DX < pb.DX
		})
	}

	routers := make([]Router, n)
	for rank, idx := range order {
		p := prep[idx]
		offset := int64(rank) * (p.width + in.Separation)

		var elbow []units.Point
		if in.Waypoint != nil {
			// A waypoint establishes the bundle's front mid-route: each leg
			// is planned as start->waypoint then waypoint->end, with the
			// same transverse offset carried through the waypoint so every
			// router stays in its own lane across the tunnel.
			wp := *in.Waypoint
			wdx, wdy := dirVec(wp.Angle)
			wp.DX, wp.DY = wp.DX-wdy*offset, wp.DY+wdx*offset
			toWaypoint, err := planElbow(p.startPose, wp, offset, in.Bend90Radius, in.Bboxes, in.BboxRouting)
			if err != nil {
				return nil, fmt.Errorf("router leg %d (to waypoint): %w", idx, err)
			}
			fromWaypoint, err := planElbow(wp, p.endPose, 0, in.Bend90Radius, in.Bboxes, in.BboxRouting)
			if err != nil {
				return nil, fmt.Errorf("router leg %d (from waypoint): %w", idx, err)
			}
			elbow = append(toWaypoint, fromWaypoint...)
		} else {
			var err error
			elbow, err = planElbow(p.startPose, p.endPose, offset, in.Bend90Radius, in.Bboxes, in.BboxRouting)
			if err != nil {
				return nil, fmt.Errorf("router leg %d: %w", idx, err)
			}
		}

		pts := make([]units.Point, 0, len(p.prefix)+len(elbow)+len(p.suffix))
		pts = append(pts, p.prefix...)
		pts = append(pts, elbow...)
		for i := len(p.suffix) - 1; i >= 0; i-- {
			pts = append(pts, p.suffix[i])
		}
		routers[idx] = Router{Pts: dedupe(pts), StartTrans: in.StartTrans[idx], EndTrans: in.EndTrans[idx], Width: p.width}
	}
	return routers, nil
}

// planElbow connects startPose to endPose with an axis-aligned path,
// offset transversally by offset dbu to keep bundle members from
// overlapping (a non-zero offset adds a sideways jog into the lane before
// at most two further corners), and grown outward (minimal/full bbox
// clearance) until clear of every obstacle box. In Full mode the maze
// router (gridPath) is tried when no grown elbow clears the obstacles.
func planElbow(start, end units.Trans, offset, bendRadius int64, bboxes []backend.Box, mode BboxRouting) ([]units.Point, error) {
	sdx, sdy := dirVec(start.Angle)
	// Perpendicular to the start direction, used to fan out parallel bundle
	// members without crossing.
	pdx, pdy := -sdy, sdx

	clearance := bendRadius
	if clearance <= 0 {
		clearance = 1
	}

	for attempt := 0; attempt < 64; attempt++ {
		front := units.Point{
			X: start.DX + sdx*clearance + pdx*offset,
			Y: start.DY + sdy*clearance + pdy*offset,
		}
		edx, edy := dirVec(end.Angle)
		back := units.Point{
			X: end.DX + edx*clearance,
			Y: end.DY + edy*clearance,
		}

		var mid []units.Point
		switch {
		case front.X == back.X || front.Y == back.Y:
			mid = nil
		default:
			// One corner: prefer keeping the leg leaving `front` aligned
			// with the start direction.
			if sdx != 0 {
				mid = []units.Point{{X: back.X, Y: front.Y}}
			} else {
				mid = []units.Point{{X: front.X, Y: back.Y}}
			}
		}

		pts := []units.Point{front}
		if offset != 0 {
			pts = []units.Point{{X: start.DX + sdx*clearance, Y: start.DY + sdy*clearance}, front}
		}
		pts = append(pts, mid...)
		pts = append(pts, back)

		if !anyOverlap(pts, bboxes, mode) {
			return pts, nil
		}
		clearance += bendRadius + 1
	}
	if mode == Full && len(bboxes) > 0 {
		startPt := units.Point{X: start.DX, Y: start.DY}
		endPt := units.Point{X: end.DX, Y: end.DY}
		if pts, ok := gridPath(startPt, endPt, bboxes, gridStep(bendRadius)); ok {
			return pts, nil
		}
	}
	return nil, kerrors.ErrPlacerFailed
}

func anyOverlap(pts []units.Point, bboxes []backend.Box, mode BboxRouting) bool {
	if len(bboxes) == 0 {
		return false
	}
	for i := 1; i < len(pts); i++ {
		seg := backend.NewBox(pts[i-1].X, pts[i-1].Y, pts[i].X, pts[i].Y)
		for _, b := range bboxes {
			if seg.Overlaps(b) {
				return true
			}
		}
	}
	if mode == Full {
		for _, p := range pts {
			pb := backend.NewBox(p.X, p.Y, p.X, p.Y)
			for _, b := range bboxes {
				if pb.Overlaps(b) {
					return true
				}
			}
		}
	}
	return false
}

// gridStep picks the maze router's grid spacing from the bend radius, with
// a floor so degenerate (zero-radius) inputs still produce a usable grid.
func gridStep(bendRadius int64) int64 {
	if bendRadius <= 0 {
		return 1000
	}
	return bendRadius
}

func dedupe(pts []units.Point) []units.Point {
	out := make([]units.Point, 0, len(pts))
	for i, p := range pts {
		if i > 0 && out[len(out)-1] == p {
			continue
		}
		out = append(out, p)
	}
	return out
}
