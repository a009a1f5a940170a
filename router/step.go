// SPDX-License-Identifier: MIT
// Package router implements kfactory's Manhattan bundle router
// (route_smart): given two equal-length port sequences, it plans
// non-crossing axis-aligned backbones with configurable separation,
// waypoint guidance, and bbox avoidance.
package router

import "github.com/kfactory-go/kfactory/units"

// Step is one element of a per-port start/end path grammar: a straight
// run, a 90° bend of a given radius, or an explicit angle change.
type Step interface {
	apply(pose Pose) (Pose, []units.Point)
}

// Pose is a position plus a propagation direction, expressed as a simple
// transform whose Angle*90° gives the direction and whose DX/DY give the
// current position.
type Pose = units.Trans

// Straight advances dist dbu along the current direction.
type Straight struct{ Dist int64 }

func (s Straight) apply(p Pose) (Pose, []units.Point) {
	next := units.NewTrans(0, false, s.Dist, 0).Compose(p)
	return next, []units.Point{{X: next.DX, Y: next.DY}}
}

// Left turns 90° counter-clockwise and immediately advances r dbu,
// approximating a bend of that radius as a single corner (the placer is
// responsible for realizing the true curved/45°-chamfered geometry).
type Left struct{ Radius int64 }

func (s Left) apply(p Pose) (Pose, []units.Point) {
	turned := units.NewTrans(p.Angle+1, p.Mirror, p.DX, p.DY)
	next := units.NewTrans(0, false, s.Radius, 0).Compose(turned)
	return next, []units.Point{{X: turned.DX, Y: turned.DY}, {X: next.DX, Y: next.DY}}
}

// Right turns 90° clockwise and advances r dbu.
type Right struct{ Radius int64 }

func (s Right) apply(p Pose) (Pose, []units.Point) {
	turned := units.NewTrans(p.Angle+3, p.Mirror, p.DX, p.DY)
	next := units.NewTrans(0, false, s.Radius, 0).Compose(turned)
	return next, []units.Point{{X: turned.DX, Y: turned.DY}, {X: next.DX, Y: next.DY}}
}

// AngleStep rotates in place by delta*90 degrees (delta counted in units
// of 90°, matching the simple-transform angle domain the router plans
// in) without advancing.
type AngleStep struct{ Delta int }

func (s AngleStep) apply(p Pose) (Pose, []units.Point) {
	next := units.NewTrans(p.Angle+s.Delta, p.Mirror, p.DX, p.DY)
	return next, nil
}

// walk applies steps in order starting from pose, returning the final
// pose and the concatenated emitted points.
func walk(pose Pose, steps []Step) (Pose, []units.Point) {
	var pts []units.Point
	for _, s := range steps {
		var emitted []units.Point
		pose, emitted = s.apply(pose)
		pts = append(pts, emitted...)
	}
	return pose, pts
}
