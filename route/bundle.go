// SPDX-License-Identifier: MIT
package route

import (
	"fmt"

	"github.com/kfactory-go/kfactory/backend"
	"github.com/kfactory-go/kfactory/cell"
	"github.com/kfactory-go/kfactory/kerrors"
	"github.com/kfactory-go/kfactory/layer"
	"github.com/kfactory-go/kfactory/port"
	"github.com/kfactory-go/kfactory/route/collision"
	"github.com/kfactory-go/kfactory/router"
	"github.com/kfactory-go/kfactory/units"
)

// Collision is the on_collision policy route.Bundle applies once routing
// and placement finish.
type Collision int

const (
	// CollisionIgnore skips collision checking entirely.
	CollisionIgnore Collision = iota
	// CollisionError raises kerrors.ErrRoutingCollision without building a
	// report database.
	CollisionError
	// CollisionShowError populates a backend.ReportDatabase, surfaces it
	// via Layout.Show, then raises kerrors.ErrRoutingCollision.
	CollisionShowError
)

// BundleRequest is route_bundle's parameter set.
type BundleRequest struct {
	StartPorts []port.Port
	EndPorts   []port.Port

	Separation   int64
	Bend90Radius int64
	SortPorts    bool
	BboxRouting  router.BboxRouting
	Bboxes       []backend.Box
	// Waypoint, if set, is a transform every routed leg must pass through
	// (spec's route_smart "waypoints" guidance, a single-transform tunnel).
	Waypoint *units.Trans

	// Starts/Ends are per-port prefix/suffix Step sequences, normalized the
	// way route_bundle does: nil means "no steps for this port". Use
	// UniformSteps to apply the same sequence to every port.
	Starts [][]router.Step
	Ends   [][]router.Step

	// StartAngles/EndAngles rotate each port's transform in place (same
	// position, new orientation) before routing. nil means "no override
	// for this port". Use UniformAngle to apply the same rotation to every
	// port.
	StartAngles []int
	EndAngles   []int

	Layer  layer.Index
	Placer Placer

	// SeparationRails/BendFactory/StraightFactory are forwarded into every
	// PlacerRequest, for Placer implementations that need them.
	SeparationRails int64
	BendFactory     func(width int64) (*cell.Cell, error)
	StraightFactory func(width, length int64) (*cell.Cell, error)

	// PostProcess, if set, runs after routing and before placement; it may
	// reorder, trim, or annotate the planned legs.
	PostProcess func([]router.Router) []router.Router

	OnCollision Collision
	Layout      backend.Layout
}

// BundleResult is route_bundle's return value.
type BundleResult struct {
	Routers []router.Router
	Report  backend.ReportDatabase
}

// Bundle routes StartPorts to EndPorts with router.RouteSmart, places each
// leg with req.Placer, and runs the collision reporter over the result.
// Per-route placement failures are aggregated into a *kerrors.PlacerErrors
// (so one bad route does not prevent the rest from placing), and a bundle
// with any placer error skips collision checking.
func Bundle(c *cell.Cell, req BundleRequest) (BundleResult, error) {
	if len(req.StartPorts) != len(req.EndPorts) {
		return BundleResult{}, kerrors.ErrBundleLengthMismatch
	}
	if req.Placer == nil {
		req.Placer = SingleWirePlacer
	}

	n := len(req.StartPorts)
	starts := make([]units.Trans, n)
	ends := make([]units.Trans, n)
	widths := make([]int64, n)
	for i := range req.StartPorts {
		starts[i] = rotateInPlace(req.StartPorts[i].Trans(), angleAt(req.StartAngles, i))
		ends[i] = rotateInPlace(req.EndPorts[i].Trans(), angleAt(req.EndAngles, i))
		widths[i] = req.StartPorts[i].Width()
	}

	routers, err := router.RouteSmart(router.Input{
		StartTrans:   starts,
		EndTrans:     ends,
		Widths:       widths,
		Separation:   req.Separation,
		Waypoint:     req.Waypoint,
		Bend90Radius: req.Bend90Radius,
		SortPorts:    req.SortPorts,
		BboxRouting:  req.BboxRouting,
		Bboxes:       req.Bboxes,
		Starts:       req.Starts,
		Ends:         req.Ends,
	})
	if err != nil {
		return BundleResult{}, fmt.Errorf("route.Bundle: %w", err)
	}

	if req.PostProcess != nil {
		routers = req.PostProcess(routers)
	}

	placerErrs := &kerrors.PlacerErrors{}
	for _, r := range routers {
		err := req.Placer(PlacerRequest{
			Cell:            c,
			Layer:           req.Layer,
			Route:           r,
			SeparationRails: req.SeparationRails,
			BendFactory:     req.BendFactory,
			StraightFactory: req.StraightFactory,
		})
		if err != nil {
			placerErrs.Errors = append(placerErrs.Errors, err)
		}
	}
	if len(placerErrs.Errors) > 0 {
		return BundleResult{Routers: routers}, placerErrs
	}

	result := BundleResult{Routers: routers}
	if req.OnCollision == CollisionIgnore {
		return result, nil
	}

	report, collided, err := collision.Check(collision.Request{
		Cell:    c,
		Routers: routers,
		Layer:   req.Layer,
		Layout:  req.Layout,
		Report:  req.OnCollision == CollisionShowError,
	})
	if err != nil {
		return result, fmt.Errorf("route.Bundle: collision check: %w", err)
	}
	if collided {
		result.Report = report
		if req.OnCollision == CollisionShowError {
			if showErr := req.Layout.Show(report); showErr != nil {
				return result, fmt.Errorf("route.Bundle: %w", showErr)
			}
		}
		return result, kerrors.ErrRoutingCollision
	}
	return result, nil
}

// angleAt returns angles[i], or 0 if angles is nil or too short — the "no
// override for this port" case of StartAngles/EndAngles normalization.
func angleAt(angles []int, i int) int {
	if i >= len(angles) {
		return 0
	}
	return angles[i]
}

// rotateInPlace rotates t by angle*90° about its own position, leaving
// displacement untouched — route_bundle's "start_angles/end_angles applied
// before routing" normalization (spec.md §4.9), not a rotation about the
// origin.
func rotateInPlace(t units.Trans, angle int) units.Trans {
	if angle == 0 {
		return t
	}
	return units.NewTrans(t.Angle+angle, t.Mirror, t.DX, t.DY)
}

// UniformSteps repeats steps for each of n ports — the Go equivalent of
// route_bundle's "a list of Steps becomes the same list for every port"
// normalization.
func UniformSteps(n int, steps ...router.Step) [][]router.Step {
	out := make([][]router.Step, n)
	for i := range out {
		out[i] = steps
	}
	return out
}

// UniformAngle repeats angle for each of n ports — route_bundle's "scalar
// start_angles/end_angles" normalization.
func UniformAngle(n int, angle int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = angle
	}
	return out
}
