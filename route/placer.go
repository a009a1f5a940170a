// SPDX-License-Identifier: MIT
// Package route implements route_bundle's placer pipeline: it glues
// router.RouteSmart output into concrete geometry (or instance chains),
// grounded in original_source/src/kfactory/routing/electrical.py's
// straight/dual-rail placement and cells/virtual/straight.py's virtual
// straight-cell factory for the optical variant.
package route

import (
	"fmt"

	"github.com/kfactory-go/kfactory/backend"
	"github.com/kfactory-go/kfactory/cell"
	"github.com/kfactory-go/kfactory/kerrors"
	"github.com/kfactory-go/kfactory/layer"
	"github.com/kfactory-go/kfactory/router"
)

// PlacerRequest is everything a Placer needs to realize one routed leg.
type PlacerRequest struct {
	Cell  *cell.Cell
	Layer layer.Index
	Route router.Router

	// SeparationRails is consulted by DualRailPlacer only: the gap, in
	// dbu, between the inner and outer rail edges.
	SeparationRails int64

	// BendFactory/StraightFactory are consulted by OpticalPlacer only:
	// BendFactory returns a 90° bend cell for the route's width,
	// StraightFactory returns a straight cell of the given width/length.
	BendFactory     func(width int64) (*cell.Cell, error)
	StraightFactory func(width, length int64) (*cell.Cell, error)
}

// Placer materializes one router.Router's backbone into req.Cell, on
// req.Layer, however it sees fit (a single polygon, a pair of rail
// polygons, or a chain of child instances).
type Placer func(req PlacerRequest) error

// SingleWirePlacer inserts one polygon, req.Route's backbone widened by
// its Width, directly into req.Cell's shapes.
func SingleWirePlacer(req PlacerRequest) error {
	poly := (backend.Path{Pts: req.Route.Pts, Width: req.Route.Width}).Polygon()
	shapes := req.Cell.Backend().Shapes(req.Layer)
	shapes.InsertPolygon(poly)
	return nil
}

// DualRailPlacer inserts two polygons, the outer rail (Route.Width) minus
// the inner rail (SeparationRails) — SeparationRails is the gap between
// the two rails, matching
// original_source/src/kfactory/routing/electrical.py's
// `Region(Path(pts, route_width)) - Region(Path(pts, separation_rails))`.
// SeparationRails must be smaller than Route.Width or the inner rail would
// swallow the outer one; violating this returns
// kerrors.ErrSeparationTooSmall wrapped in kerrors.ErrPlacerFailed.
func DualRailPlacer(req PlacerRequest) error {
	if req.SeparationRails >= req.Route.Width {
		return fmt.Errorf("%w: %w", kerrors.ErrPlacerFailed, kerrors.ErrSeparationTooSmall)
	}

	outer := (backend.Path{Pts: req.Route.Pts, Width: req.Route.Width}).Polygon()
	inner := (backend.Path{Pts: req.Route.Pts, Width: req.SeparationRails}).Polygon()

	shapes := req.Cell.Backend().Shapes(req.Layer)
	shapes.InsertPolygon(outer)
	shapes.InsertPolygon(inner)
	return nil
}

// OpticalPlacer chains BendFactory/StraightFactory instances along
// Route.Pts: a straight segment between consecutive collinear points, a
// bend instance at every direction change. Both factories are required.
func OpticalPlacer(req PlacerRequest) error {
	if req.BendFactory == nil || req.StraightFactory == nil {
		return fmt.Errorf("%w: optical placer requires BendFactory and StraightFactory", kerrors.ErrPlacerFailed)
	}
	pts := req.Route.Pts
	if len(pts) < 2 {
		return nil
	}

	pose := req.Route.StartTrans
	for i := 1; i < len(pts); i++ {
		dx, dy := pts[i].X-pts[i-1].X, pts[i].Y-pts[i-1].Y
		dist := abs64(dx) + abs64(dy)
		if dist == 0 {
			continue
		}
		if i > 1 {
			prevDx, prevDy := pts[i-1].X-pts[i-2].X, pts[i-1].Y-pts[i-2].Y
			if turnsLeft(prevDx, prevDy, dx, dy) != 0 {
				bend, err := req.BendFactory(req.Route.Width)
				if err != nil {
					return fmt.Errorf("%w: bend factory: %v", kerrors.ErrPlacerFailed, err)
				}
				if _, err := req.Cell.CreateInst(bend, pose); err != nil {
					return fmt.Errorf("%w: %v", kerrors.ErrPlacerFailed, err)
				}
			}
		}
		straight, err := req.StraightFactory(req.Route.Width, dist)
		if err != nil {
			return fmt.Errorf("%w: straight factory: %v", kerrors.ErrPlacerFailed, err)
		}
		if _, err := req.Cell.CreateInst(straight, pose); err != nil {
			return fmt.Errorf("%w: %v", kerrors.ErrPlacerFailed, err)
		}
		pose.DX, pose.DY = pts[i].X, pts[i].Y
	}
	return nil
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// turnsLeft reports the sign of the cross product of two consecutive
// Manhattan segment vectors: 0 means collinear (no bend needed).
func turnsLeft(ax, ay, bx, by int64) int64 {
	return ax*by - ay*bx
}
