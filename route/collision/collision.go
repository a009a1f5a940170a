// SPDX-License-Identifier: MIT
// Package collision implements route_bundle's collision reporter: it
// checks placed route polygons (and neighboring instance bounding boxes)
// for overlap on a given layer, optionally populating a
// backend.ReportDatabase when the caller wants an interactive report.
package collision

import (
	"fmt"

	"github.com/kfactory-go/kfactory/backend"
	"github.com/kfactory-go/kfactory/cell"
	"github.com/kfactory-go/kfactory/layer"
	"github.com/kfactory-go/kfactory/router"
)

// reportCategory is the category tree root every collision report is
// rooted at (spec.md §4.10).
const reportCategory = "Manhattan Routing Collisions"

// Request is Check's parameter set.
type Request struct {
	Cell    *cell.Cell
	Routers []router.Router
	Layer   layer.Index
	Layout  backend.Layout

	// Report requests ReportDatabase population when a collision is
	// found; Check still detects collisions (and returns found=true) when
	// Report is false, it just doesn't build a database for them.
	Report bool
}

// Check builds the union of every router's backbone polygon plus the
// bounding boxes of req.Cell's placed instances on req.Layer, and reports
// whether any pair overlaps. When found and req.Report is set, it returns
// a populated backend.ReportDatabase rooted at "Manhattan Routing
// Collisions" -> per-layer -> "RoutingErrors"; otherwise the returned
// database is nil.
func Check(req Request) (backend.ReportDatabase, bool, error) {
	if len(req.Routers) == 0 {
		return nil, false, nil
	}

	polys := make([]backend.Polygon, 0, len(req.Routers))
	for _, r := range req.Routers {
		polys = append(polys, (backend.Path{Pts: r.Pts, Width: r.Width}).Polygon())
	}

	type boxed struct {
		poly backend.Polygon
		box  backend.Box
	}
	entries := make([]boxed, 0, len(polys))
	for _, p := range polys {
		entries = append(entries, boxed{poly: p, box: p.Bbox()})
	}
	for _, inst := range req.Cell.Instances() {
		shapes := inst.Target().Backend().Shapes(req.Layer)
		if shapes == nil {
			continue
		}
		b := shapes.Bbox().Transformed(inst.Trans())
		if b.IsEmpty() {
			continue
		}
		entries = append(entries, boxed{box: b})
	}

	var collidingPolys []backend.Polygon
	for i := 0; i < len(entries); i++ {
		for j := i + 1; j < len(entries); j++ {
			if entries[i].box.Overlaps(entries[j].box) {
				if entries[i].poly.Points != nil {
					collidingPolys = append(collidingPolys, entries[i].poly)
				}
				if entries[j].poly.Points != nil {
					collidingPolys = append(collidingPolys, entries[j].poly)
				}
			}
		}
	}

	if len(collidingPolys) == 0 {
		return nil, false, nil
	}
	if !req.Report {
		return nil, true, nil
	}
	if req.Layout == nil {
		return nil, true, fmt.Errorf("collision.Check: report requested but Layout is nil")
	}

	db := req.Layout.NewReportDatabase(reportCategory)
	root := db.CreateCategory(reportCategory)
	layerCat := root.CreateSubCategory(fmt.Sprintf("layer_%d", req.Layer))
	errCat := layerCat.CreateSubCategory("RoutingErrors")
	reportCell := db.CreateCell(req.Cell.Name())
	for _, p := range collidingPolys {
		// backend.Polygon stores dbu integer coordinates; callers that
		// render this report convert to µm themselves via Cell.Dbu(),
		// matching how every other backend primitive in this module keeps
		// dbu as its canonical unit.
		db.AddItem(errCat, reportCell, "overlapping route/instance geometry on this layer", p)
	}
	return db, true, nil
}
