// Package kfactory is a programmatic layout framework for integrated
// photonic and electronic circuits: a cell/port/instance hierarchy with
// deduplicating parametric-cell caching, plus a Manhattan bundle router
// and placer pipeline.
//
// The module is organized as:
//
//	backend/        — provider contract (Layout, Cell, Shapes, Region,
//	                   ReportDatabase) any layout-primitives library can
//	                   satisfy, plus an in-memory reference implementation
//	kcl/             — KCLayout, the top-level cell registry
//	cell/, port/     — the Cell/Port/Instance hierarchy and port algebra
//	units/, layer/   — transforms, dbu/µm conversion, layer indices
//	xsect/           — cross-section specs for waveguide-style ports
//	pcell/           — the parametric-cell decorator and its LRU cache
//	router/          — Manhattan bundle routing (route_smart)
//	route/           — the placer pipeline (route_bundle) and collision
//	                   reporting
//	graph/           — a general-purpose graph/shortest-path library,
//	                   consumed by router's obstacle-avoidance mode
package kfactory
