package route_test

import (
	"testing"

	"github.com/kfactory-go/kfactory/backend"
	"github.com/kfactory-go/kfactory/backend/memory"
	"github.com/kfactory-go/kfactory/cell"
	"github.com/kfactory-go/kfactory/port"
	"github.com/kfactory-go/kfactory/route"
	"github.com/kfactory-go/kfactory/router"
	"github.com/kfactory-go/kfactory/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCell(t *testing.T, lay *memory.Layout, name string) *cell.Cell {
	t.Helper()
	bc, err := lay.CreateCell(name)
	require.NoError(t, err)
	return cell.New(lay.Dbu(), bc.CellIndex(), bc)
}

func TestBundlePlacesOneWirePerRoute(t *testing.T) {
	lay := memory.NewLayout(0.001)
	c := newTestCell(t, lay, "bundle_top")
	idx := lay.Layers().Layer(1, 0)

	p1, err := port.New(lay.Dbu(), "s1", 1000, idx, units.NewTrans(0, false, 0, 0), port.Options{})
	require.NoError(t, err)
	p2, err := port.New(lay.Dbu(), "s2", 1000, idx, units.NewTrans(0, false, 0, 5000), port.Options{})
	require.NoError(t, err)
	e1, err := port.New(lay.Dbu(), "e1", 1000, idx, units.NewTrans(2, false, 50000, 1000), port.Options{})
	require.NoError(t, err)
	e2, err := port.New(lay.Dbu(), "e2", 1000, idx, units.NewTrans(2, false, 50000, 4000), port.Options{})
	require.NoError(t, err)

	result, err := route.Bundle(c, route.BundleRequest{
		StartPorts:   []port.Port{p1, p2},
		EndPorts:     []port.Port{e1, e2},
		Separation:   500,
		Bend90Radius: 3000,
		Layer:        idx,
		Layout:       lay,
		OnCollision:  route.CollisionIgnore,
	})
	require.NoError(t, err)
	require.Len(t, result.Routers, 2)

	n := 0
	c.Backend().Shapes(idx).Each(func(_ backend.Polygon) { n++ })
	assert.Equal(t, 2, n)
}

func TestBundleAppliesStartAnglesAndWaypoint(t *testing.T) {
	lay := memory.NewLayout(0.001)
	c := newTestCell(t, lay, "bundle_top")
	idx := lay.Layers().Layer(1, 0)

	// p1 starts pointing east (angle 0); StartAngles rotates it to point
	// north (angle 1) in place before routing, matching route_bundle's
	// "start_angles applied before routing" normalization.
	p1, err := port.New(lay.Dbu(), "s1", 1000, idx, units.NewTrans(0, false, 0, 0), port.Options{})
	require.NoError(t, err)
	e1, err := port.New(lay.Dbu(), "e1", 1000, idx, units.NewTrans(2, false, 0, 50000), port.Options{})
	require.NoError(t, err)

	waypoint := units.NewTrans(0, false, 0, 20000)

	result, err := route.Bundle(c, route.BundleRequest{
		StartPorts:   []port.Port{p1},
		EndPorts:     []port.Port{e1},
		StartAngles:  route.UniformAngle(1, 1),
		Waypoint:     &waypoint,
		Bend90Radius: 3000,
		Layer:        idx,
		Layout:       lay,
		OnCollision:  route.CollisionIgnore,
	})
	require.NoError(t, err)
	require.Len(t, result.Routers, 1)

	n := 0
	c.Backend().Shapes(idx).Each(func(_ backend.Polygon) { n++ })
	assert.Equal(t, 1, n)
}

func TestBundleRejectsLengthMismatch(t *testing.T) {
	lay := memory.NewLayout(0.001)
	c := newTestCell(t, lay, "bundle_top")
	idx := lay.Layers().Layer(1, 0)
	p1, err := port.New(lay.Dbu(), "s1", 1000, idx, units.NewTrans(0, false, 0, 0), port.Options{})
	require.NoError(t, err)

	_, err = route.Bundle(c, route.BundleRequest{
		StartPorts: []port.Port{p1},
		EndPorts:   []port.Port{},
		Layer:      idx,
		Layout:     lay,
	})
	require.Error(t, err)
}

func TestDualRailPlacerGeometryMatchesOuterInnerWidths(t *testing.T) {
	lay := memory.NewLayout(0.001)
	c := newTestCell(t, lay, "bundle_top")
	idx := lay.Layers().Layer(1, 0)

	req := route.PlacerRequest{
		Cell:  c,
		Layer: idx,
		Route: router.Router{
			Pts:   []units.Point{{X: 0, Y: 0}, {X: 10000, Y: 0}},
			Width: 2000,
		},
		SeparationRails: 600,
	}
	require.NoError(t, route.DualRailPlacer(req))

	var boxes []backend.Box
	c.Backend().Shapes(idx).Each(func(p backend.Polygon) { boxes = append(boxes, p.Bbox()) })
	require.Len(t, boxes, 2)

	heights := []int64{boxes[0].Top - boxes[0].Bottom, boxes[1].Top - boxes[1].Bottom}
	assert.Contains(t, heights, int64(2000)) // outer rail: Route.Width
	assert.Contains(t, heights, int64(600))  // inner rail: SeparationRails (the gap)
}

func TestDualRailPlacerRejectsTooLargeSeparation(t *testing.T) {
	lay := memory.NewLayout(0.001)
	c := newTestCell(t, lay, "bundle_top")
	idx := lay.Layers().Layer(1, 0)

	p1, err := port.New(lay.Dbu(), "s1", 1000, idx, units.NewTrans(0, false, 0, 0), port.Options{})
	require.NoError(t, err)
	e1, err := port.New(lay.Dbu(), "e1", 1000, idx, units.NewTrans(2, false, 20000, 0), port.Options{})
	require.NoError(t, err)

	_, err = route.Bundle(c, route.BundleRequest{
		StartPorts:      []port.Port{p1},
		EndPorts:        []port.Port{e1},
		Bend90Radius:    3000,
		Layer:           idx,
		Layout:          lay,
		Placer:          route.DualRailPlacer,
		SeparationRails: 2000,
		OnCollision:     route.CollisionIgnore,
	})
	require.Error(t, err)
}
