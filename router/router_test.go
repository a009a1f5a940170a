package router_test

import (
	"testing"

	"github.com/kfactory-go/kfactory/backend"
	"github.com/kfactory-go/kfactory/router"
	"github.com/kfactory-go/kfactory/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouteSmartEndpointsMatchInput(t *testing.T) {
	starts := []units.Trans{
		units.NewTrans(0, false, 0, 0),
		units.NewTrans(0, false, 0, 2000),
	}
	ends := []units.Trans{
		units.NewTrans(2, false, 10000, 5000),
		units.NewTrans(2, false, 10000, 7000),
	}
	routers, err := router.RouteSmart(router.Input{
		StartTrans:   starts,
		EndTrans:     ends,
		Widths:       []int64{500, 500},
		Separation:   1000,
		Bend90Radius: 5000,
	})
	require.NoError(t, err)
	require.Len(t, routers, 2)

	for i, r := range routers {
		require.NotEmpty(t, r.Pts)
		assert.Equal(t, starts[i].DX, r.Pts[0].X)
		assert.Equal(t, starts[i].DY, r.Pts[0].Y)
		last := r.Pts[len(r.Pts)-1]
		assert.Equal(t, ends[i].DX, last.X)
		assert.Equal(t, ends[i].DY, last.Y)
	}
}

func TestRouteSmartRejectsLengthMismatch(t *testing.T) {
	_, err := router.RouteSmart(router.Input{
		StartTrans: []units.Trans{units.NewTrans(0, false, 0, 0)},
		EndTrans:   []units.Trans{units.NewTrans(2, false, 1000, 0), units.NewTrans(2, false, 2000, 0)},
		Widths:     []int64{500, 500},
	})
	require.Error(t, err)
}

func TestRouteSmartSeparatesParallelLegs(t *testing.T) {
	starts := []units.Trans{
		units.NewTrans(0, false, 0, 0),
		units.NewTrans(0, false, 0, 1000),
	}
	ends := []units.Trans{
		units.NewTrans(2, false, 20000, 0),
		units.NewTrans(2, false, 20000, 1000),
	}
	routers, err := router.RouteSmart(router.Input{
		StartTrans:   starts,
		EndTrans:     ends,
		Widths:       []int64{500, 500},
		Separation:   1000,
		Bend90Radius: 3000,
	})
	require.NoError(t, err)
	require.Len(t, routers, 2)
	assert.NotEqual(t, routers[0].Pts[1], routers[1].Pts[1])
}

func TestRouteSmartAvoidsObstacleBox(t *testing.T) {
	starts := []units.Trans{units.NewTrans(0, false, 0, 0)}
	ends := []units.Trans{units.NewTrans(2, false, 20000, 0)}
	obstacle := backend.NewBox(1000, -2000, 3000, 2000)

	routers, err := router.RouteSmart(router.Input{
		StartTrans:   starts,
		EndTrans:     ends,
		Widths:       []int64{500},
		Bend90Radius: 2000,
		Bboxes:       []backend.Box{obstacle},
	})
	require.NoError(t, err)
	require.Len(t, routers, 1)
	for i := 1; i < len(routers[0].Pts); i++ {
		seg := backend.NewBox(routers[0].Pts[i-1].X, routers[0].Pts[i-1].Y, routers[0].Pts[i].X, routers[0].Pts[i].Y)
		assert.False(t, seg.Overlaps(obstacle))
	}
}

func TestRouteSmartFullModeMazeRoutesAroundObstacle(t *testing.T) {
	starts := []units.Trans{units.NewTrans(0, false, 0, 0)}
	ends := []units.Trans{units.NewTrans(2, false, 20000, 0)}
	obstacle := backend.NewBox(8000, -10000, 12000, 2000)

	routers, err := router.RouteSmart(router.Input{
		StartTrans:   starts,
		EndTrans:     ends,
		Widths:       []int64{500},
		Bend90Radius: 2000,
		Bboxes:       []backend.Box{obstacle},
		BboxRouting:  router.Full,
	})
	require.NoError(t, err)
	require.Len(t, routers, 1)
	last := routers[0].Pts[len(routers[0].Pts)-1]
	assert.Equal(t, ends[0].DX, last.X)
	assert.Equal(t, ends[0].DY, last.Y)
}

func TestRouteSmartSortPortsOrdersByTransverseCoordinate(t *testing.T) {
	starts := []units.Trans{
		units.NewTrans(0, false, 0, 2000),
		units.NewTrans(0, false, 0, 0),
	}
	ends := []units.Trans{
		units.NewTrans(2, false, 10000, 2000),
		units.NewTrans(2, false, 10000, 0),
	}
	routers, err := router.RouteSmart(router.Input{
		StartTrans:   starts,
		EndTrans:     ends,
		Widths:       []int64{500, 500},
		Separation:   500,
		Bend90Radius: 3000,
		SortPorts:    true,
	})
	require.NoError(t, err)
	require.Len(t, routers, 2)
	// Sorted by start Y, port 1 (y=0) ranks first and keeps lane offset 0.
	for _, pt := range routers[1].Pts {
		assert.Equal(t, int64(0), pt.Y)
	}
}
