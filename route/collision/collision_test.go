package collision_test

import (
	"testing"

	"github.com/kfactory-go/kfactory/backend/memory"
	"github.com/kfactory-go/kfactory/cell"
	"github.com/kfactory-go/kfactory/route/collision"
	"github.com/kfactory-go/kfactory/router"
	"github.com/kfactory-go/kfactory/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckFindsNoCollisionForDisjointRoutes(t *testing.T) {
	lay := memory.NewLayout(0.001)
	bc, err := lay.CreateCell("top")
	require.NoError(t, err)
	c := cell.New(lay.Dbu(), bc.CellIndex(), bc)
	idx := lay.Layers().Layer(1, 0)

	routers := []router.Router{
		{Pts: []units.Point{{X: 0, Y: 0}, {X: 10000, Y: 0}}, Width: 500},
		{Pts: []units.Point{{X: 0, Y: 5000}, {X: 10000, Y: 5000}}, Width: 500},
	}

	_, found, err := collision.Check(collision.Request{Cell: c, Routers: routers, Layer: idx, Layout: lay})
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCheckFindsOverlapAndBuildsReport(t *testing.T) {
	lay := memory.NewLayout(0.001)
	bc, err := lay.CreateCell("top")
	require.NoError(t, err)
	c := cell.New(lay.Dbu(), bc.CellIndex(), bc)
	idx := lay.Layers().Layer(1, 0)

	routers := []router.Router{
		{Pts: []units.Point{{X: 0, Y: 0}, {X: 10000, Y: 0}}, Width: 1000},
		{Pts: []units.Point{{X: 0, Y: 300}, {X: 10000, Y: 300}}, Width: 1000},
	}

	db, found, err := collision.Check(collision.Request{Cell: c, Routers: routers, Layer: idx, Layout: lay, Report: true})
	require.NoError(t, err)
	require.True(t, found)
	require.NotNil(t, db)

	mdb, ok := db.(*memory.ReportDatabase)
	require.True(t, ok)
	assert.NotEmpty(t, mdb.Items)
	assert.Contains(t, mdb.Items[0].Category, "Manhattan Routing Collisions")
}

func TestCheckReturnsFoundWithoutReportWhenNotRequested(t *testing.T) {
	lay := memory.NewLayout(0.001)
	bc, err := lay.CreateCell("top")
	require.NoError(t, err)
	c := cell.New(lay.Dbu(), bc.CellIndex(), bc)
	idx := lay.Layers().Layer(1, 0)

	routers := []router.Router{
		{Pts: []units.Point{{X: 0, Y: 0}, {X: 10000, Y: 0}}, Width: 1000},
		{Pts: []units.Point{{X: 0, Y: 300}, {X: 10000, Y: 300}}, Width: 1000},
	}

	db, found, err := collision.Check(collision.Request{Cell: c, Routers: routers, Layer: idx, Layout: lay, Report: false})
	require.NoError(t, err)
	assert.True(t, found)
	assert.Nil(t, db)
}
