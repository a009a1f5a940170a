package memory_test

import (
	"testing"

	"github.com/kfactory-go/kfactory/backend"
	"github.com/kfactory-go/kfactory/backend/memory"
	"github.com/kfactory-go/kfactory/kerrors"
	"github.com/kfactory-go/kfactory/kvalue"
	"github.com/kfactory-go/kfactory/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayoutCreateCell(t *testing.T) {
	l := memory.NewLayout(0.001)
	c, err := l.CreateCell("straight")
	require.NoError(t, err)
	assert.Equal(t, "straight", c.Name())

	_, err = l.CreateCell("straight")
	assert.Error(t, err)

	got, ok := l.Cell("straight")
	require.True(t, ok)
	assert.Equal(t, c, got)
}

func TestShapesInsertAndBbox(t *testing.T) {
	l := memory.NewLayout(0.001)
	c, _ := l.CreateCell("c1")
	idx := l.Layers().Layer(1, 0)
	shapes := c.Shapes(idx)
	shapes.InsertPolygon(backend.Polygon{Points: []units.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}})
	box := shapes.Bbox()
	assert.Equal(t, int64(0), box.Left)
	assert.Equal(t, int64(10), box.Right)
}

func TestCellFlattenAppliesTransform(t *testing.T) {
	l := memory.NewLayout(0.001)
	child, _ := l.CreateCell("child")
	idx := l.Layers().Layer(1, 0)
	child.Shapes(idx).InsertPolygon(backend.Polygon{Points: []units.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}})

	parent, _ := l.CreateCell("parent")
	parent.Insert(backend.CellInstArray{Cell: child, Trans: units.NewTrans(0, false, 100, 0)})
	parent.Flatten(false)

	box := parent.Shapes(idx).Bbox()
	assert.Equal(t, int64(100), box.Left)
	assert.Equal(t, int64(110), box.Right)
}

func TestRegionOverlap(t *testing.T) {
	r1 := memory.NewRegion()
	r1.Add(backend.Polygon{Points: []units.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}})
	r2 := memory.NewRegion()
	r2.Add(backend.Polygon{Points: []units.Point{{X: 5, Y: 5}, {X: 15, Y: 5}, {X: 15, Y: 15}, {X: 5, Y: 15}}})

	and := r1.And(r2)
	assert.False(t, and.IsEmpty())

	r3 := memory.NewRegion()
	r3.Add(backend.Polygon{Points: []units.Point{{X: 100, Y: 100}, {X: 110, Y: 100}, {X: 110, Y: 110}, {X: 100, Y: 110}}})
	andEmpty := r1.And(r3)
	assert.True(t, andEmpty.IsEmpty())
}

func TestLayoutWriteReadRoundTrip(t *testing.T) {
	l := memory.NewLayout(0.001)
	idx := l.Layers().Layer(1, 0)

	child, _ := l.CreateCell("rt_child")
	child.Shapes(idx).InsertPolygon(backend.Polygon{Points: []units.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}})
	child.SetProperty(0, kvalue.String("length: 10"))

	parent, _ := l.CreateCell("rt_parent")
	parent.Insert(backend.CellInstArray{Cell: child, Trans: units.NewTrans(0, false, 100, 0)})

	require.NoError(t, l.Write("rt.gds", backend.WriteOptions{ContextInfo: true}))

	l2 := memory.NewLayout(0.001)
	cells, err := l2.Read("rt.gds", backend.ReadOptions{})
	require.NoError(t, err)
	assert.Len(t, cells, 2)

	gotChild, ok := l2.Cell("rt_child")
	require.True(t, ok)
	box := gotChild.Shapes(idx).Bbox()
	assert.Equal(t, int64(0), box.Left)
	assert.Equal(t, int64(10), box.Right)

	v, ok := gotChild.Property(0)
	require.True(t, ok)
	assert.Equal(t, "length: 10", v.String())

	gotParent, ok := l2.Cell("rt_parent")
	require.True(t, ok)
	require.Len(t, gotParent.Instances(), 1)
}

func TestLayoutWriteReadSkipsCellsAlreadyPresent(t *testing.T) {
	l := memory.NewLayout(0.001)
	idx := l.Layers().Layer(1, 0)
	child, _ := l.CreateCell("preexisting")
	child.Shapes(idx).InsertPolygon(backend.Polygon{Points: []units.Point{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 5, Y: 5}, {X: 0, Y: 5}}})
	require.NoError(t, l.Write("preexisting.gds", backend.WriteOptions{}))

	l2 := memory.NewLayout(0.001)
	existing, _ := l2.CreateCell("preexisting")
	cells, err := l2.Read("preexisting.gds", backend.ReadOptions{})
	require.NoError(t, err)
	assert.Len(t, cells, 0)

	box := existing.Shapes(idx).Bbox()
	assert.Equal(t, int64(0), box.Right)
}

func TestLayoutReadMissingPathReturnsError(t *testing.T) {
	l := memory.NewLayout(0.001)
	_, err := l.Read("does-not-exist.gds", backend.ReadOptions{})
	assert.ErrorIs(t, err, kerrors.ErrBackendReadVersionTooOld)
}

func TestReportDatabase(t *testing.T) {
	db := memory.NewReportDatabase("Routing Errors")
	cat := db.CreateCategory("Manhattan Routing Collisions")
	cell := db.CreateCell("top")
	db.AddItem(cat, cell, "overlap detected", backend.Polygon{})
	require.Len(t, db.Items, 1)
	assert.Equal(t, "Manhattan Routing Collisions", db.Items[0].Category)

	got, ok := db.CategoryByPath("Manhattan Routing Collisions")
	require.True(t, ok)
	assert.Equal(t, cat.Path(), got.Path())
}
