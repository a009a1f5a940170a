package cell_test

import (
	"math"
	"testing"

	"github.com/kfactory-go/kfactory/backend/memory"
	"github.com/kfactory-go/kfactory/cell"
	"github.com/kfactory-go/kfactory/kerrors"
	"github.com/kfactory-go/kfactory/port"
	"github.com/kfactory-go/kfactory/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectRejectsWidthMismatch(t *testing.T) {
	lay := memory.NewLayout(0.001)
	idx := lay.Layers().Layer(1, 0)

	child := newTestCell(t, lay, "child")
	_, err := child.CreatePort("o1", 500, idx, units.Identity, port.Options{})
	require.NoError(t, err)

	other := newTestCell(t, lay, "other")
	op, err := other.CreatePort("o1", 400, idx, units.Identity, port.Options{})
	require.NoError(t, err)

	parent := newTestCell(t, lay, "parent")
	inst, err := parent.CreateInst(child, units.Identity)
	require.NoError(t, err)

	err = inst.Connect("o1", op, cell.ConnectOptions{})
	assert.ErrorIs(t, err, kerrors.ErrPortWidthMismatch)
}

func TestConnectPlacesInstanceAtExpectedTransform(t *testing.T) {
	lay := memory.NewLayout(0.001)
	idx := lay.Layers().Layer(1, 0)

	child := newTestCell(t, lay, "child")
	_, err := child.CreatePort("o1", 500, idx, units.NewTrans(0, false, 0, 0), port.Options{})
	require.NoError(t, err)

	other := newTestCell(t, lay, "other")
	op, err := other.CreatePort("o1", 500, idx, units.NewTrans(2, false, 1000, 0), port.Options{})
	require.NoError(t, err)

	parent := newTestCell(t, lay, "parent")
	inst, err := parent.CreateInst(child, units.Identity)
	require.NoError(t, err)

	require.NoError(t, inst.Connect("o1", op, cell.ConnectOptions{}))

	// The instance's own port should now coincide with op's position.
	got, err := inst.Port("o1")
	require.NoError(t, err)
	gotTrans := got.Trans()
	assert.Equal(t, op.Trans().DX, gotTrans.DX)
	assert.Equal(t, op.Trans().DY, gotTrans.DY)
}

func TestConnectCplxPreservesExactMagnitudeAndRotation(t *testing.T) {
	lay := memory.NewLayout(0.001)
	idx := lay.Layers().Layer(1, 0)

	child := newTestCell(t, lay, "child")
	_, err := child.CreatePort("o1", 500, idx, units.NewTrans(0, false, 0, 0), port.Options{})
	require.NoError(t, err)

	other := newTestCell(t, lay, "other")
	// A genuine similarity transform: 1.5x magnification, 37 degrees, not
	// representable as any of the eight Manhattan rigid motions.
	opPort, err := port.NewDCplx(lay.Dbu(), "o1", 0.5, idx, units.NewDCplxTrans(1.5, 37, false, 1000, 2000), port.Options{})
	require.NoError(t, err)
	op, err := other.AddPort(opPort, "")
	require.NoError(t, err)

	parent := newTestCell(t, lay, "parent")
	inst, err := parent.CreateInst(child, units.Identity)
	require.NoError(t, err)

	require.NoError(t, inst.ConnectCplx("o1", op, cell.ConnectOptions{}))
	assert.True(t, inst.IsComplex())

	got, err := inst.Port("o1")
	require.NoError(t, err)
	gotCplx := got.DCplxTrans()
	opCplx := op.DCplxTrans()
	assert.InDelta(t, opCplx.Mag, gotCplx.Mag, 1e-9)
	// The connected port faces op: rotated by a further 180 degrees.
	assert.InDelta(t, math.Mod(opCplx.Rot+180, 360), gotCplx.Rot, 1e-9)
	assert.InDelta(t, opCplx.DX, gotCplx.DX, 1e-9)
	assert.InDelta(t, opCplx.DY, gotCplx.DY, 1e-9)
}

func TestCreateInstCplxRoundTripsExactly(t *testing.T) {
	lay := memory.NewLayout(0.001)
	child := newTestCell(t, lay, "child")
	parent := newTestCell(t, lay, "parent")

	trans := units.NewDCplxTrans(2.25, 12.5, true, 500, -750)
	inst, err := parent.CreateInstCplx(child, trans)
	require.NoError(t, err)

	assert.True(t, inst.IsComplex())
	got := inst.DCplxTrans()
	assert.InDelta(t, trans.Mag, got.Mag, 1e-9)
	assert.InDelta(t, trans.Rot, got.Rot, 1e-9)
	assert.Equal(t, trans.Mirror, got.Mirror)
	assert.InDelta(t, trans.DX, got.DX, 1e-9)
	assert.InDelta(t, trans.DY, got.DY, 1e-9)
}

func TestConnectAllowsExplicitMismatch(t *testing.T) {
	lay := memory.NewLayout(0.001)
	idx := lay.Layers().Layer(1, 0)

	child := newTestCell(t, lay, "child")
	_, err := child.CreatePort("o1", 500, idx, units.Identity, port.Options{})
	require.NoError(t, err)

	other := newTestCell(t, lay, "other")
	op, err := other.CreatePort("o1", 400, idx, units.Identity, port.Options{})
	require.NoError(t, err)

	parent := newTestCell(t, lay, "parent")
	inst, err := parent.CreateInst(child, units.Identity)
	require.NoError(t, err)

	err = inst.Connect("o1", op, cell.ConnectOptions{AllowWidthMismatch: true})
	assert.NoError(t, err)
}
