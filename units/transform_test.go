package units_test

import (
	"math"
	"testing"

	"github.com/kfactory-go/kfactory/units"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDbuRoundTrip(t *testing.T) {
	dbu := units.Dbu(0.001)
	for _, n := range []int64{0, 1, -1, 12345, -98765, 1000000} {
		um := dbu.ToUm(n)
		got := dbu.ToDbu(um)
		require.Equal(t, n, got, "round trip for n=%d", n)
	}
}

func TestTransApplyIdentity(t *testing.T) {
	p := units.Point{X: 10, Y: 20}
	got := units.Identity.Apply(p)
	assert.Equal(t, p, got)
}

func TestTransComposeAssociative(t *testing.T) {
	a := units.NewTrans(1, false, 5, 7)
	b := units.NewTrans(2, true, -3, 4)
	c := units.NewTrans(3, false, 1, 1)

	left := a.Compose(b).Compose(c)
	right := a.Compose(b.Compose(c))
	assert.Equal(t, left, right)
}

func TestTransInvertRoundTrip(t *testing.T) {
	for angle := 0; angle < 4; angle++ {
		for _, mirror := range []bool{false, true} {
			tr := units.NewTrans(angle, mirror, 13, -21)
			p := units.Point{X: 100, Y: -50}
			got := tr.Invert().Apply(tr.Apply(p))
			assert.Equal(t, p, got, "angle=%d mirror=%v", angle, mirror)
		}
	}
}

func TestTransInvertComposeIsIdentity(t *testing.T) {
	tr := units.NewTrans(3, true, 42, -17)
	composed := tr.Compose(tr.Invert())
	assert.Equal(t, units.Identity, composed)
}

func TestInvertComposeOrderReversal(t *testing.T) {
	// invert(compose(a,b)) == compose(invert(b), invert(a))
	a := units.NewTrans(1, false, 5, 7)
	b := units.NewTrans(2, true, -3, 4)
	lhs := a.Compose(b).Invert()
	rhs := b.Invert().Compose(a.Invert())
	assert.Equal(t, lhs, rhs)
}

func TestSimpleToComplexWidensLosslessly(t *testing.T) {
	tr := units.NewTrans(2, true, 100, 200)
	cplx := tr.ToComplex()
	assert.Equal(t, float64(1), cplx.Mag)
	assert.Equal(t, float64(180), cplx.Rot)
	assert.Equal(t, tr.Mirror, cplx.Mirror)
	assert.Equal(t, tr.DX, cplx.DX)
	assert.Equal(t, tr.DY, cplx.DY)
}

func TestCplxTransInvertWithinTolerance(t *testing.T) {
	tr := units.NewCplxTrans(2.5, 37, false, 1000, -2000)
	p := units.Point{X: 500, Y: -300}
	got := tr.Invert().Apply(tr.Apply(p))
	assert.LessOrEqual(t, int64(math.Abs(float64(got.X-p.X))), int64(1))
	assert.LessOrEqual(t, int64(math.Abs(float64(got.Y-p.Y))), int64(1))
}

func TestHashStability(t *testing.T) {
	a := units.NewTrans(1, false, 5, 5)
	b := units.NewTrans(1, false, 5, 5)
	assert.Equal(t, a.Hash(), b.Hash())

	c := units.NewTrans(1, false, 5, 6)
	assert.NotEqual(t, a.Hash(), c.Hash())
}

func TestMirrorThenRotateSemantics(t *testing.T) {
	// Per spec.md §4.1: mirror inverts y before rotating by angle*90.
	tr := units.NewTrans(1, true, 0, 0) // mirror, then rotate 90
	p := units.Point{X: 1, Y: 0}
	// mirror: (1,0) -> (1,0) (y=0 unaffected); rotate 90: (1,0) -> (0,1)
	got := tr.Apply(p)
	assert.Equal(t, units.Point{X: 0, Y: 1}, got)

	p2 := units.Point{X: 0, Y: 1}
	// mirror: (0,1) -> (0,-1); rotate 90: (0,-1) -> (1,0)
	got2 := tr.Apply(p2)
	assert.Equal(t, units.Point{X: 1, Y: 0}, got2)
}
