// SPDX-License-Identifier: MIT
package units

import (
	"encoding/binary"
	"fmt"
	"math"

	"golang.org/x/crypto/sha3"
)

// CplxTrans is a general similarity transform (magnitude + rotation in
// degrees + mirror) with integer (dbu) displacement.
type CplxTrans struct {
	Mag    float64
	Rot    float64 // degrees, normalized into [0,360)
	Mirror bool
	DX, DY int64
}

// DCplxTrans is a general similarity transform with float (µm)
// displacement.
type DCplxTrans struct {
	Mag    float64
	Rot    float64
	Mirror bool
	DX, DY float64
}

func normalizeDeg(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}

// NewCplxTrans constructs a CplxTrans, normalizing rot into [0,360).
func NewCplxTrans(mag, rot float64, mirror bool, dx, dy int64) CplxTrans {
	return CplxTrans{Mag: mag, Rot: normalizeDeg(rot), Mirror: mirror, DX: dx, DY: dy}
}

// NewDCplxTrans constructs a DCplxTrans, normalizing rot into [0,360).
func NewDCplxTrans(mag, rot float64, mirror bool, dx, dy float64) DCplxTrans {
	return DCplxTrans{Mag: mag, Rot: normalizeDeg(rot), Mirror: mirror, DX: dx, DY: dy}
}

func rotateMirrorComplex(mag, rotDeg float64, mirror bool, x, y float64) (float64, float64) {
	if mirror {
		y = -y
	}
	rad := rotDeg * math.Pi / 180
	c, s := math.Cos(rad), math.Sin(rad)
	return mag * (c*x - s*y), mag * (s*x + c*y)
}

// complexMatrix returns the 2x2 matrix form of this similarity transform, i.e.
// Mag * Rot(Rot°) * Mirror(Mirror).
func complexMatrix(mag, rotDeg float64, mirror bool) [2][2]float64 {
	rad := rotDeg * math.Pi / 180
	c, s := math.Cos(rad), math.Sin(rad)
	if mirror {
		return [2][2]float64{{mag * c, mag * s}, {mag * s, -mag * c}}
	}
	return [2][2]float64{{mag * c, -mag * s}, {mag * s, mag * c}}
}

// decomposeMatrix recovers (mag,rotDeg,mirror) from a similarity-transform
// matrix produced by complexMatrix.
func decomposeMatrix(m [2][2]float64) (mag, rotDeg float64, mirror bool) {
	det := m[0][0]*m[1][1] - m[0][1]*m[1][0]
	mirror = det < 0
	mag = math.Sqrt(math.Abs(det))
	if mag == 0 {
		return 0, 0, mirror
	}
	cosR := m[0][0] / mag
	sinR := m[1][0] / mag
	rotDeg = normalizeDeg(math.Atan2(sinR, cosR) * 180 / math.Pi)
	return mag, rotDeg, mirror
}

// Apply transforms an integer point.
func (t CplxTrans) Apply(p Point) Point {
	x, y := rotateMirrorComplex(t.Mag, t.Rot, t.Mirror, float64(p.X), float64(p.Y))
	return Point{X: int64(math.Round(x)) + t.DX, Y: int64(math.Round(y)) + t.DY}
}

// Apply transforms a float point.
func (t DCplxTrans) Apply(p DPoint) DPoint {
	x, y := rotateMirrorComplex(t.Mag, t.Rot, t.Mirror, p.X, p.Y)
	return DPoint{X: x + t.DX, Y: y + t.DY}
}

// Compose returns the transform equivalent to applying t then o.
func (t CplxTrans) Compose(o CplxTrans) CplxTrans {
	ma := complexMatrix(t.Mag, t.Rot, t.Mirror)
	mb := complexMatrix(o.Mag, o.Rot, o.Mirror)
	m := matMul(mb, ma)
	mag, rot, mirror := decomposeMatrix(m)
	dx, dy := rotateMirrorComplex(o.Mag, o.Rot, o.Mirror, float64(t.DX), float64(t.DY))
	return CplxTrans{Mag: mag, Rot: rot, Mirror: mirror, DX: int64(math.Round(dx)) + o.DX, DY: int64(math.Round(dy)) + o.DY}
}

// Compose returns the transform equivalent to applying t then o.
func (t DCplxTrans) Compose(o DCplxTrans) DCplxTrans {
	ma := complexMatrix(t.Mag, t.Rot, t.Mirror)
	mb := complexMatrix(o.Mag, o.Rot, o.Mirror)
	m := matMul(mb, ma)
	mag, rot, mirror := decomposeMatrix(m)
	dx, dy := rotateMirrorComplex(o.Mag, o.Rot, o.Mirror, t.DX, t.DY)
	return DCplxTrans{Mag: mag, Rot: rot, Mirror: mirror, DX: dx + o.DX, DY: dy + o.DY}
}

func matMul(a, b [2][2]float64) [2][2]float64 {
	var out [2][2]float64
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			out[i][j] = a[i][0]*b[0][j] + a[i][1]*b[1][j]
		}
	}
	return out
}

// Invert returns the inverse transform. Numerically stable for non-zero
// magnitude (spec.md §4.1): invert(t) satisfies compose(t, invert(t)) ==
// identity within floating tolerance.
func (t CplxTrans) Invert() CplxTrans {
	m := complexMatrix(t.Mag, t.Rot, t.Mirror)
	inv := invert2x2(m)
	mag, rot, mirror := decomposeMatrix(inv)
	x, y := applyMatrix(inv, -float64(t.DX), -float64(t.DY))
	return CplxTrans{Mag: mag, Rot: rot, Mirror: mirror, DX: int64(math.Round(x)), DY: int64(math.Round(y))}
}

// Invert returns the inverse transform.
func (t DCplxTrans) Invert() DCplxTrans {
	m := complexMatrix(t.Mag, t.Rot, t.Mirror)
	inv := invert2x2(m)
	mag, rot, mirror := decomposeMatrix(inv)
	x, y := applyMatrix(inv, -t.DX, -t.DY)
	return DCplxTrans{Mag: mag, Rot: rot, Mirror: mirror, DX: x, DY: y}
}

func invert2x2(m [2][2]float64) [2][2]float64 {
	det := m[0][0]*m[1][1] - m[0][1]*m[1][0]
	return [2][2]float64{
		{m[1][1] / det, -m[0][1] / det},
		{-m[1][0] / det, m[0][0] / det},
	}
}

func applyMatrix(m [2][2]float64, x, y float64) (float64, float64) {
	return m[0][0]*x + m[0][1]*y, m[1][0]*x + m[1][1]*y
}

// ToSimpleTrans narrows t to a simple integer (dbu) Trans when it is
// exactly representable as one: Mag==1, Rot a multiple of 90, and
// displacement an integer number of dbu once scaled.
func (t DCplxTrans) ToSimpleTrans(dbu Dbu) (Trans, bool) {
	const eps = 1e-6
	if math.Abs(t.Mag-1) > eps {
		return Trans{}, false
	}
	rot := normalizeDeg(t.Rot)
	angle := math.Round(rot / 90)
	if math.Abs(rot-angle*90) > eps {
		return Trans{}, false
	}
	return NewTrans(int(angle)%4, t.Mirror, dbu.ToDbu(t.DX), dbu.ToDbu(t.DY)), true
}

// ToDbuCplx converts a DCplxTrans into a CplxTrans, scaling displacement by dbu.
func ToDbuCplx(dbu Dbu, t DCplxTrans) CplxTrans {
	return CplxTrans{Mag: t.Mag, Rot: t.Rot, Mirror: t.Mirror, DX: dbu.ToDbu(t.DX), DY: dbu.ToDbu(t.DY)}
}

// ToUmCplx converts a CplxTrans into a DCplxTrans, scaling displacement by dbu.
func ToUmCplx(dbu Dbu, t CplxTrans) DCplxTrans {
	return DCplxTrans{Mag: t.Mag, Rot: t.Rot, Mirror: t.Mirror, DX: dbu.ToUm(t.DX), DY: dbu.ToUm(t.DY)}
}

func (t CplxTrans) IsComplex() bool            { return true }
func (t CplxTrans) IsFloat() bool              { return false }
func (t CplxTrans) ToComplexDbu(dbu Dbu) CplxTrans  { return t }
func (t CplxTrans) ToComplexUm(dbu Dbu) DCplxTrans  { return ToUmCplx(dbu, t) }

func (t DCplxTrans) IsComplex() bool           { return true }
func (t DCplxTrans) IsFloat() bool             { return true }
func (t DCplxTrans) ToComplexDbu(dbu Dbu) CplxTrans { return ToDbuCplx(dbu, t) }
func (t DCplxTrans) ToComplexUm(dbu Dbu) DCplxTrans { return t }

func (t CplxTrans) String() string {
	return fmt.Sprintf("m%g r%g%s %d,%d", t.Mag, t.Rot, mirrorSuffix(t.Mirror), t.DX, t.DY)
}

func (t DCplxTrans) String() string {
	return fmt.Sprintf("m%g r%g%s %g,%g", t.Mag, t.Rot, mirrorSuffix(t.Mirror), t.DX, t.DY)
}

func (t CplxTrans) Hash() [64]byte {
	h := sha3.New512()
	binary.Write(h, binary.LittleEndian, t.Mag)
	binary.Write(h, binary.LittleEndian, t.Rot)
	binary.Write(h, binary.LittleEndian, t.Mirror)
	binary.Write(h, binary.LittleEndian, t.DX)
	binary.Write(h, binary.LittleEndian, t.DY)
	var out [64]byte
	copy(out[:], h.Sum(nil))
	return out
}

func (t DCplxTrans) Hash() [64]byte {
	h := sha3.New512()
	binary.Write(h, binary.LittleEndian, t.Mag)
	binary.Write(h, binary.LittleEndian, t.Rot)
	binary.Write(h, binary.LittleEndian, t.Mirror)
	binary.Write(h, binary.LittleEndian, t.DX)
	binary.Write(h, binary.LittleEndian, t.DY)
	var out [64]byte
	copy(out[:], h.Sum(nil))
	return out
}
