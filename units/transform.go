// SPDX-License-Identifier: MIT
package units

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/sha3"
)

// Transform is the common surface of the four rigid/similarity transform
// variants kfactory operates on: Trans, DTrans, CplxTrans, DCplxTrans.
// spec.md §9 recommends a single always-complex internal representation for
// ports; this interface lets port.Port and cell.Instance stay agnostic of
// which concrete variant a caller constructed.
type Transform interface {
	// IsComplex reports whether the transform is a general similarity
	// (magnitude/rotation-degrees) rather than one of the eight 90°
	// rigid motions.
	IsComplex() bool
	// IsFloat reports whether displacement is stored in µm (true) or dbu
	// (false).
	IsFloat() bool
	// ToComplexDbu widens any variant losslessly into an integer-disp
	// complex transform, using dbu to convert float displacements.
	ToComplexDbu(dbu Dbu) CplxTrans
	// ToComplexUm widens any variant losslessly into a float-disp complex
	// transform, using dbu to convert integer displacements.
	ToComplexUm(dbu Dbu) DCplxTrans
	// Hash returns a stable, byte-for-byte identical digest for
	// structurally equal transforms of the same concrete type.
	Hash() [64]byte
	// String renders a short diagnostic form.
	String() string
}

// cosTab/sinTab give exact integer cos/sin for angle*90°, angle in 0..3.
var cosTab = [4]int64{1, 0, -1, 0}
var sinTab = [4]int64{0, 1, 0, -1}

// normalizeAngle reduces an int angle to the 0..3 range.
func normalizeAngle(a int) int {
	a %= 4
	if a < 0 {
		a += 4
	}
	return a
}

// rotateMirrorInt applies "mirror then rotate by angle*90°" to an integer
// vector, matching spec.md §4.1's required composition order.
func rotateMirrorInt(angle int, mirror bool, x, y int64) (int64, int64) {
	if mirror {
		y = -y
	}
	c, s := cosTab[angle], sinTab[angle]
	return c*x - s*y, s*x + c*y
}

// composeAngleMirror derives the (angle,mirror) pair of "apply a then b"
// for two simple transforms, by multiplying their 2x2 integer matrices and
// decoding the dihedral result. Exact (no floating point).
func composeAngleMirror(aAngle int, aMirror bool, bAngle int, bMirror bool) (int, bool) {
	// Matrix for (angle,mirror): M = Rot(angle) * Mirror(mirror).
	mat := func(angle int, mirror bool) [2][2]int64 {
		c, s := cosTab[angle], sinTab[angle]
		if mirror {
			// Rot(angle) * diag(1,-1)
			return [2][2]int64{{c, s}, {s, -c}}
		}
		return [2][2]int64{{c, -s}, {s, c}}
	}
	ma := mat(aAngle, aMirror)
	mb := mat(bAngle, bMirror)
	// M = Mb * Ma (apply a then b).
	var m [2][2]int64
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			m[i][j] = mb[i][0]*ma[0][j] + mb[i][1]*ma[1][j]
		}
	}
	det := m[0][0]*m[1][1] - m[0][1]*m[1][0]
	mirror := det < 0
	for angle := 0; angle < 4; angle++ {
		cand := mat(angle, mirror)
		if cand == m {
			return angle, mirror
		}
	}
	// Unreachable for valid dihedral inputs.
	panic("units: composeAngleMirror produced a non-dihedral matrix")
}

// ---------------------------------------------------------------------
// Trans: simple integer (dbu) transform.
// ---------------------------------------------------------------------

// Trans is a simple rigid transform in dbu: one of eight 90° motions.
type Trans struct {
	Angle  int // 0..3, normalized mod 4
	Mirror bool
	DX, DY int64
}

// NewTrans constructs a Trans, normalizing angle into 0..3.
func NewTrans(angle int, mirror bool, dx, dy int64) Trans {
	return Trans{Angle: normalizeAngle(angle), Mirror: mirror, DX: dx, DY: dy}
}

// Identity is the neutral simple transform.
var Identity = Trans{}

// Apply transforms a point: rotate_mirror(p) + disp.
func (t Trans) Apply(p Point) Point {
	x, y := rotateMirrorInt(t.Angle, t.Mirror, p.X, p.Y)
	return Point{X: x + t.DX, Y: y + t.DY}
}

// Compose returns the transform equivalent to applying t then o.
func (t Trans) Compose(o Trans) Trans {
	angle, mirror := composeAngleMirror(t.Angle, t.Mirror, o.Angle, o.Mirror)
	dx, dy := rotateMirrorInt(o.Angle, o.Mirror, t.DX, t.DY)
	return Trans{Angle: angle, Mirror: mirror, DX: dx + o.DX, DY: dy + o.DY}
}

// Invert returns the transform t2 such that t.Compose(t2) == Identity.
// M(angle,mirror) is orthogonal, so its inverse is its transpose; Invert
// searches the 8-element dihedral group for the matching pair.
func (t Trans) Invert() Trans {
	mat := func(angle int, mirror bool) [2][2]int64 {
		c, s := cosTab[angle], sinTab[angle]
		if mirror {
			return [2][2]int64{{c, s}, {s, -c}}
		}
		return [2][2]int64{{c, -s}, {s, c}}
	}
	m := mat(t.Angle, t.Mirror)
	transpose := [2][2]int64{{m[0][0], m[1][0]}, {m[0][1], m[1][1]}}
	var outAngle int
	var outMirror bool
	for angle := 0; angle < 4; angle++ {
		for _, mirror := range []bool{false, true} {
			if mat(angle, mirror) == transpose {
				outAngle, outMirror = angle, mirror
			}
		}
	}
	// disp' = -M^{-1} * disp
	x, y := rotateMirrorInt(outAngle, outMirror, -t.DX, -t.DY)
	return Trans{Angle: outAngle, Mirror: outMirror, DX: x, DY: y}
}

// ToDComplex widens t into a float-disp complex transform: mag=1,
// rot=angle*90.
func (t Trans) ToDComplex(dbu Dbu) DCplxTrans {
	return DCplxTrans{Mag: 1, Rot: float64(t.Angle) * 90, Mirror: t.Mirror, DX: dbu.ToUm(t.DX), DY: dbu.ToUm(t.DY)}
}

// ToComplex widens t into an integer-disp complex transform: mag=1,
// rot=angle*90.
func (t Trans) ToComplex() CplxTrans {
	return CplxTrans{Mag: 1, Rot: float64(t.Angle) * 90, Mirror: t.Mirror, DX: t.DX, DY: t.DY}
}

// ToDbuTrans converts a DTrans into a Trans by rounding displacement.
func ToDbuTrans(dbu Dbu, t DTrans) Trans {
	return Trans{Angle: t.Angle, Mirror: t.Mirror, DX: dbu.ToDbu(t.DX), DY: dbu.ToDbu(t.DY)}
}

func (t Trans) IsComplex() bool { return false }
func (t Trans) IsFloat() bool   { return false }
func (t Trans) ToComplexDbu(dbu Dbu) CplxTrans { return t.ToComplex() }
func (t Trans) ToComplexUm(dbu Dbu) DCplxTrans { return t.ToDComplex(dbu) }

func (t Trans) String() string {
	return fmt.Sprintf("r%d%s %d,%d", t.Angle*90, mirrorSuffix(t.Mirror), t.DX, t.DY)
}

func (t Trans) Hash() [64]byte {
	h := sha3.New512()
	binary.Write(h, binary.LittleEndian, int64(t.Angle))
	binary.Write(h, binary.LittleEndian, t.Mirror)
	binary.Write(h, binary.LittleEndian, t.DX)
	binary.Write(h, binary.LittleEndian, t.DY)
	var out [64]byte
	copy(out[:], h.Sum(nil))
	return out
}

func mirrorSuffix(m bool) string {
	if m {
		return "m"
	}
	return ""
}

// ---------------------------------------------------------------------
// DTrans: simple float (µm) transform.
// ---------------------------------------------------------------------

// DTrans is a simple rigid transform in µm: one of eight 90° motions.
type DTrans struct {
	Angle  int
	Mirror bool
	DX, DY float64
}

// NewDTrans constructs a DTrans, normalizing angle into 0..3.
func NewDTrans(angle int, mirror bool, dx, dy float64) DTrans {
	return DTrans{Angle: normalizeAngle(angle), Mirror: mirror, DX: dx, DY: dy}
}

// Apply transforms a point.
func (t DTrans) Apply(p DPoint) DPoint {
	x, y := rotateMirrorFloat(t.Angle, t.Mirror, p.X, p.Y)
	return DPoint{X: x + t.DX, Y: y + t.DY}
}

func rotateMirrorFloat(angle int, mirror bool, x, y float64) (float64, float64) {
	if mirror {
		y = -y
	}
	c, s := float64(cosTab[angle]), float64(sinTab[angle])
	return c*x - s*y, s*x + c*y
}

// Compose returns the transform equivalent to applying t then o.
func (t DTrans) Compose(o DTrans) DTrans {
	angle, mirror := composeAngleMirror(t.Angle, t.Mirror, o.Angle, o.Mirror)
	dx, dy := rotateMirrorFloat(o.Angle, o.Mirror, t.DX, t.DY)
	return DTrans{Angle: angle, Mirror: mirror, DX: dx + o.DX, DY: dy + o.DY}
}

// Invert returns the inverse transform.
func (t DTrans) Invert() DTrans {
	inv := Trans{Angle: t.Angle, Mirror: t.Mirror}.Invert()
	x, y := rotateMirrorFloat(inv.Angle, inv.Mirror, -t.DX, -t.DY)
	return DTrans{Angle: inv.Angle, Mirror: inv.Mirror, DX: x, DY: y}
}

// ToComplex widens t into a float-disp complex transform.
func (t DTrans) ToComplex() DCplxTrans {
	return DCplxTrans{Mag: 1, Rot: float64(t.Angle) * 90, Mirror: t.Mirror, DX: t.DX, DY: t.DY}
}

func (t DTrans) IsComplex() bool { return false }
func (t DTrans) IsFloat() bool   { return true }
func (t DTrans) ToComplexDbu(dbu Dbu) CplxTrans {
	return CplxTrans{Mag: 1, Rot: float64(t.Angle) * 90, Mirror: t.Mirror, DX: dbu.ToDbu(t.DX), DY: dbu.ToDbu(t.DY)}
}
func (t DTrans) ToComplexUm(dbu Dbu) DCplxTrans { return t.ToComplex() }

func (t DTrans) String() string {
	return fmt.Sprintf("r%d%s %g,%g", t.Angle*90, mirrorSuffix(t.Mirror), t.DX, t.DY)
}

func (t DTrans) Hash() [64]byte {
	h := sha3.New512()
	binary.Write(h, binary.LittleEndian, int64(t.Angle))
	binary.Write(h, binary.LittleEndian, t.Mirror)
	binary.Write(h, binary.LittleEndian, t.DX)
	binary.Write(h, binary.LittleEndian, t.DY)
	var out [64]byte
	copy(out[:], h.Sum(nil))
	return out
}
