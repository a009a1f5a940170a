// SPDX-License-Identifier: MIT
// Package port implements the named connection-point type kfactory attaches
// to cells, and the ordered Ports collection that owns them.
//
// Per spec.md §9's design note, Port stores an always-complex transform
// internally (DCplxTrans, µm) plus a Kind discriminant recording which of
// the four canonical views (int/float x simple/complex) it was built from.
// Trans/DTrans/CplxTrans/DCplxTrans convert on the fly and IsComplex
// reports the Kind; width is stored in dbu and
// converted to µm on demand.
package port

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/kfactory-go/kfactory/kerrors"
	"github.com/kfactory-go/kfactory/layer"
	"github.com/kfactory-go/kfactory/units"
	"golang.org/x/crypto/sha3"
)

// Kind records which canonical view a Port was constructed from. It never
// affects equality, hashing, or routing behavior — only which accessor a
// caller "should" prefer when round-tripping through the original API.
type Kind int

const (
	KindI     Kind = iota // integer (dbu), simple transform
	KindD                 // float (µm), simple transform
	KindICplx             // integer (dbu) displacement, complex transform
	KindDCplx             // float (µm) displacement, complex transform
)

// DefaultPortType is applied when a caller omits PortType.
const DefaultPortType = "optical"

// Port is a named interface point on a cell.
type Port struct {
	name     string
	width    int64 // dbu
	layer    layer.Index
	portType string
	kind     Kind
	trans    units.DCplxTrans // canonical internal representation, µm
	dbu      units.Dbu        // the dbu this port's int-based accessors scale by
}

// Options bundles the optional fields of New.
type Options struct {
	PortType string
}

// New constructs a Port from a simple integer (dbu) transform — the most
// common case (straight waveguide ends, electrical pads on a Manhattan
// grid).
func New(dbu units.Dbu, name string, width int64, l layer.Index, trans units.Trans, opts Options) (Port, error) {
	if width <= 0 {
		return Port{}, kerrors.ErrInvalidWidth
	}
	pt := opts.PortType
	if pt == "" {
		pt = DefaultPortType
	}
	return Port{
		name: name, width: width, layer: l, portType: pt,
		kind: KindI, trans: trans.ToDComplex(dbu), dbu: dbu,
	}, nil
}

// NewD constructs a Port from a simple float (µm) transform.
func NewD(dbu units.Dbu, name string, widthUm float64, l layer.Index, trans units.DTrans, opts Options) (Port, error) {
	width := dbu.ToDbu(widthUm)
	if width <= 0 {
		return Port{}, kerrors.ErrInvalidWidth
	}
	pt := opts.PortType
	if pt == "" {
		pt = DefaultPortType
	}
	return Port{
		name: name, width: width, layer: l, portType: pt,
		kind: KindD, trans: trans.ToComplex(), dbu: dbu,
	}, nil
}

// NewICplx constructs a Port from an integer-displacement complex
// transform.
func NewICplx(dbu units.Dbu, name string, width int64, l layer.Index, trans units.CplxTrans, opts Options) (Port, error) {
	if width <= 0 {
		return Port{}, kerrors.ErrInvalidWidth
	}
	pt := opts.PortType
	if pt == "" {
		pt = DefaultPortType
	}
	return Port{
		name: name, width: width, layer: l, portType: pt,
		kind: KindICplx, trans: trans.ToComplexUm(dbu), dbu: dbu,
	}, nil
}

// NewDCplx constructs a Port from a float-displacement complex transform.
func NewDCplx(dbu units.Dbu, name string, widthUm float64, l layer.Index, trans units.DCplxTrans, opts Options) (Port, error) {
	width := dbu.ToDbu(widthUm)
	if width <= 0 {
		return Port{}, kerrors.ErrInvalidWidth
	}
	pt := opts.PortType
	if pt == "" {
		pt = DefaultPortType
	}
	return Port{
		name: name, width: width, layer: l, portType: pt,
		kind: KindDCplx, trans: trans, dbu: dbu,
	}, nil
}

func (p Port) Name() string      { return p.name }
func (p Port) Width() int64      { return p.width }
func (p Port) WidthUm() float64  { return p.dbu.ToUm(p.width) }
func (p Port) Layer() layer.Index { return p.layer }
func (p Port) PortType() string  { return p.portType }
func (p Port) Kind() Kind        { return p.kind }
func (p Port) Dbu() units.Dbu    { return p.dbu }

// IsComplex reports whether this port was built from one of the two
// complex-transform constructors.
func (p Port) IsComplex() bool { return p.kind == KindICplx || p.kind == KindDCplx }

// Trans returns the port's transform as an integer (dbu) simple transform.
// Valid to call regardless of Kind; complex ports are narrowed by rounding
// rotation to the nearest 90° multiple and dropping magnitude — callers
// that need exact fidelity for a complex port should use DCplxTrans
// instead.
func (p Port) Trans() units.Trans {
	cplx := units.ToDbuCplx(p.dbu, p.trans)
	return units.NewTrans(int(math.Round(cplx.Rot/90)), cplx.Mirror, cplx.DX, cplx.DY)
}

// DTrans returns the port's transform as a float (µm) simple transform.
func (p Port) DTrans() units.DTrans {
	return units.NewDTrans(int(p.trans.Rot/90), p.trans.Mirror, p.trans.DX, p.trans.DY)
}

// CplxTrans returns the port's transform as an integer-displacement
// complex transform.
func (p Port) CplxTrans() units.CplxTrans {
	return units.ToDbuCplx(p.dbu, p.trans)
}

// DCplxTrans returns the port's canonical internal transform (float
// displacement, complex).
func (p Port) DCplxTrans() units.DCplxTrans { return p.trans }

// WithTrans returns a copy of p with its transform replaced, preserving
// Kind. Used by Instance-derived ports (port · instance.trans).
func (p Port) WithTrans(t units.DCplxTrans) Port {
	p.trans = t
	return p
}

// WithName returns a copy of p renamed to name.
func (p Port) WithName(name string) Port {
	p.name = name
	return p
}

// Hash returns SHA3-512 of (name, trans.Hash(), width, port_type, layer) —
// stable and position-free, so equal ports hash equally regardless of
// their position within a Ports collection (spec.md §3, §8).
func (p Port) Hash() [64]byte {
	h := sha3.New512()
	h.Write([]byte(p.name))
	th := p.trans.Hash()
	h.Write(th[:])
	binary.Write(h, binary.LittleEndian, p.width)
	h.Write([]byte(p.portType))
	binary.Write(h, binary.LittleEndian, int64(p.layer))
	var out [64]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Equal reports whether p and o are structurally equal (same name,
// transform, width, type, layer) — the precondition for the hash-stability
// property in spec.md §8.
func (p Port) Equal(o Port) bool {
	return p.name == o.name && p.trans == o.trans && p.width == o.width &&
		p.portType == o.portType && p.layer == o.layer
}

func (p Port) String() string {
	return fmt.Sprintf("Port(%s, w=%d, layer=%d, type=%s, %s)", p.name, p.width, p.layer, p.portType, p.trans)
}
