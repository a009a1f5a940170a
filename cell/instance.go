// SPDX-License-Identifier: MIT
package cell

import (
	"fmt"
	"math"

	"github.com/kfactory-go/kfactory/kerrors"
	"github.com/kfactory-go/kfactory/port"
	"github.com/kfactory-go/kfactory/units"
)

// Instance is a placement of a target Cell inside an owning Cell. Like
// port.Port, it carries one canonical internal transform — DCplxTrans, µm
// — regardless of whether it was created from a simple or complex
// transform (spec.md §3, §9), so a genuinely non-Manhattan placement
// (arbitrary magnitude/rotation) never has to be rounded down to fit.
type Instance struct {
	owner  *Cell
	target *Cell
	trans  units.DCplxTrans
}

const complexEps = 1e-9

func newInstance(owner, target *Cell, trans units.DCplxTrans) *Instance {
	return &Instance{owner: owner, target: target, trans: trans}
}

func (i *Instance) Owner() *Cell  { return i.owner }
func (i *Instance) Target() *Cell { return i.target }

// IsComplex reports whether the instance's transform is a genuine
// similarity transform (magnitude != 1, or rotation not a multiple of
// 90°) rather than one of the eight Manhattan rigid motions.
func (i *Instance) IsComplex() bool {
	if math.Abs(i.trans.Mag-1) > complexEps {
		return true
	}
	angle := math.Round(i.trans.Rot / 90)
	return math.Abs(i.trans.Rot-angle*90) > complexEps
}

// Trans narrows the instance's transform to a simple integer (dbu) Trans,
// rounding rotation to the nearest 90° multiple and displacement to the
// nearest dbu. Exact only when !IsComplex(); callers that need exact
// fidelity for a complex instance should use DCplxTrans instead.
func (i *Instance) Trans() units.Trans {
	cplx := units.ToDbuCplx(i.target.dbu, i.trans)
	angle := int(math.Round(cplx.Rot/90)) % 4
	return units.NewTrans(angle, cplx.Mirror, cplx.DX, cplx.DY)
}

// DCplxTrans returns the instance's canonical transform exactly, with no
// rounding.
func (i *Instance) DCplxTrans() units.DCplxTrans { return i.trans }

// SetTrans replaces the instance's transform with a simple Trans.
func (i *Instance) SetTrans(t units.Trans) { i.trans = t.ToDComplex(i.target.dbu) }

// SetDCplxTrans replaces the instance's transform exactly, with no
// narrowing.
func (i *Instance) SetDCplxTrans(t units.DCplxTrans) { i.trans = t }

// backendTrans narrows the instance's canonical µm transform into the
// dbu-scaled representation backend.CellInstArray expects: a plain
// units.Trans when the placement is Manhattan, or a dbu units.CplxTrans
// when it genuinely is not.
func (i *Instance) backendTrans() units.Transform {
	if i.IsComplex() {
		return i.trans.ToComplexDbu(i.target.dbu)
	}
	return i.Trans()
}

// Port returns the instance's view of a target port: p's local transform
// applied first, then the instance's placement transform, per spec.md
// §4.7's InstancePorts contract. Always composed in complex (DCplxTrans,
// µm) space so a complex instance transform promotes the child port
// exactly instead of losing magnitude/rotation fidelity.
func (i *Instance) Port(name string) (port.Port, error) {
	p, err := i.target.Port(name)
	if err != nil {
		return port.Port{}, err
	}
	composed := p.DCplxTrans().Compose(i.trans)
	return p.WithTrans(composed), nil
}

// ConnectOptions controls mismatch tolerance for Connect/ConnectCplx.
type ConnectOptions struct {
	Mirror             bool
	AllowWidthMismatch bool
	AllowLayerMismatch bool
	AllowTypeMismatch  bool
}

// Connect transforms i so that its port named portname lands on top of op
// (same position, 180° turn, or mirrored 90° if Mirror is set). Matches
// spec.md §4.7: resolve ports, validate width/layer/type unless allowed,
// then set instance.trans = op.trans · conn · p.trans⁻¹, promoting to the
// matching complex transform whenever op or p is complex or float-based.
func (i *Instance) Connect(portname string, op port.Port, opts ConnectOptions) error {
	p, err := i.target.Port(portname)
	if err != nil {
		return err
	}
	if err := validateMatch(p, op, opts); err != nil {
		return err
	}

	connAngle, connMirror := 2, false // R180
	if opts.Mirror {
		connAngle, connMirror = 1, true // M90 == mirror then rotate 90
	}

	if !p.IsComplex() && !op.IsComplex() {
		conn := units.NewTrans(connAngle, connMirror, 0, 0)
		pInv := p.Trans().Invert()
		simple := pInv.Compose(conn).Compose(op.Trans())
		i.trans = simple.ToDComplex(i.target.dbu)
		return nil
	}

	connCplx := units.NewDCplxTrans(1, float64(connAngle)*90, connMirror, 0, 0)
	pInv := p.DCplxTrans().Invert()
	composed := pInv.Compose(connCplx).Compose(op.DCplxTrans())
	i.trans = composed
	return nil
}

// ConnectCplx is Connect performed entirely in complex (DCplxTrans) space.
// Width mismatches are tolerated when they vanish under dbu scaling
// (w1*dbu == w2), matching spec.md §4.7's resolved Open Question: there is
// exactly one promotion path.
func (i *Instance) ConnectCplx(portname string, op port.Port, opts ConnectOptions) error {
	p, err := i.target.Port(portname)
	if err != nil {
		return err
	}
	if p.Width() != op.Width() && !opts.AllowWidthMismatch {
		w1 := p.WidthUm()
		w2 := op.WidthUm()
		if w1 != w2 {
			return fmt.Errorf("port %q vs %q: %w", p.Name(), op.Name(), kerrors.ErrPortWidthMismatch)
		}
	}
	if p.Layer() != op.Layer() && !opts.AllowLayerMismatch {
		return fmt.Errorf("port %q vs %q: %w", p.Name(), op.Name(), kerrors.ErrPortLayerMismatch)
	}
	if p.PortType() != op.PortType() && !opts.AllowTypeMismatch {
		return fmt.Errorf("port %q vs %q: %w", p.Name(), op.Name(), kerrors.ErrPortTypeMismatch)
	}

	connAngle := 180.0
	connMirror := false
	if opts.Mirror {
		connAngle, connMirror = 90, true
	}
	conn := units.NewDCplxTrans(1, connAngle, connMirror, 0, 0)
	pInv := p.DCplxTrans().Invert()
	dcplx := pInv.Compose(conn).Compose(op.DCplxTrans())
	// Stored exactly: Instance's canonical transform is itself a
	// DCplxTrans, so a genuinely non-Manhattan connect result (magnitude
	// != 1 or rotation not a multiple of 90°) is never rounded down.
	i.trans = dcplx
	return nil
}

func validateMatch(p, op port.Port, opts ConnectOptions) error {
	if p.Width() != op.Width() && !opts.AllowWidthMismatch {
		return fmt.Errorf("port %q vs %q: %w", p.Name(), op.Name(), kerrors.ErrPortWidthMismatch)
	}
	if p.Layer() != op.Layer() && !opts.AllowLayerMismatch {
		return fmt.Errorf("port %q vs %q: %w", p.Name(), op.Name(), kerrors.ErrPortLayerMismatch)
	}
	if p.PortType() != op.PortType() && !opts.AllowTypeMismatch {
		return fmt.Errorf("port %q vs %q: %w", p.Name(), op.Name(), kerrors.ErrPortTypeMismatch)
	}
	return nil
}
