// SPDX-License-Identifier: MIT
// Package cell implements kfactory's Cell type: the named container of
// shapes, ports, and instances that forms one node of the layout
// hierarchy, plus its lock/freeze lifecycle and structural hashing.
//
// Transitions: Open -> (mutate) -> Open -> (lock) -> Locked. Locked is
// terminal for that cell identity; Copy always yields a fresh Open cell.
package cell

import (
	"fmt"
	"sort"
	"sync"

	"github.com/kfactory-go/kfactory/backend"
	"github.com/kfactory-go/kfactory/kerrors"
	"github.com/kfactory-go/kfactory/kvalue"
	"github.com/kfactory-go/kfactory/layer"
	"github.com/kfactory-go/kfactory/port"
	"github.com/kfactory-go/kfactory/units"
	"golang.org/x/crypto/sha3"
)

// Cell is a named, lockable container of shapes, ports, and instances.
// The zero value is not usable; construct with New.
type Cell struct {
	mu sync.RWMutex

	name    string
	index   int
	dbu     units.Dbu
	backend backend.Cell
	ports   *port.Collection
	insts   []*Instance
	info    map[string]kvalue.Value
	settings map[string]kvalue.Value
	locked  bool
}

// New wraps a freshly created backend.Cell as an Open kfactory Cell.
func New(dbu units.Dbu, index int, bc backend.Cell) *Cell {
	return &Cell{
		name: bc.Name(), index: index, dbu: dbu, backend: bc,
		ports: port.NewCollection(),
		info:  make(map[string]kvalue.Value), settings: make(map[string]kvalue.Value),
	}
}

func (c *Cell) Name() string  { return c.name }

// SetName renames the cell and its wrapped backend cell. Rejected with
// ErrFrozen if locked. Callers that also register cells by name (kcl.KCLayout)
// must keep their own index consistent; use kcl.KCLayout.RenameCell instead
// of this directly when the cell is registered.
func (c *Cell) SetName(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkMutable(); err != nil {
		return err
	}
	c.name = name
	c.backend.SetName(name)
	return nil
}
func (c *Cell) Index() int    { return c.index }
func (c *Cell) Dbu() units.Dbu { return c.dbu }
func (c *Cell) Backend() backend.Cell { return c.backend }

// Locked reports whether the cell rejects further mutation.
func (c *Cell) Locked() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.locked
}

// Lock freezes the cell. Idempotent.
func (c *Cell) Lock() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.locked = true
}

func (c *Cell) checkMutable() error {
	if c.locked {
		return fmt.Errorf("cell %q: %w", c.name, kerrors.ErrFrozen)
	}
	return nil
}

// Info returns the value stored at key in this cell's free-form info map.
func (c *Cell) Info(key string) (kvalue.Value, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.info[key]
	return v, ok
}

// SetInfo stores a value in the cell's free-form info map; always allowed,
// even when locked, matching spec.md's treatment of info as orthogonal to
// geometry/port state.
func (c *Cell) SetInfo(key string, v kvalue.Value) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.info[key] = v
}

// Setting returns the pcell construction setting stored at key.
func (c *Cell) Setting(key string) (kvalue.Value, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.settings[key]
	return v, ok
}

// PublishSettings replaces the cell's recorded construction settings.
// Called by pcell.Cell once a factory returns, before the cache inserts
// and the cell is locked.
func (c *Cell) PublishSettings(settings map[string]kvalue.Value) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.settings = settings
}

// AddPort inserts an already-built port, optionally renaming it first.
// Rejected with ErrFrozen if locked, ErrDuplicateName if the name is taken.
func (c *Cell) AddPort(p port.Port, name string) (port.Port, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkMutable(); err != nil {
		return port.Port{}, err
	}
	if name != "" {
		p = p.WithName(name)
	}
	if err := c.ports.Add(p); err != nil {
		return port.Port{}, err
	}
	return p, nil
}

// CreatePort builds a port via port.New and adds it to the cell.
func (c *Cell) CreatePort(name string, width int64, l layer.Index, trans units.Trans, opts port.Options) (port.Port, error) {
	p, err := port.New(c.dbu, name, width, l, trans, opts)
	if err != nil {
		return port.Port{}, err
	}
	return c.AddPort(p, "")
}

// Ports returns the cell's ports in insertion order.
func (c *Cell) Ports() []port.Port {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ports.All()
}

// Port looks up a port by name.
func (c *Cell) Port(name string) (port.Port, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.ports.Get(name)
	if !ok {
		return port.Port{}, fmt.Errorf("%q: %w", name, kerrors.ErrPortNotFound)
	}
	return p, nil
}

// CreateInst appends a new instance of target at trans. Rejected with
// ErrFrozen if locked, ErrCycle if target is c itself.
func (c *Cell) CreateInst(target *Cell, trans units.Trans) (*Instance, error) {
	return c.createInst(target, trans.ToDComplex(target.dbu))
}

// CreateInstCplx appends a new instance of target at a genuine similarity
// transform (arbitrary magnitude/rotation), for placements that cannot be
// expressed as one of the eight Manhattan rigid motions.
func (c *Cell) CreateInstCplx(target *Cell, trans units.DCplxTrans) (*Instance, error) {
	return c.createInst(target, trans)
}

func (c *Cell) createInst(target *Cell, trans units.DCplxTrans) (*Instance, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkMutable(); err != nil {
		return nil, err
	}
	if target == c {
		return nil, kerrors.ErrCycle
	}
	inst := newInstance(c, target, trans)
	c.insts = append(c.insts, inst)
	c.backend.Insert(backend.CellInstArray{Cell: target.backend, Trans: inst.backendTrans()})
	return inst, nil
}

// Instances returns the cell's instances in insertion order.
func (c *Cell) Instances() []*Instance {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Instance, len(c.insts))
	copy(out, c.insts)
	return out
}

// Copy returns a fresh Open cell backed by newBackend, which the caller
// creates (kcl.DuplicateCell names it with a "$copy" suffix since
// backend.Layout enforces unique names), with deep-copied ports and
// cloned instances of the same target cells with the same transforms.
func (c *Cell) Copy(index int, newBackend backend.Cell) *Cell {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := &Cell{
		name: newBackend.Name(), index: index, dbu: c.dbu, backend: newBackend,
		ports: c.ports.Clone(),
		info:  make(map[string]kvalue.Value), settings: make(map[string]kvalue.Value),
	}
	for k, v := range c.info {
		out.info[k] = v
	}
	for k, v := range c.settings {
		out.settings[k] = v
	}
	for _, inst := range c.insts {
		newInst := newInstance(out, inst.target, inst.trans)
		out.insts = append(out.insts, newInst)
		out.backend.Insert(backend.CellInstArray{Cell: inst.target.backend, Trans: newInst.backendTrans()})
	}
	return out
}

// Flatten expands all instances inline into the backend cell. merge is
// passed to backend.Cell.Flatten as its prune flag; no region merge is
// run, so abutting polygons stay separate. Rejected with ErrFrozen if
// locked.
func (c *Cell) Flatten(merge bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkMutable(); err != nil {
		return err
	}
	c.backend.Flatten(merge)
	c.insts = nil
	return nil
}

// DrawPorts inserts a two-point polygon (a 1000 dbu line from the port
// along its direction) and a text label at each port's transform into
// the port's layer, as a debug visualization aid.
func (c *Cell) DrawPorts() {
	c.mu.RLock()
	defer c.mu.RUnlock()
	const arrowLen = 1000 // dbu
	for _, p := range c.ports.All() {
		t := p.Trans()
		tip := t.Apply(units.Point{X: arrowLen, Y: 0})
		shapes := c.backend.Shapes(p.Layer())
		shapes.InsertPolygon(backend.Polygon{Points: []units.Point{
			{X: t.DX, Y: t.DY},
			{X: tip.X, Y: tip.Y},
		}})
		shapes.InsertText(p.Name(), t)
	}
}

// AutorenamePorts renames every port with the layout's clockwise rule
// (see autorename.go), or with fn if provided.
func (c *Cell) AutorenamePorts(fn RenameFunc) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkMutable(); err != nil {
		return err
	}
	if fn == nil {
		fn = ClockwiseRename
	}
	return fn(c.ports)
}

// Hash returns SHA3-512 of: name, then each layer's shape digest in
// canonical layer-index order, then each port's hash sorted by name, then
// each instance's hash sorted by (target-cell-name, transform hash).
// Structurally equal cells hash equally (spec.md §4.5, §8).
func (c *Cell) Hash() [64]byte {
	c.mu.RLock()
	defer c.mu.RUnlock()

	h := sha3.New512()
	h.Write([]byte(c.name))

	layers := c.backend.LayerIndices()
	sort.Slice(layers, func(i, j int) bool { return layers[i] < layers[j] })
	for _, li := range layers {
		sh := c.backend.Shapes(li).Hash()
		h.Write(sh[:])
	}

	ports := c.ports.All()
	sort.Slice(ports, func(i, j int) bool { return ports[i].Name() < ports[j].Name() })
	for _, p := range ports {
		ph := p.Hash()
		h.Write(ph[:])
	}

	insts := make([]*Instance, len(c.insts))
	copy(insts, c.insts)
	sort.Slice(insts, func(i, j int) bool {
		ni, nj := insts[i].target.name, insts[j].target.name
		if ni != nj {
			return ni < nj
		}
		hi, hj := insts[i].trans.Hash(), insts[j].trans.Hash()
		for k := range hi {
			if hi[k] != hj[k] {
				return hi[k] < hj[k]
			}
		}
		return false
	})
	for _, inst := range insts {
		h.Write([]byte(inst.target.name))
		th := inst.trans.Hash()
		h.Write(th[:])
	}

	var out [64]byte
	copy(out[:], h.Sum(nil))
	return out
}
