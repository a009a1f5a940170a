// SPDX-License-Identifier: MIT
// Package memory is a minimal in-memory implementation of the backend
// provider contract (backend.Layout et al.), sufficient to exercise
// kfactory's core end-to-end without a real GDS/OAS library. It is the
// reference backend this module's own tests run against; spec.md §1 treats
// the real GDS/OAS layer as an external collaborator out of this module's
// scope.
package memory

import (
	"encoding/binary"
	"fmt"
	"sort"
	"sync"

	"github.com/kfactory-go/kfactory/backend"
	"github.com/kfactory-go/kfactory/kerrors"
	"github.com/kfactory-go/kfactory/kvalue"
	"github.com/kfactory-go/kfactory/layer"
	"github.com/kfactory-go/kfactory/units"
	"golang.org/x/crypto/sha3"
)

// Layout is an in-memory backend.Layout.
type Layout struct {
	mu     sync.RWMutex
	dbu    units.Dbu
	layers *layer.Registry
	cells  map[string]*Cell
	order  []string
}

// NewLayout constructs an empty in-memory Layout with the given dbu.
func NewLayout(dbu units.Dbu) *Layout {
	return &Layout{dbu: dbu, layers: layer.NewRegistry(), cells: make(map[string]*Cell)}
}

func (l *Layout) Dbu() units.Dbu          { return l.dbu }
func (l *Layout) Layers() *layer.Registry { return l.layers }

// CreateCell allocates a new, empty backend cell named name. The caller
// (kcl.KCLayout) is responsible for name-collision policy; CreateCell
// itself does not rename.
func (l *Layout) CreateCell(name string) (backend.Cell, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, exists := l.cells[name]; exists {
		return nil, fmt.Errorf("memory: cell %q already exists in layout", name)
	}
	c := &Cell{name: name, index: len(l.order), shapes: make(map[layer.Index]*Shapes)}
	l.cells[name] = c
	l.order = append(l.order, name)
	return c, nil
}

func (l *Layout) Cell(name string) (backend.Cell, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	c, ok := l.cells[name]
	if !ok {
		return nil, false
	}
	return c, true
}

// Cells returns all cells; pattern is matched as an exact name or "*" for
// everything (the minimal glob the core needs per spec.md §4.3's read
// path).
func (l *Layout) Cells(pattern string) []backend.Cell {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]backend.Cell, 0, len(l.order))
	for _, name := range l.order {
		if pattern == "*" || pattern == name {
			out = append(out, l.cells[name])
		}
	}
	return out
}

// cellSnapshot is what Write records and Read replays for one cell: no
// real GDS/OAS bytes, just enough of the in-memory Cell's state to
// round-trip through a path name within this process (spec.md §6's
// "Persisted cell metadata" contract, minus an actual file format).
type cellSnapshot struct {
	name      string
	shapes    map[layer.Index][]backend.Polygon
	instances []instSnapshot
	props     map[int]kvalue.Value
}

type instSnapshot struct {
	childName string
	trans     units.Transform
}

var fileStore = struct {
	mu    sync.Mutex
	files map[string][]cellSnapshot
}{files: make(map[string][]cellSnapshot)}

// Write snapshots every cell currently in l under path, replacing any
// previous snapshot there. When opts.ContextInfo is set, each cell's
// backend properties (the (property_index -> "key: value") pairs
// pcell.Cell publishes) are captured too; otherwise Read back will yield
// cells with geometry and instances but no properties.
func (l *Layout) Write(path string, opts backend.WriteOptions) error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	snaps := make([]cellSnapshot, 0, len(l.order))
	for _, name := range l.order {
		c := l.cells[name]
		snap := cellSnapshot{name: name, shapes: make(map[layer.Index][]backend.Polygon)}
		for _, idx := range c.LayerIndices() {
			var polys []backend.Polygon
			c.Shapes(idx).(*Shapes).Each(func(p backend.Polygon) { polys = append(polys, p) })
			snap.shapes[idx] = polys
		}
		for _, inst := range c.Instances() {
			child, ok := inst.Cell.(*Cell)
			if !ok {
				continue
			}
			snap.instances = append(snap.instances, instSnapshot{childName: child.Name(), trans: inst.Trans})
		}
		if opts.ContextInfo {
			snap.props = c.properties()
		}
		snaps = append(snaps, snap)
	}

	fileStore.mu.Lock()
	fileStore.files[path] = snaps
	fileStore.mu.Unlock()
	return nil
}

// Read replays the snapshot last Written to path into l, skipping any
// cell already present under that name (matching spec.md §4.3's "for
// every backend cell newly introduced" contract: existing cells are left
// alone). A missing path is reported as kerrors.ErrBackendReadVersionTooOld
// rather than a hard failure, since the in-memory store has no concept of
// a stale-but-present file — only present or absent.
func (l *Layout) Read(path string, opts backend.ReadOptions) ([]backend.Cell, error) {
	fileStore.mu.Lock()
	snaps, ok := fileStore.files[path]
	fileStore.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("memory: %q: %w", path, kerrors.ErrBackendReadVersionTooOld)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]backend.Cell, 0, len(snaps))
	fresh := make(map[string]bool, len(snaps))
	for _, snap := range snaps {
		if _, exists := l.cells[snap.name]; exists {
			continue
		}
		c := &Cell{name: snap.name, index: len(l.order), shapes: make(map[layer.Index]*Shapes)}
		l.cells[snap.name] = c
		l.order = append(l.order, snap.name)
		fresh[snap.name] = true
		out = append(out, c)
	}

	for _, snap := range snaps {
		if !fresh[snap.name] {
			continue
		}
		c := l.cells[snap.name]
		for idx, polys := range snap.shapes {
			s := c.Shapes(idx).(*Shapes)
			for _, p := range polys {
				s.InsertPolygon(p)
			}
		}
		for _, inst := range snap.instances {
			child, ok := l.cells[inst.childName]
			if !ok {
				continue
			}
			c.Insert(backend.CellInstArray{Cell: child, Trans: inst.trans})
		}
		for key, v := range snap.props {
			c.SetProperty(key, v)
		}
	}
	return out, nil
}

// Show records that a report database was surfaced; the in-memory backend
// has no UI, so this simply validates the database is non-nil.
func (l *Layout) Show(db backend.ReportDatabase) error {
	if db == nil {
		return fmt.Errorf("memory: Show requires a non-nil report database")
	}
	return nil
}

// NewRegion allocates an empty in-memory Region.
func (l *Layout) NewRegion() backend.Region { return NewRegion() }

// NewReportDatabase allocates an empty in-memory ReportDatabase.
func (l *Layout) NewReportDatabase(name string) backend.ReportDatabase { return NewReportDatabase(name) }

// Cell is an in-memory backend.Cell.
type Cell struct {
	mu        sync.RWMutex
	name      string
	index     int
	shapes    map[layer.Index]*Shapes
	instances []backend.CellInstArray
	props     map[int]kvalue.Value
}

func (c *Cell) Name() string { c.mu.RLock(); defer c.mu.RUnlock(); return c.name }
func (c *Cell) SetName(n string) { c.mu.Lock(); defer c.mu.Unlock(); c.name = n }
func (c *Cell) CellIndex() int { return c.index }

func (c *Cell) Shapes(idx layer.Index) backend.Shapes {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.shapes[idx]
	if !ok {
		s = &Shapes{}
		c.shapes[idx] = s
	}
	return s
}

// LayerIndices returns the layer indices this cell owns shapes on, sorted.
func (c *Cell) LayerIndices() []layer.Index {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]layer.Index, 0, len(c.shapes))
	for idx := range c.shapes {
		out = append(out, idx)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (c *Cell) Insert(inst backend.CellInstArray) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.instances = append(c.instances, inst)
	return len(c.instances) - 1
}

func (c *Cell) Instances() []backend.CellInstArray {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]backend.CellInstArray, len(c.instances))
	copy(out, c.instances)
	return out
}

// Flatten expands every instance's shapes (and nested instances,
// recursively) inline into c, applying each instance's transform.
// prune is accepted for interface conformance; the in-memory backend has
// no file-level cell table to prune from.
func (c *Cell) Flatten(prune bool) {
	c.mu.Lock()
	insts := make([]backend.CellInstArray, len(c.instances))
	copy(insts, c.instances)
	c.instances = nil
	c.mu.Unlock()

	for _, inst := range insts {
		child, ok := inst.Cell.(*Cell)
		if !ok {
			continue
		}
		child.Flatten(prune)
		for _, idx := range child.LayerIndices() {
			dstAny := c.Shapes(idx)
			dst := dstAny.(*Shapes)
			child.Shapes(idx).(*Shapes).Each(func(p backend.Polygon) {
				switch t := inst.Trans.(type) {
				case units.Trans:
					dst.InsertPolygon(p.Transformed(t))
				case units.CplxTrans:
					dst.InsertPolygon(p.TransformedCplx(t))
				default:
					dst.InsertPolygon(p)
				}
			})
		}
	}
}

func (c *Cell) Bbox() backend.Box {
	c.mu.RLock()
	defer c.mu.RUnlock()
	box := backend.NewEmptyBox()
	for _, s := range c.shapes {
		box = box.Union(s.Bbox())
	}
	for _, inst := range c.instances {
		if child, ok := inst.Cell.(*Cell); ok {
			childBox := child.Bbox()
			switch t := inst.Trans.(type) {
			case units.Trans:
				childBox = childBox.Transformed(t)
			case units.CplxTrans:
				childBox = childBox.TransformedCplx(t)
			}
			box = box.Union(childBox)
		}
	}
	return box
}

func (c *Cell) Property(key int) (kvalue.Value, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.props[key]
	return v, ok
}

func (c *Cell) SetProperty(key int, v kvalue.Value) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.props == nil {
		c.props = make(map[int]kvalue.Value)
	}
	c.props[key] = v
}

// properties returns a shallow copy of c's property map, for Write's
// ContextInfo snapshot.
func (c *Cell) properties() map[int]kvalue.Value {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.props) == 0 {
		return nil
	}
	out := make(map[int]kvalue.Value, len(c.props))
	for k, v := range c.props {
		out[k] = v
	}
	return out
}

// Shapes is an in-memory backend.Shapes: a flat polygon list plus a text
// list. InsertPath stores the path's materialized polygon, so a path and
// that polygon hash identically once placed (matching the teacher's
// preference for deterministic, order-preserving collections).
type Shapes struct {
	mu       sync.RWMutex
	polygons []backend.Polygon
	texts    []textShape
}

type textShape struct {
	text  string
	trans units.Trans
}

func (s *Shapes) InsertPolygon(p backend.Polygon) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.polygons = append(s.polygons, p)
}

func (s *Shapes) InsertPath(p backend.Path) {
	s.InsertPolygon(p.Polygon())
}

func (s *Shapes) InsertText(text string, trans units.Trans) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.texts = append(s.texts, textShape{text: text, trans: trans})
}

func (s *Shapes) Each(fn func(backend.Polygon)) {
	s.mu.RLock()
	polys := make([]backend.Polygon, len(s.polygons))
	copy(polys, s.polygons)
	s.mu.RUnlock()
	for _, p := range polys {
		fn(p)
	}
}

func (s *Shapes) Bbox() backend.Box {
	s.mu.RLock()
	defer s.mu.RUnlock()
	box := backend.NewEmptyBox()
	for _, p := range s.polygons {
		box = box.Union(p.Bbox())
	}
	return box
}

func (s *Shapes) Hash() [64]byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h := sha3.New512()
	for _, p := range s.polygons {
		for _, pt := range p.Points {
			binary.Write(h, binary.LittleEndian, pt.X)
			binary.Write(h, binary.LittleEndian, pt.Y)
		}
	}
	for _, t := range s.texts {
		h.Write([]byte(t.text))
		tb := t.trans.Hash()
		h.Write(tb[:])
	}
	var out [64]byte
	copy(out[:], h.Sum(nil))
	return out
}
