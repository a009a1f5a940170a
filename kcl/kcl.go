// SPDX-License-Identifier: MIT
// Package kcl implements KCLayout, the top-level cell registry that owns a
// backend.Layout, a layer.Registry, a cross-section table, and the
// kfactory.Cell wrappers placed over each backend cell.
package kcl

import (
	"fmt"
	"sync"

	"github.com/kfactory-go/kfactory/backend"
	"github.com/kfactory-go/kfactory/cell"
	"github.com/kfactory-go/kfactory/kerrors"
	"github.com/kfactory-go/kfactory/layer"
	"github.com/kfactory-go/kfactory/units"
	"github.com/kfactory-go/kfactory/xsect"
)

// KCLayout is the cell registry and layout-wide context every Cell, Port,
// and pcell factory is constructed against.
type KCLayout struct {
	mu sync.RWMutex

	layout      backend.Layout
	dbu         units.Dbu
	cells       map[string]*cell.Cell
	cellsByIdx  map[int]*cell.Cell
	crossSects  map[string]*xsect.CrossSection
	nextAnonIdx int
}

// New wraps an existing backend.Layout as a KCLayout.
func New(l backend.Layout) *KCLayout {
	return &KCLayout{
		layout:     l,
		dbu:        l.Dbu(),
		cells:      make(map[string]*cell.Cell),
		cellsByIdx: make(map[int]*cell.Cell),
		crossSects: make(map[string]*xsect.CrossSection),
	}
}

func (k *KCLayout) Dbu() units.Dbu        { return k.dbu }
func (k *KCLayout) ToDbu(x float64) int64 { return k.dbu.ToDbu(x) }
func (k *KCLayout) ToUm(n int64) float64  { return k.dbu.ToUm(n) }
func (k *KCLayout) Layers() *layer.Registry { return k.layout.Layers() }

// CreateCellOption configures CreateCell.
type CreateCellOption func(*createCellOptions)

type createCellOptions struct {
	allowDuplicate bool
}

// AllowDuplicate lets CreateCell resolve a name collision by appending
// "$1", "$2", … to name instead of returning kerrors.ErrDuplicateName
// (spec.md §4.3).
func AllowDuplicate() CreateCellOption {
	return func(o *createCellOptions) { o.allowDuplicate = true }
}

// CreateCell registers a new, empty cell named name. On a name collision,
// CreateCell fails with kerrors.ErrDuplicateName unless AllowDuplicate is
// passed, in which case it retries under name+"$1", name+"$2", … until it
// finds a free name.
func (k *KCLayout) CreateCell(name string, opts ...CreateCellOption) (*cell.Cell, error) {
	var o createCellOptions
	for _, opt := range opts {
		opt(&o)
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	final := name
	if _, exists := k.cells[name]; exists {
		if !o.allowDuplicate {
			return nil, fmt.Errorf("cell %q: %w", name, kerrors.ErrDuplicateName)
		}
		for n := 1; ; n++ {
			candidate := fmt.Sprintf("%s$%d", name, n)
			if _, exists := k.cells[candidate]; !exists {
				final = candidate
				break
			}
		}
	}

	bc, err := k.layout.CreateCell(final)
	if err != nil {
		return nil, err
	}
	c := cell.New(k.dbu, bc.CellIndex(), bc)
	k.cells[final] = c
	k.cellsByIdx[bc.CellIndex()] = c
	return c, nil
}

// RenameCell renames a registered cell and re-keys it in the registry
// under its new name. Rejected with kerrors.ErrDuplicateName if name is
// already taken by a different cell, or whatever error c.SetName returns
// (e.g. ErrFrozen) if the rename itself fails.
func (k *KCLayout) RenameCell(c *cell.Cell, name string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	old := c.Name()
	if name == old {
		return nil
	}
	if _, exists := k.cells[name]; exists {
		return fmt.Errorf("cell %q: %w", name, kerrors.ErrDuplicateName)
	}
	if err := c.SetName(name); err != nil {
		return err
	}
	delete(k.cells, old)
	k.cells[name] = c
	return nil
}

// DuplicateCell registers a fresh backend cell named c.Name()+"$copy"
// (suffixed further with "$1", "$2", … on collision) and copies c into it
// via cell.Cell.Copy, for callers (pcell.Cell) that must mutate an
// already-locked factory result before caching it (spec.md §4.4 step 5).
func (k *KCLayout) DuplicateCell(c *cell.Cell) (*cell.Cell, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	base := c.Name() + "$copy"
	final := base
	for n := 1; ; n++ {
		if _, exists := k.cells[final]; !exists {
			break
		}
		final = fmt.Sprintf("%s$%d", base, n)
	}

	bc, err := k.layout.CreateCell(final)
	if err != nil {
		return nil, err
	}
	out := c.Copy(bc.CellIndex(), bc)
	k.cells[final] = out
	k.cellsByIdx[bc.CellIndex()] = out
	return out, nil
}

// Cell looks up a registered cell by name.
func (k *KCLayout) Cell(name string) (*cell.Cell, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	c, ok := k.cells[name]
	if !ok {
		return nil, fmt.Errorf("cell %q: %w", name, kerrors.ErrCellNotFound)
	}
	return c, nil
}

// CellByIndex looks up a registered cell by its backend cell index.
func (k *KCLayout) CellByIndex(idx int) (*cell.Cell, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()
	c, ok := k.cellsByIdx[idx]
	if !ok {
		return nil, fmt.Errorf("cell index %d: %w", idx, kerrors.ErrCellNotFound)
	}
	return c, nil
}

// Cells returns every registered cell, in no particular order.
func (k *KCLayout) Cells() []*cell.Cell {
	k.mu.RLock()
	defer k.mu.RUnlock()
	out := make([]*cell.Cell, 0, len(k.cells))
	for _, c := range k.cells {
		out = append(out, c)
	}
	return out
}

// AnonymousName returns the next deterministic placeholder cell name
// ("Unnamed_N"), counting up from 1 per KCLayout.
func (k *KCLayout) AnonymousName() string {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.nextAnonIdx++
	return fmt.Sprintf("Unnamed_%d", k.nextAnonIdx)
}

// GetCrossSection returns the existing cross-section registered under
// spec.Name (or the deterministic "{enclosure}_{width}" synthesis when
// Name is empty), inserting it on first use.
func (k *KCLayout) GetCrossSection(spec xsect.Spec) (*xsect.CrossSection, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	name := spec.Name
	if name == "" {
		name = xsect.SynthesizeName(spec)
	}
	if existing, ok := k.crossSects[name]; ok {
		return existing, nil
	}
	xs, err := xsect.New(name, spec)
	if err != nil {
		return nil, err
	}
	k.crossSects[name] = xs
	return xs, nil
}

// Read delegates to the wrapped backend.Layout, wrapping each newly
// introduced backend cell in a kfactory.Cell and registering it.
func (k *KCLayout) Read(path string, opts backend.ReadOptions) ([]*cell.Cell, error) {
	bcs, err := k.layout.Read(path, opts)
	if err != nil {
		return nil, err
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	out := make([]*cell.Cell, 0, len(bcs))
	for _, bc := range bcs {
		if _, exists := k.cells[bc.Name()]; exists {
			continue
		}
		c := cell.New(k.dbu, bc.CellIndex(), bc)
		k.cells[bc.Name()] = c
		k.cellsByIdx[bc.CellIndex()] = c
		out = append(out, c)
	}
	return out, nil
}

// Write delegates to the wrapped backend.Layout.
func (k *KCLayout) Write(path string, opts backend.WriteOptions) error {
	return k.layout.Write(path, opts)
}

// Show surfaces a report database via the wrapped backend.
func (k *KCLayout) Show(db backend.ReportDatabase) error {
	return k.layout.Show(db)
}
