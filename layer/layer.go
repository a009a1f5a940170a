// SPDX-License-Identifier: MIT
// Package layer assigns stable integer indices to (layer,datatype) mask
// pairs and exposes an optional symbolic namespace over them.
package layer

import (
	"fmt"
	"sync"
)

// Index is an opaque, stable identifier for a registered (layer,datatype)
// pair. Index values are assigned in first-seen order starting at 0.
type Index int

// Info describes a registered layer: its raw GDS (layer,datatype) numbers
// plus an optional human name.
type Info struct {
	Layer    uint16
	Datatype uint16
	Name     string
}

func (i Info) key() [2]uint16 { return [2]uint16{i.Layer, i.Datatype} }

// Registry assigns and looks up Index values for (layer,datatype) pairs.
// Registration is idempotent: repeated calls for the same pair return the
// same Index. The human name never affects identity; it is only reported
// by GetInfo and String.
type Registry struct {
	mu      sync.RWMutex
	byPair  map[[2]uint16]Index
	infos   []Info
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byPair: make(map[[2]uint16]Index)}
}

// Layer registers (or looks up) the (l,d) pair and returns its Index.
func (r *Registry) Layer(l, d uint16) Index {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.layerLocked(l, d, "")
}

// LayerNamed registers (or looks up) (l,d) and attaches name if this is the
// first registration of the pair; subsequent calls with a different name
// leave the existing name untouched (name is metadata, not identity).
func (r *Registry) LayerNamed(l, d uint16, name string) Index {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.layerLocked(l, d, name)
}

func (r *Registry) layerLocked(l, d uint16, name string) Index {
	key := Info{Layer: l, Datatype: d}.key()
	if idx, ok := r.byPair[key]; ok {
		return idx
	}
	idx := Index(len(r.infos))
	r.infos = append(r.infos, Info{Layer: l, Datatype: d, Name: name})
	r.byPair[key] = idx
	return idx
}

// GetInfo returns the (l,d,name) triple for idx, or false if idx is not
// registered.
func (r *Registry) GetInfo(idx Index) (Info, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if int(idx) < 0 || int(idx) >= len(r.infos) {
		return Info{}, false
	}
	return r.infos[idx], true
}

// Len returns the number of registered layers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.infos)
}

// String renders idx as "layer/datatype" or "layer/datatype (name)".
func (r *Registry) String(idx Index) string {
	info, ok := r.GetInfo(idx)
	if !ok {
		return fmt.Sprintf("<unregistered layer %d>", int(idx))
	}
	if info.Name != "" {
		return fmt.Sprintf("%d/%d (%s)", info.Layer, info.Datatype, info.Name)
	}
	return fmt.Sprintf("%d/%d", info.Layer, info.Datatype)
}
