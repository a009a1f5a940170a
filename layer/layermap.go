package layer

import "sort"

// Map is a symbolic name -> (layer,datatype) namespace, the Go realization
// of spec.md §6's "LayerInfos" layer-naming file: an enum-like table a
// caller declares once and resolves against a Registry.
type Map struct {
	entries map[string]Info
}

// NewMap builds a Map from a name -> (layer,datatype) table. Names are
// copied; the input map is not retained.
func NewMap(table map[string][2]uint16) *Map {
	m := &Map{entries: make(map[string]Info, len(table))}
	for name, pair := range table {
		m.entries[name] = Info{Layer: pair[0], Datatype: pair[1], Name: name}
	}
	return m
}

// Resolve registers every entry of m against r and returns name -> Index.
func (m *Map) Resolve(r *Registry) map[string]Index {
	out := make(map[string]Index, len(m.entries))
	for name, info := range m.entries {
		out[name] = r.LayerNamed(info.Layer, info.Datatype, name)
	}
	return out
}

// Names returns the symbolic names in this map, sorted for determinism.
func (m *Map) Names() []string {
	names := make([]string, 0, len(m.entries))
	for n := range m.entries {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
