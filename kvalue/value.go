// SPDX-License-Identifier: MIT
// Package kvalue implements the polymorphic settings/info value used by
// cells, parametric-cell caching and layout metadata persistence.
//
// spec.md §9 calls for replacing an open Map<str, Any> with a tagged sum of
// Null | Bool | Int | Float | String | List<Value> | Map<String,Value> |
// Geometry(GeomTag, Bytes); this package realizes that sum as a single
// struct carrying a Kind discriminant, matching the teacher's convention of
// small discriminated-union value types (core.Vertex.Metadata generalized
// into an explicit tag rather than bare interface{}).
package kvalue

import "fmt"

// Kind discriminates the active field of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindList
	KindMap
	KindGeometry
)

// String renders the Kind for diagnostics.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	case KindGeometry:
		return "geometry"
	default:
		return "unknown"
	}
}

// GeomTag enumerates the backend-object kinds a Geometry value may carry,
// used as the serialization discriminator described in spec.md §6's
// LayoutMetaInfo section ("dbox" ↔ Box, "polygon" ↔ Polygon, …).
type GeomTag string

const (
	GeomBox       GeomTag = "dbox"
	GeomPolygon   GeomTag = "polygon"
	GeomPath      GeomTag = "path"
	GeomTrans     GeomTag = "trans"
	GeomCplxTrans GeomTag = "cplx_trans"
)

// Value is a recursive sum type: exactly one of the typed fields is
// meaningful, selected by Kind. Zero value is Null.
type Value struct {
	Kind    Kind
	Bool    bool
	Int     int64
	Float   float64
	Str     string
	List    []Value
	Map     map[string]Value
	GeomTag GeomTag
	Geom    []byte
}

// Null returns the Null value.
func Null() Value { return Value{Kind: KindNull} }

// Bool wraps a bool.
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// Int wraps an int64.
func Int(i int64) Value { return Value{Kind: KindInt, Int: i} }

// Float wraps a float64.
func Float(f float64) Value { return Value{Kind: KindFloat, Float: f} }

// String wraps a string.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// List wraps a slice of Values, preserving order (spec.md's "list→tuple"
// canonicalization rule applies only inside pcell; this constructor is
// order-preserving).
func List(vs ...Value) Value { return Value{Kind: KindList, List: vs} }

// Map wraps a map of Values.
func Map(m map[string]Value) Value { return Value{Kind: KindMap, Map: m} }

// Geometry wraps an opaque backend-object payload tagged with its kind.
func Geometry(tag GeomTag, payload []byte) Value {
	return Value{Kind: KindGeometry, GeomTag: tag, Geom: payload}
}

// Equal reports deep structural equality between two Values.
func Equal(a, b Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindNull:
		return true
	case KindBool:
		return a.Bool == b.Bool
	case KindInt:
		return a.Int == b.Int
	case KindFloat:
		return a.Float == b.Float
	case KindString:
		return a.Str == b.Str
	case KindList:
		if len(a.List) != len(b.List) {
			return false
		}
		for i := range a.List {
			if !Equal(a.List[i], b.List[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if len(a.Map) != len(b.Map) {
			return false
		}
		for k, av := range a.Map {
			bv, ok := b.Map[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	case KindGeometry:
		if a.GeomTag != b.GeomTag || len(a.Geom) != len(b.Geom) {
			return false
		}
		for i := range a.Geom {
			if a.Geom[i] != b.Geom[i] {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// String renders a Value for diagnostics and for the naming rule in pcell
// (which calls String on scalar leaves after its own clean-up pass).
func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return "None"
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindInt:
		return fmt.Sprintf("%d", v.Int)
	case KindFloat:
		return fmt.Sprintf("%g", v.Float)
	case KindString:
		return v.Str
	case KindList:
		out := "["
		for i, e := range v.List {
			if i > 0 {
				out += ", "
			}
			out += e.String()
		}
		return out + "]"
	case KindMap:
		out := "{"
		first := true
		for k, e := range v.Map {
			if !first {
				out += ", "
			}
			first = false
			out += k + ": " + e.String()
		}
		return out + "}"
	case KindGeometry:
		return fmt.Sprintf("<%s:%d bytes>", v.GeomTag, len(v.Geom))
	default:
		return "<invalid>"
	}
}
