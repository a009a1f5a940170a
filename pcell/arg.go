// SPDX-License-Identifier: MIT
package pcell

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kfactory-go/kfactory/cell"
	"github.com/kfactory-go/kfactory/kvalue"
)

// argKind discriminates what an Arg actually carries. Plain settings use
// kvalue.Value; two extra cases exist because a parametric-cell factory
// may also be invoked with a reference to another cell, or to another
// registered factory, neither of which is a kvalue scalar.
type argKind int

const (
	argValue argKind = iota
	argCellRef
	argFactoryRef
)

// Arg is one named argument to a parametric cell factory.
type Arg struct {
	kind       argKind
	value      kvalue.Value
	cellRef    *cell.Cell
	factoryRef string
}

// Val wraps a plain settings value.
func Val(v kvalue.Value) Arg { return Arg{kind: argValue, value: v} }

// CellRef wraps a reference to another cell (e.g. a sub-component passed
// by value into a composing factory).
func CellRef(c *cell.Cell) Arg { return Arg{kind: argCellRef, cellRef: c} }

// FactoryRef wraps a reference to another registered factory by the
// ComponentType it was decorated with (resolved through Lookup).
func FactoryRef(fullName string) Arg { return Arg{kind: argFactoryRef, factoryRef: fullName} }

// Args is the settings bag passed to a Factory.
type Args map[string]Arg

// canonicalize recurses over a into a deterministic textual form used both
// as the cache key and as the input to the naming rule: maps (kvalue.Map)
// become sorted slices of (key,value) pairs, lists keep their order,
// a CellRef becomes its cell's Name(), and a FactoryRef becomes the
// ComponentType name it wraps.
func canonicalize(args Args) string {
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+canonicalizeArg(args[k]))
	}
	return strings.Join(parts, ";")
}

func canonicalizeArg(a Arg) string {
	switch a.kind {
	case argCellRef:
		return "cell:" + a.cellRef.Name()
	case argFactoryRef:
		return "factory:" + a.factoryRef
	default:
		return canonicalizeValue(a.value)
	}
}

func canonicalizeValue(v kvalue.Value) string {
	switch v.Kind {
	case kvalue.KindMap:
		keys := make([]string, 0, len(v.Map))
		for k := range v.Map {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + ":" + canonicalizeValue(v.Map[k])
		}
		return "{" + strings.Join(parts, ",") + "}"
	case kvalue.KindList:
		parts := make([]string, len(v.List))
		for i, e := range v.List {
			parts[i] = canonicalizeValue(e)
		}
		return "[" + strings.Join(parts, ",") + "]"
	default:
		return fmt.Sprintf("%d:%s", v.Kind, v.String())
	}
}

// toSettingsMap converts Args to kvalue.Value form for Cell.PublishSettings
// and dict2name, resolving cell/factory references to their String forms.
func (a Args) toSettingsMap() map[string]kvalue.Value {
	out := make(map[string]kvalue.Value, len(a))
	for k, v := range a {
		switch v.kind {
		case argCellRef:
			out[k] = kvalue.String(v.cellRef.Name())
		case argFactoryRef:
			out[k] = kvalue.String(v.factoryRef)
		default:
			out[k] = v.value
		}
	}
	return out
}
