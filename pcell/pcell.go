// SPDX-License-Identifier: MIT
package pcell

import (
	"fmt"
	"sort"
	"sync"

	"github.com/kfactory-go/kfactory/cell"
	"github.com/kfactory-go/kfactory/kcl"
	"github.com/kfactory-go/kfactory/kvalue"
)

// Factory builds a cell from a KCLayout and a settings bag. The function
// value registered via Cell (below) has the same contract, plus caching.
type Factory func(k *kcl.KCLayout, args Args) (*cell.Cell, error)

// Options configures a decorated Factory.
type Options struct {
	// Cache is the LRU the decorator reads/writes. Required.
	Cache *Cache
	// ComponentType names this factory for auto-generated cell names
	// ("{ComponentType}_{dict2name(args)}"); required unless every call
	// site supplies Args that fully determine uniqueness some other way.
	ComponentType string
	// SkipAutoName disables the decorator's own renaming of the built cell
	// to NameFor(ComponentType, args) (kcell.py autocell's `set_name`).
	// Leave unset for the common case; set it when fn already assigns the
	// cell its final name itself.
	SkipAutoName bool
	// SkipSettings disables publishing args onto the cell's settings map
	// and as backend properties (kcell.py autocell's `set_settings`).
	SkipSettings bool
}

// registry maps a factory's ComponentType to itself, giving FactoryRef
// arguments something stable to resolve against through Lookup.
var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Cell decorates fn as a parametric-cell factory: bind -> canonicalize ->
// cache key -> hit returns the cached cell; miss calls fn, publishes its
// settings, locks the result, and inserts it into the cache (spec.md
// §4.4's full dance). The returned Factory has the same call contract as
// fn.
func Cell(fn Factory, opts Options) Factory {
	if opts.Cache == nil {
		panic("pcell: Cell requires a non-nil Options.Cache")
	}
	decorated := func(k *kcl.KCLayout, args Args) (*cell.Cell, error) {
		key := opts.ComponentType + "|" + canonicalize(args)
		if cached, ok := opts.Cache.Get(key); ok {
			return cached, nil
		}

		c, err := fn(k, args)
		if err != nil {
			return nil, fmt.Errorf("pcell %q: %w", opts.ComponentType, err)
		}

		if c.Locked() {
			c, err = k.DuplicateCell(c)
			if err != nil {
				return nil, fmt.Errorf("pcell %q: duplicating locked result: %w", opts.ComponentType, err)
			}
		}

		if !opts.SkipAutoName {
			if err := k.RenameCell(c, NameFor(opts.ComponentType, args)); err != nil {
				return nil, fmt.Errorf("pcell %q: %w", opts.ComponentType, err)
			}
		}

		if !opts.SkipSettings {
			settings := args.toSettingsMap()
			c.PublishSettings(settings)
			publishProperties(c, settings)
		}

		c.Lock()
		opts.Cache.Put(key, c)
		return c, nil
	}
	if opts.ComponentType != "" {
		registryMu.Lock()
		registry[opts.ComponentType] = decorated
		registryMu.Unlock()
	}
	return decorated
}

// publishProperties writes each setting onto the cell's backend cell as a
// (property_index -> "key: stringified-value") pair, in sorted key order
// for determinism, skipping already-occupied property indices (spec.md
// §4.4 step 5).
func publishProperties(c *cell.Cell, settings map[string]kvalue.Value) {
	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	bc := c.Backend()
	idx := 0
	for _, k := range keys {
		for {
			if _, ok := bc.Property(idx); !ok {
				break
			}
			idx++
		}
		bc.SetProperty(idx, kvalue.String(fmt.Sprintf("%s: %s", k, settings[k].String())))
		idx++
	}
}

// NameFor computes the deterministic auto-name a factory should give its
// cell absent an explicit name, per kcell.py's get_component_name.
func NameFor(componentType string, args Args) string {
	return componentName(componentType, args.toSettingsMap())
}

// Lookup resolves a FactoryRef's registered full name back to its
// decorated Factory, if still registered.
func Lookup(fullName string) (Factory, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[fullName]
	return f, ok
}
