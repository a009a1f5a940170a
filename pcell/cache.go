// SPDX-License-Identifier: MIT
// Package pcell implements the parametric-cell decorator: bind arguments,
// canonicalize them into a cache key, return a cached cell on hit, or
// construct+publish+lock+insert on miss. Grounded in
// original_source/src/kfactory/kcell.py's @cell decorator and in the
// teacher's fixed-capacity registry pattern (core.Graph's mutex-guarded
// maps), with LRU eviction delegated to golang-lru/v2 rather than
// hand-rolled, per spec.md §4.4's "single in-process cache" contract.
package pcell

import (
	"log"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/kfactory-go/kfactory/cell"
)

// DefaultCapacity is the LRU's default entry count when Options.Capacity
// is left zero.
const DefaultCapacity = 512

// Cache is the fixed-capacity, single in-process cache a KCLayout's
// parametric-cell factories share.
type Cache struct {
	lru *lru.Cache[string, *cell.Cell]
}

// NewCache constructs a Cache of the given capacity (DefaultCapacity if
// <= 0), logging a warning naming the evicted cell whenever the LRU drops
// an entry.
func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	l, _ := lru.NewWithEvict[string, *cell.Cell](capacity, func(key string, c *cell.Cell) {
		log.Printf("pcell: evicting %q from parametric-cell cache (capacity exceeded)", c.Name())
	})
	return &Cache{lru: l}
}

// Get returns the cached cell for key, if present.
func (c *Cache) Get(key string) (*cell.Cell, bool) {
	return c.lru.Get(key)
}

// Put inserts cel under key, possibly evicting the least-recently-used
// entry.
func (c *Cache) Put(key string, cel *cell.Cell) {
	c.lru.Add(key, cel)
}

// Len returns the number of cells currently cached.
func (c *Cache) Len() int { return c.lru.Len() }
