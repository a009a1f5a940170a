// SPDX-License-Identifier: MIT
package port

import (
	"fmt"

	"github.com/kfactory-go/kfactory/kerrors"
)

// Collection is an ordered sequence of ports with unique names, preserving
// insertion order (spec.md §5 ordering guarantee (i)).
type Collection struct {
	ports []Port
	byName map[string]int
}

// NewCollection returns an empty port Collection.
func NewCollection() *Collection {
	return &Collection{byName: make(map[string]int)}
}

// Add appends p, rejecting a duplicate name.
func (c *Collection) Add(p Port) error {
	if _, ok := c.byName[p.name]; ok {
		return fmt.Errorf("port %q: %w", p.name, kerrors.ErrDuplicateName)
	}
	c.byName[p.name] = len(c.ports)
	c.ports = append(c.ports, p)
	return nil
}

// Get returns the port named name, if present.
func (c *Collection) Get(name string) (Port, bool) {
	i, ok := c.byName[name]
	if !ok {
		return Port{}, false
	}
	return c.ports[i], true
}

// At returns the port at insertion-order index i.
func (c *Collection) At(i int) Port { return c.ports[i] }

// Len returns the number of ports in the collection.
func (c *Collection) Len() int { return len(c.ports) }

// All returns the ports in insertion order. The returned slice is a copy;
// mutating it does not affect the collection.
func (c *Collection) All() []Port {
	out := make([]Port, len(c.ports))
	copy(out, c.ports)
	return out
}

// Rename changes the name of the port at index i, rejecting a collision
// with an existing name. Used by the cell package's autorename pass.
func (c *Collection) Rename(i int, newName string) error {
	old := c.ports[i].name
	if newName == old {
		return nil
	}
	if _, ok := c.byName[newName]; ok {
		return fmt.Errorf("port %q: %w", newName, kerrors.ErrDuplicateName)
	}
	delete(c.byName, old)
	c.ports[i] = c.ports[i].WithName(newName)
	c.byName[newName] = i
	return nil
}

// Filter returns a new Collection holding only the ports for which keep
// returns true, preserving relative order.
func (c *Collection) Filter(keep func(Port) bool) *Collection {
	out := NewCollection()
	for _, p := range c.ports {
		if keep(p) {
			_ = out.Add(p)
		}
	}
	return out
}

// Clone returns a deep copy of c.
func (c *Collection) Clone() *Collection {
	out := NewCollection()
	for _, p := range c.ports {
		_ = out.Add(p)
	}
	return out
}
