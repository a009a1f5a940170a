// Package backend is kfactory's minimal layout-primitives provider
// contract (spec.md §6): Layout, Cell, Shapes, Region, ReportDatabase, and
// the value types (Box, Polygon, Path) any conforming GDS/OAS library must
// offer. See the memory sub-package for a reference implementation.
package backend
