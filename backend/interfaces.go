package backend

import (
	"github.com/kfactory-go/kfactory/kvalue"
	"github.com/kfactory-go/kfactory/layer"
	"github.com/kfactory-go/kfactory/units"
)

// ReadOptions configures Layout.Read.
type ReadOptions struct {
	// LayerMap, if non-nil, maps the file's (layer,datatype) pairs onto
	// an explicit symbolic namespace instead of first-seen registration.
	// The in-memory backend (backend/memory) ignores it.
	LayerMap *layer.Map
}

// WriteOptions configures Layout.Write.
type WriteOptions struct {
	// ContextInfo, when true, embeds metadata alongside the geometry. The
	// in-memory backend (backend/memory) stores each cell's properties as
	// set through Cell.SetProperty; it keeps no per-port records.
	ContextInfo bool
}

// Shapes is a cell's per-layer shape set.
type Shapes interface {
	InsertPolygon(Polygon)
	InsertPath(Path)
	InsertText(text string, trans units.Trans)
	Each(func(Polygon))
	Bbox() Box
	// Hash returns a stable digest of this shape set's contents, used by
	// Cell.Hash (spec.md §4.5).
	Hash() [64]byte
}

// CellInstArray is a placement request: a child cell placed at trans,
// optionally repeated on an array grid (na x nb instances spaced by da/db).
// Na/Nb default to 1 when zero. The in-memory backend (backend/memory)
// ignores Na/Nb/Da/Db and treats every CellInstArray as one placement.
type CellInstArray struct {
	Cell  Cell
	Trans units.Transform
	Na, Nb int
	Da, Db units.Point
}

// Cell is a single geometric cell owned by a Layout.
type Cell interface {
	Name() string
	SetName(string)
	CellIndex() int
	Shapes(idx layer.Index) Shapes
	// LayerIndices returns the layers this cell has inserted shapes on, in
	// ascending index order. Used by Cell.Hash to iterate layers deterministically.
	LayerIndices() []layer.Index
	// Insert places a child cell instance and returns the index of the
	// newly appended CellInstArray within this cell.
	Insert(CellInstArray) int
	Instances() []CellInstArray
	// Flatten expands every instance inline into this cell's own shapes;
	// if prune, emptied child cells are removed from the layout.
	Flatten(prune bool)
	Bbox() Box
	Property(key int) (kvalue.Value, bool)
	SetProperty(key int, v kvalue.Value)
}

// Region is a boolean-algebra-capable set of polygons on one (conceptual)
// layer, used by the collision reporter to detect overlaps.
type Region interface {
	Add(Polygon)
	AddAll([]Polygon)
	// Merge coalesces overlapping/touching polygons into maximal shapes.
	Merge() Region
	Sub(Region) Region
	And(Region) Region
	Or(Region) Region
	IsEmpty() bool
	Polygons() []Polygon
	Bbox() Box
}

// Category is a node in a ReportDatabase's category tree.
type Category interface {
	Path() string
	CreateSubCategory(name string) Category
}

// ReportCell is a per-cell bucket within a ReportDatabase.
type ReportCell interface {
	Name() string
}

// ReportDatabase is the interactive-inspection artifact the collision
// reporter (and any on_placer_error="show_error" path) populates.
type ReportDatabase interface {
	CreateCategory(name string) Category
	CategoryByPath(path string) (Category, bool)
	CreateCell(name string) ReportCell
	// AddItem records one descriptive finding (message + offending
	// polygon, in dbu) against cat/cell.
	AddItem(cat Category, cell ReportCell, message string, poly Polygon)
}

// TilingProcessor is declared for provider conformance with spec.md §6; the
// fill-pattern tiling subsystem that would consume it is explicitly out of
// scope for the core (spec.md §1) and no code in this module calls it.
type TilingProcessor interface {
	Run(job func(tile Box)) error
}

// Layout is the provider-owned geometry database a KCLayout wraps.
type Layout interface {
	Dbu() units.Dbu
	Layers() *layer.Registry
	CreateCell(name string) (Cell, error)
	Cell(name string) (Cell, bool)
	Cells(pattern string) []Cell
	Read(path string, opts ReadOptions) ([]Cell, error)
	Write(path string, opts WriteOptions) error
	// Show surfaces a report database for interactive inspection (the
	// on_collision="show_error" / on_placer_error="show_error" path).
	Show(db ReportDatabase) error
	// NewRegion allocates an empty Region, the entry point for the boolean
	// algebra the collision reporter and dual-rail placer rely on.
	NewRegion() Region
	// NewReportDatabase allocates an empty ReportDatabase named name, for
	// the collision reporter's show_error path.
	NewReportDatabase(name string) ReportDatabase
}
