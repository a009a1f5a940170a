package memory

import (
	"fmt"
	"sync"

	"github.com/kfactory-go/kfactory/backend"
)

// ReportDatabase is a minimal in-memory backend.ReportDatabase: a category
// tree plus a flat list of recorded items, enough to assert on in tests
// (spec.md §8 scenario 6).
type ReportDatabase struct {
	mu         sync.Mutex
	name       string
	categories map[string]*reportCategory
	cells      map[string]*reportCell
	Items      []ReportItem
}

// ReportItem is one recorded finding.
type ReportItem struct {
	Category string
	Cell     string
	Message  string
	Polygon  backend.Polygon
}

// NewReportDatabase constructs an empty database titled name.
func NewReportDatabase(name string) *ReportDatabase {
	return &ReportDatabase{name: name, categories: make(map[string]*reportCategory), cells: make(map[string]*reportCell)}
}

func (db *ReportDatabase) Name() string { return db.name }

type reportCategory struct {
	path string
	db   *ReportDatabase
}

func (c *reportCategory) Path() string { return c.path }

func (c *reportCategory) CreateSubCategory(name string) backend.Category {
	return c.db.CreateCategory(c.path + "/" + name)
}

type reportCell struct{ name string }

func (c *reportCell) Name() string { return c.name }

func (db *ReportDatabase) CreateCategory(path string) backend.Category {
	db.mu.Lock()
	defer db.mu.Unlock()
	if cat, ok := db.categories[path]; ok {
		return cat
	}
	cat := &reportCategory{path: path, db: db}
	db.categories[path] = cat
	return cat
}

func (db *ReportDatabase) CategoryByPath(path string) (backend.Category, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()
	cat, ok := db.categories[path]
	return cat, ok
}

func (db *ReportDatabase) CreateCell(name string) backend.ReportCell {
	db.mu.Lock()
	defer db.mu.Unlock()
	if c, ok := db.cells[name]; ok {
		return c
	}
	c := &reportCell{name: name}
	db.cells[name] = c
	return c
}

func (db *ReportDatabase) AddItem(cat backend.Category, cell backend.ReportCell, message string, poly backend.Polygon) {
	db.mu.Lock()
	defer db.mu.Unlock()
	catPath := ""
	if cat != nil {
		catPath = cat.Path()
	}
	cellName := ""
	if cell != nil {
		cellName = cell.Name()
	}
	db.Items = append(db.Items, ReportItem{Category: catPath, Cell: cellName, Message: message, Polygon: poly})
}

// String renders a short diagnostic summary, used by tests that assert a
// database was actually populated.
func (db *ReportDatabase) String() string {
	db.mu.Lock()
	defer db.mu.Unlock()
	return fmt.Sprintf("ReportDatabase(%s): %d item(s)", db.name, len(db.Items))
}
