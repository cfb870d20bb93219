// Package repositories holds the in-memory dataset built from one
// workbook load. The dataset plays the role a database would in other
// services: constructed once, indexed once, read-only afterwards.
package repositories

import (
	"fmt"

	"github.com/capintel/portfolio-engine/pkg/adapters/workbook"
	"github.com/capintel/portfolio-engine/pkg/models"
)

// Signature identifies the source file a dataset was built from.
// A changed signature means the file was replaced and the dataset must
// be rebuilt; there is no partial invalidation.
type Signature struct {
	Path    string
	ModTime int64
	Size    int64
}

// String renders the signature for cache keys and logs.
func (s Signature) String() string {
	return fmt.Sprintf("%s@%d:%d", s.Path, s.ModTime, s.Size)
}

// Dataset is the entity store for one workbook load: the four
// normalized collections plus per-entity indexes keyed by the canonical
// project id. It is immutable after construction; returned slices are
// shared, so callers that need to sort or filter must copy first.
type Dataset struct {
	sig    Signature
	tables *workbook.Tables

	rolesByID    map[string][]models.Role
	productsByID map[string][]models.Product
	eventsByID   map[string][]models.Event
}

// NewDataset builds the id indexes over the normalized tables. Rows
// with an unknown (empty) id are kept in the collections but never
// indexed, so they are unreachable from project-rooted lookups.
func NewDataset(sig Signature, tables *workbook.Tables) *Dataset {
	ds := &Dataset{
		sig:          sig,
		tables:       tables,
		rolesByID:    make(map[string][]models.Role),
		productsByID: make(map[string][]models.Product),
		eventsByID:   make(map[string][]models.Event),
	}
	for _, r := range tables.Roles {
		if r.ProjectID != "" {
			ds.rolesByID[r.ProjectID] = append(ds.rolesByID[r.ProjectID], r)
		}
	}
	for _, p := range tables.Products {
		if p.ProjectID != "" {
			ds.productsByID[p.ProjectID] = append(ds.productsByID[p.ProjectID], p)
		}
	}
	for _, e := range tables.Events {
		if e.ProjectID != "" {
			ds.eventsByID[e.ProjectID] = append(ds.eventsByID[e.ProjectID], e)
		}
	}
	return ds
}

// Signature returns the identity of the source file this dataset was
// built from.
func (d *Dataset) Signature() Signature { return d.sig }

// AllProjects returns every project row in sheet order.
func (d *Dataset) AllProjects() []models.Project { return d.tables.Projects }

// AllRoles returns every role row in sheet order, including rows whose
// project id is unknown.
func (d *Dataset) AllRoles() []models.Role { return d.tables.Roles }

// AllEvents returns every event row in sheet order.
func (d *Dataset) AllEvents() []models.Event { return d.tables.Events }

// AllProducts returns every product row in sheet order.
func (d *Dataset) AllProducts() []models.Product { return d.tables.Products }

// RolesFor returns the roles referencing the given project id, in sheet
// order. The result is empty (never an error) when the Roles sheet was
// absent or nothing matches.
func (d *Dataset) RolesFor(id string) []models.Role { return d.rolesByID[id] }

// ProductsFor returns the products referencing the given project id.
func (d *Dataset) ProductsFor(id string) []models.Product { return d.productsByID[id] }

// EventsFor returns the events referencing the given project id.
func (d *Dataset) EventsFor(id string) []models.Event { return d.eventsByID[id] }

// HasRoles reports whether the Roles sheet was present in the source.
// Presence matters to the filter engine: an owner-company constraint
// with no role data must match nothing, not act as "no constraint".
func (d *Dataset) HasRoles() bool { return d.tables.HasRoles }

// HasEvents reports whether the Events sheet was present.
func (d *Dataset) HasEvents() bool { return d.tables.HasEvents }

// HasProducts reports whether the Products sheet was present.
func (d *Dataset) HasProducts() bool { return d.tables.HasProducts }
