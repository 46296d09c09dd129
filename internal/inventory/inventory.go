// Package inventory holds the ordered product collection and its persistence.
//
// An Inventory is not safe for concurrent use; services.InventoryService guards one
// with a mutex for the HTTP API.
package inventory

import (
	"fmt"
	"iter"
	"slices"

	"gudang/internal/models"
	"gudang/internal/repositories"

	"github.com/go-faster/errors"
	"github.com/spf13/afero"
)

// ErrPersistence is matched by every *PersistenceError via errors.Is.
var ErrPersistence = errors.New("persistence failed")

// PersistenceError reports a failed save or load against a snapshot repository.
type PersistenceError struct {
	Op     string // "save" or "load"
	Target string
	Err    error
}

func (e *PersistenceError) Error() string {
	if e.Target == "" {
		return fmt.Sprintf("%s inventory: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s inventory %s: %v", e.Op, e.Target, e.Err)
}

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

func (e *PersistenceError) Unwrap() error { return e.Err }

// Inventory is an ordered collection of products. Names are not unique; Remove and
// UpdateStock act on every product whose name matches exactly.
type Inventory struct {
	products []models.Product
	fs       afero.Fs
}

// New returns an empty inventory whose Save and Load use the OS filesystem.
func New() *Inventory {
	return NewWithFs(afero.NewOsFs())
}

// NewWithFs returns an empty inventory whose Save and Load use fs.
func NewWithFs(fs afero.Fs) *Inventory {
	return &Inventory{fs: fs}
}

// Len returns the number of products.
func (inv *Inventory) Len() int { return len(inv.products) }

// Add appends p to the end of the collection.
func (inv *Inventory) Add(p models.Product) {
	inv.products = append(inv.products, p)
}

// Remove drops every product named name and returns how many were dropped.
func (inv *Inventory) Remove(name string) int {
	before := len(inv.products)
	inv.products = slices.DeleteFunc(inv.products, func(p models.Product) bool {
		return p.Name() == name
	})
	return before - len(inv.products)
}

// UpdateStock adjusts the stock of every product named name by delta and returns how
// many were updated. Every match is checked before any is changed: if one would go
// negative the call fails and the collection is untouched.
func (inv *Inventory) UpdateStock(name string, delta int) (int, error) {
	var matches []int
	for i, p := range inv.products {
		if p.Name() != name {
			continue
		}
		if err := models.ValidateStockQuantity(p.StockQuantity() + delta); err != nil {
			return 0, errors.Wrapf(err, "update stock of %q at position %d", name, i)
		}
		matches = append(matches, i)
	}
	for _, i := range matches {
		if err := inv.products[i].AdjustStock(delta); err != nil {
			return 0, errors.Wrapf(err, "update stock of %q at position %d", name, i)
		}
	}
	return len(matches), nil
}

// Find returns every product named name, in collection order.
func (inv *Inventory) Find(name string) []models.Product {
	var found []models.Product
	for _, p := range inv.products {
		if p.Name() == name {
			found = append(found, p)
		}
	}
	return found
}

// All yields every product in collection order.
func (inv *Inventory) All() iter.Seq[models.Product] {
	return slices.Values(inv.products)
}

// List yields the description of every product in collection order. The sequence
// may be ranged over any number of times.
func (inv *Inventory) List() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, p := range inv.products {
			if !yield(p.Describe()) {
				return
			}
		}
	}
}

// Records returns the persisted form of every product in collection order.
func (inv *Inventory) Records() []models.ProductRecord {
	records := make([]models.ProductRecord, len(inv.products))
	for i, p := range inv.products {
		records[i] = models.ToRecord(p)
	}
	return records
}

// Save writes the whole collection to the JSON file at path, overwriting it.
func (inv *Inventory) Save(path string) error {
	return inv.save(repositories.NewJSONFileRepository(inv.fs, path), path)
}

// Load reads the JSON file at path and appends its products. See LoadFrom.
func (inv *Inventory) Load(path string) (int, error) {
	return inv.load(repositories.NewJSONFileRepository(inv.fs, path), path)
}

// SaveTo writes the whole collection to repo.
func (inv *Inventory) SaveTo(repo repositories.SnapshotRepository) error {
	return inv.save(repo, "")
}

// LoadFrom appends the products stored in repo and returns how many were added.
// Existing products are kept. The load is all-or-nothing: a read failure or an
// invalid record leaves the collection unchanged.
func (inv *Inventory) LoadFrom(repo repositories.SnapshotRepository) (int, error) {
	return inv.load(repo, "")
}

func (inv *Inventory) save(repo repositories.SnapshotRepository, target string) error {
	if err := repo.SaveRecords(inv.Records()); err != nil {
		return &PersistenceError{Op: "save", Target: target, Err: err}
	}
	return nil
}

func (inv *Inventory) load(repo repositories.SnapshotRepository, target string) (int, error) {
	records, err := repo.LoadRecords()
	if err != nil {
		return 0, &PersistenceError{Op: "load", Target: target, Err: err}
	}

	loaded := make([]models.Product, 0, len(records))
	for i, rec := range records {
		p, err := models.FromRecord(rec)
		if err != nil {
			return 0, errors.Wrapf(err, "load record %d", i)
		}
		loaded = append(loaded, p)
	}
	inv.products = append(inv.products, loaded...)
	return len(loaded), nil
}
