package repositories

import (
	"sync"

	"gudang/internal/models"
)

// MemorySnapshotRepository is an in-memory implementation of SnapshotRepository.
// The snapshot is lost when the process exits.
type MemorySnapshotRepository struct {
	records []models.ProductRecord
	mu      sync.RWMutex
}

// NewMemorySnapshotRepository creates a new instance of MemorySnapshotRepository.
func NewMemorySnapshotRepository() *MemorySnapshotRepository {
	return &MemorySnapshotRepository{}
}

// SaveRecords stores a copy of records.
func (r *MemorySnapshotRepository) SaveRecords(records []models.ProductRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = cloneRecords(records)
	return nil
}

// LoadRecords returns a copy of the stored records.
func (r *MemorySnapshotRepository) LoadRecords() ([]models.ProductRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return cloneRecords(r.records), nil
}

// cloneRecords deep-copies records so callers never share the optional fields.
func cloneRecords(records []models.ProductRecord) []models.ProductRecord {
	out := make([]models.ProductRecord, len(records))
	for i, rec := range records {
		if rec.WarrantyYears != nil {
			years := *rec.WarrantyYears
			rec.WarrantyYears = &years
		}
		if rec.ExpirationDate != nil {
			date := *rec.ExpirationDate
			rec.ExpirationDate = &date
		}
		out[i] = rec
	}
	return out
}
