package repositories

import (
	"gudang/internal/models"
)

// SnapshotRepository persists the whole inventory as an ordered list of records.
type SnapshotRepository interface {
	// SaveRecords replaces the stored snapshot with records, keeping their order.
	SaveRecords(records []models.ProductRecord) error
	// LoadRecords returns the stored snapshot in saved order.
	LoadRecords() ([]models.ProductRecord, error)
}
