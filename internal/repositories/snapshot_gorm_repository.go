package repositories

import (
	"gudang/internal/models"

	"github.com/go-faster/errors"
	"gorm.io/gorm"
)

// GORMSnapshotRepository is a GORM implementation of SnapshotRepository.
// Records live in the inventory_records table, ordered by position.
type GORMSnapshotRepository struct {
	db *gorm.DB
}

// NewGORMSnapshotRepository creates a new instance of GORMSnapshotRepository.
func NewGORMSnapshotRepository(db *gorm.DB) *GORMSnapshotRepository {
	return &GORMSnapshotRepository{
		db: db,
	}
}

// Migrate creates or updates the inventory_records table.
func (r *GORMSnapshotRepository) Migrate() error {
	if err := r.db.AutoMigrate(&models.ProductRecord{}); err != nil {
		return errors.Wrap(err, "migrate inventory_records")
	}
	return nil
}

// SaveRecords replaces every stored row with records inside one transaction.
func (r *GORMSnapshotRepository) SaveRecords(records []models.ProductRecord) error {
	rows := make([]models.ProductRecord, len(records))
	for i, rec := range records {
		rec.ID = 0
		rec.Position = i
		rows[i] = rec
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.ProductRecord{}).Error; err != nil {
			return errors.Wrap(err, "clear snapshot")
		}
		if len(rows) == 0 {
			return nil
		}
		if err := tx.Create(&rows).Error; err != nil {
			return errors.Wrap(err, "insert snapshot")
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "failed to save snapshot")
	}
	return nil
}

// LoadRecords retrieves every stored row in position order.
func (r *GORMSnapshotRepository) LoadRecords() ([]models.ProductRecord, error) {
	var records []models.ProductRecord
	if err := r.db.Order("position asc").Find(&records).Error; err != nil {
		return nil, errors.Wrap(err, "failed to load snapshot")
	}
	return records, nil
}
