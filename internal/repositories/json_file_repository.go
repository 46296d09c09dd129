package repositories

import (
	"encoding/json"
	"os"

	"gudang/internal/models"

	"github.com/go-faster/errors"
	"github.com/spf13/afero"
)

// JSONFileRepository stores the snapshot as a JSON array in a single file.
type JSONFileRepository struct {
	fs   afero.Fs
	path string
}

// NewJSONFileRepository creates a repository for the file at path on fs.
func NewJSONFileRepository(fs afero.Fs, path string) *JSONFileRepository {
	return &JSONFileRepository{
		fs:   fs,
		path: path,
	}
}

// Path returns the backing file path.
func (r *JSONFileRepository) Path() string { return r.path }

// SaveRecords overwrites the file with records.
func (r *JSONFileRepository) SaveRecords(records []models.ProductRecord) error {
	if records == nil {
		records = []models.ProductRecord{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode snapshot")
	}
	if err := afero.WriteFile(r.fs, r.path, data, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %s", r.path)
	}
	return nil
}

// LoadRecords reads and decodes the whole file.
func (r *JSONFileRepository) LoadRecords() ([]models.ProductRecord, error) {
	data, err := afero.ReadFile(r.fs, r.path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", r.path)
	}
	var records []models.ProductRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", r.path)
	}
	return records, nil
}

// Exists reports whether the backing file is present.
func (r *JSONFileRepository) Exists() (bool, error) {
	_, err := r.fs.Stat(r.path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, errors.Wrapf(err, "failed to stat %s", r.path)
}
