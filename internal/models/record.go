package models

import (
	"encoding/json"
	"maps"
	"slices"

	"github.com/go-faster/errors"
)

var (
	// ErrAmbiguousRecord is returned for an untagged record carrying both variant fields.
	ErrAmbiguousRecord = errors.New("record has both warranty and expiration fields")
	// ErrUnknownKind is returned for a record tagged with a kind outside the closed set.
	ErrUnknownKind = errors.New("unknown product kind")
	// ErrMissingVariantField is returned when a tagged record lacks its kind's field.
	ErrMissingVariantField = errors.New("record is missing the field required by its kind")
	// ErrConflictingVariantField is returned when a tagged record carries another kind's field.
	ErrConflictingVariantField = errors.New("record carries a field that does not belong to its kind")
)

// recordKeys are the only JSON keys a record is decoded from.
var recordKeys = []string{"_kind", "_name", "_price", "_stockQuantity", "_warrantyYears", "_expirationDate"}

// ProductRecord is the persisted shape of a product. The underscore-prefixed JSON keys
// are the on-disk file contract; the gorm columns back the SQL snapshot table.
type ProductRecord struct {
	ID             uint    `json:"-" gorm:"primaryKey"`
	Position       int     `json:"-" gorm:"not null;index"`
	Kind           Kind    `json:"_kind,omitempty" gorm:"type:varchar(16)"`
	Name           string  `json:"_name" gorm:"type:varchar(255);not null"`
	Price          float64 `json:"_price"`
	StockQuantity  int     `json:"_stockQuantity"`
	WarrantyYears  *int    `json:"_warrantyYears,omitempty"`
	ExpirationDate *string `json:"_expirationDate,omitempty" gorm:"type:varchar(64)"`
}

// UnmarshalJSON decodes a record from its exact key names. Keys that differ only in
// case are ignored, so they cannot influence kind resolution.
func (r *ProductRecord) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	maps.DeleteFunc(fields, func(key string, _ json.RawMessage) bool {
		return !slices.Contains(recordKeys, key)
	})
	exact, err := json.Marshal(fields)
	if err != nil {
		return err
	}

	type plain ProductRecord
	var rec plain
	if err := json.Unmarshal(exact, &rec); err != nil {
		return err
	}
	*r = ProductRecord(rec)
	return nil
}

// TableName pins the gorm table name.
func (ProductRecord) TableName() string { return "inventory_records" }

// ToRecord converts a product into its persisted shape, tagged with its kind.
func ToRecord(p Product) ProductRecord {
	base := p.fields()
	rec := ProductRecord{
		Kind:          p.Kind(),
		Name:          base.name,
		Price:         base.price,
		StockQuantity: base.stockQuantity,
	}
	switch v := p.(type) {
	case *ElectronicProduct:
		years := v.warrantyYears
		rec.WarrantyYears = &years
	case *PerishableProduct:
		date := v.expirationDate
		rec.ExpirationDate = &date
	}
	return rec
}

// ResolveKind decides which variant a record describes. An explicit kind wins but must
// agree with the variant fields present; untagged records are resolved by which
// variant field is present.
func (r ProductRecord) ResolveKind() (Kind, error) {
	switch r.Kind {
	case KindGeneric:
		if r.WarrantyYears != nil || r.ExpirationDate != nil {
			return "", errors.Wrapf(ErrConflictingVariantField, "kind %s", r.Kind)
		}
		return KindGeneric, nil
	case KindElectronic:
		if r.WarrantyYears == nil {
			return "", errors.Wrapf(ErrMissingVariantField, "kind %s", r.Kind)
		}
		if r.ExpirationDate != nil {
			return "", errors.Wrapf(ErrConflictingVariantField, "kind %s has _expirationDate", r.Kind)
		}
		return KindElectronic, nil
	case KindPerishable:
		if r.ExpirationDate == nil {
			return "", errors.Wrapf(ErrMissingVariantField, "kind %s", r.Kind)
		}
		if r.WarrantyYears != nil {
			return "", errors.Wrapf(ErrConflictingVariantField, "kind %s has _warrantyYears", r.Kind)
		}
		return KindPerishable, nil
	case "":
	default:
		return "", errors.Wrapf(ErrUnknownKind, "%q", string(r.Kind))
	}

	switch {
	case r.WarrantyYears != nil && r.ExpirationDate != nil:
		return "", ErrAmbiguousRecord
	case r.WarrantyYears != nil:
		return KindElectronic, nil
	case r.ExpirationDate != nil:
		return KindPerishable, nil
	default:
		return KindGeneric, nil
	}
}

// FromRecord rebuilds the product a record describes, validating every field.
func FromRecord(r ProductRecord) (Product, error) {
	kind, err := r.ResolveKind()
	if err != nil {
		return nil, err
	}
	var p Product
	switch kind {
	case KindElectronic:
		p, err = NewElectronicProduct(r.Name, r.Price, r.StockQuantity, *r.WarrantyYears)
	case KindPerishable:
		p, err = NewPerishableProduct(r.Name, r.Price, r.StockQuantity, *r.ExpirationDate)
	default:
		p, err = NewProduct(r.Name, r.Price, r.StockQuantity)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}
