package models_test

import (
	"encoding/json"
	"math"
	"testing"

	"gudang/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToRecord(t *testing.T) {
	laptop, _ := models.NewElectronicProduct("Laptop", 1200.0, 10, 2)
	data, err := json.Marshal(models.ToRecord(laptop))
	require.NoError(t, err)
	assert.JSONEq(t, `{"_kind":"electronic","_name":"Laptop","_price":1200,"_stockQuantity":10,"_warrantyYears":2}`, string(data))

	apple, _ := models.NewPerishableProduct("Apple", 0.5, 100, "2024-09-01")
	data, err = json.Marshal(models.ToRecord(apple))
	require.NoError(t, err)
	assert.JSONEq(t, `{"_kind":"perishable","_name":"Apple","_price":0.5,"_stockQuantity":100,"_expirationDate":"2024-09-01"}`, string(data))

	pen, _ := models.NewProduct("Pen", 1, 3)
	data, err = json.Marshal(models.ToRecord(pen))
	require.NoError(t, err)
	assert.JSONEq(t, `{"_kind":"generic","_name":"Pen","_price":1,"_stockQuantity":3}`, string(data))
}

func TestFromRecord_ResolvesKind(t *testing.T) {
	tests := []struct {
		name     string
		json     string
		kind     models.Kind
		describe string
	}{
		{
			"untagged with warranty",
			`{"_name":"Laptop","_price":1200.0,"_stockQuantity":10,"_warrantyYears":2}`,
			models.KindElectronic,
			"Laptop - Price: 1200.00 - Stock: 10 - Warranty: 2 years",
		},
		{
			"untagged with expiration",
			`{"_name":"Apple","_price":0.5,"_stockQuantity":100,"_expirationDate":"2024-09-01"}`,
			models.KindPerishable,
			"Apple - Price: 0.50 - Stock: 100 - Expires: 2024-09-01",
		},
		{
			"untagged plain",
			`{"_name":"Pen","_price":1,"_stockQuantity":3}`,
			models.KindGeneric,
			"Pen - Price: 1.00 - Stock: 3",
		},
		{
			"untagged zero warranty is still present",
			`{"_name":"Cable","_price":3,"_stockQuantity":1,"_warrantyYears":0}`,
			models.KindElectronic,
			"Cable - Price: 3.00 - Stock: 1 - Warranty: 0 years",
		},
		{
			"key case differs from the file format",
			`{"_name":"Pen","_price":1,"_stockQuantity":3,"_WarrantyYears":1,"_EXPIRATIONDATE":"2024-09-01"}`,
			models.KindGeneric,
			"Pen - Price: 1.00 - Stock: 3",
		},
		{
			"tagged perishable",
			`{"_kind":"perishable","_name":"Milk","_price":1.2,"_stockQuantity":8,"_expirationDate":"2024-09-03"}`,
			models.KindPerishable,
			"Milk - Price: 1.20 - Stock: 8 - Expires: 2024-09-03",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec models.ProductRecord
			require.NoError(t, json.Unmarshal([]byte(tt.json), &rec))

			p, err := models.FromRecord(rec)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, p.Kind())
			assert.Equal(t, tt.describe, p.Describe())
		})
	}
}

func TestProductRecord_UnmarshalJSON(t *testing.T) {
	var rec models.ProductRecord
	require.NoError(t, json.Unmarshal([]byte(`{"_NAME":"Pen","_price":2,"_Price":9,"_stockQuantity":3,"_WARRANTYYEARS":1,"extra":true}`), &rec))
	assert.Equal(t, models.ProductRecord{Price: 2, StockQuantity: 3}, rec)

	var records []models.ProductRecord
	require.NoError(t, json.Unmarshal([]byte(`[{"_name":"Pen"},null]`), &records))
	assert.Equal(t, []models.ProductRecord{{Name: "Pen"}, {}}, records)

	assert.Error(t, json.Unmarshal([]byte(`"Pen"`), &rec))
	assert.Error(t, json.Unmarshal([]byte(`{"_price":"free"}`), &rec))
}

func TestFromRecord_Errors(t *testing.T) {
	tests := []struct {
		name string
		json string
		want error
	}{
		{"ambiguous", `{"_name":"X","_warrantyYears":1,"_expirationDate":"2024-01-01"}`, models.ErrAmbiguousRecord},
		{"unknown kind", `{"_kind":"furniture","_name":"X"}`, models.ErrUnknownKind},
		{"electronic without warranty", `{"_kind":"electronic","_name":"X"}`, models.ErrMissingVariantField},
		{"perishable without date", `{"_kind":"perishable","_name":"X"}`, models.ErrMissingVariantField},
		{"generic with warranty", `{"_kind":"generic","_name":"TV","_price":1,"_stockQuantity":3,"_warrantyYears":2}`, models.ErrConflictingVariantField},
		{"generic with date", `{"_kind":"generic","_name":"X","_expirationDate":"2024-01-01"}`, models.ErrConflictingVariantField},
		{"electronic with date", `{"_kind":"electronic","_name":"X","_warrantyYears":1,"_expirationDate":"2024-01-01"}`, models.ErrConflictingVariantField},
		{"perishable with warranty", `{"_kind":"perishable","_name":"X","_warrantyYears":1,"_expirationDate":"2024-01-01"}`, models.ErrConflictingVariantField},
		{"missing name", `{"_price":1,"_stockQuantity":1}`, models.ErrValidation},
		{"upper-case keys are not the file format", `{"_NAME":"Pen","_PRICE":1,"_stockquantity":3,"_WARRANTYYEARS":1}`, models.ErrValidation},
		{"negative warranty", `{"_name":"X","_warrantyYears":-1}`, models.ErrValidation},
		{"empty date", `{"_name":"X","_expirationDate":""}`, models.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rec models.ProductRecord
			require.NoError(t, json.Unmarshal([]byte(tt.json), &rec))

			p, err := models.FromRecord(rec)
			assert.Nil(t, p)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestFromRecord_NonFinitePrice(t *testing.T) {
	for _, price := range []float64{math.Inf(1), math.Inf(-1), math.NaN()} {
		p, err := models.FromRecord(models.ProductRecord{Kind: models.KindGeneric, Name: "Pen", Price: price})
		assert.Nil(t, p)
		assert.ErrorIs(t, err, models.ErrValidation)
	}
}
