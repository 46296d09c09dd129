package models

import (
	"fmt"
)

// Kind identifies one of the closed set of product variants.
type Kind string

const (
	KindGeneric    Kind = "generic"
	KindElectronic Kind = "electronic"
	KindPerishable Kind = "perishable"
)

// Product is a stocked item. The set of implementations is closed to this package:
// GenericProduct, ElectronicProduct and PerishableProduct.
type Product interface {
	Kind() Kind
	Name() string
	Price() float64
	StockQuantity() int

	SetName(name string) error
	SetPrice(price float64) error
	SetStockQuantity(quantity int) error
	AdjustStock(delta int) error

	// Describe renders every field, base fields first.
	Describe() string

	fields() *baseProduct
}

// baseProduct holds the fields shared by every product kind.
type baseProduct struct {
	name          string
	price         float64
	stockQuantity int
}

func newBaseProduct(name string, price float64, stockQuantity int) (baseProduct, error) {
	if err := ValidateName(name); err != nil {
		return baseProduct{}, err
	}
	if err := ValidatePrice(price); err != nil {
		return baseProduct{}, err
	}
	if err := ValidateStockQuantity(stockQuantity); err != nil {
		return baseProduct{}, err
	}
	return baseProduct{name: name, price: price, stockQuantity: stockQuantity}, nil
}

func (p *baseProduct) fields() *baseProduct { return p }

// Name returns the product name, which is also its inventory match key.
func (p *baseProduct) Name() string { return p.name }

// Price returns the unit price.
func (p *baseProduct) Price() float64 { return p.price }

// StockQuantity returns the units currently in stock.
func (p *baseProduct) StockQuantity() int { return p.stockQuantity }

// SetName replaces the name. Empty names are rejected.
func (p *baseProduct) SetName(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	p.name = name
	return nil
}

// SetPrice replaces the price. Negative prices are rejected.
func (p *baseProduct) SetPrice(price float64) error {
	if err := ValidatePrice(price); err != nil {
		return err
	}
	p.price = price
	return nil
}

// SetStockQuantity replaces the stock. Negative quantities are rejected.
func (p *baseProduct) SetStockQuantity(quantity int) error {
	if err := ValidateStockQuantity(quantity); err != nil {
		return err
	}
	p.stockQuantity = quantity
	return nil
}

// AdjustStock adds delta to the stock through SetStockQuantity, so a result below zero
// fails and leaves the stock unchanged.
func (p *baseProduct) AdjustStock(delta int) error {
	return p.SetStockQuantity(p.stockQuantity + delta)
}

func (p *baseProduct) describe() string {
	return fmt.Sprintf("%s - Price: %.2f - Stock: %d", p.name, p.price, p.stockQuantity)
}

// GenericProduct is a product with no kind-specific fields.
type GenericProduct struct {
	baseProduct
}

// NewProduct creates a generic product after validating every field.
func NewProduct(name string, price float64, stockQuantity int) (*GenericProduct, error) {
	base, err := newBaseProduct(name, price, stockQuantity)
	if err != nil {
		return nil, err
	}
	return &GenericProduct{baseProduct: base}, nil
}

func (p *GenericProduct) Kind() Kind { return KindGeneric }

func (p *GenericProduct) Describe() string { return p.describe() }

func (p *GenericProduct) String() string { return p.Describe() }

// ElectronicProduct is a product sold with a warranty.
type ElectronicProduct struct {
	baseProduct
	warrantyYears int
}

// NewElectronicProduct creates an electronic product after validating every field.
func NewElectronicProduct(name string, price float64, stockQuantity, warrantyYears int) (*ElectronicProduct, error) {
	base, err := newBaseProduct(name, price, stockQuantity)
	if err != nil {
		return nil, err
	}
	if err := ValidateWarrantyYears(warrantyYears); err != nil {
		return nil, err
	}
	return &ElectronicProduct{baseProduct: base, warrantyYears: warrantyYears}, nil
}

func (p *ElectronicProduct) Kind() Kind { return KindElectronic }

// WarrantyYears returns the warranty length in years.
func (p *ElectronicProduct) WarrantyYears() int { return p.warrantyYears }

// SetWarrantyYears replaces the warranty length. Negative values are rejected.
func (p *ElectronicProduct) SetWarrantyYears(years int) error {
	if err := ValidateWarrantyYears(years); err != nil {
		return err
	}
	p.warrantyYears = years
	return nil
}

func (p *ElectronicProduct) Describe() string {
	return fmt.Sprintf("%s - Warranty: %d years", p.describe(), p.warrantyYears)
}

func (p *ElectronicProduct) String() string { return p.Describe() }

// PerishableProduct is a product with an expiration date. The date is kept as
// opaque text and is not parsed.
type PerishableProduct struct {
	baseProduct
	expirationDate string
}

// NewPerishableProduct creates a perishable product after validating every field.
func NewPerishableProduct(name string, price float64, stockQuantity int, expirationDate string) (*PerishableProduct, error) {
	base, err := newBaseProduct(name, price, stockQuantity)
	if err != nil {
		return nil, err
	}
	if err := ValidateExpirationDate(expirationDate); err != nil {
		return nil, err
	}
	return &PerishableProduct{baseProduct: base, expirationDate: expirationDate}, nil
}

func (p *PerishableProduct) Kind() Kind { return KindPerishable }

// ExpirationDate returns the expiration date as stored.
func (p *PerishableProduct) ExpirationDate() string { return p.expirationDate }

// SetExpirationDate replaces the expiration date. Empty values are rejected.
func (p *PerishableProduct) SetExpirationDate(date string) error {
	if err := ValidateExpirationDate(date); err != nil {
		return err
	}
	p.expirationDate = date
	return nil
}

func (p *PerishableProduct) Describe() string {
	return fmt.Sprintf("%s - Expires: %s", p.describe(), p.expirationDate)
}

func (p *PerishableProduct) String() string { return p.Describe() }
