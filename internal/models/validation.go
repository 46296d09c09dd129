package models

import (
	"fmt"
	"math"
	"reflect"

	"github.com/go-faster/errors"
	"github.com/go-playground/validator/v10"
)

// ErrValidation is matched by every *ValidationError via errors.Is.
var ErrValidation = errors.New("validation failed")

// ValidationError reports a field value that violates its constraint.
type ValidationError struct {
	Field   string
	Value   any
	Message string
	err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %#v: %s", e.Field, e.Value, e.Message)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func (e *ValidationError) Unwrap() error { return e.err }

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("finite", isFinite); err != nil {
		panic(err)
	}
	return v
}

// isFinite rejects NaN and the infinities, which cannot be written as JSON numbers.
func isFinite(fl validator.FieldLevel) bool {
	switch f := fl.Field(); f.Kind() {
	case reflect.Float32, reflect.Float64:
		return !math.IsInf(f.Float(), 0) && !math.IsNaN(f.Float())
	default:
		return true
	}
}

// checkField runs a single validator tag against value.
func checkField(field string, value any, tag, message string) error {
	if err := validate.Var(value, tag); err != nil {
		return &ValidationError{Field: field, Value: value, Message: message, err: err}
	}
	return nil
}

func ValidateName(name string) error {
	return checkField("name", name, "required", "must not be empty")
}

func ValidatePrice(price float64) error {
	if err := checkField("price", price, "finite", "must be a finite number"); err != nil {
		return err
	}
	return checkField("price", price, "gte=0", "must not be negative")
}

func ValidateStockQuantity(quantity int) error {
	return checkField("stock quantity", quantity, "gte=0", "must not be negative")
}

func ValidateWarrantyYears(years int) error {
	return checkField("warranty years", years, "gte=0", "must not be negative")
}

func ValidateExpirationDate(date string) error {
	return checkField("expiration date", date, "required", "must not be empty")
}
