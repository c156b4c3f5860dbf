// Package validation checks request payloads against their struct tags.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// FieldErrors maps a payload field name to its failure messages.
type FieldErrors map[string][]string

// Error implements error.
func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for field := range fe {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+strings.Join(fe[field], ", "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records a message against field.
func (fe FieldErrors) Add(field, message string) {
	fe[field] = append(fe[field], message)
}

// Validator wraps a configured go-playground validator.
type Validator struct {
	validate *validator.Validate
}

// New builds a Validator that understands decimal.Decimal fields.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	if err := v.RegisterValidation("maxplaces", maxPlaces); err != nil {
		panic(err)
	}
	return &Validator{validate: v}
}

// Struct validates payload. It returns FieldErrors for constraint violations
// and a plain error when payload cannot be validated at all.
func (v *Validator) Struct(payload any) error {
	err := v.validate.Struct(payload)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate payload: %w", err)
	}

	out := FieldErrors{}
	for _, fe := range verrs {
		out.Add(fe.Field(), message(fe))
	}
	return out
}

func decimalValue(field reflect.Value) any {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return nil
}

// maxPlaces rejects numbers with more fractional digits than the param allows.
// Decimal fields arrive here already converted to float64.
func maxPlaces(fl validator.FieldLevel) bool {
	places, err := strconv.ParseInt(fl.Param(), 10, 32)
	if err != nil {
		return false
	}
	var d decimal.Decimal
	switch v := fl.Field().Interface().(type) {
	case decimal.Decimal:
		d = v
	case float64:
		d = decimal.NewFromFloat(v)
	default:
		return false
	}
	return d.Equal(d.Round(int32(places)))
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", fe.Field())
	case "required_without":
		return fmt.Sprintf("The %s field is required when %s is not present.", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("The field %s must be a string with a maximum length of %s.", fe.Field(), fe.Param())
	case "gte", "gt":
		return fmt.Sprintf("The field %s must be at least %s.", fe.Field(), minimum(fe))
	case "lte":
		return fmt.Sprintf("The field %s must be at most %s.", fe.Field(), fe.Param())
	case "maxplaces":
		return fmt.Sprintf("The field %s must have at most %s decimal places.", fe.Field(), fe.Param())
	case "datetime":
		return fmt.Sprintf("The field %s must be a date formatted as YYYY-MM-DD.", fe.Field())
	default:
		return fmt.Sprintf("The field %s failed the %s check.", fe.Field(), fe.Tag())
	}
}

func minimum(fe validator.FieldError) string {
	if fe.Tag() == "gt" {
		return "more than " + fe.Param()
	}
	return fe.Param()
}
