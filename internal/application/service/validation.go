package service

import (
	"strings"

	"github.com/sangkips/billbook-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

// maxAmount is the first value that no longer fits a numeric(12,2) column.
var maxAmount = decimal.New(1, 10)

// fieldErrors collects validation failures so a request reports all of them.
type fieldErrors []apperror.FieldError

func (f *fieldErrors) add(field, message string) {
	*f = append(*f, apperror.FieldError{Field: field, Message: message})
}

func (f *fieldErrors) required(field, value string) {
	if strings.TrimSpace(value) == "" {
		f.add(field, "is required")
	}
}

// money checks a non-negative amount below maxAmount with at most two
// fractional digits.
func (f *fieldErrors) money(field string, d decimal.Decimal) {
	if d.IsNegative() {
		f.add(field, "must not be negative")
		return
	}
	if d.GreaterThanOrEqual(maxAmount) {
		f.add(field, "must be less than "+maxAmount.String())
		return
	}
	if !d.Equal(d.Round(2)) {
		f.add(field, "must have at most 2 decimal places")
	}
}

// positiveMoney checks an amount greater than zero with at most two
// fractional digits.
func (f *fieldErrors) positiveMoney(field string, d decimal.Decimal) {
	if !d.IsPositive() {
		f.add(field, "must be greater than zero")
		return
	}
	f.money(field, d)
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return apperror.NewValidationError(f)
}
