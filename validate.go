package commitproof

import (
	"time"

	"github.com/shopspring/decimal"
)

// Precondition guards shared by the predicates. Each returns nil or an
// *InvalidArgumentError naming the offending field.

func requireNonNegative(field string, d decimal.Decimal) error {
	if d.IsNegative() {
		return &InvalidArgumentError{Field: field, Reason: "must not be negative"}
	}
	return nil
}

func requireNonNegativeInt(field string, n int) error {
	if n < 0 {
		return &InvalidArgumentError{Field: field, Reason: "must not be negative"}
	}
	return nil
}

func requireDate(field string, t time.Time) error {
	if t.IsZero() {
		return &InvalidArgumentError{Field: field, Reason: "date is not set"}
	}
	return nil
}

func requireNotFuture(field string, t, today time.Time) error {
	if calendarDate(t).After(calendarDate(today)) {
		return &InvalidArgumentError{Field: field, Reason: "date is in the future"}
	}
	return nil
}

func requireNonEmpty(field, s string) error {
	if s == "" {
		return &InvalidArgumentError{Field: field, Reason: "must not be empty"}
	}
	return nil
}

func requireNonEmptySet(field string, set []string) error {
	if len(set) == 0 {
		return &InvalidArgumentError{Field: field, Reason: "must contain at least one value"}
	}
	return nil
}

func requireOrderedBounds(min, max decimal.Decimal) error {
	if min.GreaterThan(max) {
		return &InvalidArgumentError{Field: "min", Reason: "greater than max"}
	}
	return nil
}
