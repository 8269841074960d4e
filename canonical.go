package commitproof

import (
	"regexp"
	"time"

	"github.com/go-errors/errors"
	"github.com/shopspring/decimal"
)

// DateLayout is the yyyy-MM-dd layout in which dates enter a canonical message.
const DateLayout = "2006-01-02"

// decimalPattern accepts an optional sign, digits and at most one '.', with at
// least one digit somewhere. No exponents, grouping separators or whitespace.
var decimalPattern = regexp.MustCompile(`^[+-]?(?:[0-9]+\.?[0-9]*|\.[0-9]+)$`)

var errNotDecimal = errors.New("not a decimal number")

// FormatDate returns the calendar date of t, in t's own location, as yyyy-MM-dd.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a yyyy-MM-dd date. The result is midnight UTC.
func ParseDate(field, s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, errors.Wrap(&MalformedInputError{Field: field, Input: s, Err: err}, 0)
	}
	return t, nil
}

// FormatDecimal returns the culture-invariant canonical form of d: '.' as
// decimal separator, no grouping, no exponent, no trailing fractional zeros.
// Numerically equal values format identically.
func FormatDecimal(d decimal.Decimal) string {
	return d.String()
}

// ParseDecimal parses culture-invariant decimal text. Strings such as "",
// "-" or "." are rejected rather than read as zero.
func ParseDecimal(field, s string) (decimal.Decimal, error) {
	if !decimalPattern.MatchString(s) {
		return decimal.Decimal{}, errors.Wrap(&MalformedInputError{Field: field, Input: s, Err: errNotDecimal}, 0)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, errors.Wrap(&MalformedInputError{Field: field, Input: s, Err: err}, 0)
	}
	return d, nil
}

// calendarDate truncates t to its calendar date, keeping the date as seen in t's location.
func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AgeOn returns the age in full years of someone born on dateOfBirth, on the
// date on. A birthday not yet reached in on's year does not count; someone
// born on 29 February turns a year older on 1 March in common years.
func AgeOn(dateOfBirth, on time.Time) int {
	by, bm, bd := dateOfBirth.Date()
	oy, om, od := on.Date()
	age := oy - by
	if om < bm || (om == bm && od < bd) {
		age--
	}
	return age
}
