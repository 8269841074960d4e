package commitproof

import (
	"fmt"
	"time"

	"github.com/go-errors/errors"
	"github.com/shopspring/decimal"
)

// ErrPredicateNotSatisfied is matched (through errors.Is) by every error
// reporting that the attested condition does not hold for the given value.
var ErrPredicateNotSatisfied = errors.New("predicate not satisfied")

// InvalidArgumentError reports an input that is outside the domain of a
// Prove operation, such as a negative amount or a birth date in the future.
type InvalidArgumentError struct {
	Field  string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %s: %s", e.Field, e.Reason)
}

// MalformedInputError reports text that could not be parsed into the value
// it should represent. Malformed input is never coerced to a default.
type MalformedInputError struct {
	Field string
	Input string
	Err   error
}

func (e *MalformedInputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed %s %q: %v", e.Field, e.Input, e.Err)
	}
	return fmt.Sprintf("malformed %s %q", e.Field, e.Input)
}

func (e *MalformedInputError) Unwrap() error {
	return e.Err
}

// InsufficientAgeError is returned by ProveAge when the holder is younger
// than the required age.
type InsufficientAgeError struct {
	Required int
	Actual   int
}

func (e *InsufficientAgeError) Error() string {
	return fmt.Sprintf("insufficient age: required %d, actual %d", e.Required, e.Actual)
}

func (e *InsufficientAgeError) Is(target error) bool { return target == ErrPredicateNotSatisfied }

// InsufficientBalanceError is returned by ProveBalance when the balance is
// below the requested amount.
type InsufficientBalanceError struct {
	Balance   decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: balance %s, requested %s",
		FormatDecimal(e.Balance), FormatDecimal(e.Requested))
}

func (e *InsufficientBalanceError) Is(target error) bool { return target == ErrPredicateNotSatisfied }

// ValueOutOfRangeError is returned by ProveRange when the value lies outside
// the closed interval [Min, Max].
type ValueOutOfRangeError struct {
	Value decimal.Decimal
	Min   decimal.Decimal
	Max   decimal.Decimal
}

func (e *ValueOutOfRangeError) Error() string {
	return fmt.Sprintf("value %s out of range [%s, %s]",
		FormatDecimal(e.Value), FormatDecimal(e.Min), FormatDecimal(e.Max))
}

func (e *ValueOutOfRangeError) Is(target error) bool { return target == ErrPredicateNotSatisfied }

// ValueNotInSetError is returned by ProveMembership when the value is not
// one of the allowed values.
type ValueNotInSetError struct {
	Value string
}

func (e *ValueNotInSetError) Error() string {
	return fmt.Sprintf("value %q is not in the set", e.Value)
}

func (e *ValueNotInSetError) Is(target error) bool { return target == ErrPredicateNotSatisfied }

// ConditionNotMetError is returned by ProveTimeCondition when the event
// happened before the condition date.
type ConditionNotMetError struct {
	EventDate     time.Time
	ConditionDate time.Time
}

func (e *ConditionNotMetError) Error() string {
	return fmt.Sprintf("time condition not met: event %s is before %s",
		FormatDate(e.EventDate), FormatDate(e.ConditionDate))
}

func (e *ConditionNotMetError) Is(target error) bool { return target == ErrPredicateNotSatisfied }

// IsValidationError reports whether err is an InvalidArgumentError or a
// MalformedInputError.
func IsValidationError(err error) bool {
	var invalid *InvalidArgumentError
	var malformed *MalformedInputError
	return errors.As(err, &invalid) || errors.As(err, &malformed)
}

// IsPredicateError reports whether err says that the attested condition is false.
func IsPredicateError(err error) bool {
	return errors.Is(err, ErrPredicateNotSatisfied)
}
