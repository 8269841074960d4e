package commitproof

import "github.com/shopspring/decimal"

type rangeInput struct {
	value decimal.Decimal
	min   decimal.Decimal
	max   decimal.Decimal
}

var rangePredicate = predicate[rangeInput]{
	name: "range",
	validate: func(in rangeInput) error {
		return requireOrderedBounds(in.min, in.max)
	},
	check: func(in rangeInput) error {
		if in.value.LessThan(in.min) || in.value.GreaterThan(in.max) {
			return &ValueOutOfRangeError{Value: in.value, Min: in.min, Max: in.max}
		}
		return nil
	},
	canonical: func(in rangeInput) string {
		return FormatDecimal(in.value)
	},
}

// ProveRange commits to value, provided min <= value <= max.
func (e *Engine) ProveRange(value, min, max decimal.Decimal) (*Commitment, error) {
	return prove(e, rangePredicate, rangeInput{value, min, max})
}

// VerifyRange reports whether proof and salt commit to the revealed value and
// whether it lies in [min, max]. Bounds with min > max verify as false.
func (e *Engine) VerifyRange(proof, salt string, value, min, max decimal.Decimal) bool {
	return verify(e, rangePredicate, proof, salt, rangeInput{value, min, max})
}

// ProveRangeString is ProveRange for decimal text.
func (e *Engine) ProveRangeString(value, min, max string) (*Commitment, error) {
	v, lo, hi, err := parseRange(value, min, max)
	if err != nil {
		return nil, err
	}
	return e.ProveRange(v, lo, hi)
}

// VerifyRangeString is VerifyRange for decimal text; unparsable text verifies as false.
func (e *Engine) VerifyRangeString(proof, salt, value, min, max string) bool {
	v, lo, hi, err := parseRange(value, min, max)
	if err != nil {
		return false
	}
	return e.VerifyRange(proof, salt, v, lo, hi)
}

func parseRange(value, min, max string) (v, lo, hi decimal.Decimal, err error) {
	if v, err = ParseDecimal("value", value); err != nil {
		return
	}
	if lo, err = ParseDecimal("min", min); err != nil {
		return
	}
	hi, err = ParseDecimal("max", max)
	return
}
