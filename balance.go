package commitproof

import "github.com/shopspring/decimal"

type balanceInput struct {
	balance   decimal.Decimal
	requested decimal.Decimal
}

var balancePredicate = predicate[balanceInput]{
	name: "balance",
	validate: func(in balanceInput) error {
		if err := requireNonNegative("balance", in.balance); err != nil {
			return err
		}
		return requireNonNegative("requested", in.requested)
	},
	check: func(in balanceInput) error {
		if in.balance.LessThan(in.requested) {
			return &InsufficientBalanceError{Balance: in.balance, Requested: in.requested}
		}
		return nil
	},
	canonical: func(in balanceInput) string {
		return FormatDecimal(in.balance)
	},
}

// ProveBalance commits to balance, provided it covers the requested amount.
func (e *Engine) ProveBalance(balance, requested decimal.Decimal) (*Commitment, error) {
	return prove(e, balancePredicate, balanceInput{balance, requested})
}

// VerifyBalance reports whether proof and salt commit to the revealed balance
// and whether that balance, compared numerically, still covers requested.
func (e *Engine) VerifyBalance(proof, salt string, balance, requested decimal.Decimal) bool {
	return verify(e, balancePredicate, proof, salt, balanceInput{balance, requested})
}

// ProveBalanceString is ProveBalance for amounts given as invariant decimal
// text. Unparsable text fails with *MalformedInputError.
func (e *Engine) ProveBalanceString(balance, requested string) (*Commitment, error) {
	b, err := ParseDecimal("balance", balance)
	if err != nil {
		return nil, err
	}
	r, err := ParseDecimal("requested", requested)
	if err != nil {
		return nil, err
	}
	return e.ProveBalance(b, r)
}

// VerifyBalanceString is VerifyBalance for amounts given as text; unparsable
// text verifies as false.
func (e *Engine) VerifyBalanceString(proof, salt, balance, requested string) bool {
	b, err := ParseDecimal("balance", balance)
	if err != nil {
		return false
	}
	r, err := ParseDecimal("requested", requested)
	if err != nil {
		return false
	}
	return e.VerifyBalance(proof, salt, b, r)
}
