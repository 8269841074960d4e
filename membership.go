package commitproof

type membershipInput struct {
	value string
	set   []string
}

var membershipPredicate = predicate[membershipInput]{
	name: "membership",
	validate: func(in membershipInput) error {
		if err := requireNonEmpty("value", in.value); err != nil {
			return err
		}
		return requireNonEmptySet("set", in.set)
	},
	check: func(in membershipInput) error {
		for _, member := range in.set {
			if member == in.value {
				return nil
			}
		}
		return &ValueNotInSetError{Value: in.value}
	},
	canonical: func(in membershipInput) string {
		return in.value
	},
}

// ProveMembership commits to value, provided it is an element of set.
// Elements are compared as exact strings.
func (e *Engine) ProveMembership(value string, set []string) (*Commitment, error) {
	return prove(e, membershipPredicate, membershipInput{value, set})
}

// VerifyMembership reports whether proof and salt commit to the revealed value
// and whether that value is an element of set.
func (e *Engine) VerifyMembership(proof, salt, value string, set []string) bool {
	return verify(e, membershipPredicate, proof, salt, membershipInput{value, set})
}
