package commitproof

import "time"

type ageInput struct {
	dateOfBirth time.Time
	minimumAge  int
	today       time.Time
}

var agePredicate = predicate[ageInput]{
	name: "age",
	validate: func(in ageInput) error {
		if err := requireDate("dateOfBirth", in.dateOfBirth); err != nil {
			return err
		}
		if err := requireNotFuture("dateOfBirth", in.dateOfBirth, in.today); err != nil {
			return err
		}
		return requireNonNegativeInt("minimumAge", in.minimumAge)
	},
	check: func(in ageInput) error {
		if age := AgeOn(in.dateOfBirth, in.today); age < in.minimumAge {
			return &InsufficientAgeError{Required: in.minimumAge, Actual: age}
		}
		return nil
	},
	canonical: func(in ageInput) string {
		return FormatDate(in.dateOfBirth)
	},
}

// ProveAge commits to dateOfBirth, provided the holder is at least minimumAge
// years old today. It fails with *InvalidArgumentError for a birth date in the
// future or a negative age, and with *InsufficientAgeError if the holder is too young.
func (e *Engine) ProveAge(dateOfBirth time.Time, minimumAge int) (*Commitment, error) {
	return prove(e, agePredicate, ageInput{dateOfBirth, minimumAge, e.now()})
}

// VerifyAge reports whether proof and salt commit to dateOfBirth and whether
// that birth date makes the holder at least minimumAge years old today.
func (e *Engine) VerifyAge(proof, salt string, dateOfBirth time.Time, minimumAge int) bool {
	return verify(e, agePredicate, proof, salt, ageInput{dateOfBirth, minimumAge, e.now()})
}
