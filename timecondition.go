package commitproof

import "time"

type timeInput struct {
	eventDate     time.Time
	conditionDate time.Time
}

var timePredicate = predicate[timeInput]{
	name: "time",
	validate: func(in timeInput) error {
		if err := requireDate("eventDate", in.eventDate); err != nil {
			return err
		}
		return requireDate("conditionDate", in.conditionDate)
	},
	check: func(in timeInput) error {
		if calendarDate(in.eventDate).Before(calendarDate(in.conditionDate)) {
			return &ConditionNotMetError{EventDate: in.eventDate, ConditionDate: in.conditionDate}
		}
		return nil
	},
	canonical: func(in timeInput) string {
		return FormatDate(in.eventDate)
	},
}

// ProveTimeCondition commits to eventDate, provided the event happened on or
// after conditionDate. Dates are compared by calendar day.
func (e *Engine) ProveTimeCondition(eventDate, conditionDate time.Time) (*Commitment, error) {
	return prove(e, timePredicate, timeInput{eventDate, conditionDate})
}

// VerifyTimeCondition reports whether proof and salt commit to the revealed
// eventDate and whether it is on or after conditionDate.
func (e *Engine) VerifyTimeCondition(proof, salt string, eventDate, conditionDate time.Time) bool {
	return verify(e, timePredicate, proof, salt, timeInput{eventDate, conditionDate})
}
