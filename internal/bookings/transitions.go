package bookings

import "errors"

var ErrInvalidTransition = errors.New("invalid status transition")

// Action names the booking state changes the API exposes.
type Action string

const (
	ActionConfirm  Action = "confirm"
	ActionCancel   Action = "cancel"
	ActionComplete Action = "complete"
	ActionNoShow   Action = "no_show"
)

var transitions = map[Action]map[Status]Status{
	ActionConfirm: {
		StatusPending: StatusConfirmed,
	},
	ActionCancel: {
		StatusPending:   StatusCancelled,
		StatusConfirmed: StatusCancelled,
	},
	ActionComplete: {
		StatusConfirmed: StatusCompleted,
	},
	ActionNoShow: {
		StatusConfirmed: StatusNoShow,
	},
}

// Apply returns the status an action moves a booking into, or
// ErrInvalidTransition when the action is not legal from the current state.
func Apply(action Action, from Status) (Status, error) {
	to, ok := transitions[action][from]
	if !ok {
		return "", ErrInvalidTransition
	}
	return to, nil
}

func ValidTransition(action Action, from Status) bool {
	_, err := Apply(action, from)
	return err == nil
}
