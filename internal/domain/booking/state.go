package booking

import (
	"strings"

	"github.com/shareit/service-booking/pkg/domain"
)

// State selects which bookings a listing returns. It is a query filter, not a
// persisted value.
type State string

const (
	StateAll      State = "ALL"
	StateCurrent  State = "CURRENT"
	StatePast     State = "PAST"
	StateFuture   State = "FUTURE"
	StateWaiting  State = "WAITING"
	StateRejected State = "REJECTED"
)

var states = map[State]struct{}{
	StateAll:      {},
	StateCurrent:  {},
	StatePast:     {},
	StateFuture:   {},
	StateWaiting:  {},
	StateRejected: {},
}

// ParseState accepts any letter case. An empty value means ALL.
func ParseState(raw string) (State, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" {
		return StateAll, nil
	}
	if _, ok := states[State(s)]; !ok {
		return "", domain.NewUnsupportedStateError(raw)
	}
	return State(s), nil
}

func (s State) String() string { return string(s) }
