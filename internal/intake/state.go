package intake

import (
	"fmt"
	"time"

	"github.com/joseph-ayodele/exam-report-intake/constants"
)

// StateChange is one transition of an intake, emitted on the progress side channel.
type StateChange struct {
	Generation uint64
	IntakeID   string
	From       constants.IntakeState
	To         constants.IntakeState
	At         time.Time
}

// Observer receives state changes. It must not block.
type Observer func(StateChange)

var transitions = map[constants.IntakeState][]constants.IntakeState{
	constants.StateIdle:        {constants.StateValidating},
	constants.StateValidating:  {constants.StateRasterizing, constants.StateExtracting, constants.StateComplete, constants.StateError},
	constants.StateRasterizing: {constants.StateExtracting, constants.StateError},
	constants.StateExtracting:  {constants.StateParsing, constants.StateError},
	constants.StateParsing:     {constants.StateComplete, constants.StateError},
	constants.StateComplete:    {constants.StateIdle},
	constants.StateError:       {constants.StateIdle},
}

// CanTransition reports whether from -> to is a legal edge.
func CanTransition(from, to constants.IntakeState) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// machine tracks the state of one intake.
type machine struct {
	generation uint64
	intakeID   string
	state      constants.IntakeState
	observe    Observer
}

func newMachine(generation uint64, intakeID string, observe Observer) *machine {
	return &machine{generation: generation, intakeID: intakeID, state: constants.StateIdle, observe: observe}
}

func (m *machine) to(next constants.IntakeState) error {
	if !CanTransition(m.state, next) {
		return fmt.Errorf("illegal intake transition %s -> %s", m.state, next)
	}
	prev := m.state
	m.state = next
	if m.observe != nil {
		m.observe(StateChange{
			Generation: m.generation,
			IntakeID:   m.intakeID,
			From:       prev,
			To:         next,
			At:         time.Now().UTC(),
		})
	}
	return nil
}

// fail moves to ERROR from any non-terminal state.
func (m *machine) fail() {
	if m.state.Terminal() {
		return
	}
	if m.state == constants.StateIdle {
		_ = m.to(constants.StateValidating)
	}
	_ = m.to(constants.StateError)
}
