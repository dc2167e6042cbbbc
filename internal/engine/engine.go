package engine

import (
	"time"
)

type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseSpinning Phase = "spinning"
)

// ActiveSpin is the frozen part of a spin in flight.
type ActiveSpin struct {
	ID        int
	Plan      Plan
	Winner    string
	Entrants  int
	StartedAt time.Time
}

type State struct {
	Phase      Phase
	Rotation   Rotation
	Entrants   []string
	Spin       *ActiveSpin
	LastResult *SpinResult
	NextSpinID int
}

// SpinResult is published once per completed spin.
type SpinResult struct {
	SpinID         int           `json:"spin_id"`
	WinningIndex   int           `json:"winning_index"`
	WinningEntrant string        `json:"winning_entrant"`
	FinalRotation  float64       `json:"final_rotation"`
	EntrantCount   int           `json:"entrant_count"`
	Duration       time.Duration `json:"duration"`
}

type CommandType string

const (
	CmdSetEntrants  CommandType = "SetEntrants"
	CmdRequestSpin  CommandType = "RequestSpin"
	CmdCompleteSpin CommandType = "CompleteSpin"
)

/*
	CmdSetEntrants  -> EvtEntrantsChanged
	CmdRequestSpin  -> EvtResultCleared -> EvtSpinStarted
	CmdCompleteSpin -> EvtRotationNormalized -> EvtSpinCompleted
*/

type Command struct {
	Type     CommandType
	Entrants []string
	SpinID   int
	At       time.Time
}

type EventType string

const (
	EvtEntrantsChanged    EventType = "EntrantsChanged"
	EvtResultCleared      EventType = "ResultCleared"
	EvtSpinStarted        EventType = "SpinStarted"
	EvtRotationNormalized EventType = "RotationNormalized"
	EvtSpinCompleted      EventType = "SpinCompleted"
)

type Event struct {
	Type   EventType
	SpinID int
	Plan   *Plan
	Result *SpinResult
}

func NewIdleState(entrants []string) State {
	return State{
		Phase:    PhaseIdle,
		Entrants: cloneEntrants(entrants),
	}
}

// Machine is the spin state machine. It holds only the selector and spin
// configuration; all wheel state flows through Apply.
type Machine struct {
	selector *Selector
	rng      RNG
	cfg      SpinConfig
}

func NewMachine(rng RNG, cfg SpinConfig) *Machine {
	if rng == nil {
		rng = SystemRNG{}
	}
	return &Machine{selector: NewSelector(rng), rng: rng, cfg: cfg}
}

// Apply is the single dispatch for wheel state. On error the returned state is
// the input state unchanged.
func (m *Machine) Apply(s State, cmd Command) ([]Event, State, error) {
	newState := s

	switch cmd.Type {
	case CmdSetEntrants:
		// The active spin keeps its own copy of the winner, so swapping the
		// list never reaches it.
		newState.Entrants = cloneEntrants(cmd.Entrants)
		return []Event{{Type: EvtEntrantsChanged}}, newState, nil

	case CmdRequestSpin:
		if s.Phase == PhaseSpinning {
			return nil, s, ErrAlreadySpinning
		}
		n := len(s.Entrants)
		if n < 2 {
			return nil, s, ErrInsufficientEntrants
		}

		idx, err := m.selector.Select(n)
		if err != nil {
			return nil, s, err
		}
		plan, err := PlanSpin(idx, n, s.Rotation, m.cfg, m.rng)
		if err != nil {
			return nil, s, err
		}

		newState.NextSpinID = s.NextSpinID + 1
		spin := &ActiveSpin{
			ID:        newState.NextSpinID,
			Plan:      plan,
			Winner:    s.Entrants[idx],
			Entrants:  n,
			StartedAt: cmd.At,
		}
		newState.Phase = PhaseSpinning
		newState.Spin = spin
		newState.LastResult = nil

		events := []Event{
			{Type: EvtResultCleared, SpinID: spin.ID},
			{Type: EvtSpinStarted, SpinID: spin.ID, Plan: &spin.Plan},
		}
		return events, newState, nil

	case CmdCompleteSpin:
		if s.Phase != PhaseSpinning || s.Spin == nil || s.Spin.ID != cmd.SpinID {
			return nil, s, ErrNoSpinInFlight
		}
		spin := s.Spin

		// Normalize before going idle so the next spin starts from [0, 360).
		newState.Rotation = spin.Plan.Target.Normalize()

		result := &SpinResult{
			SpinID:         spin.ID,
			WinningIndex:   spin.Plan.WinningIndex,
			WinningEntrant: spin.Winner,
			FinalRotation:  newState.Rotation.Degrees,
			EntrantCount:   spin.Entrants,
			Duration:       spin.Plan.Duration,
		}
		newState.LastResult = result
		newState.Spin = nil
		newState.Phase = PhaseIdle

		events := []Event{
			{Type: EvtRotationNormalized, SpinID: spin.ID},
			{Type: EvtSpinCompleted, SpinID: spin.ID, Result: result},
		}
		return events, newState, nil

	default:
		return nil, s, ErrUnsupportedCommand
	}
}

// ResetResult clears the displayed result, used when the list is cleared.
func ResetResult(s State) State {
	s.LastResult = nil
	return s
}

func ContainsEvent(events []Event, eventType EventType) bool {
	for _, event := range events {
		if event.Type == eventType {
			return true
		}
	}
	return false
}

func cloneEntrants(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
