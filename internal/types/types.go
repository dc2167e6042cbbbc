package types

import (
	"errors"

	"github.com/DoyleJ11/prize-wheel/internal/engine"
	"github.com/DoyleJ11/prize-wheel/internal/wheel"
)

const (
	MsgAddEntrant    = "AddEntrant"
	MsgDeleteEntrant = "DeleteEntrant"
	MsgResetEntrants = "ResetEntrants"
	MsgSetEntrants   = "SetEntrants"
	MsgSpin          = "Spin"

	MsgStateSnapshot = "StateSnapshot"
	MsgRenderTick    = "RenderTick"
	MsgSpinResult    = "SpinResult"
	MsgSpinStarted   = "SpinStarted"
	MsgError         = "Error"
)

type ClientMessage struct {
	Type     string   `json:"type"`
	Name     string   `json:"name,omitempty"`
	Index    int      `json:"index"`
	Entrants []string `json:"entrants,omitempty"`
}

type ServerMessage struct {
	Type    string             `json:"type"` // "StateSnapshot" | "RenderTick" | "SpinStarted" | "SpinResult" | "Error"
	Version int                `json:"version,omitempty"`
	State   *WheelState        `json:"state,omitempty"`
	Tick    *Tick              `json:"tick,omitempty"`
	Plan    *engine.Plan       `json:"plan,omitempty"`
	Result  *engine.SpinResult `json:"result,omitempty"`
	Code    string             `json:"code,omitempty"`
	Error   string             `json:"error,omitempty"`
}

type WheelState struct {
	Code        string             `json:"code"`
	Phase       engine.Phase       `json:"phase"`
	Entrants    []string           `json:"entrants"`
	Sectors     []engine.Sector    `json:"sectors"`
	Rotation    float64            `json:"rotation"`
	MaxEntrants int                `json:"max_entrants"`
	Clients     int                `json:"clients"`
	SpinID      int                `json:"spin_id,omitempty"`
	Plan        *engine.Plan       `json:"plan,omitempty"`
	LastResult  *engine.SpinResult `json:"last_result,omitempty"`
}

type Tick struct {
	SpinID    int     `json:"spin_id"`
	Rotation  float64 `json:"rotation"`
	ElapsedMs int64   `json:"elapsed_ms"`
}

func FromView(v wheel.View) WheelState {
	sectors := v.Sectors
	if sectors == nil {
		sectors = []engine.Sector{}
	}
	return WheelState{
		Code:        v.Code,
		Phase:       v.Phase,
		Entrants:    v.Entrants,
		Sectors:     sectors,
		Rotation:    v.Rotation.Absolute(),
		MaxEntrants: v.MaxEntrants,
		Clients:     v.NumClients,
		SpinID:      v.SpinID,
		Plan:        v.Plan,
		LastResult:  v.LastResult,
	}
}

func FromSnapshot(s wheel.Snapshot) ServerMessage {
	switch s.Kind {
	case wheel.KindTick:
		return ServerMessage{Type: MsgRenderTick, Tick: &Tick{
			SpinID:    s.Tick.SpinID,
			Rotation:  s.Tick.Rotation,
			ElapsedMs: s.Tick.Elapsed.Milliseconds(),
		}}
	case wheel.KindResult:
		result := s.Result
		return ServerMessage{Type: MsgSpinResult, Result: &result}
	default:
		state := FromView(s.View)
		return ServerMessage{Type: MsgStateSnapshot, Version: s.View.Version, State: &state}
	}
}

func ErrorMessage(err error) ServerMessage {
	return ServerMessage{Type: MsgError, Code: ErrorCode(err), Error: err.Error()}
}

// ErrorCode gives clients a stable name for a rejection.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, engine.ErrInsufficientEntrants):
		return "insufficient_entrants"
	case errors.Is(err, engine.ErrAlreadySpinning):
		return "already_spinning"
	case errors.Is(err, engine.ErrListLocked):
		return "list_locked"
	case errors.Is(err, engine.ErrCapacityExceeded):
		return "capacity_exceeded"
	case errors.Is(err, engine.ErrEmptyEntrant):
		return "empty_entrant"
	case errors.Is(err, engine.ErrIndexOutOfRange):
		return "index_out_of_range"
	case errors.Is(err, engine.ErrUnsupportedCommand):
		return "unsupported"
	case errors.Is(err, wheel.ErrClosed):
		return "wheel_closed"
	default:
		return "internal"
	}
}
