package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/DoyleJ11/prize-wheel/internal/engine"
	"github.com/DoyleJ11/prize-wheel/internal/types"
	"github.com/DoyleJ11/prize-wheel/internal/wheel"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// StatusFor maps a wheel rejection onto an HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, engine.ErrInsufficientEntrants),
		errors.Is(err, engine.ErrAlreadySpinning),
		errors.Is(err, engine.ErrListLocked):
		return http.StatusConflict
	case errors.Is(err, engine.ErrCapacityExceeded):
		return http.StatusUnprocessableEntity
	case errors.Is(err, engine.ErrEmptyEntrant),
		errors.Is(err, engine.ErrIndexOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, wheel.ErrClosed):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, StatusFor(err), types.ErrorMessage(err))
}

func writeErrorMsg(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, types.ServerMessage{Type: types.MsgError, Code: code, Error: msg})
}
