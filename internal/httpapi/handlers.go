package httpapi

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"io"
	"math/big"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/DoyleJ11/prize-wheel/internal/history"
	"github.com/DoyleJ11/prize-wheel/internal/hub"
	"github.com/DoyleJ11/prize-wheel/internal/render"
	"github.com/DoyleJ11/prize-wheel/internal/types"
	"github.com/DoyleJ11/prize-wheel/internal/wheel"
)

const (
	defaultSVGSize      = 400
	minSVGSize          = 64
	maxSVGSize          = 2048
	defaultHistoryLimit = 50
)

// Deps is everything the HTTP layer needs.
type Deps struct {
	Hub          *hub.Hub
	History      history.Store
	Palette      render.Palette
	PointerAngle float64
	Log          *zap.Logger
}

type Handlers struct {
	hub          *hub.Hub
	history      history.Store
	palette      render.Palette
	pointerAngle float64
	log          *zap.Logger
}

func NewHandlers(d Deps) *Handlers {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Handlers{
		hub:          d.Hub,
		history:      d.History,
		palette:      d.Palette,
		pointerAngle: d.PointerAngle,
		log:          log,
	}
}

func GenerateCode() (string, error) {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	code := make([]byte, 6)
	for i := 0; i < 6; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		code[i] = charset[num.Int64()]
	}
	return string(code), nil
}

type entrantsRequest struct {
	Entrants []string `json:"entrants"`
}

type addEntrantRequest struct {
	Name string `json:"name"`
}

// decodeOptional accepts an empty body.
func decodeOptional(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (h *Handlers) CreateWheel(w http.ResponseWriter, r *http.Request) {
	var req entrantsRequest
	if err := decodeOptional(r, &req); err != nil {
		writeErrorMsg(w, http.StatusBadRequest, "bad_json", "bad json")
		return
	}

	var code string
	for {
		c, err := GenerateCode()
		if err != nil {
			writeErrorMsg(w, http.StatusInternalServerError, "internal", "failed to generate code")
			return
		}
		existing, err := h.hub.Get(r.Context(), c)
		if err != nil {
			writeError(w, err)
			return
		}
		if existing == nil {
			code = c
			break
		}
		h.log.Debug("collision on code, regenerating", zap.String("code", c))
	}

	wh, err := h.hub.Ensure(r.Context(), code)
	if err != nil || wh == nil {
		writeErrorMsg(w, http.StatusInternalServerError, "internal", "failed to create wheel")
		return
	}
	if req.Entrants != nil {
		if err := wh.SetEntrants(r.Context(), req.Entrants); err != nil {
			_ = h.hub.Remove(r.Context(), code)
			writeError(w, err)
			return
		}
	}

	writeJSON(w, http.StatusCreated, struct {
		Code string `json:"code"`
	}{Code: code})
}

// lookup resolves {code}, writing a 404 when the wheel does not exist.
func (h *Handlers) lookup(w http.ResponseWriter, r *http.Request) (*wheel.Controller, bool) {
	code := chi.URLParam(r, "code")
	wh, err := h.hub.Get(r.Context(), code)
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	if wh == nil {
		writeErrorMsg(w, http.StatusNotFound, "not_found", "wheel not found")
		return nil, false
	}
	return wh, true
}

func (h *Handlers) GetWheel(w http.ResponseWriter, r *http.Request) {
	wh, ok := h.lookup(w, r)
	if !ok {
		return
	}
	v, err := wh.State(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.FromView(v))
}

func (h *Handlers) DeleteWheel(w http.ResponseWriter, r *http.Request) {
	wh, ok := h.lookup(w, r)
	if !ok {
		return
	}
	if err := h.hub.Remove(r.Context(), wh.Code()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// respondState replies with the wheel's view after a successful edit.
func (h *Handlers) respondState(w http.ResponseWriter, r *http.Request, wh *wheel.Controller) {
	v, err := wh.State(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, types.FromView(v))
}

func (h *Handlers) SetEntrants(w http.ResponseWriter, r *http.Request) {
	wh, ok := h.lookup(w, r)
	if !ok {
		return
	}
	var req entrantsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMsg(w, http.StatusBadRequest, "bad_json", "bad json")
		return
	}
	if err := wh.SetEntrants(r.Context(), req.Entrants); err != nil {
		writeError(w, err)
		return
	}
	h.respondState(w, r, wh)
}

func (h *Handlers) AddEntrant(w http.ResponseWriter, r *http.Request) {
	wh, ok := h.lookup(w, r)
	if !ok {
		return
	}
	var req addEntrantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMsg(w, http.StatusBadRequest, "bad_json", "bad json")
		return
	}
	if err := wh.AddEntrant(r.Context(), req.Name); err != nil {
		writeError(w, err)
		return
	}
	h.respondState(w, r, wh)
}

func (h *Handlers) DeleteEntrant(w http.ResponseWriter, r *http.Request) {
	wh, ok := h.lookup(w, r)
	if !ok {
		return
	}
	i, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeErrorMsg(w, http.StatusBadRequest, "bad_index", "index must be an integer")
		return
	}
	if err := wh.DeleteEntrant(r.Context(), i); err != nil {
		writeError(w, err)
		return
	}
	h.respondState(w, r, wh)
}

func (h *Handlers) ResetEntrants(w http.ResponseWriter, r *http.Request) {
	wh, ok := h.lookup(w, r)
	if !ok {
		return
	}
	if err := wh.ResetEntrants(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	h.respondState(w, r, wh)
}

func (h *Handlers) Spin(w http.ResponseWriter, r *http.Request) {
	wh, ok := h.lookup(w, r)
	if !ok {
		return
	}
	plan, err := wh.RequestSpin(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, types.ServerMessage{Type: types.MsgSpinStarted, Plan: &plan})
}

func (h *Handlers) WheelSVG(w http.ResponseWriter, r *http.Request) {
	wh, ok := h.lookup(w, r)
	if !ok {
		return
	}
	size := defaultSVGSize
	if s := r.URL.Query().Get("size"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < minSVGSize || n > maxSVGSize {
			writeErrorMsg(w, http.StatusBadRequest, "bad_size", "size must be an integer between 64 and 2048")
			return
		}
		size = n
	}

	v, err := wh.State(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	frame := render.Layout(v.Sectors, v.RotationAt(time.Now()), h.palette, h.pointerAngle)

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	if err := render.WriteSVG(w, frame, size); err != nil {
		h.log.Warn("write svg", zap.String("wheel", v.Code), zap.Error(err))
	}
}

func (h *Handlers) History(w http.ResponseWriter, r *http.Request) {
	wh, ok := h.lookup(w, r)
	if !ok {
		return
	}
	limit := defaultHistoryLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			writeErrorMsg(w, http.StatusBadRequest, "bad_limit", "limit must be a positive integer")
			return
		}
		limit = n
	}

	recs, err := h.history.List(r.Context(), wh.Code(), limit)
	if err != nil {
		h.log.Error("list history", zap.String("wheel", wh.Code()), zap.Error(err))
		writeErrorMsg(w, http.StatusInternalServerError, "internal", "failed to load history")
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Code  string           `json:"code"`
		Spins []history.Record `json:"spins"`
	}{Code: wh.Code(), Spins: recs})
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
