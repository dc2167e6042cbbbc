package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/prize-wheel/internal/engine"
	"github.com/DoyleJ11/prize-wheel/internal/history"
	"github.com/DoyleJ11/prize-wheel/internal/hub"
	"github.com/DoyleJ11/prize-wheel/internal/render"
	"github.com/DoyleJ11/prize-wheel/internal/types"
	"github.com/DoyleJ11/prize-wheel/internal/wheel"
)

type testEnv struct {
	srv     *httptest.Server
	hub     *hub.Hub
	history *history.MemoryStore
}

func newEnv(t *testing.T, spin time.Duration) *testEnv {
	t.Helper()
	store := history.NewMemoryStore()
	factory := func(ctx context.Context, code string) *wheel.Controller {
		cfg := wheel.DefaultConfig()
		cfg.Spin.MinDuration = spin
		cfg.Spin.MaxDuration = spin
		hooks := wheel.Hooks{OnSpinComplete: func(code string, r engine.SpinResult) {
			_ = store.Save(context.Background(), history.NewRecord(code, r, time.Now()))
		}}
		return wheel.New(ctx, code, cfg, hooks, nil, "Player 1", "Player 2")
	}
	h := hub.NewHub(context.Background(), factory, nil)
	srv := httptest.NewServer(SetupRoutes(Deps{
		Hub:          h,
		History:      store,
		Palette:      render.DefaultPalette(),
		PointerAngle: engine.PointerTop,
	}))
	t.Cleanup(func() {
		srv.Close()
		_ = h.Shutdown(context.Background())
	})
	return &testEnv{srv: srv, hub: h, history: store}
}

func (e *testEnv) do(t *testing.T, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, rd)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func (e *testEnv) create(t *testing.T, body string) string {
	t.Helper()
	resp, data := e.do(t, http.MethodPost, "/wheels", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(data))
	var out struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(data, &out))
	require.Len(t, out.Code, 6)
	return out.Code
}

func decodeState(t *testing.T, data []byte) types.WheelState {
	t.Helper()
	var s types.WheelState
	require.NoError(t, json.Unmarshal(data, &s))
	return s
}

func TestGenerateCode(t *testing.T) {
	code, err := GenerateCode()
	require.NoError(t, err)
	assert.Regexp(t, `^[A-Z0-9]{6}$`, code)
}

func TestHealthz(t *testing.T) {
	e := newEnv(t, time.Second)
	resp, _ := e.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreateWheel_DefaultsAndExplicitEntrants(t *testing.T) {
	e := newEnv(t, time.Second)

	code := e.create(t, "")
	resp, data := e.do(t, http.MethodGet, "/wheels/"+code, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	s := decodeState(t, data)
	assert.Equal(t, code, s.Code)
	assert.Equal(t, []string{"Player 1", "Player 2"}, s.Entrants)
	assert.Equal(t, engine.PhaseIdle, s.Phase)
	assert.Len(t, s.Sectors, 2)

	code = e.create(t, `{"entrants":["A","B","C"]}`)
	_, data = e.do(t, http.MethodGet, "/wheels/"+code, "")
	assert.Equal(t, []string{"A", "B", "C"}, decodeState(t, data).Entrants)

	resp, _ = e.do(t, http.MethodPost, "/wheels", `{"entrants":["A",""]}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = e.do(t, http.MethodPost, "/wheels", `{nope`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUnknownWheelIs404(t *testing.T) {
	e := newEnv(t, time.Second)
	for _, path := range []string{"/wheels/NOPE00", "/wheels/NOPE00/wheel.svg", "/wheels/NOPE00/history"} {
		resp, _ := e.do(t, http.MethodGet, path, "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
	}
	resp, _ := e.do(t, http.MethodPost, "/wheels/NOPE00/spin", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestEntrantEditing(t *testing.T) {
	e := newEnv(t, time.Second)
	code := e.create(t, "")
	base := "/wheels/" + code + "/entrants"

	resp, data := e.do(t, http.MethodPost, base, `{"name":"  Cy "}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"Player 1", "Player 2", "Cy"}, decodeState(t, data).Entrants)

	resp, data = e.do(t, http.MethodDelete, base+"/0", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"Player 2", "Cy"}, decodeState(t, data).Entrants)

	resp, data = e.do(t, http.MethodPut, base, `{"entrants":["X","Y"]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []string{"X", "Y"}, decodeState(t, data).Entrants)

	resp, data = e.do(t, http.MethodDelete, base, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decodeState(t, data).Entrants)
}

func TestErrorStatusMapping(t *testing.T) {
	e := newEnv(t, 300*time.Millisecond)
	code := e.create(t, "")
	base := "/wheels/" + code

	resp, data := e.do(t, http.MethodPost, base+"/entrants", `{"name":"   "}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var msg types.ServerMessage
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, "empty_entrant", msg.Code)

	resp, _ = e.do(t, http.MethodDelete, base+"/entrants/7", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = e.do(t, http.MethodDelete, base+"/entrants/abc", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	names := make([]string, 20)
	for i := range names {
		names[i] = fmt.Sprintf("p%d", i)
	}
	body, _ := json.Marshal(map[string][]string{"entrants": names})
	resp, _ = e.do(t, http.MethodPut, base+"/entrants", string(body))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = e.do(t, http.MethodPost, base+"/entrants", `{"name":"p20"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = e.do(t, http.MethodPost, base+"/spin", "")
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	resp, _ = e.do(t, http.MethodPost, base+"/spin", "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp, _ = e.do(t, http.MethodPost, base+"/entrants", `{"name":"late"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestSpinWithOneEntrantIs409(t *testing.T) {
	e := newEnv(t, time.Second)
	code := e.create(t, `{"entrants":["solo"]}`)
	resp, data := e.do(t, http.MethodPost, "/wheels/"+code+"/spin", "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Contains(t, string(data), "insufficient_entrants")
}

func TestSpinRecordsHistory(t *testing.T) {
	e := newEnv(t, 20*time.Millisecond)
	code := e.create(t, `{"entrants":["A","B","C","D"]}`)

	resp, data := e.do(t, http.MethodPost, "/wheels/"+code+"/spin", "")
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	var started types.ServerMessage
	require.NoError(t, json.Unmarshal(data, &started))
	require.NotNil(t, started.Plan)
	plan := *started.Plan
	assert.Equal(t, plan.StopAngle, plan.Target.Degrees)
	assert.Equal(t, plan.WinningIndex, engine.SectorAt(plan.Target, engine.PointerTop, 4))

	require.Eventually(t, func() bool {
		_, data := e.do(t, http.MethodGet, "/wheels/"+code+"/history", "")
		var out struct {
			Spins []history.Record `json:"spins"`
		}
		return json.Unmarshal(data, &out) == nil && len(out.Spins) == 1
	}, 2*time.Second, 10*time.Millisecond)

	_, data = e.do(t, http.MethodGet, "/wheels/"+code, "")
	s := decodeState(t, data)
	require.NotNil(t, s.LastResult)
	assert.Equal(t, []string{"A", "B", "C", "D"}[plan.WinningIndex], s.LastResult.WinningEntrant)
	assert.Equal(t, plan.StopAngle, s.Rotation)

	resp, _ = e.do(t, http.MethodGet, "/wheels/"+code+"/history?limit=0", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestWheelSVG(t *testing.T) {
	e := newEnv(t, time.Second)
	code := e.create(t, `{"entrants":["Ann","Bob","Cy"]}`)

	resp, data := e.do(t, http.MethodGet, "/wheels/"+code+"/wheel.svg?size=200", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/svg+xml", resp.Header.Get("Content-Type"))
	assert.Equal(t, 3, strings.Count(string(data), "<path"))
	assert.Contains(t, string(data), `width="200"`)

	resp, _ = e.do(t, http.MethodGet, "/wheels/"+code+"/wheel.svg?size=5", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDeleteWheel(t *testing.T) {
	e := newEnv(t, time.Second)
	code := e.create(t, "")

	resp, _ := e.do(t, http.MethodDelete, "/wheels/"+code, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	require.Eventually(t, func() bool {
		resp, _ := e.do(t, http.MethodGet, "/wheels/"+code, "")
		return resp.StatusCode == http.StatusNotFound
	}, time.Second, 10*time.Millisecond)
}

func TestCORSPreflight(t *testing.T) {
	e := newEnv(t, time.Second)
	req, err := http.NewRequest(http.MethodOptions, e.srv.URL+"/wheels", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{engine.ErrInsufficientEntrants, http.StatusConflict},
		{engine.ErrAlreadySpinning, http.StatusConflict},
		{engine.ErrListLocked, http.StatusConflict},
		{engine.ErrCapacityExceeded, http.StatusUnprocessableEntity},
		{engine.ErrEmptyEntrant, http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", engine.ErrIndexOutOfRange), http.StatusBadRequest},
		{wheel.ErrClosed, http.StatusNotFound},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.err), tt.err.Error())
	}
}
