package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DoyleJ11/prize-wheel/internal/engine"
	"github.com/DoyleJ11/prize-wheel/internal/hub"
	"github.com/DoyleJ11/prize-wheel/internal/types"
	"github.com/DoyleJ11/prize-wheel/internal/wheel"
)

const (
	outboxSize   = 32
	writeTimeout = 3 * time.Second
	readTimeout  = 5 * time.Minute
)

func Handler(h *hub.Hub, log *zap.Logger) http.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			return
		}

		wh, err := h.Get(r.Context(), code)
		if err != nil || wh == nil {
			http.Error(w, "wheel not found", http.StatusNotFound)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			// In dev ONLY, you can loosen origin checks:
			// OriginPatterns: []string{"http://localhost:*", "http://127.0.0.1:*"},
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		clientID := uuid.NewString()
		clog := log.With(zap.String("wheel", code), zap.String("client", clientID))

		out := make(chan wheel.Snapshot, outboxSize)
		if err := wh.Subscribe(r.Context(), clientID, out); err != nil {
			conn.Close(websocket.StatusGoingAway, "wheel closed")
			return
		}
		clog.Debug("client joined")
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			_ = wh.Unsubscribe(ctx, clientID)
			cancel()
			clog.Debug("client left")
		}()

		// Writer goroutine
		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go func() {
			for snap := range out {
				if err := writeMsg(writeCtx, conn, types.FromSnapshot(snap)); err != nil {
					clog.Debug("write failed", zap.Error(err))
				}
			}
			// The wheel closed our outbox: shut down or we fell behind.
			conn.Close(websocket.StatusGoingAway, "stream ended")
		}()

		// Reader loop
		for {
			ctx, cancel := context.WithTimeout(r.Context(), readTimeout)
			_, data, err := conn.Read(ctx)
			cancel()
			if err != nil {
				switch websocket.CloseStatus(err) {
				case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				default:
					clog.Debug("read failed", zap.Error(err))
				}
				return
			}

			var cm types.ClientMessage
			if err := json.Unmarshal(data, &cm); err != nil {
				_ = writeMsg(r.Context(), conn, types.ServerMessage{Type: types.MsgError, Code: "bad_json", Error: "bad json"})
				continue
			}

			if reply, ok := dispatch(r.Context(), wh, cm); ok {
				_ = writeMsg(r.Context(), conn, reply)
			}
		}
	}
}

// dispatch applies one client message. It returns a direct reply when the
// client should get one; successful edits are visible through the next
// StateSnapshot instead.
func dispatch(ctx context.Context, wh *wheel.Controller, m types.ClientMessage) (types.ServerMessage, bool) {
	var err error
	switch m.Type {
	case types.MsgAddEntrant:
		err = wh.AddEntrant(ctx, m.Name)
	case types.MsgDeleteEntrant:
		err = wh.DeleteEntrant(ctx, m.Index)
	case types.MsgSetEntrants:
		err = wh.SetEntrants(ctx, m.Entrants)
	case types.MsgResetEntrants:
		err = wh.ResetEntrants(ctx)
	case types.MsgSpin:
		plan, err := wh.RequestSpin(ctx)
		if err != nil {
			return types.ErrorMessage(err), true
		}
		return types.ServerMessage{Type: types.MsgSpinStarted, Plan: &plan}, true
	default:
		err = engine.ErrUnsupportedCommand
	}
	if err != nil {
		return types.ErrorMessage(err), true
	}
	return types.ServerMessage{}, false
}

func writeMsg(parent context.Context, conn *websocket.Conn, msg types.ServerMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(parent, writeTimeout)
	defer cancel()
	if err := conn.Write(ctx, websocket.MessageText, payload); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
	return nil
}
