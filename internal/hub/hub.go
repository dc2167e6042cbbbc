package hub

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/DoyleJ11/prize-wheel/internal/wheel"
)

var ErrHubClosed = errors.New("hub closed")

// Factory builds a wheel bound to ctx. The hub cancels ctx on shutdown.
type Factory func(ctx context.Context, code string) *wheel.Controller

type HubMsg interface{ isHubMsg() }

type CreateWheel struct {
	Code  string
	Reply chan *wheel.Controller
}

type GetWheel struct {
	Code  string
	Reply chan *wheel.Controller
}

type EnsureWheel struct {
	Code  string
	Reply chan *wheel.Controller
}

type RemoveWheel struct {
	Code string
}

type ListWheels struct {
	Reply chan []string
}

type ShutdownHub struct {
	Reply chan []*wheel.Controller
}

type Hub struct {
	inbox   chan HubMsg
	wheels  map[string]*wheel.Controller
	factory Factory
	log     *zap.Logger
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
}

func (CreateWheel) isHubMsg() {}
func (GetWheel) isHubMsg()    {}
func (EnsureWheel) isHubMsg() {}
func (RemoveWheel) isHubMsg() {}
func (ListWheels) isHubMsg()  {}
func (ShutdownHub) isHubMsg() {}

func NewHub(parent context.Context, factory Factory, log *zap.Logger) *Hub {
	ctx, cancel := context.WithCancel(parent)
	if log == nil {
		log = zap.NewNop()
	}
	h := &Hub{
		inbox:   make(chan HubMsg, 64),
		wheels:  make(map[string]*wheel.Controller),
		factory: factory,
		log:     log,
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	defer close(h.done)
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateWheel:
				// Same as ensure; an existing code is never replaced.
				msg.Reply <- h.ensure(msg.Code)

			case GetWheel:
				w := h.wheels[msg.Code]
				if w != nil && isDone(w) {
					delete(h.wheels, msg.Code)
					w = nil
				}
				msg.Reply <- w // May be nil

			case EnsureWheel:
				msg.Reply <- h.ensure(msg.Code)

			case RemoveWheel:
				if w := h.wheels[msg.Code]; w != nil {
					w.Stop()
					delete(h.wheels, msg.Code)
					h.log.Info("wheel removed", zap.String("code", msg.Code))
				}

			case ListWheels:
				codes := make([]string, 0, len(h.wheels))
				for code := range h.wheels {
					codes = append(codes, code)
				}
				msg.Reply <- codes

			case ShutdownHub:
				msg.Reply <- h.shutdown()
				return
			}
		}
	}
}

func (h *Hub) ensure(code string) *wheel.Controller {
	if w := h.wheels[code]; w != nil && !isDone(w) {
		return w
	}
	w := h.factory(h.ctx, code)
	h.wheels[code] = w
	h.log.Info("wheel created", zap.String("code", code))
	return w
}

func (h *Hub) shutdown() []*wheel.Controller {
	out := make([]*wheel.Controller, 0, len(h.wheels))
	for _, w := range h.wheels {
		out = append(out, w)
	}
	clear(h.wheels)
	h.cancel() // wheels are children of h.ctx
	return out
}

func isDone(w *wheel.Controller) bool {
	select {
	case <-w.Done():
		return true
	default:
		return false
	}
}

func (h *Hub) request(ctx context.Context, m HubMsg) error {
	select {
	case h.inbox <- m:
		return nil
	case <-h.done:
		return ErrHubClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Hub) wait(ctx context.Context, reply chan *wheel.Controller) (*wheel.Controller, error) {
	select {
	case w := <-reply:
		return w, nil
	case <-h.done:
		return nil, ErrHubClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Get returns the wheel for code, or nil if there is none.
func (h *Hub) Get(ctx context.Context, code string) (*wheel.Controller, error) {
	reply := make(chan *wheel.Controller, 1)
	if err := h.request(ctx, GetWheel{Code: code, Reply: reply}); err != nil {
		return nil, err
	}
	return h.wait(ctx, reply)
}

func (h *Hub) Ensure(ctx context.Context, code string) (*wheel.Controller, error) {
	reply := make(chan *wheel.Controller, 1)
	if err := h.request(ctx, EnsureWheel{Code: code, Reply: reply}); err != nil {
		return nil, err
	}
	return h.wait(ctx, reply)
}

func (h *Hub) Remove(ctx context.Context, code string) error {
	return h.request(ctx, RemoveWheel{Code: code})
}

func (h *Hub) Codes(ctx context.Context) ([]string, error) {
	reply := make(chan []string, 1)
	if err := h.request(ctx, ListWheels{Reply: reply}); err != nil {
		return nil, err
	}
	select {
	case codes := <-reply:
		return codes, nil
	case <-h.done:
		return nil, ErrHubClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Shutdown stops every wheel and waits for them to exit or for ctx to expire.
// Wheels that did not stop in time are reported together.
func (h *Hub) Shutdown(ctx context.Context) error {
	reply := make(chan []*wheel.Controller, 1)
	if err := h.request(ctx, ShutdownHub{Reply: reply}); err != nil {
		if errors.Is(err, ErrHubClosed) {
			return nil
		}
		return err
	}

	var wheels []*wheel.Controller
	select {
	case wheels = <-reply:
	case <-h.done:
		// The reply is sent before done closes.
		select {
		case wheels = <-reply:
		default:
			return nil
		}
	case <-ctx.Done():
		return ctx.Err()
	}

	var err error
	for _, w := range wheels {
		select {
		case <-w.Done():
		case <-ctx.Done():
			err = multierr.Append(err, fmt.Errorf("wheel %s: %w", w.Code(), ctx.Err()))
		}
	}
	h.log.Info("hub shut down", zap.Int("wheels", len(wheels)), zap.Error(err))
	return err
}
