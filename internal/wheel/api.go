package wheel

import (
	"context"

	"github.com/DoyleJ11/prize-wheel/internal/engine"
)

// The methods below wrap the inbox in request/reply calls for callers that
// want a plain error back (HTTP handlers, the terminal UI).

func (c *Controller) SetEntrants(ctx context.Context, entrants []string) error {
	reply := make(chan error, 1)
	return c.callErr(ctx, SetEntrants{Entrants: entrants, Reply: reply}, reply)
}

func (c *Controller) AddEntrant(ctx context.Context, name string) error {
	reply := make(chan error, 1)
	return c.callErr(ctx, AddEntrant{Name: name, Reply: reply}, reply)
}

func (c *Controller) DeleteEntrant(ctx context.Context, index int) error {
	reply := make(chan error, 1)
	return c.callErr(ctx, DeleteEntrant{Index: index, Reply: reply}, reply)
}

func (c *Controller) ResetEntrants(ctx context.Context) error {
	reply := make(chan error, 1)
	return c.callErr(ctx, ResetEntrants{Reply: reply}, reply)
}

// RequestSpin starts a spin and returns its plan. The result arrives later
// through Hooks.OnSpinComplete and the subscriber outboxes.
func (c *Controller) RequestSpin(ctx context.Context) (engine.Plan, error) {
	reply := make(chan SpinReply, 1)
	if err := c.send(ctx, RequestSpin{Reply: reply}); err != nil {
		return engine.Plan{}, err
	}
	select {
	case r := <-reply:
		return r.Plan, r.Err
	case <-c.done:
		return engine.Plan{}, ErrClosed
	case <-ctx.Done():
		return engine.Plan{}, ctx.Err()
	}
}

func (c *Controller) State(ctx context.Context) (View, error) {
	reply := make(chan View, 1)
	if err := c.send(ctx, GetState{Reply: reply}); err != nil {
		return View{}, err
	}
	select {
	case v := <-reply:
		return v, nil
	case <-c.done:
		return View{}, ErrClosed
	case <-ctx.Done():
		return View{}, ctx.Err()
	}
}

// Subscribe registers outbox for snapshots. The wheel closes it on shutdown or
// when the subscriber falls behind.
func (c *Controller) Subscribe(ctx context.Context, clientID string, outbox chan Snapshot) error {
	return c.send(ctx, Join{ClientID: clientID, Outbox: outbox})
}

func (c *Controller) Unsubscribe(ctx context.Context, clientID string) error {
	return c.send(ctx, Leave{ClientID: clientID})
}

// Stop asks the wheel to shut down without waiting.
func (c *Controller) Stop() { c.cancel() }

// Close stops the wheel and waits for its goroutine to exit.
func (c *Controller) Close() {
	c.cancel()
	<-c.done
}

func (c *Controller) send(ctx context.Context, m Msg) error {
	select {
	case c.inbox <- m:
		return nil
	case <-c.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Controller) callErr(ctx context.Context, m Msg, reply chan error) error {
	if err := c.send(ctx, m); err != nil {
		return err
	}
	select {
	case err := <-reply:
		return err
	case <-c.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}
