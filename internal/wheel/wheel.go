package wheel

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/DoyleJ11/prize-wheel/internal/engine"
	"github.com/DoyleJ11/prize-wheel/internal/render"
)

var ErrClosed = errors.New("wheel closed")

type Msg interface{ isWheelMsg() }

type SetEntrants struct {
	Entrants []string
	Reply    chan error
}

func (SetEntrants) isWheelMsg() {}

type AddEntrant struct {
	Name  string
	Reply chan error
}

func (AddEntrant) isWheelMsg() {}

type DeleteEntrant struct {
	Index int
	Reply chan error
}

func (DeleteEntrant) isWheelMsg() {}

type ResetEntrants struct {
	Reply chan error
}

func (ResetEntrants) isWheelMsg() {}

type RequestSpin struct {
	Reply chan SpinReply
}

func (RequestSpin) isWheelMsg() {}

type Join struct {
	ClientID string
	Outbox   chan Snapshot // where this client wants to receive snapshots
}

func (Join) isWheelMsg() {}

type Leave struct{ ClientID string }

func (Leave) isWheelMsg() {}

type GetState struct {
	Reply chan View
}

func (GetState) isWheelMsg() {}

type Shutdown struct{}

func (Shutdown) isWheelMsg() {}

// spinDone is raised by the completion timer. A spin ID that no longer
// matches the active spin is dropped.
type spinDone struct{ SpinID int }

func (spinDone) isWheelMsg() {}

type SpinReply struct {
	SpinID int
	Plan   engine.Plan
	Err    error
}

type SnapshotKind string

const (
	KindState  SnapshotKind = "state"
	KindTick   SnapshotKind = "tick"
	KindResult SnapshotKind = "result"
)

type Snapshot struct {
	Kind   SnapshotKind
	View   View
	Tick   RenderTick
	Result engine.SpinResult
}

type View struct {
	Code        string
	Version     int
	NumClients  int
	Phase       engine.Phase
	Entrants    []string
	Sectors     []engine.Sector
	Rotation    engine.Rotation
	MaxEntrants int
	SpinID      int
	Plan        *engine.Plan
	StartedAt   time.Time
	LastResult  *engine.SpinResult
}

// RotationAt is the rotation to draw at now: the eased in-flight value while
// spinning, otherwise the resting rotation.
func (v View) RotationAt(now time.Time) float64 {
	if v.Plan == nil {
		return v.Rotation.Absolute()
	}
	return render.Interpolate(*v.Plan, now.Sub(v.StartedAt))
}

type RenderTick struct {
	SpinID   int
	Rotation float64
	Elapsed  time.Duration
}

// Hooks run on the wheel's goroutine and must not block.
type Hooks struct {
	OnSpinComplete func(code string, result engine.SpinResult)
	OnRenderTick   func(code string, tick RenderTick)
}

type Config struct {
	Spin                  engine.SpinConfig
	MaxEntrants           int
	LockListWhileSpinning bool
	// TickInterval enables intermediate rotation frames while spinning.
	TickInterval time.Duration
	RNG          engine.RNG
}

func DefaultConfig() Config {
	return Config{
		Spin:                  engine.DefaultSpinConfig(),
		MaxEntrants:           20,
		LockListWhileSpinning: true,
	}
}

// Controller owns one wheel: its entrant list, rotation state and the single
// spin in flight. Every change goes through its inbox and is applied in order
// on one goroutine.
type Controller struct {
	code    string
	inbox   chan Msg
	machine *engine.Machine
	roster  *engine.Roster
	state   engine.State
	version int
	clients map[string]chan Snapshot
	cfg     Config
	hooks   Hooks
	log     *zap.Logger
	now     func() time.Time

	spinTimer *time.Timer
	ticker    *time.Ticker

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func New(parent context.Context, code string, cfg Config, hooks Hooks, log *zap.Logger, initial ...string) *Controller {
	ctx, cancel := context.WithCancel(parent)
	if log == nil {
		log = zap.NewNop()
	}

	roster := engine.NewRoster(cfg.MaxEntrants, initial...)
	c := &Controller{
		code:    code,
		inbox:   make(chan Msg, 64),
		machine: engine.NewMachine(cfg.RNG, cfg.Spin),
		roster:  roster,
		state:   engine.NewIdleState(roster.Entrants()),
		clients: make(map[string]chan Snapshot),
		cfg:     cfg,
		hooks:   hooks,
		log:     log.With(zap.String("wheel", code)),
		now:     time.Now,
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	go c.loop()
	return c
}

func (c *Controller) Code() string { return c.code }

// Inbox exposes the raw message channel for the transport layer and tests.
func (c *Controller) Inbox() chan<- Msg { return c.inbox }

// Done is closed once the wheel has shut down.
func (c *Controller) Done() <-chan struct{} { return c.done }

func (c *Controller) loop() {
	defer close(c.done)

	for {
		var timerC, tickC <-chan time.Time
		if c.spinTimer != nil {
			timerC = c.spinTimer.C
		}
		if c.ticker != nil {
			tickC = c.ticker.C
		}

		select {
		case <-c.ctx.Done():
			c.shutdown()
			return

		case <-timerC:
			c.spinTimer = nil
			if c.state.Spin != nil {
				c.handle(spinDone{SpinID: c.state.Spin.ID})
			}

		case <-tickC:
			c.tick()

		case m := <-c.inbox:
			if _, ok := m.(Shutdown); ok {
				c.shutdown()
				return
			}
			c.handle(m)
		}
	}
}

func (c *Controller) handle(m Msg) {
	switch msg := m.(type) {
	case Join:
		// Register client + send current snapshot immediately
		if prev, ok := c.clients[msg.ClientID]; ok && prev != msg.Outbox {
			close(prev)
		}
		c.clients[msg.ClientID] = msg.Outbox
		c.deliver(msg.ClientID, msg.Outbox, Snapshot{Kind: KindState, View: c.view()})

	case Leave:
		if ch, ok := c.clients[msg.ClientID]; ok {
			close(ch)
			delete(c.clients, msg.ClientID)
		}

	case GetState:
		msg.Reply <- c.view()

	case AddEntrant:
		msg.Reply <- c.edit(func(r *engine.Roster) error { return r.Add(msg.Name) }, false)

	case DeleteEntrant:
		msg.Reply <- c.edit(func(r *engine.Roster) error { return r.Delete(msg.Index) }, false)

	case SetEntrants:
		msg.Reply <- c.edit(func(r *engine.Roster) error { return r.Replace(msg.Entrants) }, false)

	case ResetEntrants:
		msg.Reply <- c.edit(func(r *engine.Roster) error { r.Reset(); return nil }, true)

	case RequestSpin:
		msg.Reply <- c.startSpin()

	case spinDone:
		c.completeSpin(msg.SpinID)
	}
}

func (c *Controller) edit(change func(*engine.Roster) error, clearResult bool) error {
	if c.cfg.LockListWhileSpinning && c.state.Phase == engine.PhaseSpinning {
		return engine.ErrListLocked
	}
	if err := change(c.roster); err != nil {
		return err
	}

	_, next, err := c.machine.Apply(c.state, engine.Command{Type: engine.CmdSetEntrants, Entrants: c.roster.Entrants()})
	if err != nil {
		return err
	}
	if clearResult {
		next = engine.ResetResult(next)
	}
	c.state = next
	c.version++
	c.log.Debug("entrants changed", zap.Int("count", len(next.Entrants)), zap.Int("version", c.version))
	c.broadcast(Snapshot{Kind: KindState, View: c.view()})
	return nil
}

func (c *Controller) startSpin() SpinReply {
	_, next, err := c.machine.Apply(c.state, engine.Command{Type: engine.CmdRequestSpin, At: c.now()})
	if err != nil {
		c.log.Debug("spin rejected", zap.Error(err))
		return SpinReply{Err: err}
	}
	c.state = next
	c.version++

	spin := next.Spin
	c.spinTimer = time.NewTimer(spin.Plan.Duration)
	if c.cfg.TickInterval > 0 {
		c.ticker = time.NewTicker(c.cfg.TickInterval)
	}

	c.log.Info("spin started",
		zap.Int("spin_id", spin.ID),
		zap.Int("entrants", spin.Entrants),
		zap.Duration("duration", spin.Plan.Duration),
		zap.Int("extra_turns", spin.Plan.ExtraTurns),
	)
	c.broadcast(Snapshot{Kind: KindState, View: c.view()})
	return SpinReply{SpinID: spin.ID, Plan: spin.Plan}
}

func (c *Controller) completeSpin(spinID int) {
	_, next, err := c.machine.Apply(c.state, engine.Command{Type: engine.CmdCompleteSpin, SpinID: spinID})
	if err != nil {
		c.log.Warn("dropping spin completion", zap.Int("spin_id", spinID), zap.Error(err))
		return
	}
	c.stopTimers()

	// next is already normalized and idle; publish only after that.
	c.state = next
	c.version++
	result := *next.LastResult

	c.log.Info("spin completed",
		zap.Int("spin_id", result.SpinID),
		zap.Int("winning_index", result.WinningIndex),
		zap.String("winner", result.WinningEntrant),
		zap.Float64("rotation", result.FinalRotation),
	)
	c.broadcast(Snapshot{Kind: KindResult, Result: result})
	c.broadcast(Snapshot{Kind: KindState, View: c.view()})
	if c.hooks.OnSpinComplete != nil {
		c.hooks.OnSpinComplete(c.code, result)
	}
}

func (c *Controller) tick() {
	spin := c.state.Spin
	if spin == nil {
		c.stopTicker()
		return
	}
	elapsed := c.now().Sub(spin.StartedAt)
	t := RenderTick{
		SpinID:   spin.ID,
		Rotation: render.Interpolate(spin.Plan, elapsed),
		Elapsed:  elapsed,
	}
	c.broadcast(Snapshot{Kind: KindTick, Tick: t})
	if c.hooks.OnRenderTick != nil {
		c.hooks.OnRenderTick(c.code, t)
	}
}

func (c *Controller) view() View {
	v := View{
		Code:        c.code,
		Version:     c.version,
		NumClients:  len(c.clients),
		Phase:       c.state.Phase,
		Entrants:    append([]string(nil), c.state.Entrants...),
		Sectors:     engine.Sectors(c.state.Entrants),
		Rotation:    c.state.Rotation,
		MaxEntrants: c.roster.Max(),
		LastResult:  c.state.LastResult,
	}
	if v.Entrants == nil {
		v.Entrants = []string{}
	}
	if c.state.Spin != nil {
		plan := c.state.Spin.Plan
		v.SpinID = c.state.Spin.ID
		v.Plan = &plan
		v.StartedAt = c.state.Spin.StartedAt
	}
	return v
}

func (c *Controller) stopTicker() {
	if c.ticker != nil {
		c.ticker.Stop()
		c.ticker = nil
	}
}

func (c *Controller) stopTimers() {
	if c.spinTimer != nil {
		c.spinTimer.Stop()
		c.spinTimer = nil
	}
	c.stopTicker()
}

func (c *Controller) shutdown() {
	c.stopTimers()
	for id, ch := range c.clients {
		close(ch) // Tell client no more snapshots
		delete(c.clients, id)
	}
	c.cancel()
	c.log.Debug("wheel shut down")
}

func (c *Controller) broadcast(snap Snapshot) {
	for id, ch := range c.clients {
		c.deliver(id, ch, snap)
	}
}

func (c *Controller) deliver(id string, ch chan Snapshot, snap Snapshot) {
	select {
	case ch <- snap:
		//ok
	default:
		// Client is slow/full - drop them.
		close(ch)
		delete(c.clients, id)
		c.log.Debug("dropped slow client", zap.String("client", id))
	}
}
