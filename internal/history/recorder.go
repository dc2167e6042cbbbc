package history

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/DoyleJ11/prize-wheel/internal/engine"
)

const saveTimeout = 5 * time.Second

// Recorder moves completed spins off the wheel goroutines and into a Store.
type Recorder struct {
	store Store
	queue chan Record
	log   *zap.Logger
	now   func() time.Time
}

func NewRecorder(store Store, buffer int, log *zap.Logger) *Recorder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Recorder{
		store: store,
		queue: make(chan Record, buffer),
		log:   log,
		now:   time.Now,
	}
}

// OnSpinComplete matches wheel.Hooks.OnSpinComplete. It never blocks: when
// the queue is full the record is dropped and logged.
func (r *Recorder) OnSpinComplete(code string, result engine.SpinResult) {
	rec := NewRecord(code, result, r.now())
	select {
	case r.queue <- rec:
	default:
		r.log.Warn("history queue full, dropping record",
			zap.String("wheel", code),
			zap.Int("spin_id", result.SpinID),
		)
	}
}

// Run saves queued records until ctx is done, then drains what is left.
func (r *Recorder) Run(ctx context.Context) error {
	for {
		select {
		case rec := <-r.queue:
			r.save(ctx, rec)
		case <-ctx.Done():
			r.drain()
			return nil
		}
	}
}

func (r *Recorder) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	for {
		select {
		case rec := <-r.queue:
			r.save(ctx, rec)
		default:
			return
		}
	}
}

func (r *Recorder) save(parent context.Context, rec Record) {
	ctx, cancel := context.WithTimeout(parent, saveTimeout)
	defer cancel()
	if err := r.store.Save(ctx, rec); err != nil {
		r.log.Error("save spin history", zap.String("wheel", rec.WheelCode), zap.Error(err))
		return
	}
	r.log.Debug("spin recorded", zap.String("wheel", rec.WheelCode), zap.String("id", rec.ID.String()))
}
