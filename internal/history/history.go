package history

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/DoyleJ11/prize-wheel/internal/engine"
)

// Record is one completed spin.
type Record struct {
	ID             uuid.UUID `json:"id"`
	WheelCode      string    `json:"wheel_code"`
	SpinID         int       `json:"spin_id"`
	WinningIndex   int       `json:"winning_index"`
	WinningEntrant string    `json:"winning_entrant"`
	EntrantCount   int       `json:"entrant_count"`
	FinalRotation  float64   `json:"final_rotation"`
	DurationMs     int64     `json:"duration_ms"`
	CompletedAt    time.Time `json:"completed_at"`
}

func NewRecord(code string, r engine.SpinResult, at time.Time) Record {
	return Record{
		ID:             uuid.New(),
		WheelCode:      code,
		SpinID:         r.SpinID,
		WinningIndex:   r.WinningIndex,
		WinningEntrant: r.WinningEntrant,
		EntrantCount:   r.EntrantCount,
		FinalRotation:  r.FinalRotation,
		DurationMs:     r.Duration.Milliseconds(),
		CompletedAt:    at.UTC(),
	}
}

type Store interface {
	Save(ctx context.Context, rec Record) error
	// List returns the newest records for a wheel first. limit <= 0 means all.
	List(ctx context.Context, code string, limit int) ([]Record, error)
	Close() error
}

// MemoryStore keeps history for the life of the process.
type MemoryStore struct {
	mu      sync.Mutex
	byWheel map[string][]Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byWheel: make(map[string][]Record)}
}

func (m *MemoryStore) Save(_ context.Context, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byWheel[rec.WheelCode] = append(m.byWheel[rec.WheelCode], rec)
	return nil
}

func (m *MemoryStore) List(_ context.Context, code string, limit int) ([]Record, error) {
	m.mu.Lock()
	recs := append([]Record(nil), m.byWheel[code]...)
	m.mu.Unlock()

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].CompletedAt.After(recs[j].CompletedAt)
	})
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	if recs == nil {
		recs = []Record{}
	}
	return recs, nil
}

func (m *MemoryStore) Close() error { return nil }
