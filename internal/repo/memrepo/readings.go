package memrepo

import (
	"context"
	"sync"

	"github.com/milad/energycost/internal/domain"
	"github.com/milad/energycost/internal/repo"
)

var _ repo.ReadingRepository = (*Readings)(nil)

// Readings is a process-wide in-memory reading store. Appends to one meter are
// serialized by that meter's lock; different meters do not contend.
type Readings struct {
	mu     sync.RWMutex
	meters map[string]*meterReadings
}

type meterReadings struct {
	mu       sync.Mutex
	readings []domain.Reading
}

func NewReadings() *Readings {
	return &Readings{meters: make(map[string]*meterReadings)}
}

func (r *Readings) Append(ctx context.Context, meterID string, readings []domain.Reading) error {
	_ = ctx

	m := r.meter(meterID)
	m.mu.Lock()
	m.readings = append(m.readings, readings...)
	m.mu.Unlock()
	return nil
}

func (r *Readings) List(ctx context.Context, meterID string) ([]domain.Reading, error) {
	_ = ctx

	r.mu.RLock()
	m, ok := r.meters[meterID]
	r.mu.RUnlock()
	if !ok {
		return nil, repo.ErrNotFound
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.readings) == 0 {
		return nil, repo.ErrNotFound
	}
	return append([]domain.Reading(nil), m.readings...), nil
}

// meter returns the entry for meterID, creating it on first use.
func (r *Readings) meter(meterID string) *meterReadings {
	r.mu.RLock()
	m, ok := r.meters[meterID]
	r.mu.RUnlock()
	if ok {
		return m
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.meters[meterID]; ok {
		return m
	}
	m = &meterReadings{}
	r.meters[meterID] = m
	return m
}
