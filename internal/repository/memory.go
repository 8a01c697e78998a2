package repository

import (
	"context"
	"sync"
	"time"

	"hotelbot/internal/models"
)

// MemoryStateRepository хранит состояние в памяти процесса. Используется
// как резерв, когда Redis недоступен, поэтому уважает тот же TTL.
type MemoryStateRepository struct {
	mu         sync.Mutex
	states     map[int64]memoryStateEntry
	rateLimits map[int64]*rateLimitEntry
	ttl        time.Duration
}

type memoryStateEntry struct {
	state     *models.GuestState
	expiresAt time.Time
}

type rateLimitEntry struct {
	count     int
	expiresAt time.Time
}

func NewMemoryStateRepository(ttl time.Duration) *MemoryStateRepository {
	return &MemoryStateRepository{
		states:     make(map[int64]memoryStateEntry),
		rateLimits: make(map[int64]*rateLimitEntry),
		ttl:        ttl,
	}
}

func (r *MemoryStateRepository) GetState(ctx context.Context, userID int64) (*models.GuestState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.states[userID]
	if !ok {
		return nil, nil
	}
	if r.ttl > 0 && time.Now().After(entry.expiresAt) {
		delete(r.states, userID)
		return nil, nil
	}
	return entry.state, nil
}

func (r *MemoryStateRepository) SetState(ctx context.Context, state *models.GuestState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.states[state.UserID] = memoryStateEntry{
		state:     state,
		expiresAt: time.Now().Add(r.ttl),
	}
	return nil
}

func (r *MemoryStateRepository) ClearState(ctx context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.states, userID)
	return nil
}

func (r *MemoryStateRepository) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	entry, ok := r.rateLimits[userID]
	if !ok || now.After(entry.expiresAt) {
		entry = &rateLimitEntry{count: 1, expiresAt: now.Add(window)}
		r.rateLimits[userID] = entry
		return entry.count <= limit, nil
	}

	entry.count++
	return entry.count <= limit, nil
}
