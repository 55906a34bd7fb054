package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"courier-dispatch/internal/entities"
	"courier-dispatch/internal/service/session"
)

type Sessions struct {
	mu       sync.RWMutex
	sessions map[int64]entities.CourierSession
}

func NewSessions() *Sessions {
	return &Sessions{
		sessions: make(map[int64]entities.CourierSession),
	}
}

func (r *Sessions) GetByCourierID(_ context.Context, courierID int64) (*entities.CourierSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[courierID]
	if !ok {
		return nil, session.ErrSessionNotFound
	}
	return &s, nil
}

func (r *Sessions) UpsertCode(_ context.Context, courierID int64, codeHash string, at time.Time) (*entities.CourierSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[courierID]
	if !ok {
		s = entities.CourierSession{
			CourierID: courierID,
			State:     entities.SessionInactive,
		}
	}
	s.CodeHash = codeHash
	s.CodeRotatedAt = at
	s.UpdatedAt = at

	r.sessions[courierID] = s
	return &s, nil
}

func (r *Sessions) ChangeState(_ context.Context, change entities.SessionStateChange) (*entities.CourierSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[change.CourierID]
	if !ok {
		return nil, session.ErrStateConflict
	}
	if !containsState(change.From, s.State) {
		return nil, session.ErrStateConflict
	}
	if change.ExpectedCodeHash != "" && s.CodeHash != change.ExpectedCodeHash {
		return nil, session.ErrStateConflict
	}

	s.State = change.To
	s.StartedAt = change.StartedAt
	s.UpdatedAt = change.At

	r.sessions[change.CourierID] = s
	return &s, nil
}

func (r *Sessions) FilterActive(_ context.Context, courierIDs []int64) ([]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]int64, 0, len(courierIDs))
	for _, id := range courierIDs {
		if s, ok := r.sessions[id]; ok && s.State == entities.SessionActive {
			result = append(result, id)
		}
	}
	return result, nil
}

func (r *Sessions) ListActive(_ context.Context) ([]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]int64, 0)
	for id, s := range r.sessions {
		if s.State == entities.SessionActive {
			result = append(result, id)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i] < result[j] })
	return result, nil
}

func (r *Sessions) List(_ context.Context) ([]entities.CourierSession, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]entities.CourierSession, 0, len(r.sessions))
	for _, s := range r.sessions {
		result = append(result, s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CourierID < result[j].CourierID })
	return result, nil
}

func containsState(states []entities.SessionState, state entities.SessionState) bool {
	for _, s := range states {
		if s == state {
			return true
		}
	}
	return false
}
