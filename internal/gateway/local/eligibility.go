package local

import (
	"context"
	"fmt"

	"courier-dispatch/internal/entities"
)

// Eligibility допускает к заказу любого курьера с активной сменой.
// Используется, когда внешний сервис допуска не настроен.
type Eligibility struct {
	sessions ActiveLister
}

func NewEligibility(sessions ActiveLister) *Eligibility {
	return &Eligibility{sessions: sessions}
}

func (e *Eligibility) ListCandidates(ctx context.Context, _ *entities.Order) ([]int64, error) {
	ids, err := e.sessions.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("local eligibility, list active: %w", err)
	}
	return ids, nil
}
