package eligibility

import (
	"courier-dispatch/internal/entities"
)

type listCandidatesRequest struct {
	OrderID    string  `json:"order_id"`
	Type       string  `json:"type"`
	ProviderID int64   `json:"provider_id"`
	ClientID   int64   `json:"client_id"`
	PickupFrom []int64 `json:"pickup_from,omitempty"`
}

type listCandidatesResponse struct {
	CourierIDs []int64 `json:"courier_ids"`
}

func toRequest(order *entities.Order) *listCandidatesRequest {
	snapshot := order.Snapshot()
	return &listCandidatesRequest{
		OrderID:    order.ID,
		Type:       order.Type.String(),
		ProviderID: order.ProviderID,
		ClientID:   order.ClientID,
		PickupFrom: snapshot.PickupFrom,
	}
}

// toDomain убирает дубли и невалидные id, порядок сохраняется.
func toDomain(resp *listCandidatesResponse) []int64 {
	if resp == nil || len(resp.CourierIDs) == 0 {
		return []int64{}
	}

	seen := make(map[int64]struct{}, len(resp.CourierIDs))
	ids := make([]int64, 0, len(resp.CourierIDs))
	for _, id := range resp.CourierIDs {
		if id <= 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}
