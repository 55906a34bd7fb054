package session

import "courier-dispatch/internal/entities"

func ToDomain(s *SessionDB) *entities.CourierSession {
	if s == nil {
		return nil
	}

	return &entities.CourierSession{
		CourierID:     s.CourierID,
		State:         entities.SessionState(s.State),
		StartedAt:     s.StartedAt,
		CodeHash:      s.CodeHash,
		CodeRotatedAt: s.CodeRotatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

func ToDomainList(sessionsDB []SessionDB) []entities.CourierSession {
	if len(sessionsDB) == 0 {
		return []entities.CourierSession{}
	}

	result := make([]entities.CourierSession, len(sessionsDB))
	for i, sessionDB := range sessionsDB {
		result[i] = *ToDomain(&sessionDB)
	}
	return result
}

func statesToStrings(states []entities.SessionState) []string {
	result := make([]string, len(states))
	for i, s := range states {
		result[i] = s.String()
	}
	return result
}
