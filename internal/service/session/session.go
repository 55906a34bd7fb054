package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"courier-dispatch/internal/entities"
)

type Session struct {
	repository Repository
	hasher     CodeHasher
	generator  CodeGenerator
	retractor  OfferRetractor
	now        func() time.Time
}

func New(
	repository Repository,
	hasher CodeHasher,
	generator CodeGenerator,
	retractor OfferRetractor,
) *Session {
	return &Session{
		repository: repository,
		hasher:     hasher,
		generator:  generator,
		retractor:  retractor,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *Session) StartSession(ctx context.Context, courierID int64, code string) (*entities.CourierSession, error) {
	if !isValidCourierID(courierID) {
		return nil, ErrInvalidCourierID
	}

	current, err := s.get(ctx, courierID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrCodeNotIssued
		}
		return nil, err
	}
	// состояние проверяется раньше кода: уже начатая смена не зависит от того, что прислали
	if current.State != entities.SessionInactive {
		return nil, ErrAlreadyActive
	}
	if !isValidCode(code) {
		return nil, ErrInvalidCode
	}

	if err := s.compare(current.CodeHash, code); err != nil {
		return nil, err
	}

	now := s.now()
	updated, err := s.repository.ChangeState(ctx, entities.SessionStateChange{
		CourierID:        courierID,
		From:             []entities.SessionState{entities.SessionInactive},
		To:               entities.SessionActive,
		StartedAt:        &now,
		At:               now,
		ExpectedCodeHash: current.CodeHash,
	})
	if err != nil {
		if errors.Is(err, ErrStateConflict) {
			return nil, s.startConflict(ctx, courierID)
		}
		return nil, fmt.Errorf("start session: %w", err)
	}
	return updated, nil
}

// PauseSession снимает офферы курьера так же, как EndSession: на паузе принять
// заказ нельзя, после возобновления их заново раздаст периодическая рассылка.
func (s *Session) PauseSession(ctx context.Context, courierID int64) (*entities.CourierSession, error) {
	paused, err := s.transit(ctx, courierID,
		[]entities.SessionState{entities.SessionActive},
		entities.SessionPaused,
		ErrSessionNotActive,
	)
	if err != nil {
		return nil, err
	}

	s.retractor.RetractCourier(ctx, courierID)
	return paused, nil
}

func (s *Session) ResumeSession(ctx context.Context, courierID int64) (*entities.CourierSession, error) {
	return s.transit(ctx, courierID,
		[]entities.SessionState{entities.SessionPaused},
		entities.SessionActive,
		ErrSessionNotPaused,
	)
}

// EndSession снимает все офферы курьера, но уже взятые заказы не трогает:
// курьер, закрывший смену посреди доставки, по-прежнему за неё отвечает.
func (s *Session) EndSession(ctx context.Context, courierID int64) (*entities.CourierSession, error) {
	ended, err := s.transit(ctx, courierID,
		[]entities.SessionState{entities.SessionActive, entities.SessionPaused},
		entities.SessionInactive,
		ErrSessionNotActive,
	)
	if err != nil {
		return nil, err
	}

	s.retractor.RetractCourier(ctx, courierID)
	return ended, nil
}

// RegenerateCode административная операция. Старый код перестаёт работать сразу,
// уже активную сессию не трогает. Открытый код возвращается только здесь.
func (s *Session) RegenerateCode(ctx context.Context, courierID int64) (string, *entities.CourierSession, error) {
	if !isValidCourierID(courierID) {
		return "", nil, ErrInvalidCourierID
	}

	code, err := s.generator.Generate()
	if err != nil {
		return "", nil, fmt.Errorf("generate code: %w", err)
	}
	hash, err := s.hasher.Hash(code)
	if err != nil {
		return "", nil, fmt.Errorf("hash code: %w", err)
	}

	session, err := s.repository.UpsertCode(ctx, courierID, hash, s.now())
	if err != nil {
		return "", nil, fmt.Errorf("store code: %w", err)
	}
	return code, session, nil
}

func (s *Session) VerifyCode(ctx context.Context, courierID int64, code string) error {
	if !isValidCode(code) {
		return ErrInvalidCode
	}

	current, err := s.get(ctx, courierID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return ErrCodeNotIssued
		}
		return err
	}
	return s.compare(current.CodeHash, code)
}

func (s *Session) RequireActive(ctx context.Context, courierID int64) error {
	current, err := s.get(ctx, courierID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return ErrSessionNotActive
		}
		return err
	}
	if !current.IsActive() {
		return ErrSessionNotActive
	}
	return nil
}

func (s *Session) GetSession(ctx context.Context, courierID int64) (*entities.CourierSession, error) {
	if !isValidCourierID(courierID) {
		return nil, ErrInvalidCourierID
	}
	return s.get(ctx, courierID)
}

func (s *Session) ListSessions(ctx context.Context) ([]entities.CourierSession, error) {
	sessions, err := s.repository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

func (s *Session) transit(
	ctx context.Context,
	courierID int64,
	from []entities.SessionState,
	to entities.SessionState,
	errWrongState error,
) (*entities.CourierSession, error) {
	if !isValidCourierID(courierID) {
		return nil, ErrInvalidCourierID
	}

	current, err := s.get(ctx, courierID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, errWrongState
		}
		return nil, err
	}
	if !stateIn(current.State, from) {
		return nil, errWrongState
	}

	change := entities.SessionStateChange{
		CourierID: courierID,
		From:      from,
		To:        to,
		At:        s.now(),
	}
	if to != entities.SessionInactive {
		change.StartedAt = current.StartedAt
	}

	updated, err := s.repository.ChangeState(ctx, change)
	if err != nil {
		if errors.Is(err, ErrStateConflict) {
			return nil, errWrongState
		}
		return nil, fmt.Errorf("change session state to %s: %w", to, err)
	}
	return updated, nil
}

func (s *Session) startConflict(ctx context.Context, courierID int64) error {
	current, err := s.get(ctx, courierID)
	if err != nil {
		return err
	}
	if current.State != entities.SessionInactive {
		return ErrAlreadyActive
	}
	// состояние прежнее, значит код успели перевыпустить
	return ErrInvalidCode
}

func (s *Session) get(ctx context.Context, courierID int64) (*entities.CourierSession, error) {
	current, err := s.repository.GetByCourierID(ctx, courierID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return current, nil
}

func (s *Session) compare(hash, code string) error {
	if hash == "" {
		return ErrCodeNotIssued
	}
	ok, err := s.hasher.Compare(hash, code)
	if err != nil {
		return fmt.Errorf("compare code: %w", err)
	}
	if !ok {
		return ErrInvalidCode
	}
	return nil
}

func stateIn(state entities.SessionState, states []entities.SessionState) bool {
	for _, s := range states {
		if s == state {
			return true
		}
	}
	return false
}
