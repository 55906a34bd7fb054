package courierchannel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"courier-dispatch/internal/entities"
	"courier-dispatch/pkg/logger"
	"courier-dispatch/pkg/retrier"
	"courier-dispatch/pkg/retrier/backoff_adapter"

	"github.com/gorilla/websocket"
)

const (
	randomization = 0.5
	multiplier    = 2
	writeWait     = time.Second
)

type Config struct {
	URL   string
	Token string

	MaxAttempts     uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
	// 0 - без дедлайна чтения
	ReadTimeout time.Duration
}

// Manager держит канал курьера открытым и переподключается при обрыве.
// Состояние канала сервер не хранит: после подключения клиент сверяется через Resyncer.
type Manager struct {
	log      handlerLogger
	cfg      Config
	dialer   *websocket.Dialer
	listener Listener
	resync   Resyncer
}

func New(log handlerLogger, cfg Config, listener Listener, resync Resyncer) *Manager {
	return &Manager{
		log:      log,
		cfg:      cfg,
		dialer:   websocket.DefaultDialer,
		listener: listener,
		resync:   resync,
	}
}

// Run блокируется, пока канал жив. Возвращает nil после отмены ctx,
// ErrRetriesExhausted после cfg.MaxAttempts неудачных попыток подряд
// и ErrUnauthorized, если сервер отверг токен. После ошибки Run можно вызвать снова.
func (m *Manager) Run(ctx context.Context) error {
	reconnect := false
	for {
		ws, err := m.dial(ctx, reconnect)
		if err != nil {
			m.listener.OnState(entities.ConnectionState{Status: entities.ConnectionDisconnected})
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		m.listener.OnState(entities.ConnectionState{Status: entities.ConnectionConnected})
		m.log.Info("courier channel connected", logger.NewField("reconnect", reconnect))

		if err := m.resync.Resync(ctx); err != nil {
			m.log.Warn("resync after connect failed", logger.NewField("error", err))
		}

		err = m.listen(ctx, ws)
		if ctx.Err() != nil {
			m.listener.OnState(entities.ConnectionState{Status: entities.ConnectionDisconnected})
			return nil
		}

		m.log.Warn("courier channel lost", logger.NewField("error", err))
		reconnect = true
	}
}

func (m *Manager) dial(ctx context.Context, reconnect bool) (*websocket.Conn, error) {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+m.cfg.Token)

	var (
		ws      *websocket.Conn
		attempt uint64
	)
	r := backoff_adapter.New(retrier.Config{
		InitialInterval: m.cfg.InitialInterval,
		MaxInterval:     m.cfg.MaxInterval,
		Randomization:   randomization,
		Multiplier:      multiplier,
		ShouldRetry: func(err error) bool {
			return !errors.Is(err, ErrUnauthorized) && attempt < m.cfg.MaxAttempts
		},
		Notify: func(err error, n uint64, delay time.Duration) {
			m.log.Warn("courier channel dial failed",
				logger.NewField("attempt", n),
				logger.NewField("delay", delay.String()),
				logger.NewField("error", err),
			)
		},
	})

	err := r.ExecuteWithContext(ctx, func(ctx context.Context) error {
		attempt++
		if reconnect || attempt > 1 {
			m.listener.OnState(entities.ConnectionState{
				Status:      entities.ConnectionReconnecting,
				Attempt:     attempt,
				MaxAttempts: m.cfg.MaxAttempts,
			})
		}

		conn, resp, err := m.dialer.DialContext(ctx, m.cfg.URL, header)
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
		if err != nil {
			if resp != nil && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
				return fmt.Errorf("%w: %s", ErrUnauthorized, resp.Status)
			}
			return err
		}
		ws = conn
		return nil
	})
	switch {
	case err == nil:
		return ws, nil
	case errors.Is(err, ErrUnauthorized), ctx.Err() != nil:
		return nil, err
	default:
		return nil, fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, attempt, err)
	}
}

func (m *Manager) listen(ctx context.Context, ws *websocket.Conn) error {
	defer ws.Close()

	stop := context.AfterFunc(ctx, func() {
		_ = ws.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait),
		)
		_ = ws.Close()
	})
	defer stop()

	m.extendDeadline(ws)
	ws.SetPingHandler(func(data string) error {
		m.extendDeadline(ws)
		err := ws.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(writeWait))
		if errors.Is(err, websocket.ErrCloseSent) {
			return nil
		}
		return err
	})

	for {
		_, payload, err := ws.ReadMessage()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrChannelDisconnected, err)
		}
		m.extendDeadline(ws)

		var event entities.PushEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			m.log.Warn("skip malformed push event", logger.NewField("error", err))
			continue
		}
		m.listener.OnEvent(event)
	}
}

func (m *Manager) extendDeadline(ws *websocket.Conn) {
	if m.cfg.ReadTimeout > 0 {
		_ = ws.SetReadDeadline(time.Now().Add(m.cfg.ReadTimeout))
	}
}
