package hub

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"courier-dispatch/internal/entities"
	"courier-dispatch/pkg/logger"

	"github.com/gorilla/websocket"
)

type Config struct {
	SendBuffer   int
	PingInterval time.Duration
	WriteTimeout time.Duration
}

// OnConnectFunc вызывается после регистрации соединения, например чтобы дослать живые офферы.
type OnConnectFunc func(ctx context.Context, courierID int64)

// Hub держит по одному push-каналу на курьера. Новое соединение вытесняет старое.
type Hub struct {
	log      handlerLogger
	cfg      Config
	upgrader websocket.Upgrader
	now      func() time.Time

	mu        sync.RWMutex
	conns     map[int64]*conn
	onConnect OnConnectFunc
}

func New(log handlerLogger, cfg Config) *Hub {
	return &Hub{
		log: log,
		cfg: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// курьерские клиенты не браузерные, origin не проверяем
			CheckOrigin: func(*http.Request) bool { return true },
		},
		now:   time.Now,
		conns: make(map[int64]*conn),
	}
}

func (h *Hub) OnConnect(fn OnConnectFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onConnect = fn
}

// Serve апгрейдит запрос и регистрирует канал курьера. Возвращается сразу после регистрации,
// чтение и запись идут в своих горутинах.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, courierID int64) error {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("upgrade: %w", err)
	}

	c := &conn{
		courierID: courierID,
		ws:        ws,
		send:      make(chan entities.PushEvent, h.cfg.SendBuffer),
		done:      make(chan struct{}),
	}

	h.mu.Lock()
	old := h.conns[courierID]
	h.conns[courierID] = c
	onConnect := h.onConnect
	h.mu.Unlock()

	if old != nil {
		old.close()
	} else {
		ConnectedCouriers.Inc()
	}

	h.log.Info("courier channel connected",
		logger.NewField("courier_id", courierID),
		logger.NewField("replaced", old != nil),
	)

	go h.writeLoop(c)
	go h.readLoop(c)

	h.Push(courierID, entities.NewConnectionEvent(entities.ConnectionState{Status: entities.ConnectionConnected}, h.now()))
	if onConnect != nil {
		onConnect(context.WithoutCancel(r.Context()), courierID)
	}
	return nil
}

// Push не блокирует: при переполненной очереди событие отбрасывается, клиент
// восстановит состояние через REST при следующем подключении.
func (h *Hub) Push(courierID int64, event entities.PushEvent) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	c, ok := h.conns[courierID]
	if !ok {
		PushesTotal.WithLabelValues(string(event.Type), resultNotConnected).Inc()
		return false
	}

	select {
	case c.send <- event:
		PushesTotal.WithLabelValues(string(event.Type), resultQueued).Inc()
		return true
	case <-c.done:
		PushesTotal.WithLabelValues(string(event.Type), resultNotConnected).Inc()
		return false
	default:
		PushesTotal.WithLabelValues(string(event.Type), resultDropped).Inc()
		h.log.Warn("courier send queue is full, event dropped",
			logger.NewField("courier_id", courierID),
			logger.NewField("type", event.Type),
		)
		return false
	}
}

func (h *Hub) Connected(courierID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.conns[courierID]
	return ok
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Close закрывает все каналы, используется при остановке сервиса.
func (h *Hub) Close() {
	h.mu.Lock()
	conns := h.conns
	h.conns = make(map[int64]*conn)
	h.mu.Unlock()

	for _, c := range conns {
		c.close()
		ConnectedCouriers.Dec()
	}
}

func (h *Hub) unregister(c *conn) {
	h.mu.Lock()
	current, ok := h.conns[c.courierID]
	if ok && current == c {
		delete(h.conns, c.courierID)
	}
	h.mu.Unlock()

	if ok && current == c {
		ConnectedCouriers.Dec()
		h.log.Info("courier channel disconnected",
			logger.NewField("courier_id", c.courierID),
		)
	}
	c.close()
}

func (h *Hub) readLoop(c *conn) {
	defer h.unregister(c)

	// без ответа на пинг за два интервала соединение считаем мёртвым
	deadline := 2 * h.cfg.PingInterval
	_ = c.ws.SetReadDeadline(h.now().Add(deadline))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(h.now().Add(deadline))
	})

	for {
		// входящие сообщения курьера не используются, читаем только ради control-фреймов
		if _, _, err := c.ws.NextReader(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Debug("courier channel read failed",
					logger.NewField("courier_id", c.courierID),
					logger.NewField("error", err),
				)
			}
			return
		}
	}
}

func (h *Hub) writeLoop(c *conn) {
	ticker := time.NewTicker(h.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()

	for {
		select {
		case event := <-c.send:
			_ = c.ws.SetWriteDeadline(h.now().Add(h.cfg.WriteTimeout))
			if err := c.ws.WriteJSON(event); err != nil {
				h.log.Debug("courier channel write failed",
					logger.NewField("courier_id", c.courierID),
					logger.NewField("error", err),
				)
				c.close()
				return
			}

		case <-ticker.C:
			err := c.ws.WriteControl(websocket.PingMessage, nil, h.now().Add(h.cfg.WriteTimeout))
			if err != nil {
				c.close()
				return
			}

		case <-c.done:
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
			_ = c.ws.WriteControl(websocket.CloseMessage, msg, h.now().Add(h.cfg.WriteTimeout))
			return
		}
	}
}

type conn struct {
	courierID int64
	ws        *websocket.Conn
	send      chan entities.PushEvent

	done      chan struct{}
	closeOnce sync.Once
}

func (c *conn) close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}
