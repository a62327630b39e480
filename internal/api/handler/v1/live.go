package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/fundhub/campaign-api/internal/domain"
)

const (
	liveWriteWait  = 10 * time.Second
	livePongWait   = 60 * time.Second
	livePingPeriod = (livePongWait * 9) / 10
	liveSendBuffer = 16
	liveReadLimit  = 512
)

type SubscriberGauge interface {
	LiveSubscribed()
	LiveUnsubscribed()
}

type liveClient struct {
	conn *websocket.Conn
	ref  domain.EntityRef
	send chan []byte
}

// LiveHub fans counter snapshots out to the websocket subscribers of each
// entity. All subscription state is owned by the Run goroutine.
type LiveHub struct {
	upgrader    websocket.Upgrader
	gauge       SubscriberGauge
	subscribers map[domain.EntityRef]map[*liveClient]struct{}
	register    chan *liveClient
	unregister  chan *liveClient
	broadcast   chan domain.CounterSnapshot
	done        chan struct{}
}

func NewLiveHub(allowedOrigins []string, gauge SubscriberGauge) *LiveHub {
	return &LiveHub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(allowedOrigins),
		},
		gauge:       gauge,
		subscribers: make(map[domain.EntityRef]map[*liveClient]struct{}),
		register:    make(chan *liveClient),
		unregister:  make(chan *liveClient),
		broadcast:   make(chan domain.CounterSnapshot, 256),
		done:        make(chan struct{}),
	}
}

func checkOrigin(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if len(allowed) == 0 || origin == "" {
			return true
		}
		return slices.Contains(allowed, origin)
	}
}

// Run serves registrations and broadcasts until ctx is done, then closes
// every subscriber.
func (h *LiveHub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for _, clients := range h.subscribers {
				for c := range clients {
					h.drop(c)
				}
			}
			return
		case c := <-h.register:
			clients, ok := h.subscribers[c.ref]
			if !ok {
				clients = make(map[*liveClient]struct{})
				h.subscribers[c.ref] = clients
			}
			clients[c] = struct{}{}
			if h.gauge != nil {
				h.gauge.LiveSubscribed()
			}
		case c := <-h.unregister:
			if _, ok := h.subscribers[c.ref][c]; ok {
				h.drop(c)
			}
		case snap := <-h.broadcast:
			clients := h.subscribers[snap.EntityRef]
			if len(clients) == 0 {
				continue
			}
			msg, err := json.Marshal(snap)
			if err != nil {
				zap.L().Error("json.Marshal snapshot", zap.Error(err))
				continue
			}
			for c := range clients {
				select {
				case c.send <- msg:
				default:
					zap.L().Info("dropping slow live subscriber", zap.String("entity_id", c.ref.ID))
					h.drop(c)
				}
			}
		}
	}
}

func (h *LiveHub) drop(c *liveClient) {
	clients := h.subscribers[c.ref]
	delete(clients, c)
	if len(clients) == 0 {
		delete(h.subscribers, c.ref)
	}
	close(c.send)
	if h.gauge != nil {
		h.gauge.LiveUnsubscribed()
	}
}

// Publish queues a snapshot without blocking the caller. Snapshots are
// discarded when the hub is backed up. Safe on a nil hub.
func (h *LiveHub) Publish(snap domain.CounterSnapshot) {
	if h == nil {
		return
	}

	select {
	case h.broadcast <- snap:
	default:
		zap.L().Warn("live feed backlog full, snapshot discarded", zap.String("entity_id", snap.ID))
	}
}

// Serve upgrades the request and subscribes the connection to ref. initial
// is written before any broadcast.
func (h *LiveHub) Serve(ctx *gin.Context, initial domain.CounterSnapshot) {
	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		zap.L().Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	msg, err := json.Marshal(initial)
	if err != nil {
		zap.L().Error("json.Marshal snapshot", zap.Error(err))
		_ = conn.Close()
		return
	}

	c := &liveClient{
		conn: conn,
		ref:  initial.EntityRef,
		send: make(chan []byte, liveSendBuffer),
	}
	c.send <- msg

	select {
	case h.register <- c:
	case <-h.done:
		_ = conn.Close()
		return
	}

	go c.writePump()
	go c.readPump(h)
}

func (c *liveClient) writePump() {
	ticker := time.NewTicker(livePingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump only watches for the peer going away; subscribers never send
// anything meaningful.
func (c *liveClient) readPump(h *LiveHub) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(liveReadLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(livePongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(livePongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				zap.L().Debug("live subscriber closed", zap.Error(err))
			}
			return
		}
	}
}
