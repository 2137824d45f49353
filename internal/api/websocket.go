package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 512
	sendBuffer     = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub fans feed snapshots out to websocket subscribers.
type Hub struct {
	mu     sync.Mutex
	conns  map[*feedConn]struct{}
	logger *zap.Logger
	closed bool
}

// NewHub creates an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		conns:  make(map[*feedConn]struct{}),
		logger: logger,
	}
}

// Len returns the number of connected subscribers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// Broadcast encodes v once and queues it for every subscriber. Subscribers
// whose buffer is full miss the message.
func (h *Hub) Broadcast(v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("encode feed message", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.conns {
		select {
		case c.send <- data:
		default:
			h.logger.Warn("feed subscriber buffer full, dropping message")
		}
	}
}

// Close disconnects every subscriber and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.conns {
		close(c.send)
		delete(h.conns, c)
	}
}

func (h *Hub) register(c *feedConn) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.conns[c] = struct{}{}
	return true
}

func (h *Hub) unregister(c *feedConn) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.conns[c]; !ok {
		return false
	}
	delete(h.conns, c)
	close(c.send)
	return true
}

// feedConn is one websocket subscriber.
type feedConn struct {
	conn *websocket.Conn
	send chan []byte
	hub  *Hub
}

// handleFeedSocket upgrades the request and streams feed snapshots, starting
// with the current one.
func (s *Server) handleFeedSocket(c *gin.Context) {
	snapshot, err := s.orders.Recent(c.Request.Context(), s.historyLimit)
	if err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	initial, err := json.Marshal(feedResponse{Success: true, FeedSnapshot: snapshot})
	if err != nil {
		s.logger.Error("encode feed message", zap.Error(err))
		conn.Close()
		return
	}

	fc := &feedConn{
		conn: conn,
		send: make(chan []byte, sendBuffer),
		hub:  s.hub,
	}
	fc.send <- initial
	if !s.hub.register(fc) {
		conn.Close()
		return
	}
	s.monitor.Increment("feed_subscribers", 1)

	go fc.writePump()
	go func() {
		fc.readPump(s.logger)
		s.monitor.Increment("feed_subscribers", -1)
	}()
}

// readPump discards client messages and unregisters the connection once it
// closes.
func (c *feedConn) readPump(logger *zap.Logger) {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("feed websocket closed", zap.Error(err))
			}
			return
		}
	}
}

// writePump drains the send queue and keeps the connection alive with pings.
func (c *feedConn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
