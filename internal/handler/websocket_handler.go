package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/luizFelippedev/portfolio-backend/internal/realtime"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	pongWait   = 60 * time.Second
)

// WSHandler upgrades /ws requests and runs the read/write pumps for one
// connection. All registry mutations go through the hub; the pumps only
// move frames.
type WSHandler struct {
	hub        *realtime.Hub
	dispatcher *realtime.Dispatcher
	upgrader   websocket.Upgrader
	maxMsgSize int64
	msgRate    rate.Limit
	msgBurst   int
	logger     *zap.Logger
}

// WSOptions bundles transport tuning knobs.
type WSOptions struct {
	ReadBufferSize  int
	WriteBufferSize int
	MaxMessageSize  int64
	MessagesPerSec  float64
	MessageBurst    int
}

// NewWSHandler creates the WebSocket handler.
func NewWSHandler(hub *realtime.Hub, dispatcher *realtime.Dispatcher, opts WSOptions, logger *zap.Logger) *WSHandler {
	return &WSHandler{
		hub:        hub,
		dispatcher: dispatcher,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  opts.ReadBufferSize,
			WriteBufferSize: opts.WriteBufferSize,
			CheckOrigin: func(r *http.Request) bool {
				return true // portfolio site and dashboard share the origin in prod; tighten there
			},
		},
		maxMsgSize: opts.MaxMessageSize,
		msgRate:    rate.Limit(opts.MessagesPerSec),
		msgBurst:   opts.MessageBurst,
		logger:     logger,
	}
}

// ServeWS handles GET /ws.
func (h *WSHandler) ServeWS(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	session := h.hub.Register(realtime.ClientMeta{
		RemoteIP:  c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})

	go h.writePump(conn, session)
	h.readPump(c, conn, session)
}

// readPump reads frames in order and feeds them to the dispatcher, so one
// connection's register -> authenticate -> join -> ... sequence is never
// reordered. It owns Unregister: exactly once, after the last frame.
func (h *WSHandler) readPump(c *gin.Context, conn *websocket.Conn, session *realtime.Session) {
	defer func() {
		h.hub.Unregister(session.ID)
		_ = conn.Close()
	}()

	if h.maxMsgSize > 0 {
		conn.SetReadLimit(h.maxMsgSize)
	}
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	limiter := rate.NewLimiter(h.msgRate, h.msgBurst)
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("read error", zap.String("connection_id", session.ID), zap.Error(err))
			}
			return
		}
		if !limiter.Allow() {
			h.logger.Warn("message rate exceeded, frame dropped",
				zap.String("connection_id", session.ID))
			continue
		}
		h.dispatcher.HandleMessage(c.Request.Context(), session.ID, raw)
	}
}

// writePump drains the session outbox onto the wire and keeps the
// connection alive with pings. It exits when the outbox is closed by
// Unregister or when a write fails.
func (h *WSHandler) writePump(conn *websocket.Conn, session *realtime.Session) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case frame, ok := <-session.Outbox():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
