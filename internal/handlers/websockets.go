package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"packaging_cell/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 1 << 12 // 4 KB

	// how often the published view is checked for a new tick
	defaultCheckInterval = 250 * time.Millisecond
	maxCheckInterval     = 10 * time.Second
)

// Envelope types pushed to the client.
const (
	msgView  = "view"
	msgError = "error"

	// client → server
	msgRefresh = "refresh"
)

type wsEnvelope struct {
	Type  string           `json:"type"`
	Data  *models.CellView `json:"data,omitempty"`
	Error string           `json:"error,omitempty"`
}

type wsRequest struct {
	Type string `json:"type"`
}

// The operator screen is served from other origins on the cell network.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// viewStream forwards the published cell view, skipping ticks already sent.
type viewStream struct {
	h        *Handler
	conn     *websocket.Conn
	lastTick time.Time
	sent     bool
}

// push writes the current view when the poller has published a new one, or
// unconditionally when force is set. A read failure is reported to the client
// as an error envelope.
func (s *viewStream) push(ctx context.Context, force bool) error {
	v, err := s.h.services.Monitoring.GetView(ctx)
	if err != nil {
		if s.h.log != nil {
			s.h.log.Errorw("ws_get_view_failed", "err", err)
		}
		return s.write(wsEnvelope{Type: msgError, Error: "cell view unavailable"})
	}
	if s.sent && !force && v.UpdatedAt.Equal(s.lastTick) {
		return nil
	}
	s.lastTick, s.sent = v.UpdatedAt, true
	return s.write(wsEnvelope{Type: msgView, Data: &v})
}

func (s *viewStream) write(env wsEnvelope) error {
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(env)
}

// @Summary      Live cell view
// @Description  WebSocket stream of {"type":"view","data":CellView}, sent once on connect and then for every new poller tick. Send {"type":"refresh"} to get the current view again. The check cadence is ?interval=500ms or ?interval_ms=500 (max 10s).
// @Tags         cell
// @Param        interval     query  string  false  "Check interval (Go duration)"
// @Param        interval_ms  query  int     false  "Check interval in milliseconds"
// @Success      101  {object}  wsEnvelope
// @Router       /ws [get]
func (h *Handler) wsConnect(c *gin.Context) {
	interval := parseCheckInterval(c)

	// fail before the upgrade so the client sees a plain HTTP error
	ctx := c.Request.Context()
	if _, err := h.services.Monitoring.GetView(ctx); err != nil {
		h.respondError(c, "ws_get_view_failed", err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	refresh := make(chan struct{}, 1)
	done := make(chan struct{})
	go h.readRequests(conn, refresh, done)

	stream := &viewStream{h: h, conn: conn}
	if err := stream.push(ctx, true); err != nil {
		if h.log != nil {
			h.log.Infow("ws_write_failed_initial", "err", err)
		}
		return
	}

	check := time.NewTicker(interval)
	ping := time.NewTicker(pingPeriod)
	defer func() {
		check.Stop()
		ping.Stop()
	}()

	for {
		var force bool
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "err", err)
				}
				return
			}
			continue
		case <-refresh:
			force = true
		case <-check.C:
		}
		if err := stream.push(ctx, force); err != nil {
			if h.log != nil {
				h.log.Infow("ws_write_failed", "err", err)
			}
			return
		}
	}
}

// parseCheckInterval reads ?interval=2s or ?interval_ms=2000. Out-of-range or
// malformed values fall back to the default; interval wins over interval_ms.
func parseCheckInterval(c *gin.Context) time.Duration {
	if s := c.Query("interval"); s != "" {
		if d, err := time.ParseDuration(s); err == nil && d > 0 && d <= maxCheckInterval {
			return d
		}
	}
	if ms := c.Query("interval_ms"); ms != "" {
		if v, err := strconv.Atoi(ms); err == nil && v > 0 {
			if d := time.Duration(v) * time.Millisecond; d > 0 && d <= maxCheckInterval {
				return d
			}
		}
	}
	return defaultCheckInterval
}

// readRequests handles client frames until the connection closes. Unknown or
// malformed messages are ignored.
func (h *Handler) readRequests(conn *websocket.Conn, refresh chan<- struct{}, done chan<- struct{}) {
	defer close(done)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if h.log != nil {
				h.log.Infow("ws_read_closed", "err", err)
			}
			return
		}
		var req wsRequest
		if json.Unmarshal(data, &req) != nil || req.Type != msgRefresh {
			continue
		}
		select {
		case refresh <- struct{}{}:
		default:
		}
	}
}
