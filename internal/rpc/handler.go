package rpc

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/gorilla/websocket"

	"github.com/thruflo/rota/internal/logging"
)

// maxCallSize bounds the size of one encoded call.
const maxCallSize = 64 << 10

// ServeHTTP answers a POSTed Call with a JSON Reply. Backend failures are
// reported inside the reply with status 200; only undecodable requests get
// an HTTP error status.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var call Call
	if err := json.NewDecoder(io.LimitReader(r.Body, maxCallSize)).Decode(&call); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	reply := d.Dispatch(r.Context(), call)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	_ = json.NewEncoder(w).Encode(reply)
}

// WebSocketHandler serves calls over a WebSocket connection, one reply per
// call in arrival order.
type WebSocketHandler struct {
	dispatcher *Dispatcher
	upgrader   websocket.Upgrader
	logger     *logging.Logger
}

// NewWebSocketHandler returns a handler that accepts same-origin
// connections and dispatches their calls to d.
func NewWebSocketHandler(d *Dispatcher, logger *logging.Logger) *WebSocketHandler {
	if logger == nil {
		logger = logging.Default()
	}
	h := &WebSocketHandler{dispatcher: d, logger: logger}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// checkOrigin allows requests without an Origin header and requests whose
// Origin host matches the request host.
func (h *WebSocketHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err == nil && u.Host == r.Host {
		return true
	}
	h.logger.Warn("rejected websocket origin", "origin", origin, "host", r.Host)
	return false
}

func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxCallSize)

	for {
		var call Call
		if err := conn.ReadJSON(&call); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Debug("websocket read ended", "error", err)
			}
			return
		}

		reply := h.dispatcher.Dispatch(r.Context(), call)
		if err := conn.WriteJSON(reply); err != nil {
			h.logger.Warn("failed to write websocket reply", "fn", call.Procedure, "error", err)
			return
		}
	}
}
