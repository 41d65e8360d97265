package rpc

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/thruflo/rota/internal/logging"
)

// WebSocketPath is the HTTP path of the WebSocket call endpoint.
const WebSocketPath = "/rpc/ws"

// WSClient calls the backend over a single WebSocket connection. Calls are
// serialized: each one waits for its reply before the next is sent.
type WSClient struct {
	procedures

	mu   sync.Mutex
	conn *websocket.Conn
}

// WebSocketURL converts an http(s) base URL into the ws(s) call endpoint.
func WebSocketURL(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported URL scheme %q", u.Scheme)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + WebSocketPath
	return u.String(), nil
}

// DialWS connects to the WebSocket endpoint of the server at baseURL.
func DialWS(ctx context.Context, baseURL string, header http.Header) (*WSClient, error) {
	wsURL, err := WebSocketURL(baseURL)
	if err != nil {
		return nil, err
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("failed to connect to %s: status %d: %w", wsURL, resp.StatusCode, err)
		}
		return nil, fmt.Errorf("failed to connect to %s: %w", wsURL, err)
	}

	c := &WSClient{conn: conn}
	c.procedures = procedures{rt: c, logger: logging.Default()}
	return c, nil
}

// Close closes the underlying connection.
func (c *WSClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.Close()
}

func (c *WSClient) roundTrip(ctx context.Context, call Call) (Reply, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if deadline, ok := ctx.Deadline(); ok {
		_ = c.conn.SetWriteDeadline(deadline)
		_ = c.conn.SetReadDeadline(deadline)
	}

	// Cancellation unblocks a pending read even without a deadline. The
	// connection is unusable afterwards.
	interrupted := make(chan struct{})
	stop := context.AfterFunc(ctx, func() {
		_ = c.conn.SetWriteDeadline(time.Now())
		_ = c.conn.SetReadDeadline(time.Now())
		close(interrupted)
	})
	defer func() {
		if !stop() {
			<-interrupted
		}
		_ = c.conn.SetWriteDeadline(time.Time{})
		_ = c.conn.SetReadDeadline(time.Time{})
	}()

	if err := c.conn.WriteJSON(call); err != nil {
		return Reply{}, fmt.Errorf("failed to send %s: %w", call.Procedure, err)
	}

	for {
		var reply Reply
		if err := c.conn.ReadJSON(&reply); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return Reply{}, errors.Join(ctxErr, err)
			}
			return Reply{}, fmt.Errorf("failed to read reply to %s: %w", call.Procedure, err)
		}
		// Replies to abandoned calls are skipped.
		if reply.ID == call.ID {
			return reply, nil
		}
	}
}

var _ Backend = (*WSClient)(nil)
