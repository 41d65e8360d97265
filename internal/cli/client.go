package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/thruflo/rota/internal/config"
	"github.com/thruflo/rota/internal/logging"
	"github.com/thruflo/rota/internal/page"
	"github.com/thruflo/rota/internal/rpc"
	"github.com/thruflo/rota/internal/session"
)

const (
	transportHTTP = "http"
	transportWS   = "ws"

	// serverURLEnv names the environment variable consulted when --url is
	// not given.
	serverURLEnv = "ROTA_URL"
)

var (
	serverURL   string
	transport   string
	sessionPath string
)

// addClientFlags registers the flags shared by commands that talk to a
// running server.
func addClientFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&serverURL, "url", "", "Base URL of the rota server (default $"+serverURLEnv+" or http://localhost:"+strconv.Itoa(config.DefaultServerPort)+")")
	cmd.Flags().StringVar(&transport, "transport", transportHTTP, "RPC transport: http or ws")
	cmd.Flags().StringVar(&sessionPath, "session", "", "Session file (default <user config dir>/rota/session.yaml)")
}

func resolveServerURL() (string, error) {
	raw := serverURL
	if raw == "" {
		raw = os.Getenv(serverURLEnv)
	}
	if raw == "" {
		raw = "http://localhost:" + strconv.Itoa(config.DefaultServerPort)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("invalid server URL %q: %w", raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("invalid server URL %q: expected http(s)://host[:port]", raw)
	}
	return strings.TrimSuffix(raw, "/"), nil
}

func resolveSessionPath() (string, error) {
	if sessionPath != "" {
		return sessionPath, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(dir, "rota", "session.yaml"), nil
}

// client is a connection to a rota server plus the local session file.
type client struct {
	baseURL string
	backend rpc.Backend
	store   *session.FileStore
	closer  io.Closer
}

// openLocal opens the session file without connecting to the server.
// The returned client has no backend.
func openLocal() (*client, error) {
	baseURL, err := resolveServerURL()
	if err != nil {
		return nil, err
	}

	path, err := resolveSessionPath()
	if err != nil {
		return nil, err
	}
	store, err := session.OpenFileStore(path)
	if err != nil {
		return nil, err
	}

	return &client{baseURL: baseURL, store: store}, nil
}

// openClient opens the session file and connects to the server over the
// transport selected by --transport.
func openClient(ctx context.Context) (*client, error) {
	c, err := openLocal()
	if err != nil {
		return nil, err
	}

	switch transport {
	case transportHTTP:
		c.backend = rpc.NewHTTPClient(c.baseURL, rpc.WithLogger(logging.With("component", "rpc")))
	case transportWS:
		ws, err := rpc.DialWS(ctx, c.baseURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to %s: %w", c.baseURL, err)
		}
		c.backend = ws
		c.closer = ws
	default:
		return nil, fmt.Errorf("unknown transport %q (want %s or %s)", transport, transportHTTP, transportWS)
	}

	return c, nil
}

// Close releases the connection, if the transport holds one.
func (c *client) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}

// bridge returns a session bridge that prints status messages to errOut and
// page changes to out. landed receives the page navigated to, if any.
func (c *client) bridge(out, errOut io.Writer, landed *page.ID) *session.Bridge {
	display := session.DisplayFunc(func(s session.Status) {
		if s.Tone == session.ToneBad {
			fmt.Fprintf(errOut, "error: %s\n", s.Message)
			return
		}
		fmt.Fprintln(errOut, s.Message)
	})

	open := session.URLNavigator{
		Path: c.baseURL + "/",
		Open: func(location string) error {
			_, err := fmt.Fprintf(out, "Open %s\n", location)
			return err
		},
	}
	nav := session.NavigatorFunc(func(id page.ID) error {
		if err := open.Navigate(id); err != nil {
			return err
		}
		*landed = id
		return nil
	})

	return session.New(c.store, c.backend, nav, display, session.WithLogger(logging.With("component", "session")))
}

// errNotLoggedIn is returned by commands that need a saved session.
var errNotLoggedIn = errors.New("not logged in (run 'rota login')")
