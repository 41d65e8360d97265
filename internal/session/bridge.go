package session

import (
	"context"
	"errors"
	"strings"

	"github.com/thruflo/rota/internal/logging"
	"github.com/thruflo/rota/internal/page"
	"github.com/thruflo/rota/internal/rpc"
)

const (
	// MsgLoggingIn is shown while a login call is in flight.
	MsgLoggingIn = "Logging in..."
	// MsgLoginFailed is shown when a rejected login carries no message.
	MsgLoginFailed = "Login failed"
)

// ErrNavigated is reported by Bridge.Err once the bridge has navigated away.
var ErrNavigated = errors.New("session: bridge has navigated away")

// State is the bridge's view of the session. An empty Token means no
// session.
type State struct {
	Token string
}

// HasToken reports whether a session token is held.
func (s State) HasToken() bool {
	return s.Token != ""
}

// Bridge connects one page to the backend. Methods are meant to be called
// from a single goroutine, the way a page's event handlers run.
type Bridge struct {
	store   Store
	backend rpc.Backend
	nav     Navigator
	display Display
	logger  *logging.Logger

	state     State
	navigated bool
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithLogger sets the logger used for store and navigation failures.
func WithLogger(logger *logging.Logger) Option {
	return func(b *Bridge) {
		b.logger = logger
	}
}

// New creates a Bridge whose initial token is read from store. A nil
// display discards status messages.
func New(store Store, backend rpc.Backend, nav Navigator, display Display, opts ...Option) *Bridge {
	if display == nil {
		display = DisplayFunc(func(Status) {})
	}
	b := &Bridge{
		store:   store,
		backend: backend,
		nav:     nav,
		display: display,
		logger:  logging.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if tok, ok := store.Get(TokenKey); ok {
		b.state.Token = tok
	}
	return b
}

// State returns the current session state.
func (b *Bridge) State() State {
	return b.state
}

// Err returns ErrNavigated once the bridge has navigated away, else nil.
func (b *Bridge) Err() error {
	if b.navigated {
		return ErrNavigated
	}
	return nil
}

// Boot confirms a cached token with the backend. A valid token navigates to
// the work page. An invalid token, or a failed check, is cleared silently.
// Without a token Boot does nothing.
func (b *Bridge) Boot(ctx context.Context) State {
	if b.navigated || !b.state.HasToken() {
		return b.state
	}

	token := b.state.Token
	res, ok := rpc.Await(ctx, rpc.Go(ctx, func(ctx context.Context) (rpc.ValidateResult, error) {
		return b.backend.Validate(ctx, token)
	}))
	if !ok {
		return b.state
	}

	if res.IsOk() && res.Value().OK {
		b.navigate(page.Work)
		return b.state
	}

	if err := res.Err(); err != nil {
		b.logger.Debug("session validation failed", "error", err)
	}
	b.clearToken()
	return b.state
}

// Login submits credentials. Success stores the new token and navigates to
// the work page. Any failure is shown on the display and leaves the token
// unchanged.
func (b *Bridge) Login(ctx context.Context, username, password string) State {
	if b.navigated {
		return b.state
	}

	b.display.Show(Status{Message: MsgLoggingIn, Tone: ToneOK})

	username = strings.TrimSpace(username)
	res, ok := rpc.Await(ctx, rpc.Go(ctx, func(ctx context.Context) (rpc.LoginResult, error) {
		return b.backend.Login(ctx, username, password)
	}))
	if !ok {
		return b.state
	}

	if !res.IsOk() {
		b.fail(res.Message())
		return b.state
	}

	out := res.Value()
	if !out.OK || out.Token == "" {
		b.fail(out.Message)
		return b.state
	}

	if err := b.store.Set(TokenKey, out.Token); err != nil {
		b.logger.Warn("failed to store session token", "error", err)
		b.fail(err.Error())
		return b.state
	}
	b.state.Token = out.Token
	b.navigate(page.Work)
	return b.state
}

// Logout forgets the token and navigates to the login page.
func (b *Bridge) Logout() State {
	if b.navigated {
		return b.state
	}
	b.clearToken()
	b.navigate(page.Login)
	return b.state
}

func (b *Bridge) fail(msg string) {
	if msg == "" {
		msg = MsgLoginFailed
	}
	b.display.Show(Status{Message: msg, Tone: ToneBad})
}

func (b *Bridge) clearToken() {
	if err := b.store.Remove(TokenKey); err != nil {
		b.logger.Warn("failed to remove session token", "error", err)
	}
	b.state.Token = ""
}

func (b *Bridge) navigate(id page.ID) {
	if err := b.nav.Navigate(id); err != nil {
		b.logger.Warn("navigation failed", "page", id, "error", err)
		b.display.Show(Status{Message: err.Error(), Tone: ToneBad})
		return
	}
	b.navigated = true
}
