package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thruflo/rota/internal/page"
	"github.com/thruflo/rota/internal/rpc"
	"github.com/thruflo/rota/internal/testutil"
)

type bridgeFixture struct {
	store   *MemoryStore
	backend *testutil.FakeBackend
	nav     *testutil.RecordingNavigator
	status  *StatusLine
}

func newFixture(token string) *bridgeFixture {
	f := &bridgeFixture{
		store:   NewMemoryStore(),
		backend: &testutil.FakeBackend{},
		nav:     &testutil.RecordingNavigator{},
		status:  &StatusLine{},
	}
	if token != "" {
		_ = f.store.Set(TokenKey, token)
	}
	return f
}

func (f *bridgeFixture) bridge() *Bridge {
	return New(f.store, f.backend, f.nav, f.status)
}

func TestNewReadsTokenFromStore(t *testing.T) {
	t.Parallel()

	assert.Equal(t, State{Token: "abc"}, newFixture("abc").bridge().State())
	assert.False(t, newFixture("").bridge().State().HasToken())
}

func TestBoot(t *testing.T) {
	t.Parallel()

	t.Run("no token issues no call", func(t *testing.T) {
		t.Parallel()
		f := newFixture("")
		b := f.bridge()

		st := b.Boot(context.Background())

		assert.Equal(t, State{}, st)
		assert.Empty(t, f.backend.Calls())
		assert.Empty(t, f.nav.Visits())
		assert.NoError(t, b.Err())
	})

	t.Run("valid token navigates to work once", func(t *testing.T) {
		t.Parallel()
		f := newFixture("abc")
		f.backend.ValidateFunc = func(ctx context.Context, token string) (rpc.ValidateResult, error) {
			return rpc.ValidateResult{OK: token == "abc"}, nil
		}
		b := f.bridge()

		st := b.Boot(context.Background())
		b.Boot(context.Background())

		assert.Equal(t, State{Token: "abc"}, st)
		assert.Equal(t, []page.ID{page.Work}, f.nav.Visits())
		assert.Equal(t, 1, f.backend.CallCount(rpc.ProcValidate))
		assert.ErrorIs(t, b.Err(), ErrNavigated)

		tok, ok := f.store.Get(TokenKey)
		assert.True(t, ok)
		assert.Equal(t, "abc", tok)
	})

	t.Run("rejected token is cleared silently", func(t *testing.T) {
		t.Parallel()
		f := newFixture("abc")
		f.backend.ValidateFunc = func(ctx context.Context, token string) (rpc.ValidateResult, error) {
			return rpc.ValidateResult{OK: false}, nil
		}
		b := f.bridge()

		st := b.Boot(context.Background())

		assert.Equal(t, State{}, st)
		_, ok := f.store.Get(TokenKey)
		assert.False(t, ok)
		assert.Empty(t, f.nav.Visits())
		_, shown := f.status.Current()
		assert.False(t, shown)
	})

	t.Run("failed validation is cleared silently", func(t *testing.T) {
		t.Parallel()
		f := newFixture("abc")
		f.backend.ValidateFunc = func(ctx context.Context, token string) (rpc.ValidateResult, error) {
			return rpc.ValidateResult{}, errors.New("network down")
		}
		b := f.bridge()

		st := b.Boot(context.Background())

		assert.False(t, st.HasToken())
		_, ok := f.store.Get(TokenKey)
		assert.False(t, ok)
		assert.Empty(t, f.nav.Visits())
		_, shown := f.status.Current()
		assert.False(t, shown)
	})

	t.Run("cancelled context discards the result", func(t *testing.T) {
		t.Parallel()
		f := newFixture("abc")
		release := make(chan struct{})
		f.backend.ValidateFunc = func(ctx context.Context, token string) (rpc.ValidateResult, error) {
			<-release
			return rpc.ValidateResult{OK: false}, nil
		}
		b := f.bridge()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		st := b.Boot(ctx)
		close(release)

		assert.Equal(t, State{Token: "abc"}, st)
		tok, ok := f.store.Get(TokenKey)
		assert.True(t, ok)
		assert.Equal(t, "abc", tok)
		assert.Empty(t, f.nav.Visits())
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()

	t.Run("rejected credentials show the message", func(t *testing.T) {
		t.Parallel()
		f := newFixture("")
		f.backend.LoginFunc = func(ctx context.Context, u, p string) (rpc.LoginResult, error) {
			return rpc.LoginResult{OK: false, Message: "bad password"}, nil
		}
		b := f.bridge()

		st := b.Login(context.Background(), "alice", "wrong")

		assert.Equal(t, State{}, st)
		status, ok := f.status.Current()
		require.True(t, ok)
		assert.Equal(t, Status{Message: "bad password", Tone: ToneBad}, status)
		_, stored := f.store.Get(TokenKey)
		assert.False(t, stored)
		assert.Empty(t, f.nav.Visits())
	})

	t.Run("rejection without message uses fallback", func(t *testing.T) {
		t.Parallel()
		f := newFixture("")
		b := f.bridge()

		b.Login(context.Background(), "alice", "wrong")

		status, ok := f.status.Current()
		require.True(t, ok)
		assert.Equal(t, Status{Message: MsgLoginFailed, Tone: ToneBad}, status)
	})

	t.Run("success stores token and navigates", func(t *testing.T) {
		t.Parallel()
		f := newFixture("")
		f.backend.LoginFunc = func(ctx context.Context, u, p string) (rpc.LoginResult, error) {
			return rpc.LoginResult{OK: true, Token: "xyz"}, nil
		}
		b := f.bridge()

		st := b.Login(context.Background(), "alice", "right")

		assert.Equal(t, State{Token: "xyz"}, st)
		tok, ok := f.store.Get(TokenKey)
		require.True(t, ok)
		assert.Equal(t, "xyz", tok)
		assert.Equal(t, []page.ID{page.Work}, f.nav.Visits())
		assert.ErrorIs(t, b.Err(), ErrNavigated)
	})

	t.Run("transport error shows the error", func(t *testing.T) {
		t.Parallel()
		f := newFixture("old")
		f.backend.LoginFunc = func(ctx context.Context, u, p string) (rpc.LoginResult, error) {
			return rpc.LoginResult{}, errors.New("network down")
		}
		b := f.bridge()

		st := b.Login(context.Background(), "alice", "right")

		assert.Equal(t, State{Token: "old"}, st)
		status, ok := f.status.Current()
		require.True(t, ok)
		assert.Equal(t, Status{Message: "network down", Tone: ToneBad}, status)
		tok, _ := f.store.Get(TokenKey)
		assert.Equal(t, "old", tok)
		assert.Empty(t, f.nav.Visits())
	})

	t.Run("remote error shows the remote message", func(t *testing.T) {
		t.Parallel()
		f := newFixture("")
		f.backend.LoginFunc = func(ctx context.Context, u, p string) (rpc.LoginResult, error) {
			return rpc.LoginResult{}, &rpc.RemoteError{Procedure: rpc.ProcLogin, Message: "sheet locked"}
		}

		f.bridge().Login(context.Background(), "alice", "right")

		status, _ := f.status.Current()
		assert.Equal(t, "sheet locked", status.Message)
	})

	t.Run("ok without token is a failure", func(t *testing.T) {
		t.Parallel()
		f := newFixture("")
		f.backend.LoginFunc = func(ctx context.Context, u, p string) (rpc.LoginResult, error) {
			return rpc.LoginResult{OK: true}, nil
		}

		st := f.bridge().Login(context.Background(), "alice", "right")

		assert.False(t, st.HasToken())
		status, _ := f.status.Current()
		assert.Equal(t, Status{Message: MsgLoginFailed, Tone: ToneBad}, status)
		assert.Empty(t, f.nav.Visits())
	})

	t.Run("username is trimmed", func(t *testing.T) {
		t.Parallel()
		f := newFixture("")

		f.bridge().Login(context.Background(), "  alice \t", " pw ")

		calls := f.backend.Calls()
		require.Len(t, calls, 1)
		assert.Equal(t, []string{"alice", " pw "}, calls[0].Args)
	})

	t.Run("in-progress status shown before the call", func(t *testing.T) {
		t.Parallel()
		f := newFixture("")
		var seen Status
		f.backend.LoginFunc = func(ctx context.Context, u, p string) (rpc.LoginResult, error) {
			seen, _ = f.status.Current()
			return rpc.LoginResult{OK: true, Token: "xyz"}, nil
		}

		f.bridge().Login(context.Background(), "alice", "right")

		assert.Equal(t, Status{Message: MsgLoggingIn, Tone: ToneOK}, seen)
	})
}

func TestNavigationEndsBridge(t *testing.T) {
	t.Parallel()

	f := newFixture("")
	f.backend.LoginFunc = func(ctx context.Context, u, p string) (rpc.LoginResult, error) {
		return rpc.LoginResult{OK: true, Token: "xyz"}, nil
	}
	b := f.bridge()
	b.Login(context.Background(), "alice", "right")

	st := b.Login(context.Background(), "bob", "pw")
	b.Boot(context.Background())
	b.Logout()

	assert.Equal(t, State{Token: "xyz"}, st)
	assert.Equal(t, 1, f.backend.CallCount(rpc.ProcLogin))
	assert.Equal(t, 0, f.backend.CallCount(rpc.ProcValidate))
	assert.Equal(t, []page.ID{page.Work}, f.nav.Visits())
}

func TestNavigationFailureKeepsBridgeAlive(t *testing.T) {
	t.Parallel()

	f := newFixture("")
	f.nav.Err = errors.New("browser closed")
	f.backend.LoginFunc = func(ctx context.Context, u, p string) (rpc.LoginResult, error) {
		return rpc.LoginResult{OK: true, Token: "xyz"}, nil
	}
	b := f.bridge()

	st := b.Login(context.Background(), "alice", "right")

	assert.Equal(t, State{Token: "xyz"}, st)
	assert.NoError(t, b.Err())
	status, _ := f.status.Current()
	assert.Equal(t, Status{Message: "browser closed", Tone: ToneBad}, status)
}

func TestLogout(t *testing.T) {
	t.Parallel()

	f := newFixture("abc")
	b := f.bridge()

	st := b.Logout()

	assert.Equal(t, State{}, st)
	_, ok := f.store.Get(TokenKey)
	assert.False(t, ok)
	assert.Equal(t, []page.ID{page.Login}, f.nav.Visits())
	assert.Empty(t, f.backend.Calls())
}

type failingStore struct {
	*MemoryStore
}

func (failingStore) Set(string, string) error { return errors.New("disk full") }

func TestLoginStoreFailure(t *testing.T) {
	t.Parallel()

	backend := &testutil.FakeBackend{
		LoginFunc: func(ctx context.Context, u, p string) (rpc.LoginResult, error) {
			return rpc.LoginResult{OK: true, Token: "xyz"}, nil
		},
	}
	nav := &testutil.RecordingNavigator{}
	status := &StatusLine{}
	b := New(failingStore{NewMemoryStore()}, backend, nav, status)

	st := b.Login(context.Background(), "alice", "right")

	assert.False(t, st.HasToken())
	assert.Empty(t, nav.Visits())
	got, _ := status.Current()
	assert.Equal(t, Status{Message: "disk full", Tone: ToneBad}, got)
}

func TestNilDisplay(t *testing.T) {
	t.Parallel()

	b := New(NewMemoryStore(), &testutil.FakeBackend{}, &testutil.RecordingNavigator{}, nil)
	assert.NotPanics(t, func() {
		b.Login(context.Background(), "alice", "pw")
	})
}
