package session

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thruflo/rota/internal/page"
)

func TestStatusLineReplaces(t *testing.T) {
	t.Parallel()

	var l StatusLine
	_, ok := l.Current()
	assert.False(t, ok)

	l.Show(Status{Message: MsgLoggingIn, Tone: ToneOK})
	l.Show(Status{Message: "bad password", Tone: ToneBad})

	got, ok := l.Current()
	require.True(t, ok)
	assert.Equal(t, Status{Message: "bad password", Tone: ToneBad}, got)
}

func TestToneString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ok", ToneOK.String())
	assert.Equal(t, "bad", ToneBad.String())
}

func TestDisplayFunc(t *testing.T) {
	t.Parallel()

	var got []Status
	var d Display = DisplayFunc(func(s Status) { got = append(got, s) })
	d.Show(Status{Message: "hi"})
	assert.Equal(t, []Status{{Message: "hi"}}, got)
}

func TestURLNavigator(t *testing.T) {
	t.Parallel()

	var opened []string
	nav := URLNavigator{
		Path: "/exec",
		Open: func(location string) error {
			opened = append(opened, location)
			return nil
		},
	}

	require.NoError(t, nav.Navigate(page.Work))
	require.NoError(t, nav.Navigate(page.Login))

	require.Len(t, opened, 2)
	u, err := url.Parse(opened[0])
	require.NoError(t, err)
	assert.Equal(t, "/exec", u.Path)
	assert.Equal(t, "work", u.Query().Get(page.QueryParam))
	assert.Equal(t, "/exec", opened[1])
}

func TestNavigatorFunc(t *testing.T) {
	t.Parallel()

	var got page.ID
	var n Navigator = NavigatorFunc(func(id page.ID) error {
		got = id
		return nil
	})
	require.NoError(t, n.Navigate(page.Register))
	assert.Equal(t, page.Register, got)
}
