package cli

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thruflo/rota/internal/testutil"
)

func TestServeCommand_StopsOnCancel(t *testing.T) {
	_, configPath := testutil.SetupTestDir(t)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(200*time.Millisecond, cancel)

	stdout, _, err := executeContext(t, ctx, "", "serve", "--config", configPath)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Serving rota on http://localhost:0")
	assert.Contains(t, stdout, "Users: 1")
	assert.Contains(t, stdout, "Branch: Test Branch")
}

func TestServeCommand_PortFlag(t *testing.T) {
	_, configPath := testutil.SetupTestDir(t)

	// --port replaces server.port; 0 picks a free port.
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(200*time.Millisecond, cancel)

	stdout, _, err := executeContext(t, ctx, "", "serve", "--config", configPath, "--port", "0", "--assets", "../../web/static")
	require.NoError(t, err)
	assert.Contains(t, stdout, "http://localhost:0")
}

func TestServeCommand_Errors(t *testing.T) {
	_, configPath := testutil.SetupTestDir(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"invalid port", []string{"--port", "70000"}, "server.port"},
		{"missing assets", []string{"--assets", "/nonexistent/static"}, "assets directory not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"serve", "--config", configPath}, tt.args...)
			_, _, err := execute(t, "", args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
