package cli

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
	"github.com/thruflo/rota/internal/config"
	"github.com/thruflo/rota/internal/logging"
	"github.com/thruflo/rota/internal/server"
	"github.com/thruflo/rota/internal/testutil"
)

// execute runs the root command with args, feeding stdin to prompts.
// Flag values from earlier runs are reset first.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	ctx, cancel := testutil.ShortOperationContext(t)
	defer cancel()
	return executeContext(t, ctx, stdin, args...)
}

func executeContext(t *testing.T, ctx context.Context, stdin string, args ...string) (string, string, error) {
	t.Helper()

	resetCommand(rootCmd)
	setContext(rootCmd, ctx)

	var stdout, stderr bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)

	err := rootCmd.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}

func resetCommand(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetCommand(sub)
	}
}

// setContext replaces the context cobra keeps on subcommands between runs.
func setContext(cmd *cobra.Command, ctx context.Context) {
	for _, sub := range cmd.Commands() {
		sub.SetContext(ctx)
		setContext(sub, ctx)
	}
}

// startTestServer serves the sample config and returns its base URL.
func startTestServer(t *testing.T) string {
	t.Helper()

	_, configPath := testutil.SetupTestDir(t)
	cfg, err := config.LoadConfig(configPath)
	require.NoError(t, err)

	srv, err := server.NewServer(cfg, server.WithLogger(logging.NewWithWriter(io.Discard)))
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts.URL
}

// clientArgs returns args pointing a client command at url with a session
// file in a fresh temp dir.
func clientArgs(t *testing.T, url string, args ...string) ([]string, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.yaml")
	return append(args, "--url", url, "--session", path), path
}
