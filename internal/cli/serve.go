package cli

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/thruflo/rota/internal/logging"
	"github.com/thruflo/rota/internal/server"
	"github.com/thruflo/rota/web"
)

var (
	servePort   int
	serveAssets string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the rota pages and RPC backend",
	Long: `Serve the login, registration and work pages together with the RPC
endpoints they call, over HTTP and WebSocket.

Users, branding and limits come from the config file. Pass --assets to
serve the stylesheet and page scripts from a directory instead of the
copies built into the binary.

Example:
  rota serve
  rota serve --config /etc/rota.yaml --port 9000
  rota serve --assets ./web/static --log-level debug`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (overrides server.port)")
	serveCmd.Flags().StringVar(&serveAssets, "assets", "", "Directory to serve page assets from")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = servePort
	}

	opts := []server.Option{server.WithLogger(logging.With("component", "server"))}
	if serveAssets != "" {
		if stat, err := os.Stat(serveAssets); err != nil || !stat.IsDir() {
			return fmt.Errorf("assets directory not found: %s", serveAssets)
		}
		opts = append(opts, server.WithAssets(web.GetAssets(serveAssets)))
	}

	srv, err := server.NewServer(cfg, opts...)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(ctx)
	}()

	host := cfg.Server.Host
	if host == "" {
		host = "localhost"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Serving rota on http://%s\n", net.JoinHostPort(host, strconv.Itoa(cfg.Server.Port)))
	fmt.Fprintf(cmd.OutOrStdout(), "  Users: %d\n", len(cfg.Users))
	fmt.Fprintf(cmd.OutOrStdout(), "  Branch: %s\n", cfg.Branding.Branch)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		if err := srv.Stop(); err != nil {
			return err
		}
		return <-errCh
	}
}
