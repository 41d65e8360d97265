package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/thruflo/rota/internal/auth"
	"github.com/thruflo/rota/internal/page"
	"github.com/thruflo/rota/internal/session"
)

var (
	loginUsername string
)

var errLoginFailed = errors.New("login failed")

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to a rota server and save the session",
	Long: `Log in to a rota server. The username and password are prompted for;
the password is not echoed when reading from a terminal.

On success the session token is saved to the session file and reused by
'rota open' until it expires or 'rota logout' is run.

Example:
  rota login
  rota login --url https://rota.example.com --username alice
  rota login --transport ws`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Username (prompted if not set)")
	addClientFlags(loginCmd)
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	prompter := &auth.Prompter{In: cmd.InOrStdin(), Out: cmd.ErrOrStderr()}

	username := loginUsername
	if username == "" {
		var err error
		username, err = prompter.Line("Username: ")
		if err != nil {
			return err
		}
	}
	password, err := prompter.Password("Password: ")
	if err != nil {
		return err
	}

	c, err := openClient(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	var landed page.ID
	bridge := c.bridge(cmd.OutOrStdout(), cmd.ErrOrStderr(), &landed)
	bridge.Login(ctx, username, password)

	if !errors.Is(bridge.Err(), session.ErrNavigated) || landed != page.Work {
		return errLoginFailed
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", strings.TrimSpace(username))
	fmt.Fprintf(cmd.OutOrStdout(), "  Session: %s\n", c.store.Path())
	return nil
}
