package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thruflo/rota/internal/auth"
)

var (
	registerUsername    string
	registerDisplayName string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account on a rota server",
	Long: `Create an account on a rota server. The password is prompted for twice.
Registered accounts live in the server's memory until it restarts; add
permanent users to the config file with 'rota hash-password'.

Example:
  rota register --username carol --display-name "Carol C."`,
	Args: cobra.NoArgs,
	RunE: runRegister,
}

func init() {
	registerCmd.Flags().StringVarP(&registerUsername, "username", "u", "", "Username (prompted if not set)")
	registerCmd.Flags().StringVar(&registerDisplayName, "display-name", "", "Name shown on the work page (defaults to the username)")
	addClientFlags(registerCmd)
	rootCmd.AddCommand(registerCmd)
}

func runRegister(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	prompter := &auth.Prompter{In: cmd.InOrStdin(), Out: cmd.ErrOrStderr()}

	username := registerUsername
	if username == "" {
		var err error
		username, err = prompter.Line("Username: ")
		if err != nil {
			return err
		}
	}
	password, err := prompter.ConfirmedPassword(username)
	if err != nil {
		return err
	}

	c, err := openClient(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	res, err := c.backend.Register(ctx, username, password, registerDisplayName)
	if err != nil {
		return fmt.Errorf("failed to register: %w", err)
	}
	if !res.OK {
		return errors.New(res.Message)
	}

	fmt.Fprintln(cmd.OutOrStdout(), res.Message)
	fmt.Fprintln(cmd.OutOrStdout(), "Run 'rota login' to sign in.")
	return nil
}
