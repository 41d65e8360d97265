package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thruflo/rota/internal/page"
	"github.com/thruflo/rota/internal/session"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the saved session",
	Long: `Remove the session token from the session file. The server is not
contacted; the token simply expires there.

Example:
  rota logout`,
	Args: cobra.NoArgs,
	RunE: runLogout,
}

func init() {
	logoutCmd.Flags().StringVar(&serverURL, "url", "", "Base URL of the rota server, used for the login page address")
	logoutCmd.Flags().StringVar(&sessionPath, "session", "", "Session file (default <user config dir>/rota/session.yaml)")
	rootCmd.AddCommand(logoutCmd)
}

func runLogout(cmd *cobra.Command, args []string) error {
	c, err := openLocal()
	if err != nil {
		return err
	}

	_, hadToken := c.store.Get(session.TokenKey)

	var landed page.ID
	c.bridge(cmd.OutOrStdout(), cmd.ErrOrStderr(), &landed).Logout()

	if _, ok := c.store.Get(session.TokenKey); ok {
		return fmt.Errorf("failed to remove session from %s", c.store.Path())
	}
	if hadToken {
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "No saved session")
	}
	return nil
}
