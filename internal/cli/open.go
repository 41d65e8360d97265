package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thruflo/rota/internal/page"
)

var openCmd = &cobra.Command{
	Use:   "open",
	Short: "Restore the saved session and show your shift",
	Long: `Restore the saved session the way a page does on load: the token is
validated with the server, and an expired or rejected token is removed
from the session file.

With a valid session the signed-in user's shift is printed.

Example:
  rota open
  rota open --url https://rota.example.com`,
	Args: cobra.NoArgs,
	RunE: runOpen,
}

func init() {
	addClientFlags(openCmd)
	rootCmd.AddCommand(openCmd)
}

func runOpen(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	c, err := openClient(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	var landed page.ID
	bridge := c.bridge(cmd.OutOrStdout(), cmd.ErrOrStderr(), &landed)
	state := bridge.Boot(ctx)
	if landed != page.Work {
		return errNotLoggedIn
	}

	res, err := c.backend.MyShift(ctx, state.Token)
	if err != nil {
		return fmt.Errorf("failed to fetch shift: %w", err)
	}
	if !res.OK {
		return fmt.Errorf("failed to fetch shift: %s", res.Message)
	}

	out := cmd.OutOrStdout()
	if res.Shift == nil {
		fmt.Fprintln(out, res.Message)
		return nil
	}
	fmt.Fprintf(out, "Shift: group %s\n", res.Shift.Group)
	fmt.Fprintf(out, "  Start: %s\n", res.Shift.Start)
	fmt.Fprintf(out, "  End:   %s\n", res.Shift.End)
	return nil
}
