package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thruflo/rota/internal/auth"
	"github.com/thruflo/rota/internal/config"
	"gopkg.in/yaml.v3"
)

var (
	hashDisplayName string
)

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password [username]",
	Short: "Hash a password for the config file",
	Long: `Prompt for a password twice and print its argon2id hash.

With a username, a complete users entry is printed instead, ready to be
pasted under 'users:' in the config file.

Example:
  rota hash-password
  rota hash-password alice --display-name "Alice A."`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHashPassword,
}

func init() {
	hashPasswordCmd.Flags().StringVar(&hashDisplayName, "display-name", "", "Display name for the users entry")
	rootCmd.AddCommand(hashPasswordCmd)
}

func runHashPassword(cmd *cobra.Command, args []string) error {
	subject := "user"
	if len(args) > 0 {
		subject = args[0]
	}

	prompter := &auth.Prompter{In: cmd.InOrStdin(), Out: cmd.ErrOrStderr()}
	password, err := prompter.ConfirmedPassword(subject)
	if err != nil {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	}

	users := []config.User{{
		Username:     args[0],
		DisplayName:  hashDisplayName,
		PasswordHash: hash,
	}}
	if err := config.ValidateUsers(users); err != nil {
		return err
	}

	data, err := yaml.Marshal(users)
	if err != nil {
		return fmt.Errorf("failed to marshal users entry: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
