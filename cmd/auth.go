package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/bnema/selfcord/internal/application"
	"github.com/bnema/selfcord/internal/domain"
	"github.com/spf13/cobra"
)

func newAuthCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage account tokens",
	}

	cmd.AddCommand(newAuthSetCmd(app), newAuthRemoveCmd(app))

	return cmd
}

func newAuthSetCmd(app *app) *cobra.Command {
	var token string
	var secretRef string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store the user token of an account",
		Long:  "Store the user token of an account. Without --account the next free numeric id is used. Pass --token - to read the token from stdin.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if token == "-" {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read token from stdin: %w", err)
				}
				token = line
			}

			accountID, err := resolveAccountID(cmd.Context(), app, app.accountFlag)
			if err != nil {
				return err
			}

			if err := app.service.SetToken(cmd.Context(), application.SetTokenCommand{
				ID:        accountID,
				SecretRef: strings.TrimSpace(secretRef),
				Token:     token,
			}); err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Stored token for account %s\n", accountID)
			return err
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "User token, or - to read it from stdin")
	cmd.Flags().StringVar(&secretRef, "secret-key", "", "Secret-store key (default discord://<account>/token)")
	_ = cmd.MarkFlagRequired("token")

	return cmd
}

func newAuthRemoveCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove",
		Short: "Remove the stored token of an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(app.accountFlag) == "" {
				return fmt.Errorf("%w: pass --account", errNoAccountSelected)
			}
			return app.service.RemoveToken(cmd.Context(), domain.AccountID(app.accountFlag))
		},
	}
}
