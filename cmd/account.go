package cmd

import (
	"fmt"
	"io"

	"github.com/bnema/selfcord/internal/domain"
	"github.com/spf13/cobra"
)

func newAccountCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage accounts",
	}

	cmd.AddCommand(
		newAccountListCmd(app),
		newAccountRenameCmd(app),
		newAccountRemoveCmd(app),
	)

	return cmd
}

func newAccountListCmd(app *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List configured accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			statuses, err := app.service.GetStatusAll(cmd.Context())
			if err != nil {
				return err
			}

			accounts := make([]domain.Account, 0, len(statuses))
			for _, status := range statuses {
				accounts = append(accounts, status.Account)
			}

			return writeOutput(cmd, output, accounts, func(w io.Writer) error {
				for _, status := range statuses {
					token := "no token"
					if status.HasToken {
						token = "token"
					}
					if _, err := fmt.Fprintf(w, "%s\t%s\t%s\n", status.Account.ID, status.Account.Name, token); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	addOutputFlag(cmd, &output)

	return cmd
}

func newAccountRenameCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.service.SetAccountName(cmd.Context(), domain.AccountID(args[0]), args[1])
		},
	}
}

func newAccountRemoveCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove an account and its stored token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := domain.AccountID(args[0])
			if err := app.service.RemoveAccount(cmd.Context(), id); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Removed account %s\n", id)
			return err
		},
	}
}
