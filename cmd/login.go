package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/bnema/selfcord/internal/domain"
	"github.com/spf13/cobra"
)

type loginResult struct {
	AccountID  domain.AccountID `json:"account_id,omitempty"`
	UserID     string           `json:"user_id"`
	UserTag    string           `json:"user_tag"`
	SessionID  string           `json:"session_id"`
	GuildCount int              `json:"guild_count"`
}

func newLoginCmd(app *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the gateway and record the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, accountID, err := connect(cmd, app, connectOptions{})
			if err != nil {
				return err
			}

			login := func(ctx context.Context) error { return client.Login(ctx) }
			if output == outputText || output == "" {
				err = runWithSpinner(cmd.Context(), cmd.ErrOrStderr(), "Connecting to the gateway...", login)
			} else {
				err = login(cmd.Context())
			}
			if err != nil {
				return fmt.Errorf("login: %w", err)
			}
			defer client.Logout()

			info, err := client.SessionInfo()
			if err != nil {
				return err
			}
			if accountID != "" {
				if err := app.service.RecordSession(cmd.Context(), accountID, info); err != nil {
					return err
				}
			}

			result := loginResult{
				AccountID:  accountID,
				UserID:     info.User.ID,
				UserTag:    info.User.Tag(),
				SessionID:  info.SessionID,
				GuildCount: len(info.Guilds),
			}
			return writeOutput(cmd, output, result, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Logged in as %s (%d guilds)\n", result.UserTag, result.GuildCount)
				return err
			})
		},
	}

	addOutputFlag(cmd, &output)

	return cmd
}
