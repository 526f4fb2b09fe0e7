package cmd

import (
	"fmt"
	"time"

	"github.com/bnema/selfcord/internal/adapters/discord"
	"github.com/bnema/selfcord/internal/domain"
	"github.com/spf13/cobra"
)

func newPresenceCmd(app *app) *cobra.Command {
	var kind string
	var status string
	var hold time.Duration

	cmd := &cobra.Command{
		Use:   "presence <activity-name>",
		Short: "Show an activity while the command runs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			activityType, err := domain.ParseActivityType(kind)
			if err != nil {
				return err
			}
			presenceStatus, err := domain.ParsePresenceStatus(status)
			if err != nil {
				return err
			}

			return withSession(cmd, app, connectOptions{}, func(client *discord.Client) error {
				if err := client.StartPresence(args[0], activityType, presenceStatus); err != nil {
					return err
				}
				return holdPresence(cmd, hold)
			})
		},
	}

	cmd.Flags().StringVar(&kind, "type", "playing", "Activity type (playing|streaming|listening|watching|competing)")
	addPresenceFlags(cmd, &status, &hold)

	return cmd
}

func newCustomStatusCmd(app *app) *cobra.Command {
	var emojiText string
	var status string
	var hold time.Duration

	cmd := &cobra.Command{
		Use:   "custom-status <text>",
		Short: "Set the custom status text while the command runs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presenceStatus, err := domain.ParsePresenceStatus(status)
			if err != nil {
				return err
			}

			return withSession(cmd, app, connectOptions{}, func(client *discord.Client) error {
				if err := client.SetCustomStatus(args[0], presenceStatus, emojiText); err != nil {
					return err
				}
				return holdPresence(cmd, hold)
			})
		},
	}

	cmd.Flags().StringVar(&emojiText, "emoji", "", "Unicode emoji or :name: of a custom emoji")
	addPresenceFlags(cmd, &status, &hold)

	return cmd
}

func addPresenceFlags(cmd *cobra.Command, status *string, hold *time.Duration) {
	cmd.Flags().StringVar(status, "status", string(domain.StatusOnline), "Presence status (online|idle|dnd|invisible)")
	cmd.Flags().DurationVar(hold, "hold", 0, "Keep the session open this long (default: until interrupted)")
}

// holdPresence keeps the session alive; presence ends with the connection.
func holdPresence(cmd *cobra.Command, hold time.Duration) error {
	_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "Presence set, press Ctrl+C to stop")

	if hold <= 0 {
		<-cmd.Context().Done()
		return nil
	}

	timer := time.NewTimer(hold)
	defer timer.Stop()
	select {
	case <-cmd.Context().Done():
	case <-timer.C:
	}
	return nil
}
