package cmd

import (
	"fmt"
	"io"

	"github.com/bnema/selfcord/internal/adapters/discord"
	"github.com/spf13/cobra"
)

func newSlashCmd(app *app) *cobra.Command {
	var channelID string
	var query discord.SlashCommandQuery
	var output string

	cmd := &cobra.Command{
		Use:   "slash",
		Short: "List the slash commands available in a channel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, _, err := connect(cmd, app, connectOptions{})
			if err != nil {
				return err
			}

			commands, err := client.GetSlashCommands(cmd.Context(), channelID, query)
			if err != nil {
				return err
			}

			return writeOutput(cmd, output, commands, func(w io.Writer) error {
				for _, c := range commands {
					if _, err := fmt.Fprintf(w, "%s\t/%s\t%s\n", c.ApplicationID, c.Name, c.Description); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	cmd.PersistentFlags().StringVar(&channelID, "channel", "", "Channel ID")
	cmd.Flags().StringVar(&query.Filter, "filter", "", "Only commands whose name contains this")
	cmd.Flags().IntVar(&query.Limit, "limit", 0, "Maximum number of commands")
	addOutputFlag(cmd, &output)
	_ = cmd.MarkPersistentFlagRequired("channel")
	cmd.AddCommand(newSlashRunCmd(app, &channelID))

	return cmd
}

func newSlashRunCmd(app *app, channelID *string) *cobra.Command {
	var target discord.SlashCommandTarget

	cmd := &cobra.Command{
		Use:   "run <name>",
		Short: "Run the first slash command matching name, without options",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, connectOptions{}, func(client *discord.Client) error {
				if err := client.SendSlashCommand(cmd.Context(), *channelID, args[0], target); err != nil {
					return err
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "Sent /%s\n", args[0])
				return err
			})
		},
	}

	cmd.Flags().StringVar(&target.GuildID, "guild", "", "Guild ID of the channel")

	return cmd
}
