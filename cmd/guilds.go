package cmd

import (
	"fmt"
	"io"

	"github.com/bnema/selfcord/internal/domain"
	"github.com/spf13/cobra"
)

func newGuildsCmd(app *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "guilds",
		Short: "List, join and leave guilds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, _, err := connect(cmd, app, connectOptions{})
			if err != nil {
				return err
			}

			guilds, err := client.GetGuilds(cmd.Context())
			if err != nil {
				return err
			}

			return writeOutput(cmd, output, guilds, func(w io.Writer) error {
				for _, g := range guilds {
					owner := ""
					if g.Owner {
						owner = "\towner"
					}
					if _, err := fmt.Fprintf(w, "%s\t%s%s\n", g.ID, g.Name, owner); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	addOutputFlag(cmd, &output)
	cmd.AddCommand(newGuildJoinCmd(app), newGuildLeaveCmd(app))

	return cmd
}

func newGuildJoinCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "join <invite-code>",
		Short: "Join a guild through an invite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := connect(cmd, app, connectOptions{})
			if err != nil {
				return err
			}

			info, err := client.JoinGuild(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Joined %s (%s)\n", info.Guild.Name, info.Guild.ID)
			return err
		},
	}
}

func newGuildLeaveCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "leave <guild-id>",
		Short: "Leave a guild",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := connect(cmd, app, connectOptions{})
			if err != nil {
				return err
			}
			return client.LeaveGuild(cmd.Context(), args[0])
		},
	}
}

func newChannelsCmd(app *app) *cobra.Command {
	var guildID string
	var output string

	cmd := &cobra.Command{
		Use:   "channels",
		Short: "List the channels of a guild, or DM channels without --guild",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, _, err := connect(cmd, app, connectOptions{})
			if err != nil {
				return err
			}

			var channels []domain.Channel
			if guildID == "" {
				channels, err = client.GetDMChannels(cmd.Context())
			} else {
				channels, err = client.GetGuildChannels(cmd.Context(), guildID)
			}
			if err != nil {
				return err
			}

			return writeOutput(cmd, output, channels, func(w io.Writer) error {
				for _, c := range channels {
					if _, err := fmt.Fprintf(w, "%s\t%s\t%s\n", c.ID, channelTypeLabel(c.Type), c.Name); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&guildID, "guild", "", "Guild ID")
	addOutputFlag(cmd, &output)

	return cmd
}

func channelTypeLabel(t domain.ChannelType) string {
	switch t {
	case domain.ChannelTypeGuildText:
		return "text"
	case domain.ChannelTypeDM:
		return "dm"
	case domain.ChannelTypeGuildVoice:
		return "voice"
	case domain.ChannelTypeGroupDM:
		return "group"
	case domain.ChannelTypeGuildCategory:
		return "category"
	case domain.ChannelTypeGuildNews:
		return "news"
	default:
		return fmt.Sprintf("type-%d", int(t))
	}
}

func newRolesCmd(app *app) *cobra.Command {
	var guildID string
	var output string

	cmd := &cobra.Command{
		Use:   "roles",
		Short: "List the roles of a guild",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, _, err := connect(cmd, app, connectOptions{})
			if err != nil {
				return err
			}

			roles, err := client.GetGuildRoles(cmd.Context(), guildID)
			if err != nil {
				return err
			}

			return writeOutput(cmd, output, roles, func(w io.Writer) error {
				for _, r := range roles {
					perms, err := domain.ParsePermissions(r.Permissions)
					if err != nil {
						return err
					}
					admin := ""
					if domain.HasPermission(perms, domain.PermissionAdministrator) {
						admin = "\tadmin"
					}
					if _, err := fmt.Fprintf(w, "%s\t%s%s\n", r.ID, r.Name, admin); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&guildID, "guild", "", "Guild ID")
	addOutputFlag(cmd, &output)
	_ = cmd.MarkFlagRequired("guild")

	return cmd
}
