package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/bnema/selfcord/internal/adapters/discord"
	"github.com/bnema/selfcord/internal/adapters/discord/emoji"
	"github.com/bnema/selfcord/internal/domain"
	"github.com/spf13/cobra"
)

func newEmojisCmd(app *app) *cobra.Command {
	var guildID string
	var name string
	var output string

	cmd := &cobra.Command{
		Use:   "emojis",
		Short: "List custom emojis of a guild, or of every guild in the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list := func(emojis []domain.Emoji) error {
				return writeOutput(cmd, output, emojis, func(w io.Writer) error {
					for _, e := range emojis {
						if _, err := fmt.Fprintf(w, "%s\t%s\t%s\n", e.ID, emoji.Format(e), emoji.URL(e)); err != nil {
							return err
						}
					}
					return nil
				})
			}

			if guildID != "" {
				client, _, err := connect(cmd, app, connectOptions{})
				if err != nil {
					return err
				}
				emojis, err := client.GetGuildCustomEmojis(cmd.Context(), guildID, name)
				if err != nil {
					return err
				}
				return list(emojis)
			}

			return withSession(cmd, app, connectOptions{}, func(client *discord.Client) error {
				emojis, err := client.GetCustomEmojis(name)
				if err != nil {
					return err
				}
				return list(emojis)
			})
		},
	}

	cmd.Flags().StringVar(&guildID, "guild", "", "Guild ID (default: every guild of the session)")
	cmd.Flags().StringVar(&name, "name", "", "Only emojis with this name")
	addOutputFlag(cmd, &output)
	cmd.AddCommand(newEmojiResolveCmd(app), newEmojiDownloadCmd(app))

	return cmd
}

func newEmojiResolveCmd(app *app) *cobra.Command {
	var mode string

	cmd := &cobra.Command{
		Use:   "resolve <text>",
		Short: "Replace :name: tokens with the custom emojis of the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := emoji.ParseMode(mode)
			if err != nil {
				return err
			}

			return withSession(cmd, app, connectOptions{}, func(client *discord.Client) error {
				res, err := client.ParseCustomEmojis(args[0], m)
				if err != nil {
					return err
				}
				text := res.Text
				if m == emoji.ModeObject {
					if text, err = discord.JSONFormat(res.Emoji); err != nil {
						return err
					}
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&mode, "mode", emoji.ModeMessage.String(), "Resolution mode (message|raw|object)")

	return cmd
}

func newEmojiDownloadCmd(app *app) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "download <name>",
		Short: "Download the image of a session custom emoji",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd, app, connectOptions{}, func(client *discord.Client) error {
				matches, err := client.GetCustomEmojis(args[0])
				if err != nil {
					return err
				}
				if len(matches) == 0 {
					return fmt.Errorf("emoji %q not found in session guilds", args[0])
				}

				data, err := client.DownloadEmoji(cmd.Context(), matches[0])
				if err != nil {
					return err
				}

				path := outPath
				if path == "" {
					ext := ".png"
					if matches[0].Animated {
						ext = ".gif"
					}
					path = matches[0].Name + ext
				}
				if err := os.WriteFile(path, data, 0o644); err != nil {
					return fmt.Errorf("write emoji image: %w", err)
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", path)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "Output file (default <name>.png or .gif)")

	return cmd
}
