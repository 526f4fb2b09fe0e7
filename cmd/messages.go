package cmd

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/bnema/selfcord/internal/adapters/discord"
	"github.com/bnema/selfcord/internal/domain"
	"github.com/spf13/cobra"
)

func newMessagesCmd(app *app) *cobra.Command {
	var opts discord.GetMessagesOptions
	var all bool
	var output string

	cmd := &cobra.Command{
		Use:   "messages",
		Short: "Read messages from a channel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, _, err := connect(cmd, app, connectOptions{})
			if err != nil {
				return err
			}

			var messages []domain.Message
			if all {
				messages, err = client.GetAllMessages(cmd.Context(), opts.ChannelID)
			} else {
				messages, err = client.GetMessages(cmd.Context(), opts)
			}
			if err != nil {
				return err
			}

			return writeOutput(cmd, output, messages, func(w io.Writer) error {
				for _, m := range messages {
					if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.ID, m.Timestamp.Format("2006-01-02 15:04"), m.Author.Tag(), m.Content); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&opts.ChannelID, "channel", "", "Channel ID")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "Maximum number of messages (default 100)")
	cmd.Flags().StringVar(&opts.Before, "before", "", "Only messages before this message ID")
	cmd.Flags().StringVar(&opts.After, "after", "", "Only messages after this message ID")
	cmd.Flags().StringVar(&opts.Around, "around", "", "Only messages around this message ID")
	cmd.Flags().BoolVar(&all, "all", false, "Page through the whole channel history")
	addOutputFlag(cmd, &output)
	_ = cmd.MarkFlagRequired("channel")

	return cmd
}

func newSendCmd(app *app) *cobra.Command {
	var channelID string
	var replyTo string
	var guildID string
	var paths []string
	var resolveEmojis bool
	var output string

	cmd := &cobra.Command{
		Use:   "send <content>",
		Short: "Send a message, optionally as a reply or with attachments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := readFiles(paths)
			if err != nil {
				return err
			}

			send := func(client *discord.Client) error {
				var msg domain.Message
				var err error
				if replyTo != "" {
					msg, err = client.SendMessageReply(cmd.Context(), discord.ReplyOptions{
						ChannelID: channelID,
						MessageID: replyTo,
						GuildID:   guildID,
						Content:   args[0],
						Files:     files,
					})
				} else {
					msg, err = client.SendMessage(cmd.Context(), channelID, args[0], files...)
				}
				if err != nil {
					return err
				}
				return writeOutput(cmd, output, msg, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "Sent message %s\n", msg.ID)
					return err
				})
			}

			// :name: tokens only resolve against a live session.
			if resolveEmojis {
				return withSession(cmd, app, connectOptions{}, send)
			}
			client, _, err := connect(cmd, app, connectOptions{})
			if err != nil {
				return err
			}
			return send(client)
		},
	}

	cmd.Flags().StringVar(&channelID, "channel", "", "Channel ID")
	cmd.Flags().StringVar(&replyTo, "reply-to", "", "Message ID to reply to")
	cmd.Flags().StringVar(&guildID, "guild", "", "Guild ID of the replied message")
	cmd.Flags().StringArrayVar(&paths, "file", nil, "File to attach (repeatable)")
	cmd.Flags().BoolVar(&resolveEmojis, "emojis", false, "Log in first so :name: custom emojis resolve")
	addOutputFlag(cmd, &output)
	_ = cmd.MarkFlagRequired("channel")

	return cmd
}

func readFiles(paths []string) ([]discord.File, error) {
	files := make([]discord.File, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read attachment: %w", err)
		}
		files = append(files, discord.File{
			Name:        filepath.Base(path),
			ContentType: http.DetectContentType(data),
			Data:        data,
		})
	}
	return files, nil
}

func newTypingCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "typing <channel-id>",
		Short: "Show the typing indicator in a channel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := connect(cmd, app, connectOptions{})
			if err != nil {
				return err
			}
			return client.SendTyping(cmd.Context(), strings.TrimSpace(args[0]))
		},
	}
}
