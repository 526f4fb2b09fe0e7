package discord

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/bnema/selfcord/internal/adapters/discord/emoji"
	"github.com/bnema/selfcord/internal/adapters/discord/rest"
	"github.com/bnema/selfcord/internal/domain"
)

const (
	defaultMessageLimit = 100
	maxBulkDelete       = 100
)

type GetMessagesOptions struct {
	ChannelID string
	// Limit defaults to 100.
	Limit  int
	Before string
	After  string
	Around string
}

type ReplyOptions struct {
	ChannelID string
	MessageID string
	GuildID   string
	Content   string
	Files     []File
}

type messagePayload struct {
	Content          string                   `json:"content"`
	MessageReference *domain.MessageReference `json:"message_reference,omitempty"`
}

func (c *Client) GetMessages(ctx context.Context, opts GetMessagesOptions) ([]domain.Message, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultMessageLimit
	}
	query := url.Values{"limit": {strconv.Itoa(limit)}}
	if opts.Before != "" {
		query.Set("before", opts.Before)
	}
	if opts.After != "" {
		query.Set("after", opts.After)
	}
	if opts.Around != "" {
		query.Set("around", opts.Around)
	}

	return call[[]domain.Message](ctx, c, rest.Request{
		Path:  "channels/" + opts.ChannelID + "/messages",
		Query: query,
	}, rest.AssertArray, "get messages")
}

// GetAllMessages walks the channel history from newest to oldest.
func (c *Client) GetAllMessages(ctx context.Context, channelID string) ([]domain.Message, error) {
	var (
		all    []domain.Message
		before string
	)
	for {
		page, err := c.GetMessages(ctx, GetMessagesOptions{
			ChannelID: channelID,
			Limit:     defaultMessageLimit,
			Before:    before,
		})
		if err != nil {
			return all, err
		}
		all = append(all, page...)
		if len(page) < defaultMessageLimit {
			return all, nil
		}
		before = page[len(page)-1].ID

		select {
		case <-ctx.Done():
			return all, ctx.Err()
		case <-time.After(c.pageDelay):
		}
	}
}

func (c *Client) SendMessage(ctx context.Context, channelID, content string, files ...File) (domain.Message, error) {
	return c.postMessage(ctx, channelID, messagePayload{
		Content: c.emojis.TryResolve(content, emoji.ModeMessage).Text,
	}, files, "send message")
}

func (c *Client) SendMessageReply(ctx context.Context, opts ReplyOptions) (domain.Message, error) {
	return c.postMessage(ctx, opts.ChannelID, messagePayload{
		Content: c.emojis.TryResolve(opts.Content, emoji.ModeMessage).Text,
		MessageReference: &domain.MessageReference{
			MessageID: opts.MessageID,
			ChannelID: opts.ChannelID,
			GuildID:   opts.GuildID,
		},
	}, opts.Files, "send message reply")
}

func (c *Client) postMessage(ctx context.Context, channelID string, payload messagePayload, files []File, what string) (domain.Message, error) {
	body, contentType, err := messageForm(payload, files)
	if err != nil {
		return domain.Message{}, fmt.Errorf("%s: %w", what, err)
	}
	return call[domain.Message](ctx, c, rest.Request{
		Method:      http.MethodPost,
		Path:        "channels/" + channelID + "/messages",
		Body:        body,
		ContentType: contentType,
	}, rest.AssertID, what)
}

func (c *Client) UpdateMessage(ctx context.Context, channelID, messageID, content string) (domain.Message, error) {
	return call[domain.Message](ctx, c, rest.Request{
		Method: http.MethodPatch,
		Path:   "channels/" + channelID + "/messages/" + messageID,
		JSON:   messagePayload{Content: c.emojis.TryResolve(content, emoji.ModeMessage).Text},
	}, rest.AssertID, "update message")
}

func (c *Client) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	return c.exec(ctx, rest.Request{
		Method: http.MethodDelete,
		Path:   "channels/" + channelID + "/messages/" + messageID,
	}, "delete message")
}

// BulkDeleteMessages deletes up to 100 messages in one request.
func (c *Client) BulkDeleteMessages(ctx context.Context, channelID string, messageIDs []string) error {
	switch {
	case len(messageIDs) > maxBulkDelete:
		return domain.ErrTooManyMessages
	case len(messageIDs) == 0:
		return nil
	case len(messageIDs) == 1:
		return c.DeleteMessage(ctx, channelID, messageIDs[0])
	}

	return c.exec(ctx, rest.Request{
		Method: http.MethodPost,
		Path:   "channels/" + channelID + "/messages/bulk-delete",
		JSON:   map[string][]string{"messages": messageIDs},
	}, "bulk delete messages")
}

func (c *Client) AddReaction(ctx context.Context, channelID, messageID, emojiText string) error {
	return c.exec(ctx, rest.Request{
		Method: http.MethodPut,
		Path:   c.reactionPath(channelID, messageID, emojiText),
	}, "add reaction")
}

func (c *Client) RemoveReaction(ctx context.Context, channelID, messageID, emojiText string) error {
	return c.exec(ctx, rest.Request{
		Method: http.MethodDelete,
		Path:   c.reactionPath(channelID, messageID, emojiText),
	}, "remove reaction")
}

// reactionPath escapes a unicode emoji, or turns :name: into name:id.
func (c *Client) reactionPath(channelID, messageID, emojiText string) string {
	encoded := emojiText
	if utf8.RuneCountInString(emojiText) > 1 {
		encoded = c.emojis.TryResolve(emojiText, emoji.ModeRaw).Text
	}
	return "channels/" + channelID + "/messages/" + messageID + "/reactions/" + url.PathEscape(encoded) + "/@me"
}
