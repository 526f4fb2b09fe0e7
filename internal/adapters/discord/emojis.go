package discord

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/bnema/selfcord/internal/adapters/discord/emoji"
	"github.com/bnema/selfcord/internal/adapters/discord/rest"
	"github.com/bnema/selfcord/internal/domain"
)

// CreateEmoji uploads image (raw bytes of type ext, e.g. "png") as a guild emoji.
func (c *Client) CreateEmoji(ctx context.Context, guildID, name string, image []byte, ext string) (domain.Emoji, error) {
	return call[domain.Emoji](ctx, c, rest.Request{
		Method: http.MethodPost,
		Path:   "guilds/" + guildID + "/emojis",
		JSON: map[string]string{
			"name":  name,
			"image": "data:image/" + ext + ";base64," + base64.StdEncoding.EncodeToString(image),
		},
	}, rest.AssertID, "create emoji")
}

func (c *Client) DeleteEmoji(ctx context.Context, guildID, emojiID string) error {
	return c.exec(ctx, rest.Request{
		Method: http.MethodDelete,
		Path:   "guilds/" + guildID + "/emojis/" + emojiID,
	}, "delete emoji")
}

// GetCustomEmojis lists the emojis of every guild in the session, optionally
// only those called name.
func (c *Client) GetCustomEmojis(name string) ([]domain.Emoji, error) {
	known, err := c.session.KnownEmojis()
	if err != nil {
		return nil, fmt.Errorf("get custom emojis: %w", err)
	}
	return filterEmojis(known, name), nil
}

func (c *Client) GetGuildCustomEmojis(ctx context.Context, guildID, name string) ([]domain.Emoji, error) {
	guild, err := c.GetGuild(ctx, guildID)
	if err != nil {
		return nil, err
	}
	return filterEmojis(guild.Emojis, name), nil
}

func filterEmojis(emojis []domain.Emoji, name string) []domain.Emoji {
	if name == "" {
		return emojis
	}
	var out []domain.Emoji
	for _, e := range emojis {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}

func (c *Client) ParseCustomEmojis(content string, mode emoji.Mode) (emoji.Result, error) {
	return c.emojis.Resolve(content, mode)
}

func (c *Client) TryParseCustomEmojis(content string, mode emoji.Mode) emoji.Result {
	return c.emojis.TryResolve(content, mode)
}

// DownloadEmoji fetches the emoji image from the CDN.
func (c *Client) DownloadEmoji(ctx context.Context, e domain.Emoji) ([]byte, error) {
	return c.DownloadFile(ctx, emoji.URL(e))
}
