package discord

import (
	"context"
	"net/http"

	"github.com/bnema/selfcord/internal/adapters/discord/rest"
	"github.com/bnema/selfcord/internal/domain"
)

// JoinGuild accepts an invite code (the part after discord.gg/).
func (c *Client) JoinGuild(ctx context.Context, inviteCode string) (domain.GuildJoinInfo, error) {
	return call[domain.GuildJoinInfo](ctx, c, rest.Request{
		Method: http.MethodPost,
		Path:   "invites/" + inviteCode,
		JSON:   struct{}{},
	}, hasProperty("guild"), "join guild")
}

func (c *Client) LeaveGuild(ctx context.Context, guildID string) error {
	return c.exec(ctx, rest.Request{
		Method: http.MethodDelete,
		Path:   "users/@me/guilds/" + guildID,
	}, "leave guild")
}

func (c *Client) GetGuild(ctx context.Context, guildID string) (domain.Guild, error) {
	return call[domain.Guild](ctx, c, rest.Request{Path: "guilds/" + guildID}, rest.AssertID, "get guild")
}

func (c *Client) GetGuilds(ctx context.Context) ([]domain.GuildSummary, error) {
	return call[[]domain.GuildSummary](ctx, c, rest.Request{Path: "users/@me/guilds"}, rest.AssertArray, "get guilds")
}

func (c *Client) CreateGuild(ctx context.Context, name string) (domain.Guild, error) {
	return call[domain.Guild](ctx, c, rest.Request{
		Method: http.MethodPost,
		Path:   "guilds",
		JSON:   map[string]string{"name": name},
	}, rest.AssertID, "create guild")
}

func (c *Client) SetGuildInfo(ctx context.Context, guildID string, settings domain.GuildSettings) (domain.Guild, error) {
	return call[domain.Guild](ctx, c, rest.Request{
		Method: http.MethodPatch,
		Path:   "guilds/" + guildID,
		JSON:   settings,
	}, rest.AssertID, "set guild info")
}

func (c *Client) DeleteGuild(ctx context.Context, guildID string) error {
	return c.exec(ctx, rest.Request{
		Method: http.MethodDelete,
		Path:   "guilds/" + guildID,
	}, "delete guild")
}

func (c *Client) GetChannel(ctx context.Context, channelID string) (domain.Channel, error) {
	return call[domain.Channel](ctx, c, rest.Request{Path: "channels/" + channelID}, rest.AssertID, "get channel")
}

func (c *Client) GetGuildChannel(ctx context.Context, guildID, channelID string) (domain.Channel, error) {
	return call[domain.Channel](ctx, c, rest.Request{
		Path: "guilds/" + guildID + "/channels/" + channelID,
	}, rest.AssertID, "get guild channel")
}

func (c *Client) GetGuildChannels(ctx context.Context, guildID string) ([]domain.Channel, error) {
	return call[[]domain.Channel](ctx, c, rest.Request{
		Path: "guilds/" + guildID + "/channels",
	}, rest.AssertArray, "get guild channels")
}

// GetDMChannel opens, or returns the existing, direct message channel with a user.
func (c *Client) GetDMChannel(ctx context.Context, userID string) (domain.Channel, error) {
	return call[domain.Channel](ctx, c, rest.Request{
		Method: http.MethodPost,
		Path:   "users/@me/channels",
		JSON:   map[string][]string{"recipients": {userID}},
	}, rest.AssertID, "get DM channel")
}

func (c *Client) GetDMChannels(ctx context.Context) ([]domain.Channel, error) {
	return call[[]domain.Channel](ctx, c, rest.Request{Path: "users/@me/channels"}, rest.AssertArray, "get DM channels")
}

func (c *Client) CreateChannel(ctx context.Context, guildID string, channel domain.Channel) (domain.Channel, error) {
	return call[domain.Channel](ctx, c, rest.Request{
		Method: http.MethodPost,
		Path:   "guilds/" + guildID + "/channels",
		JSON:   channel,
	}, rest.AssertID, "create channel")
}

func (c *Client) EditChannel(ctx context.Context, channelID string, channel domain.Channel) (domain.Channel, error) {
	return call[domain.Channel](ctx, c, rest.Request{
		Method: http.MethodPatch,
		Path:   "channels/" + channelID,
		JSON:   channel,
	}, rest.AssertID, "edit channel")
}

func (c *Client) DeleteChannel(ctx context.Context, channelID string) error {
	return c.exec(ctx, rest.Request{
		Method: http.MethodDelete,
		Path:   "channels/" + channelID,
	}, "delete channel")
}

func (c *Client) GetGuildRoles(ctx context.Context, guildID string) ([]domain.Role, error) {
	return call[[]domain.Role](ctx, c, rest.Request{Path: "guilds/" + guildID + "/roles"}, rest.AssertArray, "get guild roles")
}

func (c *Client) GetGuildRole(ctx context.Context, guildID, roleID string) (domain.Role, error) {
	return call[domain.Role](ctx, c, rest.Request{
		Path: "guilds/" + guildID + "/roles/" + roleID,
	}, rest.AssertID, "get guild role")
}

func (c *Client) CreateGuildRole(ctx context.Context, guildID string, role domain.Role) (domain.Role, error) {
	return call[domain.Role](ctx, c, rest.Request{
		Method: http.MethodPost,
		Path:   "guilds/" + guildID + "/roles",
		JSON:   role,
	}, rest.AssertID, "create guild role")
}

func (c *Client) EditGuildRole(ctx context.Context, guildID, roleID string, role domain.Role) (domain.Role, error) {
	return call[domain.Role](ctx, c, rest.Request{
		Method: http.MethodPatch,
		Path:   "guilds/" + guildID + "/roles/" + roleID,
		JSON:   role,
	}, rest.AssertID, "edit guild role")
}

func (c *Client) DeleteGuildRole(ctx context.Context, guildID, roleID string) error {
	return c.exec(ctx, rest.Request{
		Method: http.MethodDelete,
		Path:   "guilds/" + guildID + "/roles/" + roleID,
	}, "delete guild role")
}
