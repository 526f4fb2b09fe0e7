package discord

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bnema/selfcord/internal/adapters/discord/rest"
	"github.com/bnema/selfcord/internal/domain"
	"github.com/tidwall/gjson"
)

const (
	interactionTypeApplicationCommand = 2
	commandTypeChatInput              = 1
	interactionTimeout                = 10 * time.Second
)

type SlashCommandQuery struct {
	// Filter keeps commands whose name contains it.
	Filter string
	Start  string
	Limit  int
}

type SlashCommandTarget struct {
	GuildID string
	// ChannelID defaults to the channel the command was searched in.
	ChannelID string
}

type interactionData struct {
	Version            string          `json:"version"`
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	Type               int             `json:"type"`
	Options            []any           `json:"options"`
	ApplicationCommand json.RawMessage `json:"application_command"`
	Attachments        []any           `json:"attachments"`
}

type interactionPayload struct {
	Type          int             `json:"type"`
	ApplicationID string          `json:"application_id"`
	GuildID       string          `json:"guild_id,omitempty"`
	ChannelID     string          `json:"channel_id"`
	SessionID     string          `json:"session_id"`
	Data          interactionData `json:"data"`
}

func (c *Client) GetSlashCommands(ctx context.Context, channelID string, q SlashCommandQuery) ([]domain.SlashCommand, error) {
	query := url.Values{"type": {strconv.Itoa(commandTypeChatInput)}}
	if q.Start != "" {
		query.Set("start", q.Start)
	}
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}
	query.Set("include_applications", "true")

	body, err := c.do(ctx, rest.Request{
		Path:  "channels/" + channelID + "/application-commands/search",
		Query: query,
	})
	if err != nil {
		return nil, fmt.Errorf("get slash commands: %w", err)
	}

	list := gjson.GetBytes(body, "application_commands")
	if !list.IsArray() {
		_, err := rest.AssertArray(body, "get slash commands")
		return nil, err
	}

	var commands []domain.SlashCommand
	for _, item := range list.Array() {
		var cmd domain.SlashCommand
		if err := json.Unmarshal([]byte(item.Raw), &cmd); err != nil {
			return nil, &domain.MalformedResponseError{Context: "get slash commands: " + err.Error()}
		}
		if q.Filter != "" && !strings.Contains(cmd.Name, q.Filter) {
			continue
		}
		cmd.Raw = json.RawMessage(item.Raw)
		commands = append(commands, cmd)
	}
	return commands, nil
}

// SendSlashCommand runs the first command whose name contains name, without
// options.
func (c *Client) SendSlashCommand(ctx context.Context, channelID, name string, target SlashCommandTarget) error {
	info, err := c.session.SessionInfo()
	if err != nil {
		return fmt.Errorf("send slash command: %w", err)
	}

	commands, err := c.GetSlashCommands(ctx, channelID, SlashCommandQuery{Filter: name})
	if err != nil {
		return err
	}
	if len(commands) == 0 {
		return fmt.Errorf("%w: %s", domain.ErrCommandNotFound, name)
	}
	if len(commands) > 1 {
		c.logger.Info("multiple slash commands matched, using the first", "name", name, "matches", len(commands))
	}
	cmd := commands[0]

	if target.ChannelID == "" {
		target.ChannelID = channelID
	}
	body, contentType, err := messageForm(interactionPayload{
		Type:          interactionTypeApplicationCommand,
		ApplicationID: cmd.ApplicationID,
		GuildID:       target.GuildID,
		ChannelID:     target.ChannelID,
		SessionID:     info.SessionID,
		Data: interactionData{
			Version:            cmd.Version,
			ID:                 cmd.ID,
			Name:               cmd.Name,
			Type:               commandTypeChatInput,
			Options:            []any{},
			ApplicationCommand: cmd.Raw,
			Attachments:        []any{},
		},
	}, nil)
	if err != nil {
		return fmt.Errorf("send slash command: %w", err)
	}

	return c.exec(ctx, rest.Request{
		Method:      http.MethodPost,
		Path:        "interactions",
		Body:        body,
		ContentType: contentType,
		Timeout:     interactionTimeout,
	}, "send slash command")
}
