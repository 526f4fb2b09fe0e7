package gateway

import (
	"encoding/json"
	"fmt"

	"github.com/bnema/selfcord/internal/domain"
)

// Event is a typed dispatch from the gateway. Names without a dedicated type
// arrive as UnknownEvent.
type Event interface {
	EventName() string
}

type ReadyEvent struct {
	Session domain.SessionInfo
}

type MessageCreateEvent struct {
	Message domain.Message
}

type MessageUpdateEvent struct {
	Message domain.Message
}

type MessageDeleteEvent struct {
	ID        string `json:"id"`
	ChannelID string `json:"channel_id"`
	GuildID   string `json:"guild_id,omitempty"`
}

type MessageReactionAddEvent struct {
	UserID    string       `json:"user_id"`
	ChannelID string       `json:"channel_id"`
	MessageID string       `json:"message_id"`
	GuildID   string       `json:"guild_id,omitempty"`
	Emoji     domain.Emoji `json:"emoji"`
}

type MessageReactionRemoveEvent struct {
	UserID    string       `json:"user_id"`
	ChannelID string       `json:"channel_id"`
	MessageID string       `json:"message_id"`
	GuildID   string       `json:"guild_id,omitempty"`
	Emoji     domain.Emoji `json:"emoji"`
}

type TypingStartEvent struct {
	ChannelID string `json:"channel_id"`
	GuildID   string `json:"guild_id,omitempty"`
	UserID    string `json:"user_id"`
	Timestamp int64  `json:"timestamp"`
}

type GuildCreateEvent struct {
	Guild domain.Guild
}

type GuildDeleteEvent struct {
	ID          string `json:"id"`
	Unavailable bool   `json:"unavailable"`
}

type PresenceUpdateEvent struct {
	User struct {
		ID string `json:"id"`
	} `json:"user"`
	GuildID    string            `json:"guild_id,omitempty"`
	Status     string            `json:"status"`
	Activities []domain.Activity `json:"activities"`
}

type UnknownEvent struct {
	Name string
	Data json.RawMessage
}

// ClosedEvent is published when the connection drops without Logout.
type ClosedEvent struct {
	Err error
}

func (ReadyEvent) EventName() string                 { return "READY" }
func (MessageCreateEvent) EventName() string         { return "MESSAGE_CREATE" }
func (MessageUpdateEvent) EventName() string         { return "MESSAGE_UPDATE" }
func (MessageDeleteEvent) EventName() string         { return "MESSAGE_DELETE" }
func (MessageReactionAddEvent) EventName() string    { return "MESSAGE_REACTION_ADD" }
func (MessageReactionRemoveEvent) EventName() string { return "MESSAGE_REACTION_REMOVE" }
func (TypingStartEvent) EventName() string           { return "TYPING_START" }
func (GuildCreateEvent) EventName() string           { return "GUILD_CREATE" }
func (GuildDeleteEvent) EventName() string           { return "GUILD_DELETE" }
func (PresenceUpdateEvent) EventName() string        { return "PRESENCE_UPDATE" }
func (e UnknownEvent) EventName() string             { return e.Name }
func (ClosedEvent) EventName() string                { return "CLOSED" }

func decodeEvent(name string, data json.RawMessage) (Event, error) {
	var (
		ev  Event
		err error
	)

	switch name {
	case "READY":
		var info domain.SessionInfo
		err = json.Unmarshal(data, &info)
		info.Raw = data
		ev = ReadyEvent{Session: info}
	case "MESSAGE_CREATE":
		var msg domain.Message
		err = json.Unmarshal(data, &msg)
		ev = MessageCreateEvent{Message: msg}
	case "MESSAGE_UPDATE":
		var msg domain.Message
		err = json.Unmarshal(data, &msg)
		ev = MessageUpdateEvent{Message: msg}
	case "MESSAGE_DELETE":
		var e MessageDeleteEvent
		err = json.Unmarshal(data, &e)
		ev = e
	case "MESSAGE_REACTION_ADD":
		var e MessageReactionAddEvent
		err = json.Unmarshal(data, &e)
		ev = e
	case "MESSAGE_REACTION_REMOVE":
		var e MessageReactionRemoveEvent
		err = json.Unmarshal(data, &e)
		ev = e
	case "TYPING_START":
		var e TypingStartEvent
		err = json.Unmarshal(data, &e)
		ev = e
	case "GUILD_CREATE":
		var guild domain.Guild
		err = json.Unmarshal(data, &guild)
		ev = GuildCreateEvent{Guild: guild}
	case "GUILD_DELETE":
		var e GuildDeleteEvent
		err = json.Unmarshal(data, &e)
		ev = e
	case "PRESENCE_UPDATE":
		var e PresenceUpdateEvent
		err = json.Unmarshal(data, &e)
		ev = e
	default:
		return UnknownEvent{Name: name, Data: data}, nil
	}

	if err != nil {
		return UnknownEvent{Name: name, Data: data}, fmt.Errorf("decode %s event: %w", name, err)
	}
	return ev, nil
}
