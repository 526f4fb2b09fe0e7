package discord

import (
	"fmt"
	"unicode/utf8"

	"github.com/bnema/selfcord/internal/adapters/discord/emoji"
	"github.com/bnema/selfcord/internal/adapters/discord/gateway"
	"github.com/bnema/selfcord/internal/domain"
)

const customStatusName = "Custom Status"

// StartPresence shows a single activity. An empty status means online.
func (c *Client) StartPresence(name string, kind domain.ActivityType, status domain.PresenceStatus) error {
	return c.sendPresence(status, domain.Activity{Name: name, Type: kind})
}

// SetCustomStatus sets the custom status text. emojiText may be a single
// unicode emoji or a :name: token of a custom emoji known to the session.
func (c *Client) SetCustomStatus(text string, status domain.PresenceStatus, emojiText string) error {
	activity := domain.Activity{
		Name:  customStatusName,
		Type:  domain.ActivityCustom,
		State: text,
		Emoji: c.statusEmoji(emojiText),
	}
	return c.sendPresence(status, activity)
}

func (c *Client) statusEmoji(text string) *domain.Emoji {
	if text == "" {
		return nil
	}
	if utf8.RuneCountInString(text) > 1 {
		if res := c.emojis.TryResolve(text, emoji.ModeObject); res.Emoji != nil {
			return res.Emoji
		}
	}
	return &domain.Emoji{Name: text}
}

func (c *Client) sendPresence(status domain.PresenceStatus, activity domain.Activity) error {
	if status == "" {
		status = domain.StatusOnline
	}
	err := c.session.SendOperation(gateway.OpPresenceUpdate, domain.PresenceUpdate{
		Status:     status,
		Activities: []domain.Activity{activity},
	})
	if err != nil {
		return fmt.Errorf("update presence: %w", err)
	}
	return nil
}
