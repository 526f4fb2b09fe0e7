package domain

import (
	"encoding/json"
	"time"
)

type User struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Discriminator string `json:"discriminator"`
	GlobalName    string `json:"global_name,omitempty"`
	Avatar        string `json:"avatar,omitempty"`
	Bot           bool   `json:"bot,omitempty"`
	Bio           string `json:"bio,omitempty"`
	PublicFlags   int64  `json:"public_flags,omitempty"`
	Flags         int64  `json:"flags,omitempty"`
}

func (u User) Tag() string {
	return u.Username + "#" + u.Discriminator
}

type Emoji struct {
	ID            string   `json:"id,omitempty"`
	Name          string   `json:"name"`
	Animated      bool     `json:"animated,omitempty"`
	Roles         []string `json:"roles,omitempty"`
	RequireColons bool     `json:"require_colons,omitempty"`
	Managed       bool     `json:"managed,omitempty"`
	Available     bool     `json:"available,omitempty"`
}

type Attachment struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	URL         string `json:"url"`
	ProxyURL    string `json:"proxy_url,omitempty"`
	ContentType string `json:"content_type,omitempty"`
}

type MessageReference struct {
	MessageID string `json:"message_id,omitempty"`
	ChannelID string `json:"channel_id,omitempty"`
	GuildID   string `json:"guild_id,omitempty"`
}

type Message struct {
	ID                string            `json:"id"`
	Type              int               `json:"type"`
	Content           string            `json:"content"`
	ChannelID         string            `json:"channel_id"`
	GuildID           string            `json:"guild_id,omitempty"`
	Author            User              `json:"author"`
	Attachments       []Attachment      `json:"attachments,omitempty"`
	Embeds            []json.RawMessage `json:"embeds,omitempty"`
	Mentions          []User            `json:"mentions,omitempty"`
	Pinned            bool              `json:"pinned"`
	MentionEveryone   bool              `json:"mention_everyone"`
	TTS               bool              `json:"tts"`
	Timestamp         time.Time         `json:"timestamp"`
	EditedTimestamp   *time.Time        `json:"edited_timestamp,omitempty"`
	Flags             int64             `json:"flags"`
	MessageReference  *MessageReference `json:"message_reference,omitempty"`
	ReferencedMessage *Message          `json:"referenced_message,omitempty"`
}

type ChannelType int

const (
	ChannelTypeGuildText     ChannelType = 0
	ChannelTypeDM            ChannelType = 1
	ChannelTypeGuildVoice    ChannelType = 2
	ChannelTypeGroupDM       ChannelType = 3
	ChannelTypeGuildCategory ChannelType = 4
	ChannelTypeGuildNews     ChannelType = 5
	ChannelTypeGuildStage    ChannelType = 13
	ChannelTypeGuildForum    ChannelType = 15
)

type PermissionOverwrite struct {
	ID    string `json:"id"`
	Type  int    `json:"type"`
	Allow string `json:"allow"`
	Deny  string `json:"deny"`
}

type Channel struct {
	ID                   string                `json:"id,omitempty"`
	Type                 ChannelType           `json:"type"`
	GuildID              string                `json:"guild_id,omitempty"`
	Name                 string                `json:"name,omitempty"`
	Topic                string                `json:"topic,omitempty"`
	Position             int                   `json:"position,omitempty"`
	ParentID             string                `json:"parent_id,omitempty"`
	NSFW                 bool                  `json:"nsfw,omitempty"`
	LastMessageID        string                `json:"last_message_id,omitempty"`
	RateLimitPerUser     int                   `json:"rate_limit_per_user,omitempty"`
	Bitrate              int                   `json:"bitrate,omitempty"`
	UserLimit            int                   `json:"user_limit,omitempty"`
	PermissionOverwrites []PermissionOverwrite `json:"permission_overwrites,omitempty"`
	Recipients           []User                `json:"recipients,omitempty"`
	Flags                int64                 `json:"flags,omitempty"`
}

type Role struct {
	ID           string `json:"id,omitempty"`
	Name         string `json:"name"`
	Color        int    `json:"color,omitempty"`
	Hoist        bool   `json:"hoist"`
	Position     int    `json:"position,omitempty"`
	Permissions  string `json:"permissions,omitempty"`
	Managed      bool   `json:"managed,omitempty"`
	Mentionable  bool   `json:"mentionable"`
	Icon         string `json:"icon,omitempty"`
	UnicodeEmoji string `json:"unicode_emoji,omitempty"`
	Flags        int64  `json:"flags,omitempty"`
}

type Guild struct {
	ID                          string    `json:"id"`
	Name                        string    `json:"name"`
	Icon                        string    `json:"icon,omitempty"`
	Description                 string    `json:"description,omitempty"`
	OwnerID                     string    `json:"owner_id,omitempty"`
	Region                      string    `json:"region,omitempty"`
	AFKChannelID                string    `json:"afk_channel_id,omitempty"`
	AFKTimeout                  int       `json:"afk_timeout,omitempty"`
	SystemChannelID             string    `json:"system_channel_id,omitempty"`
	SystemChannelFlags          int64     `json:"system_channel_flags,omitempty"`
	VerificationLevel           int       `json:"verification_level"`
	DefaultMessageNotifications int       `json:"default_message_notifications"`
	ExplicitContentFilter       int       `json:"explicit_content_filter"`
	MemberCount                 int       `json:"member_count,omitempty"`
	PremiumTier                 int       `json:"premium_tier,omitempty"`
	Features                    []string  `json:"features,omitempty"`
	Roles                       []Role    `json:"roles,omitempty"`
	Emojis                      []Emoji   `json:"emojis,omitempty"`
	Channels                    []Channel `json:"channels,omitempty"`
}

type GuildSummary struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Icon        string   `json:"icon,omitempty"`
	Owner       bool     `json:"owner"`
	Permissions string   `json:"permissions"`
	Features    []string `json:"features,omitempty"`
}

type GuildJoinInfo struct {
	Code    string       `json:"code"`
	Guild   GuildSummary `json:"guild"`
	Channel *Channel     `json:"channel,omitempty"`
	Inviter *User        `json:"inviter,omitempty"`
}

// GuildSettings is the editable subset of a guild. Zero values are omitted
// from the update.
type GuildSettings struct {
	Name                        string `json:"name,omitempty"`
	Region                      string `json:"region,omitempty"`
	VerificationLevel           *int   `json:"verification_level,omitempty"`
	DefaultMessageNotifications *int   `json:"default_message_notifications,omitempty"`
	ExplicitContentFilter       *int   `json:"explicit_content_filter,omitempty"`
	AFKChannelID                string `json:"afk_channel_id,omitempty"`
	AFKTimeout                  *int   `json:"afk_timeout,omitempty"`
	SystemChannelID             string `json:"system_channel_id,omitempty"`
	SystemChannelFlags          *int64 `json:"system_channel_flags,omitempty"`
	Icon                        string `json:"icon,omitempty"`
}

// SessionInfo is the READY payload. Raw keeps the full document for callers
// that need fields not mapped here.
type SessionInfo struct {
	Version          int             `json:"v"`
	SessionID        string          `json:"session_id"`
	SessionType      string          `json:"session_type,omitempty"`
	ResumeGatewayURL string          `json:"resume_gateway_url,omitempty"`
	User             User            `json:"user"`
	Guilds           []Guild         `json:"guilds"`
	PrivateChannels  []Channel       `json:"private_channels,omitempty"`
	CountryCode      string          `json:"country_code,omitempty"`
	Raw              json.RawMessage `json:"-"`
}

func (s SessionInfo) Emojis() []Emoji {
	var emojis []Emoji
	for _, guild := range s.Guilds {
		emojis = append(emojis, guild.Emojis...)
	}
	return emojis
}

type MutualGuild struct {
	ID   string  `json:"id"`
	Nick *string `json:"nick"`
}

type Profile struct {
	User              User              `json:"user"`
	ConnectedAccounts []json.RawMessage `json:"connected_accounts,omitempty"`
	PremiumSince      *time.Time        `json:"premium_since,omitempty"`
	PremiumType       *int              `json:"premium_type,omitempty"`
	MutualGuilds      []MutualGuild     `json:"mutual_guilds,omitempty"`
	UserProfile       struct {
		Bio         string `json:"bio"`
		AccentColor *int   `json:"accent_color"`
	} `json:"user_profile"`
}

type BillingAddress struct {
	Name       string `json:"name"`
	Line1      string `json:"line_1"`
	Line2      string `json:"line_2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	Country    string `json:"country"`
	PostalCode string `json:"postal_code"`
}

type PaymentSource struct {
	ID             string         `json:"id"`
	Type           int            `json:"type"`
	Invalid        bool           `json:"invalid"`
	Flags          int64          `json:"flags"`
	Brand          string         `json:"brand,omitempty"`
	Last4          string         `json:"last_4,omitempty"`
	ExpiresMonth   int            `json:"expires_month,omitempty"`
	ExpiresYear    int            `json:"expires_year,omitempty"`
	BillingAddress BillingAddress `json:"billing_address"`
	Country        string         `json:"country,omitempty"`
	PaymentGateway int            `json:"payment_gateway"`
	Default        bool           `json:"default"`
}

type CountryCode struct {
	CountryCode string `json:"country_code"`
}

type SubscriptionItem struct {
	ID       string `json:"id"`
	PlanID   string `json:"plan_id"`
	Quantity int    `json:"quantity"`
}

// SubscriptionTypePremium marks a Nitro subscription.
const SubscriptionTypePremium = 1

type Subscription struct {
	ID                 string             `json:"id"`
	Type               int                `json:"type"`
	Status             int                `json:"status"`
	CreatedAt          time.Time          `json:"created_at"`
	CanceledAt         *time.Time         `json:"canceled_at,omitempty"`
	CurrentPeriodStart time.Time          `json:"current_period_start"`
	CurrentPeriodEnd   time.Time          `json:"current_period_end"`
	PaymentSourceID    string             `json:"payment_source_id,omitempty"`
	Currency           string             `json:"currency,omitempty"`
	Items              []SubscriptionItem `json:"items,omitempty"`
}

type SlashCommand struct {
	ID            string          `json:"id"`
	ApplicationID string          `json:"application_id"`
	Version       string          `json:"version"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Type          int             `json:"type"`
	Raw           json.RawMessage `json:"-"`
}

type Payment struct {
	ID            string         `json:"id"`
	Amount        int64          `json:"amount"`
	Currency      string         `json:"currency"`
	Status        int            `json:"status"`
	Description   string         `json:"description,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	PaymentSource *PaymentSource `json:"payment_source,omitempty"`
}
