package emoji

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/bnema/selfcord/internal/domain"
	"github.com/tidwall/gjson"
)

const (
	cdnBaseURL     = "https://cdn.discordapp.com/emojis/"
	twemojiBaseURL = "https://twemoji.maxcdn.com/v/latest/72x72/"
)

var tokenPattern = regexp.MustCompile(`:(\w+):`)

// Source lists the custom emojis the current session can use.
type Source interface {
	KnownEmojis() ([]domain.Emoji, error)
}

type Mode int

const (
	// ModeMessage renders <:name:id>, or <a:name:id> when animated.
	ModeMessage Mode = iota
	// ModeRaw renders name:id, the form used in reaction paths.
	ModeRaw
	// ModeObject leaves the text alone and returns the matched emoji.
	ModeObject
)

func (m Mode) String() string {
	switch m {
	case ModeRaw:
		return "raw"
	case ModeObject:
		return "object"
	default:
		return "message"
	}
}

func ParseMode(raw string) (Mode, error) {
	for _, m := range []Mode{ModeMessage, ModeRaw, ModeObject} {
		if strings.EqualFold(strings.TrimSpace(raw), m.String()) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unsupported emoji mode %q", raw)
}

// Result is the resolved text. Emoji is only set in ModeObject; with several
// matching tokens it holds the last one.
type Result struct {
	Text  string
	Emoji *domain.Emoji
}

type Resolver struct {
	source Source
}

func NewResolver(source Source) *Resolver {
	return &Resolver{source: source}
}

// Resolve replaces every :name: token that names a known emoji. Unknown
// tokens are kept as written.
func (r *Resolver) Resolve(text string, mode Mode) (Result, error) {
	if !tokenPattern.MatchString(text) {
		return Result{Text: text}, nil
	}

	known, err := r.source.KnownEmojis()
	if err != nil {
		return Result{Text: text}, fmt.Errorf("resolve emojis: %w", err)
	}

	result := Result{Text: text}
	replaced := tokenPattern.ReplaceAllStringFunc(text, func(token string) string {
		name := tokenPattern.FindStringSubmatch(token)[1]
		e, ok := find(known, name)
		if !ok {
			return token
		}
		switch mode {
		case ModeRaw:
			return e.Name + ":" + e.ID
		case ModeObject:
			found := e
			result.Emoji = &found
			return token
		default:
			return Format(e)
		}
	})
	if mode != ModeObject {
		result.Text = replaced
	}
	return result, nil
}

// TryResolve is Resolve that falls back to the untouched text.
func (r *Resolver) TryResolve(text string, mode Mode) Result {
	res, err := r.Resolve(text, mode)
	if err != nil {
		return Result{Text: text}
	}
	return res
}

func find(known []domain.Emoji, name string) (domain.Emoji, bool) {
	for _, e := range known {
		if e.Name == name {
			return e, true
		}
	}
	return domain.Emoji{}, false
}

// Format renders e the way message content embeds a custom emoji.
func Format(e domain.Emoji) string {
	if e.Animated {
		return "<a:" + e.Name + ":" + e.ID + ">"
	}
	return "<:" + e.Name + ":" + e.ID + ">"
}

// URL returns the CDN image of a custom emoji, or the twemoji image of a
// unicode one.
func URL(e domain.Emoji) string {
	if e.ID != "" {
		ext := "png"
		if e.Animated {
			ext = "gif"
		}
		return cdnBaseURL + e.ID + "." + ext
	}
	r, _ := utf8.DecodeRuneInString(e.Name)
	return twemojiBaseURL + strconv.FormatInt(int64(r), 16) + ".png"
}

// IsEmojiObject reports whether raw is a JSON object carrying both an id and
// a name key. A null id (unicode emoji) still counts.
func IsEmojiObject(raw []byte) bool {
	if !gjson.ValidBytes(raw) {
		return false
	}
	v := gjson.ParseBytes(raw)
	return v.IsObject() && v.Get("id").Exists() && v.Get("name").Exists()
}
