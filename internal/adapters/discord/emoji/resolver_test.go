package emoji

import (
	"testing"

	"github.com/bnema/selfcord/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSource struct {
	emojis []domain.Emoji
	err    error
}

func (s staticSource) KnownEmojis() ([]domain.Emoji, error) {
	return s.emojis, s.err
}

var known = staticSource{emojis: []domain.Emoji{
	{ID: "100", Name: "blobwave", Animated: true},
	{ID: "200", Name: "kek"},
	{ID: "300", Name: "kek"},
}}

func TestResolveModes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		mode Mode
		want string
	}{
		{name: "message static", text: "lol :kek:", mode: ModeMessage, want: "lol <:kek:200>"},
		{name: "message animated", text: ":blobwave: hi", mode: ModeMessage, want: "<a:blobwave:100> hi"},
		{name: "raw", text: ":kek:", mode: ModeRaw, want: "kek:200"},
		{name: "accumulates", text: ":kek: and :blobwave:", mode: ModeMessage, want: "<:kek:200> and <a:blobwave:100>"},
		{name: "unknown kept", text: ":nope: :kek:", mode: ModeMessage, want: ":nope: <:kek:200>"},
		{name: "no tokens", text: "plain text", mode: ModeMessage, want: "plain text"},
	}

	r := NewResolver(known)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res, err := r.Resolve(tt.text, tt.mode)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Text)
			assert.Nil(t, res.Emoji)
		})
	}
}

func TestResolveObjectReturnsLastMatch(t *testing.T) {
	t.Parallel()

	res, err := NewResolver(known).Resolve(":kek: :blobwave: :nope:", ModeObject)
	require.NoError(t, err)
	assert.Equal(t, ":kek: :blobwave: :nope:", res.Text)
	require.NotNil(t, res.Emoji)
	assert.Equal(t, "100", res.Emoji.ID)
}

func TestResolveWithoutSession(t *testing.T) {
	t.Parallel()

	r := NewResolver(staticSource{err: domain.ErrSessionNotReady})

	_, err := r.Resolve(":kek:", ModeMessage)
	assert.ErrorIs(t, err, domain.ErrSessionNotReady)

	assert.Equal(t, Result{Text: ":kek:"}, r.TryResolve(":kek:", ModeMessage))

	res, err := r.Resolve("no tokens here", ModeMessage)
	require.NoError(t, err)
	assert.Equal(t, "no tokens here", res.Text)
}

func TestURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://cdn.discordapp.com/emojis/100.gif", URL(domain.Emoji{ID: "100", Name: "blobwave", Animated: true}))
	assert.Equal(t, "https://cdn.discordapp.com/emojis/200.png", URL(domain.Emoji{ID: "200", Name: "kek"}))
	assert.Equal(t, "https://twemoji.maxcdn.com/v/latest/72x72/1f600.png", URL(domain.Emoji{Name: "😀"}))
}

func TestIsEmojiObject(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want bool
	}{
		{raw: `{"id":"1","name":"kek"}`, want: true},
		{raw: `{"id":null,"name":"😀"}`, want: true},
		{raw: `{"name":"kek"}`, want: false},
		{raw: `{"id":"1"}`, want: false},
		{raw: `"kek"`, want: false},
		{raw: `not json`, want: false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsEmojiObject([]byte(tt.raw)), tt.raw)
	}
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw     string
		want    Mode
		wantErr bool
	}{
		{raw: "message", want: ModeMessage},
		{raw: " RAW ", want: ModeRaw},
		{raw: "object", want: ModeObject},
		{raw: "html", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()
			got, err := ParseMode(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
