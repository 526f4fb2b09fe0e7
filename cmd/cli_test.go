package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cliReady = `{"op":0,"s":1,"t":"READY","d":{"v":9,"session_id":"sess-cli","user":{"id":"42","username":"alice","discriminator":"0420"},"guilds":[{"id":"g1","name":"one","emojis":[{"id":"200","name":"kek"}]},{"id":"g2","name":"two"}]}}`

const cliMessageCreate = `{"op":0,"s":2,"t":"MESSAGE_CREATE","d":{"id":"m1","channel_id":"c1","content":"hello there","author":{"id":"7","username":"bob","discriminator":"0001"}}}`

// fakeDiscord serves the cookie page, the REST API under /api/v9 and a
// websocket gateway under /gateway.
type fakeDiscord struct {
	server *httptest.Server
	mux    *http.ServeMux

	frames      chan string
	connections atomic.Int32
	// dropFirst closes the first gateway connection right after READY.
	dropFirst bool
	// dispatch is sent after READY on every connection except a dropped one.
	dispatch []string

	mu     sync.Mutex
	tokens []string
}

func newFakeDiscord(t *testing.T) *fakeDiscord {
	t.Helper()

	f := &fakeDiscord{
		mux:    http.NewServeMux(),
		frames: make(chan string, 64),
	}
	f.mux.HandleFunc("/cookies", func(w http.ResponseWriter, _ *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "__dcfduid", Value: "cookie-1"})
		w.WriteHeader(http.StatusOK)
	})
	f.mux.HandleFunc("/gateway", f.serveGateway)

	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			f.mu.Lock()
			f.tokens = append(f.tokens, r.Header.Get("Authorization"))
			f.mu.Unlock()
		}
		f.mux.ServeHTTP(w, r)
	}))
	t.Cleanup(f.server.Close)

	t.Setenv("SELFCORD_API_BASE_URL", f.server.URL+"/api/v9")
	t.Setenv("SELFCORD_COOKIE_URL", f.server.URL+"/cookies")
	t.Setenv("SELFCORD_GATEWAY_URL", "ws"+strings.TrimPrefix(f.server.URL, "http")+"/gateway")
	t.Setenv("SELFCORD_CONNECT_TIMEOUT", "2s")

	return f
}

func (f *fakeDiscord) serveGateway(w http.ResponseWriter, r *http.Request) {
	conn, err := (&websocket.Upgrader{}).Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	n := f.connections.Add(1)

	_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"op":10,"d":{"heartbeat_interval":45000}}`))
	if _, _, err := conn.ReadMessage(); err != nil {
		return
	}
	_ = conn.WriteMessage(websocket.TextMessage, []byte(cliReady))

	if f.dropFirst && n == 1 {
		time.Sleep(50 * time.Millisecond)
		return
	}

	for _, frame := range f.dispatch {
		_ = conn.WriteMessage(websocket.TextMessage, []byte(frame))
	}

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		select {
		case f.frames <- string(msg):
		default:
		}
	}
}

func (f *fakeDiscord) handle(pattern string, fn http.HandlerFunc) {
	f.mux.HandleFunc(pattern, fn)
}

func (f *fakeDiscord) seenTokens() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.tokens...)
}

func (f *fakeDiscord) nextFrame(t *testing.T) string {
	t.Helper()
	select {
	case frame := <-f.frames:
		return frame
	case <-time.After(2 * time.Second):
		t.Fatal("no frame received")
		return ""
	}
}

func TestVersionCommand(t *testing.T) {
	home := t.TempDir()

	stdout, _, err := executeCLI(t, home, "version")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", stdout)
}

func TestAuthSetRequiresTokenFlag(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeAccountsFixture(home))

	_, _, err := executeCLI(t, home, "auth", "set", "--account", "acc-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag(s) \"token\" not set")
}

func TestStatusByAccountHappyPath(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeAccountsFixture(home))

	stdout, _, err := executeCLI(t, home, "status", "--account", "acc-1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "accounts: 1")
	assert.Contains(t, stdout, "Primary (acc-1)")
	assert.Contains(t, stdout, "never logged in")
}

func TestStatusByAccountJSONOutput(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeAccountsFixture(home))

	stdout, _, err := executeCLI(t, home, "status", "--account", "acc-1", "--json")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(stdout)))
	assert.Contains(t, stdout, "\"Account\"")
	assert.Contains(t, stdout, "\"ID\": \"acc-1\"")
}

func TestStatusUnknownAccountFails(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeAccountsFixture(home))

	_, _, err := executeCLI(t, home, "status", "--account", "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "account not found")
}

func TestAuthSetThenStatusShowsStoredToken(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeAccountsFixture(home))

	stdout, _, err := executeCLI(t, home, "auth", "set", "--account", "acc-1", "--token", "user-token")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Stored token for account acc-1")

	stdout, _, err = executeCLI(t, home, "status", "--account", "acc-1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "stored")
	assert.Contains(t, stdout, "discord://acc-1/token")
}

func TestAuthSetReadsTokenFromStdin(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeAccountsFixture(home))

	_, _, err := executeCLIWithInput(t, home, strings.NewReader("stdin-token\n"), "auth", "set", "--account", "acc-1", "--token", "-")
	require.NoError(t, err)

	stdout, _, err := executeCLI(t, home, "account", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "acc-1\tPrimary\ttoken")
}

func TestAuthSetAutoAssignsNextNumericAccountID(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeAccountsFixture(home))

	_, _, err := executeCLI(t, home, "auth", "set", "--token", "token-1")
	require.NoError(t, err)
	_, _, err = executeCLI(t, home, "auth", "set", "--token", "token-2")
	require.NoError(t, err)

	stdout, _, err := executeCLI(t, home, "status")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Account 1 (1)")
	assert.Contains(t, stdout, "Account 2 (2)")
}

func TestAuthRemoveClearsToken(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeAccountsFixture(home))

	_, _, err := executeCLI(t, home, "auth", "set", "--account", "acc-1", "--token", "user-token")
	require.NoError(t, err)
	_, _, err = executeCLI(t, home, "auth", "remove", "--account", "acc-1")
	require.NoError(t, err)

	stdout, _, err := executeCLI(t, home, "account", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "acc-1\tPrimary\tno token")
}

func TestAccountListShowsConfiguredAccounts(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeAccountsFixture(home))

	stdout, _, err := executeCLI(t, home, "account", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "acc-1")
	assert.Contains(t, stdout, "Primary")
}

func TestAccountListYAMLOutput(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeAccountsFixture(home))

	stdout, _, err := executeCLI(t, home, "account", "list", "--output", "yaml")
	require.NoError(t, err)
	assert.Contains(t, stdout, "ID: acc-1")
	assert.Contains(t, stdout, "Name: Primary")
}

func TestAccountListRejectsUnknownOutput(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeAccountsFixture(home))

	_, _, err := executeCLI(t, home, "account", "list", "--output", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format \"xml\"")
}

func TestAccountRenameAndRemove(t *testing.T) {
	home := t.TempDir()
	require.NoError(t, writeAccountsFixture(home))

	_, _, err := executeCLI(t, home, "account", "rename", "acc-1", "Main")
	require.NoError(t, err)

	stdout, _, err := executeCLI(t, home, "account", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Main")

	stdout, _, err = executeCLI(t, home, "account", "remove", "acc-1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Removed account acc-1")

	stdout, _, err = executeCLI(t, home, "account", "list")
	require.NoError(t, err)
	assert.NotContains(t, stdout, "acc-1")
}

func TestLoginRecordsSession(t *testing.T) {
	fake := newFakeDiscord(t)
	home := t.TempDir()
	require.NoError(t, writeAccountsFixture(home))
	_, _, err := executeCLI(t, home, "auth", "set", "--account", "acc-1", "--token", "user-token")
	require.NoError(t, err)

	stdout, stderr, err := executeCLI(t, home, "login")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Logged in as alice#0420 (2 guilds)")
	assert.Contains(t, stderr, "Connecting to the gateway")
	assert.Equal(t, int32(1), fake.connections.Load())

	stdout, _, err = executeCLI(t, home, "status")
	require.NoError(t, err)
	assert.Contains(t, stdout, "alice#0420")
	assert.Contains(t, stdout, "guilds: 2")
}

func TestLoginJSONOutput(t *testing.T) {
	newFakeDiscord(t)
	home := t.TempDir()
	t.Setenv("SELFCORD_TOKEN", "env-token")

	stdout, stderr, err := executeCLI(t, home, "login", "--output", "json")
	require.NoError(t, err)
	assert.Empty(t, stderr)

	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))
	assert.Equal(t, "alice#0420", result["user_tag"])
	assert.Equal(t, "sess-cli", result["session_id"])
	assert.NotContains(t, result, "account_id")
}

func TestCommandsRequireAccountSelection(t *testing.T) {
	newFakeDiscord(t)
	home := t.TempDir()
	require.NoError(t, writeAccountsFixture(home))

	_, _, err := executeCLI(t, home, "guilds")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no account has a token")

	_, _, err = executeCLI(t, home, "auth", "set", "--account", "acc-1", "--token", "token-1")
	require.NoError(t, err)
	_, _, err = executeCLI(t, home, "auth", "set", "--account", "acc-2", "--token", "token-2")
	require.NoError(t, err)

	_, _, err = executeCLI(t, home, "guilds")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pass --account")
}

func TestGuildsUsesStoredToken(t *testing.T) {
	fake := newFakeDiscord(t)
	fake.handle("GET /api/v9/users/@me/guilds", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "__dcfduid=cookie-1", r.Header.Get("Cookie"))
		_, _ = fmt.Fprint(w, `[{"id":"g1","name":"one","owner":true,"permissions":"8"},{"id":"g2","name":"two","permissions":"0"}]`)
	})

	home := t.TempDir()
	require.NoError(t, writeAccountsFixture(home))
	_, _, err := executeCLI(t, home, "auth", "set", "--account", "acc-1", "--token", "user-token")
	require.NoError(t, err)

	stdout, _, err := executeCLI(t, home, "guilds")
	require.NoError(t, err)
	assert.Contains(t, stdout, "g1\tone\towner")
	assert.Contains(t, stdout, "g2\ttwo\n")
	assert.Equal(t, []string{"user-token"}, fake.seenTokens())
}

func TestEnvTokenOverridesStoredAccounts(t *testing.T) {
	fake := newFakeDiscord(t)
	fake.handle("GET /api/v9/users/@me/guilds", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprint(w, `[]`)
	})
	t.Setenv("SELFCORD_TOKEN", "env-token")

	home := t.TempDir()
	_, _, err := executeCLI(t, home, "guilds", "--output", "json")
	require.NoError(t, err)
	assert.Equal(t, []string{"env-token"}, fake.seenTokens())
}

func TestCookieHarvestFailure(t *testing.T) {
	fake := newFakeDiscord(t)
	fake.server.Close()
	t.Setenv("SELFCORD_TOKEN", "env-token")

	home := t.TempDir()
	_, _, err := executeCLI(t, home, "guilds")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credentials unavailable")
}

func TestMessagesCommand(t *testing.T) {
	fake := newFakeDiscord(t)
	fake.handle("GET /api/v9/channels/c1/messages", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		assert.Equal(t, "m9", r.URL.Query().Get("before"))
		_, _ = fmt.Fprint(w, `[{"id":"m8","channel_id":"c1","content":"latest","timestamp":"2026-02-14T11:00:00.000000+00:00","author":{"id":"7","username":"bob","discriminator":"0001"}}]`)
	})
	t.Setenv("SELFCORD_TOKEN", "env-token")

	stdout, _, err := executeCLI(t, t.TempDir(), "messages", "--channel", "c1", "--limit", "5", "--before", "m9")
	require.NoError(t, err)
	assert.Equal(t, "m8\t2026-02-14 11:00\tbob#0001\tlatest\n", stdout)
}

func TestMessagesCommandReportsUpstreamError(t *testing.T) {
	fake := newFakeDiscord(t)
	fake.handle("GET /api/v9/channels/c1/messages", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = fmt.Fprint(w, `{"code":50001,"message":"Missing Access"}`)
	})
	t.Setenv("SELFCORD_TOKEN", "env-token")

	_, _, err := executeCLI(t, t.TempDir(), "messages", "--channel", "c1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Missing Access")
}

func TestSendCommandWithAttachment(t *testing.T) {
	fake := newFakeDiscord(t)
	fake.handle("POST /api/v9/channels/c1/messages", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.JSONEq(t, `{"content":"hi there"}`, r.FormValue("payload_json"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		data, _ := io.ReadAll(file)
		assert.Equal(t, "note.txt", header.Filename)
		assert.Equal(t, "attached", string(data))

		_, _ = fmt.Fprint(w, `{"id":"m10","channel_id":"c1","content":"hi there"}`)
	})
	t.Setenv("SELFCORD_TOKEN", "env-token")

	home := t.TempDir()
	path := filepath.Join(home, "note.txt")
	require.NoError(t, os.WriteFile(path, []byte("attached"), 0o600))

	stdout, _, err := executeCLI(t, home, "send", "hi there", "--channel", "c1", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Sent message m10")
}

func TestSendReplyResolvesEmojis(t *testing.T) {
	fake := newFakeDiscord(t)
	fake.handle("POST /api/v9/channels/c1/messages", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		var payload map[string]any
		require.NoError(t, json.Unmarshal([]byte(r.FormValue("payload_json")), &payload))
		assert.Equal(t, "nice <:kek:200>", payload["content"])
		assert.Equal(t, map[string]any{"channel_id": "c1", "message_id": "m1", "guild_id": "g1"}, payload["message_reference"])
		_, _ = fmt.Fprint(w, `{"id":"m11","channel_id":"c1","content":"nice <:kek:200>"}`)
	})
	t.Setenv("SELFCORD_TOKEN", "env-token")

	stdout, _, err := executeCLI(t, t.TempDir(), "send", "nice :kek:", "--channel", "c1", "--reply-to", "m1", "--guild", "g1", "--emojis", "--output", "json")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"id": "m11"`)
}

func TestTypingCommand(t *testing.T) {
	fake := newFakeDiscord(t)
	var called atomic.Bool
	fake.handle("POST /api/v9/channels/c1/typing", func(w http.ResponseWriter, _ *http.Request) {
		called.Store(true)
		w.WriteHeader(http.StatusNoContent)
	})
	t.Setenv("SELFCORD_TOKEN", "env-token")

	_, _, err := executeCLI(t, t.TempDir(), "typing", "c1")
	require.NoError(t, err)
	assert.True(t, called.Load())
}

func TestRolesCommandFlagsAdministrators(t *testing.T) {
	fake := newFakeDiscord(t)
	fake.handle("GET /api/v9/guilds/g1/roles", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprint(w, `[{"id":"r1","name":"admins","permissions":"8"},{"id":"r2","name":"everyone","permissions":"2048"}]`)
	})
	t.Setenv("SELFCORD_TOKEN", "env-token")

	stdout, _, err := executeCLI(t, t.TempDir(), "roles", "--guild", "g1")
	require.NoError(t, err)
	assert.Equal(t, "r1\tadmins\tadmin\nr2\teveryone\n", stdout)
}

func TestChannelsCommand(t *testing.T) {
	fake := newFakeDiscord(t)
	fake.handle("GET /api/v9/guilds/g1/channels", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprint(w, `[{"id":"c1","type":0,"name":"general"},{"id":"c2","type":4,"name":"misc"}]`)
	})
	fake.handle("GET /api/v9/users/@me/channels", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprint(w, `[{"id":"d1","type":1}]`)
	})
	t.Setenv("SELFCORD_TOKEN", "env-token")

	stdout, _, err := executeCLI(t, t.TempDir(), "channels", "--guild", "g1")
	require.NoError(t, err)
	assert.Equal(t, "c1\ttext\tgeneral\nc2\tcategory\tmisc\n", stdout)

	stdout, _, err = executeCLI(t, t.TempDir(), "channels")
	require.NoError(t, err)
	assert.Equal(t, "d1\tdm\t\n", stdout)
}

func TestEmojisFromSession(t *testing.T) {
	newFakeDiscord(t)
	t.Setenv("SELFCORD_TOKEN", "env-token")

	stdout, _, err := executeCLI(t, t.TempDir(), "emojis")
	require.NoError(t, err)
	assert.Equal(t, "200\t<:kek:200>\thttps://cdn.discordapp.com/emojis/200.png\n", stdout)
}

func TestEmojiResolveObjectMode(t *testing.T) {
	newFakeDiscord(t)
	t.Setenv("SELFCORD_TOKEN", "env-token")

	stdout, _, err := executeCLI(t, t.TempDir(), "emojis", "resolve", "so :kek:", "--mode", "object")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"id": "200"`)
	assert.Contains(t, stdout, `"name": "kek"`)
}

func TestPresenceCommandSendsPresenceFrame(t *testing.T) {
	fake := newFakeDiscord(t)
	t.Setenv("SELFCORD_TOKEN", "env-token")

	_, stderr, err := executeCLI(t, t.TempDir(), "presence", "chess", "--type", "playing", "--status", "dnd", "--hold", "20ms")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Presence set")

	frame := fake.nextFrame(t)
	assert.JSONEq(t, `{"op":3,"d":{"since":null,"activities":[{"name":"chess","type":0}],"status":"dnd","afk":false}}`, frame)
}

func TestCustomStatusCommandSendsEmoji(t *testing.T) {
	fake := newFakeDiscord(t)
	t.Setenv("SELFCORD_TOKEN", "env-token")

	_, _, err := executeCLI(t, t.TempDir(), "custom-status", "busy", "--emoji", ":kek:", "--hold", "20ms")
	require.NoError(t, err)

	var frame struct {
		Op int `json:"op"`
		D  struct {
			Activities []struct {
				Type  int             `json:"type"`
				State string          `json:"state"`
				Emoji json.RawMessage `json:"emoji"`
			} `json:"activities"`
		} `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(fake.nextFrame(t)), &frame))
	assert.Equal(t, 3, frame.Op)
	require.Len(t, frame.D.Activities, 1)
	assert.Equal(t, 4, frame.D.Activities[0].Type)
	assert.Equal(t, "busy", frame.D.Activities[0].State)
	assert.JSONEq(t, `{"id":"200","name":"kek"}`, string(frame.D.Activities[0].Emoji))
}

func TestPresenceRejectsUnknownStatus(t *testing.T) {
	t.Setenv("SELFCORD_TOKEN", "env-token")

	_, _, err := executeCLI(t, t.TempDir(), "presence", "chess", "--status", "away")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported presence status")
}

func TestWatchPrintsFilteredEvents(t *testing.T) {
	fake := newFakeDiscord(t)
	fake.dispatch = []string{
		`{"op":0,"s":2,"t":"TYPING_START","d":{"channel_id":"c1","user_id":"7"}}`,
		cliMessageCreate,
	}
	t.Setenv("SELFCORD_TOKEN", "env-token")

	stdout, _, err := executeCLI(t, t.TempDir(), "watch", "--event", "message_create", "--count", "1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "MESSAGE_CREATE #c1 bob#0001: hello there")
	assert.NotContains(t, stdout, "TYPING_START")
}

func TestWatchReconnectsAfterDrop(t *testing.T) {
	fake := newFakeDiscord(t)
	fake.dropFirst = true
	fake.dispatch = []string{cliMessageCreate}
	t.Setenv("SELFCORD_TOKEN", "env-token")

	stdout, _, err := executeCLI(t, t.TempDir(), "watch", "--event", "MESSAGE_CREATE", "--count", "1", "--output", "json")
	require.NoError(t, err)
	assert.Equal(t, int32(2), fake.connections.Load())

	var line map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &line))
	assert.Equal(t, "MESSAGE_CREATE", line["event"])
}

func TestWatchRejectsYAMLOutput(t *testing.T) {
	fake := newFakeDiscord(t)
	t.Setenv("SELFCORD_TOKEN", "env-token")

	_, _, err := executeCLI(t, t.TempDir(), "watch", "--output", "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `watch does not support "yaml" output`)
	assert.Equal(t, int32(0), fake.connections.Load())
}

func TestWatchDebugPrintsFrames(t *testing.T) {
	fake := newFakeDiscord(t)
	fake.dispatch = []string{cliMessageCreate}
	t.Setenv("SELFCORD_TOKEN", "env-token")

	_, stderr, err := executeCLI(t, t.TempDir(), "watch", "--event", "MESSAGE_CREATE", "--count", "1", "--debug")
	require.NoError(t, err)
	assert.Contains(t, stderr, `{"op":10`)
	assert.Contains(t, stderr, `"op":2`)
}

func TestSlashCommandsList(t *testing.T) {
	fake := newFakeDiscord(t)
	fake.handle("GET /api/v9/channels/c1/application-commands/search", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprint(w, `{"application_commands":[{"id":"1","application_id":"app","version":"v1","name":"ping","description":"Pong","type":1}]}`)
	})
	t.Setenv("SELFCORD_TOKEN", "env-token")

	stdout, _, err := executeCLI(t, t.TempDir(), "slash", "--channel", "c1")
	require.NoError(t, err)
	assert.Equal(t, "app\t/ping\tPong\n", stdout)
}

func TestBillingCommand(t *testing.T) {
	fake := newFakeDiscord(t)
	fake.handle("GET /api/v9/users/@me/billing/country-code", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprint(w, `{"country_code":"FR"}`)
	})
	fake.handle("GET /api/v9/users/@me/billing/payment-sources", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprint(w, `[]`)
	})
	fake.handle("GET /api/v9/users/@me/billing/payments", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprint(w, `[{"id":"p1","amount":999,"currency":"eur","description":"Nitro","created_at":"2026-01-02T10:00:00+00:00"}]`)
	})
	fake.handle("GET /api/v9/users/@me/billing/subscriptions", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = fmt.Fprint(w, `[{"id":"s1","type":1,"status":1}]`)
	})
	t.Setenv("SELFCORD_TOKEN", "env-token")

	stdout, _, err := executeCLI(t, t.TempDir(), "billing")
	require.NoError(t, err)
	assert.Contains(t, stdout, "country: FR")
	assert.Contains(t, stdout, "premium: true")
	assert.Contains(t, stdout, "2026-01-02\t9.99 eur\tNitro")
}

func executeCLI(t *testing.T, home string, args ...string) (string, string, error) {
	t.Helper()
	return executeCLIWithInput(t, home, strings.NewReader(""), args...)
}

func executeCLIWithInput(t *testing.T, home string, stdin io.Reader, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", home)
	t.Setenv("PASSWORD_STORE_DIR", filepath.Join(home, ".password-store"))
	t.Setenv("SELFCORD_SECRETS_DIR", filepath.Join(home, ".selfcord", "secrets"))
	t.Setenv("SELFCORD_LOG_LEVEL", "error")

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeAccountsFixture(home string) error {
	configDir := filepath.Join(home, ".selfcord")
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return err
	}

	accounts := `version = 1

[[accounts]]
id = "acc-1"
name = "Primary"

[accounts.auth]
secret_ref = ""
`

	return os.WriteFile(filepath.Join(configDir, "accounts.toml"), []byte(accounts), 0o600)
}
