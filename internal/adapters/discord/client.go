// Package discord is the user-account client: REST operations go through the
// rate-limit aware executor, presence and events go through the gateway.
package discord

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/bnema/selfcord/internal/adapters/discord/credentials"
	"github.com/bnema/selfcord/internal/adapters/discord/emoji"
	"github.com/bnema/selfcord/internal/adapters/discord/gateway"
	"github.com/bnema/selfcord/internal/adapters/discord/rest"
	"github.com/bnema/selfcord/internal/domain"
)

const defaultPageDelay = 50 * time.Millisecond

type Config struct {
	Token string
	// Identity defaults to credentials.DefaultIdentity().
	Identity *credentials.Identity
	// Cookie skips the cookie bootstrap request when set.
	Cookie         string
	BaseURL        string
	GatewayURL     string
	HTTPClient     *http.Client
	RequestTimeout time.Duration
	ConnectTimeout time.Duration
	RetryPolicy    *rest.RetryPolicy
	Logger         *slog.Logger
	Debugger       gateway.Debugger
	OnStateChange  func(from, to gateway.State)
}

type Client struct {
	creds     *credentials.Store
	rest      *rest.Executor
	session   *gateway.Session
	emojis    *emoji.Resolver
	retry     rest.RetryPolicy
	logger    *slog.Logger
	pageDelay time.Duration
}

func New(cfg Config) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	identity := credentials.DefaultIdentity()
	if cfg.Identity != nil {
		identity = *cfg.Identity
	}
	retry := rest.DefaultRetryPolicy()
	if cfg.RetryPolicy != nil {
		retry = *cfg.RetryPolicy
	}
	retry.Logger = logger

	opts := []credentials.Option{credentials.WithLogger(logger)}
	if cfg.HTTPClient != nil {
		opts = append(opts, credentials.WithHTTPClient(cfg.HTTPClient))
	}
	if cfg.Cookie != "" {
		opts = append(opts, credentials.WithCookie(cfg.Cookie))
	}
	creds := credentials.NewStore(cfg.Token, identity, opts...)

	session := gateway.NewSession(gateway.Config{
		URL:            cfg.GatewayURL,
		Token:          cfg.Token,
		Device:         identity.Device,
		ConnectTimeout: cfg.ConnectTimeout,
		Header:         http.Header{"User-Agent": {identity.UserAgent}},
		Logger:         logger,
		Debugger:       cfg.Debugger,
		OnStateChange:  cfg.OnStateChange,
	})

	return &Client{
		creds: creds,
		rest: rest.NewExecutor(rest.Config{
			BaseURL:    cfg.BaseURL,
			HTTPClient: cfg.HTTPClient,
			Headers:    creds,
			Timeout:    cfg.RequestTimeout,
			Logger:     logger,
		}),
		session:   session,
		emojis:    emoji.NewResolver(session),
		retry:     retry,
		logger:    logger,
		pageDelay: defaultPageDelay,
	}
}

// Init fetches the session cookie. It must succeed before any REST call.
func (c *Client) Init(ctx context.Context) error {
	if err := c.creds.Initialize(ctx); err != nil {
		return fmt.Errorf("init client: %w", err)
	}
	return nil
}

func (c *Client) Login(ctx context.Context) error { return c.session.Login(ctx) }

func (c *Client) Logout() { c.session.Logout() }

func (c *Client) Ready() bool { return c.session.Ready() }

func (c *Client) Session() *gateway.Session { return c.session }

func (c *Client) SessionInfo() (domain.SessionInfo, error) { return c.session.SessionInfo() }

func (c *Client) UserTag() (string, error) { return c.session.UserTag() }

func (c *Client) SendOperation(op int, payload any) error { return c.session.SendOperation(op, payload) }

func (c *Client) Subscribe(fn func(gateway.Event)) (unsubscribe func()) {
	return c.session.Subscribe(fn)
}

func (c *Client) OnRaw(fn func(gateway.Frame)) (unsubscribe func()) {
	return c.session.OnRaw(fn)
}

// do runs one request, waiting out rate limits.
func (c *Client) do(ctx context.Context, r rest.Request) ([]byte, error) {
	return rest.WaitIfRateLimited(ctx, c.retry, func(ctx context.Context) ([]byte, error) {
		return c.rest.Execute(ctx, r)
	})
}

type assertion func(body []byte, context string) ([]byte, error)

func hasProperty(name string) assertion {
	return func(body []byte, context string) ([]byte, error) {
		return rest.AssertProperty(body, name, context)
	}
}

// call runs r, checks the body and decodes it into T. what doubles as the
// error context.
func call[T any](ctx context.Context, c *Client, r rest.Request, check assertion, what string) (T, error) {
	var zero T
	body, err := c.do(ctx, r)
	if err != nil {
		return zero, fmt.Errorf("%s: %w", what, err)
	}
	if check != nil {
		if body, err = check(body, what); err != nil {
			return zero, err
		}
	}
	return rest.Decode[T](body, what)
}

// exec runs r and discards the body.
func (c *Client) exec(ctx context.Context, r rest.Request, what string) error {
	if _, err := c.do(ctx, r); err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}
	return nil
}

// SendTyping shows the typing indicator in a channel for a few seconds.
func (c *Client) SendTyping(ctx context.Context, channelID string) error {
	return c.exec(ctx, rest.Request{
		Method: http.MethodPost,
		Path:   "channels/" + channelID + "/typing",
	}, "send typing")
}
