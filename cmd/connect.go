package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/selfcord/internal/adapters/discord"
	"github.com/bnema/selfcord/internal/adapters/discord/gateway"
	"github.com/bnema/selfcord/internal/domain"
	"github.com/spf13/cobra"
)

var errNoAccountSelected = errors.New("no account selected")

type connectOptions struct {
	debugger gateway.Debugger
}

// selectAccount returns the --account value, or the only account holding a
// token when the flag is empty.
func selectAccount(ctx context.Context, app *app) (domain.AccountID, error) {
	if id := strings.TrimSpace(app.accountFlag); id != "" {
		return domain.AccountID(id), nil
	}

	statuses, err := app.service.GetStatusAll(ctx)
	if err != nil {
		return "", err
	}

	var candidates []domain.AccountID
	for _, status := range statuses {
		if status.HasToken {
			candidates = append(candidates, status.Account.ID)
		}
	}

	switch len(candidates) {
	case 0:
		return "", fmt.Errorf("%w: no account has a token, run selfcord auth set", errNoAccountSelected)
	case 1:
		return candidates[0], nil
	default:
		return "", fmt.Errorf("%w: %d accounts have tokens, pass --account", errNoAccountSelected, len(candidates))
	}
}

// resolveToken prefers SELFCORD_TOKEN over the stored account token. The
// returned account id is empty when the environment token was used.
func resolveToken(ctx context.Context, app *app) (string, domain.AccountID, error) {
	if app.env.Token != "" && strings.TrimSpace(app.accountFlag) == "" {
		return app.env.Token, "", nil
	}

	accountID, err := selectAccount(ctx, app)
	if err != nil {
		return "", "", err
	}

	token, err := app.service.ResolveToken(ctx, accountID)
	if err != nil {
		return "", "", fmt.Errorf("account %s: %w", accountID, err)
	}
	return token, accountID, nil
}

// connect builds an initialized client for the selected account. The gateway
// is not opened.
func connect(cmd *cobra.Command, app *app, opts connectOptions) (*discord.Client, domain.AccountID, error) {
	token, accountID, err := resolveToken(cmd.Context(), app)
	if err != nil {
		return nil, "", err
	}

	identity := app.identity
	client := discord.New(discord.Config{
		Token:          token,
		Identity:       &identity,
		Cookie:         app.env.Cookie,
		BaseURL:        app.env.APIBaseURL,
		GatewayURL:     app.env.GatewayURL,
		HTTPClient:     app.httpClient,
		RequestTimeout: app.env.RequestTimeout,
		ConnectTimeout: app.env.ConnectTimeout,
		Logger:         app.logger,
		Debugger:       opts.debugger,
	})

	if err := client.Init(cmd.Context()); err != nil {
		return nil, "", err
	}

	return client, accountID, nil
}

// withSession logs in, runs fn and logs out. The session snapshot of a
// stored account is refreshed after the login.
func withSession(cmd *cobra.Command, app *app, opts connectOptions, fn func(*discord.Client) error) error {
	client, accountID, err := connect(cmd, app, opts)
	if err != nil {
		return err
	}

	if err := client.Login(cmd.Context()); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	defer client.Logout()

	if accountID != "" {
		if err := recordSession(cmd.Context(), app, accountID, client); err != nil {
			app.logger.Warn("could not record session", "account", accountID, "err", err)
		}
	}

	return fn(client)
}

func recordSession(ctx context.Context, app *app, accountID domain.AccountID, client *discord.Client) error {
	info, err := client.SessionInfo()
	if err != nil {
		return err
	}
	return app.service.RecordSession(ctx, accountID, info)
}
