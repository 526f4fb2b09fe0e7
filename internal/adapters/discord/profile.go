package discord

import (
	"context"
	"fmt"

	"github.com/bnema/selfcord/internal/adapters/discord/rest"
	"github.com/bnema/selfcord/internal/domain"
)

// GetProfile returns the profile of userID, or of the logged-in user when
// userID is empty.
func (c *Client) GetProfile(ctx context.Context, userID string) (domain.Profile, error) {
	if userID == "" {
		info, err := c.session.SessionInfo()
		if err != nil {
			return domain.Profile{}, fmt.Errorf("get profile: %w", err)
		}
		userID = info.User.ID
	}
	return call[domain.Profile](ctx, c, rest.Request{
		Path: "users/" + userID + "/profile",
	}, hasProperty("user"), "get profile")
}

func (c *Client) GetPaymentSources(ctx context.Context) ([]domain.PaymentSource, error) {
	return call[[]domain.PaymentSource](ctx, c, rest.Request{
		Path: "users/@me/billing/payment-sources",
	}, rest.AssertArray, "get payment sources")
}

func (c *Client) GetPayments(ctx context.Context) ([]domain.Payment, error) {
	return call[[]domain.Payment](ctx, c, rest.Request{
		Path: "users/@me/billing/payments",
	}, rest.AssertArray, "get payments")
}

func (c *Client) GetCountryCode(ctx context.Context) (domain.CountryCode, error) {
	return call[domain.CountryCode](ctx, c, rest.Request{
		Path: "users/@me/billing/country-code",
	}, rest.AssertNoError, "get country code")
}

func (c *Client) GetSubscriptions(ctx context.Context) ([]domain.Subscription, error) {
	return call[[]domain.Subscription](ctx, c, rest.Request{
		Path: "users/@me/billing/subscriptions",
	}, rest.AssertArray, "get subscriptions")
}

// IsPremium reports whether any subscription is a Nitro one.
func (c *Client) IsPremium(ctx context.Context) (bool, error) {
	subs, err := c.GetSubscriptions(ctx)
	if err != nil {
		return false, err
	}
	for _, s := range subs {
		if s.Type == domain.SubscriptionTypePremium {
			return true, nil
		}
	}
	return false, nil
}
