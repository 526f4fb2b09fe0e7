package cmd

import (
	"fmt"
	"io"

	"github.com/bnema/selfcord/internal/adapters/discord"
	"github.com/bnema/selfcord/internal/domain"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newProfileCmd(app *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "profile [user-id]",
		Short: "Show a user profile, the logged-in user by default",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			show := func(client *discord.Client, userID string) error {
				profile, err := client.GetProfile(cmd.Context(), userID)
				if err != nil {
					return err
				}
				return writeOutput(cmd, output, profile, func(w io.Writer) error {
					_, err := fmt.Fprintf(w, "%s\t%s\t%d mutual guilds\n", profile.User.ID, profile.User.Tag(), len(profile.MutualGuilds))
					return err
				})
			}

			if len(args) == 1 {
				client, _, err := connect(cmd, app, connectOptions{})
				if err != nil {
					return err
				}
				return show(client, args[0])
			}
			return withSession(cmd, app, connectOptions{}, func(client *discord.Client) error {
				return show(client, "")
			})
		},
	}

	addOutputFlag(cmd, &output)

	return cmd
}

type billingSummary struct {
	CountryCode    string                 `json:"country_code"`
	Premium        bool                   `json:"premium"`
	PaymentSources []domain.PaymentSource `json:"payment_sources"`
	Payments       []domain.Payment       `json:"payments"`
	Subscriptions  []domain.Subscription  `json:"subscriptions"`
}

func newBillingCmd(app *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "billing",
		Short: "Show payment sources, payments and subscriptions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, _, err := connect(cmd, app, connectOptions{})
			if err != nil {
				return err
			}

			var summary billingSummary
			country, err := client.GetCountryCode(cmd.Context())
			if err != nil {
				return err
			}
			summary.CountryCode = country.CountryCode
			if summary.PaymentSources, err = client.GetPaymentSources(cmd.Context()); err != nil {
				return err
			}
			if summary.Payments, err = client.GetPayments(cmd.Context()); err != nil {
				return err
			}
			if summary.Subscriptions, err = client.GetSubscriptions(cmd.Context()); err != nil {
				return err
			}
			if summary.Premium, err = client.IsPremium(cmd.Context()); err != nil {
				return err
			}

			return writeOutput(cmd, output, summary, func(w io.Writer) error {
				if _, err := fmt.Fprintf(w, "country: %s\npremium: %t\n", summary.CountryCode, summary.Premium); err != nil {
					return err
				}
				for _, p := range summary.Payments {
					amount := humanize.CommafWithDigits(float64(p.Amount)/100, 2)
					if _, err := fmt.Fprintf(w, "%s\t%s %s\t%s\n", p.CreatedAt.Format("2006-01-02"), amount, p.Currency, p.Description); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}

	addOutputFlag(cmd, &output)

	return cmd
}
