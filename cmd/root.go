package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "selfcord",
		Short:         "selfcord: drive a Discord user account from the terminal",
		Long:          "selfcord stores Discord user tokens, logs in to the gateway, and runs messaging, guild, emoji and presence operations as that user.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.PersistentFlags().StringVar(&app.accountFlag, "account", "", "Account ID (default: the only account with a token)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newAccountCmd(app),
		newAuthCmd(app),
		newLoginCmd(app),
		newStatusCmd(app),
		newMessagesCmd(app),
		newSendCmd(app),
		newTypingCmd(app),
		newGuildsCmd(app),
		newChannelsCmd(app),
		newRolesCmd(app),
		newEmojisCmd(app),
		newPresenceCmd(app),
		newCustomStatusCmd(app),
		newSlashCmd(app),
		newProfileCmd(app),
		newBillingCmd(app),
		newWatchCmd(app),
	)

	return rootCmd
}
