package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// teardownGrace bounds how long the command waits for the detached server
// teardown before exiting. Local logout has already happened by then.
const teardownGrace = 2 * time.Second

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear local credentials and end the server session",
	Run: func(_ *cobra.Command, _ []string) {
		runLogout()
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

func runLogout() {
	ctx := context.Background()

	logger := newLogger()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	client, store := newClient(ctx, config, logger)

	// Local credential clearing is the source of truth for "logged out".
	if err := store.Clear(); err != nil {
		logger.Fatal("clearing local credentials", zap.Error(err))
	}

	logger.Info("logged out")

	// Server teardown is fire-and-forget; its failure is diagnostics only.
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := client.Logout(); err != nil {
			logger.Debug("server logout failed", zap.Error(err))
		}
	}()

	select {
	case <-done:
	case <-time.After(teardownGrace):
	}
}
