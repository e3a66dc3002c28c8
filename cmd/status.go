package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/preppilot/preppilot-cli/internal/preppilot"
	"github.com/preppilot/preppilot-cli/internal/snapshot"
	"github.com/preppilot/preppilot-cli/internal/util"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const statusActivityLimit = 5

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show your PrepPilot account: wallet, roles, CVs and recent activity",
	Run: func(cmd *cobra.Command, _ []string) {
		runStatus(cmd)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().BoolP("watch", "w", false, "keep refreshing the account view on the snapshot interval")
}

func runStatus(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := newLogger()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	client, _ := newClient(ctx, config, logger)
	source := snapshot.NewSource(client, logger)

	watch, _ := cmd.Flags().GetBool("watch")

	for {
		account, err := source.Refresh()
		if err != nil {
			logger.Fatal("fetching account snapshot", zap.Error(err))
		}

		profile, err := client.GetProfile()
		if err != nil {
			logger.Fatal("fetching profile", zap.Error(err))
		}

		activities, err := client.GetActivities(statusActivityLimit)
		if err != nil {
			logger.Fatal("fetching activities", zap.Error(err))
		}

		renderAccount(os.Stdout, profile, account, activities)

		if !watch {
			return
		}

		if err := util.WaitFor(ctx, snapshot.DefaultRefreshInterval); err != nil {
			logger.Info("exiting", zap.String("reason", "watch interrupted"))
			return
		}
	}
}

func renderAccount(w io.Writer, profile *preppilot.Profile, account *snapshot.Account, activities *preppilot.Activities) {
	fmt.Fprintf(w, "%s <%s>\n", profile.Name, profile.Email)
	fmt.Fprintf(w, "Credits: %d\n", account.Balance)

	fmt.Fprintf(w, "\nSelected roles (%d):\n", len(account.Roles))
	for _, role := range account.Roles {
		fmt.Fprintf(w, "  %d %s\n", role.RoleID, role.RoleTitle)
	}

	fmt.Fprintf(w, "\nCVs (%d):\n", len(account.CVs))
	for _, cv := range account.CVs {
		fmt.Fprintf(w, "  %d %s / %s / %d bytes / %s\n", cv.ID, cv.Filename, cv.CreatedAt, cv.SizeBytes, cv.Status)
	}

	if activities.Len() > 0 {
		fmt.Fprintf(w, "\nRecent activity:\n")
		for _, activity := range activities.Items {
			fmt.Fprintf(w, "  %s %s\n", activity.CreatedAt, activity.Message)
		}
	}

	fmt.Fprintf(w, "\nFetched at %s\n", account.FetchedAt.Format("2006-01-02 15:04:05 MST"))
}
