package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"github.com/preppilot/preppilot-cli/internal/launch"
	"github.com/preppilot/preppilot-cli/internal/snapshot"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Start a paid AI mock interview",
	Run: func(cmd *cobra.Command, _ []string) {
		runInterview(cmd)
	},
}

func init() {
	rootCmd.AddCommand(interviewCmd)

	interviewCmd.Flags().Int("cv", 0, "id of the CV to interview with (skips the interactive selection)")
	interviewCmd.Flags().Int("role", 0, "id of the role to interview for (default is the first selected role)")
	interviewCmd.Flags().BoolP("auto-aprove", "y", false, "do not ask for confirmation before submitting the interview")
}

func runInterview(cmd *cobra.Command) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := newLogger()

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	client, _ := newClient(ctx, config, logger)

	source := snapshot.NewSource(client, logger)
	account, err := source.Refresh()
	if err != nil {
		logger.Fatal("fetching account snapshot", zap.Error(err))
	}

	// Background refresh keeps precondition checks reading fresh state while
	// the user is deciding. It never interferes with the submission itself.
	go source.Run(ctx, snapshot.DefaultRefreshInterval)

	controller := launch.NewController(source, client, logger)
	controller.Initialize(account)

	if len(account.Roles) == 0 {
		logger.Warn("no roles selected yet",
			zap.String("hint", "select AI interviewer roles on the PrepPilot roles page first"),
		)
	}

	if roleID, _ := cmd.Flags().GetInt("role"); roleID > 0 {
		controller.SelectRole(strconv.Itoa(roleID))
	}

	cvID, _ := cmd.Flags().GetInt("cv")
	if cvID == 0 {
		cvID, err = chooseCV(account)
		if err != nil {
			logger.Fatal("choosing a CV", zap.Error(err))
		}
	}

	if cvID > 0 {
		controller.SelectCV(strconv.Itoa(cvID))
	}

	if err := controller.RequestLaunch(); err != nil {
		switch {
		case errors.Is(err, launch.ErrCVRequired):
			logger.Fatal("cannot start the interview",
				zap.Error(err),
				zap.String("hint", "upload a CV to your PrepPilot account first"),
			)
		case errors.Is(err, launch.ErrInsufficientCredits):
			logger.Fatal("cannot start the interview",
				zap.Error(err),
				zap.Int("cost", launch.Cost),
				zap.Int("balance", account.Balance),
			)
		default:
			logger.Fatal("cannot start the interview", zap.Error(err))
		}
	}

	if cmd.Flag("auto-aprove").Value.String() == "false" {
		prompt := promptui.Select{
			Label: fmt.Sprintf("Starting the interview will consume %d credits. Proceed?", launch.Cost),
			Items: []string{PromptYes, PromptNo},
		}

		_, answer, err := prompt.Run()
		if err != nil {
			controller.Cancel()
			logger.Fatal("exiting", zap.Error(err))
		}

		if answer != PromptYes {
			controller.Cancel()
			logger.Info("exiting", zap.String("reason", "interview launch cancelled"))
			return
		}
	}

	outcome, err := controller.ConfirmLaunch()
	if err != nil {
		logger.Fatal("confirming the interview launch", zap.Error(err))
	}

	handleOutcome(outcome, logger)
}

// chooseCV runs the interactive CV selection. The choice is always explicit:
// the CV shapes the interview content and is never defaulted.
func chooseCV(account *snapshot.Account) (int, error) {
	if len(account.CVs) == 0 {
		return 0, nil
	}

	items := make([]string, 0, len(account.CVs))
	for _, cv := range account.CVs {
		items = append(items, fmt.Sprintf("%d %s / %s / %s", cv.ID, cv.Filename, cv.CreatedAt, cv.Status))
	}

	prompt := promptui.Select{
		Label: "Choose a CV and press ENTER",
		Items: items,
	}

	_, selected, err := prompt.Run()
	if err != nil {
		return 0, err
	}

	id, err := strconv.Atoi(strings.Split(selected, " ")[0])
	if err != nil {
		return 0, fmt.Errorf("parsing cv id from %q: %w", selected, err)
	}

	return id, nil
}

func handleOutcome(outcome launch.Outcome, logger *zap.Logger) {
	switch o := outcome.(type) {
	case launch.Redirect:
		logger.Info(o.Notice(), zap.String("join_url", o.URL))
		fmt.Println(o.URL)
		if err := openBrowser(o.URL); err != nil {
			logger.Debug("opening browser failed", zap.Error(err))
		}
	case launch.Declined:
		logger.Fatal(o.Notice())
	case launch.TransportFault:
		logger.Fatal(o.Notice(), zap.Error(o.Err))
	case launch.Misconfigured:
		logger.Fatal(o.Notice())
	default:
		logger.Fatal("unexpected launch outcome", zap.Any("outcome", outcome))
	}
}

// openBrowser hands control to the external join location.
func openBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}
