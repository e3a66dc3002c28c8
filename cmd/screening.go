package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/preppilot/preppilot-cli/internal/ai"
	"github.com/preppilot/preppilot-cli/internal/ai/gemini"
	"github.com/preppilot/preppilot-cli/internal/analysis"
	"github.com/preppilot/preppilot-cli/internal/logger"
	"github.com/preppilot/preppilot-cli/internal/secrets"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const emptyAnalysisNotice = "No analysis returned. Try again."

var screeningCmd = &cobra.Command{
	Use:   "screening",
	Short: "Run and view AI CV screening reports",
}

var screeningRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a CV screening and render the report",
	Run: func(cmd *cobra.Command, _ []string) {
		runScreening(cmd)
	},
}

var screeningShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a stored screening report",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		showScreening(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(screeningCmd)
	screeningCmd.AddCommand(screeningRunCmd)
	screeningCmd.AddCommand(screeningShowCmd)

	screeningRunCmd.Flags().Int("cv", 0, "id of the CV to screen")
	screeningRunCmd.Flags().Bool("local", false, "generate the analysis locally with Gemini instead of the server pipeline")
	screeningRunCmd.Flags().String("file", "", "path to a plain-text CV used with --local")
}

func runScreening(cmd *cobra.Command) {
	ctx := context.Background()

	log := newLogger()

	config, err := getConfig()
	if err != nil {
		log.Fatal("getting a config", zap.Error(err))
	}

	if local, _ := cmd.Flags().GetBool("local"); local {
		file, _ := cmd.Flags().GetString("file")
		runLocalScreening(ctx, config, log, file)
		return
	}

	cvID, _ := cmd.Flags().GetInt("cv")
	if cvID <= 0 {
		log.Fatal("a cv id is required", zap.String("hint", "pass --cv with an id from 'preppilot status'"))
	}

	client, _ := newClient(ctx, config, log)

	screening, err := client.RunScreening(cvID)
	if err != nil {
		log.Fatal("running screening", zap.Error(err))
	}

	log.Info("screening finished",
		logger.ScreeningFields(strconv.Itoa(screening.ID), strconv.Itoa(cvID))...,
	)

	// The analysis arrived in-band with the run response; no extra fetch.
	renderReport(os.Stdout, analysis.Normalize(analysis.FromValue(screening.Analysis)))
}

func showScreening(_ *cobra.Command, arg string) {
	ctx := context.Background()

	log := newLogger()

	config, err := getConfig()
	if err != nil {
		log.Fatal("getting a config", zap.Error(err))
	}

	id, err := strconv.Atoi(arg)
	if err != nil {
		log.Fatal("screening id must be a number", zap.String("argument", arg))
	}

	client, _ := newClient(ctx, config, log)

	screening, err := client.GetScreening(id)
	if err != nil {
		log.Fatal("fetching screening", zap.Error(err))
	}

	renderReport(os.Stdout, analysis.Normalize(analysis.FromValue(screening.Analysis)))
}

// runLocalScreening analyzes a local CV file with Gemini. The model output
// flows through the same normalizer as a server-delivered analysis.
func runLocalScreening(ctx context.Context, config *Config, log *zap.Logger, file string) {
	if file == "" {
		log.Fatal("a cv file is required for local screening", zap.String("hint", "pass --file with a plain-text CV"))
	}

	if config.AI == nil || config.AI.Gemini == nil {
		config.AI = &AIConfig{Gemini: &GeminiConfig{}}
	}

	cvText, err := os.ReadFile(file)
	if err != nil {
		log.Fatal("reading cv file", zap.Error(err))
	}

	analyzer, err := newAnalyzer(ctx, config.AI.Gemini, log)
	if err != nil {
		log.Fatal("building cv analyzer", zap.Error(err))
	}

	raw, err := analyzer.Analyze(ctx, string(cvText))
	if err != nil {
		log.Fatal("analyzing cv", zap.Error(err))
	}

	renderReport(os.Stdout, analysis.Normalize(analysis.FromValue(raw)))
}

func newAnalyzer(ctx context.Context, cfg *GeminiConfig, log *zap.Logger) (ai.Analyzer, error) {
	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.APIKeyFile,
		Env:  "GEMINI_API_KEY_FILE",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	genLogger := logger.WithProviderFields(log, "gemini", cfg.Model)

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Model, cfg.MaxRetries, genLogger)
	if err != nil {
		return nil, err
	}

	return gemini.NewAnalyzer(generator, genLogger, cfg.MaxLogLength), nil
}

func renderReport(w io.Writer, report *analysis.Report) {
	if report == nil {
		fmt.Fprintln(w, emptyAnalysisNotice)
		return
	}

	for i, section := range report.Sections() {
		if i > 0 {
			fmt.Fprintln(w)
		}

		fmt.Fprintf(w, "%s\n", section.Title)

		if section.Body != "" {
			fmt.Fprintf(w, "  %s\n", section.Body)
			continue
		}

		for _, item := range section.Items {
			fmt.Fprintf(w, "  - %s\n", item)
		}
	}
}
