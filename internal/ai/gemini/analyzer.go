package gemini

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/preppilot/preppilot-cli/internal/util"
	"go.uber.org/zap"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}

//go:embed prompt.md
var promptTemplate string

const (
	defaultMaxLogLength = 200

	// The server-side pipeline caps CV text the same way.
	maxCVTextRunes = 15000
)

// Analyzer produces a raw screening analysis for CV text through Gemini. Its
// output is fed to the normalizer untouched, exactly like a server-delivered
// analysis.
type Analyzer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewAnalyzer(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Analyzer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Analyzer{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (a *Analyzer) Analyze(ctx context.Context, cvText string) (string, error) {
	cvText = strings.TrimSpace(cvText)
	if cvText == "" {
		return "", errors.New("cv text is required")
	}

	if runes := []rune(cvText); len(runes) > maxCVTextRunes {
		cvText = string(runes[:maxCVTextRunes])
	}

	prompt := buildPrompt(cvText)

	a.logger.Debug("gemini analyze request",
		zap.String("model", a.generator.Model()),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", util.TruncateForLog(prompt, a.maxLogLen)),
	)

	raw, err := a.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return "", err
	}

	a.logger.Debug("gemini analyze response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", util.TruncateForLog(raw, a.maxLogLen)),
	)

	return raw, nil
}

func buildPrompt(cvText string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Analyze this resume and return a JSON object with summary, roles, skills and improvements:\n{{CV_TEXT}}"
	}
	return strings.ReplaceAll(template, "{{CV_TEXT}}", cvText)
}
