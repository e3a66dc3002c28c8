package ai

import "context"

// Analyzer produces a raw screening analysis for CV text. The output is
// whatever the model returned; callers normalize it before rendering.
type Analyzer interface {
	Analyze(ctx context.Context, cvText string) (string, error)
}
