package driven

import "context"

// Analyzer performs one structured-output request against a hosted language
// model and returns the raw response text, which is expected to be a JSON
// object matching model.Classification.
type Analyzer interface {
	Analyze(ctx context.Context, message string) (string, error)
}

// AnalyzerFactory builds an Analyzer authenticated with apiKey.
type AnalyzerFactory func(ctx context.Context, apiKey string) (Analyzer, error)
