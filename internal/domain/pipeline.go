package domain

import "context"

// Token is a single token with its part-of-speech tag as reported by the
// NLP collaborator.
type Token struct {
	Text string
	Tag  string
}

// Entity is a named entity span with its type label.
type Entity struct {
	Text  string
	Label string
}

// Pipeline is a loaded NLP pipeline handle. Handles are expensive to
// construct and are shared across requests via the pipeline cache.
type Pipeline interface {
	Analyze(ctx context.Context, text string) ([]Token, []Entity, error)
}
