// Package analyze runs the NLP pipeline over submitted text and shapes the
// result into the tokens/pos/entities response.
package analyze

import (
	"context"
	"strings"

	"github.com/citypulse/eventmap/internal/domain"
)

// Result is the analysis response body.
type Result struct {
	Tokens   []string            `json:"tokens"`
	POS      map[string][]string `json:"pos"`
	Entities []EntityResult      `json:"entities"`
}

// EntityResult is a named entity in the response.
type EntityResult struct {
	Text string `json:"text"`
	Type string `json:"type"`
}

// Service handles text analysis requests.
type Service struct {
	pipelines PipelineProvider
	model     string
}

// New creates an analyze service bound to a default model.
func New(pipelines PipelineProvider, model string) *Service {
	return &Service{pipelines: pipelines, model: model}
}

// Analyze trims the input, obtains the default pipeline, and aggregates the
// collaborator output. Blank input returns domain.ErrEmptyText; pipeline
// load and analysis failures propagate with their message intact so the
// transport can surface it verbatim.
func (s *Service) Analyze(ctx context.Context, text string) (Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Result{}, domain.ErrEmptyText
	}

	pipeline, err := s.pipelines.Get(ctx, s.model)
	if err != nil {
		return Result{}, err
	}

	tokens, entities, err := pipeline.Analyze(ctx, text)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Tokens:   make([]string, 0, len(tokens)),
		POS:      make(map[string][]string, len(tokens)),
		Entities: make([]EntityResult, 0, len(entities)),
	}
	for _, t := range tokens {
		res.Tokens = append(res.Tokens, t.Text)
		// A token text appearing twice accumulates both tags, in order.
		res.POS[t.Text] = append(res.POS[t.Text], t.Tag)
	}
	for _, e := range entities {
		res.Entities = append(res.Entities, EntityResult{Text: e.Text, Type: e.Label})
	}
	return res, nil
}
