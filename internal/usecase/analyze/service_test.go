package analyze

import (
	"context"
	"errors"
	"testing"

	"github.com/citypulse/eventmap/internal/domain"
)

// --- Mocks ---

type mockPipeline struct {
	tokens   []domain.Token
	entities []domain.Entity
	err      error
	gotText  string
}

func (m *mockPipeline) Analyze(_ context.Context, text string) ([]domain.Token, []domain.Entity, error) {
	m.gotText = text
	return m.tokens, m.entities, m.err
}

type mockProvider struct {
	pipeline domain.Pipeline
	err      error
	gotModel string
	calls    int
}

func (m *mockProvider) Get(_ context.Context, model string) (domain.Pipeline, error) {
	m.calls++
	m.gotModel = model
	return m.pipeline, m.err
}

// --- Tests ---

func TestAnalyze_BlankTextRejectedBeforePipeline(t *testing.T) {
	provider := &mockProvider{}
	svc := New(provider, "en")

	for _, text := range []string{"", "   ", "\t\n"} {
		if _, err := svc.Analyze(context.Background(), text); !errors.Is(err, domain.ErrEmptyText) {
			t.Errorf("Analyze(%q): expected ErrEmptyText, got %v", text, err)
		}
	}
	if provider.calls != 0 {
		t.Errorf("pipeline must not be loaded for blank input, got %d loads", provider.calls)
	}
}

func TestAnalyze_TrimsInput(t *testing.T) {
	pipe := &mockPipeline{}
	svc := New(&mockProvider{pipeline: pipe}, "en")

	if _, err := svc.Analyze(context.Background(), "  hello  "); err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if pipe.gotText != "hello" {
		t.Errorf("pipeline received %q, want %q", pipe.gotText, "hello")
	}
}

func TestAnalyze_UsesConfiguredModel(t *testing.T) {
	provider := &mockProvider{pipeline: &mockPipeline{}}
	svc := New(provider, "de-news")

	if _, err := svc.Analyze(context.Background(), "hallo"); err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if provider.gotModel != "de-news" {
		t.Errorf("requested model %q, want de-news", provider.gotModel)
	}
}

func TestAnalyze_ShapesTokensAndPOS(t *testing.T) {
	pipe := &mockPipeline{
		tokens: []domain.Token{
			{Text: "I", Tag: "PRP"},
			{Text: "saw", Tag: "VBD"},
			{Text: "I", Tag: "NNP"},
			{Text: ".", Tag: "."},
		},
	}
	svc := New(&mockProvider{pipeline: pipe}, "en")

	res, err := svc.Analyze(context.Background(), "I saw I.")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if len(res.Tokens) != 4 {
		t.Fatalf("expected 4 tokens, got %d", len(res.Tokens))
	}
	// Duplicates preserved, appearance order kept
	if res.Tokens[0] != "I" || res.Tokens[2] != "I" {
		t.Errorf("tokens = %v, duplicate order lost", res.Tokens)
	}

	// Per-key tag sequences sum to the token count
	total := 0
	for _, tags := range res.POS {
		total += len(tags)
	}
	if total != len(res.Tokens) {
		t.Errorf("pos tag count = %d, want %d", total, len(res.Tokens))
	}

	// The same token text accumulates tags in appearance order
	got := res.POS["I"]
	if len(got) != 2 || got[0] != "PRP" || got[1] != "NNP" {
		t.Errorf(`pos["I"] = %v, want [PRP NNP]`, got)
	}
}

func TestAnalyze_ShapesEntities(t *testing.T) {
	pipe := &mockPipeline{
		tokens: []domain.Token{{Text: "Berlin", Tag: "NNP"}},
		entities: []domain.Entity{
			{Text: "Berlin", Label: "GPE"},
			{Text: "May Day", Label: "EVENT"},
		},
	}
	svc := New(&mockProvider{pipeline: pipe}, "en")

	res, err := svc.Analyze(context.Background(), "Berlin May Day")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if len(res.Entities) != 2 {
		t.Fatalf("expected 2 entities, got %d", len(res.Entities))
	}
	if res.Entities[0].Text != "Berlin" || res.Entities[0].Type != "GPE" {
		t.Errorf("entity[0] = %+v, want Berlin/GPE", res.Entities[0])
	}
	if res.Entities[1].Type != "EVENT" {
		t.Errorf("entity[1] type = %q, want EVENT", res.Entities[1].Type)
	}
}

func TestAnalyze_NoEntitiesYieldsEmptySlice(t *testing.T) {
	pipe := &mockPipeline{tokens: []domain.Token{{Text: "hi", Tag: "UH"}}}
	svc := New(&mockProvider{pipeline: pipe}, "en")

	res, err := svc.Analyze(context.Background(), "hi")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if res.Entities == nil {
		t.Error("entities must be an empty slice, not nil")
	}
	if res.Tokens == nil {
		t.Error("tokens must be an empty slice, not nil")
	}
}

func TestAnalyze_LoadErrorPropagatesVerbatim(t *testing.T) {
	loadErr := errors.New(`NLP model "xx" not found: install it under models`)
	svc := New(&mockProvider{err: loadErr}, "xx")

	_, err := svc.Analyze(context.Background(), "text")
	if !errors.Is(err, loadErr) {
		t.Fatalf("expected load error to propagate, got %v", err)
	}
	if err.Error() != loadErr.Error() {
		t.Errorf("error message rewritten: %q", err.Error())
	}
}

func TestAnalyze_PipelineErrorPropagatesVerbatim(t *testing.T) {
	runErr := errors.New("tagger exploded")
	svc := New(&mockProvider{pipeline: &mockPipeline{err: runErr}}, "en")

	_, err := svc.Analyze(context.Background(), "text")
	if !errors.Is(err, runErr) {
		t.Fatalf("expected analysis error to propagate, got %v", err)
	}
	if err.Error() != runErr.Error() {
		t.Errorf("error message rewritten: %q", err.Error())
	}
}
