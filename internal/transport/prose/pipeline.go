// Package prose adapts the prose NLP library to the domain.Pipeline contract.
package prose

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	prose "github.com/jdkato/prose/v2"
	"go.uber.org/zap"

	"github.com/citypulse/eventmap/internal/domain"
	"github.com/citypulse/eventmap/internal/metrics"
)

// BuiltinModel is the model name served by the library's bundled English model.
const BuiltinModel = "en"

// Config holds the pipeline loader settings.
type Config struct {
	ModelDir string // directory holding named models, one subdirectory each
	Logger   *zap.Logger
}

// Loader constructs pipeline handles by model name. It is the Constructor
// behind the pipeline cache; loading a model from disk is the expensive part.
type Loader struct {
	modelDir string
	logger   *zap.Logger
}

// NewLoader creates a pipeline loader.
func NewLoader(cfg *Config) *Loader {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{modelDir: cfg.ModelDir, logger: logger}
}

// Load builds a pipeline for the named model. BuiltinModel uses the bundled
// English model; any other name is loaded from the model directory. A missing
// model is an error whose message is surfaced verbatim to API clients.
func (l *Loader) Load(_ context.Context, name string) (domain.Pipeline, error) {
	start := time.Now()

	if name == "" || name == BuiltinModel {
		l.logger.Info("loaded built-in pipeline", zap.String("model", BuiltinModel))
		return &pipeline{}, nil
	}

	dir := filepath.Join(l.modelDir, name)
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("NLP model %q not found: install it under %s", name, l.modelDir)
	}

	model := prose.ModelFromDisk(dir)
	metrics.PipelineLoadDuration.Observe(time.Since(start).Seconds())
	l.logger.Info("loaded pipeline from disk",
		zap.String("model", name),
		zap.Duration("took", time.Since(start)),
	)
	return &pipeline{model: model}, nil
}

// pipeline is a loaded prose model. A nil model selects the bundled one.
type pipeline struct {
	model *prose.Model
}

func (p *pipeline) Analyze(_ context.Context, text string) ([]domain.Token, []domain.Entity, error) {
	var opts []prose.DocOpt
	if p.model != nil {
		opts = append(opts, prose.UsingModel(p.model))
	}

	doc, err := prose.NewDocument(text, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("text analysis failed: %w", err)
	}

	docTokens := doc.Tokens()
	tokens := make([]domain.Token, 0, len(docTokens))
	for _, t := range docTokens {
		tokens = append(tokens, domain.Token{Text: t.Text, Tag: t.Tag})
	}

	docEntities := doc.Entities()
	entities := make([]domain.Entity, 0, len(docEntities))
	for _, e := range docEntities {
		entities = append(entities, domain.Entity{Text: e.Text, Label: e.Label})
	}

	return tokens, entities, nil
}
