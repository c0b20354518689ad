package prose

import (
	"context"
	"os"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/citypulse/eventmap/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterPipelineMetrics()
	os.Exit(m.Run())
}

func TestLoad_BuiltinModel(t *testing.T) {
	loader := NewLoader(&Config{ModelDir: t.TempDir(), Logger: zap.NewNop()})

	p, err := loader.Load(context.Background(), BuiltinModel)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if p == nil {
		t.Fatal("expected a pipeline handle")
	}
}

func TestLoad_UnknownModel(t *testing.T) {
	loader := NewLoader(&Config{ModelDir: t.TempDir(), Logger: zap.NewNop()})

	_, err := loader.Load(context.Background(), "xx-missing")
	if err == nil {
		t.Fatal("expected error for a missing model")
	}
	if !strings.Contains(err.Error(), "xx-missing") || !strings.Contains(err.Error(), "not found") {
		t.Errorf("error should name the missing model: %v", err)
	}
}

func TestAnalyze_TokensAndTags(t *testing.T) {
	loader := NewLoader(&Config{ModelDir: t.TempDir(), Logger: zap.NewNop()})
	p, err := loader.Load(context.Background(), BuiltinModel)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	tokens, _, err := p.Analyze(context.Background(), "The city opened a new park.")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if len(tokens) == 0 {
		t.Fatal("expected tokens")
	}
	for _, tok := range tokens {
		if tok.Text == "" {
			t.Error("token with empty text")
		}
		if tok.Tag == "" {
			t.Errorf("token %q has no POS tag", tok.Text)
		}
	}
}
