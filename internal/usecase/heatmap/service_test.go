package heatmap

import (
	"context"
	"errors"
	"testing"

	"github.com/citypulse/eventmap/internal/domain"
)

// --- Mocks ---

type mockFetcher struct {
	payload any
	err     error
	calls   int
}

func (m *mockFetcher) FetchClusters(_ context.Context) (any, error) {
	m.calls++
	return m.payload, m.err
}

// --- Tests ---

func TestHeatmap_TransformsEvents(t *testing.T) {
	svc := New(&mockFetcher{payload: []any{
		map[string]any{"id": "a", "coordinates": []any{float64(1), float64(2)}},
		map[string]any{"id": "b", "coordinates": []any{float64(3), float64(4)}},
	}})

	fc, err := svc.Heatmap(context.Background())
	if err != nil {
		t.Fatalf("Heatmap failed: %v", err)
	}
	if len(fc.Features) != 2 {
		t.Errorf("expected 2 features, got %d", len(fc.Features))
	}
}

func TestHeatmap_EmptyUpstreamList(t *testing.T) {
	svc := New(&mockFetcher{payload: []any{}})

	fc, err := svc.Heatmap(context.Background())
	if err != nil {
		t.Fatalf("empty list should be valid, got %v", err)
	}
	if len(fc.Features) != 0 {
		t.Errorf("expected 0 features, got %d", len(fc.Features))
	}
}

func TestHeatmap_InvalidEventsDroppedWithoutError(t *testing.T) {
	svc := New(&mockFetcher{payload: []any{
		"bogus",
		map[string]any{"coordinates": []any{float64(200), float64(0)}},
		map[string]any{"coordinates": []any{float64(10), float64(20)}},
	}})

	fc, err := svc.Heatmap(context.Background())
	if err != nil {
		t.Fatalf("partial bad data must not fail the request: %v", err)
	}
	if len(fc.Features) != 1 {
		t.Errorf("expected 1 feature, got %d", len(fc.Features))
	}
}

func TestHeatmap_NonListEnvelope(t *testing.T) {
	for name, payload := range map[string]any{
		"object": map[string]any{"events": []any{}},
		"scalar": float64(42),
		"string": "oops",
		"null":   nil,
	} {
		t.Run(name, func(t *testing.T) {
			svc := New(&mockFetcher{payload: payload})

			_, err := svc.Heatmap(context.Background())
			if !errors.Is(err, domain.ErrInvalidClusterData) {
				t.Errorf("expected ErrInvalidClusterData, got %v", err)
			}
		})
	}
}

func TestHeatmap_UpstreamFailurePropagates(t *testing.T) {
	svc := New(&mockFetcher{err: domain.NewUpstreamError(domain.CauseTimeout, errors.New("deadline"))})

	_, err := svc.Heatmap(context.Background())
	if !errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Errorf("expected ErrUpstreamUnavailable, got %v", err)
	}
}
