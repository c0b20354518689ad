// Package heatmap serves map data: it fetches clustered events from the
// upstream service and reshapes them into a GeoJSON FeatureCollection.
package heatmap

import (
	"context"
	"fmt"

	"github.com/twpayne/go-geom/encoding/geojson"
	"go.uber.org/zap"

	"github.com/citypulse/eventmap/internal/domain"
	domheatmap "github.com/citypulse/eventmap/internal/domain/heatmap"
	"github.com/citypulse/eventmap/internal/logger"
	"github.com/citypulse/eventmap/internal/metrics"
)

// Service handles map data requests.
type Service struct {
	fetcher ClusterFetcher
}

// New creates a heatmap service.
func New(fetcher ClusterFetcher) *Service {
	return &Service{fetcher: fetcher}
}

// Heatmap fetches clustered events and transforms them into a GeoJSON
// FeatureCollection. Invalid events are dropped silently; a malformed
// envelope is fatal for the request. An empty collection is a valid result.
func (s *Service) Heatmap(ctx context.Context) (*geojson.FeatureCollection, error) {
	payload, err := s.fetcher.FetchClusters(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch clusters: %w", err)
	}

	events, ok := payload.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected array, got %T", domain.ErrInvalidClusterData, payload)
	}

	log := logger.FromContext(ctx)
	return domheatmap.FeatureCollection(events, func(reason string) {
		metrics.DroppedEventsTotal.WithLabelValues(reason).Inc()
		log.Debug("dropped clustered event", zap.String("reason", reason))
	}), nil
}
