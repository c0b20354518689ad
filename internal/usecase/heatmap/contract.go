package heatmap

import "context"

// ClusterFetcher retrieves clustered events from the spatial clustering
// service and returns the decoded JSON payload.
type ClusterFetcher interface {
	FetchClusters(ctx context.Context) (any, error)
}
