package analyze

import (
	"context"

	"github.com/citypulse/eventmap/internal/domain"
)

// PipelineProvider hands out pipeline handles by model name. Resident
// handles are reused; a miss constructs one.
type PipelineProvider interface {
	Get(ctx context.Context, model string) (domain.Pipeline, error)
}
