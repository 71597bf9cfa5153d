package input

import (
	"context"

	"nexaplan/internal/domain/entity"
)

// PipelineRunner runs one plan request. An empty runID gets a generated one;
// otherwise it must be an unused UUID, so a caller can follow progress events
// for its own run from the first one.
type PipelineRunner interface {
	Run(ctx context.Context, runID string, req entity.PlanRequest) (*entity.RunResult, error)
}
