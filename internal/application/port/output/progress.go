package output

import (
	"context"

	"nexaplan/internal/domain/entity"
)

// ProgressPort receives status updates while a run executes. Publish must
// not block the pipeline.
type ProgressPort interface {
	Publish(ctx context.Context, event entity.ProgressEvent)
}
