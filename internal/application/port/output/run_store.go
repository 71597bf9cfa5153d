package output

import (
	"context"

	"nexaplan/internal/domain/entity"
)

type RunStore interface {
	SaveRun(ctx context.Context, run *entity.RunRecord) error
	GetRun(ctx context.Context, id string) (*entity.RunRecord, error)
	ListRuns(ctx context.Context, limit int) ([]entity.RunRecord, error)
}
