package progress

import (
	"context"

	"nexaplan/internal/application/port/output"
	"nexaplan/internal/domain/entity"
)

var (
	_ output.ProgressPort = Multi(nil)
	_ output.ProgressPort = Noop{}
)

// Multi fans an event out to every sink in order. Nil sinks are skipped.
type Multi []output.ProgressPort

func (m Multi) Publish(ctx context.Context, e entity.ProgressEvent) {
	for _, p := range m {
		if p != nil {
			p.Publish(ctx, e)
		}
	}
}

type Noop struct{}

func (Noop) Publish(context.Context, entity.ProgressEvent) {}
