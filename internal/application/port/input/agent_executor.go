package input

import (
	"context"

	"nexaplan/internal/domain/entity"
)

type AgentExecutor interface {
	Execute(ctx context.Context, req entity.AgentRequest) (*entity.AgentResponse, error)
}
