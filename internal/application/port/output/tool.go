package output

import (
	"context"

	"nexaplan/internal/domain/entity"
)

// ToolPort is a capability a role may invoke while producing its answer.
// Arguments arrive as the raw JSON string produced by the model.
type ToolPort interface {
	Name() entity.ToolName
	Description() string
	Parameters() map[string]interface{}
	Execute(ctx context.Context, arguments string) (string, error)
}

type ToolRegistry interface {
	Register(tool ToolPort)
	Get(name entity.ToolName) (ToolPort, bool)
	All() []ToolPort
	Definitions() []entity.ToolDefinition
}
