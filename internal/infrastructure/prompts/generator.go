package prompts

import (
	"bytes"
	"fmt"
	"strings"

	"nexaplan/internal/domain/entity"
)

type taskPromptData struct {
	Task    entity.Task
	Context []entity.TaskOutput
}

// RenderRolePrompt builds the system prompt for a role.
func RenderRolePrompt(role entity.Role) (string, error) {
	var buf bytes.Buffer
	if err := roleTmpl.Execute(&buf, role); err != nil {
		return "", fmt.Errorf("render role prompt: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// RenderTaskPrompt builds the user prompt for a task. Every prior output in
// taskContext is included verbatim, in order.
func RenderTaskPrompt(task entity.Task, taskContext []entity.TaskOutput) (string, error) {
	var buf bytes.Buffer
	data := taskPromptData{Task: task, Context: taskContext}
	if err := taskTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render task prompt: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}
