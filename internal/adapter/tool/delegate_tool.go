package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"nexaplan/internal/application/port/input"
	"nexaplan/internal/application/port/output"
	"nexaplan/internal/domain/entity"
)

var _ output.ToolPort = (*DelegateTool)(nil)

const delegatedExpectedOutput = "Your best answer to your coworker asking you this, accounting for the context shared."

// DelegateTool lets a role hand a sub-task to one of its coworkers. The
// coworker runs without delegation of its own so calls cannot recurse.
type DelegateTool struct {
	executor  input.AgentExecutor
	coworkers []entity.Role
	runID     string
	logger    output.LoggerPort
}

func NewDelegateTool(executor input.AgentExecutor, coworkers []entity.Role, runID string, logger output.LoggerPort) *DelegateTool {
	return &DelegateTool{
		executor:  executor,
		coworkers: coworkers,
		runID:     runID,
		logger:    logger,
	}
}

func (t *DelegateTool) Name() entity.ToolName { return entity.ToolDelegateWork }

func (t *DelegateTool) Description() string {
	titles := make([]string, 0, len(t.coworkers))
	for _, c := range t.coworkers {
		titles = append(titles, c.Title)
	}
	return fmt.Sprintf("Delegate a specific task to one of the following coworkers: %s. "+
		"The coworker knows nothing about your task, so share all the context they need.", strings.Join(titles, ", "))
}

func (t *DelegateTool) Parameters() map[string]interface{} {
	titles := make([]string, 0, len(t.coworkers))
	for _, c := range t.coworkers {
		titles = append(titles, c.Title)
	}

	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"coworker": map[string]interface{}{
				"type":        "string",
				"enum":        titles,
				"description": "Role of the coworker to delegate to",
			},
			"task": map[string]interface{}{
				"type":        "string",
				"description": "The task to delegate",
			},
			"context": map[string]interface{}{
				"type":        "string",
				"description": "Everything the coworker needs to know to do the task",
			},
		},
		"required": []string{"coworker", "task"},
	}
}

func (t *DelegateTool) Execute(ctx context.Context, arguments string) (string, error) {
	var args struct {
		Coworker string `json:"coworker"`
		Task     string `json:"task"`
		Context  string `json:"context"`
	}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}
	if strings.TrimSpace(args.Task) == "" {
		return "", fmt.Errorf("task is required")
	}

	coworker, ok := t.findCoworker(args.Coworker)
	if !ok {
		return "", fmt.Errorf("coworker not found: %s", args.Coworker)
	}
	coworker.AllowDelegation = false

	t.logger.Info("Delegating work", "coworker", coworker.Title, "task", args.Task)

	req := entity.AgentRequest{
		RunID: t.runID,
		Role:  coworker,
		Task: entity.Task{
			ID:             "delegated-" + string(coworker.Name),
			Description:    args.Task,
			ExpectedOutput: delegatedExpectedOutput,
			Role:           coworker.Name,
		},
	}
	if c := strings.TrimSpace(args.Context); c != "" {
		req.Context = []entity.TaskOutput{{RoleTitle: "Coworker request", Output: c}}
	}

	resp, err := t.executor.Execute(ctx, req)
	if err != nil {
		t.logger.Error("Delegated work failed", "coworker", coworker.Title, "error", err)
		return "", fmt.Errorf("delegation to %s failed: %w", coworker.Title, err)
	}
	return resp.Result, nil
}

func (t *DelegateTool) findCoworker(name string) (entity.Role, bool) {
	name = strings.TrimSpace(name)
	for _, c := range t.coworkers {
		if strings.EqualFold(c.Title, name) || strings.EqualFold(string(c.Name), name) {
			return c, true
		}
	}
	return entity.Role{}, false
}
