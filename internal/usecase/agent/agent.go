package agent

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"nexaplan/internal/adapter/tool"
	"nexaplan/internal/application/port/input"
	"nexaplan/internal/application/port/output"
	"nexaplan/internal/application/service"
	"nexaplan/internal/domain/entity"
	"nexaplan/internal/infrastructure/prompts"
)

const (
	defaultMaxIterations = 3
	maxObservationLen    = 8000
)

var _ input.AgentExecutor = (*Agent)(nil)

// Agent runs one role on one task: a tool-calling loop capped at the
// role's iteration limit, followed by a forced tool-less answer if the cap
// is reached.
type Agent struct {
	llm         output.LLMPort
	tools       *service.ToolRegistryImpl
	logger      output.LoggerPort
	progress    output.ProgressPort
	temperature float32
}

func New(
	llm output.LLMPort,
	tools *service.ToolRegistryImpl,
	logger output.LoggerPort,
	progress output.ProgressPort,
	temperature float32,
) *Agent {
	return &Agent{
		llm:         llm,
		tools:       tools,
		logger:      logger,
		progress:    progress,
		temperature: temperature,
	}
}

func (a *Agent) Execute(ctx context.Context, req entity.AgentRequest) (*entity.AgentResponse, error) {
	log := a.logger.WithFields(map[string]any{
		"run":  req.RunID,
		"role": string(req.Role.Name),
	})
	log.Info("Agent executing", "task", req.Task.Description, "contextItems", len(req.Context))

	systemPrompt, err := prompts.RenderRolePrompt(req.Role)
	if err != nil {
		return nil, err
	}
	userPrompt, err := prompts.RenderTaskPrompt(req.Task, req.Context)
	if err != nil {
		return nil, err
	}

	messages := []entity.Message{
		{Role: entity.RoleSystem, Content: systemPrompt},
		{Role: entity.RoleUser, Content: userPrompt},
	}

	tools := a.toolsFor(req)
	toolDefs := tools.Definitions()
	if len(toolDefs) == 0 {
		toolDefs = nil
	}

	maxIterations := req.Role.MaxIterations
	if maxIterations <= 0 {
		maxIterations = defaultMaxIterations
	}

	for iter := 1; iter <= maxIterations; iter++ {
		log.Debug("Agent iteration", "iteration", iter, "maxIterations", maxIterations)

		resp, err := a.llm.Chat(ctx, output.ChatRequest{
			Messages:    messages,
			Tools:       toolDefs,
			Temperature: a.temperature,
		})
		if err != nil {
			return nil, fmt.Errorf("llm request failed: %w", err)
		}

		messages = append(messages, resp.Message)

		if len(resp.Message.ToolCalls) == 0 {
			result := strings.TrimSpace(resp.Message.Content)
			if result == "" {
				log.Warn("Model returned an empty answer", "iteration", iter)
			}
			log.Info("Agent finished", "iterations", iter, "resultLen", len(result))
			return &entity.AgentResponse{Result: result, Iterations: iter}, nil
		}

		if resp.Message.Content != "" {
			a.publish(ctx, entity.ProgressEvent{
				RunID:   req.RunID,
				Type:    entity.ProgressThinking,
				Role:    req.Role.Title,
				Content: resp.Message.Content,
			})
		}

		for _, tc := range resp.Message.ToolCalls {
			observation := a.executeTool(ctx, log, tools, req, tc)
			messages = append(messages, entity.Message{
				Role:       entity.RoleTool,
				ToolCallID: tc.ID,
				Name:       tc.Name,
				Content:    observation,
			})
		}
	}

	log.Info("Max iterations reached, requesting final answer", "maxIterations", maxIterations)
	messages = append(messages, entity.Message{
		Role:    entity.RoleUser,
		Content: prompts.FinalAnswerPrompt(),
	})

	resp, err := a.llm.Chat(ctx, output.ChatRequest{
		Messages:    messages,
		Tools:       nil,
		Temperature: a.temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("final answer request failed: %w", err)
	}

	result := strings.TrimSpace(resp.Message.Content)
	log.Info("Agent finished after forced answer", "resultLen", len(result))
	return &entity.AgentResponse{Result: result, Iterations: maxIterations + 1}, nil
}

// toolsFor returns the tools the role may call for this request, plus a
// delegation tool when the role allows it and has coworkers.
func (a *Agent) toolsFor(req entity.AgentRequest) *service.ToolRegistryImpl {
	tools := a.tools.Subset(req.Role.Tools)
	if !req.Role.AllowDelegation {
		return tools
	}

	coworkers := make([]entity.Role, 0, len(req.Coworkers))
	for _, c := range req.Coworkers {
		if c.Name != req.Role.Name {
			coworkers = append(coworkers, c)
		}
	}
	if len(coworkers) > 0 {
		tools.Register(tool.NewDelegateTool(a, coworkers, req.RunID, a.logger))
	}
	return tools
}

func (a *Agent) executeTool(ctx context.Context, log output.LoggerPort, tools output.ToolRegistry, req entity.AgentRequest, tc entity.ToolCall) string {
	a.publish(ctx, entity.ProgressEvent{
		RunID:   req.RunID,
		Type:    entity.ProgressToolStarted,
		Role:    req.Role.Title,
		Tool:    tc.Name,
		Content: tc.Arguments,
	})

	observation, isError := a.runTool(ctx, log, tools, tc)

	a.publish(ctx, entity.ProgressEvent{
		RunID:   req.RunID,
		Type:    entity.ProgressToolFinished,
		Role:    req.Role.Title,
		Tool:    tc.Name,
		Content: observation,
		IsError: isError,
	})
	return observation
}

func (a *Agent) runTool(ctx context.Context, log output.LoggerPort, tools output.ToolRegistry, tc entity.ToolCall) (string, bool) {
	t, ok := tools.Get(entity.ToolName(tc.Name))
	if !ok {
		log.Warn("Unknown tool called", "name", tc.Name)
		return fmt.Sprintf("Error: unknown tool '%s'", tc.Name), true
	}

	log.Info("Executing tool", "name", tc.Name, "args", tc.Arguments)
	start := time.Now()

	result, err := t.Execute(ctx, tc.Arguments)
	if err != nil {
		log.Error("Tool execution failed", "name", tc.Name, "error", err)
		return "Error: " + err.Error(), true
	}

	result = truncateObservation(result)

	log.Debug("Tool completed", "name", tc.Name, "resultLen", len(result), "durationMs", time.Since(start).Milliseconds())
	return result, false
}

// truncateObservation caps an observation at maxObservationLen runes.
func truncateObservation(s string) string {
	if utf8.RuneCountInString(s) <= maxObservationLen {
		return s
	}
	return string([]rune(s)[:maxObservationLen]) + "\n... (truncated)"
}

func (a *Agent) publish(ctx context.Context, event entity.ProgressEvent) {
	if a.progress == nil {
		return
	}
	event.At = time.Now()
	a.progress.Publish(ctx, event)
}
