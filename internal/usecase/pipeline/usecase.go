package pipeline

import (
	"context"
	"fmt"
	"time"

	"nexaplan/internal/application/port/input"
	"nexaplan/internal/application/port/output"
	"nexaplan/internal/domain/entity"
	"nexaplan/internal/infrastructure/prompts"
	"nexaplan/internal/infrastructure/report"

	"github.com/google/uuid"
)

var _ input.PipelineRunner = (*UseCase)(nil)

// UseCase runs the crew's tasks strictly in order. Each task gets the
// outputs of all earlier tasks as explicit context; the last task's output
// is the report. A failing stage fails the whole run.
type UseCase struct {
	agent    input.AgentExecutor
	crew     *prompts.CrewDefinition
	logger   output.LoggerPort
	progress output.ProgressPort
	store    output.RunStore
	now      func() time.Time
}

// New builds the pipeline. progress and store may be nil.
func New(
	agent input.AgentExecutor,
	crew *prompts.CrewDefinition,
	logger output.LoggerPort,
	progress output.ProgressPort,
	store output.RunStore,
) *UseCase {
	return &UseCase{
		agent:    agent,
		crew:     crew,
		logger:   logger,
		progress: progress,
		store:    store,
		now:      time.Now,
	}
}

func (uc *UseCase) Run(ctx context.Context, runID string, req entity.PlanRequest) (*entity.RunResult, error) {
	req = req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	id, err := uc.resolveRunID(ctx, runID)
	if err != nil {
		return nil, err
	}

	roles, tasks, err := uc.crew.Render(req)
	if err != nil {
		return nil, fmt.Errorf("render crew: %w", err)
	}

	byName := make(map[entity.RoleName]entity.Role, len(roles))
	for _, r := range roles {
		byName[r.Name] = r
	}

	run := &entity.RunRecord{
		ID:        id,
		Request:   req,
		Status:    entity.RunStatusRunning,
		StartedAt: uc.now(),
	}
	log := uc.logger.WithField("run", run.ID)
	log.Info("Pipeline started", "city", req.City, "event", req.Event, "transport", req.Transport, "stages", len(tasks))

	uc.save(ctx, log, run)
	uc.publish(ctx, entity.ProgressEvent{RunID: run.ID, Type: entity.ProgressRunStarted, Total: len(tasks)})

	outputs := make([]entity.TaskOutput, 0, len(tasks))
	for i, task := range tasks {
		role := byName[task.Role]
		stage := i + 1

		uc.publish(ctx, entity.ProgressEvent{
			RunID: run.ID,
			Type:  entity.ProgressStageStarted,
			Stage: stage,
			Total: len(tasks),
			Role:  role.Title,
		})

		resp, err := uc.agent.Execute(ctx, entity.AgentRequest{
			RunID:     run.ID,
			Role:      role,
			Task:      task,
			Context:   append([]entity.TaskOutput(nil), outputs...),
			Coworkers: roles,
		})
		if err != nil {
			err = fmt.Errorf("stage %s: %w", role.Name, err)
			uc.fail(ctx, log, run, outputs, err)
			return nil, err
		}

		outputs = append(outputs, entity.TaskOutput{
			Role:       role.Name,
			RoleTitle:  role.Title,
			Task:       task.Description,
			Output:     resp.Result,
			Iterations: resp.Iterations,
		})

		uc.publish(ctx, entity.ProgressEvent{
			RunID:   run.ID,
			Type:    entity.ProgressStageCompleted,
			Stage:   stage,
			Total:   len(tasks),
			Role:    role.Title,
			Content: resp.Result,
		})
		log.Info("Stage completed", "stage", stage, "role", role.Name, "iterations", resp.Iterations, "outputLen", len(resp.Result))
	}

	completed := uc.now()
	result := &entity.RunResult{
		ID:          run.ID,
		Request:     req,
		Outputs:     outputs,
		Report:      outputs[len(outputs)-1].Output,
		StartedAt:   run.StartedAt,
		CompletedAt: completed,
	}

	if missing := report.Inspect(result.Report).Missing(); len(missing) > 0 {
		log.Warn("Report is missing requested formatting", "missing", missing)
	}

	run.Status = entity.RunStatusCompleted
	run.Outputs = outputs
	run.Report = result.Report
	run.CompletedAt = &completed
	uc.save(ctx, log, run)

	uc.publish(ctx, entity.ProgressEvent{RunID: run.ID, Type: entity.ProgressRunCompleted, Total: len(tasks)})
	log.Info("Pipeline completed", "durationMs", completed.Sub(run.StartedAt).Milliseconds())

	return result, nil
}

func (uc *UseCase) fail(ctx context.Context, log output.LoggerPort, run *entity.RunRecord, outputs []entity.TaskOutput, err error) {
	log.Error("Pipeline failed", "error", err)

	completed := uc.now()
	run.Status = entity.RunStatusFailed
	run.Outputs = outputs
	run.Error = err.Error()
	run.CompletedAt = &completed
	uc.save(ctx, log, run)

	uc.publish(ctx, entity.ProgressEvent{RunID: run.ID, Type: entity.ProgressRunFailed, Content: err.Error(), IsError: true})
}

// save records the run when a store is configured. History is best effort:
// a store error is logged and never fails the run.
func (uc *UseCase) resolveRunID(ctx context.Context, requested string) (string, error) {
	if requested == "" {
		return uuid.New().String(), nil
	}
	id, err := uuid.Parse(requested)
	if err != nil {
		return "", fmt.Errorf("%w: run id %q is not a UUID", entity.ErrInvalidRequest, requested)
	}
	if uc.store != nil {
		if existing, err := uc.store.GetRun(ctx, id.String()); err == nil && existing != nil {
			return "", fmt.Errorf("%w: run id %s is already used", entity.ErrInvalidRequest, id)
		}
	}
	return id.String(), nil
}

func (uc *UseCase) save(ctx context.Context, log output.LoggerPort, run *entity.RunRecord) {
	if uc.store == nil {
		return
	}
	if err := uc.store.SaveRun(ctx, run); err != nil {
		log.Warn("Failed to save run", "status", run.Status, "error", err)
	}
}

func (uc *UseCase) publish(ctx context.Context, event entity.ProgressEvent) {
	if uc.progress == nil {
		return
	}
	event.At = uc.now()
	uc.progress.Publish(ctx, event)
}
