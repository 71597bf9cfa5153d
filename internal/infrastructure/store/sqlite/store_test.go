package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"nexaplan/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "nested", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRun(id string, started time.Time) *entity.RunRecord {
	return &entity.RunRecord{
		ID: id,
		Request: entity.PlanRequest{
			City:         entity.CityMumbai,
			Event:        entity.EventBusinessLunch,
			Requirements: "5 persons, vegan",
			Transport:    entity.TransportMetro,
		},
		Status:    entity.RunStatusRunning,
		StartedAt: started,
	}
}

func TestRunLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	started := time.Date(2026, 5, 1, 12, 30, 0, 0, time.UTC)

	run := sampleRun("run-1", started)
	require.NoError(t, s.SaveRun(ctx, run))

	got, err := s.GetRun(ctx, "run-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, entity.RunStatusRunning, got.Status)
	assert.Equal(t, "5 persons, vegan", got.Request.Requirements)
	assert.Nil(t, got.CompletedAt)
	assert.Empty(t, got.Outputs)

	completed := started.Add(2 * time.Minute)
	run.Status = entity.RunStatusCompleted
	run.Outputs = []entity.TaskOutput{
		{Role: entity.RoleScout, RoleTitle: "Traffic & Weather Scout", Output: "clear"},
		{Role: entity.RoleAuditor, RoleTitle: "Venue Auditor", Output: "venues"},
		{Role: entity.RoleArchitect, RoleTitle: "Chief Architect", Output: "| a | b |"},
	}
	run.Report = "| a | b |"
	run.CompletedAt = &completed
	require.NoError(t, s.SaveRun(ctx, run))

	got, err = s.GetRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, entity.RunStatusCompleted, got.Status)
	require.Len(t, got.Outputs, 3)
	assert.Equal(t, entity.RoleAuditor, got.Outputs[1].Role)
	assert.Equal(t, "| a | b |", got.Report)
	require.NotNil(t, got.CompletedAt)
	assert.True(t, completed.Equal(*got.CompletedAt))
	assert.True(t, started.Equal(got.StartedAt))
}

func TestGetRun_NotFound(t *testing.T) {
	s := newTestStore(t)

	got, err := s.GetRun(context.Background(), "missing")

	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListRuns_NewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.SaveRun(ctx, sampleRun(id, base.Add(time.Duration(i)*time.Hour))))
	}

	runs, err := s.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "c", runs[0].ID)
	assert.Equal(t, "b", runs[1].ID)

	all, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestFailedRunKeepsError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run := sampleRun("failed", time.Now())
	run.Status = entity.RunStatusFailed
	run.Error = "stage auditor: llm request failed: connection refused"
	require.NoError(t, s.SaveRun(ctx, run))

	got, err := s.GetRun(ctx, "failed")
	require.NoError(t, err)
	assert.Equal(t, entity.RunStatusFailed, got.Status)
	assert.Contains(t, got.Error, "connection refused")
}
