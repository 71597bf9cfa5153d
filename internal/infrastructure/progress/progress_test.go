package progress

import (
	"bytes"
	"context"
	"testing"

	"nexaplan/internal/domain/entity"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestConsole_PrintsRunStatus(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	c := NewConsole(&buf)
	ctx := context.Background()

	c.Publish(ctx, entity.ProgressEvent{Type: entity.ProgressRunStarted, Total: 3})
	c.Publish(ctx, entity.ProgressEvent{Type: entity.ProgressStageStarted, Stage: 1, Total: 3, Role: "Traffic & Weather Scout"})
	c.Publish(ctx, entity.ProgressEvent{Type: entity.ProgressToolStarted, Tool: "hyper_local_search", Content: `{"query":"Mumbai traffic"}`})
	c.Publish(ctx, entity.ProgressEvent{Type: entity.ProgressToolFinished, Tool: "hyper_local_search", Content: "- Heavy rain...\n- More..."})
	c.Publish(ctx, entity.ProgressEvent{Type: entity.ProgressToolFinished, Tool: "hyper_local_search", Content: "Search error: timeout"})
	c.Publish(ctx, entity.ProgressEvent{Type: entity.ProgressRunCompleted})

	out := buf.String()
	assert.Contains(t, out, "Agents are scouting conditions...")
	assert.Contains(t, out, "Stage 1/3: Traffic & Weather Scout")
	assert.Contains(t, out, "query: Mumbai traffic")
	assert.Contains(t, out, "✓ - Heavy rain...")
	assert.NotContains(t, out, "More...")
	assert.Contains(t, out, "❌ Search error: timeout")
	assert.Contains(t, out, "Audit Complete")
}

func TestConsole_RunFailed(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer

	NewConsole(&buf).Publish(context.Background(), entity.ProgressEvent{Type: entity.ProgressRunFailed, Content: "stage scout: boom", IsError: true})

	assert.Contains(t, buf.String(), "Run failed: stage scout: boom")
}

type countingSink struct{ n int }

func (c *countingSink) Publish(context.Context, entity.ProgressEvent) { c.n++ }

func TestMulti(t *testing.T) {
	a, b := &countingSink{}, &countingSink{}
	m := Multi{a, nil, b, Noop{}}

	m.Publish(context.Background(), entity.ProgressEvent{Type: entity.ProgressThinking})

	assert.Equal(t, 1, a.n)
	assert.Equal(t, 1, b.n)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab...", truncate("abcdef", 2))
	assert.Equal(t, "मुं...", truncate("मुंबई", 3))
}
