package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"nexaplan/internal/application/port/output"
	"nexaplan/internal/domain/entity"

	"github.com/fatih/color"
)

var _ output.ProgressPort = (*Console)(nil)

// Console prints run progress for the CLI.
type Console struct {
	mu  sync.Mutex
	out io.Writer

	header  *color.Color
	stage   *color.Color
	tool    *color.Color
	success *color.Color
	failure *color.Color
	done    *color.Color
	fatal   *color.Color
	dim     *color.Color
}

func NewConsole(out io.Writer) *Console {
	return &Console{
		out:     out,
		header:  color.New(color.FgBlue, color.Bold),
		stage:   color.New(color.FgCyan, color.Bold),
		tool:    color.New(color.FgYellow, color.Bold),
		success: color.New(color.FgGreen),
		failure: color.New(color.FgRed),
		done:    color.New(color.FgGreen, color.Bold),
		fatal:   color.New(color.FgRed, color.Bold),
		dim:     color.New(color.Faint),
	}
}

func (c *Console) Publish(_ context.Context, e entity.ProgressEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch e.Type {
	case entity.ProgressRunStarted:
		c.header.Fprintln(c.out, "🔍 Agents are scouting conditions...")

	case entity.ProgressStageStarted:
		c.stage.Fprintf(c.out, "\n━━━ Stage %d/%d: %s ━━━\n", e.Stage, e.Total, e.Role)

	case entity.ProgressThinking:
		c.dim.Fprintf(c.out, "💭 %s\n", truncate(e.Content, 300))

	case entity.ProgressToolStarted:
		c.tool.Fprintf(c.out, "%s %s\n", toolIcon(e.Tool), e.Tool)
		if summary := summarizeArguments(e.Content); summary != "" {
			c.dim.Fprintf(c.out, "   %s\n", summary)
		}

	case entity.ProgressToolFinished:
		if e.IsError || strings.HasPrefix(e.Content, "Search error") {
			c.failure.Fprint(c.out, "❌ ")
			c.dim.Fprintln(c.out, truncate(e.Content, 200))
			return
		}
		c.success.Fprintf(c.out, "✓ %s\n", truncate(firstLine(e.Content), 120))

	case entity.ProgressStageCompleted:
		c.success.Fprintf(c.out, "✓ %s done\n", e.Role)

	case entity.ProgressRunCompleted:
		c.done.Fprintln(c.out, "\n✅ Audit Complete")

	case entity.ProgressRunFailed:
		c.fatal.Fprintf(c.out, "\n❌ Run failed: %s\n", e.Content)
	}
}

func toolIcon(name string) string {
	switch entity.ToolName(name) {
	case entity.ToolHyperLocalSearch:
		return "🔎"
	case entity.ToolDelegateWork:
		return "🤝"
	}
	return "🔧"
}

// summarizeArguments shows the most telling argument of a tool call.
func summarizeArguments(arguments string) string {
	var args map[string]interface{}
	if err := json.Unmarshal([]byte(arguments), &args); err != nil {
		return truncate(arguments, 80)
	}
	for _, key := range []string{"query", "coworker", "task"} {
		if v, ok := args[key].(string); ok && v != "" {
			return fmt.Sprintf("%s: %s", key, truncate(v, 80))
		}
	}
	return ""
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func truncate(s string, maxRunes int) string {
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes]) + "..."
}
