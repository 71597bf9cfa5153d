package entity

import "time"

type ProgressType string

const (
	ProgressRunStarted     ProgressType = "run_started"
	ProgressStageStarted   ProgressType = "stage_started"
	ProgressThinking       ProgressType = "thinking"
	ProgressToolStarted    ProgressType = "tool_started"
	ProgressToolFinished   ProgressType = "tool_finished"
	ProgressStageCompleted ProgressType = "stage_completed"
	ProgressRunCompleted   ProgressType = "run_completed"
	ProgressRunFailed      ProgressType = "run_failed"
)

type ProgressEvent struct {
	RunID   string       `json:"run_id"`
	Type    ProgressType `json:"type"`
	Stage   int          `json:"stage,omitempty"`
	Total   int          `json:"total,omitempty"`
	Role    string       `json:"role,omitempty"`
	Tool    string       `json:"tool,omitempty"`
	Content string       `json:"content,omitempty"`
	IsError bool         `json:"is_error,omitempty"`
	At      time.Time    `json:"at"`
}
