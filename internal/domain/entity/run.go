package entity

import "time"

type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// RunResult is the outcome of one pipeline run. Report is the last task's
// raw text.
type RunResult struct {
	ID          string       `json:"id"`
	Request     PlanRequest  `json:"request"`
	Outputs     []TaskOutput `json:"outputs"`
	Report      string       `json:"report"`
	StartedAt   time.Time    `json:"started_at"`
	CompletedAt time.Time    `json:"completed_at"`
}

// RunRecord is the persisted view of a run, including failed ones.
type RunRecord struct {
	ID          string       `json:"id"`
	Request     PlanRequest  `json:"request"`
	Status      RunStatus    `json:"status"`
	Outputs     []TaskOutput `json:"outputs,omitempty"`
	Report      string       `json:"report,omitempty"`
	Error       string       `json:"error,omitempty"`
	StartedAt   time.Time    `json:"started_at"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
}
