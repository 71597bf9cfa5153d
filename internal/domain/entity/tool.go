package entity

type ToolName string

const (
	ToolHyperLocalSearch ToolName = "hyper_local_search"
	ToolDelegateWork     ToolName = "delegate_work"
)

func (t ToolName) String() string {
	return string(t)
}
