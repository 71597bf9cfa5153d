package entity

type RoleName string

const (
	RoleScout     RoleName = "scout"
	RoleAuditor   RoleName = "auditor"
	RoleArchitect RoleName = "architect"
)

// Role is a persona bound to one pipeline stage. Goal and Backstory are
// already rendered for the current run.
type Role struct {
	Name            RoleName
	Title           string
	Goal            string
	Backstory       string
	Tools           []ToolName
	MaxIterations   int
	AllowDelegation bool
}

func (r Role) HasTools() bool {
	return len(r.Tools) > 0 || r.AllowDelegation
}
