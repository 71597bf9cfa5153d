package entity

// Task is one unit of work for a role. ExpectedOutput is shown to the model
// and never checked.
type Task struct {
	ID             string
	Description    string
	ExpectedOutput string
	Role           RoleName
}

type TaskOutput struct {
	Role       RoleName `json:"role"`
	RoleTitle  string   `json:"role_title"`
	Task       string   `json:"task"`
	Output     string   `json:"output"`
	Iterations int      `json:"iterations"`
}
