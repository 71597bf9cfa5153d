package entity

// AgentRequest is everything a role needs to work on one task. Context holds
// the outputs of the tasks that ran before it, oldest first. Coworkers are
// the roles a delegating role may hand sub-tasks to.
type AgentRequest struct {
	RunID     string
	Role      Role
	Task      Task
	Context   []TaskOutput
	Coworkers []Role
}

type AgentResponse struct {
	Result     string
	Iterations int
}
