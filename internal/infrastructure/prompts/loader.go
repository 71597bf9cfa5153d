package prompts

import (
	_ "embed"
	"strings"
	"text/template"
)

//go:embed roles.yaml
var DefaultCrewYAML []byte

//go:embed role.tmpl
var rolePromptTemplate string

//go:embed task.tmpl
var taskPromptTemplate string

//go:embed final_answer.txt
var finalAnswerPrompt string

var (
	roleTmpl = template.Must(template.New("role").Parse(rolePromptTemplate))
	taskTmpl = template.Must(template.New("task").Parse(taskPromptTemplate))
)

// FinalAnswerPrompt is sent once a role runs out of iterations.
func FinalAnswerPrompt() string {
	return strings.TrimSpace(finalAnswerPrompt)
}
