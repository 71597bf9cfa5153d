package prompts

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"

	"nexaplan/internal/domain/entity"

	"gopkg.in/yaml.v3"
)

const defaultMaxIterations = 3

// CrewDefinition is the role and task catalog. Tasks run in file order.
type CrewDefinition struct {
	Roles []RoleDefinition `yaml:"roles"`
	Tasks []TaskDefinition `yaml:"tasks"`
}

type RoleDefinition struct {
	Name            string   `yaml:"name"`
	Title           string   `yaml:"title"`
	Goal            string   `yaml:"goal"`
	Backstory       string   `yaml:"backstory"`
	Tools           []string `yaml:"tools"`
	MaxIterations   int      `yaml:"max_iterations"`
	AllowDelegation bool     `yaml:"allow_delegation"`
}

type TaskDefinition struct {
	Role           string `yaml:"role"`
	Description    string `yaml:"description"`
	ExpectedOutput string `yaml:"expected_output"`
}

type crewTemplateData struct {
	City         string
	Event        string
	Requirements string
	Transport    string
}

// LoadCrew reads a crew definition from path, or the embedded default when
// path is empty.
func LoadCrew(path string) (*CrewDefinition, error) {
	data := DefaultCrewYAML
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read crew file: %w", err)
		}
		data = b
	}
	return ParseCrew(data)
}

func ParseCrew(data []byte) (*CrewDefinition, error) {
	var crew CrewDefinition
	if err := yaml.Unmarshal(data, &crew); err != nil {
		return nil, fmt.Errorf("parse crew: %w", err)
	}
	if err := crew.validate(); err != nil {
		return nil, err
	}
	return &crew, nil
}

func (c *CrewDefinition) validate() error {
	if len(c.Tasks) == 0 {
		return fmt.Errorf("crew has no tasks")
	}

	seen := make(map[string]bool, len(c.Roles))
	for i := range c.Roles {
		r := &c.Roles[i]
		if r.Name == "" {
			return fmt.Errorf("role %d has no name", i)
		}
		if seen[r.Name] {
			return fmt.Errorf("duplicate role %q", r.Name)
		}
		seen[r.Name] = true
		if r.Title == "" {
			r.Title = r.Name
		}
		if r.MaxIterations <= 0 {
			r.MaxIterations = defaultMaxIterations
		}
	}

	for i, t := range c.Tasks {
		if !seen[t.Role] {
			return fmt.Errorf("task %d references unknown role %q", i, t.Role)
		}
		if strings.TrimSpace(t.Description) == "" {
			return fmt.Errorf("task %d has no description", i)
		}
	}
	return nil
}

// Render fills the templates with the request and returns the roles and the
// tasks in execution order.
func (c *CrewDefinition) Render(req entity.PlanRequest) ([]entity.Role, []entity.Task, error) {
	data := crewTemplateData{
		City:         string(req.City),
		Event:        string(req.Event),
		Requirements: req.Requirements,
		Transport:    string(req.Transport),
	}

	roles := make([]entity.Role, 0, len(c.Roles))
	for _, rd := range c.Roles {
		goal, err := renderField(rd.Name+".goal", rd.Goal, data)
		if err != nil {
			return nil, nil, err
		}
		backstory, err := renderField(rd.Name+".backstory", rd.Backstory, data)
		if err != nil {
			return nil, nil, err
		}

		tools := make([]entity.ToolName, 0, len(rd.Tools))
		for _, t := range rd.Tools {
			tools = append(tools, entity.ToolName(t))
		}

		roles = append(roles, entity.Role{
			Name:            entity.RoleName(rd.Name),
			Title:           rd.Title,
			Goal:            goal,
			Backstory:       backstory,
			Tools:           tools,
			MaxIterations:   rd.MaxIterations,
			AllowDelegation: rd.AllowDelegation,
		})
	}

	tasks := make([]entity.Task, 0, len(c.Tasks))
	for i, td := range c.Tasks {
		desc, err := renderField(fmt.Sprintf("task%d.description", i+1), td.Description, data)
		if err != nil {
			return nil, nil, err
		}
		expected, err := renderField(fmt.Sprintf("task%d.expected_output", i+1), td.ExpectedOutput, data)
		if err != nil {
			return nil, nil, err
		}
		tasks = append(tasks, entity.Task{
			ID:             fmt.Sprintf("%d-%s", i+1, td.Role),
			Description:    desc,
			ExpectedOutput: expected,
			Role:           entity.RoleName(td.Role),
		})
	}

	return roles, tasks, nil
}

func renderField(name, text string, data crewTemplateData) (string, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", fmt.Errorf("parse template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render template %s: %w", name, err)
	}
	return strings.TrimSpace(buf.String()), nil
}
