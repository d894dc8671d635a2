package model

type ProjectStatus string

const (
	ProjectActive    ProjectStatus = "active"
	ProjectPaused    ProjectStatus = "paused"
	ProjectCompleted ProjectStatus = "completed"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectActive, ProjectPaused, ProjectCompleted:
		return true
	}
	return false
}

type Project struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Owner     string        `json:"owner"`
	Status    ProjectStatus `json:"status"`
	Workflow  []string      `json:"workflow"`
	CreatedAt string        `json:"createdAt"`
}

func (p Project) clone() Project {
	p.Workflow = append([]string(nil), p.Workflow...)
	return p
}
