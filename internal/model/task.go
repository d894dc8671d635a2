package model

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Rank orders priorities High < Medium < Low.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	}
	return 3
}

type Task struct {
	ID        string   `json:"id"`
	ProjectID string   `json:"projectId"`
	Title     string   `json:"title"`
	Assignee  string   `json:"assignee"`
	DueDate   string   `json:"dueDate"`
	Priority  Priority `json:"priority"`
	Status    string   `json:"status"`
	CreatedAt string   `json:"createdAt"`
}

type TaskFilter struct {
	ProjectID *string
}

// Matches reports whether the task belongs to the filtered project; a nil ProjectID matches all.
func (f TaskFilter) Matches(t Task) bool {
	return f.ProjectID == nil || *f.ProjectID == t.ProjectID
}
