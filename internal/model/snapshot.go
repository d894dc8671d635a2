package model

import (
	"encoding/json"

	"github.com/BuzzLyutic/project-tracker/internal/workflow"
)

// Snapshot is the durable (projects, tasks) pair. Values are never edited in
// place: every mutator below builds new slices and returns a new Snapshot.
type Snapshot struct {
	Projects []Project `json:"projects"`
	Tasks    []Task    `json:"tasks"`
}

func NewSnapshot(projects []Project, tasks []Task) Snapshot {
	s := Snapshot{
		Projects: make([]Project, 0, len(projects)),
		Tasks:    make([]Task, 0, len(tasks)),
	}
	for _, p := range projects {
		s.Projects = append(s.Projects, p.clone())
	}
	s.Tasks = append(s.Tasks, tasks...)
	return s
}

// Clone deep-copies the snapshot so callers outside the owner can't alias its slices.
func (s Snapshot) Clone() Snapshot {
	return NewSnapshot(s.Projects, s.Tasks)
}

// MarshalJSON always emits arrays, never null, so a stored empty snapshot reads back as valid.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	type plain Snapshot
	out := plain(s)
	if out.Projects == nil {
		out.Projects = []Project{}
	}
	if out.Tasks == nil {
		out.Tasks = []Task{}
	}
	return json.Marshal(out)
}

func (s Snapshot) Project(id string) (Project, bool) {
	for _, p := range s.Projects {
		if p.ID == id {
			return p.clone(), true
		}
	}
	return Project{}, false
}

func (s Snapshot) Task(id string) (Task, bool) {
	for _, t := range s.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return Task{}, false
}

// AddProject prepends p (newest first).
func (s Snapshot) AddProject(p Project) Snapshot {
	projects := make([]Project, 0, len(s.Projects)+1)
	projects = append(projects, p.clone())
	projects = append(projects, s.Projects...)
	return Snapshot{Projects: projects, Tasks: s.Tasks}
}

// AddTask prepends t (newest first).
func (s Snapshot) AddTask(t Task) Snapshot {
	tasks := make([]Task, 0, len(s.Tasks)+1)
	tasks = append(tasks, t)
	tasks = append(tasks, s.Tasks...)
	return Snapshot{Projects: s.Projects, Tasks: tasks}
}

// ArchiveProject marks the project completed. Tasks are left alone.
func (s Snapshot) ArchiveProject(id string) Snapshot {
	return s.mapProjects(func(p Project) Project {
		if p.ID == id {
			p.Status = ProjectCompleted
		}
		return p
	})
}

// AdvanceTask moves the task one step forward in its project's workflow.
func (s Snapshot) AdvanceTask(id string) Snapshot {
	return s.mapTasks(func(t Task) Task {
		if t.ID != id {
			return t
		}
		var steps []string
		if p, ok := s.Project(t.ProjectID); ok {
			steps = p.Workflow
		}
		t.Status = workflow.Next(t.Status, steps)
		return t
	})
}

func (s Snapshot) RemoveTask(id string) Snapshot {
	tasks := make([]Task, 0, len(s.Tasks))
	for _, t := range s.Tasks {
		if t.ID != id {
			tasks = append(tasks, t)
		}
	}
	return Snapshot{Projects: s.Projects, Tasks: tasks}
}

// ReplaceWorkflow installs steps on the project and moves every task of that
// project whose status fell out of the workflow back to the first step.
// steps must already be normalized with at least workflow.MinSteps entries.
func (s Snapshot) ReplaceWorkflow(projectID string, steps []string) Snapshot {
	if _, ok := s.Project(projectID); !ok {
		return s
	}
	next := s.mapProjects(func(p Project) Project {
		if p.ID == projectID {
			p.Workflow = append([]string(nil), steps...)
		}
		return p
	})
	return next.mapTasks(func(t Task) Task {
		if t.ProjectID != projectID || workflow.Contains(steps, t.Status) {
			return t
		}
		t.Status = steps[0]
		return t
	})
}

func (s Snapshot) mapProjects(fn func(Project) Project) Snapshot {
	projects := make([]Project, 0, len(s.Projects))
	for _, p := range s.Projects {
		projects = append(projects, fn(p.clone()))
	}
	return Snapshot{Projects: projects, Tasks: s.Tasks}
}

func (s Snapshot) mapTasks(fn func(Task) Task) Snapshot {
	tasks := make([]Task, 0, len(s.Tasks))
	for _, t := range s.Tasks {
		tasks = append(tasks, fn(t))
	}
	return Snapshot{Projects: s.Projects, Tasks: tasks}
}
