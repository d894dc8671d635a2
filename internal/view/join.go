// Package view computes read-only projections of a snapshot: task queues,
// project progress, due-date urgency, team workload and KPIs. Nothing here
// caches or mutates; every call recomputes from its inputs.
package view

import (
	"github.com/BuzzLyutic/project-tracker/internal/model"
	"github.com/BuzzLyutic/project-tracker/internal/workflow"
)

// ScopeAll selects tasks from every project.
const ScopeAll = "all"

// Item pairs a task with its project.
type Item struct {
	Task    model.Task
	Project model.Project
}

func (i Item) Done() bool {
	return workflow.IsDone(i.Task.Status, i.Project.Workflow)
}

// Join pairs every task with its project, skipping tasks whose project is gone.
func Join(s model.Snapshot) []Item {
	byID := make(map[string]model.Project, len(s.Projects))
	for _, p := range s.Projects {
		byID[p.ID] = p
	}
	items := make([]Item, 0, len(s.Tasks))
	for _, t := range s.Tasks {
		p, ok := byID[t.ProjectID]
		if !ok {
			continue
		}
		items = append(items, Item{Task: t, Project: p})
	}
	return items
}

// FilterScope keeps items of the given project, or all of them for ScopeAll/"".
func FilterScope(items []Item, scope string) []Item {
	var filter model.TaskFilter
	if scope != "" && scope != ScopeAll {
		filter.ProjectID = &scope
	}
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if filter.Matches(it.Task) {
			out = append(out, it)
		}
	}
	return out
}
