// Package seed builds the starter data used when nothing valid is stored.
package seed

import (
	"github.com/BuzzLyutic/project-tracker/internal/clock"
	"github.com/BuzzLyutic/project-tracker/internal/model"
	"github.com/BuzzLyutic/project-tracker/internal/workflow"
)

// TeamMembers is the default roster.
var TeamMembers = []string{
	"Maya Li",
	"Kai Patel",
	"Owen Ross",
	"Chloe West",
	"Aiden Cole",
	"Nora Chen",
	"Luca Kim",
}

// Snapshot returns three projects with distinct workflows and five tasks that
// cover overdue, due today, due soon, normal and done. Dates are relative to c.
func Snapshot(c clock.Clock, newID clock.IDFunc) model.Snapshot {
	now := clock.Timestamp(c)

	launch := model.Project{
		ID:        newID(),
		Name:      "Product Launch Hub",
		Owner:     "Maya Li",
		Status:    model.ProjectActive,
		Workflow:  []string{"todo", "in_progress", "review", "done"},
		CreatedAt: now,
	}
	mobile := model.Project{
		ID:        newID(),
		Name:      "Mobile Polish Sprint",
		Owner:     "Kai Patel",
		Status:    model.ProjectActive,
		Workflow:  []string{"backlog", "doing", "done"},
		CreatedAt: now,
	}
	billing := model.Project{
		ID:        newID(),
		Name:      "Billing Migration",
		Owner:     "Owen Ross",
		Status:    model.ProjectPaused,
		Workflow:  workflow.Default(),
		CreatedAt: now,
	}

	task := func(p model.Project, title, assignee string, dueOffset int, priority model.Priority, status string) model.Task {
		return model.Task{
			ID:        newID(),
			ProjectID: p.ID,
			Title:     title,
			Assignee:  assignee,
			DueDate:   clock.DateFromOffset(c, dueOffset),
			Priority:  priority,
			Status:    status,
			CreatedAt: now,
		}
	}

	return model.NewSnapshot(
		[]model.Project{launch, mobile, billing},
		[]model.Task{
			task(launch, "Finalize roadmap v2", "Maya Li", 0, model.PriorityHigh, "in_progress"),
			task(launch, "Schedule stakeholder walkthrough", "Chloe West", 2, model.PriorityMedium, "todo"),
			task(mobile, "Ship settings screen QA fixes", "Aiden Cole", 1, model.PriorityHigh, "backlog"),
			task(mobile, "Accessibility pass for navigation", "Kai Patel", 7, model.PriorityLow, "done"),
			task(billing, "Review API contract updates", "Owen Ross", -1, model.PriorityHigh, "todo"),
		},
	)
}
