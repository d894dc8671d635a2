package view

import (
	"math"

	"github.com/BuzzLyutic/project-tracker/internal/model"
	"github.com/BuzzLyutic/project-tracker/internal/workflow"
)

type ProjectProgress struct {
	Project       model.Project `json:"project"`
	WorkflowLabel string        `json:"workflowLabel"`
	DoneCount     int           `json:"doneCount"`
	TotalCount    int           `json:"totalCount"`
	Percent       int           `json:"percent"`
	IsMine        bool          `json:"isMine"`
}

// Percent rounds done/total to the nearest whole percent; 0 when total is 0.
func Percent(done, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(done) / float64(total) * 100))
}

// Progress reports done/total per project, in snapshot order.
func Progress(s model.Snapshot, currentUser string) []ProjectProgress {
	out := make([]ProjectProgress, 0, len(s.Projects))
	for _, p := range s.Projects {
		var done, total int
		for _, t := range s.Tasks {
			if t.ProjectID != p.ID {
				continue
			}
			total++
			if workflow.IsDone(t.Status, p.Workflow) {
				done++
			}
		}
		out = append(out, ProjectProgress{
			Project:       p,
			WorkflowLabel: workflow.Describe(p.Workflow),
			DoneCount:     done,
			TotalCount:    total,
			Percent:       Percent(done, total),
			IsMine:        currentUser != "" && p.Owner == currentUser,
		})
	}
	return out
}
