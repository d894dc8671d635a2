package view

import (
	"fmt"
	"strconv"
	"time"

	"github.com/BuzzLyutic/project-tracker/internal/model"
	"github.com/BuzzLyutic/project-tracker/internal/workflow"
)

type Params struct {
	Scope       string
	Sort        SortConfig
	Now         time.Time
	CurrentUser string
	Roster      []string
}

type TaskRow struct {
	Task        model.Task `json:"task"`
	ProjectName string     `json:"projectName"`
	StatusLabel string     `json:"statusLabel"`
	IsDone      bool       `json:"isDone"`
	DueState    DueState   `json:"dueState"`
	DueLabel    string     `json:"dueLabel"`
	NextStatus  string     `json:"nextStatus"`
	CanAdvance  bool       `json:"canAdvance"`
	IsMine      bool       `json:"isMine"`
}

type Dashboard struct {
	CurrentUser string            `json:"currentUser"`
	Team        []string          `json:"team"`
	MyTasks     MyTasks           `json:"myTasks"`
	KPIs        KPIs              `json:"kpis"`
	Cards       []KPICard         `json:"cards"`
	Projects    []ProjectProgress `json:"projects"`
	Scope       string            `json:"scope"`
	Sort        SortConfig        `json:"sort"`
	Tasks       []TaskRow         `json:"tasks"`
	Workload    []MemberLoad      `json:"workload"`
}

func NewTaskRow(it Item, now time.Time, currentUser string) TaskRow {
	done := it.Done()
	due := ClassifyDue(it.Task.DueDate, done, now)
	next := workflow.Next(it.Task.Status, it.Project.Workflow)
	return TaskRow{
		Task:        it.Task,
		ProjectName: it.Project.Name,
		StatusLabel: workflow.Label(it.Task.Status),
		IsDone:      done,
		DueState:    due,
		DueLabel:    due.Label(),
		NextStatus:  next,
		CanAdvance:  next != it.Task.Status,
		IsMine:      currentUser != "" && it.Task.Assignee == currentUser,
	}
}

// Build assembles every view the dashboard renders.
func Build(s model.Snapshot, p Params) Dashboard {
	if p.Scope == "" {
		p.Scope = ScopeAll
	}
	if !p.Sort.Key.Valid() {
		p.Sort = DefaultSort()
	}

	items := Join(s)
	team := TeamMembers(p.Roster, s)
	user := ResolveCurrentUser(p.CurrentUser, team, p.Roster)

	sorted := Sort(FilterScope(items, p.Scope), p.Sort)
	rows := make([]TaskRow, 0, len(sorted))
	for _, it := range sorted {
		rows = append(rows, NewTaskRow(it, p.Now, user))
	}

	kpis := ComputeKPIs(s, items, p.Now)
	return Dashboard{
		CurrentUser: user,
		Team:        team,
		MyTasks:     CountMyTasks(items, user),
		KPIs:        kpis,
		Cards:       kpis.Cards(),
		Projects:    Progress(s, user),
		Scope:       p.Scope,
		Sort:        p.Sort,
		Tasks:       rows,
		Workload:    Workload(items),
	}
}

func (k KPIs) Cards() []KPICard {
	overdueNote := "All clear"
	if k.OverdueTasks > 0 {
		overdueNote = "Needs attention"
	}
	return []KPICard{
		{Label: "Active Projects", Value: strconv.Itoa(k.ActiveProjects), Change: fmt.Sprintf("%d total", k.TotalProjects)},
		{Label: "Tasks Completed", Value: strconv.Itoa(k.CompletedTasks), Change: fmt.Sprintf("%d tracked", k.TrackedTasks)},
		{Label: "Completion Rate", Value: fmt.Sprintf("%d%%", k.CompletionRate), Change: "Across all tasks"},
		{Label: "Overdue Tasks", Value: strconv.Itoa(k.OverdueTasks), Change: overdueNote},
	}
}
