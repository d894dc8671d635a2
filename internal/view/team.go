package view

import (
	"slices"
	"time"

	"github.com/BuzzLyutic/project-tracker/internal/model"
)

type MemberLoad struct {
	Member string `json:"member"`
	Active int    `json:"active"`
	Done   int    `json:"done"`
}

// Workload counts active and done tasks per assignee, busiest first.
func Workload(items []Item) []MemberLoad {
	index := make(map[string]int)
	loads := make([]MemberLoad, 0)
	for _, it := range items {
		i, ok := index[it.Task.Assignee]
		if !ok {
			i = len(loads)
			index[it.Task.Assignee] = i
			loads = append(loads, MemberLoad{Member: it.Task.Assignee})
		}
		if it.Done() {
			loads[i].Done++
		} else {
			loads[i].Active++
		}
	}
	slices.SortStableFunc(loads, func(a, b MemberLoad) int {
		if a.Active != b.Active {
			return b.Active - a.Active
		}
		return b.Done - a.Done
	})
	return loads
}

// TeamMembers merges the configured roster with every owner and assignee, sorted.
func TeamMembers(configured []string, s model.Snapshot) []string {
	seen := make(map[string]struct{})
	var members []string
	add := func(name string) {
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		members = append(members, name)
	}
	for _, m := range configured {
		add(m)
	}
	for _, p := range s.Projects {
		add(p.Owner)
	}
	for _, t := range s.Tasks {
		add(t.Assignee)
	}
	slices.Sort(members)
	return members
}

// ResolveCurrentUser keeps user if it is on the roster, otherwise picks the first member.
func ResolveCurrentUser(user string, members, fallback []string) string {
	if slices.Contains(members, user) {
		return user
	}
	if len(members) > 0 {
		return members[0]
	}
	if len(fallback) > 0 {
		return fallback[0]
	}
	return user
}

type MyTasks struct {
	Total int `json:"total"`
	Open  int `json:"open"`
}

func CountMyTasks(items []Item, user string) MyTasks {
	var m MyTasks
	for _, it := range items {
		if it.Task.Assignee != user {
			continue
		}
		m.Total++
		if !it.Done() {
			m.Open++
		}
	}
	return m
}

type KPIs struct {
	ActiveProjects int `json:"activeProjects"`
	TotalProjects  int `json:"totalProjects"`
	CompletedTasks int `json:"completedTasks"`
	TrackedTasks   int `json:"trackedTasks"`
	CompletionRate int `json:"completionRate"`
	OverdueTasks   int `json:"overdueTasks"`
}

func ComputeKPIs(s model.Snapshot, items []Item, now time.Time) KPIs {
	k := KPIs{
		TotalProjects: len(s.Projects),
		TrackedTasks:  len(items),
	}
	for _, p := range s.Projects {
		if p.Status == model.ProjectActive {
			k.ActiveProjects++
		}
	}
	for _, it := range items {
		done := it.Done()
		if done {
			k.CompletedTasks++
		}
		if ClassifyDue(it.Task.DueDate, done, now) == DueOverdue {
			k.OverdueTasks++
		}
	}
	k.CompletionRate = Percent(k.CompletedTasks, k.TrackedTasks)
	return k
}

type KPICard struct {
	Label  string `json:"label"`
	Value  string `json:"value"`
	Change string `json:"change"`
}
