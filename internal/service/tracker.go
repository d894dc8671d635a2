package service

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/project-tracker/internal/clock"
	"github.com/BuzzLyutic/project-tracker/internal/model"
	"github.com/BuzzLyutic/project-tracker/internal/seed"
	"github.com/BuzzLyutic/project-tracker/internal/view"
	"github.com/BuzzLyutic/project-tracker/internal/workflow"
)

// DefaultDueOffsetDays is used when a task is created without a due date.
const DefaultDueOffsetDays = 2

// Persister receives every new snapshot. Calls must not block.
type Persister interface {
	SaveSnapshot(snap model.Snapshot)
	SaveCurrentUser(user string)
}

type Options struct {
	Clock  clock.Clock
	NewID  clock.IDFunc
	Roster []string
	Seed   func() model.Snapshot
}

// Tracker owns the current snapshot. Every intent reads it, builds a new one
// through the model mutators and swaps it in under the lock; nothing is
// edited in place, so readers can use what they got without locking.
type Tracker struct {
	mu          sync.RWMutex
	snap        model.Snapshot
	currentUser string

	persister Persister
	logger    *zap.Logger
	clock     clock.Clock
	newID     clock.IDFunc
	roster    []string
	seed      func() model.Snapshot
}

func NewTracker(initial model.Snapshot, currentUser string, persister Persister, logger *zap.Logger, opts Options) *Tracker {
	if opts.Clock == nil {
		opts.Clock = clock.System
	}
	if opts.NewID == nil {
		opts.NewID = clock.UUID
	}
	if len(opts.Roster) == 0 {
		opts.Roster = seed.TeamMembers
	}
	if opts.Seed == nil {
		c, ids := opts.Clock, opts.NewID
		opts.Seed = func() model.Snapshot { return seed.Snapshot(c, ids) }
	}
	return &Tracker{
		snap:        initial.Clone(),
		currentUser: currentUser,
		persister:   persister,
		logger:      logger,
		clock:       opts.Clock,
		newID:       opts.NewID,
		roster:      slices.Clone(opts.Roster),
		seed:        opts.Seed,
	}
}

// Snapshot returns a private copy of the current state.
func (t *Tracker) Snapshot() model.Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.snap.Clone()
}

func (t *Tracker) Now() time.Time {
	return t.clock.Now()
}

func (t *Tracker) TeamMembers() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return view.TeamMembers(t.roster, t.snap)
}

// CurrentUser is the stored selection if it is still on the team, else the first member.
func (t *Tracker) CurrentUser() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.resolveUser()
}

func (t *Tracker) resolveUser() string {
	return view.ResolveCurrentUser(t.currentUser, view.TeamMembers(t.roster, t.snap), t.roster)
}

func (t *Tracker) SetCurrentUser(user string) error {
	user = strings.TrimSpace(user)
	if user == "" {
		return invalid("user", "Select a team member.")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if !slices.Contains(view.TeamMembers(t.roster, t.snap), user) {
		return invalid("user", fmt.Sprintf("%s is not on the team.", user))
	}
	t.currentUser = user
	t.persister.SaveCurrentUser(user)
	t.logger.Info("current user changed", zap.String("user", user))
	return nil
}

// Dashboard computes all derived views from a private copy of the snapshot,
// so nothing in the result aliases tracker state.
func (t *Tracker) Dashboard(scope string, sort view.SortConfig) view.Dashboard {
	t.mu.RLock()
	snap, user := t.snap.Clone(), t.resolveUser()
	t.mu.RUnlock()

	return view.Build(snap, view.Params{
		Scope:       scope,
		Sort:        sort,
		Now:         t.clock.Now(),
		CurrentUser: user,
		Roster:      t.roster,
	})
}

// commit swaps in next and hands it to the persister. Caller holds t.mu.
func (t *Tracker) commit(next model.Snapshot) {
	t.snap = next
	t.persister.SaveSnapshot(next)
}

type ProjectInput struct {
	Name   string              `json:"name"`
	Owner  string              `json:"owner"`
	Status model.ProjectStatus `json:"status"`
}

func (t *Tracker) CreateProject(in ProjectInput) (model.Project, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Project{}, invalid("name", "Project name is required.")
	}
	status := in.Status
	if status == "" {
		status = model.ProjectActive
	}
	if !status.Valid() {
		return model.Project{}, invalid("status", fmt.Sprintf("Unknown project status %q.", in.Status))
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	owner := strings.TrimSpace(in.Owner)
	if owner == "" {
		owner = t.resolveUser()
	}
	p := model.Project{
		ID:        t.newID(),
		Name:      name,
		Owner:     owner,
		Status:    status,
		Workflow:  workflow.Default(),
		CreatedAt: clock.Timestamp(t.clock),
	}
	t.commit(t.snap.AddProject(p))

	t.logger.Info("project created", zap.String("project_id", p.ID), zap.String("name", p.Name))
	return p, nil
}

type TaskInput struct {
	Title     string         `json:"title"`
	Assignee  string         `json:"assignee"`
	DueDate   string         `json:"dueDate"`
	Priority  model.Priority `json:"priority"`
	ProjectID string         `json:"projectId"`
}

func (t *Tracker) CreateTask(in TaskInput) (model.Task, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return model.Task{}, invalid("title", "Task title is required.")
	}
	priority := in.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	if !priority.Valid() {
		return model.Task{}, invalid("priority", fmt.Sprintf("Unknown priority %q.", in.Priority))
	}
	due := strings.TrimSpace(in.DueDate)
	if due != "" {
		if _, err := time.Parse(clock.DateLayout, due); err != nil {
			return model.Task{}, invalid("dueDate", "Due date must look like YYYY-MM-DD.")
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	project, ok := t.snap.Project(in.ProjectID)
	if !ok {
		return model.Task{}, invalid("projectId", "Select an existing project.")
	}
	if due == "" {
		due = clock.DateFromOffset(t.clock, DefaultDueOffsetDays)
	}
	assignee := strings.TrimSpace(in.Assignee)
	if assignee == "" {
		assignee = t.resolveUser()
	}

	task := model.Task{
		ID:        t.newID(),
		ProjectID: project.ID,
		Title:     title,
		Assignee:  assignee,
		DueDate:   due,
		Priority:  priority,
		Status:    workflow.First(project.Workflow),
		CreatedAt: clock.Timestamp(t.clock),
	}
	t.commit(t.snap.AddTask(task))

	t.logger.Info("task created",
		zap.String("task_id", task.ID),
		zap.String("project_id", task.ProjectID),
	)
	return task, nil
}

// ArchiveProject marks the project completed; unknown ids are ignored.
func (t *Tracker) ArchiveProject(id string) (model.Project, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.snap.Project(id); !ok {
		return model.Project{}, false
	}
	next := t.snap.ArchiveProject(id)
	t.commit(next)

	p, _ := next.Project(id)
	t.logger.Info("project archived", zap.String("project_id", id))
	return p, true
}

type AdvancePreview struct {
	TaskID    string `json:"taskId"`
	Title     string `json:"title"`
	From      string `json:"from"`
	To        string `json:"to"`
	FromLabel string `json:"fromLabel"`
	ToLabel   string `json:"toLabel"`
}

// PreviewAdvance describes what AdvanceTask would do, for the confirmation step.
func (t *Tracker) PreviewAdvance(taskID string) (AdvancePreview, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	task, ok := t.snap.Task(taskID)
	if !ok {
		return AdvancePreview{}, ErrNotFound
	}
	project, ok := t.snap.Project(task.ProjectID)
	if !ok {
		return AdvancePreview{}, ErrNotFound
	}
	next := workflow.Next(task.Status, project.Workflow)
	if next == task.Status {
		return AdvancePreview{}, ErrFinalStep
	}
	return AdvancePreview{
		TaskID:    task.ID,
		Title:     task.Title,
		From:      task.Status,
		To:        next,
		FromLabel: workflow.Label(task.Status),
		ToLabel:   workflow.Label(next),
	}, nil
}

// AdvanceTask moves the task one workflow step forward. At the last step it is a no-op.
func (t *Tracker) AdvanceTask(taskID string) (model.Task, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	before, ok := t.snap.Task(taskID)
	if !ok {
		return model.Task{}, false
	}
	next := t.snap.AdvanceTask(taskID)
	after, _ := next.Task(taskID)
	if after.Status == before.Status {
		return after, true
	}
	t.commit(next)

	t.logger.Info("task advanced",
		zap.String("task_id", taskID),
		zap.String("from", before.Status),
		zap.String("to", after.Status),
	)
	return after, true
}

func (t *Tracker) RemoveTask(taskID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.snap.Task(taskID); !ok {
		return false
	}
	t.commit(t.snap.RemoveTask(taskID))

	t.logger.Info("task removed", zap.String("task_id", taskID))
	return true
}

// SaveWorkflow parses draft and installs it on the project. Drafts with fewer
// than two usable steps are rejected without touching the state.
func (t *Tracker) SaveWorkflow(projectID, draft string) (model.Project, error) {
	steps := workflow.ParseDraft(draft)
	if len(steps) < workflow.MinSteps {
		return model.Project{}, invalid("workflow", "Workflow needs at least 2 steps.")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.snap.Project(projectID); !ok {
		return model.Project{}, ErrNotFound
	}
	next := t.snap.ReplaceWorkflow(projectID, steps)
	t.commit(next)

	p, _ := next.Project(projectID)
	t.logger.Info("workflow saved",
		zap.String("project_id", projectID),
		zap.Strings("steps", steps),
	)
	return p, nil
}

// ResetDemoData throws the current state away and reseeds.
func (t *Tracker) ResetDemoData() model.Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.commit(t.seed())
	t.logger.Info("demo data reset")
	return t.snap.Clone()
}
