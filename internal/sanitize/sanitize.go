// Package sanitize turns untrusted stored data into a well-formed snapshot.
//
// Invalid projects and tasks are dropped one by one; only a value whose top
// level isn't {projects: [...], tasks: [...]} is rejected as a whole. Tasks
// pointing at a project that did not survive are dropped too.
package sanitize

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/BuzzLyutic/project-tracker/internal/model"
	"github.com/BuzzLyutic/project-tracker/internal/workflow"
)

var ErrInvalidShape = errors.New("invalid snapshot shape")

// Decode parses raw JSON and sanitizes the result.
func Decode(data []byte) (model.Snapshot, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return model.Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	snap, ok := Sanitize(raw)
	if !ok {
		return model.Snapshot{}, ErrInvalidShape
	}
	return snap, nil
}

// Sanitize validates and repairs raw, as produced by json.Unmarshal into any.
// It never panics; ok is false when the top-level shape is unusable.
func Sanitize(raw any) (snap model.Snapshot, ok bool) {
	root, isObj := raw.(map[string]any)
	if !isObj {
		return model.Snapshot{}, false
	}
	rawProjects, okP := root["projects"].([]any)
	rawTasks, okT := root["tasks"].([]any)
	if !okP || !okT {
		return model.Snapshot{}, false
	}

	projects := make([]model.Project, 0, len(rawProjects))
	projectIDs := make(map[string]struct{}, len(rawProjects))
	for _, rp := range rawProjects {
		p, valid := project(rp)
		if !valid {
			continue
		}
		projects = append(projects, p)
		projectIDs[p.ID] = struct{}{}
	}

	tasks := make([]model.Task, 0, len(rawTasks))
	for _, rt := range rawTasks {
		t, valid := task(rt)
		if !valid {
			continue
		}
		if _, exists := projectIDs[t.ProjectID]; !exists {
			continue
		}
		tasks = append(tasks, t)
	}

	return model.Snapshot{Projects: projects, Tasks: tasks}, true
}

func project(raw any) (model.Project, bool) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return model.Project{}, false
	}
	fields, ok := stringFields(obj, "id", "name", "owner", "createdAt")
	if !ok {
		return model.Project{}, false
	}
	status, _ := obj["status"].(string)
	if !model.ProjectStatus(status).Valid() {
		return model.Project{}, false
	}
	return model.Project{
		ID:        fields[0],
		Name:      fields[1],
		Owner:     fields[2],
		Status:    model.ProjectStatus(status),
		Workflow:  workflow.Ensure(stringList(obj["workflow"])),
		CreatedAt: fields[3],
	}, true
}

func task(raw any) (model.Task, bool) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return model.Task{}, false
	}
	fields, ok := stringFields(obj, "id", "projectId", "title", "assignee", "dueDate", "createdAt", "status")
	if !ok {
		return model.Task{}, false
	}
	priority, _ := obj["priority"].(string)
	if !model.Priority(priority).Valid() {
		return model.Task{}, false
	}
	status := workflow.NormalizeStep(fields[6])
	if status == "" {
		status = workflow.Default()[0]
	}
	return model.Task{
		ID:        fields[0],
		ProjectID: fields[1],
		Title:     fields[2],
		Assignee:  fields[3],
		DueDate:   fields[4],
		Priority:  model.Priority(priority),
		Status:    status,
		CreatedAt: fields[5],
	}, true
}

// stringFields returns the values of keys, all of which must be present and string typed.
func stringFields(obj map[string]any, keys ...string) ([]string, bool) {
	out := make([]string, len(keys))
	for i, k := range keys {
		v, ok := obj[k].(string)
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

// stringList keeps the string elements of a JSON array; anything else yields nil.
func stringList(raw any) []string {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
