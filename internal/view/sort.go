package view

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/BuzzLyutic/project-tracker/internal/workflow"
)

type SortKey string

const (
	SortTask     SortKey = "task"
	SortProject  SortKey = "project"
	SortDue      SortKey = "due"
	SortPriority SortKey = "priority"
	SortStatus   SortKey = "status"
)

func (k SortKey) Valid() bool {
	switch k {
	case SortTask, SortProject, SortDue, SortPriority, SortStatus:
		return true
	}
	return false
}

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

type SortConfig struct {
	Key       SortKey   `json:"key"`
	Direction Direction `json:"direction"`
}

func DefaultSort() SortConfig {
	return SortConfig{Key: SortDue, Direction: Asc}
}

// Toggle flips the direction when key is already active, otherwise switches to key ascending.
func (c SortConfig) Toggle(key SortKey) SortConfig {
	if c.Key == key {
		if c.Direction == Asc {
			return SortConfig{Key: key, Direction: Desc}
		}
		return SortConfig{Key: key, Direction: Asc}
	}
	return SortConfig{Key: key, Direction: Asc}
}

// Indicator is "^" or "v" for the active key and "" otherwise.
func (c SortConfig) Indicator(key SortKey) string {
	if c.Key != key {
		return ""
	}
	if c.Direction == Desc {
		return "v"
	}
	return "^"
}

func ParseSortKey(raw string) (SortKey, error) {
	k := SortKey(strings.ToLower(strings.TrimSpace(raw)))
	if !k.Valid() {
		return "", fmt.Errorf("unknown sort key %q", raw)
	}
	return k, nil
}

const unrankedStatus = math.MaxInt

// StatusRank is the index of the task's status in its project's workflow, or
// unrankedStatus when the status isn't part of it.
func StatusRank(it Item) int {
	idx := workflow.Index(it.Task.Status, it.Project.Workflow)
	if idx == -1 {
		return unrankedStatus
	}
	return idx
}

// Sort returns a sorted copy of items. The direction only applies to the
// primary key. Statuses missing from their workflow always go last, in both
// directions. Ties fall back to ascending title, then id.
func Sort(items []Item, cfg SortConfig) []Item {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b Item) int {
		result := comparePrimary(a, b, cfg)
		if result == 0 {
			result = cmp.Compare(strings.ToLower(a.Task.Title), strings.ToLower(b.Task.Title))
		}
		if result == 0 {
			result = cmp.Compare(a.Task.ID, b.Task.ID)
		}
		return result
	})
	return out
}

func comparePrimary(a, b Item, cfg SortConfig) int {
	sign := 1
	if cfg.Direction == Desc {
		sign = -1
	}

	switch cfg.Key {
	case SortTask:
		return sign * cmp.Compare(strings.ToLower(a.Task.Title), strings.ToLower(b.Task.Title))
	case SortProject:
		return sign * cmp.Compare(strings.ToLower(a.Project.Name), strings.ToLower(b.Project.Name))
	case SortDue:
		return sign * cmp.Compare(a.Task.DueDate, b.Task.DueDate)
	case SortPriority:
		return sign * cmp.Compare(a.Task.Priority.Rank(), b.Task.Priority.Rank())
	case SortStatus:
		ra, rb := StatusRank(a), StatusRank(b)
		switch {
		case ra == unrankedStatus && rb == unrankedStatus:
			return 0
		case ra == unrankedStatus:
			return 1
		case rb == unrankedStatus:
			return -1
		}
		return sign * cmp.Compare(ra, rb)
	}
	return 0
}
