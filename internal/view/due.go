package view

import (
	"time"

	"github.com/BuzzLyutic/project-tracker/internal/clock"
)

type DueState string

const (
	DueOverdue DueState = "overdue"
	DueToday   DueState = "today"
	DueSoon    DueState = "soon"
	DueNormal  DueState = "normal"
)

// SoonWindowDays is how far ahead a due date still counts as "soon".
const SoonWindowDays = 2

// ClassifyDue rates a due date (YYYY-MM-DD) against now. Done tasks are never urgent.
func ClassifyDue(dueDate string, done bool, now time.Time) DueState {
	if done {
		return DueNormal
	}
	c := clock.Fixed(now)
	today := clock.Today(c)
	switch {
	case dueDate < today:
		return DueOverdue
	case dueDate == today:
		return DueToday
	case dueDate <= clock.DateFromOffset(c, SoonWindowDays):
		return DueSoon
	}
	return DueNormal
}

func (s DueState) Label() string {
	switch s {
	case DueOverdue:
		return "Overdue"
	case DueToday:
		return "Today"
	case DueSoon:
		return "Soon"
	}
	return ""
}
