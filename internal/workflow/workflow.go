// Package workflow normalizes per-project status steps and moves tasks through them.
//
// A workflow is an ordered list of unique step keys with at least MinSteps
// entries. The first step is where new tasks start, the last one means "done".
package workflow

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const MinSteps = 2

var (
	invalidStepChars = regexp.MustCompile(`[^a-z0-9_-]`)
	draftSeparators  = regexp.MustCompile(`[\n,]+`)
)

// Default returns a fresh copy of the built-in workflow.
func Default() []string {
	return []string{"todo", "in_progress", "done"}
}

// NormalizeStep lowercases and trims raw, joins inner whitespace runs with a
// single underscore and drops everything outside [a-z0-9_-].
func NormalizeStep(raw string) string {
	step := strings.ToLower(strings.TrimSpace(raw))
	step = strings.Join(strings.FieldsFunc(step, unicode.IsSpace), "_")
	return invalidStepChars.ReplaceAllString(step, "")
}

// ParseDraft splits a user supplied draft on commas and newlines and returns the
// unique normalized steps in first-seen order. The result may be shorter than
// MinSteps; callers decide whether to reject it.
func ParseDraft(draft string) []string {
	return unique(draftSeparators.Split(draft, -1))
}

// Ensure repairs a stored workflow. Anything with fewer than MinSteps valid
// steps is replaced by Default.
func Ensure(steps []string) []string {
	cleaned := unique(steps)
	if len(cleaned) < MinSteps {
		return Default()
	}
	return cleaned
}

func unique(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	steps := make([]string, 0, len(raw))
	for _, r := range raw {
		step := NormalizeStep(r)
		if step == "" {
			continue
		}
		if _, ok := seen[step]; ok {
			continue
		}
		seen[step] = struct{}{}
		steps = append(steps, step)
	}
	return steps
}

// Index returns the position of status in the workflow or -1.
func Index(status string, steps []string) int {
	for i, s := range Ensure(steps) {
		if s == status {
			return i
		}
	}
	return -1
}

func Contains(steps []string, status string) bool {
	for _, s := range steps {
		if s == status {
			return true
		}
	}
	return false
}

func First(steps []string) string {
	return Ensure(steps)[0]
}

func Last(steps []string) string {
	safe := Ensure(steps)
	return safe[len(safe)-1]
}

func IsDone(status string, steps []string) bool {
	return status == Last(steps)
}

// Next returns the step after current. Unknown statuses restart at the first
// step; the terminal step stays where it is.
func Next(current string, steps []string) string {
	safe := Ensure(steps)
	idx := Index(current, safe)
	switch {
	case idx == -1:
		return safe[0]
	case idx >= len(safe)-1:
		return current
	default:
		return safe[idx+1]
	}
}

// Label turns a step key into display text: "in_progress" -> "In progress".
func Label(step string) string {
	text := strings.TrimSpace(strings.ReplaceAll(step, "_", " "))
	if text == "" {
		return "unknown"
	}
	r, size := utf8.DecodeRuneInString(text)
	return string(unicode.ToUpper(r)) + text[size:]
}

func Describe(steps []string) string {
	labels := make([]string, 0, len(steps))
	for _, s := range Ensure(steps) {
		labels = append(labels, Label(s))
	}
	return strings.Join(labels, " -> ")
}
