// Package session holds interaction state that is never persisted: the active
// sort, the project scope and the two-phase confirmations for destructive actions.
package session

import (
	"errors"
	"sync"

	"github.com/BuzzLyutic/project-tracker/internal/view"
)

var ErrNothingPending = errors.New("nothing pending")

// Confirmation is a two-state machine: Idle, or Pending(target).
// Resolve and Cancel both return it to Idle.
type Confirmation struct {
	mu     sync.Mutex
	target string
}

func (c *Confirmation) Request(target string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target = target
}

func (c *Confirmation) Pending() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target, c.target != ""
}

// Resolve hands out the pending target and goes back to Idle.
func (c *Confirmation) Resolve() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.target == "" {
		return "", ErrNothingPending
	}
	target := c.target
	c.target = ""
	return target, nil
}

func (c *Confirmation) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.target = ""
}

type Action string

const (
	ActionAdvance Action = "advance"
	ActionRemove  Action = "remove"
)

type Session struct {
	mu    sync.RWMutex
	sort  view.SortConfig
	scope string

	advance Confirmation
	remove  Confirmation
}

func New() *Session {
	return &Session{
		sort:  view.DefaultSort(),
		scope: view.ScopeAll,
	}
}

func (s *Session) Sort() view.SortConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sort
}

func (s *Session) ToggleSort(key view.SortKey) view.SortConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sort = s.sort.Toggle(key)
	return s.sort
}

func (s *Session) ResetSort() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sort = view.DefaultSort()
}

func (s *Session) Scope() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scope
}

func (s *Session) SetScope(projectID string) {
	if projectID == "" {
		projectID = view.ScopeAll
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scope = projectID
}

// Confirmation returns the state machine for action, or nil for an unknown action.
func (s *Session) Confirmation(action Action) *Confirmation {
	switch action {
	case ActionAdvance:
		return &s.advance
	case ActionRemove:
		return &s.remove
	}
	return nil
}
