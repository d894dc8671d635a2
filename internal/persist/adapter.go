// Package persist loads and saves the tracker state through a repo.Store.
//
// Loading never fails: a missing, unreadable or malformed record yields the
// seed snapshot. Save errors are returned for the caller to log; they never
// invalidate the in-memory state.
package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/project-tracker/internal/clock"
	"github.com/BuzzLyutic/project-tracker/internal/model"
	"github.com/BuzzLyutic/project-tracker/internal/repo"
	"github.com/BuzzLyutic/project-tracker/internal/sanitize"
	"github.com/BuzzLyutic/project-tracker/internal/seed"
)

const (
	DefaultSnapshotKey    = "saas-project-management-demo.v2"
	DefaultCurrentUserKey = "saas-project-management-demo.current-user"
)

type Options struct {
	SnapshotKey    string
	CurrentUserKey string
	Team           []string
	Clock          clock.Clock
	NewID          clock.IDFunc
}

type Adapter struct {
	store  repo.Store
	logger *zap.Logger
	opts   Options
}

func NewAdapter(store repo.Store, logger *zap.Logger, opts Options) *Adapter {
	if opts.SnapshotKey == "" {
		opts.SnapshotKey = DefaultSnapshotKey
	}
	if opts.CurrentUserKey == "" {
		opts.CurrentUserKey = DefaultCurrentUserKey
	}
	if len(opts.Team) == 0 {
		opts.Team = seed.TeamMembers
	}
	if opts.Clock == nil {
		opts.Clock = clock.System
	}
	if opts.NewID == nil {
		opts.NewID = clock.UUID
	}
	return &Adapter{store: store, logger: logger, opts: opts}
}

// Seed builds a fresh seed snapshot.
func (a *Adapter) Seed() model.Snapshot {
	return seed.Snapshot(a.opts.Clock, a.opts.NewID)
}

// Load returns the stored snapshot, or the seed snapshot if there is none usable.
func (a *Adapter) Load(ctx context.Context) model.Snapshot {
	snap, _ := a.load(ctx)
	return snap
}

// load also reports whether the store should be overwritten: true when the
// record is missing or invalid, false when it was read fine or the store failed.
func (a *Adapter) load(ctx context.Context) (model.Snapshot, bool) {
	data, err := a.store.Get(ctx, a.opts.SnapshotKey)
	if err != nil {
		if !errors.Is(err, repo.ErrorNotFound) {
			a.logger.Warn("failed to read stored snapshot, seeding", zap.Error(err))
			return a.Seed(), false
		}
		a.logger.Info("no stored snapshot, seeding")
		return a.Seed(), true
	}
	if len(data) == 0 {
		return a.Seed(), true
	}

	snap, err := sanitize.Decode(data)
	if err != nil {
		a.logger.Warn("stored snapshot is invalid, seeding", zap.Error(err))
		return a.Seed(), true
	}

	a.logger.Info("snapshot loaded",
		zap.Int("projects", len(snap.Projects)),
		zap.Int("tasks", len(snap.Tasks)),
	)
	return snap, false
}

// Bootstrap loads the startup state and writes back whatever had to be
// seeded, so seed ids stay stable across restarts and a corrupt record is
// replaced. A store that failed to read is left alone.
func (a *Adapter) Bootstrap(ctx context.Context) (model.Snapshot, string) {
	snap, seeded := a.load(ctx)
	if seeded {
		if err := a.Save(ctx, snap); err != nil {
			a.logger.Warn("failed to store seed snapshot", zap.Error(err))
		}
	}

	user, fallback := a.loadCurrentUser(ctx)
	if fallback {
		if err := a.SaveCurrentUser(ctx, user); err != nil {
			a.logger.Warn("failed to store current user", zap.Error(err))
		}
	}
	return snap, user
}

func (a *Adapter) Save(ctx context.Context, snap model.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := a.store.Put(ctx, a.opts.SnapshotKey, data); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// LoadCurrentUser returns the stored selection or the first configured member.
func (a *Adapter) LoadCurrentUser(ctx context.Context) string {
	user, _ := a.loadCurrentUser(ctx)
	return user
}

func (a *Adapter) loadCurrentUser(ctx context.Context) (string, bool) {
	data, err := a.store.Get(ctx, a.opts.CurrentUserKey)
	if err != nil {
		if !errors.Is(err, repo.ErrorNotFound) {
			a.logger.Warn("failed to read current user", zap.Error(err))
			return a.opts.Team[0], false
		}
		return a.opts.Team[0], true
	}
	user := strings.TrimSpace(string(data))
	if user == "" {
		return a.opts.Team[0], true
	}
	return user, false
}

func (a *Adapter) SaveCurrentUser(ctx context.Context, user string) error {
	if err := a.store.Put(ctx, a.opts.CurrentUserKey, []byte(user)); err != nil {
		return fmt.Errorf("write current user: %w", err)
	}
	return nil
}
