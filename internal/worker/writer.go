package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/project-tracker/internal/model"
)

// Sink performs the actual writes.
type Sink interface {
	Save(ctx context.Context, snap model.Snapshot) error
	SaveCurrentUser(ctx context.Context, user string) error
}

// Writer persists snapshots behind the caller's back. Enqueueing never blocks:
// only the latest pending snapshot (and current user) is kept, older ones are
// superseded before they hit the store.
type Writer struct {
	sink    Sink
	logger  *zap.Logger
	timeout time.Duration

	snapshots chan model.Snapshot
	users     chan string
	wg        sync.WaitGroup
	stop      chan struct{}
	stopOnce  sync.Once
}

func NewWriter(sink Sink, logger *zap.Logger, timeout time.Duration) *Writer {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Writer{
		sink:      sink,
		logger:    logger,
		timeout:   timeout,
		snapshots: make(chan model.Snapshot, 1),
		users:     make(chan string, 1),
		stop:      make(chan struct{}),
	}
}

func (w *Writer) Start(ctx context.Context) {
	w.logger.Info("Starting persistence writer")

	w.wg.Add(1)
	go w.run(ctx)
}

// Stop flushes whatever is still pending and waits for the writer to exit.
func (w *Writer) Stop() {
	w.stopOnce.Do(func() {
		w.logger.Info("Stopping persistence writer...")
		close(w.stop)
		w.wg.Wait()
		w.logger.Info("Persistence writer stopped")
	})
}

func (w *Writer) SaveSnapshot(snap model.Snapshot) {
	for {
		select {
		case w.snapshots <- snap:
			return
		default:
		}
		select {
		case <-w.snapshots: // вытесняем устаревший снимок
		default:
		}
	}
}

func (w *Writer) SaveCurrentUser(user string) {
	for {
		select {
		case w.users <- user:
			return
		default:
		}
		select {
		case <-w.users:
		default:
		}
	}
}

func (w *Writer) run(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stop:
			w.flush()
			return
		case <-ctx.Done():
			w.flush()
			return
		case snap := <-w.snapshots:
			w.writeSnapshot(snap)
		case user := <-w.users:
			w.writeUser(user)
		}
	}
}

func (w *Writer) flush() {
	for {
		select {
		case snap := <-w.snapshots:
			w.writeSnapshot(snap)
		case user := <-w.users:
			w.writeUser(user)
		default:
			return
		}
	}
}

// Writes get their own context so a flush during shutdown isn't cancelled with the parent.
func (w *Writer) writeSnapshot(snap model.Snapshot) {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	if err := w.sink.Save(ctx, snap); err != nil {
		w.logger.Warn("snapshot write failed", zap.Error(err))
		return
	}
	w.logger.Debug("snapshot written",
		zap.Int("projects", len(snap.Projects)),
		zap.Int("tasks", len(snap.Tasks)),
	)
}

func (w *Writer) writeUser(user string) {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	if err := w.sink.SaveCurrentUser(ctx, user); err != nil {
		w.logger.Warn("current user write failed", zap.String("user", user), zap.Error(err))
	}
}
