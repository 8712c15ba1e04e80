package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/alexanderramin/siteplan/internal/db"
	"github.com/alexanderramin/siteplan/internal/notify"
	"github.com/alexanderramin/siteplan/internal/repository"
	"github.com/alexanderramin/siteplan/internal/store"
)

// Env carries the collaborators every use case needs.
type Env struct {
	UoW      db.UnitOfWork
	Notifier notify.Notifier
	Logger   *slog.Logger
	// Now defaults to the UTC wall clock.
	Now func() time.Time
}

// workspace rebuilds the task store from SQLite for each use case and writes
// it back in the same transaction.
type workspace struct {
	uow      db.UnitOfWork
	notifier notify.Notifier
	logger   *slog.Logger
	now      func() time.Time
	observer UseCaseObserver
}

func newWorkspace(env Env, observers []UseCaseObserver) workspace {
	w := workspace{
		uow:      env.UoW,
		notifier: notify.OrNoop(env.Notifier),
		logger:   env.Logger,
		now:      env.Now,
		observer: useCaseObserverOrNoop(observers),
	}
	if w.logger == nil {
		w.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if w.now == nil {
		w.now = func() time.Time { return time.Now().UTC() }
	}
	return w
}

func (w workspace) load(ctx context.Context, tx db.DBTX, events notify.Notifier) (*store.Store, error) {
	tasks, err := repository.NewSQLiteTaskRepo(tx).ListTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading tasks: %w", err)
	}
	seqs := repository.NewSQLiteSequenceRepo(tx)
	taskSeq, err := seqs.Get(ctx, db.SeqTask)
	if err != nil {
		return nil, err
	}
	subtaskSeq, err := seqs.Get(ctx, db.SeqSubtask)
	if err != nil {
		return nil, err
	}

	st := store.New(
		store.WithLogger(w.logger),
		store.WithNotifier(events),
		store.WithClock(w.now),
	)
	st.Restore(store.Snapshot{Tasks: tasks, TaskSeq: taskSeq, SubtaskSeq: subtaskSeq})
	return st, nil
}

func (w workspace) save(ctx context.Context, tx db.DBTX, st *store.Store) error {
	snap := st.Snapshot()
	if err := repository.NewSQLiteTaskRepo(tx).ReplaceAll(ctx, snap.Tasks); err != nil {
		return fmt.Errorf("saving tasks: %w", err)
	}
	seqs := repository.NewSQLiteSequenceRepo(tx)
	if err := seqs.Advance(ctx, db.SeqTask, snap.TaskSeq); err != nil {
		return err
	}
	return seqs.Advance(ctx, db.SeqSubtask, snap.SubtaskSeq)
}

// mutate runs fn against a freshly loaded store and persists the result.
// Notifications raised by fn are delivered only once the transaction has
// committed; on failure they are dropped.
func (w workspace) mutate(ctx context.Context, fn func(*store.Store) error) error {
	var events notify.Buffer
	err := w.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		st, err := w.load(ctx, tx, &events)
		if err != nil {
			return err
		}
		if err := fn(st); err != nil {
			return err
		}
		return w.save(ctx, tx, st)
	})
	if err != nil {
		events.Discard()
		return err
	}
	events.Flush(w.notifier)
	return nil
}

// read runs fn against a freshly loaded store without writing anything back.
func (w workspace) read(ctx context.Context, fn func(*store.Store) error) error {
	return w.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		st, err := w.load(ctx, tx, notify.Noop{})
		if err != nil {
			return err
		}
		return fn(st)
	})
}
