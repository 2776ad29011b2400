package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
)

// Change is one pending write. It runs inside the flush transaction and
// reports how many rows it affected.
type Change func(ctx context.Context, tx pgx.Tx) (int64, error)

// Session is a unit of work: writes are queued with Add and become durable
// together on Flush. Reads do not go through the session.
//
// The mutex only protects the pending list itself. Nothing here serializes
// callers against each other.
type Session struct {
	store *Store

	mu      sync.Mutex
	pending []pendingChange
}

type pendingChange struct {
	run  Change
	undo func()
}

// Add queues a change for the next flush. Changes run in the order added, so
// a change may read a key assigned by an earlier INSERT in the same flush.
func (u *Session) Add(change Change) {
	u.AddUndoable(change, nil)
}

// AddUndoable queues a change together with undo, which is called if the
// flush carrying the change does not commit. Use it for changes that write
// into caller memory, such as a generated key.
func (u *Session) AddUndoable(change Change, undo func()) {
	u.mu.Lock()
	u.pending = append(u.pending, pendingChange{run: change, undo: undo})
	u.mu.Unlock()
}

// Pending reports how many changes are waiting for the next flush.
func (u *Session) Pending() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.pending)
}

// Flush commits every pending change in a single transaction and returns the
// total number of affected rows. On error nothing is committed and the undo
// hooks of every change run in reverse order. The pending list is cleared
// either way.
func (u *Session) Flush(ctx context.Context) (int64, error) {
	u.mu.Lock()
	changes := u.pending
	u.pending = nil
	u.mu.Unlock()

	if len(changes) == 0 {
		return 0, nil
	}

	var affected int64
	err := pgx.BeginFunc(ctx, u.store.pool, func(tx pgx.Tx) error {
		for i, change := range changes {
			n, err := change.run(ctx, tx)
			if err != nil {
				return fmt.Errorf("change %d: %w", i, err)
			}
			affected += n
		}
		return nil
	})
	if err != nil {
		for i := len(changes) - 1; i >= 0; i-- {
			if changes[i].undo != nil {
				changes[i].undo()
			}
		}
		return 0, fmt.Errorf("flush: %w", err)
	}
	return affected, nil
}

// Save flushes and reports whether at least one row was affected. Errors are
// logged and reported as false.
func (u *Session) Save(ctx context.Context) bool {
	start := time.Now()
	affected, err := u.Flush(ctx)
	switch {
	case err != nil:
		u.store.metrics.ObserveFlush(start, "failed")
		u.store.logger.Error().Err(err).Msg("save failed")
		return false
	case affected == 0:
		u.store.metrics.ObserveFlush(start, "noop")
		return false
	default:
		u.store.metrics.ObserveFlush(start, "committed")
		return true
	}
}
