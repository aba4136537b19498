// Package sync keeps the in-memory query cache, the local store, and the
// remote source of truth consistent under optimistic mutations.
package sync

import (
	"context"
	stdsync "sync"

	"github.com/avolkov/sadhana-tracker/internal/domain"
)

// Source is the authoritative read used for reconciliation refetches.
type Source interface {
	GetSleepRecords(ctx context.Context) ([]domain.DailyEntry, error)
}

// Coordinator owns the transient shadow copy of the entry collection and
// makes every mutation appear instantaneous while preserving eventual
// correctness. The cache is shared mutable state; the discipline is
// last-writer-wins until the next refetch lands.
type Coordinator struct {
	mu            stdsync.Mutex
	entries       []domain.DailyEntry
	cancelRefetch context.CancelFunc

	source      Source
	onReconcile func(entries []domain.DailyEntry)
	refetches   stdsync.WaitGroup
}

func NewCoordinator(source Source) *Coordinator {
	return &Coordinator{source: source}
}

// OnReconcile registers a hook invoked with each authoritative collection
// a refetch installs; the client mirrors it into the local store.
func (c *Coordinator) OnReconcile(fn func(entries []domain.DailyEntry)) {
	c.onReconcile = fn
}

// Entries returns a copy of the current cached collection.
func (c *Coordinator) Entries() []domain.DailyEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneEntries(c.entries)
}

// Prime synchronously loads the cache from the source.
func (c *Coordinator) Prime(ctx context.Context) error {
	entries, err := c.source.GetSleepRecords(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.entries = entries
	c.mu.Unlock()
	if c.onReconcile != nil {
		c.onReconcile(cloneEntries(entries))
	}
	return nil
}

// Mutate runs the optimistic protocol for one mutation:
//
//  1. cancel any in-flight refetch so a stale read cannot overwrite the
//     optimistic value,
//  2. snapshot the cached collection (the rollback point),
//  3. install the mutation's expected effect,
//  4. issue the real write,
//  5. on error restore the snapshot exactly,
//  6. regardless of outcome, refetch the authoritative collection.
//
// The write error, if any, is returned for UI-level reporting; the cache
// has already reverted by then.
func (c *Coordinator) Mutate(ctx context.Context, m Mutation, write func(ctx context.Context) error) error {
	c.mu.Lock()
	if c.cancelRefetch != nil {
		c.cancelRefetch()
		c.cancelRefetch = nil
	}
	snapshot := cloneEntries(c.entries)
	c.entries = m.Apply(snapshot)
	c.mu.Unlock()

	writeErr := write(ctx)
	if writeErr != nil {
		c.mu.Lock()
		c.entries = snapshot
		c.mu.Unlock()
	}

	c.refetch()
	return writeErr
}

// Refetch reconciles the cache with the source in the background.
func (c *Coordinator) Refetch() {
	c.refetch()
}

// Wait blocks until all background refetches have settled.
func (c *Coordinator) Wait() {
	c.refetches.Wait()
}

func (c *Coordinator) refetch() {
	ctx, cancel := context.WithCancel(context.Background())

	c.mu.Lock()
	if c.cancelRefetch != nil {
		c.cancelRefetch()
	}
	c.cancelRefetch = cancel
	c.mu.Unlock()

	c.refetches.Add(1)
	go func() {
		defer c.refetches.Done()
		entries, err := c.source.GetSleepRecords(ctx)
		if err != nil {
			return
		}

		c.mu.Lock()
		// A mutation may have cancelled this refetch after the response
		// arrived; the optimistic value wins in that case.
		if ctx.Err() != nil {
			c.mu.Unlock()
			return
		}
		c.entries = entries
		if c.cancelRefetch != nil {
			c.cancelRefetch = nil
		}
		c.mu.Unlock()

		if c.onReconcile != nil {
			c.onReconcile(cloneEntries(entries))
		}
	}()
}
