// Package pool provides a bounded pool of reusable backend-storage handles.
//
// The pool opens a fixed number of handles up front and hands them out to
// concurrent callers. Acquire blocks for at most the configured release
// timeout when the pool is empty; Release returns a handle for reuse. The
// pool never exceeds its capacity and never hands the same handle to two
// callers at once.
package pool

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gorm.io/gorm"
)

var (
	// ErrPoolExhausted is returned when no handle becomes available within
	// the release timeout. The caller may retry the whole operation later.
	ErrPoolExhausted = errors.New("pool exhausted: no handle released in time")
	// ErrPoolClosed is returned by Acquire after Shutdown.
	ErrPoolClosed = errors.New("pool closed")
	// ErrInvalidHandle is returned by Release for a nil or foreign handle.
	ErrInvalidHandle = errors.New("invalid pool handle")
)

// OpenFunc opens one backend-storage handle. The pool calls it once per
// handle at initialization and again on Reload.
type OpenFunc func() (*gorm.DB, error)

// Handle is a reusable backend-storage connection managed by the pool.
type Handle struct {
	db *gorm.DB
}

// DB exposes the underlying storage session.
func (h *Handle) DB() *gorm.DB { return h.db }

func (h *Handle) close() error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Pool is a bounded blocking pool of storage handles.
type Pool struct {
	mu      sync.Mutex
	handles chan *Handle
	owned   map[*Handle]struct{}
	open    OpenFunc
	timeout time.Duration
	closed  bool
	logger  *slog.Logger
}

// New opens size handles via open and returns the pool. Any open failure is
// fatal: already-opened handles are closed and the error is returned.
func New(open OpenFunc, size int, releaseTimeout time.Duration, logger *slog.Logger) (*Pool, error) {
	if size <= 0 {
		return nil, fmt.Errorf("pool size must be positive, got %d", size)
	}
	p := &Pool{
		open:    open,
		timeout: releaseTimeout,
		logger:  logger.With("component", "pool"),
	}
	if err := p.init(size); err != nil {
		return nil, err
	}
	p.logger.Info("pool initialized", "size", size, "release_timeout", releaseTimeout)
	return p, nil
}

func (p *Pool) init(size int) error {
	handles := make(chan *Handle, size)
	owned := make(map[*Handle]struct{}, size)
	for i := 0; i < size; i++ {
		db, err := p.open()
		if err != nil {
			for h := range owned {
				_ = h.close() //nolint:errcheck
			}
			return fmt.Errorf("open handle %d of %d: %w", i+1, size, err)
		}
		h := &Handle{db: db}
		owned[h] = struct{}{}
		handles <- h
	}
	p.handles = handles
	p.owned = owned
	p.closed = false
	return nil
}

// Acquire returns a free handle. If none is available it blocks until a
// concurrent Release, the release timeout, or ctx cancellation — whichever
// comes first. Exactly one wait attempt is made per call.
func (p *Pool) Acquire(ctx context.Context) (*Handle, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	handles := p.handles
	timeout := p.timeout
	p.mu.Unlock()

	select {
	case h, ok := <-handles:
		if !ok {
			return nil, ErrPoolClosed
		}
		return h, nil
	default:
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case h, ok := <-handles:
		if !ok {
			return nil, ErrPoolClosed
		}
		return h, nil
	case <-timer.C:
		return nil, ErrPoolExhausted
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Release returns a handle to the pool. A nil handle or one not owned by
// this pool fails with ErrInvalidHandle. Double-release is not detected.
// After Shutdown the handle is closed instead of recycled.
func (p *Pool) Release(h *Handle) error {
	if h == nil {
		return ErrInvalidHandle
	}
	p.mu.Lock()
	if _, ok := p.owned[h]; !ok {
		p.mu.Unlock()
		return ErrInvalidHandle
	}
	if p.closed {
		p.mu.Unlock()
		return h.close()
	}
	handles := p.handles
	p.mu.Unlock()

	select {
	case handles <- h:
	default:
		// The channel holds every owned handle, so h is already enqueued
		// by an earlier release. Drop the duplicate reference; closing it
		// would close the pooled handle.
	}
	return nil
}

// Reload tears the pool down and recreates it with fresh configuration.
// Not safe to call concurrently with in-flight Acquire/Release; callers
// must serialize externally.
func (p *Pool) Reload(open OpenFunc, size int, releaseTimeout time.Duration) error {
	if size <= 0 {
		return fmt.Errorf("pool size must be positive, got %d", size)
	}
	p.shutdown()
	p.mu.Lock()
	defer p.mu.Unlock()
	p.open = open
	p.timeout = releaseTimeout
	if err := p.init(size); err != nil {
		return err
	}
	p.logger.Info("pool reloaded", "size", size, "release_timeout", releaseTimeout)
	return nil
}

// Shutdown drains and closes all handles. Subsequent Acquire calls fail
// with ErrPoolClosed.
func (p *Pool) Shutdown() {
	p.shutdown()
	p.logger.Info("pool shut down")
}

func (p *Pool) shutdown() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.handles)
	handles := p.handles
	p.mu.Unlock()

	for h := range handles {
		if err := h.close(); err != nil {
			p.logger.Warn("closing pooled handle", "error", err)
		}
	}
}
