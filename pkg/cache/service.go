// Package cache maintains an in-memory index of interval-recurring task
// documents for the scheduler.
//
// Operational story (read before editing):
//  1. EnsureReady() performs a one-time crawl to populate the index and
//     install a directory watch. It is concurrency-safe and uses a simple
//     spin gate.
//  2. watchLoop translates fsnotify events into an eager-rescan hint (or, on
//     watcher failure, flips a stale flag).
//  3. Refresh() is the front door the scheduler tick hits: it honours the
//     mtime-based should_rescan policy and, when a watch hint or a stale
//     flag fired in between ticks, forces the rescan early.
//
// The watcher is a latency optimisation layered on top of the mtime policy;
// should_rescan(root, lastScan) is always the authority on whether a rescan
// actually happens.
package cache

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/atomicobject/promptvault/pkg/scanner"
)

// Watcher abstracts filesystem notifications for modular backends.
type Watcher interface {
	Add(name string) error
	Close() error
	Events() <-chan fsnotify.Event
	Errors() <-chan error
}

type fsNotifyWatcher struct {
	*fsnotify.Watcher
}

func (f *fsNotifyWatcher) Events() <-chan fsnotify.Event { return f.Watcher.Events }
func (f *fsNotifyWatcher) Errors() <-chan error          { return f.Watcher.Errors }

// Options controls cache behavior.
type Options struct {
	Watcher        Watcher
	WatcherFactory func() (Watcher, error)
}

// Service is the scheduler's TaskCache: a concurrent keyed map from task id
// to TaskRecord, plus the "last scan" mtime used by should_rescan.
type Service struct {
	root string

	mu            sync.RWMutex
	ready         bool
	crawling      bool
	stale         bool
	tasks         map[string]scanner.TaskRecord
	lastScanMtime int64

	watcher        Watcher
	watcherFactory func() (Watcher, error)
	watchOnce      sync.Once
	ctx            context.Context
	cancel         context.CancelFunc
}

// NewService constructs a TaskCache for the vault rooted at root.
func NewService(root string, opts Options) (*Service, error) {
	if root == "" {
		return nil, fmt.Errorf("root is required")
	}

	var watcher Watcher
	var watcherFactory func() (Watcher, error)
	if opts.Watcher != nil {
		watcher = opts.Watcher
		watcherFactory = opts.WatcherFactory
	} else {
		watcherFactory = opts.WatcherFactory
		if watcherFactory == nil {
			watcherFactory = func() (Watcher, error) {
				w, err := fsnotify.NewWatcher()
				if err != nil {
					return nil, fmt.Errorf("create watcher: %w", err)
				}
				return &fsNotifyWatcher{Watcher: w}, nil
			}
		}
		w, err := watcherFactory()
		if err != nil {
			// Degrade silently to pure mtime polling; should_rescan remains
			// authoritative so correctness does not depend on the watcher.
			watcherFactory = nil
			watcher = nil
			log.Printf("taskcache: watcher unavailable (%v); falling back to mtime polling", err)
		} else {
			watcher = w
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		root:           root,
		tasks:          make(map[string]scanner.TaskRecord),
		watcher:        watcher,
		watcherFactory: watcherFactory,
		ctx:            ctx,
		cancel:         cancel,
	}, nil
}

// Close stops the watcher and releases resources.
func (s *Service) Close() error {
	s.cancel()
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}

// EnsureReady performs the initial scan (once) and starts the watcher. Safe
// to call concurrently; only one goroutine performs the initial scan.
func (s *Service) EnsureReady(ctx context.Context) error {
	s.mu.Lock()
	if s.ready {
		s.mu.Unlock()
		return s.Refresh(ctx)
	}
	if s.crawling {
		s.mu.Unlock()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(10 * time.Millisecond):
				s.mu.RLock()
				ready := s.ready
				s.mu.RUnlock()
				if ready {
					return s.Refresh(ctx)
				}
			}
		}
	}
	s.crawling = true
	s.mu.Unlock()

	if err := s.rescan(); err != nil {
		s.mu.Lock()
		s.crawling = false
		s.mu.Unlock()
		return err
	}
	s.startWatcher()
	return nil
}

// Refresh applies the mtime-based should_rescan policy: if the vault root's
// mtime has advanced past the last recorded scan (or the watcher flagged the
// cache stale, or a watch hint arrived), it rescans via VaultScanner and
// replaces the cache contents atomically. Otherwise it is a no-op and
// callers read the existing snapshot.
func (s *Service) Refresh(ctx context.Context) error {
	s.mu.RLock()
	ready := s.ready
	s.mu.RUnlock()
	if !ready {
		return s.EnsureReady(ctx)
	}

	shouldRescan, err := s.shouldRescan()
	if err != nil {
		return err
	}
	if !shouldRescan {
		return nil
	}
	return s.rescan()
}

// shouldRescan compares the vault root's mtime against the last recorded
// scan time, or forces a rescan if the watcher marked the cache stale.
func (s *Service) shouldRescan() (bool, error) {
	s.mu.RLock()
	stale := s.stale
	last := s.lastScanMtime
	s.mu.RUnlock()
	if stale {
		return true, nil
	}
	mtime, err := scanner.VaultModifiedTime(s.root)
	if err != nil {
		return false, err
	}
	return mtime > last, nil
}

func (s *Service) rescan() error {
	records, err := scanner.ScanIntervalTasks(s.root)
	if err != nil {
		return err
	}
	mtime, err := scanner.VaultModifiedTime(s.root)
	if err != nil {
		return err
	}

	tasks := make(map[string]scanner.TaskRecord, len(records))
	for _, r := range records {
		tasks[r.ID] = r
	}

	s.mu.Lock()
	s.tasks = tasks
	s.lastScanMtime = mtime
	s.stale = false
	s.ready = true
	s.crawling = false
	s.mu.Unlock()

	s.installWatch()
	return nil
}

// Snapshot returns the current cached task records.
func (s *Service) Snapshot() []scanner.TaskRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]scanner.TaskRecord, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t)
	}
	return out
}

// UpdateLastNotified refreshes a single in-memory record's baseline after
// the scheduler persists a new last_notified to disk, so the cache does not
// immediately consider the same task due again next tick.
func (s *Service) UpdateLastNotified(id string, unixSeconds int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.tasks[id]; ok {
		rec.LastNotified = unixSeconds
		s.tasks[id] = rec
	}
}

// Len reports how many tasks are currently cached, the scheduler's has_tasks
// signal.
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// ForceRescanNextRefresh zeroes the remembered scan mtime so the very next
// Refresh call rescans unconditionally, used by the scheduler's startup
// baseline reset.
func (s *Service) ForceRescanNextRefresh() {
	s.mu.Lock()
	s.lastScanMtime = 0
	s.mu.Unlock()
}

func (s *Service) startWatcher() {
	if s.watcher == nil {
		return
	}
	s.watchOnce.Do(func() {
		_ = s.watcher.Add(s.root)
		go s.watchLoop()
	})
}

// installWatch re-adds the root watch after a rescan in case the watcher
// was rebuilt; a no-op once the watch is already registered.
func (s *Service) installWatch() {
	if s.watcher == nil {
		return
	}
	_ = s.watcher.Add(s.root)
}

func (s *Service) watchLoop() {
	for {
		select {
		case <-s.ctx.Done():
			return
		case _, ok := <-s.watcher.Events():
			if !ok {
				s.markStale()
				return
			}
			// Any change under the vault is cheap to treat uniformly: mark
			// the cache stale so the next Refresh forces a rescan instead
			// of waiting for the root directory's own mtime to roll over.
			s.markStale()
		case err, ok := <-s.watcher.Errors():
			if !ok {
				s.markStale()
				return
			}
			s.markStale()
			_ = err
		}
	}
}

func (s *Service) markStale() {
	s.mu.Lock()
	s.stale = true
	s.mu.Unlock()
}
