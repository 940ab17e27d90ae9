// Package scheduler drives the background recurrence loop: mode machine,
// due detection, baseline persistence, and event emission.
package scheduler

import (
	"context"
	"log"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/atomicobject/promptvault/pkg/atomicstore"
	"github.com/atomicobject/promptvault/pkg/cache"
	"github.com/atomicobject/promptvault/pkg/document"
	"github.com/atomicobject/promptvault/pkg/notifyqueue"
	"github.com/atomicobject/promptvault/pkg/scanner"
)

// Mode is the scheduler's tick-cadence state, derived from whether a
// foreground consumer is attached and whether any interval task exists.
type Mode string

const (
	ModeIdle       Mode = "Idle"
	ModeActive     Mode = "Active"
	ModeBackground Mode = "Background"
)

// Emitter is the injected host capability for one-way event delivery. The
// core never calls into a concrete host type directly; tests substitute a
// recording emitter.
type Emitter interface {
	Emit(eventName string, payload any)
}

// EmitterFunc adapts a function to Emitter.
type EmitterFunc func(eventName string, payload any)

func (f EmitterFunc) Emit(eventName string, payload any) { f(eventName, payload) }

// LoggingEmitter is the default host binding: it logs every event rather
// than delivering it anywhere, useful for CLI invocations with no attached
// consumer.
type LoggingEmitter struct{}

func (LoggingEmitter) Emit(eventName string, payload any) {
	log.Printf("event:%s payload:%+v", eventName, payload)
}

// DeriveMode computes the scheduler's mode from whether the window is
// visible and whether any task is currently cached.
func DeriveMode(windowVisible, hasTasks bool) Mode {
	if !hasTasks {
		return ModeIdle
	}
	if windowVisible {
		return ModeActive
	}
	return ModeBackground
}

// TickInterval returns the poll interval for a mode, or zero for Idle (the
// loop sleeps a fixed short interval and re-checks state without scanning).
func TickInterval(mode Mode) time.Duration {
	switch mode {
	case ModeActive:
		return time.Second
	case ModeBackground:
		return 10 * time.Second
	default:
		return 0
	}
}

// Core is the scheduler's process-wide state: cache, pending queue, and the
// flags that drive mode derivation.
type Core struct {
	VaultPath string
	Cache     *cache.Service
	Pending   *notifyqueue.Queue
	Emitter   Emitter

	windowVisible atomic.Bool
	running       atomic.Bool

	now func() time.Time
}

// New constructs a Core bound to vaultPath, with window visibility defaulting
// to true (a freshly started host is assumed to be in the foreground until
// told otherwise).
func New(vaultPath string, taskCache *cache.Service, emitter Emitter) *Core {
	c := &Core{
		VaultPath: vaultPath,
		Cache:     taskCache,
		Pending:   notifyqueue.New(),
		Emitter:   emitter,
		now:       time.Now,
	}
	c.windowVisible.Store(true)
	if c.Emitter == nil {
		c.Emitter = LoggingEmitter{}
	}
	return c
}

func (c *Core) IsWindowVisible() bool     { return c.windowVisible.Load() }
func (c *Core) SetWindowVisible(v bool)   { c.windowVisible.Store(v) }
func (c *Core) IsRunning() bool           { return c.running.Load() }
func (c *Core) setRunning(v bool)         { c.running.Store(v) }

func (c *Core) nowUnix() int64 { return c.now().Unix() }

// ResetIntervalBaselines scans the vault for interval tasks and stamps each
// one's persisted last_notified to timestamp, clearing the pending queue,
// priming the cache, and then forcing it to rescan on the very first tick.
// This runs once at startup to avoid a flood of "overdue" notifications
// after a long shutdown.
func (c *Core) ResetIntervalBaselines(timestamp int64) (int, error) {
	records, err := scanner.ScanIntervalTasks(c.VaultPath)
	if err != nil {
		c.Pending.Clear()
		return 0, nil
	}

	c.Pending.Clear()
	for _, r := range records {
		metaPath := filepath.Join(r.DirPath, document.MetaFileName)
		_ = atomicstore.UpdateLastNotified(metaPath, timestamp)
	}
	if c.Cache != nil {
		_ = c.Cache.Refresh(context.Background())
		c.Cache.ForceRescanNextRefresh()
	}
	return len(records), nil
}

// Start resets baselines and launches the tick loop as a goroutine,
// returning once the loop has been scheduled. Stop via ctx cancellation or
// Stop().
func (c *Core) Start(ctx context.Context) {
	c.ResetIntervalBaselines(c.nowUnix())
	c.setRunning(true)
	go c.loop(ctx)
}

// Stop signals the loop to exit at its next check. No flush is required;
// state is already durable on disk.
func (c *Core) Stop() {
	c.setRunning(false)
}

func (c *Core) loop(ctx context.Context) {
	var lastMode Mode
	haveLastMode := false

	for {
		if !c.IsRunning() {
			return
		}
		select {
		case <-ctx.Done():
			return
		default:
		}

		hasTasks := c.Cache != nil && c.Cache.Len() > 0
		mode := DeriveMode(c.IsWindowVisible(), hasTasks)
		if !haveLastMode || lastMode != mode {
			c.Emitter.Emit("scheduler_mode_change", mode)
			lastMode = mode
			haveLastMode = true
		}

		interval := TickInterval(mode)
		if interval == 0 {
			sleepOrDone(ctx, time.Second)
			continue
		}

		if c.Cache != nil {
			if err := c.Cache.Refresh(ctx); err != nil {
				sleepOrDone(ctx, interval)
				continue
			}
		}

		c.processDueTasks()
		sleepOrDone(ctx, interval)
	}
}

func (c *Core) processDueTasks() {
	if c.Cache == nil {
		return
	}
	now := c.nowUnix()
	for _, task := range c.Cache.Snapshot() {
		if !task.IsDue(now) {
			continue
		}

		latency := now - task.NextTrigger()
		log.Printf("task_due_latency_sec:%s:%d", task.ID, latency)

		metaPath := filepath.Join(task.DirPath, document.MetaFileName)
		_ = atomicstore.UpdateLastNotified(metaPath, now)

		if c.Pending.Add(task) {
			for _, doc := range c.Pending.List() {
				if doc.ID == task.ID {
					c.Emitter.Emit("task_due", doc)
					break
				}
			}
		}
		c.Cache.UpdateLastNotified(task.ID, now)
	}
}

func sleepOrDone(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
