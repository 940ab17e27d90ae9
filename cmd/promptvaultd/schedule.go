package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/atomicobject/promptvault/pkg/cache"
	"github.com/atomicobject/promptvault/pkg/scheduler"
)

var scheduleRunCmd = &cobra.Command{
	Use:   "schedule-run",
	Short: "Run the recurrence scheduler loop in the foreground until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := resolveRoot()
		if err != nil {
			return fail("schedule_run", err)
		}
		taskCache, err := cache.NewService(root, cache.Options{})
		if err != nil {
			return fail("schedule_run", err)
		}
		defer taskCache.Close()

		core := scheduler.New(root, taskCache, nil)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		core.Start(ctx)
		<-ctx.Done()
		core.Stop()
		return nil
	},
}

// schedulePendingCmd computes the currently-due interval tasks by crawling
// the vault fresh, rather than reading back a long-lived in-memory pending
// set: a one-shot CLI process has no such set to read, unlike an attached
// MCP session bound to a single running Core.
var schedulePendingCmd = &cobra.Command{
	Use:   "schedule-pending",
	Short: "List interval tasks that are currently due",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := resolveRoot()
		if err != nil {
			return fail("get_pending_tasks", err)
		}
		taskCache, err := cache.NewService(root, cache.Options{})
		if err != nil {
			return fail("get_pending_tasks", err)
		}
		defer taskCache.Close()

		ctx := context.Background()
		if err := taskCache.EnsureReady(ctx); err != nil {
			return fail("get_pending_tasks", err)
		}

		core := scheduler.New(root, taskCache, nil)
		now := time.Now().Unix()
		for _, task := range taskCache.Snapshot() {
			if task.IsDue(now) {
				core.Pending.Add(task)
			}
		}
		return printJSON(core.Pending.List())
	},
}

var scheduleAckCmd = &cobra.Command{
	Use:   "schedule-ack <task-id>",
	Short: "Acknowledge a currently-due task, persisting a fresh last_notified baseline",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := resolveRoot()
		if err != nil {
			return fail("acknowledge_task", err)
		}
		taskCache, err := cache.NewService(root, cache.Options{})
		if err != nil {
			return fail("acknowledge_task", err)
		}
		defer taskCache.Close()

		ctx := context.Background()
		if err := taskCache.EnsureReady(ctx); err != nil {
			return fail("acknowledge_task", err)
		}

		core := scheduler.New(root, taskCache, nil)
		now := time.Now().Unix()
		for _, task := range taskCache.Snapshot() {
			if task.ID == args[0] {
				core.Pending.Add(task)
				break
			}
		}
		if err := core.Pending.Acknowledge(args[0], now); err != nil {
			return fail("acknowledge_task", err)
		}
		return printJSON(map[string]bool{"ok": true})
	},
}

// scheduleVisibilityCmd demonstrates the set_window_visibility contract
// against a throwaway Core: real effect requires a long-running host (the
// MCP server binding), since window visibility only matters to a Core's own
// tick cadence.
var scheduleVisibilityCmd = &cobra.Command{
	Use:   "schedule-visibility <true|false>",
	Short: "Report the mode a fresh scheduler would adopt with the given window visibility",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		visible, err := strconv.ParseBool(args[0])
		if err != nil {
			return fail("set_window_visibility", err)
		}
		root, err := resolveRoot()
		if err != nil {
			return fail("set_window_visibility", err)
		}
		taskCache, err := cache.NewService(root, cache.Options{})
		if err != nil {
			return fail("set_window_visibility", err)
		}
		defer taskCache.Close()

		if err := taskCache.EnsureReady(context.Background()); err != nil {
			return fail("set_window_visibility", err)
		}

		core := scheduler.New(root, taskCache, nil)
		core.SetWindowVisible(visible)
		mode := scheduler.DeriveMode(core.IsWindowVisible(), taskCache.Len() > 0)
		return printJSON(map[string]any{"visible": core.IsWindowVisible(), "mode": mode})
	},
}

func init() {
	rootCmd.AddCommand(scheduleRunCmd, schedulePendingCmd, scheduleAckCmd, scheduleVisibilityCmd)
}
