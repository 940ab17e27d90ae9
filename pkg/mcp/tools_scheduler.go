package mcp

import (
	"context"
	"time"

	mcpsdk "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerSchedulerTools(s *server.MCPServer, config Config) {
	s.AddTool(
		mcpsdk.NewTool("get_pending_tasks",
			mcpsdk.WithDescription("Returns the full document payload for every currently pending due task."),
		),
		func(ctx context.Context, req mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
			return jsonResult(config.Pending.List())
		},
	)

	s.AddTool(
		mcpsdk.NewTool("acknowledge_task",
			mcpsdk.WithDescription("Acknowledges a pending task, clearing it and persisting a fresh last_notified baseline."),
			mcpsdk.WithString("id", mcpsdk.Required(), mcpsdk.Description("Task document id.")),
		),
		func(ctx context.Context, req mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
			if err := config.Pending.Acknowledge(argString(req, "id"), time.Now().Unix()); err != nil {
				return errResult("acknowledge_task", err)
			}
			return jsonResult(map[string]bool{"ok": true})
		},
	)

	s.AddTool(
		mcpsdk.NewTool("set_window_visibility",
			mcpsdk.WithDescription("Tells the scheduler whether the host's window is currently foregrounded, affecting tick cadence."),
			mcpsdk.WithBoolean("visible", mcpsdk.Required(), mcpsdk.Description("Whether the window is visible.")),
		),
		func(ctx context.Context, req mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
			config.Scheduler.SetWindowVisible(argBool(req, "visible", true))
			return jsonResult(map[string]bool{"ok": true})
		},
	)
}
