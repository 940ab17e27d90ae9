package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/atomicobject/promptvault/pkg/cache"
	"github.com/atomicobject/promptvault/pkg/mcp"
	"github.com/atomicobject/promptvault/pkg/scheduler"
	"github.com/atomicobject/promptvault/pkg/vaultops"
)

var serveMcpCmd = &cobra.Command{
	Use:   "serve-mcp",
	Short: "Run an MCP server over stdio exposing the full vault and scheduler surface",
	Long: `Run a Model Context Protocol server that communicates over stdin/stdout,
exposing every vault, transfer, and scheduler operation as an MCP tool.

Example MCP client configuration:
{
  "mcpServers": {
    "promptvault": {
      "command": "/path/to/promptvaultd",
      "args": ["serve-mcp", "--vault", "/path/to/vault"]
    }
  }
}`,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := resolveRoot()
		if err != nil {
			return fail("serve_mcp", err)
		}

		taskCache, err := cache.NewService(root, cache.Options{})
		if err != nil {
			return fail("serve_mcp", err)
		}
		defer taskCache.Close()

		s := server.NewMCPServer(
			"promptvaultd",
			rootCmd.Version,
			server.WithToolCapabilities(false),
		)

		core := scheduler.New(root, taskCache, scheduler.EmitterFunc(func(eventName string, payload any) {
			notifyMcp(s, eventName, payload)
		}))

		config := mcp.Config{
			Ops:       vaultops.New(root),
			Scheduler: core,
			Pending:   core.Pending,
		}
		if err := mcp.RegisterAll(s, config); err != nil {
			return fail("serve_mcp", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		core.Start(ctx)
		defer core.Stop()

		log.Printf("serving MCP tools for vault %s", root)
		return server.ServeStdio(s)
	},
}

// notifyMcp best-effort forwards a scheduler event as an MCP server-to-client
// notification. mcp-go does not expose a generic "send notification" call on
// MCPServer outside of tool/resource update helpers, so task_due and
// scheduler_mode_change events are logged for the host to observe via
// get_pending_tasks rather than pushed — a client polls, it is not pushed to.
func notifyMcp(s *server.MCPServer, eventName string, payload any) {
	log.Printf("event:%s payload:%+v", eventName, payload)
}

func init() {
	rootCmd.AddCommand(serveMcpCmd)
}
