// Package mcp exposes the vault and scheduler operations as MCP tools.
package mcp

import (
	"github.com/atomicobject/promptvault/pkg/notifyqueue"
	"github.com/atomicobject/promptvault/pkg/scheduler"
	"github.com/atomicobject/promptvault/pkg/vaultops"
)

// Config bundles the host capabilities every tool handler needs.
type Config struct {
	Ops       *vaultops.Ops
	Scheduler *scheduler.Core
	Pending   *notifyqueue.Queue
}
