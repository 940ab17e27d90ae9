package mcp

import (
	"github.com/mark3labs/mcp-go/server"
)

// RegisterAll wires every vault and scheduler operation onto s as an MCP
// tool, bound to config.
func RegisterAll(s *server.MCPServer, config Config) error {
	registerVaultTools(s, config)
	registerTransferTools(s, config)
	registerSchedulerTools(s, config)
	return nil
}
