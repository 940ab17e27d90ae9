package mcp

import (
	"testing"

	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/require"

	"github.com/atomicobject/promptvault/pkg/notifyqueue"
	"github.com/atomicobject/promptvault/pkg/scheduler"
	"github.com/atomicobject/promptvault/pkg/vaultops"
)

func TestRegisterAllWiresEveryToolWithoutError(t *testing.T) {
	s := server.NewMCPServer("test-promptvaultd", "v0.0.0", server.WithToolCapabilities(false))

	root := t.TempDir()
	ops := vaultops.New(root)
	core := scheduler.New(root, nil, nil)

	config := Config{
		Ops:       ops,
		Scheduler: core,
		Pending:   notifyqueue.New(),
	}

	require.NoError(t, RegisterAll(s, config))
}
