package mcp

import (
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
)

func reqWithArgs(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{Arguments: args},
	}
}

func TestArgString(t *testing.T) {
	req := reqWithArgs(map[string]any{"path": "Work/note"})
	assert.Equal(t, "Work/note", argString(req, "path"))
	assert.Equal(t, "", argString(req, "missing"))
}

func TestArgBoolAndPtr(t *testing.T) {
	req := reqWithArgs(map[string]any{"permanent": true})
	assert.True(t, argBool(req, "permanent", false))
	assert.False(t, argBool(req, "absent", false))

	assert.NotNil(t, argBoolPtr(req, "permanent"))
	assert.Nil(t, argBoolPtr(req, "absent"))
}

func TestArgInt(t *testing.T) {
	req := reqWithArgs(map[string]any{"threshold": float64(5)})
	assert.Equal(t, 5, argInt(req, "threshold", -1))
	assert.Equal(t, -1, argInt(req, "missing", -1))
}

func TestArgStringSlice(t *testing.T) {
	req := reqWithArgs(map[string]any{"ids": []any{"a", "b", 3}})
	assert.Equal(t, []string{"a", "b"}, argStringSlice(req, "ids"))
	assert.Nil(t, argStringSlice(req, "missing"))
}
