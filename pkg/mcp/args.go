package mcp

import "github.com/mark3labs/mcp-go/mcp"

func argString(req mcp.CallToolRequest, key string) string {
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return ""
	}
	s, _ := args[key].(string)
	return s
}

func argBoolPtr(req mcp.CallToolRequest, key string) *bool {
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return nil
	}
	v, present := args[key]
	if !present {
		return nil
	}
	b, ok := v.(bool)
	if !ok {
		return nil
	}
	return &b
}

func argBool(req mcp.CallToolRequest, key string, def bool) bool {
	if p := argBoolPtr(req, key); p != nil {
		return *p
	}
	return def
}

func argInt(req mcp.CallToolRequest, key string, def int) int {
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return def
	}
	v, present := args[key]
	if !present {
		return def
	}
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	default:
		return def
	}
}

func argStringSlice(req mcp.CallToolRequest, key string) []string {
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return nil
	}
	raw, ok := args[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
