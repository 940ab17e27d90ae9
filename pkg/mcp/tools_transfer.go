package mcp

import (
	"context"

	mcpsdk "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/atomicobject/promptvault/pkg/transfer"
)

func registerTransferTools(s *server.MCPServer, config Config) {
	s.AddTool(
		mcpsdk.NewTool("export_prompts",
			mcpsdk.WithDescription("Exports documents by id, optionally preserving category structure."),
			mcpsdk.WithArray("ids", mcpsdk.Description("Document ids to export, flat by default."), mcpsdk.WithStringItems()),
			mcpsdk.WithArray("structured_ids", mcpsdk.Description("Document ids to export with category_path included."), mcpsdk.WithStringItems()),
			mcpsdk.WithArray("flat_ids", mcpsdk.Description("Document ids to export without category_path."), mcpsdk.WithStringItems()),
			mcpsdk.WithBoolean("include_content", mcpsdk.Description("Include body content (default true).")),
			mcpsdk.WithBoolean("preserve_structure", mcpsdk.Description("Include category_path for plain ids (default false).")),
		),
		func(ctx context.Context, req mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
			result, err := config.Ops.ScanVault()
			if err != nil {
				return errResult("export_prompts", err)
			}
			opts := transfer.ExportOptions{
				IDs:               argStringSlice(req, "ids"),
				StructuredIDs:     argStringSlice(req, "structured_ids"),
				FlatIDs:           argStringSlice(req, "flat_ids"),
				IncludeContent:    argBoolPtr(req, "include_content"),
				PreserveStructure: argBool(req, "preserve_structure", false),
			}
			out := transfer.Export(result.FlatIndex, opts, config.Ops.GetRoot())
			return jsonResult(out)
		},
	)

	s.AddTool(
		mcpsdk.NewTool("import_prompts",
			mcpsdk.WithDescription("Imports a batch of exported records, resolving title conflicts per strategy."),
			mcpsdk.WithString("base_category_path", mcpsdk.Description("Category all records import under, before any per-record category_path.")),
			mcpsdk.WithString("conflict_strategy", mcpsdk.Description("One of skip, overwrite, rename (default rename).")),
			mcpsdk.WithArray("records",
				mcpsdk.Required(),
				mcpsdk.Description("Array of export-shaped record objects."),
				mcpsdk.Items(map[string]any{
					"type": "object",
					"properties": map[string]any{
						"title":          map[string]any{"type": "string"},
						"content":        map[string]any{"type": "string"},
						"category_path":  map[string]any{"type": "string"},
						"type":           map[string]any{"type": "string"},
						"tags":           map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					},
					"required": []string{"title"},
				}),
			),
		),
		func(ctx context.Context, req mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
			records := decodeImportRecords(req)
			result, err := config.Ops.ScanVault()
			if err != nil {
				return errResult("import_prompts", err)
			}
			out := transfer.Import(config.Ops, result.FlatIndex, records, transfer.ImportOptions{
				BaseCategoryPath: argString(req, "base_category_path"),
				ConflictStrategy: transfer.ConflictStrategy(argString(req, "conflict_strategy")),
			}, config.Ops.GetRoot())
			return jsonResult(out)
		},
	)
}

func decodeImportRecords(req mcpsdk.CallToolRequest) []transfer.ImportRecord {
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return nil
	}
	raw, ok := args["records"].([]any)
	if !ok {
		return nil
	}
	records := make([]transfer.ImportRecord, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		rec := transfer.ImportRecord{}
		rec.Title, _ = m["title"].(string)
		rec.Content, _ = m["content"].(string)
		rec.CategoryPath, _ = m["category_path"].(string)
		rec.Type, _ = m["type"].(string)
		rec.Author, _ = m["author"].(string)
		rec.Version, _ = m["version"].(string)
		rec.ScheduledTime, _ = m["scheduled_time"].(string)
		rec.IsFavorite, _ = m["is_favorite"].(bool)
		if tags, ok := m["tags"].([]any); ok {
			for _, t := range tags {
				if s, ok := t.(string); ok {
					rec.Tags = append(rec.Tags, s)
				}
			}
		}
		if mc, ok := m["model_config"].(map[string]any); ok {
			rec.ModelConfig = mc
		}
		if rcr, ok := m["recurrence"].(map[string]any); ok {
			rec.Recurrence = rcr
		}
		records = append(records, rec)
	}
	return records
}
