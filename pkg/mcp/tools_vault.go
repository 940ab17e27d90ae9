package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcpsdk "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/atomicobject/promptvault/pkg/document"
)

func jsonResult(v any) (*mcpsdk.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcpsdk.NewToolResultError(fmt.Sprintf("marshal result: %v", err)), nil
	}
	return mcpsdk.NewToolResultText(string(data)), nil
}

func errResult(op string, err error) (*mcpsdk.CallToolResult, error) {
	return mcpsdk.NewToolResultError(fmt.Sprintf("%s: %v", op, err)), nil
}

func registerVaultTools(s *server.MCPServer, config Config) {
	s.AddTool(
		mcpsdk.NewTool("get_root",
			mcpsdk.WithDescription("Returns the resolved vault root directory."),
		),
		func(ctx context.Context, req mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
			return jsonResult(map[string]string{"root": config.Ops.GetRoot()})
		},
	)

	s.AddTool(
		mcpsdk.NewTool("scan_vault",
			mcpsdk.WithDescription("Scans the vault, returning the category tree and flat document index."),
		),
		func(ctx context.Context, req mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
			result, err := config.Ops.ScanVault()
			if err != nil {
				return errResult("scan_vault", err)
			}
			return jsonResult(result)
		},
	)

	s.AddTool(
		mcpsdk.NewTool("read_prompt",
			mcpsdk.WithDescription("Reads a document by vault-relative path."),
			mcpsdk.WithString("path", mcpsdk.Required(), mcpsdk.Description("Vault-relative or absolute document directory path.")),
		),
		func(ctx context.Context, req mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
			doc, err := config.Ops.ReadPrompt(argString(req, "path"))
			if err != nil {
				return errResult("read_prompt", err)
			}
			return jsonResult(doc)
		},
	)

	s.AddTool(
		mcpsdk.NewTool("save_prompt",
			mcpsdk.WithDescription("Overwrites a document's metadata and body."),
			mcpsdk.WithString("path", mcpsdk.Required(), mcpsdk.Description("Document directory path.")),
			mcpsdk.WithString("title", mcpsdk.Description("New title.")),
			mcpsdk.WithString("content", mcpsdk.Description("New body content.")),
		),
		func(ctx context.Context, req mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
			path := argString(req, "path")
			doc, err := config.Ops.ReadPrompt(path)
			if err != nil {
				return errResult("save_prompt", err)
			}
			if title := argString(req, "title"); title != "" {
				doc.Title = title
			}
			doc.Body = argString(req, "content")
			if err := config.Ops.SavePrompt(doc); err != nil {
				return errResult("save_prompt", err)
			}
			return jsonResult(doc)
		},
	)

	s.AddTool(
		mcpsdk.NewTool("create_prompt",
			mcpsdk.WithDescription("Creates a new document under a category."),
			mcpsdk.WithString("category", mcpsdk.Description("Vault-relative category path.")),
			mcpsdk.WithString("title", mcpsdk.Required(), mcpsdk.Description("Document title.")),
			mcpsdk.WithString("type", mcpsdk.Description("Document type, e.g. NOTE or TASK.")),
			mcpsdk.WithString("scheduled_time", mcpsdk.Description("ISO 8601 scheduled time, stored as the document's scheduled_time.")),
		),
		func(ctx context.Context, req mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
			doc, err := config.Ops.CreatePrompt(argString(req, "category"), argString(req, "title"), document.CreateOptions{
				Type:          argString(req, "type"),
				ScheduledTime: argString(req, "scheduled_time"),
			})
			if err != nil {
				return errResult("create_prompt", err)
			}
			return jsonResult(doc)
		},
	)

	s.AddTool(
		mcpsdk.NewTool("delete_prompt",
			mcpsdk.WithDescription("Moves a document to trash, or deletes it permanently."),
			mcpsdk.WithString("path", mcpsdk.Required(), mcpsdk.Description("Document directory path.")),
			mcpsdk.WithBoolean("permanent", mcpsdk.Description("Skip trash and delete immediately.")),
		),
		func(ctx context.Context, req mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
			if err := config.Ops.DeletePrompt(argString(req, "path"), argBool(req, "permanent", false)); err != nil {
				return errResult("delete_prompt", err)
			}
			return jsonResult(map[string]bool{"ok": true})
		},
	)

	s.AddTool(
		mcpsdk.NewTool("restore_prompt",
			mcpsdk.WithDescription("Restores a trashed document to its original location."),
			mcpsdk.WithString("path", mcpsdk.Required(), mcpsdk.Description("Trashed document directory path.")),
		),
		func(ctx context.Context, req mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
			if err := config.Ops.RestorePrompt(argString(req, "path")); err != nil {
				return errResult("restore_prompt", err)
			}
			return jsonResult(map[string]bool{"ok": true})
		},
	)

	s.AddTool(
		mcpsdk.NewTool("create_category",
			mcpsdk.WithDescription("Creates a new category directory."),
			mcpsdk.WithString("parent", mcpsdk.Description("Parent category path.")),
			mcpsdk.WithString("name", mcpsdk.Required(), mcpsdk.Description("New category name.")),
		),
		func(ctx context.Context, req mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
			path, err := config.Ops.CreateCategory(argString(req, "parent"), argString(req, "name"))
			if err != nil {
				return errResult("create_category", err)
			}
			return jsonResult(map[string]string{"path": path})
		},
	)

	s.AddTool(
		mcpsdk.NewTool("rename_category",
			mcpsdk.WithDescription("Renames a category directory in place."),
			mcpsdk.WithString("path", mcpsdk.Required(), mcpsdk.Description("Category path.")),
			mcpsdk.WithString("new_name", mcpsdk.Required(), mcpsdk.Description("New directory name.")),
		),
		func(ctx context.Context, req mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
			path, err := config.Ops.RenameCategory(argString(req, "path"), argString(req, "new_name"))
			if err != nil {
				return errResult("rename_category", err)
			}
			return jsonResult(map[string]string{"path": path})
		},
	)

	s.AddTool(
		mcpsdk.NewTool("move_category",
			mcpsdk.WithDescription("Moves a category under a new parent."),
			mcpsdk.WithString("path", mcpsdk.Required(), mcpsdk.Description("Category path.")),
			mcpsdk.WithString("target_parent", mcpsdk.Required(), mcpsdk.Description("Destination parent category path.")),
		),
		func(ctx context.Context, req mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
			name, newPath, err := config.Ops.MoveCategory(argString(req, "path"), argString(req, "target_parent"))
			if err != nil {
				return errResult("move_category", err)
			}
			return jsonResult(map[string]string{"name": name, "path": newPath})
		},
	)

	s.AddTool(
		mcpsdk.NewTool("delete_category",
			mcpsdk.WithDescription("Moves a category to trash."),
			mcpsdk.WithString("path", mcpsdk.Required(), mcpsdk.Description("Category path.")),
		),
		func(ctx context.Context, req mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
			if err := config.Ops.DeleteCategory(argString(req, "path")); err != nil {
				return errResult("delete_category", err)
			}
			return jsonResult(map[string]bool{"ok": true})
		},
	)

	s.AddTool(
		mcpsdk.NewTool("upload_image",
			mcpsdk.WithDescription("Decodes a base64 or data-URI image and stores it under the document's assets."),
			mcpsdk.WithString("data", mcpsdk.Required(), mcpsdk.Description("Base64 or data-URI image payload.")),
			mcpsdk.WithString("document_id", mcpsdk.Required(), mcpsdk.Description("Owning document id.")),
			mcpsdk.WithString("file_name", mcpsdk.Description("Optional destination file name.")),
		),
		func(ctx context.Context, req mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
			relPath, err := config.Ops.UploadImage(argString(req, "data"), argString(req, "document_id"), argString(req, "file_name"))
			if err != nil {
				return errResult("upload_image", err)
			}
			return jsonResult(map[string]string{"path": relPath})
		},
	)

	s.AddTool(
		mcpsdk.NewTool("trash_status",
			mcpsdk.WithDescription("Reports current trash visit counters and the deletion threshold."),
			mcpsdk.WithNumber("threshold", mcpsdk.Description("Override the deletion threshold for this call.")),
		),
		func(ctx context.Context, req mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
			var threshold *int
			if v := argInt(req, "threshold", -1); v >= 0 {
				threshold = &v
			}
			status, err := config.Ops.TrashStatus(threshold)
			if err != nil {
				return errResult("trash_status", err)
			}
			return jsonResult(status)
		},
	)

	s.AddTool(
		mcpsdk.NewTool("trash_visit",
			mcpsdk.WithDescription("Increments every trash item's visit counter, deleting items that cross the threshold."),
			mcpsdk.WithNumber("threshold", mcpsdk.Description("Override the deletion threshold for this call.")),
		),
		func(ctx context.Context, req mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
			var threshold *int
			if v := argInt(req, "threshold", -1); v >= 0 {
				threshold = &v
			}
			result, err := config.Ops.TrashVisit(threshold)
			if err != nil {
				return errResult("trash_visit", err)
			}
			return jsonResult(result)
		},
	)
}
