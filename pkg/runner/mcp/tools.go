package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/tabtree/pkg/drag"
	"tableflip.dev/tabtree/pkg/reducer"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	registerGetCollectionTool(srv, svc)
	registerGetGroupTool(srv, svc)
	registerFindTabsTool(srv, svc)
	registerDispatchTool(srv, svc)
	registerAddGroupTool(srv, svc)
	registerRenameGroupTool(srv, svc)
	registerRecolorGroupTool(srv, svc)
	registerActivateGroupTool(srv, svc)
	registerDeleteGroupTool(srv, svc)
	registerDeleteWindowTool(srv, svc)
	registerDeleteTabTool(srv, svc)
	registerDropTool(srv, svc)
	registerHistoryTools(srv, svc)
	registerMaintenanceTools(srv, svc)
	registerReportTool(srv, svc)
}

func registerGetCollectionTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"get_collection",
		mcp.WithDescription("List every saved group with tab and window counts."),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		overview, err := svc.Overview()
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(overview)
	})
}

func registerGetGroupTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"get_group",
		mcp.WithDescription("Fetch the windows and tabs of one group."),
		mcp.WithString("group",
			mcp.Required(),
			mcp.Description("Group index, id or name."),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ref, err := request.RequireString("group")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		group, err := svc.Group(ref)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(group)
	})
}

func registerFindTabsTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"find_tabs",
		mcp.WithDescription("Fuzzy search saved tabs by title and url."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search text; letters must appear in order."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of tabs to return (default 20)."),
			mcp.Min(1),
			mcp.Max(100),
		),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := request.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		limit := request.GetInt("limit", 20)
		matches, err := svc.Find(query, limit)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{
			"query":   query,
			"matches": matches,
			"count":   len(matches),
		})
	})
}

func registerDispatchTool(srv *server.MCPServer, svc *Service) {
	types := reducer.Types()
	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, string(t))
	}

	tool := mcp.NewTool(
		"dispatch_action",
		mcp.WithDescription("Apply one raw collection action. Indices address groups, windows and tabs by position."),
		mcp.WithString("type",
			mcp.Required(),
			mcp.Description("Action type."),
			mcp.Enum(names...),
		),
		mcp.WithObject("payload",
			mcp.Description(`Action fields, e.g. {"group":2,"name":"work"} for UPDATE_NAME.`),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Type    reducer.Type    `json:"type"`
			Payload json.RawMessage `json:"payload"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		res, err := svc.Dispatch(args.Type, args.Payload)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(res)
	})
}

func registerAddGroupTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"add_group",
		mcp.WithDescription("Append an empty group."),
		mcp.WithString("name",
			mcp.Description("Group name; defaults to Untitled."),
		),
		mcp.WithString("color",
			mcp.Description("Hex color such as #4287f5."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res, err := svc.AddGroup(request.GetString("name", ""), request.GetString("color", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(res)
	})
}

func registerRenameGroupTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"rename_group",
		mcp.WithDescription("Rename a group."),
		mcp.WithString("group", mcp.Required(), mcp.Description("Group index, id or name.")),
		mcp.WithString("name", mcp.Required(), mcp.Description("New name.")),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ref, err := request.RequireString("group")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		name, err := request.RequireString("name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		res, err := svc.Rename(ref, name)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(res)
	})
}

func registerRecolorGroupTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"recolor_group",
		mcp.WithDescription("Change the color of a group."),
		mcp.WithString("group", mcp.Required(), mcp.Description("Group index, id or name.")),
		mcp.WithString("color", mcp.Required(), mcp.Description("Hex color such as #4287f5.")),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ref, err := request.RequireString("group")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		color, err := request.RequireString("color")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		res, err := svc.Recolor(ref, color)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(res)
	})
}

func registerActivateGroupTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"activate_group",
		mcp.WithDescription("Make a group the active one."),
		mcp.WithString("group", mcp.Required(), mcp.Description("Group index, id or name.")),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ref, err := request.RequireString("group")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		res, err := svc.Activate(ref)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(res)
	})
}

func registerDeleteGroupTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"delete_group",
		mcp.WithDescription("Delete a group. The live and duplicates groups cannot be deleted."),
		mcp.WithString("group", mcp.Required(), mcp.Description("Group index, id or name.")),
		mcp.WithDestructiveHintAnnotation(true),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ref, err := request.RequireString("group")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		res, err := svc.DeleteGroup(ref)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(res)
	})
}

func registerDeleteWindowTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"delete_window",
		mcp.WithDescription("Delete a window, and its group when that leaves it empty."),
		mcp.WithNumber("group", mcp.Required(), mcp.Description("Group index.")),
		mcp.WithNumber("window", mcp.Required(), mcp.Description("Window index.")),
		mcp.WithDestructiveHintAnnotation(true),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args reducer.DeleteWindowAction
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		res, err := svc.apply(args)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(res)
	})
}

func registerDeleteTabTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"delete_tab",
		mcp.WithDescription("Delete a tab, then its window and group when they end up empty."),
		mcp.WithNumber("group", mcp.Required(), mcp.Description("Group index.")),
		mcp.WithNumber("window", mcp.Required(), mcp.Description("Window index.")),
		mcp.WithNumber("tab", mcp.Required(), mcp.Description("Tab index.")),
		mcp.WithDestructiveHintAnnotation(true),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args reducer.DeleteTabAction
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		res, err := svc.apply(args)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(res)
	})
}

func registerDropTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"drop",
		mcp.WithDescription(`Drag and drop in one step. Draggables: "tab-<t>-window-<w>" (active group), `+
			`"window-<w>-group-<g>", "group-<g>". Destinations: "tabs-<w>", "windows-<g>", "sidepanel", `+
			`"tabs-new" for a new window. Combine targets: "group-<g>" or "group-new".`),
		mcp.WithString("draggable", mcp.Required(), mcp.Description("Draggable id.")),
		mcp.WithString("destination", mcp.Description("Droppable id to drop into.")),
		mcp.WithNumber("index", mcp.Description("Position inside the destination.")),
		mcp.WithString("combine", mcp.Description("Group tile to combine onto instead of dropping.")),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("draggable")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		r := drag.DropResult{DraggableID: id}
		if dst := strings.TrimSpace(request.GetString("destination", "")); dst != "" {
			r.Destination = &drag.Location{DroppableID: dst, Index: request.GetInt("index", 0)}
		}
		if target := strings.TrimSpace(request.GetString("combine", "")); target != "" {
			r.Combine = &drag.Combine{DraggableID: target, DroppableID: drag.SidePanelDroppable}
		}
		res, err := svc.Drop(r)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(res)
	})
}

func registerHistoryTools(srv *server.MCPServer, svc *Service) {
	srv.AddTool(mcp.NewTool("undo", mcp.WithDescription("Undo the last change made in this session.")),
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			res, err := svc.Undo()
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return toJSONResult(res)
		})
	srv.AddTool(mcp.NewTool("redo", mcp.WithDescription("Redo the last undone change.")),
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			res, err := svc.Redo()
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return toJSONResult(res)
		})
}

func registerMaintenanceTools(srv *server.MCPServer, svc *Service) {
	srv.AddTool(mcp.NewTool("gc", mcp.WithDescription("Remove empty windows, then empty groups.")),
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			res, err := svc.GC()
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return toJSONResult(res)
		})
	srv.AddTool(mcp.NewTool("dedupe", mcp.WithDescription("Rebuild the Duplicates group from tabs saved more than once.")),
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			res, err := svc.Dispatch(reducer.UpdateDuplicates, nil)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			return toJSONResult(res)
		})
}

func registerReportTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"report",
		mcp.WithDescription("List the groups changed within a recent window, newest first."),
		mcp.WithString("window", mcp.Description("Window such as 12h, 3d or 1w2d (default 1d).")),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		report, err := svc.Report(request.GetString("window", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(report)
	})
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return result, nil
}
