package project_tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/ticktick-mcp/internal/server"
	"github.com/teemow/ticktick-mcp/internal/tools/common"
)

// RegisterProjectTools registers all project-related tools with the MCP
// server. Mutating tools (create, delete) are skipped in read-only mode.
func RegisterProjectTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	// List projects tool (read-only, always available)
	getProjectsTool := mcp.NewTool("get_projects",
		mcp.WithDescription("Get all projects from TickTick"),
	)

	s.AddTool(getProjectsTool, common.InstrumentedToolHandlerWithOperation("get_projects", "list", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		projects, err := sc.Client().Projects(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get projects: %v", err)), nil
		}

		result, _ := json.MarshalIndent(projects, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	}))

	// Get project tool
	getProjectTool := mcp.NewTool("get_project",
		mcp.WithDescription("Get details about a specific project"),
		mcp.WithString("project_id",
			mcp.Required(),
			mcp.Description("The ID of the project to retrieve"),
		),
	)

	s.AddTool(getProjectTool, common.InstrumentedToolHandlerWithOperation("get_project", "get", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		projectID, err := common.RequiredString(args, "project_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		project, err := sc.Client().Project(ctx, projectID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get project: %v", err)), nil
		}

		result, _ := json.MarshalIndent(project, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	}))

	// Get project tasks tool
	getProjectTasksTool := mcp.NewTool("get_project_tasks",
		mcp.WithDescription("Get all tasks in a specific project"),
		mcp.WithString("project_id",
			mcp.Required(),
			mcp.Description("The ID of the project whose tasks to retrieve"),
		),
		mcp.WithBoolean("include_completed",
			mcp.Description("Include completed tasks in the result (default: false)"),
		),
	)

	s.AddTool(getProjectTasksTool, common.InstrumentedToolHandlerWithOperation("get_project_tasks", "list", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		projectID, err := common.RequiredString(args, "project_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		includeCompleted, err := common.OptionalBool(args, "include_completed", false)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		tasks, err := sc.Client().ProjectTasks(ctx, projectID, includeCompleted)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get project tasks: %v", err)), nil
		}

		result, _ := json.MarshalIndent(tasks, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	}))

	// Register create/delete project tools only if not in read-only mode
	if !readOnly {
		// Create project tool
		createProjectTool := mcp.NewTool("create_project",
			mcp.WithDescription("Create a new project. If a project with the same name already exists, it is returned instead of creating a duplicate."),
			mcp.WithString("name",
				mcp.Required(),
				mcp.Description("Project name"),
			),
			mcp.WithString("color",
				mcp.Description("Optional project color. Accepts a hex color (e.g. \"#FF6161\") or one of: red, pink, teal, green, yellow, purple, blue, mint. Unknown values are ignored and TickTick's default color is used."),
			),
			mcp.WithString("view_mode",
				mcp.Description("View mode: list, kanban, or timeline (default: list)"),
			),
		)

		s.AddTool(createProjectTool, common.InstrumentedToolHandlerWithOperation("create_project", "create", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			name, err := common.RequiredString(args, "name")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			color := common.OptionalString(args, "color")
			viewMode := common.OptionalString(args, "view_mode")

			project, err := sc.Client().CreateProject(ctx, name, color, viewMode)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to create project: %v", err)), nil
			}

			result, _ := json.MarshalIndent(project, "", "  ")
			return mcp.NewToolResultText(fmt.Sprintf("Project created successfully:\n%s", string(result))), nil
		}))

		// Delete project tool
		deleteProjectTool := mcp.NewTool("delete_project",
			mcp.WithDescription("Delete a project"),
			mcp.WithString("project_id",
				mcp.Required(),
				mcp.Description("The ID of the project to delete"),
			),
		)

		s.AddTool(deleteProjectTool, common.InstrumentedToolHandlerWithOperation("delete_project", "delete", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			args, _ := request.Params.Arguments.(map[string]interface{})

			projectID, err := common.RequiredString(args, "project_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			if err := sc.Client().DeleteProject(ctx, projectID); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to delete project: %v", err)), nil
			}

			return mcp.NewToolResultText(fmt.Sprintf("Project %s deleted successfully", projectID)), nil
		}))
	}

	return nil
}
