package task_tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/ticktick-mcp/internal/server"
	"github.com/teemow/ticktick-mcp/internal/ticktick"
	"github.com/teemow/ticktick-mcp/internal/tools/common"
)

const dateFormatHint = "Format: \"YYYY-MM-DD HH:MM:SS\" (24-hour, local timezone) or RFC 3339"

// RegisterTaskTools registers all task-related tools with the MCP server.
// Mutating tools (create, update, delete, complete) are skipped in
// read-only mode; the query and filter tools are always available.
func RegisterTaskTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if err := registerTaskQueryTools(s, sc); err != nil {
		return fmt.Errorf("failed to register task query tools: %w", err)
	}

	if !readOnly {
		if err := registerTaskMutationTools(s, sc); err != nil {
			return fmt.Errorf("failed to register task mutation tools: %w", err)
		}
	}

	return nil
}

// registerTaskQueryTools registers the read-only task tools.
func registerTaskQueryTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// List tasks tool
	getTasksTool := mcp.NewTool("get_tasks",
		mcp.WithDescription("Get all tasks across all projects"),
		mcp.WithBoolean("include_completed",
			mcp.Description("Include completed tasks in the result (default: false)"),
		),
	)

	s.AddTool(getTasksTool, common.InstrumentedToolHandlerWithOperation("get_tasks", "list", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		includeCompleted, err := common.OptionalBool(args, "include_completed", false)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		tasks, err := sc.Client().Tasks(ctx, includeCompleted)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get tasks: %v", err)), nil
		}

		result, _ := json.MarshalIndent(tasks, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	}))

	// Search tasks tool
	searchTasksTool := mcp.NewTool("search_tasks",
		mcp.WithDescription("Search active tasks by a case-insensitive substring of title or content"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("The text to search for"),
		),
	)

	s.AddTool(searchTasksTool, common.InstrumentedToolHandlerWithOperation("search_tasks", "list", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		query, err := common.RequiredString(args, "query")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		tasks, err := sc.Client().SearchTasks(ctx, query)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to search tasks: %v", err)), nil
		}

		result, _ := json.MarshalIndent(tasks, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	}))

	// Filter by priority tool
	byPriorityTool := mcp.NewTool("get_tasks_by_priority",
		mcp.WithDescription("Get active tasks with a specific priority level"),
		mcp.WithString("priority",
			mcp.Required(),
			mcp.Description("Priority level: 0 (None), 1 (Low), 3 (Medium), 5 (High)"),
		),
	)

	s.AddTool(byPriorityTool, common.InstrumentedToolHandlerWithOperation("get_tasks_by_priority", "list", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		priority, err := common.PriorityArg(args, "priority", ticktick.PriorityNone)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		tasks, err := sc.Client().TasksByPriority(ctx, priority)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get tasks by priority: %v", err)), nil
		}

		result, _ := json.MarshalIndent(tasks, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	}))

	// Due today tool
	dueTodayTool := mcp.NewTool("get_tasks_due_today",
		mcp.WithDescription("Get active tasks whose due date falls on today (local timezone)"),
	)

	s.AddTool(dueTodayTool, common.InstrumentedToolHandlerWithOperation("get_tasks_due_today", "list", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tasks, err := sc.Client().TasksDueToday(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get tasks due today: %v", err)), nil
		}

		result, _ := json.MarshalIndent(tasks, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	}))

	// Overdue tool
	overdueTool := mcp.NewTool("get_overdue_tasks",
		mcp.WithDescription("Get active tasks whose due date is in the past"),
	)

	s.AddTool(overdueTool, common.InstrumentedToolHandlerWithOperation("get_overdue_tasks", "list", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tasks, err := sc.Client().OverdueTasks(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to get overdue tasks: %v", err)), nil
		}

		result, _ := json.MarshalIndent(tasks, "", "  ")
		return mcp.NewToolResultText(string(result)), nil
	}))

	return nil
}

// registerTaskMutationTools registers the tools that modify tasks.
func registerTaskMutationTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// Create task tool
	createTaskTool := mcp.NewTool("create_task",
		mcp.WithDescription("Create a new task"),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Task title"),
		),
		mcp.WithString("project_id",
			mcp.Description("Optional project ID to place the task in. Defaults to the inbox."),
		),
		mcp.WithString("content",
			mcp.Description("Optional task description/content"),
		),
		mcp.WithString("start_date",
			mcp.Description("Optional start date. "+dateFormatHint),
		),
		mcp.WithString("due_date",
			mcp.Description("Optional due date. "+dateFormatHint),
		),
		mcp.WithString("priority",
			mcp.Description("Task priority: 0 (None), 1 (Low), 3 (Medium), 5 (High). Default: 0"),
		),
	)

	s.AddTool(createTaskTool, common.InstrumentedToolHandlerWithOperation("create_task", "create", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		title, err := common.RequiredString(args, "title")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		priority, err := common.PriorityArg(args, "priority", ticktick.PriorityNone)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		startDate, err := common.DateArg(args, "start_date")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		dueDate, err := common.DateArg(args, "due_date")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		task, err := sc.Client().CreateTask(ctx, ticktick.TaskInput{
			Title:     title,
			ProjectID: common.OptionalString(args, "project_id"),
			Content:   common.OptionalString(args, "content"),
			StartDate: startDate,
			DueDate:   dueDate,
			Priority:  priority,
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to create task: %v", err)), nil
		}

		result, _ := json.MarshalIndent(task, "", "  ")
		return mcp.NewToolResultText(fmt.Sprintf("Task created successfully:\n%s", string(result))), nil
	}))

	// Update task tool
	updateTaskTool := mcp.NewTool("update_task",
		mcp.WithDescription("Update an existing task. Only the provided fields are changed."),
		mcp.WithString("task_id",
			mcp.Required(),
			mcp.Description("The ID of the task to update"),
		),
		mcp.WithString("project_id",
			mcp.Description("The project the task currently lives in. Speeds up the lookup; otherwise all projects are searched."),
		),
		mcp.WithString("title",
			mcp.Description("New task title"),
		),
		mcp.WithString("content",
			mcp.Description("New task description/content"),
		),
		mcp.WithString("start_date",
			mcp.Description("New start date. "+dateFormatHint),
		),
		mcp.WithString("due_date",
			mcp.Description("New due date. "+dateFormatHint),
		),
		mcp.WithString("priority",
			mcp.Description("New priority: 0 (None), 1 (Low), 3 (Medium), 5 (High)"),
		),
	)

	s.AddTool(updateTaskTool, common.InstrumentedToolHandlerWithOperation("update_task", "update", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		taskID, err := common.RequiredString(args, "task_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		priority, err := common.PriorityArg(args, "priority", ticktick.UnsetPriority)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		startDate, err := common.DateArg(args, "start_date")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		dueDate, err := common.DateArg(args, "due_date")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		task, err := sc.Client().UpdateTask(ctx, taskID, ticktick.TaskUpdate{
			ProjectID: common.OptionalString(args, "project_id"),
			Title:     common.OptionalString(args, "title"),
			Content:   common.OptionalString(args, "content"),
			StartDate: startDate,
			DueDate:   dueDate,
			Priority:  priority,
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to update task: %v", err)), nil
		}

		result, _ := json.MarshalIndent(task, "", "  ")
		return mcp.NewToolResultText(fmt.Sprintf("Task updated successfully:\n%s", string(result))), nil
	}))

	// Delete task tool
	deleteTaskTool := mcp.NewTool("delete_task",
		mcp.WithDescription("Delete a task"),
		mcp.WithString("task_id",
			mcp.Required(),
			mcp.Description("The ID of the task to delete"),
		),
		mcp.WithString("project_id",
			mcp.Description("The project the task lives in. Speeds up the lookup; otherwise all projects are searched."),
		),
	)

	s.AddTool(deleteTaskTool, common.InstrumentedToolHandlerWithOperation("delete_task", "delete", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		taskID, err := common.RequiredString(args, "task_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		projectID := common.OptionalString(args, "project_id")

		if err := sc.Client().DeleteTask(ctx, projectID, taskID); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to delete task: %v", err)), nil
		}

		return mcp.NewToolResultText(fmt.Sprintf("Task %s deleted successfully", taskID)), nil
	}))

	// Complete task tool
	completeTaskTool := mcp.NewTool("complete_task",
		mcp.WithDescription("Mark a task as completed. Completing an already-completed task is a no-op and succeeds."),
		mcp.WithString("task_id",
			mcp.Required(),
			mcp.Description("The ID of the task to complete"),
		),
	)

	s.AddTool(completeTaskTool, common.InstrumentedToolHandlerWithOperation("complete_task", "update", sc, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args, _ := request.Params.Arguments.(map[string]interface{})

		taskID, err := common.RequiredString(args, "task_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		task, err := sc.Client().CompleteTask(ctx, taskID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to complete task: %v", err)), nil
		}

		result, _ := json.MarshalIndent(task, "", "  ")
		return mcp.NewToolResultText(fmt.Sprintf("Task completed:\n%s", string(result))), nil
	}))

	return nil
}
