// Package task_tools provides MCP tools for managing TickTick tasks.
//
// # Available Tools
//
// Queries (always registered):
//   - get_tasks: List tasks across all projects
//   - search_tasks: Search tasks by title or content substring
//   - get_tasks_by_priority: Filter tasks by priority level
//   - get_tasks_due_today: Tasks due today in the local timezone
//   - get_overdue_tasks: Tasks whose due date has passed
//
// Mutations (skipped in read-only mode):
//   - create_task: Create a new task
//   - update_task: Partially update an existing task
//   - delete_task: Delete a task
//   - complete_task: Mark a task as completed (idempotent)
//
// The backend has no native search or date-filter endpoints; the filter
// tools are computed client-side over the full task list.
package task_tools
