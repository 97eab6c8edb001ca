// Package project_tools provides MCP tools for managing TickTick projects.
//
// # Available Tools
//
//   - get_projects: List all projects
//   - get_project: Get details of a specific project
//   - get_project_tasks: List the tasks in a project
//   - create_project: Create a new project (skipped in read-only mode)
//   - delete_project: Delete a project (skipped in read-only mode)
//
// All tools require an authenticated client, which is provided through
// the server context. Unauthenticated calls return an error result
// directing the user to auth_login.
package project_tools
