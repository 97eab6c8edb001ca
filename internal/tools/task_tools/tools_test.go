package task_tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/ticktick-mcp/internal/auth"
	"github.com/teemow/ticktick-mcp/internal/server"
	"github.com/teemow/ticktick-mcp/internal/ticktick"
)

// newBackend serves signon plus an account with one project and two
// tasks, enough for the query tools.
func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/user/signon", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "tok", "username": "user@example.com"})
	})
	mux.HandleFunc("/batch/check/0", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"inboxId": "inbox1",
			"projectProfiles": []map[string]interface{}{
				{"id": "p1", "name": "Work"},
			},
			"syncTaskBean": map[string]interface{}{
				"update": []map[string]interface{}{
					{"id": "t1", "projectId": "p1", "title": "Ship release", "priority": 5},
					{"id": "t2", "projectId": "p1", "title": "Water plants", "priority": 0},
				},
			},
		})
	})
	mux.HandleFunc("/batch/task", func(w http.ResponseWriter, r *http.Request) {})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newToolServer(t *testing.T, readOnly, login bool) *mcpserver.MCPServer {
	t.Helper()
	backend := newBackend(t)

	api := ticktick.NewAPIWithBaseURL(backend.URL)
	store := auth.NewStoreAt(filepath.Join(t.TempDir(), "credentials.json"))
	sc := server.NewServerContext(context.Background(), api, store)
	t.Cleanup(func() { _ = sc.Shutdown() })

	if login {
		if err := sc.AuthManager().Login(context.Background(), "user@example.com", "pw"); err != nil {
			t.Fatalf("login failed: %v", err)
		}
	}

	srv := mcpserver.NewMCPServer("test", "0.0.0", mcpserver.WithToolCapabilities(true))
	if err := RegisterTaskTools(srv, sc, readOnly); err != nil {
		t.Fatalf("RegisterTaskTools() error = %v", err)
	}
	return srv
}

func listToolNames(t *testing.T, srv *mcpserver.MCPServer) map[string]bool {
	t.Helper()
	raw := srv.HandleMessage(context.Background(),
		json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	data, err := json.Marshal(raw)
	if err != nil {
		t.Fatalf("failed to marshal tools/list response: %v", err)
	}

	var resp struct {
		Result struct {
			Tools []struct {
				Name string `json:"name"`
			} `json:"tools"`
		} `json:"result"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		t.Fatalf("failed to decode tools/list response: %v", err)
	}

	names := make(map[string]bool)
	for _, tool := range resp.Result.Tools {
		names[tool.Name] = true
	}
	return names
}

type callResult struct {
	IsError bool
	Text    string
}

func callTool(t *testing.T, srv *mcpserver.MCPServer, name string, args map[string]interface{}) callResult {
	t.Helper()
	params := map[string]interface{}{"name": name}
	if args != nil {
		params["arguments"] = args
	}
	msg, err := json.Marshal(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      2,
		"method":  "tools/call",
		"params":  params,
	})
	if err != nil {
		t.Fatal(err)
	}

	raw := srv.HandleMessage(context.Background(), msg)
	data, err := json.Marshal(raw)
	if err != nil {
		t.Fatalf("failed to marshal tools/call response: %v", err)
	}

	var resp struct {
		Result struct {
			IsError bool `json:"isError"`
			Content []struct {
				Text string `json:"text"`
			} `json:"content"`
		} `json:"result"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		t.Fatalf("failed to decode tools/call response: %v", err)
	}
	if resp.Error != nil {
		t.Fatalf("tools/call %s returned protocol error: %s", name, resp.Error.Message)
	}

	result := callResult{IsError: resp.Result.IsError}
	if len(resp.Result.Content) > 0 {
		result.Text = resp.Result.Content[0].Text
	}
	return result
}

func TestRegisterTaskToolsReadWrite(t *testing.T) {
	names := listToolNames(t, newToolServer(t, false, false))

	want := []string{
		"get_tasks", "search_tasks", "get_tasks_by_priority",
		"get_tasks_due_today", "get_overdue_tasks",
		"create_task", "update_task", "delete_task", "complete_task",
	}
	for _, name := range want {
		if !names[name] {
			t.Errorf("tool %s not registered", name)
		}
	}
}

func TestRegisterTaskToolsReadOnly(t *testing.T) {
	names := listToolNames(t, newToolServer(t, true, false))

	for _, name := range []string{"get_tasks", "search_tasks", "get_tasks_by_priority", "get_tasks_due_today", "get_overdue_tasks"} {
		if !names[name] {
			t.Errorf("query tool %s missing in read-only mode", name)
		}
	}
	for _, name := range []string{"create_task", "update_task", "delete_task", "complete_task"} {
		if names[name] {
			t.Errorf("mutating tool %s registered in read-only mode", name)
		}
	}
}

func TestGetTasksRequiresAuthentication(t *testing.T) {
	srv := newToolServer(t, false, false)

	result := callTool(t, srv, "get_tasks", nil)
	if !result.IsError {
		t.Fatal("get_tasks succeeded without authentication")
	}
	if !strings.Contains(result.Text, "not authenticated") {
		t.Errorf("get_tasks error = %q, want mention of authentication", result.Text)
	}
}

func TestGetTasksReturnsTasks(t *testing.T) {
	srv := newToolServer(t, false, true)

	result := callTool(t, srv, "get_tasks", nil)
	if result.IsError {
		t.Fatalf("get_tasks error: %s", result.Text)
	}
	if !strings.Contains(result.Text, "Ship release") || !strings.Contains(result.Text, "Water plants") {
		t.Errorf("get_tasks = %q, want both task titles", result.Text)
	}
}

func TestSearchTasksFilters(t *testing.T) {
	srv := newToolServer(t, false, true)

	result := callTool(t, srv, "search_tasks", map[string]interface{}{"query": "release"})
	if result.IsError {
		t.Fatalf("search_tasks error: %s", result.Text)
	}
	if !strings.Contains(result.Text, "Ship release") {
		t.Errorf("search_tasks = %q, want matching task", result.Text)
	}
	if strings.Contains(result.Text, "Water plants") {
		t.Errorf("search_tasks = %q, non-matching task included", result.Text)
	}
}

func TestSearchTasksRequiresQuery(t *testing.T) {
	srv := newToolServer(t, false, true)

	result := callTool(t, srv, "search_tasks", nil)
	if !result.IsError {
		t.Fatal("search_tasks succeeded without query")
	}
	if !strings.Contains(result.Text, "query is required") {
		t.Errorf("search_tasks error = %q", result.Text)
	}
}

func TestGetTasksByPriorityStringCoercion(t *testing.T) {
	srv := newToolServer(t, false, true)

	result := callTool(t, srv, "get_tasks_by_priority", map[string]interface{}{"priority": "5"})
	if result.IsError {
		t.Fatalf("get_tasks_by_priority error: %s", result.Text)
	}
	if !strings.Contains(result.Text, "Ship release") {
		t.Errorf("get_tasks_by_priority = %q, want high priority task", result.Text)
	}

	result = callTool(t, srv, "get_tasks_by_priority", map[string]interface{}{"priority": "2"})
	if !result.IsError {
		t.Fatal("get_tasks_by_priority accepted priority 2")
	}
}

func TestCreateTaskValidatesBeforeBackend(t *testing.T) {
	srv := newToolServer(t, false, true)

	result := callTool(t, srv, "create_task", map[string]interface{}{
		"title":    "New task",
		"due_date": "whenever",
	})
	if !result.IsError {
		t.Fatal("create_task accepted invalid due_date")
	}
	if !strings.Contains(result.Text, "due_date") {
		t.Errorf("create_task error = %q, want mention of due_date", result.Text)
	}

	result = callTool(t, srv, "create_task", map[string]interface{}{
		"title":    "New task",
		"priority": "7",
	})
	if !result.IsError {
		t.Fatal("create_task accepted priority 7")
	}
}

func TestCreateTaskSuccess(t *testing.T) {
	srv := newToolServer(t, false, true)

	result := callTool(t, srv, "create_task", map[string]interface{}{
		"title":    "New task",
		"priority": "3",
		"due_date": "2025-06-01 17:00:00",
	})
	if result.IsError {
		t.Fatalf("create_task error: %s", result.Text)
	}
	if !strings.Contains(result.Text, "created successfully") {
		t.Errorf("create_task = %q", result.Text)
	}
	if !strings.Contains(result.Text, "New task") {
		t.Errorf("create_task = %q, want created task echoed", result.Text)
	}
}

func TestCompleteTaskMissingID(t *testing.T) {
	srv := newToolServer(t, false, true)

	result := callTool(t, srv, "complete_task", nil)
	if !result.IsError {
		t.Fatal("complete_task succeeded without task_id")
	}
	if !strings.Contains(result.Text, "task_id is required") {
		t.Errorf("complete_task error = %q", result.Text)
	}
}

func TestUpdateTaskUnknownID(t *testing.T) {
	srv := newToolServer(t, false, true)

	result := callTool(t, srv, "update_task", map[string]interface{}{
		"task_id": "does-not-exist",
		"title":   "x",
	})
	if !result.IsError {
		t.Fatal("update_task succeeded for unknown id")
	}
	if !strings.Contains(result.Text, "not found") {
		t.Errorf("update_task error = %q, want not found", result.Text)
	}
}
