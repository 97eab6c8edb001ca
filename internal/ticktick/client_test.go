package ticktick

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

type stubAuth struct{ ok bool }

func (s *stubAuth) Authenticated() bool { return s.ok }

// fakeBackend is an in-memory TickTick that serves the sync and batch
// endpoints. Completed tasks disappear from sync output, like the real
// service.
type fakeBackend struct {
	mu       sync.Mutex
	inboxID  string
	projects []apiProject
	tasks    []apiTask

	requests int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{inboxID: "inbox1"}
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/batch/check/0", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.requests++

		var active []apiTask
		for _, task := range f.tasks {
			if task.Status != StatusCompleted {
				active = append(active, task)
			}
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"inboxId":         f.inboxID,
			"projectProfiles": f.projects,
			"syncTaskBean":    map[string]interface{}{"update": active},
		})
	})

	mux.HandleFunc("/batch/project", func(w http.ResponseWriter, r *http.Request) {
		var batch struct {
			Add    []apiProject `json:"add"`
			Delete []string     `json:"delete"`
		}
		_ = json.NewDecoder(r.Body).Decode(&batch)

		f.mu.Lock()
		defer f.mu.Unlock()
		f.projects = append(f.projects, batch.Add...)
		for _, id := range batch.Delete {
			for i, p := range f.projects {
				if p.ID == id {
					f.projects = append(f.projects[:i], f.projects[i+1:]...)
					break
				}
			}
		}
	})

	mux.HandleFunc("/batch/task", func(w http.ResponseWriter, r *http.Request) {
		var batch struct {
			Add    []apiTask    `json:"add"`
			Update []apiTask    `json:"update"`
			Delete []taskDelete `json:"delete"`
		}
		_ = json.NewDecoder(r.Body).Decode(&batch)

		f.mu.Lock()
		defer f.mu.Unlock()
		f.tasks = append(f.tasks, batch.Add...)
		for _, u := range batch.Update {
			for i := range f.tasks {
				if f.tasks[i].ID == u.ID {
					f.tasks[i] = u
					break
				}
			}
		}
		for _, d := range batch.Delete {
			for i := range f.tasks {
				if f.tasks[i].ID == d.TaskID {
					f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
					break
				}
			}
		}
	})

	return mux
}

func newTestClient(t *testing.T, backend *fakeBackend) *Client {
	t.Helper()
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)

	api := NewAPIWithBaseURL(srv.URL)
	api.SetToken("test-token")
	return NewClient(api, &stubAuth{ok: true})
}

func TestClientRequiresAuthentication(t *testing.T) {
	api := NewAPIWithBaseURL("http://localhost:0")
	client := NewClient(api, &stubAuth{ok: false})
	ctx := context.Background()

	var notAuth *NotAuthenticatedError

	if _, err := client.Projects(ctx); !errors.As(err, &notAuth) {
		t.Errorf("Projects() error = %v, want *NotAuthenticatedError", err)
	}
	if _, err := client.CreateTask(ctx, TaskInput{Title: "x"}); !errors.As(err, &notAuth) {
		t.Errorf("CreateTask() error = %v, want *NotAuthenticatedError", err)
	}
	if err := client.DeleteProject(ctx, "p1"); !errors.As(err, &notAuth) {
		t.Errorf("DeleteProject() error = %v, want *NotAuthenticatedError", err)
	}
	if _, err := client.SearchTasks(ctx, "x"); !errors.As(err, &notAuth) {
		t.Errorf("SearchTasks() error = %v, want *NotAuthenticatedError", err)
	}
}

func TestCreateProjectValidation(t *testing.T) {
	backend := newFakeBackend()
	client := newTestClient(t, backend)
	ctx := context.Background()

	var validationErr *ValidationError

	if _, err := client.CreateProject(ctx, "", "", ""); !errors.As(err, &validationErr) {
		t.Errorf("CreateProject(empty name) error = %v, want *ValidationError", err)
	}
	if _, err := client.CreateProject(ctx, "Work", "", "grid"); !errors.As(err, &validationErr) {
		t.Errorf("CreateProject(bad view mode) error = %v, want *ValidationError", err)
	}

	// Validation failures must not reach the backend.
	if backend.requests != 0 {
		t.Errorf("backend saw %d requests during validation failures, want 0", backend.requests)
	}
}

func TestCreateProjectReturnsExistingOnNameMatch(t *testing.T) {
	backend := newFakeBackend()
	backend.projects = []apiProject{{ID: "p1", Name: "Work", Color: "#FF6161"}}
	client := newTestClient(t, backend)

	project, err := client.CreateProject(context.Background(), "Work", "blue", "list")
	if err != nil {
		t.Fatalf("CreateProject() error = %v", err)
	}
	if project.ID != "p1" {
		t.Errorf("CreateProject() id = %q, want existing %q", project.ID, "p1")
	}
	if len(backend.projects) != 1 {
		t.Errorf("backend has %d projects, want 1 (no duplicate created)", len(backend.projects))
	}
}

func TestCreateProjectNormalizesColor(t *testing.T) {
	backend := newFakeBackend()
	client := newTestClient(t, backend)

	project, err := client.CreateProject(context.Background(), "Groceries", "green", "")
	if err != nil {
		t.Fatalf("CreateProject() error = %v", err)
	}
	if project.Color != "#35D870" {
		t.Errorf("CreateProject() color = %q, want %q", project.Color, "#35D870")
	}
}

func TestProjectNotFound(t *testing.T) {
	backend := newFakeBackend()
	client := newTestClient(t, backend)

	_, err := client.Project(context.Background(), "nope")
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Project() error = %v, want *NotFoundError", err)
	}
	if notFound.Kind != "project" {
		t.Errorf("NotFoundError kind = %q, want %q", notFound.Kind, "project")
	}
}

func TestProjectTasksInboxAllowed(t *testing.T) {
	backend := newFakeBackend()
	backend.tasks = []apiTask{
		{ID: "t1", ProjectID: "inbox1", Title: "Inbox task"},
		{ID: "t2", ProjectID: "p-other", Title: "Other task"},
	}
	client := newTestClient(t, backend)

	// The inbox is not in projectProfiles but its tasks are reachable.
	tasks, err := client.ProjectTasks(context.Background(), "inbox1", false)
	if err != nil {
		t.Fatalf("ProjectTasks(inbox) error = %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != "t1" {
		t.Errorf("ProjectTasks(inbox) = %+v, want [t1]", tasks)
	}

	var notFound *NotFoundError
	if _, err := client.ProjectTasks(context.Background(), "unknown", false); !errors.As(err, &notFound) {
		t.Errorf("ProjectTasks(unknown) error = %v, want *NotFoundError", err)
	}
}

func TestCreateTaskValidation(t *testing.T) {
	backend := newFakeBackend()
	client := newTestClient(t, backend)
	ctx := context.Background()

	var validationErr *ValidationError

	if _, err := client.CreateTask(ctx, TaskInput{}); !errors.As(err, &validationErr) {
		t.Errorf("CreateTask(no title) error = %v, want *ValidationError", err)
	}
	if _, err := client.CreateTask(ctx, TaskInput{Title: "x", Priority: 2}); !errors.As(err, &validationErr) {
		t.Errorf("CreateTask(priority 2) error = %v, want *ValidationError", err)
	}
	if backend.requests != 0 {
		t.Errorf("backend saw %d requests during validation failures, want 0", backend.requests)
	}
}

func TestCreateAndListTasks(t *testing.T) {
	backend := newFakeBackend()
	client := newTestClient(t, backend)
	ctx := context.Background()

	created, err := client.CreateTask(ctx, TaskInput{
		Title:    "Buy groceries",
		Priority: PriorityHigh,
	})
	if err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}
	if created.ID == "" {
		t.Fatal("CreateTask() returned empty id")
	}

	tasks, err := client.Tasks(ctx, false)
	if err != nil {
		t.Fatalf("Tasks() error = %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "Buy groceries" {
		t.Errorf("Tasks() = %+v, want the created task", tasks)
	}
}

func TestUpdateTaskPartial(t *testing.T) {
	backend := newFakeBackend()
	backend.tasks = []apiTask{{
		ID: "t1", ProjectID: "p1", Title: "Old title",
		Content: "keep me", Priority: PriorityLow,
	}}
	client := newTestClient(t, backend)

	updated, err := client.UpdateTask(context.Background(), "t1", TaskUpdate{
		Title:    "New title",
		Priority: PriorityHigh,
	})
	if err != nil {
		t.Fatalf("UpdateTask() error = %v", err)
	}
	if updated.Title != "New title" {
		t.Errorf("UpdateTask() title = %q, want %q", updated.Title, "New title")
	}
	if updated.Content != "keep me" {
		t.Errorf("UpdateTask() content = %q, want unchanged %q", updated.Content, "keep me")
	}
	if updated.Priority != PriorityHigh {
		t.Errorf("UpdateTask() priority = %d, want %d", updated.Priority, PriorityHigh)
	}
}

func TestUpdateTaskUnsetPriorityLeavesPriority(t *testing.T) {
	backend := newFakeBackend()
	backend.tasks = []apiTask{{ID: "t1", ProjectID: "p1", Title: "Task", Priority: PriorityMedium}}
	client := newTestClient(t, backend)

	updated, err := client.UpdateTask(context.Background(), "t1", TaskUpdate{
		Content:  "new content",
		Priority: UnsetPriority,
	})
	if err != nil {
		t.Fatalf("UpdateTask() error = %v", err)
	}
	if updated.Priority != PriorityMedium {
		t.Errorf("UpdateTask() priority = %d, want unchanged %d", updated.Priority, PriorityMedium)
	}
}

func TestUpdateTaskNotFound(t *testing.T) {
	backend := newFakeBackend()
	client := newTestClient(t, backend)

	_, err := client.UpdateTask(context.Background(), "missing", TaskUpdate{Priority: UnsetPriority})
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("UpdateTask() error = %v, want *NotFoundError", err)
	}
}

func TestDeleteTaskUsesOwningProject(t *testing.T) {
	backend := newFakeBackend()
	backend.tasks = []apiTask{{ID: "t1", ProjectID: "p1", Title: "Task"}}
	client := newTestClient(t, backend)

	if err := client.DeleteTask(context.Background(), "", "t1"); err != nil {
		t.Fatalf("DeleteTask() error = %v", err)
	}
	if len(backend.tasks) != 0 {
		t.Errorf("backend has %d tasks after delete, want 0", len(backend.tasks))
	}
}

func TestCompleteTaskIdempotent(t *testing.T) {
	backend := newFakeBackend()
	backend.tasks = []apiTask{{ID: "t1", ProjectID: "p1", Title: "Task"}}
	client := newTestClient(t, backend)
	ctx := context.Background()

	first, err := client.CompleteTask(ctx, "t1")
	if err != nil {
		t.Fatalf("CompleteTask() error = %v", err)
	}
	if !first.Completed {
		t.Error("CompleteTask() completed = false")
	}

	// The task no longer shows up in sync; a second completion must
	// still succeed.
	second, err := client.CompleteTask(ctx, "t1")
	if err != nil {
		t.Fatalf("CompleteTask() second call error = %v", err)
	}
	if second.ID != "t1" || !second.Completed {
		t.Errorf("CompleteTask() second call = %+v, want completed t1", second)
	}
}

func TestCompleteTaskUnknownID(t *testing.T) {
	backend := newFakeBackend()
	client := newTestClient(t, backend)

	_, err := client.CompleteTask(context.Background(), "missing")
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("CompleteTask() error = %v, want *NotFoundError", err)
	}
}

func TestSearchTasks(t *testing.T) {
	backend := newFakeBackend()
	backend.tasks = []apiTask{
		{ID: "t1", Title: "Buy groceries", Content: ""},
		{ID: "t2", Title: "Report", Content: "include GROCERY budget"},
		{ID: "t3", Title: "Walk the dog"},
	}
	client := newTestClient(t, backend)

	matches, err := client.SearchTasks(context.Background(), "grocer")
	if err != nil {
		t.Fatalf("SearchTasks() error = %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("SearchTasks() = %d matches, want 2", len(matches))
	}
}

func TestTasksByPriority(t *testing.T) {
	backend := newFakeBackend()
	backend.tasks = []apiTask{
		{ID: "t1", Title: "urgent", Priority: PriorityHigh},
		{ID: "t2", Title: "someday", Priority: PriorityNone},
	}
	client := newTestClient(t, backend)

	matches, err := client.TasksByPriority(context.Background(), PriorityHigh)
	if err != nil {
		t.Fatalf("TasksByPriority() error = %v", err)
	}
	if len(matches) != 1 || matches[0].ID != "t1" {
		t.Errorf("TasksByPriority() = %+v, want [t1]", matches)
	}

	var validationErr *ValidationError
	if _, err := client.TasksByPriority(context.Background(), 4); !errors.As(err, &validationErr) {
		t.Errorf("TasksByPriority(4) error = %v, want *ValidationError", err)
	}
}

func TestTasksDueTodayAndOverdue(t *testing.T) {
	now := time.Now()
	backend := newFakeBackend()
	backend.tasks = []apiTask{
		{ID: "today", Title: "due today", DueDate: now.Format(apiTimeLayout)},
		{ID: "past", Title: "overdue", DueDate: now.AddDate(0, 0, -2).Format(apiTimeLayout)},
		{ID: "future", Title: "later", DueDate: now.AddDate(0, 0, 7).Format(apiTimeLayout)},
		{ID: "none", Title: "no due date"},
	}
	client := newTestClient(t, backend)
	ctx := context.Background()

	dueToday, err := client.TasksDueToday(ctx)
	if err != nil {
		t.Fatalf("TasksDueToday() error = %v", err)
	}
	if len(dueToday) != 1 || dueToday[0].ID != "today" {
		t.Errorf("TasksDueToday() = %+v, want [today]", dueToday)
	}

	overdue, err := client.OverdueTasks(ctx)
	if err != nil {
		t.Fatalf("OverdueTasks() error = %v", err)
	}
	if len(overdue) != 1 || overdue[0].ID != "past" {
		t.Errorf("OverdueTasks() = %+v, want [past]", overdue)
	}
}

func TestTasksExcludesCompletedByDefault(t *testing.T) {
	backend := newFakeBackend()
	backend.tasks = []apiTask{
		{ID: "t1", Title: "active"},
		{ID: "t2", Title: "done", Status: StatusCompleted},
	}
	client := newTestClient(t, backend)

	tasks, err := client.Tasks(context.Background(), false)
	if err != nil {
		t.Fatalf("Tasks() error = %v", err)
	}
	if len(tasks) != 1 || tasks[0].ID != "t1" {
		t.Errorf("Tasks() = %+v, want only the active task", tasks)
	}
}
