package ticktick

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Authenticator gates access to the backend. The auth manager implements
// this; every adapter operation checks it before touching the network.
type Authenticator interface {
	Authenticated() bool
}

// UnsetPriority marks a TaskUpdate priority as "leave unchanged".
const UnsetPriority = -1

// TaskUpdate describes a partial task update. Zero-value string and time
// fields are left unchanged; Priority must be UnsetPriority to be ignored.
type TaskUpdate struct {
	ProjectID string
	Title     string
	Content   string
	StartDate time.Time
	DueDate   time.Time
	Priority  int
}

// Client wraps the TickTick API behind the operations the MCP tools
// need: project and task CRUD plus the derived filters the backend has
// no native endpoints for.
type Client struct {
	api  *API
	auth Authenticator

	mu sync.Mutex
	// completed remembers tasks this client marked as done. The sync
	// endpoint only returns active tasks, so this is what keeps
	// complete_task idempotent.
	completed map[string]Task
}

// NewClient creates a client adapter over the given API, gated by auth.
func NewClient(api *API, auth Authenticator) *Client {
	return &Client{
		api:       api,
		auth:      auth,
		completed: make(map[string]Task),
	}
}

func (c *Client) ensure(op string) error {
	if c.auth == nil || !c.auth.Authenticated() {
		return &NotAuthenticatedError{Op: op}
	}
	return nil
}

// Projects returns all projects.
func (c *Client) Projects(ctx context.Context) ([]Project, error) {
	if err := c.ensure("getProjects"); err != nil {
		return nil, err
	}
	state, err := c.api.Sync(ctx)
	if err != nil {
		return nil, err
	}
	return state.Projects, nil
}

// Project returns a single project by id.
func (c *Client) Project(ctx context.Context, projectID string) (*Project, error) {
	if err := c.ensure("getProject"); err != nil {
		return nil, err
	}
	state, err := c.api.Sync(ctx)
	if err != nil {
		return nil, err
	}
	for i := range state.Projects {
		if state.Projects[i].ID == projectID {
			return &state.Projects[i], nil
		}
	}
	return nil, &NotFoundError{Kind: "project", ID: projectID}
}

// CreateProject creates a new project. The color may be a hex value or a
// named palette color; unknown colors fall back to the backend default.
// Creating a project whose name already exists returns the existing one.
func (c *Client) CreateProject(ctx context.Context, name, color, viewMode string) (*Project, error) {
	if err := c.ensure("createProject"); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	switch viewMode {
	case "", "list", "kanban", "timeline":
	default:
		return nil, &ValidationError{Field: "view_mode", Reason: "must be one of list, kanban, timeline"}
	}

	state, err := c.api.Sync(ctx)
	if err != nil {
		return nil, err
	}
	for i := range state.Projects {
		if state.Projects[i].Name == name {
			return &state.Projects[i], nil
		}
	}

	created, err := c.api.CreateProject(ctx, Project{
		Name:     name,
		Color:    NormalizeColor(color),
		ViewMode: viewMode,
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteProject deletes a project by id.
func (c *Client) DeleteProject(ctx context.Context, projectID string) error {
	if err := c.ensure("deleteProject"); err != nil {
		return err
	}
	if _, err := c.Project(ctx, projectID); err != nil {
		return err
	}
	return c.api.DeleteProject(ctx, projectID)
}

// ProjectTasks returns the tasks in a project.
func (c *Client) ProjectTasks(ctx context.Context, projectID string, includeCompleted bool) ([]Task, error) {
	if err := c.ensure("getProjectTasks"); err != nil {
		return nil, err
	}
	state, err := c.api.Sync(ctx)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range state.Projects {
		if state.Projects[i].ID == projectID {
			found = true
			break
		}
	}
	if !found && projectID != state.InboxID {
		return nil, &NotFoundError{Kind: "project", ID: projectID}
	}

	var tasks []Task
	for _, t := range state.Tasks {
		if t.ProjectID != projectID {
			continue
		}
		if t.Completed && !includeCompleted {
			continue
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// Tasks returns all tasks across projects.
func (c *Client) Tasks(ctx context.Context, includeCompleted bool) ([]Task, error) {
	if err := c.ensure("getTasks"); err != nil {
		return nil, err
	}
	state, err := c.api.Sync(ctx)
	if err != nil {
		return nil, err
	}

	var tasks []Task
	for _, t := range state.Tasks {
		if t.Completed && !includeCompleted {
			continue
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// CreateTask creates a new task. Priority must be one of {0, 1, 3, 5}.
func (c *Client) CreateTask(ctx context.Context, input TaskInput) (*Task, error) {
	if err := c.ensure("createTask"); err != nil {
		return nil, err
	}
	if input.Title == "" {
		return nil, &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if !ValidPriority(input.Priority) {
		return nil, &ValidationError{Field: "priority", Reason: "must be one of 0, 1, 3, 5"}
	}

	// Tasks without an explicit project land in the inbox.
	if input.ProjectID == "" {
		state, err := c.api.Sync(ctx)
		if err != nil {
			return nil, err
		}
		input.ProjectID = state.InboxID
	}

	created, err := c.api.CreateTask(ctx, Task{
		ProjectID: input.ProjectID,
		Title:     input.Title,
		Content:   input.Content,
		StartDate: input.StartDate,
		DueDate:   input.DueDate,
		Priority:  input.Priority,
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateTask applies a partial update to an existing task.
func (c *Client) UpdateTask(ctx context.Context, taskID string, update TaskUpdate) (*Task, error) {
	if err := c.ensure("updateTask"); err != nil {
		return nil, err
	}
	if update.Priority != UnsetPriority && !ValidPriority(update.Priority) {
		return nil, &ValidationError{Field: "priority", Reason: "must be one of 0, 1, 3, 5"}
	}

	task, err := c.findTask(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if update.ProjectID != "" {
		task.ProjectID = update.ProjectID
	}
	if update.Title != "" {
		task.Title = update.Title
	}
	if update.Content != "" {
		task.Content = update.Content
	}
	if !update.StartDate.IsZero() {
		task.StartDate = update.StartDate
	}
	if !update.DueDate.IsZero() {
		task.DueDate = update.DueDate
	}
	if update.Priority != UnsetPriority {
		task.Priority = update.Priority
	}

	updated, err := c.api.UpdateTask(ctx, *task)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteTask deletes a task. The project id may be empty, in which case
// the task's own project is used.
func (c *Client) DeleteTask(ctx context.Context, projectID, taskID string) error {
	if err := c.ensure("deleteTask"); err != nil {
		return err
	}
	task, err := c.findTask(ctx, taskID)
	if err != nil {
		return err
	}
	if projectID == "" {
		projectID = task.ProjectID
	}
	return c.api.DeleteTask(ctx, projectID, taskID)
}

// CompleteTask marks a task as completed. Completing an already
// completed task succeeds and returns the completed record.
func (c *Client) CompleteTask(ctx context.Context, taskID string) (*Task, error) {
	if err := c.ensure("completeTask"); err != nil {
		return nil, err
	}

	task, err := c.findTask(ctx, taskID)
	if err != nil {
		c.mu.Lock()
		done, ok := c.completed[taskID]
		c.mu.Unlock()
		if ok {
			return &done, nil
		}
		return nil, err
	}

	task.Completed = true
	updated, err := c.api.UpdateTask(ctx, *task)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.completed[taskID] = updated
	c.mu.Unlock()
	return &updated, nil
}

// SearchTasks returns tasks whose title or content contains the query,
// case-insensitively. Computed client-side over the full task list; the
// backend has no search endpoint.
func (c *Client) SearchTasks(ctx context.Context, query string) ([]Task, error) {
	tasks, err := c.Tasks(ctx, true)
	if err != nil {
		return nil, err
	}
	if query == "" {
		return tasks, nil
	}

	lowered := strings.ToLower(query)
	var matches []Task
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Title), lowered) ||
			strings.Contains(strings.ToLower(t.Content), lowered) {
			matches = append(matches, t)
		}
	}
	return matches, nil
}

// TasksByPriority returns tasks with exactly the given priority.
func (c *Client) TasksByPriority(ctx context.Context, priority int) ([]Task, error) {
	if !ValidPriority(priority) {
		return nil, &ValidationError{Field: "priority", Reason: "must be one of 0, 1, 3, 5"}
	}
	tasks, err := c.Tasks(ctx, true)
	if err != nil {
		return nil, err
	}

	var matches []Task
	for _, t := range tasks {
		if t.Priority == priority {
			matches = append(matches, t)
		}
	}
	return matches, nil
}

// TasksDueToday returns tasks whose due date falls on the current day.
func (c *Client) TasksDueToday(ctx context.Context) ([]Task, error) {
	tasks, err := c.Tasks(ctx, true)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var matches []Task
	for _, t := range tasks {
		if !t.DueDate.IsZero() && sameDay(t.DueDate.Local(), now) {
			matches = append(matches, t)
		}
	}
	return matches, nil
}

// OverdueTasks returns uncompleted tasks whose due date is before today.
func (c *Client) OverdueTasks(ctx context.Context) ([]Task, error) {
	tasks, err := c.Tasks(ctx, true)
	if err != nil {
		return nil, err
	}

	year, month, day := time.Now().Date()
	startOfToday := time.Date(year, month, day, 0, 0, 0, 0, time.Local)

	var matches []Task
	for _, t := range tasks {
		if t.Completed || t.DueDate.IsZero() {
			continue
		}
		if t.DueDate.Local().Before(startOfToday) {
			matches = append(matches, t)
		}
	}
	return matches, nil
}

// findTask locates a task by id in the synced state.
func (c *Client) findTask(ctx context.Context, taskID string) (*Task, error) {
	state, err := c.api.Sync(ctx)
	if err != nil {
		return nil, err
	}
	for i := range state.Tasks {
		if state.Tasks[i].ID == taskID {
			return &state.Tasks[i], nil
		}
	}
	return nil, &NotFoundError{Kind: "task", ID: taskID}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
