package ticktick

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// DefaultBaseURL is the TickTick v2 API endpoint.
const DefaultBaseURL = "https://api.ticktick.com/api/v2"

const defaultTimeout = 30 * time.Second

// API is a minimal client for the private TickTick v2 API. It owns the
// session token obtained from Signon; all other calls require it.
type API struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// NewAPI creates an API client against the default TickTick endpoint.
func NewAPI() *API {
	return NewAPIWithBaseURL(DefaultBaseURL)
}

// NewAPIWithBaseURL creates an API client against a custom endpoint.
// Used by tests to point the client at a local server.
func NewAPIWithBaseURL(baseURL string) *API {
	return &API{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// Token returns the current session token, or "" if not signed on.
func (a *API) Token() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.token
}

// SetToken installs a previously obtained session token.
func (a *API) SetToken(token string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.token = token
}

// ClearToken drops the session token.
func (a *API) ClearToken() {
	a.SetToken("")
}

type signonRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type signonResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// Signon authenticates with username and password and stores the returned
// session token on the client.
func (a *API) Signon(ctx context.Context, username, password string) (string, error) {
	var resp signonResponse
	err := a.do(ctx, http.MethodPost, "/user/signon?wc=true&remember=true",
		signonRequest{Username: username, Password: password}, &resp)
	if err != nil {
		var backendErr *BackendError
		if errors.As(err, &backendErr) && isAuthStatus(backendErr.StatusCode) {
			return "", &AuthError{Op: "signon", Err: fmt.Errorf("invalid username or password")}
		}
		return "", err
	}
	if resp.Token == "" {
		return "", &AuthError{Op: "signon", Err: fmt.Errorf("no session token in response")}
	}

	a.SetToken(resp.Token)
	return resp.Token, nil
}

// State holds the synced account state: all projects and all
// uncompleted tasks.
type State struct {
	InboxID  string
	Projects []Project
	Tasks    []Task
}

type syncResponse struct {
	InboxID         string        `json:"inboxId"`
	ProjectProfiles []*apiProject `json:"projectProfiles"`
	SyncTaskBean    struct {
		Update []*apiTask `json:"update"`
	} `json:"syncTaskBean"`
}

// Sync fetches the full account state from the batch/check endpoint.
func (a *API) Sync(ctx context.Context) (*State, error) {
	var resp syncResponse
	if err := a.do(ctx, http.MethodGet, "/batch/check/0", nil, &resp); err != nil {
		return nil, err
	}

	state := &State{InboxID: resp.InboxID}
	for _, p := range resp.ProjectProfiles {
		state.Projects = append(state.Projects, toProject(p))
	}
	for _, t := range resp.SyncTaskBean.Update {
		state.Tasks = append(state.Tasks, toTask(t))
	}
	return state, nil
}

type projectBatch struct {
	Add    []apiProject `json:"add,omitempty"`
	Delete []string     `json:"delete,omitempty"`
}

// CreateProject creates a new project. The id is assigned client-side,
// as the batch endpoints require.
func (a *API) CreateProject(ctx context.Context, project Project) (Project, error) {
	if project.ID == "" {
		project.ID = newObjectID()
	}

	batch := projectBatch{Add: []apiProject{{
		ID:       project.ID,
		Name:     project.Name,
		Color:    project.Color,
		ViewMode: project.ViewMode,
	}}}

	if err := a.do(ctx, http.MethodPost, "/batch/project", batch, nil); err != nil {
		return Project{}, err
	}
	if project.ViewMode == "" {
		project.ViewMode = "list"
	}
	return project, nil
}

// DeleteProject deletes a project by id.
func (a *API) DeleteProject(ctx context.Context, projectID string) error {
	return a.do(ctx, http.MethodPost, "/batch/project", projectBatch{Delete: []string{projectID}}, nil)
}

type taskDelete struct {
	ProjectID string `json:"projectId"`
	TaskID    string `json:"taskId"`
}

type taskBatch struct {
	Add    []apiTask    `json:"add,omitempty"`
	Update []apiTask    `json:"update,omitempty"`
	Delete []taskDelete `json:"delete,omitempty"`
}

// CreateTask creates a new task. The id is assigned client-side.
func (a *API) CreateTask(ctx context.Context, task Task) (Task, error) {
	if task.ID == "" {
		task.ID = newObjectID()
	}
	if task.TimeZone == "" {
		task.TimeZone = time.Local.String()
	}

	batch := taskBatch{Add: []apiTask{fromTask(task)}}
	if err := a.do(ctx, http.MethodPost, "/batch/task", batch, nil); err != nil {
		return Task{}, err
	}
	return task, nil
}

// UpdateTask pushes the full task record to the backend.
func (a *API) UpdateTask(ctx context.Context, task Task) (Task, error) {
	batch := taskBatch{Update: []apiTask{fromTask(task)}}
	if err := a.do(ctx, http.MethodPost, "/batch/task", batch, nil); err != nil {
		return Task{}, err
	}
	return task, nil
}

// DeleteTask deletes a task from a project.
func (a *API) DeleteTask(ctx context.Context, projectID, taskID string) error {
	batch := taskBatch{Delete: []taskDelete{{ProjectID: projectID, TaskID: taskID}}}
	return a.do(ctx, http.MethodPost, "/batch/task", batch, nil)
}

// do performs a single request against the API. A non-2xx status is
// reported as AuthError (401/403) or BackendError; there is no retry.
func (a *API) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return &BackendError{Op: path, Err: fmt.Errorf("failed to encode request: %w", err)}
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reqBody)
	if err != nil {
		return &BackendError{Op: path, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "ticktick-mcp")
	if token := a.Token(); token != "" {
		req.AddCookie(&http.Cookie{Name: "t", Value: token})
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return &BackendError{Op: path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if isAuthStatus(resp.StatusCode) && a.Token() != "" {
			return &AuthError{Op: path, Err: fmt.Errorf("session rejected with status %d", resp.StatusCode)}
		}
		return &BackendError{Op: path, StatusCode: resp.StatusCode}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &BackendError{Op: path, Err: fmt.Errorf("failed to decode response: %w", err)}
		}
	}
	return nil
}

func isAuthStatus(status int) bool {
	return status == http.StatusUnauthorized || status == http.StatusForbidden
}
