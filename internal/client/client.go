package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/taskpath/taskpath/internal/domain"
)

// Client is an HTTP client for the Taskpath server API.
type Client struct {
	baseURL string       // http://host:port
	agentID string       // X-Taskpath-Agent header value
	project string       // Project name for URL paths
	http    *http.Client // HTTP client
}

// NewClient creates a new Taskpath API client.
func NewClient(host string, port int, project string, agentID string) *Client {
	return &Client{
		baseURL: fmt.Sprintf("http://%s:%d", host, port),
		agentID: agentID,
		project: project,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// =============================================================================
// Health
// =============================================================================

// Health checks if the server is healthy.
func (c *Client) Health(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/v1/health", nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if isConnectionRefused(err) {
			return ErrServerNotRunning
		}
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ErrServerUnhealthy
	}

	return nil
}

// ListProjects returns a list of all project names.
func (c *Client) ListProjects(ctx context.Context) ([]string, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/v1/projects", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if isConnectionRefused(err) {
			return nil, ErrServerNotRunning
		}
		return nil, fmt.Errorf("list projects failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, parseErrorResponse(resp)
	}

	var projects []string
	if err := json.NewDecoder(resp.Body).Decode(&projects); err != nil {
		return nil, fmt.Errorf("failed to decode projects response: %w", err)
	}

	return projects, nil
}

// =============================================================================
// Task CRUD
// =============================================================================

// CreateTask creates a new task.
func (c *Client) CreateTask(ctx context.Context, title, description string, priority int, effortHours *float64) (*domain.Task, error) {
	body := createTaskRequest{
		Title: title,
	}
	if description != "" {
		body.Description = &description
	}
	body.Priority = &priority
	body.EstimatedEffortHours = effortHours

	req, err := c.newJSONRequest(ctx, http.MethodPost, c.projectPath("/tasks"), body)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if isConnectionRefused(err) {
			return nil, ErrServerNotRunning
		}
		return nil, fmt.Errorf("create task failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, parseErrorResponse(resp)
	}

	var task domain.Task
	if err := json.NewDecoder(resp.Body).Decode(&task); err != nil {
		return nil, fmt.Errorf("failed to decode task response: %w", err)
	}

	return &task, nil
}

// GetTask retrieves a task by ID.
func (c *Client) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.taskPath(id, ""), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if isConnectionRefused(err) {
			return nil, ErrServerNotRunning
		}
		return nil, fmt.Errorf("get task failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, parseErrorResponse(resp)
	}

	var task domain.Task
	if err := json.NewDecoder(resp.Body).Decode(&task); err != nil {
		return nil, fmt.Errorf("failed to decode task response: %w", err)
	}

	return &task, nil
}

// ListTasks lists tasks with optional filtering.
func (c *Client) ListTasks(ctx context.Context, status string, page, perPage int) (*TaskListResponse, error) {
	path := c.projectPath("/tasks")

	params := url.Values{}
	if status != "" {
		params.Set("status", status)
	}
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))
	path = path + "?" + params.Encode()

	return c.fetchTaskPage(ctx, path, "list tasks")
}

// ListReadyTasks lists tasks that are ready to be worked on.
func (c *Client) ListReadyTasks(ctx context.Context, page, perPage int) (*TaskListResponse, error) {
	path := c.projectPath("/tasks/ready")

	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))
	path = path + "?" + params.Encode()

	return c.fetchTaskPage(ctx, path, "list ready tasks")
}

// fetchTaskPage performs a GET that yields a paginated task list.
func (c *Client) fetchTaskPage(ctx context.Context, path, op string) (*TaskListResponse, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if isConnectionRefused(err) {
			return nil, ErrServerNotRunning
		}
		return nil, fmt.Errorf("%s failed: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, parseErrorResponse(resp)
	}

	var paginatedResp paginatedTaskResponse
	if err := json.NewDecoder(resp.Body).Decode(&paginatedResp); err != nil {
		return nil, fmt.Errorf("failed to decode tasks response: %w", err)
	}

	return &TaskListResponse{
		Data: paginatedResp.Data,
		Pagination: &Pagination{
			Page:       paginatedResp.Pagination.Page,
			PerPage:    paginatedResp.Pagination.PerPage,
			Total:      paginatedResp.Pagination.Total,
			TotalPages: paginatedResp.Pagination.TotalPages,
		},
	}, nil
}

// UpdateTask updates a task.
func (c *Client) UpdateTask(ctx context.Context, id int64, updates TaskUpdates) (*domain.Task, error) {
	body := updateTaskRequest{
		Title:                updates.Title,
		Description:          updates.Description,
		Priority:             updates.Priority,
		EstimatedEffortHours: updates.EstimatedEffortHours,
		ClearEffort:          updates.ClearEffort,
	}

	req, err := c.newJSONRequest(ctx, http.MethodPatch, c.taskPath(id, ""), body)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if isConnectionRefused(err) {
			return nil, ErrServerNotRunning
		}
		return nil, fmt.Errorf("update task failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, parseErrorResponse(resp)
	}

	var task domain.Task
	if err := json.NewDecoder(resp.Body).Decode(&task); err != nil {
		return nil, fmt.Errorf("failed to decode task response: %w", err)
	}

	return &task, nil
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	req, err := c.newRequest(ctx, http.MethodDelete, c.taskPath(id, ""), nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if isConnectionRefused(err) {
			return ErrServerNotRunning
		}
		return fmt.Errorf("delete task failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return parseErrorResponse(resp)
	}

	return nil
}

// =============================================================================
// Status Transitions
// =============================================================================

// ClaimTask claims a task for the current agent.
func (c *Client) ClaimTask(ctx context.Context, id int64) (*domain.Task, error) {
	return c.doTransition(ctx, id, "claim")
}

// CompleteTask marks a task as complete.
func (c *Client) CompleteTask(ctx context.Context, id int64) (*domain.Task, error) {
	return c.doTransition(ctx, id, "done")
}

// ReleaseTask releases a claimed task.
func (c *Client) ReleaseTask(ctx context.Context, id int64, force bool) (*domain.Task, error) {
	path := c.taskPath(id, "/release")
	if force {
		path = path + "?force=true"
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if isConnectionRefused(err) {
			return nil, ErrServerNotRunning
		}
		return nil, fmt.Errorf("release task failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, parseErrorResponse(resp)
	}

	var task domain.Task
	if err := json.NewDecoder(resp.Body).Decode(&task); err != nil {
		return nil, fmt.Errorf("failed to decode task response: %w", err)
	}

	return &task, nil
}

// doTransition performs a status transition on a task.
func (c *Client) doTransition(ctx context.Context, id int64, action string) (*domain.Task, error) {
	req, err := c.newRequest(ctx, http.MethodPost, c.taskPath(id, "/"+action), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if isConnectionRefused(err) {
			return nil, ErrServerNotRunning
		}
		return nil, fmt.Errorf("%s task failed: %w", action, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, parseErrorResponse(resp)
	}

	var task domain.Task
	if err := json.NewDecoder(resp.Body).Decode(&task); err != nil {
		return nil, fmt.Errorf("failed to decode task response: %w", err)
	}

	return &task, nil
}

// =============================================================================
// Dependencies
// =============================================================================

// AddDependency adds a dependency between two tasks.
func (c *Client) AddDependency(ctx context.Context, childID, parentID int64) error {
	body := addDependencyRequest{
		ParentID: parentID,
	}

	req, err := c.newJSONRequest(ctx, http.MethodPost, c.taskPath(childID, "/deps"), body)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if isConnectionRefused(err) {
			return ErrServerNotRunning
		}
		return fmt.Errorf("add dependency failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return parseErrorResponse(resp)
	}

	// Drain and discard response body
	io.Copy(io.Discard, resp.Body)

	return nil
}

// RemoveDependency removes a dependency between two tasks.
func (c *Client) RemoveDependency(ctx context.Context, childID, parentID int64) error {
	req, err := c.newRequest(ctx, http.MethodDelete, c.taskPath(childID, "/deps/"+strconv.FormatInt(parentID, 10)), nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if isConnectionRefused(err) {
			return ErrServerNotRunning
		}
		return fmt.Errorf("remove dependency failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return parseErrorResponse(resp)
	}

	return nil
}

// ListDependencies lists dependencies for a task.
func (c *Client) ListDependencies(ctx context.Context, taskID int64) ([]domain.Dependency, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.taskPath(taskID, "/deps"), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if isConnectionRefused(err) {
			return nil, ErrServerNotRunning
		}
		return nil, fmt.Errorf("list dependencies failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, parseErrorResponse(resp)
	}

	var deps []domain.Dependency
	if err := json.NewDecoder(resp.Body).Decode(&deps); err != nil {
		return nil, fmt.Errorf("failed to decode dependencies response: %w", err)
	}

	return deps, nil
}

// =============================================================================
// Graph
// =============================================================================

// GraphStatuses retrieves the derived execution status of every task.
func (c *Client) GraphStatuses(ctx context.Context) (map[int64]domain.ExecutionStatus, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.projectPath("/graph/status"), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if isConnectionRefused(err) {
			return nil, ErrServerNotRunning
		}
		return nil, fmt.Errorf("graph status failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, parseErrorResponse(resp)
	}

	var raw graphStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode graph status response: %w", err)
	}

	statuses := make(map[int64]domain.ExecutionStatus, len(raw.Statuses))
	for key, status := range raw.Statuses {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid task id %q in graph status response", key)
		}
		statuses[id] = status
	}

	return statuses, nil
}

// CriticalPath retrieves the longest dependency chain by estimated duration.
func (c *Client) CriticalPath(ctx context.Context) (*domain.CriticalPathResult, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.projectPath("/graph/critical-path"), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if isConnectionRefused(err) {
			return nil, ErrServerNotRunning
		}
		return nil, fmt.Errorf("critical path failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, parseErrorResponse(resp)
	}

	var result domain.CriticalPathResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode critical path response: %w", err)
	}

	return &result, nil
}

// RelatedTasks retrieves every task transitively connected to the given task.
func (c *Client) RelatedTasks(ctx context.Context, taskID int64) ([]int64, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.taskPath(taskID, "/related"), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if isConnectionRefused(err) {
			return nil, ErrServerNotRunning
		}
		return nil, fmt.Errorf("related tasks failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, parseErrorResponse(resp)
	}

	var raw relatedTasksResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode related tasks response: %w", err)
	}

	return raw.RelatedTaskIDs, nil
}

// =============================================================================
// Audit
// =============================================================================

// GetTaskHistory retrieves the audit history for a task.
func (c *Client) GetTaskHistory(ctx context.Context, taskID int64) ([]domain.AuditEntry, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.taskPath(taskID, "/history"), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if isConnectionRefused(err) {
			return nil, ErrServerNotRunning
		}
		return nil, fmt.Errorf("get task history failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, parseErrorResponse(resp)
	}

	var entries []domain.AuditEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to decode audit entries response: %w", err)
	}

	return entries, nil
}

// QueryAuditLog queries the project audit log with optional filters.
func (c *Client) QueryAuditLog(ctx context.Context, action, agent string, page, perPage int) (*AuditListResponse, error) {
	path := c.projectPath("/audit")

	params := url.Values{}
	if action != "" {
		params.Set("action", action)
	}
	if agent != "" {
		params.Set("agent", agent)
	}
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))
	path = path + "?" + params.Encode()

	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if isConnectionRefused(err) {
			return nil, ErrServerNotRunning
		}
		return nil, fmt.Errorf("query audit log failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, parseErrorResponse(resp)
	}

	var raw paginatedAuditResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode audit log response: %w", err)
	}

	return &AuditListResponse{
		Data: raw.Data,
		Pagination: &Pagination{
			Page:       raw.Pagination.Page,
			PerPage:    raw.Pagination.PerPage,
			Total:      raw.Pagination.Total,
			TotalPages: raw.Pagination.TotalPages,
		},
	}, nil
}

// =============================================================================
// Helper Methods
// =============================================================================

// projectPath constructs a URL path with the project prefix.
func (c *Client) projectPath(path string) string {
	return "/v1/projects/" + c.project + path
}

// taskPath constructs a URL path for a task-scoped endpoint.
func (c *Client) taskPath(id int64, suffix string) string {
	return c.projectPath("/tasks/" + strconv.FormatInt(id, 10) + suffix)
}

// newRequest creates a new HTTP request with common headers.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	reqURL := c.baseURL + path

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-Taskpath-Agent", c.agentID)

	return req, nil
}

// newJSONRequest creates a new HTTP request with JSON body.
func (c *Client) newJSONRequest(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := c.newRequest(ctx, method, path, &buf)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")

	return req, nil
}
