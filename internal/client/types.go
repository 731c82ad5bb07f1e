package client

import "github.com/taskpath/taskpath/internal/domain"

// TaskListResponse represents a paginated list of tasks.
type TaskListResponse struct {
	Data       []*domain.Task
	Pagination *Pagination
}

// Pagination contains pagination metadata from API responses.
type Pagination struct {
	Page       int
	PerPage    int
	Total      int
	TotalPages int
}

// TaskUpdates contains optional fields for updating a task.
type TaskUpdates struct {
	Title                *string
	Description          *string
	Priority             *int
	EstimatedEffortHours *float64
	ClearEffort          bool
}

// paginatedTaskResponse is the raw JSON structure for paginated task responses.
type paginatedTaskResponse struct {
	Data       []*domain.Task     `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

// paginatedAuditResponse is the raw JSON structure for paginated audit responses.
type paginatedAuditResponse struct {
	Data       []domain.AuditEntry `json:"data"`
	Pagination paginationResponse  `json:"pagination"`
}

// AuditListResponse represents a paginated slice of the audit log.
type AuditListResponse struct {
	Data       []domain.AuditEntry
	Pagination *Pagination
}

// paginationResponse is the raw JSON structure for pagination metadata.
type paginationResponse struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// createTaskRequest is the JSON request body for creating a task.
type createTaskRequest struct {
	Title                string   `json:"title"`
	Description          *string  `json:"description,omitempty"`
	Priority             *int     `json:"priority,omitempty"`
	EstimatedEffortHours *float64 `json:"estimated_effort_hours,omitempty"`
}

// updateTaskRequest is the JSON request body for updating a task.
type updateTaskRequest struct {
	Title                *string  `json:"title,omitempty"`
	Description          *string  `json:"description,omitempty"`
	Priority             *int     `json:"priority,omitempty"`
	EstimatedEffortHours *float64 `json:"estimated_effort_hours,omitempty"`
	ClearEffort          bool     `json:"clear_effort,omitempty"`
}

// addDependencyRequest is the JSON request body for adding a dependency.
type addDependencyRequest struct {
	ParentID int64 `json:"parent_id"`
}

// graphStatusResponse is the JSON response for the graph status endpoint.
// Map keys arrive as decimal strings because JSON object keys are strings.
type graphStatusResponse struct {
	Statuses map[string]domain.ExecutionStatus `json:"statuses"`
}

// relatedTasksResponse is the JSON response for the related tasks endpoint.
type relatedTasksResponse struct {
	TaskID         int64   `json:"task_id"`
	RelatedTaskIDs []int64 `json:"related_task_ids"`
}
