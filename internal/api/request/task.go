package request

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/taskpath/taskpath/internal/domain"
)

// CreateTaskRequest represents a request to create a task.
type CreateTaskRequest struct {
	Title                string   `json:"title"`
	Description          *string  `json:"description,omitempty"`
	Priority             *int     `json:"priority,omitempty"`
	EstimatedEffortHours *float64 `json:"estimated_effort_hours,omitempty"`
}

// Validate validates the create task request.
func (r *CreateTaskRequest) Validate() []string {
	var errors []string

	if r.Title == "" {
		errors = append(errors, "title is required")
	}

	if r.Priority != nil && !domain.ValidPriority(*r.Priority) {
		errors = append(errors, "priority must be between 0 and 4")
	}

	if r.EstimatedEffortHours != nil && !domain.ValidEffort(*r.EstimatedEffortHours) {
		errors = append(errors, "estimated_effort_hours must be non-negative")
	}

	return errors
}

// UpdateTaskRequest represents a request to update a task.
type UpdateTaskRequest struct {
	Title                *string  `json:"title,omitempty"`
	Description          *string  `json:"description,omitempty"`
	Priority             *int     `json:"priority,omitempty"`
	EstimatedEffortHours *float64 `json:"estimated_effort_hours,omitempty"`
	ClearEffort          bool     `json:"clear_effort,omitempty"`
}

// Validate validates the update task request.
func (r *UpdateTaskRequest) Validate() []string {
	var errors []string

	if r.Title != nil && *r.Title == "" {
		errors = append(errors, "title cannot be empty")
	}

	if r.Priority != nil && !domain.ValidPriority(*r.Priority) {
		errors = append(errors, "priority must be between 0 and 4")
	}

	if r.EstimatedEffortHours != nil && !domain.ValidEffort(*r.EstimatedEffortHours) {
		errors = append(errors, "estimated_effort_hours must be non-negative")
	}

	if r.EstimatedEffortHours != nil && r.ClearEffort {
		errors = append(errors, "cannot set and clear estimated_effort_hours at once")
	}

	return errors
}

// DecodeJSON decodes JSON from request body into the given value.
func DecodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// ParseTaskID parses a task id path parameter.
func ParseTaskID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// Pagination contains pagination parameters.
type Pagination struct {
	Page    int
	PerPage int
}

// DefaultPage is the default page number.
const DefaultPage = 1

// DefaultPerPage is the default items per page.
const DefaultPerPage = 50

// MaxPerPage is the maximum items per page.
const MaxPerPage = 100

// ParsePagination extracts pagination from query parameters.
func ParsePagination(r *http.Request) Pagination {
	page := DefaultPage
	perPage := DefaultPerPage

	if p := r.URL.Query().Get("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}

	if pp := r.URL.Query().Get("per_page"); pp != "" {
		if v, err := strconv.Atoi(pp); err == nil && v > 0 {
			perPage = v
		}
	}

	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	return Pagination{Page: page, PerPage: perPage}
}

// ParseStatus extracts status filter from query parameters.
func ParseStatus(r *http.Request) *domain.TaskStatus {
	s := r.URL.Query().Get("status")
	if s == "" {
		return nil
	}

	status := domain.TaskStatus(s)
	if !status.IsValid() {
		return nil
	}
	return &status
}
