package domain

import "time"

// TaskStatus represents the stored state of a task.
// Blocked/waiting/ready are derived per snapshot (see ExecutionStatus),
// never stored.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusDone       TaskStatus = "done"
)

// Priority constants for convenience.
const (
	PriorityCritical = 0
	PriorityHigh     = 1
	PriorityNormal   = 2 // Default priority
	PriorityLow      = 3
	PriorityLowest   = 4
)

// ValidStatuses contains all valid stored task status values.
var ValidStatuses = []TaskStatus{StatusPending, StatusInProgress, StatusDone}

// IsValid checks if the status is a valid stored task status.
func (s TaskStatus) IsValid() bool {
	for _, v := range ValidStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Task represents a unit of work in the system.
// DependsOn lists the ids of upstream tasks this task waits on; it is
// populated when a full snapshot is loaded and is otherwise empty.
type Task struct {
	ID                   int64      `json:"id"`
	Title                string     `json:"title"`
	Description          *string    `json:"description,omitempty"`
	Status               TaskStatus `json:"status"`
	Priority             int        `json:"priority"`
	EstimatedEffortHours *float64   `json:"estimated_effort_hours,omitempty"`
	ClaimedBy            *string    `json:"claimed_by,omitempty"`
	ClaimedAt            *time.Time `json:"claimed_at,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
	DependsOn            []int64    `json:"depends_on,omitempty"`
}

// ValidPriority checks if the priority value is within valid range (0-4).
func ValidPriority(p int) bool {
	return p >= 0 && p <= 4
}

// ValidEffort checks if the effort estimate is non-negative.
func ValidEffort(hours float64) bool {
	return hours >= 0
}

// NewTask creates a new task with the given title and default values.
// Default status is StatusPending, default priority is 2 (normal).
// The ID is assigned by the store on insert.
func NewTask(title string) *Task {
	now := time.Now()
	return &Task{
		Title:     title,
		Status:    StatusPending,
		Priority:  PriorityNormal,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SetDescription sets the task description.
func (t *Task) SetDescription(desc string) {
	t.Description = &desc
}

// SetEstimatedEffort sets the task's effort estimate in hours.
func (t *Task) SetEstimatedEffort(hours float64) {
	t.EstimatedEffortHours = &hours
}
