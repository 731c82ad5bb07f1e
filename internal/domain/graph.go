package domain

// ExecutionStatus is the derived readiness classification of a task.
// It is computed fresh from a snapshot on every request and never persisted,
// so stored state cannot drift from the true dependency state.
type ExecutionStatus string

const (
	// ExecDone - the task itself is done.
	ExecDone ExecutionStatus = "done"
	// ExecBlocked - at least one unfinished dependency is not being worked on.
	ExecBlocked ExecutionStatus = "blocked"
	// ExecWaiting - every unfinished dependency is in progress.
	ExecWaiting ExecutionStatus = "waiting"
	// ExecReady - all dependencies (if any) are done.
	ExecReady ExecutionStatus = "ready"
)

// CriticalPathResult is the longest dependency chain through the task graph
// by estimated duration, ordered root to leaf.
type CriticalPathResult struct {
	TaskIDs           []int64 `json:"task_ids"`
	TotalDurationDays float64 `json:"total_duration_days"`
}
