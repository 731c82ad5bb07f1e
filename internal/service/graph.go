package service

import (
	"database/sql"

	"github.com/taskpath/taskpath/internal/domain"
	"github.com/taskpath/taskpath/internal/graph"
	"github.com/taskpath/taskpath/internal/store/sqlite"
)

// GraphService exposes the derived-state computations of the graph engine.
// Every call loads a fresh snapshot from the store and hands it to the
// engine; nothing derived is cached or written back.
type GraphService struct {
	taskRepo *sqlite.TaskRepository
}

// NewGraphService creates a new GraphService.
func NewGraphService(taskRepo *sqlite.TaskRepository) *GraphService {
	return &GraphService{taskRepo: taskRepo}
}

// Statuses computes the execution status of every task.
func (s *GraphService) Statuses() (map[int64]domain.ExecutionStatus, error) {
	tasks, err := s.taskRepo.Snapshot()
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	return graph.ComputeExecutionStatus(tasks)
}

// CriticalPath computes the longest dependency chain by estimated duration.
func (s *GraphService) CriticalPath() (*domain.CriticalPathResult, error) {
	tasks, err := s.taskRepo.Snapshot()
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	return graph.ComputeCriticalPath(tasks)
}

// Related computes the bidirectional closure of the focus task.
func (s *GraphService) Related(focusID int64) ([]int64, error) {
	// Distinguish "task missing" from malformed edges before the engine runs.
	if _, err := s.taskRepo.GetByID(focusID); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.NewTaskNotFoundError(focusID)
		}
		return nil, domain.NewInternalError(err)
	}

	tasks, err := s.taskRepo.Snapshot()
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	related, err := graph.ComputeRelatedTaskIDs(tasks, focusID)
	if err != nil {
		return nil, err
	}

	// The engine includes the focus task in the closure; callers only want
	// its relatives.
	out := related[:0]
	for _, id := range related {
		if id != focusID {
			out = append(out, id)
		}
	}
	return out, nil
}
