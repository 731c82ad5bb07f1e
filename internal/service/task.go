package service

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/taskpath/taskpath/internal/domain"
	"github.com/taskpath/taskpath/internal/store/sqlite"
)

// TaskService handles task business logic.
type TaskService struct {
	taskRepo  *sqlite.TaskRepository
	auditRepo *sqlite.AuditRepository
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo *sqlite.TaskRepository, auditRepo *sqlite.AuditRepository) *TaskService {
	return &TaskService{
		taskRepo:  taskRepo,
		auditRepo: auditRepo,
	}
}

// CreateTaskInput contains the input for creating a task.
type CreateTaskInput struct {
	Title                string
	Description          *string
	Priority             *int
	EstimatedEffortHours *float64
}

// Create creates a new task.
func (s *TaskService) Create(input CreateTaskInput, agentID string) (*domain.Task, error) {
	now := time.Now().UTC()
	priority := domain.PriorityNormal
	if input.Priority != nil {
		priority = *input.Priority
	}

	task := &domain.Task{
		Title:                input.Title,
		Description:          input.Description,
		Status:               domain.StatusPending,
		Priority:             priority,
		EstimatedEffortHours: input.EstimatedEffortHours,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, domain.NewInternalError(err)
	}

	// Log creation
	s.auditRepo.Log(&domain.AuditEntry{
		TaskID:    task.ID,
		Action:    domain.ActionCreate,
		ChangedAt: now,
		ChangedBy: agentID,
	})

	return task, nil
}

// Get retrieves a task by ID.
func (s *TaskService) Get(id int64) (*domain.Task, error) {
	task, err := s.taskRepo.GetByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.NewTaskNotFoundError(id)
		}
		return nil, domain.NewInternalError(err)
	}
	return task, nil
}

// ListTasksInput contains the input for listing tasks.
type ListTasksInput struct {
	Status  *domain.TaskStatus
	Page    int
	PerPage int
}

// List retrieves tasks with pagination.
func (s *TaskService) List(input ListTasksInput) ([]*domain.Task, int, error) {
	tasks, total, err := s.taskRepo.List(input.Status, input.Page, input.PerPage)
	if err != nil {
		return nil, 0, domain.NewInternalError(err)
	}
	return tasks, total, nil
}

// ListReady retrieves pending tasks with no incomplete dependencies.
func (s *TaskService) ListReady(page, perPage int) ([]*domain.Task, int, error) {
	tasks, total, err := s.taskRepo.ListReady(page, perPage)
	if err != nil {
		return nil, 0, domain.NewInternalError(err)
	}
	return tasks, total, nil
}

// UpdateTaskInput contains the input for updating a task.
type UpdateTaskInput struct {
	Title                string
	Description          *string
	Priority             *int
	EstimatedEffortHours *float64
	TitleSet             bool
	EffortSet            bool
}

// Update updates a task.
func (s *TaskService) Update(id int64, input UpdateTaskInput, agentID string) (*domain.Task, error) {
	task, err := s.taskRepo.GetByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.NewTaskNotFoundError(id)
		}
		return nil, domain.NewInternalError(err)
	}

	now := time.Now().UTC()

	// Track changes for audit
	if input.TitleSet && input.Title != task.Title {
		s.auditRepo.Log(&domain.AuditEntry{
			TaskID:    id,
			Action:    domain.ActionUpdate,
			Field:     strPtr("title"),
			OldValue:  &task.Title,
			NewValue:  &input.Title,
			ChangedAt: now,
			ChangedBy: agentID,
		})
		task.Title = input.Title
	}

	if input.Description != nil {
		oldDesc := ""
		if task.Description != nil {
			oldDesc = *task.Description
		}
		if *input.Description != oldDesc {
			s.auditRepo.Log(&domain.AuditEntry{
				TaskID:    id,
				Action:    domain.ActionUpdate,
				Field:     strPtr("description"),
				OldValue:  task.Description,
				NewValue:  input.Description,
				ChangedAt: now,
				ChangedBy: agentID,
			})
			task.Description = input.Description
		}
	}

	if input.Priority != nil && *input.Priority != task.Priority {
		oldPriority := strconv.Itoa(task.Priority)
		newPriority := strconv.Itoa(*input.Priority)
		s.auditRepo.Log(&domain.AuditEntry{
			TaskID:    id,
			Action:    domain.ActionUpdate,
			Field:     strPtr("priority"),
			OldValue:  &oldPriority,
			NewValue:  &newPriority,
			ChangedAt: now,
			ChangedBy: agentID,
		})
		task.Priority = *input.Priority
	}

	if input.EffortSet {
		oldEffort := formatEffort(task.EstimatedEffortHours)
		newEffort := formatEffort(input.EstimatedEffortHours)
		if oldEffort != newEffort {
			s.auditRepo.Log(&domain.AuditEntry{
				TaskID:    id,
				Action:    domain.ActionUpdate,
				Field:     strPtr("estimated_effort_hours"),
				OldValue:  &oldEffort,
				NewValue:  &newEffort,
				ChangedAt: now,
				ChangedBy: agentID,
			})
			task.EstimatedEffortHours = input.EstimatedEffortHours
		}
	}

	task.UpdatedAt = now

	if err := s.taskRepo.Update(task); err != nil {
		return nil, domain.NewInternalError(err)
	}

	return task, nil
}

// Delete deletes a task.
func (s *TaskService) Delete(id int64, agentID string) error {
	// Check if task exists
	_, err := s.taskRepo.GetByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.NewTaskNotFoundError(id)
		}
		return domain.NewInternalError(err)
	}

	// Log deletion before deleting
	now := time.Now().UTC()
	s.auditRepo.Log(&domain.AuditEntry{
		TaskID:    id,
		Action:    domain.ActionDelete,
		ChangedAt: now,
		ChangedBy: agentID,
	})

	if err := s.taskRepo.Delete(id); err != nil {
		return domain.NewInternalError(err)
	}

	return nil
}

func strPtr(s string) *string {
	return &s
}

func formatEffort(hours *float64) string {
	if hours == nil {
		return ""
	}
	return strconv.FormatFloat(*hours, 'f', -1, 64)
}
