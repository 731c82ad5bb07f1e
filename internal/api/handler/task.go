package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taskpath/taskpath/internal/api/middleware"
	"github.com/taskpath/taskpath/internal/api/request"
	"github.com/taskpath/taskpath/internal/api/response"
	"github.com/taskpath/taskpath/internal/domain"
	"github.com/taskpath/taskpath/internal/service"
	"github.com/taskpath/taskpath/internal/store/sqlite"
)

// TaskHandler handles task CRUD operations.
type TaskHandler struct{}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler() *TaskHandler {
	return &TaskHandler{}
}

// taskID parses the {id} path parameter, writing a validation error on failure.
func taskID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, ok := request.ParseTaskID(chi.URLParam(r, "id"))
	if !ok {
		response.Error(w, domain.NewValidationError([]string{"Invalid task id"}))
	}
	return id, ok
}

// CreateTask handles POST /tasks.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req request.CreateTaskRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, domain.NewValidationError([]string{"Invalid JSON body"}))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		response.Error(w, domain.NewValidationError(errors))
		return
	}

	db := middleware.GetDB(r.Context())
	agentID := middleware.GetAgentID(r.Context())

	taskRepo := sqlite.NewTaskRepository(db)
	auditRepo := sqlite.NewAuditRepository(db)
	svc := service.NewTaskService(taskRepo, auditRepo)

	task, err := svc.Create(service.CreateTaskInput{
		Title:                req.Title,
		Description:          req.Description,
		Priority:             req.Priority,
		EstimatedEffortHours: req.EstimatedEffortHours,
	}, agentID)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Created(w, task)
}

// GetTask handles GET /tasks/{id}.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	db := middleware.GetDB(r.Context())
	taskRepo := sqlite.NewTaskRepository(db)
	auditRepo := sqlite.NewAuditRepository(db)
	svc := service.NewTaskService(taskRepo, auditRepo)

	task, err := svc.Get(id)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, task)
}

// ListTasks handles GET /tasks.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	pagination := request.ParsePagination(r)
	status := request.ParseStatus(r)

	db := middleware.GetDB(r.Context())
	taskRepo := sqlite.NewTaskRepository(db)
	auditRepo := sqlite.NewAuditRepository(db)
	svc := service.NewTaskService(taskRepo, auditRepo)

	tasks, total, err := svc.List(service.ListTasksInput{
		Status:  status,
		Page:    pagination.Page,
		PerPage: pagination.PerPage,
	})
	if err != nil {
		response.Error(w, err)
		return
	}

	if tasks == nil {
		tasks = []*domain.Task{}
	}

	response.Paginated(w, tasks, pagination.Page, pagination.PerPage, total)
}

// ListReadyTasks handles GET /tasks/ready.
func (h *TaskHandler) ListReadyTasks(w http.ResponseWriter, r *http.Request) {
	pagination := request.ParsePagination(r)

	db := middleware.GetDB(r.Context())
	taskRepo := sqlite.NewTaskRepository(db)
	auditRepo := sqlite.NewAuditRepository(db)
	svc := service.NewTaskService(taskRepo, auditRepo)

	tasks, total, err := svc.ListReady(pagination.Page, pagination.PerPage)
	if err != nil {
		response.Error(w, err)
		return
	}

	if tasks == nil {
		tasks = []*domain.Task{}
	}

	response.Paginated(w, tasks, pagination.Page, pagination.PerPage, total)
}

// UpdateTask handles PATCH /tasks/{id}.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	var req request.UpdateTaskRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, domain.NewValidationError([]string{"Invalid JSON body"}))
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		response.Error(w, domain.NewValidationError(errors))
		return
	}

	db := middleware.GetDB(r.Context())
	agentID := middleware.GetAgentID(r.Context())

	taskRepo := sqlite.NewTaskRepository(db)
	auditRepo := sqlite.NewAuditRepository(db)
	svc := service.NewTaskService(taskRepo, auditRepo)

	input := service.UpdateTaskInput{
		Description: req.Description,
		Priority:    req.Priority,
	}
	if req.Title != nil {
		input.Title = *req.Title
		input.TitleSet = true
	}
	if req.EstimatedEffortHours != nil || req.ClearEffort {
		input.EstimatedEffortHours = req.EstimatedEffortHours
		input.EffortSet = true
	}

	task, err := svc.Update(id, input, agentID)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, task)
}

// DeleteTask handles DELETE /tasks/{id}.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	db := middleware.GetDB(r.Context())
	agentID := middleware.GetAgentID(r.Context())

	taskRepo := sqlite.NewTaskRepository(db)
	auditRepo := sqlite.NewAuditRepository(db)
	svc := service.NewTaskService(taskRepo, auditRepo)

	if err := svc.Delete(id, agentID); err != nil {
		response.Error(w, err)
		return
	}

	response.NoContent(w)
}
