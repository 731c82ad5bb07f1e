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

// DependencyHandler handles dependency operations.
type DependencyHandler struct{}

// NewDependencyHandler creates a new DependencyHandler.
func NewDependencyHandler() *DependencyHandler {
	return &DependencyHandler{}
}

// ListDependencies handles GET /tasks/{id}/deps.
func (h *DependencyHandler) ListDependencies(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	db := middleware.GetDB(r.Context())
	depRepo := sqlite.NewDependencyRepository(db)
	taskRepo := sqlite.NewTaskRepository(db)
	auditRepo := sqlite.NewAuditRepository(db)
	svc := service.NewDependencyService(depRepo, taskRepo, auditRepo)

	deps, err := svc.List(id)
	if err != nil {
		response.Error(w, err)
		return
	}

	if deps == nil {
		deps = []*domain.Dependency{}
	}

	response.OK(w, deps)
}

// AddDependency handles POST /tasks/{id}/deps.
func (h *DependencyHandler) AddDependency(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	var req request.AddDependencyRequest
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

	depRepo := sqlite.NewDependencyRepository(db)
	taskRepo := sqlite.NewTaskRepository(db)
	auditRepo := sqlite.NewAuditRepository(db)
	svc := service.NewDependencyService(depRepo, taskRepo, auditRepo)

	if err := svc.Add(id, req.ParentID, agentID); err != nil {
		response.Error(w, err)
		return
	}

	response.Created(w, map[string]int64{
		"child_id":  id,
		"parent_id": req.ParentID,
	})
}

// RemoveDependency handles DELETE /tasks/{id}/deps/{depID}.
func (h *DependencyHandler) RemoveDependency(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	parentID, ok := request.ParseTaskID(chi.URLParam(r, "depID"))
	if !ok {
		response.Error(w, domain.NewValidationError([]string{"Invalid dependency id"}))
		return
	}

	db := middleware.GetDB(r.Context())
	agentID := middleware.GetAgentID(r.Context())

	depRepo := sqlite.NewDependencyRepository(db)
	taskRepo := sqlite.NewTaskRepository(db)
	auditRepo := sqlite.NewAuditRepository(db)
	svc := service.NewDependencyService(depRepo, taskRepo, auditRepo)

	if err := svc.Remove(id, parentID, agentID); err != nil {
		response.Error(w, err)
		return
	}

	response.NoContent(w)
}
