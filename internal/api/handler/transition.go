package handler

import (
	"net/http"

	"github.com/taskpath/taskpath/internal/api/middleware"
	"github.com/taskpath/taskpath/internal/api/response"
	"github.com/taskpath/taskpath/internal/service"
	"github.com/taskpath/taskpath/internal/store/sqlite"
)

// TransitionHandler handles task status transitions.
type TransitionHandler struct{}

// NewTransitionHandler creates a new TransitionHandler.
func NewTransitionHandler() *TransitionHandler {
	return &TransitionHandler{}
}

// ClaimTask handles POST /tasks/{id}/claim.
func (h *TransitionHandler) ClaimTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	db := middleware.GetDB(r.Context())
	agentID := middleware.GetAgentID(r.Context())

	taskRepo := sqlite.NewTaskRepository(db)
	auditRepo := sqlite.NewAuditRepository(db)
	svc := service.NewTransitionService(taskRepo, auditRepo)

	task, err := svc.Claim(id, agentID)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, task)
}

// CompleteTask handles POST /tasks/{id}/done.
func (h *TransitionHandler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	db := middleware.GetDB(r.Context())
	agentID := middleware.GetAgentID(r.Context())

	taskRepo := sqlite.NewTaskRepository(db)
	auditRepo := sqlite.NewAuditRepository(db)
	svc := service.NewTransitionService(taskRepo, auditRepo)

	task, err := svc.Complete(id, agentID)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, task)
}

// ReleaseTask handles POST /tasks/{id}/release.
func (h *TransitionHandler) ReleaseTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	db := middleware.GetDB(r.Context())
	agentID := middleware.GetAgentID(r.Context())

	// Check for force parameter
	force := r.URL.Query().Get("force") == "true"

	taskRepo := sqlite.NewTaskRepository(db)
	auditRepo := sqlite.NewAuditRepository(db)
	svc := service.NewTransitionService(taskRepo, auditRepo)

	task, err := svc.Release(id, agentID, force)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, task)
}
