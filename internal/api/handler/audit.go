package handler

import (
	"net/http"

	"github.com/taskpath/taskpath/internal/api/middleware"
	"github.com/taskpath/taskpath/internal/api/request"
	"github.com/taskpath/taskpath/internal/api/response"
	"github.com/taskpath/taskpath/internal/domain"
	"github.com/taskpath/taskpath/internal/service"
	"github.com/taskpath/taskpath/internal/store/sqlite"
)

// AuditHandler handles audit log queries.
type AuditHandler struct{}

// NewAuditHandler creates a new AuditHandler.
func NewAuditHandler() *AuditHandler {
	return &AuditHandler{}
}

// GetTaskHistory handles GET /tasks/{id}/history.
func (h *AuditHandler) GetTaskHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	db := middleware.GetDB(r.Context())
	auditRepo := sqlite.NewAuditRepository(db)
	taskRepo := sqlite.NewTaskRepository(db)
	svc := service.NewAuditService(auditRepo, taskRepo)

	entries, err := svc.GetTaskHistory(id)
	if err != nil {
		response.Error(w, err)
		return
	}

	if entries == nil {
		entries = []*domain.AuditEntry{}
	}

	response.OK(w, entries)
}

// QueryAuditLog handles GET /audit.
func (h *AuditHandler) QueryAuditLog(w http.ResponseWriter, r *http.Request) {
	params := request.ParseAuditQuery(r)
	pagination := request.ParsePagination(r)

	db := middleware.GetDB(r.Context())
	auditRepo := sqlite.NewAuditRepository(db)
	taskRepo := sqlite.NewTaskRepository(db)
	svc := service.NewAuditService(auditRepo, taskRepo)

	entries, total, err := svc.Query(service.QueryInput{
		Action:    params.Action,
		AgentID:   params.AgentID,
		StartTime: params.StartTime,
		EndTime:   params.EndTime,
		Page:      pagination.Page,
		PerPage:   pagination.PerPage,
	})
	if err != nil {
		response.Error(w, err)
		return
	}

	if entries == nil {
		entries = []*domain.AuditEntry{}
	}

	response.Paginated(w, entries, pagination.Page, pagination.PerPage, total)
}
