package handler

import (
	"net/http"

	"github.com/taskpath/taskpath/internal/api/middleware"
	"github.com/taskpath/taskpath/internal/api/response"
	"github.com/taskpath/taskpath/internal/service"
	"github.com/taskpath/taskpath/internal/store/sqlite"
)

// GraphHandler handles derived graph state queries.
type GraphHandler struct{}

// NewGraphHandler creates a new GraphHandler.
func NewGraphHandler() *GraphHandler {
	return &GraphHandler{}
}

// ExecutionStatuses handles GET /graph/status.
func (h *GraphHandler) ExecutionStatuses(w http.ResponseWriter, r *http.Request) {
	db := middleware.GetDB(r.Context())
	svc := service.NewGraphService(sqlite.NewTaskRepository(db))

	statuses, err := svc.Statuses()
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]interface{}{
		"statuses": statuses,
	})
}

// CriticalPath handles GET /graph/critical-path.
func (h *GraphHandler) CriticalPath(w http.ResponseWriter, r *http.Request) {
	db := middleware.GetDB(r.Context())
	svc := service.NewGraphService(sqlite.NewTaskRepository(db))

	result, err := svc.CriticalPath()
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, result)
}

// RelatedTasks handles GET /tasks/{id}/related.
func (h *GraphHandler) RelatedTasks(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(w, r)
	if !ok {
		return
	}

	db := middleware.GetDB(r.Context())
	svc := service.NewGraphService(sqlite.NewTaskRepository(db))

	related, err := svc.Related(id)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]interface{}{
		"task_id":          id,
		"related_task_ids": related,
	})
}
