package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/taskboard-api/internal/api/shared"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/platform/logger"
	"github.com/phrazzld/taskboard-api/internal/service"
)

// DefaultUpcomingDays is the window used by GET /api/tasks/upcoming when no
// days parameter is given.
const DefaultUpcomingDays = 7

// TaskHandler handles task-related HTTP requests. Every route requires an
// authenticated identity and only ever sees the caller's own tasks.
type TaskHandler struct {
	taskService service.TaskService
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskService service.TaskService, logger *slog.Logger) *TaskHandler {
	if taskService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("taskService cannot be nil for TaskHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskHandler{
		taskService: taskService,
		logger:      logger.With(slog.String("component", "task_handler")),
	}
}

// Routes mounts the task endpoints on r. Fixed paths are registered before
// the {id} pattern so chi matches them first.
func (h *TaskHandler) Routes(r chi.Router) {
	r.Post("/", h.CreateTask)
	r.Get("/", h.ListTasks)
	r.Get("/search", h.SearchTasks)
	r.Get("/stats", h.GetStats)
	r.Get("/upcoming", h.GetUpcoming)
	r.Get("/overdue", h.GetOverdue)
	r.Get("/status/{status}", h.ListByStatus)
	r.Get("/priority/{priority}", h.ListByPriority)
	r.Get("/{id}", h.GetTask)
	r.Put("/{id}", h.UpdateTask)
	r.Patch("/{id}", h.UpdateTask)
	r.Delete("/{id}", h.DeleteTask)
}

func (h *TaskHandler) log(r *http.Request) *slog.Logger {
	return logger.FromContextOrDefault(r.Context(), h.logger)
}

func (h *TaskHandler) respondTasks(
	w http.ResponseWriter,
	r *http.Request,
	identity shared.Identity,
	tasks []*domain.Task,
	err error,
) {
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, tasksToResponse(tasks, identity.Username))
}

// CreateTask handles POST /api/tasks.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r, h.log(r))
	if !ok {
		return
	}

	var req TaskRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), identity.UserID, req.toInput())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task, identity.Username))
}

// ListTasks handles GET /api/tasks.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r, h.log(r))
	if !ok {
		return
	}

	tasks, err := h.taskService.ListTasks(r.Context(), identity.UserID)
	h.respondTasks(w, r, identity, tasks, err)
}

// GetTask handles GET /api/tasks/{id}.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	identity, id, ok := handleIdentityAndPathID(w, r, "id", h.log(r))
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(r.Context(), identity.UserID, id)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task, identity.Username))
}

// UpdateTask handles PUT and PATCH /api/tasks/{id}. Both apply a partial update.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	identity, id, ok := handleIdentityAndPathID(w, r, "id", h.log(r))
	if !ok {
		return
	}

	var req TaskUpdateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	task, err := h.taskService.UpdateTask(r.Context(), identity.UserID, id, req.toPatch())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task, identity.Username))
}

// DeleteTask handles DELETE /api/tasks/{id}.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	identity, id, ok := handleIdentityAndPathID(w, r, "id", h.log(r))
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(r.Context(), identity.UserID, id); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListByStatus handles GET /api/tasks/status/{status}.
func (h *TaskHandler) ListByStatus(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r, h.log(r))
	if !ok {
		return
	}

	tasks, err := h.taskService.ListTasksByStatus(r.Context(), identity.UserID, chi.URLParam(r, "status"))
	h.respondTasks(w, r, identity, tasks, err)
}

// ListByPriority handles GET /api/tasks/priority/{priority}.
func (h *TaskHandler) ListByPriority(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r, h.log(r))
	if !ok {
		return
	}

	tasks, err := h.taskService.ListTasksByPriority(r.Context(), identity.UserID, chi.URLParam(r, "priority"))
	h.respondTasks(w, r, identity, tasks, err)
}

// SearchTasks handles GET /api/tasks/search?query=.
func (h *TaskHandler) SearchTasks(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r, h.log(r))
	if !ok {
		return
	}

	values := r.URL.Query()
	if !values.Has("query") {
		HandleAPIError(w, r, domain.NewValidationError("query", "Query parameter is required"))
		return
	}

	tasks, err := h.taskService.SearchTasks(r.Context(), identity.UserID, values.Get("query"))
	h.respondTasks(w, r, identity, tasks, err)
}

// GetStats handles GET /api/tasks/stats.
func (h *TaskHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r, h.log(r))
	if !ok {
		return
	}

	stats, err := h.taskService.TaskStats(r.Context(), identity.UserID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, statsToResponse(stats))
}

// GetUpcoming handles GET /api/tasks/upcoming?days=N.
func (h *TaskHandler) GetUpcoming(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r, h.log(r))
	if !ok {
		return
	}

	days := DefaultUpcomingDays
	if raw := strings.TrimSpace(r.URL.Query().Get("days")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			HandleAPIError(w, r, domain.NewValidationError("days", "Days must be an integer"))
			return
		}
		days = n
	}

	tasks, err := h.taskService.UpcomingTasks(r.Context(), identity.UserID, days)
	h.respondTasks(w, r, identity, tasks, err)
}

// GetOverdue handles GET /api/tasks/overdue.
func (h *TaskHandler) GetOverdue(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r, h.log(r))
	if !ok {
		return
	}

	tasks, err := h.taskService.OverdueTasks(r.Context(), identity.UserID)
	h.respondTasks(w, r, identity, tasks, err)
}
