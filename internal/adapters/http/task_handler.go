package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/worksphere/server/internal/application/services"
	"github.com/worksphere/server/internal/infrastructure/logger"
	"github.com/worksphere/server/internal/ports"
)

// TaskHandler handles task-related requests
type TaskHandler struct {
	taskService *services.TaskService
	query       *services.QueryService
	logger      *logger.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(taskService *services.TaskService, query *services.QueryService, logger *logger.Logger) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		query:       query,
		logger:      logger,
	}
}

// ListTasks returns the tasks visible to the requester that match the
// supplied filters.
func (h *TaskHandler) ListTasks(c echo.Context) error {
	criteria, err := criteriaFrom(c)
	if err != nil {
		return err
	}

	tasks, err := h.query.ListTasks(c.Request().Context(), requesterFrom(c), criteria)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tasks)
}

// CreateTask creates a task from the request body.
func (h *TaskHandler) CreateTask(c echo.Context) error {
	var req ports.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if req.CreatorID == "" {
		req.CreatorID = requesterFrom(c).ID
	}

	task, err := h.taskService.CreateTask(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, task)
}

// UpdateTask applies a partial patch. When the caller's identity is
// known, the edit-permission rule applies: only the creator or an admin
// may mutate a task.
func (h *TaskHandler) UpdateTask(c echo.Context) error {
	id := c.Param("id")

	var req ports.UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := h.checkEditPermission(c, id); err != nil {
		return err
	}

	task, err := h.taskService.UpdateTask(c.Request().Context(), id, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, task)
}

// DeleteTask removes a task.
func (h *TaskHandler) DeleteTask(c echo.Context) error {
	id := c.Param("id")

	if err := h.checkEditPermission(c, id); err != nil {
		return err
	}

	if err := h.taskService.DeleteTask(c.Request().Context(), id); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, MessageResponse{Message: "Task deleted successfully"})
}

func (h *TaskHandler) checkEditPermission(c echo.Context, id string) error {
	requester := requesterFrom(c)
	if requester.ID == "" {
		return nil
	}

	task, err := h.taskService.GetTask(c.Request().Context(), id)
	if err != nil {
		return err
	}
	if !task.EditableBy(requester.ID, requester.Role) {
		h.logger.LogSecurityEvent("task_edit_denied", requester.ID, c.RealIP(), map[string]interface{}{
			"task_id": id,
		})
		return echo.NewHTTPError(http.StatusForbidden, "Not allowed to modify this task")
	}
	return nil
}
