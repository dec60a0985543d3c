package handlers

import (
	"net/http"
	"strconv"
	"time"

	"crmhub/internal/common"
	"crmhub/internal/models"
	"crmhub/internal/services"

	"github.com/labstack/echo/v4"
)

// TaskHandlers handles task CRUD, assignment and reporting endpoints.
type TaskHandlers struct {
	taskService services.TaskService
}

func NewTaskHandlers(taskService services.TaskService) *TaskHandlers {
	return &TaskHandlers{taskService: taskService}
}

func (h *TaskHandlers) CreateTask(c echo.Context) error {
	ctx := c.Request().Context()

	var req services.TaskCreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	task, err := h.taskService.CreateFromRequest(ctx, &req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, taskToResponse(task))
}

func (h *TaskHandlers) UpdateTask(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "task id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var update services.TaskUpdate
	if err := c.Bind(&update); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	task, err := h.taskService.Update(ctx, id, &update)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, taskToResponse(task))
}

func (h *TaskHandlers) DeleteTask(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "task id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.taskService.Delete(ctx, id); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Task deleted"})
}

func (h *TaskHandlers) GetTask(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "task id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.taskService.GetByID(ctx, id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}

	return c.JSON(http.StatusOK, taskToResponse(task))
}

// ListTasksRequest represents pagination query parameters.
type ListTasksRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

func (h *TaskHandlers) ListTasks(c echo.Context) error {
	ctx := c.Request().Context()

	var req ListTasksRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}
	limit, offset := common.ValidatePaginationParams(req.Limit, req.Offset)

	tasks, err := h.taskService.List(ctx, limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list tasks")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"tasks":  tasks,
		"limit":  limit,
		"offset": offset,
	})
}

// AssignTask sets the assignee. A pending task moves to in progress.
func (h *TaskHandlers) AssignTask(c echo.Context) error {
	ctx := c.Request().Context()

	taskID, err := common.ValidateUUID(c.Param("taskId"), "task id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	userID, err := common.ValidateUUID(c.Param("userId"), "user id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.taskService.AssignTask(ctx, taskID, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}

	return c.JSON(http.StatusOK, taskToResponse(task))
}

func (h *TaskHandlers) UpdateTaskStatus(c echo.Context) error {
	ctx := c.Request().Context()

	taskID, err := common.ValidateUUID(c.Param("taskId"), "task id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	status := models.TaskStatus(c.QueryParam("status"))
	if status == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Status is required")
	}

	task, err := h.taskService.UpdateStatus(ctx, taskID, status)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, taskToResponse(task))
}

func (h *TaskHandlers) GetTasksByCustomer(c echo.Context) error {
	ctx := c.Request().Context()

	customerID, err := common.ValidateUUID(c.Param("customerId"), "customer id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tasks, err := h.taskService.FindByCustomer(ctx, customerID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list tasks")
	}

	return c.JSON(http.StatusOK, tasksToResponses(tasks))
}

func (h *TaskHandlers) GetTasksByAssignee(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := common.ValidateUUID(c.Param("userId"), "user id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	tasks, err := h.taskService.FindByAssignee(ctx, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list tasks")
	}

	return c.JSON(http.StatusOK, tasksToResponses(tasks))
}

func (h *TaskHandlers) GetTasksByStatus(c echo.Context) error {
	ctx := c.Request().Context()

	status := models.TaskStatus(c.Param("status"))
	if !status.IsValid() {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid task status")
	}

	tasks, err := h.taskService.FindByStatus(ctx, status)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list tasks")
	}

	return c.JSON(http.StatusOK, tasksToResponses(tasks))
}

func (h *TaskHandlers) GetTasksByDueDate(c echo.Context) error {
	ctx := c.Request().Context()

	start, err := time.Parse(time.RFC3339, c.QueryParam("start"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid start date, expected RFC3339")
	}
	end, err := time.Parse(time.RFC3339, c.QueryParam("end"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid end date, expected RFC3339")
	}

	tasks, err := h.taskService.FindByDueDateBetween(ctx, start, end)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list tasks")
	}

	return c.JSON(http.StatusOK, tasksToResponses(tasks))
}

func (h *TaskHandlers) GetOverdueTasks(c echo.Context) error {
	ctx := c.Request().Context()

	tasks, err := h.taskService.FindOverdue(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list tasks")
	}

	return c.JSON(http.StatusOK, tasksToResponses(tasks))
}

func (h *TaskHandlers) GetUpcomingTasks(c echo.Context) error {
	ctx := c.Request().Context()

	days := 7
	if daysStr := c.QueryParam("days"); daysStr != "" {
		parsed, err := strconv.Atoi(daysStr)
		if err != nil || parsed <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid days parameter")
		}
		days = parsed
	}

	tasks, err := h.taskService.FindUpcoming(ctx, days)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list tasks")
	}

	return c.JSON(http.StatusOK, tasksToResponses(tasks))
}

func (h *TaskHandlers) GetRecentTasks(c echo.Context) error {
	ctx := c.Request().Context()

	limit := 5
	if limitStr := c.QueryParam("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid limit parameter")
		}
		limit = parsed
	}

	tasks, err := h.taskService.FindRecent(ctx, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list tasks")
	}

	return c.JSON(http.StatusOK, tasksToResponses(tasks))
}

func (h *TaskHandlers) GetTaskCountByStatus(c echo.Context) error {
	ctx := c.Request().Context()

	status := models.TaskStatus(c.Param("status"))
	if !status.IsValid() {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid task status")
	}

	count, err := h.taskService.CountByStatus(ctx, status)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to count tasks")
	}

	return c.JSON(http.StatusOK, count)
}
