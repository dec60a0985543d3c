package handlers

import (
	"net/http"

	"crmhub/internal/common"
	"crmhub/internal/models"
	"crmhub/internal/services"

	"github.com/labstack/echo/v4"
)

// DashboardHandlers aggregates counts and chart series for the dashboard.
type DashboardHandlers struct {
	userService     services.UserService
	customerService services.CustomerService
	taskService     services.TaskService
}

func NewDashboardHandlers(userService services.UserService, customerService services.CustomerService, taskService services.TaskService) *DashboardHandlers {
	return &DashboardHandlers{
		userService:     userService,
		customerService: customerService,
		taskService:     taskService,
	}
}

// GetStats returns the headline numbers shared by every dashboard view.
// Customer count covers active customers only.
func (h *DashboardHandlers) GetStats(c echo.Context) error {
	ctx := c.Request().Context()

	totalCustomers, err := h.customerService.CountActive(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load stats")
	}
	totalTasks, err := h.taskService.CountAll(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load stats")
	}
	completedTasks, err := h.taskService.CountByStatus(ctx, models.TaskCompleted)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load stats")
	}
	pendingTasks, err := h.taskService.CountByStatus(ctx, models.TaskPending)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load stats")
	}
	inProgressTasks, err := h.taskService.CountByStatus(ctx, models.TaskInProgress)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load stats")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"totalCustomers":  totalCustomers,
		"totalTasks":      totalTasks,
		"completedTasks":  completedTasks,
		"pendingTasks":    pendingTasks,
		"inProgressTasks": inProgressTasks,
	})
}

// GetUserStats returns task counts scoped to the authenticated user.
func (h *DashboardHandlers) GetUserStats(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	assignedTasks, err := h.taskService.CountByAssignee(ctx, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load stats")
	}
	completedTasks, err := h.taskService.CountByAssigneeAndStatus(ctx, userID, models.TaskCompleted)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load stats")
	}
	pendingTasks, err := h.taskService.CountByAssigneeAndStatus(ctx, userID, models.TaskPending)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load stats")
	}
	inProgressTasks, err := h.taskService.CountByAssigneeAndStatus(ctx, userID, models.TaskInProgress)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load stats")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"assignedTasks":   assignedTasks,
		"completedTasks":  completedTasks,
		"pendingTasks":    pendingTasks,
		"inProgressTasks": inProgressTasks,
	})
}

// GetAdminStats extends the shared stats with user and overdue counts.
func (h *DashboardHandlers) GetAdminStats(c echo.Context) error {
	ctx := c.Request().Context()

	totalUsers, err := h.userService.CountAll(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load stats")
	}
	activeUsers, err := h.userService.CountActive(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load stats")
	}
	totalCustomers, err := h.customerService.CountAll(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load stats")
	}
	activeCustomers, err := h.customerService.CountActive(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load stats")
	}
	totalTasks, err := h.taskService.CountAll(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load stats")
	}
	completedTasks, err := h.taskService.CountByStatus(ctx, models.TaskCompleted)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load stats")
	}
	pendingTasks, err := h.taskService.CountByStatus(ctx, models.TaskPending)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load stats")
	}
	inProgressTasks, err := h.taskService.CountByStatus(ctx, models.TaskInProgress)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load stats")
	}
	overdueTasks, err := h.taskService.CountOverdue(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load stats")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"totalUsers":      totalUsers,
		"activeUsers":     activeUsers,
		"totalCustomers":  totalCustomers,
		"activeCustomers": activeCustomers,
		"totalTasks":      totalTasks,
		"completedTasks":  completedTasks,
		"pendingTasks":    pendingTasks,
		"inProgressTasks": inProgressTasks,
		"overdueTasks":    overdueTasks,
	})
}

// GetTaskStatusChart returns counts per status for the pie chart.
func (h *DashboardHandlers) GetTaskStatusChart(c echo.Context) error {
	ctx := c.Request().Context()

	pending, err := h.taskService.CountByStatus(ctx, models.TaskPending)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load chart data")
	}
	inProgress, err := h.taskService.CountByStatus(ctx, models.TaskInProgress)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load chart data")
	}
	completed, err := h.taskService.CountByStatus(ctx, models.TaskCompleted)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load chart data")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"pending":    pending,
		"inProgress": inProgress,
		"completed":  completed,
	})
}

// GetMonthlyTrends returns six months of completed and created task counts,
// oldest month first, with matching labels.
func (h *DashboardHandlers) GetMonthlyTrends(c echo.Context) error {
	ctx := c.Request().Context()

	completed, err := h.taskService.CompletedPerMonth(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load chart data")
	}
	created, err := h.taskService.CreatedPerMonth(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load chart data")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"labels":    h.taskService.LastSixMonthLabels(),
		"completed": completed,
		"created":   created,
	})
}
