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

// CustomerHandlers handles customer CRUD, search and reporting endpoints.
type CustomerHandlers struct {
	customerService services.CustomerService
}

func NewCustomerHandlers(customerService services.CustomerService) *CustomerHandlers {
	return &CustomerHandlers{customerService: customerService}
}

// CreateCustomerRequest represents the customer creation payload.
type CreateCustomerRequest struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   string  `json:"phone"`
	Address *string `json:"address"`
	Notes   *string `json:"notes"`
}

func (h *CustomerHandlers) CreateCustomer(c echo.Context) error {
	ctx := c.Request().Context()

	var req CreateCustomerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	customer := &models.Customer{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		Notes:   req.Notes,
	}

	if err := h.customerService.Create(ctx, customer); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, customer)
}

func (h *CustomerHandlers) UpdateCustomer(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "customer id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var update services.CustomerUpdate
	if err := c.Bind(&update); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	customer, err := h.customerService.Update(ctx, id, &update)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, customer)
}

// DeleteCustomer soft-deletes: the record stays retrievable, inactive.
func (h *CustomerHandlers) DeleteCustomer(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "customer id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.customerService.Delete(ctx, id); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Customer deleted"})
}

func (h *CustomerHandlers) GetCustomer(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "customer id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	customer, err := h.customerService.GetByID(ctx, id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}

	return c.JSON(http.StatusOK, customer)
}

// ListCustomersRequest represents pagination query parameters.
type ListCustomersRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

func (h *CustomerHandlers) ListCustomers(c echo.Context) error {
	ctx := c.Request().Context()

	var req ListCustomersRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}
	limit, offset := common.ValidatePaginationParams(req.Limit, req.Offset)

	customers, err := h.customerService.List(ctx, limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list customers")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"customers": customers,
		"limit":     limit,
		"offset":    offset,
	})
}

func (h *CustomerHandlers) ListActiveCustomers(c echo.Context) error {
	ctx := c.Request().Context()

	var req ListCustomersRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}
	limit, offset := common.ValidatePaginationParams(req.Limit, req.Offset)

	customers, err := h.customerService.ListActive(ctx, limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list customers")
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"customers": customers,
		"limit":     limit,
		"offset":    offset,
	})
}

func (h *CustomerHandlers) SearchCustomers(c echo.Context) error {
	ctx := c.Request().Context()

	query := c.QueryParam("query")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Search query is required")
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, offset = common.ValidatePaginationParams(limit, offset)

	customers, err := h.customerService.Search(ctx, query, limit, offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to search customers")
	}

	return c.JSON(http.StatusOK, customers)
}

func (h *CustomerHandlers) GetCustomersByName(c echo.Context) error {
	ctx := c.Request().Context()

	name := c.QueryParam("name")
	if name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Name is required")
	}

	customers, err := h.customerService.FindByNameContaining(ctx, name)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list customers")
	}

	return c.JSON(http.StatusOK, customers)
}

func (h *CustomerHandlers) GetCustomerByEmail(c echo.Context) error {
	ctx := c.Request().Context()

	email := c.Param("email")
	if email == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Email is required")
	}

	customer, err := h.customerService.GetByEmail(ctx, email)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}

	return c.JSON(http.StatusOK, customer)
}

func (h *CustomerHandlers) ActivateCustomer(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "customer id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.customerService.Activate(ctx, id); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Customer activated"})
}

func (h *CustomerHandlers) DeactivateCustomer(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "customer id")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.customerService.Deactivate(ctx, id); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Customer deactivated"})
}

func (h *CustomerHandlers) GetActiveCustomerCount(c echo.Context) error {
	ctx := c.Request().Context()

	count, err := h.customerService.CountActive(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to count customers")
	}

	return c.JSON(http.StatusOK, count)
}

func (h *CustomerHandlers) GetRecentCustomers(c echo.Context) error {
	ctx := c.Request().Context()

	days := 7
	if daysStr := c.QueryParam("days"); daysStr != "" {
		parsed, err := strconv.Atoi(daysStr)
		if err != nil || parsed <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid days parameter")
		}
		days = parsed
	}

	since := time.Now().AddDate(0, 0, -days)
	customers, err := h.customerService.FindRecent(ctx, since)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list customers")
	}

	return c.JSON(http.StatusOK, customers)
}

func (h *CustomerHandlers) GetTop5RecentCustomers(c echo.Context) error {
	ctx := c.Request().Context()

	customers, err := h.customerService.FindTop5Recent(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list customers")
	}

	return c.JSON(http.StatusOK, customers)
}

func (h *CustomerHandlers) GetCustomersWithTaskCount(c echo.Context) error {
	ctx := c.Request().Context()

	results, err := h.customerService.ListWithTaskCounts(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to list customers")
	}

	return c.JSON(http.StatusOK, results)
}
