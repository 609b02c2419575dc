package adminapi

import (
	"net/http"
	"strings"

	"github.com/araddon/dateparse"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/pawsworks/petshop/internal/domain"
	"github.com/pawsworks/petshop/internal/order"
	"github.com/pawsworks/petshop/internal/webserver"
)

type orderCreatePayload struct {
	CustomerId    int64   `json:"customer_id,string" validate:"required"`
	PetIds        []int64 `json:"pet_ids" validate:"required,min=1"`
	Discount      float64 `json:"discount" validate:"omitempty,min=0"`
	PaymentMethod string  `json:"payment_method" validate:"omitempty,max=32"`
	Remark        string  `json:"remark" validate:"omitempty,max=500"`
}

type orderUpdatePayload struct {
	Status        string `json:"status" validate:"omitempty,oneof=Pending Processing Completed Cancelled"`
	PaymentStatus string `json:"payment_status" validate:"omitempty,oneof=unpaid paid refunded"`
	PaymentMethod string `json:"payment_method" validate:"omitempty,max=32"`
	Remark        string `json:"remark" validate:"omitempty,max=500"`
}

// registerOrderRoutes registers order management endpoints
func registerOrderRoutes() {
	webserver.ApiGET("/orders", listOrders)
	webserver.ApiGET("/orders/:id", getOrder)
	webserver.ApiPOST("/orders", createOrder)
	webserver.ApiPUT("/orders/:id", updateOrder)
	webserver.ApiDELETE("/orders/:id", deleteOrder)
}

func listOrders(c echo.Context) error {
	page, pageSize := parsePagination(c)

	base := GetDB(c).Model(&domain.Order{})
	if status := strings.TrimSpace(c.QueryParam("status")); status != "" {
		base = base.Where("status = ?", status)
	}
	if customerId := strings.TrimSpace(c.QueryParam("customer_id")); customerId != "" {
		base = base.Where("customer_id = ?", customerId)
	}
	if no := strings.TrimSpace(c.QueryParam("order_no")); no != "" {
		base = base.Where("order_no = ?", no)
	}
	// start/end accept any common date format
	if start := strings.TrimSpace(c.QueryParam("start")); start != "" {
		t, err := dateparse.ParseLocal(start)
		if err != nil {
			return fail(c, http.StatusBadRequest, "INVALID_DATE", "Unable to parse start date", nil)
		}
		base = base.Where("created_at >= ?", t)
	}
	if end := strings.TrimSpace(c.QueryParam("end")); end != "" {
		t, err := dateparse.ParseLocal(end)
		if err != nil {
			return fail(c, http.StatusBadRequest, "INVALID_DATE", "Unable to parse end date", nil)
		}
		base = base.Where("created_at <= ?", t)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}

	var orders []domain.Order
	if err := base.Preload("Items").Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).Find(&orders).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}
	return paged(c, orders, total, page, pageSize)
}

func getOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	ord, err := orderService.Get(c.Request().Context(), id)
	if err != nil {
		return orderError(c, err, "Failed to query order")
	}
	return ok(c, ord)
}

func createOrder(c echo.Context) error {
	var payload orderCreatePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse order parameters", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	}

	ord, err := orderService.Create(c.Request().Context(), order.CreateInput{
		CustomerId:    payload.CustomerId,
		PetIds:        payload.PetIds,
		Discount:      payload.Discount,
		PaymentMethod: payload.PaymentMethod,
		Remark:        payload.Remark,
	})
	if err != nil {
		return orderError(c, err, "Failed to create order")
	}
	addOprLog(c, "order:create", ord.OrderNo)
	return ok(c, ord)
}

// updateOrder applies mutable fields; a status change runs the customer
// statistics rule synchronously before the response is sent
func updateOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	var payload orderUpdatePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse order parameters", err.Error())
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	}

	ord, err := orderService.Update(c.Request().Context(), id, order.UpdateInput{
		Status:        payload.Status,
		PaymentStatus: payload.PaymentStatus,
		PaymentMethod: payload.PaymentMethod,
		Remark:        payload.Remark,
	})
	if err != nil {
		return orderError(c, err, "Failed to update order")
	}
	addOprLog(c, "order:update", ord.OrderNo)
	return ok(c, ord)
}

func deleteOrder(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid order ID", nil)
	}
	if err := orderService.Delete(c.Request().Context(), id); err != nil {
		return orderError(c, err, "Failed to delete order")
	}
	addOprLog(c, "order:delete", c.Param("id"))
	return ok(c, map[string]interface{}{"id": id})
}

// orderError maps service errors onto the uniform failure envelope
func orderError(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, order.ErrOrderNotFound):
		return fail(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found", nil)
	case errors.Is(err, order.ErrCustomerNotFound):
		return fail(c, http.StatusNotFound, "CUSTOMER_NOT_FOUND", "Customer not found", nil)
	case errors.Is(err, order.ErrPetNotFound):
		return fail(c, http.StatusNotFound, "PET_NOT_FOUND", "One or more pets not found", nil)
	case errors.Is(err, order.ErrPetUnavailable):
		return fail(c, http.StatusConflict, "PET_UNAVAILABLE", "One or more pets are not available", err.Error())
	case errors.Is(err, order.ErrInvalidStatus):
		return fail(c, http.StatusBadRequest, "INVALID_STATUS", "Invalid order status", nil)
	case errors.Is(err, order.ErrNoItems):
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Order requires at least one pet", nil)
	default:
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", fallback, err.Error())
	}
}
