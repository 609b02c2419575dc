package adminapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/pawsworks/petshop/internal/domain"
	"github.com/pawsworks/petshop/internal/webserver"
)

type inquiryUpdatePayload struct {
	Status string `json:"status" validate:"required,oneof=new replied closed"`
}

// registerInquiryRoutes registers inquiry management endpoints.
// Inquiries arrive through the portal; admins work through the queue.
func registerInquiryRoutes() {
	webserver.ApiGET("/inquiries", listInquiries)
	webserver.ApiGET("/inquiries/:id", getInquiry)
	webserver.ApiPUT("/inquiries/:id", updateInquiry)
	webserver.ApiDELETE("/inquiries/:id", deleteInquiry)
}

func listInquiries(c echo.Context) error {
	page, pageSize := parsePagination(c)

	base := GetDB(c).Model(&domain.Inquiry{})
	if status := strings.TrimSpace(c.QueryParam("status")); status != "" {
		base = base.Where("status = ?", status)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query inquiries", err.Error())
	}

	var rows []domain.Inquiry
	if err := base.Order("created_at DESC").Offset((page-1)*pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query inquiries", err.Error())
	}
	return paged(c, rows, total, page, pageSize)
}

func getInquiry(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid inquiry ID", nil)
	}
	var inq domain.Inquiry
	if err := GetDB(c).Where("id = ?", id).First(&inq).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "INQUIRY_NOT_FOUND", "Inquiry not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query inquiry", err.Error())
	}
	return ok(c, inq)
}

func updateInquiry(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid inquiry ID", nil)
	}
	var payload inquiryUpdatePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse inquiry parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	}

	var inq domain.Inquiry
	if err := GetDB(c).Where("id = ?", id).First(&inq).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "INQUIRY_NOT_FOUND", "Inquiry not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query inquiry", err.Error())
	}

	if err := GetDB(c).Model(&inq).Updates(map[string]interface{}{
		"status":     payload.Status,
		"updated_at": time.Now(),
	}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update inquiry", err.Error())
	}
	inq.Status = payload.Status
	addOprLog(c, "inquiry:update", c.Param("id"))
	return ok(c, inq)
}

func deleteInquiry(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid inquiry ID", nil)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Inquiry{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete inquiry", err.Error())
	}
	addOprLog(c, "inquiry:delete", c.Param("id"))
	return ok(c, map[string]interface{}{"id": id})
}
