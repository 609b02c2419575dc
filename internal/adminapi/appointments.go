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
	"github.com/pawsworks/petshop/pkg/common"
)

type appointmentPayload struct {
	Name        string    `json:"name" validate:"omitempty,min=1,max=128"`
	Email       string    `json:"email" validate:"omitempty,email"`
	Phone       string    `json:"phone" validate:"omitempty,max=32"`
	PetId       int64     `json:"pet_id,string"`
	ServiceType string    `json:"service_type" validate:"omitempty,max=64"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Status      string    `json:"status" validate:"omitempty,oneof=pending confirmed completed cancelled"`
	Notes       string    `json:"notes" validate:"omitempty,max=2000"`
}

// registerAppointmentRoutes registers appointment management endpoints
func registerAppointmentRoutes() {
	webserver.ApiGET("/appointments", listAppointments)
	webserver.ApiGET("/appointments/:id", getAppointment)
	webserver.ApiPOST("/appointments", createAppointment)
	webserver.ApiPUT("/appointments/:id", updateAppointment)
	webserver.ApiDELETE("/appointments/:id", deleteAppointment)
}

func listAppointments(c echo.Context) error {
	page, pageSize := parsePagination(c)

	base := GetDB(c).Model(&domain.Appointment{})
	if status := strings.TrimSpace(c.QueryParam("status")); status != "" {
		base = base.Where("status = ?", status)
	}
	if day := strings.TrimSpace(c.QueryParam("date")); day != "" {
		if from, err := time.ParseInLocation("2006-01-02", day, time.Local); err == nil {
			base = base.Where("scheduled_at >= ? AND scheduled_at < ?", from, from.AddDate(0, 0, 1))
		}
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query appointments", err.Error())
	}

	var rows []domain.Appointment
	if err := base.Order("scheduled_at ASC").Offset((page-1)*pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query appointments", err.Error())
	}
	return paged(c, rows, total, page, pageSize)
}

func getAppointment(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid appointment ID", nil)
	}
	var appt domain.Appointment
	if err := GetDB(c).Where("id = ?", id).First(&appt).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "APPOINTMENT_NOT_FOUND", "Appointment not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query appointment", err.Error())
	}
	return ok(c, appt)
}

func createAppointment(c echo.Context) error {
	var payload appointmentPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse appointment parameters", nil)
	}
	if strings.TrimSpace(payload.Name) == "" {
		return fail(c, http.StatusBadRequest, "MISSING_NAME", "Contact name is required", nil)
	}
	if payload.ScheduledAt.IsZero() {
		return fail(c, http.StatusBadRequest, "MISSING_TIME", "Scheduled time is required", nil)
	}

	appt := domain.Appointment{
		ID:          common.UUIDint64(),
		Name:        strings.TrimSpace(payload.Name),
		Email:       payload.Email,
		Phone:       payload.Phone,
		PetId:       payload.PetId,
		ServiceType: common.IfEmptyStr(payload.ServiceType, "visit"),
		ScheduledAt: payload.ScheduledAt,
		Status:      common.IfEmptyStr(payload.Status, domain.AppointmentStatusPending),
		Notes:       payload.Notes,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := GetDB(c).Create(&appt).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create appointment", err.Error())
	}
	addOprLog(c, "appointment:create", appt.Name)
	return ok(c, appt)
}

func updateAppointment(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid appointment ID", nil)
	}
	var payload appointmentPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse appointment parameters", nil)
	}
	var appt domain.Appointment
	if err := GetDB(c).Where("id = ?", id).First(&appt).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "APPOINTMENT_NOT_FOUND", "Appointment not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query appointment", err.Error())
	}

	updates := map[string]interface{}{}
	if payload.Name != "" {
		updates["name"] = strings.TrimSpace(payload.Name)
	}
	if payload.Email != "" {
		updates["email"] = payload.Email
	}
	if payload.Phone != "" {
		updates["phone"] = payload.Phone
	}
	if payload.ServiceType != "" {
		updates["service_type"] = payload.ServiceType
	}
	if !payload.ScheduledAt.IsZero() {
		updates["scheduled_at"] = payload.ScheduledAt
	}
	if payload.Status != "" {
		updates["status"] = payload.Status
	}
	if payload.Notes != "" {
		updates["notes"] = payload.Notes
	}
	updates["updated_at"] = time.Now()
	if err := GetDB(c).Model(&appt).Updates(updates).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update appointment", err.Error())
	}
	GetDB(c).Where("id = ?", id).First(&appt)
	addOprLog(c, "appointment:update", appt.Name)
	return ok(c, appt)
}

func deleteAppointment(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid appointment ID", nil)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Appointment{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete appointment", err.Error())
	}
	addOprLog(c, "appointment:delete", c.Param("id"))
	return ok(c, map[string]interface{}{"id": id})
}
