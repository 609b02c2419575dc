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

type staffPayload struct {
	Realname string `json:"realname" validate:"omitempty,max=128"`
	Mobile   string `json:"mobile" validate:"omitempty,max=32"`
	Email    string `json:"email" validate:"omitempty,max=256"`
	Username string `json:"username" validate:"omitempty,min=3,max=64"`
	Password string `json:"password" validate:"omitempty,min=6,max=128"`
	Level    string `json:"level" validate:"omitempty,oneof=super opr"`
	Status   string `json:"status" validate:"omitempty,oneof=enabled disabled"`
	Remark   string `json:"remark" validate:"omitempty,max=500"`
}

// registerStaffRoutes registers staff account management endpoints
func registerStaffRoutes() {
	webserver.ApiGET("/staff", listStaff)
	webserver.ApiGET("/staff/:id", getStaff)
	webserver.ApiPOST("/staff", createStaff)
	webserver.ApiPUT("/staff/:id", updateStaff)
	webserver.ApiDELETE("/staff/:id", deleteStaff)
}

func listStaff(c echo.Context) error {
	page, pageSize := parsePagination(c)

	base := GetDB(c).Model(&domain.SysOpr{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query staff", err.Error())
	}

	var oprs []domain.SysOpr
	if err := base.Order("id DESC").Offset((page-1)*pageSize).Limit(pageSize).Find(&oprs).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query staff", err.Error())
	}
	return paged(c, oprs, total, page, pageSize)
}

func getStaff(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid staff ID", nil)
	}
	var opr domain.SysOpr
	if err := GetDB(c).Where("id = ?", id).First(&opr).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "STAFF_NOT_FOUND", "Staff account not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query staff", err.Error())
	}
	return ok(c, opr)
}

func createStaff(c echo.Context) error {
	var payload staffPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse staff parameters", nil)
	}
	if strings.TrimSpace(payload.Username) == "" {
		return fail(c, http.StatusBadRequest, "MISSING_USERNAME", "Username is required", nil)
	}
	if strings.TrimSpace(payload.Password) == "" {
		return fail(c, http.StatusBadRequest, "MISSING_PASSWORD", "Password is required", nil)
	}

	var dup domain.SysOpr
	if err := GetDB(c).Where("username = ?", payload.Username).First(&dup).Error; err == nil {
		return fail(c, http.StatusConflict, "DUPLICATE_STAFF", "Staff account with this username already exists", nil)
	}

	opr := domain.SysOpr{
		ID:        common.UUIDint64(),
		Realname:  payload.Realname,
		Mobile:    payload.Mobile,
		Email:     payload.Email,
		Username:  strings.TrimSpace(payload.Username),
		Password:  common.Sha256HashWithSalt(payload.Password, common.GetSecretSalt()),
		Level:     common.IfEmptyStr(payload.Level, "opr"),
		Status:    common.IfEmptyStr(payload.Status, common.ENABLED),
		Remark:    payload.Remark,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := GetDB(c).Create(&opr).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create staff account", err.Error())
	}
	addOprLog(c, "staff:create", opr.Username)
	return ok(c, opr)
}

func updateStaff(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid staff ID", nil)
	}
	var payload staffPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse staff parameters", nil)
	}
	var opr domain.SysOpr
	if err := GetDB(c).Where("id = ?", id).First(&opr).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "STAFF_NOT_FOUND", "Staff account not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query staff", err.Error())
	}

	updates := map[string]interface{}{}
	if payload.Realname != "" {
		updates["realname"] = payload.Realname
	}
	if payload.Mobile != "" {
		updates["mobile"] = payload.Mobile
	}
	if payload.Email != "" {
		updates["email"] = payload.Email
	}
	if payload.Password != "" {
		updates["password"] = common.Sha256HashWithSalt(payload.Password, common.GetSecretSalt())
	}
	if payload.Level != "" {
		updates["level"] = payload.Level
	}
	if payload.Status != "" {
		updates["status"] = payload.Status
	}
	if payload.Remark != "" {
		updates["remark"] = payload.Remark
	}
	updates["updated_at"] = time.Now()
	if err := GetDB(c).Model(&opr).Updates(updates).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update staff account", err.Error())
	}
	GetDB(c).Where("id = ?", id).First(&opr)
	addOprLog(c, "staff:update", opr.Username)
	return ok(c, opr)
}

func deleteStaff(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid staff ID", nil)
	}
	// the seeded super admin cannot be removed
	var opr domain.SysOpr
	if err := GetDB(c).Where("id = ?", id).First(&opr).Error; err == nil &&
		strings.EqualFold(opr.Level, "super") && opr.Username == "admin" {
		return fail(c, http.StatusForbidden, "FORBIDDEN", "The default super admin cannot be deleted", nil)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.SysOpr{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete staff account", err.Error())
	}
	addOprLog(c, "staff:delete", c.Param("id"))
	return ok(c, map[string]interface{}{"id": id})
}
