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

type customerPayload struct {
	Name    string `json:"name" validate:"omitempty,min=1,max=128"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone" validate:"omitempty,max=32"`
	Address string `json:"address" validate:"omitempty,max=500"`
	Remark  string `json:"remark" validate:"omitempty,max=500"`
}

// registerCustomerRoutes registers customer CRUD endpoints.
// The purchase counters are never writable through this API; they belong to
// the order status transition rule.
func registerCustomerRoutes() {
	webserver.ApiGET("/customers", listCustomers)
	webserver.ApiGET("/customers/:id", getCustomer)
	webserver.ApiPOST("/customers", createCustomer)
	webserver.ApiPUT("/customers/:id", updateCustomer)
	webserver.ApiDELETE("/customers/:id", deleteCustomer)
}

func listCustomers(c echo.Context) error {
	page, pageSize := parsePagination(c)

	base := GetDB(c).Model(&domain.Customer{})
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		if strings.EqualFold(base.Name(), "postgres") {
			base = base.Where("name ILIKE ? OR email ILIKE ?", "%"+q+"%", "%"+q+"%")
		} else {
			like := "%" + strings.ToLower(q) + "%"
			base = base.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
		}
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query customers", err.Error())
	}

	var customers []domain.Customer
	if err := base.Order("id DESC").Offset((page-1)*pageSize).Limit(pageSize).Find(&customers).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query customers", err.Error())
	}
	return paged(c, customers, total, page, pageSize)
}

func getCustomer(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid customer ID", nil)
	}
	var cust domain.Customer
	if err := GetDB(c).Where("id = ?", id).First(&cust).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "CUSTOMER_NOT_FOUND", "Customer not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query customer", err.Error())
	}
	return ok(c, cust)
}

func createCustomer(c echo.Context) error {
	var payload customerPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse customer parameters", nil)
	}
	if strings.TrimSpace(payload.Name) == "" {
		return fail(c, http.StatusBadRequest, "MISSING_NAME", "Customer name is required", nil)
	}
	if strings.TrimSpace(payload.Email) == "" {
		return fail(c, http.StatusBadRequest, "MISSING_EMAIL", "Customer email is required", nil)
	}

	// email is the customer identity; reject duplicates early
	var dup domain.Customer
	if err := GetDB(c).Where("email = ?", payload.Email).First(&dup).Error; err == nil {
		return fail(c, http.StatusConflict, "DUPLICATE_CUSTOMER", "Customer with this email already exists", nil)
	}

	cust := domain.Customer{
		ID:        common.UUIDint64(),
		Name:      strings.TrimSpace(payload.Name),
		Email:     strings.TrimSpace(payload.Email),
		Phone:     payload.Phone,
		Address:   payload.Address,
		Remark:    payload.Remark,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := GetDB(c).Create(&cust).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create customer", err.Error())
	}
	addOprLog(c, "customer:create", cust.Email)
	return ok(c, cust)
}

func updateCustomer(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid customer ID", nil)
	}
	var payload customerPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse customer parameters", nil)
	}
	var cust domain.Customer
	if err := GetDB(c).Where("id = ?", id).First(&cust).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "CUSTOMER_NOT_FOUND", "Customer not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query customer", err.Error())
	}

	updates := map[string]interface{}{}
	if payload.Name != "" {
		updates["name"] = strings.TrimSpace(payload.Name)
	}
	if payload.Email != "" {
		// ensure new email value is not used by another customer
		var dup domain.Customer
		if err := GetDB(c).Where("email = ? AND id != ?", payload.Email, id).First(&dup).Error; err == nil {
			return fail(c, http.StatusConflict, "DUPLICATE_CUSTOMER", "Another customer with this email already exists", nil)
		}
		updates["email"] = strings.TrimSpace(payload.Email)
	}
	if payload.Phone != "" {
		updates["phone"] = payload.Phone
	}
	if payload.Address != "" {
		updates["address"] = payload.Address
	}
	if payload.Remark != "" {
		updates["remark"] = payload.Remark
	}
	updates["updated_at"] = time.Now()
	if err := GetDB(c).Model(&cust).Updates(updates).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update customer", err.Error())
	}
	GetDB(c).Where("id = ?", id).First(&cust)
	addOprLog(c, "customer:update", cust.Email)
	return ok(c, cust)
}

func deleteCustomer(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid customer ID", nil)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Customer{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete customer", err.Error())
	}
	addOprLog(c, "customer:delete", c.Param("id"))
	return ok(c, map[string]interface{}{"id": id})
}
