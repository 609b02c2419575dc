package portal

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pawsworks/petshop/internal/domain"
	"github.com/pawsworks/petshop/internal/order"
	"github.com/pawsworks/petshop/internal/webserver"
	"github.com/pawsworks/petshop/pkg/common"
)

// listPets returns the public catalog; only available pets unless a status
// filter is given explicitly
func listPets(c echo.Context) error {
	page, pageSize := parsePagination(c)

	db := getDB(c).Model(&domain.Pet{})
	status := strings.TrimSpace(c.QueryParam("status"))
	if status == "" {
		status = domain.PetStatusAvailable
	}
	db = db.Where("status = ?", status)

	if species := strings.TrimSpace(c.QueryParam("species")); species != "" {
		db = db.Where("species = ?", species)
	}
	if q := strings.TrimSpace(c.QueryParam("q")); q != "" {
		if strings.EqualFold(db.Name(), "postgres") {
			db = db.Where("name ILIKE ? OR breed ILIKE ?", "%"+q+"%", "%"+q+"%")
		} else {
			like := "%" + trimLower(q) + "%"
			db = db.Where("LOWER(name) LIKE ? OR LOWER(breed) LIKE ?", like, like)
		}
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return webserver.Fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query pets", nil)
	}
	var pets []domain.Pet
	if err := db.Order("created_at DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&pets).Error; err != nil {
		return webserver.Fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query pets", nil)
	}
	return webserver.Paged(c, pets, total, page, pageSize)
}

func getPet(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid pet ID", nil)
	}
	var pet domain.Pet
	if err := getDB(c).Where("id = ?", id).First(&pet).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return webserver.Fail(c, http.StatusNotFound, "PET_NOT_FOUND", "Pet not found", nil)
	} else if err != nil {
		return webserver.Fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query pet", nil)
	}
	return webserver.OK(c, pet)
}

// listReviews returns approved reviews only
func listReviews(c echo.Context) error {
	page, pageSize := parsePagination(c)

	db := getDB(c).Model(&domain.Review{}).Where("approved = ?", true)
	var total int64
	if err := db.Count(&total).Error; err != nil {
		return webserver.Fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query reviews", nil)
	}
	var reviews []domain.Review
	if err := db.Order("created_at DESC").Offset((page - 1) * pageSize).Limit(pageSize).Find(&reviews).Error; err != nil {
		return webserver.Fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query reviews", nil)
	}
	return webserver.Paged(c, reviews, total, page, pageSize)
}

// trackOrder looks an order up by its public order number
func trackOrder(c echo.Context) error {
	no := strings.TrimSpace(c.Param("order_no"))
	ord, err := orderService.GetByOrderNo(c.Request().Context(), no)
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			return webserver.Fail(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found", nil)
		}
		return webserver.Fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query order", nil)
	}
	// expose only tracking fields, not customer internals
	return webserver.OK(c, map[string]interface{}{
		"order_no":       ord.OrderNo,
		"status":         ord.Status,
		"payment_status": ord.PaymentStatus,
		"total_amount":   ord.TotalAmount,
		"items":          ord.Items,
		"created_at":     ord.CreatedAt,
	})
}

type inquiryPayload struct {
	Name    string `json:"name" validate:"required,min=1,max=128"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"omitempty,max=32"`
	PetId   int64  `json:"pet_id,string"`
	Message string `json:"message" validate:"required,min=1,max=2000"`
}

// createInquiry records a storefront question. The first inquiry from an
// unseen email also creates the customer record.
func createInquiry(c echo.Context) error {
	var payload inquiryPayload
	if err := c.Bind(&payload); err != nil {
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse inquiry parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	}

	db := getDB(c)
	email := trimLower(payload.Email)

	inq := domain.Inquiry{
		ID:        common.UUIDint64(),
		Name:      strings.TrimSpace(payload.Name),
		Email:     email,
		Phone:     payload.Phone,
		PetId:     payload.PetId,
		Message:   payload.Message,
		Status:    domain.InquiryStatusNew,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := db.Create(&inq).Error; err != nil {
		return webserver.Fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create inquiry", nil)
	}

	// register the customer on first contact
	var cust domain.Customer
	if err := db.Where("email = ?", email).First(&cust).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		cust = domain.Customer{
			ID:        common.UUIDint64(),
			Name:      inq.Name,
			Email:     email,
			Phone:     payload.Phone,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		if err := db.Create(&cust).Error; err != nil {
			zap.L().Warn("failed to register customer from inquiry", zap.String("email", email), zap.Error(err))
		}
	}

	getAppContext(c).Bus().Publish(TopicInquiryCreated, inq)
	return webserver.OK(c, inq)
}

type appointmentPayload struct {
	Name        string    `json:"name" validate:"required,min=1,max=128"`
	Email       string    `json:"email" validate:"required,email"`
	Phone       string    `json:"phone" validate:"omitempty,max=32"`
	PetId       int64     `json:"pet_id,string"`
	ServiceType string    `json:"service_type" validate:"omitempty,max=64"`
	ScheduledAt time.Time `json:"scheduled_at" validate:"required"`
	Notes       string    `json:"notes" validate:"omitempty,max=2000"`
}

// createAppointment books a visit from the storefront
func createAppointment(c echo.Context) error {
	var payload appointmentPayload
	if err := c.Bind(&payload); err != nil {
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse appointment parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	}
	if payload.ScheduledAt.Before(time.Now()) {
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_TIME", "Scheduled time must be in the future", nil)
	}

	appt := domain.Appointment{
		ID:          common.UUIDint64(),
		Name:        strings.TrimSpace(payload.Name),
		Email:       trimLower(payload.Email),
		Phone:       payload.Phone,
		PetId:       payload.PetId,
		ServiceType: common.IfEmptyStr(payload.ServiceType, "visit"),
		ScheduledAt: payload.ScheduledAt,
		Status:      domain.AppointmentStatusPending,
		Notes:       payload.Notes,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := getDB(c).Create(&appt).Error; err != nil {
		return webserver.Fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create appointment", nil)
	}

	getAppContext(c).Bus().Publish(TopicAppointmentCreated, appt)
	return webserver.OK(c, appt)
}

type reviewPayload struct {
	Name    string `json:"name" validate:"required,min=1,max=128"`
	Email   string `json:"email" validate:"omitempty,email"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Content string `json:"content" validate:"required,min=1,max=2000"`
}

// createReview accepts a storefront review; it stays hidden until approved
func createReview(c echo.Context) error {
	var payload reviewPayload
	if err := c.Bind(&payload); err != nil {
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse review parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return webserver.Fail(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
	}

	review := domain.Review{
		ID:        common.UUIDint64(),
		Name:      strings.TrimSpace(payload.Name),
		Email:     trimLower(payload.Email),
		Rating:    payload.Rating,
		Content:   payload.Content,
		Approved:  false,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := getDB(c).Create(&review).Error; err != nil {
		return webserver.Fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create review", nil)
	}
	return webserver.OK(c, review)
}
