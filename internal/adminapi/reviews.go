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

// registerReviewRoutes registers review moderation endpoints.
// Reviews are submitted through the portal; admins approve or remove them.
func registerReviewRoutes() {
	webserver.ApiGET("/reviews", listReviews)
	webserver.ApiGET("/reviews/:id", getReview)
	webserver.ApiPUT("/reviews/:id/approve", approveReview)
	webserver.ApiDELETE("/reviews/:id", deleteReview)
}

func listReviews(c echo.Context) error {
	page, pageSize := parsePagination(c)

	base := GetDB(c).Model(&domain.Review{})
	if approved := strings.TrimSpace(c.QueryParam("approved")); approved != "" {
		base = base.Where("approved = ?", approved == "true")
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query reviews", err.Error())
	}

	var rows []domain.Review
	if err := base.Order("created_at DESC").Offset((page-1)*pageSize).Limit(pageSize).Find(&rows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query reviews", err.Error())
	}
	return paged(c, rows, total, page, pageSize)
}

func getReview(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid review ID", nil)
	}
	var review domain.Review
	if err := GetDB(c).Where("id = ?", id).First(&review).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "REVIEW_NOT_FOUND", "Review not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query review", err.Error())
	}
	return ok(c, review)
}

func approveReview(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid review ID", nil)
	}
	var review domain.Review
	if err := GetDB(c).Where("id = ?", id).First(&review).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "REVIEW_NOT_FOUND", "Review not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query review", err.Error())
	}

	if err := GetDB(c).Model(&review).Updates(map[string]interface{}{
		"approved":   true,
		"updated_at": time.Now(),
	}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to approve review", err.Error())
	}
	review.Approved = true
	addOprLog(c, "review:approve", c.Param("id"))
	return ok(c, review)
}

func deleteReview(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid review ID", nil)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Review{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete review", err.Error())
	}
	addOprLog(c, "review:delete", c.Param("id"))
	return ok(c, map[string]interface{}{"id": id})
}
