package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/montanaflynn/stats"

	"github.com/pawsworks/petshop/internal/domain"
	"github.com/pawsworks/petshop/internal/webserver"
)

// DashboardStats aggregates the numbers shown on the admin landing page.
// Revenue and purchase counters come straight from the denormalized customer
// statistics and the Completed orders; they are not recomputed per request.
type DashboardStats struct {
	Pets                map[string]int64 `json:"pets"`
	Orders              map[string]int64 `json:"orders"`
	Revenue             float64          `json:"revenue"`
	AvgOrderValue       float64          `json:"avg_order_value"`
	MedianOrderValue    float64          `json:"median_order_value"`
	CustomerCount       int64            `json:"customer_count"`
	PendingAppointments int64            `json:"pending_appointments"`
	NewInquiries        int64            `json:"new_inquiries"`
	RecentOrders        []domain.Order   `json:"recent_orders"`
}

type statusCountRow struct {
	Status string
	Count  int64
}

// registerDashboardRoutes registers the dashboard endpoint
func registerDashboardRoutes() {
	webserver.ApiGET("/dashboard", getDashboard)
}

func getDashboard(c echo.Context) error {
	db := GetDB(c)
	dash := DashboardStats{
		Pets:   map[string]int64{},
		Orders: map[string]int64{},
	}

	var petRows []statusCountRow
	if err := db.Model(&domain.Pet{}).
		Select("status, COUNT(*) AS count").Group("status").Scan(&petRows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query pet stats", err.Error())
	}
	for _, row := range petRows {
		dash.Pets[row.Status] = row.Count
	}

	var orderRows []statusCountRow
	if err := db.Model(&domain.Order{}).
		Select("status, COUNT(*) AS count").Group("status").Scan(&orderRows).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query order stats", err.Error())
	}
	for _, row := range orderRows {
		dash.Orders[row.Status] = row.Count
	}

	if err := db.Model(&domain.Order{}).
		Where("status = ?", domain.OrderStatusCompleted).
		Select("COALESCE(SUM(total_amount), 0)").Scan(&dash.Revenue).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query revenue", err.Error())
	}

	var amounts []float64
	if err := db.Model(&domain.Order{}).
		Where("status = ?", domain.OrderStatusCompleted).
		Pluck("total_amount", &amounts).Error; err == nil && len(amounts) > 0 {
		dash.AvgOrderValue, _ = stats.Mean(amounts)
		dash.MedianOrderValue, _ = stats.Median(amounts)
	}

	db.Model(&domain.Customer{}).Count(&dash.CustomerCount)
	db.Model(&domain.Appointment{}).Where("status = ?", domain.AppointmentStatusPending).Count(&dash.PendingAppointments)
	db.Model(&domain.Inquiry{}).Where("status = ?", domain.InquiryStatusNew).Count(&dash.NewInquiries)

	if err := db.Preload("Items").Order("created_at DESC").Limit(10).Find(&dash.RecentOrders).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query recent orders", err.Error())
	}

	return ok(c, dash)
}
