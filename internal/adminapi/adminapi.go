package adminapi

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pawsworks/petshop/internal/app"
	"github.com/pawsworks/petshop/internal/domain"
	"github.com/pawsworks/petshop/internal/order"
	"github.com/pawsworks/petshop/internal/webserver"
	"github.com/pawsworks/petshop/pkg/common"
)

var orderService *order.Service

// InitRouter registers all admin API routes
func InitRouter(appCtx app.AppContext) {
	orderService = order.NewService(appCtx.DB(), appCtx.Bus())

	registerAuthRoutes()
	registerPetRoutes()
	registerCustomerRoutes()
	registerOrderRoutes()
	registerAppointmentRoutes()
	registerReviewRoutes()
	registerInquiryRoutes()
	registerStaffRoutes()
	registerDashboardRoutes()
	registerSettingsRoutes()
	registerExportRoutes()
	registerOprLogRoutes()
}

// GetAppContext extracts the application context injected by the web server
func GetAppContext(c echo.Context) app.AppContext {
	return c.Get(webserver.AppContextKey).(app.AppContext)
}

// GetDB returns the request scoped database handle
func GetDB(c echo.Context) *gorm.DB {
	return GetAppContext(c).DB().WithContext(c.Request().Context())
}

// ok/fail/paged keep handler bodies terse
func ok(c echo.Context, data interface{}) error {
	return webserver.OK(c, data)
}

func fail(c echo.Context, status int, code, message string, detail interface{}) error {
	return webserver.Fail(c, status, code, message, detail)
}

func paged(c echo.Context, data interface{}, total int64, page, pageSize int) error {
	return webserver.Paged(c, data, total, page, pageSize)
}

// parsePagination reads page/perPage query params with sane bounds
func parsePagination(c echo.Context) (page int, pageSize int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(c.QueryParam("perPage"))
	if pageSize < 1 || pageSize > 500 {
		pageSize = 20
	}
	return page, pageSize
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

// currentOprName returns the username carried in the JWT claims.
// The middleware stores a jwt/v5 token in the context; signing elsewhere
// stays on jwt/v4, the HS256 tokens are interchangeable.
func currentOprName(c echo.Context) string {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return ""
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}
	name, _ := claims["usr"].(string)
	return name
}

// addOprLog records an operator action for the audit trail
func addOprLog(c echo.Context, action, desc string) {
	log := domain.SysOprLog{
		ID:        common.UUIDint64(),
		OprName:   currentOprName(c),
		OprIp:     c.RealIP(),
		OptAction: action,
		OptDesc:   desc,
		OptTime:   time.Now(),
	}
	if err := GetDB(c).Create(&log).Error; err != nil {
		zap.L().Warn("failed to write operator log", zap.Error(err))
	}
}
