package portal

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/pawsworks/petshop/internal/app"
	"github.com/pawsworks/petshop/internal/order"
	"github.com/pawsworks/petshop/internal/webserver"
)

// Event bus topics published by the portal
const (
	TopicInquiryCreated     = "portal:inquiry_created"
	TopicAppointmentCreated = "portal:appointment_created"
)

var orderService *order.Service

// InitRouter registers the public storefront routes
func InitRouter(appCtx app.AppContext) {
	orderService = order.NewService(appCtx.DB(), appCtx.Bus())

	webserver.PubGET("/pets", listPets)
	webserver.PubGET("/pets/:id", getPet)
	webserver.PubGET("/reviews", listReviews)
	webserver.PubGET("/orders/:order_no", trackOrder)
	webserver.PubPOST("/inquiries", createInquiry)
	webserver.PubPOST("/appointments", createAppointment)
	webserver.PubPOST("/reviews", createReview)
}

func getAppContext(c echo.Context) app.AppContext {
	return c.Get(webserver.AppContextKey).(app.AppContext)
}

func getDB(c echo.Context) *gorm.DB {
	return getAppContext(c).DB().WithContext(c.Request().Context())
}

func parsePagination(c echo.Context) (page int, pageSize int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(c.QueryParam("perPage"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}

func trimLower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
