package adminapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pawsworks/petshop/config"
	"github.com/pawsworks/petshop/internal/app"
	"github.com/pawsworks/petshop/internal/domain"
	"github.com/pawsworks/petshop/internal/webserver"
	"github.com/pawsworks/petshop/pkg/common"
)

func setupTestServer(t *testing.T) (*echo.Echo, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(domain.Tables...))
	t.Cleanup(func() {
		_ = db.Migrator().DropTable(domain.Tables...)
	})

	a := app.NewApplication(config.DefaultAppConfig)
	a.OverrideDB(db)

	ws := webserver.Init(a)
	InitRouter(a)
	return ws.Echo(), db
}

func testToken(t *testing.T) string {
	t.Helper()
	claims := jwt.MapClaims{
		"uid": int64(1),
		"usr": "admin",
		"lvl": "super",
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(config.DefaultAppConfig.Web.JwtSecret))
	require.NoError(t, err)
	return signed
}

func doRequest(e *echo.Echo, token, method, target, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAdminRoutesRequireToken(t *testing.T) {
	e, _ := setupTestServer(t)

	rec := doRequest(e, "", http.MethodGet, "/api/v1/admin/pets", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPetCrudRoundTrip(t *testing.T) {
	e, _ := setupTestServer(t)
	token := testToken(t)

	rec := doRequest(e, token, http.MethodPost, "/api/v1/admin/pets",
		`{"name":"Rex","species":"dog","breed":"corgi","price":250}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var created struct {
		Success bool       `json:"success"`
		Data    domain.Pet `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.True(t, created.Success)
	assert.Equal(t, "Rex", created.Data.Name)
	assert.Equal(t, domain.PetStatusAvailable, created.Data.Status)

	rec = doRequest(e, token, http.MethodGet, "/api/v1/admin/pets?q=rex", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Success bool         `json:"success"`
		Data    []domain.Pet `json:"data"`
		Total   int64        `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Equal(t, int64(1), list.Total)
	require.Len(t, list.Data, 1)
	assert.Equal(t, created.Data.ID, list.Data[0].ID)
}

func TestOprLogRecordsOperatorName(t *testing.T) {
	e, db := setupTestServer(t)
	token := testToken(t)

	rec := doRequest(e, token, http.MethodPost, "/api/v1/admin/pets",
		`{"name":"Luna","species":"cat","price":120}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var log domain.SysOprLog
	require.NoError(t, db.Where("opt_action = ?", "pet:create").First(&log).Error)
	assert.Equal(t, "admin", log.OprName)
	assert.Equal(t, "Luna", log.OptDesc)
}

func TestDashboardAggregates(t *testing.T) {
	e, db := setupTestServer(t)
	token := testToken(t)

	cust := domain.Customer{ID: common.UUIDint64(), Name: "Sam", Email: "sam@example.com"}
	require.NoError(t, db.Create(&cust).Error)
	orders := []domain.Order{
		{ID: common.UUIDint64(), OrderNo: "ORD-260901-1001", CustomerId: cust.ID, TotalAmount: 100, Status: domain.OrderStatusCompleted},
		{ID: common.UUIDint64(), OrderNo: "ORD-260901-1002", CustomerId: cust.ID, TotalAmount: 50, Status: domain.OrderStatusCompleted},
		{ID: common.UUIDint64(), OrderNo: "ORD-260901-1003", CustomerId: cust.ID, TotalAmount: 75, Status: domain.OrderStatusPending},
	}
	for i := range orders {
		require.NoError(t, db.Create(&orders[i]).Error)
	}

	rec := doRequest(e, token, http.MethodGet, "/api/v1/admin/dashboard", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Success bool           `json:"success"`
		Data    DashboardStats `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.InDelta(t, 150.0, resp.Data.Revenue, 1e-9)
	assert.InDelta(t, 75.0, resp.Data.AvgOrderValue, 1e-9)
	assert.InDelta(t, 75.0, resp.Data.MedianOrderValue, 1e-9)
	assert.Equal(t, int64(1), resp.Data.CustomerCount)
	assert.Equal(t, int64(2), resp.Data.Orders[domain.OrderStatusCompleted])
	assert.Equal(t, int64(1), resp.Data.Orders[domain.OrderStatusPending])
}
