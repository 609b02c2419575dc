package adminapi

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/labstack/echo/v4"

	"github.com/pawsworks/petshop/internal/domain"
	"github.com/pawsworks/petshop/internal/webserver"
)

const exportSheet = "Sheet1"

// registerExportRoutes registers xlsx export endpoints
func registerExportRoutes() {
	webserver.ApiGET("/orders/export", exportOrders)
	webserver.ApiGET("/customers/export", exportCustomers)
}

func writeHeaderRow(xlsx *excelize.File, headers []string) {
	for i, h := range headers {
		xlsx.SetCellValue(exportSheet, fmt.Sprintf("%c1", 'A'+i), h)
	}
}

func sendWorkbook(c echo.Context, xlsx *excelize.File, filename string) error {
	var buf bytes.Buffer
	if err := xlsx.Write(&buf); err != nil {
		return fail(c, http.StatusInternalServerError, "EXPORT_ERROR", "Failed to build workbook", err.Error())
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func exportOrders(c echo.Context) error {
	var orders []domain.Order
	if err := GetDB(c).Order("created_at DESC").Find(&orders).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query orders", err.Error())
	}

	xlsx := excelize.NewFile()
	writeHeaderRow(xlsx, []string{"OrderNo", "CustomerId", "Subtotal", "Tax", "Discount", "TotalAmount", "Status", "PaymentStatus", "CreatedAt"})
	for i, ord := range orders {
		row := i + 2
		xlsx.SetCellValue(exportSheet, fmt.Sprintf("A%d", row), ord.OrderNo)
		xlsx.SetCellValue(exportSheet, fmt.Sprintf("B%d", row), ord.CustomerId)
		xlsx.SetCellValue(exportSheet, fmt.Sprintf("C%d", row), ord.Subtotal)
		xlsx.SetCellValue(exportSheet, fmt.Sprintf("D%d", row), ord.Tax)
		xlsx.SetCellValue(exportSheet, fmt.Sprintf("E%d", row), ord.Discount)
		xlsx.SetCellValue(exportSheet, fmt.Sprintf("F%d", row), ord.TotalAmount)
		xlsx.SetCellValue(exportSheet, fmt.Sprintf("G%d", row), ord.Status)
		xlsx.SetCellValue(exportSheet, fmt.Sprintf("H%d", row), ord.PaymentStatus)
		xlsx.SetCellValue(exportSheet, fmt.Sprintf("I%d", row), ord.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	addOprLog(c, "order:export", fmt.Sprintf("%d rows", len(orders)))
	return sendWorkbook(c, xlsx, "orders.xlsx")
}

func exportCustomers(c echo.Context) error {
	var customers []domain.Customer
	if err := GetDB(c).Order("created_at DESC").Find(&customers).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query customers", err.Error())
	}

	xlsx := excelize.NewFile()
	writeHeaderRow(xlsx, []string{"Name", "Email", "Phone", "TotalPurchases", "TotalSpent", "CreatedAt"})
	for i, cust := range customers {
		row := i + 2
		xlsx.SetCellValue(exportSheet, fmt.Sprintf("A%d", row), cust.Name)
		xlsx.SetCellValue(exportSheet, fmt.Sprintf("B%d", row), cust.Email)
		xlsx.SetCellValue(exportSheet, fmt.Sprintf("C%d", row), cust.Phone)
		xlsx.SetCellValue(exportSheet, fmt.Sprintf("D%d", row), cust.TotalPurchases)
		xlsx.SetCellValue(exportSheet, fmt.Sprintf("E%d", row), cust.TotalSpent)
		xlsx.SetCellValue(exportSheet, fmt.Sprintf("F%d", row), cust.CreatedAt.Format("2006-01-02 15:04:05"))
	}

	addOprLog(c, "customer:export", fmt.Sprintf("%d rows", len(customers)))
	return sendWorkbook(c, xlsx, "customers.xlsx")
}
