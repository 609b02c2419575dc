package webserver

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// DataResponse is the uniform success envelope
type DataResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrResponse is the uniform failure envelope
type ErrResponse struct {
	Success bool        `json:"success"`
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message"`
	Detail  interface{} `json:"detail,omitempty"`
}

// ListResponse wraps paginated results
type ListResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Total   int64       `json:"total"`
	Page    int         `json:"page"`
	PerPage int         `json:"per_page"`
}

// OK writes a success envelope
func OK(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, DataResponse{Success: true, Data: data})
}

// Fail writes a failure envelope
func Fail(c echo.Context, status int, code, message string, detail interface{}) error {
	return c.JSON(status, ErrResponse{Success: false, Code: code, Message: message, Detail: detail})
}

// Paged writes a paginated list envelope
func Paged(c echo.Context, data interface{}, total int64, page, pageSize int) error {
	return c.JSON(http.StatusOK, ListResponse{
		Success: true,
		Data:    data,
		Total:   total,
		Page:    page,
		PerPage: pageSize,
	})
}
