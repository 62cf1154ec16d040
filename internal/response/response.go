package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eeshabandaru/fuel-efficient-route-tracker/internal/domain"
)

// envelope is the uniform shape of every API response body.
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *errorBody  `json:"error,omitempty"`
	Meta    *pageMeta   `json:"meta,omitempty"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type pageMeta struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

// Success writes a 200 response with data.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, envelope{Success: true, Data: data})
}

// Created writes a 201 response with data.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, envelope{Success: true, Data: data})
}

// Paginated writes a 200 response with data and pagination metadata.
func Paginated(c *gin.Context, data interface{}, total int64, page, limit int) {
	c.JSON(http.StatusOK, envelope{
		Success: true,
		Data:    data,
		Meta:    &pageMeta{Total: total, Page: page, Limit: limit},
	})
}

// BadRequest writes a 400 response with the given message.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, envelope{
		Success: false,
		Error:   &errorBody{Code: string(domain.CodeValidation), Message: message},
	})
}

// Error maps a domain error to its HTTP status and writes it.
func Error(c *gin.Context, err error) {
	code := domain.CodeOf(err)
	c.JSON(statusFor(code), envelope{
		Success: false,
		Error:   &errorBody{Code: string(code), Message: err.Error()},
	})
}

// statusFor maps each domain error code to an HTTP status. NotFound is a
// normal outcome (404), planning failures surface as 502 because the
// fatal cause is always an upstream provider.
func statusFor(code domain.ErrorCode) int {
	switch code {
	case domain.CodeValidation:
		return http.StatusBadRequest
	case domain.CodeUnauthorized:
		return http.StatusUnauthorized
	case domain.CodeForbidden:
		return http.StatusForbidden
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeConflict:
		return http.StatusConflict
	case domain.CodeUnavailable, domain.CodeMalformedResponse, domain.CodePlanningFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
