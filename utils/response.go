package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status  int         `json:"-"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, &Response{
		Status: http.StatusOK,
		Data:   data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, &Response{
		Status:  http.StatusCreated,
		Message: "Resource created successfully",
		Data:    data,
	})
}

func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, &Response{
		Status:  http.StatusOK,
		Message: message,
	})
}

func errorResponse(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, &Response{
		Status: status,
		Error:  message,
	})
}

func Unauthorized(c *gin.Context, message string) {
	errorResponse(c, http.StatusUnauthorized, message)
}

func BadRequest(c *gin.Context, message string) {
	errorResponse(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context, message string) {
	errorResponse(c, http.StatusNotFound, message)
}

func InternalError(c *gin.Context, message string) {
	errorResponse(c, http.StatusInternalServerError, message)
}

func BadGateway(c *gin.Context, message string) {
	errorResponse(c, http.StatusBadGateway, message)
}

func ServiceUnavailable(c *gin.Context, message string) {
	errorResponse(c, http.StatusServiceUnavailable, message)
}

func TooManyRequests(c *gin.Context, message string, data ...interface{}) {
	response := &Response{
		Status: http.StatusTooManyRequests,
		Error:  message,
	}
	if len(data) > 0 {
		response.Data = data[0]
	}
	c.AbortWithStatusJSON(http.StatusTooManyRequests, response)
}

func Conflict(c *gin.Context, message string) {
	errorResponse(c, http.StatusConflict, message)
}

func Forbidden(c *gin.Context, message string) {
	errorResponse(c, http.StatusForbidden, message)
}
