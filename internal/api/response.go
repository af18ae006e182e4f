package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"parking-status-backend/internal/apperr"
)

// All responses share the {success, data?, count?, error?, message?} shape.

func respondData(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func respondMessage(c *gin.Context, data any, message string) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data, "message": message})
}

func respondList(c *gin.Context, data any, count int) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data, "count": count})
}

func respondError(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	body := gin.H{"success": false, "error": apperr.Message(err)}
	if cause := errors.Unwrap(err); cause != nil {
		body["message"] = cause.Error()
	}
	c.AbortWithStatusJSON(status, body)
}
