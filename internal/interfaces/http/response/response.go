package response

import (
	"github.com/gin-gonic/gin"
	domainerrors "privacy-pay.backend/internal/domain/errors"
)

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Error sends an error response, mapping AppError codes to HTTP statuses
func Error(c *gin.Context, err error) {
	appErr, ok := err.(*domainerrors.AppError)
	if !ok {
		appErr = domainerrors.InternalError(err)
	}

	c.JSON(appErr.Code, gin.H{
		"success": false,
		"error":   appErr.Message,
	})
}
