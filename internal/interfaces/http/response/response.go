package response

import (
	"github.com/gin-gonic/gin"
	domainerrors "vnbank.backend/internal/domain/errors"
	"vnbank.backend/pkg/utils"
)

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Paginated sends a page of items with its metadata
func Paginated(c *gin.Context, status int, items interface{}, meta utils.PaginationMeta) {
	c.JSON(status, gin.H{
		"items":      items,
		"pagination": meta,
	})
}

// Error sends an error response. Domain errors keep their status and message;
// anything else becomes a 500.
func Error(c *gin.Context, err error) {
	appErr := domainerrors.FromError(err)

	body := gin.H{
		"code":    appErr.Code,
		"message": appErr.Message,
	}
	if domainerrors.IsRetryable(err) {
		body["retryable"] = true
	}
	c.JSON(appErr.Status, body)
}

// ErrorWithStatus sends an error response with a specific status and message
func ErrorWithStatus(c *gin.Context, status int, code string, message string) {
	c.JSON(status, gin.H{
		"code":    code,
		"message": message,
	})
}
