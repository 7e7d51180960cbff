package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/lumvida/lumvida-backend/internal/logger"
	"github.com/lumvida/lumvida-backend/internal/pkg/apperror"
	"github.com/lumvida/lumvida-backend/internal/repository"
)

// ErrorHandler turns deferred gin errors into uniform JSON responses.
// Internal details never reach the client; known domain errors map to
// their proper status codes.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last()

		if logger.Log != nil {
			logger.Log.WithFields(logrus.Fields{
				"error":  err.Error(),
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
			}).Error("Request error")
		}

		statusCode := http.StatusInternalServerError
		message := "internal server error"

		var appErr *apperror.AppError
		switch {
		case errors.As(err.Err, &appErr):
			statusCode = appErr.HTTPStatus
			message = appErr.Message
		case errors.Is(err.Err, repository.ErrReportNotFound):
			statusCode = http.StatusNotFound
			message = "report not found"
		case errors.Is(err.Err, repository.ErrUserNotFound):
			statusCode = http.StatusNotFound
			message = "user not found"
		}

		c.JSON(statusCode, gin.H{"error": message})
	}
}
