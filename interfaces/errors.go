package interfaces

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"jd-generator/domain"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code        int                 `json:"code"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Detail      []domain.FieldError `json:"detail,omitempty"`
}

func writeError(c *gin.Context, status int, description string, detail []domain.FieldError) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Code:        status,
		Name:        http.StatusText(status),
		Description: description,
		Detail:      detail,
	})
}

// respondError maps the domain error taxonomy onto HTTP statuses. Internal
// causes are logged here and never reach the client.
func (h *HTTPHandler) respondError(c *gin.Context, err error) {
	var (
		verr   *domain.ValidationError
		genErr *domain.GenerationError
		stErr  *domain.StorageError
	)
	fields := []zap.Field{
		zap.String("request_id", RequestIDFrom(c)),
		zap.String("path", c.FullPath()),
		zap.Error(err),
	}

	switch {
	case errors.As(err, &verr):
		writeError(c, http.StatusUnprocessableEntity, "Request validation failed", verr.Fields)
	case errors.Is(err, domain.ErrNotFound):
		writeError(c, http.StatusNotFound, "Job Description not found", nil)
	case errors.As(err, &genErr):
		h.Logger.Error("generation failed", append(fields,
			zap.String("provider", genErr.Provider),
			zap.String("kind", string(genErr.Kind)),
			zap.String("raw", genErr.Raw))...)
		writeError(c, http.StatusInternalServerError, "Failed to generate JD", nil)
	case errors.As(err, &stErr):
		h.Logger.Error("storage failure", append(fields, zap.String("op", stErr.Op))...)
		writeError(c, http.StatusInternalServerError, "A database error occurred", nil)
	default:
		h.Logger.Error("unhandled error", fields...)
		writeError(c, http.StatusInternalServerError, "An unexpected error occurred on the server.", nil)
	}
}
