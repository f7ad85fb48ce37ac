package handler

import (
	"errors"

	"donation-platform/internal/adapter/http/middleware"
	"donation-platform/pkg/apperror"
	"donation-platform/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// bindJSON decodes the body into req and writes the error response on failure.
// Amount decoding errors keep their own code; everything else is a validation error.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			response.Error(c, appErr)
		} else {
			response.Error(c, apperror.Validation(err.Error()))
		}
		return false
	}
	return true
}

// pathID parses the :id route parameter.
func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.ErrNotFound("Donation request"))
		return uuid.Nil, false
	}
	return id, true
}

// sessionUser returns the authenticated user id set by JWTAuth.
func sessionUser(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return uuid.Nil, false
	}
	return id, true
}
