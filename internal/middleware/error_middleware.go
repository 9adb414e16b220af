package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dojolink/dojolink/internal/app/models/dto"
	"github.com/dojolink/dojolink/internal/pkg/apperrors"
	"github.com/dojolink/dojolink/internal/pkg/logger"
)

// HandleAPIError maps application errors to the shared response envelope.
// Not-found resources are 404, ownership and role mismatches 403,
// validation, availability and slot conflicts 400, everything unexpected a
// generic 500.
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case apperrors.Is(err, apperrors.ErrInstructorNotFound):
		c.JSON(http.StatusNotFound, dto.NewErrorResponse("Instructor not found"))
	case apperrors.Is(err, apperrors.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, dto.NewErrorResponse("Session not found"))
	case apperrors.Is(err, apperrors.ErrUserNotFound, apperrors.ErrResourceNotFound, apperrors.ErrStagedBookingNotFound):
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(err.Error()))
	case apperrors.Is(err, apperrors.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, dto.NewErrorResponse("Not authorized to perform this action"))
	case apperrors.Is(err, apperrors.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse("Invalid credentials"))
	case apperrors.Is(err, apperrors.ErrInstructorUnavailable):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("Instructor is not available at this time"))
	case apperrors.Is(err, apperrors.ErrSlotTaken):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("This time slot is already booked"))
	case apperrors.Is(err, apperrors.ErrSessionNotCompleted):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("Can only review completed sessions"))
	case apperrors.Is(err, apperrors.ErrSessionAlreadyRated):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("Session already has a review"))
	case apperrors.Is(err, apperrors.ErrInvalidTransition):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(err.Error()))
	case apperrors.Is(err, apperrors.ErrValidationFailed, apperrors.ErrBadRequest):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(err.Error()))
	case apperrors.Is(err, apperrors.ErrEmailAlreadyExists):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse("User already exists"))
	default:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled API error")
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse("Internal server error"))
	}
}
