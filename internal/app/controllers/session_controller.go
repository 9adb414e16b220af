package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dojolink/dojolink/internal/app/models/dto"
	"github.com/dojolink/dojolink/internal/app/services"
	"github.com/dojolink/dojolink/internal/middleware"
)

// SessionController handles session booking and lifecycle operations
type SessionController struct {
	sessionService services.SessionService
}

// NewSessionController creates a new session controller
func NewSessionController(sessionService services.SessionService) *SessionController {
	return &SessionController{sessionService: sessionService}
}

// Book books a new session with an instructor
// @Summary Book a session
// @Description Validates the requested slot against the instructor's availability and existing bookings, then creates a pending session
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.BookSessionRequest true "Booking request"
// @Success 201 {object} map[string]interface{} "Created session"
// @Failure 400 {object} dto.ErrorResponse "Instructor unavailable, slot taken, or invalid input"
// @Failure 403 {object} dto.ErrorResponse "Caller is not a student"
// @Failure 404 {object} dto.ErrorResponse "Instructor not found"
// @Router /sessions/book [post]
func (c *SessionController) Book(ctx *gin.Context) {
	callerID, ok := middleware.CallerID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse("Authentication required"))
		return
	}

	var req dto.BookSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid booking request").WithError(err))
		return
	}

	session, err := c.sessionService.Book(ctx, callerID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"success": true,
		"session": session,
	})
}

// MySessions lists the caller's sessions
// @Summary List my sessions
// @Description Lists the caller's sessions (as instructor or student depending on role), sorted by date then start time
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Sessions list"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /sessions/my-sessions [get]
func (c *SessionController) MySessions(ctx *gin.Context) {
	callerID, ok := middleware.CallerID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse("Authentication required"))
		return
	}
	role, ok := middleware.CallerRole(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse("Authentication required"))
		return
	}

	sessions, err := c.sessionService.ListMySessions(ctx, callerID, role)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":  true,
		"sessions": sessions,
	})
}

// UpdateStatus transitions a session's status
// @Summary Update session status
// @Description Transitions a session's status; only a party to the session may do this, and only along legal transitions
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Session ID"
// @Param request body dto.UpdateSessionStatusRequest true "Status update"
// @Success 200 {object} map[string]interface{} "Updated session"
// @Failure 400 {object} dto.ErrorResponse "Illegal transition"
// @Failure 403 {object} dto.ErrorResponse "Caller is not a party to the session"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Router /sessions/{id}/status [put]
func (c *SessionController) UpdateStatus(ctx *gin.Context) {
	callerID, ok := middleware.CallerID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse("Authentication required"))
		return
	}

	sessionID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid session ID"))
		return
	}

	var req dto.UpdateSessionStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid status update request").WithError(err))
		return
	}

	session, err := c.sessionService.UpdateStatus(ctx, sessionID, callerID, req.Status, req.CancellationReason)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"session": session,
	})
}

// Review attaches a review to a completed session
// @Summary Review a session
// @Description Attaches a rating and comment to a completed session; only the student party may review
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Session ID"
// @Param request body dto.ReviewRequest true "Review"
// @Success 200 {object} map[string]interface{} "Updated session"
// @Failure 400 {object} dto.ErrorResponse "Session not completed or already reviewed"
// @Failure 403 {object} dto.ErrorResponse "Caller is not the student party"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Router /sessions/{id}/review [post]
func (c *SessionController) Review(ctx *gin.Context) {
	callerID, ok := middleware.CallerID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse("Authentication required"))
		return
	}

	sessionID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid session ID"))
		return
	}

	var req dto.ReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid review request").WithError(err))
		return
	}

	session, err := c.sessionService.AttachReview(ctx, sessionID, callerID, req.Rating, req.Comment)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"session": session,
	})
}

// StageBooking parks a booking payload before login
// @Summary Stage a booking
// @Description Stores a booking payload under an expiring key so it survives the login redirect
// @Tags sessions
// @Accept json
// @Produce json
// @Param request body dto.StageBookingRequest true "Booking payload to stage"
// @Success 201 {object} dto.StagedBookingResponse "Staging key"
// @Failure 400 {object} dto.ErrorResponse "Invalid booking payload"
// @Router /sessions/staging [post]
func (c *SessionController) StageBooking(ctx *gin.Context) {
	var req dto.StageBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid booking payload").WithError(err))
		return
	}

	key, expiresAt, err := c.sessionService.StageBooking(ctx, &req.Booking)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.StagedBookingResponse{
		Success:    true,
		StagingKey: key,
		ExpiresAt:  expiresAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

// ClaimStagedBooking retrieves and consumes a staged booking
// @Summary Claim a staged booking
// @Description Returns the staged booking payload and deletes it; expired or already-claimed keys yield 404
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param key path string true "Staging key"
// @Success 200 {object} map[string]interface{} "Staged booking payload"
// @Failure 404 {object} dto.ErrorResponse "Staged booking not found or expired"
// @Router /sessions/staging/{key} [get]
func (c *SessionController) ClaimStagedBooking(ctx *gin.Context) {
	booking, err := c.sessionService.ClaimStagedBooking(ctx, ctx.Param("key"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"booking": booking,
	})
}
