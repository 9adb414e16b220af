package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dojolink/dojolink/internal/app/models"
	"github.com/dojolink/dojolink/internal/app/models/dto"
	"github.com/dojolink/dojolink/internal/app/services"
	"github.com/dojolink/dojolink/internal/middleware"
)

// UserController handles profile, availability and instructor discovery
type UserController struct {
	userService services.UserService
}

// NewUserController creates a new user controller
func NewUserController(userService services.UserService) *UserController {
	return &UserController{userService: userService}
}

// GetProfile returns the caller's profile
// @Summary Get own profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Profile"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /users/profile [get]
func (c *UserController) GetProfile(ctx *gin.Context) {
	callerID, ok := middleware.CallerID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse("Authentication required"))
		return
	}

	user, err := c.userService.GetProfile(ctx, callerID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    user,
	})
}

// UpdateProfile applies partial profile changes
// @Summary Update own profile
// @Description Updates profile fields; email, password and role cannot be changed here
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProfileRequest true "Profile changes"
// @Success 200 {object} map[string]interface{} "Updated profile"
// @Failure 400 {object} dto.ErrorResponse "Invalid input"
// @Router /users/profile [put]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	callerID, ok := middleware.CallerID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse("Authentication required"))
		return
	}

	var req dto.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid profile update").WithError(err))
		return
	}

	user, err := c.userService.UpdateProfile(ctx, callerID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    user,
	})
}

// UpdateAvailability replaces the instructor's weekly schedule
// @Summary Replace availability
// @Description Replaces the instructor's weekly availability wholesale; the prior set is discarded
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateAvailabilityRequest true "New weekly availability"
// @Success 200 {object} map[string]interface{} "Stored availability"
// @Failure 400 {object} dto.ErrorResponse "Malformed or overlapping windows"
// @Failure 403 {object} dto.ErrorResponse "Caller is not an instructor"
// @Router /users/availability [put]
func (c *UserController) UpdateAvailability(ctx *gin.Context) {
	callerID, ok := middleware.CallerID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse("Authentication required"))
		return
	}
	role, _ := middleware.CallerRole(ctx)

	var req dto.UpdateAvailabilityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid availability payload").WithError(err))
		return
	}

	availability, err := c.userService.ReplaceAvailability(ctx, callerID, role, req.Availability)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":      true,
		"availability": availability,
	})
}

// UpdateHourlyRate sets the instructor's session rate
// @Summary Update hourly rate
// @Description Sets the instructor's hourly session rate; prices of existing sessions are not recomputed
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateHourlyRateRequest true "New rate"
// @Success 200 {object} map[string]interface{} "Stored rate"
// @Failure 400 {object} dto.ErrorResponse "Invalid rate"
// @Failure 403 {object} dto.ErrorResponse "Caller is not an instructor"
// @Router /users/hourly-rate [put]
func (c *UserController) UpdateHourlyRate(ctx *gin.Context) {
	callerID, ok := middleware.CallerID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse("Authentication required"))
		return
	}
	role, _ := middleware.CallerRole(ctx)

	var req dto.UpdateHourlyRateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid rate payload").WithError(err))
		return
	}

	if err := c.userService.UpdateHourlyRate(ctx, callerID, role, req.SessionRate); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":     true,
		"sessionRate": req.SessionRate,
	})
}

// SearchInstructors lists instructors matching optional filters
// @Summary Search instructors
// @Description Lists instructors filtered by location, rate, belt rank and experience, sorted by experience descending
// @Tags users
// @Produce json
// @Param city query string false "City filter (substring)"
// @Param state query string false "State filter (substring)"
// @Param country query string false "Country filter (substring)"
// @Param minRate query number false "Minimum hourly rate"
// @Param maxRate query number false "Maximum hourly rate"
// @Param beltRank query string false "Belt rank"
// @Param minExperience query int false "Minimum years of experience"
// @Success 200 {object} map[string]interface{} "Instructor list"
// @Router /users/search/instructors [get]
func (c *UserController) SearchInstructors(ctx *gin.Context) {
	var query dto.InstructorSearchQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid search filters").WithError(err))
		return
	}

	instructors, err := c.userService.SearchInstructors(ctx, models.InstructorFilters{
		City:          query.City,
		State:         query.State,
		Country:       query.Country,
		MinRate:       query.MinRate,
		MaxRate:       query.MaxRate,
		BeltRank:      query.BeltRank,
		MinExperience: query.MinExperience,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":     true,
		"instructors": instructors,
	})
}

// GetInstructor returns one instructor's public details
// @Summary Get instructor details
// @Tags users
// @Produce json
// @Param id path int true "Instructor user ID"
// @Success 200 {object} map[string]interface{} "Instructor details"
// @Failure 404 {object} dto.ErrorResponse "Instructor not found"
// @Router /users/instructor/{id} [get]
func (c *UserController) GetInstructor(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse("Invalid instructor ID"))
		return
	}

	instructor, err := c.userService.GetInstructor(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	// Full profile minus password, availability included so students can pick
	// a slot from the detail page.
	ctx.JSON(http.StatusOK, gin.H{
		"success":    true,
		"instructor": instructor,
	})
}
