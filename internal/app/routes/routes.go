package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/dojolink/dojolink/internal/app/controllers"
	"github.com/dojolink/dojolink/internal/app/models"
	"github.com/dojolink/dojolink/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	userController *controllers.UserController,
	sessionController *controllers.SessionController,
	authMiddleware *middleware.AuthMiddleware,
) {
	api := router.Group("/api")

	// --- Public Auth routes ---
	auth := api.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
	}

	// --- Public instructor discovery ---
	users := api.Group("/users")
	{
		users.GET("/search/instructors", userController.SearchInstructors)
		users.GET("/instructor/:id", userController.GetInstructor)
	}

	// --- Public booking staging (pre-login) ---
	api.POST("/sessions/staging", sessionController.StageBooking)

	// --- Authenticated routes ---
	authenticated := api.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		usersProtected := authenticated.Group("/users")
		{
			usersProtected.GET("/profile", userController.GetProfile)
			usersProtected.PUT("/profile", userController.UpdateProfile)

			usersInstructorProtected := usersProtected.Group("")
			usersInstructorProtected.Use(authMiddleware.RoleRequired(models.RoleInstructor))
			{
				usersInstructorProtected.PUT("/availability", userController.UpdateAvailability)
				usersInstructorProtected.PUT("/hourly-rate", userController.UpdateHourlyRate)
			}
		}

		sessions := authenticated.Group("/sessions")
		{
			sessions.GET("/my-sessions", sessionController.MySessions)
			sessions.GET("/staging/:key", sessionController.ClaimStagedBooking)
			sessions.PUT("/:id/status", sessionController.UpdateStatus)
			sessions.POST("/:id/review", sessionController.Review)

			sessionsStudentProtected := sessions.Group("")
			sessionsStudentProtected.Use(authMiddleware.RoleRequired(models.RoleStudent))
			{
				sessionsStudentProtected.POST("/book", sessionController.Book)
			}
		}
	}

	// Health check endpoint (public)
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"success": true, "status": "ok"})
	})
}
