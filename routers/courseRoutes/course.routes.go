package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all user-facing course routes
func SetupCourseRoutes(app *fiber.App) {
	userGroup := app.Group("/course")

	// Discovery over published courses
	userGroup.Get("/search", middleware.JWTMiddleware, controllers.SearchCourse)
	userGroup.Get("/published", middleware.JWTMiddleware, controllers.GetPublishedCourses)
}
