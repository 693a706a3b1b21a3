package progressRoutes

import (
	controllers "lms/controllers/progress"
	"lms/middleware"
	validators "lms/validators/progress"

	"github.com/gofiber/fiber/v2"
)

// SetupProgressRoutes sets up per-course viewing progress routes
func SetupProgressRoutes(app *fiber.App) {
	progressGroup := app.Group("/progress")

	progressGroup.Get("/:courseId", middleware.JWTMiddleware, validators.CourseID(), controllers.GetCourseProgress)
	progressGroup.Post("/:courseId/lecture/:lectureId/view", middleware.JWTMiddleware, validators.CourseLectureIDs(), controllers.UpdateLectureProgress)
	progressGroup.Post("/:courseId/complete", middleware.JWTMiddleware, validators.CourseID(), controllers.MarkAsCompleted)
	progressGroup.Post("/:courseId/incomplete", middleware.JWTMiddleware, validators.CourseID(), controllers.MarkAsIncompleted)
}
