package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminCourseRoutes sets up instructor/admin course management routes
func SetupAdminCourseRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin/course")

	// Course management
	adminGroup.Post("/", middleware.JWTMiddleware, validators.CreateCourse(), controllers.CreateCourse)
	adminGroup.Get("/", middleware.JWTMiddleware, controllers.GetAdminCourses)
	adminGroup.Get("/:courseId", middleware.JWTMiddleware, validators.CourseID(), controllers.GetCourseById)
	adminGroup.Put("/:courseId", middleware.JWTMiddleware, validators.CourseID(), controllers.EditCourse)
	adminGroup.Patch("/:courseId/publish", middleware.JWTMiddleware, validators.CourseID(), controllers.TogglePublishCourse)

	// Lecture management
	adminGroup.Post("/:courseId/lecture", middleware.JWTMiddleware, validators.CourseID(), validators.CreateLecture(), controllers.CreateLecture)
	adminGroup.Get("/:courseId/lecture", middleware.JWTMiddleware, validators.CourseID(), controllers.GetCourseLectures)
	adminGroup.Put("/lecture/:lectureId", middleware.JWTMiddleware, validators.LectureID(), controllers.EditLecture)
	adminGroup.Delete("/lecture/:lectureId", middleware.JWTMiddleware, validators.LectureID(), controllers.RemoveLecture)
	adminGroup.Get("/lecture/:lectureId", middleware.JWTMiddleware, validators.LectureID(), controllers.GetLectureById)
}
