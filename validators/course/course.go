package courseValidator

import (
	"lms/middleware"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

func fieldErrors(err error) map[string]string {
	errors := make(map[string]string)
	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range validationErrs {
			field := strings.ToLower(fe.Field())
			switch fe.Tag() {
			case "required":
				errors[field] = strings.Title(field) + " is required!"
			case "min":
				errors[field] = strings.Title(field) + " must be at least " + fe.Param() + " characters long!"
			default:
				errors[field] = "Invalid " + field + "!"
			}
		}
	}
	return errors
}

func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title    string `json:"title" validate:"required,min=3"`
			Category string `json:"category" validate:"required"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, fieldErrors(err))
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

// CourseID validates the :courseId path parameter
func CourseID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		courseIDStr := strings.TrimSpace(c.Params("courseId"))
		if courseIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course ID is required!", nil)
		}

		courseID, err := strconv.Atoi(courseIDStr)
		if err != nil || courseID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}

		c.Locals("courseID", courseID)
		return c.Next()
	}
}

func CreateLecture() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			LectureTitle string `json:"lectureTitle" validate:"required"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, fieldErrors(err))
		}

		c.Locals("validatedLecture", reqData)
		return c.Next()
	}
}

// LectureID validates the :lectureId path parameter
func LectureID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		lectureIDStr := strings.TrimSpace(c.Params("lectureId"))
		if lectureIDStr == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Lecture ID is required!", nil)
		}

		lectureID, err := strconv.Atoi(lectureIDStr)
		if err != nil || lectureID <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Lecture ID!", nil)
		}

		c.Locals("lectureID", lectureID)
		return c.Next()
	}
}
