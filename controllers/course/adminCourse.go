package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/utils"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// Media is the asset store adapter, assigned in main (tests swap in fakes)
var Media utils.MediaStore

var courseLevels = map[string]bool{
	"Beginner": true,
	"Medium":   true,
	"Advance":  true,
}

// requireAdmin loads the acting user and enforces the ADMIN role
func requireAdmin(c *fiber.Ctx) (*models.User, error) {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return nil, middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return nil, middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	if user.Role != "ADMIN" {
		return nil, middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Admin only.", nil)
	}

	return &user, nil
}

// CreateCourse creates a draft course owned by the acting admin
func CreateCourse(c *fiber.Ctx) error {
	user, err := requireAdmin(c)
	if user == nil {
		return err
	}

	reqData, ok := c.Locals("validatedCourse").(*struct {
		Title    string `json:"title" validate:"required,min=3"`
		Category string `json:"category" validate:"required"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	course := models.Course{
		Title:     reqData.Title,
		Category:  reqData.Category,
		CreatorID: user.ID,
	}
	if err := database.Database.Db.Create(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create the course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created!", course)
}

// EditCourse updates course fields from a multipart form; an attached
// courseThumbnail file replaces the stored thumbnail asset
func EditCourse(c *fiber.Ctx) error {
	user, err := requireAdmin(c)
	if user == nil {
		return err
	}

	courseID := c.Locals("courseID").(int)

	var course models.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if v := c.FormValue("title"); v != "" {
		course.Title = v
	}
	if v := c.FormValue("sub_title"); v != "" {
		course.SubTitle = v
	}
	if v := c.FormValue("description"); v != "" {
		course.Description = v
	}
	if v := c.FormValue("category"); v != "" {
		course.Category = v
	}
	if v := c.FormValue("level"); v != "" && courseLevels[v] {
		course.Level = v
	}
	if v := c.FormValue("price"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil || price < 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course price!", nil)
		}
		course.Price = &price
	}

	if thumbnail, err := c.FormFile("courseThumbnail"); err == nil {
		stored, err := Media.Store(thumbnail)
		if err != nil {
			log.Printf("Error storing course thumbnail: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to upload thumbnail!", nil)
		}
		course.ThumbnailURL = stored.URL
	}

	if err := database.Database.Db.Save(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", course)
}

// GetCourseById returns one course regardless of publish state
func GetCourseById(c *fiber.Ctx) error {
	user, err := requireAdmin(c)
	if user == nil {
		return err
	}

	courseID := c.Locals("courseID").(int)

	var course models.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", course)
}

// GetAdminCourses lists courses created by the acting admin
func GetAdminCourses(c *fiber.Ctx) error {
	user, err := requireAdmin(c)
	if user == nil {
		return err
	}

	var courses []models.Course
	if err := database.Database.Db.
		Where("creator_id = ? AND is_deleted = ?", user.ID, false).
		Order("created_at desc").
		Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": courses,
	})
}

// TogglePublishCourse publishes or unpublishes a course via ?publish=true|false.
// An unset or invalid level falls back to Beginner before the course goes live.
func TogglePublishCourse(c *fiber.Ctx) error {
	user, err := requireAdmin(c)
	if user == nil {
		return err
	}

	courseID := c.Locals("courseID").(int)
	publish := c.Query("publish") == "true"

	var course models.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if !courseLevels[course.Level] {
		course.Level = "Beginner"
	}
	course.IsPublished = publish

	if err := database.Database.Db.Save(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	message := "Course unpublished successfully!"
	if publish {
		message = "Course published successfully!"
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, course)
}
