package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	"log"

	"github.com/gofiber/fiber/v2"
)

// CreateLecture appends a lecture to a course
func CreateLecture(c *fiber.Ctx) error {
	user, err := requireAdmin(c)
	if user == nil {
		return err
	}

	courseID := c.Locals("courseID").(int)

	reqData, ok := c.Locals("validatedLecture").(*struct {
		LectureTitle string `json:"lectureTitle" validate:"required"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var course models.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var lectureCount int64
	database.Database.Db.Model(&models.Lecture{}).Where("course_id = ?", course.ID).Count(&lectureCount)

	lecture := models.Lecture{
		CourseID:   course.ID,
		Title:      reqData.LectureTitle,
		OrderIndex: int(lectureCount),
	}
	if err := database.Database.Db.Create(&lecture).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create lecture!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Lecture created successfully!", lecture)
}

// GetCourseLectures lists a course's lectures in order
func GetCourseLectures(c *fiber.Ctx) error {
	user, err := requireAdmin(c)
	if user == nil {
		return err
	}

	courseID := c.Locals("courseID").(int)

	var course models.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var lectures []models.Lecture
	if err := database.Database.Db.
		Where("course_id = ?", course.ID).
		Order("order_index asc, id asc").
		Find(&lectures).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch lectures!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lectures fetched successfully!", fiber.Map{
		"lectures": lectures,
	})
}

// EditLecture updates lecture fields; an attached videoFile replaces the
// stored video asset
func EditLecture(c *fiber.Ctx) error {
	user, err := requireAdmin(c)
	if user == nil {
		return err
	}

	lectureID := c.Locals("lectureID").(int)

	var lecture models.Lecture
	if err := database.Database.Db.First(&lecture, lectureID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lecture not found!", nil)
	}

	if v := c.FormValue("lectureTitle"); v != "" {
		lecture.Title = v
	}
	if v := c.FormValue("isPreviewFree"); v != "" {
		lecture.IsPreviewFree = v == "true"
	}

	if videoFile, err := c.FormFile("videoFile"); err == nil {
		if lecture.PublicID != "" {
			if err := Media.Delete(lecture.PublicID); err != nil {
				log.Printf("Error deleting old lecture video %s: %v", lecture.PublicID, err)
			}
		}
		stored, err := Media.Store(videoFile)
		if err != nil {
			log.Printf("Error storing lecture video: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to upload video!", nil)
		}
		lecture.VideoURL = stored.URL
		lecture.PublicID = stored.PublicID
	}

	if err := database.Database.Db.Save(&lecture).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update lecture!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lecture updated successfully!", lecture)
}

// RemoveLecture deletes a lecture and its stored video
func RemoveLecture(c *fiber.Ctx) error {
	user, err := requireAdmin(c)
	if user == nil {
		return err
	}

	lectureID := c.Locals("lectureID").(int)

	var lecture models.Lecture
	if err := database.Database.Db.First(&lecture, lectureID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lecture not found!", nil)
	}

	if lecture.PublicID != "" {
		if err := Media.Delete(lecture.PublicID); err != nil {
			log.Printf("Error deleting lecture video %s: %v", lecture.PublicID, err)
		}
	}

	if err := database.Database.Db.Delete(&lecture).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to remove lecture!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lecture removed successfully!", nil)
}

// GetLectureById returns one lecture
func GetLectureById(c *fiber.Ctx) error {
	user, err := requireAdmin(c)
	if user == nil {
		return err
	}

	lectureID := c.Locals("lectureID").(int)

	var lecture models.Lecture
	if err := database.Database.Db.First(&lecture, lectureID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lecture not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lecture fetched successfully!", lecture)
}
