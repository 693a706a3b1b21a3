package progressController

import (
	"lms/database"
	"lms/middleware"
	"lms/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetCourseProgress returns the course with its lectures plus the user's
// stored progress, or an empty progress view when no record exists yet.
// A pure read: it never creates the progress record.
func GetCourseProgress(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course models.Course
	if err := database.Database.Db.
		Preload("Lectures", func(db *gorm.DB) *gorm.DB { return db.Order("order_index asc, id asc") }).
		Where("id = ? AND is_deleted = ?", courseID, false).
		First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var progress models.CourseProgress
	err := database.Database.Db.
		Preload("LectureProgress").
		Where("user_id = ? AND course_id = ?", userId, courseID).
		First(&progress).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Course progress fetched successfully!", fiber.Map{
			"course_details": course,
			"progress":       []models.LectureProgress{},
			"completed":      false,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course progress fetched successfully!", fiber.Map{
		"course_details": course,
		"progress":       progress.LectureProgress,
		"completed":      progress.Completed,
	})
}

// UpdateLectureProgress records one lecture-view event and recomputes the
// derived completed flag against the course's current lecture count
func UpdateLectureProgress(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)
	lectureID := c.Locals("lectureID").(int)

	db := database.Database.Db

	// Lazily create the progress record on first view
	var progress models.CourseProgress
	if err := db.Preload("LectureProgress").
		Where("user_id = ? AND course_id = ?", userId, courseID).
		First(&progress).Error; err != nil {
		progress = models.CourseProgress{
			UserID:   userId,
			CourseID: uint(courseID),
		}
		if err := db.Create(&progress).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update lecture progress!", nil)
		}
	}

	// Mark the entry viewed, appending it when the lecture was never touched
	found := false
	for i := range progress.LectureProgress {
		if progress.LectureProgress[i].LectureID == uint(lectureID) {
			found = true
			if !progress.LectureProgress[i].Viewed {
				progress.LectureProgress[i].Viewed = true
				if err := db.Save(&progress.LectureProgress[i]).Error; err != nil {
					return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update lecture progress!", nil)
				}
			}
			break
		}
	}
	if !found {
		entry := models.LectureProgress{
			CourseProgressID: progress.ID,
			LectureID:        uint(lectureID),
			Viewed:           true,
		}
		if err := db.Create(&entry).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update lecture progress!", nil)
		}
	}

	// Completion is derived from the live lecture count, not a snapshot;
	// lectures added later regress completed back to false on the next view
	var viewedCount int64
	db.Model(&models.LectureProgress{}).
		Where("course_progress_id = ? AND viewed = ?", progress.ID, true).
		Count(&viewedCount)

	var totalLectures int64
	db.Model(&models.Lecture{}).Where("course_id = ?", courseID).Count(&totalLectures)

	progress.Completed = totalLectures > 0 && viewedCount == totalLectures
	if err := db.Save(&progress).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update lecture progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lecture progress updated successfully!", nil)
}

// MarkAsCompleted bulk-sets every tracked lecture viewed and flags the course
// completed, regardless of the course's actual lecture list
func MarkAsCompleted(c *fiber.Ctx) error {
	return setCompletion(c, true, "Course marked as completed!")
}

// MarkAsIncompleted is the exact inverse of MarkAsCompleted
func MarkAsIncompleted(c *fiber.Ctx) error {
	return setCompletion(c, false, "Course marked as incompleted!")
}

func setCompletion(c *fiber.Ctx, completed bool, message string) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	db := database.Database.Db

	var progress models.CourseProgress
	if err := db.Where("user_id = ? AND course_id = ?", userId, courseID).First(&progress).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course progress not found!", nil)
	}

	if err := db.Model(&models.LectureProgress{}).
		Where("course_progress_id = ?", progress.ID).
		Update("viewed", completed).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course progress!", nil)
	}

	progress.Completed = completed
	if err := db.Save(&progress).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, message, nil)
}
