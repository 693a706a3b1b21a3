package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SearchCourse searches published courses by free-text query over
// title/subtitle/category, with optional category filter and sorting.
// sortBy takes comma-separated fields; a "-" prefix sorts descending.
func SearchCourse(c *fiber.Ctx) error {
	if _, ok := c.Locals("userId").(uint); !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	query := c.Query("query", "")
	sortBy := c.Query("sortBy", "createdAt")
	categories := c.Query("categories", "")

	db := database.Database.Db.Model(&models.Course{}).
		Where("is_published = ? AND is_deleted = ?", true, false)

	if query != "" {
		like := "%" + strings.ToLower(query) + "%"
		db = db.Where(
			"LOWER(title) LIKE ? OR LOWER(sub_title) LIKE ? OR LOWER(category) LIKE ?",
			like, like, like,
		)
	}

	if categories != "" {
		categoryList := strings.Split(categories, ",")
		for i := range categoryList {
			categoryList[i] = strings.TrimSpace(categoryList[i])
		}
		db = db.Where("category IN ?", categoryList)
	}

	for _, order := range buildSortOrders(sortBy) {
		db = db.Order(order)
	}

	var courses []models.Course
	if err := db.Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to search courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"courses": courses,
	})
}

// buildSortOrders maps API sort fields onto column order clauses
func buildSortOrders(sortBy string) []string {
	columns := map[string]string{
		"price":     "price",
		"title":     "title",
		"createdAt": "created_at",
	}

	var orders []string
	for _, field := range strings.Split(sortBy, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}

		direction := "asc"
		if strings.HasPrefix(field, "-") {
			direction = "desc"
			field = field[1:]
		}

		column, ok := columns[field]
		if !ok {
			continue
		}
		orders = append(orders, column+" "+direction)
	}

	if len(orders) == 0 {
		orders = append(orders, "created_at asc")
	}
	return orders
}

// GetPublishedCourses lists every published course with its lectures
func GetPublishedCourses(c *fiber.Ctx) error {
	if _, ok := c.Locals("userId").(uint); !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var courses []models.Course
	if err := database.Database.Db.
		Preload("Lectures", func(db *gorm.DB) *gorm.DB { return db.Order("order_index asc, id asc") }).
		Where("is_published = ? AND is_deleted = ?", true, false).
		Order("created_at desc").
		Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch published courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Published courses fetched successfully!", fiber.Map{
		"courses": courses,
	})
}
