package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"lms/config"
	controllers "lms/controllers/course"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseRoutes "lms/routers/courseRoutes"
	"lms/utils"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeMediaStore struct {
	stored  []string
	deleted []string
}

func (f *fakeMediaStore) Store(file *multipart.FileHeader) (*utils.StoredMedia, error) {
	f.stored = append(f.stored, file.Filename)
	return &utils.StoredMedia{URL: "/uploads/" + file.Filename, PublicID: file.Filename}, nil
}

func (f *fakeMediaStore) Delete(publicID string) error {
	f.deleted = append(f.deleted, publicID)
	return nil
}

func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	config.LoadConfig()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	controllers.Media = &fakeMediaStore{}

	app := fiber.New()
	courseRoutes.SetupCourseRoutes(app)
	courseRoutes.SetupAdminCourseRoutes(app)
	return app
}

func createUserWithRole(t *testing.T, role string) (*models.User, string) {
	t.Helper()

	user := models.User{
		Name:     "Meera",
		Email:    fmt.Sprintf("%s-%s@example.com", strings.ReplaceAll(t.Name(), "/", "_"), strings.ToLower(role)),
		Password: "x",
		Role:     role,
	}
	require.NoError(t, database.Database.Db.Create(&user).Error)

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	require.NoError(t, err)
	return &user, token
}

func seedCourse(t *testing.T, title, category string, price float64, published bool) *models.Course {
	t.Helper()

	course := models.Course{Title: title, Category: category, Price: &price, IsPublished: published}
	require.NoError(t, database.Database.Db.Create(&course).Error)
	return &course
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	return resp
}

func decodeCourses(t *testing.T, resp *http.Response) []models.Course {
	t.Helper()

	var body struct {
		Data struct {
			Courses []models.Course `json:"courses"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body.Data.Courses
}

func TestSearchCourse(t *testing.T) {
	app := setupApp(t)
	_, token := createUserWithRole(t, "USER")

	seedCourse(t, "Go Fundamentals", "Programming", 499, true)
	seedCourse(t, "Advanced Go Patterns", "Programming", 999, true)
	seedCourse(t, "Watercolor Painting", "Art", 199, true)
	seedCourse(t, "Unpublished Go Course", "Programming", 299, false)

	// Free-text query only matches published courses
	resp := doJSON(t, app, "GET", "/course/search?query=go", token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	courses := decodeCourses(t, resp)
	require.Len(t, courses, 2)

	// Category filter
	resp = doJSON(t, app, "GET", "/course/search?categories=Art", token, nil)
	courses = decodeCourses(t, resp)
	require.Len(t, courses, 1)
	assert.Equal(t, "Watercolor Painting", courses[0].Title)

	// Descending price sort
	resp = doJSON(t, app, "GET", "/course/search?sortBy=-price", token, nil)
	courses = decodeCourses(t, resp)
	require.Len(t, courses, 3)
	assert.Equal(t, "Advanced Go Patterns", courses[0].Title)
	assert.Equal(t, "Watercolor Painting", courses[2].Title)
}

func TestGetPublishedCourses(t *testing.T) {
	app := setupApp(t)
	_, token := createUserWithRole(t, "USER")

	seedCourse(t, "Visible", "Programming", 100, true)
	seedCourse(t, "Hidden", "Programming", 100, false)

	resp := doJSON(t, app, "GET", "/course/published", token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	courses := decodeCourses(t, resp)
	require.Len(t, courses, 1)
	assert.Equal(t, "Visible", courses[0].Title)
}

func TestCreateCourse(t *testing.T) {
	app := setupApp(t)
	admin, adminToken := createUserWithRole(t, "ADMIN")
	_, userToken := createUserWithRole(t, "USER")

	// Admin only
	resp := doJSON(t, app, "POST", "/admin/course/", userToken, fiber.Map{"title": "New Course", "category": "Programming"})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// Category is required
	resp = doJSON(t, app, "POST", "/admin/course/", adminToken, fiber.Map{"title": "New Course"})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/admin/course/", adminToken, fiber.Map{"title": "New Course", "category": "Programming"})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var course models.Course
	require.NoError(t, database.Database.Db.Where("title = ?", "New Course").First(&course).Error)
	assert.Equal(t, admin.ID, course.CreatorID)
	assert.False(t, course.IsPublished)
	assert.Nil(t, course.Price)
}

func TestTogglePublishCourse(t *testing.T) {
	app := setupApp(t)
	_, adminToken := createUserWithRole(t, "ADMIN")

	course := seedCourse(t, "Draft Course", "Programming", 100, false)
	require.NoError(t, database.Database.Db.Model(course).Update("level", "").Error)

	resp := doJSON(t, app, "PATCH", fmt.Sprintf("/admin/course/%d/publish?publish=true", course.ID), adminToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var updated models.Course
	require.NoError(t, database.Database.Db.First(&updated, course.ID).Error)
	assert.True(t, updated.IsPublished)
	// Invalid level falls back to Beginner on publish
	assert.Equal(t, "Beginner", updated.Level)

	resp = doJSON(t, app, "PATCH", fmt.Sprintf("/admin/course/%d/publish?publish=false", course.ID), adminToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, database.Database.Db.First(&updated, course.ID).Error)
	assert.False(t, updated.IsPublished)
}

func TestCreateAndRemoveLecture(t *testing.T) {
	app := setupApp(t)
	_, adminToken := createUserWithRole(t, "ADMIN")
	course := seedCourse(t, "Course", "Programming", 100, true)

	resp := doJSON(t, app, "POST", fmt.Sprintf("/admin/course/%d/lecture", course.ID), adminToken, fiber.Map{"lectureTitle": "Intro"})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = doJSON(t, app, "POST", fmt.Sprintf("/admin/course/%d/lecture", course.ID), adminToken, fiber.Map{"lectureTitle": "Setup"})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var lectures []models.Lecture
	require.NoError(t, database.Database.Db.Where("course_id = ?", course.ID).Order("order_index asc").Find(&lectures).Error)
	require.Len(t, lectures, 2)
	assert.Equal(t, "Intro", lectures[0].Title)
	assert.Equal(t, 1, lectures[1].OrderIndex)

	// Removing a lecture deletes its stored video
	require.NoError(t, database.Database.Db.Model(&lectures[0]).Update("public_id", "vid-1.mp4").Error)

	resp = doJSON(t, app, "DELETE", fmt.Sprintf("/admin/course/lecture/%d", lectures[0].ID), adminToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	store := controllers.Media.(*fakeMediaStore)
	assert.Contains(t, store.deleted, "vid-1.mp4")

	var count int64
	database.Database.Db.Model(&models.Lecture{}).Where("course_id = ?", course.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestMissingLectureTitleRejected(t *testing.T) {
	app := setupApp(t)
	_, adminToken := createUserWithRole(t, "ADMIN")
	course := seedCourse(t, "Course", "Programming", 100, true)

	resp := doJSON(t, app, "POST", fmt.Sprintf("/admin/course/%d/lecture", course.ID), adminToken, fiber.Map{})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}
