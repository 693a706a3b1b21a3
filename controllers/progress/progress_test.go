package progressController_test

import (
	"encoding/json"
	"fmt"
	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	progressRoutes "lms/routers/progressRoutes"
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

func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	config.LoadConfig()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	progressRoutes.SetupProgressRoutes(app)
	return app
}

func createUser(t *testing.T) (*models.User, string) {
	t.Helper()

	user := models.User{Name: "Ravi", Email: fmt.Sprintf("%s@example.com", strings.ReplaceAll(t.Name(), "/", "_")), Password: "x"}
	require.NoError(t, database.Database.Db.Create(&user).Error)

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	require.NoError(t, err)
	return &user, token
}

func createCourseWithLectures(t *testing.T, lectureCount int) (*models.Course, []models.Lecture) {
	t.Helper()

	price := 199.0
	course := models.Course{Title: "SQL Deep Dive", Category: "Databases", Price: &price, IsPublished: true}
	require.NoError(t, database.Database.Db.Create(&course).Error)

	lectures := make([]models.Lecture, 0, lectureCount)
	for i := 0; i < lectureCount; i++ {
		lecture := models.Lecture{CourseID: course.ID, Title: fmt.Sprintf("Lecture %d", i+1), OrderIndex: i}
		require.NoError(t, database.Database.Db.Create(&lecture).Error)
		lectures = append(lectures, lecture)
	}
	return &course, lectures
}

func do(t *testing.T, app *fiber.App, method, path, token string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	return resp
}

func recordView(t *testing.T, app *fiber.App, token string, courseID, lectureID uint) *http.Response {
	t.Helper()
	return do(t, app, "POST", fmt.Sprintf("/progress/%d/lecture/%d/view", courseID, lectureID), token)
}

func loadProgress(t *testing.T, userID, courseID uint) *models.CourseProgress {
	t.Helper()

	var progress models.CourseProgress
	err := database.Database.Db.Preload("LectureProgress").
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&progress).Error
	require.NoError(t, err)
	return &progress
}

func TestUpdateLectureProgress(t *testing.T) {
	app := setupApp(t)
	user, token := createUser(t)
	course, lectures := createCourseWithLectures(t, 2)

	// First view lazily creates the record and marks one lecture viewed
	resp := recordView(t, app, token, course.ID, lectures[0].ID)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	progress := loadProgress(t, user.ID, course.ID)
	require.Len(t, progress.LectureProgress, 1)
	assert.True(t, progress.LectureProgress[0].Viewed)
	assert.False(t, progress.Completed)

	// Re-viewing the same lecture is idempotent
	recordView(t, app, token, course.ID, lectures[0].ID)
	progress = loadProgress(t, user.ID, course.ID)
	assert.Len(t, progress.LectureProgress, 1)
	assert.False(t, progress.Completed)

	// Viewing the last remaining lecture completes the course
	recordView(t, app, token, course.ID, lectures[1].ID)
	progress = loadProgress(t, user.ID, course.ID)
	assert.Len(t, progress.LectureProgress, 2)
	assert.True(t, progress.Completed)
}

func TestCompletionRegressesWhenLectureAdded(t *testing.T) {
	app := setupApp(t)
	user, token := createUser(t)
	course, lectures := createCourseWithLectures(t, 2)

	recordView(t, app, token, course.ID, lectures[0].ID)
	recordView(t, app, token, course.ID, lectures[1].ID)
	assert.True(t, loadProgress(t, user.ID, course.ID).Completed)

	// A lecture added later regresses completion on the next view event
	newLecture := models.Lecture{CourseID: course.ID, Title: "Lecture 3", OrderIndex: 2}
	require.NoError(t, database.Database.Db.Create(&newLecture).Error)

	recordView(t, app, token, course.ID, lectures[0].ID)
	assert.False(t, loadProgress(t, user.ID, course.ID).Completed)

	// Viewing the new lecture completes it again
	recordView(t, app, token, course.ID, newLecture.ID)
	assert.True(t, loadProgress(t, user.ID, course.ID).Completed)
}

func TestMarkAsCompletedAndIncompleted(t *testing.T) {
	app := setupApp(t)
	user, token := createUser(t)
	course, lectures := createCourseWithLectures(t, 3)

	// Requires an existing progress record
	resp := do(t, app, "POST", fmt.Sprintf("/progress/%d/complete", course.ID), token)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	recordView(t, app, token, course.ID, lectures[0].ID)

	// Bulk-set every tracked entry viewed, regardless of lecture coverage
	resp = do(t, app, "POST", fmt.Sprintf("/progress/%d/complete", course.ID), token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	progress := loadProgress(t, user.ID, course.ID)
	assert.True(t, progress.Completed)
	for _, entry := range progress.LectureProgress {
		assert.True(t, entry.Viewed)
	}

	// The inverse clears every entry
	resp = do(t, app, "POST", fmt.Sprintf("/progress/%d/incomplete", course.ID), token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	progress = loadProgress(t, user.ID, course.ID)
	assert.False(t, progress.Completed)
	for _, entry := range progress.LectureProgress {
		assert.False(t, entry.Viewed)
	}
}

func TestGetCourseProgressEmpty(t *testing.T) {
	app := setupApp(t)
	user, token := createUser(t)
	course, _ := createCourseWithLectures(t, 2)

	resp := do(t, app, "GET", fmt.Sprintf("/progress/%d", course.ID), token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data struct {
			Progress      []models.LectureProgress `json:"progress"`
			Completed     bool                     `json:"completed"`
			CourseDetails struct {
				Lectures []models.Lecture `json:"lectures"`
			} `json:"course_details"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Empty(t, body.Data.Progress)
	assert.False(t, body.Data.Completed)
	assert.Len(t, body.Data.CourseDetails.Lectures, 2)

	// The read must not create a record as a side effect
	var count int64
	database.Database.Db.Model(&models.CourseProgress{}).
		Where("user_id = ? AND course_id = ?", user.ID, course.ID).
		Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestGetCourseProgressStored(t *testing.T) {
	app := setupApp(t)
	_, token := createUser(t)
	course, lectures := createCourseWithLectures(t, 2)

	recordView(t, app, token, course.ID, lectures[0].ID)

	resp := do(t, app, "GET", fmt.Sprintf("/progress/%d", course.ID), token)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Data struct {
			Progress  []models.LectureProgress `json:"progress"`
			Completed bool                     `json:"completed"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Data.Progress, 1)
	assert.Equal(t, lectures[0].ID, body.Data.Progress[0].LectureID)
	assert.True(t, body.Data.Progress[0].Viewed)
	assert.False(t, body.Data.Completed)
}

func TestGetCourseProgressCourseNotFound(t *testing.T) {
	app := setupApp(t)
	_, token := createUser(t)

	resp := do(t, app, "GET", "/progress/9999", token)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
