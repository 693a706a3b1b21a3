package purchaseController

import (
	"fmt"
	"lms/config"
	"lms/database"
	"lms/middleware"
	"lms/models"
	"lms/utils"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Gateway is the payment provider adapter, assigned in main (tests swap in fakes)
var Gateway utils.PaymentGateway

// CreateCheckoutSession creates a pending purchase and a hosted checkout
// session, returning the gateway redirect URL
func CreateCheckoutSession(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userId, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	reqData, ok := c.Locals("validatedCheckout").(*struct {
		CourseID uint `json:"courseId" validate:"required"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var course models.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", reqData.CourseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if course.Price == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Course price is not available.", nil)
	}

	// The pending row is created before the gateway confirms the session;
	// rows orphaned by a gateway failure are swept by the purchase scheduler.
	purchase := models.CoursePurchase{
		CourseID: course.ID,
		UserID:   userId,
		Amount:   *course.Price,
		Status:   models.PurchasePending,
	}
	if err := database.Database.Db.Create(&purchase).Error; err != nil {
		log.Printf("Error creating purchase record: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "An error occurred while creating the checkout session.", nil)
	}

	courseIDStr := strconv.FormatUint(uint64(course.ID), 10)
	session, err := Gateway.CreateCheckoutSession(utils.CheckoutSessionParams{
		CourseID:     course.ID,
		CourseTitle:  course.Title,
		ThumbnailURL: course.ThumbnailURL,
		UnitAmount:   int64(*course.Price * 100), // rupees to paise
		SuccessURL:   config.AppConfig.FrontendURL + "/course-progress/" + courseIDStr,
		CancelURL:    config.AppConfig.FrontendURL + "/course-detail/" + courseIDStr,
	})
	if err != nil {
		log.Printf("Error creating checkout session for course %d: %v", course.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "An error occurred while creating the checkout session.", nil)
	}

	purchase.PaymentID = session.ID
	if err := database.Database.Db.Save(&purchase).Error; err != nil {
		log.Printf("Error saving payment id on purchase %d: %v", purchase.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "An error occurred while creating the checkout session.", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Checkout session created!", fiber.Map{
		"url": session.URL,
	})
}

// StripeWebhook receives asynchronous gateway notifications. Signature
// failures get a 400; once authenticated the handler always answers 200 so
// the gateway stops redelivering, even when downstream steps fail.
func StripeWebhook(c *fiber.Ctx) error {
	payload := c.Body()
	sigHeader := c.Get("Stripe-Signature")

	event, err := Gateway.VerifyWebhook(payload, sigHeader)
	if err != nil {
		log.Printf("Webhook error: %v", err)
		return c.Status(fiber.StatusBadRequest).SendString("Webhook error: " + err.Error())
	}

	db := database.Database.Db

	webhookEvent := models.WebhookEvent{
		EventID:        event.ID,
		EventType:      event.Type,
		Payload:        datatypes.JSON(payload),
		SignatureValid: true,
	}
	if err := db.Create(&webhookEvent).Error; err != nil {
		log.Printf("Error recording webhook event %s: %v", event.ID, err)
	}

	// Only checkout completion drives state; everything else is acknowledged
	if event.Type != "checkout.session.completed" {
		return c.SendStatus(fiber.StatusOK)
	}

	purchase, err := applyCheckoutCompleted(db, event)
	if err != nil {
		log.Printf("Error handling checkout completion for session %s: %v", event.Session.ID, err)
		webhookEvent.ProcessingError = err.Error()
		db.Save(&webhookEvent)
		return c.SendStatus(fiber.StatusOK)
	}

	notifyEnrollment(db, purchase)

	return c.SendStatus(fiber.StatusOK)
}

// applyCheckoutCompleted performs the purchase-completion transition in one
// transaction: settle the amount, unlock previews, enroll the user. Every
// step is idempotent, so redelivered notifications are harmless.
func applyCheckoutCompleted(db *gorm.DB, event *utils.GatewayEvent) (*models.CoursePurchase, error) {
	var purchase models.CoursePurchase

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("payment_id = ?", event.Session.ID).First(&purchase).Error; err != nil {
			return fmt.Errorf("purchase not found for session %s", event.Session.ID)
		}

		// The gateway's settled amount supersedes the quoted price
		if event.Session.AmountTotal > 0 {
			purchase.Amount = float64(event.Session.AmountTotal) / 100
		}
		purchase.Status = models.PurchaseCompleted
		if err := tx.Save(&purchase).Error; err != nil {
			return err
		}

		// The purchase unlocks previews for every lecture of the course
		if err := tx.Model(&models.Lecture{}).
			Where("course_id = ?", purchase.CourseID).
			Update("is_preview_free", true).Error; err != nil {
			return err
		}

		enrollment := models.Enrollment{UserID: purchase.UserID, CourseID: purchase.CourseID}
		if err := tx.Where("user_id = ? AND course_id = ?", purchase.UserID, purchase.CourseID).
			FirstOrCreate(&enrollment).Error; err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

// notifyEnrollment sends the confirmation email off the request path
func notifyEnrollment(db *gorm.DB, purchase *models.CoursePurchase) {
	var user models.User
	var course models.Course
	if err := db.First(&user, purchase.UserID).Error; err != nil {
		log.Printf("Error loading user %d for enrollment email: %v", purchase.UserID, err)
		return
	}
	if err := db.First(&course, purchase.CourseID).Error; err != nil {
		log.Printf("Error loading course %d for enrollment email: %v", purchase.CourseID, err)
		return
	}

	go func(email, name, title string) {
		if err := utils.SendEnrollmentEmail(email, name, title); err != nil {
			log.Printf("Error sending enrollment email: %v", err)
		}
	}(user.Email, user.Name, course.Title)
}

// GetCourseDetailWithStatus returns a course with its lectures plus whether
// the acting user has a purchase row for it
func GetCourseDetailWithStatus(c *fiber.Ctx) error {
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

	var purchase models.CoursePurchase
	purchased := database.Database.Db.
		Where("user_id = ? AND course_id = ?", userId, courseID).
		First(&purchase).Error == nil

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course detail fetched successfully!", fiber.Map{
		"course":    course,
		"purchased": purchased,
	})
}

// GetAllPurchasedCourses lists every completed purchase with its course
func GetAllPurchasedCourses(c *fiber.Ctx) error {
	if _, ok := c.Locals("userId").(uint); !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var purchases []models.CoursePurchase
	if err := database.Database.Db.
		Where("status = ?", models.PurchaseCompleted).
		Preload("Course").
		Order("created_at desc").
		Find(&purchases).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch purchased courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Purchased courses fetched successfully!", fiber.Map{
		"purchased_courses": purchases,
	})
}
