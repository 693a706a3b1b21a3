package utils

import (
	"lms/config"
	"lms/database"
	"lms/models"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// logScheduler logs scheduler events with timestamp
func logScheduler(message string) {
	log.Printf("[PURCHASE-SCHEDULER %s] %s", time.Now().Format(time.RFC3339), message)
}

// ExpireStalePurchases marks purchases that never received a completed
// notification as failed once they outlive the configured TTL. Checkout
// creates the pending row before the gateway session is confirmed, so rows
// whose session creation failed (or whose buyer walked away) end up here.
func ExpireStalePurchases() {
	ttl := time.Duration(config.AppConfig.PendingPurchaseTTLHours) * time.Hour
	cutoff := time.Now().Add(-ttl)

	result := database.Database.Db.
		Model(&models.CoursePurchase{}).
		Where("status = ? AND created_at < ?", models.PurchasePending, cutoff).
		Update("status", models.PurchaseFailed)

	if result.Error != nil {
		logScheduler("Error expiring stale purchases: " + result.Error.Error())
		return
	}
	if result.RowsAffected > 0 {
		logScheduler("Marked stale pending purchases as failed")
	}
}

// StartPurchaseScheduler runs the stale-purchase sweep every hour
func StartPurchaseScheduler() *cron.Cron {
	c := cron.New()
	if _, err := c.AddFunc("@every 1h", ExpireStalePurchases); err != nil {
		log.Fatalf("Failed to register purchase scheduler: %v", err)
	}
	c.Start()
	logScheduler("Purchase scheduler started")
	return c
}
