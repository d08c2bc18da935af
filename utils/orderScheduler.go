package utils

import (
	"log"
	"time"

	"edupay/database"
	"edupay/models"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// InitializeOrderExpiryScheduler sets up the abandoned-order sweep
func InitializeOrderExpiryScheduler() {
	log.Println("[ORDER-SCHEDULER] Initializing order expiry scheduler...")

	c := cron.New()

	// Sweep every 5 minutes for orders whose checkout window lapsed
	c.AddFunc("*/5 * * * *", func() {
		count, err := ExpireOverdueOrders(database.Database.Db, time.Now())
		if err != nil {
			log.Printf("[ORDER-SCHEDULER] Error expiring orders: %v", err)
			return
		}
		if count > 0 {
			log.Printf("[ORDER-SCHEDULER] Expired %d overdue orders", count)
		}
	})

	c.Start()
	log.Println("[ORDER-SCHEDULER] Order expiry scheduler started - runs every 5 minutes")
}

// ExpireOverdueOrders flips AWAITING_CALLBACK orders past their expiry to
// EXPIRED. The status re-check lives in the UPDATE itself, so a callback
// that verifies the order concurrently wins the race and the sweep skips it.
func ExpireOverdueOrders(db *gorm.DB, now time.Time) (int64, error) {
	result := db.Model(&models.PaymentOrder{}).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at < ?", models.OrderStatusAwaitingCallback, now).
		Update("status", models.OrderStatusExpired)

	return result.RowsAffected, result.Error
}
