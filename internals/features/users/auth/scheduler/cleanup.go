package scheduler

import (
	"log"
	"os"
	"strconv"
	"time"

	"gorm.io/gorm"

	"srivani_backend/internals/features/users/auth/model"
)

// StartTokenCleanupScheduler periodically deletes expired blacklist entries
// and refresh tokens.
func StartTokenCleanupScheduler(db *gorm.DB) {
	go func() {
		intervalHours := 6
		if val := os.Getenv("TOKEN_CLEANUP_INTERVAL_HOURS"); val != "" {
			if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
				intervalHours = parsed
			}
		}

		ticker := time.NewTicker(time.Duration(intervalHours) * time.Hour)
		defer ticker.Stop()

		for {
			log.Println("[CLEANUP] Removing expired tokens...")
			now := time.Now()

			if err := db.Delete(&model.TokenBlacklistModel{},
				"token_blacklist_expires_at < ?", now).Error; err != nil {
				log.Printf("[CLEANUP] blacklist cleanup failed: %v", err)
			}
			if err := db.Delete(&model.RefreshTokenModel{},
				"refresh_token_expires_at < ?", now).Error; err != nil {
				log.Printf("[CLEANUP] refresh token cleanup failed: %v", err)
			}

			<-ticker.C
		}
	}()
}
