package route

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	helper "srivani_backend/internals/helpers"
)

var startedAt = time.Now()

// BaseRoutes mounts the unauthenticated service endpoints.
func BaseRoutes(app *fiber.App, db *gorm.DB) {
	app.Get("/health", func(c *fiber.Ctx) error {
		status := "ok"
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			status = "degraded"
		}
		return helper.JsonOK(c, "Service health", fiber.Map{
			"status":         status,
			"uptime_seconds": int(time.Since(startedAt).Seconds()),
		})
	})
}
