package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"srivani_backend/internals/features/notifications/controller"
)

// NotificationRoutes mounts the user-facing notification feed.
func NotificationRoutes(api fiber.Router, db *gorm.DB) {
	ctl := controller.NewNotificationController(db)

	api.Get("/notifications", ctl.List)
}
