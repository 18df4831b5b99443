package controller

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"srivani_backend/internals/features/notifications/service"
	helper "srivani_backend/internals/helpers"
)

type NotificationController struct {
	DB      *gorm.DB
	Service *service.NotificationService
}

func NewNotificationController(db *gorm.DB) *NotificationController {
	return &NotificationController{
		DB:      db,
		Service: service.NewNotificationService(db),
	}
}

// =============================
// GET /notifications
// =============================
func (ctl *NotificationController) List(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))

	rows, err := ctl.Service.List(c.Context(), limit)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Database error")
	}
	return helper.JsonOK(c, "Notifications fetched successfully", rows)
}
