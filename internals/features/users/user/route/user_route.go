package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	userController "srivani_backend/internals/features/users/user/controller"
)

// UserRoutes: /api/u/profile (JWT applied by the caller's group)
func UserRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := userController.NewUserController(db)

	api.Get("/profile", ctrl.GetProfile)
	api.Put("/profile", ctrl.UpdateProfile)
}

// UserAdminRoutes: /api/a/users
func UserAdminRoutes(api fiber.Router, db *gorm.DB) {
	ctrl := userController.NewUserController(db)

	api.Get("/users", ctrl.GetAllUsers)
	api.Post("/users/:id/deactivate", ctrl.DeactivateUser)
}
