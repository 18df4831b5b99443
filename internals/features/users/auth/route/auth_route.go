package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authController "srivani_backend/internals/features/users/auth/controller"
	"srivani_backend/internals/middlewares"
	authMiddleware "srivani_backend/internals/middlewares/auth"
)

func AuthRoutes(app *fiber.App, db *gorm.DB) {
	ctrl := authController.NewAuthController(db)

	api := app.Group("/api/auth")
	api.Post("/register", middlewares.RegisterRateLimiter(), ctrl.Register)
	api.Post("/login", middlewares.LoginRateLimiter(), ctrl.Login)
	api.Post("/login-google", middlewares.LoginRateLimiter(), ctrl.LoginGoogle)
	api.Post("/refresh-token", ctrl.RefreshToken)

	protected := api.Group("", authMiddleware.AuthMiddleware(db))
	protected.Get("/me", ctrl.Me)
	protected.Post("/logout", ctrl.Logout)
	protected.Post("/change-password", ctrl.ChangePassword)
}
