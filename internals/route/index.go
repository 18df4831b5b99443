package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authmw "srivani_backend/internals/middlewares/auth"

	authroute "srivani_backend/internals/features/users/auth/route"
	userroute "srivani_backend/internals/features/users/user/route"

	comproute "srivani_backend/internals/features/competitions/route"
	notifroute "srivani_backend/internals/features/notifications/route"
	quizroute "srivani_backend/internals/features/quiz/route"
)

// SetupRoutes mounts the whole HTTP surface:
//
//	/api/auth    login/register/token lifecycle (own rate limits)
//	/api/public  unauthenticated reads
//	/api/u       authenticated user surface
//	/api/a       admin surface (auth + role check)
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	BaseRoutes(app, db)
	authroute.AuthRoutes(app, db)

	public := app.Group("/api/public")
	comproute.CompetitionUserRoutes(public, db)

	user := app.Group("/api/u", authmw.AuthMiddleware(db))
	userroute.UserRoutes(user, db)
	quizroute.QuizRoutes(user, db)
	notifroute.NotificationRoutes(user, db)
	comproute.CompetitionUserRoutes(user, db)

	admin := app.Group("/api/a", authmw.AuthMiddleware(db), authmw.IsAdmin("admin panel"))
	comproute.CompetitionAdminRoutes(admin, db)
	userroute.UserAdminRoutes(admin, db)
}
