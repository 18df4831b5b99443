package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"srivani_backend/internals/features/quiz/controller"
)

// QuizRoutes mounts the attempt lifecycle and user dashboard endpoints.
// Caller is expected to have attached auth middleware.
func QuizRoutes(api fiber.Router, db *gorm.DB) {
	ctl := controller.NewQuizController(db)

	quiz := api.Group("/quiz")
	quiz.Post("/start/:competition_id", ctl.Start)
	quiz.Get("/attempt/:attempt_id", ctl.GetAttempt)
	quiz.Get("/attempt/:attempt_id/questions", ctl.GetAttemptQuestions)
	quiz.Post("/attempt/:attempt_id/save", ctl.SaveProgress)
	quiz.Post("/attempt/:attempt_id/submit", ctl.Submit)

	user := quiz.Group("/user")
	user.Get("/active", ctl.ActiveCompetitions)
	user.Get("/upcoming", ctl.UpcomingCompetitions)
	user.Get("/ongoing", ctl.OngoingAttempts)
	user.Get("/completed", ctl.CompletedAttempts)
	user.Get("/stats", ctl.DashboardStats)
}
