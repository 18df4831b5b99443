package database

import (
	"gorm.io/gorm"

	compmodel "srivani_backend/internals/features/competitions/model"
	notifmodel "srivani_backend/internals/features/notifications/model"
	quizmodel "srivani_backend/internals/features/quiz/model"
	authmodel "srivani_backend/internals/features/users/auth/model"
	usermodel "srivani_backend/internals/features/users/user/model"
)

// AutoMigrate creates or updates every table the service owns. Gated behind
// DB_AUTO_MIGRATE in production, unconditional in tests.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&usermodel.UserModel{},
		&authmodel.TokenBlacklistModel{},
		&authmodel.RefreshTokenModel{},
		&compmodel.CompetitionModel{},
		&compmodel.QuestionModel{},
		&compmodel.QuestionOptionModel{},
		&quizmodel.QuizAttemptModel{},
		&quizmodel.QuizAttemptAnswerModel{},
		&notifmodel.NotificationModel{},
	)
}
