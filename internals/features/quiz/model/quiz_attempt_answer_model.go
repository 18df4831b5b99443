package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QuizAttemptAnswerModel holds one recorded answer per attempt+question.
// MCQ answers reference the chosen option by id so reordering or editing
// options never changes what the user picked.
type QuizAttemptAnswerModel struct {
	QuizAttemptAnswerID         uuid.UUID `gorm:"column:quiz_attempt_answer_id;primaryKey;type:uuid" json:"quiz_attempt_answer_id"`
	QuizAttemptAnswerAttemptID  uuid.UUID `gorm:"column:quiz_attempt_answer_attempt_id;type:uuid;not null;uniqueIndex:idx_quiz_attempt_answer_attempt_question" json:"quiz_attempt_answer_attempt_id"`
	QuizAttemptAnswerQuestionID uuid.UUID `gorm:"column:quiz_attempt_answer_question_id;type:uuid;not null;uniqueIndex:idx_quiz_attempt_answer_attempt_question" json:"quiz_attempt_answer_question_id"`

	QuizAttemptAnswerSelectedOptionID *uuid.UUID `gorm:"column:quiz_attempt_answer_selected_option_id;type:uuid" json:"quiz_attempt_answer_selected_option_id,omitempty"`
	QuizAttemptAnswerText             *string    `gorm:"column:quiz_attempt_answer_text;type:text" json:"quiz_attempt_answer_text,omitempty"`

	QuizAttemptAnswerAnsweredAt time.Time `gorm:"column:quiz_attempt_answer_answered_at;autoUpdateTime" json:"quiz_attempt_answer_answered_at"`
}

func (QuizAttemptAnswerModel) TableName() string {
	return "quiz_attempt_answers"
}

func (m *QuizAttemptAnswerModel) BeforeCreate(tx *gorm.DB) error {
	if m.QuizAttemptAnswerID == uuid.Nil {
		m.QuizAttemptAnswerID = uuid.New()
	}
	return nil
}
