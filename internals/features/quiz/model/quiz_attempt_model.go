package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	QuizAttemptStatusInProgress = "in_progress"
	QuizAttemptStatusCompleted  = "completed"
)

// QuizAttemptModel is one user's pass at a competition. At most one
// in-progress attempt exists per (user, competition); start resumes it
// rather than inserting, so no uniqueness constraint is needed here.
type QuizAttemptModel struct {
	QuizAttemptID            uuid.UUID `gorm:"column:quiz_attempt_id;primaryKey;type:uuid" json:"quiz_attempt_id"`
	QuizAttemptUserID        uuid.UUID `gorm:"column:quiz_attempt_user_id;type:uuid;not null;index:idx_quiz_attempt_user_competition" json:"quiz_attempt_user_id"`
	QuizAttemptCompetitionID uuid.UUID `gorm:"column:quiz_attempt_competition_id;type:uuid;not null;index:idx_quiz_attempt_user_competition" json:"quiz_attempt_competition_id"`

	QuizAttemptStatus    string     `gorm:"column:quiz_attempt_status;type:varchar(20);not null;default:'in_progress'" json:"quiz_attempt_status"`
	QuizAttemptStartTime time.Time  `gorm:"column:quiz_attempt_start_time;not null" json:"quiz_attempt_start_time"`
	QuizAttemptEndTime   *time.Time `gorm:"column:quiz_attempt_end_time" json:"quiz_attempt_end_time,omitempty"`

	// Client-reported countdown snapshot, only meaningful for timed competitions.
	QuizAttemptRemainingSeconds *int `gorm:"column:quiz_attempt_remaining_seconds" json:"quiz_attempt_remaining_seconds,omitempty"`

	QuizAttemptCurrentQuestionIndex int `gorm:"column:quiz_attempt_current_question_index;not null;default:0" json:"quiz_attempt_current_question_index"`

	// Question count snapshotted at start time so later edits to the
	// competition don't change the denominator of an ongoing attempt.
	QuizAttemptTotalQuestions int `gorm:"column:quiz_attempt_total_questions;not null" json:"quiz_attempt_total_questions"`

	QuizAttemptCorrectAnswers *int     `gorm:"column:quiz_attempt_correct_answers" json:"quiz_attempt_correct_answers,omitempty"`
	QuizAttemptScorePercent   *float64 `gorm:"column:quiz_attempt_score_percent" json:"quiz_attempt_score_percent,omitempty"`

	QuizAttemptCreatedAt time.Time `gorm:"column:quiz_attempt_created_at;autoCreateTime" json:"quiz_attempt_created_at"`
	QuizAttemptUpdatedAt time.Time `gorm:"column:quiz_attempt_updated_at;autoUpdateTime" json:"quiz_attempt_updated_at"`
}

func (QuizAttemptModel) TableName() string {
	return "quiz_attempts"
}

func (m *QuizAttemptModel) BeforeCreate(tx *gorm.DB) error {
	if m.QuizAttemptID == uuid.Nil {
		m.QuizAttemptID = uuid.New()
	}
	return nil
}

// Deadline returns the wall-clock moment a timed attempt expires, or nil
// when the competition has no time limit.
func (m *QuizAttemptModel) Deadline(timeLimitMinutes *int) *time.Time {
	if timeLimitMinutes == nil {
		return nil
	}
	d := m.QuizAttemptStartTime.Add(time.Duration(*timeLimitMinutes) * time.Minute)
	return &d
}
