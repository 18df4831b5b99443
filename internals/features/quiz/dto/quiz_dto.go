package dto

import (
	"time"

	"github.com/google/uuid"

	compdto "srivani_backend/internals/features/competitions/dto"
	"srivani_backend/internals/features/quiz/model"
)

// =========================
// Request DTOs
// =========================

type AnswerRequest struct {
	QuestionID       uuid.UUID  `json:"question_id" validate:"required"`
	SelectedOptionID *uuid.UUID `json:"selected_option_id"`
	AnswerText       *string    `json:"answer_text"`
}

// SaveProgressRequest carries coalescing updates: a nil field keeps the
// stored value. When Answers is present the full answer set is replaced,
// not merged — clients resend everything on every save.
type SaveProgressRequest struct {
	CurrentQuestionIndex *int             `json:"current_question_index" validate:"omitempty,min=0"`
	RemainingSeconds     *int             `json:"remaining_seconds" validate:"omitempty,min=0"`
	Answers              *[]AnswerRequest `json:"answers" validate:"omitempty,dive"`
}

// =========================
// Response DTOs
// =========================

type StartAttemptResponse struct {
	AttemptID uuid.UUID `json:"attempt_id"`
	Resumed   bool      `json:"resumed"`
}

type AttemptResponse struct {
	AttemptID            uuid.UUID  `json:"quiz_attempt_id"`
	CompetitionID        uuid.UUID  `json:"quiz_attempt_competition_id"`
	Status               string     `json:"quiz_attempt_status"`
	StartTime            time.Time  `json:"quiz_attempt_start_time"`
	EndTime              *time.Time `json:"quiz_attempt_end_time,omitempty"`
	RemainingSeconds     *int       `json:"quiz_attempt_remaining_seconds,omitempty"`
	CurrentQuestionIndex int        `json:"quiz_attempt_current_question_index"`
	TotalQuestions       int        `json:"quiz_attempt_total_questions"`
	CorrectAnswers       *int       `json:"quiz_attempt_correct_answers,omitempty"`
	ScorePercent         *float64   `json:"quiz_attempt_score_percent,omitempty"`

	CompetitionTitleEn          string     `json:"competition_title_en"`
	CompetitionTitleHi          string     `json:"competition_title_hi"`
	CompetitionTimeLimitMinutes *int       `json:"competition_time_limit_minutes,omitempty"`
	Deadline                    *time.Time `json:"deadline,omitempty"`
}

type SavedAnswerResponse struct {
	SelectedOptionID *uuid.UUID `json:"selected_option_id,omitempty"`
	AnswerText       *string    `json:"answer_text,omitempty"`
	AnsweredAt       time.Time  `json:"answered_at"`
}

// AttemptQuestionResponse is a question plus whatever the user already
// answered on this attempt.
type AttemptQuestionResponse struct {
	compdto.QuestionResponse
	SavedAnswer *SavedAnswerResponse `json:"saved_answer,omitempty"`
}

type SubmitAttemptResponse struct {
	AttemptID      uuid.UUID `json:"attempt_id"`
	Correct        int       `json:"correct"`
	TotalQuestions int       `json:"total_questions"`
	ScorePercent   float64   `json:"score_percent"`
}

type CompletedAttemptResponse struct {
	AttemptID          uuid.UUID  `json:"quiz_attempt_id"`
	CompetitionID      uuid.UUID  `json:"competition_id"`
	CompetitionTitleEn string     `json:"competition_title_en"`
	CompetitionTitleHi string     `json:"competition_title_hi"`
	EndTime            *time.Time `json:"quiz_attempt_end_time,omitempty"`
	TotalQuestions     int        `json:"quiz_attempt_total_questions"`
	CorrectAnswers     *int       `json:"quiz_attempt_correct_answers,omitempty"`
	ScorePercent       *float64   `json:"quiz_attempt_score_percent,omitempty"`
	ResultDeclared     bool       `json:"competition_result_declared"`
}

type DashboardStatsResponse struct {
	TotalCompetitions int64    `json:"total_competitions"`
	CompletedAttempts int64    `json:"completed_attempts"`
	AverageScore      *float64 `json:"average_score_percent,omitempty"`
	BestRank          *int     `json:"best_rank,omitempty"`
}

// =========================
// Converters
// =========================

func ToSavedAnswerResponse(m *model.QuizAttemptAnswerModel) *SavedAnswerResponse {
	return &SavedAnswerResponse{
		SelectedOptionID: m.QuizAttemptAnswerSelectedOptionID,
		AnswerText:       m.QuizAttemptAnswerText,
		AnsweredAt:       m.QuizAttemptAnswerAnsweredAt,
	}
}
