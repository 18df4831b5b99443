package dto

import (
	"time"

	"github.com/google/uuid"

	"srivani_backend/internals/features/competitions/model"
)

// ================== REQUEST ==================

type OptionRequest struct {
	QuestionOptionID *uuid.UUID `json:"question_option_id"` // nil = new option
	TextEn           string     `json:"question_option_text_en" validate:"required"`
	TextHi           string     `json:"question_option_text_hi"`
	ImageURL         *string    `json:"question_option_image_url"`
	IsCorrect        bool       `json:"question_option_is_correct"`
	OrderIndex       int        `json:"question_option_order_index"`
}

type QuestionRequest struct {
	QuestionID       *uuid.UUID      `json:"question_id"` // nil = new question (upsert-by-id)
	Type             string          `json:"question_type" validate:"required,oneof=mcq descriptive"`
	TextEn           string          `json:"question_text_en" validate:"required"`
	TextHi           string          `json:"question_text_hi"`
	ImageURL         *string         `json:"question_image_url"`
	Points           int             `json:"question_points" validate:"omitempty,min=0"`
	TimeLimitSeconds *int            `json:"question_time_limit_seconds" validate:"omitempty,min=1"`
	OrderIndex       int             `json:"question_order_index"`
	Options          []OptionRequest `json:"options" validate:"dive"`
}

type CreateCompetitionRequest struct {
	TitleEn          string            `json:"competition_title_en" validate:"required,max=255"`
	TitleHi          string            `json:"competition_title_hi"`
	DescriptionEn    *string           `json:"competition_description_en"`
	DescriptionHi    *string           `json:"competition_description_hi"`
	BannerURL        *string           `json:"competition_banner_url"`
	StartDate        time.Time         `json:"competition_start_date" validate:"required"`
	EndDate          time.Time         `json:"competition_end_date" validate:"required"`
	TimeLimitMinutes *int              `json:"competition_time_limit_minutes" validate:"omitempty,min=1"`
	Questions        []QuestionRequest `json:"questions" validate:"dive"`
}

type UpdateCompetitionRequest struct {
	TitleEn          *string            `json:"competition_title_en" validate:"omitempty,max=255"`
	TitleHi          *string            `json:"competition_title_hi"`
	DescriptionEn    *string            `json:"competition_description_en"`
	DescriptionHi    *string            `json:"competition_description_hi"`
	BannerURL        *string            `json:"competition_banner_url"`
	StartDate        *time.Time         `json:"competition_start_date"`
	EndDate          *time.Time         `json:"competition_end_date"`
	TimeLimitMinutes *int               `json:"competition_time_limit_minutes" validate:"omitempty,min=1"`
	// When present the question list is upserted by id; stored questions
	// omitted from the list are soft-deactivated.
	Questions *[]QuestionRequest `json:"questions" validate:"omitempty,dive"`
}

// ================== RESPONSE ==================

type OptionResponse struct {
	QuestionOptionID uuid.UUID `json:"question_option_id"`
	TextEn           string    `json:"question_option_text_en"`
	TextHi           string    `json:"question_option_text_hi"`
	ImageURL         *string   `json:"question_option_image_url,omitempty"`
	IsCorrect        bool      `json:"question_option_is_correct"`
	OrderIndex       int       `json:"question_option_order_index"`
}

type QuestionResponse struct {
	QuestionID       uuid.UUID        `json:"question_id"`
	CompetitionID    uuid.UUID        `json:"question_competition_id"`
	Type             string           `json:"question_type"`
	TextEn           string           `json:"question_text_en"`
	TextHi           string           `json:"question_text_hi"`
	ImageURL         *string          `json:"question_image_url,omitempty"`
	Points           int              `json:"question_points"`
	TimeLimitSeconds *int             `json:"question_time_limit_seconds,omitempty"`
	OrderIndex       int              `json:"question_order_index"`
	IsActive         bool             `json:"question_is_active"`
	Options          []OptionResponse `json:"options,omitempty"`
}

type CompetitionResponse struct {
	CompetitionID    uuid.UUID          `json:"competition_id"`
	TitleEn          string             `json:"competition_title_en"`
	TitleHi          string             `json:"competition_title_hi"`
	DescriptionEn    *string            `json:"competition_description_en,omitempty"`
	DescriptionHi    *string            `json:"competition_description_hi,omitempty"`
	BannerURL        *string            `json:"competition_banner_url,omitempty"`
	StartDate        time.Time          `json:"competition_start_date"`
	EndDate          time.Time          `json:"competition_end_date"`
	TimeLimitMinutes *int               `json:"competition_time_limit_minutes,omitempty"`
	Status           string             `json:"competition_status"`
	EffectiveStatus  string             `json:"competition_effective_status"`
	ResultDeclared   bool               `json:"competition_result_declared"`
	ResultDeclaredAt *time.Time         `json:"competition_result_declared_at,omitempty"`
	CreatedAt        time.Time          `json:"competition_created_at"`
	Questions        []QuestionResponse `json:"questions,omitempty"`
}

// ================ CONVERSION =================

func ToOptionResponse(m *model.QuestionOptionModel, includeCorrect bool) OptionResponse {
	resp := OptionResponse{
		QuestionOptionID: m.QuestionOptionID,
		TextEn:           m.QuestionOptionTextEn,
		TextHi:           m.QuestionOptionTextHi,
		ImageURL:         m.QuestionOptionImageURL,
		OrderIndex:       m.QuestionOptionOrderIndex,
	}
	if includeCorrect {
		resp.IsCorrect = m.QuestionOptionIsCorrect
	}
	return resp
}

func ToQuestionResponse(q *model.QuestionModel, options []model.QuestionOptionModel, includeCorrect bool) QuestionResponse {
	resp := QuestionResponse{
		QuestionID:       q.QuestionID,
		CompetitionID:    q.QuestionCompetitionID,
		Type:             q.QuestionType,
		TextEn:           q.QuestionTextEn,
		TextHi:           q.QuestionTextHi,
		ImageURL:         q.QuestionImageURL,
		Points:           q.QuestionPoints,
		TimeLimitSeconds: q.QuestionTimeLimitSeconds,
		OrderIndex:       q.QuestionOrderIndex,
		IsActive:         q.QuestionIsActive,
	}
	for i := range options {
		resp.Options = append(resp.Options, ToOptionResponse(&options[i], includeCorrect))
	}
	return resp
}

func ToCompetitionResponse(m *model.CompetitionModel, now time.Time) *CompetitionResponse {
	return &CompetitionResponse{
		CompetitionID:    m.CompetitionID,
		TitleEn:          m.CompetitionTitleEn,
		TitleHi:          m.CompetitionTitleHi,
		DescriptionEn:    m.CompetitionDescriptionEn,
		DescriptionHi:    m.CompetitionDescriptionHi,
		BannerURL:        m.CompetitionBannerURL,
		StartDate:        m.CompetitionStartDate,
		EndDate:          m.CompetitionEndDate,
		TimeLimitMinutes: m.CompetitionTimeLimitMinutes,
		Status:           m.CompetitionStatus,
		EffectiveStatus:  m.EffectiveStatus(now),
		ResultDeclared:   m.CompetitionResultDeclared,
		ResultDeclaredAt: m.CompetitionResultDeclaredAt,
		CreatedAt:        m.CompetitionCreatedAt,
	}
}

func ToCompetitionResponseList(models []model.CompetitionModel, now time.Time) []CompetitionResponse {
	result := make([]CompetitionResponse, 0, len(models))
	for i := range models {
		result = append(result, *ToCompetitionResponse(&models[i], now))
	}
	return result
}
