package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	QuestionTypeMCQ         = "mcq"
	QuestionTypeDescriptive = "descriptive"
)

type QuestionModel struct {
	QuestionID            uuid.UUID `gorm:"column:question_id;primaryKey;type:uuid" json:"question_id"`
	QuestionCompetitionID uuid.UUID `gorm:"column:question_competition_id;type:uuid;not null;index" json:"question_competition_id"`
	QuestionType          string    `gorm:"column:question_type;type:varchar(20);not null" json:"question_type"`
	QuestionTextEn        string    `gorm:"column:question_text_en;type:text;not null" json:"question_text_en"`
	QuestionTextHi        string    `gorm:"column:question_text_hi;type:text" json:"question_text_hi"`
	QuestionImageURL      *string   `gorm:"column:question_image_url;type:text" json:"question_image_url,omitempty"`
	QuestionPoints        int       `gorm:"column:question_points;not null;default:1" json:"question_points"`
	// per-question limit; nil falls back to the competition limit
	QuestionTimeLimitSeconds *int `gorm:"column:question_time_limit_seconds" json:"question_time_limit_seconds,omitempty"`
	QuestionOrderIndex       int  `gorm:"column:question_order_index;not null;default:0" json:"question_order_index"`
	// soft-delete flag: inactive questions stay referencable by old attempts
	QuestionIsActive bool `gorm:"column:question_is_active;not null;default:true" json:"question_is_active"`

	QuestionCreatedAt time.Time `gorm:"column:question_created_at;autoCreateTime" json:"question_created_at"`
	QuestionUpdatedAt time.Time `gorm:"column:question_updated_at;autoUpdateTime" json:"question_updated_at"`
}

func (QuestionModel) TableName() string {
	return "questions"
}

func (m *QuestionModel) BeforeCreate(tx *gorm.DB) error {
	if m.QuestionID == uuid.Nil {
		m.QuestionID = uuid.New()
	}
	return nil
}
