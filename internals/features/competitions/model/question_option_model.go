package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuestionOptionModel struct {
	QuestionOptionID         uuid.UUID `gorm:"column:question_option_id;primaryKey;type:uuid" json:"question_option_id"`
	QuestionOptionQuestionID uuid.UUID `gorm:"column:question_option_question_id;type:uuid;not null;index" json:"question_option_question_id"`
	QuestionOptionTextEn     string    `gorm:"column:question_option_text_en;type:text;not null" json:"question_option_text_en"`
	QuestionOptionTextHi     string    `gorm:"column:question_option_text_hi;type:text" json:"question_option_text_hi"`
	QuestionOptionImageURL   *string   `gorm:"column:question_option_image_url;type:text" json:"question_option_image_url,omitempty"`
	QuestionOptionIsCorrect  bool      `gorm:"column:question_option_is_correct;not null;default:false" json:"question_option_is_correct"`
	QuestionOptionOrderIndex int       `gorm:"column:question_option_order_index;not null;default:0" json:"question_option_order_index"`

	QuestionOptionCreatedAt time.Time `gorm:"column:question_option_created_at;autoCreateTime" json:"question_option_created_at"`
}

func (QuestionOptionModel) TableName() string {
	return "question_options"
}

func (m *QuestionOptionModel) BeforeCreate(tx *gorm.DB) error {
	if m.QuestionOptionID == uuid.Nil {
		m.QuestionOptionID = uuid.New()
	}
	return nil
}
