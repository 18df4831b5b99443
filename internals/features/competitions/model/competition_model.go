package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Competition status stored in the row. "active" is never stored: a published
// competition is active when now falls inside its date window.
const (
	CompetitionStatusDraft     = "draft"
	CompetitionStatusPublished = "published"
	CompetitionStatusCompleted = "completed"
	CompetitionStatusCancelled = "cancelled"
)

type CompetitionModel struct {
	CompetitionID            uuid.UUID `gorm:"column:competition_id;primaryKey;type:uuid" json:"competition_id"`
	CompetitionTitleEn       string    `gorm:"column:competition_title_en;type:varchar(255);not null" json:"competition_title_en"`
	CompetitionTitleHi       string    `gorm:"column:competition_title_hi;type:varchar(255)" json:"competition_title_hi"`
	CompetitionDescriptionEn *string   `gorm:"column:competition_description_en;type:text" json:"competition_description_en,omitempty"`
	CompetitionDescriptionHi *string   `gorm:"column:competition_description_hi;type:text" json:"competition_description_hi,omitempty"`
	CompetitionBannerURL     *string   `gorm:"column:competition_banner_url;type:text" json:"competition_banner_url,omitempty"`

	CompetitionStartDate        time.Time `gorm:"column:competition_start_date;not null" json:"competition_start_date"`
	CompetitionEndDate          time.Time `gorm:"column:competition_end_date;not null" json:"competition_end_date"`
	CompetitionTimeLimitMinutes *int      `gorm:"column:competition_time_limit_minutes" json:"competition_time_limit_minutes,omitempty"`

	CompetitionStatus             string     `gorm:"column:competition_status;type:varchar(20);not null;default:'draft'" json:"competition_status"`
	CompetitionResultDeclared     bool       `gorm:"column:competition_result_declared;not null;default:false" json:"competition_result_declared"`
	CompetitionResultDeclaredAt   *time.Time `gorm:"column:competition_result_declared_at" json:"competition_result_declared_at,omitempty"`
	CompetitionIsDeleted          bool       `gorm:"column:competition_is_deleted;not null;default:false" json:"-"`
	CompetitionCreatedBy          uuid.UUID  `gorm:"column:competition_created_by;type:uuid;not null" json:"competition_created_by"`

	CompetitionCreatedAt time.Time `gorm:"column:competition_created_at;autoCreateTime" json:"competition_created_at"`
	CompetitionUpdatedAt time.Time `gorm:"column:competition_updated_at;autoUpdateTime" json:"competition_updated_at"`
}

func (CompetitionModel) TableName() string {
	return "competitions"
}

func (m *CompetitionModel) BeforeCreate(tx *gorm.DB) error {
	if m.CompetitionID == uuid.Nil {
		m.CompetitionID = uuid.New()
	}
	return nil
}

// EffectiveStatus derives the user-visible status from the stored status and
// the date window.
func (m *CompetitionModel) EffectiveStatus(now time.Time) string {
	if m.CompetitionStatus != CompetitionStatusPublished {
		return m.CompetitionStatus
	}
	if now.Before(m.CompetitionStartDate) {
		return CompetitionStatusPublished
	}
	if now.After(m.CompetitionEndDate) {
		return CompetitionStatusCompleted
	}
	return "active"
}

// IsOpenAt reports whether a user may start an attempt: published, not
// soft-deleted and inside the date window.
func (m *CompetitionModel) IsOpenAt(now time.Time) bool {
	return m.CompetitionStatus == CompetitionStatusPublished &&
		!m.CompetitionIsDeleted &&
		!now.Before(m.CompetitionStartDate) &&
		!now.After(m.CompetitionEndDate)
}
