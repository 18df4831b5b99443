package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	NotificationTypeCompetitionPublished = "competition_published"
	NotificationTypeResultDeclared       = "result_declared"
	NotificationTypeGeneral              = "general"
)

type NotificationModel struct {
	NotificationID      uuid.UUID      `gorm:"column:notification_id;primaryKey;type:uuid" json:"notification_id"`
	NotificationTitleEn string         `gorm:"column:notification_title_en;type:varchar(255);not null" json:"notification_title_en"`
	NotificationTitleHi string         `gorm:"column:notification_title_hi;type:varchar(255)" json:"notification_title_hi"`
	NotificationBodyEn  string         `gorm:"column:notification_body_en;type:text" json:"notification_body_en"`
	NotificationBodyHi  string         `gorm:"column:notification_body_hi;type:text" json:"notification_body_hi"`
	NotificationType    string         `gorm:"column:notification_type;type:varchar(40);not null;default:'general'" json:"notification_type"`
	NotificationTags    datatypes.JSON `gorm:"column:notification_tags" json:"notification_tags,omitempty"`

	NotificationCompetitionID *uuid.UUID `gorm:"column:notification_competition_id;type:uuid;index" json:"notification_competition_id,omitempty"`

	NotificationCreatedAt time.Time `gorm:"column:notification_created_at;autoCreateTime" json:"notification_created_at"`
}

func (NotificationModel) TableName() string {
	return "notifications"
}

func (m *NotificationModel) BeforeCreate(tx *gorm.DB) error {
	if m.NotificationID == uuid.Nil {
		m.NotificationID = uuid.New()
	}
	return nil
}
