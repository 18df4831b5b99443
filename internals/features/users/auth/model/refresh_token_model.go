package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RefreshTokenModel struct {
	RefreshTokenID        uuid.UUID `gorm:"column:refresh_token_id;primaryKey;type:uuid" json:"refresh_token_id"`
	RefreshTokenUserID    uuid.UUID `gorm:"column:refresh_token_user_id;type:uuid;not null;index" json:"refresh_token_user_id"`
	RefreshTokenToken     string    `gorm:"column:refresh_token_token;type:text;not null;index" json:"-"`
	RefreshTokenExpiresAt time.Time `gorm:"column:refresh_token_expires_at;not null" json:"refresh_token_expires_at"`
	RefreshTokenCreatedAt time.Time `gorm:"column:refresh_token_created_at;autoCreateTime" json:"refresh_token_created_at"`
}

func (RefreshTokenModel) TableName() string {
	return "refresh_tokens"
}

func (r *RefreshTokenModel) BeforeCreate(tx *gorm.DB) error {
	if r.RefreshTokenID == uuid.Nil {
		r.RefreshTokenID = uuid.New()
	}
	return nil
}
