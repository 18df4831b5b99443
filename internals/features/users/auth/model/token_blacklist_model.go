package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TokenBlacklistModel struct {
	TokenBlacklistID        uuid.UUID `gorm:"column:token_blacklist_id;primaryKey;type:uuid" json:"token_blacklist_id"`
	TokenBlacklistToken     string    `gorm:"column:token_blacklist_token;type:text;not null;index" json:"-"`
	TokenBlacklistExpiresAt time.Time `gorm:"column:token_blacklist_expires_at;not null" json:"token_blacklist_expires_at"`
	TokenBlacklistCreatedAt time.Time `gorm:"column:token_blacklist_created_at;autoCreateTime" json:"token_blacklist_created_at"`
}

func (TokenBlacklistModel) TableName() string {
	return "token_blacklist"
}

func (t *TokenBlacklistModel) BeforeCreate(tx *gorm.DB) error {
	if t.TokenBlacklistID == uuid.Nil {
		t.TokenBlacklistID = uuid.New()
	}
	return nil
}
