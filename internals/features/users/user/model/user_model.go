package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserModel struct {
	UserID          uuid.UUID `gorm:"column:user_id;primaryKey;type:uuid" json:"user_id"`
	UserName        string    `gorm:"column:user_name;type:varchar(100);not null" json:"user_name"`
	UserEmail       string    `gorm:"column:user_email;type:varchar(255);uniqueIndex;not null" json:"user_email"`
	UserPassword    string    `gorm:"column:user_password;type:varchar(255)" json:"-"`
	UserPhoneNumber *string   `gorm:"column:user_phone_number;type:varchar(20)" json:"user_phone_number,omitempty"`
	UserRole        string    `gorm:"column:user_role;type:varchar(20);not null;default:'user'" json:"user_role"`
	UserGoogleID    *string   `gorm:"column:user_google_id;type:varchar(255)" json:"-"`
	UserIsActive    bool      `gorm:"column:user_is_active;not null;default:true" json:"user_is_active"`

	UserCreatedAt time.Time `gorm:"column:user_created_at;autoCreateTime" json:"user_created_at"`
	UserUpdatedAt time.Time `gorm:"column:user_updated_at;autoUpdateTime" json:"user_updated_at"`
}

func (UserModel) TableName() string {
	return "users"
}

// IDs are generated app-side so the same models migrate on the sqlite test dialect.
func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.UserID == uuid.Nil {
		u.UserID = uuid.New()
	}
	return nil
}
