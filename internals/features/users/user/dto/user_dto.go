package dto

import (
	"time"

	"github.com/google/uuid"

	"srivani_backend/internals/features/users/user/model"
)

// ================== REQUEST ==================
type UpdateProfileRequest struct {
	UserName        *string `json:"user_name" validate:"omitempty,min=3,max=100"`
	UserPhoneNumber *string `json:"user_phone_number" validate:"omitempty,min=8,max=20"`
}

// ================== RESPONSE ==================
type UserResponse struct {
	UserID          uuid.UUID `json:"user_id"`
	UserName        string    `json:"user_name"`
	UserEmail       string    `json:"user_email"`
	UserPhoneNumber *string   `json:"user_phone_number,omitempty"`
	UserRole        string    `json:"user_role"`
	UserIsActive    bool      `json:"user_is_active"`
	UserCreatedAt   time.Time `json:"user_created_at"`
}

// ================ CONVERSION =================
func ToUserResponse(m *model.UserModel) *UserResponse {
	return &UserResponse{
		UserID:          m.UserID,
		UserName:        m.UserName,
		UserEmail:       m.UserEmail,
		UserPhoneNumber: m.UserPhoneNumber,
		UserRole:        m.UserRole,
		UserIsActive:    m.UserIsActive,
		UserCreatedAt:   m.UserCreatedAt,
	}
}

func ToUserResponseList(models []model.UserModel) []UserResponse {
	result := make([]UserResponse, 0, len(models))
	for i := range models {
		result = append(result, *ToUserResponse(&models[i]))
	}
	return result
}
