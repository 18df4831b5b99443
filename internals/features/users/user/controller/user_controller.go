package controller

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"srivani_backend/internals/features/users/user/dto"
	"srivani_backend/internals/features/users/user/model"
	helper "srivani_backend/internals/helpers"
)

var validateUser = validator.New()

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

// =============================
// Get own profile
// =============================
func (ctrl *UserController) GetProfile(c *fiber.Ctx) error {
	userID := helper.GetUserUUID(c)
	if userID == uuid.Nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var user model.UserModel
	if err := ctrl.DB.First(&user, "user_id = ?", userID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "User not found")
	}

	return helper.JsonOK(c, "ok", dto.ToUserResponse(&user))
}

// =============================
// Update own profile
// =============================
func (ctrl *UserController) UpdateProfile(c *fiber.Ctx) error {
	userID := helper.GetUserUUID(c)
	if userID == uuid.Nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var body dto.UpdateProfileRequest
	if err := c.BodyParser(&body); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := validateUser.Struct(&body); err != nil {
		return helper.JsonValidationError(c, err)
	}

	updates := map[string]interface{}{}
	if body.UserName != nil {
		updates["user_name"] = *body.UserName
	}
	if body.UserPhoneNumber != nil {
		updates["user_phone_number"] = *body.UserPhoneNumber
	}
	if len(updates) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Nothing to update")
	}

	if err := ctrl.DB.Model(&model.UserModel{}).
		Where("user_id = ?", userID).
		Updates(updates).Error; err != nil {
		log.Printf("[ERROR] update profile: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to update profile")
	}

	var user model.UserModel
	if err := ctrl.DB.First(&user, "user_id = ?", userID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusNotFound, "User not found")
	}
	return helper.JsonUpdated(c, "Profile updated", dto.ToUserResponse(&user))
}

// =============================
// Admin: list users (+ pagination)
// =============================
func (ctrl *UserController) GetAllUsers(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "created_at", "desc", helper.AdminOpts)

	var total int64
	if err := ctrl.DB.Model(&model.UserModel{}).Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to count users")
	}

	order, err := p.SafeOrderClause(map[string]string{
		"created_at": "user_created_at",
		"name":       "user_name",
		"email":      "user_email",
	}, "created_at")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid sort key")
	}

	var users []model.UserModel
	if err := ctrl.DB.Order(order).
		Limit(p.Limit()).Offset(p.Offset()).
		Find(&users).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to fetch users")
	}

	return helper.JsonList(c, "ok", dto.ToUserResponseList(users), helper.BuildMeta(total, p))
}

// =============================
// Admin: deactivate user (soft)
// =============================
func (ctrl *UserController) DeactivateUser(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid user id")
	}

	res := ctrl.DB.Model(&model.UserModel{}).
		Where("user_id = ?", id).
		Update("user_is_active", false)
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to deactivate user")
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "User not found")
	}

	return helper.JsonUpdated(c, "User deactivated", nil)
}
