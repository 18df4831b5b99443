package service

import (
	"errors"
	"log"
	"strings"
	"time"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"srivani_backend/internals/configs"
	"srivani_backend/internals/constants"
	authHelper "srivani_backend/internals/features/users/auth/helper"
	authModel "srivani_backend/internals/features/users/auth/model"
	authRepo "srivani_backend/internals/features/users/auth/repository"
	userModel "srivani_backend/internals/features/users/user/model"
	helper "srivani_backend/internals/helpers"
)

// ========================== REGISTER ==========================
// POST /api/auth/register
func Register(db *gorm.DB, c *fiber.Ctx) error {
	var input struct {
		UserName        string  `json:"user_name"`
		UserEmail       string  `json:"user_email"`
		UserPassword    string  `json:"user_password"`
		UserPhoneNumber *string `json:"user_phone_number"`
	}
	if err := c.BodyParser(&input); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	input.UserEmail = strings.ToLower(strings.TrimSpace(input.UserEmail))
	input.UserName = strings.TrimSpace(input.UserName)
	if input.UserName == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "user_name is required")
	}
	if err := authHelper.ValidateRegisterInput(input.UserEmail, input.UserPassword); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	if _, err := authRepo.FindUserByEmail(db, input.UserEmail); err == nil {
		return helper.JsonError(c, fiber.StatusConflict, "Email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Database error")
	}

	hashed, err := authHelper.HashPassword(input.UserPassword)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to hash password")
	}

	user := userModel.UserModel{
		UserName:        input.UserName,
		UserEmail:       input.UserEmail,
		UserPassword:    hashed,
		UserPhoneNumber: input.UserPhoneNumber,
		UserRole:        constants.RoleUser,
		UserIsActive:    true,
	}
	if err := db.Create(&user).Error; err != nil {
		log.Printf("[ERROR] register create user: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create user")
	}

	return helper.JsonCreated(c, "Registration successful", fiber.Map{
		"user_id":    user.UserID,
		"user_name":  user.UserName,
		"user_email": user.UserEmail,
	})
}

// ========================== LOGIN ==========================
// POST /api/auth/login
func Login(db *gorm.DB, c *fiber.Ctx) error {
	var input struct {
		UserEmail    string `json:"user_email"`
		UserPassword string `json:"user_password"`
	}
	if err := c.BodyParser(&input); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	input.UserEmail = strings.ToLower(strings.TrimSpace(input.UserEmail))

	user, err := authRepo.FindUserByEmail(db, input.UserEmail)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Incorrect email or password")
	}
	if !user.UserIsActive {
		return helper.JsonError(c, fiber.StatusForbidden, "Account deactivated")
	}
	if err := authHelper.CheckPasswordHash(user.UserPassword, input.UserPassword); err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Incorrect email or password")
	}

	access, refresh, err := issueTokenPair(db, user)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	setRefreshCookie(c, refresh)
	return helper.JsonOK(c, "Login successful", fiber.Map{
		"access_token":  access,
		"refresh_token": refresh,
		"user": fiber.Map{
			"user_id":    user.UserID,
			"user_name":  user.UserName,
			"user_email": user.UserEmail,
			"user_role":  user.UserRole,
		},
	})
}

// ========================== LOGIN GOOGLE ==========================
// POST /api/auth/login-google
func LoginGoogle(db *gorm.DB, c *fiber.Ctx) error {
	var input struct {
		IDToken string `json:"id_token"`
	}
	if err := c.BodyParser(&input); err != nil || strings.TrimSpace(input.IDToken) == "" {
		return helper.JsonError(c, fiber.StatusBadRequest, "id_token is required")
	}

	clientID := configs.GoogleClientID
	if clientID == "" {
		return helper.JsonError(c, fiber.StatusInternalServerError, "GOOGLE_CLIENT_ID is not set")
	}

	v := googleAuthIDTokenVerifier.Verifier{}
	if err := v.VerifyIDToken(input.IDToken, []string{clientID}); err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Invalid Google ID token")
	}
	claimSet, err := googleAuthIDTokenVerifier.Decode(input.IDToken)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Failed to decode Google ID token")
	}

	email := strings.ToLower(strings.TrimSpace(claimSet.Email))
	googleID := claimSet.Sub

	user, err := authRepo.FindUserByGoogleID(db, googleID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Fall back to email match, then first-time provisioning
		user, err = authRepo.FindUserByEmail(db, email)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			newUser := userModel.UserModel{
				UserName:     claimSet.Name,
				UserEmail:    email,
				UserGoogleID: &googleID,
				UserRole:     constants.RoleUser,
				UserIsActive: true,
			}
			if err := db.Create(&newUser).Error; err != nil {
				return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to create user")
			}
			user = &newUser
		} else if err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, "Database error")
		} else if user.UserGoogleID == nil {
			if err := db.Model(user).Update("user_google_id", googleID).Error; err != nil {
				return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to link Google account")
			}
		}
	} else if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Database error")
	}

	if !user.UserIsActive {
		return helper.JsonError(c, fiber.StatusForbidden, "Account deactivated")
	}

	access, refresh, err := issueTokenPair(db, user)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	setRefreshCookie(c, refresh)
	return helper.JsonOK(c, "Login successful", fiber.Map{
		"access_token":  access,
		"refresh_token": refresh,
		"user": fiber.Map{
			"user_id":    user.UserID,
			"user_name":  user.UserName,
			"user_email": user.UserEmail,
			"user_role":  user.UserRole,
		},
	})
}

// ========================== LOGOUT ==========================
// POST /api/auth/logout
func Logout(db *gorm.DB, c *fiber.Ctx) error {
	token, _ := c.Locals("access_token").(string)
	if token == "" {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Missing access token")
	}

	entry := authModel.TokenBlacklistModel{
		TokenBlacklistToken:     token,
		TokenBlacklistExpiresAt: time.Now().Add(accessTTLDefault),
	}
	if err := db.Create(&entry).Error; err != nil {
		log.Printf("[ERROR] logout blacklist insert: %v", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, "Failed to logout")
	}

	// Drop any refresh tokens for this user as well
	if userID := helperUserID(c); userID != "" {
		_ = db.Delete(&authModel.RefreshTokenModel{}, "refresh_token_user_id = ?", userID).Error
	}

	c.ClearCookie("refresh_token")
	return helper.JsonOK(c, "Logout successful", nil)
}

func helperUserID(c *fiber.Ctx) string {
	if raw := c.Locals("user_id"); raw != nil {
		if s, ok := raw.(string); ok {
			return s
		}
	}
	return ""
}
