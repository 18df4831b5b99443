package service

import (
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"srivani_backend/internals/configs"
	authModel "srivani_backend/internals/features/users/auth/model"
	authRepo "srivani_backend/internals/features/users/auth/repository"
	userModel "srivani_backend/internals/features/users/user/model"
	helper "srivani_backend/internals/helpers"
)

const (
	accessTTLDefault  = 24 * time.Hour
	refreshTTLDefault = 7 * 24 * time.Hour
)

func nowUTC() time.Time { return time.Now().UTC() }

func getJWTSecret() (string, error) {
	secret := strings.TrimSpace(configs.JWTSecret)
	if secret == "" {
		return "", fiber.NewError(fiber.StatusInternalServerError, "JWT_SECRET is not set")
	}
	return secret, nil
}

func getRefreshSecret() (string, error) {
	secret := strings.TrimSpace(configs.JWTRefreshSecret)
	if secret == "" {
		return "", fiber.NewError(fiber.StatusInternalServerError, "JWT_REFRESH_SECRET is not set")
	}
	return secret, nil
}

// issueTokenPair signs a fresh access + refresh token pair and persists the
// refresh token row.
func issueTokenPair(db *gorm.DB, user *userModel.UserModel) (access string, refresh string, err error) {
	jwtSecret, err := getJWTSecret()
	if err != nil {
		return "", "", err
	}
	refreshSecret, err := getRefreshSecret()
	if err != nil {
		return "", "", err
	}

	now := nowUTC()

	accessClaims := jwt.MapClaims{
		"sub":       user.UserID.String(),
		"user_name": user.UserName,
		"role":      user.UserRole,
		"iat":       now.Unix(),
		"exp":       now.Add(accessTTLDefault).Unix(),
	}
	access, err = jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString([]byte(jwtSecret))
	if err != nil {
		return "", "", fiber.NewError(fiber.StatusInternalServerError, "Failed to sign access token")
	}

	refreshClaims := jwt.MapClaims{
		"sub": user.UserID.String(),
		"iat": now.Unix(),
		"exp": now.Add(refreshTTLDefault).Unix(),
	}
	refresh, err = jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString([]byte(refreshSecret))
	if err != nil {
		return "", "", fiber.NewError(fiber.StatusInternalServerError, "Failed to sign refresh token")
	}

	row := authModel.RefreshTokenModel{
		RefreshTokenUserID:    user.UserID,
		RefreshTokenToken:     refresh,
		RefreshTokenExpiresAt: now.Add(refreshTTLDefault),
	}
	if err := db.Create(&row).Error; err != nil {
		return "", "", fiber.NewError(fiber.StatusInternalServerError, "Failed to store refresh token")
	}

	return access, refresh, nil
}

// ========================== REFRESH TOKEN ==========================
// POST /api/auth/refresh-token
func RefreshToken(db *gorm.DB, c *fiber.Ctx) error {
	refreshToken := strings.TrimSpace(c.Cookies("refresh_token"))
	if refreshToken == "" {
		var body struct {
			RefreshToken string `json:"refresh_token"`
		}
		_ = c.BodyParser(&body)
		refreshToken = strings.TrimSpace(body.RefreshToken)
	}
	if refreshToken == "" {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Refresh token missing")
	}

	refreshSecret, err := getRefreshSecret()
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	tok, err := jwt.Parse(refreshToken, func(t *jwt.Token) (any, error) {
		return []byte(refreshSecret), nil
	})
	if err != nil || !tok.Valid {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Refresh token invalid")
	}
	claims, _ := tok.Claims.(jwt.MapClaims)
	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Refresh token invalid")
	}

	var stored authModel.RefreshTokenModel
	if err := db.First(&stored, "refresh_token_token = ?", refreshToken).Error; err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Refresh token not recognized")
	}

	user, err := authRepo.FindUserByID(db, userID)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "User not found")
	}
	if !user.UserIsActive {
		return helper.JsonError(c, fiber.StatusForbidden, "Account deactivated")
	}

	// ROTATE: remove the old refresh token row
	if err := db.Delete(&authModel.RefreshTokenModel{}, "refresh_token_token = ?", refreshToken).Error; err != nil {
		log.Printf("[refresh] delete old token failed: %v", err)
	}

	access, refresh, err := issueTokenPair(db, user)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	setRefreshCookie(c, refresh)
	return helper.JsonOK(c, "Token refreshed", fiber.Map{
		"access_token":  access,
		"refresh_token": refresh,
	})
}

func setRefreshCookie(c *fiber.Ctx, refresh string) {
	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    refresh,
		Expires:  nowUTC().Add(refreshTTLDefault),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
		Path:     "/",
	})
}
