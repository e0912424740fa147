package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/TELY01-DEV/evep-admin/middlewares"
	"github.com/TELY01-DEV/evep-admin/models"
)

/* ====================== Config & Helpers ====================== */

type AuthHandler struct {
	db        *gorm.DB
	jwtSecret string
	now       func() time.Time
}

func NewAuthHandler(db *gorm.DB, jwtSecret string) *AuthHandler {
	return &AuthHandler{db: db, jwtSecret: jwtSecret, now: time.Now}
}

func hashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}

func loadSettings(db *gorm.DB) (models.SecuritySettings, error) {
	var s models.SecuritySettings
	err := db.Order("id ASC").First(&s).Error
	if err == gorm.ErrRecordNotFound {
		return models.DefaultSecuritySettings(), nil
	}
	return s, err
}

/* ====================== DTOs ====================== */

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type changePasswordReq struct {
	Current string `json:"current"`
	Next    string `json:"next"`
}

/* ====================== Handlers ====================== */

// POST /auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "INVALID_PAYLOAD")
	}
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return errJSON(c, http.StatusBadRequest, "MISSING_FIELDS")
	}

	settings, err := loadSettings(h.db)
	if err != nil {
		return dbError(c, err)
	}

	var u models.User
	if err := h.db.Where("username = ?", username).First(&u).Error; err != nil {
		return errJSON(c, http.StatusUnauthorized, "INVALID_CREDENTIALS")
	}
	now := h.now()
	if u.Locked(now) {
		return errJSON(c, http.StatusLocked, "ACCOUNT_LOCKED")
	}
	if !u.IsActive {
		return errJSON(c, http.StatusForbidden, "ACCOUNT_INACTIVE")
	}

	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)) != nil {
		// นับครั้งที่ผิด ถ้าเกินกำหนดให้ล็อกบัญชีชั่วคราว
		u.FailedAttempts++
		updates := map[string]any{"failed_attempts": u.FailedAttempts}
		if settings.MaxLoginAttempts > 0 && u.FailedAttempts >= settings.MaxLoginAttempts {
			until := now.Add(time.Duration(settings.LockoutMinutes) * time.Minute)
			updates["locked_until"] = until
			updates["failed_attempts"] = 0
		}
		if err := h.db.Model(&u).Updates(updates).Error; err != nil {
			return dbError(c, err)
		}
		return errJSON(c, http.StatusUnauthorized, "INVALID_CREDENTIALS")
	}

	token, exp, err := middlewares.SignToken(h.jwtSecret, u.ID, string(u.Role), u.Name, settings.SessionTTL())
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "TOKEN_GEN_FAILED")
	}
	if err := h.db.Model(&u).Updates(map[string]any{
		"failed_attempts": 0,
		"locked_until":    nil,
		"last_login_at":   now,
	}).Error; err != nil {
		return dbError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"token":      token,
		"expires_at": exp,
		"user":       map[string]any{"id": u.ID, "role": u.Role, "username": u.Username, "name": u.Name},
	})
}

// GET /auth/me
func (h *AuthHandler) Me(c echo.Context) error {
	var u models.User
	if err := h.db.First(&u, middlewares.CurrentUserID(c)).Error; err != nil {
		return dbError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

// PUT /auth/password
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	var req changePasswordReq
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "INVALID_PAYLOAD")
	}
	settings, err := loadSettings(h.db)
	if err != nil {
		return dbError(c, err)
	}
	if len(req.Next) < settings.PasswordMinLength {
		return validationError(c, map[string]string{"next": "รหัสผ่านสั้นเกินไป"})
	}

	var u models.User
	if err := h.db.First(&u, middlewares.CurrentUserID(c)).Error; err != nil {
		return dbError(c, err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Current)) != nil {
		return errJSON(c, http.StatusUnauthorized, "INVALID_CREDENTIALS")
	}
	hash, err := hashPassword(req.Next)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "HASH_FAILED")
	}
	if err := h.db.Model(&u).Updates(map[string]any{
		"password":            hash,
		"password_changed_at": h.now(),
	}).Error; err != nil {
		return dbError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// CheckSession rejects tokens whose account was deleted, deactivated, moved
// to another role or had its password changed after the token was issued.
func (h *AuthHandler) CheckSession(ctx context.Context, claims *middlewares.Claims) error {
	var u models.User
	err := h.db.WithContext(ctx).Select("id", "role", "is_active", "password_changed_at").First(&u, claims.Sub).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return middlewares.ErrSessionRevoked
	case err != nil:
		return err
	}
	if !u.IsActive || string(u.Role) != claims.Role {
		return middlewares.ErrSessionRevoked
	}
	// iat มีความละเอียดระดับวินาที
	if u.PasswordChangedAt != nil && claims.IssuedAt != nil &&
		claims.IssuedAt.Time.Before(u.PasswordChangedAt.Truncate(time.Second)) {
		return middlewares.ErrSessionRevoked
	}
	return nil
}
