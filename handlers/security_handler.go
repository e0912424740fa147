package handlers

import (
	"net/http"
	"net/netip"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/TELY01-DEV/evep-admin/middlewares"
)

type SecurityHandler struct {
	db *gorm.DB
}

func NewSecurityHandler(db *gorm.DB) *SecurityHandler { return &SecurityHandler{db: db} }

type securityPayload struct {
	PasswordMinLength     int      `json:"password_min_length"`
	SessionTimeoutMinutes int      `json:"session_timeout_minutes"`
	MaxLoginAttempts      int      `json:"max_login_attempts"`
	LockoutMinutes        int      `json:"lockout_minutes"`
	RequireTwoFactor      bool     `json:"require_two_factor"`
	AllowedIPRanges       []string `json:"allowed_ip_ranges"`
}

func validateSecurity(p *securityPayload) map[string]string {
	errs := map[string]string{}
	if p.PasswordMinLength < 6 || p.PasswordMinLength > 128 {
		errs["password_min_length"] = "ต้องอยู่ระหว่าง 6-128"
	}
	if p.SessionTimeoutMinutes < 5 || p.SessionTimeoutMinutes > 7*24*60 {
		errs["session_timeout_minutes"] = "ต้องอยู่ระหว่าง 5 นาที ถึง 7 วัน"
	}
	if p.MaxLoginAttempts < 0 {
		errs["max_login_attempts"] = "ต้องไม่ติดลบ"
	}
	if p.LockoutMinutes < 0 {
		errs["lockout_minutes"] = "ต้องไม่ติดลบ"
	}
	for i, r := range p.AllowedIPRanges {
		r = strings.TrimSpace(r)
		p.AllowedIPRanges[i] = r
		if _, err := netip.ParsePrefix(r); err != nil {
			errs["allowed_ip_ranges"] = "รูปแบบ CIDR ไม่ถูกต้อง: " + r
			break
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// GET /admin/security-settings
func (h *SecurityHandler) Get(c echo.Context) error {
	s, err := loadSettings(h.db)
	if err != nil {
		return dbError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

// PUT /admin/security-settings
func (h *SecurityHandler) Update(c echo.Context) error {
	var p securityPayload
	if err := c.Bind(&p); err != nil {
		return errJSON(c, http.StatusBadRequest, "INVALID_PAYLOAD")
	}
	if errs := validateSecurity(&p); errs != nil {
		return validationError(c, errs)
	}

	s, err := loadSettings(h.db)
	if err != nil {
		return dbError(c, err)
	}
	s.PasswordMinLength = p.PasswordMinLength
	s.SessionTimeoutMinutes = p.SessionTimeoutMinutes
	s.MaxLoginAttempts = p.MaxLoginAttempts
	s.LockoutMinutes = p.LockoutMinutes
	s.RequireTwoFactor = p.RequireTwoFactor
	s.AllowedIPRanges = datatypes.JSONSlice[string](p.AllowedIPRanges)
	s.UpdatedBy = middlewares.CurrentUserID(c)

	// ยังไม่มีแถว → Save จะ insert ให้
	if err := h.db.Save(&s).Error; err != nil {
		return dbError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}
