package models

import (
	"time"

	"gorm.io/datatypes"
)

// SecuritySettings is a single-row table read at every login.
type SecuritySettings struct {
	ID                    uint                        `json:"id" gorm:"primaryKey"`
	PasswordMinLength     int                         `json:"password_min_length" gorm:"not null"`
	SessionTimeoutMinutes int                         `json:"session_timeout_minutes" gorm:"not null"`
	MaxLoginAttempts      int                         `json:"max_login_attempts" gorm:"not null"`
	LockoutMinutes        int                         `json:"lockout_minutes" gorm:"not null"`
	RequireTwoFactor      bool                        `json:"require_two_factor" gorm:"not null"`
	AllowedIPRanges       datatypes.JSONSlice[string] `json:"allowed_ip_ranges"`
	UpdatedBy             uint                        `json:"updated_by"`
	CreatedAt             time.Time                   `json:"created_at"`
	UpdatedAt             time.Time                   `json:"updated_at"`
}

func DefaultSecuritySettings() SecuritySettings {
	return SecuritySettings{
		PasswordMinLength:     8,
		SessionTimeoutMinutes: 8 * 60,
		MaxLoginAttempts:      5,
		LockoutMinutes:        15,
	}
}

func (s SecuritySettings) SessionTTL() time.Duration {
	return time.Duration(s.SessionTimeoutMinutes) * time.Minute
}
