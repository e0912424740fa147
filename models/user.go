package models

import (
	"time"

	"gorm.io/datatypes"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleDoctor  Role = "doctor"
	RoleNurse   Role = "nurse"
	RoleTeacher Role = "teacher"
	RoleParent  Role = "parent"
)

var Roles = []Role{RoleAdmin, RoleDoctor, RoleNurse, RoleTeacher, RoleParent}

func (r Role) Valid() bool {
	for _, v := range Roles {
		if r == v {
			return true
		}
	}
	return false
}

// User is a console account. Password holds the bcrypt hash.
type User struct {
	ID          uint                        `json:"id" gorm:"primaryKey"`
	Username    string                      `json:"username" gorm:"uniqueIndex;size:60;not null"`
	Password    string                      `json:"-" gorm:"not null"`
	Role        Role                        `json:"role" gorm:"size:20;not null;index"`
	Name        string                      `json:"name" gorm:"size:120"`
	Email       string                      `json:"email" gorm:"size:120"`
	Phone       string                      `json:"phone" gorm:"size:20"`
	IsActive    bool                        `json:"is_active" gorm:"not null"`
	Permissions datatypes.JSONSlice[string] `json:"permissions"`

	FailedAttempts int        `json:"-" gorm:"not null;default:0"`
	LockedUntil    *time.Time `json:"locked_until,omitempty"`
	LastLoginAt    *time.Time `json:"last_login_at,omitempty"`
	// tokens issued before this are no longer accepted
	PasswordChangedAt *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Locked reports whether a lockout is still running at now.
func (u *User) Locked(now time.Time) bool {
	return u.LockedUntil != nil && now.Before(*u.LockedUntil)
}
