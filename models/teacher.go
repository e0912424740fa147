package models

import "time"

type Teacher struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TeacherCode string    `gorm:"size:20;not null;uniqueIndex" json:"teacher_code"`
	CitizenID   string    `gorm:"size:13" json:"citizen_id"`
	Prefix      string    `gorm:"size:20" json:"prefix"`
	FirstName   string    `gorm:"size:50;not null" json:"first_name"`
	LastName    string    `gorm:"size:50;not null" json:"last_name"`
	Phone       string    `gorm:"size:20" json:"phone"`
	Email       string    `gorm:"size:120;uniqueIndex" json:"email"`
	SchoolID    uint      `gorm:"index;not null" json:"school_id"`
	School      *School   `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
	Position    string    `gorm:"size:50" json:"position"`
	IsActive    bool      `gorm:"not null" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
