package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Patient is soft-deleted by default; a force delete removes the row.
type Patient struct {
	ID               uint           `json:"id" gorm:"primaryKey"`
	CitizenID        string         `json:"citizen_id" gorm:"size:13;index"`
	Prefix           string         `json:"prefix" gorm:"size:20"`
	FirstName        string         `json:"first_name" gorm:"size:50;not null"`
	LastName         string         `json:"last_name" gorm:"size:50;not null"`
	BirthDate        *time.Time     `json:"birth_date,omitempty"`
	Gender           string         `json:"gender" gorm:"size:10;index"`
	Phone            string         `json:"phone" gorm:"size:20"`
	Email            string         `json:"email" gorm:"size:120"`
	GuardianName     string         `json:"guardian_name" gorm:"size:120"`
	GuardianPhone    string         `json:"guardian_phone" gorm:"size:20"`
	GuardianRelation string         `json:"guardian_relation" gorm:"size:40"`
	SchoolID         *uint          `json:"school_id" gorm:"index"`
	School           *School        `json:"-" gorm:"constraint:OnDelete:SET NULL"`
	Grade            string         `json:"grade" gorm:"size:20"`
	Address          Address        `json:"address" gorm:"embedded;embeddedPrefix:address_"`
	MedicalHistory   datatypes.JSON `json:"medical_history"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `json:"-" gorm:"index"`
}
