package models

import "time"

const (
	StudentActive      = "active"
	StudentInactive    = "inactive"
	StudentGraduated   = "graduated"
	StudentTransferred = "transferred"
)

type Student struct {
	ID            uint       `gorm:"primaryKey"            json:"id"`
	StudentCode   string     `gorm:"size:20;uniqueIndex;not null" json:"student_code"`
	CitizenID     string     `gorm:"size:13;index"         json:"citizen_id"`
	Prefix        string     `gorm:"size:20"               json:"prefix"`
	FirstName     string     `gorm:"size:50;not null"      json:"first_name"`
	LastName      string     `gorm:"size:50;not null"      json:"last_name"`
	Gender        string     `gorm:"size:10"               json:"gender"`
	BirthDate     *time.Time `json:"birth_date,omitempty"`
	SchoolID      uint       `gorm:"index;not null"        json:"school_id"`
	School        *School    `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
	Grade         string     `gorm:"size:20"               json:"grade"`
	Room          string     `gorm:"size:10"               json:"room"`
	GuardianName  string     `gorm:"size:120"              json:"guardian_name"`
	GuardianPhone string     `gorm:"size:20"               json:"guardian_phone"`
	Status        string     `gorm:"size:20;not null;index" json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
