package models

import "time"

type School struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	SchoolCode     string    `gorm:"uniqueIndex;size:20;not null" json:"school_code"`
	Name           string    `gorm:"size:200;not null" json:"name"`
	EnName         string    `gorm:"size:200" json:"en_name"`
	SchoolType     string    `gorm:"size:50" json:"school_type"`
	EducationLevel string    `gorm:"size:50;not null" json:"education_level"` // อนุบาลศึกษา/ประถมศึกษา/มัธยมศึกษา/ทุกระดับการสอน
	Address        Address   `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	ProvinceID     *uint     `gorm:"index" json:"province_id"`
	DistrictID     *uint     `gorm:"index" json:"district_id"`
	SubdistrictID  *uint     `json:"subdistrict_id"`
	Phone          string    `gorm:"size:20" json:"phone"`
	Email          string    `gorm:"size:120" json:"email"`
	IsActive       bool      `gorm:"not null" json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
