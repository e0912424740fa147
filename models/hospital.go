package models

import (
	"encoding/json"
	"time"

	"github.com/TELY01-DEV/evep-admin/naming"
)

type HospitalType struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Code      string    `json:"code" gorm:"uniqueIndex;size:20;not null"`
	NameTH    string    `json:"name_th" gorm:"size:120;not null"`
	NameEN    string    `json:"name_en" gorm:"size:120"`
	IsActive  bool      `json:"is_active" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (h HospitalType) MarshalJSON() ([]byte, error) {
	type plain HospitalType
	return json.Marshal(struct {
		plain
		Name naming.Name `json:"name"`
	}{plain(h), naming.Localized(h.NameEN, h.NameTH)})
}

// Hospital keeps the hospital service's wire shape: a plain Thai "name" with
// a separate "en_name".
type Hospital struct {
	ID            uint          `json:"id" gorm:"primaryKey"`
	Code          string        `json:"code" gorm:"uniqueIndex;size:20;not null"`
	Name          string        `json:"name" gorm:"size:200;not null"`
	EnName        string        `json:"en_name" gorm:"size:200"`
	TypeID        uint          `json:"type_id" gorm:"index;not null"`
	Type          *HospitalType `json:"-" gorm:"constraint:OnDelete:RESTRICT"`
	Address       Address       `json:"address" gorm:"embedded;embeddedPrefix:address_"`
	ProvinceID    *uint         `json:"province_id" gorm:"index"`
	DistrictID    *uint         `json:"district_id" gorm:"index"`
	SubdistrictID *uint         `json:"subdistrict_id"`
	Phone         string        `json:"phone" gorm:"size:20"`
	IsActive      bool          `json:"is_active" gorm:"not null"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}
