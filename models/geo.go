package models

import (
	"encoding/json"
	"time"

	"github.com/TELY01-DEV/evep-admin/naming"
)

// Master data. Names are stored per language and served as the localized
// {en, th} object.

type Province struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Code      string    `json:"code" gorm:"uniqueIndex;size:10;not null"`
	NameTH    string    `json:"name_th" gorm:"size:120;not null"`
	NameEN    string    `json:"name_en" gorm:"size:120"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p Province) MarshalJSON() ([]byte, error) {
	type plain Province
	return json.Marshal(struct {
		plain
		Name naming.Name `json:"name"`
	}{plain(p), naming.Localized(p.NameEN, p.NameTH)})
}

type District struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Code       string    `json:"code" gorm:"uniqueIndex;size:10;not null"`
	NameTH     string    `json:"name_th" gorm:"size:120;not null"`
	NameEN     string    `json:"name_en" gorm:"size:120"`
	ProvinceID uint      `json:"province_id" gorm:"index;not null"`
	Province   *Province `json:"-" gorm:"constraint:OnDelete:RESTRICT"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (d District) MarshalJSON() ([]byte, error) {
	type plain District
	return json.Marshal(struct {
		plain
		Name naming.Name `json:"name"`
	}{plain(d), naming.Localized(d.NameEN, d.NameTH)})
}

type Subdistrict struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Code       string    `json:"code" gorm:"uniqueIndex;size:10;not null"`
	NameTH     string    `json:"name_th" gorm:"size:120;not null"`
	NameEN     string    `json:"name_en" gorm:"size:120"`
	DistrictID uint      `json:"district_id" gorm:"index;not null"`
	District   *District `json:"-" gorm:"constraint:OnDelete:RESTRICT"`
	ZipCode    string    `json:"zip_code" gorm:"size:5"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (s Subdistrict) MarshalJSON() ([]byte, error) {
	type plain Subdistrict
	return json.Marshal(struct {
		plain
		Name naming.Name `json:"name"`
	}{plain(s), naming.Localized(s.NameEN, s.NameTH)})
}

// Address is the free-text address sub-object shared by schools, hospitals
// and patients. The *_id columns on the owner point at the master data.
type Address struct {
	Line        string `json:"line" gorm:"size:255"`
	Subdistrict string `json:"subdistrict" gorm:"size:120"`
	District    string `json:"district" gorm:"size:120"`
	Province    string `json:"province" gorm:"size:120"`
	ZipCode     string `json:"zip_code" gorm:"size:5"`
}
