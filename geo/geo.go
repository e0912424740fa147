// Package geo keeps the province → district → subdistrict selection
// consistent and reconciles free-text addresses with the master data.
package geo

import (
	"context"

	"github.com/TELY01-DEV/evep-admin/naming"
)

type Province struct {
	ID   uint        `json:"id"`
	Code string      `json:"code"`
	Name naming.Name `json:"name"`
}

type District struct {
	ID         uint        `json:"id"`
	Code       string      `json:"code"`
	Name       naming.Name `json:"name"`
	ProvinceID uint        `json:"province_id"`
}

type Subdistrict struct {
	ID         uint        `json:"id"`
	Code       string      `json:"code"`
	Name       naming.Name `json:"name"`
	DistrictID uint        `json:"district_id"`
	ZipCode    string      `json:"zip_code"`
}

// Catalog serves the master data a Selector draws its options from.
type Catalog interface {
	Provinces(ctx context.Context) ([]Province, error)
	Districts(ctx context.Context, provinceID uint) ([]District, error)
	Subdistricts(ctx context.Context, districtID uint) ([]Subdistrict, error)
}
