package geo

import (
	"context"
	"fmt"
	"strings"

	"github.com/TELY01-DEV/evep-admin/naming"
)

// prefixes are ordered longest first so "จังหวัด" is not cut as "จ.".
var prefixes = []string{
	"จังหวัด", "อำเภอ", "ตำบล", "แขวง", "เขต", "จ.", "อ.", "ต.",
}

// StripPrefix removes one administrative-level prefix from a place name.
func StripPrefix(s string) string {
	s = strings.TrimSpace(s)
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return strings.TrimSpace(strings.TrimPrefix(s, p))
		}
	}
	return s
}

// Level names one step of the hierarchy.
type Level string

const (
	LevelProvince    Level = "province"
	LevelDistrict    Level = "district"
	LevelSubdistrict Level = "subdistrict"
)

// Address is the free-text part of a record's address.
type Address struct {
	Province    string
	District    string
	Subdistrict string
}

// Match is the best-effort reconciliation of an Address. Every level whose
// text was given but could not be resolved to exactly one record is listed
// in Unmatched.
type Match struct {
	ProvinceID    uint
	DistrictID    uint
	SubdistrictID uint
	Unmatched     []Level
}

// Complete reports whether every given level resolved.
func (m Match) Complete() bool { return len(m.Unmatched) == 0 }

// MatchAddress resolves a, top-down, against the catalog. Names are compared
// after prefix stripping, in Thai and English, ignoring case. Two candidates
// with the same name leave the level unmatched.
func MatchAddress(ctx context.Context, c Catalog, a Address) (Match, error) {
	var m Match
	miss := func(l Level, text string) {
		if strings.TrimSpace(text) != "" {
			m.Unmatched = append(m.Unmatched, l)
		}
	}

	provinces, err := c.Provinces(ctx)
	if err != nil {
		return m, fmt.Errorf("load provinces: %w", err)
	}
	m.ProvinceID = pick(len(provinces), func(i int) (uint, naming.Name) { return provinces[i].ID, provinces[i].Name }, a.Province)
	if m.ProvinceID == 0 {
		miss(LevelProvince, a.Province)
		miss(LevelDistrict, a.District)
		miss(LevelSubdistrict, a.Subdistrict)
		return m, nil
	}

	all, err := c.Districts(ctx, m.ProvinceID)
	if err != nil {
		return m, fmt.Errorf("load districts: %w", err)
	}
	var districts []District
	for _, d := range all {
		if d.ProvinceID == m.ProvinceID {
			districts = append(districts, d)
		}
	}
	m.DistrictID = pick(len(districts), func(i int) (uint, naming.Name) { return districts[i].ID, districts[i].Name }, a.District)
	if m.DistrictID == 0 {
		miss(LevelDistrict, a.District)
		miss(LevelSubdistrict, a.Subdistrict)
		return m, nil
	}

	allSubs, err := c.Subdistricts(ctx, m.DistrictID)
	if err != nil {
		return m, fmt.Errorf("load subdistricts: %w", err)
	}
	var subs []Subdistrict
	for _, sd := range allSubs {
		if sd.DistrictID == m.DistrictID {
			subs = append(subs, sd)
		}
	}
	m.SubdistrictID = pick(len(subs), func(i int) (uint, naming.Name) { return subs[i].ID, subs[i].Name }, a.Subdistrict)
	if m.SubdistrictID == 0 {
		miss(LevelSubdistrict, a.Subdistrict)
	}
	return m, nil
}

// pick returns the id of the only candidate whose name matches text, or 0.
func pick(n int, at func(int) (uint, naming.Name), text string) uint {
	want := StripPrefix(text)
	if want == "" {
		return 0
	}
	var found uint
	hits := 0
	for i := 0; i < n; i++ {
		id, name := at(i)
		if sameName(want, name) {
			found = id
			hits++
		}
	}
	if hits != 1 {
		return 0
	}
	return found
}

func sameName(want string, n naming.Name) bool {
	for _, candidate := range []string{n.Thai(), n.English()} {
		if candidate != "" && strings.EqualFold(want, StripPrefix(candidate)) {
			return true
		}
	}
	return false
}
