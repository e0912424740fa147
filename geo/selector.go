package geo

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	ErrUnknownOption = errors.New("geo: option not offered at this level")
	ErrNoParent      = errors.New("geo: parent level not selected")
	// ErrSuperseded is returned by a select whose fetch finished after a newer
	// selection was made. The newer selection's state is left untouched.
	ErrSuperseded = errors.New("geo: selection superseded")
)

// State is a snapshot of the three dependent levels. Zero IDs mean nothing
// is selected at that level.
type State struct {
	Provinces    []Province
	Districts    []District
	Subdistricts []Subdistrict

	ProvinceID    uint
	DistrictID    uint
	SubdistrictID uint
}

// Selector holds a cascading province/district/subdistrict selection.
// Changing a level clears and reloads every level below it.
type Selector struct {
	catalog Catalog

	mu    sync.Mutex
	state State
	gen   uint64
}

func NewSelector(c Catalog) *Selector {
	return &Selector{catalog: c}
}

// Load fetches the province options.
func (s *Selector) Load(ctx context.Context) error {
	provinces, err := s.catalog.Provinces(ctx)
	if err != nil {
		return fmt.Errorf("load provinces: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Provinces = provinces
	return nil
}

// SelectProvince clears the district and subdistrict selections and loads
// the districts of province id. id 0 only clears.
func (s *Selector) SelectProvince(ctx context.Context, id uint) error {
	s.mu.Lock()
	if id != 0 && !hasProvince(s.state.Provinces, id) {
		s.mu.Unlock()
		return fmt.Errorf("%w: province %d", ErrUnknownOption, id)
	}
	s.state.ProvinceID = id
	s.state.DistrictID, s.state.SubdistrictID = 0, 0
	s.state.Districts, s.state.Subdistricts = nil, nil
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	if id == 0 {
		return nil
	}
	districts, err := s.catalog.Districts(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return ErrSuperseded
	}
	if err != nil {
		return fmt.Errorf("load districts of province %d: %w", id, err)
	}
	s.state.Districts = make([]District, 0, len(districts))
	for _, d := range districts {
		if d.ProvinceID == id {
			s.state.Districts = append(s.state.Districts, d)
		}
	}
	return nil
}

// SelectDistrict clears the subdistrict selection and loads the subdistricts
// of district id. id 0 only clears.
func (s *Selector) SelectDistrict(ctx context.Context, id uint) error {
	s.mu.Lock()
	if s.state.ProvinceID == 0 {
		s.mu.Unlock()
		return fmt.Errorf("%w: province", ErrNoParent)
	}
	if id != 0 && !hasDistrict(s.state.Districts, id) {
		s.mu.Unlock()
		return fmt.Errorf("%w: district %d", ErrUnknownOption, id)
	}
	s.state.DistrictID = id
	s.state.SubdistrictID = 0
	s.state.Subdistricts = nil
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	if id == 0 {
		return nil
	}
	subs, err := s.catalog.Subdistricts(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return ErrSuperseded
	}
	if err != nil {
		return fmt.Errorf("load subdistricts of district %d: %w", id, err)
	}
	s.state.Subdistricts = make([]Subdistrict, 0, len(subs))
	for _, sd := range subs {
		if sd.DistrictID == id {
			s.state.Subdistricts = append(s.state.Subdistricts, sd)
		}
	}
	return nil
}

// SelectSubdistrict picks one of the loaded subdistrict options.
func (s *Selector) SelectSubdistrict(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.DistrictID == 0 {
		return fmt.Errorf("%w: district", ErrNoParent)
	}
	if id != 0 && !hasSubdistrict(s.state.Subdistricts, id) {
		return fmt.Errorf("%w: subdistrict %d", ErrUnknownOption, id)
	}
	s.state.SubdistrictID = id
	return nil
}

// State returns a copy of the current selection and options.
func (s *Selector) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.Provinces = append([]Province(nil), s.state.Provinces...)
	st.Districts = append([]District(nil), s.state.Districts...)
	st.Subdistricts = append([]Subdistrict(nil), s.state.Subdistricts...)
	return st
}

func hasProvince(list []Province, id uint) bool {
	for _, p := range list {
		if p.ID == id {
			return true
		}
	}
	return false
}

func hasDistrict(list []District, id uint) bool {
	for _, d := range list {
		if d.ID == id {
			return true
		}
	}
	return false
}

func hasSubdistrict(list []Subdistrict, id uint) bool {
	for _, sd := range list {
		if sd.ID == id {
			return true
		}
	}
	return false
}
