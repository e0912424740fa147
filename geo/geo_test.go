package geo

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TELY01-DEV/evep-admin/naming"
)

type fakeCatalog struct {
	provinces    []Province
	districts    []District
	subdistricts []Subdistrict

	// gate, when set, blocks Districts for the given province until closed.
	gate     map[uint]chan struct{}
	failWith error

	mu    sync.Mutex
	calls []string
}

func (f *fakeCatalog) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeCatalog) Provinces(context.Context) ([]Province, error) {
	f.record("provinces")
	return f.provinces, f.failWith
}

func (f *fakeCatalog) Districts(ctx context.Context, provinceID uint) ([]District, error) {
	f.record("districts")
	if ch, ok := f.gate[provinceID]; ok {
		select {
		case <-ch:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.failWith != nil {
		return nil, f.failWith
	}
	// returns every district; the selector narrows to the province
	return f.districts, nil
}

func (f *fakeCatalog) Subdistricts(_ context.Context, districtID uint) ([]Subdistrict, error) {
	f.record("subdistricts")
	var out []Subdistrict
	for _, s := range f.subdistricts {
		if s.DistrictID == districtID {
			out = append(out, s)
		}
	}
	return out, nil
}

func thaiCatalog() *fakeCatalog {
	return &fakeCatalog{
		provinces: []Province{
			{ID: 1, Code: "10", Name: naming.Localized("Bangkok", "กรุงเทพมหานคร")},
			{ID: 2, Code: "50", Name: naming.Localized("Chiang Mai", "เชียงใหม่")},
		},
		districts: []District{
			{ID: 11, ProvinceID: 1, Name: naming.Localized("Pathum Wan", "เขตปทุมวัน")},
			{ID: 12, ProvinceID: 1, Name: naming.Localized("Bang Rak", "เขตบางรัก")},
			{ID: 21, ProvinceID: 2, Name: naming.Localized("Mueang Chiang Mai", "เมืองเชียงใหม่")},
			{ID: 22, ProvinceID: 2, Name: naming.Localized("San Sai", "สันทราย")},
			{ID: 23, ProvinceID: 2, Name: naming.Localized("San Sai", "สันทราย")},
		},
		subdistricts: []Subdistrict{
			{ID: 111, DistrictID: 11, Name: naming.Localized("Lumphini", "แขวงลุมพินี"), ZipCode: "10330"},
			{ID: 112, DistrictID: 11, Name: naming.Localized("Wang Mai", "แขวงวังใหม่"), ZipCode: "10330"},
			{ID: 121, DistrictID: 12, Name: naming.Localized("Si Lom", "แขวงสีลม"), ZipCode: "10500"},
			{ID: 211, DistrictID: 21, Name: naming.Localized("Si Phum", "ศรีภูมิ"), ZipCode: "50200"},
		},
	}
}

func TestSelector_Cascade(t *testing.T) {
	ctx := context.Background()
	sel := NewSelector(thaiCatalog())
	require.NoError(t, sel.Load(ctx))

	require.NoError(t, sel.SelectProvince(ctx, 1))
	st := sel.State()
	assert.Equal(t, uint(1), st.ProvinceID)
	require.Len(t, st.Districts, 2)
	for _, d := range st.Districts {
		assert.Equal(t, uint(1), d.ProvinceID)
	}

	require.NoError(t, sel.SelectDistrict(ctx, 11))
	require.NoError(t, sel.SelectSubdistrict(112))
	st = sel.State()
	assert.Equal(t, uint(11), st.DistrictID)
	assert.Equal(t, uint(112), st.SubdistrictID)
	assert.Len(t, st.Subdistricts, 2)

	// changing the district clears the subdistrict
	require.NoError(t, sel.SelectDistrict(ctx, 12))
	st = sel.State()
	assert.Zero(t, st.SubdistrictID)
	require.Len(t, st.Subdistricts, 1)
	assert.Equal(t, uint(121), st.Subdistricts[0].ID)

	// changing the province clears both lower levels
	require.NoError(t, sel.SelectSubdistrict(121))
	require.NoError(t, sel.SelectProvince(ctx, 2))
	st = sel.State()
	assert.Equal(t, uint(2), st.ProvinceID)
	assert.Zero(t, st.DistrictID)
	assert.Zero(t, st.SubdistrictID)
	assert.Empty(t, st.Subdistricts)
	assert.Len(t, st.Districts, 3)
}

func TestSelector_Rejects(t *testing.T) {
	ctx := context.Background()
	sel := NewSelector(thaiCatalog())
	require.NoError(t, sel.Load(ctx))

	assert.ErrorIs(t, sel.SelectProvince(ctx, 99), ErrUnknownOption)
	assert.ErrorIs(t, sel.SelectDistrict(ctx, 11), ErrNoParent)
	assert.ErrorIs(t, sel.SelectSubdistrict(111), ErrNoParent)

	require.NoError(t, sel.SelectProvince(ctx, 2))
	assert.ErrorIs(t, sel.SelectDistrict(ctx, 11), ErrUnknownOption)

	require.NoError(t, sel.SelectDistrict(ctx, 21))
	assert.ErrorIs(t, sel.SelectSubdistrict(111), ErrUnknownOption)
}

func TestSelector_FetchErrorLeavesLevelCleared(t *testing.T) {
	ctx := context.Background()
	cat := thaiCatalog()
	sel := NewSelector(cat)
	require.NoError(t, sel.Load(ctx))

	boom := errors.New("master-data down")
	cat.failWith = boom
	err := sel.SelectProvince(ctx, 1)
	require.ErrorIs(t, err, boom)

	st := sel.State()
	assert.Equal(t, uint(1), st.ProvinceID)
	assert.Empty(t, st.Districts)
}

func TestSelector_StaleResponseIsDiscarded(t *testing.T) {
	ctx := context.Background()
	cat := thaiCatalog()
	gate := make(chan struct{})
	cat.gate = map[uint]chan struct{}{1: gate}
	sel := NewSelector(cat)
	require.NoError(t, sel.Load(ctx))

	slow := make(chan error, 1)
	go func() { slow <- sel.SelectProvince(ctx, 1) }()

	// wait until the slow fetch is in flight
	require.Eventually(t, func() bool {
		cat.mu.Lock()
		defer cat.mu.Unlock()
		return len(cat.calls) == 2
	}, time.Second, time.Millisecond)

	require.NoError(t, sel.SelectProvince(ctx, 2))
	close(gate)
	assert.ErrorIs(t, <-slow, ErrSuperseded)

	st := sel.State()
	assert.Equal(t, uint(2), st.ProvinceID)
	for _, d := range st.Districts {
		assert.Equal(t, uint(2), d.ProvinceID)
	}
}

func TestStripPrefix(t *testing.T) {
	tests := map[string]string{
		"เขตปทุมวัน":      "ปทุมวัน",
		"แขวงลุมพินี":     "ลุมพินี",
		"จังหวัดเชียงใหม่": "เชียงใหม่",
		"จ. เชียงใหม่":    "เชียงใหม่",
		"อำเภอสันทราย":    "สันทราย",
		"ต.ศรีภูมิ":       "ศรีภูมิ",
		"  ปทุมวัน ":      "ปทุมวัน",
		"Pathum Wan":     "Pathum Wan",
	}
	for in, want := range tests {
		assert.Equal(t, want, StripPrefix(in), in)
	}
}

func TestMatchAddress(t *testing.T) {
	ctx := context.Background()
	cat := thaiCatalog()

	t.Run("full match across prefixes", func(t *testing.T) {
		m, err := MatchAddress(ctx, cat, Address{Province: "กรุงเทพมหานคร", District: "ปทุมวัน", Subdistrict: "ลุมพินี"})
		require.NoError(t, err)
		assert.True(t, m.Complete())
		assert.Equal(t, Match{ProvinceID: 1, DistrictID: 11, SubdistrictID: 111}, m)
	})

	t.Run("english and case", func(t *testing.T) {
		m, err := MatchAddress(ctx, cat, Address{Province: "chiang mai", District: "Mueang Chiang Mai", Subdistrict: "si phum"})
		require.NoError(t, err)
		assert.Equal(t, Match{ProvinceID: 2, DistrictID: 21, SubdistrictID: 211}, m)
	})

	t.Run("unknown district is visible", func(t *testing.T) {
		m, err := MatchAddress(ctx, cat, Address{Province: "จ.เชียงใหม่", District: "ดอยสะเก็ด", Subdistrict: "เชิงดอย"})
		require.NoError(t, err)
		assert.False(t, m.Complete())
		assert.Equal(t, uint(2), m.ProvinceID)
		assert.Equal(t, []Level{LevelDistrict, LevelSubdistrict}, m.Unmatched)
	})

	t.Run("ambiguous name is not guessed", func(t *testing.T) {
		m, err := MatchAddress(ctx, cat, Address{Province: "เชียงใหม่", District: "อำเภอสันทราย"})
		require.NoError(t, err)
		assert.Zero(t, m.DistrictID)
		assert.Equal(t, []Level{LevelDistrict}, m.Unmatched)
	})

	t.Run("unknown province", func(t *testing.T) {
		m, err := MatchAddress(ctx, cat, Address{Province: "Atlantis", Subdistrict: "x"})
		require.NoError(t, err)
		assert.Equal(t, []Level{LevelProvince, LevelSubdistrict}, m.Unmatched)
	})

	t.Run("empty address", func(t *testing.T) {
		m, err := MatchAddress(ctx, cat, Address{})
		require.NoError(t, err)
		assert.True(t, m.Complete())
		assert.Zero(t, m.ProvinceID)
	})
}
