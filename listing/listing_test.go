package listing

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rec struct {
	Name   string
	Code   string
	Status string
}

var recFields = Fields[rec]{
	Search: []func(rec) string{
		func(r rec) string { return r.Name },
		func(r rec) string { return r.Code },
	},
	Filters: map[string]func(rec) string{
		"status": func(r rec) string { return r.Status },
	},
}

func sample(n int) []rec {
	out := make([]rec, n)
	for i := range out {
		status := "active"
		if i%3 == 0 {
			status = "inactive"
		}
		out[i] = rec{Name: fmt.Sprintf("School %02d", i), Code: fmt.Sprintf("S-%03d", i), Status: status}
	}
	return out
}

func TestApply_StatusExample(t *testing.T) {
	records := []rec{{Name: "A", Status: "active"}, {Name: "B", Status: "inactive"}}

	page, err := Apply(records, recFields, Params{
		Filters:  map[string]string{"status": "active"},
		Page:     1,
		PageSize: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, []rec{{Name: "A", Status: "active"}}, page.Items)
	assert.Equal(t, 1, page.TotalMatching)
}

func TestApply_AllSentinelReturnsEverythingInOrder(t *testing.T) {
	records := sample(17)

	page, err := Apply(records, recFields, Params{
		Filters:  map[string]string{"status": All},
		Page:     1,
		PageSize: len(records),
	})
	require.NoError(t, err)
	assert.Equal(t, records, page.Items)
	assert.Equal(t, len(records), page.TotalMatching)
}

func TestApply_ExactFilterHolds(t *testing.T) {
	page, err := Apply(sample(30), recFields, Params{
		Filters:  map[string]string{"status": "inactive"},
		Page:     1,
		PageSize: 100,
	})
	require.NoError(t, err)
	require.NotEmpty(t, page.Items)
	for _, r := range page.Items {
		assert.Equal(t, "inactive", r.Status)
	}
}

func TestApply_QueryIsCaseInsensitiveSubstring(t *testing.T) {
	records := []rec{
		{Name: "Bangkok Christian College", Code: "BCC"},
		{Name: "โรงเรียนสาธิต", Code: "sat-01"},
		{Name: "Assumption", Code: "AC"},
	}

	page, err := Apply(records, recFields, Params{Query: "  christian ", Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "BCC", page.Items[0].Code)

	page, err = Apply(records, recFields, Params{Query: "SAT", Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "โรงเรียนสาธิต", page.Items[0].Name)

	page, err = Apply(records, recFields, Params{Query: "สาธิต", Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
}

func TestApply_PagesPartitionTheMatches(t *testing.T) {
	records := sample(23)
	all, err := Apply(records, recFields, Params{Filters: map[string]string{"status": "active"}, Page: 1, PageSize: 1000})
	require.NoError(t, err)

	for _, size := range []int{1, 4, 5, 7, 15, 100} {
		t.Run(fmt.Sprintf("size=%d", size), func(t *testing.T) {
			first, err := Apply(records, recFields, Params{Filters: map[string]string{"status": "active"}, Page: 1, PageSize: size})
			require.NoError(t, err)

			var joined []rec
			for p := 1; p <= first.TotalPages(); p++ {
				page, err := Apply(records, recFields, Params{Filters: map[string]string{"status": "active"}, Page: p, PageSize: size})
				require.NoError(t, err)
				joined = append(joined, page.Items...)
			}
			assert.Equal(t, all.Items, joined)
		})
	}
}

func TestApply_EdgeCases(t *testing.T) {
	t.Run("empty records", func(t *testing.T) {
		page, err := Apply(nil, recFields, Params{Page: 1, PageSize: 10})
		require.NoError(t, err)
		assert.Empty(t, page.Items)
		assert.Zero(t, page.TotalMatching)
		assert.Zero(t, page.TotalPages())
	})

	t.Run("page beyond range is empty", func(t *testing.T) {
		page, err := Apply(sample(5), recFields, Params{Page: 3, PageSize: 5})
		require.NoError(t, err)
		assert.Empty(t, page.Items)
		assert.Equal(t, 5, page.TotalMatching)
		assert.Equal(t, 3, page.Page)
	})

	t.Run("page beyond range clamps when asked", func(t *testing.T) {
		page, err := Apply(sample(5), recFields, Params{Page: 4, PageSize: 2, ClampPage: true})
		require.NoError(t, err)
		assert.Len(t, page.Items, 2)
		assert.Equal(t, 1, page.Page)
	})

	t.Run("huge page does not overflow", func(t *testing.T) {
		for _, p := range []Params{
			{Page: math.MaxInt / 2, PageSize: 4},
			{Page: math.MaxInt, PageSize: math.MaxInt},
			{Page: 2, PageSize: math.MaxInt},
		} {
			page, err := Apply([]int{1, 2, 3}, Fields[int]{}, p)
			require.NoError(t, err)
			assert.Empty(t, page.Items)
			assert.Equal(t, 3, page.TotalMatching)
			assert.Equal(t, p.Page, page.Page)

			p.ClampPage = true
			page, err = Apply([]int{1, 2, 3}, Fields[int]{}, p)
			require.NoError(t, err)
			assert.Equal(t, []int{1, 2, 3}, page.Items)
			assert.Equal(t, 1, page.Page)
		}
	})

	t.Run("page size larger than the records", func(t *testing.T) {
		page, err := Apply([]int{1, 2, 3}, Fields[int]{}, Params{Page: 1, PageSize: math.MaxInt})
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3}, page.Items)
		assert.Equal(t, 1, page.TotalPages())
	})

	t.Run("invalid page", func(t *testing.T) {
		_, err := Apply(sample(5), recFields, Params{Page: 0, PageSize: 2})
		assert.ErrorIs(t, err, ErrInvalidPage)
		_, err = Apply(sample(5), recFields, Params{Page: 1, PageSize: 0})
		assert.ErrorIs(t, err, ErrInvalidPage)
	})

	t.Run("unknown filter", func(t *testing.T) {
		_, err := Apply(sample(5), recFields, Params{Filters: map[string]string{"grade": "1"}, Page: 1, PageSize: 2})
		assert.ErrorIs(t, err, ErrUnknownFilter)
	})
}

func TestSlice_List(t *testing.T) {
	var src Source[rec] = Slice[rec]{Records: sample(9), Fields: recFields}
	page, err := src.List(context.Background(), Params{Query: "s-00", Page: 2, PageSize: 4})
	require.NoError(t, err)
	assert.Equal(t, 9, page.TotalMatching)
	assert.Len(t, page.Items, 4)
	assert.Equal(t, "S-004", page.Items[0].Code)
}

func TestParamsValuesRoundTrip(t *testing.T) {
	p := Params{
		Query:    " bangkok ",
		Filters:  map[string]string{"province_id": "10", "type_id": All, "status": ""},
		Page:     3,
		PageSize: 25,
	}
	v := p.Values()
	assert.Equal(t, "50", v.Get("skip"))
	assert.Equal(t, "25", v.Get("limit"))
	assert.Equal(t, "bangkok", v.Get("search"))
	assert.Equal(t, "10", v.Get("province_id"))
	assert.False(t, v.Has("type_id"))
	assert.False(t, v.Has("status"))

	back := ParseValues(v, "province_id", "type_id")
	assert.Equal(t, Params{
		Query:    "bangkok",
		Filters:  map[string]string{"province_id": "10"},
		Page:     3,
		PageSize: 25,
	}, back)
}

func TestParams_SkipSaturates(t *testing.T) {
	assert.Equal(t, 0, Params{Page: 0, PageSize: 10}.Skip())
	assert.Equal(t, 0, Params{Page: 3, PageSize: 0}.Skip())
	assert.Equal(t, 40, Params{Page: 3, PageSize: 20}.Skip())
	assert.Equal(t, math.MaxInt, Params{Page: math.MaxInt / 2, PageSize: 4}.Skip())

	v := Params{Page: math.MaxInt, PageSize: 1}.Values()
	assert.Equal(t, strconv.Itoa(math.MaxInt-1), v.Get("skip"))
	back := ParseValues(v)
	assert.Equal(t, math.MaxInt, back.Page)
	assert.Positive(t, back.Skip())
}

func TestParseValues_Defaults(t *testing.T) {
	p := ParseValues(url.Values{"limit": {"5000"}, "skip": {"-4"}, "grade": {"all"}}, "grade")
	assert.Equal(t, MaxPageSize, p.PageSize)
	assert.Equal(t, 1, p.Page)
	assert.Nil(t, p.Filters)

	p = ParseValues(url.Values{"limit": {"abc"}, "skip": {"45"}})
	assert.Equal(t, DefaultPageSize, p.PageSize)
	assert.Equal(t, 3, p.Page)
}
