package listing

import (
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Values encodes p the way list endpoints expect it: skip, limit, search and
// one parameter per non-trivial filter.
func (p Params) Values() url.Values {
	v := url.Values{}
	v.Set("skip", strconv.Itoa(p.Skip()))
	if p.PageSize > 0 {
		v.Set("limit", strconv.Itoa(p.PageSize))
	}
	if q := strings.TrimSpace(p.Query); q != "" {
		v.Set("search", q)
	}
	keys := make([]string, 0, len(p.Filters))
	for k := range p.Filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if val := p.Filters[k]; val != "" && val != All {
			v.Set(k, val)
		}
	}
	return v
}

// ParseValues is the inverse of Values. Only the named filter keys are read;
// a skip that is not a multiple of limit lands on the page containing it.
func ParseValues(v url.Values, filterKeys ...string) Params {
	limit := atoiOr(v.Get("limit"), DefaultPageSize)
	switch {
	case limit < 1:
		limit = 1
	case limit > MaxPageSize:
		limit = MaxPageSize
	}
	skip := atoiOr(v.Get("skip"), 0)
	if skip < 0 {
		skip = 0
	}

	page := skip / limit
	if page < math.MaxInt {
		page++
	}
	p := Params{
		Query:    strings.TrimSpace(v.Get("search")),
		Page:     page,
		PageSize: limit,
	}
	for _, k := range filterKeys {
		if val := strings.TrimSpace(v.Get(k)); val != "" && val != All {
			if p.Filters == nil {
				p.Filters = map[string]string{}
			}
			p.Filters[k] = val
		}
	}
	return p
}

func atoiOr(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return n
}
