// Package listing filters and paginates record lists for the console pages.
//
// The same Params drive both variants of a list: Apply runs the filter over an
// in-memory slice, while Values/ParseValues carry the parameters to a backend
// that paginates on its side. Either way callers see a Page.
package listing

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/cases"
)

// All is the categorical filter value that matches every record.
const All = "all"

var (
	ErrInvalidPage   = errors.New("listing: page must be >= 1 and page size > 0")
	ErrUnknownFilter = errors.New("listing: unknown filter field")
)

// Params is the full input of a list view besides the records themselves.
type Params struct {
	Query    string
	Filters  map[string]string
	Page     int
	PageSize int

	// ClampPage sends an out-of-range page back to page 1 instead of
	// returning an empty page.
	ClampPage bool
}

// Validate checks the pagination bounds.
func (p Params) Validate() error {
	if p.Page < 1 || p.PageSize <= 0 {
		return fmt.Errorf("%w (page=%d, size=%d)", ErrInvalidPage, p.Page, p.PageSize)
	}
	return nil
}

// Skip is the zero-based offset of the first record on the page. It
// saturates at math.MaxInt instead of wrapping for huge pages.
func (p Params) Skip() int {
	if p.Page < 1 || p.PageSize <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.PageSize {
		return math.MaxInt
	}
	return (p.Page - 1) * p.PageSize
}

// Fields declares which parts of a record the query and filters look at.
type Fields[T any] struct {
	// Search holds the text fields a query is matched against.
	Search []func(T) string
	// Filters maps a filter name to the record field it compares.
	Filters map[string]func(T) string
}

// UnknownTotal marks a Page whose backend did not report how many records
// match.
const UnknownTotal = -1

// Page is one visible slice of the matching records.
type Page[T any] struct {
	Items         []T
	TotalMatching int
	Page          int
	PageSize      int
}

// TotalPages is the number of pages needed for TotalMatching records, or 0
// when the total is unknown.
func (p Page[T]) TotalPages() int {
	return pageCount(p.TotalMatching, p.PageSize)
}

// HasTotal reports whether TotalMatching is a real count.
func (p Page[T]) HasTotal() bool { return p.TotalMatching != UnknownTotal }

func pageCount(n, size int) int {
	if size <= 0 || n <= 0 {
		return 0
	}
	pages := n / size
	if n%size != 0 {
		pages++
	}
	return pages
}

// Source is anything that can produce a page for a set of Params: an
// in-memory Slice or a remote endpoint.
type Source[T any] interface {
	List(ctx context.Context, p Params) (Page[T], error)
}

// Apply filters records by the query and every categorical filter, then cuts
// out the requested page. Records keep their original order.
func Apply[T any](records []T, fields Fields[T], p Params) (Page[T], error) {
	if err := p.Validate(); err != nil {
		return Page[T]{}, err
	}
	for name := range p.Filters {
		if _, ok := fields.Filters[name]; !ok {
			return Page[T]{}, fmt.Errorf("%w: %q", ErrUnknownFilter, name)
		}
	}

	fold := cases.Fold()
	needle := fold.String(strings.TrimSpace(p.Query))

	matching := make([]T, 0, len(records))
	for _, rec := range records {
		if !matchesQuery(rec, fields.Search, needle, fold) {
			continue
		}
		if !matchesFilters(rec, fields.Filters, p.Filters) {
			continue
		}
		matching = append(matching, rec)
	}

	// เทียบด้วยจำนวนหน้าก่อนคูณ กัน overflow เมื่อ page ใหญ่มาก
	pages := pageCount(len(matching), p.PageSize)
	page := p.Page
	if page > pages && p.ClampPage {
		page = 1
	}
	out := Page[T]{TotalMatching: len(matching), Page: page, PageSize: p.PageSize, Items: []T{}}
	if page > pages {
		return out, nil
	}
	start := (page - 1) * p.PageSize
	end := len(matching)
	if rest := end - start; p.PageSize < rest {
		end = start + p.PageSize
	}
	out.Items = matching[start:end]
	return out, nil
}

func matchesQuery[T any](rec T, search []func(T) string, needle string, fold cases.Caser) bool {
	if needle == "" {
		return true
	}
	for _, get := range search {
		if strings.Contains(fold.String(get(rec)), needle) {
			return true
		}
	}
	return false
}

func matchesFilters[T any](rec T, getters map[string]func(T) string, filters map[string]string) bool {
	for name, want := range filters {
		if want == "" || want == All {
			continue
		}
		if getters[name](rec) != want {
			return false
		}
	}
	return true
}

// Slice is a Source over a fixed set of records.
type Slice[T any] struct {
	Records []T
	Fields  Fields[T]
}

func (s Slice[T]) List(_ context.Context, p Params) (Page[T], error) {
	return Apply(s.Records, s.Fields, p)
}
