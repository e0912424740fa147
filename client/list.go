package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/TELY01-DEV/evep-admin/listing"
)

// List fetches one server-side page. The response body is
// {"<plural>": [...], "total_count": n}; total_count is optional.
//
// Backends cap a page at listing.MaxPageSize, so a larger PageSize is cut
// down before the request and the returned Page reports the size used.
func List[T any](ctx context.Context, c *Client, service, path, plural string, p listing.Params) (listing.Page[T], error) {
	if err := p.Validate(); err != nil {
		return listing.Page[T]{}, err
	}
	if p.PageSize > listing.MaxPageSize {
		p.PageSize = listing.MaxPageSize
	}

	var raw map[string]json.RawMessage
	if err := c.send(ctx, true, http.MethodGet, service, path, p.Values(), nil, &raw); err != nil {
		return listing.Page[T]{}, err
	}

	out := listing.Page[T]{Page: p.Page, PageSize: p.PageSize, Items: []T{}}
	items, ok := raw[plural]
	if !ok {
		return out, fmt.Errorf("list %s: response has no %q key", path, plural)
	}
	if err := json.Unmarshal(items, &out.Items); err != nil {
		return out, fmt.Errorf("list %s: %w", path, err)
	}
	if out.Items == nil {
		out.Items = []T{}
	}
	if tc, ok := raw["total_count"]; ok {
		if err := json.Unmarshal(tc, &out.TotalMatching); err != nil {
			return out, fmt.Errorf("list %s total_count: %w", path, err)
		}
	} else {
		out.TotalMatching = impliedTotal(p, len(out.Items))
	}

	// หน้าเกินจำนวนจริง: กลับไปหน้าแรกถ้าผู้เรียกขอ
	if len(out.Items) == 0 && p.ClampPage && p.Page > 1 && out.TotalMatching != 0 {
		first := p
		first.Page, first.ClampPage = 1, false
		return List[T](ctx, c, service, path, plural, first)
	}
	return out, nil
}

// impliedTotal is the total a page without total_count still proves: a short,
// non-empty page (or a short first page) ends the list.
func impliedTotal(p listing.Params, n int) int {
	if n < p.PageSize && (n > 0 || p.Page == 1) {
		return p.Skip() + n
	}
	return listing.UnknownTotal
}

// Remote is a listing.Source backed by a list endpoint.
type Remote[T any] struct {
	Client  *Client
	Service string
	Path    string
	Plural  string
}

func (r Remote[T]) List(ctx context.Context, p listing.Params) (listing.Page[T], error) {
	return List[T](ctx, r.Client, r.Service, r.Path, r.Plural, p)
}

// FetchAll walks every page of an endpoint with the given server-side
// filters, for callers that filter in memory with listing.Apply.
func FetchAll[T any](ctx context.Context, c *Client, service, path, plural string, filters map[string]string) ([]T, error) {
	var all []T
	p := listing.Params{Filters: filters, Page: 1, PageSize: listing.MaxPageSize}
	for {
		page, err := List[T](ctx, c, service, path, plural, p)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Items...)
		// หน้าสั้น (หรือ backend ไม่สนใจ limit) คือหน้าสุดท้าย
		if len(page.Items) != page.PageSize {
			break
		}
		if page.HasTotal() && len(all) >= page.TotalMatching {
			break
		}
		p.Page++
	}
	if all == nil {
		all = []T{}
	}
	return all, nil
}
