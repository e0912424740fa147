package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/TELY01-DEV/evep-admin/client"
	"github.com/TELY01-DEV/evep-admin/config"
	"github.com/TELY01-DEV/evep-admin/geo"
	"github.com/TELY01-DEV/evep-admin/listing"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type item struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func newClient(t *testing.T, h http.Handler) *client.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return client.New(&config.ConsoleConfig{BaseURL: srv.URL, TimeoutSeconds: 5}, client.WithHTTPClient(srv.Client()))
}

func authed() context.Context {
	return client.WithSession(context.Background(), client.Session{Token: "tok", Username: "admin", Role: "admin"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestSessionFrom(t *testing.T) {
	_, ok := client.SessionFrom(context.Background())
	assert.False(t, ok)

	_, ok = client.SessionFrom(client.WithSession(context.Background(), client.Session{Username: "x"}))
	assert.False(t, ok, "a session without token does not count")

	s, ok := client.SessionFrom(authed())
	require.True(t, ok)
	assert.Equal(t, "admin", s.Username)
}

func TestLogin(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Empty(t, r.Header.Get("Authorization"))
		if in["password"] != "secret" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "INVALID_CREDENTIALS"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"token":      "jwt-token",
			"expires_at": "2026-10-20T08:00:00Z",
			"user":       map[string]any{"id": 1, "username": in["username"], "role": "doctor"},
		})
	})
	c := newClient(t, mux)

	s, err := c.Login(context.Background(), "dr.somchai", "secret")
	require.NoError(t, err)
	assert.Equal(t, "jwt-token", s.Token)
	assert.Equal(t, "dr.somchai", s.Username)
	assert.Equal(t, "doctor", s.Role)
	assert.Equal(t, 2026, s.ExpiresAt.Year())

	_, err = c.Login(context.Background(), "dr.somchai", "wrong")
	require.ErrorIs(t, err, client.ErrUnauthorized)
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "INVALID_CREDENTIALS", apiErr.Code)
}

func TestNoSession(t *testing.T) {
	var calls atomic.Int32
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))

	_, err := client.Get[item](context.Background(), c, config.ServicePatients, "/patients/1")
	require.ErrorIs(t, err, client.ErrNoSession)
	assert.Zero(t, calls.Load(), "nothing is sent without a session")
}

func TestHeaders(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		writeJSON(w, http.StatusCreated, item{ID: 7, Name: "created"})
	}))

	got, err := client.Create[item](authed(), c, config.ServiceSchools, "/schools", map[string]string{"name": "x"})
	require.NoError(t, err)
	assert.Equal(t, 7, got.ID)
}

func TestAPIErrors(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /missing", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "NOT_FOUND"})
	})
	mux.HandleFunc("GET /forbidden", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "FORBIDDEN"})
	})
	mux.HandleFunc("POST /invalid", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":  "VALIDATION_ERROR",
			"fields": map[string]string{"code": "required"},
		})
	})
	mux.HandleFunc("GET /plain", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	})
	c := newClient(t, mux)

	_, err := client.Get[item](authed(), c, config.ServicePatients, "/missing")
	assert.ErrorIs(t, err, client.ErrNotFound)
	assert.NotErrorIs(t, err, client.ErrUnauthorized)

	_, err = client.Get[item](authed(), c, config.ServicePatients, "/forbidden")
	assert.ErrorIs(t, err, client.ErrForbidden)

	_, err = client.Create[item](authed(), c, config.ServicePatients, "/invalid", item{})
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	assert.Equal(t, map[string]string{"code": "required"}, apiErr.Fields)

	_, err = client.Get[item](authed(), c, config.ServicePatients, "/plain")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "upstream unavailable", apiErr.Message)
	assert.Contains(t, err.Error(), "502")
}

func TestDelete_NoContent(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))
	require.NoError(t, c.Delete(authed(), config.ServiceTeachers, "/teachers/3"))
}

func TestList_ServerSidePage(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/hospitals", r.URL.Path)
		assert.Equal(t, "20", q.Get("skip"))
		assert.Equal(t, "10", q.Get("limit"))
		assert.Equal(t, "siriraj", q.Get("search"))
		assert.Equal(t, "3", q.Get("province_id"))
		assert.False(t, q.Has("type_id"), "the all filter is not sent")
		writeJSON(w, http.StatusOK, map[string]any{
			"hospitals":   []item{{ID: 21, Name: "Siriraj"}},
			"total_count": 21,
		})
	}))

	page, err := client.List[item](authed(), c, config.ServiceHospitals, "/hospitals", "hospitals", listing.Params{
		Query:    "siriraj",
		Filters:  map[string]string{"province_id": "3", "type_id": listing.All},
		Page:     3,
		PageSize: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, 21, page.TotalMatching)
	assert.Equal(t, 3, page.TotalPages())
	assert.Equal(t, []item{{ID: 21, Name: "Siriraj"}}, page.Items)
}

func TestList_Errors(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"items": []item{}, "total_count": 0})
	}))

	_, err := client.List[item](authed(), c, config.ServiceHospitals, "/hospitals", "hospitals", listing.Params{Page: 0, PageSize: 10})
	require.ErrorIs(t, err, listing.ErrInvalidPage)

	_, err = client.List[item](authed(), c, config.ServiceHospitals, "/hospitals", "hospitals", listing.Params{Page: 1, PageSize: 10})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"hospitals"`)
}

func TestRemote_ClampPage(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		items := []item{}
		if r.URL.Query().Get("skip") == "0" {
			items = []item{{ID: 1}, {ID: 2}}
		}
		writeJSON(w, http.StatusOK, map[string]any{"districts": items, "total_count": 2})
	}))
	var src listing.Source[item] = client.Remote[item]{
		Client: c, Service: config.ServiceMasterData, Path: "/master-data/districts", Plural: "districts",
	}

	page, err := src.List(authed(), listing.Params{Page: 4, PageSize: 10})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.Equal(t, 4, page.Page)

	page, err = src.List(authed(), listing.Params{Page: 4, PageSize: 10, ClampPage: true})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 1, page.Page)
}

func TestFetchAll(t *testing.T) {
	const total = 230
	var calls atomic.Int32
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "5", r.URL.Query().Get("school_id"))
		skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		items := []item{}
		for i := skip; i < total && i < skip+limit; i++ {
			items = append(items, item{ID: i + 1})
		}
		writeJSON(w, http.StatusOK, map[string]any{"students": items, "total_count": total})
	}))

	all, err := client.FetchAll[item](authed(), c, config.ServiceStudents, "/students", "students", map[string]string{"school_id": "5"})
	require.NoError(t, err)
	require.Len(t, all, total)
	assert.Equal(t, 1, all[0].ID)
	assert.Equal(t, total, all[total-1].ID)
	assert.EqualValues(t, 3, calls.Load())
}

// pagedItems serves n items honouring skip/limit, without total_count.
func pagedItems(n int, calls *atomic.Int32) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		items := []item{}
		for i := skip; i < n && i < skip+limit; i++ {
			items = append(items, item{ID: i + 1})
		}
		writeJSON(w, http.StatusOK, map[string]any{"students": items})
	})
}

func TestFetchAll_NoTotalCount(t *testing.T) {
	var calls atomic.Int32
	c := newClient(t, pagedItems(250, &calls))

	all, err := client.FetchAll[item](authed(), c, config.ServiceStudents, "/students", "students", nil)
	require.NoError(t, err)
	require.Len(t, all, 250)
	assert.Equal(t, 250, all[249].ID)
	assert.EqualValues(t, 3, calls.Load())

	// exact multiple of the page size: the empty page ends the walk
	calls.Store(0)
	c = newClient(t, pagedItems(200, &calls))
	all, err = client.FetchAll[item](authed(), c, config.ServiceStudents, "/students", "students", nil)
	require.NoError(t, err)
	assert.Len(t, all, 200)
	assert.EqualValues(t, 3, calls.Load())
}

func TestList_NoTotalCount(t *testing.T) {
	var calls atomic.Int32
	c := newClient(t, pagedItems(25, &calls))

	page, err := client.List[item](authed(), c, config.ServiceStudents, "/students", "students", listing.Params{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.False(t, page.HasTotal())
	assert.Equal(t, listing.UnknownTotal, page.TotalMatching)
	assert.Zero(t, page.TotalPages())

	page, err = client.List[item](authed(), c, config.ServiceStudents, "/students", "students", listing.Params{Page: 3, PageSize: 10})
	require.NoError(t, err)
	require.True(t, page.HasTotal(), "a short page ends the list")
	assert.Equal(t, 25, page.TotalMatching)
	assert.Equal(t, 3, page.TotalPages())

	page, err = client.List[item](authed(), c, config.ServiceStudents, "/students", "students", listing.Params{Page: 9, PageSize: 10, ClampPage: true})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Len(t, page.Items, 10)
}

func TestList_PageSizeCappedAtServerMax(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "100", q.Get("skip"))
		assert.Equal(t, "100", q.Get("limit"))
		writeJSON(w, http.StatusOK, map[string]any{"hospitals": []item{{ID: 101}}, "total_count": 450})
	}))

	page, err := client.List[item](authed(), c, config.ServiceHospitals, "/hospitals", "hospitals", listing.Params{Page: 2, PageSize: 500})
	require.NoError(t, err)
	assert.Equal(t, listing.MaxPageSize, page.PageSize)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 5, page.TotalPages())
}

func TestCatalog_FeedsSelector(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /master-data/provinces", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"provinces": []map[string]any{
			{"id": 1, "code": "10", "name": map[string]string{"en": "Bangkok", "th": "กรุงเทพมหานคร"}},
			{"id": 2, "code": "50", "name": map[string]string{"en": "Chiang Mai", "th": "เชียงใหม่"}},
		}, "total_count": 2})
	})
	mux.HandleFunc("GET /master-data/districts", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("province_id"))
		writeJSON(w, http.StatusOK, map[string]any{"districts": []map[string]any{
			{"id": 11, "code": "1001", "province_id": 1, "name": map[string]string{"en": "Phra Nakhon", "th": "พระนคร"}},
		}, "total_count": 1})
	})
	c := newClient(t, mux)

	sel := geo.NewSelector(client.NewCatalog(c))
	ctx := authed()
	require.NoError(t, sel.Load(ctx))
	require.NoError(t, sel.SelectProvince(ctx, 1))

	st := sel.State()
	require.Len(t, st.Provinces, 2)
	assert.Equal(t, "Bangkok", st.Provinces[0].Name.English())
	assert.Equal(t, "เชียงใหม่", st.Provinces[1].Name.Thai())
	require.Len(t, st.Districts, 1)
	assert.Equal(t, uint(11), st.Districts[0].ID)
}
