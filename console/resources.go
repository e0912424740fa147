package console

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TELY01-DEV/evep-admin/client"
	"github.com/TELY01-DEV/evep-admin/config"
	"github.com/TELY01-DEV/evep-admin/geo"
	"github.com/TELY01-DEV/evep-admin/listing"
	"github.com/TELY01-DEV/evep-admin/models"
	"github.com/TELY01-DEV/evep-admin/naming"
)

// resource describes one list page. Server resources send the filters to the
// backend and get a page back; the rest fetch every record and filter here.
type resource[T any] struct {
	Name    string
	Short   string
	Service string
	Path    string
	Plural  string
	Server  bool

	Fields  listing.Fields[T] // client-side only
	Filters []string          // filter keys, one --flag each
	Headers []string
	Row     func(T) []string
}

// ListResult is the data of every "list" command. TotalMatching is -1 when
// the backend did not report a total.
type ListResult[T any] struct {
	Items         []T `json:"items"`
	TotalMatching int `json:"total_matching"`
	Page          int `json:"page"`
	PageSize      int `json:"page_size"`
	TotalPages    int `json:"total_pages"`
}

func newResourceCommand[T any](opts *RootOptions, r resource[T]) *cobra.Command {
	parent := &cobra.Command{Use: r.Name, Short: r.Short}

	var (
		p       = listing.Params{}
		filters = make(map[string]*string, len(r.Filters))
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List " + r.Name,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p.Filters = map[string]string{}
			for k, v := range filters {
				if *v != "" {
					p.Filters[k] = *v
				}
			}
			ctx := opts.session(cmd)

			var (
				page listing.Page[T]
				err  error
			)
			if r.Server {
				page, err = client.List[T](ctx, opts.api, r.Service, r.Path, r.Plural, p)
			} else {
				var all []T
				if all, err = client.FetchAll[T](ctx, opts.api, r.Service, r.Path, r.Plural, nil); err == nil {
					page, err = listing.Apply(all, r.Fields, p)
				}
			}
			if err != nil {
				return err
			}

			res := ListResult[T]{
				Items:         page.Items,
				TotalMatching: page.TotalMatching,
				Page:          page.Page,
				PageSize:      page.PageSize,
				TotalPages:    page.TotalPages(),
			}
			return opts.formatter(cmd).Success(res, func(w io.Writer) error {
				rows := make([][]string, len(page.Items))
				for i, it := range page.Items {
					rows[i] = r.Row(it)
				}
				if err := renderTable(w, r.Headers, rows); err != nil {
					return err
				}
				if !page.HasTotal() {
					_, err := fmt.Fprintf(w, "page %d, total unknown\n", res.Page)
					return err
				}
				_, err := fmt.Fprintf(w, "page %d/%d, %d matching\n", res.Page, res.TotalPages, res.TotalMatching)
				return err
			})
		},
	}
	list.Flags().StringVarP(&p.Query, "search", "q", "", "case-insensitive text search")
	list.Flags().IntVar(&p.Page, "page", 1, "page number (from 1)")
	list.Flags().IntVar(&p.PageSize, "page-size", listing.DefaultPageSize, "records per page")
	list.Flags().BoolVar(&p.ClampPage, "clamp", false, "show page 1 when --page is past the end")
	for _, k := range r.Filters {
		v := new(string)
		filters[k] = v
		list.Flags().StringVar(v, strings.ReplaceAll(k, "_", "-"), listing.All, "filter on "+k)
	}

	parent.AddCommand(list)
	return parent
}

func resourceCommands(opts *RootOptions) []*cobra.Command {
	return []*cobra.Command{
		newResourceCommand(opts, patients),
		newResourceCommand(opts, students),
		newResourceCommand(opts, teachers),
		newResourceCommand(opts, schools),
		newResourceCommand(opts, users),
		newResourceCommand(opts, hospitals),
		newResourceCommand(opts, districts),
		newResourceCommand(opts, subdistricts),
	}
}

/* ===== helpers ===== */

func id(v uint) string { return strconv.FormatUint(uint64(v), 10) }

func optID(v *uint) string {
	if v == nil {
		return ""
	}
	return id(*v)
}

func fullName(prefix, first, last string) string {
	return strings.Join(strings.Fields(prefix+" "+first+" "+last), " ")
}

/* ===== client-side pages ===== */

var patients = resource[models.Patient]{
	Name: "patients", Short: "Patient records",
	Service: config.ServicePatients, Path: "/patients", Plural: "patients",
	Fields: listing.Fields[models.Patient]{
		Search: []func(models.Patient) string{
			func(p models.Patient) string { return p.FirstName },
			func(p models.Patient) string { return p.LastName },
			func(p models.Patient) string { return p.CitizenID },
			func(p models.Patient) string { return p.Phone },
			func(p models.Patient) string { return p.Email },
		},
		Filters: map[string]func(models.Patient) string{
			"gender":    func(p models.Patient) string { return p.Gender },
			"school_id": func(p models.Patient) string { return optID(p.SchoolID) },
		},
	},
	Filters: []string{"gender", "school_id"},
	Headers: []string{"ID", "NAME", "CITIZEN ID", "GENDER", "PHONE"},
	Row: func(p models.Patient) []string {
		return []string{id(p.ID), fullName(p.Prefix, p.FirstName, p.LastName), p.CitizenID, p.Gender, p.Phone}
	},
}

var students = resource[models.Student]{
	Name: "students", Short: "Students of the participating schools",
	Service: config.ServiceStudents, Path: "/students", Plural: "students",
	Fields: listing.Fields[models.Student]{
		Search: []func(models.Student) string{
			func(s models.Student) string { return s.StudentCode },
			func(s models.Student) string { return s.FirstName },
			func(s models.Student) string { return s.LastName },
			func(s models.Student) string { return s.CitizenID },
		},
		Filters: map[string]func(models.Student) string{
			"school_id": func(s models.Student) string { return id(s.SchoolID) },
			"grade":     func(s models.Student) string { return s.Grade },
			"status":    func(s models.Student) string { return s.Status },
		},
	},
	Filters: []string{"school_id", "grade", "status"},
	Headers: []string{"ID", "CODE", "NAME", "SCHOOL", "GRADE", "STATUS"},
	Row: func(s models.Student) []string {
		return []string{id(s.ID), s.StudentCode, fullName(s.Prefix, s.FirstName, s.LastName), id(s.SchoolID), s.Grade, s.Status}
	},
}

var teachers = resource[models.Teacher]{
	Name: "teachers", Short: "Teachers of the participating schools",
	Service: config.ServiceTeachers, Path: "/teachers", Plural: "teachers",
	Fields: listing.Fields[models.Teacher]{
		Search: []func(models.Teacher) string{
			func(t models.Teacher) string { return t.TeacherCode },
			func(t models.Teacher) string { return t.FirstName },
			func(t models.Teacher) string { return t.LastName },
			func(t models.Teacher) string { return t.Phone },
			func(t models.Teacher) string { return t.Email },
		},
		Filters: map[string]func(models.Teacher) string{
			"school_id": func(t models.Teacher) string { return id(t.SchoolID) },
			"is_active": func(t models.Teacher) string { return strconv.FormatBool(t.IsActive) },
		},
	},
	Filters: []string{"school_id", "is_active"},
	Headers: []string{"ID", "CODE", "NAME", "SCHOOL", "EMAIL", "ACTIVE"},
	Row: func(t models.Teacher) []string {
		return []string{id(t.ID), t.TeacherCode, fullName(t.Prefix, t.FirstName, t.LastName), id(t.SchoolID), t.Email, strconv.FormatBool(t.IsActive)}
	},
}

var schools = resource[models.School]{
	Name: "schools", Short: "Participating schools",
	Service: config.ServiceSchools, Path: "/schools", Plural: "schools",
	Fields: listing.Fields[models.School]{
		Search: []func(models.School) string{
			func(s models.School) string { return s.SchoolCode },
			func(s models.School) string { return s.Name },
			func(s models.School) string { return s.EnName },
			func(s models.School) string { return s.Phone },
			func(s models.School) string { return s.Email },
		},
		Filters: map[string]func(models.School) string{
			"province_id": func(s models.School) string { return optID(s.ProvinceID) },
			"district_id": func(s models.School) string { return optID(s.DistrictID) },
			"school_type": func(s models.School) string { return s.SchoolType },
		},
	},
	Filters: []string{"province_id", "district_id", "school_type"},
	Headers: []string{"ID", "CODE", "NAME", "TYPE", "PROVINCE"},
	Row: func(s models.School) []string {
		return []string{id(s.ID), s.SchoolCode, naming.Display(s.EnName, naming.Plain(s.Name)), s.SchoolType, s.Address.Province}
	},
}

var users = resource[models.User]{
	Name: "users", Short: "Console accounts",
	Service: config.ServiceAdmin, Path: "/admin/users", Plural: "users",
	Fields: listing.Fields[models.User]{
		Search: []func(models.User) string{
			func(u models.User) string { return u.Username },
			func(u models.User) string { return u.Name },
			func(u models.User) string { return u.Email },
			func(u models.User) string { return u.Phone },
		},
		Filters: map[string]func(models.User) string{
			"role":      func(u models.User) string { return string(u.Role) },
			"is_active": func(u models.User) string { return strconv.FormatBool(u.IsActive) },
		},
	},
	Filters: []string{"role", "is_active"},
	Headers: []string{"ID", "USERNAME", "NAME", "ROLE", "ACTIVE"},
	Row: func(u models.User) []string {
		return []string{id(u.ID), u.Username, u.Name, string(u.Role), strconv.FormatBool(u.IsActive)}
	},
}

/* ===== server-side pages ===== */

var hospitals = resource[models.Hospital]{
	Name: "hospitals", Short: "Hospitals (paginated by the server)",
	Service: config.ServiceHospitals, Path: "/hospitals", Plural: "hospitals", Server: true,
	Filters: []string{"type_id", "province_id", "district_id"},
	Headers: []string{"ID", "CODE", "NAME", "TYPE", "PROVINCE"},
	Row: func(h models.Hospital) []string {
		return []string{id(h.ID), h.Code, naming.Display(h.EnName, naming.Plain(h.Name)), id(h.TypeID), h.Address.Province}
	},
}

var districts = resource[geo.District]{
	Name: "districts", Short: "District master data (paginated by the server)",
	Service: config.ServiceMasterData, Path: "/master-data/districts", Plural: "districts", Server: true,
	Filters: []string{"province_id"},
	Headers: []string{"ID", "CODE", "NAME (TH)", "NAME (EN)", "PROVINCE"},
	Row: func(d geo.District) []string {
		return []string{id(d.ID), d.Code, d.Name.Thai(), naming.Display("", d.Name), id(d.ProvinceID)}
	},
}

var subdistricts = resource[geo.Subdistrict]{
	Name: "subdistricts", Short: "Subdistrict master data (paginated by the server)",
	Service: config.ServiceMasterData, Path: "/master-data/subdistricts", Plural: "subdistricts", Server: true,
	Filters: []string{"district_id"},
	Headers: []string{"ID", "CODE", "NAME (TH)", "NAME (EN)", "DISTRICT", "ZIP"},
	Row: func(s geo.Subdistrict) []string {
		return []string{id(s.ID), s.Code, s.Name.Thai(), naming.Display("", s.Name), id(s.DistrictID), s.ZipCode}
	},
}
