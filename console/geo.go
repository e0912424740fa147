package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TELY01-DEV/evep-admin/client"
	"github.com/TELY01-DEV/evep-admin/geo"
	"github.com/TELY01-DEV/evep-admin/naming"
)

func NewGeoCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{Use: "geo", Short: "Province, district and subdistrict lookups"}
	cmd.AddCommand(newGeoSelectCommand(opts), newGeoMatchCommand(opts))
	return cmd
}

// Option is one entry of a selector level.
type Option struct {
	ID      uint        `json:"id"`
	Code    string      `json:"code"`
	Name    naming.Name `json:"name"`
	ZipCode string      `json:"zip_code,omitempty"`
}

// SelectResult is the data of "geo select": the chosen ids and the options
// of the next level down.
type SelectResult struct {
	ProvinceID    uint      `json:"province_id,omitempty"`
	DistrictID    uint      `json:"district_id,omitempty"`
	SubdistrictID uint      `json:"subdistrict_id,omitempty"`
	Level         geo.Level `json:"level"`
	Options       []Option  `json:"options"`
}

func newGeoSelectCommand(opts *RootOptions) *cobra.Command {
	var province, district, subdistrict uint

	cmd := &cobra.Command{
		Use:   "select",
		Short: "Walk the cascading province → district → subdistrict selection",
		Long: `Without flags the provinces are listed. Each selected level lists the
options of the level below it; choosing a subdistrict needs its district,
and a district needs its province.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := opts.session(cmd)
			sel := geo.NewSelector(client.NewCatalog(opts.api))
			if err := sel.Load(ctx); err != nil {
				return err
			}
			if province != 0 {
				if err := sel.SelectProvince(ctx, province); err != nil {
					return err
				}
			}
			if district != 0 {
				if err := sel.SelectDistrict(ctx, district); err != nil {
					return err
				}
			}
			if subdistrict != 0 {
				if err := sel.SelectSubdistrict(subdistrict); err != nil {
					return err
				}
			}

			st := sel.State()
			res := SelectResult{ProvinceID: st.ProvinceID, DistrictID: st.DistrictID, SubdistrictID: st.SubdistrictID, Options: []Option{}}
			switch {
			case st.DistrictID != 0:
				res.Level = geo.LevelSubdistrict
				for _, s := range st.Subdistricts {
					res.Options = append(res.Options, Option{ID: s.ID, Code: s.Code, Name: s.Name, ZipCode: s.ZipCode})
				}
			case st.ProvinceID != 0:
				res.Level = geo.LevelDistrict
				for _, d := range st.Districts {
					res.Options = append(res.Options, Option{ID: d.ID, Code: d.Code, Name: d.Name})
				}
			default:
				res.Level = geo.LevelProvince
				for _, p := range st.Provinces {
					res.Options = append(res.Options, Option{ID: p.ID, Code: p.Code, Name: p.Name})
				}
			}

			return opts.formatter(cmd).Success(res, func(w io.Writer) error {
				if res.ProvinceID != 0 {
					fmt.Fprintf(w, "province=%d district=%d subdistrict=%d\n", res.ProvinceID, res.DistrictID, res.SubdistrictID)
				}
				rows := make([][]string, len(res.Options))
				for i, o := range res.Options {
					rows[i] = []string{id(o.ID), o.Code, o.Name.Thai(), naming.Display("", o.Name), o.ZipCode}
				}
				return renderTable(w, []string{strings.ToUpper(string(res.Level)), "CODE", "NAME (TH)", "NAME (EN)", "ZIP"}, rows)
			})
		},
	}
	cmd.Flags().UintVar(&province, "province", 0, "province id")
	cmd.Flags().UintVar(&district, "district", 0, "district id")
	cmd.Flags().UintVar(&subdistrict, "subdistrict", 0, "subdistrict id")
	return cmd
}

// MatchResult is the data of "geo match".
type MatchResult struct {
	ProvinceID    uint        `json:"province_id"`
	DistrictID    uint        `json:"district_id"`
	SubdistrictID uint        `json:"subdistrict_id"`
	Complete      bool        `json:"complete"`
	Unmatched     []geo.Level `json:"unmatched"`
}

func newGeoMatchCommand(opts *RootOptions) *cobra.Command {
	var a geo.Address

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Resolve a free-text address against the master data",
		Long: `Prefixes such as จังหวัด, เขต and แขวง are ignored. Levels that match no
record, or more than one, are reported as unmatched instead of guessed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := geo.MatchAddress(opts.session(cmd), client.NewCatalog(opts.api), a)
			if err != nil {
				return err
			}
			res := MatchResult{
				ProvinceID:    m.ProvinceID,
				DistrictID:    m.DistrictID,
				SubdistrictID: m.SubdistrictID,
				Complete:      m.Complete(),
				Unmatched:     append([]geo.Level{}, m.Unmatched...),
			}
			return opts.formatter(cmd).Success(res, func(w io.Writer) error {
				fmt.Fprintf(w, "province=%d district=%d subdistrict=%d\n", res.ProvinceID, res.DistrictID, res.SubdistrictID)
				if !res.Complete {
					levels := make([]string, len(res.Unmatched))
					for i, l := range res.Unmatched {
						levels[i] = string(l)
					}
					_, err := fmt.Fprintf(w, "unmatched: %s\n", strings.Join(levels, ", "))
					return err
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&a.Province, "province", "", "province text")
	cmd.Flags().StringVar(&a.District, "district", "", "district text")
	cmd.Flags().StringVar(&a.Subdistrict, "subdistrict", "", "subdistrict text")
	return cmd
}
