package console

import (
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/TELY01-DEV/evep-admin/models"
)

// DashboardResult is the data of the dashboard command.
type DashboardResult struct {
	User    string                  `json:"user"`
	Role    models.Role             `json:"role"`
	Summary models.DashboardSummary `json:"summary"`
}

func NewDashboardCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Programme totals and screening status counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				me  models.User
				sum models.DashboardSummary
			)
			// ยิงสอง request พร้อมกัน ถ้าอันใดพังให้ยกเลิกอีกอัน
			g, ctx := errgroup.WithContext(opts.session(cmd))
			g.Go(func() (err error) {
				me, err = opts.api.Me(ctx)
				return err
			})
			g.Go(func() (err error) {
				sum, err = opts.api.Dashboard(ctx)
				return err
			})
			if err := g.Wait(); err != nil {
				return err
			}

			res := DashboardResult{User: me.Username, Role: me.Role, Summary: sum}
			return opts.formatter(cmd).Success(res, func(w io.Writer) error {
				n := func(v int64) string { return strconv.FormatInt(v, 10) }
				rows := [][]string{
					{"patients", n(sum.Patients)},
					{"students", n(sum.Students)},
					{"teachers", n(sum.Teachers)},
					{"schools", n(sum.Schools)},
					{"hospitals", n(sum.Hospitals)},
					{"screenings", n(sum.Screenings)},
					{"referrals needed", n(sum.ReferralsNeeded)},
				}
				for _, st := range []models.ScreeningStatus{
					models.StatusPending, models.StatusInProgress, models.StatusCompleted, models.StatusCancelled,
				} {
					rows = append(rows, []string{"screenings " + string(st), n(sum.ScreeningByStatus[st])})
				}
				return renderTable(w, []string{"METRIC", "COUNT"}, rows)
			})
		},
	}
}
