package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/TELY01-DEV/evep-admin/models"
)

type DashboardHandler struct {
	db *gorm.DB
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler { return &DashboardHandler{db: db} }

// GET /dashboard/summary
// นับแต่ละตารางพร้อมกัน
func (h *DashboardHandler) Summary(c echo.Context) error {
	g, ctx := errgroup.WithContext(c.Request().Context())
	db := h.db.WithContext(ctx)

	var out models.DashboardSummary
	count := func(dst *int64, model any, where ...any) {
		g.Go(func() error {
			tx := db.Model(model)
			if len(where) > 0 {
				tx = tx.Where(where[0], where[1:]...)
			}
			return tx.Count(dst).Error
		})
	}
	count(&out.Patients, &models.Patient{})
	count(&out.Students, &models.Student{})
	count(&out.Teachers, &models.Teacher{})
	count(&out.Schools, &models.School{})
	count(&out.Hospitals, &models.Hospital{})
	count(&out.Screenings, &models.ScreeningSession{})
	count(&out.ReferralsNeeded, &models.ScreeningSession{}, "referral_needed = ?", true)

	var rows []struct {
		Status models.ScreeningStatus
		N      int64
	}
	g.Go(func() error {
		return db.Model(&models.ScreeningSession{}).
			Select("status, COUNT(*) AS n").
			Group("status").
			Scan(&rows).Error
	})

	if err := g.Wait(); err != nil {
		return dbError(c, err)
	}

	out.ScreeningByStatus = map[models.ScreeningStatus]int64{
		models.StatusPending:    0,
		models.StatusInProgress: 0,
		models.StatusCompleted:  0,
		models.StatusCancelled:  0,
	}
	for _, r := range rows {
		out.ScreeningByStatus[r.Status] = r.N
	}
	return c.JSON(http.StatusOK, out)
}
