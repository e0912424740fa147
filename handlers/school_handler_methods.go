package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/TELY01-DEV/evep-admin/models"
)

// DELETE /schools/:id
// โรงเรียนที่ยังมีนักเรียน/ครูอ้างอิงอยู่ลบไม่ได้ (INVALID_REFERENCE)
func (h *SchoolHandler) Delete(c echo.Context) error {
	return deleteByID[models.School](c, h.db)
}

// GET /schools/:id/summary → จำนวนนักเรียน ครู และการคัดกรองของโรงเรียน
func (h *SchoolHandler) Summary(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return errJSON(c, http.StatusBadRequest, "INVALID_ID")
	}
	var s models.School
	if err := h.db.First(&s, id).Error; err != nil {
		return dbError(c, err)
	}

	var students, teachers, screenings, referrals int64
	if err := h.db.Model(&models.Student{}).Where("school_id = ?", id).Count(&students).Error; err != nil {
		return dbError(c, err)
	}
	if err := h.db.Model(&models.Teacher{}).Where("school_id = ?", id).Count(&teachers).Error; err != nil {
		return dbError(c, err)
	}
	q := h.db.Model(&models.ScreeningSession{}).Where("school_id = ? AND kind = ?", id, models.KindSchool)
	if err := q.Count(&screenings).Error; err != nil {
		return dbError(c, err)
	}
	if err := h.db.Model(&models.ScreeningSession{}).
		Where("school_id = ? AND kind = ? AND referral_needed = ?", id, models.KindSchool, true).
		Count(&referrals).Error; err != nil {
		return dbError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"school":     s,
		"students":   students,
		"teachers":   teachers,
		"screenings": screenings,
		"referrals":  referrals,
	})
}
