package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/TELY01-DEV/evep-admin/database"
	"github.com/TELY01-DEV/evep-admin/models"
)

/* -------------------- Payload -------------------- */

// studentMovePayload moves a group of students at once: promotion to the next
// grade, transfer to another school, or graduation. Zero values keep the
// current field.
type studentMovePayload struct {
	StudentIDs []uint `json:"student_ids"`
	ToSchoolID uint   `json:"to_school_id"`
	ToGrade    string `json:"to_grade"`
	ToRoom     string `json:"to_room"`
	Status     string `json:"status"`
}

func validateMove(p *studentMovePayload) map[string]string {
	errs := map[string]string{}
	p.ToGrade = strings.TrimSpace(p.ToGrade)
	p.ToRoom = digitsOnly(p.ToRoom)
	p.Status = strings.ToLower(strings.TrimSpace(p.Status))

	if len(p.StudentIDs) == 0 {
		errs["student_ids"] = "ต้องเลือกนักเรียนอย่างน้อย 1 คน"
	}
	for _, id := range p.StudentIDs {
		if id == 0 {
			errs["student_ids"] = "รหัสนักเรียนไม่ถูกต้อง"
			break
		}
	}
	if p.ToRoom != "" && !stuReRoom.MatchString(p.ToRoom) {
		errs["to_room"] = "ห้องต้องเป็นตัวเลข"
	}
	if p.Status != "" && !validStudentStatus[p.Status] {
		errs["status"] = "สถานะไม่ถูกต้อง"
	}
	if p.ToSchoolID == 0 && p.ToGrade == "" && p.ToRoom == "" && p.Status == "" {
		errs["to_grade"] = "ไม่มีข้อมูลที่จะย้าย"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

/* -------------------- Handler -------------------- */

// POST /students/move: all or nothing
func (h *StudentHandler) Move(c echo.Context) error {
	var p studentMovePayload
	if err := c.Bind(&p); err != nil {
		return errJSON(c, http.StatusBadRequest, "INVALID_PAYLOAD")
	}
	if errs := validateMove(&p); errs != nil {
		return validationError(c, errs)
	}

	ids := uniqueIDs(p.StudentIDs)
	updates := map[string]any{}
	if p.ToSchoolID != 0 {
		updates["school_id"] = p.ToSchoolID
	}
	if p.ToGrade != "" {
		updates["grade"] = p.ToGrade
	}
	if p.ToRoom != "" {
		updates["room"] = p.ToRoom
	}
	if p.Status != "" {
		updates["status"] = p.Status
	}

	var missing []uint
	err := h.db.WithContext(c.Request().Context()).Transaction(func(tx *gorm.DB) error {
		var found []uint
		if err := tx.Model(&models.Student{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
			return err
		}
		if len(found) != len(ids) {
			missing = diffIDs(ids, found)
			return nil
		}
		if p.ToSchoolID != 0 {
			var n int64
			if err := tx.Model(&models.School{}).Where("id = ?", p.ToSchoolID).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return database.ErrInvalidReference
			}
		}
		return tx.Model(&models.Student{}).Where("id IN ?", ids).Updates(updates).Error
	})
	if err != nil {
		return dbError(c, err)
	}
	if len(missing) > 0 {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "STUDENT_NOT_FOUND", "ids": missing})
	}
	return c.JSON(http.StatusOK, map[string]any{"moved": len(ids)})
}

func uniqueIDs(in []uint) []uint {
	seen := make(map[uint]bool, len(in))
	out := make([]uint, 0, len(in))
	for _, id := range in {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// diffIDs returns the ids of want that are not in got, in want's order.
func diffIDs(want, got []uint) []uint {
	have := make(map[uint]bool, len(got))
	for _, id := range got {
		have[id] = true
	}
	var out []uint
	for _, id := range want {
		if !have[id] {
			out = append(out, id)
		}
	}
	return out
}
