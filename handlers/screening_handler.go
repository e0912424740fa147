package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/TELY01-DEV/evep-admin/middlewares"
	"github.com/TELY01-DEV/evep-admin/models"
)

// ScreeningHandler serves /screenings and, pinned to one kind,
// /school-screenings.
type ScreeningHandler struct {
	db     *gorm.DB
	kind   models.ScreeningKind // "" = ทุกประเภท
	plural string
}

func NewScreeningHandler(db *gorm.DB) *ScreeningHandler {
	return &ScreeningHandler{db: db, plural: "screenings"}
}

func NewSchoolScreeningHandler(db *gorm.DB) *ScreeningHandler {
	return &ScreeningHandler{db: db, kind: models.KindSchool, plural: "school_screenings"}
}

/* ====================== Payload ====================== */

type screeningPayload struct {
	Kind                models.ScreeningKind        `json:"kind"`
	PatientID           uint                        `json:"patient_id"`
	StudentID           *uint                       `json:"student_id"`
	SchoolID            *uint                       `json:"school_id"`
	HospitalID          *uint                       `json:"hospital_id"`
	ExaminerID          *uint                       `json:"examiner_id"`
	ScreenedAt          *time.Time                  `json:"screened_at"`
	VisualAcuity        *models.VisualAcuity        `json:"visual_acuity"`
	IntraocularPressure *models.IntraocularPressure `json:"intraocular_pressure"`
	RetinalImaging      *models.RetinalImaging      `json:"retinal_imaging"`
	CornealCurvature    *models.CornealCurvature    `json:"corneal_curvature"`
	ReferralNeeded      bool                        `json:"referral_needed"`
	Notes               string                      `json:"notes"`
}

type statusReq struct {
	Status models.ScreeningStatus `json:"status"`
}

func (h *ScreeningHandler) validate(p *screeningPayload) map[string]string {
	if h.kind != "" {
		p.Kind = h.kind
	}
	p.Kind = models.ScreeningKind(strings.ToLower(strings.TrimSpace(string(p.Kind))))
	p.Notes = strings.TrimSpace(p.Notes)

	errs := map[string]string{}
	if !p.Kind.Valid() {
		errs["kind"] = "ประเภทการคัดกรองต้องเป็น school หรือ hospital"
	}
	if p.PatientID == 0 {
		errs["patient_id"] = "กรุณาเลือกผู้ป่วย"
	}
	switch p.Kind {
	case models.KindSchool:
		if p.SchoolID == nil {
			errs["school_id"] = "การคัดกรองในโรงเรียนต้องระบุโรงเรียน"
		}
	case models.KindHospital:
		if p.HospitalID == nil {
			errs["hospital_id"] = "การคัดกรองในโรงพยาบาลต้องระบุโรงพยาบาล"
		}
	}
	if iop := p.IntraocularPressure; iop != nil && (iop.RightEye < 0 || iop.LeftEye < 0) {
		errs["intraocular_pressure"] = "ค่าความดันลูกตาต้องไม่ติดลบ"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (p *screeningPayload) apply(s *models.ScreeningSession) {
	s.Kind = p.Kind
	s.PatientID = p.PatientID
	s.StudentID = p.StudentID
	s.SchoolID = p.SchoolID
	s.HospitalID = p.HospitalID
	s.ExaminerID = p.ExaminerID
	s.ScreenedAt = p.ScreenedAt
	s.VisualAcuity = p.VisualAcuity
	s.IntraocularPressure = p.IntraocularPressure
	s.RetinalImaging = p.RetinalImaging
	s.CornealCurvature = p.CornealCurvature
	s.ReferralNeeded = p.ReferralNeeded
	s.Notes = p.Notes
}

func (h *ScreeningHandler) scoped() *gorm.DB {
	if h.kind == "" {
		return h.db
	}
	return h.db.Where("kind = ?", h.kind)
}

func (h *ScreeningHandler) find(c echo.Context) (*models.ScreeningSession, error) {
	id, ok := parseID(c)
	if !ok {
		return nil, errJSON(c, http.StatusBadRequest, "INVALID_ID")
	}
	var s models.ScreeningSession
	if err := h.scoped().First(&s, id).Error; err != nil {
		return nil, dbError(c, err)
	}
	return &s, nil
}

/* ====================== Handlers ====================== */

// GET /screenings?status=&kind=&patient_id=&school_id=&search=
// search ค้นใน notes
func (h *ScreeningHandler) List(c echo.Context) error {
	filters := []filterCol{
		{Param: "status", Column: "status"},
		{Param: "school_id", Column: "school_id", Numeric: true},
	}
	if h.kind == "" {
		filters = append(filters,
			filterCol{Param: "kind", Column: "kind"},
			filterCol{Param: "patient_id", Column: "patient_id", Numeric: true},
		)
	}
	q := listQuery{
		Plural:  h.plural,
		Search:  []string{"notes"},
		Filters: filters,
	}
	if h.kind != "" {
		q.Scope = func(tx *gorm.DB) *gorm.DB { return tx.Where("kind = ?", h.kind) }
	}
	return listModels[models.ScreeningSession](c, h.db, q)
}

func (h *ScreeningHandler) Get(c echo.Context) error {
	s, err := h.find(c)
	if s == nil {
		return err
	}
	return c.JSON(http.StatusOK, s)
}

// POST /screenings: สร้างในสถานะ pending เสมอ
func (h *ScreeningHandler) Create(c echo.Context) error {
	var p screeningPayload
	if err := c.Bind(&p); err != nil {
		return errJSON(c, http.StatusBadRequest, "INVALID_PAYLOAD")
	}
	if errs := h.validate(&p); errs != nil {
		return validationError(c, errs)
	}
	s := models.ScreeningSession{Status: models.StatusPending}
	p.apply(&s)
	if s.ExaminerID == nil {
		if uid := middlewares.CurrentUserID(c); uid != 0 {
			s.ExaminerID = &uid
		}
	}
	if err := h.db.Create(&s).Error; err != nil {
		return dbError(c, err)
	}
	return c.JSON(http.StatusCreated, s)
}

// PUT /screenings/:id: ผลที่ completed/cancelled แล้วแก้ไม่ได้
func (h *ScreeningHandler) Update(c echo.Context) error {
	s, err := h.find(c)
	if s == nil {
		return err
	}
	if s.Status == models.StatusCompleted || s.Status == models.StatusCancelled {
		return errJSON(c, http.StatusConflict, "SESSION_CLOSED")
	}
	var p screeningPayload
	if err := c.Bind(&p); err != nil {
		return errJSON(c, http.StatusBadRequest, "INVALID_PAYLOAD")
	}
	if errs := h.validate(&p); errs != nil {
		return validationError(c, errs)
	}
	p.apply(s)
	if err := h.db.Save(s).Error; err != nil {
		return dbError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

// PATCH /screenings/:id/status { status }
func (h *ScreeningHandler) UpdateStatus(c echo.Context) error {
	s, err := h.find(c)
	if s == nil {
		return err
	}
	var req statusReq
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "INVALID_PAYLOAD")
	}
	if !req.Status.Valid() {
		return validationError(c, map[string]string{"status": "สถานะไม่ถูกต้อง"})
	}
	if !s.Status.CanTransition(req.Status) {
		return c.JSON(http.StatusConflict, map[string]any{
			"error": "INVALID_TRANSITION",
			"from":  s.Status,
			"to":    req.Status,
		})
	}
	s.Status = req.Status
	if req.Status == models.StatusCompleted && s.ScreenedAt == nil {
		now := time.Now()
		s.ScreenedAt = &now
	}
	if err := h.db.Model(s).Select("status", "screened_at").Updates(s).Error; err != nil {
		return dbError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *ScreeningHandler) Delete(c echo.Context) error {
	s, err := h.find(c)
	if s == nil {
		return err
	}
	if err := h.db.Delete(s).Error; err != nil {
		return dbError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
