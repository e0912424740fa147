package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/TELY01-DEV/evep-admin/middlewares"
	"github.com/TELY01-DEV/evep-admin/models"
)

type PatientHandler struct {
	db *gorm.DB
}

func NewPatientHandler(db *gorm.DB) *PatientHandler { return &PatientHandler{db: db} }

/* ====================== Payload ====================== */

type patientPayload struct {
	CitizenID        string          `json:"citizen_id"`
	Prefix           string          `json:"prefix"`
	FirstName        string          `json:"first_name"`
	LastName         string          `json:"last_name"`
	BirthDate        string          `json:"birth_date"`
	Gender           string          `json:"gender"`
	Phone            string          `json:"phone"`
	Email            string          `json:"email"`
	GuardianName     string          `json:"guardian_name"`
	GuardianPhone    string          `json:"guardian_phone"`
	GuardianRelation string          `json:"guardian_relation"`
	SchoolID         *uint           `json:"school_id"`
	Grade            string          `json:"grade"`
	Address          models.Address  `json:"address"`
	MedicalHistory   json.RawMessage `json:"medical_history"`
}

func (p *patientPayload) normalize() {
	trim := strings.TrimSpace
	p.CitizenID = digitsOnly(p.CitizenID)
	p.Prefix = trim(p.Prefix)
	p.FirstName = strings.Join(strings.Fields(p.FirstName), " ")
	p.LastName = strings.Join(strings.Fields(p.LastName), " ")
	p.BirthDate = trim(p.BirthDate)
	p.Gender = strings.ToLower(trim(p.Gender))
	p.Phone = trim(p.Phone)
	p.Email = strings.ToLower(trim(p.Email))
	p.GuardianName = strings.Join(strings.Fields(p.GuardianName), " ")
	p.GuardianPhone = trim(p.GuardianPhone)
	p.GuardianRelation = trim(p.GuardianRelation)
	p.Grade = trim(p.Grade)
	trimAddress(&p.Address)
}

func validatePatient(p *patientPayload) map[string]string {
	errs := map[string]string{}
	if p.CitizenID != "" && !reCitizenID.MatchString(p.CitizenID) {
		errs["citizen_id"] = "เลขบัตรประชาชนต้องเป็นตัวเลข 13 หลัก"
	}
	if p.FirstName == "" {
		errs["first_name"] = "กรุณากรอกชื่อ"
	}
	if p.LastName == "" {
		errs["last_name"] = "กรุณากรอกนามสกุล"
	}
	if !validGenders[p.Gender] {
		errs["gender"] = "เพศไม่ถูกต้อง"
	}
	if _, ok := parseBirthDate(p.BirthDate); !ok {
		errs["birth_date"] = "วันเกิดต้องเป็น YYYY-MM-DD หรือเว้นว่าง"
	}
	if len(p.MedicalHistory) > 0 && !json.Valid(p.MedicalHistory) {
		errs["medical_history"] = "ต้องเป็น JSON"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (p *patientPayload) apply(m *models.Patient) {
	birth, _ := parseBirthDate(p.BirthDate)
	m.CitizenID = p.CitizenID
	m.Prefix = p.Prefix
	m.FirstName = p.FirstName
	m.LastName = p.LastName
	m.BirthDate = birth
	m.Gender = p.Gender
	m.Phone = p.Phone
	m.Email = p.Email
	m.GuardianName = p.GuardianName
	m.GuardianPhone = p.GuardianPhone
	m.GuardianRelation = p.GuardianRelation
	m.SchoolID = p.SchoolID
	m.Grade = p.Grade
	m.Address = p.Address
	if len(p.MedicalHistory) > 0 {
		m.MedicalHistory = datatypes.JSON(p.MedicalHistory)
	}
}

/* ====================== Handlers ====================== */

// GET /patients?gender=&school_id=&search=
func (h *PatientHandler) List(c echo.Context) error {
	return listModels[models.Patient](c, h.db, listQuery{
		Plural: "patients",
		Search: []string{"first_name", "last_name", "citizen_id", "phone", "guardian_name"},
		Filters: []filterCol{
			{Param: "gender", Column: "gender"},
			{Param: "school_id", Column: "school_id", Numeric: true},
		},
	})
}

func (h *PatientHandler) Get(c echo.Context) error {
	return getByID[models.Patient](c, h.db)
}

func (h *PatientHandler) Create(c echo.Context) error {
	var p patientPayload
	if err := c.Bind(&p); err != nil {
		return errJSON(c, http.StatusBadRequest, "INVALID_PAYLOAD")
	}
	p.normalize()
	if errs := validatePatient(&p); errs != nil {
		return validationError(c, errs)
	}
	var m models.Patient
	p.apply(&m)
	if err := h.db.Create(&m).Error; err != nil {
		return dbError(c, err)
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *PatientHandler) Update(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return errJSON(c, http.StatusBadRequest, "INVALID_ID")
	}
	var m models.Patient
	if err := h.db.First(&m, id).Error; err != nil {
		return dbError(c, err)
	}
	var p patientPayload
	if err := c.Bind(&p); err != nil {
		return errJSON(c, http.StatusBadRequest, "INVALID_PAYLOAD")
	}
	p.normalize()
	if errs := validatePatient(&p); errs != nil {
		return validationError(c, errs)
	}
	p.apply(&m)
	if err := h.db.Save(&m).Error; err != nil {
		return dbError(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

// DELETE /patients/:id[?force=true]
// ปกติเป็น soft delete; force=true ลบถาวร (เฉพาะ admin) พร้อมผลคัดกรองของผู้ป่วย
func (h *PatientHandler) Delete(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return errJSON(c, http.StatusBadRequest, "INVALID_ID")
	}
	force, _ := strconv.ParseBool(c.QueryParam("force"))
	if force && middlewares.CurrentRole(c) != string(models.RoleAdmin) {
		return errJSON(c, http.StatusForbidden, "FORBIDDEN")
	}

	ctx := c.Request().Context()
	if !force {
		res := h.db.WithContext(ctx).Delete(&models.Patient{}, id)
		if res.Error != nil {
			return dbError(c, res.Error)
		}
		if res.RowsAffected == 0 {
			return errJSON(c, http.StatusNotFound, "NOT_FOUND")
		}
		return c.NoContent(http.StatusNoContent)
	}

	var affected int64
	err := h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("patient_id = ?", id).Delete(&models.ScreeningSession{}).Error; err != nil {
			return err
		}
		res := tx.Unscoped().Delete(&models.Patient{}, id)
		affected = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return dbError(c, err)
	}
	if affected == 0 {
		return errJSON(c, http.StatusNotFound, "NOT_FOUND")
	}
	return c.NoContent(http.StatusNoContent)
}
