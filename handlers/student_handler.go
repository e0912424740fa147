package handlers

import (
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/TELY01-DEV/evep-admin/models"
)

type StudentHandler struct {
	db *gorm.DB
}

func NewStudentHandler(db *gorm.DB) *StudentHandler { return &StudentHandler{db: db} }

// ===== Validation rules =====
var (
	reCitizenID = regexp.MustCompile(`^[0-9]{13}$`)
	stuReCode   = regexp.MustCompile(`^[A-Za-z0-9\-]{1,20}$`)
	stuReName   = regexp.MustCompile(`^[ก-๙A-Za-z\s\-]{1,50}$`)
	stuReRoom   = regexp.MustCompile(`^[0-9]{1,5}$`)

	validStudentStatus = map[string]bool{
		models.StudentActive:      true,
		models.StudentInactive:    true,
		models.StudentGraduated:   true,
		models.StudentTransferred: true,
	}
)

type studentPayload struct {
	StudentCode   string `json:"student_code"`
	CitizenID     string `json:"citizen_id"`
	Prefix        string `json:"prefix"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Gender        string `json:"gender"`
	BirthDate     string `json:"birth_date"` // YYYY-MM-DD หรือว่าง
	SchoolID      uint   `json:"school_id"`
	Grade         string `json:"grade"`
	Room          string `json:"room"`
	GuardianName  string `json:"guardian_name"`
	GuardianPhone string `json:"guardian_phone"`
	Status        string `json:"status"`
}

func (p *studentPayload) normalize() {
	trim := strings.TrimSpace
	p.StudentCode = trim(p.StudentCode)
	p.CitizenID = digitsOnly(p.CitizenID)
	p.Prefix = trim(p.Prefix)
	p.FirstName = strings.Join(strings.Fields(p.FirstName), " ")
	p.LastName = strings.Join(strings.Fields(p.LastName), " ")
	p.Gender = strings.ToLower(trim(p.Gender))
	p.BirthDate = trim(p.BirthDate)
	p.Grade = trim(p.Grade)
	p.Room = trim(p.Room)
	p.GuardianName = strings.Join(strings.Fields(p.GuardianName), " ")
	p.GuardianPhone = trim(p.GuardianPhone)
	p.Status = strings.ToLower(trim(p.Status))
	if p.Status == "" {
		p.Status = models.StudentActive
	}
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// parseBirthDate: "" → nil
func parseBirthDate(s string) (*time.Time, bool) {
	if s == "" {
		return nil, true
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, false
	}
	return &t, true
}

var validGenders = map[string]bool{"": true, "male": true, "female": true, "other": true}

func validateStudent(p *studentPayload) map[string]string {
	errs := map[string]string{}

	if !stuReCode.MatchString(p.StudentCode) {
		errs["student_code"] = "รหัสนักเรียนไม่ถูกต้อง"
	}
	if p.CitizenID != "" && !reCitizenID.MatchString(p.CitizenID) {
		errs["citizen_id"] = "เลขบัตรประชาชนต้องเป็นตัวเลข 13 หลัก"
	}
	if !stuReName.MatchString(p.FirstName) {
		errs["first_name"] = "ชื่อต้องเป็นตัวอักษร (ไทย/อังกฤษ)"
	}
	if !stuReName.MatchString(p.LastName) {
		errs["last_name"] = "นามสกุลต้องเป็นตัวอักษร (ไทย/อังกฤษ)"
	}
	if !validGenders[p.Gender] {
		errs["gender"] = "เพศไม่ถูกต้อง"
	}
	if _, ok := parseBirthDate(p.BirthDate); !ok {
		errs["birth_date"] = "วันเกิดต้องเป็น YYYY-MM-DD หรือเว้นว่าง"
	}
	if p.SchoolID == 0 {
		errs["school_id"] = "กรุณาเลือกโรงเรียน"
	}
	if p.Grade == "" {
		errs["grade"] = "กรุณาเลือกชั้นเรียน"
	}
	if p.Room != "" && !stuReRoom.MatchString(p.Room) {
		errs["room"] = "ห้องต้องเป็นตัวเลข"
	}
	if p.GuardianPhone != "" {
		if d := digitsOnly(p.GuardianPhone); len(d) < 9 || len(d) > 10 {
			errs["guardian_phone"] = "เบอร์โทรต้องมี 9–10 หลัก"
		}
	}
	if !validStudentStatus[p.Status] {
		errs["status"] = "สถานะไม่ถูกต้อง"
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (p *studentPayload) apply(s *models.Student) {
	birth, _ := parseBirthDate(p.BirthDate)
	s.StudentCode = p.StudentCode
	s.CitizenID = p.CitizenID
	s.Prefix = p.Prefix
	s.FirstName = p.FirstName
	s.LastName = p.LastName
	s.Gender = p.Gender
	s.BirthDate = birth
	s.SchoolID = p.SchoolID
	s.Grade = p.Grade
	s.Room = p.Room
	s.GuardianName = p.GuardianName
	s.GuardianPhone = p.GuardianPhone
	s.Status = p.Status
}

// ===== Handlers =====

// GET /students?school_id=&grade=&status=&search=
func (h *StudentHandler) List(c echo.Context) error {
	return listModels[models.Student](c, h.db, listQuery{
		Plural: "students",
		Search: []string{"student_code", "first_name", "last_name", "citizen_id"},
		Filters: []filterCol{
			{Param: "school_id", Column: "school_id", Numeric: true},
			{Param: "grade", Column: "grade"},
			{Param: "status", Column: "status"},
		},
	})
}

func (h *StudentHandler) Get(c echo.Context) error {
	return getByID[models.Student](c, h.db)
}

func (h *StudentHandler) Create(c echo.Context) error {
	var p studentPayload
	if err := c.Bind(&p); err != nil {
		return errJSON(c, http.StatusBadRequest, "INVALID_PAYLOAD")
	}
	p.normalize()
	if errs := validateStudent(&p); errs != nil {
		return validationError(c, errs)
	}
	var s models.Student
	p.apply(&s)
	if err := h.db.Create(&s).Error; err != nil {
		return dbError(c, err)
	}
	return c.JSON(http.StatusCreated, s)
}

func (h *StudentHandler) Update(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return errJSON(c, http.StatusBadRequest, "INVALID_ID")
	}
	var existing models.Student
	if err := h.db.First(&existing, id).Error; err != nil {
		return dbError(c, err)
	}
	var p studentPayload
	if err := c.Bind(&p); err != nil {
		return errJSON(c, http.StatusBadRequest, "INVALID_PAYLOAD")
	}
	p.normalize()
	if errs := validateStudent(&p); errs != nil {
		return validationError(c, errs)
	}
	p.apply(&existing)
	if err := h.db.Save(&existing).Error; err != nil {
		return dbError(c, err)
	}
	return c.JSON(http.StatusOK, existing)
}

func (h *StudentHandler) Delete(c echo.Context) error {
	return deleteByID[models.Student](c, h.db)
}

// POST /students/import: all or nothing
func (h *StudentHandler) Import(c echo.Context) error {
	var arr []studentPayload
	if err := c.Bind(&arr); err != nil {
		return errJSON(c, http.StatusBadRequest, "INVALID_PAYLOAD")
	}
	inserted := make([]models.Student, 0, len(arr))
	issues := []map[string]any{}

	for i := range arr {
		p := &arr[i]
		p.normalize()
		if errs := validateStudent(p); errs != nil {
			issues = append(issues, map[string]any{"index": i, "fields": errs})
			continue
		}
		var s models.Student
		p.apply(&s)
		inserted = append(inserted, s)
	}
	if len(issues) > 0 {
		return c.JSON(http.StatusBadRequest, map[string]any{
			"error":  "BULK_VALIDATION_ERROR",
			"issues": issues,
		})
	}
	if len(inserted) == 0 {
		return c.JSON(http.StatusCreated, map[string]any{"inserted": 0})
	}
	if err := h.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&inserted).Error
	}); err != nil {
		return dbError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{"inserted": len(inserted)})
}
