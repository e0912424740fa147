package handlers

import (
	"net/http"
	"net/mail"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/TELY01-DEV/evep-admin/models"
)

/*** Validation rules ***/
var validPrefixes = map[string]bool{
	"": true, "นาย": true, "นาง": true, "นางสาว": true, "ว่าที่ รต.": true, "ดร.": true,
}

var (
	tchReCode = regexp.MustCompile(`^[A-Za-z0-9]{1,20}$`)
	tchReName = regexp.MustCompile(`^[A-Za-zก-๙\- ]{1,50}$`)
)

type TeacherHandler struct {
	db *gorm.DB
}

func NewTeacherHandler(db *gorm.DB) *TeacherHandler { return &TeacherHandler{db: db} }

type teacherPayload struct {
	TeacherCode string `json:"teacher_code"`
	CitizenID   string `json:"citizen_id"`
	Prefix      string `json:"prefix"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	SchoolID    uint   `json:"school_id"`
	Position    string `json:"position"`
	IsActive    *bool  `json:"is_active"`
}

func (p *teacherPayload) norm() {
	trim := strings.TrimSpace
	p.TeacherCode = trim(p.TeacherCode)
	p.CitizenID = digitsOnly(p.CitizenID)
	p.Prefix = trim(p.Prefix)
	p.FirstName = strings.Join(strings.Fields(p.FirstName), " ")
	p.LastName = strings.Join(strings.Fields(p.LastName), " ")
	p.Phone = trim(p.Phone)
	p.Email = strings.ToLower(trim(p.Email))
	p.Position = strings.Join(strings.Fields(p.Position), " ")
}

func validateTeacher(p *teacherPayload) map[string]string {
	errs := map[string]string{}
	if !tchReCode.MatchString(p.TeacherCode) {
		errs["teacher_code"] = "รหัสครูต้องเป็น A–Z/a–z/0–9 ไม่เกิน 20 ตัว"
	}
	if p.CitizenID != "" && !reCitizenID.MatchString(p.CitizenID) {
		errs["citizen_id"] = "เลขบัตรประชาชนต้องเป็นตัวเลข 13 หลัก"
	}
	if !validPrefixes[p.Prefix] {
		errs["prefix"] = "คำนำหน้าไม่ถูกต้อง"
	}
	if !tchReName.MatchString(p.FirstName) {
		errs["first_name"] = "ชื่อรองรับไทย/อังกฤษ เว้นวรรค/ขีด (≤50)"
	}
	if !tchReName.MatchString(p.LastName) {
		errs["last_name"] = "นามสกุลรองรับไทย/อังกฤษ เว้นวรรค/ขีด (≤50)"
	}
	if p.Phone != "" {
		if d := digitsOnly(p.Phone); len(d) < 9 || len(d) > 10 {
			errs["phone"] = "เบอร์โทรต้องมี 9–10 หลัก (ใส่ขีด/ช่องว่างได้)"
		}
	}
	if _, err := mail.ParseAddress(p.Email); err != nil {
		errs["email"] = "รูปแบบอีเมลไม่ถูกต้อง"
	}
	if p.SchoolID == 0 {
		errs["school_id"] = "กรุณาเลือกโรงเรียน"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (p *teacherPayload) apply(t *models.Teacher) {
	t.TeacherCode = p.TeacherCode
	t.CitizenID = p.CitizenID
	t.Prefix = p.Prefix
	t.FirstName = p.FirstName
	t.LastName = p.LastName
	t.Phone = p.Phone
	t.Email = p.Email
	t.SchoolID = p.SchoolID
	t.Position = p.Position
	if p.IsActive != nil {
		t.IsActive = *p.IsActive
	}
}

/*** Handlers ***/

// GET /teachers?school_id=&search=
func (h *TeacherHandler) List(c echo.Context) error {
	return listModels[models.Teacher](c, h.db, listQuery{
		Plural:  "teachers",
		Search:  []string{"teacher_code", "first_name", "last_name", "email", "phone"},
		Filters: []filterCol{{Param: "school_id", Column: "school_id", Numeric: true}},
	})
}

func (h *TeacherHandler) Get(c echo.Context) error {
	return getByID[models.Teacher](c, h.db)
}

func (h *TeacherHandler) Create(c echo.Context) error {
	var p teacherPayload
	if err := c.Bind(&p); err != nil {
		return errJSON(c, http.StatusBadRequest, "INVALID_PAYLOAD")
	}
	p.norm()
	if errs := validateTeacher(&p); errs != nil {
		return validationError(c, errs)
	}
	t := models.Teacher{IsActive: true}
	p.apply(&t)
	if err := h.db.Create(&t).Error; err != nil {
		// ชน unique teacher_code/email → DUPLICATE
		return dbError(c, err)
	}
	return c.JSON(http.StatusCreated, t)
}

func (h *TeacherHandler) Update(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return errJSON(c, http.StatusBadRequest, "INVALID_ID")
	}
	var t models.Teacher
	if err := h.db.First(&t, id).Error; err != nil {
		return dbError(c, err)
	}
	var p teacherPayload
	if err := c.Bind(&p); err != nil {
		return errJSON(c, http.StatusBadRequest, "INVALID_PAYLOAD")
	}
	p.norm()
	if errs := validateTeacher(&p); errs != nil {
		return validationError(c, errs)
	}
	p.apply(&t)
	if err := h.db.Save(&t).Error; err != nil {
		return dbError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *TeacherHandler) Delete(c echo.Context) error {
	return deleteByID[models.Teacher](c, h.db)
}
