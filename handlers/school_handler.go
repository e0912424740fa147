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

type SchoolHandler struct {
	db *gorm.DB
}

func NewSchoolHandler(db *gorm.DB) *SchoolHandler { return &SchoolHandler{db: db} }

type schoolPayload struct {
	SchoolCode     string         `json:"school_code"`
	Name           string         `json:"name"`
	EnName         string         `json:"en_name"`
	SchoolType     string         `json:"school_type"`
	EducationLevel string         `json:"education_level"`
	Address        models.Address `json:"address"`
	ProvinceID     *uint          `json:"province_id"`
	DistrictID     *uint          `json:"district_id"`
	SubdistrictID  *uint          `json:"subdistrict_id"`
	Phone          string         `json:"phone"`
	Email          string         `json:"email"`
	IsActive       *bool          `json:"is_active"`
}

var (
	reCode      = regexp.MustCompile(`^[ก-๙A-Za-z0-9]{1,20}$`)
	rePhone     = regexp.MustCompile(`^[0-9\- ]{1,15}$`)
	validLevels = map[string]bool{
		"อนุบาลศึกษา":    true,
		"ประถมศึกษา":     true,
		"มัธยมศึกษา":     true,
		"ทุกระดับการสอน": true,
	}
)

func (p *schoolPayload) normalize() {
	p.SchoolCode = strings.TrimSpace(p.SchoolCode)
	p.Name = strings.Join(strings.Fields(p.Name), " ")
	p.EnName = strings.Join(strings.Fields(p.EnName), " ")
	p.SchoolType = strings.TrimSpace(p.SchoolType)
	p.EducationLevel = strings.TrimSpace(p.EducationLevel)
	p.Phone = strings.TrimSpace(p.Phone)
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	trimAddress(&p.Address)
}

func validateSchool(p schoolPayload) map[string]string {
	errs := map[string]string{}
	if !reCode.MatchString(p.SchoolCode) {
		errs["school_code"] = "รูปแบบรหัสโรงเรียนไม่ถูกต้อง"
	}
	if p.Name == "" {
		errs["name"] = "กรุณากรอกชื่อโรงเรียน"
	}
	if p.Phone != "" && !rePhone.MatchString(p.Phone) {
		errs["phone"] = "รูปแบบเบอร์โทรไม่ถูกต้อง"
	}
	if p.Email != "" {
		if _, err := mail.ParseAddress(p.Email); err != nil {
			errs["email"] = "รูปแบบอีเมลไม่ถูกต้อง"
		}
	}
	if !validLevels[p.EducationLevel] {
		errs["education_level"] = "กรุณาเลือกระดับการสอนให้ถูกต้อง"
	}
	if p.Address.ZipCode != "" && !reZip.MatchString(p.Address.ZipCode) {
		errs["address.zip_code"] = "รหัสไปรษณีย์ต้องเป็นตัวเลข 5 หลัก"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (p schoolPayload) apply(s *models.School) {
	s.SchoolCode = p.SchoolCode
	s.Name = p.Name
	s.EnName = p.EnName
	s.SchoolType = p.SchoolType
	s.EducationLevel = p.EducationLevel
	s.Address = p.Address
	s.ProvinceID = p.ProvinceID
	s.DistrictID = p.DistrictID
	s.SubdistrictID = p.SubdistrictID
	s.Phone = p.Phone
	s.Email = p.Email
	if p.IsActive != nil {
		s.IsActive = *p.IsActive
	}
}

// GET /schools?province_id=&district_id=&search=
func (h *SchoolHandler) List(c echo.Context) error {
	return listModels[models.School](c, h.db, listQuery{
		Plural: "schools",
		Search: []string{"school_code", "name", "en_name", "address_province", "address_district"},
		Filters: []filterCol{
			{Param: "province_id", Column: "province_id", Numeric: true},
			{Param: "district_id", Column: "district_id", Numeric: true},
		},
		Order: "school_code ASC",
	})
}

// GET /schools/:id
func (h *SchoolHandler) Get(c echo.Context) error {
	return getByID[models.School](c, h.db)
}

// POST /schools
func (h *SchoolHandler) Create(c echo.Context) error {
	var p schoolPayload
	if err := c.Bind(&p); err != nil {
		return errJSON(c, http.StatusBadRequest, "INVALID_PAYLOAD")
	}
	p.normalize()
	if errs := validateSchool(p); errs != nil {
		return validationError(c, errs)
	}

	s := models.School{IsActive: true}
	p.apply(&s)
	if err := h.db.Create(&s).Error; err != nil {
		// อาจชน unique school_code
		return dbError(c, err)
	}
	return c.JSON(http.StatusCreated, s)
}

// PUT /schools/:id
func (h *SchoolHandler) Update(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return errJSON(c, http.StatusBadRequest, "INVALID_ID")
	}
	var current models.School
	if err := h.db.First(&current, id).Error; err != nil {
		return dbError(c, err)
	}

	var p schoolPayload
	if err := c.Bind(&p); err != nil {
		return errJSON(c, http.StatusBadRequest, "INVALID_PAYLOAD")
	}
	p.normalize()
	if errs := validateSchool(p); errs != nil {
		return validationError(c, errs)
	}

	p.apply(&current)
	if err := h.db.Save(&current).Error; err != nil {
		return dbError(c, err)
	}
	return c.JSON(http.StatusOK, current)
}
