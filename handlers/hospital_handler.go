package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/TELY01-DEV/evep-admin/models"
)

type HospitalHandler struct {
	db *gorm.DB
}

func NewHospitalHandler(db *gorm.DB) *HospitalHandler { return &HospitalHandler{db: db} }

type hospitalPayload struct {
	Code          string         `json:"code"`
	Name          string         `json:"name"`
	EnName        string         `json:"en_name"`
	TypeID        uint           `json:"type_id"`
	Address       models.Address `json:"address"`
	ProvinceID    *uint          `json:"province_id"`
	DistrictID    *uint          `json:"district_id"`
	SubdistrictID *uint          `json:"subdistrict_id"`
	Phone         string         `json:"phone"`
	IsActive      *bool          `json:"is_active"`
}

func trimAddress(a *models.Address) {
	a.Line = strings.TrimSpace(a.Line)
	a.Subdistrict = strings.TrimSpace(a.Subdistrict)
	a.District = strings.TrimSpace(a.District)
	a.Province = strings.TrimSpace(a.Province)
	a.ZipCode = strings.TrimSpace(a.ZipCode)
}

func validateHospital(p *hospitalPayload) map[string]string {
	p.Code = strings.TrimSpace(p.Code)
	p.Name = strings.Join(strings.Fields(p.Name), " ")
	p.EnName = strings.Join(strings.Fields(p.EnName), " ")
	p.Phone = strings.TrimSpace(p.Phone)
	trimAddress(&p.Address)

	errs := map[string]string{}
	if !reMasterCode.MatchString(p.Code) {
		errs["code"] = "รูปแบบรหัสโรงพยาบาลไม่ถูกต้อง"
	}
	if p.Name == "" {
		errs["name"] = "กรุณากรอกชื่อโรงพยาบาล"
	}
	if p.TypeID == 0 {
		errs["type_id"] = "กรุณาเลือกประเภทโรงพยาบาล"
	}
	if p.Address.ZipCode != "" && !reZip.MatchString(p.Address.ZipCode) {
		errs["address.zip_code"] = "รหัสไปรษณีย์ต้องเป็นตัวเลข 5 หลัก"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (p *hospitalPayload) apply(h *models.Hospital) {
	h.Code = p.Code
	h.Name = p.Name
	h.EnName = p.EnName
	h.TypeID = p.TypeID
	h.Address = p.Address
	h.ProvinceID = p.ProvinceID
	h.DistrictID = p.DistrictID
	h.SubdistrictID = p.SubdistrictID
	h.Phone = p.Phone
	if p.IsActive != nil {
		h.IsActive = *p.IsActive
	}
}

// GET /hospitals?type_id=&province_id=&district_id=&search=
func (h *HospitalHandler) List(c echo.Context) error {
	return listModels[models.Hospital](c, h.db, listQuery{
		Plural: "hospitals",
		Search: []string{"code", "name", "en_name", "address_province", "address_district"},
		Filters: []filterCol{
			{Param: "type_id", Column: "type_id", Numeric: true},
			{Param: "province_id", Column: "province_id", Numeric: true},
			{Param: "district_id", Column: "district_id", Numeric: true},
		},
		Order: "code ASC",
	})
}

func (h *HospitalHandler) Get(c echo.Context) error {
	return getByID[models.Hospital](c, h.db)
}

func (h *HospitalHandler) Create(c echo.Context) error {
	var p hospitalPayload
	if err := c.Bind(&p); err != nil {
		return errJSON(c, http.StatusBadRequest, "INVALID_PAYLOAD")
	}
	if errs := validateHospital(&p); errs != nil {
		return validationError(c, errs)
	}
	row := models.Hospital{IsActive: true}
	p.apply(&row)
	if err := h.db.Create(&row).Error; err != nil {
		return dbError(c, err)
	}
	return c.JSON(http.StatusCreated, row)
}

func (h *HospitalHandler) Update(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return errJSON(c, http.StatusBadRequest, "INVALID_ID")
	}
	var row models.Hospital
	if err := h.db.First(&row, id).Error; err != nil {
		return dbError(c, err)
	}
	var p hospitalPayload
	if err := c.Bind(&p); err != nil {
		return errJSON(c, http.StatusBadRequest, "INVALID_PAYLOAD")
	}
	if errs := validateHospital(&p); errs != nil {
		return validationError(c, errs)
	}
	p.apply(&row)
	if err := h.db.Save(&row).Error; err != nil {
		return dbError(c, err)
	}
	return c.JSON(http.StatusOK, row)
}

func (h *HospitalHandler) Delete(c echo.Context) error {
	return deleteByID[models.Hospital](c, h.db)
}
