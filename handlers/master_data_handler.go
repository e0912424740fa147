package handlers

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/TELY01-DEV/evep-admin/models"
)

// MasterDataHandler serves /master-data: provinces, districts,
// subdistricts and hospital types.
type MasterDataHandler struct {
	db *gorm.DB
}

func NewMasterDataHandler(db *gorm.DB) *MasterDataHandler { return &MasterDataHandler{db: db} }

/* ====================== Payload & Validation ====================== */

type masterPayload struct {
	Code       string `json:"code"`
	NameTH     string `json:"name_th"`
	NameEN     string `json:"name_en"`
	ProvinceID uint   `json:"province_id"`
	DistrictID uint   `json:"district_id"`
	ZipCode    string `json:"zip_code"`
	IsActive   *bool  `json:"is_active"`
}

var (
	reMasterCode = regexp.MustCompile(`^[A-Za-z0-9_\-]{1,20}$`)
	reZip        = regexp.MustCompile(`^[0-9]{5}$`)
)

func (p *masterPayload) normalize() {
	p.Code = strings.TrimSpace(p.Code)
	p.NameTH = strings.Join(strings.Fields(p.NameTH), " ")
	p.NameEN = strings.Join(strings.Fields(p.NameEN), " ")
	p.ZipCode = strings.TrimSpace(p.ZipCode)
}

// parent: "", "province_id" หรือ "district_id" ตามระดับที่ต้องมี
func validateMaster(p *masterPayload, parent string) map[string]string {
	errs := map[string]string{}
	if !reMasterCode.MatchString(p.Code) {
		errs["code"] = "รูปแบบรหัสไม่ถูกต้อง"
	}
	if p.NameTH == "" {
		errs["name_th"] = "กรุณากรอกชื่อภาษาไทย"
	}
	switch parent {
	case "province_id":
		if p.ProvinceID == 0 {
			errs["province_id"] = "กรุณาเลือกจังหวัด"
		}
	case "district_id":
		if p.DistrictID == 0 {
			errs["district_id"] = "กรุณาเลือกอำเภอ/เขต"
		}
		if p.ZipCode != "" && !reZip.MatchString(p.ZipCode) {
			errs["zip_code"] = "รหัสไปรษณีย์ต้องเป็นตัวเลข 5 หลัก"
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (h *MasterDataHandler) bind(c echo.Context, parent string) (*masterPayload, error) {
	var p masterPayload
	if err := c.Bind(&p); err != nil {
		return nil, errJSON(c, http.StatusBadRequest, "INVALID_PAYLOAD")
	}
	p.normalize()
	if errs := validateMaster(&p, parent); errs != nil {
		return nil, validationError(c, errs)
	}
	return &p, nil
}

// deleteByID ลบแถวตาม :id; แถวที่ยังถูกอ้างอิงอยู่จะได้ INVALID_REFERENCE
func deleteByID[T any](c echo.Context, db *gorm.DB) error {
	id, ok := parseID(c)
	if !ok {
		return errJSON(c, http.StatusBadRequest, "INVALID_ID")
	}
	res := db.WithContext(c.Request().Context()).Delete(new(T), id)
	if res.Error != nil {
		return dbError(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return errJSON(c, http.StatusNotFound, "NOT_FOUND")
	}
	return c.NoContent(http.StatusNoContent)
}

func getByID[T any](c echo.Context, db *gorm.DB) error {
	id, ok := parseID(c)
	if !ok {
		return errJSON(c, http.StatusBadRequest, "INVALID_ID")
	}
	var out T
	if err := db.WithContext(c.Request().Context()).First(&out, id).Error; err != nil {
		return dbError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

/* ====================== Provinces ====================== */

// GET /master-data/provinces
func (h *MasterDataHandler) ListProvinces(c echo.Context) error {
	return listModels[models.Province](c, h.db, listQuery{
		Plural: "provinces",
		Search: []string{"code", "name_th", "name_en"},
		Order:  "code ASC",
	})
}

func (h *MasterDataHandler) GetProvince(c echo.Context) error {
	return getByID[models.Province](c, h.db)
}

func (h *MasterDataHandler) CreateProvince(c echo.Context) error {
	p, err := h.bind(c, "")
	if p == nil {
		return err
	}
	row := models.Province{Code: p.Code, NameTH: p.NameTH, NameEN: p.NameEN}
	if err := h.db.Create(&row).Error; err != nil {
		return dbError(c, err)
	}
	return c.JSON(http.StatusCreated, row)
}

func (h *MasterDataHandler) UpdateProvince(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return errJSON(c, http.StatusBadRequest, "INVALID_ID")
	}
	var row models.Province
	if err := h.db.First(&row, id).Error; err != nil {
		return dbError(c, err)
	}
	p, err := h.bind(c, "")
	if p == nil {
		return err
	}
	row.Code, row.NameTH, row.NameEN = p.Code, p.NameTH, p.NameEN
	if err := h.db.Save(&row).Error; err != nil {
		return dbError(c, err)
	}
	return c.JSON(http.StatusOK, row)
}

func (h *MasterDataHandler) DeleteProvince(c echo.Context) error {
	return deleteByID[models.Province](c, h.db)
}

/* ====================== Districts ====================== */

// GET /master-data/districts?province_id=
func (h *MasterDataHandler) ListDistricts(c echo.Context) error {
	return listModels[models.District](c, h.db, listQuery{
		Plural:  "districts",
		Search:  []string{"code", "name_th", "name_en"},
		Filters: []filterCol{{Param: "province_id", Column: "province_id", Numeric: true}},
		Order:   "code ASC",
	})
}

func (h *MasterDataHandler) GetDistrict(c echo.Context) error {
	return getByID[models.District](c, h.db)
}

func (h *MasterDataHandler) CreateDistrict(c echo.Context) error {
	p, err := h.bind(c, "province_id")
	if p == nil {
		return err
	}
	row := models.District{Code: p.Code, NameTH: p.NameTH, NameEN: p.NameEN, ProvinceID: p.ProvinceID}
	if err := h.db.Create(&row).Error; err != nil {
		return dbError(c, err)
	}
	return c.JSON(http.StatusCreated, row)
}

func (h *MasterDataHandler) UpdateDistrict(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return errJSON(c, http.StatusBadRequest, "INVALID_ID")
	}
	var row models.District
	if err := h.db.First(&row, id).Error; err != nil {
		return dbError(c, err)
	}
	p, err := h.bind(c, "province_id")
	if p == nil {
		return err
	}
	row.Code, row.NameTH, row.NameEN, row.ProvinceID = p.Code, p.NameTH, p.NameEN, p.ProvinceID
	if err := h.db.Save(&row).Error; err != nil {
		return dbError(c, err)
	}
	return c.JSON(http.StatusOK, row)
}

func (h *MasterDataHandler) DeleteDistrict(c echo.Context) error {
	return deleteByID[models.District](c, h.db)
}

/* ====================== Subdistricts ====================== */

// GET /master-data/subdistricts?district_id=
func (h *MasterDataHandler) ListSubdistricts(c echo.Context) error {
	return listModels[models.Subdistrict](c, h.db, listQuery{
		Plural:  "subdistricts",
		Search:  []string{"code", "name_th", "name_en", "zip_code"},
		Filters: []filterCol{{Param: "district_id", Column: "district_id", Numeric: true}},
		Order:   "code ASC",
	})
}

func (h *MasterDataHandler) GetSubdistrict(c echo.Context) error {
	return getByID[models.Subdistrict](c, h.db)
}

func (h *MasterDataHandler) CreateSubdistrict(c echo.Context) error {
	p, err := h.bind(c, "district_id")
	if p == nil {
		return err
	}
	row := models.Subdistrict{Code: p.Code, NameTH: p.NameTH, NameEN: p.NameEN, DistrictID: p.DistrictID, ZipCode: p.ZipCode}
	if err := h.db.Create(&row).Error; err != nil {
		return dbError(c, err)
	}
	return c.JSON(http.StatusCreated, row)
}

func (h *MasterDataHandler) UpdateSubdistrict(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return errJSON(c, http.StatusBadRequest, "INVALID_ID")
	}
	var row models.Subdistrict
	if err := h.db.First(&row, id).Error; err != nil {
		return dbError(c, err)
	}
	p, err := h.bind(c, "district_id")
	if p == nil {
		return err
	}
	row.Code, row.NameTH, row.NameEN = p.Code, p.NameTH, p.NameEN
	row.DistrictID, row.ZipCode = p.DistrictID, p.ZipCode
	if err := h.db.Save(&row).Error; err != nil {
		return dbError(c, err)
	}
	return c.JSON(http.StatusOK, row)
}

func (h *MasterDataHandler) DeleteSubdistrict(c echo.Context) error {
	return deleteByID[models.Subdistrict](c, h.db)
}

/* ====================== Hospital types ====================== */

// GET /master-data/hospital-types
func (h *MasterDataHandler) ListHospitalTypes(c echo.Context) error {
	return listModels[models.HospitalType](c, h.db, listQuery{
		Plural: "hospital_types",
		Search: []string{"code", "name_th", "name_en"},
		Order:  "code ASC",
	})
}

func (h *MasterDataHandler) CreateHospitalType(c echo.Context) error {
	p, err := h.bind(c, "")
	if p == nil {
		return err
	}
	row := models.HospitalType{Code: p.Code, NameTH: p.NameTH, NameEN: p.NameEN, IsActive: p.IsActive == nil || *p.IsActive}
	if err := h.db.Create(&row).Error; err != nil {
		return dbError(c, err)
	}
	return c.JSON(http.StatusCreated, row)
}

func (h *MasterDataHandler) UpdateHospitalType(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return errJSON(c, http.StatusBadRequest, "INVALID_ID")
	}
	var row models.HospitalType
	if err := h.db.First(&row, id).Error; err != nil {
		return dbError(c, err)
	}
	p, err := h.bind(c, "")
	if p == nil {
		return err
	}
	row.Code, row.NameTH, row.NameEN = p.Code, p.NameTH, p.NameEN
	if p.IsActive != nil {
		row.IsActive = *p.IsActive
	}
	if err := h.db.Save(&row).Error; err != nil {
		return dbError(c, err)
	}
	return c.JSON(http.StatusOK, row)
}

func (h *MasterDataHandler) DeleteHospitalType(c echo.Context) error {
	return deleteByID[models.HospitalType](c, h.db)
}
