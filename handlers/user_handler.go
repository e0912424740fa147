package handlers

import (
	"crypto/rand"
	"math/big"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/TELY01-DEV/evep-admin/middlewares"
	"github.com/TELY01-DEV/evep-admin/models"
)

// -----------------------------
// Handler & ctor
// -----------------------------

type UserHandler struct {
	db *gorm.DB
}

func NewUserHandler(db *gorm.DB) *UserHandler { return &UserHandler{db: db} }

// -----------------------------
// Request payloads
// -----------------------------

type userPayload struct {
	Username    string   `json:"username"`
	Password    string   `json:"password"`
	Role        string   `json:"role"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Phone       string   `json:"phone"`
	IsActive    *bool    `json:"is_active"`
	Permissions []string `json:"permissions"`
}

type activeReq struct {
	IsActive *bool `json:"is_active"`
}

func (p *userPayload) normalize() {
	p.Username = strings.TrimSpace(p.Username)
	p.Role = strings.ToLower(strings.TrimSpace(p.Role))
	p.Name = strings.Join(strings.Fields(p.Name), " ")
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	p.Phone = strings.TrimSpace(p.Phone)
}

func validateUser(p *userPayload, creating bool, minLen int) map[string]string {
	errs := map[string]string{}
	if p.Username == "" {
		errs["username"] = "กรุณากรอกชื่อผู้ใช้"
	}
	if !models.Role(p.Role).Valid() {
		errs["role"] = "บทบาทไม่ถูกต้อง"
	}
	if p.Email != "" {
		if _, err := mail.ParseAddress(p.Email); err != nil {
			errs["email"] = "รูปแบบอีเมลไม่ถูกต้อง"
		}
	}
	if creating || p.Password != "" {
		if len(p.Password) < minLen {
			errs["password"] = "รหัสผ่านสั้นเกินไป"
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func randomPassword(n int) (string, error) {
	const alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"
	out := make([]byte, n)
	for i := range out {
		k, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			return "", err
		}
		out[i] = alphabet[k.Int64()]
	}
	return string(out), nil
}

// -----------------------------
// GET /admin/users?role=&is_active=&search=
// -----------------------------

func (h *UserHandler) List(c echo.Context) error {
	return listModels[models.User](c, h.db, listQuery{
		Plural:  "users",
		Search:  []string{"username", "name", "email", "phone"},
		Filters: []filterCol{{Param: "role", Column: "role"}},
		Order:   "username ASC",
		Scope: func(tx *gorm.DB) *gorm.DB {
			switch strings.ToLower(c.QueryParam("is_active")) {
			case "true":
				return tx.Where("is_active = ?", true)
			case "false":
				return tx.Where("is_active = ?", false)
			}
			return tx
		},
	})
}

func (h *UserHandler) Get(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return errJSON(c, http.StatusBadRequest, "INVALID_ID")
	}
	var u models.User
	if err := h.db.First(&u, id).Error; err != nil {
		return dbError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

// POST /admin/users
func (h *UserHandler) Create(c echo.Context) error {
	var p userPayload
	if err := c.Bind(&p); err != nil {
		return errJSON(c, http.StatusBadRequest, "INVALID_PAYLOAD")
	}
	p.normalize()
	settings, err := loadSettings(h.db)
	if err != nil {
		return dbError(c, err)
	}
	if errs := validateUser(&p, true, settings.PasswordMinLength); errs != nil {
		return validationError(c, errs)
	}
	hash, err := hashPassword(p.Password)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "HASH_FAILED")
	}
	u := models.User{
		Username:    p.Username,
		Password:    hash,
		Role:        models.Role(p.Role),
		Name:        p.Name,
		Email:       p.Email,
		Phone:       p.Phone,
		IsActive:    p.IsActive == nil || *p.IsActive,
		Permissions: datatypes.JSONSlice[string](p.Permissions),
	}
	if err := h.db.Create(&u).Error; err != nil {
		return dbError(c, err)
	}
	return c.JSON(http.StatusCreated, u)
}

// PUT /admin/users/:id: password is changed only when sent.
func (h *UserHandler) Update(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return errJSON(c, http.StatusBadRequest, "INVALID_ID")
	}
	var u models.User
	if err := h.db.First(&u, id).Error; err != nil {
		return dbError(c, err)
	}
	var p userPayload
	if err := c.Bind(&p); err != nil {
		return errJSON(c, http.StatusBadRequest, "INVALID_PAYLOAD")
	}
	p.normalize()
	settings, err := loadSettings(h.db)
	if err != nil {
		return dbError(c, err)
	}
	if errs := validateUser(&p, false, settings.PasswordMinLength); errs != nil {
		return validationError(c, errs)
	}
	if u.ID == middlewares.CurrentUserID(c) && models.Role(p.Role) != u.Role {
		return errJSON(c, http.StatusConflict, "CANNOT_CHANGE_OWN_ROLE")
	}

	u.Username = p.Username
	u.Role = models.Role(p.Role)
	u.Name = p.Name
	u.Email = p.Email
	u.Phone = p.Phone
	if p.IsActive != nil {
		u.IsActive = *p.IsActive
	}
	if p.Permissions != nil {
		u.Permissions = datatypes.JSONSlice[string](p.Permissions)
	}
	if p.Password != "" {
		hash, err := hashPassword(p.Password)
		if err != nil {
			return errJSON(c, http.StatusInternalServerError, "HASH_FAILED")
		}
		u.Password = hash
		now := time.Now()
		u.PasswordChangedAt = &now
	}
	if err := h.db.Save(&u).Error; err != nil {
		return dbError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

// PATCH /admin/users/:id/active
func (h *UserHandler) SetActive(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return errJSON(c, http.StatusBadRequest, "INVALID_ID")
	}
	var req activeReq
	if err := c.Bind(&req); err != nil || req.IsActive == nil {
		return errJSON(c, http.StatusBadRequest, "INVALID_PAYLOAD")
	}
	if id == middlewares.CurrentUserID(c) && !*req.IsActive {
		return errJSON(c, http.StatusConflict, "CANNOT_DEACTIVATE_SELF")
	}
	var u models.User
	if err := h.db.First(&u, id).Error; err != nil {
		return dbError(c, err)
	}
	u.IsActive = *req.IsActive
	if err := h.db.Model(&u).Update("is_active", u.IsActive).Error; err != nil {
		return dbError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

// POST /admin/users/:id/reset-password → { one_time_password }
// Also clears any running lockout.
func (h *UserHandler) ResetPassword(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return errJSON(c, http.StatusBadRequest, "INVALID_ID")
	}
	var u models.User
	if err := h.db.First(&u, id).Error; err != nil {
		return dbError(c, err)
	}
	settings, err := loadSettings(h.db)
	if err != nil {
		return dbError(c, err)
	}
	n := settings.PasswordMinLength
	if n < 12 {
		n = 12
	}
	pw, err := randomPassword(n)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "RANDOM_FAILED")
	}
	hash, err := hashPassword(pw)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "HASH_FAILED")
	}
	if err := h.db.Model(&u).Updates(map[string]any{
		"password":            hash,
		"password_changed_at": time.Now(),
		"failed_attempts":     0,
		"locked_until":        nil,
	}).Error; err != nil {
		return dbError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"id": u.ID, "one_time_password": pw})
}

// DELETE /admin/users/:id
func (h *UserHandler) Delete(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return errJSON(c, http.StatusBadRequest, "INVALID_ID")
	}
	if id == middlewares.CurrentUserID(c) {
		return errJSON(c, http.StatusConflict, "CANNOT_DELETE_SELF")
	}
	res := h.db.Delete(&models.User{}, id)
	if res.Error != nil {
		return dbError(c, res.Error)
	}
	if res.RowsAffected == 0 {
		return errJSON(c, http.StatusNotFound, "NOT_FOUND")
	}
	return c.NoContent(http.StatusNoContent)
}
