package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/TELY01-DEV/evep-admin/database"
	"github.com/TELY01-DEV/evep-admin/listing"
	"github.com/TELY01-DEV/evep-admin/middlewares"
)

// แปลง string -> int; ถ้าแปลงไม่ได้ให้คืนค่าเริ่มต้น
func atoiOr(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

/* ====================== Errors ====================== */

func errJSON(c echo.Context, status int, code string) error {
	return c.JSON(status, map[string]string{"error": code})
}

func validationError(c echo.Context, fields map[string]string) error {
	return c.JSON(http.StatusBadRequest, map[string]any{"error": "VALIDATION_ERROR", "fields": fields})
}

// dbError maps a gorm/driver error onto the wire codes the console expects.
func dbError(c echo.Context, err error) error {
	switch err = database.Classify(err); {
	case errors.Is(err, database.ErrNotFound):
		return errJSON(c, http.StatusNotFound, "NOT_FOUND")
	case errors.Is(err, database.ErrDuplicate):
		return errJSON(c, http.StatusConflict, "DUPLICATE")
	case errors.Is(err, database.ErrInvalidReference):
		return errJSON(c, http.StatusBadRequest, "INVALID_REFERENCE")
	default:
		middlewares.Logger(c).Error("database error",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return errJSON(c, http.StatusInternalServerError, "DB_ERROR")
	}
}

func parseID(c echo.Context) (uint, bool) {
	n, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}

/* ====================== Listing ====================== */

// filterCol binds a query parameter to a column. Numeric filters are parsed
// before they reach the database.
type filterCol struct {
	Param   string
	Column  string
	Numeric bool
}

// listQuery is everything a list endpoint varies on.
type listQuery struct {
	Plural  string
	Search  []string
	Filters []filterCol
	Order   string
	// Scope narrows the base query, e.g. to one screening kind.
	Scope func(*gorm.DB) *gorm.DB
}

// listModels serves GET list endpoints: skip/limit/search plus the declared
// filters, answering { <plural>: [...], total_count: N }.
func listModels[T any](c echo.Context, db *gorm.DB, q listQuery) error {
	keys := make([]string, len(q.Filters))
	for i, f := range q.Filters {
		keys[i] = f.Param
	}
	p := listing.ParseValues(c.QueryParams(), keys...)

	tx := db.WithContext(c.Request().Context()).Model(new(T))
	if q.Scope != nil {
		tx = q.Scope(tx)
	}
	tx = tx.Scopes(searchScope(p.Query, q.Search...))
	for _, f := range q.Filters {
		val, ok := p.Filters[f.Param]
		if !ok {
			continue
		}
		if f.Numeric {
			n, err := strconv.ParseUint(val, 10, 64)
			if err != nil {
				return validationError(c, map[string]string{f.Param: "ต้องเป็นตัวเลข"})
			}
			tx = tx.Where(f.Column+" = ?", n)
			continue
		}
		tx = tx.Where(f.Column+" = ?", val)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return dbError(c, err)
	}
	items := make([]T, 0, p.PageSize)
	order := q.Order
	if order == "" {
		order = "id DESC"
	}
	if err := tx.Order(order).Offset(p.Skip()).Limit(p.PageSize).Find(&items).Error; err != nil {
		return dbError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		q.Plural:      items,
		"total_count": total,
	})
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// searchScope matches q case-insensitively as a substring of any column.
func searchScope(q string, cols ...string) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		q = strings.TrimSpace(q)
		if q == "" || len(cols) == 0 {
			return tx
		}
		like := "%" + likeEscaper.Replace(strings.ToLower(q)) + "%"
		conds := make([]string, len(cols))
		args := make([]any, len(cols))
		for i, col := range cols {
			conds[i] = "LOWER(" + col + `) LIKE ? ESCAPE '\'`
			args[i] = like
		}
		return tx.Where("("+strings.Join(conds, " OR ")+")", args...)
	}
}
