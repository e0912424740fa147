package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// Health ใช้สำหรับ /health; ตอบ 503 ถ้า ping ฐานข้อมูลไม่ผ่าน
func Health(db *gorm.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request().Context())
		}
		if err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"status":   "degraded",
				"database": "down",
			})
		}
		return c.JSON(http.StatusOK, map[string]string{
			"status":   "ok",
			"database": "up",
		})
	}
}
