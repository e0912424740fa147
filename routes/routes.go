package routes

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/TELY01-DEV/evep-admin/handlers"
	"github.com/TELY01-DEV/evep-admin/middlewares"
	"github.com/TELY01-DEV/evep-admin/models"
)

func roles(rs ...models.Role) echo.MiddlewareFunc {
	names := make([]string, len(rs))
	for i, r := range rs {
		names[i] = string(r)
	}
	return middlewares.RequireRole(names...)
}

// Register wires all HTTP routes.
func Register(e *echo.Echo, db *gorm.DB, jwtSecret string) {
	// ===== Handlers (shared singletons) =====
	auth := handlers.NewAuthHandler(db, jwtSecret)
	users := handlers.NewUserHandler(db)
	sec := handlers.NewSecurityHandler(db)
	md := handlers.NewMasterDataHandler(db)
	hosp := handlers.NewHospitalHandler(db)
	school := handlers.NewSchoolHandler(db)
	std := handlers.NewStudentHandler(db)
	tch := handlers.NewTeacherHandler(db)
	pat := handlers.NewPatientHandler(db)
	scr := handlers.NewScreeningHandler(db)
	sscr := handlers.NewSchoolScreeningHandler(db)
	dash := handlers.NewDashboardHandler(db)

	admin := roles(models.RoleAdmin)
	clinical := roles(models.RoleAdmin, models.RoleDoctor, models.RoleNurse)

	// ===== Public =====
	e.GET("/health", handlers.Health(db))
	e.POST("/auth/login", auth.Login)

	// ===== Protected =====
	api := e.Group("", middlewares.RequireAuth(jwtSecret, auth.CheckSession))

	api.GET("/auth/me", auth.Me)
	api.PUT("/auth/password", auth.ChangePassword)
	api.GET("/dashboard/summary", dash.Summary)

	// ผู้ใช้และการตั้งค่าความปลอดภัย (admin เท่านั้น)
	ad := api.Group("/admin", admin)
	ad.GET("/users", users.List)
	ad.GET("/users/:id", users.Get)
	ad.POST("/users", users.Create)
	ad.PUT("/users/:id", users.Update)
	ad.PATCH("/users/:id/active", users.SetActive)
	ad.POST("/users/:id/reset-password", users.ResetPassword)
	ad.DELETE("/users/:id", users.Delete)
	ad.GET("/security-settings", sec.Get)
	ad.PUT("/security-settings", sec.Update)

	// master data: ทุกคนอ่านได้ แก้ได้เฉพาะ admin
	m := api.Group("/master-data")
	m.GET("/provinces", md.ListProvinces)
	m.GET("/provinces/:id", md.GetProvince)
	m.POST("/provinces", md.CreateProvince, admin)
	m.PUT("/provinces/:id", md.UpdateProvince, admin)
	m.DELETE("/provinces/:id", md.DeleteProvince, admin)
	m.GET("/districts", md.ListDistricts)
	m.GET("/districts/:id", md.GetDistrict)
	m.POST("/districts", md.CreateDistrict, admin)
	m.PUT("/districts/:id", md.UpdateDistrict, admin)
	m.DELETE("/districts/:id", md.DeleteDistrict, admin)
	m.GET("/subdistricts", md.ListSubdistricts)
	m.GET("/subdistricts/:id", md.GetSubdistrict)
	m.POST("/subdistricts", md.CreateSubdistrict, admin)
	m.PUT("/subdistricts/:id", md.UpdateSubdistrict, admin)
	m.DELETE("/subdistricts/:id", md.DeleteSubdistrict, admin)
	m.GET("/hospital-types", md.ListHospitalTypes)
	m.POST("/hospital-types", md.CreateHospitalType, admin)
	m.PUT("/hospital-types/:id", md.UpdateHospitalType, admin)
	m.DELETE("/hospital-types/:id", md.DeleteHospitalType, admin)

	api.GET("/hospitals", hosp.List)
	api.GET("/hospitals/:id", hosp.Get)
	api.POST("/hospitals", hosp.Create, admin)
	api.PUT("/hospitals/:id", hosp.Update, admin)
	api.DELETE("/hospitals/:id", hosp.Delete, admin)

	api.GET("/schools", school.List)
	api.GET("/schools/:id", school.Get)
	api.GET("/schools/:id/summary", school.Summary)
	api.POST("/schools", school.Create, admin)
	api.PUT("/schools/:id", school.Update, admin)
	api.DELETE("/schools/:id", school.Delete, admin)

	api.GET("/students", std.List)
	api.GET("/students/:id", std.Get)
	api.POST("/students", std.Create, roles(models.RoleAdmin, models.RoleTeacher))
	api.POST("/students/import", std.Import, roles(models.RoleAdmin, models.RoleTeacher))
	api.POST("/students/move", std.Move, roles(models.RoleAdmin, models.RoleTeacher))
	api.PUT("/students/:id", std.Update, roles(models.RoleAdmin, models.RoleTeacher))
	api.DELETE("/students/:id", std.Delete, roles(models.RoleAdmin, models.RoleTeacher))

	api.GET("/teachers", tch.List)
	api.GET("/teachers/:id", tch.Get)
	api.POST("/teachers", tch.Create, admin)
	api.PUT("/teachers/:id", tch.Update, admin)
	api.DELETE("/teachers/:id", tch.Delete, admin)

	// ข้อมูลผู้ป่วยและผลคัดกรอง (บุคลากรทางการแพทย์)
	p := api.Group("/patients", clinical)
	p.GET("", pat.List)
	p.GET("/:id", pat.Get)
	p.POST("", pat.Create)
	p.PUT("/:id", pat.Update)
	p.DELETE("/:id", pat.Delete) // ?force=true ตรวจ admin ใน handler

	s := api.Group("/screenings", clinical)
	s.GET("", scr.List)
	s.GET("/:id", scr.Get)
	s.POST("", scr.Create)
	s.PUT("/:id", scr.Update)
	s.PATCH("/:id/status", scr.UpdateStatus)
	s.DELETE("/:id", scr.Delete)

	ss := api.Group("/school-screenings", roles(models.RoleAdmin, models.RoleDoctor, models.RoleNurse, models.RoleTeacher))
	ss.GET("", sscr.List)
	ss.GET("/:id", sscr.Get)
	ss.POST("", sscr.Create)
	ss.PUT("/:id", sscr.Update)
	ss.PATCH("/:id/status", sscr.UpdateStatus)
	ss.DELETE("/:id", sscr.Delete, clinical)
}
