package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/TELY01-DEV/evep-admin/config"
	"github.com/TELY01-DEV/evep-admin/models"
)

// Connect opens the configured database and migrates it.
func Connect(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN())
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN())
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	gcfg := &gorm.Config{TranslateError: true}
	if !cfg.IsDev() {
		gcfg.Logger = gormlogger.Default.LogMode(gormlogger.Warn)
	}
	db, err := gorm.Open(dialector, gcfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	log.Info("database connected", zap.String("driver", cfg.DBDriver))

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates every table and makes sure the security
// settings row exists.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Province{},
		&models.District{},
		&models.Subdistrict{},
		&models.HospitalType{},
		&models.Hospital{},
		&models.School{},
		&models.Student{},
		&models.Teacher{},
		&models.Patient{},
		&models.ScreeningSession{},
		&models.User{},
		&models.SecuritySettings{},
	); err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}

	var n int64
	if err := db.Model(&models.SecuritySettings{}).Count(&n).Error; err != nil {
		return fmt.Errorf("count security settings: %w", err)
	}
	if n == 0 {
		s := models.DefaultSecuritySettings()
		if err := db.Create(&s).Error; err != nil {
			return fmt.Errorf("seed security settings: %w", err)
		}
	}
	return nil
}
