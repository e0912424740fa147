// create-admin seeds the first console account.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/TELY01-DEV/evep-admin/config"
	"github.com/TELY01-DEV/evep-admin/database"
	"github.com/TELY01-DEV/evep-admin/logger"
	"github.com/TELY01-DEV/evep-admin/models"
)

func main() {
	username := flag.String("username", "admin", "login name")
	password := flag.String("password", "", "initial password (required)")
	name := flag.String("name", "System Administrator", "display name")
	flag.Parse()

	cfg := config.Load()
	log, err := logger.New(cfg.IsDev(), cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync() //nolint:errcheck

	if *password == "" {
		log.Fatal("-password is required")
	}

	db, err := database.Connect(cfg, log)
	if err != nil {
		log.Fatal("database", zap.Error(err))
	}

	// ตรวจว่ามีผู้ใช้งานชื่อเดียวกันอยู่หรือไม่
	var existing models.User
	err = db.Where("username = ?", *username).First(&existing).Error
	switch {
	case err == nil:
		fmt.Println("admin user already exists:", *username)
		os.Exit(0)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		log.Fatal("query users", zap.Error(err))
	}

	var settings models.SecuritySettings
	if err := db.First(&settings).Error; err != nil {
		settings = models.DefaultSecuritySettings()
	}
	if len(*password) < settings.PasswordMinLength {
		log.Fatal("password too short", zap.Int("min", settings.PasswordMinLength))
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("hash password", zap.Error(err))
	}

	u := models.User{
		Username: *username,
		Password: string(hashed),
		Role:     models.RoleAdmin,
		Name:     *name,
		IsActive: true,
	}
	if err := db.Create(&u).Error; err != nil {
		log.Fatal("insert admin", zap.Error(err))
	}
	log.Info("admin user created", zap.String("username", u.Username), zap.Uint("id", u.ID))
}
