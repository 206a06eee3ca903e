// Command seed creates the initial admin account if it does not exist yet.
package main

import (
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/athmaw/ttis-tracker/internal/model"
	"github.com/athmaw/ttis-tracker/pkg/config"
	"github.com/athmaw/ttis-tracker/pkg/database"
	"github.com/athmaw/ttis-tracker/pkg/logger"
)

func main() {
	cfg, err := config.Load("ttis-tracker")
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	if err := logger.InitLogger(cfg); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	if _, err := database.InitDB(&cfg.DB); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	if err := database.MigrateModels(&model.User{}, &model.Item{}, &model.Sale{}); err != nil {
		log.Fatal("Failed to migrate models", zap.Error(err))
	}

	var existing model.User
	err = database.GetDB().Where("email = ?", cfg.Seed.AdminEmail).First(&existing).Error
	if err == nil {
		log.Info("Admin already exists", zap.String("email", existing.Email))
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatal("Failed to look up admin account", zap.Error(err))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Seed.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash admin password", zap.Error(err))
	}

	admin := model.User{
		Name:         cfg.Seed.AdminName,
		Email:        cfg.Seed.AdminEmail,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
	}
	if err := database.GetDB().Create(&admin).Error; err != nil {
		log.Fatal("Failed to create admin account", zap.Error(err))
	}

	log.Info("Created admin account - change the default password",
		zap.String("email", admin.Email))
}
