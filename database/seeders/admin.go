package seeders

import (
	"errors"
	"os"

	"pcard.link/configs/configslog"
	"pcard.link/models"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedSuperAdmin "admin" kullanıcısını idempotent şekilde oluşturur.
// Parola ADMIN_PASSWORD ortam değişkeninden okunur; kullanıcı zaten
// varsa hiçbir alan değiştirilmez.
func SeedSuperAdmin(db *gorm.DB) error {
	var existing models.User
	result := db.Where("username = ?", models.SuperAdminUsername).First(&existing)
	if result.Error == nil {
		configslog.SLog.Info("Süper yönetici zaten mevcut, oluşturma atlanıyor.")
		return nil
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		configslog.Log.Error("Süper yönetici kontrol edilirken veritabanı hatası", zap.Error(result.Error))
		return result.Error
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		return errors.New("ADMIN_PASSWORD ortam değişkeni tanımlı değil, süper yönetici oluşturulamaz")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		configslog.Log.Error("Süper yönetici parolası hashlenemedi", zap.Error(err))
		return err
	}

	admin := models.User{
		Username:     models.SuperAdminUsername,
		Nickname:     "Yönetici",
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		Status:       models.StatusActive,
	}
	if err := db.Create(&admin).Error; err != nil {
		configslog.Log.Error("Süper yönetici oluşturulamadı", zap.Error(err))
		return err
	}

	configslog.SLog.Infof("Süper yönetici oluşturuldu (ID: %d).", admin.ID)
	return nil
}
