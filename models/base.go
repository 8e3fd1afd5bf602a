package models

import (
	"gorm.io/gorm"
	"time"
)

// ContextUserIDKey audit alanları için context'e konulan kullanıcı ID anahtarı.
type contextKey string

const ContextUserIDKey contextKey = "user_id"

// BaseModel tüm tablolarda ortak olan kimlik ve denetim alanları.
type BaseModel struct {
	ID        uint      `gorm:"primarykey"`
	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
	CreatedBy uint           `gorm:"index"`
	UpdatedBy uint
}

// BeforeCreate context'teki kullanıcı ID'sini CreatedBy alanına yazar.
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if userID, ok := tx.Statement.Context.Value(ContextUserIDKey).(uint); ok && userID != 0 {
		b.CreatedBy = userID
		b.UpdatedBy = userID
	}
	return nil
}

// BeforeUpdate context'teki kullanıcı ID'sini UpdatedBy alanına yazar.
func (b *BaseModel) BeforeUpdate(tx *gorm.DB) error {
	if userID, ok := tx.Statement.Context.Value(ContextUserIDKey).(uint); ok && userID != 0 {
		b.UpdatedBy = userID
	}
	return nil
}
