package models

import "strings"

// Rol ve durum sabitleri.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	StatusActive = "active"
	StatusBanned = "banned"
)

// SuperAdminUsername ayrıcalıklı kök yöneticinin sabit kullanıcı adı.
// Yalnızca bu hesap başka kullanıcılara admin yetkisi verebilir.
const SuperAdminUsername = "admin"

// User kayıtlı bir kullanıcı hesabıdır. Session'daki kopyası anlık bir
// görüntüdür ve her istekte AuthRefresh middleware'i tarafından tazelenir.
type User struct {
	BaseModel
	Username     string `gorm:"type:varchar(30);uniqueIndex;not null"`
	Nickname     string `gorm:"type:varchar(50);not null"`
	PasswordHash string `gorm:"type:varchar(100);not null"`
	Role         string `gorm:"type:varchar(10);not null;default:'user';index"`
	Status       string `gorm:"type:varchar(10);not null;default:'active';index"`
}

// IsAdmin kullanıcının yönetici olup olmadığını döndürür.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsBanned hesabın engelli olup olmadığını döndürür.
func (u *User) IsBanned() bool {
	return strings.EqualFold(u.Status, StatusBanned)
}

// IsSuperAdmin sabit süper yönetici hesabı mı kontrol eder.
func (u *User) IsSuperAdmin() bool {
	return strings.EqualFold(u.Username, SuperAdminUsername)
}
