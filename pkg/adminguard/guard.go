package adminguard

import "pcard.link/models"

// GuardError kullanıcıya gösterilecek yönetim kuralı ihlali.
// İhlaller exception değil, mesaj olarak taşınır; çağıran taraf flash
// mesajı olarak gösterip yönetim görünümüne geri yönlendirir.
type GuardError string

func (e GuardError) Error() string { return string(e) }

const (
	ErrInvalidRole       GuardError = "geçersiz rol değeri"
	ErrSuperAdminSelf    GuardError = "süper yönetici kendi yetkisini değiştiremez"
	ErrEscalationDenied  GuardError = "yalnızca süper yönetici kullanıcılara yönetici yetkisi verebilir"
	ErrDemoteOtherDenied GuardError = "yalnızca süper yönetici başka bir yöneticinin yetkisini alabilir"
	ErrLastAdminDemotion GuardError = "en az bir yönetici kalmalı, son yöneticinin yetkisi alınamaz"
	ErrLastAdminDeletion GuardError = "en az bir yönetici kalmalı, son yönetici silinemez"
)

// CheckRoleChange rol değişikliğinin güvenlik kurallarını sırayla uygular;
// ilk eşleşen kural kazanır. adminCount mevcut yönetici sayısıdır ve
// değişiklikle aynı transaction içinde kilitli okunmalıdır.
func CheckRoleChange(actor, target *models.User, newRole string, adminCount int64) error {
	if newRole != models.RoleAdmin && newRole != models.RoleUser {
		return ErrInvalidRole
	}

	isSelf := actor.ID == target.ID

	// 1. Süper yönetici kendi rolünü değiştiremez.
	if target.IsSuperAdmin() && isSelf {
		return ErrSuperAdminSelf
	}

	if !actor.IsSuperAdmin() {
		// 2. Yetki yükseltme yalnızca süper yöneticiye aittir.
		if !target.IsAdmin() && newRole == models.RoleAdmin {
			return ErrEscalationDenied
		}
		// 3. Başka bir yöneticiyi indirmek yalnızca süper yöneticiye aittir.
		if target.IsAdmin() && newRole == models.RoleUser && !isSelf {
			return ErrDemoteOtherDenied
		}
	}

	// 4. Herhangi bir yönetici→kullanıcı indirmesi sonrasında en az bir
	// yönetici kalmalıdır (kendi kendini indirme dahil).
	if target.IsAdmin() && newRole == models.RoleUser && adminCount <= 1 {
		return ErrLastAdminDemotion
	}

	return nil
}

// CheckDelete bir hesabın silinmesinin yönetici sayısı invariantını
// bozup bozmayacağını kontrol eder.
func CheckDelete(target *models.User, adminCount int64) error {
	// 5. Son kalan yönetici silinemez.
	if target.IsAdmin() && adminCount <= 1 {
		return ErrLastAdminDeletion
	}
	return nil
}
