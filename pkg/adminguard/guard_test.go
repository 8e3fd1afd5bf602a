package adminguard

import (
	"errors"
	"testing"

	"pcard.link/models"
)

func user(id uint, username, role string) *models.User {
	u := &models.User{Username: username, Role: role}
	u.ID = id
	return u
}

func TestSuperAdminCannotChangeOwnRole(t *testing.T) {
	super := user(1, models.SuperAdminUsername, models.RoleAdmin)

	err := CheckRoleChange(super, super, models.RoleUser, 5)
	if !errors.Is(err, ErrSuperAdminSelf) {
		t.Fatalf("beklenen %v, alınan %v", ErrSuperAdminSelf, err)
	}
}

func TestOnlySuperAdminCanPromote(t *testing.T) {
	ordinaryAdmin := user(2, "mod", models.RoleAdmin)
	target := user(3, "uye", models.RoleUser)

	if err := CheckRoleChange(ordinaryAdmin, target, models.RoleAdmin, 2); !errors.Is(err, ErrEscalationDenied) {
		t.Fatalf("normal yönetici yetki yükseltememeli, alınan %v", err)
	}

	super := user(1, models.SuperAdminUsername, models.RoleAdmin)
	if err := CheckRoleChange(super, target, models.RoleAdmin, 2); err != nil {
		t.Fatalf("süper yönetici yükseltebilmeli, alınan %v", err)
	}
}

func TestOnlySuperAdminCanDemoteOthers(t *testing.T) {
	ordinaryAdmin := user(2, "mod", models.RoleAdmin)
	otherAdmin := user(3, "mod2", models.RoleAdmin)

	if err := CheckRoleChange(ordinaryAdmin, otherAdmin, models.RoleUser, 3); !errors.Is(err, ErrDemoteOtherDenied) {
		t.Fatalf("normal yönetici başkasını indirememeli, alınan %v", err)
	}

	super := user(1, models.SuperAdminUsername, models.RoleAdmin)
	if err := CheckRoleChange(super, otherAdmin, models.RoleUser, 3); err != nil {
		t.Fatalf("süper yönetici indirebilmeli, alınan %v", err)
	}
}

func TestSelfDemotionAllowedWhenAnotherAdminRemains(t *testing.T) {
	admin := user(2, "mod", models.RoleAdmin)
	if err := CheckRoleChange(admin, admin, models.RoleUser, 2); err != nil {
		t.Fatalf("iki yönetici varken kendi yetkisini bırakabilmeli, alınan %v", err)
	}
}

func TestLastAdminCannotBeDemoted(t *testing.T) {
	admin := user(2, "mod", models.RoleAdmin)
	if err := CheckRoleChange(admin, admin, models.RoleUser, 1); !errors.Is(err, ErrLastAdminDemotion) {
		t.Fatalf("son yönetici indirilememeli, alınan %v", err)
	}

	// Süper yönetici başka birini indirirken de invariant korunur.
	super := user(1, models.SuperAdminUsername, models.RoleAdmin)
	other := user(3, "mod2", models.RoleAdmin)
	if err := CheckRoleChange(super, other, models.RoleUser, 1); !errors.Is(err, ErrLastAdminDemotion) {
		t.Fatalf("invariant süper yönetici için de geçerli olmalı, alınan %v", err)
	}
}

func TestLastAdminCannotBeDeleted(t *testing.T) {
	lastAdmin := user(2, "mod", models.RoleAdmin)
	if err := CheckDelete(lastAdmin, 1); !errors.Is(err, ErrLastAdminDeletion) {
		t.Fatalf("son yönetici silinememeli, alınan %v", err)
	}
	if err := CheckDelete(lastAdmin, 2); err != nil {
		t.Fatalf("iki yönetici varken silme serbest, alınan %v", err)
	}
}

func TestDeleteOrdinaryUserAlwaysAllowed(t *testing.T) {
	target := user(5, "uye", models.RoleUser)
	if err := CheckDelete(target, 1); err != nil {
		t.Fatalf("normal kullanıcı silinebilmeli, alınan %v", err)
	}
}

func TestInvalidRoleRejected(t *testing.T) {
	super := user(1, models.SuperAdminUsername, models.RoleAdmin)
	target := user(3, "uye", models.RoleUser)
	if err := CheckRoleChange(super, target, "root", 2); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("geçersiz rol reddedilmeli, alınan %v", err)
	}
}
