package services

import (
	"context"
	"errors"
	"fmt"

	"pcard.link/configs/configsdatabase"
	"pcard.link/configs/configslog"
	"pcard.link/models"
	"pcard.link/pkg/adminguard"
	"pcard.link/pkg/queryparams"
	"pcard.link/repositories"
	"pcard.link/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserServiceError özel servis hataları
type UserServiceError string

func (e UserServiceError) Error() string { return string(e) }

const (
	ErrUserNotFound     UserServiceError = "kullanıcı bulunamadı"
	ErrUserUpdateFailed UserServiceError = "kullanıcı güncellenemedi"
	ErrUserDeleteFailed UserServiceError = "kullanıcı silinemedi"
	ErrUserForbidden    UserServiceError = "bu işlem için yetkiniz yok"
	ErrUsrInvalidInput  UserServiceError = "geçersiz girdi verisi"
	ErrSelfStatusChange UserServiceError = "kendi hesabınızın durumunu değiştiremezsiniz"
	ErrSelfDeletion     UserServiceError = "kendi hesabınızı buradan silemezsiniz"
	ErrSuperAdminTarget UserServiceError = "süper yönetici hesabı üzerinde bu işlem yapılamaz"
)

// IUserService kullanıcı yönetimi işlemleri için arayüz.
type IUserService interface {
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	GetUsersPaginated(ctx context.Context, params queryparams.ListParams) (*queryparams.PaginatedResult, error)
	UpdateUserRole(ctx context.Context, actorID, targetID uint, newRole string) error
	UpdateUserStatus(ctx context.Context, actorID, targetID uint, newStatus string) error
	UpdateNickname(ctx context.Context, actorID, targetID uint, nickname string) error
	DeleteUser(ctx context.Context, actorID, targetID uint) error
	BanUsersBatch(ctx context.Context, actorID uint, targetIDs []uint) (int64, error)
	DeleteUsersBatch(ctx context.Context, actorID uint, targetIDs []uint) (int64, error)
}

// UserService IUserService arayüzünü uygular.
type UserService struct {
	repo repositories.IUserRepository
	db   *gorm.DB
}

// NewUserService yeni bir UserService örneği oluşturur.
func NewUserService() IUserService {
	return &UserService{
		repo: repositories.NewUserRepository(),
		db:   configsdatabase.GetDB(),
	}
}

func (s *UserService) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// GetUsersPaginated yönetim paneli kullanıcı listesi.
func (s *UserService) GetUsersPaginated(ctx context.Context, params queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	params.Validate()
	users, totalCount, err := s.repo.FindAllPaginated(params)
	if err != nil {
		configslog.Log.Error("Kullanıcı listesi alınamadı", zap.Error(err))
		return nil, err
	}
	return &queryparams.PaginatedResult{
		Data: users,
		Meta: queryparams.PaginationMeta{
			CurrentPage: params.Page, PerPage: params.PerPage,
			TotalItems: totalCount, TotalPages: queryparams.CalculateTotalPages(totalCount, params.PerPage),
		},
	}, nil
}

// lockUser hedef kullanıcıyı transaction içinde kilitli olarak getirir.
func lockUser(tx *gorm.DB, id uint) (*models.User, error) {
	var user models.User
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// adminCountLocked yönetici satırlarını kilitleyerek sayar ki "son
// yönetici" kontrolü ile güncelleme arasında yarış oluşmasın. COUNT ile
// FOR UPDATE birlikte kullanılamadığından ID listesi çekilir.
func adminCountLocked(tx *gorm.DB) (int64, error) {
	var ids []uint
	err := tx.Model(&models.User{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("role = ?", models.RoleAdmin).
		Pluck("id", &ids).Error
	return int64(len(ids)), err
}

// UpdateUserRole rol değişikliğini yetki kurallarıyla birlikte TEK BİR
// TRANSACTION içinde uygular. Yönetici sayımı ve güncelleme aynı
// transaction'da yapılır; eşzamanlı iki düşürme isteği son yöneticiyi
// silemez.
func (s *UserService) UpdateUserRole(ctx context.Context, actorID, targetID uint, newRole string) error {
	if actorID == 0 || targetID == 0 {
		return ErrUsrInvalidInput
	}

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		txCtx := contextWithUserID(ctx, actorID)
		userRepoTx := repositories.NewUserRepositoryTx(tx)

		actor, err := userRepoTx.FindByID(txCtx, actorID)
		if err != nil {
			return ErrUserForbidden
		}
		target, err := lockUser(tx, targetID)
		if err != nil {
			return err
		}
		adminCount, err := adminCountLocked(tx)
		if err != nil {
			configslog.Log.Error("Yönetici sayısı okunamadı", zap.Error(err))
			return ErrUserUpdateFailed
		}

		if err := adminguard.CheckRoleChange(actor, target, newRole, adminCount); err != nil {
			configslog.Log.Warn("Rol değişikliği reddedildi",
				zap.Uint("actorID", actorID), zap.Uint("targetID", targetID),
				zap.String("newRole", newRole), zap.Error(err))
			return err
		}
		if target.Role == newRole {
			return nil
		}

		if err := userRepoTx.UpdateRole(txCtx, targetID, newRole); err != nil {
			configslog.Log.Error("Rol güncellenemedi", zap.Uint("targetID", targetID), zap.Error(err))
			return ErrUserUpdateFailed
		}
		return nil
	})

	if txErr != nil {
		return txErr
	}
	configslog.SLog.Infof("Kullanıcı rolü güncellendi: UserID %d -> %s (işlemi yapan %d)", targetID, newRole, actorID)
	return nil
}

// UpdateUserStatus kullanıcıyı banlar veya banını kaldırır.
func (s *UserService) UpdateUserStatus(ctx context.Context, actorID, targetID uint, newStatus string) error {
	if actorID == 0 || targetID == 0 {
		return ErrUsrInvalidInput
	}
	if newStatus != models.StatusActive && newStatus != models.StatusBanned {
		return fmt.Errorf("%w: bilinmeyen durum değeri", ErrUsrInvalidInput)
	}
	if actorID == targetID {
		return ErrSelfStatusChange
	}

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		txCtx := contextWithUserID(ctx, actorID)
		userRepoTx := repositories.NewUserRepositoryTx(tx)

		target, err := lockUser(tx, targetID)
		if err != nil {
			return err
		}
		// Süper yönetici ve diğer yöneticiler banlanamaz.
		if newStatus == models.StatusBanned && target.IsAdmin() {
			return ErrSuperAdminTarget
		}
		if target.Status == newStatus {
			return nil
		}

		if err := userRepoTx.UpdateStatus(txCtx, targetID, newStatus); err != nil {
			configslog.Log.Error("Durum güncellenemedi", zap.Uint("targetID", targetID), zap.Error(err))
			return ErrUserUpdateFailed
		}
		return nil
	})

	if txErr != nil {
		return txErr
	}
	configslog.SLog.Infof("Kullanıcı durumu güncellendi: UserID %d -> %s", targetID, newStatus)
	return nil
}

// UpdateNickname takma adı günceller; yönetici herkesinkini, kullanıcı
// yalnızca kendisininkini değiştirebilir.
func (s *UserService) UpdateNickname(ctx context.Context, actorID, targetID uint, nickname string) error {
	if actorID == 0 || targetID == 0 {
		return ErrUsrInvalidInput
	}
	if msg := utils.ValidateNickname(nickname); msg != "" {
		return UserServiceError(msg)
	}

	actor, err := s.repo.FindByID(ctx, actorID)
	if err != nil {
		return ErrUserForbidden
	}
	if !actor.IsAdmin() && actorID != targetID {
		return ErrUserForbidden
	}

	if err := s.repo.UpdateNickname(contextWithUserID(ctx, actorID), targetID, utils.SanitizeText(nickname)); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrUserNotFound
		}
		configslog.Log.Error("Takma ad güncellenemedi", zap.Uint("targetID", targetID), zap.Error(err))
		return ErrUserUpdateFailed
	}
	return nil
}

// DeleteUser kullanıcıyı, kartlarını ve yorumlarını transaction içinde siler.
func (s *UserService) DeleteUser(ctx context.Context, actorID, targetID uint) error {
	if actorID == 0 || targetID == 0 {
		return ErrUsrInvalidInput
	}
	if actorID == targetID {
		return ErrSelfDeletion
	}

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		txCtx := contextWithUserID(ctx, actorID)
		userRepoTx := repositories.NewUserRepositoryTx(tx)
		cardRepoTx := repositories.NewCardRepositoryTx(tx)

		target, err := lockUser(tx, targetID)
		if err != nil {
			return err
		}
		adminCount, err := adminCountLocked(tx)
		if err != nil {
			return ErrUserDeleteFailed
		}
		if err := adminguard.CheckDelete(target, adminCount); err != nil {
			return err
		}
		if target.IsSuperAdmin() {
			return ErrSuperAdminTarget
		}

		// Kullanıcının kartlarına bağlı yorumları ve kartlarını temizle.
		var cards []models.Card
		if err := tx.Where("user_id = ?", targetID).Find(&cards).Error; err != nil {
			return ErrUserDeleteFailed
		}
		commentRepoTx := repositories.NewCommentRepositoryTx(tx)
		for _, card := range cards {
			if err := commentRepoTx.DeleteAllByCardID(txCtx, card.ID); err != nil {
				return ErrUserDeleteFailed
			}
		}
		if err := cardRepoTx.DeleteAllByUserID(txCtx, targetID); err != nil {
			return ErrUserDeleteFailed
		}
		if err := userRepoTx.Delete(txCtx, targetID); err != nil {
			configslog.Log.Error("Kullanıcı silinemedi", zap.Uint("targetID", targetID), zap.Error(err))
			return ErrUserDeleteFailed
		}
		return nil
	})

	if txErr != nil {
		return txErr
	}
	configslog.SLog.Infof("Kullanıcı silindi: UserID %d (işlemi yapan %d)", targetID, actorID)
	return nil
}

// BanUsersBatch seçilen kullanıcıları toplu banlar. Yöneticiler ve işlemi
// yapanın kendisi sessizce atlanır; banlanan kayıt sayısı döner.
func (s *UserService) BanUsersBatch(ctx context.Context, actorID uint, targetIDs []uint) (int64, error) {
	if actorID == 0 {
		return 0, ErrUsrInvalidInput
	}
	if len(targetIDs) == 0 {
		return 0, nil
	}

	result := s.db.WithContext(contextWithUserID(ctx, actorID)).
		Model(&models.User{}).
		Where("id IN ? AND id <> ? AND role <> ?", targetIDs, actorID, models.RoleAdmin).
		Update("status", models.StatusBanned)
	if result.Error != nil {
		configslog.Log.Error("Toplu ban başarısız", zap.Error(result.Error))
		return 0, ErrUserUpdateFailed
	}
	configslog.SLog.Infof("Toplu ban: %d kullanıcı", result.RowsAffected)
	return result.RowsAffected, nil
}

// DeleteUsersBatch seçilen kullanıcıları toplu siler. Yöneticiler ve işlemi
// yapanın kendisi atlanır; kartlar ve yorumlar birlikte temizlenir.
func (s *UserService) DeleteUsersBatch(ctx context.Context, actorID uint, targetIDs []uint) (int64, error) {
	if actorID == 0 {
		return 0, ErrUsrInvalidInput
	}
	if len(targetIDs) == 0 {
		return 0, nil
	}

	var deleted int64
	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		txCtx := contextWithUserID(ctx, actorID)
		cardRepoTx := repositories.NewCardRepositoryTx(tx)
		commentRepoTx := repositories.NewCommentRepositoryTx(tx)

		var targets []models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id IN ? AND id <> ? AND role <> ?", targetIDs, actorID, models.RoleAdmin).
			Find(&targets).Error; err != nil {
			return ErrUserDeleteFailed
		}

		for _, target := range targets {
			var cards []models.Card
			if err := tx.Where("user_id = ?", target.ID).Find(&cards).Error; err != nil {
				return ErrUserDeleteFailed
			}
			for _, card := range cards {
				if err := commentRepoTx.DeleteAllByCardID(txCtx, card.ID); err != nil {
					return ErrUserDeleteFailed
				}
			}
			if err := cardRepoTx.DeleteAllByUserID(txCtx, target.ID); err != nil {
				return ErrUserDeleteFailed
			}
			if err := tx.Delete(&models.User{}, target.ID).Error; err != nil {
				return ErrUserDeleteFailed
			}
			deleted++
		}
		return nil
	})

	if txErr != nil {
		return 0, txErr
	}
	configslog.SLog.Infof("Toplu silme: %d kullanıcı", deleted)
	return deleted, nil
}

var _ IUserService = (*UserService)(nil)
