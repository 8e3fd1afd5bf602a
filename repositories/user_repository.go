package repositories

import (
	"context"
	"errors"

	"pcard.link/configs/configsdatabase"
	"pcard.link/configs/configslog"
	"pcard.link/models"
	"pcard.link/pkg/queryparams"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IUserRepository kullanıcı veritabanı işlemleri için arayüz.
type IUserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindAllPaginated(params queryparams.ListParams) ([]models.User, int64, error)
	CountUsers(query, role, status string) (int64, error)
	AdminCount() (int64, error)
	UpdateRole(ctx context.Context, id uint, role string) error
	UpdateStatus(ctx context.Context, id uint, status string) error
	UpdateNickname(ctx context.Context, id uint, nickname string) error
	UpdatePasswordHash(ctx context.Context, id uint, hash string) error
	Delete(ctx context.Context, id uint) error
}

// UserRepository IUserRepository arayüzünü uygular.
type UserRepository struct {
	base *BaseRepository[models.User]
	db   *gorm.DB
}

// NewUserRepository varsayılan bağlantıyla repository oluşturur.
func NewUserRepository() IUserRepository {
	return NewUserRepositoryTx(configsdatabase.GetDB())
}

// NewUserRepositoryTx verilen transaction/bağlantı ile repository oluşturur.
// Admin sayısı kontrolü gibi check-then-act akışları transaction içinde
// bu kurucuyla çalışır.
func NewUserRepositoryTx(db *gorm.DB) IUserRepository {
	base := NewBaseRepository[models.User](db)
	base.SetAllowedSortColumns([]string{"id", "created_at", "username", "nickname", "role", "status"})
	return &UserRepository{base: base, db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.base.Create(ctx, user)
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	return r.base.FindByID(ctx, id)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		configslog.Log.Error("UserRepository.FindByUsername: DB hatası", zap.String("username", username), zap.Error(err))
		return nil, err
	}
	return &user, nil
}

// FindAllPaginated filtreli ve sayfalı kullanıcı listesi (admin görünümü).
func (r *UserRepository) FindAllPaginated(params queryparams.ListParams) ([]models.User, int64, error) {
	var users []models.User
	var totalCount int64

	query := r.db.Model(&models.User{})
	query = applyUserFilters(query, params.Query, params.Role, params.Status)

	if err := query.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}
	if totalCount == 0 {
		return users, 0, nil
	}

	err := query.
		Order(r.base.OrderClause(params, "created_at")).
		Limit(params.PerPage).
		Offset(params.CalculateOffset()).
		Find(&users).Error
	return users, totalCount, err
}

func (r *UserRepository) CountUsers(query, role, status string) (int64, error) {
	var count int64
	q := applyUserFilters(r.db.Model(&models.User{}), query, role, status)
	err := q.Count(&count).Error
	return count, err
}

// AdminCount aktif rolü admin olan kullanıcı sayısı. Son-yönetici
// invariantı için transaction içindeki repo üzerinden çağrılmalıdır.
func (r *UserRepository) AdminCount() (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("role = ?", models.RoleAdmin).Count(&count).Error
	return count, err
}

func (r *UserRepository) UpdateRole(ctx context.Context, id uint, role string) error {
	return r.base.Update(ctx, id, map[string]interface{}{"role": role})
}

func (r *UserRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	return r.base.Update(ctx, id, map[string]interface{}{"status": status})
}

func (r *UserRepository) UpdateNickname(ctx context.Context, id uint, nickname string) error {
	return r.base.Update(ctx, id, map[string]interface{}{"nickname": nickname})
}

func (r *UserRepository) UpdatePasswordHash(ctx context.Context, id uint, hash string) error {
	return r.base.Update(ctx, id, map[string]interface{}{"password_hash": hash})
}

func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	return r.base.Delete(ctx, id)
}

func applyUserFilters(q *gorm.DB, query, role, status string) *gorm.DB {
	if query != "" {
		like := "%" + query + "%"
		q = q.Where("username ILIKE ? OR nickname ILIKE ?", like, like)
	}
	if role != "" && role != "all" {
		q = q.Where("role = ?", role)
	}
	if status != "" && status != "all" {
		q = q.Where("status = ?", status)
	}
	return q
}

var _ IUserRepository = (*UserRepository)(nil)
