package repositories

import (
	"context"
	"errors"
	"strings"

	"pcard.link/pkg/queryparams"

	"gorm.io/gorm"
)

// ErrNotFound aranan kayıt bulunamadığında döner; servis katmanı bunu
// kendi hata tipine çevirir.
var ErrNotFound = errors.New("kayıt bulunamadı")

// IBaseRepository tüm modellerin ortak veritabanı işlemleri.
type IBaseRepository[T any] interface {
	Create(ctx context.Context, model *T) error
	FindByID(ctx context.Context, id uint) (*T, error)
	Update(ctx context.Context, id uint, data map[string]interface{}) error
	Save(ctx context.Context, model *T) error
	Delete(ctx context.Context, id uint) error
	GetCount() (int64, error)
	SetAllowedSortColumns(columns []string)
	OrderClause(params queryparams.ListParams, defaultColumn string) string
}

// BaseRepository generik GORM tabanlı repository.
type BaseRepository[T any] struct {
	db             *gorm.DB
	allowedColumns map[string]struct{}
}

// NewBaseRepository verilen bağlantıyla (veya transaction ile) base repo kurar.
func NewBaseRepository[T any](db *gorm.DB) *BaseRepository[T] {
	return &BaseRepository[T]{db: db, allowedColumns: map[string]struct{}{}}
}

func (r *BaseRepository[T]) Create(ctx context.Context, model *T) error {
	return r.db.WithContext(ctx).Create(model).Error
}

func (r *BaseRepository[T]) FindByID(ctx context.Context, id uint) (*T, error) {
	var model T
	err := r.db.WithContext(ctx).First(&model, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &model, nil
}

func (r *BaseRepository[T]) Update(ctx context.Context, id uint, data map[string]interface{}) error {
	var model T
	result := r.db.WithContext(ctx).Model(&model).Where("id = ?", id).Updates(data)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *BaseRepository[T]) Save(ctx context.Context, model *T) error {
	return r.db.WithContext(ctx).Save(model).Error
}

func (r *BaseRepository[T]) Delete(ctx context.Context, id uint) error {
	var model T
	result := r.db.WithContext(ctx).Delete(&model, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *BaseRepository[T]) GetCount() (int64, error) {
	var model T
	var count int64
	err := r.db.Model(&model).Count(&count).Error
	return count, err
}

// SetAllowedSortColumns sıralamaya izin verilen sütunları belirler;
// kullanıcı girdisinden gelen sort_by değerleri bu listeyle süzülür.
func (r *BaseRepository[T]) SetAllowedSortColumns(columns []string) {
	r.allowedColumns = make(map[string]struct{}, len(columns))
	for _, c := range columns {
		r.allowedColumns[c] = struct{}{}
	}
}

// OrderClause güvenli bir ORDER BY ifadesi üretir.
func (r *BaseRepository[T]) OrderClause(params queryparams.ListParams, defaultColumn string) string {
	column := defaultColumn
	if _, ok := r.allowedColumns[params.SortBy]; ok {
		column = params.SortBy
	}
	orderBy := strings.ToLower(params.OrderBy)
	if orderBy != "asc" && orderBy != "desc" {
		orderBy = queryparams.DefaultOrderBy
	}
	return column + " " + orderBy
}

var _ IBaseRepository[struct{}] = (*BaseRepository[struct{}])(nil)
