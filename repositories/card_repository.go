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

// ICardRepository kartvizit veritabanı işlemleri için arayüz.
type ICardRepository interface {
	Create(ctx context.Context, card *models.Card) error
	Save(ctx context.Context, card *models.Card) error
	FindByID(ctx context.Context, id uint) (*models.Card, error)
	FindByLinkID(ctx context.Context, linkID string) (*models.Card, error)
	FindByShortCode(ctx context.Context, code string) (*models.Card, error)
	FindPublicPaginated(params queryparams.ListParams) ([]models.Card, int64, error)
	FindAllByUserID(ctx context.Context, userID uint) ([]models.Card, error)
	FindAllPaginated(params queryparams.ListParams) ([]models.Card, int64, error)
	CountCards(query, visibility string) (int64, error)
	ShortCodeExists(ctx context.Context, code string) (bool, error)
	Delete(ctx context.Context, id uint) error
	DeleteAllByUserID(ctx context.Context, userID uint) error
}

// CardRepository ICardRepository arayüzünü uygular.
type CardRepository struct {
	base *BaseRepository[models.Card]
	db   *gorm.DB
}

// NewCardRepository varsayılan bağlantıyla repository oluşturur.
func NewCardRepository() ICardRepository {
	return NewCardRepositoryTx(configsdatabase.GetDB())
}

// NewCardRepositoryTx transaction ile çalışan repository oluşturur.
func NewCardRepositoryTx(db *gorm.DB) ICardRepository {
	base := NewBaseRepository[models.Card](db)
	base.SetAllowedSortColumns([]string{"id", "created_at", "producer_name", "region", "visibility"})
	return &CardRepository{base: base, db: db}
}

func (r *CardRepository) Create(ctx context.Context, card *models.Card) error {
	return r.base.Create(ctx, card)
}

func (r *CardRepository) Save(ctx context.Context, card *models.Card) error {
	return r.base.Save(ctx, card)
}

func (r *CardRepository) FindByID(ctx context.Context, id uint) (*models.Card, error) {
	var card models.Card
	err := r.db.WithContext(ctx).Preload("Owner").First(&card, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &card, nil
}

// FindByLinkID public link anahtarı ile kartı bulur.
func (r *CardRepository) FindByLinkID(ctx context.Context, linkID string) (*models.Card, error) {
	var card models.Card
	err := r.db.WithContext(ctx).Preload("Owner").Where("link_id = ?", linkID).First(&card).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		configslog.Log.Error("CardRepository.FindByLinkID: DB hatası", zap.String("link_id", linkID), zap.Error(err))
		return nil, err
	}
	return &card, nil
}

// FindByShortCode kısa link kodu ile kartı bulur.
func (r *CardRepository) FindByShortCode(ctx context.Context, code string) (*models.Card, error) {
	var card models.Card
	err := r.db.WithContext(ctx).Where("short_code = ?", code).First(&card).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		configslog.Log.Error("CardRepository.FindByShortCode: DB hatası", zap.String("code", code), zap.Error(err))
		return nil, err
	}
	return &card, nil
}

// FindPublicPaginated ana sayfa için PUBLIC kartları listeler.
func (r *CardRepository) FindPublicPaginated(params queryparams.ListParams) ([]models.Card, int64, error) {
	var cards []models.Card
	var totalCount int64

	query := r.db.Model(&models.Card{}).Where("visibility = ?", models.VisibilityPublic)
	if params.Query != "" {
		like := "%" + params.Query + "%"
		query = query.Where("producer_name ILIKE ? OR idol_name ILIKE ? OR region ILIKE ?", like, like, like)
	}

	if err := query.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}
	if totalCount == 0 {
		return cards, 0, nil
	}

	err := query.
		Preload("Owner").
		Order(r.base.OrderClause(params, "created_at")).
		Limit(params.PerPage).
		Offset(params.CalculateOffset()).
		Find(&cards).Error
	return cards, totalCount, err
}

func (r *CardRepository) FindAllByUserID(ctx context.Context, userID uint) ([]models.Card, error) {
	var cards []models.Card
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&cards).Error
	return cards, err
}

// FindAllPaginated admin görünümü için filtreli kart listesi.
func (r *CardRepository) FindAllPaginated(params queryparams.ListParams) ([]models.Card, int64, error) {
	var cards []models.Card
	var totalCount int64

	query := applyCardFilters(r.db.Model(&models.Card{}), params.Query, params.Visibility)

	if err := query.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}
	if totalCount == 0 {
		return cards, 0, nil
	}

	err := query.
		Preload("Owner").
		Order(r.base.OrderClause(params, "created_at")).
		Limit(params.PerPage).
		Offset(params.CalculateOffset()).
		Find(&cards).Error
	return cards, totalCount, err
}

func (r *CardRepository) CountCards(query, visibility string) (int64, error) {
	var count int64
	q := applyCardFilters(r.db.Model(&models.Card{}), query, visibility)
	err := q.Count(&count).Error
	return count, err
}

// ShortCodeExists üretilen kısa kodun çakışma kontrolü.
func (r *CardRepository) ShortCodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Card{}).Where("short_code = ?", code).Count(&count).Error
	return count > 0, err
}

func (r *CardRepository) Delete(ctx context.Context, id uint) error {
	return r.base.Delete(ctx, id)
}

// DeleteAllByUserID kullanıcı silinirken kartlarını da kaldırır.
func (r *CardRepository) DeleteAllByUserID(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Card{}).Error
}

func applyCardFilters(q *gorm.DB, query, visibility string) *gorm.DB {
	if query != "" {
		like := "%" + query + "%"
		q = q.Where("producer_name ILIKE ? OR idol_name ILIKE ? OR region ILIKE ?", like, like, like)
	}
	if visibility != "" && visibility != "all" {
		q = q.Where("visibility = ?", visibility)
	}
	return q
}

var _ ICardRepository = (*CardRepository)(nil)
