package repositories

import (
	"context"
	"errors"

	"pcard.link/configs/configsdatabase"
	"pcard.link/models"

	"gorm.io/gorm"
)

// ICommentRepository yorum veritabanı işlemleri için arayüz.
type ICommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	FindByID(ctx context.Context, id uint) (*models.Comment, error)
	FindAllByCardID(ctx context.Context, cardID uint) ([]*models.Comment, error)
	FindAllFlat(query string, offset, limit int) ([]models.Comment, error)
	CountAll(query string) (int64, error)
	DeleteWithReplies(ctx context.Context, id uint) error
	DeleteAllByCardID(ctx context.Context, cardID uint) error
}

// CommentRepository ICommentRepository arayüzünü uygular.
type CommentRepository struct {
	base *BaseRepository[models.Comment]
	db   *gorm.DB
}

// NewCommentRepository varsayılan bağlantıyla repository oluşturur.
func NewCommentRepository() ICommentRepository {
	return NewCommentRepositoryTx(configsdatabase.GetDB())
}

// NewCommentRepositoryTx transaction ile çalışan repository oluşturur.
func NewCommentRepositoryTx(db *gorm.DB) ICommentRepository {
	return &CommentRepository{base: NewBaseRepository[models.Comment](db), db: db}
}

func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.base.Create(ctx, comment)
}

func (r *CommentRepository) FindByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).First(&comment, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// FindAllByCardID kartın tüm yorumlarını oluşturulma sırasıyla döndürür.
// Ağaç yapısı servis katmanında kurulur.
func (r *CommentRepository) FindAllByCardID(ctx context.Context, cardID uint) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Where("card_id = ?", cardID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

// FindAllFlat moderasyon görünümü için düz, sayfalı yorum listesi.
func (r *CommentRepository) FindAllFlat(query string, offset, limit int) ([]models.Comment, error) {
	var comments []models.Comment
	q := r.db.Model(&models.Comment{})
	if query != "" {
		like := "%" + query + "%"
		q = q.Where("content ILIKE ? OR username ILIKE ? OR nickname ILIKE ?", like, like, like)
	}
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&comments).Error
	return comments, err
}

func (r *CommentRepository) CountAll(query string) (int64, error) {
	var count int64
	q := r.db.Model(&models.Comment{})
	if query != "" {
		like := "%" + query + "%"
		q = q.Where("content ILIKE ? OR username ILIKE ? OR nickname ILIKE ?", like, like, like)
	}
	err := q.Count(&count).Error
	return count, err
}

// DeleteWithReplies yorumu ve ona bağlı yanıtları birlikte siler.
func (r *CommentRepository) DeleteWithReplies(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Where("id = ? OR parent_id = ?", id, id).Delete(&models.Comment{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAllByCardID kart silinirken yorumlarını da kaldırır (cascade).
func (r *CommentRepository) DeleteAllByCardID(ctx context.Context, cardID uint) error {
	return r.db.WithContext(ctx).Where("card_id = ?", cardID).Delete(&models.Comment{}).Error
}

var _ ICommentRepository = (*CommentRepository)(nil)
