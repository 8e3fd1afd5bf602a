package services

import (
	"context"
	"errors"

	"pcard.link/configs/configsdatabase"
	"pcard.link/configs/configslog"
	"pcard.link/models"
	"pcard.link/pkg/queryparams"
	"pcard.link/repositories"
	"pcard.link/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CommentServiceError özel servis hataları
type CommentServiceError string

func (e CommentServiceError) Error() string { return string(e) }

const (
	ErrCommentNotFound     CommentServiceError = "yorum bulunamadı"
	ErrCommentEmpty        CommentServiceError = "yorum içeriği boş olamaz"
	ErrCommentCreateFailed CommentServiceError = "yorum kaydedilemedi"
	ErrCommentDeleteFailed CommentServiceError = "yorum silinemedi"
	ErrCommentForbidden    CommentServiceError = "bu yorumu silme yetkiniz yok"
	ErrCommentBadParent    CommentServiceError = "yanıtlanan yorum bu karta ait değil"
)

// ICommentService yorum işlemleri için arayüz.
type ICommentService interface {
	AddComment(ctx context.Context, cardID uint, author *models.User, content string, parentID *uint) (*models.Comment, error)
	GetCommentTree(ctx context.Context, cardID uint) ([]*models.Comment, error)
	GetCommentsPaginated(ctx context.Context, params queryparams.ListParams) (*queryparams.PaginatedResult, error)
	DeleteComment(ctx context.Context, commentID uint, actor *models.User) error
}

// CommentService ICommentService arayüzünü uygular.
type CommentService struct {
	repo     repositories.ICommentRepository
	cardRepo repositories.ICardRepository
	db       *gorm.DB
}

// NewCommentService yeni bir CommentService örneği oluşturur.
func NewCommentService() ICommentService {
	return &CommentService{
		repo:     repositories.NewCommentRepository(),
		cardRepo: repositories.NewCardRepository(),
		db:       configsdatabase.GetDB(),
	}
}

// AddComment karta yeni yorum veya mevcut bir yoruma yanıt ekler.
// Yanıtlarda üst yorumun aynı karta ait olduğu doğrulanır.
func (s *CommentService) AddComment(ctx context.Context, cardID uint, author *models.User, content string, parentID *uint) (*models.Comment, error) {
	if author == nil || cardID == 0 {
		return nil, ErrCommentCreateFailed
	}
	content = utils.SanitizeText(content)
	if content == "" {
		return nil, ErrCommentEmpty
	}

	if _, err := s.cardRepo.FindByID(ctx, cardID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}

	comment := &models.Comment{
		CardID:   cardID,
		UserID:   author.ID,
		Username: author.Username,
		Nickname: author.Nickname,
		Content:  content,
	}

	if parentID != nil {
		parent, err := s.repo.FindByID(ctx, *parentID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, ErrCommentNotFound
			}
			return nil, err
		}
		if parent.CardID != cardID {
			configslog.Log.Warn("Farklı karta ait yoruma yanıt denemesi",
				zap.Uint("cardID", cardID), zap.Uint("parentID", *parentID))
			return nil, ErrCommentBadParent
		}
		// Yanıtlar düz bir ağaçta tutulur; derinlik ikinci seviyede sabitlenir.
		if parent.ParentID != nil {
			comment.ParentID = parent.ParentID
		} else {
			comment.ParentID = &parent.ID
		}
		comment.ReplyToUsername = parent.Username
		comment.ReplyToNickname = parent.Nickname
	}

	if err := s.repo.Create(contextWithUserID(ctx, author.ID), comment); err != nil {
		configslog.Log.Error("Yorum kaydedilemedi", zap.Uint("cardID", cardID), zap.Error(err))
		return nil, ErrCommentCreateFailed
	}
	return comment, nil
}

// GetCommentTree kartın yorumlarını kök yorumlar ve yanıtları olarak döner.
func (s *CommentService) GetCommentTree(ctx context.Context, cardID uint) ([]*models.Comment, error) {
	comments, err := s.repo.FindAllByCardID(ctx, cardID)
	if err != nil {
		configslog.Log.Error("Yorumlar alınamadı", zap.Uint("cardID", cardID), zap.Error(err))
		return nil, err
	}
	return BuildCommentTree(comments), nil
}

// BuildCommentTree düz yorum listesinden iki seviyeli ağaç kurar. Girdi
// oluşturulma sırasına göre sıralı gelir ve bu sıra korunur. Üst yorumu
// listede bulunmayan yanıtlar (öksüz kayıtlar) sessizce atlanır.
func BuildCommentTree(comments []*models.Comment) []*models.Comment {
	byID := make(map[uint]*models.Comment, len(comments))
	for _, c := range comments {
		c.Replies = nil
		byID[c.ID] = c
	}

	var roots []*models.Comment
	for _, c := range comments {
		if c.ParentID == nil {
			roots = append(roots, c)
			continue
		}
		parent, ok := byID[*c.ParentID]
		if !ok || parent.ParentID != nil {
			continue
		}
		parent.Replies = append(parent.Replies, c)
	}
	return roots
}

// GetCommentsPaginated moderasyon için düz yorum listesi.
func (s *CommentService) GetCommentsPaginated(ctx context.Context, params queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	params.Validate()
	comments, err := s.repo.FindAllFlat(params.Query, params.CalculateOffset(), params.PerPage)
	if err != nil {
		configslog.Log.Error("Yorum listesi alınamadı", zap.Error(err))
		return nil, err
	}
	totalCount, err := s.repo.CountAll(params.Query)
	if err != nil {
		return nil, err
	}
	return &queryparams.PaginatedResult{
		Data: comments,
		Meta: queryparams.PaginationMeta{
			CurrentPage: params.Page, PerPage: params.PerPage,
			TotalItems: totalCount, TotalPages: queryparams.CalculateTotalPages(totalCount, params.PerPage),
		},
	}, nil
}

// DeleteComment yorumu yanıtlarıyla birlikte siler. Silme yetkisi yorumun
// yazarı, kartın sahibi veya yöneticidedir.
func (s *CommentService) DeleteComment(ctx context.Context, commentID uint, actor *models.User) error {
	if actor == nil || commentID == 0 {
		return ErrCommentDeleteFailed
	}

	comment, err := s.repo.FindByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrCommentNotFound
		}
		return err
	}

	if !actor.IsAdmin() && comment.UserID != actor.ID {
		card, cardErr := s.cardRepo.FindByID(ctx, comment.CardID)
		if cardErr != nil || card.UserID != actor.ID {
			configslog.Log.Warn("Yetkisiz yorum silme denemesi",
				zap.Uint("commentID", commentID), zap.Uint("userID", actor.ID))
			return ErrCommentForbidden
		}
	}

	if err := s.repo.DeleteWithReplies(contextWithUserID(ctx, actor.ID), commentID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrCommentNotFound
		}
		configslog.Log.Error("Yorum silinemedi", zap.Uint("commentID", commentID), zap.Error(err))
		return ErrCommentDeleteFailed
	}
	return nil
}

var _ ICommentService = (*CommentService)(nil)
