package services

import (
	"context"
	"errors"
	"fmt"

	"pcard.link/configs/configsdatabase"
	"pcard.link/configs/configslog"
	"pcard.link/models"
	"pcard.link/pkg/queryparams"
	"pcard.link/repositories"
	"pcard.link/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CardServiceError özel servis hataları
type CardServiceError string

func (e CardServiceError) Error() string { return string(e) }

const (
	ErrCardNotFound        CardServiceError = "kart bulunamadı"
	ErrCardCreationFailed  CardServiceError = "kart oluşturulamadı"
	ErrCardUpdateFailed    CardServiceError = "kart güncellenemedi"
	ErrCardDeletionFailed  CardServiceError = "kart silinemedi"
	ErrCardForbidden       CardServiceError = "bu işlem için yetkiniz yok"
	ErrCrdInvalidInput     CardServiceError = "geçersiz girdi verisi"
	ErrCrdProducerRequired CardServiceError = "üretici adı zorunludur"
	ErrCrdShortCodeFailed  CardServiceError = "kart için kısa kod üretilemedi"
)

// CardInput kart oluşturma ve güncelleme için form verisi.
// FrontPath/BackPath nil ise mevcut görsel korunur.
type CardInput struct {
	ProducerName     string
	Region           string
	IdolName         string
	Visibility       string
	ImageOrientation string
	SnsLinks         []models.SnsLink
	FrontPath        *string
	BackPath         *string
}

// ICardService kart işlemleri için arayüz.
type ICardService interface {
	CreateCard(ctx context.Context, ownerID uint, input CardInput) (*models.Card, error)
	GetCardByID(ctx context.Context, id uint, actor *models.User) (*models.Card, error)
	GetCardByLinkID(ctx context.Context, linkID string) (*models.Card, error)
	GetCardByShortCode(ctx context.Context, code string) (*models.Card, error)
	GetCardsForUser(ctx context.Context, ownerID uint) ([]models.Card, error)
	GetPublicCardsPaginated(ctx context.Context, params queryparams.ListParams) (*queryparams.PaginatedResult, error)
	GetAllCardsPaginated(ctx context.Context, params queryparams.ListParams) (*queryparams.PaginatedResult, error)
	UpdateCard(ctx context.Context, id uint, actor *models.User, input CardInput) (*models.Card, error)
	DeleteCard(ctx context.Context, id uint, actor *models.User) (*models.Card, error)
	UpdateVisibilityBatch(ctx context.Context, actor *models.User, ids []uint, visibility string) (int64, error)
	EnsureShareLinks(ctx context.Context, card *models.Card) error
}

// CardService ICardService arayüzünü uygular.
type CardService struct {
	repo        repositories.ICardRepository
	commentRepo repositories.ICommentRepository
	db          *gorm.DB
}

// NewCardService yeni bir CardService örneği oluşturur.
func NewCardService() ICardService {
	return &CardService{
		repo:        repositories.NewCardRepository(),
		commentRepo: repositories.NewCommentRepository(),
		db:          configsdatabase.GetDB(),
	}
}

// contextWithUserID context'e user_id ekler (BaseModel hook'ları için).
func contextWithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, models.ContextUserIDKey, userID)
}

func validateCardInput(input CardInput) error {
	if input.ProducerName == "" {
		return ErrCrdProducerRequired
	}
	switch input.Visibility {
	case models.VisibilityPublic, models.VisibilityLinkOnly, models.VisibilityPrivate:
	default:
		return fmt.Errorf("%w: bilinmeyen görünürlük değeri", ErrCrdInvalidInput)
	}
	switch input.ImageOrientation {
	case "", models.OrientationHorizontal, models.OrientationVertical:
	default:
		return fmt.Errorf("%w: bilinmeyen görsel yönü", ErrCrdInvalidInput)
	}
	return nil
}

// uniqueShortCode transaction içinde benzersizliği doğrulanmış kısa kod üretir.
func uniqueShortCode(ctx context.Context, repo repositories.ICardRepository) (string, error) {
	const maxAttempts = 5
	for i := 0; i < maxAttempts; i++ {
		code := utils.MustGenerateShortCode()
		if code == "" {
			continue
		}
		exists, err := repo.ShortCodeExists(ctx, code)
		if err != nil {
			configslog.Log.Error("Kısa kod benzersizlik kontrolü hatası", zap.Error(err))
			return "", err
		}
		if !exists {
			return code, nil
		}
		configslog.Log.Warn("Kısa kod çakışması, yeniden deneniyor", zap.String("code", code))
	}
	return "", ErrCrdShortCodeFailed
}

// CreateCard yeni bir kartı paylaşım bağlantılarıyla birlikte TEK BİR
// TRANSACTION içinde oluşturur.
func (s *CardService) CreateCard(ctx context.Context, ownerID uint, input CardInput) (*models.Card, error) {
	if ownerID == 0 {
		return nil, fmt.Errorf("%w: geçersiz sahip ID", ErrCrdInvalidInput)
	}
	if input.Visibility == "" {
		input.Visibility = models.VisibilityPublic
	}
	if input.ImageOrientation == "" {
		input.ImageOrientation = models.OrientationHorizontal
	}
	if err := validateCardInput(input); err != nil {
		return nil, err
	}

	var createdCard *models.Card
	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		txCtx := contextWithUserID(ctx, ownerID)
		cardRepoTx := repositories.NewCardRepositoryTx(tx)

		code, err := uniqueShortCode(txCtx, cardRepoTx)
		if err != nil {
			return err
		}

		card := models.Card{
			UserID:           ownerID,
			Visibility:       input.Visibility,
			ShareToken:       uuid.NewString(),
			ShortCode:        code,
			LinkID:           uuid.NewString(),
			ProducerName:     utils.SanitizeText(input.ProducerName),
			Region:           utils.SanitizeText(input.Region),
			IdolName:         utils.SanitizeText(input.IdolName),
			ImageOrientation: input.ImageOrientation,
		}
		if input.FrontPath != nil {
			card.CardFrontPath = *input.FrontPath
		}
		if input.BackPath != nil {
			card.CardBackPath = *input.BackPath
		}
		if err := card.SetSnsLinks(input.SnsLinks); err != nil {
			return fmt.Errorf("%w: SNS bağlantıları kaydedilemedi", ErrCrdInvalidInput)
		}

		if err := cardRepoTx.Create(txCtx, &card); err != nil {
			configslog.Log.Error("Kart oluşturulamadı", zap.Uint("ownerID", ownerID), zap.Error(err))
			return ErrCardCreationFailed
		}
		createdCard = &card
		return nil
	})

	if txErr != nil {
		return nil, txErr
	}
	configslog.SLog.Infof("Kart oluşturuldu: ID %d, ShortCode %s", createdCard.ID, createdCard.ShortCode)
	return createdCard, nil
}

// GetCardByID kartı sahibi veya yönetici için getirir.
func (s *CardService) GetCardByID(ctx context.Context, id uint, actor *models.User) (*models.Card, error) {
	card, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCardNotFound
		}
		configslog.Log.Error("GetCardByID: repo hatası", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	if actor == nil || (!actor.IsAdmin() && card.UserID != actor.ID) {
		configslog.Log.Warn("Yetkisiz kart erişim denemesi", zap.Uint("cardID", id))
		return nil, ErrCardForbidden
	}
	return card, nil
}

// GetCardByLinkID public görünüm için kalıcı bağlantı ID'si ile kartı getirir.
// Görünürlük kararı çağıran katmanda verilir; burada yalnızca varlık kontrolü yapılır.
func (s *CardService) GetCardByLinkID(ctx context.Context, linkID string) (*models.Card, error) {
	if linkID == "" {
		return nil, ErrCardNotFound
	}
	card, err := s.repo.FindByLinkID(ctx, linkID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCardNotFound
		}
		configslog.Log.Error("GetCardByLinkID: repo hatası", zap.String("linkID", linkID), zap.Error(err))
		return nil, err
	}
	return card, nil
}

// GetCardByShortCode kısa bağlantı yönlendirmesi için kartı getirir.
func (s *CardService) GetCardByShortCode(ctx context.Context, code string) (*models.Card, error) {
	if code == "" {
		return nil, ErrCardNotFound
	}
	card, err := s.repo.FindByShortCode(ctx, code)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrCardNotFound
		}
		configslog.Log.Error("GetCardByShortCode: repo hatası", zap.String("code", code), zap.Error(err))
		return nil, err
	}
	return card, nil
}

// GetCardsForUser kullanıcının tüm kartlarını getirir (panel listesi).
func (s *CardService) GetCardsForUser(ctx context.Context, ownerID uint) ([]models.Card, error) {
	if ownerID == 0 {
		return nil, fmt.Errorf("%w: geçersiz sahip ID", ErrCrdInvalidInput)
	}
	cards, err := s.repo.FindAllByUserID(ctx, ownerID)
	if err != nil {
		configslog.Log.Error("Kullanıcı kartları alınamadı", zap.Uint("ownerID", ownerID), zap.Error(err))
		return nil, err
	}
	return cards, nil
}

// GetPublicCardsPaginated yalnızca PUBLIC kartları sayfalayarak getirir.
func (s *CardService) GetPublicCardsPaginated(ctx context.Context, params queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	params.Validate()
	cards, totalCount, err := s.repo.FindPublicPaginated(params)
	if err != nil {
		configslog.Log.Error("Public kart listesi alınamadı", zap.Error(err))
		return nil, err
	}
	return &queryparams.PaginatedResult{
		Data: cards,
		Meta: queryparams.PaginationMeta{
			CurrentPage: params.Page, PerPage: params.PerPage,
			TotalItems: totalCount, TotalPages: queryparams.CalculateTotalPages(totalCount, params.PerPage),
		},
	}, nil
}

// GetAllCardsPaginated yönetim paneli için tüm kartları getirir.
func (s *CardService) GetAllCardsPaginated(ctx context.Context, params queryparams.ListParams) (*queryparams.PaginatedResult, error) {
	params.Validate()
	cards, totalCount, err := s.repo.FindAllPaginated(params)
	if err != nil {
		configslog.Log.Error("Kart listesi alınamadı (admin)", zap.Error(err))
		return nil, err
	}
	return &queryparams.PaginatedResult{
		Data: cards,
		Meta: queryparams.PaginationMeta{
			CurrentPage: params.Page, PerPage: params.PerPage,
			TotalItems: totalCount, TotalPages: queryparams.CalculateTotalPages(totalCount, params.PerPage),
		},
	}, nil
}

// UpdateCard kartı kilitli transaction içinde günceller ve güncel halini döner.
func (s *CardService) UpdateCard(ctx context.Context, id uint, actor *models.User, input CardInput) (*models.Card, error) {
	if id == 0 || actor == nil {
		return nil, fmt.Errorf("%w: geçersiz ID veya kullanıcı", ErrCrdInvalidInput)
	}
	if err := validateCardInput(input); err != nil {
		return nil, err
	}

	var updated *models.Card
	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		txCtx := contextWithUserID(ctx, actor.ID)
		cardRepoTx := repositories.NewCardRepositoryTx(tx)

		var existing models.Card
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&existing, id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCardNotFound
			}
			configslog.Log.Error("UpdateCard: kayıt kilitlenemedi", zap.Uint("id", id), zap.Error(err))
			return err
		}

		if !actor.IsAdmin() && existing.UserID != actor.ID {
			configslog.Log.Warn("Yetkisiz kart güncelleme denemesi", zap.Uint("cardID", id), zap.Uint("userID", actor.ID))
			return ErrCardForbidden
		}

		existing.ProducerName = utils.SanitizeText(input.ProducerName)
		existing.Region = utils.SanitizeText(input.Region)
		existing.IdolName = utils.SanitizeText(input.IdolName)
		existing.Visibility = input.Visibility
		if input.ImageOrientation != "" {
			existing.ImageOrientation = input.ImageOrientation
		}
		if input.FrontPath != nil {
			existing.CardFrontPath = *input.FrontPath
		}
		if input.BackPath != nil {
			existing.CardBackPath = *input.BackPath
		}
		if err := existing.SetSnsLinks(input.SnsLinks); err != nil {
			return fmt.Errorf("%w: SNS bağlantıları kaydedilemedi", ErrCrdInvalidInput)
		}

		// Eski kayıtlarda eksik olabilecek paylaşım alanlarını tamamla.
		if existing.EnsureShareArtifacts(uuid.NewString, utils.MustGenerateShortCode) {
			exists, checkErr := cardRepoTx.ShortCodeExists(txCtx, existing.ShortCode)
			if checkErr != nil {
				return checkErr
			}
			if exists {
				code, codeErr := uniqueShortCode(txCtx, cardRepoTx)
				if codeErr != nil {
					return codeErr
				}
				existing.ShortCode = code
			}
		}

		if err := cardRepoTx.Save(txCtx, &existing); err != nil {
			configslog.Log.Error("Kart güncellenemedi", zap.Uint("id", id), zap.Error(err))
			return ErrCardUpdateFailed
		}
		updated = &existing
		return nil
	})

	if txErr != nil {
		return nil, txErr
	}
	configslog.SLog.Infof("Kart güncellendi: ID %d", id)
	return updated, nil
}

// DeleteCard kartı ve yorumlarını transaction içinde siler. Silinen kart
// döndürülür ki çağıran katman görsel dosyalarını temizleyebilsin.
func (s *CardService) DeleteCard(ctx context.Context, id uint, actor *models.User) (*models.Card, error) {
	if id == 0 || actor == nil {
		return nil, fmt.Errorf("%w: geçersiz ID veya kullanıcı", ErrCrdInvalidInput)
	}

	var deleted *models.Card
	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		txCtx := contextWithUserID(ctx, actor.ID)
		cardRepoTx := repositories.NewCardRepositoryTx(tx)
		commentRepoTx := repositories.NewCommentRepositoryTx(tx)

		var card models.Card
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&card, id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCardNotFound
			}
			return err
		}

		if !actor.IsAdmin() && card.UserID != actor.ID {
			configslog.Log.Warn("Yetkisiz kart silme denemesi", zap.Uint("cardID", id), zap.Uint("userID", actor.ID))
			return ErrCardForbidden
		}

		if err := commentRepoTx.DeleteAllByCardID(txCtx, card.ID); err != nil {
			configslog.Log.Error("Kart yorumları silinemedi", zap.Uint("cardID", id), zap.Error(err))
			return ErrCardDeletionFailed
		}
		if err := cardRepoTx.Delete(txCtx, card.ID); err != nil {
			configslog.Log.Error("Kart silinemedi", zap.Uint("cardID", id), zap.Error(err))
			return ErrCardDeletionFailed
		}
		deleted = &card
		return nil
	})

	if txErr != nil {
		return nil, txErr
	}
	configslog.SLog.Infof("Kart silindi: ID %d", id)
	return deleted, nil
}

// UpdateVisibilityBatch seçilen kartların görünürlüğünü toplu günceller (admin).
func (s *CardService) UpdateVisibilityBatch(ctx context.Context, actor *models.User, ids []uint, visibility string) (int64, error) {
	if actor == nil || !actor.IsAdmin() {
		return 0, ErrCardForbidden
	}
	switch visibility {
	case models.VisibilityPublic, models.VisibilityLinkOnly, models.VisibilityPrivate:
	default:
		return 0, fmt.Errorf("%w: bilinmeyen görünürlük değeri", ErrCrdInvalidInput)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	result := s.db.WithContext(contextWithUserID(ctx, actor.ID)).
		Model(&models.Card{}).
		Where("id IN ?", ids).
		Update("visibility", visibility)
	if result.Error != nil {
		configslog.Log.Error("Toplu görünürlük güncellemesi başarısız", zap.Error(result.Error))
		return 0, ErrCardUpdateFailed
	}
	configslog.SLog.Infof("Toplu görünürlük güncellendi: %d kart -> %s", result.RowsAffected, visibility)
	return result.RowsAffected, nil
}

// EnsureShareLinks eski kayıtlardaki eksik paylaşım alanlarını üretip kaydeder.
// Alanlar zaten doluysa veritabanına dokunmaz.
func (s *CardService) EnsureShareLinks(ctx context.Context, card *models.Card) error {
	if card == nil {
		return fmt.Errorf("%w: kart boş", ErrCrdInvalidInput)
	}
	tokenBefore := card.ShareToken
	newCode := card.EnsureShareArtifacts(uuid.NewString, utils.MustGenerateShortCode)
	if !newCode && card.ShareToken == tokenBefore {
		return nil
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		cardRepoTx := repositories.NewCardRepositoryTx(tx)
		if newCode {
			exists, err := cardRepoTx.ShortCodeExists(ctx, card.ShortCode)
			if err != nil {
				return err
			}
			if exists {
				code, codeErr := uniqueShortCode(ctx, cardRepoTx)
				if codeErr != nil {
					return codeErr
				}
				card.ShortCode = code
			}
		}
		if err := cardRepoTx.Save(contextWithUserID(ctx, card.UserID), card); err != nil {
			configslog.Log.Error("Paylaşım alanları kaydedilemedi", zap.Uint("cardID", card.ID), zap.Error(err))
			return ErrCardUpdateFailed
		}
		return nil
	})
}

var _ ICardService = (*CardService)(nil)
