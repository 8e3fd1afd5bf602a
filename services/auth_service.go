package services

import (
	"context"
	"errors"
	"strings"

	"pcard.link/configs/configslog"
	"pcard.link/models"
	"pcard.link/repositories"
	"pcard.link/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthServiceError özel servis hataları
type AuthServiceError string

func (e AuthServiceError) Error() string { return string(e) }

const (
	ErrInvalidCredentials  AuthServiceError = "kullanıcı adı veya parola hatalı"
	ErrUserBanned          AuthServiceError = "hesabınız askıya alınmış"
	ErrUsernameTaken       AuthServiceError = "bu kullanıcı adı zaten kullanılıyor"
	ErrAuthInvalidInput    AuthServiceError = "geçersiz girdi verisi"
	ErrRegistrationFailed  AuthServiceError = "kayıt işlemi tamamlanamadı"
	ErrPasswordChangeError AuthServiceError = "parola güncellenemedi"
	ErrCurrentPasswordBad  AuthServiceError = "mevcut parola hatalı"
)

// IAuthService kimlik doğrulama işlemleri için arayüz.
type IAuthService interface {
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	Register(ctx context.Context, username, nickname, password string) (*models.User, error)
	UpdatePassword(ctx context.Context, userID uint, currentPassword, newPassword string) error
}

// AuthService IAuthService arayüzünü uygular.
type AuthService struct {
	userRepo repositories.IUserRepository
}

// NewAuthService yeni bir AuthService örneği oluşturur.
func NewAuthService() IAuthService {
	return &AuthService{userRepo: repositories.NewUserRepository()}
}

// Authenticate kullanıcı adı ve parolayı doğrular. Banlı kullanıcı
// doğru parola girse bile oturum açamaz.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			// Kullanıcı yok; zamanlama farkını azaltmak için yine de hash karşılaştır.
			_ = bcrypt.CompareHashAndPassword([]byte("$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5B4P7bKJ0mYQZQZQZQZQZQZQZQZQZ"), []byte(password))
			return nil, ErrInvalidCredentials
		}
		configslog.Log.Error("Authenticate: kullanıcı sorgusu başarısız", zap.String("username", username), zap.Error(err))
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		configslog.Log.Warn("Başarısız oturum açma denemesi", zap.String("username", username))
		return nil, ErrInvalidCredentials
	}

	if user.IsBanned() {
		configslog.Log.Warn("Banlı kullanıcı oturum açmayı denedi", zap.String("username", username))
		return nil, ErrUserBanned
	}

	return user, nil
}

// Register yeni bir kullanıcı kaydeder. Validasyon hataları kullanıcıya
// gösterilecek mesajlarla döner.
func (s *AuthService) Register(ctx context.Context, username, nickname, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	nickname = strings.TrimSpace(nickname)

	if msg := utils.ValidateUsername(username); msg != "" {
		return nil, AuthServiceError(msg)
	}
	if msg := utils.ValidateNickname(nickname); msg != "" {
		return nil, AuthServiceError(msg)
	}
	if msg := utils.ValidatePassword(password); msg != "" {
		return nil, AuthServiceError(msg)
	}

	// Benzersizlik kontrolü; yarış durumunda uniqueIndex son sözü söyler.
	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		configslog.Log.Error("Register: benzersizlik kontrolü başarısız", zap.String("username", username), zap.Error(err))
		return nil, ErrRegistrationFailed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		configslog.Log.Error("Register: parola hashlenemedi", zap.Error(err))
		return nil, ErrRegistrationFailed
	}

	user := &models.User{
		Username:     username,
		Nickname:     nickname,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
		Status:       models.StatusActive,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		configslog.Log.Error("Register: kullanıcı oluşturulamadı", zap.String("username", username), zap.Error(err))
		return nil, ErrUsernameTaken
	}

	configslog.SLog.Infof("Yeni kullanıcı kaydedildi: %s (ID %d)", username, user.ID)
	return user, nil
}

// UpdatePassword mevcut parolayı doğrulayıp yenisini kaydeder.
func (s *AuthService) UpdatePassword(ctx context.Context, userID uint, currentPassword, newPassword string) error {
	if userID == 0 {
		return ErrAuthInvalidInput
	}
	if msg := utils.ValidatePassword(newPassword); msg != "" {
		return AuthServiceError(msg)
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrInvalidCredentials
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrCurrentPasswordBad
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		configslog.Log.Error("UpdatePassword: parola hashlenemedi", zap.Uint("userID", userID), zap.Error(err))
		return ErrPasswordChangeError
	}

	if err := s.userRepo.UpdatePasswordHash(ctx, userID, string(hash)); err != nil {
		configslog.Log.Error("UpdatePassword: kayıt güncellenemedi", zap.Uint("userID", userID), zap.Error(err))
		return ErrPasswordChangeError
	}

	configslog.SLog.Infof("Parola güncellendi: UserID %d", userID)
	return nil
}

var _ IAuthService = (*AuthService)(nil)
