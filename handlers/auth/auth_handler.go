package handlers

import (
	"errors"
	"net/http"

	"pcard.link/configs/configsapp"
	"pcard.link/configs/configslog"
	"pcard.link/middlewares"
	"pcard.link/pkg/challengegate"
	"pcard.link/pkg/flashmessages"
	"pcard.link/pkg/renderer"
	"pcard.link/pkg/turnstile"
	"pcard.link/services"
	"pcard.link/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AuthHandler giriş, kayıt ve parola işlemlerini yönetir.
type AuthHandler struct {
	service  services.IAuthService
	verifier *turnstile.Verifier
}

// NewAuthHandler yeni bir AuthHandler örneği oluşturur.
func NewAuthHandler(cfg configsapp.Config) *AuthHandler {
	return &AuthHandler{
		service:  services.NewAuthService(),
		verifier: turnstile.NewVerifier(cfg.TurnstileSecret, cfg.TurnstileSiteKey),
	}
}

// passChallenge oturum challenge modundaysa turnstile token'ını doğrular.
// Başarılı doğrulama challenge bayrağını temizler; başarısızlıkta hata
// mesajı döner ve istek forma geri gönderilmelidir.
func (h *AuthHandler) passChallenge(c *fiber.Ctx) (bool, string) {
	if !h.verifier.Enabled() {
		return true, ""
	}
	sess, err := utils.SessionStart(c)
	if err != nil {
		return true, ""
	}
	if !challengegate.IsRequired(sess) {
		return true, ""
	}

	token := c.FormValue("cf-turnstile-response")
	if !h.verifier.Verify(c.UserContext(), token, middlewares.ClientIP(c)) {
		configslog.Log.Warn("Turnstile doğrulaması başarısız",
			zap.String("ip", middlewares.ClientIP(c)), zap.String("path", c.Path()))
		return false, "Güvenlik doğrulaması başarısız, lütfen tekrar deneyin."
	}

	challengegate.Clear(sess)
	if err := sess.Save(); err != nil {
		configslog.Log.Error("Challenge temizliği kaydedilemedi", zap.Error(err))
	}
	return true, ""
}

// challengeViewData formlara turnstile widget bilgisini ekler.
func (h *AuthHandler) challengeViewData(c *fiber.Ctx, data fiber.Map) fiber.Map {
	if !h.verifier.Enabled() {
		return data
	}
	if sess, err := utils.SessionStart(c); err == nil && challengegate.IsRequired(sess) {
		data["ChallengeRequired"] = true
		data["TurnstileSiteKey"] = h.verifier.SiteKey()
	}
	return data
}

// ShowLogin giriş formunu gösterir.
func (h *AuthHandler) ShowLogin(c *fiber.Ctx) error {
	flashData, _ := flashmessages.GetFlashMessages(c)
	data := fiber.Map{"Title": "Giriş Yap"}
	renderer.SetFlashMessages(data, flashData)
	if c.Query("error") == "banned" {
		data[renderer.FlashErrorKeyView] = "Hesabınız askıya alınmış."
	}
	return renderer.Render(c, "auth/login", "layouts/auth_layout", h.challengeViewData(c, data), http.StatusOK)
}

// Login kimlik bilgilerini doğrulayıp oturum açar.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	if ok, msg := h.passChallenge(c); !ok {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, msg)
		return c.Redirect("/auth/login", fiber.StatusSeeOther)
	}

	username := c.FormValue("username")
	password := c.FormValue("password")

	user, err := h.service.Authenticate(c.UserContext(), username, password)
	if err != nil {
		if errors.Is(err, services.ErrUserBanned) {
			return c.Redirect("/auth/login?error=banned", fiber.StatusSeeOther)
		}
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		return c.Redirect("/auth/login", fiber.StatusSeeOther)
	}

	sess, err := utils.SessionStart(c)
	if err != nil {
		configslog.Log.Error("Login: session açılamadı", zap.Error(err))
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Oturum başlatılamadı.")
		return c.Redirect("/auth/login", fiber.StatusSeeOther)
	}
	// Session fixation'a karşı oturum ID'si yenilenir.
	if err := sess.Regenerate(); err != nil {
		configslog.Log.Error("Login: session yenilenemedi", zap.Error(err))
	}
	if err := utils.SetUserSession(sess, user.ID, user.Username, user.IsAdmin()); err != nil {
		configslog.Log.Error("Login: session yazılamadı", zap.Uint("userID", user.ID), zap.Error(err))
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Oturum başlatılamadı.")
		return c.Redirect("/auth/login", fiber.StatusSeeOther)
	}

	configslog.SLog.Infof("Oturum açıldı: %s (ID %d)", user.Username, user.ID)

	// Yalnızca göreli hedeflere yönlendirilir (open redirect koruması).
	if target := c.FormValue("redirect"); utils.IsSafeRedirect(target) {
		return c.Redirect(target, fiber.StatusFound)
	}
	if user.IsAdmin() {
		return c.Redirect("/admin", fiber.StatusFound)
	}
	return c.Redirect("/panel", fiber.StatusFound)
}

// ShowRegister kayıt formunu gösterir.
func (h *AuthHandler) ShowRegister(c *fiber.Ctx) error {
	flashData, _ := flashmessages.GetFlashMessages(c)
	data := fiber.Map{"Title": "Kayıt Ol"}
	renderer.SetFlashMessages(data, flashData)
	return renderer.Render(c, "auth/register", "layouts/auth_layout", h.challengeViewData(c, data), http.StatusOK)
}

// Register yeni kullanıcı kaydeder ve oturum açar.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	if ok, msg := h.passChallenge(c); !ok {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, msg)
		return c.Redirect("/auth/register", fiber.StatusSeeOther)
	}

	username := c.FormValue("username")
	nickname := c.FormValue("nickname")
	password := c.FormValue("password")

	user, err := h.service.Register(c.UserContext(), username, nickname, password)
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		return c.Redirect("/auth/register", fiber.StatusSeeOther)
	}

	sess, sessErr := utils.SessionStart(c)
	if sessErr == nil {
		if err := sess.Regenerate(); err != nil {
			configslog.Log.Error("Register: session yenilenemedi", zap.Error(err))
		}
		if err := utils.SetUserSession(sess, user.ID, user.Username, user.IsAdmin()); err != nil {
			configslog.Log.Error("Register: session yazılamadı", zap.Uint("userID", user.ID), zap.Error(err))
		}
	}

	_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Hoş geldiniz! Hesabınız oluşturuldu.")
	return c.Redirect("/panel", fiber.StatusFound)
}

// Logout oturumu sonlandırır.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if sess, err := utils.SessionStart(c); err == nil {
		if destroyErr := sess.Destroy(); destroyErr != nil {
			configslog.Log.Error("Logout: session kapatılamadı", zap.Error(destroyErr))
		}
	}
	return c.Redirect("/auth/login", fiber.StatusFound)
}

// ShowChangePassword parola değiştirme formunu gösterir.
func (h *AuthHandler) ShowChangePassword(c *fiber.Ctx) error {
	flashData, _ := flashmessages.GetFlashMessages(c)
	data := fiber.Map{"Title": "Parola Değiştir"}
	renderer.SetFlashMessages(data, flashData)
	return renderer.Render(c, "auth/password", "layouts/panel_layout", data, http.StatusOK)
}

// ChangePassword mevcut parolayı doğrulayıp yenisini kaydeder.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	user := middlewares.CurrentUser(c)
	if user == nil {
		return c.Redirect("/auth/login", fiber.StatusFound)
	}

	current := c.FormValue("current_password")
	newPassword := c.FormValue("new_password")
	confirm := c.FormValue("confirm_password")
	if newPassword != confirm {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Yeni parolalar eşleşmiyor.")
		return c.Redirect("/auth/password", fiber.StatusSeeOther)
	}

	if err := h.service.UpdatePassword(c.UserContext(), user.ID, current, newPassword); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		return c.Redirect("/auth/password", fiber.StatusSeeOther)
	}

	_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Parolanız güncellendi.")
	return c.Redirect("/auth/password", fiber.StatusSeeOther)
}
