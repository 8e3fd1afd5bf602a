package middlewares

import (
	"github.com/gofiber/fiber/v2"

	"pcard.link/configs/configslog"

	"go.uber.org/zap"
)

// Auth oturum açmış kullanıcı gerektirir; yoksa login sayfasına yönlendirir.
// AuthRefresh'ten sonra çalışmalıdır, kullanıcıyı Locals'tan okur.
func Auth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CurrentUser(c) == nil {
			return c.Redirect("/auth/login", fiber.StatusFound)
		}
		return c.Next()
	}
}

// Guest yalnızca oturumsuz kullanıcılara izin verir (login/register formları).
func Guest() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CurrentUser(c) != nil {
			return c.Redirect("/panel", fiber.StatusFound)
		}
		return c.Next()
	}
}

// RequireAdmin yönetici yüzeyini korur. Yetkisiz doğrudan erişim login'e
// yönlendirilmez, 403 ile kesilir.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil || !user.IsAdmin() {
			configslog.Log.Warn("Yetkisiz yönetici paneli erişim denemesi",
				zap.String("path", c.Path()), zap.String("ip", ClientIP(c)))
			return fiber.NewError(fiber.StatusForbidden, "Bu sayfaya erişim yetkiniz yok")
		}
		return c.Next()
	}
}
