package middlewares

import (
	"errors"
	"strings"

	"pcard.link/configs/configslog"
	"pcard.link/models"
	"pcard.link/repositories"
	"pcard.link/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Oturum geçersiz kılındıktan sonra da erişilebilir kalması gereken yollar.
var authEntryPrefixes = []string{
	"/auth/login",
	"/auth/register",
	"/auth/logout",
}

func isAuthEntryPath(path string) bool {
	for _, prefix := range authEntryPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// AuthRefresh oturumdaki kullanıcıyı her istekte veritabanından yeniden
// yükler. Böylece rol ve durum değişiklikleri (ör. ban) bir sonraki istekte
// etkili olur; silinmiş veya banlanmış kullanıcının oturumu düşürülür.
func AuthRefresh(userRepo repositories.IUserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := utils.SessionStart(c)
		if err != nil {
			return c.Next()
		}
		userID, err := utils.GetUserIDFromSession(sess)
		if err != nil || userID == 0 {
			return c.Next()
		}

		user, repoErr := userRepo.FindByID(c.UserContext(), userID)
		if repoErr != nil {
			if !errors.Is(repoErr, repositories.ErrNotFound) {
				configslog.Log.Error("Oturum kullanıcısı yüklenemedi",
					zap.Uint("userID", userID), zap.Error(repoErr))
				return c.Next()
			}
			// Kullanıcı silinmiş; oturum artık geçersiz.
			_ = sess.Destroy()
			if isAuthEntryPath(c.Path()) {
				return c.Next()
			}
			return c.Redirect("/auth/login", fiber.StatusFound)
		}

		if user.IsBanned() {
			configslog.Log.Warn("Banlı kullanıcının oturumu düşürüldü",
				zap.Uint("userID", userID), zap.String("username", user.Username))
			_ = sess.Destroy()
			if isAuthEntryPath(c.Path()) {
				return c.Next()
			}
			return c.Redirect("/auth/login?error=banned", fiber.StatusFound)
		}

		// Oturum kopyasını güncel değerlerle tazele.
		if err := utils.SetUserSession(sess, user.ID, user.Username, user.IsAdmin()); err != nil {
			configslog.Log.Error("Oturum tazelenemedi", zap.Uint("userID", userID), zap.Error(err))
		}
		c.Locals(LocalCurrentUser, user)
		return c.Next()
	}
}

// CurrentUser Locals'taki tazelenmiş kullanıcıyı döner; oturum yoksa nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	if user, ok := c.Locals(LocalCurrentUser).(*models.User); ok {
		return user
	}
	return nil
}
