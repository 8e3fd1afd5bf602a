package middlewares

import (
	"strconv"
	"strings"
	"time"

	"pcard.link/configs/configsapp"
	"pcard.link/configs/configslog"
	"pcard.link/pkg/challengegate"
	"pcard.link/pkg/ratecounter"
	"pcard.link/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// İstek kategorileri; her kategorinin kendi limiti ve challenge eşiği var.
const (
	categoryLogin    = "login"
	categoryRegister = "register"
	categoryAPI      = "api"
	categoryDefault  = "default"
)

var staticExtensions = []string{
	".css", ".js", ".png", ".jpg", ".jpeg", ".gif", ".svg",
	".ico", ".webp", ".woff", ".woff2", ".map",
}

func isStaticPath(path string) bool {
	if strings.HasPrefix(path, "/static/") || strings.HasPrefix(path, "/uploads/") {
		return true
	}
	for _, ext := range staticExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

func categorize(path string) string {
	switch {
	case strings.HasPrefix(path, "/auth/login"):
		return categoryLogin
	case strings.HasPrefix(path, "/auth/register"):
		return categoryRegister
	case strings.HasPrefix(path, "/api/"),
		strings.HasPrefix(path, "/card"),
		strings.HasPrefix(path, "/comment"),
		strings.HasPrefix(path, "/s/"):
		return categoryAPI
	default:
		return categoryDefault
	}
}

func ruleFor(cfg configsapp.Config, category string) configsapp.RateRule {
	switch category {
	case categoryLogin:
		return cfg.RateLogin
	case categoryRegister:
		return cfg.RateRegister
	case categoryAPI:
		return cfg.RateAPI
	default:
		return cfg.RateDefault
	}
}

// RateLimit IP+kategori başına sabit pencereli sayaç tutar. Sayaç challenge
// eşiğine ulaşınca oturum challenge moduna alınır; limit aşılırsa istek
// 429 ve Retry-After ile kesilir. Statik içerik sayılmaz.
func RateLimit(cfg configsapp.Config, table *ratecounter.Table) fiber.Handler {
	retryAfter := strconv.Itoa(int(table.Window().Seconds()))

	return func(c *fiber.Ctx) error {
		path := c.Path()
		if isStaticPath(path) {
			return c.Next()
		}

		category := categorize(path)
		rule := ruleFor(cfg, category)
		key := ClientIP(c) + "|" + category
		count := table.Increment(key, time.Now())

		if count > rule.Limit {
			configslog.Log.Warn("İstek limiti aşıldı",
				zap.String("key", key), zap.Int("count", count), zap.Int("limit", rule.Limit))
			c.Set(fiber.HeaderRetryAfter, retryAfter)
			return c.Status(fiber.StatusTooManyRequests).
				JSON(fiber.Map{"error": "Too many requests. Please try again later."})
		}

		// Eşik aşıldıysa limite kadar istek akmaya devam eder ama oturum
		// challenge moduna geçer; doğrulamayı hassas uçlar uygular.
		if count >= rule.Trigger {
			if sess, err := utils.SessionStart(c); err == nil {
				challengegate.RequireFor(sess, cfg.ChallengeCooldown)
				if saveErr := sess.Save(); saveErr != nil {
					configslog.Log.Error("Challenge oturumu kaydedilemedi", zap.Error(saveErr))
				}
			}
		}

		return c.Next()
	}
}
