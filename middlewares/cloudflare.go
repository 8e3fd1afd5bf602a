package middlewares

import (
	"strconv"
	"strings"

	"pcard.link/configs/configsapp"
	"pcard.link/configs/configslog"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Cloudflare proxy başlıkları.
const (
	headerCFConnectingIP = "CF-Connecting-IP"
	headerCFCountry      = "CF-IPCountry"
	headerCFRay          = "CF-Ray"
	headerCFBotScore     = "CF-Bot-Management-Score"
	headerCFVisitor      = "CF-Visitor"
)

// Bot skoru kontrolünün uygulandığı yol önekleri.
var botProtectedPrefixes = []string{
	"/auth/login",
	"/auth/register",
	"/card",
	"/comment",
	"/admin",
}

func isBotProtectedPath(path string) bool {
	for _, prefix := range botProtectedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// Cloudflare proxy başlıklarını çözer: gerçek istemci IP'si, ülke kodu ve
// ray ID Locals'a yazılır; proxy HTTPS sonlandırdıysa istek güvenli işaretlenir.
// Korunan yollarda düşük bot skoru isteği 403 ile keser.
func Cloudflare(cfg configsapp.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		clientIP := c.Get(headerCFConnectingIP)
		if clientIP == "" {
			clientIP = c.IP()
			if cfg.Production {
				configslog.Log.Warn("CF-Connecting-IP başlığı yok, doğrudan IP kullanılıyor",
					zap.String("ip", clientIP), zap.String("path", c.Path()))
			}
		}
		c.Locals(LocalClientIP, clientIP)

		if country := c.Get(headerCFCountry); country != "" {
			c.Locals(LocalClientCountry, country)
		}
		if ray := c.Get(headerCFRay); ray != "" {
			c.Locals(LocalCFRay, ray)
		}

		// Proxy arkasında gerçek şemayı X-Forwarded-Proto veya CF-Visitor verir.
		secure := c.Secure() ||
			c.Get(fiber.HeaderXForwardedProto) == "https" ||
			strings.Contains(c.Get(headerCFVisitor), `"https"`)
		c.Locals(LocalSecure, secure)

		if rawScore := c.Get(headerCFBotScore); rawScore != "" && isBotProtectedPath(c.Path()) {
			score, err := strconv.Atoi(rawScore)
			if err == nil && score > 0 && score < cfg.BotScoreThreshold {
				configslog.Log.Warn("Düşük bot skoru, istek reddedildi",
					zap.Int("score", score), zap.String("ip", clientIP),
					zap.String("path", c.Path()))
				return c.Status(fiber.StatusForbidden).
					JSON(fiber.Map{"error": "Bot detected. Access denied."})
			}
		}

		return c.Next()
	}
}

// ClientIP Locals'taki çözülmüş istemci IP'sini döner; yoksa c.IP().
func ClientIP(c *fiber.Ctx) string {
	if ip, ok := c.Locals(LocalClientIP).(string); ok && ip != "" {
		return ip
	}
	return c.IP()
}

// IsSecureRequest isteğin HTTPS üzerinden geldiğini söyler (proxy dahil).
func IsSecureRequest(c *fiber.Ctx) bool {
	if secure, ok := c.Locals(LocalSecure).(bool); ok {
		return secure
	}
	return c.Secure()
}
