package middlewares

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const (
	uploadsCacheControl = "public, max-age=2592000"             // 30 gün
	assetsCacheControl  = "public, max-age=31536000, immutable" // 1 yıl
)

// StaticCache statik içerik için cache başlıklarını ayarlar. Yüklenen
// görseller 30 gün, parmak izli css/js varlıkları 1 yıl önbelleklenir.
func StaticCache() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		path := c.Path()
		switch {
		case strings.HasPrefix(path, "/uploads/"):
			c.Set(fiber.HeaderCacheControl, uploadsCacheControl)
		case strings.HasSuffix(path, ".css") || strings.HasSuffix(path, ".js"):
			c.Set(fiber.HeaderCacheControl, assetsCacheControl)
			c.Set(fiber.HeaderVary, "Accept-Encoding")
		}

		return err
	}
}
