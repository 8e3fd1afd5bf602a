package routes

import (
	"pcard.link/configs/configsapp"
	"pcard.link/configs/configssession"
	"pcard.link/middlewares"
	"pcard.link/pkg/ratecounter"
	"pcard.link/repositories"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	recoverMiddleware "github.com/gofiber/fiber/v2/middleware/recover"
)

// SetupRoutes tüm uygulama rotalarını ve gate zincirini ayarlar.
// Zincir sırası sabittir: Cloudflare başlık çözümü istemci IP'sini verir,
// rate limit o IP üzerinden sayar, güvenlik/cache başlıkları yanıtı süsler,
// auth refresh oturum kullanıcısını tazeler.
func SetupRoutes(app *fiber.App, cfg configsapp.Config, table *ratecounter.Table) {
	app.Use(recoverMiddleware.New())
	app.Use(logger.New())
	app.Use(initializeSessionAndLocals())

	app.Use(middlewares.Cloudflare(cfg))
	app.Use(middlewares.RateLimit(cfg, table))
	app.Use(middlewares.SecurityHeaders())
	app.Use(middlewares.StaticCache())
	app.Use(middlewares.AuthRefresh(repositories.NewUserRepository()))

	app.Static("/static", "./static")
	app.Static("/uploads", cfg.UploadDir)

	registerAuthRoutes(app, cfg)
	registerPanelRoutes(app, cfg)
	registerAdminRoutes(app, cfg)

	// Public rotalar en sonda; /card ve /s önekleri diğer gruplarla çakışmaz.
	registerPublicRoutes(app)

	app.Use(notFoundHandler)
}

// initializeSessionAndLocals session store'u Locals'a koyar ki zincirin
// geri kalanı ve handler'lar aynı store üzerinden çalışsın.
func initializeSessionAndLocals() fiber.Handler {
	sessionStore := configssession.SetupSession()
	return func(c *fiber.Ctx) error {
		c.Locals("session_store", sessionStore)
		return c.Next()
	}
}

func notFoundHandler(c *fiber.Ctx) error {
	accepts := c.Accepts("application/json", "text/html")
	switch accepts {
	case "application/json":
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Kaynak bulunamadı"})
	default:
		return c.Status(fiber.StatusNotFound).Render("errors/404", fiber.Map{"Title": "Sayfa Bulunamadı"}, "layouts/error_layout")
	}
}
