package main

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"pcard.link/configs/configsapp"
	"pcard.link/configs/configsdatabase"
	"pcard.link/configs/configslog"
	"pcard.link/pkg/ratecounter"
	"pcard.link/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// .env dosyası opsiyonel; production'da değişkenler ortamdan gelir.
	_ = godotenv.Load()

	configslog.InitLogger()
	defer configslog.SyncLogger()

	cfg := configsapp.Load()

	configsdatabase.InitDB()
	defer configsdatabase.CloseDB()

	engine := html.New("./views", ".html")
	engine.Reload(!cfg.Production)

	app := fiber.New(fiber.Config{
		Views:        engine,
		ErrorHandler: errorHandler,
		BodyLimit:    10 << 20, // görsel yüklemeleri için
	})

	// Pencere sayaçları; süpürücü eski girdileri bellekten atar.
	rateTable := ratecounter.NewTable(cfg.RateWindow)
	rateTable.StartSweeper(cfg.SweepInterval)
	defer rateTable.Stop()

	routes.SetupRoutes(app, cfg, rateTable)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		configslog.SLog.Info("Kapatma sinyali alındı, sunucu durduruluyor...")
		if err := app.Shutdown(); err != nil {
			configslog.Log.Error("Sunucu kapatılırken hata oluştu", zap.Error(err))
		}
	}()

	addr := ":" + envOr("PORT", "3000")
	configslog.SLog.Infof("Sunucu %s adresinde dinliyor", addr)
	if err := app.Listen(addr); err != nil {
		configslog.Log.Fatal("Sunucu başlatılamadı", zap.Error(err))
	}
}

// errorHandler beklenmeyen hataları loglar ve işlenmiş fiber hatalarının
// durum kodunu korur. Yanıt gövdesi hata detayı sızdırmaz.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Sunucu hatası oluştu"

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		message = fiberErr.Message
	}

	if code >= fiber.StatusInternalServerError {
		configslog.Log.Error("İstek işlenirken hata oluştu",
			zap.String("method", c.Method()),
			zap.String("path", c.OriginalURL()),
			zap.Error(err))
	}

	accepts := c.Accepts("application/json", "text/html")
	if accepts == "application/json" {
		return c.Status(code).JSON(fiber.Map{"error": message})
	}
	if renderErr := c.Status(code).Render("errors/error", fiber.Map{
		"Title":   "Hata",
		"Code":    code,
		"Message": message,
	}, "layouts/error_layout"); renderErr != nil {
		return c.Status(code).SendString(message)
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
