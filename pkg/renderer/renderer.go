package renderer

import (
	"github.com/gofiber/fiber/v2"

	"pcard.link/pkg/flashmessages"
)

// View veri anahtarları.
const (
	FlashSuccessKeyView = "Success"
	FlashErrorKeyView   = "Error"
)

// SetFlashMessages flash verisini render datasına taşır.
func SetFlashMessages(data fiber.Map, flash flashmessages.FlashData) {
	if flash.Success != "" {
		data[FlashSuccessKeyView] = flash.Success
	}
	if flash.Error != "" {
		data[FlashErrorKeyView] = flash.Error
	}
}

// Render ortak layout ile view render eder; status verilmezse 200 kullanılır.
func Render(c *fiber.Ctx, view, layout string, data fiber.Map, status ...int) error {
	code := fiber.StatusOK
	if len(status) > 0 {
		code = status[0]
	}
	if layout == "" {
		return c.Status(code).Render(view, data)
	}
	return c.Status(code).Render(view, data, layout)
}
