package routes

import (
	public_handlers "pcard.link/handlers/public"
	"pcard.link/middlewares"

	"github.com/gofiber/fiber/v2"
)

// registerPublicRoutes oturumsuz erişilebilen kart rotalarını tanımlar.
// Yorum yazma oturum ister ama görüntüleme görünürlük kuralına tabidir.
func registerPublicRoutes(app *fiber.App) {
	cardHandler := public_handlers.NewPublicCardHandler()
	commentHandler := public_handlers.NewPublicCommentHandler()

	app.Get("/", cardHandler.Home)
	app.Get("/card/:linkID", cardHandler.ViewCard)
	app.Get("/s/:code", cardHandler.ShortLink)

	app.Post("/comment/:cardID", middlewares.Auth(), commentHandler.AddComment)
	app.Post("/comment/delete/:id", middlewares.Auth(), commentHandler.DeleteComment)
}
