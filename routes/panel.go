package routes

import (
	"pcard.link/configs/configsapp"
	panel_handlers "pcard.link/handlers/panel"
	"pcard.link/middlewares"

	"github.com/gofiber/fiber/v2"
)

// registerPanelRoutes /panel altındaki rotaları tanımlar; oturum gerekir.
func registerPanelRoutes(app *fiber.App, cfg configsapp.Config) {
	cardHandler := panel_handlers.NewPanelCardHandler(cfg)
	profileHandler := panel_handlers.NewPanelProfileHandler()

	panelGroup := app.Group("/panel", middlewares.Auth())

	panelGroup.Get("/", cardHandler.ListCards)
	panelGroup.Get("/cards/create", cardHandler.ShowCreateCard)
	panelGroup.Post("/cards/create", cardHandler.CreateCard)
	panelGroup.Get("/cards/update/:id", cardHandler.ShowUpdateCard)
	panelGroup.Post("/cards/update/:id", cardHandler.UpdateCard)
	panelGroup.Post("/cards/delete/:id", cardHandler.DeleteCard)

	panelGroup.Get("/profile", profileHandler.ShowProfile)
	panelGroup.Post("/profile", profileHandler.UpdateNickname)
}
