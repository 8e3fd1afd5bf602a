package routes

import (
	"pcard.link/configs/configsapp"
	admin_handlers "pcard.link/handlers/admin"
	"pcard.link/middlewares"

	"github.com/gofiber/fiber/v2"
)

// registerAdminRoutes /admin altındaki rotaları tanımlar. Yetkisiz erişim
// yönlendirilmez, RequireAdmin 403 döndürür.
func registerAdminRoutes(app *fiber.App, cfg configsapp.Config) {
	homeHandler := admin_handlers.NewAdminHomeHandler()
	userHandler := admin_handlers.NewAdminUserHandler()
	cardHandler := admin_handlers.NewAdminCardHandler(cfg)
	commentHandler := admin_handlers.NewAdminCommentHandler()

	adminGroup := app.Group("/admin", middlewares.RequireAdmin())

	adminGroup.Get("/", homeHandler.Home)

	adminGroup.Get("/users", userHandler.ListUsers)
	adminGroup.Get("/users/export", userHandler.ExportCSV)
	adminGroup.Post("/users/role/:id", userHandler.UpdateRole)
	adminGroup.Post("/users/status/:id", userHandler.UpdateStatus)
	adminGroup.Post("/users/nickname/:id", userHandler.UpdateNickname)
	adminGroup.Post("/users/delete/:id", userHandler.DeleteUser)
	adminGroup.Post("/users/batch/ban", userHandler.BanBatch)
	adminGroup.Post("/users/batch/delete", userHandler.DeleteBatch)

	adminGroup.Get("/cards", cardHandler.ListCards)
	adminGroup.Get("/cards/export", cardHandler.ExportCSV)
	adminGroup.Post("/cards/delete/:id", cardHandler.DeleteCard)
	adminGroup.Post("/cards/batch/delete", cardHandler.DeleteBatch)
	adminGroup.Post("/cards/batch/visibility", cardHandler.UpdateVisibilityBatch)

	adminGroup.Get("/comments", commentHandler.ListComments)
	adminGroup.Post("/comments/delete/:id", commentHandler.DeleteComment)
}
