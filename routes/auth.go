package routes

import (
	"pcard.link/configs/configsapp"
	auth_handlers "pcard.link/handlers/auth"
	"pcard.link/middlewares"

	"github.com/gofiber/fiber/v2"
)

func registerAuthRoutes(app *fiber.App, cfg configsapp.Config) {
	authHandler := auth_handlers.NewAuthHandler(cfg)
	authGroup := app.Group("/auth")

	guestRoutes := authGroup.Group("", middlewares.Guest())
	guestRoutes.Get("/login", authHandler.ShowLogin)
	guestRoutes.Post("/login", authHandler.Login)
	guestRoutes.Get("/register", authHandler.ShowRegister)
	guestRoutes.Post("/register", authHandler.Register)

	authGroup.Get("/logout", authHandler.Logout)
	authGroup.Post("/logout", authHandler.Logout)

	protectedRoutes := authGroup.Group("", middlewares.Auth())
	protectedRoutes.Get("/password", authHandler.ShowChangePassword)
	protectedRoutes.Post("/password", authHandler.ChangePassword)
}
