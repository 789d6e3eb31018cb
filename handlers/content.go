package handlers

import (
	"freestyle-backoffice/middleware"
	"freestyle-backoffice/services"

	"github.com/gofiber/fiber/v2"
)

func SetupContentRoutes(app *fiber.App, moveService *services.MoveService) {
	secured := app.Group("/", middleware.UserContextMiddleware())
	admin := secured.Group("/", middleware.RequireRole("admin"))

	// Move catalog
	admin.Post("/moves", moveService.CreateMove)
	secured.Get("/moves", moveService.GetMoves)
	secured.Get("/moves/:id", moveService.GetMoveByID)
	admin.Put("/moves/:id", moveService.UpdateMove)
	admin.Delete("/moves/:id", moveService.DeleteMove)

	// Categories
	admin.Post("/categories", moveService.CreateCategory)
	secured.Get("/categories", moveService.GetCategories)
	admin.Put("/categories/:id", moveService.UpdateCategory)
	admin.Delete("/categories/:id", moveService.DeleteCategory)

	// Tags
	admin.Post("/tags", moveService.CreateTag)
	secured.Get("/tags", moveService.GetTags)
	admin.Delete("/tags/:id", moveService.DeleteTag)
}
