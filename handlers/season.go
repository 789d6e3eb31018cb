package handlers

import (
	"freestyle-backoffice/middleware"
	"freestyle-backoffice/services"

	"github.com/gofiber/fiber/v2"
)

func SetupSeasonRoutes(app *fiber.App, seasonService *services.SeasonService, honorService *services.HonorService) {
	secured := app.Group("/", middleware.UserContextMiddleware())
	admin := secured.Group("/", middleware.RequireRole("admin"))

	// Season CRUD
	admin.Post("/seasons", seasonService.CreateSeason)
	secured.Get("/seasons", seasonService.GetAllSeasons)
	secured.Get("/seasons/:id", seasonService.GetSeasonByID)
	admin.Put("/seasons/:id", seasonService.UpdateSeason)
	admin.Delete("/seasons/:id", seasonService.DeleteSeason)

	// Lifecycle
	admin.Post("/seasons/:id/end", seasonService.EndSeasonEndpoint)
	admin.Post("/seasons/:id/reopen", seasonService.ReopenSeasonEndpoint)
	admin.Post("/seasons/:id/finalize", seasonService.FinalizeSeasonEndpoint)
	admin.Post("/seasons/:id/resettle", seasonService.ResettleSeasonEndpoint)

	// Standings and honors
	secured.Get("/seasons/:id/leaderboard", seasonService.GetSeasonLeaderboard)
	secured.Get("/seasons/:id/honors", honorService.GetHonorsForSeason)

	// Honor type config (achievements screens)
	secured.Get("/honor-types", honorService.GetAllHonorTypes)
	admin.Post("/honor-types", honorService.CreateHonorType)
	admin.Put("/honor-types/:id", honorService.UpdateHonorType)
	admin.Delete("/honor-types/:id", honorService.DeleteHonorType)
}
