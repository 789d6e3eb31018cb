package handlers

import (
	"freestyle-backoffice/middleware"
	"freestyle-backoffice/services"

	"github.com/gofiber/fiber/v2"
)

func SetupModerationRoutes(app *fiber.App, moderationService *services.ModerationService, userService *services.UserService, honorService *services.HonorService) {
	secured := app.Group("/", middleware.UserContextMiddleware())
	admin := secured.Group("/", middleware.RequireRole("admin"))

	// Tip videos (staff content)
	admin.Post("/tips", moderationService.CreateTipVideo)
	secured.Get("/tips", moderationService.GetTipVideos)
	admin.Patch("/tips/:id/status", moderationService.UpdateTipVideoStatus)
	admin.Delete("/tips/:id", moderationService.DeleteTipVideo)

	// Community video moderation
	secured.Get("/community-videos", moderationService.GetCommunityVideos)
	admin.Post("/community-videos/:id/approve", moderationService.ApproveCommunityVideo)
	admin.Post("/community-videos/:id/reject", moderationService.RejectCommunityVideo)

	// User management
	secured.Get("/users", userService.GetUsers)
	secured.Get("/users/search", userService.SearchUsers)
	secured.Get("/users/:user_id", userService.GetUserByID)
	secured.Get("/users/:user_id/honors", honorService.GetUserHonors)
	admin.Patch("/users/:user_id/ban", userService.SetUserBanned)
	admin.Patch("/users/:user_id/unlock-count", userService.SetUnlockCountEndpoint)
}
