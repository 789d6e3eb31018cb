package handlers

import (
	"freestyle-backoffice/middleware"
	"freestyle-backoffice/services"

	"github.com/gofiber/fiber/v2"
)

func SetupChallengeRoutes(app *fiber.App, challengeService *services.ChallengeService, participationService *services.ParticipationService) {
	secured := app.Group("/", middleware.UserContextMiddleware())
	admin := secured.Group("/", middleware.RequireRole("admin"))

	// Challenge CRUD
	admin.Post("/challenges", challengeService.CreateChallenge)
	secured.Get("/seasons/:id/challenges", challengeService.GetChallengesForSeason)
	secured.Get("/challenges/:id", challengeService.GetChallengeByID)
	admin.Put("/challenges/:id", challengeService.UpdateChallenge)
	admin.Delete("/challenges/:id", challengeService.DeleteChallenge)
	admin.Post("/challenges/:id/official-video", challengeService.UploadOfficialVideo)

	// Lifecycle
	admin.Post("/challenges/:id/activate", challengeService.ActivateChallengeEndpoint)
	admin.Post("/challenges/:id/end", challengeService.EndChallengeEndpoint)
	admin.Post("/challenges/:id/reopen", challengeService.ReopenChallengeEndpoint)

	// Modes
	admin.Post("/challenges/:id/modes", challengeService.CreateModeEndpoint)
	admin.Put("/modes/:mode_id", challengeService.UpdateModeEndpoint)
	admin.Delete("/modes/:mode_id", challengeService.DeleteMode)
	admin.Post("/modes/:mode_id/demo-video", challengeService.UploadModeDemoVideo)

	// Participation review
	secured.Get("/participations", participationService.GetParticipations)
	admin.Post("/participations/:id/approve", participationService.ApproveParticipationEndpoint)
	admin.Post("/participations/:id/reject", participationService.RejectParticipationEndpoint)
	admin.Post("/seasons/:id/bonus-points", participationService.GrantBonusPointsEndpoint)
	secured.Get("/review-counts", participationService.GetPendingReviewCounts)

	// Suggestions
	secured.Get("/suggestions", challengeService.GetSuggestions)
	secured.Post("/suggestions", challengeService.CreateSuggestion)
	admin.Post("/suggestions/:id/adopt", challengeService.AdoptSuggestionEndpoint)
	admin.Post("/suggestions/:id/reject", challengeService.RejectSuggestion)
}
