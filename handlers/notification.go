package handlers

import (
	"freestyle-backoffice/middleware"
	"freestyle-backoffice/services"

	"github.com/gofiber/fiber/v2"
)

func SetupNotificationRoutes(app *fiber.App, notificationService *services.NotificationService) {
	secured := app.Group("/", middleware.UserContextMiddleware())
	admin := secured.Group("/", middleware.RequireRole("admin"))

	admin.Post("/notifications", notificationService.CreateNotification)
	secured.Get("/notifications", notificationService.GetNotifications)
	admin.Put("/notifications/:id", notificationService.UpdateNotification)
	admin.Post("/notifications/:id/send", notificationService.SendNotification)
	admin.Delete("/notifications/:id", notificationService.DeleteNotification)
}
