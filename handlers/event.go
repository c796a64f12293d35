// handlers/event.go
package handlers

import (
	"meetup-matching-system/middleware"
	"meetup-matching-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupEventRoutes(
	app *fiber.App,
	eventService *services.EventService,
	participantService *services.ParticipantService,
	preferenceService *services.PreferenceService,
	matchingService *services.MatchingService,
) {
	// 🔓 Participant routes — capability token in query, no admin context
	app.Get("/api/events/:id/participants", participantService.ListParticipants)
	app.Get("/api/events/:id/preferences/form", preferenceService.GetPreferenceForm)
	app.Post("/api/events/:id/preferences", preferenceService.SubmitPreferences)
	app.Get("/api/events/:id/lookup", matchingService.Lookup)

	// Snapshot fallback — long cache, safe to put behind a CDN
	app.Get("/static/matching_results_:id.json", matchingService.ServeSnapshot)

	// 🔐 Admin routes
	admin := app.Group("/api/admin", middleware.AdminAuthMiddleware())

	admin.Post("/events", eventService.CreateEvent)
	admin.Get("/events", eventService.GetAllEvents)
	admin.Get("/events/:id", eventService.GetEventByID)
	admin.Put("/events/:id/config", eventService.UpdateEventConfig)
	admin.Delete("/events/:id", eventService.DeleteEvent)

	admin.Post("/events/:id/participants/import", participantService.ImportFromFile)
	admin.Post("/events/:id/participants/import-from-url", participantService.ImportFromURL)
	admin.Get("/events/:id/export/participants", participantService.ExportParticipants)
	admin.Get("/events/:id/export/matching", matchingService.ExportMatching)

	admin.Post("/events/:id/matching/score", matchingService.ScoreMatching)
	admin.Post("/events/:id/matching/approve", matchingService.ApproveMatching)
}
