// handlers/meetup.go
package handlers

import (
	"meetup-matching-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupMeetupRoutes(
	app *fiber.App,
	selectionService *services.SelectionService,
	meetupMatchingService *services.MeetupMatchingService,
	assignmentService *services.AssignmentService,
) {
	// Selections — the public form writes here, admin dashboard reads grouped
	app.Post("/api/meetup/selections", selectionService.SaveSelection)
	app.Get("/api/meetup/selections", selectionService.ListSelections)
	app.Delete("/api/meetup/selections", selectionService.DeleteSelection)
	app.Get("/api/meetup/selections/export", selectionService.ExportSelections)

	// Matching — recomputed live from selections + rosters
	app.Get("/api/meetup/matching", meetupMatchingService.GetMatching)

	// Assignments — versioned round/table plans
	app.Post("/api/meetup/assignments", assignmentService.ValidateAssignments)
	app.Post("/api/meetup/assignments/confirm", assignmentService.ConfirmAssignments)
	app.Post("/api/meetup/assignments/noshow", assignmentService.NoShow)
	app.Get("/api/meetup/assignments", assignmentService.GetAssignments)
	app.Get("/api/meetup/assignments/confirmed", assignmentService.GetConfirmedInfo)
	app.Delete("/api/meetup/assignments/confirmed", assignmentService.ResetAssignments)
}
