package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"meetup-matching-system/handlers"
	"meetup-matching-system/models"
	"meetup-matching-system/services"
	"meetup-matching-system/utils"
	"meetup-matching-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 20 * 1024 * 1024, // CSV imports stay small
	})

	// Load allowed origins from environment variable
	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, X-Admin-Email",
		ExposeHeaders:    "Content-Length, Content-Type, Content-Disposition",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	snapshotEnabled, err := utils.InitSnapshotStore()
	if err != nil {
		log.Fatal("failed to initialize snapshot store:", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Event{},
		&models.Participant{},
		&models.Preference{},
		&models.MatchingResult{},
		&models.Selection{},
		&models.AssignmentVersion{},
		&models.Assignment{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	rosterService := services.NewRosterService()
	eventService := services.NewEventService(db)
	participantService := services.NewParticipantService(db)
	preferenceService := services.NewPreferenceService(db, participantService)
	matchingService := services.NewMatchingService(db, preferenceService)
	selectionService := services.NewSelectionService(db, rosterService)
	meetupMatchingService := services.NewMeetupMatchingService(db, rosterService)
	assignmentService := services.NewAssignmentService(db)

	workers.StartRosterSyncWorker(rosterService)

	handlers.SetupEventRoutes(app, eventService, participantService, preferenceService, matchingService)
	handlers.SetupMeetupRoutes(app, selectionService, meetupMatchingService, assignmentService)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	port := os.Getenv("PORT")
	if port == "" {
		port = "5300"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Printf("✅ Snapshot uploads enabled: %t", snapshotEnabled)
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
	_ = app.Shutdown()
}
