package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"freestyle-backoffice/handlers"
	"freestyle-backoffice/middleware"
	"freestyle-backoffice/models"
	"freestyle-backoffice/services"
	"freestyle-backoffice/utils"
	"freestyle-backoffice/workers"

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
		BodyLimit: 512 * 1024 * 1024, // 512MB — challenge and tip videos
	})

	// Only Gateway requests allowed — no exceptions
	app.Use(middleware.GatewayAuthMiddleware())

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		log.Println("⚠️  ALLOWED_ORIGINS not set, using default: http://localhost:3000")
		allowedOrigins = "http://localhost:3000"
	}
	origins := strings.Split(allowedOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(origins, ","),
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, X-User-ID, X-User-Roles",
		ExposeHeaders:    "Content-Length, Content-Type, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	if err := utils.InitStorage(); err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Season{},
		&models.WeeklyChallenge{},
		&models.ChallengeMode{},
		&models.UserParticipation{},
		&models.PointEntry{},
		&models.SeasonLeaderboard{},
		&models.HonorType{},
		&models.UserHonor{},
		&models.UserSuggestion{},
		&models.Move{},
		&models.MoveCategory{},
		&models.MoveTag{},
		&models.TipVideo{},
		&models.CommunityVideo{},
		&models.Notification{},
		&models.ReviewDigest{},
		&models.PlatformUser{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	seasonService := services.NewSeasonService(db)
	challengeService := services.NewChallengeService(db)
	participationService := services.NewParticipationService(db)
	honorService := services.NewHonorService(db)
	moveService := services.NewMoveService(db)
	moderationService := services.NewModerationService(db)
	userService := services.NewUserService(db)

	if err := honorService.EnsureDefaultHonorTypes(); err != nil {
		log.Fatal("failed to seed honor types:", err)
	}

	relay := services.NewPushRelayClient(os.Getenv("PUSH_RELAY_URL"), os.Getenv("PUSH_RELAY_TOKEN"))
	notificationService := services.NewNotificationService(db, relay)

	profileServiceURL := os.Getenv("PROFILE_SERVICE_URL")
	if profileServiceURL == "" {
		log.Fatal("PROFILE_SERVICE_URL environment variable not set")
	}
	serviceToken := os.Getenv("BACKOFFICE_SERVICE_TOKEN")
	if serviceToken == "" {
		log.Fatal("BACKOFFICE_SERVICE_TOKEN environment variable not set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	syncWorker := workers.NewUserSyncWorker(db, profileServiceURL, "/api/v1/public/profiles", serviceToken)
	syncWorker.Start(ctx)

	digestInterval := 24 * time.Hour
	if v := os.Getenv("REVIEW_DIGEST_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			digestInterval = d
		} else {
			log.Printf("⚠️  Invalid REVIEW_DIGEST_INTERVAL %q, using default 24h", v)
		}
	}
	notificationService.StartReviewDigestScheduler(digestInterval)

	handlers.SetupSeasonRoutes(app, seasonService, honorService)
	handlers.SetupChallengeRoutes(app, challengeService, participationService)
	handlers.SetupContentRoutes(app, moveService)
	handlers.SetupModerationRoutes(app, moderationService, userService, honorService)
	handlers.SetupNotificationRoutes(app, notificationService)

	go func() {
		if err := app.Listen(":5300"); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Println("✅ Back-office running on http://localhost:5300")
	log.Println("✅ User Sync Worker running")
	log.Printf("✅ Review digest scheduled every %s", digestInterval)
	log.Println("✅ GatewayAuthMiddleware enforced globally — all requests must come from Gateway")

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
