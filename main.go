package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"mialtar/internal/handlers"
	"mialtar/internal/middleware"
	"mialtar/internal/models"
	"mialtar/internal/repositories"
	"mialtar/internal/services"
	"mialtar/pkg/mailer"
	"mialtar/pkg/mailqueue"
)

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":4000")
	viper.SetDefault("JWT_SECRET", "change_me_in_production")
	viper.SetDefault("SMTP_PORT", "465")
	viper.SetDefault("SMTP_FALLBACK_PORT", "587")
	viper.SetDefault("EMAIL_FROM", "no-reply@mialtar.com")
	viper.SetDefault("FRONTEND_URL", "http://localhost:5173")
	viper.AutomaticEnv() // Load environment variables

	appPort := viper.GetString("APP_PORT")
	frontendURL := viper.GetString("FRONTEND_URL")

	// --- Database ---
	db, err := openDatabase(viper.GetString("DATABASE_DSN"))
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.AltarStyle{},
		&models.Offering{},
		&models.SharedAltar{},
		&models.SharedStory{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- Mail delivery ---
	smtpMailer := mailer.New(mailer.Config{
		Host:         viper.GetString("SMTP_HOST"),
		Port:         viper.GetString("SMTP_PORT"),
		FallbackHost: viper.GetString("SMTP_FALLBACK_HOST"),
		FallbackPort: viper.GetString("SMTP_FALLBACK_PORT"),
		Username:     viper.GetString("SMTP_USER"),
		Password:     viper.GetString("SMTP_PASS"),
		From:         viper.GetString("EMAIL_FROM"),
	})
	var resetMailer services.MailSender
	if smtpMailer.Enabled() {
		resetMailer = smtpMailer
	} else {
		log.Println("SMTP is not configured; outbound email is disabled")
	}

	// Notification mail goes through RabbitMQ when available so requests
	// never wait on the mail relay; without a broker the notifier falls back
	// to best-effort background sends.
	var mailQueue services.MailQueue
	var queueClient *mailqueue.Client
	if url := viper.GetString("RABBITMQ_URL"); url != "" {
		queueClient, err = mailqueue.NewClient(mailqueue.Config{URL: url})
		if err != nil {
			log.Fatalf("Failed to initialize mail queue client: %v", err)
		}
		defer queueClient.Close()
		mailQueue = queueClient

		consumeErr := queueClient.Consume(func(msg mailqueue.Message) error {
			// Without SMTP the message can never be delivered; acking it
			// with a log beats bouncing it around the queue forever.
			if !smtpMailer.Enabled() {
				log.Printf("Skipping queued mail to %s: SMTP is not configured", msg.To)
				return nil
			}
			return smtpMailer.Send(msg.To, msg.Subject, msg.HTML)
		})
		if consumeErr != nil {
			log.Printf("Failed to start mail queue consumer: %v", consumeErr)
		}
	}
	notifier := services.NewNotifier(mailQueue, resetMailer)

	// --- Initialize Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	sessionRepo := repositories.NewGORMSessionRepository(db)
	styleRepo := repositories.NewGORMAltarStyleRepository(db)
	offeringRepo := repositories.NewGORMOfferingRepository(db)
	sharingRepo := repositories.NewGORMSharingRepository(db)

	seedAdmin(userRepo)

	// --- Initialize Services ---
	authService := services.NewAuthService(userRepo, notifier, resetMailer, viper.GetString("JWT_SECRET"), frontendURL)
	sessionService := services.NewSessionService(sessionRepo, userRepo, notifier)
	styleService := services.NewAltarStyleService(styleRepo)
	offeringService := services.NewOfferingService(offeringRepo)
	sharingService := services.NewSharingService(sharingRepo, sessionRepo)
	adminService := services.NewAdminService(userRepo, sessionRepo, resetMailer)

	// --- Initialize Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	styleHandler := handlers.NewAltarStyleHandler(styleService)
	offeringHandler := handlers.NewOfferingHandler(offeringService)
	sharingHandler := handlers.NewSharingHandler(sharingService)
	adminHandler := handlers.NewAdminHandler(adminService)

	// --- Initialize Fiber App ---
	app := fiber.New(fiber.Config{
		BodyLimit: 5 * 1024 * 1024, // Session items can carry data-URI images
	})

	// --- Middleware ---
	app.Use(logger.New()) // Request logger
	app.Use(cors.New(cors.Config{
		AllowOrigins: frontendURL,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	authRequired := middleware.AuthRequired(authService)
	adminRequired := middleware.AdminRequired()
	// Visitors hit the public altar routes without a token; keep them from
	// hammering the view counter or the story form.
	publicRateLimit := limiter.New(limiter.Config{
		Max:        60,
		Expiration: time.Minute,
	})

	// --- API Routes ---
	authHandler.RegisterRoutes(app, authRequired)
	adminHandler.RegisterRoutes(app, authRequired, adminRequired)

	protected := app.Group("", authRequired)
	sessionHandler.RegisterRoutes(protected)
	styleHandler.RegisterRoutes(protected)
	offeringHandler.RegisterRoutes(protected, adminRequired)

	api := app.Group("/api")
	sharingHandler.RegisterRoutes(api, authRequired, publicRateLimit)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}

// openDatabase connects to postgres when a DSN is configured, otherwise a
// local sqlite file. TranslateError makes unique index violations surface as
// gorm.ErrDuplicatedKey, which the repositories rely on for conflict checks.
func openDatabase(dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{TranslateError: true}
	if dsn != "" {
		return gorm.Open(postgres.Open(dsn), cfg)
	}
	return gorm.Open(sqlite.Open("mialtar.db"), cfg)
}

// seedAdmin creates the configured admin account if it does not exist yet.
// Registration never grants the admin role, so this is the only way in.
func seedAdmin(repo repositories.UserRepository) {
	username := viper.GetString("ADMIN_USERNAME")
	password := viper.GetString("ADMIN_PASSWORD")
	if username == "" || password == "" {
		return
	}

	if _, err := repo.GetByUsername(username); err == nil {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Error hashing admin password: %v", err)
		return
	}
	admin := &models.User{
		Username: username,
		Email:    viper.GetString("ADMIN_EMAIL"),
		Password: string(hash),
		Role:     models.RoleAdmin,
	}
	if err := repo.Create(admin); err != nil {
		log.Printf("Error seeding admin user %s: %v", username, err)
	} else {
		log.Printf("Seeded admin user: %s", username)
	}
}
