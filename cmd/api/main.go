package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/vivekjindal24/university-erp/internal/config"
	"github.com/vivekjindal24/university-erp/internal/database"
	"github.com/vivekjindal24/university-erp/internal/handler"
	"github.com/vivekjindal24/university-erp/internal/middleware"
	"github.com/vivekjindal24/university-erp/internal/models"
	"github.com/vivekjindal24/university-erp/internal/repository"
	"github.com/vivekjindal24/university-erp/internal/router"
	"github.com/vivekjindal24/university-erp/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.Applicant{}, &models.Program{}, &models.AdmissionCycle{}, &models.Application{}, &models.AdmissionFee{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	var events service.EventPublisher
	if cfg.NATSURL != "" {
		natsConn, err := database.ConnectNATS(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
		events = service.NewNATSEventPublisher(natsConn, cfg.EventSubjectBase, logger)
	}

	var notifier service.Notifier
	if cfg.SendgridAPIKey != "" {
		notifier = service.NewSendgridNotifier(cfg.SendgridAPIKey, cfg.FromEmailName, cfg.FromEmailAddress, cfg.AppName, logger)
	} else {
		notifier = service.NewLogNotifier(logger)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	admissionService := service.NewAdmissionService(service.AdmissionServiceDeps{
		Applications:  repository.NewApplicationRepository(db),
		Applicants:    repository.NewApplicantRepository(db),
		Fees:          repository.NewAdmissionFeeRepository(db),
		Cycles:        repository.NewAdmissionCycleRepository(db),
		Cache:         redisClient,
		CacheTTL:      cfg.PortalCacheTTL,
		Validator:     validate,
		Notifier:      notifier,
		Renderer:      service.NewPDFRenderer(cfg.UniversityName),
		Events:        events,
		NotifyTimeout: cfg.NotifyTimeout,
	}, logger)

	admissionHandler := handler.NewAdmissionHandler(admissionService, logger)
	portalHandler := handler.NewPortalHandler(admissionService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AdmissionHandler: admissionHandler,
		PortalHandler:    portalHandler,
		JWTMiddleware:    middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
