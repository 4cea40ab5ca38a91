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
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/noah-isme/tcms-go-api/internal/config"
	"github.com/noah-isme/tcms-go-api/internal/database"
	"github.com/noah-isme/tcms-go-api/internal/handler"
	"github.com/noah-isme/tcms-go-api/internal/middleware"
	"github.com/noah-isme/tcms-go-api/internal/models"
	"github.com/noah-isme/tcms-go-api/internal/repository"
	"github.com/noah-isme/tcms-go-api/internal/router"
	"github.com/noah-isme/tcms-go-api/internal/service"
	cloud "github.com/noah-isme/tcms-go-api/pkg/cloudinary"
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

	if err := db.AutoMigrate(
		&models.User{},
		&models.StudentProfile{},
		&models.TeacherProfile{},
		&models.Assignment{},
		&models.Submission{},
		&models.AttendanceRecord{},
		&models.FeeRecord{},
		&models.Question{},
		&models.Material{},
		&models.Notification{},
		&models.ActivityLog{},
		&models.UploadRecord{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = nats.Connect(cfg.NATSURL)
		if err != nil {
			logger.Warn().Err(err).Msg("nats unavailable, cross-node notification fan-out disabled")
			natsConn = nil
		} else {
			defer natsConn.Drain()
		}
	}

	uploader, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create cloudinary client: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	feeRepo := repository.NewFeeRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	materialRepo := repository.NewMaterialRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)
	uploadRepo := repository.NewUploadRepository(db)

	notificationService := service.NewNotificationService(notificationRepo, redisClient, "tcms", natsConn, validate, logger)
	userService := service.NewUserService(userRepo, validate, logger)
	assignmentService := service.NewAssignmentService(assignmentRepo, submissionRepo, userRepo, validate, logger)
	performanceService := service.NewPerformanceService(submissionRepo, userRepo, redisClient, cfg.PerformanceCacheTTL, logger)
	submissionService := service.NewSubmissionService(submissionRepo, assignmentRepo, performanceService, validate, logger)
	attendanceService := service.NewAttendanceService(attendanceRepo, userRepo, validate, logger)
	feeService := service.NewFeeService(feeRepo, userRepo, cfg.FeeDefaultAmount, validate, logger)
	questionService := service.NewQuestionService(questionRepo, userRepo, notificationService, validate, logger)
	materialService := service.NewMaterialService(materialRepo, userRepo, validate, logger)
	activityService := service.NewActivityLogService(activityRepo, logger)
	uploadService := service.NewUploadService(uploader, uploadRepo, cfg.UploadMaxSizeMB, logger)

	runCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	notificationService.Start(runCtx)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		UserHandler:         handler.NewUserHandler(userService, activityService, logger),
		AssignmentHandler:   handler.NewAssignmentHandler(assignmentService, logger),
		SubmissionHandler:   handler.NewSubmissionHandler(submissionService, activityService, logger),
		AttendanceHandler:   handler.NewAttendanceHandler(attendanceService, activityService, logger),
		FeeHandler:          handler.NewFeeHandler(feeService, activityService, logger),
		MaterialHandler:     handler.NewMaterialHandler(materialService, activityService, logger),
		QuestionHandler:     handler.NewQuestionHandler(questionService, logger),
		PerformanceHandler:  handler.NewPerformanceHandler(performanceService, logger),
		NotificationHandler: handler.NewNotificationHandler(notificationService, logger, 60*time.Second),
		UploadHandler:       handler.NewUploadHandler(uploadService, logger),
		ActivityHandler:     handler.NewActivityHandler(activityService, logger),
		JWTMiddleware:       middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app, cancel)
}

func waitForShutdown(app *fiber.App, cancel context.CancelFunc) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()
	cancel()

	ctx, cancelTimeout := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelTimeout()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
