package main

import (
	"context"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/api/handlers"
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/api/routes"
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/domain/analytics"
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/domain/assignment"
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/domain/audit"
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/domain/completion"
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/domain/notification"
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/domain/roles"
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/domain/task"
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/infrastructure/cache"
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/infrastructure/persistence/postgres/connection"
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/infrastructure/persistence/postgres/migrations"
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/internal/infrastructure/scheduler"
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/pkg/config"
	"github.com/Special-Olympics-Ireland/SOI-Volunteer-Management-System-sub002/pkg/logger"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
)

// RequestLoggerMiddleware logs all incoming HTTP requests
func RequestLoggerMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		log.Info("Request completed",
			zap.String("path", path),
			zap.String("method", method),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func main() {
	cfg, err := config.LoadConfig("")
	if err != nil {
		stdlog.Fatalf("Failed to load configuration: %v", err)
	}

	log := logger.NewLoggerWithLevel(cfg.Logging.Level)
	defer log.Sync()

	log.Info("Configuration loaded successfully")
	log.Info("Server mode: " + cfg.Server.Mode)

	if cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	gin.DefaultWriter = os.Stdout

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLoggerMiddleware(log))
	router.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORS.AllowedOrigins,
		AllowMethods: cfg.CORS.AllowedMethods,
		AllowHeaders: append(cfg.CORS.AllowedHeaders,
			"Accept-Encoding",
			"Content-Type",
			"Authorization",
		),
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	// Connect to database
	db, err := connection.NewDatabase(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if err := migrations.AutoMigrate(db, log.Logger); err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Initialize Redis. The engine keeps working without it; events and
	// cache invalidation are skipped.
	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Warn("Redis unavailable, continuing without event publishing", zap.Error(err))
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	// Initialize logrus logger for the notification path
	notifyLogger := logrus.New()
	notifyLogger.SetFormatter(&logrus.JSONFormatter{})
	if cfg.Server.Mode == "production" {
		notifyLogger.SetLevel(logrus.InfoLevel)
	} else {
		notifyLogger.SetLevel(logrus.DebugLevel)
	}

	// Initialize repositories
	taskRepo := task.NewRepository(db)
	completionRepo := completion.NewRepository(db)
	rolesRepo := roles.NewRepository(db)
	auditRepo := audit.NewRepository(db)
	notificationRepo := notification.NewRepository(db)
	analyticsRepo := analytics.NewRepository(db)

	// Initialize services
	recorder := audit.NewRecorder(auditRepo, log.Logger)
	notifier := notification.NewDomainNotifier(notificationRepo, notifyLogger)

	taskService := task.NewService(taskRepo, completionRepo, recorder, redisClient, log.Logger)
	completionService := completion.NewService(completionRepo, taskRepo, recorder, notifier, redisClient, log.Logger)
	rolesService := roles.NewService(rolesRepo, recorder, log.Logger)
	assignmentService := assignment.NewService(taskService, completionRepo, rolesService, recorder, notifier, redisClient, log.Logger)
	analyticsService := analytics.NewService(analyticsRepo, log.Logger)

	// Initialize and start the reminder scheduler
	reminderScheduler := scheduler.NewScheduler(taskService, completionRepo, notifier, cfg.Scheduler, log)
	reminderScheduler.Start()

	// Initialize handlers
	taskHandler := handlers.NewTaskHandler(taskService)
	completionHandler := handlers.NewCompletionHandler(completionService)
	assignmentHandler := handlers.NewAssignmentHandler(assignmentService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	roleHandler := handlers.NewRoleHandler(rolesService)
	notificationHandler := handlers.NewNotificationHandler(notificationRepo)

	// Register routes
	routes.SetupHealthRoutes(router, db, redisClient)
	routes.NewTaskRoutes(taskHandler, cfg.Auth.JWTSecret).RegisterRoutes(router)
	routes.NewCompletionRoutes(completionHandler, cfg.Auth.JWTSecret).RegisterRoutes(router)
	routes.NewAssignmentRoutes(assignmentHandler, cfg.Auth.JWTSecret).RegisterRoutes(router)
	routes.NewAnalyticsRoutes(analyticsHandler, cfg.Auth.JWTSecret).RegisterRoutes(router)
	routes.NewRoleRoutes(roleHandler, cfg.Auth.JWTSecret).RegisterRoutes(router)
	routes.NewNotificationRoutes(notificationHandler, cfg.Auth.JWTSecret).RegisterRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Info("Starting server", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	reminderScheduler.Stop()

	shutdownTimeout := cfg.Server.Timeout
	if shutdownTimeout == 0 {
		shutdownTimeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}
