package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/sessions"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/taskforce-app/taskforce-api/internal/config"
	"github.com/taskforce-app/taskforce-api/internal/constants"
	"github.com/taskforce-app/taskforce-api/internal/database"
	"github.com/taskforce-app/taskforce-api/internal/handlers"
	"github.com/taskforce-app/taskforce-api/internal/logger"
	"github.com/taskforce-app/taskforce-api/internal/middleware"
	"github.com/taskforce-app/taskforce-api/internal/notifier"
	"github.com/taskforce-app/taskforce-api/internal/repository"
	"github.com/taskforce-app/taskforce-api/internal/services"
	"github.com/taskforce-app/taskforce-api/internal/storage"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zapLogger, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		Development: cfg.GinMode != "release",
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zapLogger.Sync()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		zapLogger.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		zapLogger.Fatal("failed to run migrations", zap.Error(err))
	}
	if err := database.AddIndexes(database.GetDB()); err != nil {
		zapLogger.Fatal("failed to add indexes", zap.Error(err))
	}

	// Initialize Gin router
	r := gin.Default()

	// Setup session middleware with Redis
	redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
	store, err := redisStore.NewStore(
		10,
		"tcp",
		redisAddr,
		"",
		"",
		[]byte(cfg.SessionSecret),
	)
	if err != nil {
		zapLogger.Fatal("failed to create Redis store", zap.Error(err))
	}
	isProduction := cfg.GinMode == "release"
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   isProduction,
		SameSite: 2, // SameSite=Lax
	})
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	// Object storage is optional; without it uploads return 503 and admin
	// listings carry no attachment URLs.
	var objectStore storage.ObjectStore
	if cfg.S3Bucket != "" {
		s3Store, err := storage.NewS3Store(context.Background(), storage.S3Config{
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		if err != nil {
			zapLogger.Fatal("failed to create object store", zap.Error(err))
		}
		objectStore = s3Store
	}

	db := database.GetDB()
	userRepo := repository.NewUserRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	identityService := services.NewIdentityService(userRepo)
	teamService := services.NewTeamService(teamRepo, userRepo)
	projectService := services.NewProjectService(projectRepo)
	taskService := services.NewTaskService(taskRepo, userRepo)
	queryService := services.NewTaskQueryService(taskRepo, projectRepo, userRepo, objectStore)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(identityService)
	teamHandler := handlers.NewTeamHandler(teamService)
	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService)
	queryHandler := handlers.NewQueryHandler(queryService, identityService)
	uploadHandler := handlers.NewUploadHandler(objectStore)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/identify", authHandler.Identify)
			auth.GET("/me", authHandler.Me)
			auth.POST("/role", middleware.RequireAuth(), authHandler.SetRole)
		}

		// Team routes (protected)
		teams := api.Group("/teams")
		teams.Use(middleware.RequireAuth())
		{
			teams.GET("/:id", teamHandler.GetTeam)
			teams.GET("/:id/members", teamHandler.GetMembers)
			teams.POST("/:id/members", teamHandler.AddMember)
		}
		api.DELETE("/team-members/:user_id", middleware.RequireAuth(), teamHandler.RemoveMember)

		// Project routes (protected)
		projects := api.Group("/projects")
		projects.Use(middleware.RequireAuth())
		{
			projects.POST("", projectHandler.CreateProject)
			projects.GET("", projectHandler.ListProjects)
			projects.GET("/:id", projectHandler.GetProject)
			projects.DELETE("/:id", projectHandler.DeleteProject)
			projects.GET("/:id/tasks", queryHandler.ProjectTasks)
		}

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(middleware.RequireAuth())
		{
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/mine", queryHandler.MyTasks)
			tasks.GET("/admin", queryHandler.AdminTasks)
			tasks.POST("/:id/assign", taskHandler.AssignTask)
			tasks.POST("/:id/done", taskHandler.CompleteTask)
			tasks.POST("/:id/reopen", taskHandler.ReopenTask)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
		}

		// Upload routes (protected)
		api.POST("/uploads", middleware.RequireAuth(), uploadHandler.CreateUpload)
	}

	// Notification watcher
	if cfg.NotifyIntervalSeconds > 0 {
		redisClient := redis.NewClient(&redis.Options{
			Addr: redisAddr,
		})

		var sink notifier.Sink
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			zapLogger.Warn("redis unreachable, notifications fall back to logs", zap.Error(err))
			sink = notifier.NewLogSink(zapLogger)
		} else {
			sink = notifier.NewRedisSink(redisClient)
		}

		source := services.NewNotificationSource(userRepo, queryService)
		n := notifier.New(source, sink, zapLogger,
			time.Duration(cfg.NotifyIntervalSeconds)*time.Second)
		go n.Run(context.Background())
	}

	// Start server
	zapLogger.Info("server starting", zap.String("addr", cfg.ListenAddr))
	if err := r.Run(cfg.ListenAddr); err != nil {
		zapLogger.Fatal("failed to start server", zap.Error(err))
	}
}
