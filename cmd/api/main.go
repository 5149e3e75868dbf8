package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/skillsync/skillsync-api/config"
	"github.com/skillsync/skillsync-api/internal/cache"
	"github.com/skillsync/skillsync-api/internal/handlers"
	"github.com/skillsync/skillsync-api/internal/middleware"
	"github.com/skillsync/skillsync-api/internal/repository"
	"github.com/skillsync/skillsync-api/internal/services"
	"github.com/skillsync/skillsync-api/pkg/db"
	"github.com/skillsync/skillsync-api/pkg/jwt"
	"github.com/skillsync/skillsync-api/pkg/logger"
	"github.com/skillsync/skillsync-api/pkg/metrics"
	"github.com/skillsync/skillsync-api/pkg/profiling"
	"github.com/skillsync/skillsync-api/pkg/storage"
	"github.com/skillsync/skillsync-api/pkg/tracing"
)

// registerPublicRoutes registers the unauthenticated surface: auth plus open
// catalog browsing
func registerPublicRoutes(
	v1 *gin.RouterGroup,
	authRateLimiter, generalRateLimiter *middleware.RateLimiter,
	authHandler *handlers.AuthHandler,
	jobsHandler *handlers.JobsHandler,
	resourcesHandler *handlers.ResourcesHandler,
) {
	auth := v1.Group("/auth")
	auth.POST("/register", authRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(100*1024), authHandler.Register)
	auth.POST("/login", authRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(100*1024), authHandler.Login)
	auth.POST("/logout", generalRateLimiter.Middleware(), authHandler.Logout)
	auth.GET("/me", generalRateLimiter.Middleware(), authHandler.Me)
	auth.POST("/forgot-password", authRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(100*1024), authHandler.ForgotPassword)
	auth.POST("/reset-password/:token", authRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(100*1024), authHandler.ResetPassword)

	v1.GET("/jobs", generalRateLimiter.Middleware(), jobsHandler.List)
	v1.GET("/jobs/:id", generalRateLimiter.Middleware(), jobsHandler.Get)
	v1.GET("/resources", generalRateLimiter.Middleware(), resourcesHandler.List)
	v1.GET("/resources/:id", generalRateLimiter.Middleware(), resourcesHandler.Get)
}

// registerUserRoutes registers routes that require a session cookie
func registerUserRoutes(
	v1 *gin.RouterGroup,
	cfg *config.Config,
	tokenManager *jwt.TokenManager,
	generalRateLimiter, chatRateLimiter *middleware.RateLimiter,
	profileHandler *handlers.ProfileHandler,
	mentorHandler *handlers.MentorHandler,
	chatHandler *handlers.ChatHandler,
	analyzerHandler *handlers.AnalyzerHandler,
) {
	authed := v1.Group("")
	authed.Use(middleware.SessionMiddleware(tokenManager, cfg.Session.CookieDomain, cfg.Session.CookieSecure))

	authed.GET("/users/profile", generalRateLimiter.Middleware(), profileHandler.GetProfile)
	authed.PATCH("/users/profile", generalRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(100*1024), profileHandler.UpdateProfile)
	authed.POST("/users/avatar", generalRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(10*1024*1024), profileHandler.UploadAvatar)

	authed.GET("/mentors", generalRateLimiter.Middleware(), mentorHandler.Directory)
	authed.POST("/mentor-application", generalRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(100*1024), mentorHandler.SubmitApplication)
	authed.GET("/mentor-application/status", generalRateLimiter.Middleware(), mentorHandler.ApplicationStatus)

	authed.GET("/chat/conversations", generalRateLimiter.Middleware(), chatHandler.Conversations)
	authed.GET("/chat/messages/:mentorId", generalRateLimiter.Middleware(), chatHandler.Messages)
	authed.POST("/chat/messages/:mentorId", chatRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(100*1024), chatHandler.Send)

	authed.POST("/analyzer/analyze", generalRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(100*1024), analyzerHandler.Analyze)
	authed.GET("/analyzer/roles", generalRateLimiter.Middleware(), analyzerHandler.Roles)
	authed.POST("/roadmap/generate", generalRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(100*1024), analyzerHandler.GenerateRoadmap)
}

// registerAdminRoutes registers admin-only management routes
func registerAdminRoutes(
	v1 *gin.RouterGroup,
	cfg *config.Config,
	tokenManager *jwt.TokenManager,
	generalRateLimiter *middleware.RateLimiter,
	adminUsersHandler *handlers.AdminUsersHandler,
	adminApplicationsHandler *handlers.AdminApplicationsHandler,
	adminMentorsHandler *handlers.AdminMentorsHandler,
	jobsHandler *handlers.JobsHandler,
	resourcesHandler *handlers.ResourcesHandler,
) {
	admin := v1.Group("/admin")
	admin.Use(middleware.SessionMiddleware(tokenManager, cfg.Session.CookieDomain, cfg.Session.CookieSecure))
	admin.Use(middleware.RequireAdmin())
	admin.Use(generalRateLimiter.Middleware())
	admin.Use(middleware.BodySizeLimitMiddleware(1 * 1024 * 1024))

	admin.GET("/stats", adminUsersHandler.Stats)
	admin.GET("/users", adminUsersHandler.List)
	admin.PATCH("/users/:id/role", adminUsersHandler.ChangeRole)
	admin.PATCH("/users/:id/suspend", adminUsersHandler.Suspend)
	admin.DELETE("/users/:id", adminUsersHandler.Delete)
	admin.GET("/reports/users.csv", adminUsersHandler.ExportCSV)
	admin.GET("/logs", adminUsersHandler.Logs)

	admin.GET("/mentor-applications", adminApplicationsHandler.List)
	admin.POST("/mentor-applications/:id/approve", adminApplicationsHandler.Approve)
	admin.POST("/mentor-applications/:id/reject", adminApplicationsHandler.Reject)

	admin.GET("/mentors", adminMentorsHandler.List)
	admin.POST("/mentors", adminMentorsHandler.Create)
	admin.GET("/mentors/:id", adminMentorsHandler.Get)
	admin.PUT("/mentors/:id", adminMentorsHandler.Update)
	admin.DELETE("/mentors/:id", adminMentorsHandler.Delete)

	admin.POST("/jobs", jobsHandler.Create)
	admin.PUT("/jobs/:id", jobsHandler.Update)
	admin.DELETE("/jobs/:id", jobsHandler.Delete)

	admin.POST("/resources", resourcesHandler.Create)
	admin.PUT("/resources/:id", resourcesHandler.Update)
	admin.DELETE("/resources/:id", resourcesHandler.Delete)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
		ServiceName: cfg.Observability.ServiceName,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting SkillSync API",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
	)

	tracerShutdown, err := tracing.InitTracer(
		cfg.Observability.ServiceName,
		cfg.Observability.ServiceVersion,
		cfg.Server.AppEnv,
		cfg.Observability.ExporterEndpoint,
	)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(ctx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	profilerStop, err := profiling.InitProfiler(profiling.Config{
		Enabled:               cfg.Profiling.Enabled,
		Endpoint:              cfg.Profiling.Endpoint,
		AppName:               cfg.Profiling.AppName,
		SampleTypes:           cfg.Profiling.SampleTypes,
		UploadIntervalSeconds: cfg.Profiling.UploadIntervalSeconds,
	}, cfg.Observability.ServiceName, cfg.Server.AppEnv)
	if err != nil {
		logger.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	defer profilerStop()

	metrics.RecordInfrastructureMetrics()

	pool, err := db.NewPool(context.Background(), db.PoolConfig{
		URL:      cfg.Database.URL,
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		logger.Fatal("Failed to initialize database connection pool", zap.Error(err))
	}
	defer pool.Close()

	// Migrations run separately via the migrate command

	var storageClient storage.ClientInterface
	if cfg.Storage.AccessKeyID != "" && cfg.Storage.SecretAccessKey != "" {
		client, storageErr := storage.NewClient(
			cfg.Storage.AccessKeyID,
			cfg.Storage.SecretAccessKey,
			cfg.Storage.BucketName,
			cfg.Storage.Endpoint,
			cfg.Storage.Region,
		)
		if storageErr != nil {
			logger.Fatal("Failed to initialize object storage client", zap.Error(storageErr))
		}
		storageClient = client
	} else {
		logger.Warn("Object storage is not configured, avatar uploads are disabled")
	}

	tokenManager := jwt.NewTokenManager(cfg.Session.JWTSecret, cfg.Session.JWTIssuer, cfg.Session.SessionTTLHours)

	userRepo := repository.NewUserRepository(pool)
	profileRepo := repository.NewMentorProfileRepository(pool)
	applicationRepo := repository.NewMentorApplicationRepository(pool)
	onboardingRepo := repository.NewOnboardingRepository(pool)
	auditRepo := repository.NewAuditLogRepository(pool)
	jobRepo := repository.NewJobRepository(pool)
	resourceRepo := repository.NewResourceRepository(pool)
	chatRepo := repository.NewChatRepository(pool)

	directoryCache := cache.NewMentorDirectoryCache(time.Duration(cfg.Cache.MentorDirectoryTTLSeconds) * time.Second)

	auditService := services.NewAuditService(auditRepo)
	authService := services.NewAuthService(userRepo, applicationRepo, auditService, tokenManager, cfg)
	onboardingService := services.NewOnboardingService(applicationRepo, userRepo, onboardingRepo, auditService, directoryCache)
	mentorAdminService := services.NewMentorAdminService(userRepo, profileRepo, onboardingRepo, auditService, directoryCache)
	adminUsersService := services.NewAdminUsersService(userRepo, profileRepo, jobRepo, resourceRepo, auditService)
	profileService := services.NewProfileService(userRepo, storageClient)
	jobService := services.NewJobService(jobRepo, auditService)
	resourceService := services.NewResourceService(resourceRepo, auditService)
	chatService := services.NewChatService(chatRepo, userRepo, profileRepo)
	analyzerService := services.NewAnalyzerService()
	roadmapService := services.NewRoadmapService()

	// Seed the first admin before the server starts taking traffic
	if err := authService.EnsureBootstrapAdmin(context.Background()); err != nil {
		logger.Fatal("Failed to ensure bootstrap admin", zap.Error(err))
	}

	authHandler := handlers.NewAuthHandler(authService, tokenManager, cfg.Session.CookieDomain, cfg.Session.CookieSecure)
	profileHandler := handlers.NewProfileHandler(profileService)
	mentorHandler := handlers.NewMentorHandler(mentorAdminService, onboardingService)
	chatHandler := handlers.NewChatHandler(chatService)
	analyzerHandler := handlers.NewAnalyzerHandler(analyzerService, roadmapService)
	jobsHandler := handlers.NewJobsHandler(jobService)
	resourcesHandler := handlers.NewResourcesHandler(resourceService)
	adminUsersHandler := handlers.NewAdminUsersHandler(adminUsersService, auditService)
	adminApplicationsHandler := handlers.NewAdminApplicationsHandler(onboardingService)
	adminMentorsHandler := handlers.NewAdminMentorsHandler(mentorAdminService)
	healthHandler := handlers.NewHealthHandler(pool)

	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName))
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	allowedOrigins := cfg.Server.AllowedOrigins
	if cfg.IsDevelopment() {
		allowedOrigins = append(allowedOrigins, "http://localhost:5173", "http://127.0.0.1:5173")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-CSRF-Token", "traceparent", "tracestate"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true, // Required for the session cookie
		MaxAge:           12 * time.Hour,
	}))

	generalRateLimiter := middleware.NewRateLimiter(100, 200) // 100 req/sec, burst of 200
	authRateLimiter := middleware.NewRateLimiter(1, 5)        // 1 req/sec, burst of 5 (credential abuse prevention)
	chatRateLimiter := middleware.NewRateLimiter(5, 10)       // 5 req/sec, burst of 10 (message spam prevention)

	api := router.Group("/api")
	api.GET("/healthcheck", generalRateLimiter.Middleware(), healthHandler.Healthcheck)
	api.GET("/metrics", generalRateLimiter.Middleware(), gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	v1 := router.Group("/api/v1")
	registerPublicRoutes(v1, authRateLimiter, generalRateLimiter, authHandler, jobsHandler, resourcesHandler)
	registerUserRoutes(v1, cfg, tokenManager, generalRateLimiter, chatRateLimiter,
		profileHandler, mentorHandler, chatHandler, analyzerHandler)
	registerAdminRoutes(v1, cfg, tokenManager, generalRateLimiter,
		adminUsersHandler, adminApplicationsHandler, adminMentorsHandler, jobsHandler, resourcesHandler)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		logger.Info("Server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
