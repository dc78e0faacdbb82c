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

	"github.com/mentorlinq/mentorlinq-api/config"
	"github.com/mentorlinq/mentorlinq-api/internal/cache"
	"github.com/mentorlinq/mentorlinq-api/internal/database/postgres"
	"github.com/mentorlinq/mentorlinq-api/internal/handlers"
	"github.com/mentorlinq/mentorlinq-api/internal/middleware"
	"github.com/mentorlinq/mentorlinq-api/internal/models"
	"github.com/mentorlinq/mentorlinq-api/internal/services"
	"github.com/mentorlinq/mentorlinq-api/pkg/db"
	"github.com/mentorlinq/mentorlinq-api/pkg/httpclient"
	"github.com/mentorlinq/mentorlinq-api/pkg/jwt"
	"github.com/mentorlinq/mentorlinq-api/pkg/logger"
	"github.com/mentorlinq/mentorlinq-api/pkg/metrics"
	"github.com/mentorlinq/mentorlinq-api/pkg/objectstore"
	"github.com/mentorlinq/mentorlinq-api/pkg/profiling"
	"github.com/mentorlinq/mentorlinq-api/pkg/stream"
	"github.com/mentorlinq/mentorlinq-api/pkg/tracing"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// registerAuthRoutes registers the auth surface for one principal kind
func registerAuthRoutes(
	router *gin.Engine,
	cfg *config.Config,
	kind models.PrincipalKind,
	authRateLimiter *middleware.RateLimiter,
	authHandler *handlers.AuthHandler,
	tokenManager *jwt.TokenManager,
) {
	requireSession := middleware.SessionMiddleware(kind, tokenManager, cfg.Session.CookieDomain, cfg.Session.CookieSecure)

	auth := router.Group("/api/v1/auth/" + string(kind))
	if kind == models.KindMentee {
		auth.POST("/register", authRateLimiter.Middleware(), authHandler.RegisterMentee)
	} else {
		auth.POST("/register", authRateLimiter.Middleware(), authHandler.RegisterMentor)
	}
	auth.POST("/login", authRateLimiter.Middleware(), authHandler.Login(kind))
	auth.POST("/logout", authHandler.Logout(kind))
	auth.GET("/session", requireSession, authHandler.GetSession)
	auth.POST("/verify/send", requireSession, authHandler.SendVerification)
	auth.POST("/verify", requireSession, authHandler.VerifyEmail)
	auth.POST("/reset/send", authRateLimiter.Middleware(), authHandler.SendReset(kind))
	auth.POST("/reset", authRateLimiter.Middleware(), authHandler.ResetPassword(kind))
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
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

	logger.Info("Starting MentorLinq API",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
	)

	// Initialize distributed tracing
	tracerShutdown, err := tracing.InitTracer(
		cfg.Observability.ServiceName,
		cfg.Observability.ServiceNamespace,
		cfg.Observability.ServiceVersion,
		cfg.Observability.ServiceInstanceID,
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

	// Initialize continuous profiling
	profilerStop, err := profiling.InitProfiler(profiling.Config{
		Enabled:               cfg.Profiling.Enabled,
		Endpoint:              cfg.Profiling.Endpoint,
		AppName:               cfg.Profiling.AppName,
		SampleTypes:           cfg.Profiling.SampleTypes,
		UploadIntervalSeconds: cfg.Profiling.UploadIntervalSeconds,
	}, cfg.Observability.ServiceName, cfg.Observability.ServiceNamespace, cfg.Server.AppEnv)
	if err != nil {
		logger.Error("Failed to initialize profiler", zap.Error(err))
	}
	defer profilerStop()

	// Initialize metrics
	metrics.Init(cfg.Observability.ServiceName)
	metrics.RecordInfrastructureMetrics()

	// Initialize PostgreSQL connection pool
	pool, err := db.NewPool(context.Background(), db.PoolConfig{
		URL:      cfg.Database.URL,
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		logger.Fatal("Failed to initialize database connection pool", zap.Error(err))
	}
	defer pool.Close()

	// NOTE: Database migrations run separately via the migrate command

	dbClient := postgres.NewClient(pool)

	// Initialize Stream chat client
	streamClient, err := stream.NewClient(cfg.Stream.APIKey, cfg.Stream.APISecret, cfg.Stream.TokenTTLHours)
	if err != nil {
		logger.Fatal("Failed to initialize Stream client", zap.Error(err))
	}

	// Initialize object storage client
	var storageClient *objectstore.StorageClient
	if cfg.ObjectStorage.AccessKeyID != "" && cfg.ObjectStorage.SecretAccessKey != "" {
		storageClient, err = objectstore.NewStorageClient(
			cfg.ObjectStorage.AccessKeyID,
			cfg.ObjectStorage.SecretAccessKey,
			cfg.ObjectStorage.BucketName,
			cfg.ObjectStorage.Endpoint,
			cfg.ObjectStorage.Region,
		)
		if err != nil {
			logger.Fatal("Failed to initialize object storage client", zap.Error(err))
		}
	}

	// Initialize mentor cache synchronously before accepting requests
	mentorCache := cache.NewMentorCache(dbClient, cfg.Cache.MentorTTLSeconds)
	if cfg.Cache.DisableMentorsCache {
		logger.Warn("Mentor cache is DISABLED - reading from database on every request")
	} else {
		if err := mentorCache.Initialize(); err != nil {
			logger.Fatal("Failed to initialize mentor cache", zap.Error(err))
		}
	}

	// Initialize HTTP client for trigger webhooks
	httpClient := httpclient.NewStandardClient()

	tokenManager := jwt.NewTokenManager(cfg.Session.JWTSecret, cfg.Session.JWTIssuer, cfg.Session.SessionTTLHours)

	// Initialize services
	authService := services.NewAuthService(dbClient, dbClient, tokenManager, cfg, httpClient)
	mentorService := services.NewMentorService(mentorCache, dbClient, cfg)
	profileService := services.NewProfileService(storageClient, dbClient, dbClient, mentorCache)
	connectionService := services.NewConnectionService(dbClient, dbClient, dbClient, cfg, httpClient)
	streamService := services.NewStreamService(streamClient, dbClient, dbClient)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	mentorHandler := handlers.NewMentorHandler(mentorService)
	profileHandler := handlers.NewProfileHandler(profileService)
	connectionHandler := handlers.NewConnectionHandler(connectionService)
	streamHandler := handlers.NewStreamHandler(streamService)
	adminHandler := handlers.NewAdminHandler(connectionService)

	// Health check: if the cache is disabled, report readiness from the pool alone
	cacheReadyFunc := mentorCache.IsReady
	if cfg.Cache.DisableMentorsCache {
		cacheReadyFunc = func() bool { return true }
	}
	healthHandler := handlers.NewHealthHandler(dbClient.Ping, cacheReadyFunc)

	// Set up Gin router
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName))
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	allowedOrigins := cfg.Server.AllowedOrigins
	if cfg.IsDevelopment() {
		allowedOrigins = append(allowedOrigins, "http://localhost:3000", "http://127.0.0.1:3000")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "x-internal-api-auth-token", "traceparent", "tracestate"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true, // Required for session cookies
		MaxAge:           12 * time.Hour,
	}))

	// Rate limiters per endpoint class
	generalRateLimiter := middleware.NewRateLimiter(100, 200) // 100 req/sec, burst of 200
	authRateLimiter := middleware.NewRateLimiter(1, 5)        // 1 req/sec, burst of 5 (credential abuse)
	requestRateLimiter := middleware.NewRateLimiter(5, 10)    // 5 req/sec, burst of 10
	profileRateLimiter := middleware.NewRateLimiter(10, 20)   // 10 req/sec, burst of 20

	// Session middlewares
	menteeSession := middleware.SessionMiddleware(models.KindMentee, tokenManager, cfg.Session.CookieDomain, cfg.Session.CookieSecure)
	mentorSession := middleware.SessionMiddleware(models.KindMentor, tokenManager, cfg.Session.CookieDomain, cfg.Session.CookieSecure)
	anySession := middleware.AnySessionMiddleware(tokenManager, cfg.Session.CookieDomain, cfg.Session.CookieSecure)

	// Operational endpoints (not versioned)
	api := router.Group("/api")
	api.GET("/healthcheck", generalRateLimiter.Middleware(), healthHandler.Healthcheck)
	api.GET("/metrics", generalRateLimiter.Middleware(), gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))
	api.POST("/internal/connections/rebuild", generalRateLimiter.Middleware(),
		middleware.InternalAPIAuthMiddleware(cfg.Auth.InternalAPIToken), adminHandler.RebuildConnections)

	// Auth surface, one group per kind
	registerAuthRoutes(router, cfg, models.KindMentee, authRateLimiter, authHandler, tokenManager)
	registerAuthRoutes(router, cfg, models.KindMentor, authRateLimiter, authHandler, tokenManager)

	v1 := router.Group("/api/v1")
	v1.Use(middleware.BodySizeLimitMiddleware(10 * 1024 * 1024))

	// Browse (list requires a mentee session; single profiles are public)
	v1.GET("/mentors", generalRateLimiter.Middleware(), menteeSession, mentorHandler.ListMentors)
	v1.GET("/mentors/:slug", generalRateLimiter.Middleware(), mentorHandler.GetMentorBySlug)

	// Own profile
	v1.GET("/mentee/profile", menteeSession, profileHandler.GetMenteeProfile)
	v1.POST("/mentee/profile/picture", profileRateLimiter.Middleware(), menteeSession, profileHandler.UploadPicture)
	v1.GET("/mentor/profile", mentorSession, profileHandler.GetMentorProfile)
	v1.POST("/mentor/profile/picture", profileRateLimiter.Middleware(), mentorSession, profileHandler.UploadPicture)

	// Connection-request ledger
	v1.POST("/requests/:mentorId", requestRateLimiter.Middleware(), menteeSession, connectionHandler.CreateRequest)
	v1.GET("/requests/outgoing", menteeSession, connectionHandler.ListOutgoing)
	v1.GET("/requests/incoming", mentorSession, connectionHandler.ListIncoming)
	v1.PUT("/requests/:id/accept", requestRateLimiter.Middleware(), mentorSession, connectionHandler.Accept)
	v1.PUT("/requests/:id/reject", requestRateLimiter.Middleware(), mentorSession, connectionHandler.Reject)
	v1.GET("/connections", anySession, connectionHandler.ListConnections)

	// Chat bridge
	v1.GET("/stream/token", anySession, streamHandler.Token)
	v1.POST("/stream/ensure-peer", anySession, streamHandler.EnsurePeer)

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

	// Wait for interrupt signal to gracefully shutdown the server
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
