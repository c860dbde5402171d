package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/docs"
	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/api/handler"
	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/api/middleware"
	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/core/domain"
	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/core/ports"
	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/core/service"
	mongorepo "github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/infrastructure/db/mongo"
	redisrepo "github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/infrastructure/db/redis"
	"github.com/BrayanMen/TP2-RedSocial-PrograIV-Back/internal/pkg/config"
)

// NewRouter builds the Echo instance with all routes registered. The image
// store and engagement sink are injected so main controls their lifecycle;
// either may be nil (images disabled, events dropped).
func NewRouter(
	db *mongo.Database,
	rdb *redis.Client,
	cfg *config.Config,
	images ports.ImageStore,
	sink ports.EngagementSink,
	log zerolog.Logger,
) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("social"))

	// --- Repositories ---
	userRepo := mongorepo.NewUserRepository(db)
	postRepo := mongorepo.NewPostRepository(db)
	commentRepo := mongorepo.NewCommentRepository(db)
	likeRepo := mongorepo.NewLikeRepository(db)
	analyticsRepo := mongorepo.NewAnalyticsRepository(db)

	// --- Services ---
	hasher := service.NewBcryptHasher()
	tokens := service.NewJWTTokenService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTTL,
		cfg.JWT.RefreshTTL,
		log,
	)
	limiter := redisrepo.NewLoginRateLimiter(rdb)
	sessionService := service.NewSessionService(userRepo, hasher, tokens, images, limiter, log)
	userService := service.NewUserService(userRepo, hasher, images, log)
	postService := service.NewPostService(postRepo, commentRepo, likeRepo, userRepo, images, sink, log)
	analyticsService := service.NewAnalyticsService(analyticsRepo, log)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(sessionService, cfg.IsProduction())
	userHandler := handler.NewUserHandler(userService)
	postHandler := handler.NewPostHandler(postService)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)
	healthHandler := handler.NewHealthHandler(db, rdb)

	authRequired := middleware.Auth(tokens)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Session routes (no auth required) ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/refresh", authHandler.Refresh)
	e.POST("/auth/logout", authHandler.Logout)
	e.GET("/auth/authorize", authHandler.Authorize)

	// --- User routes ---
	users := e.Group("/users", authRequired)
	users.GET("/me", userHandler.Me)
	users.PUT("/me", userHandler.UpdateProfile)
	users.GET("/:id", userHandler.GetProfile)
	users.GET("", userHandler.List, adminOnly)
	users.POST("", userHandler.Create, adminOnly)
	users.PATCH("/:id/disable", userHandler.Disable, adminOnly)
	users.PATCH("/:id/enable", userHandler.Enable, adminOnly)

	// --- Publication routes ---
	posts := e.Group("/posts", authRequired)
	posts.POST("", postHandler.Create)
	posts.GET("", postHandler.Feed)
	posts.GET("/:id", postHandler.Get)
	posts.DELETE("/:id", postHandler.Delete)
	posts.POST("/:id/comments", postHandler.CreateComment)
	posts.GET("/:id/comments", postHandler.ListComments)
	posts.POST("/:id/like", postHandler.Like)
	posts.DELETE("/:id/like", postHandler.Unlike)

	comments := e.Group("/comments", authRequired)
	comments.PUT("/:id", postHandler.UpdateComment)
	comments.DELETE("/:id", postHandler.DeleteComment)

	// --- Analytics routes (admin only) ---
	analytics := e.Group("/analytics", authRequired, adminOnly)
	analytics.GET("/posts-per-user", analyticsHandler.PostsPerUser)
	analytics.GET("/comments-per-post", analyticsHandler.CommentsPerPost)
	analytics.GET("/comments-in-range", analyticsHandler.CommentsInRange)

	// --- Operational endpoints ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
