package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"meow-site/pkg/cache"
	"meow-site/pkg/config"
	"meow-site/pkg/database"
	"meow-site/pkg/jwt"
	"meow-site/pkg/logger"
	"meow-site/pkg/markdown"
	"meow-site/pkg/metrics"
	"meow-site/pkg/middleware"
	"meow-site/pkg/queue"
	"meow-site/pkg/s3"
	blogHTTP "meow-site/services/blog/internal/controller/http"
	"meow-site/services/blog/internal/entity"
	"meow-site/services/blog/internal/repo/persistent"
	"meow-site/services/blog/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "meow-site/services/blog/docs" // Swagger docs
)

type App struct {
	cfg         *config.Config
	log         *logger.Logger
	db          *gorm.DB
	redisClient *redis.Client
	s3Client    *s3.Client
	jwtService  *jwt.Service
	queueClient *queue.Client
	httpServer  *http.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	log := logger.New()

	db, err := database.Open(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		return nil, err
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Warn("Failed to connect to redis: %v (continuing without rate limits and logout revocation)", err)
		redisClient = nil
	}

	s3Client, err := s3.NewClient(cfg)
	if err != nil {
		log.Warn("Failed to create S3 client: %v (image uploads disabled)", err)
		s3Client = nil
	}

	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Warn("Failed to connect to RabbitMQ: %v (continuing without queue)", err)
		queueClient = nil
	}

	if cfg.InsecureSecret() {
		log.Warn("JWT_SECRET is not set, session tokens are signed with the default key")
	}

	return &App{
		cfg:         cfg,
		log:         log,
		db:          db,
		redisClient: redisClient,
		s3Client:    s3Client,
		jwtService:  jwt.NewService(cfg.JWTSecret),
		queueClient: queueClient,
	}, nil
}

// Router builds the HTTP handler tree.
func (a *App) Router() *gin.Engine {
	accountRepo := persistent.NewAccountRepository(a.db)
	moderationRepo := persistent.NewModerationRepository(a.db)
	followRepo := persistent.NewFollowRepository(a.db)
	postRepo := persistent.NewPostRepository(a.db)
	categoryRepo := persistent.NewCategoryRepository(a.db)
	commentRepo := persistent.NewCommentRepository(a.db)

	var publisher usecase.EventPublisher
	if a.queueClient != nil {
		publisher = a.queueClient
	}
	var media usecase.MediaStore
	if a.s3Client != nil {
		media = a.s3Client
	}
	sessions := cache.NewSessionStore(a.redisClient)
	renderer := markdown.New()

	visibilityUseCase := usecase.NewVisibilityUseCase(followRepo)
	gateUseCase := usecase.NewGateUseCase(moderationRepo, a.log, nil)
	moderationUseCase := usecase.NewModerationUseCase(accountRepo, moderationRepo, publisher, a.log, nil)
	followUseCase := usecase.NewFollowUseCase(accountRepo, followRepo, moderationRepo, publisher, a.log, nil)
	authUseCase := usecase.NewAuthUseCase(
		accountRepo,
		moderationRepo,
		a.jwtService,
		sessions,
		a.cfg.SessionTTL,
		a.cfg.RememberMeTTL,
		a.log,
		nil,
	)
	profileUseCase := usecase.NewProfileUseCase(accountRepo, followRepo, postRepo)
	postUseCase := usecase.NewPostUseCase(
		postRepo,
		categoryRepo,
		commentRepo,
		accountRepo,
		followRepo,
		visibilityUseCase,
		renderer,
		media,
		publisher,
		a.log,
		nil,
	)
	commentUseCase := usecase.NewCommentUseCase(commentRepo, postRepo, visibilityUseCase, publisher, a.log, nil)
	categoryUseCase := usecase.NewCategoryUseCase(categoryRepo)
	adminUseCase := usecase.NewAdminUseCase(accountRepo, moderationRepo, postRepo, commentRepo, categoryRepo, publisher, a.log, nil)

	gate := blogHTTP.NewGate(gateUseCase, a.cfg.HomePath, a.log)
	authHandler := blogHTTP.NewAuthHandler(authUseCase, profileUseCase, a.log)
	postHandler := blogHTTP.NewPostHandler(postUseCase, renderer, a.log)
	commentHandler := blogHTTP.NewCommentHandler(commentUseCase, a.log)
	categoryHandler := blogHTTP.NewCategoryHandler(categoryUseCase, a.log)
	followHandler := blogHTTP.NewFollowHandler(followUseCase, a.log)
	adminHandler := blogHTTP.NewAdminHandler(adminUseCase, moderationUseCase, a.log)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))
	r.Use(metrics.Middleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", metrics.Handler())
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	limit := middleware.RateLimitMiddleware(a.redisClient, a.cfg.RateLimitPerMinute, time.Minute)
	view := gate.Require(entity.ActionView)

	api := r.Group("/api/v1")
	{
		api.POST("/register", limit, authHandler.Register)
		api.POST("/login", limit, authHandler.Login)

		// Anonymous readers are welcome; a token, when present, identifies the viewer.
		public := api.Group("", middleware.OptionalAuthMiddleware(a.jwtService, sessions))
		{
			public.GET("/posts", view, postHandler.ListPosts)
			public.GET("/posts/:id", view, postHandler.GetPost)
			public.GET("/profiles/:username", view, authHandler.GetProfile)
			public.GET("/profiles/:username/manuscripts", view, postHandler.Manuscripts)
		}

		protected := api.Group("", middleware.AuthMiddleware(a.jwtService, sessions))
		{
			protected.POST("/logout", authHandler.Logout)
			protected.GET("/me", view, authHandler.Me)
			protected.PUT("/me", gate.Require(entity.ActionEditProfile), authHandler.UpdateProfile)
			protected.PUT("/me/password", gate.Require(entity.ActionEditProfile), authHandler.ChangePassword)

			protected.POST("/posts", limit, gate.Require(entity.ActionCreatePost), postHandler.CreatePost)
			protected.PUT("/posts/:id", gate.Require(entity.ActionEditPost), postHandler.UpdatePost)
			protected.DELETE("/posts/:id", gate.Require(entity.ActionDeletePost), postHandler.DeletePost)
			protected.POST("/posts/:id/like", gate.Require(entity.ActionReact), postHandler.LikePost)
			protected.POST("/posts/:id/favorite", gate.Require(entity.ActionReact), postHandler.FavoritePost)
			protected.POST("/posts/:id/comments", limit, gate.Require(entity.ActionCreateComment), commentHandler.CreateComment)
			protected.POST("/media", gate.Require(entity.ActionUploadMedia), postHandler.UploadImage)

			protected.DELETE("/comments/:id", gate.Require(entity.ActionDeleteComment), commentHandler.DeleteComment)
			protected.POST("/comments/:id/like", gate.Require(entity.ActionReact), commentHandler.LikeComment)

			protected.GET("/categories", view, categoryHandler.ListCategories)
			protected.POST("/categories", gate.Require(entity.ActionManageCategory), categoryHandler.CreateCategory)
			protected.PUT("/categories/:id", gate.Require(entity.ActionManageCategory), categoryHandler.RenameCategory)
			protected.DELETE("/categories/:id", gate.Require(entity.ActionManageCategory), categoryHandler.DeleteCategory)

			protected.POST("/users/:id/follow", gate.Require(entity.ActionFollow), followHandler.Follow)
			protected.DELETE("/users/:id/follow", gate.Require(entity.ActionFollow), followHandler.Unfollow)
			protected.GET("/users/:id/follow-status", view, followHandler.FollowStatus)

			admin := protected.Group("/admin", gate.Require(entity.ActionModerate))
			{
				admin.GET("/dashboard", adminHandler.Dashboard)
				admin.GET("/accounts", adminHandler.ListAccounts)
				admin.DELETE("/accounts/:id", adminHandler.DeleteAccount)
				admin.POST("/accounts/:id/mute", adminHandler.Mute)
				admin.POST("/accounts/:id/unmute", adminHandler.Unmute)
				admin.POST("/accounts/:id/ban", adminHandler.Ban)
				admin.POST("/accounts/:id/unban", adminHandler.Unban)
			}
		}
	}

	return r
}

func (a *App) Run() error {
	a.httpServer = &http.Server{
		Addr:    ":" + a.cfg.ServerPort,
		Handler: a.Router(),
	}

	go func() {
		a.log.Info("Blog service starting on port %s", a.cfg.ServerPort)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	return nil
}

func (a *App) Wait() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	a.log.Info("Shutting down blog service...")
}

func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.log.Error("Server forced to shutdown: %v", err)
		return err
	}

	if a.queueClient != nil {
		if err := a.queueClient.Close(); err != nil {
			a.log.Error("Error closing RabbitMQ: %v", err)
		}
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Error("Error closing Redis: %v", err)
		}
	}

	sqlDB, err := a.db.DB()
	if err == nil {
		if err := sqlDB.Close(); err != nil {
			a.log.Error("Error closing database: %v", err)
		}
	}

	a.log.Info("Blog service exited")
	return nil
}
