package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/pandora-network/ideanet/internal/api"
	"github.com/pandora-network/ideanet/internal/config"
	"github.com/pandora-network/ideanet/internal/db"
	"github.com/pandora-network/ideanet/internal/forge"
	"github.com/pandora-network/ideanet/internal/middleware"
	"github.com/pandora-network/ideanet/internal/observ"
	"github.com/pandora-network/ideanet/internal/realtime"
	"github.com/pandora-network/ideanet/internal/repository/postgres"
	"github.com/pandora-network/ideanet/internal/storage"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := observ.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	// Startup has no deadline; request contexts take over once the
	// server runs.
	database, err := db.New(context.Background(), cfg.DatabaseURL, logger)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer database.Close()

	hub, err := realtime.NewHub(cfg.RedisURL, logger)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}

	uploader, err := storage.New(storage.Config{
		Endpoint:  cfg.StorageEndpoint,
		AccessKey: cfg.StorageAccessKey,
		SecretKey: cfg.StorageSecretKey,
		Bucket:    cfg.StorageBucket,
		UseSSL:    cfg.StorageUseSSL,
		PublicURL: cfg.StoragePublicURL,
	})
	if err != nil {
		return fmt.Errorf("create object store client: %w", err)
	}
	if err := uploader.EnsureBucket(context.Background()); err != nil {
		return fmt.Errorf("ensure media bucket: %w", err)
	}

	generator, err := forge.NewAnthropicGenerator(cfg.AnthropicAPIKey)
	if err != nil {
		return fmt.Errorf("create model client: %w", err)
	}
	forgeSvc := forge.NewService(generator, cfg.ForgeModel, cfg.DraftModel, logger)

	pool := database.Pool()
	ideaRepo := postgres.NewIdeaStore(pool)
	edgeRepo := postgres.NewEdgeStore(pool)
	commentRepo := postgres.NewCommentStore(pool)
	favoriteRepo := postgres.NewFavoriteStore(pool)
	contributionRepo := postgres.NewContributionStore(pool)
	notificationRepo := postgres.NewNotificationStore(pool)
	analyticsRepo := postgres.NewAnalyticsStore(pool)
	userRepo := postgres.NewUserStore(pool)
	companyRepo := postgres.NewCompanyStore(pool)
	teamRepo := postgres.NewTeamStore(pool)

	authHandler := api.NewAuthHandler(userRepo, cfg.JWTSecret, logger)
	ideaHandler := api.NewIdeaHandler(ideaRepo, edgeRepo, userRepo, notificationRepo, analyticsRepo, hub, logger)
	commentHandler := api.NewCommentHandler(commentRepo, ideaRepo, analyticsRepo, logger)
	favoriteHandler := api.NewFavoriteHandler(favoriteRepo, ideaRepo, analyticsRepo, logger)
	contributionHandler := api.NewContributionHandler(contributionRepo, ideaRepo, logger)
	notificationHandler := api.NewNotificationHandler(notificationRepo, hub, logger)
	analyticsHandler := api.NewAnalyticsHandler(analyticsRepo, ideaRepo, userRepo, logger)
	userHandler := api.NewUserHandler(userRepo, ideaRepo, favoriteRepo, commentRepo, uploader, logger)
	companyHandler := api.NewCompanyHandler(companyRepo, teamRepo, userRepo, logger)
	forgeHandler := api.NewForgeHandler(forgeSvc, ideaRepo, userRepo, logger)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := gin.New()
	srv.Use(gin.Recovery())

	srv.GET("/v1/health", func(c *gin.Context) {
		if err := database.Health(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := srv.Group("/v1")

	v1.POST("/auth/signup", authHandler.Signup)
	v1.POST("/auth/login", authHandler.Login)

	// Reads work anonymously; a valid token upgrades visibility to the
	// caller's drafts and company-internal ideas.
	public := v1.Group("")
	public.Use(middleware.OptionalAuth(cfg.JWTSecret))
	{
		public.GET("/ideas", ideaHandler.List)
		public.GET("/ideas/:id", ideaHandler.GetByID)
		public.GET("/ideas/:id/connections", ideaHandler.Connections)
		public.GET("/ideas/:id/comments", commentHandler.List)
		public.GET("/ideas/:id/contributions", contributionHandler.ListByIdea)
		public.POST("/ideas/:id/view", ideaHandler.View)
		public.GET("/users/:username", userHandler.GetByUsername)
		public.GET("/users/:username/ideas", ideaHandler.ListByAuthor)
		public.GET("/users/:username/comments", commentHandler.ListByAuthor)
		public.GET("/users/:username/contributions", contributionHandler.ListByAuthor)
	}

	authed := v1.Group("")
	authed.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		authed.POST("/ideas", ideaHandler.Create)
		authed.POST("/ideas/:id/publish", ideaHandler.Publish)
		authed.POST("/ideas/:id/echo", ideaHandler.Echo)
		authed.POST("/ideas/:id/contributors", ideaHandler.AddContributor)
		authed.POST("/ideas/:id/comments", commentHandler.Create)
		authed.POST("/ideas/:id/contributions", contributionHandler.Create)
		authed.POST("/ideas/:id/favorite", favoriteHandler.Toggle)
		authed.GET("/ideas/:id/favorite", favoriteHandler.Status)
		authed.POST("/ideas/:id/analyze", forgeHandler.Analyze)
		authed.POST("/ideas/:id/brainstorm", forgeHandler.Brainstorm)

		authed.POST("/comments/:id/reactions", commentHandler.React)

		authed.GET("/favorites", favoriteHandler.List)

		authed.GET("/notifications", notificationHandler.List)
		authed.POST("/notifications/read-all", notificationHandler.MarkAllRead)
		authed.POST("/notifications/:id/read", notificationHandler.MarkRead)
		authed.GET("/notifications/ws", notificationHandler.Stream)

		authed.GET("/me", userHandler.Me)
		authed.PATCH("/me", userHandler.UpdateMe)
		authed.POST("/me/images/:field", userHandler.UploadImage)
		authed.GET("/me/settings", userHandler.GetSettings)
		authed.PUT("/me/settings", userHandler.PutSettings)
		authed.GET("/me/progress", userHandler.Progress)

		authed.GET("/analytics/me", analyticsHandler.ForUser)
		authed.GET("/analytics/company/:id", analyticsHandler.ForCompany)

		authed.POST("/billing/upgrade", companyHandler.Upgrade)
		authed.GET("/companies/:id", companyHandler.GetByID)
		authed.GET("/companies/:id/teams", companyHandler.ListTeams)
		authed.POST("/companies/:id/teams", companyHandler.CreateTeam)

		authed.POST("/forge/refine", forgeHandler.Refine)
		authed.POST("/forge/image", forgeHandler.AnalyzeImage)
	}

	logger.Info("starting ideanet",
		zap.String("port", cfg.Port),
		zap.String("env", cfg.Env),
	)

	if err := srv.Run(":" + cfg.Port); err != nil {
		return fmt.Errorf("run server: %w", err)
	}

	return nil
}
