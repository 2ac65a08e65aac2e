package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/filmpulse/filmpulse-backend/internal/clients/gcp"
	"github.com/filmpulse/filmpulse-backend/internal/clients/openai"
	"github.com/filmpulse/filmpulse-backend/internal/clients/redis"
	"github.com/filmpulse/filmpulse-backend/internal/clients/tmdb"
	"github.com/filmpulse/filmpulse-backend/internal/db"
	"github.com/filmpulse/filmpulse-backend/internal/handlers"
	"github.com/filmpulse/filmpulse-backend/internal/logger"
	"github.com/filmpulse/filmpulse-backend/internal/middleware"
	"github.com/filmpulse/filmpulse-backend/internal/repos"
	"github.com/filmpulse/filmpulse-backend/internal/server"
	"github.com/filmpulse/filmpulse-backend/internal/services"
	"github.com/filmpulse/filmpulse-backend/internal/sse"
	"github.com/filmpulse/filmpulse-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Warn("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	userTokenRepo := repos.NewUserTokenRepo(thePG, log)
	userRoleRepo := repos.NewUserRoleRepo(thePG, log)
	movieRepo := repos.NewMovieRepo(thePG, log)
	graphRepo := repos.NewEmotionGraphRepo(thePG, log)
	sessionRepo := repos.NewLiveReactionSessionRepo(thePG, log)
	reviewRepo := repos.NewManualReviewRepo(thePG, log)
	followerRepo := repos.NewFollowerRepo(thePG, log)
	likeRepo := repos.NewLikeRepo(thePG, log)
	commentRepo := repos.NewCommentRepo(thePG, log)
	collectionRepo := repos.NewCollectionRepo(thePG, log)
	notificationRepo := repos.NewNotificationRepo(thePG, log)

	// SSE
	log.Info("Setting up SSE hub now...")
	sseHub := sse.NewSSEHub(log)
	sseBus, err := redis.NewSSEBus(log)
	if err != nil {
		log.Warn("Could not init redis SSE bus; running single-instance", "error", err)
		sseBus = nil
	} else {
		if fErr := sseBus.StartForwarder(context.Background(), sseHub.Broadcast); fErr != nil {
			log.Warn("Could not start redis SSE forwarder", "error", fErr)
		}
	}

	// Clients
	log.Info("Setting up external clients from main...")
	bucketService, err := gcp.NewBucketService(log)
	if err != nil {
		log.Warn("Could not init BucketService", "error", err)
	}
	openaiClient, err := openai.NewClient(log)
	if err != nil {
		log.Warn("Could not init OpenAI client; NLP analysis disabled", "error", err)
	}
	tmdbClient, err := tmdb.NewClient(log)
	if err != nil {
		log.Warn("Could not init TMDb client; catalog import disabled", "error", err)
	}

	// Services
	log.Info("Setting up Services from main...")
	avatarService, err := services.NewAvatarService(thePG, log, userRepo, bucketService)
	if err != nil {
		log.Error("Could not init AvatarService", "error", err)
		os.Exit(1)
	}
	authService := services.NewAuthService(thePG, log, userRepo, userRoleRepo, userTokenRepo, avatarService, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
	userService := services.NewUserService(thePG, log, userRepo, avatarService)
	notificationService := services.NewNotificationService(thePG, log, notificationRepo, sseHub, sseBus)
	movieService := services.NewMovieService(thePG, log, movieRepo, graphRepo, reviewRepo)
	tmdbImportService := services.NewTMDbImportService(thePG, log, movieRepo, tmdbClient, bucketService)
	liveReactionService := services.NewLiveReactionService(thePG, log, sessionRepo, graphRepo)
	reviewService := services.NewReviewService(thePG, log, reviewRepo, graphRepo)
	nlpService := services.NewNLPService(thePG, log, movieRepo, reviewRepo, graphRepo, openaiClient)
	aggregationService := services.NewAggregationService(thePG, log, movieRepo, graphRepo, sseHub, sseBus)
	moderationService := services.NewModerationService(thePG, log, graphRepo, reviewRepo, commentRepo, notificationService)
	socialService := services.NewSocialService(thePG, log, userRepo, followerRepo, likeRepo, commentRepo, graphRepo, reviewRepo, notificationService)
	collectionService := services.NewCollectionService(thePG, log, collectionRepo, movieRepo)

	// Handlers
	log.Info("Setting up handlers from main...")
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	movieHandler := handlers.NewMovieHandler(movieService)
	tmdbHandler := handlers.NewTMDbHandler(tmdbImportService)
	liveReactionHandler := handlers.NewLiveReactionHandler(liveReactionService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	nlpHandler := handlers.NewNLPHandler(nlpService)
	aggregationHandler := handlers.NewAggregationHandler(aggregationService)
	moderationHandler := handlers.NewModerationHandler(moderationService)
	socialHandler := handlers.NewSocialHandler(socialService)
	collectionHandler := handlers.NewCollectionHandler(collectionService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	sseHandler := handlers.NewSSEHandler(log, sseHub)

	// Middleware
	log.Info("Setting up middleware from main...")
	authMiddleware := middleware.NewAuthMiddleware(log, authService)
	roleMiddleware := middleware.NewRoleMiddleware(log, userRoleRepo)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		AuthHandler:         authHandler,
		UserHandler:         userHandler,
		MovieHandler:        movieHandler,
		TMDbHandler:         tmdbHandler,
		LiveReactionHandler: liveReactionHandler,
		ReviewHandler:       reviewHandler,
		NLPHandler:          nlpHandler,
		AggregationHandler:  aggregationHandler,
		ModerationHandler:   moderationHandler,
		SocialHandler:       socialHandler,
		CollectionHandler:   collectionHandler,
		NotificationHandler: notificationHandler,
		SSEHandler:          sseHandler,
		AuthMiddleware:      authMiddleware,
		RoleMiddleware:      roleMiddleware,
	})

	port := utils.GetEnv("PORT", "8080", log)
	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Warn("Server failed", "error", err)
	}
}
