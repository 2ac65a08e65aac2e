package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/filmpulse/filmpulse-backend/internal/handlers"
	"github.com/filmpulse/filmpulse-backend/internal/middleware"
	"github.com/filmpulse/filmpulse-backend/internal/types"
)

type RouterConfig struct {
	AuthHandler         *handlers.AuthHandler
	UserHandler         *handlers.UserHandler
	MovieHandler        *handlers.MovieHandler
	TMDbHandler         *handlers.TMDbHandler
	LiveReactionHandler *handlers.LiveReactionHandler
	ReviewHandler       *handlers.ReviewHandler
	NLPHandler          *handlers.NLPHandler
	AggregationHandler  *handlers.AggregationHandler
	ModerationHandler   *handlers.ModerationHandler
	SocialHandler       *handlers.SocialHandler
	CollectionHandler   *handlers.CollectionHandler
	NotificationHandler *handlers.NotificationHandler
	SSEHandler          *handlers.SSEHandler
	AuthMiddleware      *middleware.AuthMiddleware
	RoleMiddleware      *middleware.RoleMiddleware
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/register", cfg.AuthHandler.Register)
	router.POST("/login", cfg.AuthHandler.Login)
	router.GET("/api/movies", cfg.MovieHandler.Search)
	router.GET("/api/movies/:id", cfg.MovieHandler.GetDetail)
	router.GET("/api/movies/:id/reviews", cfg.ReviewHandler.ListByMovie)

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	// Auth
	protected.POST("/refresh", cfg.AuthHandler.Refresh)
	protected.POST("/logout", cfg.AuthHandler.Logout)
	// SSE
	protected.GET("/sse/stream", cfg.SSEHandler.Stream)
	protected.POST("/sse/subscribe", cfg.SSEHandler.Subscribe)
	protected.POST("/sse/unsubscribe", cfg.SSEHandler.Unsubscribe)
	// User
	protected.GET("/api/user", cfg.UserHandler.GetMe)
	protected.GET("/api/users/:id", cfg.UserHandler.GetUser)
	protected.PUT("/api/user/profile", cfg.UserHandler.UpdateProfile)
	protected.POST("/api/user/avatar", cfg.UserHandler.UploadAvatar)
	// Live reactions
	protected.POST("/api/live-sessions", cfg.LiveReactionHandler.Start)
	protected.GET("/api/live-sessions/:id", cfg.LiveReactionHandler.GetState)
	protected.POST("/api/live-sessions/:id/score", cfg.LiveReactionHandler.SetScore)
	protected.POST("/api/live-sessions/:id/pause", cfg.LiveReactionHandler.Pause)
	protected.POST("/api/live-sessions/:id/resume", cfg.LiveReactionHandler.Resume)
	protected.POST("/api/live-sessions/:id/reset", cfg.LiveReactionHandler.Reset)
	protected.POST("/api/live-sessions/:id/finish", cfg.LiveReactionHandler.Finish)
	// Reviews
	protected.POST("/api/reviews", cfg.ReviewHandler.Submit)
	protected.GET("/api/reviews/mine", cfg.ReviewHandler.ListMine)
	// Social
	protected.POST("/api/users/:id/follow", cfg.SocialHandler.Follow)
	protected.DELETE("/api/users/:id/follow", cfg.SocialHandler.Unfollow)
	protected.GET("/api/users/:id/followers", cfg.SocialHandler.ListFollowers)
	protected.GET("/api/users/:id/following", cfg.SocialHandler.ListFollowing)
	protected.POST("/api/graphs/:id/like", cfg.SocialHandler.LikeGraph)
	protected.DELETE("/api/graphs/:id/like", cfg.SocialHandler.UnlikeGraph)
	protected.POST("/api/reviews/:id/like", cfg.SocialHandler.LikeReview)
	protected.DELETE("/api/reviews/:id/like", cfg.SocialHandler.UnlikeReview)
	protected.POST("/api/graphs/:id/comments", cfg.SocialHandler.CommentOnGraph)
	protected.GET("/api/graphs/:id/comments", cfg.SocialHandler.ListGraphComments)
	protected.POST("/api/reviews/:id/comments", cfg.SocialHandler.CommentOnReview)
	protected.GET("/api/reviews/:id/comments", cfg.SocialHandler.ListReviewComments)
	// Collections
	protected.POST("/api/collections", cfg.CollectionHandler.Create)
	protected.GET("/api/users/:id/collections", cfg.CollectionHandler.ListForUser)
	protected.DELETE("/api/collections/:id", cfg.CollectionHandler.Delete)
	protected.POST("/api/collections/:id/items", cfg.CollectionHandler.AddItem)
	protected.GET("/api/collections/:id/items", cfg.CollectionHandler.ListItems)
	protected.DELETE("/api/collections/:id/items/:itemID", cfg.CollectionHandler.RemoveItem)
	// Notifications
	protected.GET("/api/notifications", cfg.NotificationHandler.List)
	protected.POST("/api/notifications/read", cfg.NotificationHandler.MarkRead)
	protected.POST("/api/notifications/read-all", cfg.NotificationHandler.MarkAllRead)

	// ===============
	// || Admin     ||
	// ===============
	admin := router.Group("/api/admin")
	admin.Use(cfg.AuthMiddleware.RequireAuth())
	admin.Use(cfg.RoleMiddleware.RequireRole(types.RoleAdmin, types.RoleModerator))
	admin.GET("/tmdb/search", cfg.TMDbHandler.SearchCatalog)
	admin.POST("/tmdb/import", cfg.TMDbHandler.ImportMovie)
	admin.POST("/movies/:id/analyze", cfg.NLPHandler.AnalyzeMovie)
	admin.POST("/movies/:id/aggregate", cfg.AggregationHandler.AggregateMovie)
	admin.POST("/aggregate-all", cfg.AggregationHandler.AggregateAll)
	admin.POST("/reviews/:id/regenerate", cfg.ReviewHandler.Regenerate)
	admin.POST("/graphs/:id/moderate", cfg.ModerationHandler.ModerateGraph)
	admin.POST("/reviews/:id/moderate", cfg.ModerationHandler.ModerateReview)
	admin.POST("/comments/:id/moderate", cfg.ModerationHandler.ModerateComment)

	return router
}
