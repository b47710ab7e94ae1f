package api

import (
	"net/http"
	"time"

	"github.com/convention-api/internal/config"
	"github.com/convention-api/internal/service"
	"github.com/convention-api/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(requestIDMiddleware())
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())

	// Handlers
	accountHandler := NewAccountHandler(services, cfg, log)
	commentHandler := NewCommentHandler(services, cfg, log)
	postHandler := NewPostHandler(services, cfg, log)

	// Health check
	router.GET("/health", healthCheck)
	router.GET("/metrics", metricsHandler(services))

	account := router.Group("/api/account")
	{
		account.GET("/:id", accountHandler.GetAccount)
		account.GET("", accountHandler.PageAccounts)
		account.POST("", accountHandler.CreateAccount)
		account.PUT("", accountHandler.UpdateAccount)
		account.DELETE("", accountHandler.DeleteAccount)
		account.PUT("/retrieve", accountHandler.RetrieveAccounts)
	}

	comment := router.Group("/api/comment")
	{
		comment.GET("/:id", commentHandler.GetComment)
		comment.GET("", commentHandler.PageComments)
		comment.POST("", commentHandler.CreateComment)
		comment.PUT("", commentHandler.RelinkComment)
		comment.DELETE("", commentHandler.DeleteComment)
		comment.PUT("/retrieve", commentHandler.RetrieveComments)
	}

	posts := router.Group("/posts")
	{
		posts.GET("", postHandler.PagePosts)
		posts.POST("", postHandler.CreatePost)
		posts.PUT("", postHandler.UpdatePost)
		posts.DELETE("", postHandler.DeletePost)
		posts.PUT("/retrieve", postHandler.RetrievePosts)
	}

	return router
}

// healthCheck returns the health status
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "convention-api",
	})
}

// metricsHandler returns active record counts per kind
func metricsHandler(services *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		accounts, _ := services.Account.Count(ctx)
		comments, _ := services.Comment.Count(ctx)
		posts, _ := services.Post.Count(ctx)

		c.JSON(http.StatusOK, gin.H{
			"database": gin.H{
				"accounts": accounts,
				"comments": comments,
				"posts":    posts,
			},
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}

// requestIDMiddleware assigns each request a correlation id and threads it
// through the request context so store failures can be tied back to the
// request.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		c.Writer.Header().Set("X-Request-ID", id)
		c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Msg("Panic recovered")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("request_id", logger.RequestID(c.Request.Context())).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// corsMiddleware handles CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
