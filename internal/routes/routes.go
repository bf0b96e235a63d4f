// Package routes wires domain handlers onto the gin router.
package routes

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/tripmate/tripmate/internal/app/domain/assistant"
	"github.com/tripmate/tripmate/internal/app/domain/auth"
	"github.com/tripmate/tripmate/internal/app/domain/trips"
	"github.com/tripmate/tripmate/internal/app/middleware"
	"github.com/tripmate/tripmate/internal/pkg/config"
)

// Setup builds every service and registers the API routes.
func Setup(r *gin.Engine, cfg *config.Config, dbPool *pgxpool.Pool, logger *zap.Logger) error {
	gemini, err := assistant.NewGeminiClient(context.Background(), cfg.Gemini, logger)
	if err != nil {
		return fmt.Errorf("creating gemini client: %w", err)
	}
	assistantHandlers := assistant.NewHandlers(assistant.NewService(gemini, logger), logger)

	authService := auth.NewService(auth.NewPostgresRepo(dbPool, logger), cfg.Auth, logger)
	authHandlers := auth.NewHandlers(authService, logger)

	tripsHandlers := trips.NewHandlers(trips.NewService(trips.NewPostgresRepo(dbPool, logger), logger), logger)

	requireAuth := authService.JWTConfig()
	optionalAuth := requireAuth
	optionalAuth.Optional = true

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandlers.HandleRegister)
			authGroup.POST("/login", authHandlers.HandleLogin)
			authGroup.GET("/me", middleware.JWTAuthMiddleware(requireAuth), authHandlers.HandleMe)
		}

		// Anyone can chat; saving requires an account.
		chat := api.Group("/chat", middleware.JWTAuthMiddleware(optionalAuth))
		{
			chat.POST("/stream", assistantHandlers.HandleChatStream)
		}

		itinerary := api.Group("/itinerary")
		{
			itinerary.POST("/generate", middleware.JWTAuthMiddleware(optionalAuth), assistantHandlers.HandleGenerateItinerary)

			authed := itinerary.Group("", middleware.JWTAuthMiddleware(requireAuth))
			{
				authed.POST("", tripsHandlers.HandleSave)
				authed.GET("", tripsHandlers.HandleList)
				authed.GET("/:id", tripsHandlers.HandleGet)
				authed.DELETE("/:id", tripsHandlers.HandleDelete)
			}
		}
	}

	return nil
}
