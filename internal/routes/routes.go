package routes

import (
	"github.com/gin-gonic/gin"

	"afisha/internal/handlers"
	"afisha/internal/middleware"
)

func SetupRoutes(
	r *gin.Engine,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	eventHandler *handlers.EventHandler,
	favoriteHandler *handlers.FavoriteHandler,
	directoryHandler *handlers.DirectoryHandler,
) *gin.Engine {

	// ---- public
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.POST("/send-sms/", authHandler.SendSMS)
	r.POST("/token/", authHandler.Token)
	r.POST("/token/refresh/", authHandler.RefreshToken)

	// ---- protected
	r.Use(middleware.AuthMiddleware())

	// Пользователи
	r.GET("/user/", userHandler.CurrentUser)
	r.PUT("/user/", userHandler.UpdateCurrentUser)
	users := r.Group("/users")
	{
		users.GET("/", userHandler.List)
		users.GET("/:id/", userHandler.GetByID)
		users.GET("/:id/events/", eventHandler.UserEvents)
	}

	// События и участие
	events := r.Group("/events")
	{
		events.GET("/", eventHandler.List)
		events.GET("/:id/", eventHandler.GetByID)
		events.POST("/:id/", eventHandler.Join)
		events.DELETE("/:id/", eventHandler.Leave)
		events.GET("/:id/users/", eventHandler.Participants)
	}

	// Остальное
	r.GET("/competence/", directoryHandler.Competences)
	r.GET("/tags/", directoryHandler.Tags)
	r.GET("/cities/", directoryHandler.Cities)

	favorite := r.Group("/favorite")
	{
		favorite.GET("/", favoriteHandler.List)
		favorite.POST("/", favoriteHandler.Add)
		favorite.DELETE("/", favoriteHandler.Remove)
	}

	return r
}
